package middleware

import (
	jwtware "github.com/gofiber/contrib/jwt"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"

	"github.com/solucionalbania/club-api/internal/config"
	"github.com/solucionalbania/club-api/internal/dto"
)

const (
	localToken    = "user"
	localUserID   = "user_id"
	localRole     = "role"
	localOperator = "operator"

	AdminTokenHeader = "X-Admin-Token"
)

// JWTProtected requires a valid session token. Requests carrying the
// operator token skip verification and are marked as operator requests.
func JWTProtected(cfg *config.Config) fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey: jwtware.SigningKey{
			JWTAlg: jwtware.HS256,
			Key:    []byte(cfg.JWTSecret),
		},
		ContextKey: localToken,
		Filter: func(c *fiber.Ctx) bool {
			if isOperator(c, cfg) {
				c.Locals(localOperator, true)
				return true
			}
			return false
		},
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error:   true,
				Message: "Unauthorized: invalid or expired token",
			})
		},
	})
}

func isOperator(c *fiber.Ctx, cfg *config.Config) bool {
	return cfg.AdminToken != "" && c.Get(AdminTokenHeader) == cfg.AdminToken
}

// CurrentUserID returns the subject of the verified session token.
func CurrentUserID(c *fiber.Ctx) (string, bool) {
	if id, ok := c.Locals(localUserID).(string); ok && id != "" {
		return id, true
	}
	token, ok := c.Locals(localToken).(*jwt.Token)
	if !ok || token == nil {
		return "", false
	}
	sub, err := token.Claims.GetSubject()
	if err != nil || sub == "" {
		return "", false
	}
	return sub, true
}

// CurrentRole returns the role loaded by LoadAccount, or "" when none.
func CurrentRole(c *fiber.Ctx) string {
	role, _ := c.Locals(localRole).(string)
	return role
}

// IsOperator reports whether the request was authenticated with the
// operator token instead of a session token.
func IsOperator(c *fiber.Ctx) bool {
	op, _ := c.Locals(localOperator).(bool)
	return op
}
