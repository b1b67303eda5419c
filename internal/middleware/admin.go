package middleware

import (
	"context"
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"github.com/solucionalbania/club-api/internal/dto"
	"github.com/solucionalbania/club-api/internal/models"
	"github.com/solucionalbania/club-api/internal/services"
)

// AccountLookup resolves the account behind a session token.
type AccountLookup interface {
	GetByID(ctx context.Context, id string) (*dto.UserResponse, error)
}

// LoadAccount runs after JWTProtected and loads the caller's current role.
// Tokens whose account no longer exists are rejected.
func LoadAccount(accounts AccountLookup) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if IsOperator(c) {
			return c.Next()
		}

		sub, ok := CurrentUserID(c)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: true, Message: "Unauthorized",
			})
		}

		user, err := accounts.GetByID(c.UserContext(), sub)
		if errors.Is(err, services.ErrAccountNotFound) {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: true, Message: "Unauthorized: account no longer exists",
			})
		}
		if err != nil {
			slog.Error("failed to load account", "user_id", sub, "error", err)
			return fiber.ErrInternalServerError
		}

		c.Locals(localUserID, user.ID)
		c.Locals(localRole, user.Role)
		return c.Next()
	}
}

// PartnerRequired admits partner accounts and operator requests.
func PartnerRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if IsOperator(c) || CurrentRole(c) == models.RolePartner {
			return c.Next()
		}
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
			Error: true, Message: "Partner access required",
		})
	}
}
