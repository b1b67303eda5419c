package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/solucionalbania/club-api/internal/dto"
	"github.com/solucionalbania/club-api/internal/middleware"
	"github.com/solucionalbania/club-api/internal/services"
)

type AuthHandler struct {
	authService *services.AuthService
}

func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := ParseBody(c, &req); err != nil {
		return RespondError(c, err)
	}

	resp, err := h.authService.Register(c.UserContext(), &req)
	if err != nil {
		return RespondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(resp)
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := ParseBody(c, &req); err != nil {
		return RespondError(c, err)
	}

	resp, err := h.authService.Login(c.UserContext(), &req)
	if err != nil {
		return RespondError(c, err)
	}

	return c.JSON(resp)
}

func (h *AuthHandler) IdentityLogin(c *fiber.Ctx) error {
	var req dto.IdentityLoginRequest
	if err := ParseBody(c, &req); err != nil {
		return RespondError(c, err)
	}

	resp, err := h.authService.IdentityLogin(c.UserContext(), &req)
	if err != nil {
		return RespondError(c, err)
	}

	return c.JSON(resp)
}

// Verify checks a token passed as ?token= or, failing that, as a bearer
// header.
func (h *AuthHandler) Verify(c *fiber.Ctx) error {
	token := c.Query("token")
	if token == "" {
		token = strings.TrimSpace(strings.TrimPrefix(c.Get(fiber.HeaderAuthorization), "Bearer "))
	}
	if token == "" {
		return RespondError(c, services.ErrInvalidToken)
	}

	user, err := h.authService.Verify(c.UserContext(), token)
	if err != nil {
		return RespondError(c, err)
	}

	return c.JSON(user)
}

func (h *AuthHandler) ResetPassword(c *fiber.Ctx) error {
	var req dto.PasswordResetRequest
	if err := ParseBody(c, &req); err != nil {
		return RespondError(c, err)
	}

	resp, err := h.authService.RequestPasswordReset(c.UserContext(), &req)
	if err != nil {
		return RespondError(c, err)
	}

	return c.JSON(resp)
}

func (h *AuthHandler) Me(c *fiber.Ctx) error {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	user, err := h.authService.GetByID(c.UserContext(), userID)
	if err != nil {
		return RespondError(c, err)
	}

	return c.JSON(user)
}
