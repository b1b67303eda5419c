package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/solucionalbania/club-api/internal/dto"
	"github.com/solucionalbania/club-api/internal/middleware"
	"github.com/solucionalbania/club-api/internal/services"
)

type UserHandler struct {
	authService *services.AuthService
}

func NewUserHandler(authService *services.AuthService) *UserHandler {
	return &UserHandler{authService: authService}
}

func (h *UserHandler) GetByEmail(c *fiber.Ctx) error {
	user, err := h.authService.GetByEmail(c.UserContext(), c.Params("email"))
	if err != nil {
		return RespondError(c, err)
	}
	return c.JSON(user)
}

// Update lets an account change its own name. Roles, and other accounts,
// can only be changed with the operator token.
func (h *UserHandler) Update(c *fiber.Ctx) error {
	id := c.Params("id")
	operator := middleware.IsOperator(c)
	if !operator {
		if sub, ok := middleware.CurrentUserID(c); !ok || sub != id {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Error: true, Message: "You can only update your own profile",
			})
		}
	}

	var req dto.UpdateProfileRequest
	if err := ParseBody(c, &req); err != nil {
		return RespondError(c, err)
	}
	if req.Role != nil && !operator {
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
			Error: true, Message: "Role changes require operator access",
		})
	}

	user, err := h.authService.UpdateProfile(c.UserContext(), id, &req)
	if err != nil {
		return RespondError(c, err)
	}
	return c.JSON(user)
}
