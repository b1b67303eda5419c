package community

import (
	"errors"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/gofiber/fiber/v2"

	"github.com/solucionalbania/club-api/internal/dto"
	"github.com/solucionalbania/club-api/internal/handlers"
	"github.com/solucionalbania/club-api/internal/middleware"
)

type PostHandler struct {
	service *PostService
}

func NewPostHandler(service *PostService) *PostHandler {
	return &PostHandler{service: service}
}

type CreatePostRequest struct {
	AuthorID   string `json:"author_id"`
	AuthorName string `json:"author_name"`
	Title      string `json:"title"`
	Body       string `json:"body"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	City       string `json:"city"`
}

func (r CreatePostRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.AuthorID, validation.Required, validation.Length(1, 36)),
		validation.Field(&r.AuthorName, validation.Required, validation.Length(1, 255)),
		validation.Field(&r.Title, validation.Required, validation.Length(1, 255)),
		validation.Field(&r.Body, validation.Required, validation.Length(1, 10000)),
		validation.Field(&r.Email, is.Email),
		validation.Field(&r.Phone, validation.Length(0, 50)),
		validation.Field(&r.City, validation.Length(0, 255)),
	)
}

func (h *PostHandler) List(c *fiber.Ctx) error {
	posts, err := h.service.List(c.UserContext())
	if err != nil {
		return handlers.RespondError(c, err)
	}
	return c.JSON(posts)
}

func (h *PostHandler) GetByID(c *fiber.Ctx) error {
	post, err := h.service.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return handlers.RespondError(c, err)
	}
	return c.JSON(post)
}

func (h *PostHandler) Create(c *fiber.Ctx) error {
	var req CreatePostRequest
	if err := handlers.ParseBody(c, &req); err != nil {
		return handlers.RespondError(c, err)
	}

	post, err := h.service.Create(c.UserContext(), &req)
	if err != nil {
		return handlers.RespondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(post)
}

func (h *PostHandler) Delete(c *fiber.Ctx) error {
	userID, _ := middleware.CurrentUserID(c)
	actor := Actor{
		UserID:   userID,
		Role:     middleware.CurrentRole(c),
		Operator: middleware.IsOperator(c),
	}

	err := h.service.DeleteAs(c.UserContext(), c.Params("id"), actor)
	if errors.Is(err, ErrNotAuthor) {
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Error: true, Message: err.Error()})
	}
	if err != nil {
		return handlers.RespondError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "Post deleted"})
}
