package daynews

import (
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/gofiber/fiber/v2"

	"github.com/solucionalbania/club-api/internal/dto"
	"github.com/solucionalbania/club-api/internal/handlers"
)

type NewsHandler struct {
	service *NewsService
}

func NewNewsHandler(service *NewsService) *NewsHandler {
	return &NewsHandler{service: service}
}

type CreateItemRequest struct {
	Title      string `json:"title"`
	Body       string `json:"body"`
	ImageURL   string `json:"image_url"`
	AuthorName string `json:"author_name"`
}

func (r CreateItemRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Required, validation.Length(1, 255)),
		validation.Field(&r.Body, validation.Required),
		validation.Field(&r.ImageURL, is.URL),
		validation.Field(&r.AuthorName, validation.Length(0, 255)),
	)
}

func (h *NewsHandler) List(c *fiber.Ctx) error {
	items, err := h.service.List(c.UserContext())
	if err != nil {
		return handlers.RespondError(c, err)
	}
	return c.JSON(items)
}

func (h *NewsHandler) GetByID(c *fiber.Ctx) error {
	item, err := h.service.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return handlers.RespondError(c, err)
	}
	return c.JSON(item)
}

func (h *NewsHandler) Create(c *fiber.Ctx) error {
	var req CreateItemRequest
	if err := handlers.ParseBody(c, &req); err != nil {
		return handlers.RespondError(c, err)
	}

	item, err := h.service.Create(c.UserContext(), &req)
	if err != nil {
		return handlers.RespondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(item)
}

func (h *NewsHandler) Delete(c *fiber.Ctx) error {
	if err := h.service.Delete(c.UserContext(), c.Params("id")); err != nil {
		return handlers.RespondError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "News deleted"})
}
