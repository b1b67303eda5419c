package offers

import (
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/gofiber/fiber/v2"

	"github.com/solucionalbania/club-api/internal/dto"
	"github.com/solucionalbania/club-api/internal/handlers"
)

type OfferHandler struct {
	service *OfferService
}

func NewOfferHandler(service *OfferService) *OfferHandler {
	return &OfferHandler{service: service}
}

// --- Request DTOs ---

type CreateOfferRequest struct {
	Title        string `json:"title"`
	Description  string `json:"description"`
	Company      string `json:"company"`
	ImageURL     string `json:"image_url"`
	Discount     string `json:"discount"`
	ContactEmail string `json:"contact_email"`
	ContactPhone string `json:"contact_phone"`
	Address      string `json:"address"`
}

func (r CreateOfferRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Required, validation.Length(1, 255)),
		validation.Field(&r.Description, validation.Required),
		validation.Field(&r.Company, validation.Required, validation.Length(1, 255)),
		validation.Field(&r.ImageURL, is.URL),
		validation.Field(&r.Discount, validation.Length(0, 100)),
		validation.Field(&r.ContactEmail, is.Email),
		validation.Field(&r.ContactPhone, validation.Length(0, 50)),
		validation.Field(&r.Address, validation.Length(0, 500)),
	)
}

// ContactRequest may repeat the offer id in the body; the path wins.
type ContactRequest struct {
	OfferID     string `json:"offer_id"`
	SenderName  string `json:"sender_name"`
	SenderEmail string `json:"sender_email"`
	Message     string `json:"message"`
}

func (r ContactRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.SenderName, validation.Required, validation.Length(1, 255)),
		validation.Field(&r.SenderEmail, validation.Required, is.Email),
		validation.Field(&r.Message, validation.Required, validation.Length(1, 5000)),
	)
}

type ContactResponse struct {
	Message string `json:"message"`
	ID      string `json:"id"`
}

// --- Public handlers ---

func (h *OfferHandler) List(c *fiber.Ctx) error {
	offers, err := h.service.List(c.UserContext())
	if err != nil {
		return handlers.RespondError(c, err)
	}
	return c.JSON(offers)
}

func (h *OfferHandler) GetByID(c *fiber.Ctx) error {
	offer, err := h.service.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return handlers.RespondError(c, err)
	}
	return c.JSON(offer)
}

func (h *OfferHandler) Contact(c *fiber.Ctx) error {
	var req ContactRequest
	if err := handlers.ParseBody(c, &req); err != nil {
		return handlers.RespondError(c, err)
	}

	msg, err := h.service.Contact(c.UserContext(), c.Params("id"), &req)
	if err != nil {
		return handlers.RespondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(ContactResponse{
		Message: "Message sent to " + msg.Company,
		ID:      msg.ID,
	})
}

// --- Partner handlers ---

func (h *OfferHandler) Create(c *fiber.Ctx) error {
	var req CreateOfferRequest
	if err := handlers.ParseBody(c, &req); err != nil {
		return handlers.RespondError(c, err)
	}

	offer, err := h.service.Create(c.UserContext(), &req)
	if err != nil {
		return handlers.RespondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(offer)
}

func (h *OfferHandler) Delete(c *fiber.Ctx) error {
	if err := h.service.Delete(c.UserContext(), c.Params("id")); err != nil {
		return handlers.RespondError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "Offer deleted"})
}
