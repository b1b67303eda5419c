package offers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/solucionalbania/club-api/internal/apps"
	"github.com/solucionalbania/club-api/internal/store"
)

type OffersPlugin struct{}

func New() *OffersPlugin {
	return &OffersPlugin{}
}

func (p *OffersPlugin) ID() string { return "partner-offers" }

func (p *OffersPlugin) Models() []interface{} {
	return []interface{}{
		&PartnerOffer{},
		&ContactMessage{},
	}
}

func (p *OffersPlugin) RegisterRoutes(router fiber.Router, backend store.Backend, guards apps.Guards) {
	svc := NewOfferService(
		store.CollectionFor[PartnerOffer](backend),
		store.CollectionFor[ContactMessage](backend),
	)
	h := NewOfferHandler(svc)

	// Public routes
	router.Get("/partner-offers", h.List)
	router.Get("/partner-offers/:id", h.GetByID)
	router.Post("/partner-offers/:id/contact", h.Contact)

	// Partner routes
	router.Post("/partner-offers", guards.Partner.Then(h.Create)...)
	router.Delete("/partner-offers/:id", guards.Partner.Then(h.Delete)...)
}
