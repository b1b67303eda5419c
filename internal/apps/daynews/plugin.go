package daynews

import (
	"github.com/gofiber/fiber/v2"

	"github.com/solucionalbania/club-api/internal/apps"
	"github.com/solucionalbania/club-api/internal/store"
)

type DayNewsPlugin struct{}

func New() *DayNewsPlugin {
	return &DayNewsPlugin{}
}

func (p *DayNewsPlugin) ID() string { return "day-news" }

func (p *DayNewsPlugin) Models() []interface{} {
	return []interface{}{&Item{}}
}

func (p *DayNewsPlugin) RegisterRoutes(router fiber.Router, backend store.Backend, guards apps.Guards) {
	h := NewNewsHandler(NewNewsService(store.CollectionFor[Item](backend)))

	router.Get("/day-news", h.List)
	router.Get("/day-news/:id", h.GetByID)

	router.Post("/day-news", guards.Partner.Then(h.Create)...)
	router.Delete("/day-news/:id", guards.Partner.Then(h.Delete)...)
}
