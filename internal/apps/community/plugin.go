package community

import (
	"github.com/gofiber/fiber/v2"

	"github.com/solucionalbania/club-api/internal/apps"
	"github.com/solucionalbania/club-api/internal/store"
)

type CommunityPlugin struct{}

func New() *CommunityPlugin {
	return &CommunityPlugin{}
}

func (p *CommunityPlugin) ID() string { return "community" }

func (p *CommunityPlugin) Models() []interface{} {
	return []interface{}{&Post{}}
}

func (p *CommunityPlugin) RegisterRoutes(router fiber.Router, backend store.Backend, guards apps.Guards) {
	h := NewPostHandler(NewPostService(store.CollectionFor[Post](backend)))

	router.Get("/community-posts", h.List)
	router.Get("/community-posts/:id", h.GetByID)
	router.Post("/community-posts", h.Create)

	// Authors and partners only
	router.Delete("/community-posts/:id", guards.Member.Then(h.Delete)...)
}
