package apps

import (
	"github.com/gofiber/fiber/v2"

	"github.com/solucionalbania/club-api/internal/store"
)

// Plugin defines the interface every content module must implement.
type Plugin interface {
	// ID returns the unique module identifier.
	ID() string

	// Models returns the list of GORM model pointers for AutoMigrate.
	Models() []interface{}

	// RegisterRoutes mounts the module's routes on the given Fiber group.
	// The group is already prefixed with /api; guards are applied per route.
	RegisterRoutes(router fiber.Router, backend store.Backend, guards Guards)
}

// Chain is an ordered list of middleware run before a route handler.
type Chain []fiber.Handler

// Then returns the chain followed by h, without modifying c.
func (c Chain) Then(h fiber.Handler) []fiber.Handler {
	out := make([]fiber.Handler, 0, len(c)+1)
	out = append(out, c...)
	return append(out, h)
}

type Guards struct {
	// Member requires a session token for an existing account, or the
	// operator token.
	Member Chain
	// Partner additionally requires the partner role.
	Partner Chain
}
