package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/solucionalbania/club-api/internal/apps"
	"github.com/solucionalbania/club-api/internal/config"
	"github.com/solucionalbania/club-api/internal/handlers"
	"github.com/solucionalbania/club-api/internal/middleware"
	"github.com/solucionalbania/club-api/internal/store"
)

// NewGuards builds the middleware chains shared by the core routes and the
// plugins.
func NewGuards(cfg *config.Config, accounts middleware.AccountLookup) apps.Guards {
	member := apps.Chain{
		middleware.JWTProtected(cfg),
		middleware.LoadAccount(accounts),
	}
	partner := append(apps.Chain{}, member...)
	partner = append(partner, middleware.PartnerRequired())
	return apps.Guards{Member: member, Partner: partner}
}

func Setup(
	app *fiber.App,
	guards apps.Guards,
	backend store.Backend,
	authHandler *handlers.AuthHandler,
	userHandler *handlers.UserHandler,
	healthHandler *handlers.HealthHandler,
	plugins []apps.Plugin,
) {
	api := app.Group("/api")

	// Status
	api.Get("/", healthHandler.Root)
	api.Get("/health", healthHandler.Check)

	// Auth (public)
	auth := api.Group("/auth")
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)
	auth.Post("/google", authHandler.IdentityLogin)
	auth.Get("/verify", authHandler.Verify)
	auth.Post("/reset-password", authHandler.ResetPassword)

	// Protected routes - middleware applied per route so public routes
	// stay unaffected
	auth.Get("/me", guards.Member.Then(authHandler.Me)...)

	// Users
	api.Get("/users/:email", guards.Member.Then(userHandler.GetByEmail)...)
	api.Put("/users/:id", guards.Member.Then(userHandler.Update)...)

	// Content plugins
	for _, p := range plugins {
		p.RegisterRoutes(api, backend, guards)
	}
}
