package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentryfiber "github.com/getsentry/sentry-go/fiber"
	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"gorm.io/gorm"

	"github.com/solucionalbania/club-api/internal/apps"
	"github.com/solucionalbania/club-api/internal/apps/community"
	"github.com/solucionalbania/club-api/internal/apps/daynews"
	"github.com/solucionalbania/club-api/internal/apps/offers"
	"github.com/solucionalbania/club-api/internal/config"
	"github.com/solucionalbania/club-api/internal/database"
	"github.com/solucionalbania/club-api/internal/handlers"
	"github.com/solucionalbania/club-api/internal/logging"
	"github.com/solucionalbania/club-api/internal/mail"
	"github.com/solucionalbania/club-api/internal/middleware"
	"github.com/solucionalbania/club-api/internal/models"
	"github.com/solucionalbania/club-api/internal/repository"
	"github.com/solucionalbania/club-api/internal/routes"
	"github.com/solucionalbania/club-api/internal/services"
	"github.com/solucionalbania/club-api/internal/store"
)

const appName = "Solucion Albania Club"

func main() {
	cfg := config.Load()

	// Structured logging (JSON to stdout)
	stdout := logging.Setup(cfg.LogLevel)

	if cfg.JWTSecret == "" {
		slog.Error("JWT_SECRET environment variable is required")
		os.Exit(1)
	}

	ctx := context.Background()

	// Store
	var (
		db           *gorm.DB
		backend      store.Backend
		pgLogHandler *logging.PGHandler
		cleanupDone  = make(chan struct{})
	)
	switch cfg.DBDriver {
	case config.DriverMemory:
		slog.Warn("using in-memory store, data is lost on restart")
		backend = store.NewMemoryBackend()
	case config.DriverPostgres:
		if cfg.DBPassword == "" {
			slog.Error("DB_PASSWORD environment variable is required")
			os.Exit(1)
		}
		var err error
		db, err = database.Connect(cfg)
		if err != nil {
			slog.Error("database connection failed", "error", err)
			os.Exit(1)
		}
		if err := database.MigrateShared(db); err != nil {
			slog.Error("shared migration failed", "error", err)
			os.Exit(1)
		}
		backend = store.NewGormBackend(db)

		// PostgreSQL log handler (ERROR+ async batch)
		pgLogHandler = logging.NewPGHandler(db)
		slog.SetDefault(slog.New(logging.NewMultiHandler(stdout, pgLogHandler)))

		// Log retention
		logging.StartCleanup(db, cfg.LogRetention, cleanupDone)
	default:
		slog.Error("unknown DB_DRIVER", "driver", cfg.DBDriver)
		os.Exit(1)
	}

	// Mail
	dispatcher := mail.NewDispatcher(newMailTransport(ctx, cfg), cfg.MailFrom, appName)
	if !dispatcher.Configured() {
		slog.Warn("mail not configured, password resets will return temporary passwords in responses",
			"plaintext_fallback", cfg.ResetPlaintextFallback)
	}

	// Identity provider
	identity, err := newIdentityResolver(ctx, cfg)
	if err != nil {
		slog.Error("identity provider setup failed", "error", err)
		os.Exit(1)
	}

	// Services
	users := repository.NewUserRepository(store.CollectionFor[models.User](backend, "email"))
	authService := services.NewAuthService(
		users,
		services.NewPasswordHasher(cfg.BcryptCost),
		services.NewTokenIssuer(cfg.JWTSecret, cfg.JWTExpiry, nil),
		identity,
		services.RandomPasswordGenerator{},
		dispatcher,
		services.AuthOptions{
			LinkPolicy:        cfg.IDPLinkPolicy,
			PlaintextFallback: cfg.ResetPlaintextFallback,
		},
	)

	// Register plugins
	plugins := []apps.Plugin{
		offers.New(),
		community.New(),
		daynews.New(),
	}

	// Migrate plugin models
	if db != nil {
		for _, p := range plugins {
			if pluginModels := p.Models(); len(pluginModels) > 0 {
				if err := database.MigrateModels(db, pluginModels); err != nil {
					slog.Error("plugin migration failed", "plugin", p.ID(), "error", err)
					os.Exit(1)
				}
				slog.Info("plugin migrated", "plugin", p.ID(), "models", len(pluginModels))
			}
		}
	}

	// Handlers
	var ping handlers.Pinger
	if db != nil {
		ping = func() error { return database.Ping(db) }
	}
	authHandler := handlers.NewAuthHandler(authService)
	userHandler := handlers.NewUserHandler(authService)
	healthHandler := handlers.NewHealthHandler(ping)

	// Sentry error tracking
	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			EnableTracing:    true,
			TracesSampleRate: 0.2,
			Environment:      cfg.AppEnv,
		}); err != nil {
			slog.Error("sentry init failed", "error", err)
		} else {
			defer sentry.Flush(2 * time.Second)
		}
	}

	// Fiber app
	app := fiber.New(fiber.Config{
		BodyLimit:    1 * 1024 * 1024,
		ErrorHandler: customErrorHandler,
	})

	// Sentry middleware
	app.Use(sentryfiber.New(sentryfiber.Options{
		Repanic:         true,
		WaitForDelivery: false,
	}))

	// Global middleware
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "${time} | ${status} | ${latency} | ${ip} | ${method} | ${path} | ${locals:requestid}\n",
	}))
	app.Use(middleware.CORS(cfg))
	app.Use(func(c *fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		return c.Next()
	})

	// Routes
	routes.Setup(app, routes.NewGuards(cfg, authService), backend, authHandler, userHandler, healthHandler, plugins)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "port", cfg.Port, "store", cfg.DBDriver)
		if err := app.Listen(":" + cfg.Port); err != nil {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	<-quit
	slog.Info("shutting down server...")

	close(cleanupDone)
	if pgLogHandler != nil {
		pgLogHandler.Stop()
	}
	sentry.Flush(2 * time.Second)

	if err := app.Shutdown(); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	if db != nil {
		if err := database.Close(db); err != nil {
			slog.Error("database close error", "error", err)
		}
	}

	slog.Info("server stopped")
}

// newMailTransport returns nil when mail settings are incomplete; the
// dispatcher then reports every send as failed.
func newMailTransport(ctx context.Context, cfg *config.Config) mail.Transport {
	if !cfg.MailConfigured() {
		return nil
	}
	switch cfg.MailDriver {
	case config.MailDriverSES:
		t, err := mail.NewSESTransport(ctx, cfg.AWSRegion, cfg.MailUsername, cfg.MailPassword)
		if err != nil {
			slog.Error("ses transport setup failed", "error", err)
			return nil
		}
		return t
	default:
		return mail.NewSMTPTransport(cfg.MailHost, cfg.MailPort, cfg.MailUsername, cfg.MailPassword)
	}
}

func newIdentityResolver(ctx context.Context, cfg *config.Config) (services.IdentityResolver, error) {
	if cfg.IDPIssuerURL != "" {
		discoverCtx, cancel := context.WithTimeout(ctx, cfg.IDPClientTimeout)
		defer cancel()
		return services.NewOIDCResolver(discoverCtx, cfg.IDPIssuerURL, cfg.IDPClientID)
	}
	if cfg.IDPClientID == "" {
		slog.Warn("IDP_CLIENT_ID not set, identity token audience is not checked")
	}
	return services.NewTokenInfoResolver(cfg.IDPTokenInfoURL, cfg.IDPClientID, cfg.IDPClientTimeout), nil
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal server error"
	var e *fiber.Error
	if errors.As(err, &e) {
		code = e.Code
		message = e.Message
	}

	// Only expose error details for client errors (4xx), not server errors (5xx)
	if code >= 500 {
		slog.Error("unhandled server error",
			"method", c.Method(),
			"path", c.Path(),
			"request_id", c.Locals(requestid.ConfigDefault.ContextKey),
			"error", err.Error(),
		)
		if hub := sentryfiber.GetHubFromContext(c); hub != nil {
			hub.CaptureException(err)
		}
		message = "Internal server error"
	}

	return c.Status(code).JSON(fiber.Map{
		"error":   true,
		"message": message,
	})
}
