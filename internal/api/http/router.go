package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/rental-moderation/internal/api/http/handlers"
	"github.com/spec-kit/rental-moderation/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Listings       *handlers.ListingsHandler
	Auth           *handlers.AuthHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes. Reads and login are open; the
// mutating listing endpoints need an admin token so decisions can be
// attributed to a moderator.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	app.Post("/login", cfg.Auth.Login)

	app.Get("/listings", cfg.Listings.List)
	app.Get("/listings/stats", cfg.Listings.Stats)

	protected := app.Group("/listings", cfg.AuthMiddleware.Handle)
	protected.Put("", cfg.Listings.SetStatus)
	protected.Post("", cfg.Listings.Update)
}
