package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/job-marketplace/internal/api/http/handlers"
	"github.com/spec-kit/job-marketplace/internal/auth"
)

// IdentityRouteConfig bundles dependencies for the identity service routes.
type IdentityRouteConfig struct {
	Health     *handlers.HealthHandler
	Auth       *handlers.AuthHandler
	Metrics    *handlers.MetricsHandler
	Gatekeeper *auth.Gatekeeper
}

// RegisterIdentityRoutes wires the identity service. The gatekeeper runs on
// every route; the policy table decides which ones it actually gates.
func RegisterIdentityRoutes(app *fiber.App, cfg IdentityRouteConfig) {
	app.Use(cfg.Gatekeeper.Handle)

	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/identity/auth")
	authGroup.Post("/signup", cfg.Auth.Signup)
	authGroup.Get("/verify", cfg.Auth.Verify)
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Post("/refresh", cfg.Auth.Refresh)
	authGroup.Get("/validate", cfg.Auth.Validate)
	authGroup.Post("/logout", cfg.Auth.Logout)
	authGroup.Get("/profile", cfg.Auth.Profile)
	authGroup.Get("/admin/metrics", cfg.Metrics.Auth)
}

// JobRouteConfig bundles dependencies for the job service routes.
type JobRouteConfig struct {
	Health     *handlers.HealthHandler
	Jobs       *handlers.JobsHandler
	Gatekeeper *auth.Gatekeeper
}

// RegisterJobRoutes wires the job service behind its own gatekeeper.
func RegisterJobRoutes(app *fiber.App, cfg JobRouteConfig) {
	app.Use(cfg.Gatekeeper.Handle)

	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	jobs := app.Group("/job/jobs")
	jobs.Get("/public/list", cfg.Jobs.ListPublic)
	jobs.Get("/", cfg.Jobs.List)
	jobs.Post("/", cfg.Jobs.Create)
}
