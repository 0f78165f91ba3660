package router

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/clinicdesk/clinic-auth/internal/api/handlers"
	"github.com/clinicdesk/clinic-auth/internal/middleware"
	"github.com/clinicdesk/clinic-auth/internal/models"
)

type Router struct {
	app            *fiber.App
	authHandler    *handlers.AuthHandler
	auditHandler   *handlers.AuditHandler
	authMiddleware *middleware.AuthMiddleware
	rateLimiter    *middleware.RateLimiter
}

func NewRouter(
	app *fiber.App,
	authHandler *handlers.AuthHandler,
	auditHandler *handlers.AuditHandler,
	authMiddleware *middleware.AuthMiddleware,
	rateLimiter *middleware.RateLimiter,
) *Router {
	return &Router{
		app:            app,
		authHandler:    authHandler,
		auditHandler:   auditHandler,
		authMiddleware: authMiddleware,
		rateLimiter:    rateLimiter,
	}
}

func (r *Router) SetupRoutes() {
	r.app.Get("/health", handlers.Health)
	r.app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// Public routes
	r.app.Post("/auth/login", r.rateLimiter.Limit(), r.authHandler.Login)
	r.app.Post("/auth/logout", r.authHandler.Logout)

	// Protected routes
	protected := r.app.Group("/", r.authMiddleware.Authenticate())
	protected.Get("/auth/me", r.authHandler.Me)
	protected.Get("/audit-logs", r.authMiddleware.RequireRole(models.RoleOwner), r.auditHandler.List)
}
