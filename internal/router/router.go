package router

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/hothanhtai16998/PhotoCloud-sub000/internal/config"
	"github.com/hothanhtai16998/PhotoCloud-sub000/internal/handler"
	"github.com/hothanhtai16998/PhotoCloud-sub000/internal/middleware"
	"github.com/hothanhtai16998/PhotoCloud-sub000/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	AdminUserHandler    *handler.AdminUserHandler
	AdminRoleHandler    *handler.AdminRoleHandler
	ModerationHandler   *handler.ModerationHandler
	AnalyticsHandler    *handler.AnalyticsHandler
	SettingsHandler     *handler.SettingsHandler
	SystemLogHandler    *handler.SystemLogHandler
	UploadHandler       *handler.UploadHandler
	ImageHandler        *handler.ImageHandler
	NotificationHandler *handler.NotificationHandler
	PermissionGate      *middleware.PermissionGate
	JWTMiddleware       fiber.Handler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg))
	app.Get("/metrics", observability.MetricsHandler())

	jwtMiddleware := deps.JWTMiddleware
	if jwtMiddleware == nil {
		jwtMiddleware = func(c *fiber.Ctx) error { return c.Next() }
	}

	// User-facing surface. Uploads and activity tracking are the abuse
	// targets, so both carry a per-user limiter.
	if deps.UploadHandler != nil {
		deps.UploadHandler.Register(api.Group("/upload", jwtMiddleware, middleware.RateLimit("upload", 10, time.Minute)))
	}
	if deps.ImageHandler != nil {
		deps.ImageHandler.Register(api.Group("/images", jwtMiddleware, middleware.RateLimit("images", 120, time.Minute)))
	}
	if deps.NotificationHandler != nil {
		deps.NotificationHandler.Register(api.Group("/notifications", jwtMiddleware))
	}

	// Admin console surface. Every route carries its own permission flag;
	// the gate resolves them from the role table via the snapshot cache.
	if deps.PermissionGate == nil {
		return
	}
	admin := app.Group("/api/admin", jwtMiddleware)

	if deps.AdminUserHandler != nil {
		deps.AdminUserHandler.Register(admin.Group("/users"), deps.PermissionGate)
	}
	if deps.AdminRoleHandler != nil {
		deps.AdminRoleHandler.Register(admin.Group("/roles"), deps.PermissionGate)
	}
	if deps.ModerationHandler != nil {
		deps.ModerationHandler.Register(admin.Group("/moderation"), deps.PermissionGate)
	}
	if deps.AnalyticsHandler != nil {
		deps.AnalyticsHandler.Register(admin.Group("/analytics"), deps.PermissionGate)
	}
	if deps.SettingsHandler != nil {
		deps.SettingsHandler.Register(admin.Group("/settings"), deps.PermissionGate)
	}
	if deps.SystemLogHandler != nil {
		deps.SystemLogHandler.Register(admin.Group("/logs"), deps.PermissionGate)
	}
}
