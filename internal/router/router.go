package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/shipai-tjc/logbook-api/internal/config"
	"github.com/shipai-tjc/logbook-api/internal/handler"
	"github.com/shipai-tjc/logbook-api/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	StudentHandler    *handler.StudentHandler
	TeacherHandler    *handler.TeacherHandler
	ClassHandler      *handler.ClassHandler
	SessionHandler    *handler.SessionHandler
	AssignmentHandler *handler.AssignmentHandler
	StatisticsHandler *handler.StatisticsHandler
	ReportHandler     *handler.ReportHandler
	PromotionHandler  *handler.PromotionHandler
	ActivityHandler   *handler.ActivityHandler
	JWTMiddleware     fiber.Handler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg))
	app.Get("/metrics", observability.MetricsHandler())

	// Use provided JWT middleware, or a no-op if nil
	jwtMiddleware := deps.JWTMiddleware
	if jwtMiddleware == nil {
		jwtMiddleware = func(c *fiber.Ctx) error { return c.Next() }
	}

	if deps.StudentHandler != nil {
		deps.StudentHandler.Register(api.Group("/students", jwtMiddleware))
	}
	if deps.TeacherHandler != nil {
		deps.TeacherHandler.Register(api.Group("/teachers", jwtMiddleware))
	}
	if deps.ClassHandler != nil {
		deps.ClassHandler.Register(api.Group("/classes", jwtMiddleware))
	}
	if deps.SessionHandler != nil {
		deps.SessionHandler.Register(api.Group("/sessions", jwtMiddleware))
	}
	if deps.AssignmentHandler != nil {
		deps.AssignmentHandler.Register(api.Group("/assignments", jwtMiddleware))
	}
	if deps.StatisticsHandler != nil {
		deps.StatisticsHandler.Register(api.Group("/statistics", jwtMiddleware))
	}
	if deps.ReportHandler != nil {
		deps.ReportHandler.Register(api.Group("/reports", jwtMiddleware))
	}
	if deps.PromotionHandler != nil {
		deps.PromotionHandler.Register(api.Group("/promotions", jwtMiddleware))
	}
	if deps.ActivityHandler != nil {
		deps.ActivityHandler.Register(api.Group("/activities", jwtMiddleware))
	}
}
