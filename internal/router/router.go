package router

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/literacy-go-api/internal/config"
	"github.com/noah-isme/literacy-go-api/internal/handler"
	"github.com/noah-isme/literacy-go-api/internal/middleware"
	"github.com/noah-isme/literacy-go-api/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	AuthHandler           *handler.AuthHandler
	ClassHandler          *handler.ClassHandler
	StudentHandler        *handler.StudentHandler
	PassageHandler        *handler.PassageHandler
	QuizHandler           *handler.QuizHandler
	AssessmentHandler     *handler.AssessmentHandler
	ReadingSessionHandler *handler.ReadingSessionHandler
	HealthProbes          map[string]handler.HealthProbe
	JWTMiddleware         fiber.Handler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg, deps.HealthProbes))
	api.Get("/metrics", observability.MetricsHandler())

	jwtMiddleware := deps.JWTMiddleware
	if jwtMiddleware == nil {
		jwtMiddleware = middleware.JWTProtected(cfg.JWTSecret)
	}

	if deps.AuthHandler != nil {
		auth := api.Group("/auth", middleware.RateLimit("auth", cfg.AuthRateLimit, time.Minute))
		deps.AuthHandler.RegisterPublic(auth)

		deps.AuthHandler.RegisterProfile(api.Group("/me", jwtMiddleware))

		admin := api.Group("/admin/users", jwtMiddleware, middleware.RequireRole(middleware.RoleAdmin))
		deps.AuthHandler.RegisterAdmin(admin)
	}

	if deps.ClassHandler != nil {
		deps.ClassHandler.Register(api.Group("/classes", jwtMiddleware))
	}
	if deps.StudentHandler != nil {
		deps.StudentHandler.Register(api.Group("/students", jwtMiddleware))
	}
	if deps.PassageHandler != nil {
		deps.PassageHandler.Register(api.Group("/passages", jwtMiddleware))
	}
	if deps.QuizHandler != nil {
		deps.QuizHandler.Register(api.Group("/quizzes", jwtMiddleware))
	}
	if deps.AssessmentHandler != nil {
		deps.AssessmentHandler.Register(api.Group("/assessments", jwtMiddleware))
	}
	if deps.ReadingSessionHandler != nil {
		deps.ReadingSessionHandler.Register(api.Group("/fluency-reading", jwtMiddleware))
	}
}
