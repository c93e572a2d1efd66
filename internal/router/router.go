package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/algotrons/quiz-api/internal/config"
	"github.com/algotrons/quiz-api/internal/handler"
	"github.com/algotrons/quiz-api/internal/middleware"
	"github.com/algotrons/quiz-api/internal/models"
	"github.com/algotrons/quiz-api/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	QuizHandler        *handler.QuizHandler
	QuestionHandler    *handler.QuestionHandler
	ResultHandler      *handler.ResultHandler
	LeaderboardHandler *handler.LeaderboardHandler
	StatisticsHandler  *handler.StatisticsHandler
	UserHandler        *handler.UserHandler
	PaymentHandler     *handler.PaymentHandler
	JWTMiddleware      fiber.Handler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	// Common v1 group for health & headers
	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg))
	api.Get("/metrics", observability.MetricsHandler())

	// Use provided JWT middleware, or a no-op if nil
	jwtMiddleware := deps.JWTMiddleware
	if jwtMiddleware == nil {
		jwtMiddleware = func(c *fiber.Ctx) error { return c.Next() }
	}
	adminOnly := middleware.RequireRole(models.RoleAdmin)

	// Quiz catalog
	if deps.QuizHandler != nil {
		quizzes := api.Group("/quizzes", jwtMiddleware)
		deps.QuizHandler.Register(quizzes)

		adminQuizzes := api.Group("/quizzes", jwtMiddleware, adminOnly)
		deps.QuizHandler.RegisterAdmin(adminQuizzes)
	}

	// Question bank
	if deps.QuestionHandler != nil {
		questions := api.Group("/questions", jwtMiddleware, adminOnly)
		deps.QuestionHandler.Register(questions)
	}

	// Submissions and attempt history
	if deps.ResultHandler != nil {
		results := api.Group("/results", jwtMiddleware)
		deps.ResultHandler.Register(results)
	}

	// Ranked views
	if deps.LeaderboardHandler != nil {
		leaderboard := api.Group("/leaderboard", jwtMiddleware)
		deps.LeaderboardHandler.Register(leaderboard)
	}

	// Aggregated statistics
	if deps.StatisticsHandler != nil {
		statistics := api.Group("/statistics", jwtMiddleware, adminOnly)
		deps.StatisticsHandler.Register(statistics)
	}

	// Account listings
	if deps.UserHandler != nil {
		users := api.Group("/users", jwtMiddleware, adminOnly)
		deps.UserHandler.Register(users)
	}

	// Payment gateway callbacks
	if deps.PaymentHandler != nil {
		payments := api.Group("/payments", jwtMiddleware)
		deps.PaymentHandler.Register(payments)
	}
}
