package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/algotrons/quiz-api/internal/config"
	"github.com/algotrons/quiz-api/internal/database"
	"github.com/algotrons/quiz-api/internal/handler"
	"github.com/algotrons/quiz-api/internal/middleware"
	"github.com/algotrons/quiz-api/internal/models"
	"github.com/algotrons/quiz-api/internal/repository"
	"github.com/algotrons/quiz-api/internal/router"
	"github.com/algotrons/quiz-api/internal/service"
)

const submissionEventSubject = "quiz.submission.scored"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	db, err := database.ConnectPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(&models.User{}, &models.Quiz{}, &models.Question{}, &models.Result{}, &models.QuizPayment{}); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	// Redis and NATS are optional; the engine degrades to uncached reads and
	// no event fan-out without them.
	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient, err = database.ConnectRedis(cfg.RedisURL)
		if err != nil {
			log.Fatalf("failed to connect to redis: %v", err)
		}
		defer redisClient.Close()
	}

	var natsConn *nats.Conn
	if cfg.NATSURL != "" {
		natsConn, err = database.ConnectNATS(cfg.NATSURL)
		if err != nil {
			log.Fatalf("failed to connect to nats: %v", err)
		}
		defer natsConn.Close()
	}

	validate := validator.New(validator.WithRequiredStructEnabled())

	quizRepo := repository.NewQuizRepository(db)
	questionRepo := repository.NewQuestionRepository(db)
	resultRepo := repository.NewResultRepository(db)
	userRepo := repository.NewUserRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)

	quizService := service.NewQuizService(quizRepo, validate, logger)
	questionService := service.NewQuestionService(questionRepo, quizRepo, validate, logger)
	scoringService := service.NewScoringService(quizRepo, questionRepo, resultRepo, paymentRepo, validate, natsConn, submissionEventSubject, logger)
	resultService := service.NewResultService(resultRepo, logger)
	rankingService := service.NewRankingService(resultRepo, quizRepo, userRepo, redisClient, cfg.LeaderboardCacheTTL, logger)
	statisticsService := service.NewStatisticsService(resultRepo, quizRepo, redisClient, cfg.StatsCacheTTL, logger)
	userService := service.NewUserService(userRepo, logger)
	paymentService := service.NewPaymentService(paymentRepo, quizRepo, validate, logger)

	quizHandler := handler.NewQuizHandler(quizService, cfg.DefaultPageSize, logger)
	questionHandler := handler.NewQuestionHandler(questionService, logger)
	resultHandler := handler.NewResultHandler(scoringService, resultService, cfg.DefaultPageSize, logger)
	leaderboardHandler := handler.NewLeaderboardHandler(rankingService, cfg.DefaultPageSize, cfg.LeaderboardPushEvery, logger)
	statisticsHandler := handler.NewStatisticsHandler(statisticsService, logger)
	userHandler := handler.NewUserHandler(userService, cfg.DefaultPageSize, logger)
	paymentHandler := handler.NewPaymentHandler(paymentService, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app, middleware.Config{Logger: &logger})
	router.Register(app, cfg, router.Dependencies{
		QuizHandler:        quizHandler,
		QuestionHandler:    questionHandler,
		ResultHandler:      resultHandler,
		LeaderboardHandler: leaderboardHandler,
		StatisticsHandler:  statisticsHandler,
		UserHandler:        userHandler,
		PaymentHandler:     paymentHandler,
		JWTMiddleware:      middleware.JWTProtected(cfg.JWTSecret),
	})

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	waitForShutdown(app)
}

func waitForShutdown(app *fiber.App) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}

	log.Println("server stopped")
}
