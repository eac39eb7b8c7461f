package main

import (
	"context"
	"fmt"
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
	"gorm.io/gorm"

	"github.com/noah-isme/literacy-go-api/internal/config"
	"github.com/noah-isme/literacy-go-api/internal/database"
	"github.com/noah-isme/literacy-go-api/internal/handler"
	"github.com/noah-isme/literacy-go-api/internal/middleware"
	"github.com/noah-isme/literacy-go-api/internal/repository"
	"github.com/noah-isme/literacy-go-api/internal/router"
	"github.com/noah-isme/literacy-go-api/internal/service"
	cloud "github.com/noah-isme/literacy-go-api/pkg/cloudinary"
	"github.com/noah-isme/literacy-go-api/pkg/mail"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Str("service", cfg.AppName).Logger()

	db, err := database.ConnectPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient, err = database.ConnectRedis(context.Background(), cfg.RedisURL, cfg.RedisTimeout)
		if err != nil {
			logger.Warn().Err(err).Msg("redis unavailable; passage cache disabled")
			redisClient = nil
		} else {
			defer redisClient.Close()
		}
	}

	var natsConn *nats.Conn
	if cfg.NATSURL != "" {
		natsConn, err = database.ConnectNATS(cfg.NATSURL, cfg.AppName)
		if err != nil {
			logger.Warn().Err(err).Msg("nats unavailable; session events disabled")
			natsConn = nil
		} else {
			defer natsConn.Drain()
		}
	}

	var audioStorage service.AudioStorage
	uploader, err := cloud.New(cloud.Config{
		CloudName: cfg.CloudinaryCloudName,
		APIKey:    cfg.CloudinaryAPIKey,
		APISecret: cfg.CloudinaryAPISecret,
		Folder:    cfg.CloudinaryUploadFolder,
	}, logger)
	if err != nil {
		logger.Warn().Err(err).Msg("cloudinary not configured; audio uploads disabled")
	} else {
		audioStorage = uploader
	}

	var mailer service.Mailer = mail.NewLog(logger)
	if cfg.SendGridAPIKey != "" {
		mailer = mail.NewSendGrid(cfg.SendGridAPIKey, cfg.AppName, cfg.MailFromAddress, logger)
	}

	var events service.EventPublisher
	if natsConn != nil {
		events = natsConn
	}

	validate := validator.New(validator.WithRequiredStructEnabled())

	userRepo := repository.NewUserRepository(db)
	classRepo := repository.NewClassRepository(db)
	studentRepo := repository.NewStudentRepository(db)
	passageRepo := repository.NewPassageRepository(db)
	quizRepo := repository.NewQuizRepository(db)
	assessmentRepo := repository.NewAssessmentRepository(db)
	sessionRepo := repository.NewReadingSessionRepository(db)

	authService := service.NewAuthService(userRepo, mailer, validate, service.AuthConfig{
		AppName:         cfg.AppName,
		JWTSecret:       cfg.JWTSecret,
		AccessTTL:       cfg.AccessTokenTTL,
		VerificationTTL: cfg.VerificationTokenTTL,
		AdminSignupCode: cfg.AdminSignupCode,
		VerificationURL: cfg.VerificationURL(),
	}, logger)
	classService := service.NewClassService(classRepo, validate, logger)
	studentService := service.NewStudentService(studentRepo, classRepo, validate, logger)
	passageService := service.NewPassageService(passageRepo, redisClient, cfg.PassageCacheTTL, validate, logger)
	quizService := service.NewQuizService(quizRepo, passageRepo, validate, logger)
	assessmentService := service.NewAssessmentService(assessmentRepo, studentRepo, validate, logger)
	sessionService := service.NewReadingSessionService(
		sessionRepo,
		studentRepo,
		passageRepo,
		assessmentRepo,
		audioStorage,
		events,
		validate,
		service.ReadingSessionConfig{AudioNamespace: cfg.AudioNamespace, MaxAudioSizeMB: cfg.AudioMaxSizeMB},
		logger,
	)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
		BodyLimit:    (cfg.AudioMaxSizeMB + 1) * 1024 * 1024,
	})

	middleware.Register(app, middleware.Config{Logger: logger, AllowOrigins: cfg.CORSAllowOrigins})
	router.Register(app, cfg, router.Dependencies{
		AuthHandler:           handler.NewAuthHandler(authService, validate, cfg.LoginURL, logger),
		ClassHandler:          handler.NewClassHandler(classService, validate, logger),
		StudentHandler:        handler.NewStudentHandler(studentService, assessmentService, validate, logger),
		PassageHandler:        handler.NewPassageHandler(passageService, validate, logger),
		QuizHandler:           handler.NewQuizHandler(quizService, validate, logger),
		AssessmentHandler:     handler.NewAssessmentHandler(assessmentService, validate, logger),
		ReadingSessionHandler: handler.NewReadingSessionHandler(sessionService, validate, logger),
		HealthProbes:          healthProbes(db, redisClient, natsConn),
		JWTMiddleware:         middleware.JWTProtected(cfg.JWTSecret),
	})

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	waitForShutdown(app)
}

func healthProbes(db *gorm.DB, redisClient *redis.Client, natsConn *nats.Conn) map[string]handler.HealthProbe {
	probes := map[string]handler.HealthProbe{
		"database": func(ctx context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
	}
	if redisClient != nil {
		probes["redis"] = func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		}
	}
	if natsConn != nil {
		probes["nats"] = func(context.Context) error {
			if !natsConn.IsConnected() {
				return fmt.Errorf("nats status %s", natsConn.Status())
			}
			return nil
		}
	}
	return probes
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
