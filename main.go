package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"visualcaption/internal/config"
	"visualcaption/internal/models"
	"visualcaption/internal/repositories"
	"visualcaption/internal/server"
	"visualcaption/internal/services"
	"visualcaption/pkg/blob"
	"visualcaption/pkg/inference"
	"visualcaption/pkg/mailer"
	"visualcaption/pkg/rabbitmq"
	"visualcaption/pkg/vision"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func main() {
	// --- Configuration ---
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}
	log := cfg.NewLogger()

	// --- Relational store ---
	if cfg.PostgresURL == "" {
		log.Fatal("POSTGRES_URL is required")
	}
	db, err := gorm.Open(postgres.Open(cfg.PostgresURL), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.Feedback{}, &models.Upload{}, &models.OTPCode{}); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	userRepo := repositories.NewGORMUserRepository(db)
	feedbackRepo := repositories.NewGORMFeedbackRepository(db)
	uploadRepo := repositories.NewGORMUploadRepository(db)

	healthChecks := map[string]func() error{
		"postgres": func() error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.Ping()
		},
	}

	// --- Document store ---
	var historyRepo repositories.HistoryRepository
	var mongoClient *mongo.Client
	if cfg.MongoURI != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		mongoClient, err = repositories.ConnectMongo(ctx, cfg.MongoURI)
		cancel()
		if err != nil {
			log.Fatalf("Failed to connect to MongoDB: %v", err)
		}
		historyRepo = repositories.NewMongoHistoryRepository(mongoClient, cfg.MongoDB)
		healthChecks["mongo"] = func() error {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			return mongoClient.Ping(ctx, nil)
		}
	} else {
		log.Warn("MONGO_URI not set, caption history is kept in memory")
		historyRepo = repositories.NewMemoryHistoryRepository()
	}
	historyService := services.NewHistoryService(historyRepo, log)

	// --- Broker ---
	var publisher services.EventPublisher
	var mqClient *rabbitmq.Client
	if cfg.RabbitMQURL != "" {
		mqClient, err = rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL}, log)
		if err != nil {
			log.Fatalf("Failed to initialize RabbitMQ client: %v", err)
		}
		publisher = mqClient
	}

	// --- External clients ---
	blobStore, err := newBlobStore(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize blob storage: %v", err)
	}

	var otpMailer services.Mailer
	if cfg.SMTPConfigured() {
		otpMailer = mailer.NewSMTPMailer(mailer.Config{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUsername,
			Password: cfg.SMTPPassword,
			From:     cfg.EmailFrom,
		})
	} else {
		log.Warn("SMTP credentials not configured, OTP codes will only be logged")
		otpMailer = mailer.NewLogMailer(log)
	}

	var otpStore services.OTPStore
	if cfg.OTPBackend == "database" {
		otpStore = services.NewRepositoryOTPStore(repositories.NewGORMOTPRepository(db), cfg.OTPTTL, log)
	} else {
		otpStore = services.NewMemoryOTPStore(cfg.OTPTTL)
	}

	var describer services.Describer
	if cfg.VisionAPIKey != "" {
		describer = vision.NewClient(cfg.VisionAPIKey, cfg.VisionBaseURL, cfg.VisionModel)
	} else {
		log.Warn("VISION_API_KEY not set, destination info is disabled")
	}

	// --- Services ---
	authService := services.NewAuthService(userRepo, otpStore, otpMailer, cfg.JWTSecret, cfg.TokenTTL, log)
	uploadService := services.NewUploadService(uploadRepo, publisher, historyService, log)

	app := server.New(server.Options{
		Logger:            log,
		AllowedOrigins:    cfg.AllowedOrigins(),
		AdminAuthRequired: cfg.AdminAuthRequired,
		AccessLog:         true,
		HealthChecks:      healthChecks,
		AuthService:       authService,
		FeedbackService:   services.NewFeedbackService(userRepo, feedbackRepo),
		AdminService:      services.NewAdminService(userRepo, feedbackRepo, uploadRepo),
		UploadService:     uploadService,
		CaptionService:    services.NewCaptionService(inference.NewClient(cfg.CaptionEndpoint, cfg.CaptionTimeout), describer, log),
		ImageService:      services.NewImageService(blobStore, log),
		HistoryService:    historyService,
	})

	// --- History consumer ---
	if mqClient != nil {
		if err := mqClient.ConsumeUploadEvents(historyService.HandleUploadEvent); err != nil {
			log.Errorf("Failed to start RabbitMQ consumer: %v", err)
		}
	}

	// --- Start HTTP Server ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Infof("Starting server on %s", cfg.AppPort)
		if err := app.Listen(cfg.AppPort); err != nil {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	<-quit
	log.Info("Shutting down server...")

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.Errorf("Error during Fiber shutdown: %v", err)
	}
	if mqClient != nil {
		if err := mqClient.Close(); err != nil {
			log.Errorf("Error closing RabbitMQ: %v", err)
		}
	}
	if mongoClient != nil {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			log.Errorf("Error disconnecting MongoDB: %v", err)
		}
	}
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}
	log.Info("Server gracefully stopped")
}

func newBlobStore(cfg *config.Config) (services.BlobStore, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if cfg.BlobProvider == "minio" {
		return blob.NewMinioStore(ctx, blob.MinioConfig{
			Endpoint:      cfg.MinioEndpoint,
			AccessKey:     cfg.MinioAccessKey,
			SecretKey:     cfg.MinioSecretKey,
			Bucket:        cfg.MinioBucket,
			UseSSL:        cfg.MinioUseSSL,
			PublicBaseURL: cfg.S3PublicBaseURL,
		})
	}
	return blob.NewS3Store(ctx, blob.S3Config{
		Region:        cfg.S3Region,
		Bucket:        cfg.S3Bucket,
		AccessKey:     cfg.S3AccessKey,
		SecretKey:     cfg.S3SecretKey,
		Endpoint:      cfg.S3Endpoint,
		PublicBaseURL: cfg.S3PublicBaseURL,
	})
}
