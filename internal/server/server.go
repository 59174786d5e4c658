// Package server assembles the Fiber application: middleware, route groups and error handling.
package server

import (
	"errors"
	"strings"
	"time"

	"visualcaption/internal/handlers"
	"visualcaption/internal/middleware"
	"visualcaption/internal/services"
	"visualcaption/pkg/metrics"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/sirupsen/logrus"
)

// Options carries the wired services the app routes to.
type Options struct {
	Logger         *logrus.Logger
	AllowedOrigins []string
	// AdminAuthRequired puts bearer-token auth in front of every admin route.
	AdminAuthRequired bool
	// AccessLog enables fiber's request logger.
	AccessLog bool
	// HealthChecks are probed by GET /health, keyed by dependency name.
	HealthChecks map[string]func() error

	AuthService     *services.AuthService
	FeedbackService *services.FeedbackService
	AdminService    *services.AdminService
	UploadService   *services.UploadService
	CaptionService  *services.CaptionService
	ImageService    *services.ImageService
	HistoryService  *services.HistoryService
}

// New builds the Fiber app with every route group mounted.
func New(opts Options) *fiber.App {
	log := opts.Logger

	// Immutable: parsed params and bodies outlive the request in the OTP and history stores.
	app := fiber.New(fiber.Config{
		AppName:      "visualcaption",
		ErrorHandler: errorHandler(log),
		BodyLimit:    20 * 1024 * 1024,
		Immutable:    true,
	})

	app.Use(recover.New())
	if opts.AccessLog {
		app.Use(logger.New())
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:     strings.Join(opts.AllowedOrigins, ","),
		AllowMethods:     "GET,POST,PUT,PATCH,DELETE,OPTIONS,HEAD",
		AllowCredentials: true,
	}))
	app.Use(metrics.Middleware())

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"message": "Welcome to Image Caption API!"})
	})
	app.Get("/health", healthHandler(opts.HealthChecks))
	app.Get("/metrics", metrics.Handler())

	var adminGuard []fiber.Handler
	if opts.AdminAuthRequired {
		adminGuard = append(adminGuard, middleware.AuthRequired(opts.AuthService, log))
	}

	adminHandler := handlers.NewAdminHandler(opts.AdminService, opts.UploadService, log)

	api := app.Group("/api")

	auth := api.Group("/auth")
	handlers.NewAuthHandler(opts.AuthService, log).RegisterRoutes(auth)
	handlers.NewFeedbackHandler(opts.FeedbackService, log).RegisterRoutes(auth)
	adminHandler.RegisterRoutes(auth.Group("/admin", adminGuard...))

	handlers.NewCaptionHandler(opts.CaptionService, log).RegisterRoutes(api.Group("/caption"))
	handlers.NewImageHandler(opts.ImageService, log).RegisterRoutes(api.Group("/image"))
	handlers.NewHistoryHandler(opts.HistoryService, log).RegisterRoutes(api)

	uploads := app.Group("/uploads")
	handlers.NewUploadHandler(opts.UploadService, log).RegisterRoutes(uploads)
	adminHandler.RegisterCaptionRoutes(uploads.Group("/admin", adminGuard...))

	return app
}

// errorHandler renders errors that escaped the handlers as {"detail": ...}.
func errorHandler(log *logrus.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		detail := "Internal server error"

		var fe *fiber.Error
		if errors.As(err, &fe) {
			code = fe.Code
			detail = fe.Message
		} else {
			log.WithError(err).WithField("path", c.Path()).Error("unhandled error")
		}
		return c.Status(code).JSON(fiber.Map{"detail": detail})
	}
}

func healthHandler(checks map[string]func() error) fiber.Handler {
	return func(c *fiber.Ctx) error {
		status := "healthy"
		results := make(map[string]string, len(checks))
		for name, check := range checks {
			if err := check(); err != nil {
				results[name] = err.Error()
				status = "degraded"
				continue
			}
			results[name] = "ok"
		}

		code := fiber.StatusOK
		if status != "healthy" {
			code = fiber.StatusServiceUnavailable
		}
		return c.Status(code).JSON(fiber.Map{
			"status": status,
			"time":   time.Now().Format(time.RFC3339),
			"checks": results,
		})
	}
}
