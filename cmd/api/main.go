package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/cineflow/streaming-api/docs" // Swagger docs
	"github.com/cineflow/streaming-api/internal/auth"
	"github.com/cineflow/streaming-api/internal/config"
	"github.com/cineflow/streaming-api/internal/logging"
	"github.com/cineflow/streaming-api/internal/metrics"
	"github.com/cineflow/streaming-api/internal/middleware"
	"github.com/cineflow/streaming-api/internal/payment"
	"github.com/cineflow/streaming-api/internal/routes"
	"github.com/cineflow/streaming-api/internal/store"
	apperrors "github.com/cineflow/streaming-api/pkg/errors"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/sirupsen/logrus"
)

// @title Streaming API
// @version 1.0
// @description Media-streaming platform backend: authentication, favorites and simulated subscription payments

// @host localhost:8000
// @BasePath /api/v1

// @securityDefinitions.apikey Bearer
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	// Load configuration. A missing JWT secret fails here, before any
	// request can reach the token path.
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger := logging.New(cfg)

	// Initialize metrics
	if err := metrics.Init(); err != nil {
		logger.WithError(err).Fatal("Failed to initialize metrics")
	}

	// Initialize tracing
	tracingShutdown, err := middleware.InitTracing(&cfg.Observability, cfg.Server.Environment, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to setup tracing")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tracingShutdown(shutdownCtx); err != nil {
			logger.WithError(err).Error("Failed to shutdown tracing")
		}
	}()

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "Streaming API",
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}

			logger.WithError(err).WithFields(logrus.Fields{
				"method": c.Method(),
				"path":   c.Path(),
				"status": code,
			}).Error("Request error")

			return c.Status(code).JSON(fiber.Map{
				"error": fiber.Map{
					"code":     apperrors.CodeInternalError,
					"message":  "Internal server error",
					"trace_id": c.Get("X-Request-ID"),
				},
			})
		},
	})

	// Global middleware
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(helmet.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORS.AllowOrigins,
		AllowMethods:     "GET,POST,HEAD,PUT,DELETE,PATCH,OPTIONS",
		AllowHeaders:     "Origin,Content-Type,Accept,Authorization,X-Requested-With",
		AllowCredentials: true,
		MaxAge:           86400,
	}))
	app.Use(otelfiber.Middleware())

	// Token issuer shared by the auth middleware and the login handlers
	tokens := auth.NewTokenIssuer(cfg.JWT.Secret)

	// Initialize middleware manager (owns the Redis client)
	middlewareManager, err := middleware.NewManager(cfg, tokens, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to initialize middleware manager")
	}
	defer func() {
		if err := middlewareManager.Close(); err != nil {
			logger.WithError(err).Error("Failed to close middleware manager")
		}
	}()

	// Connect the document store; constructed once here, closed at shutdown
	storeClient, err := store.Connect(context.Background(), &cfg.Mongo, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to connect to MongoDB")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := storeClient.Disconnect(shutdownCtx); err != nil {
			logger.WithError(err).Error("Failed to disconnect MongoDB")
		}
	}()

	// Payment simulator with its redis-backed pending transaction store
	transactionStore := payment.NewTransactionStore(middlewareManager.RedisClient, cfg.Payment.PendingTTL, logger)
	simulator := payment.NewSimulator(transactionStore, storeClient.Users(), storeClient.Subscriptions(), &cfg.Payment, logger)

	// Setup routes
	routes.Setup(app, cfg, logger, middlewareManager, storeClient, tokens, simulator)

	// Graceful shutdown
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		logger.Info("Gracefully shutting down...")
		if err := app.Shutdown(); err != nil {
			logger.WithError(err).Error("Server shutdown failed")
		}
	}()

	// Start server
	logger.WithField("port", cfg.Server.Port).Info("Starting Streaming API server")
	if err := app.Listen(":" + cfg.Server.Port); err != nil {
		logger.WithError(err).Fatal("Server failed to start")
	}
}
