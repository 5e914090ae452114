package routes

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"github.com/sirupsen/logrus"

	apperrors "github.com/cineflow/streaming-api/pkg/errors"

	"github.com/cineflow/streaming-api/internal/auth"
	"github.com/cineflow/streaming-api/internal/config"
	"github.com/cineflow/streaming-api/internal/metrics"
	"github.com/cineflow/streaming-api/internal/middleware"
	"github.com/cineflow/streaming-api/internal/payment"
	"github.com/cineflow/streaming-api/internal/store"
)

// Setup configures all API routes
func Setup(app *fiber.App, cfg *config.Config, logger *logrus.Logger, middlewareManager *middleware.Manager, storeClient *store.Client, tokens *auth.TokenIssuer, simulator *payment.Simulator) {
	users := storeClient.Users()
	subscriptions := storeClient.Subscriptions()

	// Create route handlers
	authHandler := NewAuthHandler(users, tokens, logger)
	favoritesHandler := NewFavoritesHandler(users, logger)
	paymentHandler := NewPaymentHandler(simulator, logger)
	adminHandler := NewAdminHandler(users, subscriptions, middlewareManager.RedisClient, logger)

	// Health check endpoints (no auth required)
	app.Get("/healthz", healthCheck)
	app.Get("/readyz", readinessCheck(storeClient, middlewareManager))
	app.Get("/version", versionHandler)

	// Metrics endpoint (no auth required)
	app.Get(cfg.Observability.MetricsPath, metrics.PrometheusHandler())

	// Swagger documentation endpoint (no auth required)
	app.Get("/swagger/*", swagger.HandlerDefault)

	// API routes with middleware
	api := app.Group("/api/v1")

	api.Use(metrics.HTTPMetricsMiddleware())
	api.Use(middlewareManager.ErrorLogger.Handle())

	rateLimit := middlewareManager.RateLimit.Handle()

	// Public endpoints, rate limited by client IP
	api.Post("/login", rateLimit, authHandler.Login)
	api.Post("/register", rateLimit, authHandler.Register)

	// The gateway redirect lands here without a bearer token, so the
	// verify callback stays public.
	api.Get("/payments/verify", rateLimit, paymentHandler.Verify)

	// Protected routes: authentication runs before the limiter so the
	// bucket keys by user id instead of IP.
	protected := api.Group("", middlewareManager.Auth.Authenticate(), rateLimit)
	protected.Get("/me", authHandler.Me)
	protected.Post("/favorites/toggle", favoritesHandler.Toggle)
	protected.Post("/favorites/check", favoritesHandler.Check)
	protected.Post("/payments/initiate", paymentHandler.Initiate)

	// Admin routes (require admin role)
	adminRoutes := api.Group("/admin", middlewareManager.Auth.Authenticate(), rateLimit, middlewareManager.Auth.RequireAdmin())
	adminRoutes.Get("/stats", adminHandler.Stats)

	// 404 handler
	app.Use(notFoundHandler)
}

// healthCheck returns the health status of the service
// @Summary Health check
// @Description Check if the service is healthy
// @Tags System
// @Produce json
// @Success 200 {object} map[string]interface{} "Healthy"
// @Router /healthz [get]
func healthCheck(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":    "healthy",
		"timestamp": time.Now().UTC(),
		"service":   "streaming-api",
	})
}

// readinessCheck checks if the service is ready to accept traffic
// @Summary Readiness check
// @Description Check if the service can reach its backing stores
// @Tags System
// @Produce json
// @Success 200 {object} map[string]interface{} "Ready"
// @Failure 503 {object} map[string]interface{} "Not ready"
// @Router /readyz [get]
func readinessCheck(storeClient *store.Client, middlewareManager *middleware.Manager) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.Context(), 2*time.Second)
		defer cancel()

		if err := storeClient.Ping(ctx); err != nil {
			return notReady(c, "mongo unavailable", err)
		}

		redisHealthCheck := middleware.RedisHealthCheck(middlewareManager.RedisClient, middlewareManager.Logger)
		if err := redisHealthCheck(); err != nil {
			return notReady(c, "redis unavailable", err)
		}

		return c.JSON(fiber.Map{
			"status":    "ready",
			"timestamp": time.Now().UTC(),
			"service":   "streaming-api",
		})
	}
}

func notReady(c *fiber.Ctx, reason string, err error) error {
	return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
		"status":    "not ready",
		"reason":    reason,
		"error":     err.Error(),
		"timestamp": time.Now().UTC(),
	})
}

// versionHandler returns version information
// @Summary Version information
// @Description Get service version and build information
// @Tags System
// @Produce json
// @Success 200 {object} map[string]interface{} "Version info"
// @Router /version [get]
func versionHandler(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"service": "streaming-api",
		"version": getVersion(),
	})
}

// notFoundHandler handles 404 errors
func notFoundHandler(c *fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
		"error": fiber.Map{
			"code":     apperrors.CodeNotFound,
			"message":  "The requested resource was not found",
			"path":     c.Path(),
			"trace_id": c.Get("X-Request-ID"),
		},
	})
}

// respondError maps an operation error onto the wire taxonomy. Internal
// causes are logged, never serialized.
func respondError(c *fiber.Ctx, logger *logrus.Logger, err error) error {
	appErr, ok := err.(*apperrors.AppError)
	if !ok {
		appErr = apperrors.New(apperrors.CodeInternalError, "Internal server error", err)
	}

	if appErr.Code == apperrors.CodeInternalError {
		logger.WithError(err).WithFields(logrus.Fields{
			"method": c.Method(),
			"path":   c.Path(),
		}).Error("Request failed")
		appErr = apperrors.New(apperrors.CodeInternalError, "Internal server error", nil)
	}

	return c.Status(appErr.HTTPStatus()).JSON(appErr.ToErrorResponse(c.Get("X-Request-ID")))
}

func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"error": fiber.Map{
			"code":    apperrors.CodeBadRequest,
			"message": message,
		},
	})
}

// getVersion returns the application version, set during build
func getVersion() string {
	return "dev"
}
