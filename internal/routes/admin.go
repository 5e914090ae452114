package routes

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/cineflow/streaming-api/internal/store"
)

// AdminHandler serves platform counters behind the admin gate.
type AdminHandler struct {
	users         store.UserStore
	subscriptions store.SubscriptionStore
	redisClient   *redis.Client
	logger        *logrus.Logger
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(users store.UserStore, subscriptions store.SubscriptionStore, redisClient *redis.Client, logger *logrus.Logger) *AdminHandler {
	return &AdminHandler{
		users:         users,
		subscriptions: subscriptions,
		redisClient:   redisClient,
		logger:        logger,
	}
}

// Stats returns platform counters
// @Summary Platform statistics
// @Description Return user and subscription counts plus backing store health
// @Tags Admin
// @Produce json
// @Security Bearer
// @Success 200 {object} map[string]interface{} "Stats"
// @Failure 401 {object} errors.ErrorResponse "Unauthorized"
// @Failure 403 {object} errors.ErrorResponse "Admin role required"
// @Failure 500 {object} errors.ErrorResponse "Internal error"
// @Router /admin/stats [get]
func (a *AdminHandler) Stats(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	userCount, err := a.users.CountUsers(ctx)
	if err != nil {
		return respondError(c, a.logger, err)
	}

	activeSubscriptions, err := a.subscriptions.CountActive(ctx)
	if err != nil {
		return respondError(c, a.logger, err)
	}

	redisStatus := "ok"
	if a.redisClient != nil {
		if err := a.redisClient.Ping(ctx).Err(); err != nil {
			redisStatus = "unavailable"
		}
	}

	return c.JSON(fiber.Map{
		"users":                userCount,
		"active_subscriptions": activeSubscriptions,
		"redis":                redisStatus,
		"timestamp":            time.Now().UTC(),
	})
}
