package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"github.com/cineflow/streaming-api/internal/middleware"
	"github.com/cineflow/streaming-api/internal/models"
	"github.com/cineflow/streaming-api/internal/payment"
)

// PaymentHandler handles the simulated checkout endpoints
type PaymentHandler struct {
	simulator *payment.Simulator
	logger    *logrus.Logger
}

// NewPaymentHandler creates a new payment handler
func NewPaymentHandler(simulator *payment.Simulator, logger *logrus.Logger) *PaymentHandler {
	return &PaymentHandler{
		simulator: simulator,
		logger:    logger,
	}
}

// Initiate starts a simulated checkout
// @Summary Initiate payment
// @Description Create a pending transaction and return the gateway redirect URL
// @Tags Payments
// @Accept json
// @Produce json
// @Security Bearer
// @Param request body models.InitiatePaymentRequest true "Subscription plan"
// @Success 200 {object} models.InitiatePaymentResponse
// @Failure 400 {object} errors.ErrorResponse "Invalid plan"
// @Failure 401 {object} errors.ErrorResponse "Unauthorized"
// @Failure 500 {object} errors.ErrorResponse "Internal error"
// @Router /payments/initiate [post]
//
// Trust-token mode: the user id is taken from the verified claims, not
// re-fetched. A tier change mid-session does not affect initiation.
func (h *PaymentHandler) Initiate(c *fiber.Ctx) error {
	var req models.InitiatePaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	userID := middleware.GetUserID(c)

	resp, err := h.simulator.Initiate(c.Context(), userID, req.SubscriptionType)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return c.JSON(resp)
}

// Verify resolves a pending transaction
// @Summary Verify payment
// @Description Resolve a pending transaction to its terminal outcome
// @Tags Payments
// @Produce json
// @Param txn_id query string true "Transaction id"
// @Param user_id query string false "User id (legacy trust-client mode only)"
// @Param plan query string false "Plan (legacy trust-client mode only)"
// @Success 200 {object} models.VerifyPaymentResponse
// @Failure 400 {object} errors.ErrorResponse "Missing transaction id"
// @Failure 404 {object} errors.ErrorResponse "Unknown or already processed transaction"
// @Failure 500 {object} errors.ErrorResponse "Internal error"
// @Router /payments/verify [get]
func (h *PaymentHandler) Verify(c *fiber.Ctx) error {
	txnID := c.Query("txn_id")
	userID := c.Query("user_id")
	plan := c.Query("plan")

	resp, err := h.simulator.Verify(c.Context(), txnID, userID, plan)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return c.JSON(resp)
}
