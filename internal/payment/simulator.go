// Package payment implements the simulated subscription checkout: a
// stand-in for a real gateway that resolves transactions with a
// weighted random outcome instead of contacting a third party.
package payment

import (
	"context"
	"fmt"
	"math/rand"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	apperrors "github.com/cineflow/streaming-api/pkg/errors"

	"github.com/cineflow/streaming-api/internal/config"
	"github.com/cineflow/streaming-api/internal/metrics"
	"github.com/cineflow/streaming-api/internal/models"
	"github.com/cineflow/streaming-api/internal/store"
	"github.com/cineflow/streaming-api/internal/utils"
)

// successRate is the fixed probability a verify call resolves to success.
const successRate = 0.7

// StatusSuccess and StatusFailed are the two terminal outcomes.
const (
	StatusSuccess = "success"
	StatusFailed  = "failed"
)

var validPlans = []string{models.TierBasic, models.TierPremium}

// Simulator drives the initiated -> {succeeded, failed} transaction
// lifecycle. By default a transaction is persisted at initiate time and
// consumed exactly once at verify; the legacy trust-client mode skips
// the lookup and believes the caller's query parameters instead.
type Simulator struct {
	txns              *TransactionStore
	users             store.UserStore
	subs              store.SubscriptionStore
	logger            *logrus.Logger
	callbackBaseURL   string
	trustClientParams bool
	roll              func() float64
}

func NewSimulator(txns *TransactionStore, users store.UserStore, subs store.SubscriptionStore, cfg *config.PaymentConfig, logger *logrus.Logger) *Simulator {
	return &Simulator{
		txns:              txns,
		users:             users,
		subs:              subs,
		logger:            logger,
		callbackBaseURL:   strings.TrimSuffix(cfg.CallbackBaseURL, "/"),
		trustClientParams: cfg.TrustClientParams,
		roll:              rand.Float64,
	}
}

// WithRoll replaces the random source. Tests use it to force outcomes.
func (s *Simulator) WithRoll(roll func() float64) *Simulator {
	s.roll = roll
	return s
}

// Initiate validates the plan, generates a transaction id and returns
// it with the gateway redirect URL. The transaction is stored pending
// so verify can resolve it against an authoritative record.
func (s *Simulator) Initiate(ctx context.Context, userID, plan string) (*models.InitiatePaymentResponse, error) {
	if !utils.ContainsString(validPlans, plan) {
		return nil, apperrors.Newf(apperrors.CodeBadRequest, nil, "subscriptionType must be one of %s", strings.Join(validPlans, ", "))
	}

	txn := &Transaction{
		ID:        newTransactionID(),
		UserID:    userID,
		Plan:      plan,
		CreatedAt: time.Now().UTC(),
	}

	if !s.trustClientParams {
		if err := s.txns.Save(ctx, txn); err != nil {
			return nil, apperrors.New(apperrors.CodeInternalError, "failed to initiate payment", err)
		}
	}

	s.logger.WithFields(logrus.Fields{
		"transaction_id": txn.ID,
		"user_id":        userID,
		"plan":           plan,
	}).Info("Payment initiated")

	return &models.InitiatePaymentResponse{
		Success:       true,
		TransactionID: txn.ID,
		RedirectURL:   s.redirectURL(txn),
	}, nil
}

// Verify resolves a pending transaction to its terminal outcome. On
// success it records the subscription and upgrades the user's tier; on
// failure it writes nothing.
func (s *Simulator) Verify(ctx context.Context, txnID, userID, plan string) (*models.VerifyPaymentResponse, error) {
	if txnID == "" {
		return nil, apperrors.New(apperrors.CodeBadRequest, "txn_id is required", nil)
	}

	if s.trustClientParams {
		// Legacy mode: no stored record, the caller's parameters are
		// taken at face value. Re-verification re-rolls the outcome.
		if userID == "" || !utils.ContainsString(validPlans, plan) {
			return nil, apperrors.New(apperrors.CodeBadRequest, "user_id and a valid plan are required", nil)
		}
	} else {
		txn, err := s.txns.Consume(ctx, txnID)
		if err == ErrTransactionNotFound {
			return nil, apperrors.New(apperrors.CodeNotFound, "unknown or already processed transaction", err)
		}
		if err != nil {
			return nil, apperrors.New(apperrors.CodeInternalError, "failed to verify payment", err)
		}
		// The stored record is authoritative over the query string.
		userID = txn.UserID
		plan = txn.Plan
	}

	if s.roll() >= successRate {
		metrics.RecordPaymentOutcome(plan, StatusFailed)
		s.logger.WithFields(logrus.Fields{
			"transaction_id": txnID,
			"user_id":        userID,
			"plan":           plan,
		}).Info("Payment failed")

		return &models.VerifyPaymentResponse{Success: false, Status: StatusFailed}, nil
	}

	now := time.Now().UTC()
	sub := &models.Subscription{
		ID:            uuid.New().String(),
		UserID:        userID,
		Type:          plan,
		StartDate:     now,
		EndDate:       now.Add(models.SubscriptionPeriod),
		Status:        models.SubscriptionActive,
		PaymentMethod: models.PaymentMethodMobileMoney,
		CreatedAt:     now,
	}
	// Tier update runs first and the subscription insert last: a
	// failed verify must never leave a subscription record behind.
	if err := s.users.UpdateSubscription(ctx, userID, plan); err != nil {
		return nil, apperrors.Wrap(err, "failed to upgrade subscription tier")
	}
	if err := s.subs.Create(ctx, sub); err != nil {
		return nil, apperrors.Wrap(err, "failed to record subscription")
	}

	metrics.RecordPaymentOutcome(plan, StatusSuccess)
	s.logger.WithFields(logrus.Fields{
		"transaction_id":  txnID,
		"user_id":         userID,
		"plan":            plan,
		"subscription_id": sub.ID,
	}).Info("Payment succeeded")

	return &models.VerifyPaymentResponse{Success: true, Status: StatusSuccess, Plan: plan}, nil
}

// newTransactionID builds a txn_<millis>_<suffix> id. The suffix only
// needs per-call uniqueness with overwhelming probability, not
// unguessability.
func newTransactionID() string {
	suffix := strings.ReplaceAll(uuid.New().String(), "-", "")[:9]
	return fmt.Sprintf("txn_%d_%s", time.Now().UnixMilli(), suffix)
}

func (s *Simulator) redirectURL(txn *Transaction) string {
	params := url.Values{}
	params.Set("txn_id", txn.ID)
	params.Set("user_id", txn.UserID)
	params.Set("plan", txn.Plan)
	return fmt.Sprintf("%s/api/v1/payments/verify?%s", s.callbackBaseURL, params.Encode())
}
