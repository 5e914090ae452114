package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	apperrors "github.com/cineflow/streaming-api/pkg/errors"

	"github.com/cineflow/streaming-api/internal/auth"
	"github.com/cineflow/streaming-api/internal/config"
	"github.com/cineflow/streaming-api/internal/middleware"
	"github.com/cineflow/streaming-api/internal/models"
	"github.com/cineflow/streaming-api/internal/payment"
)

// fakeUserStore is an in-memory UserStore with the same atomicity
// guarantees the Mongo implementation gets from guarded updates.
type fakeUserStore struct {
	mu    sync.Mutex
	users map[string]*models.User // keyed by id
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[string]*models.User)}
}

func (f *fakeUserStore) CreateUser(ctx context.Context, user *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == user.Email {
			return apperrors.New(apperrors.CodeConflict, "email already registered", nil)
		}
	}
	clone := *user
	f.users[user.ID] = &clone
	return nil
}

func (f *fakeUserStore) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, apperrors.New(apperrors.CodeNotFound, "user not found", nil)
}

func (f *fakeUserStore) GetByID(ctx context.Context, id string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u, ok := f.users[id]; ok {
		clone := *u
		return &clone, nil
	}
	return nil, apperrors.New(apperrors.CodeNotFound, "user not found", nil)
}

func (f *fakeUserStore) UpdateSubscription(ctx context.Context, userID, tier string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[userID]
	if !ok {
		return apperrors.New(apperrors.CodeNotFound, "user not found", nil)
	}
	u.Subscription = tier
	return nil
}

func (f *fakeUserStore) ToggleFavorite(ctx context.Context, userID, movieID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[userID]
	if !ok {
		return false, apperrors.New(apperrors.CodeNotFound, "user not found", nil)
	}
	for i, m := range u.Favorites {
		if m == movieID {
			u.Favorites = append(u.Favorites[:i], u.Favorites[i+1:]...)
			return false, nil
		}
	}
	u.Favorites = append(u.Favorites, movieID)
	return true, nil
}

func (f *fakeUserStore) HasFavorite(ctx context.Context, userID, movieID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[userID]
	if !ok {
		return false, nil
	}
	for _, m := range u.Favorites {
		if m == movieID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeUserStore) CountUsers(ctx context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.users)), nil
}

type fakeSubscriptionStore struct {
	mu      sync.Mutex
	created []*models.Subscription
}

func (f *fakeSubscriptionStore) Create(ctx context.Context, sub *models.Subscription) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created = append(f.created, sub)
	return nil
}

func (f *fakeSubscriptionStore) CountActive(ctx context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.created)), nil
}

// testEnv wires the handlers onto a fiber app against in-memory stores
// and a miniredis-backed transaction store, mirroring Setup.
type testEnv struct {
	app    *fiber.App
	users  *fakeUserStore
	subs   *fakeSubscriptionStore
	tokens *auth.TokenIssuer
	sim    *payment.Simulator
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel)

	mr := miniredis.RunT(t)
	redisClient := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	users := newFakeUserStore()
	subs := &fakeSubscriptionStore{}
	tokens := auth.NewTokenIssuer("test-secret")

	paymentCfg := &config.PaymentConfig{
		CallbackBaseURL: "http://localhost:8000",
		PendingTTL:      time.Hour,
	}
	txns := payment.NewTransactionStore(redisClient, paymentCfg.PendingTTL, logger)
	sim := payment.NewSimulator(txns, users, subs, paymentCfg, logger)

	authMW := middleware.NewAuthMiddleware(tokens, logger)

	authHandler := NewAuthHandler(users, tokens, logger)
	favoritesHandler := NewFavoritesHandler(users, logger)
	paymentHandler := NewPaymentHandler(sim, logger)
	adminHandler := NewAdminHandler(users, subs, redisClient, logger)

	app := fiber.New()
	api := app.Group("/api/v1")
	api.Post("/login", authHandler.Login)
	api.Post("/register", authHandler.Register)
	api.Get("/payments/verify", paymentHandler.Verify)

	protected := api.Group("", authMW.Authenticate())
	protected.Get("/me", authHandler.Me)
	protected.Post("/favorites/toggle", favoritesHandler.Toggle)
	protected.Post("/favorites/check", favoritesHandler.Check)
	protected.Post("/payments/initiate", paymentHandler.Initiate)

	adminRoutes := api.Group("/admin", authMW.Authenticate(), authMW.RequireAdmin())
	adminRoutes.Get("/stats", adminHandler.Stats)

	return &testEnv{app: app, users: users, subs: subs, tokens: tokens, sim: sim}
}

func (e *testEnv) request(t *testing.T, method, path, token string, body interface{}) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	// No timeout: bcrypt at cost 12 can exceed fiber's 1s default
	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, out interface{}) {
	t.Helper()
	payload, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(payload, out))
}

// register creates an account through the API and returns its token.
func (e *testEnv) register(t *testing.T, name, email, password string) (userID, token string) {
	t.Helper()

	resp := e.request(t, http.MethodPost, "/api/v1/register", "", models.RegisterRequest{
		Name:     name,
		Email:    email,
		Password: password,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var body models.AuthResponse
	decodeBody(t, resp, &body)
	require.NotNil(t, body.User)
	return body.User.ID, body.Token
}
