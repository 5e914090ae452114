package routes

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/cineflow/streaming-api/pkg/errors"

	"github.com/cineflow/streaming-api/internal/models"
)

func TestRegister_CreatesAccountAndToken(t *testing.T) {
	env := newTestEnv(t)

	resp := env.request(t, http.MethodPost, "/api/v1/register", "", models.RegisterRequest{
		Name:     "Ada Viewer",
		Email:    "Ada@Example.com",
		Password: "hunter22",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var body models.AuthResponse
	decodeBody(t, resp, &body)
	require.NotNil(t, body.User)
	assert.NotEmpty(t, body.User.ID)
	assert.Equal(t, "ada@example.com", body.User.Email) // normalized
	assert.Equal(t, models.RoleUser, body.User.Role)
	assert.Equal(t, models.TierFree, body.User.Subscription)
	assert.NotEmpty(t, body.Token)

	// Token claims reflect the new account
	claims, err := env.tokens.Verify(body.Token)
	require.NoError(t, err)
	assert.Equal(t, body.User.ID, claims.UserID())
	assert.Equal(t, "ada@example.com", claims.Email)
}

func TestRegister_PasswordNeverReturned(t *testing.T) {
	env := newTestEnv(t)

	resp := env.request(t, http.MethodPost, "/api/v1/register", "", models.RegisterRequest{
		Name:     "Ada Viewer",
		Email:    "ada@example.com",
		Password: "hunter22",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var raw map[string]interface{}
	decodeBody(t, resp, &raw)
	user := raw["user"].(map[string]interface{})
	assert.NotContains(t, user, "password")
	assert.NotContains(t, user, "password_hash")
}

func TestRegister_DuplicateEmail(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "Ada", "ada@example.com", "hunter22")

	resp := env.request(t, http.MethodPost, "/api/v1/register", "", models.RegisterRequest{
		Name:     "Other Ada",
		Email:    "ada@example.com",
		Password: "different1",
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestRegister_Validation(t *testing.T) {
	env := newTestEnv(t)

	cases := []models.RegisterRequest{
		{},
		{Name: "Ada", Email: "not-an-email", Password: "hunter22"},
		{Name: "Ada", Email: "ada@example.com", Password: "short"},
		{Name: "A", Email: "ada@example.com", Password: "hunter22"},
	}
	for _, req := range cases {
		resp := env.request(t, http.MethodPost, "/api/v1/register", "", req)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	}
}

func TestLogin_AfterRegister(t *testing.T) {
	env := newTestEnv(t)
	userID, _ := env.register(t, "Ada", "ada@example.com", "hunter22")

	resp := env.request(t, http.MethodPost, "/api/v1/login", "", models.LoginRequest{
		Email:    "ada@example.com",
		Password: "hunter22",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body models.AuthResponse
	decodeBody(t, resp, &body)
	assert.Equal(t, userID, body.User.ID)

	claims, err := env.tokens.Verify(body.Token)
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", claims.Email)
}

func TestLogin_WrongPassword(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "Ada", "ada@example.com", "hunter22")

	resp := env.request(t, http.MethodPost, "/api/v1/login", "", models.LoginRequest{
		Email:    "ada@example.com",
		Password: "wrongpass",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestLogin_UnknownEmail(t *testing.T) {
	env := newTestEnv(t)

	resp := env.request(t, http.MethodPost, "/api/v1/login", "", models.LoginRequest{
		Email:    "nobody@example.com",
		Password: "hunter22",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestLogin_BannedAccount(t *testing.T) {
	env := newTestEnv(t)
	userID, _ := env.register(t, "Ada", "ada@example.com", "hunter22")

	env.users.mu.Lock()
	env.users.users[userID].Banned = true
	env.users.mu.Unlock()

	resp := env.request(t, http.MethodPost, "/api/v1/login", "", models.LoginRequest{
		Email:    "ada@example.com",
		Password: "hunter22",
	})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestMe_ReturnsLiveUser(t *testing.T) {
	env := newTestEnv(t)
	userID, token := env.register(t, "Ada", "ada@example.com", "hunter22")

	// Mutate the live record after the token was issued
	require.NoError(t, env.users.UpdateSubscription(context.Background(), userID, models.TierPremium))

	resp := env.request(t, http.MethodGet, "/api/v1/me", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var raw map[string]models.User
	decodeBody(t, resp, &raw)
	user := raw["user"]
	assert.Equal(t, userID, user.ID)
	// Re-verify mode: the response reflects storage, not stale claims
	assert.Equal(t, models.TierPremium, user.Subscription)
}

func TestMe_DeletedUser(t *testing.T) {
	env := newTestEnv(t)
	userID, token := env.register(t, "Ada", "ada@example.com", "hunter22")

	env.users.mu.Lock()
	delete(env.users.users, userID)
	env.users.mu.Unlock()

	resp := env.request(t, http.MethodGet, "/api/v1/me", token, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	var body apperrors.ErrorResponse
	decodeBody(t, resp, &body)
	assert.Equal(t, apperrors.CodeNotFound, body.Error.Code)
	assert.NotEmpty(t, body.Error.Message)
}

func TestMe_Unauthenticated(t *testing.T) {
	env := newTestEnv(t)

	resp := env.request(t, http.MethodGet, "/api/v1/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
