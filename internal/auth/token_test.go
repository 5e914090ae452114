package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cineflow/streaming-api/internal/models"
)

func testUser() *models.User {
	return &models.User{
		ID:           "user-123",
		Email:        "viewer@example.com",
		Role:         models.RoleUser,
		Subscription: models.TierPremium,
	}
}

func TestTokenIssuer_RoundTrip(t *testing.T) {
	issuer := NewTokenIssuer("test-secret")

	token, err := issuer.Issue(testUser())
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := issuer.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "user-123", claims.UserID())
	assert.Equal(t, "viewer@example.com", claims.Email)
	assert.Equal(t, models.RoleUser, claims.Role)
	assert.Equal(t, models.TierPremium, claims.Subscription)
}

func TestTokenIssuer_EmbedsFixedExpiry(t *testing.T) {
	issuer := NewTokenIssuer("test-secret")

	token, err := issuer.Issue(testUser())
	require.NoError(t, err)

	claims, err := issuer.Verify(token)
	require.NoError(t, err)
	require.NotNil(t, claims.ExpiresAt)
	assert.WithinDuration(t, time.Now().Add(TokenTTL), claims.ExpiresAt.Time, 5*time.Second)
}

func TestTokenIssuer_TamperedToken(t *testing.T) {
	issuer := NewTokenIssuer("test-secret")

	token, err := issuer.Issue(testUser())
	require.NoError(t, err)

	// Flip one character of the payload
	tampered := []byte(token)
	mid := len(tampered) / 2
	if tampered[mid] == 'a' {
		tampered[mid] = 'b'
	} else {
		tampered[mid] = 'a'
	}

	claims, err := issuer.Verify(string(tampered))
	assert.Nil(t, claims)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenIssuer_WrongSecret(t *testing.T) {
	token, err := NewTokenIssuer("secret-a").Issue(testUser())
	require.NoError(t, err)

	claims, err := NewTokenIssuer("secret-b").Verify(token)
	assert.Nil(t, claims)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenIssuer_ExpiredToken(t *testing.T) {
	issuer := NewTokenIssuer("test-secret")

	// Sign a token whose expiry is already in the past
	expired := &Claims{
		Email: "viewer@example.com",
		Role:  models.RoleUser,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-123",
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Hour)),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	}
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, expired).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	claims, err := issuer.Verify(raw)
	assert.Nil(t, claims)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenIssuer_Malformed(t *testing.T) {
	issuer := NewTokenIssuer("test-secret")

	for _, raw := range []string{"", "garbage", "a.b.c"} {
		claims, err := issuer.Verify(raw)
		assert.Nil(t, claims)
		assert.ErrorIs(t, err, ErrInvalidToken)
	}
}

func TestTokenIssuer_RejectsUnexpectedAlg(t *testing.T) {
	issuer := NewTokenIssuer("test-secret")

	// alg=none must never pass the HS256 allow-list
	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{Subject: "user-123"})
	raw, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	claims, err := issuer.Verify(raw)
	assert.Nil(t, claims)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
