package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/cineflow/streaming-api/internal/models"
)

// TokenTTL is the fixed validity window embedded in every issued token.
const TokenTTL = 7 * 24 * time.Hour

// ErrInvalidToken is the only verification failure callers ever see.
// Expired, tampered, and malformed tokens are deliberately
// indistinguishable so the validity window leaks nothing.
var ErrInvalidToken = errors.New("invalid token")

// Claims is the identity snapshot embedded in a signed token. It is
// captured at issuance and can lag the live user record for up to
// TokenTTL; routes that care re-fetch the user.
type Claims struct {
	Email        string `json:"email"`
	Role         string `json:"role"`
	Subscription string `json:"subscription"`
	jwt.RegisteredClaims
}

// UserID returns the subject claim.
func (c *Claims) UserID() string {
	return c.Subject
}

// TokenIssuer signs and verifies compact claims tokens with a
// server-held symmetric secret.
type TokenIssuer struct {
	secret []byte
}

// NewTokenIssuer creates a token issuer. The secret is validated at
// config load time; an empty one never reaches this constructor.
func NewTokenIssuer(secret string) *TokenIssuer {
	return &TokenIssuer{secret: []byte(secret)}
}

// Issue signs a token carrying the user's identity snapshot with a
// fixed 7-day expiry.
func (t *TokenIssuer) Issue(user *models.User) (string, error) {
	now := time.Now()
	claims := &Claims{
		Email:        user.Email,
		Role:         user.Role,
		Subscription: user.Subscription,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(TokenTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(t.secret)
}

// Verify parses and validates a token. It fails closed: any signature
// mismatch, malformed input, or past expiry yields ErrInvalidToken.
func (t *TokenIssuer) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return t.secret, nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Subject == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
