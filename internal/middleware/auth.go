package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	apperrors "github.com/cineflow/streaming-api/pkg/errors"

	"github.com/cineflow/streaming-api/internal/auth"
	"github.com/cineflow/streaming-api/internal/metrics"
	"github.com/cineflow/streaming-api/internal/models"
)

// Locals keys populated by Authenticate.
const (
	localsClaims = "user_claims"
	localsUserID = "user_id"
)

type AuthMiddleware struct {
	tokens *auth.TokenIssuer
	logger *logrus.Logger
}

func NewAuthMiddleware(tokens *auth.TokenIssuer, logger *logrus.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		tokens: tokens,
		logger: logger,
	}
}

// Authenticate extracts and verifies the bearer token. Every failure
// mode (absent header, malformed prefix, expired or tampered token)
// collapses into the same 401 so nothing about the token's validity
// window leaks to the client.
func (a *AuthMiddleware) Authenticate() fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			metrics.RecordAuthFailure("missing_header")
			return a.unauthorizedError(c)
		}

		// Case-sensitive prefix match
		const bearerPrefix = "Bearer "
		if !strings.HasPrefix(authHeader, bearerPrefix) {
			metrics.RecordAuthFailure("malformed_header")
			return a.unauthorizedError(c)
		}

		tokenString := authHeader[len(bearerPrefix):]
		if tokenString == "" {
			metrics.RecordAuthFailure("missing_token")
			return a.unauthorizedError(c)
		}

		claims, err := a.tokens.Verify(tokenString)
		if err != nil {
			metrics.RecordAuthFailure("invalid_token")
			a.logger.WithField("path", c.Path()).Debug("Token verification failed")
			return a.unauthorizedError(c)
		}

		c.Locals(localsClaims, claims)
		c.Locals(localsUserID, claims.UserID())

		return c.Next()
	}
}

// RequireAdmin runs after Authenticate and additionally requires the
// admin role. Missing credentials stay 401; a valid non-admin token is
// 403, a deliberately distinct error kind.
func (a *AuthMiddleware) RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims := GetClaims(c)
		if claims == nil {
			metrics.RecordAuthFailure("missing_header")
			return a.unauthorizedError(c)
		}

		if claims.Role != models.RoleAdmin {
			metrics.RecordAuthFailure("forbidden")
			a.logger.WithFields(logrus.Fields{
				"user_id": claims.UserID(),
				"role":    claims.Role,
				"path":    c.Path(),
			}).Warn("Admin access denied")

			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": fiber.Map{
					"code":    apperrors.CodeForbidden,
					"message": "Admin role required",
				},
			})
		}

		return c.Next()
	}
}

// unauthorizedError returns a standardized unauthorized error response
func (a *AuthMiddleware) unauthorizedError(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"error": fiber.Map{
			"code":     apperrors.CodeUnauthenticated,
			"message":  "Authentication required",
			"trace_id": c.Get("X-Request-ID"),
		},
	})
}

// GetUserID extracts user ID from context
func GetUserID(c *fiber.Ctx) string {
	if userID, ok := c.Locals(localsUserID).(string); ok {
		return userID
	}
	return ""
}

// GetClaims extracts verified token claims from context
func GetClaims(c *fiber.Ctx) *auth.Claims {
	if claims, ok := c.Locals(localsClaims).(*auth.Claims); ok {
		return claims
	}
	return nil
}
