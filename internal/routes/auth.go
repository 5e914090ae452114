package routes

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	apperrors "github.com/cineflow/streaming-api/pkg/errors"

	"github.com/cineflow/streaming-api/internal/auth"
	"github.com/cineflow/streaming-api/internal/middleware"
	"github.com/cineflow/streaming-api/internal/models"
	"github.com/cineflow/streaming-api/internal/store"
)

// AuthHandler handles authentication endpoints
type AuthHandler struct {
	users    store.UserStore
	tokens   *auth.TokenIssuer
	validate *validator.Validate
	logger   *logrus.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(users store.UserStore, tokens *auth.TokenIssuer, logger *logrus.Logger) *AuthHandler {
	return &AuthHandler{
		users:    users,
		tokens:   tokens,
		validate: validator.New(),
		logger:   logger,
	}
}

// Login handles user login
// @Summary User login
// @Description Authenticate user and return a bearer token
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body models.LoginRequest true "Login credentials"
// @Success 200 {object} models.AuthResponse
// @Failure 400 {object} errors.ErrorResponse "Invalid request"
// @Failure 401 {object} errors.ErrorResponse "Invalid credentials"
// @Failure 403 {object} errors.ErrorResponse "Account disabled"
// @Failure 500 {object} errors.ErrorResponse "Internal error"
// @Router /login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req models.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if err := h.validate.Struct(req); err != nil {
		return badRequest(c, "email and password are required")
	}

	user, err := h.users.GetByEmail(c.Context(), normalizeEmail(req.Email))
	if err != nil {
		if apperrors.CodeOf(err) == apperrors.CodeNotFound {
			h.logger.WithField("email", req.Email).Warn("Login for unknown email")
			return h.invalidCredentials(c)
		}
		return respondError(c, h.logger, err)
	}

	if !auth.CheckPassword(req.Password, user.PasswordHash) {
		h.logger.WithField("user_id", user.ID).Warn("Login with invalid password")
		return h.invalidCredentials(c)
	}

	if user.Banned {
		h.logger.WithField("user_id", user.ID).Warn("Login attempt on banned account")
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": fiber.Map{
				"code":    apperrors.CodeForbidden,
				"message": "Account is disabled",
			},
		})
	}

	token, err := h.tokens.Issue(user)
	if err != nil {
		return respondError(c, h.logger, apperrors.New(apperrors.CodeInternalError, "failed to issue token", err))
	}

	h.logger.WithFields(logrus.Fields{
		"user_id": user.ID,
		"email":   user.Email,
	}).Info("User logged in")

	return c.JSON(models.AuthResponse{User: user, Token: token})
}

// Register handles user registration
// @Summary User registration
// @Description Register a new account and return a bearer token
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body models.RegisterRequest true "Registration data"
// @Success 201 {object} models.AuthResponse
// @Failure 400 {object} errors.ErrorResponse "Invalid request"
// @Failure 409 {object} errors.ErrorResponse "Email already registered"
// @Failure 500 {object} errors.ErrorResponse "Internal error"
// @Router /register [post]
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req models.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if err := h.validate.Struct(req); err != nil {
		return badRequest(c, "name, a valid email and a password of at least 6 characters are required")
	}

	email := normalizeEmail(req.Email)

	// Check-then-insert; the unique index closes the race
	if _, err := h.users.GetByEmail(c.Context(), email); err == nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": fiber.Map{
				"code":    apperrors.CodeConflict,
				"message": "Email already registered",
			},
		})
	} else if apperrors.CodeOf(err) != apperrors.CodeNotFound {
		return respondError(c, h.logger, err)
	}

	passwordHash, err := auth.HashPassword(req.Password)
	if err != nil {
		return respondError(c, h.logger, apperrors.New(apperrors.CodeInternalError, "failed to hash password", err))
	}

	now := time.Now().UTC()
	user := &models.User{
		ID:           uuid.New().String(),
		Email:        email,
		PasswordHash: passwordHash,
		Name:         strings.TrimSpace(req.Name),
		Role:         models.RoleUser,
		Subscription: models.TierFree,
		Favorites:    []string{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := h.users.CreateUser(c.Context(), user); err != nil {
		return respondError(c, h.logger, err)
	}

	token, err := h.tokens.Issue(user)
	if err != nil {
		return respondError(c, h.logger, apperrors.New(apperrors.CodeInternalError, "failed to issue token", err))
	}

	h.logger.WithFields(logrus.Fields{
		"user_id": user.ID,
		"email":   user.Email,
	}).Info("User registered")

	return c.Status(fiber.StatusCreated).JSON(models.AuthResponse{User: user, Token: token})
}

// Me returns the authenticated user's profile
// @Summary Current user
// @Description Return the live profile of the authenticated user
// @Tags Auth
// @Produce json
// @Security Bearer
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} errors.ErrorResponse "Unauthorized"
// @Failure 404 {object} errors.ErrorResponse "User no longer exists"
// @Failure 500 {object} errors.ErrorResponse "Internal error"
// @Router /me [get]
//
// Re-verify mode: the token claims may be up to seven days stale, so
// this route always re-fetches the live record.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)

	user, err := h.users.GetByID(c.Context(), userID)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return c.JSON(fiber.Map{"user": user})
}

func (h *AuthHandler) invalidCredentials(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"error": fiber.Map{
			"code":    apperrors.CodeUnauthenticated,
			"message": "Invalid email or password",
		},
	})
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
