package routes

import (
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"github.com/cineflow/streaming-api/internal/metrics"
	"github.com/cineflow/streaming-api/internal/middleware"
	"github.com/cineflow/streaming-api/internal/models"
	"github.com/cineflow/streaming-api/internal/store"
)

// FavoritesHandler handles favorites endpoints. The identity comes from
// the verified token; the membership flip itself is an atomic
// store-level update, so no state is read-modify-written here.
type FavoritesHandler struct {
	users    store.UserStore
	validate *validator.Validate
	logger   *logrus.Logger
}

// NewFavoritesHandler creates a new favorites handler
func NewFavoritesHandler(users store.UserStore, logger *logrus.Logger) *FavoritesHandler {
	return &FavoritesHandler{
		users:    users,
		validate: validator.New(),
		logger:   logger,
	}
}

// Toggle flips a movie in the user's favorites set
// @Summary Toggle favorite
// @Description Add the movie to favorites if absent, remove it if present
// @Tags Favorites
// @Accept json
// @Produce json
// @Security Bearer
// @Param request body models.FavoriteRequest true "Movie id"
// @Success 200 {object} models.FavoriteResponse
// @Failure 400 {object} errors.ErrorResponse "Missing movie id"
// @Failure 401 {object} errors.ErrorResponse "Unauthorized"
// @Failure 404 {object} errors.ErrorResponse "User not found"
// @Failure 500 {object} errors.ErrorResponse "Internal error"
// @Router /favorites/toggle [post]
func (h *FavoritesHandler) Toggle(c *fiber.Ctx) error {
	movieID, err := h.parseMovieID(c)
	if err != nil {
		return badRequest(c, "movieId is required")
	}

	userID := middleware.GetUserID(c)

	isFavorite, err := h.users.ToggleFavorite(c.Context(), userID, movieID)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	metrics.RecordFavoriteToggle(isFavorite)
	h.logger.WithFields(logrus.Fields{
		"user_id":     userID,
		"movie_id":    movieID,
		"is_favorite": isFavorite,
	}).Debug("Favorite toggled")

	return c.JSON(models.FavoriteResponse{Success: true, IsFavorite: isFavorite})
}

// Check reports favorite membership without mutating it
// @Summary Check favorite
// @Description Report whether the movie is in the user's favorites
// @Tags Favorites
// @Accept json
// @Produce json
// @Security Bearer
// @Param request body models.FavoriteRequest true "Movie id"
// @Success 200 {object} models.FavoriteResponse
// @Failure 400 {object} errors.ErrorResponse "Missing movie id"
// @Failure 401 {object} errors.ErrorResponse "Unauthorized"
// @Failure 500 {object} errors.ErrorResponse "Internal error"
// @Router /favorites/check [post]
func (h *FavoritesHandler) Check(c *fiber.Ctx) error {
	movieID, err := h.parseMovieID(c)
	if err != nil {
		return badRequest(c, "movieId is required")
	}

	userID := middleware.GetUserID(c)

	isFavorite, err := h.users.HasFavorite(c.Context(), userID, movieID)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return c.JSON(models.FavoriteResponse{Success: true, IsFavorite: isFavorite})
}

// parseMovieID validates the payload before any storage call.
func (h *FavoritesHandler) parseMovieID(c *fiber.Ctx) (string, error) {
	var req models.FavoriteRequest
	if err := c.BodyParser(&req); err != nil {
		return "", err
	}
	req.MovieID = strings.TrimSpace(req.MovieID)
	if err := h.validate.Struct(req); err != nil {
		return "", err
	}
	return req.MovieID, nil
}
