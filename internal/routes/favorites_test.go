package routes

import (
	"context"
	"net/http"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cineflow/streaming-api/internal/models"
)

func TestToggle_AlternatesMembership(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.register(t, "Ada", "ada@example.com", "hunter22")

	body := models.FavoriteRequest{MovieID: "movie-42"}

	resp := env.request(t, http.MethodPost, "/api/v1/favorites/toggle", token, body)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var first models.FavoriteResponse
	decodeBody(t, resp, &first)
	assert.True(t, first.Success)
	assert.True(t, first.IsFavorite)

	resp = env.request(t, http.MethodPost, "/api/v1/favorites/toggle", token, body)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var second models.FavoriteResponse
	decodeBody(t, resp, &second)
	assert.True(t, second.Success)
	assert.False(t, second.IsFavorite)
}

func TestCheck_AfterToggle(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.register(t, "Ada", "ada@example.com", "hunter22")

	body := models.FavoriteRequest{MovieID: "movie-42"}

	resp := env.request(t, http.MethodPost, "/api/v1/favorites/check", token, body)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var before models.FavoriteResponse
	decodeBody(t, resp, &before)
	assert.False(t, before.IsFavorite)

	env.request(t, http.MethodPost, "/api/v1/favorites/toggle", token, body)

	resp = env.request(t, http.MethodPost, "/api/v1/favorites/check", token, body)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var after models.FavoriteResponse
	decodeBody(t, resp, &after)
	assert.True(t, after.IsFavorite)
}

func TestToggle_MissingMovieID(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.register(t, "Ada", "ada@example.com", "hunter22")

	for _, body := range []interface{}{
		models.FavoriteRequest{},
		models.FavoriteRequest{MovieID: "   "},
		map[string]int{"movieId": 7},
	} {
		resp := env.request(t, http.MethodPost, "/api/v1/favorites/toggle", token, body)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	}
}

func TestToggle_Unauthenticated(t *testing.T) {
	env := newTestEnv(t)

	resp := env.request(t, http.MethodPost, "/api/v1/favorites/toggle", "", models.FavoriteRequest{MovieID: "movie-42"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestToggle_ConcurrentParity(t *testing.T) {
	env := newTestEnv(t)
	userID, _ := env.register(t, "Ada", "ada@example.com", "hunter22")
	ctx := context.Background()

	const n = 16
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			_, err := env.users.ToggleFavorite(ctx, userID, "movie-42")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	// Even number of toggles from a non-member start: membership is off
	// and the set holds no duplicates.
	isFavorite, err := env.users.HasFavorite(ctx, userID, "movie-42")
	require.NoError(t, err)
	assert.False(t, isFavorite)

	user, err := env.users.GetByID(ctx, userID)
	require.NoError(t, err)
	assert.Empty(t, user.Favorites)
}
