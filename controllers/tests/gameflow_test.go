package controllers_test

import (
	"net/http"
	"net/url"
	"testing"

	models "GameHub/models/postgres"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Walks the main tracking flow: add a game to the collection, review it,
// then read the aggregates back.
func TestCollectionReviewAndStatistics(t *testing.T) {
	requireRouter(t)

	userID, token := newTestUser(t, "flow_user")
	gameID := newTestGame(t, uniqueName("ext"))

	t.Run("add to collection", func(t *testing.T) {
		w := doForm(t, http.MethodPost, "/auth/collection/"+gameID, token, url.Values{
			"play_status": {"IN_PROGRESS"},
		})
		assert.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	})

	t.Run("duplicate collection entry rejected", func(t *testing.T) {
		w := doForm(t, http.MethodPost, "/auth/collection/"+gameID, token, nil)
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("collection lists the game", func(t *testing.T) {
		w := doForm(t, http.MethodGet, "/auth/collection", token, nil)
		assert.Equal(t, http.StatusOK, w.Code)

		var entries []struct {
			GameID     string `json:"game_id"`
			PlayStatus string `json:"play_status"`
		}
		decodeJSON(t, w, &entries)
		require.Len(t, entries, 1)
		assert.Equal(t, gameID, entries[0].GameID)
		assert.Equal(t, "IN_PROGRESS", entries[0].PlayStatus)
	})

	t.Run("play status filter", func(t *testing.T) {
		w := doForm(t, http.MethodGet, "/auth/collection?play_status=COMPLETED", token, nil)
		assert.Equal(t, http.StatusOK, w.Code)

		var entries []struct{}
		decodeJSON(t, w, &entries)
		assert.Empty(t, entries)
	})

	t.Run("invalid collection rating rejected", func(t *testing.T) {
		w := doForm(t, http.MethodPatch, "/auth/collection/"+gameID+"/rating", token, url.Values{
			"rating": {"6"},
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("review the game", func(t *testing.T) {
		w := doForm(t, http.MethodPost, "/auth/reviews/games/"+gameID, token, url.Values{
			"rating":      {"4"},
			"review_text": {"Really solid"},
		})
		assert.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	})

	t.Run("second review for the same game rejected", func(t *testing.T) {
		w := doForm(t, http.MethodPost, "/auth/reviews/games/"+gameID, token, url.Values{
			"rating": {"5"},
		})
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("out of range review rating rejected", func(t *testing.T) {
		otherGame := newTestGame(t, uniqueName("ext"))
		w := doForm(t, http.MethodPost, "/auth/reviews/games/"+otherGame, token, url.Values{
			"rating": {"0"},
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("statistics aggregate the game", func(t *testing.T) {
		w := doForm(t, http.MethodGet, "/games/statistics?min_reviews=1", "", nil)
		assert.Equal(t, http.StatusOK, w.Code)

		var rows []struct {
			GameID        string  `json:"game_id"`
			ReviewCount   int     `json:"review_count"`
			AverageRating float64 `json:"average_rating"`
			UserCount     int     `json:"user_count"`
		}
		decodeJSON(t, w, &rows)

		found := false
		for _, row := range rows {
			if row.GameID == gameID {
				found = true
				assert.Equal(t, 1, row.ReviewCount)
				assert.Equal(t, 1, row.UserCount)
				assert.InDelta(t, 4.0, row.AverageRating, 0.001)
			}
		}
		assert.True(t, found, "game missing from statistics")
	})

	t.Run("active users listed once", func(t *testing.T) {
		w := doForm(t, http.MethodGet, "/users/active?limit=100", "", nil)
		assert.Equal(t, http.StatusOK, w.Code)

		var rows []struct {
			UserID string `json:"user_id"`
		}
		decodeJSON(t, w, &rows)

		// The user both owns a game and wrote a review; the UNION must
		// still produce a single row.
		count := 0
		for _, row := range rows {
			if row.UserID == userID {
				count++
			}
		}
		assert.Equal(t, 1, count)
	})

	t.Run("remove from collection", func(t *testing.T) {
		w := doForm(t, http.MethodDelete, "/auth/collection/"+gameID, token, nil)
		assert.Equal(t, http.StatusNoContent, w.Code)

		w = doForm(t, http.MethodDelete, "/auth/collection/"+gameID, token, nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestReviewOwnership(t *testing.T) {
	requireRouter(t)

	_, ownerToken := newTestUser(t, "review_owner")
	_, otherToken := newTestUser(t, "review_other")
	gameID := newTestGame(t, "")

	w := doForm(t, http.MethodPost, "/auth/reviews/games/"+gameID, ownerToken, url.Values{
		"rating": {"5"},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created struct {
		ReviewID string `json:"review_id"`
	}
	decodeJSON(t, w, &created)
	require.NotEmpty(t, created.ReviewID)

	t.Run("stranger cannot update", func(t *testing.T) {
		w := doForm(t, http.MethodPut, "/auth/reviews/"+created.ReviewID, otherToken, url.Values{
			"rating": {"1"},
		})
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("stranger cannot delete", func(t *testing.T) {
		w := doForm(t, http.MethodDelete, "/auth/reviews/"+created.ReviewID, otherToken, nil)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("owner updates rating", func(t *testing.T) {
		w := doForm(t, http.MethodPut, "/auth/reviews/"+created.ReviewID, ownerToken, url.Values{
			"rating": {"3"},
		})
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"rating":3`)
	})

	t.Run("owner deletes", func(t *testing.T) {
		w := doForm(t, http.MethodDelete, "/auth/reviews/"+created.ReviewID, ownerToken, nil)
		assert.Equal(t, http.StatusNoContent, w.Code)
	})
}

func TestTopRatedBeatsGlobalAverage(t *testing.T) {
	requireRouter(t)

	_, token := newTestUser(t, "top_rater")
	highGame := newTestGame(t, "")
	lowGame := newTestGame(t, "")

	w := doForm(t, http.MethodPost, "/auth/reviews/games/"+highGame, token, url.Values{"rating": {"5"}})
	require.Equal(t, http.StatusCreated, w.Code)
	w = doForm(t, http.MethodPost, "/auth/reviews/games/"+lowGame, token, url.Values{"rating": {"1"}})
	require.Equal(t, http.StatusCreated, w.Code)

	var globalAvg float64
	require.NoError(t, testDB.Model(&models.Review{}).
		Select("AVG(rating)").Scan(&globalAvg).Error)

	w = doForm(t, http.MethodGet, "/games/top-rated?limit=100", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var rows []struct {
		GameID        string  `json:"game_id"`
		AverageRating float64 `json:"average_rating"`
	}
	decodeJSON(t, w, &rows)

	// Every listed game must beat the overall average, and a game rated 1
	// can never qualify.
	for _, row := range rows {
		assert.Greater(t, row.AverageRating, globalAvg)
		assert.NotEqual(t, lowGame, row.GameID)
	}
}
