package controllers_test

import (
	"fmt"
	"net/http"
	"net/url"
	"testing"
	"time"

	models "GameHub/models/postgres"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlaySessionLifecycle(t *testing.T) {
	requireRouter(t)

	_, token := newTestUser(t, "session_user")
	gameID := newTestGame(t, "")

	var sessionID float64

	t.Run("start a session", func(t *testing.T) {
		w := doForm(t, http.MethodPost, "/auth/sessions/games/"+gameID+"/start", token, nil)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		var created map[string]interface{}
		decodeJSON(t, w, &created)
		sessionID = created["session_id"].(float64)
		assert.Equal(t, true, created["active"])
		assert.Nil(t, created["end_time"])
	})

	t.Run("second open session for the same game rejected", func(t *testing.T) {
		w := doForm(t, http.MethodPost, "/auth/sessions/games/"+gameID+"/start", token, nil)
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("active filter lists the open session", func(t *testing.T) {
		w := doForm(t, http.MethodGet, "/auth/sessions?active_only=true", token, nil)
		assert.Equal(t, http.StatusOK, w.Code)

		var sessions []map[string]interface{}
		decodeJSON(t, w, &sessions)
		require.Len(t, sessions, 1)
		assert.Equal(t, sessionID, sessions[0]["session_id"])
	})

	sessionPath := fmt.Sprintf("/auth/sessions/%d", int(sessionID))

	t.Run("end the session", func(t *testing.T) {
		w := doForm(t, http.MethodPost, sessionPath+"/end", token, url.Values{
			"session_notes": {"good run"},
		})
		assert.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var ended map[string]interface{}
		decodeJSON(t, w, &ended)
		assert.Equal(t, false, ended["active"])
		assert.NotNil(t, ended["end_time"])
	})

	t.Run("ending twice rejected", func(t *testing.T) {
		w := doForm(t, http.MethodPost, sessionPath+"/end", token, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("a new session can start after the old one closed", func(t *testing.T) {
		w := doForm(t, http.MethodPost, "/auth/sessions/games/"+gameID+"/start", token, nil)
		assert.Equal(t, http.StatusCreated, w.Code)
	})
}

func TestSessionOwnership(t *testing.T) {
	requireRouter(t)

	_, ownerToken := newTestUser(t, "session_owner")
	_, otherToken := newTestUser(t, "session_other")
	gameID := newTestGame(t, "")

	w := doForm(t, http.MethodPost, "/auth/sessions/games/"+gameID+"/start", ownerToken, nil)
	require.Equal(t, http.StatusCreated, w.Code)

	var created map[string]interface{}
	decodeJSON(t, w, &created)
	sessionPath := fmt.Sprintf("/auth/sessions/%d", int(created["session_id"].(float64)))

	w = doForm(t, http.MethodPost, sessionPath+"/end", otherToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doForm(t, http.MethodGet, sessionPath, otherToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doForm(t, http.MethodDelete, sessionPath, otherToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestPlaytimeStats(t *testing.T) {
	requireRouter(t)

	userID, token := newTestUser(t, "playtime_user")
	gameID := newTestGame(t, "")

	// Two finished sessions, 90 minutes total, written directly so the
	// durations are deterministic.
	base := time.Now().Add(-3 * time.Hour)
	for _, minutes := range []int{60, 30} {
		end := base.Add(time.Duration(minutes) * time.Minute)
		session := models.PlaySession{
			UserID:    userID,
			GameID:    gameID,
			StartTime: base,
			EndTime:   &end,
		}
		require.NoError(t, testDB.Create(&session).Error)
	}
	// An open session must not count towards playtime
	open := models.PlaySession{UserID: userID, GameID: gameID, StartTime: base}
	require.NoError(t, testDB.Create(&open).Error)

	t.Run("per game playtime", func(t *testing.T) {
		w := doForm(t, http.MethodGet, "/auth/sessions/games/"+gameID+"/playtime", token, nil)
		assert.Equal(t, http.StatusOK, w.Code)

		var stats struct {
			TotalSeconds      int64  `json:"total_seconds"`
			SessionCount      int    `json:"session_count"`
			FormattedPlaytime string `json:"formatted_playtime"`
		}
		decodeJSON(t, w, &stats)
		assert.Equal(t, int64(90*60), stats.TotalSeconds)
		assert.Equal(t, 2, stats.SessionCount)
		assert.Equal(t, "1h 30m", stats.FormattedPlaytime)
	})

	t.Run("overall playtime", func(t *testing.T) {
		w := doForm(t, http.MethodGet, "/auth/sessions/stats/playtime", token, nil)
		assert.Equal(t, http.StatusOK, w.Code)

		var stats struct {
			TotalSeconds   int64 `json:"total_seconds"`
			UniqueGames    int   `json:"unique_games"`
			SessionCount   int   `json:"session_count"`
			MostPlayedGame struct {
				GameID string `json:"game_id"`
			} `json:"most_played_game"`
		}
		decodeJSON(t, w, &stats)
		assert.Equal(t, int64(90*60), stats.TotalSeconds)
		assert.Equal(t, 1, stats.UniqueGames)
		assert.Equal(t, 2, stats.SessionCount)
		assert.Equal(t, gameID, stats.MostPlayedGame.GameID)
	})
}
