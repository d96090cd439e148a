package controllers_test

import (
	"net/http"
	"net/url"
	"testing"

	models "GameHub/models/postgres"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// promoteToAdmin flips a test user's role directly; there is no first-admin
// bootstrap endpoint.
func promoteToAdmin(t *testing.T, userID string) {
	t.Helper()
	require.NoError(t, testDB.Model(&models.User{}).
		Where("id = ?", userID).
		Update("role", models.RoleAdmin).Error)
}

func TestAchievementLifecycle(t *testing.T) {
	requireRouter(t)

	adminID, adminToken := newTestUser(t, "ach_admin")
	promoteToAdmin(t, adminID)
	_, playerToken := newTestUser(t, "ach_player")
	gameID := newTestGame(t, "")

	var achievementID string

	t.Run("admin creates achievement", func(t *testing.T) {
		w := doForm(t, http.MethodPost, "/auth/admin/achievements/games/"+gameID, adminToken, url.Values{
			"name":         {"First Blood"},
			"description":  {"Win your first match"},
			"rarity":       {"RARE"},
			"points_value": {"25"},
		})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		var created struct {
			AchievementID string `json:"achievement_id"`
			Rarity        string `json:"rarity"`
		}
		decodeJSON(t, w, &created)
		achievementID = created.AchievementID
		assert.Equal(t, "RARE", created.Rarity)
	})

	t.Run("regular user cannot create", func(t *testing.T) {
		w := doForm(t, http.MethodPost, "/auth/admin/achievements/games/"+gameID, playerToken, url.Values{
			"name": {"Nope"},
		})
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("invalid rarity rejected", func(t *testing.T) {
		w := doForm(t, http.MethodPost, "/auth/admin/achievements/games/"+gameID, adminToken, url.Values{
			"name":   {"Broken"},
			"rarity": {"MYTHIC"},
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("game achievements are public", func(t *testing.T) {
		w := doForm(t, http.MethodGet, "/achievements/games/"+gameID, "", nil)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "First Blood")
	})

	t.Run("player earns it once", func(t *testing.T) {
		w := doForm(t, http.MethodPost, "/auth/achievements/"+achievementID+"/earn", playerToken, nil)
		assert.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		w = doForm(t, http.MethodPost, "/auth/achievements/"+achievementID+"/earn", playerToken, nil)
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("earned list joins achievement data", func(t *testing.T) {
		w := doForm(t, http.MethodGet, "/auth/achievements/games/"+gameID+"/mine", playerToken, nil)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), achievementID)
		assert.Contains(t, w.Body.String(), "date_earned")
	})

	t.Run("all earned achievements listed across games", func(t *testing.T) {
		otherGame := newTestGame(t, "")
		w := doForm(t, http.MethodPost, "/auth/admin/achievements/games/"+otherGame, adminToken, url.Values{
			"name": {"Globetrotter"},
		})
		require.Equal(t, http.StatusCreated, w.Code)

		var other struct {
			AchievementID string `json:"achievement_id"`
		}
		decodeJSON(t, w, &other)
		w = doForm(t, http.MethodPost, "/auth/achievements/"+other.AchievementID+"/earn", playerToken, nil)
		require.Equal(t, http.StatusCreated, w.Code)

		w = doForm(t, http.MethodGet, "/auth/achievements/mine", playerToken, nil)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), achievementID)
		assert.Contains(t, w.Body.String(), other.AchievementID)
	})

	t.Run("admin updates achievement", func(t *testing.T) {
		w := doForm(t, http.MethodPut, "/auth/admin/achievements/"+achievementID, adminToken, url.Values{
			"name":         {"First Blood II"},
			"points_value": {"50"},
		})
		assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.Contains(t, w.Body.String(), "First Blood II")
		assert.Contains(t, w.Body.String(), `"points_value":50`)
	})

	t.Run("update with invalid rarity rejected", func(t *testing.T) {
		w := doForm(t, http.MethodPut, "/auth/admin/achievements/"+achievementID, adminToken, url.Values{
			"rarity": {"MYTHIC"},
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("admin deletes achievement", func(t *testing.T) {
		w := doForm(t, http.MethodDelete, "/auth/admin/achievements/"+achievementID, adminToken, nil)
		assert.Equal(t, http.StatusNoContent, w.Code)

		w = doForm(t, http.MethodDelete, "/auth/admin/achievements/"+achievementID, adminToken, nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestAdminGameManagement(t *testing.T) {
	requireRouter(t)

	adminID, adminToken := newTestUser(t, "game_admin")
	promoteToAdmin(t, adminID)

	title := uniqueName("admin_game")
	w := doJSON(t, http.MethodPost, "/auth/admin/games", adminToken, map[string]interface{}{
		"title":     title,
		"developer": "In-House",
		"genres":    []string{"Strategy"},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created struct {
		GameID string `json:"game_id"`
	}
	decodeJSON(t, w, &created)
	require.NotEmpty(t, created.GameID)
	t.Cleanup(func() {
		testDB.Where("id = ?", created.GameID).Delete(&models.Game{})
	})

	t.Run("game is publicly visible", func(t *testing.T) {
		w := doForm(t, http.MethodGet, "/games/"+created.GameID, "", nil)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), title)
	})

	t.Run("update changes the title", func(t *testing.T) {
		w := doJSON(t, http.MethodPut, "/auth/admin/games/"+created.GameID, adminToken, map[string]interface{}{
			"title": title + " Remastered",
		})
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Remastered")
	})

	t.Run("delete removes the game", func(t *testing.T) {
		w := doForm(t, http.MethodDelete, "/auth/admin/games/"+created.GameID, adminToken, nil)
		assert.Equal(t, http.StatusNoContent, w.Code)

		w = doForm(t, http.MethodGet, "/games/"+created.GameID, "", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
