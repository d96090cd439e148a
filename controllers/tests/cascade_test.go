package controllers_test

import (
	"net/http"
	"testing"
	"time"

	models "GameHub/models/postgres"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func countRows(t *testing.T, model interface{}, query string, args ...interface{}) int64 {
	t.Helper()
	var count int64
	require.NoError(t, testDB.Model(model).Where(query, args...).Count(&count).Error)
	return count
}

// seedDependents fills every table hanging off (user, game) with one row:
// collection entry, review, play session, achievement unlock.
func seedDependents(t *testing.T, userID, gameID string) {
	t.Helper()

	require.NoError(t, testDB.Create(&models.UserGame{
		UserID:     userID,
		GameID:     gameID,
		PlayStatus: models.StatusInProgress,
	}).Error)
	require.NoError(t, testDB.Create(&models.Review{
		UserID: userID,
		GameID: gameID,
		Rating: 4,
	}).Error)
	end := time.Now()
	require.NoError(t, testDB.Create(&models.PlaySession{
		UserID:    userID,
		GameID:    gameID,
		StartTime: end.Add(-time.Hour),
		EndTime:   &end,
	}).Error)

	achievement := models.Achievement{GameID: gameID, Name: uniqueName("cascade_ach")}
	require.NoError(t, testDB.Create(&achievement).Error)
	require.NoError(t, testDB.Create(&models.UserAchievement{
		UserID:        userID,
		AchievementID: achievement.ID,
	}).Error)
}

func TestUserDeletionCascades(t *testing.T) {
	requireRouter(t)

	adminID, adminToken := newTestUser(t, "cascade_admin")
	promoteToAdmin(t, adminID)

	targetID, _ := newTestUser(t, "cascade_target")
	initiatorID, _ := newTestUser(t, "cascade_init")
	recipientID, _ := newTestUser(t, "cascade_recv")
	gameID := newTestGame(t, "")

	seedDependents(t, targetID, gameID)
	// One friendship edge in each direction around the target
	require.NoError(t, testDB.Create(&models.Friendship{
		InitiatorID: targetID,
		RecipientID: recipientID,
		Status:      models.FriendshipPending,
	}).Error)
	require.NoError(t, testDB.Create(&models.Friendship{
		InitiatorID: initiatorID,
		RecipientID: targetID,
		Status:      models.FriendshipAccepted,
	}).Error)

	w := doForm(t, http.MethodDelete, "/auth/admin/users/"+targetID, adminToken, nil)
	require.Equal(t, http.StatusNoContent, w.Code, w.Body.String())

	assert.Zero(t, countRows(t, &models.User{}, "id = ?", targetID))
	assert.Zero(t, countRows(t, &models.UserGame{}, "user_id = ?", targetID))
	assert.Zero(t, countRows(t, &models.Review{}, "user_id = ?", targetID))
	assert.Zero(t, countRows(t, &models.PlaySession{}, "user_id = ?", targetID))
	assert.Zero(t, countRows(t, &models.UserAchievement{}, "user_id = ?", targetID))
	assert.Zero(t, countRows(t, &models.Friendship{},
		"initiator_id = ? OR recipient_id = ?", targetID, targetID))

	// Unrelated users and the game survive
	assert.Equal(t, int64(1), countRows(t, &models.User{}, "id = ?", initiatorID))
	assert.Equal(t, int64(1), countRows(t, &models.Game{}, "id = ?", gameID))
}

func TestGameDeletionCascades(t *testing.T) {
	requireRouter(t)

	adminID, adminToken := newTestUser(t, "gcascade_admin")
	promoteToAdmin(t, adminID)

	playerID, _ := newTestUser(t, "gcascade_player")
	gameID := newTestGame(t, "")

	seedDependents(t, playerID, gameID)
	require.NoError(t, testDB.Create(&models.GameGenre{GameID: gameID, Genre: "Roguelike"}).Error)
	require.NoError(t, testDB.Create(&models.GamePlatform{GameID: gameID, Platform: "PC"}).Error)

	w := doForm(t, http.MethodDelete, "/auth/admin/games/"+gameID, adminToken, nil)
	require.Equal(t, http.StatusNoContent, w.Code, w.Body.String())

	assert.Zero(t, countRows(t, &models.Game{}, "id = ?", gameID))
	assert.Zero(t, countRows(t, &models.GameGenre{}, "game_id = ?", gameID))
	assert.Zero(t, countRows(t, &models.GamePlatform{}, "game_id = ?", gameID))
	assert.Zero(t, countRows(t, &models.Achievement{}, "game_id = ?", gameID))
	assert.Zero(t, countRows(t, &models.UserGame{}, "game_id = ?", gameID))
	assert.Zero(t, countRows(t, &models.Review{}, "game_id = ?", gameID))
	assert.Zero(t, countRows(t, &models.PlaySession{}, "game_id = ?", gameID))

	// Unlocks hang off the achievement, which is gone too
	assert.Zero(t, countRows(t, &models.UserAchievement{}, "user_id = ?", playerID))

	// The player itself survives
	assert.Equal(t, int64(1), countRows(t, &models.User{}, "id = ?", playerID))
}
