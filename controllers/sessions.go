package controllers

import (
	"fmt"
	"net/http"
	"time"

	models "GameHub/models/postgres"
	"GameHub/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func sessionResponse(s *models.PlaySession) gin.H {
	resp := gin.H{
		"session_id":    s.ID,
		"user_id":       s.UserID,
		"game_id":       s.GameID,
		"start_time":    s.StartTime,
		"end_time":      s.EndTime,
		"session_notes": s.SessionNotes,
		"active":        s.EndTime == nil,
	}
	if s.EndTime != nil {
		resp["duration_seconds"] = int64(s.Duration().Seconds())
	}
	return resp
}

func formatPlaytime(d time.Duration) string {
	total := int64(d.Seconds())
	hours := total / 3600
	minutes := (total % 3600) / 60
	return fmt.Sprintf("%dh %dm", hours, minutes)
}

// @Summary Start a play session
// @Description Only one open session per user per game
// @Tags sessions
// @Produce json
// @Param Authorization header string true "Bearer JWT token"
// @Param game_id path string true "Game id"
// @Success 201 {object} object{session_id=integer,start_time=string}
// @Failure 404 {object} object{error=string}
// @Failure 409 {object} object{error=string}
// @Router /auth/sessions/games/{game_id}/start [post]
// @Security ApiKeyAuth
func StartSession(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := utils.CurrentUser(c, db)
		if err != nil {
			return
		}

		game, err := utils.FindGame(db, c.Param("game_id"))
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Game not found"})
			return
		}

		var open models.PlaySession
		err = db.Where("user_id = ? AND game_id = ? AND end_time IS NULL", user.ID, game.ID).
			First(&open).Error
		if err == nil {
			c.JSON(http.StatusConflict, gin.H{
				"error":      "You already have an active session for this game",
				"session_id": open.ID,
			})
			return
		}

		session := models.PlaySession{
			UserID:    user.ID,
			GameID:    game.ID,
			StartTime: time.Now(),
		}
		if err := db.Create(&session).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error starting session"})
			return
		}
		c.JSON(http.StatusCreated, sessionResponse(&session))
	}
}

// @Summary End a play session
// @Tags sessions
// @Accept x-www-form-urlencoded
// @Produce json
// @Param Authorization header string true "Bearer JWT token"
// @Param session_id path int true "Session id"
// @Param session_notes formData string false "Notes for the session"
// @Success 200 {object} object{session_id=integer,duration_seconds=integer}
// @Failure 400 {object} object{error=string}
// @Failure 403 {object} object{error=string}
// @Failure 404 {object} object{error=string}
// @Router /auth/sessions/{session_id}/end [post]
// @Security ApiKeyAuth
func EndSession(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := utils.CurrentUser(c, db)
		if err != nil {
			return
		}

		var session models.PlaySession
		if err := db.Where("id = ?", c.Param("session_id")).First(&session).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
			return
		}
		if session.UserID != user.ID {
			c.JSON(http.StatusForbidden, gin.H{"error": "Not authorized to end this session"})
			return
		}
		if session.EndTime != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Session already ended"})
			return
		}

		now := time.Now()
		if !now.After(session.StartTime) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "End time must be after start time"})
			return
		}
		session.EndTime = &now
		if notes, ok := c.GetPostForm("session_notes"); ok {
			session.SessionNotes = notes
		}

		if err := db.Save(&session).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error ending session"})
			return
		}
		c.JSON(http.StatusOK, sessionResponse(&session))
	}
}

// @Summary Update session notes
// @Tags sessions
// @Accept x-www-form-urlencoded
// @Produce json
// @Param Authorization header string true "Bearer JWT token"
// @Param session_id path int true "Session id"
// @Param session_notes formData string true "Notes"
// @Success 200 {object} object{message=string}
// @Failure 403 {object} object{error=string}
// @Failure 404 {object} object{error=string}
// @Router /auth/sessions/{session_id}/notes [patch]
// @Security ApiKeyAuth
func UpdateSessionNotes(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := utils.CurrentUser(c, db)
		if err != nil {
			return
		}

		var session models.PlaySession
		if err := db.Where("id = ?", c.Param("session_id")).First(&session).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
			return
		}
		if session.UserID != user.ID {
			c.JSON(http.StatusForbidden, gin.H{"error": "Not authorized to update this session"})
			return
		}

		session.SessionNotes = c.PostForm("session_notes")
		if err := db.Save(&session).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error updating session notes"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Session notes updated"})
	}
}

// @Summary List own play sessions
// @Tags sessions
// @Produce json
// @Param Authorization header string true "Bearer JWT token"
// @Param game_id query string false "Filter by game"
// @Param active_only query bool false "Only open sessions"
// @Param skip query int false "Offset"
// @Param limit query int false "Page size"
// @Success 200 {array} object{session_id=integer,game_id=string}
// @Router /auth/sessions [get]
// @Security ApiKeyAuth
func ListSessions(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := utils.CurrentUser(c, db)
		if err != nil {
			return
		}

		skip, limit := utils.Pagination(c, 50)

		query := db.Where("user_id = ?", user.ID)
		if gameID := c.Query("game_id"); gameID != "" {
			query = query.Where("game_id = ?", gameID)
		}
		if c.Query("active_only") == "true" {
			query = query.Where("end_time IS NULL")
		}

		var sessions []models.PlaySession
		err = query.Order("start_time DESC").Offset(skip).Limit(limit).Find(&sessions).Error
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching sessions"})
			return
		}

		result := make([]gin.H, 0, len(sessions))
		for i := range sessions {
			result = append(result, sessionResponse(&sessions[i]))
		}
		c.JSON(http.StatusOK, result)
	}
}

// @Summary Get a play session
// @Description Owner or admin
// @Tags sessions
// @Produce json
// @Param Authorization header string true "Bearer JWT token"
// @Param session_id path int true "Session id"
// @Success 200 {object} object{session_id=integer,game_id=string}
// @Failure 403 {object} object{error=string}
// @Failure 404 {object} object{error=string}
// @Router /auth/sessions/{session_id} [get]
// @Security ApiKeyAuth
func GetSession(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := utils.CurrentUser(c, db)
		if err != nil {
			return
		}

		var session models.PlaySession
		if err := db.Where("id = ?", c.Param("session_id")).First(&session).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
			return
		}
		if session.UserID != user.ID && user.Role != models.RoleAdmin {
			c.JSON(http.StatusForbidden, gin.H{"error": "Not authorized to view this session"})
			return
		}
		c.JSON(http.StatusOK, sessionResponse(&session))
	}
}

// @Summary Delete a play session
// @Description Owner or admin
// @Tags sessions
// @Produce json
// @Param Authorization header string true "Bearer JWT token"
// @Param session_id path int true "Session id"
// @Success 204
// @Failure 403 {object} object{error=string}
// @Failure 404 {object} object{error=string}
// @Router /auth/sessions/{session_id} [delete]
// @Security ApiKeyAuth
func DeleteSession(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := utils.CurrentUser(c, db)
		if err != nil {
			return
		}

		var session models.PlaySession
		if err := db.Where("id = ?", c.Param("session_id")).First(&session).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
			return
		}
		if session.UserID != user.ID && user.Role != models.RoleAdmin {
			c.JSON(http.StatusForbidden, gin.H{"error": "Not authorized to delete this session"})
			return
		}
		if err := db.Delete(&session).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error deleting session"})
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// @Summary Playtime for one game
// @Description Sums the finished sessions of the caller for a game
// @Tags sessions
// @Produce json
// @Param Authorization header string true "Bearer JWT token"
// @Param game_id path string true "Game id"
// @Success 200 {object} object{total_seconds=integer,total_hours=number,session_count=integer}
// @Failure 404 {object} object{error=string}
// @Router /auth/sessions/games/{game_id}/playtime [get]
// @Security ApiKeyAuth
func GamePlaytimeStats(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := utils.CurrentUser(c, db)
		if err != nil {
			return
		}

		game, err := utils.FindGame(db, c.Param("game_id"))
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Game not found"})
			return
		}

		var sessions []models.PlaySession
		err = db.Where("user_id = ? AND game_id = ? AND end_time IS NOT NULL", user.ID, game.ID).
			Find(&sessions).Error
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching sessions"})
			return
		}

		var total time.Duration
		for i := range sessions {
			total += sessions[i].Duration()
		}

		c.JSON(http.StatusOK, gin.H{
			"game_id":            game.ID,
			"title":              game.Title,
			"total_seconds":      int64(total.Seconds()),
			"total_hours":        total.Hours(),
			"formatted_playtime": formatPlaytime(total),
			"session_count":      len(sessions),
		})
	}
}

// @Summary Overall playtime statistics
// @Description Totals across all of the caller's finished sessions
// @Tags sessions
// @Produce json
// @Param Authorization header string true "Bearer JWT token"
// @Success 200 {object} object{total_seconds=integer,unique_games=integer}
// @Router /auth/sessions/stats/playtime [get]
// @Security ApiKeyAuth
func PlaytimeStats(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := utils.CurrentUser(c, db)
		if err != nil {
			return
		}

		var sessions []models.PlaySession
		err = db.Where("user_id = ? AND end_time IS NOT NULL", user.ID).Find(&sessions).Error
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching sessions"})
			return
		}

		var total time.Duration
		perGame := make(map[string]time.Duration)
		for i := range sessions {
			d := sessions[i].Duration()
			total += d
			perGame[sessions[i].GameID] += d
		}

		var mostPlayedID string
		var mostPlayed time.Duration
		for gameID, d := range perGame {
			if d > mostPlayed {
				mostPlayedID, mostPlayed = gameID, d
			}
		}

		resp := gin.H{
			"total_seconds":      int64(total.Seconds()),
			"total_hours":        total.Hours(),
			"formatted_playtime": formatPlaytime(total),
			"session_count":      len(sessions),
			"unique_games":       len(perGame),
		}
		if mostPlayedID != "" {
			var game models.Game
			if err := db.Where("id = ?", mostPlayedID).First(&game).Error; err == nil {
				resp["most_played_game"] = gin.H{
					"game_id":       game.ID,
					"title":         game.Title,
					"total_seconds": int64(mostPlayed.Seconds()),
				}
			}
		}
		c.JSON(http.StatusOK, resp)
	}
}
