package controllers

import (
	"errors"
	"net/http"
	"strconv"

	models "GameHub/models/postgres"
	"GameHub/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func achievementResponse(a *models.Achievement) gin.H {
	return gin.H{
		"achievement_id": a.ID,
		"game_id":        a.GameID,
		"name":           a.Name,
		"description":    a.Description,
		"rarity":         a.Rarity,
		"points_value":   a.PointsValue,
		"icon_url":       a.IconURL,
	}
}

// @Summary Create an achievement for a game
// @Description Admin only
// @Tags achievements
// @Accept x-www-form-urlencoded
// @Produce json
// @Param Authorization header string true "Bearer JWT token"
// @Param game_id path string true "Game id"
// @Param name formData string true "Achievement name"
// @Param description formData string false "Description"
// @Param rarity formData string false "COMMON, UNCOMMON, RARE, EPIC or LEGENDARY"
// @Param points_value formData int false "Points"
// @Param icon_url formData string false "Icon URL"
// @Success 201 {object} object{achievement_id=string,name=string}
// @Failure 400 {object} object{error=string}
// @Failure 404 {object} object{error=string}
// @Failure 409 {object} object{error=string}
// @Router /auth/admin/achievements/games/{game_id} [post]
// @Security ApiKeyAuth
func CreateAchievement(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		game, err := utils.FindGame(db, c.Param("game_id"))
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Game not found"})
			return
		}

		name := c.PostForm("name")
		if name == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Achievement name is required"})
			return
		}

		rarity := models.Rarity(c.DefaultPostForm("rarity", string(models.RarityCommon)))
		if !models.ValidRarity(rarity) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid rarity"})
			return
		}
		points, _ := strconv.Atoi(c.DefaultPostForm("points_value", "10"))

		achievement := models.Achievement{
			GameID:      game.ID,
			Name:        name,
			Description: c.PostForm("description"),
			Rarity:      rarity,
			PointsValue: points,
			IconURL:     c.PostForm("icon_url"),
		}
		if err := db.Create(&achievement).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				c.JSON(http.StatusConflict, gin.H{"error": "Achievement already exists for this game"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error creating achievement"})
			return
		}
		c.JSON(http.StatusCreated, achievementResponse(&achievement))
	}
}

// @Summary List a game's achievements
// @Tags achievements
// @Produce json
// @Param game_id path string true "Game id"
// @Success 200 {array} object{achievement_id=string,name=string,rarity=string}
// @Failure 404 {object} object{error=string}
// @Router /achievements/games/{game_id} [get]
func GetGameAchievements(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		game, err := utils.FindGame(db, c.Param("game_id"))
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Game not found"})
			return
		}

		var achievements []models.Achievement
		err = db.Where("game_id = ?", game.ID).Order("points_value DESC").Find(&achievements).Error
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching achievements"})
			return
		}

		result := make([]gin.H, 0, len(achievements))
		for i := range achievements {
			result = append(result, achievementResponse(&achievements[i]))
		}
		c.JSON(http.StatusOK, result)
	}
}

// @Summary List own earned achievements for a game
// @Tags achievements
// @Produce json
// @Param Authorization header string true "Bearer JWT token"
// @Param game_id path string true "Game id"
// @Success 200 {array} object{achievement_id=string,date_earned=string}
// @Failure 404 {object} object{error=string}
// @Router /auth/achievements/games/{game_id}/mine [get]
// @Security ApiKeyAuth
func GetMyGameAchievements(db *gorm.DB) gin.HandlerFunc {
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

		var rows []struct {
			models.Achievement
			DateEarned string
		}
		err = db.Model(&models.UserAchievement{}).
			Select("achievements.*, user_achievements.date_earned").
			Joins("JOIN achievements ON achievements.id = user_achievements.achievement_id").
			Where("user_achievements.user_id = ? AND achievements.game_id = ?", user.ID, game.ID).
			Scan(&rows).Error
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching achievements"})
			return
		}

		result := make([]gin.H, 0, len(rows))
		for i := range rows {
			entry := achievementResponse(&rows[i].Achievement)
			entry["date_earned"] = rows[i].DateEarned
			result = append(result, entry)
		}
		c.JSON(http.StatusOK, result)
	}
}

// @Summary List all own earned achievements
// @Description Earned achievements across every game, newest first
// @Tags achievements
// @Produce json
// @Param Authorization header string true "Bearer JWT token"
// @Success 200 {array} object{achievement_id=string,game_id=string,date_earned=string}
// @Router /auth/achievements/mine [get]
// @Security ApiKeyAuth
func GetMyAchievements(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := utils.CurrentUser(c, db)
		if err != nil {
			return
		}

		var rows []struct {
			models.Achievement
			DateEarned string
		}
		err = db.Model(&models.UserAchievement{}).
			Select("achievements.*, user_achievements.date_earned").
			Joins("JOIN achievements ON achievements.id = user_achievements.achievement_id").
			Where("user_achievements.user_id = ?", user.ID).
			Order("user_achievements.date_earned DESC").
			Scan(&rows).Error
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching achievements"})
			return
		}

		result := make([]gin.H, 0, len(rows))
		for i := range rows {
			entry := achievementResponse(&rows[i].Achievement)
			entry["date_earned"] = rows[i].DateEarned
			result = append(result, entry)
		}
		c.JSON(http.StatusOK, result)
	}
}

// @Summary Update an achievement
// @Description Admin only
// @Tags achievements
// @Accept x-www-form-urlencoded
// @Produce json
// @Param Authorization header string true "Bearer JWT token"
// @Param achievement_id path string true "Achievement id"
// @Param name formData string false "New name"
// @Param description formData string false "New description"
// @Param rarity formData string false "New rarity"
// @Param points_value formData int false "New points"
// @Param icon_url formData string false "New icon URL"
// @Success 200 {object} object{achievement_id=string,name=string}
// @Failure 400 {object} object{error=string}
// @Failure 404 {object} object{error=string}
// @Router /auth/admin/achievements/{achievement_id} [put]
// @Security ApiKeyAuth
func UpdateAchievement(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var achievement models.Achievement
		if err := db.Where("id = ?", c.Param("achievement_id")).First(&achievement).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Achievement not found"})
			return
		}

		if name, ok := c.GetPostForm("name"); ok {
			if name == "" {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Achievement name cannot be empty"})
				return
			}
			achievement.Name = name
		}
		if description, ok := c.GetPostForm("description"); ok {
			achievement.Description = description
		}
		if raw, ok := c.GetPostForm("rarity"); ok {
			rarity := models.Rarity(raw)
			if !models.ValidRarity(rarity) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid rarity"})
				return
			}
			achievement.Rarity = rarity
		}
		if raw, ok := c.GetPostForm("points_value"); ok {
			points, err := strconv.Atoi(raw)
			if err != nil || points < 0 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "points_value must be a non-negative integer"})
				return
			}
			achievement.PointsValue = points
		}
		if iconURL, ok := c.GetPostForm("icon_url"); ok {
			achievement.IconURL = iconURL
		}

		if err := db.Save(&achievement).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error updating achievement"})
			return
		}
		c.JSON(http.StatusOK, achievementResponse(&achievement))
	}
}

// @Summary Earn an achievement
// @Tags achievements
// @Produce json
// @Param Authorization header string true "Bearer JWT token"
// @Param achievement_id path string true "Achievement id"
// @Success 201 {object} object{message=string,achievement_id=string}
// @Failure 404 {object} object{error=string}
// @Failure 409 {object} object{error=string}
// @Router /auth/achievements/{achievement_id}/earn [post]
// @Security ApiKeyAuth
func EarnAchievement(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := utils.CurrentUser(c, db)
		if err != nil {
			return
		}

		var achievement models.Achievement
		if err := db.Where("id = ?", c.Param("achievement_id")).First(&achievement).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Achievement not found"})
			return
		}

		var existing models.UserAchievement
		err = db.Where("user_id = ? AND achievement_id = ?", user.ID, achievement.ID).
			First(&existing).Error
		if err == nil {
			c.JSON(http.StatusConflict, gin.H{"error": "Achievement already earned"})
			return
		}

		earned := models.UserAchievement{UserID: user.ID, AchievementID: achievement.ID}
		if err := db.Create(&earned).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				c.JSON(http.StatusConflict, gin.H{"error": "Achievement already earned"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error earning achievement"})
			return
		}
		c.JSON(http.StatusCreated, gin.H{
			"message":        "Achievement earned",
			"achievement_id": achievement.ID,
			"name":           achievement.Name,
			"points_value":   achievement.PointsValue,
			"date_earned":    earned.DateEarned,
		})
	}
}

// @Summary Delete an achievement
// @Description Admin only
// @Tags achievements
// @Produce json
// @Param Authorization header string true "Bearer JWT token"
// @Param achievement_id path string true "Achievement id"
// @Success 204
// @Failure 404 {object} object{error=string}
// @Router /auth/admin/achievements/{achievement_id} [delete]
// @Security ApiKeyAuth
func DeleteAchievement(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var achievement models.Achievement
		if err := db.Where("id = ?", c.Param("achievement_id")).First(&achievement).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Achievement not found"})
			return
		}
		if err := db.Delete(&achievement).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error deleting achievement"})
			return
		}
		c.Status(http.StatusNoContent)
	}
}
