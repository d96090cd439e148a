package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// @Summary List active users
// @Description Users that own at least one game or wrote at least one review
// @Tags stats
// @Produce json
// @Param limit query int false "Maximum rows, default 50"
// @Success 200 {array} object{user_id=string,username=string}
// @Router /users/active [get]
func ActiveUsers(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit, err := strconv.Atoi(c.DefaultQuery("limit", "50"))
		if err != nil || limit <= 0 {
			limit = 50
		}
		if limit > 100 {
			limit = 100
		}

		// UNION deduplicates users active on both fronts.
		var rows []struct {
			UserID            string
			Username          string
			DisplayName       string
			ProfilePictureURL string
		}
		err = db.Raw(`
			SELECT u.id AS user_id, u.username, u.display_name, u.profile_picture_url
			FROM users u
			JOIN (
				SELECT user_id FROM user_games
				UNION
				SELECT user_id FROM reviews
			) active ON active.user_id = u.id
			ORDER BY u.username
			LIMIT ?`, limit).Scan(&rows).Error
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching active users"})
			return
		}

		result := make([]gin.H, 0, len(rows))
		for i := range rows {
			result = append(result, gin.H{
				"user_id":             rows[i].UserID,
				"username":            rows[i].Username,
				"display_name":        rows[i].DisplayName,
				"profile_picture_url": rows[i].ProfilePictureURL,
			})
		}
		c.JSON(http.StatusOK, result)
	}
}
