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

// reviewWithUser is the JOIN row shape for review listings.
type reviewWithUser struct {
	models.Review
	Username          string
	DisplayName       string
	ProfilePictureURL string
}

func (r *reviewWithUser) response() gin.H {
	return gin.H{
		"review_id":           r.ID,
		"user_id":             r.UserID,
		"game_id":             r.GameID,
		"review_text":         r.ReviewText,
		"rating":              r.Rating,
		"review_date":         r.ReviewDate,
		"username":            r.Username,
		"display_name":        r.DisplayName,
		"profile_picture_url": r.ProfilePictureURL,
	}
}

const reviewJoinSelect = "reviews.*, users.username, users.display_name, users.profile_picture_url"

// @Summary Review a game
// @Description One review per user per game; use PUT to change an existing one
// @Tags reviews
// @Accept x-www-form-urlencoded
// @Produce json
// @Param Authorization header string true "Bearer JWT token"
// @Param game_id path string true "Game id"
// @Param rating formData int true "Rating 1-5"
// @Param review_text formData string false "Review text"
// @Success 201 {object} object{review_id=string}
// @Failure 400 {object} object{error=string}
// @Failure 404 {object} object{error=string}
// @Failure 409 {object} object{error=string}
// @Router /auth/reviews/games/{game_id} [post]
// @Security ApiKeyAuth
func CreateReview(db *gorm.DB) gin.HandlerFunc {
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

		rating, err := strconv.Atoi(c.PostForm("rating"))
		if err != nil || rating < 1 || rating > 5 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Rating must be between 1 and 5"})
			return
		}

		var existing models.Review
		err = db.Where("user_id = ? AND game_id = ?", user.ID, game.ID).First(&existing).Error
		if err == nil {
			c.JSON(http.StatusConflict, gin.H{"error": "You already reviewed this game. Use PUT to update."})
			return
		}

		review := models.Review{
			UserID:     user.ID,
			GameID:     game.ID,
			ReviewText: c.PostForm("review_text"),
			Rating:     rating,
		}
		if err := db.Create(&review).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				c.JSON(http.StatusConflict, gin.H{"error": "You already reviewed this game. Use PUT to update."})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error creating review"})
			return
		}

		c.JSON(http.StatusCreated, gin.H{
			"review_id":    review.ID,
			"user_id":      review.UserID,
			"game_id":      review.GameID,
			"review_text":  review.ReviewText,
			"rating":       review.Rating,
			"review_date":  review.ReviewDate,
			"username":     user.Username,
			"display_name": user.DisplayName,
		})
	}
}

// @Summary List reviews for a game
// @Tags reviews
// @Produce json
// @Param game_id path string true "Game id"
// @Param skip query int false "Offset"
// @Param limit query int false "Page size"
// @Success 200 {array} object{review_id=string,rating=integer,username=string}
// @Failure 404 {object} object{error=string}
// @Router /reviews/games/{game_id} [get]
func GetGameReviews(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		game, err := utils.FindGame(db, c.Param("game_id"))
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Game not found"})
			return
		}

		skip, limit := utils.Pagination(c, 50)

		var rows []reviewWithUser
		err = db.Model(&models.Review{}).
			Select(reviewJoinSelect).
			Joins("JOIN users ON users.id = reviews.user_id").
			Where("reviews.game_id = ?", game.ID).
			Offset(skip).Limit(limit).
			Scan(&rows).Error
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching reviews"})
			return
		}

		result := make([]gin.H, 0, len(rows))
		for i := range rows {
			result = append(result, rows[i].response())
		}
		c.JSON(http.StatusOK, result)
	}
}

// @Summary List a user's reviews
// @Tags reviews
// @Produce json
// @Param user_id path string true "User id"
// @Success 200 {array} object{review_id=string,rating=integer}
// @Failure 404 {object} object{error=string}
// @Router /reviews/users/{user_id} [get]
func GetUserReviews(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, err := utils.FindUserByID(db, c.Param("user_id")); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		listReviewsByUser(c, db, c.Param("user_id"))
	}
}

// @Summary List own reviews
// @Tags reviews
// @Produce json
// @Param Authorization header string true "Bearer JWT token"
// @Success 200 {array} object{review_id=string,rating=integer}
// @Router /auth/reviews/mine [get]
// @Security ApiKeyAuth
func GetMyReviews(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := utils.CurrentUser(c, db)
		if err != nil {
			return
		}
		listReviewsByUser(c, db, user.ID)
	}
}

func listReviewsByUser(c *gin.Context, db *gorm.DB, userID string) {
	skip, limit := utils.Pagination(c, 50)

	var rows []reviewWithUser
	err := db.Model(&models.Review{}).
		Select(reviewJoinSelect).
		Joins("JOIN users ON users.id = reviews.user_id").
		Where("reviews.user_id = ?", userID).
		Offset(skip).Limit(limit).
		Scan(&rows).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching reviews"})
		return
	}

	result := make([]gin.H, 0, len(rows))
	for i := range rows {
		result = append(result, rows[i].response())
	}
	c.JSON(http.StatusOK, result)
}

// @Summary Get own review for a game
// @Tags reviews
// @Produce json
// @Param Authorization header string true "Bearer JWT token"
// @Param game_id path string true "Game id"
// @Success 200 {object} object{review_id=string,rating=integer}
// @Failure 404 {object} object{error=string}
// @Router /auth/reviews/games/{game_id}/mine [get]
// @Security ApiKeyAuth
func GetMyReviewForGame(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := utils.CurrentUser(c, db)
		if err != nil {
			return
		}

		var row reviewWithUser
		err = db.Model(&models.Review{}).
			Select(reviewJoinSelect).
			Joins("JOIN users ON users.id = reviews.user_id").
			Where("reviews.user_id = ? AND reviews.game_id = ?", user.ID, c.Param("game_id")).
			First(&row).Error
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "You haven't reviewed this game yet"})
			return
		}
		c.JSON(http.StatusOK, row.response())
	}
}

// @Summary Update own review
// @Tags reviews
// @Accept x-www-form-urlencoded
// @Produce json
// @Param Authorization header string true "Bearer JWT token"
// @Param review_id path string true "Review id"
// @Param rating formData int false "New rating 1-5"
// @Param review_text formData string false "New text"
// @Success 200 {object} object{review_id=string}
// @Failure 400 {object} object{error=string}
// @Failure 403 {object} object{error=string}
// @Failure 404 {object} object{error=string}
// @Router /auth/reviews/{review_id} [put]
// @Security ApiKeyAuth
func UpdateReview(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := utils.CurrentUser(c, db)
		if err != nil {
			return
		}

		var review models.Review
		if err := db.Where("id = ?", c.Param("review_id")).First(&review).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Review not found"})
			return
		}
		if review.UserID != user.ID {
			c.JSON(http.StatusForbidden, gin.H{"error": "Not authorized to update this review"})
			return
		}

		if raw, ok := c.GetPostForm("rating"); ok {
			rating, err := strconv.Atoi(raw)
			if err != nil || rating < 1 || rating > 5 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Rating must be between 1 and 5"})
				return
			}
			review.Rating = rating
		}
		if text, ok := c.GetPostForm("review_text"); ok {
			review.ReviewText = text
		}

		if err := db.Save(&review).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error updating review"})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"review_id":    review.ID,
			"user_id":      review.UserID,
			"game_id":      review.GameID,
			"review_text":  review.ReviewText,
			"rating":       review.Rating,
			"review_date":  review.ReviewDate,
			"username":     user.Username,
			"display_name": user.DisplayName,
		})
	}
}

// @Summary Delete a review
// @Description Owner or admin
// @Tags reviews
// @Produce json
// @Param Authorization header string true "Bearer JWT token"
// @Param review_id path string true "Review id"
// @Success 204
// @Failure 403 {object} object{error=string}
// @Failure 404 {object} object{error=string}
// @Router /auth/reviews/{review_id} [delete]
// @Security ApiKeyAuth
func DeleteReview(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := utils.CurrentUser(c, db)
		if err != nil {
			return
		}

		var review models.Review
		if err := db.Where("id = ?", c.Param("review_id")).First(&review).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Review not found"})
			return
		}
		if review.UserID != user.ID && user.Role != models.RoleAdmin {
			c.JSON(http.StatusForbidden, gin.H{"error": "Not authorized to delete this review"})
			return
		}

		if err := db.Delete(&review).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error deleting review"})
			return
		}
		c.Status(http.StatusNoContent)
	}
}
