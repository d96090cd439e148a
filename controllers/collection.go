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

func collectionEntry(ug *models.UserGame, game *models.Game) gin.H {
	return gin.H{
		"game_id":         game.ID,
		"title":           game.Title,
		"developer":       game.Developer,
		"release_date":    game.ReleaseDate,
		"cover_image_url": game.CoverImageURL,
		"play_status":     ug.PlayStatus,
		"personal_notes":  ug.PersonalNotes,
		"rating":          ug.Rating,
	}
}

func parseRatingForm(c *gin.Context) (*int, bool) {
	raw, ok := c.GetPostForm("rating")
	if !ok || raw == "" {
		return nil, true
	}
	rating, err := strconv.Atoi(raw)
	if err != nil || rating < 1 || rating > 5 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Rating must be between 1 and 5"})
		return nil, false
	}
	return &rating, true
}

// @Summary Add a game to the collection
// @Description Creates the caller's collection entry for a game
// @Tags collection
// @Accept x-www-form-urlencoded
// @Produce json
// @Param Authorization header string true "Bearer JWT token"
// @Param game_id path string true "Game id"
// @Param play_status formData string false "NOT_STARTED, IN_PROGRESS, COMPLETED or DROPPED"
// @Param personal_notes formData string false "Notes"
// @Param rating formData int false "Rating 1-5"
// @Success 201 {object} object{message=string,game_id=string}
// @Failure 400 {object} object{error=string}
// @Failure 404 {object} object{error=string}
// @Failure 409 {object} object{error=string}
// @Router /auth/collection/{game_id} [post]
// @Security ApiKeyAuth
func AddToCollection(db *gorm.DB) gin.HandlerFunc {
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

		inCollection, err := utils.IsInCollection(db, user.ID, game.ID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error checking collection"})
			return
		}
		if inCollection {
			c.JSON(http.StatusConflict, gin.H{"error": "Game already in collection"})
			return
		}

		rating, ok := parseRatingForm(c)
		if !ok {
			return
		}
		playStatus := models.PlayStatus(c.DefaultPostForm("play_status", string(models.StatusNotStarted)))
		if !models.ValidPlayStatus(playStatus) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid play status"})
			return
		}

		entry := models.UserGame{
			UserID:        user.ID,
			GameID:        game.ID,
			PlayStatus:    playStatus,
			PersonalNotes: c.PostForm("personal_notes"),
			Rating:        rating,
		}
		if err := db.Create(&entry).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				c.JSON(http.StatusConflict, gin.H{"error": "Game already in collection"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error adding game to collection"})
			return
		}

		c.JSON(http.StatusCreated, gin.H{"message": "Game added to collection", "game_id": game.ID})
	}
}

// @Summary Get own collection
// @Tags collection
// @Produce json
// @Param Authorization header string true "Bearer JWT token"
// @Param play_status query string false "Filter by play status"
// @Success 200 {array} object{game_id=string,title=string,play_status=string}
// @Router /auth/collection [get]
// @Security ApiKeyAuth
func GetMyCollection(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := utils.CurrentUser(c, db)
		if err != nil {
			return
		}
		listCollection(c, db, user.ID)
	}
}

// @Summary Get a user's public collection
// @Tags collection
// @Produce json
// @Param user_id path string true "User id"
// @Success 200 {array} object{game_id=string,title=string,play_status=string}
// @Failure 404 {object} object{error=string}
// @Router /collection/{user_id} [get]
func GetUserCollection(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, err := utils.FindUserByID(db, c.Param("user_id")); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		listCollection(c, db, c.Param("user_id"))
	}
}

func listCollection(c *gin.Context, db *gorm.DB, userID string) {
	query := db.Where("user_id = ?", userID)
	if status := c.Query("play_status"); status != "" {
		query = query.Where("play_status = ?", status)
	}

	var entries []models.UserGame
	if err := query.Find(&entries).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching collection"})
		return
	}

	collection := make([]gin.H, 0, len(entries))
	for i := range entries {
		var game models.Game
		if err := db.Where("id = ?", entries[i].GameID).First(&game).Error; err != nil {
			continue
		}
		collection = append(collection, collectionEntry(&entries[i], &game))
	}
	c.JSON(http.StatusOK, collection)
}

func findCollectionEntry(c *gin.Context, db *gorm.DB, userID string) (*models.UserGame, bool) {
	var entry models.UserGame
	err := db.Where("user_id = ? AND game_id = ?", userID, c.Param("game_id")).First(&entry).Error
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Game not in collection"})
		return nil, false
	}
	return &entry, true
}

// @Summary Update play status
// @Tags collection
// @Accept x-www-form-urlencoded
// @Produce json
// @Param Authorization header string true "Bearer JWT token"
// @Param game_id path string true "Game id"
// @Param play_status formData string true "New status"
// @Success 200 {object} object{message=string,play_status=string}
// @Failure 400 {object} object{error=string}
// @Failure 404 {object} object{error=string}
// @Router /auth/collection/{game_id}/status [patch]
// @Security ApiKeyAuth
func UpdatePlayStatus(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := utils.CurrentUser(c, db)
		if err != nil {
			return
		}

		playStatus := models.PlayStatus(c.PostForm("play_status"))
		if !models.ValidPlayStatus(playStatus) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid play status"})
			return
		}

		entry, ok := findCollectionEntry(c, db, user.ID)
		if !ok {
			return
		}
		entry.PlayStatus = playStatus
		if err := db.Save(entry).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error updating play status"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Play status updated", "play_status": playStatus})
	}
}

// @Summary Update collection rating
// @Tags collection
// @Accept x-www-form-urlencoded
// @Produce json
// @Param Authorization header string true "Bearer JWT token"
// @Param game_id path string true "Game id"
// @Param rating formData int true "Rating 1-5"
// @Success 200 {object} object{message=string,rating=integer}
// @Failure 400 {object} object{error=string}
// @Failure 404 {object} object{error=string}
// @Router /auth/collection/{game_id}/rating [patch]
// @Security ApiKeyAuth
func UpdateCollectionRating(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := utils.CurrentUser(c, db)
		if err != nil {
			return
		}

		rating, ok := parseRatingForm(c)
		if !ok {
			return
		}
		if rating == nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Rating is required"})
			return
		}

		entry, ok := findCollectionEntry(c, db, user.ID)
		if !ok {
			return
		}
		entry.Rating = rating
		if err := db.Save(entry).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error updating rating"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Rating updated", "rating": *rating})
	}
}

// @Summary Update personal notes
// @Tags collection
// @Accept x-www-form-urlencoded
// @Produce json
// @Param Authorization header string true "Bearer JWT token"
// @Param game_id path string true "Game id"
// @Param personal_notes formData string true "Notes"
// @Success 200 {object} object{message=string}
// @Failure 404 {object} object{error=string}
// @Router /auth/collection/{game_id}/notes [patch]
// @Security ApiKeyAuth
func UpdateCollectionNotes(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := utils.CurrentUser(c, db)
		if err != nil {
			return
		}

		entry, ok := findCollectionEntry(c, db, user.ID)
		if !ok {
			return
		}
		entry.PersonalNotes = c.PostForm("personal_notes")
		if err := db.Save(entry).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error updating notes"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Notes updated"})
	}
}

// @Summary Remove a game from the collection
// @Tags collection
// @Produce json
// @Param Authorization header string true "Bearer JWT token"
// @Param game_id path string true "Game id"
// @Success 204
// @Failure 404 {object} object{error=string}
// @Router /auth/collection/{game_id} [delete]
// @Security ApiKeyAuth
func RemoveFromCollection(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := utils.CurrentUser(c, db)
		if err != nil {
			return
		}

		entry, ok := findCollectionEntry(c, db, user.ID)
		if !ok {
			return
		}
		if err := db.Delete(entry).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error removing game from collection"})
			return
		}
		c.Status(http.StatusNoContent)
	}
}
