package utils

import (
	"errors"
	"fmt"
	"net/http"

	"GameHub/middleware"
	models "GameHub/models/postgres"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// CurrentUser resolves the authenticated user for a request. It reuses the
// id stored by the AuthRequired middleware when present, otherwise it
// decodes the JWT directly. Writes the error response on failure.
func CurrentUser(c *gin.Context, db *gorm.DB) (*models.User, error) {
	userID, exists := c.Get("user_id")
	if !exists {
		decoded, err := middleware.JWT_decoder(c)
		if err != nil {
			return nil, err
		}
		userID = decoded
	}

	var user models.User
	if err := db.Where("id = ?", userID).First(&user).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found: invalid token"})
		return nil, err
	}
	return &user, nil
}

// FindGame fetches a game by id, distinguishing absence from other errors.
func FindGame(db *gorm.DB, gameID string) (*models.Game, error) {
	var game models.Game
	result := db.Where("id = ?", gameID).First(&game)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("game not found")
		}
		return nil, result.Error
	}
	return &game, nil
}

// FindUserByID fetches a user by id.
func FindUserByID(db *gorm.DB, userID string) (*models.User, error) {
	var user models.User
	result := db.Where("id = ?", userID).First(&user)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user not found")
		}
		return nil, result.Error
	}
	return &user, nil
}

// IsInCollection reports whether the user tracks the given game.
func IsInCollection(db *gorm.DB, userID, gameID string) (bool, error) {
	var count int64
	err := db.Model(&models.UserGame{}).
		Where("user_id = ? AND game_id = ?", userID, gameID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
