package postgres

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

/*
 * 'Review' holds a user's written review of a game. The composite unique
 * index caps reviews at one per (user, game); the rating range is enforced
 * here and again by a database trigger (see config.MigrateDatabase).
 */
type Review struct {
	ID         string    `gorm:"primaryKey;size:36" json:"review_id"`
	UserID     string    `gorm:"size:36;not null;uniqueIndex:idx_reviews_user_game" json:"user_id"`
	GameID     string    `gorm:"size:36;not null;uniqueIndex:idx_reviews_user_game" json:"game_id"`
	ReviewText string    `gorm:"type:text" json:"review_text"`
	Rating     int       `gorm:"not null" json:"rating"`
	ReviewDate time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"review_date"`

	User User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Game Game `gorm:"foreignKey:GameID;constraint:OnDelete:CASCADE" json:"-"`
}

func (r *Review) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}

func (r *Review) BeforeSave(tx *gorm.DB) error {
	if r.Rating < 1 || r.Rating > 5 {
		return errors.New("rating must be between 1 and 5")
	}
	return nil
}
