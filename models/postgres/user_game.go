package postgres

import (
	"errors"

	"gorm.io/gorm"
)

type PlayStatus string

const (
	StatusNotStarted PlayStatus = "NOT_STARTED"
	StatusInProgress PlayStatus = "IN_PROGRESS"
	StatusCompleted  PlayStatus = "COMPLETED"
	StatusDropped    PlayStatus = "DROPPED"
)

func ValidPlayStatus(s PlayStatus) bool {
	switch s {
	case StatusNotStarted, StatusInProgress, StatusCompleted, StatusDropped:
		return true
	}
	return false
}

/*
 * 'UserGame' is a collection entry: one row per (user, game) pair tracking
 * play status, personal notes and an optional 1-5 rating. The composite
 * primary key guarantees a user never tracks the same game twice.
 */
type UserGame struct {
	UserID        string     `gorm:"primaryKey;size:36" json:"user_id"`
	GameID        string     `gorm:"primaryKey;size:36" json:"game_id"`
	PlayStatus    PlayStatus `gorm:"size:20;default:NOT_STARTED" json:"play_status"`
	PersonalNotes string     `gorm:"type:text" json:"personal_notes"`
	Rating        *int       `json:"rating"`

	User User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Game Game `gorm:"foreignKey:GameID;constraint:OnDelete:CASCADE" json:"-"`
}

func (ug *UserGame) BeforeSave(tx *gorm.DB) error {
	if ug.Rating != nil && (*ug.Rating < 1 || *ug.Rating > 5) {
		return errors.New("rating must be between 1 and 5")
	}
	if ug.PlayStatus != "" && !ValidPlayStatus(ug.PlayStatus) {
		return errors.New("invalid play status")
	}
	return nil
}
