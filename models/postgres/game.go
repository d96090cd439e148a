package postgres

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

/*
 * 'Game' is a catalog entry. Rows are created either manually by an admin
 * or by importing from the RAWG metadata API, in which case ExternalAPIID
 * holds the RAWG id and deduplicates repeated imports.
 */
type Game struct {
	ID            string         `gorm:"primaryKey;size:36" json:"game_id"`
	ExternalAPIID *string        `gorm:"size:100;uniqueIndex" json:"external_api_id"`
	Title         string         `gorm:"size:255;not null" json:"title"`
	Developer     string         `gorm:"size:100" json:"developer"`
	ReleaseDate   *time.Time     `gorm:"type:date" json:"release_date"`
	CoverImageURL string         `json:"cover_image_url"`
	Metadata      datatypes.JSON `gorm:"type:jsonb;default:'{}'" json:"metadata"`

	// Relationships, all removed with the game
	Genres       []GameGenre    `gorm:"foreignKey:GameID;constraint:OnDelete:CASCADE" json:"-"`
	Platforms    []GamePlatform `gorm:"foreignKey:GameID;constraint:OnDelete:CASCADE" json:"-"`
	Achievements []Achievement  `gorm:"foreignKey:GameID;constraint:OnDelete:CASCADE" json:"-"`
	UserGames    []UserGame     `gorm:"foreignKey:GameID;constraint:OnDelete:CASCADE" json:"-"`
	Reviews      []Review       `gorm:"foreignKey:GameID;constraint:OnDelete:CASCADE" json:"-"`
	PlaySessions []PlaySession  `gorm:"foreignKey:GameID;constraint:OnDelete:CASCADE" json:"-"`
}

func (g *Game) BeforeCreate(tx *gorm.DB) error {
	if g.ID == "" {
		g.ID = uuid.NewString()
	}
	return nil
}

// GameGenre is a multi-valued attribute of Game (one row per genre tag).
type GameGenre struct {
	GameID string `gorm:"primaryKey;size:36" json:"game_id"`
	Genre  string `gorm:"primaryKey;size:50" json:"genre"`

	Game Game `gorm:"foreignKey:GameID;constraint:OnDelete:CASCADE" json:"-"`
}

// GamePlatform is a multi-valued attribute of Game (one row per platform).
type GamePlatform struct {
	GameID   string `gorm:"primaryKey;size:36" json:"game_id"`
	Platform string `gorm:"primaryKey;size:50" json:"platform"`

	Game Game `gorm:"foreignKey:GameID;constraint:OnDelete:CASCADE" json:"-"`
}
