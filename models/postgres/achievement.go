package postgres

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Rarity string

const (
	RarityCommon    Rarity = "COMMON"
	RarityUncommon  Rarity = "UNCOMMON"
	RarityRare      Rarity = "RARE"
	RarityEpic      Rarity = "EPIC"
	RarityLegendary Rarity = "LEGENDARY"
)

func ValidRarity(r Rarity) bool {
	switch r {
	case RarityCommon, RarityUncommon, RarityRare, RarityEpic, RarityLegendary:
		return true
	}
	return false
}

// Achievement belongs to exactly one Game and is removed with it.
type Achievement struct {
	ID          string `gorm:"primaryKey;size:36" json:"achievement_id"`
	GameID      string `gorm:"size:36;not null;index" json:"game_id"`
	Name        string `gorm:"size:100;not null" json:"achievement_name"`
	Description string `gorm:"type:text" json:"description"`
	Rarity      Rarity `gorm:"size:20" json:"rarity"`
	PointsValue int    `gorm:"default:0" json:"points_value"`
	IconURL     string `json:"icon_url"`

	Game    Game              `gorm:"foreignKey:GameID;constraint:OnDelete:CASCADE" json:"-"`
	Earners []UserAchievement `gorm:"foreignKey:AchievementID;constraint:OnDelete:CASCADE" json:"-"`
}

func (a *Achievement) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}

// UserAchievement records an unlock: many-to-many junction between users
// and achievements with the date the achievement was earned.
type UserAchievement struct {
	UserID        string    `gorm:"primaryKey;size:36" json:"user_id"`
	AchievementID string    `gorm:"primaryKey;size:36" json:"achievement_id"`
	DateEarned    time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"date_earned"`

	User        User        `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Achievement Achievement `gorm:"foreignKey:AchievementID;constraint:OnDelete:CASCADE" json:"-"`
}
