package postgres

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

/*
 * 'User' is the root identity entity. Every other user-owned row
 * (collection entries, reviews, sessions, friendships, achievement
 * unlocks) hangs off it with ON DELETE CASCADE.
 */
type User struct {
	ID                string    `gorm:"primaryKey;size:36" json:"user_id"`
	Username          string    `gorm:"size:50;not null;uniqueIndex" json:"username"`
	Email             string    `gorm:"size:100;not null;uniqueIndex" json:"email"`
	PasswordHash      string    `gorm:"size:255;not null" json:"-"`
	DisplayName       string    `gorm:"size:100" json:"display_name"`
	ProfilePictureURL string    `json:"profile_picture_url"`
	Role              Role      `gorm:"size:10;not null;default:USER" json:"role"`
	JoinDate          time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"join_date"`

	// Relationships
	Games                []UserGame        `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Achievements         []UserAchievement `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Reviews              []Review          `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	PlaySessions         []PlaySession     `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	FriendshipsInitiated []Friendship      `gorm:"foreignKey:InitiatorID;constraint:OnDelete:CASCADE" json:"-"`
	FriendshipsReceived  []Friendship      `gorm:"foreignKey:RecipientID;constraint:OnDelete:CASCADE" json:"-"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	if u.Role == "" {
		u.Role = RoleUser
	}
	return nil
}
