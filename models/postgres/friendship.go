package postgres

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type FriendshipStatus string

const (
	FriendshipPending  FriendshipStatus = "PENDING"
	FriendshipAccepted FriendshipStatus = "ACCEPTED"
)

/*
 * 'Friendship' is a directed edge from initiator to recipient. The unique
 * index covers the ordered pair only; the reverse edge is a structurally
 * distinct row and is rejected at the application layer instead.
 */
type Friendship struct {
	ID          string           `gorm:"primaryKey;size:36" json:"friendship_id"`
	InitiatorID string           `gorm:"size:36;not null;uniqueIndex:idx_friendships_pair" json:"user_id_initiator"`
	RecipientID string           `gorm:"size:36;not null;uniqueIndex:idx_friendships_pair;index" json:"user_id_recipient"`
	Date        time.Time        `gorm:"default:CURRENT_TIMESTAMP" json:"friendship_date"`
	Status      FriendshipStatus `gorm:"size:10;not null;default:PENDING" json:"friendship_status"`

	Initiator User `gorm:"foreignKey:InitiatorID;constraint:OnDelete:CASCADE" json:"-"`
	Recipient User `gorm:"foreignKey:RecipientID;constraint:OnDelete:CASCADE" json:"-"`
}

func (f *Friendship) BeforeCreate(tx *gorm.DB) error {
	if f.ID == "" {
		f.ID = uuid.NewString()
	}
	return nil
}

// GORM hook to ensure both endpoints of the edge are different users
func (f *Friendship) BeforeSave(tx *gorm.DB) error {
	if f.InitiatorID == f.RecipientID {
		return errors.New("cannot create a friendship with yourself")
	}
	return nil
}
