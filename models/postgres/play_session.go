package postgres

import (
	"time"
)

/*
 * 'PlaySession' is a timed interval of gameplay. EndTime == nil means the
 * session is still open. The schema does not limit how many sessions a
 * user may have open overall; the application refuses a second open
 * session for the same game.
 */
type PlaySession struct {
	ID           uint       `gorm:"primaryKey;autoIncrement" json:"session_id"`
	UserID       string     `gorm:"size:36;not null;index:idx_play_sessions_user_game" json:"user_id"`
	GameID       string     `gorm:"size:36;not null;index:idx_play_sessions_user_game" json:"game_id"`
	StartTime    time.Time  `gorm:"default:CURRENT_TIMESTAMP" json:"start_time"`
	EndTime      *time.Time `json:"end_time"`
	SessionNotes string     `gorm:"type:text" json:"session_notes"`

	User User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Game Game `gorm:"foreignKey:GameID;constraint:OnDelete:CASCADE" json:"-"`
}

// Duration returns the elapsed play time of a closed session, zero while
// the session is still open.
func (ps *PlaySession) Duration() time.Duration {
	if ps.EndTime == nil {
		return 0
	}
	return ps.EndTime.Sub(ps.StartTime)
}
