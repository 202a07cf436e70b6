package models

import "time"

// Session is a server-persisted, time-bounded proof of authentication
// bound to one opaque token. Validity is checked at read time; expired
// rows stay around until a logout deletes them.
type Session struct {
	ID        uint64    `gorm:"primarykey" json:"id"`
	UserID    uint64    `gorm:"not null;index" json:"user_id"`
	Token     string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"-"`
	ExpiresAt time.Time `gorm:"not null" json:"expires_at"`

	// Relations
	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}
