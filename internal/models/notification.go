package models

import "time"

// Notification is a best-effort side-channel record delivered to a user,
// e.g. a ban notice. Creation failures are logged and never fail the
// operation that triggered them.
type Notification struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	Type      string    `gorm:"size:32;not null" json:"type"`
	Message   string    `gorm:"size:1000;not null" json:"message"`
	Read      bool      `gorm:"default:false" json:"read"`
	CreatedAt time.Time `json:"created_at"`
}
