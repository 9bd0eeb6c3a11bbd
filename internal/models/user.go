package models

import (
	"time"

	"gorm.io/gorm"
)

// User represents a platform member that can upload and favorite images.
// Admin capability is never stored here; it is derived from the AdminRole
// table so there is a single source of truth.
type User struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Name        string         `gorm:"size:255;not null" json:"name"`
	Email       string         `gorm:"size:255;uniqueIndex;not null" json:"email"`
	AvatarURL   string         `gorm:"size:512" json:"avatar_url"`
	Banned      bool           `gorm:"default:false;index" json:"banned"`
	BanReason   string         `gorm:"size:512" json:"ban_reason"`
	BannedAt    *time.Time     `json:"banned_at"`
	UploadCount int64          `gorm:"default:0" json:"upload_count"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// Favorite is the join row backing a user's favorites set. The composite
// primary key gives favorite toggling set semantics at the database level.
type Favorite struct {
	UserID    uint      `gorm:"primaryKey" json:"user_id"`
	ImageID   uint      `gorm:"primaryKey" json:"image_id"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName keeps the historical table name used by the admin console.
func (Favorite) TableName() string {
	return "user_favorites"
}
