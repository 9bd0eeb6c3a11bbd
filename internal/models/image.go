package models

import (
	"time"

	"gorm.io/gorm"
)

// Moderation states an image moves through. Transitions are restricted to
// pending -> approved|rejected|flagged.
const (
	ImageStatusPending  = "pending"
	ImageStatusApproved = "approved"
	ImageStatusRejected = "rejected"
	ImageStatusFlagged  = "flagged"
)

// Image is an uploaded photo together with its moderation state.
type Image struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	UserID         uint           `gorm:"not null;index" json:"user_id"`
	Title          string         `gorm:"size:255" json:"title"`
	Caption        string         `gorm:"size:2000" json:"caption"`
	StorageID      string         `gorm:"size:255;not null" json:"storage_id"`
	URL            string         `gorm:"size:512;not null" json:"url"`
	MimeType       string         `gorm:"size:64" json:"mime_type"`
	SizeBytes      int64          `json:"size_bytes"`
	Checksum       string         `gorm:"size:64" json:"checksum"`
	Status         string         `gorm:"size:16;default:pending;index" json:"status"`
	ModeratedBy    *uint          `json:"moderated_by"`
	ModerationNote string         `gorm:"size:1000" json:"moderation_note"`
	ViewCount      int64          `gorm:"default:0" json:"view_count"`
	DownloadCount  int64          `gorm:"default:0" json:"download_count"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}
