package models

import "time"

// Activity types tracked per image per day.
const (
	ActivityView     = "view"
	ActivityDownload = "download"
	ActivityUpload   = "upload"
)

// UserActivity is a daily aggregation bucket: at most one row exists per
// (user, image, activity type, date). Concurrent writes for the same key
// land on the same row via an ON CONFLICT increment, never a duplicate.
type UserActivity struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	UserID       uint      `gorm:"not null;uniqueIndex:idx_activity_bucket" json:"user_id"`
	ImageID      uint      `gorm:"not null;uniqueIndex:idx_activity_bucket" json:"image_id"`
	ActivityType string    `gorm:"size:16;not null;uniqueIndex:idx_activity_bucket" json:"activity_type"`
	Date         string    `gorm:"size:10;not null;uniqueIndex:idx_activity_bucket" json:"date"`
	Count        int64     `gorm:"default:1" json:"count"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
