package models

import (
	"time"

	"gorm.io/datatypes"
)

// Setting is one key of the site-wide settings document. The full document
// is the set of all rows, returned to the admin console as a single map.
type Setting struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Key       string         `gorm:"size:128;uniqueIndex;not null" json:"key"`
	Value     datatypes.JSON `gorm:"type:json" json:"value"`
	UpdatedBy *uint          `json:"updated_by"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}
