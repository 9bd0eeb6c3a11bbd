package models

import (
	"time"

	"gorm.io/datatypes"
)

// Log levels recorded in the audit trail.
const (
	LogLevelInfo    = "info"
	LogLevelWarning = "warning"
	LogLevelError   = "error"
)

// SystemLog is an append-only audit entry for admin actions. Rows are never
// updated or deleted through the API.
type SystemLog struct {
	ID        uint              `gorm:"primaryKey" json:"id"`
	Level     string            `gorm:"size:16;not null;index" json:"level"`
	Message   string            `gorm:"size:1000;not null" json:"message"`
	ActorID   *uint             `gorm:"index" json:"actor_id"`
	Action    string            `gorm:"size:64;not null;index" json:"action"`
	IPAddress string            `gorm:"size:45" json:"ip_address"`
	Metadata  datatypes.JSONMap `gorm:"type:json" json:"metadata"`
	CreatedAt time.Time         `json:"created_at"`
}
