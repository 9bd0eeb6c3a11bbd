package dto

import "time"

// SettingsResponse returns the full settings document as one map.
type SettingsResponse struct {
	Settings  map[string]interface{} `json:"settings"`
	UpdatedAt time.Time              `json:"updated_at"`
}

// SettingsUpdateRequest upserts one or more settings keys.
type SettingsUpdateRequest struct {
	Settings map[string]interface{} `json:"settings" validate:"required,min=1"`
}
