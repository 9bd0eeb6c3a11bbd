package models

import (
	"time"

	"gorm.io/datatypes"
)

// Admin role tiers, ordered moderator < admin < super_admin.
const (
	RoleModerator  = "moderator"
	RoleAdmin      = "admin"
	RoleSuperAdmin = "super_admin"
)

// AdminRole grants a user an admin tier plus an explicit permission map.
// GrantedBy is NULL for roles created by the system at bootstrap; those rows
// are immutable and undeletable through the API. The stored Permissions map
// is always the inheritance-applied form, never the raw caller input.
type AdminRole struct {
	ID          uint              `gorm:"primaryKey" json:"id"`
	UserID      uint              `gorm:"uniqueIndex;not null" json:"user_id"`
	Role        string            `gorm:"size:32;not null" json:"role"`
	Permissions datatypes.JSONMap `gorm:"type:json" json:"permissions"`
	GrantedBy   *uint             `json:"granted_by"`
	ExpiresAt   *time.Time        `json:"expires_at"`
	Active      bool              `gorm:"default:true" json:"active"`
	AllowedIPs  datatypes.JSON    `gorm:"type:json" json:"allowed_ips"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}

// SystemGranted reports whether the role was created by the system rather
// than by another administrator.
func (r AdminRole) SystemGranted() bool {
	return r.GrantedBy == nil
}

// Expired reports whether the grant has passed its expiry, when one is set.
func (r AdminRole) Expired(now time.Time) bool {
	return r.ExpiresAt != nil && now.After(*r.ExpiresAt)
}
