package dto

import (
	"time"

	"github.com/hothanhtai16998/PhotoCloud-sub000/internal/models"
)

// AdminRoleCreateRequest grants a role to a user. Permissions not allowed
// for the role are rejected with the individual violations listed.
type AdminRoleCreateRequest struct {
	UserID      uint            `json:"user_id" validate:"required,gt=0"`
	Role        string          `json:"role" validate:"required,oneof=moderator admin super_admin"`
	Permissions map[string]bool `json:"permissions"`
	ExpiresAt   *time.Time      `json:"expires_at"`
	AllowedIPs  []string        `json:"allowed_ips" validate:"omitempty,dive,ip"`
}

// AdminRoleUpdateRequest captures partial updates to an existing grant.
type AdminRoleUpdateRequest struct {
	Role        *string         `json:"role" validate:"omitempty,oneof=moderator admin super_admin"`
	Permissions map[string]bool `json:"permissions"`
	ExpiresAt   *time.Time      `json:"expires_at"`
	Active      *bool           `json:"active"`
	AllowedIPs  []string        `json:"allowed_ips" validate:"omitempty,dive,ip"`
}

// AdminRoleResponse serializes a role grant for the admin console.
type AdminRoleResponse struct {
	ID            uint            `json:"id"`
	UserID        uint            `json:"user_id"`
	Role          string          `json:"role"`
	Permissions   map[string]bool `json:"permissions"`
	GrantedBy     *uint           `json:"granted_by"`
	SystemGranted bool            `json:"system_granted"`
	ExpiresAt     *time.Time      `json:"expires_at,omitempty"`
	Active        bool            `json:"active"`
	AllowedIPs    []string        `json:"allowed_ips,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// AdminRoleListResponse wraps a paginated role listing.
type AdminRoleListResponse struct {
	Items      []AdminRoleResponse `json:"items"`
	Pagination PaginationMeta      `json:"pagination"`
}

// NewAdminRoleResponse converts an AdminRole model into a DTO.
func NewAdminRoleResponse(role models.AdminRole) AdminRoleResponse {
	return AdminRoleResponse{
		ID:            role.ID,
		UserID:        role.UserID,
		Role:          role.Role,
		Permissions:   boolMapFromJSON(role.Permissions),
		GrantedBy:     role.GrantedBy,
		SystemGranted: role.SystemGranted(),
		ExpiresAt:     role.ExpiresAt,
		Active:        role.Active,
		AllowedIPs:    stringsFromJSON(role.AllowedIPs),
		CreatedAt:     role.CreatedAt,
		UpdatedAt:     role.UpdatedAt,
	}
}
