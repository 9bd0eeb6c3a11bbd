package dto

import (
	"time"

	"github.com/hothanhtai16998/PhotoCloud-sub000/internal/models"
)

// AdminUserListRequest defines filters for listing users in the admin console.
type AdminUserListRequest struct {
	Page     int
	PageSize int
	Search   string
	Banned   *bool
}

// AdminUserResponse serializes user data for admin endpoints. IsAdmin and
// IsSuperAdmin are derived from the role table at read time, never stored.
type AdminUserResponse struct {
	ID           uint       `json:"id"`
	Name         string     `json:"name"`
	Email        string     `json:"email"`
	AvatarURL    string     `json:"avatar_url"`
	Banned       bool       `json:"banned"`
	BanReason    string     `json:"ban_reason,omitempty"`
	BannedAt     *time.Time `json:"banned_at,omitempty"`
	UploadCount  int64      `json:"upload_count"`
	IsAdmin      bool       `json:"is_admin"`
	IsSuperAdmin bool       `json:"is_super_admin"`
	Role         string     `json:"role,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// AdminUserListResponse wraps a paginated user listing.
type AdminUserListResponse struct {
	Items      []AdminUserResponse `json:"items"`
	Pagination PaginationMeta      `json:"pagination"`
}

// AdminUserUpdateRequest captures partial update payloads for users.
type AdminUserUpdateRequest struct {
	Name      *string `json:"name" validate:"omitempty,min=1,max=255"`
	Email     *string `json:"email" validate:"omitempty,email"`
	AvatarURL *string `json:"avatar_url" validate:"omitempty,url,max=512"`
}

// AdminUserBanRequest carries the reason recorded alongside a ban.
type AdminUserBanRequest struct {
	Reason string `json:"reason" validate:"required,min=3,max=512"`
}

// NewAdminUserResponse converts a user model plus its optional role into a DTO.
func NewAdminUserResponse(user models.User, role *models.AdminRole) AdminUserResponse {
	resp := AdminUserResponse{
		ID:          user.ID,
		Name:        user.Name,
		Email:       user.Email,
		AvatarURL:   user.AvatarURL,
		Banned:      user.Banned,
		BanReason:   user.BanReason,
		BannedAt:    user.BannedAt,
		UploadCount: user.UploadCount,
		CreatedAt:   user.CreatedAt,
		UpdatedAt:   user.UpdatedAt,
	}

	if role != nil && role.Active {
		resp.Role = role.Role
		resp.IsAdmin = true
		resp.IsSuperAdmin = role.Role == models.RoleSuperAdmin
	}

	return resp
}
