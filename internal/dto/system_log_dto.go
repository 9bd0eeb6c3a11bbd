package dto

import (
	"time"

	"github.com/hothanhtai16998/PhotoCloud-sub000/internal/models"
)

// SystemLogListRequest defines filters for the audit trail listing.
type SystemLogListRequest struct {
	Page     int
	PageSize int
	Level    string
	Action   string
	ActorID  uint
}

// SystemLogResponse serializes one audit entry.
type SystemLogResponse struct {
	ID        uint                   `json:"id"`
	Level     string                 `json:"level"`
	Message   string                 `json:"message"`
	ActorID   *uint                  `json:"actor_id,omitempty"`
	Action    string                 `json:"action"`
	IPAddress string                 `json:"ip_address,omitempty"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	CreatedAt time.Time              `json:"created_at"`
}

// SystemLogListResponse wraps a paginated audit listing.
type SystemLogListResponse struct {
	Items      []SystemLogResponse `json:"items"`
	Pagination PaginationMeta      `json:"pagination"`
}

// NewSystemLogResponse converts a log model into a DTO.
func NewSystemLogResponse(entry models.SystemLog) SystemLogResponse {
	return SystemLogResponse{
		ID:        entry.ID,
		Level:     entry.Level,
		Message:   entry.Message,
		ActorID:   entry.ActorID,
		Action:    entry.Action,
		IPAddress: entry.IPAddress,
		Metadata:  entry.Metadata,
		CreatedAt: entry.CreatedAt,
	}
}
