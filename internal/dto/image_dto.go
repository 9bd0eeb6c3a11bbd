package dto

import (
	"time"

	"github.com/hothanhtai16998/PhotoCloud-sub000/internal/models"
)

// ImageResponse serializes an image record.
type ImageResponse struct {
	ID             uint      `json:"id"`
	UserID         uint      `json:"user_id"`
	Title          string    `json:"title"`
	Caption        string    `json:"caption"`
	URL            string    `json:"url"`
	MimeType       string    `json:"mime_type"`
	SizeBytes      int64     `json:"size_bytes"`
	Status         string    `json:"status"`
	ModeratedBy    *uint     `json:"moderated_by,omitempty"`
	ModerationNote string    `json:"moderation_note,omitempty"`
	ViewCount      int64     `json:"view_count"`
	DownloadCount  int64     `json:"download_count"`
	CreatedAt      time.Time `json:"created_at"`
}

// ImageListResponse wraps a paginated image listing.
type ImageListResponse struct {
	Items      []ImageResponse `json:"items"`
	Pagination PaginationMeta  `json:"pagination"`
}

// ModerationRequest transitions an image out of the pending state.
type ModerationRequest struct {
	Status string `json:"status" validate:"required,oneof=approved rejected flagged"`
	Note   string `json:"note" validate:"omitempty,max=1000"`
}

// UploadRequest carries optional metadata accompanying a multipart upload.
type UploadRequest struct {
	Title   string `json:"title" validate:"omitempty,max=255"`
	Caption string `json:"caption" validate:"omitempty,max=2000"`
}

// FavoriteToggleResponse reports the post-toggle favorite state.
type FavoriteToggleResponse struct {
	ImageID   uint `json:"image_id"`
	Favorited bool `json:"favorited"`
}

// NewImageResponse converts an image model into a DTO.
func NewImageResponse(image models.Image) ImageResponse {
	return ImageResponse{
		ID:             image.ID,
		UserID:         image.UserID,
		Title:          image.Title,
		Caption:        image.Caption,
		URL:            image.URL,
		MimeType:       image.MimeType,
		SizeBytes:      image.SizeBytes,
		Status:         image.Status,
		ModeratedBy:    image.ModeratedBy,
		ModerationNote: image.ModerationNote,
		ViewCount:      image.ViewCount,
		DownloadCount:  image.DownloadCount,
		CreatedAt:      image.CreatedAt,
	}
}
