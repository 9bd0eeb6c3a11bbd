package service

import (
	"context"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/hothanhtai16998/PhotoCloud-sub000/internal/dto"
	"github.com/hothanhtai16998/PhotoCloud-sub000/internal/models"
	"github.com/hothanhtai16998/PhotoCloud-sub000/internal/observability"
	"github.com/hothanhtai16998/PhotoCloud-sub000/internal/repository"
)

// ModerationService reviews uploaded images. The only legal transitions are
// pending -> approved|rejected|flagged.
type ModerationService interface {
	Queue(ctx context.Context, status, search string, page, pageSize int) (dto.ImageListResponse, error)
	Moderate(ctx context.Context, imageID uint, payload dto.ModerationRequest, actor Actor) (dto.ImageResponse, error)
}

type moderationService struct {
	images    repository.ImageRepository
	audit     AuditRecorder
	validator *validator.Validate
	sanitizer *bluemonday.Policy
	logger    zerolog.Logger
}

// NewModerationService constructs the moderation service.
func NewModerationService(images repository.ImageRepository, audit AuditRecorder, validate *validator.Validate, logger zerolog.Logger) ModerationService {
	return &moderationService{
		images:    images,
		audit:     audit,
		validator: validate,
		sanitizer: bluemonday.StrictPolicy(),
		logger:    logger.With().Str("component", "moderation_service").Logger(),
	}
}

func (s *moderationService) Queue(ctx context.Context, status, search string, page, pageSize int) (dto.ImageListResponse, error) {
	if status == "" {
		status = models.ImageStatusPending
	}

	filter := repository.ImageFilter{
		Status:   status,
		Search:   strings.TrimSpace(search),
		Page:     maxInt(page, 1),
		PageSize: clampPageSize(pageSize),
	}

	images, total, err := s.images.List(ctx, filter)
	if err != nil {
		return dto.ImageListResponse{}, err
	}

	responses := make([]dto.ImageResponse, 0, len(images))
	for _, image := range images {
		responses = append(responses, dto.NewImageResponse(image))
	}

	return dto.ImageListResponse{
		Items:      responses,
		Pagination: paginationMeta(filter.Page, filter.PageSize, total),
	}, nil
}

func (s *moderationService) Moderate(ctx context.Context, imageID uint, payload dto.ModerationRequest, actor Actor) (dto.ImageResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.ImageResponse{}, err
	}

	image, err := s.images.GetByID(ctx, imageID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ImageResponse{}, ErrImageNotFound
		}
		return dto.ImageResponse{}, err
	}

	if image.Status != models.ImageStatusPending {
		return dto.ImageResponse{}, ErrInvalidTransition
	}

	note := strings.TrimSpace(s.sanitizer.Sanitize(payload.Note))
	updated, err := s.images.UpdateModeration(ctx, imageID, payload.Status, actor.ID, note)
	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			return dto.ImageResponse{}, ErrImageNotFound
		case errors.Is(err, repository.ErrImageNotPending):
			// Another moderator decided the image between our read and
			// the guarded update.
			return dto.ImageResponse{}, ErrInvalidTransition
		default:
			return dto.ImageResponse{}, err
		}
	}

	observability.ModerationTransitions().WithLabelValues(payload.Status).Inc()

	if s.audit != nil {
		actorID := actor.ID
		if err := s.audit.Record(ctx, LogEntry{
			Level:   models.LogLevelInfo,
			Message: "image " + payload.Status,
			ActorID: &actorID,
			Action:  "image_moderated",
			IP:      actor.IP,
			Metadata: map[string]interface{}{
				"image_id": imageID,
				"status":   payload.Status,
			},
		}); err != nil {
			s.logger.Warn().Err(err).Uint("image_id", imageID).Msg("failed to record moderation audit entry")
		}
	}

	return dto.NewImageResponse(updated), nil
}
