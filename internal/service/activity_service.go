package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/hothanhtai16998/PhotoCloud-sub000/internal/models"
	"github.com/hothanhtai16998/PhotoCloud-sub000/internal/repository"
)

const activityDateLayout = "2006-01-02"

// ActivityService records per-day activity buckets. Day boundaries are
// computed in the configured reporting timezone so analytics buckets line
// up with the dashboard.
type ActivityService interface {
	Track(ctx context.Context, userID, imageID uint, activityType string) error
}

type activityService struct {
	activities repository.UserActivityRepository
	images     repository.ImageRepository
	location   *time.Location
	logger     zerolog.Logger
	now        func() time.Time
}

// NewActivityService constructs the activity tracking service.
func NewActivityService(activities repository.UserActivityRepository, images repository.ImageRepository, location *time.Location, logger zerolog.Logger) ActivityService {
	if location == nil {
		location = time.UTC
	}
	return &activityService{
		activities: activities,
		images:     images,
		location:   location,
		logger:     logger.With().Str("component", "activity_service").Logger(),
		now:        time.Now,
	}
}

func (s *activityService) Track(ctx context.Context, userID, imageID uint, activityType string) error {
	switch activityType {
	case models.ActivityView, models.ActivityDownload, models.ActivityUpload:
	default:
		return errors.New("unknown activity type")
	}

	date := s.now().In(s.location).Format(activityDateLayout)
	if err := s.activities.Record(ctx, models.UserActivity{
		UserID:       userID,
		ImageID:      imageID,
		ActivityType: activityType,
		Date:         date,
	}); err != nil {
		return err
	}

	// Image counters ride along for view/download; the DB increment is
	// atomic so concurrent trackers cannot lose updates.
	var column string
	switch activityType {
	case models.ActivityView:
		column = "view_count"
	case models.ActivityDownload:
		column = "download_count"
	default:
		return nil
	}

	if err := s.images.IncrementCounter(ctx, imageID, column); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrImageNotFound
		}
		return err
	}

	return nil
}
