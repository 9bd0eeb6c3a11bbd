package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/hothanhtai16998/PhotoCloud-sub000/internal/models"
)

// AnalyticsRepository supplies raw rows for the dashboard aggregation. The
// service layer owns timezone bucketing, so queries only fence on a start
// instant.
type AnalyticsRepository interface {
	ListImageCreationTimes(ctx context.Context, since time.Time) ([]time.Time, error)
	ListUserCreationTimes(ctx context.Context, since time.Time) ([]time.Time, error)
	ListActivitySince(ctx context.Context, activityType string, sinceDate string) ([]models.UserActivity, error)
}

type analyticsRepository struct {
	db *gorm.DB
}

// NewAnalyticsRepository constructs the analytics repository.
func NewAnalyticsRepository(db *gorm.DB) AnalyticsRepository {
	return &analyticsRepository{db: db}
}

func (r *analyticsRepository) ListImageCreationTimes(ctx context.Context, since time.Time) ([]time.Time, error) {
	var times []time.Time
	err := r.db.WithContext(ctx).
		Model(&models.Image{}).
		Where("created_at >= ?", since).
		Pluck("created_at", &times).Error
	return times, err
}

func (r *analyticsRepository) ListUserCreationTimes(ctx context.Context, since time.Time) ([]time.Time, error) {
	var times []time.Time
	err := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("created_at >= ?", since).
		Pluck("created_at", &times).Error
	return times, err
}

func (r *analyticsRepository) ListActivitySince(ctx context.Context, activityType string, sinceDate string) ([]models.UserActivity, error) {
	var activities []models.UserActivity
	err := r.db.WithContext(ctx).
		Where("activity_type = ? AND date >= ?", activityType, sinceDate).
		Order("date ASC").
		Find(&activities).Error
	return activities, err
}
