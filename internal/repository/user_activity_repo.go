package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/hothanhtai16998/PhotoCloud-sub000/internal/models"
)

// UserActivityRepository persists daily activity buckets. The composite
// unique index on (user_id, image_id, activity_type, date) makes Record an
// upsert: a second write for the same key increments the existing row's
// count instead of creating a duplicate.
type UserActivityRepository interface {
	Record(ctx context.Context, activity models.UserActivity) error
	ListByTypeSince(ctx context.Context, activityType string, sinceDate string) ([]models.UserActivity, error)
}

type userActivityRepository struct {
	db *gorm.DB
}

// NewUserActivityRepository constructs a user activity repository implementation.
func NewUserActivityRepository(db *gorm.DB) UserActivityRepository {
	return &userActivityRepository{db: db}
}

func (r *userActivityRepository) Record(ctx context.Context, activity models.UserActivity) error {
	if activity.Count <= 0 {
		activity.Count = 1
	}

	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "user_id"},
			{Name: "image_id"},
			{Name: "activity_type"},
			{Name: "date"},
		},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"count": gorm.Expr("count + ?", activity.Count),
		}),
	}).Create(&activity).Error
}

func (r *userActivityRepository) ListByTypeSince(ctx context.Context, activityType string, sinceDate string) ([]models.UserActivity, error) {
	var activities []models.UserActivity
	err := r.db.WithContext(ctx).
		Where("activity_type = ? AND date >= ?", activityType, sinceDate).
		Order("date ASC").
		Find(&activities).Error
	return activities, err
}
