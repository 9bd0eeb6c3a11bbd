package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/hothanhtai16998/PhotoCloud-sub000/internal/models"
)

// SettingsRepository persists the single site-wide settings document as one
// row per key.
type SettingsRepository interface {
	GetAll(ctx context.Context) ([]models.Setting, error)
	Upsert(ctx context.Context, setting models.Setting) error
}

type settingsRepository struct {
	db *gorm.DB
}

// NewSettingsRepository constructs a settings repository implementation.
func NewSettingsRepository(db *gorm.DB) SettingsRepository {
	return &settingsRepository{db: db}
}

func (r *settingsRepository) GetAll(ctx context.Context) ([]models.Setting, error) {
	var settings []models.Setting
	err := r.db.WithContext(ctx).Order("key ASC").Find(&settings).Error
	return settings, err
}

func (r *settingsRepository) Upsert(ctx context.Context, setting models.Setting) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_by", "updated_at"}),
	}).Create(&setting).Error
}
