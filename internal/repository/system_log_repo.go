package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/hothanhtai16998/PhotoCloud-sub000/internal/models"
)

// SystemLogFilter narrows audit trail listings.
type SystemLogFilter struct {
	Level    string
	Action   string
	ActorID  *uint
	Page     int
	PageSize int
}

// SystemLogRepository persists the append-only audit trail. There are no
// update or delete operations on purpose.
type SystemLogRepository interface {
	Create(ctx context.Context, entry *models.SystemLog) error
	List(ctx context.Context, filter SystemLogFilter) ([]models.SystemLog, int64, error)
}

type systemLogRepository struct {
	db *gorm.DB
}

// NewSystemLogRepository constructs a system log repository implementation.
func NewSystemLogRepository(db *gorm.DB) SystemLogRepository {
	return &systemLogRepository{db: db}
}

func (r *systemLogRepository) Create(ctx context.Context, entry *models.SystemLog) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *systemLogRepository) List(ctx context.Context, filter SystemLogFilter) ([]models.SystemLog, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.SystemLog{})

	if filter.Level != "" {
		query = query.Where("level = ?", filter.Level)
	}
	if filter.Action != "" {
		query = query.Where("action = ?", filter.Action)
	}
	if filter.ActorID != nil {
		query = query.Where("actor_id = ?", *filter.ActorID)
	}

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter.PageSize > 0 {
		page := filter.Page
		if page <= 0 {
			page = 1
		}
		query = query.Offset((page - 1) * filter.PageSize).Limit(filter.PageSize)
	}

	var entries []models.SystemLog
	if err := query.Order("created_at DESC").Find(&entries).Error; err != nil {
		return nil, 0, err
	}

	return entries, total, nil
}
