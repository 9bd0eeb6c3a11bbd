package repository

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/hothanhtai16998/PhotoCloud-sub000/internal/models"
)

// ErrImageNotPending reports a moderation update against a row that exists
// but is no longer pending. Two moderators deciding the same image race on
// the status column; the UPDATE's WHERE clause lets only one win.
var ErrImageNotPending = errors.New("image is not pending")

// ImageFilter narrows image listings.
type ImageFilter struct {
	Status   string
	UserID   *uint
	Search   string
	Page     int
	PageSize int
}

// ImageRepository manages image persistence operations. Counter bumps use
// the database's own atomic increment so concurrent requests never lose
// updates.
type ImageRepository interface {
	List(ctx context.Context, filter ImageFilter) ([]models.Image, int64, error)
	GetByID(ctx context.Context, id uint) (models.Image, error)
	Create(ctx context.Context, image *models.Image) error
	UpdateModeration(ctx context.Context, id uint, status string, moderatorID uint, note string) (models.Image, error)
	Delete(ctx context.Context, id uint) error
	ListByUser(ctx context.Context, userID uint) ([]models.Image, error)
	IncrementCounter(ctx context.Context, id uint, column string) error
}

type imageRepository struct {
	db *gorm.DB
}

// NewImageRepository constructs an image repository implementation.
func NewImageRepository(db *gorm.DB) ImageRepository {
	return &imageRepository{db: db}
}

func (r *imageRepository) List(ctx context.Context, filter ImageFilter) ([]models.Image, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Image{})

	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.UserID != nil {
		query = query.Where("user_id = ?", *filter.UserID)
	}
	if filter.Search != "" {
		pattern := "%" + strings.ToLower(strings.TrimSpace(filter.Search)) + "%"
		query = query.Where("LOWER(title) LIKE ? OR LOWER(caption) LIKE ?", pattern, pattern)
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

	var images []models.Image
	if err := query.Order("created_at DESC").Find(&images).Error; err != nil {
		return nil, 0, err
	}

	return images, total, nil
}

func (r *imageRepository) GetByID(ctx context.Context, id uint) (models.Image, error) {
	var image models.Image
	err := r.db.WithContext(ctx).First(&image, id).Error
	return image, err
}

func (r *imageRepository) Create(ctx context.Context, image *models.Image) error {
	return r.db.WithContext(ctx).Create(image).Error
}

func (r *imageRepository) UpdateModeration(ctx context.Context, id uint, status string, moderatorID uint, note string) (models.Image, error) {
	updates := map[string]interface{}{
		"status":          status,
		"moderated_by":    moderatorID,
		"moderation_note": note,
	}

	result := r.db.WithContext(ctx).Model(&models.Image{}).
		Where("id = ? AND status = ?", id, models.ImageStatusPending).
		Updates(updates)
	if result.Error != nil {
		return models.Image{}, result.Error
	}
	if result.RowsAffected == 0 {
		if _, err := r.GetByID(ctx, id); err != nil {
			return models.Image{}, err
		}
		return models.Image{}, ErrImageNotPending
	}

	return r.GetByID(ctx, id)
}

func (r *imageRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.Image{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *imageRepository) ListByUser(ctx context.Context, userID uint) ([]models.Image, error) {
	var images []models.Image
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Find(&images).Error
	return images, err
}

func (r *imageRepository) IncrementCounter(ctx context.Context, id uint, column string) error {
	switch column {
	case "view_count", "download_count":
	default:
		return gorm.ErrInvalidField
	}

	result := r.db.WithContext(ctx).
		Model(&models.Image{}).
		Where("id = ?", id).
		UpdateColumn(column, gorm.Expr(column+" + 1"))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
