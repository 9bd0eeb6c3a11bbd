package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/hothanhtai16998/PhotoCloud-sub000/internal/models"
)

// FavoriteRepository manages the user favorites set. Add and Remove rely on
// the composite primary key for set semantics under concurrent requests.
type FavoriteRepository interface {
	Add(ctx context.Context, userID, imageID uint) (bool, error)
	Remove(ctx context.Context, userID, imageID uint) (bool, error)
	Exists(ctx context.Context, userID, imageID uint) (bool, error)
	ListByUser(ctx context.Context, userID uint, page, pageSize int) ([]models.Image, int64, error)
}

type favoriteRepository struct {
	db *gorm.DB
}

// NewFavoriteRepository constructs a favorite repository implementation.
func NewFavoriteRepository(db *gorm.DB) FavoriteRepository {
	return &favoriteRepository{db: db}
}

// Add inserts the favorite row, ignoring duplicates. It reports whether a
// new row was created.
func (r *favoriteRepository) Add(ctx context.Context, userID, imageID uint) (bool, error) {
	favorite := models.Favorite{UserID: userID, ImageID: imageID}
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&favorite)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// Remove deletes the favorite row and reports whether it existed.
func (r *favoriteRepository) Remove(ctx context.Context, userID, imageID uint) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND image_id = ?", userID, imageID).
		Delete(&models.Favorite{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *favoriteRepository) Exists(ctx context.Context, userID, imageID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Favorite{}).
		Where("user_id = ? AND image_id = ?", userID, imageID).
		Count(&count).Error
	return count > 0, err
}

func (r *favoriteRepository) ListByUser(ctx context.Context, userID uint, page, pageSize int) ([]models.Image, int64, error) {
	base := r.db.WithContext(ctx).
		Model(&models.Image{}).
		Joins("JOIN user_favorites ON user_favorites.image_id = images.id").
		Where("user_favorites.user_id = ?", userID)

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query := base.Order("user_favorites.created_at DESC")
	if pageSize > 0 {
		if page <= 0 {
			page = 1
		}
		query = query.Offset((page - 1) * pageSize).Limit(pageSize)
	}

	var images []models.Image
	if err := query.Find(&images).Error; err != nil {
		return nil, 0, err
	}

	return images, total, nil
}
