package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/hothanhtai16998/PhotoCloud-sub000/internal/models"
)

// AdminRoleFilter narrows role listings.
type AdminRoleFilter struct {
	Role     string
	Active   *bool
	Page     int
	PageSize int
}

// AdminRoleRepository manages role grant persistence.
type AdminRoleRepository interface {
	List(ctx context.Context, filter AdminRoleFilter) ([]models.AdminRole, int64, error)
	GetByID(ctx context.Context, id uint) (models.AdminRole, error)
	GetByUserID(ctx context.Context, userID uint) (models.AdminRole, error)
	Create(ctx context.Context, role *models.AdminRole) error
	Update(ctx context.Context, role *models.AdminRole) error
	Delete(ctx context.Context, id uint) error
}

type adminRoleRepository struct {
	db *gorm.DB
}

// NewAdminRoleRepository constructs an admin role repository implementation.
func NewAdminRoleRepository(db *gorm.DB) AdminRoleRepository {
	return &adminRoleRepository{db: db}
}

func (r *adminRoleRepository) List(ctx context.Context, filter AdminRoleFilter) ([]models.AdminRole, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.AdminRole{})

	if filter.Role != "" {
		query = query.Where("role = ?", filter.Role)
	}
	if filter.Active != nil {
		query = query.Where("active = ?", *filter.Active)
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

	var roles []models.AdminRole
	if err := query.Order("created_at DESC").Find(&roles).Error; err != nil {
		return nil, 0, err
	}

	return roles, total, nil
}

func (r *adminRoleRepository) GetByID(ctx context.Context, id uint) (models.AdminRole, error) {
	var role models.AdminRole
	err := r.db.WithContext(ctx).First(&role, id).Error
	return role, err
}

func (r *adminRoleRepository) GetByUserID(ctx context.Context, userID uint) (models.AdminRole, error) {
	var role models.AdminRole
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&role).Error
	return role, err
}

func (r *adminRoleRepository) Create(ctx context.Context, role *models.AdminRole) error {
	return r.db.WithContext(ctx).Create(role).Error
}

func (r *adminRoleRepository) Update(ctx context.Context, role *models.AdminRole) error {
	return r.db.WithContext(ctx).Save(role).Error
}

func (r *adminRoleRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.AdminRole{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
