package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/hothanhtai16998/PhotoCloud-sub000/internal/dto"
	"github.com/hothanhtai16998/PhotoCloud-sub000/internal/repository"
)

// FavoriteService toggles and lists user favorites. Toggling relies on the
// database's set semantics, so concurrent toggles converge without
// application locking.
type FavoriteService interface {
	Toggle(ctx context.Context, userID, imageID uint) (dto.FavoriteToggleResponse, error)
	List(ctx context.Context, userID uint, page, pageSize int) (dto.ImageListResponse, error)
}

type favoriteService struct {
	favorites repository.FavoriteRepository
	images    repository.ImageRepository
	logger    zerolog.Logger
}

// NewFavoriteService constructs the favorite service.
func NewFavoriteService(favorites repository.FavoriteRepository, images repository.ImageRepository, logger zerolog.Logger) FavoriteService {
	return &favoriteService{
		favorites: favorites,
		images:    images,
		logger:    logger.With().Str("component", "favorite_service").Logger(),
	}
}

func (s *favoriteService) Toggle(ctx context.Context, userID, imageID uint) (dto.FavoriteToggleResponse, error) {
	if _, err := s.images.GetByID(ctx, imageID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.FavoriteToggleResponse{}, ErrImageNotFound
		}
		return dto.FavoriteToggleResponse{}, err
	}

	added, err := s.favorites.Add(ctx, userID, imageID)
	if err != nil {
		return dto.FavoriteToggleResponse{}, err
	}
	if added {
		return dto.FavoriteToggleResponse{ImageID: imageID, Favorited: true}, nil
	}

	// Already favorited: toggle means remove.
	if _, err := s.favorites.Remove(ctx, userID, imageID); err != nil {
		return dto.FavoriteToggleResponse{}, err
	}

	return dto.FavoriteToggleResponse{ImageID: imageID, Favorited: false}, nil
}

func (s *favoriteService) List(ctx context.Context, userID uint, page, pageSize int) (dto.ImageListResponse, error) {
	page = maxInt(page, 1)
	pageSize = clampPageSize(pageSize)

	images, total, err := s.favorites.ListByUser(ctx, userID, page, pageSize)
	if err != nil {
		return dto.ImageListResponse{}, err
	}

	responses := make([]dto.ImageResponse, 0, len(images))
	for _, image := range images {
		responses = append(responses, dto.NewImageResponse(image))
	}

	return dto.ImageListResponse{
		Items:      responses,
		Pagination: paginationMeta(page, pageSize, total),
	}, nil
}
