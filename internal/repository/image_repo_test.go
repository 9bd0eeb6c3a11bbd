package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/hothanhtai16998/PhotoCloud-sub000/internal/models"
)

func TestUpdateModerationTransitionsPendingImage(t *testing.T) {
	db := setupTestDB(t)
	repo := NewImageRepository(db)
	ctx := context.Background()

	image := models.Image{UserID: 2, Title: "Harbor", StorageID: "img-1", URL: "https://cdn.example.com/img-1.jpg", Status: models.ImageStatusPending}
	require.NoError(t, db.Create(&image).Error)

	updated, err := repo.UpdateModeration(ctx, image.ID, models.ImageStatusApproved, 9, "clean")
	require.NoError(t, err)
	require.Equal(t, models.ImageStatusApproved, updated.Status)
	require.Equal(t, "clean", updated.ModerationNote)
}

func TestUpdateModerationGuardsAgainstConcurrentDecision(t *testing.T) {
	db := setupTestDB(t)
	repo := NewImageRepository(db)
	ctx := context.Background()

	image := models.Image{UserID: 2, Title: "Harbor", StorageID: "img-1", URL: "https://cdn.example.com/img-1.jpg", Status: models.ImageStatusPending}
	require.NoError(t, db.Create(&image).Error)

	_, err := repo.UpdateModeration(ctx, image.ID, models.ImageStatusApproved, 9, "")
	require.NoError(t, err)

	// A second decision arrives after the first already won.
	_, err = repo.UpdateModeration(ctx, image.ID, models.ImageStatusRejected, 10, "")
	require.ErrorIs(t, err, ErrImageNotPending)

	var persisted models.Image
	require.NoError(t, db.First(&persisted, image.ID).Error)
	require.Equal(t, models.ImageStatusApproved, persisted.Status)
	require.Equal(t, uint(9), *persisted.ModeratedBy)
}

func TestUpdateModerationMissingImage(t *testing.T) {
	db := setupTestDB(t)
	repo := NewImageRepository(db)

	_, err := repo.UpdateModeration(context.Background(), 404, models.ImageStatusApproved, 9, "")
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
