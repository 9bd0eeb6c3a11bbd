package handler_test

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/hothanhtai16998/PhotoCloud-sub000/internal/dto"
	"github.com/hothanhtai16998/PhotoCloud-sub000/internal/handler"
	"github.com/hothanhtai16998/PhotoCloud-sub000/internal/models"
	"github.com/hothanhtai16998/PhotoCloud-sub000/internal/repository"
	"github.com/hothanhtai16998/PhotoCloud-sub000/internal/service"
)

// newImageApp wires the favorites and activity stack against an in-memory
// database, exercising the full request path.
func newImageApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Image{}, &models.Favorite{}, &models.UserActivity{}))

	images := repository.NewImageRepository(db)
	favorites := service.NewFavoriteService(repository.NewFavoriteRepository(db), images, zerolog.Nop())
	activity := service.NewActivityService(repository.NewUserActivityRepository(db), images, time.UTC, zerolog.Nop())

	app := fiber.New()
	app.Use(asUser(4))
	handler.NewImageHandler(favorites, activity, zerolog.Nop()).Register(app.Group("/api/v1/images"))

	return app, db
}

func TestImageHandler_FavoriteToggle(t *testing.T) {
	app, db := newImageApp(t)
	require.NoError(t, db.Create(&models.Image{ID: 3, UserID: 9, Status: models.ImageStatusApproved}).Error)

	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/api/v1/images/3/favorite", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body struct {
		Data dto.FavoriteToggleResponse `json:"data"`
	}
	decodeResponse(t, resp, &body)
	require.True(t, body.Data.Favorited)

	resp, err = app.Test(httptest.NewRequest(http.MethodPost, "/api/v1/images/3/favorite", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	decodeResponse(t, resp, &body)
	require.False(t, body.Data.Favorited, "second toggle removes the favorite")
}

func TestImageHandler_FavoriteMissingImage(t *testing.T) {
	app, _ := newImageApp(t)

	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/api/v1/images/77/favorite", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestImageHandler_ViewTrackingIncrementsCounter(t *testing.T) {
	app, db := newImageApp(t)
	require.NoError(t, db.Create(&models.Image{ID: 3, UserID: 9, Status: models.ImageStatusApproved}).Error)

	for i := 0; i < 3; i++ {
		resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/api/v1/images/3/view", nil))
		require.NoError(t, err)
		require.Equal(t, fiber.StatusOK, resp.StatusCode)
	}

	var image models.Image
	require.NoError(t, db.First(&image, 3).Error)
	require.EqualValues(t, 3, image.ViewCount)

	var bucket models.UserActivity
	require.NoError(t, db.Where("user_id = ? AND image_id = ? AND activity_type = ?", 4, 3, models.ActivityView).First(&bucket).Error)
	require.EqualValues(t, 3, bucket.Count, "daily bucket accumulates instead of duplicating rows")
}

func TestImageHandler_TrackingRequiresAuth(t *testing.T) {
	_, db := newImageApp(t)
	require.NoError(t, db.Create(&models.Image{ID: 3, UserID: 9}).Error)

	app := fiber.New()
	favorites := service.NewFavoriteService(repository.NewFavoriteRepository(db), repository.NewImageRepository(db), zerolog.Nop())
	activity := service.NewActivityService(repository.NewUserActivityRepository(db), repository.NewImageRepository(db), time.UTC, zerolog.Nop())
	handler.NewImageHandler(favorites, activity, zerolog.Nop()).Register(app.Group("/api/v1/images"))

	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/api/v1/images/3/view", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}
