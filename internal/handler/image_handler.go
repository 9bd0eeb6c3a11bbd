package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/hothanhtai16998/PhotoCloud-sub000/internal/models"
	"github.com/hothanhtai16998/PhotoCloud-sub000/internal/service"
	"github.com/hothanhtai16998/PhotoCloud-sub000/internal/utils"
)

// ImageHandler wires the user-facing image endpoints: favorites and
// view/download tracking.
type ImageHandler struct {
	favorites service.FavoriteService
	activity  service.ActivityService
	logger    zerolog.Logger
}

// NewImageHandler constructs the handler.
func NewImageHandler(favorites service.FavoriteService, activity service.ActivityService, logger zerolog.Logger) *ImageHandler {
	return &ImageHandler{
		favorites: favorites,
		activity:  activity,
		logger:    logger.With().Str("component", "image_handler").Logger(),
	}
}

// Register wires image routes. All of them require an authenticated user.
func (h *ImageHandler) Register(router fiber.Router) {
	router.Get("/favorites", h.listFavorites)
	router.Post("/:id/favorite", h.toggleFavorite)
	router.Post("/:id/view", h.trackActivity(models.ActivityView))
	router.Post("/:id/download", h.trackActivity(models.ActivityDownload))
}

func (h *ImageHandler) toggleFavorite(c *fiber.Ctx) error {
	userID := userIDFromContext(c)
	if userID == 0 {
		return utils.SendError(c, fiber.StatusUnauthorized, "authentication required")
	}

	imageID, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid identifier")
	}

	result, err := h.favorites.Toggle(c.Context(), userID, imageID)
	if err != nil {
		if errors.Is(err, service.ErrImageNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, "image not found")
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to toggle favorite")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to toggle favorite")
	}

	return utils.SendSuccess(c, "favorite toggled", result)
}

func (h *ImageHandler) listFavorites(c *fiber.Ctx) error {
	userID := userIDFromContext(c)
	if userID == 0 {
		return utils.SendError(c, fiber.StatusUnauthorized, "authentication required")
	}

	page, pageSize, err := pagination(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	response, err := h.favorites.List(c.Context(), userID, page, pageSize)
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to list favorites")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to list favorites")
	}

	return utils.SendSuccess(c, "favorites retrieved", response)
}

func (h *ImageHandler) trackActivity(activityType string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := userIDFromContext(c)
		if userID == 0 {
			return utils.SendError(c, fiber.StatusUnauthorized, "authentication required")
		}

		imageID, err := parseUintParam(c, "id")
		if err != nil {
			return utils.SendError(c, fiber.StatusBadRequest, "invalid identifier")
		}

		if err := h.activity.Track(c.Context(), userID, imageID, activityType); err != nil {
			if errors.Is(err, service.ErrImageNotFound) {
				return utils.SendError(c, fiber.StatusNotFound, "image not found")
			}
			requestLogger(h.logger, c).Error().Err(err).Msg("failed to track activity")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to track activity")
		}

		return utils.SendSuccess(c, "activity recorded", fiber.Map{
			"image_id": imageID,
			"type":     activityType,
		})
	}
}
