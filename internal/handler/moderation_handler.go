package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/hothanhtai16998/PhotoCloud-sub000/internal/dto"
	"github.com/hothanhtai16998/PhotoCloud-sub000/internal/middleware"
	"github.com/hothanhtai16998/PhotoCloud-sub000/internal/permission"
	"github.com/hothanhtai16998/PhotoCloud-sub000/internal/service"
	"github.com/hothanhtai16998/PhotoCloud-sub000/internal/utils"
)

// ModerationHandler wires the image moderation queue endpoints.
type ModerationHandler struct {
	service service.ModerationService
	logger  zerolog.Logger
}

// NewModerationHandler constructs the handler.
func NewModerationHandler(service service.ModerationService, logger zerolog.Logger) *ModerationHandler {
	return &ModerationHandler{
		service: service,
		logger:  logger.With().Str("component", "moderation_handler").Logger(),
	}
}

// Register attaches moderation routes to the router group.
func (h *ModerationHandler) Register(router fiber.Router, gate *middleware.PermissionGate) {
	router.Get("", gate.Require(permission.ViewImages), h.queue)
	router.Post("/:id", gate.Require(permission.ModerateImages), h.moderate)
}

func (h *ModerationHandler) queue(c *fiber.Ctx) error {
	page, pageSize, err := pagination(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	response, err := h.service.Queue(c.Context(), c.Query("status"), c.Query("search"), page, pageSize)
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to list moderation queue")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to list moderation queue")
	}

	return utils.SendSuccess(c, "moderation queue retrieved", response)
}

func (h *ModerationHandler) moderate(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid identifier")
	}

	var payload dto.ModerationRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	image, err := h.service.Moderate(c.Context(), id, payload, actorFromContext(c))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrImageNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "image not found")
		case errors.Is(err, service.ErrInvalidTransition):
			return utils.SendError(c, fiber.StatusConflict, "image is not pending moderation")
		case isValidationError(err):
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		default:
			requestLogger(h.logger, c).Error().Err(err).Msg("failed to moderate image")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to moderate image")
		}
	}

	return utils.SendSuccess(c, "image moderated", image)
}
