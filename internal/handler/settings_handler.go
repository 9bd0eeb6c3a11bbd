package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/hothanhtai16998/PhotoCloud-sub000/internal/dto"
	"github.com/hothanhtai16998/PhotoCloud-sub000/internal/middleware"
	"github.com/hothanhtai16998/PhotoCloud-sub000/internal/permission"
	"github.com/hothanhtai16998/PhotoCloud-sub000/internal/service"
	"github.com/hothanhtai16998/PhotoCloud-sub000/internal/utils"
)

// SettingsHandler wires the site settings endpoints.
type SettingsHandler struct {
	service service.SettingsService
	logger  zerolog.Logger
}

// NewSettingsHandler constructs the handler.
func NewSettingsHandler(service service.SettingsService, logger zerolog.Logger) *SettingsHandler {
	return &SettingsHandler{
		service: service,
		logger:  logger.With().Str("component", "settings_handler").Logger(),
	}
}

// Register attaches settings routes to the router group.
func (h *SettingsHandler) Register(router fiber.Router, gate *middleware.PermissionGate) {
	router.Get("", gate.Require(permission.ManageSettings), h.get)
	router.Put("", gate.Require(permission.ManageSettings), h.update)
}

func (h *SettingsHandler) get(c *fiber.Ctx) error {
	response, err := h.service.Get(c.Context())
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to fetch settings")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to fetch settings")
	}

	return utils.SendSuccess(c, "settings retrieved", response)
}

func (h *SettingsHandler) update(c *fiber.Ctx) error {
	var payload dto.SettingsUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	response, err := h.service.Update(c.Context(), payload, actorFromContext(c))
	if err != nil {
		if isValidationError(err) {
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to update settings")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to update settings")
	}

	return utils.SendSuccess(c, "settings updated", response)
}
