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

// AnalyticsHandler wires the admin analytics endpoints.
type AnalyticsHandler struct {
	service service.AnalyticsService
	logger  zerolog.Logger
}

// NewAnalyticsHandler constructs the handler.
func NewAnalyticsHandler(service service.AnalyticsService, logger zerolog.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{
		service: service,
		logger:  logger.With().Str("component", "analytics_handler").Logger(),
	}
}

// Register attaches analytics routes to the router group.
func (h *AnalyticsHandler) Register(router fiber.Router, gate *middleware.PermissionGate) {
	router.Get("/summary", gate.Require(permission.ViewAnalytics), h.summary)
}

func (h *AnalyticsHandler) summary(c *fiber.Ctx) error {
	days, err := parseQueryInt(c, "days")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid days")
	}

	response, err := h.service.Summary(c.Context(), dto.AnalyticsSummaryRequest{
		Days:     days,
		Timezone: c.Query("timezone"),
	})
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to build analytics summary")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to build analytics summary")
	}

	return utils.SendSuccess(c, "analytics summary retrieved", response)
}
