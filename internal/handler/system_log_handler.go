package handler

import (
	"encoding/json"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/rs/zerolog"

	"github.com/hothanhtai16998/PhotoCloud-sub000/internal/dto"
	"github.com/hothanhtai16998/PhotoCloud-sub000/internal/middleware"
	"github.com/hothanhtai16998/PhotoCloud-sub000/internal/permission"
	"github.com/hothanhtai16998/PhotoCloud-sub000/internal/service"
	"github.com/hothanhtai16998/PhotoCloud-sub000/internal/utils"
)

// SystemLogHandler wires the audit trail endpoints, including the live
// websocket stream used by the admin console.
type SystemLogHandler struct {
	service service.SystemLogService
	logger  zerolog.Logger
}

// NewSystemLogHandler constructs the handler.
func NewSystemLogHandler(service service.SystemLogService, logger zerolog.Logger) *SystemLogHandler {
	return &SystemLogHandler{
		service: service,
		logger:  logger.With().Str("component", "system_log_handler").Logger(),
	}
}

// Register attaches log routes to the router group.
func (h *SystemLogHandler) Register(router fiber.Router, gate *middleware.PermissionGate) {
	router.Get("", gate.Require(permission.ViewLogs), h.list)

	router.Use("/stream", gate.Require(permission.ViewLogs), func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	router.Get("/stream", websocket.New(h.stream))
}

func (h *SystemLogHandler) list(c *fiber.Ctx) error {
	page, pageSize, err := pagination(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	actorID, err := parseQueryInt(c, "actor_id")
	if err != nil || actorID < 0 {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid actor id")
	}

	req := dto.SystemLogListRequest{
		Page:     page,
		PageSize: pageSize,
		Level:    c.Query("level"),
		Action:   c.Query("action"),
		ActorID:  uint(actorID),
	}

	response, err := h.service.List(c.Context(), req)
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to list system logs")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to list system logs")
	}

	return utils.SendSuccess(c, "system logs retrieved", response)
}

// stream pushes every new audit entry to the connected console until the
// client hangs up.
func (h *SystemLogHandler) stream(conn *websocket.Conn) {
	entries, cancel := h.service.Subscribe()
	defer cancel()

	h.logger.Info().Msg("log stream connected")
	defer h.logger.Info().Msg("log stream disconnected")

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-done:
			return
		case entry, ok := <-entries:
			if !ok {
				return
			}
			payload, err := json.Marshal(entry)
			if err != nil {
				h.logger.Warn().Err(err).Msg("failed to encode log entry")
				continue
			}
			if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		}
	}
}
