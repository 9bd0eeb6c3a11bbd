package handler

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/hothanhtai16998/PhotoCloud-sub000/internal/dto"
	"github.com/hothanhtai16998/PhotoCloud-sub000/internal/middleware"
	"github.com/hothanhtai16998/PhotoCloud-sub000/internal/permission"
	"github.com/hothanhtai16998/PhotoCloud-sub000/internal/service"
	"github.com/hothanhtai16998/PhotoCloud-sub000/internal/utils"
)

// AdminUserHandler wires admin user management endpoints.
type AdminUserHandler struct {
	service service.AdminUserService
	logger  zerolog.Logger
}

// NewAdminUserHandler constructs the handler.
func NewAdminUserHandler(service service.AdminUserService, logger zerolog.Logger) *AdminUserHandler {
	return &AdminUserHandler{
		service: service,
		logger:  logger.With().Str("component", "admin_user_handler").Logger(),
	}
}

// Register attaches user admin routes to the router group, each behind
// its own permission flag.
func (h *AdminUserHandler) Register(router fiber.Router, gate *middleware.PermissionGate) {
	router.Get("", gate.Require(permission.ViewUsers), h.list)
	router.Get("/:id", gate.Require(permission.ViewUsers), h.get)
	router.Patch("/:id", gate.Require(permission.EditUsers), h.update)
	router.Post("/:id/ban", gate.Require(permission.BanUsers), h.ban)
	router.Post("/:id/unban", gate.Require(permission.BanUsers), h.unban)
	router.Delete("/:id", gate.Require(permission.DeleteUsers), h.delete)
}

func (h *AdminUserHandler) list(c *fiber.Ctx) error {
	page, pageSize, err := pagination(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	req := dto.AdminUserListRequest{
		Page:     page,
		PageSize: pageSize,
		Search:   c.Query("search"),
	}
	switch strings.ToLower(strings.TrimSpace(c.Query("banned"))) {
	case "true":
		banned := true
		req.Banned = &banned
	case "false":
		banned := false
		req.Banned = &banned
	}

	response, err := h.service.List(c.Context(), req)
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to list users")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to list users")
	}

	return utils.SendSuccess(c, "users retrieved", response)
}

func (h *AdminUserHandler) get(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid identifier")
	}

	user, err := h.service.Get(c.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, "user not found")
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to fetch user")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to fetch user")
	}

	return utils.SendSuccess(c, "user retrieved", user)
}

func (h *AdminUserHandler) update(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid identifier")
	}

	var payload dto.AdminUserUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	user, err := h.service.Update(c.Context(), id, payload, actorFromContext(c))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "user not found")
		case isValidationError(err):
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		default:
			requestLogger(h.logger, c).Error().Err(err).Msg("failed to update user")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to update user")
		}
	}

	return utils.SendSuccess(c, "user updated", user)
}

func (h *AdminUserHandler) ban(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid identifier")
	}

	var payload dto.AdminUserBanRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	user, err := h.service.Ban(c.Context(), id, payload, actorFromContext(c))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "user not found")
		case isValidationError(err):
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		default:
			requestLogger(h.logger, c).Error().Err(err).Msg("failed to ban user")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to ban user")
		}
	}

	return utils.SendSuccess(c, "user banned", user)
}

func (h *AdminUserHandler) unban(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid identifier")
	}

	user, err := h.service.Unban(c.Context(), id, actorFromContext(c))
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, "user not found")
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to unban user")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to unban user")
	}

	return utils.SendSuccess(c, "user unbanned", user)
}

func (h *AdminUserHandler) delete(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid identifier")
	}

	if err := h.service.Delete(c.Context(), id, actorFromContext(c)); err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, "user not found")
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to delete user")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to delete user")
	}

	return utils.SendSuccess(c, "user deleted", fiber.Map{"id": id})
}
