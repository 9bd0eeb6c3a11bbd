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

// AdminRoleHandler wires role grant management endpoints. All routes sit
// behind the admin-management permissions, which only super admins hold.
type AdminRoleHandler struct {
	service service.AdminRoleService
	logger  zerolog.Logger
}

// NewAdminRoleHandler constructs the handler.
func NewAdminRoleHandler(service service.AdminRoleService, logger zerolog.Logger) *AdminRoleHandler {
	return &AdminRoleHandler{
		service: service,
		logger:  logger.With().Str("component", "admin_role_handler").Logger(),
	}
}

// Register attaches role admin routes to the router group.
func (h *AdminRoleHandler) Register(router fiber.Router, gate *middleware.PermissionGate) {
	router.Get("", gate.Require(permission.CreateAdmins), h.list)
	router.Get("/:id", gate.Require(permission.CreateAdmins), h.get)
	router.Post("", gate.Require(permission.CreateAdmins), h.create)
	router.Patch("/:id", gate.Require(permission.EditAdmins), h.update)
	router.Delete("/:id", gate.Require(permission.DeleteAdmins), h.delete)
}

func (h *AdminRoleHandler) list(c *fiber.Ctx) error {
	page, pageSize, err := pagination(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var active *bool
	switch strings.ToLower(strings.TrimSpace(c.Query("active"))) {
	case "true":
		value := true
		active = &value
	case "false":
		value := false
		active = &value
	}

	response, err := h.service.List(c.Context(), c.Query("role"), active, page, pageSize)
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to list roles")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to list roles")
	}

	return utils.SendSuccess(c, "roles retrieved", response)
}

func (h *AdminRoleHandler) get(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid identifier")
	}

	role, err := h.service.Get(c.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrRoleNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, "role not found")
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to fetch role")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to fetch role")
	}

	return utils.SendSuccess(c, "role retrieved", role)
}

func (h *AdminRoleHandler) create(c *fiber.Ctx) error {
	var payload dto.AdminRoleCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	role, err := h.service.Create(c.Context(), payload, actorFromContext(c))
	if err != nil {
		return h.mutationError(c, err, "failed to create role")
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "role created", role)
}

func (h *AdminRoleHandler) update(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid identifier")
	}

	var payload dto.AdminRoleUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	role, err := h.service.Update(c.Context(), id, payload, actorFromContext(c))
	if err != nil {
		return h.mutationError(c, err, "failed to update role")
	}

	return utils.SendSuccess(c, "role updated", role)
}

func (h *AdminRoleHandler) delete(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid identifier")
	}

	if err := h.service.Delete(c.Context(), id, actorFromContext(c)); err != nil {
		return h.mutationError(c, err, "failed to delete role")
	}

	return utils.SendSuccess(c, "role deleted", fiber.Map{"id": id})
}

// mutationError maps role mutation failures onto the response envelope.
// Out-of-policy permission sets surface the full rejection list so the
// console can highlight every offending flag at once.
func (h *AdminRoleHandler) mutationError(c *fiber.Ctx, err error, fallback string) error {
	var permissionErr *service.PermissionValidationError
	switch {
	case errors.As(err, &permissionErr):
		return utils.SendValidationErrors(c, "permissions not allowed for role", permissionErr.Result.Errors)
	case errors.Is(err, service.ErrRoleNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "role not found")
	case errors.Is(err, service.ErrUserNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "user not found")
	case errors.Is(err, service.ErrRoleExists):
		return utils.SendError(c, fiber.StatusConflict, "user already holds a role")
	case errors.Is(err, service.ErrSystemRoleImmutable):
		return utils.SendError(c, fiber.StatusForbidden, "system-created roles cannot be modified")
	case isValidationError(err):
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	default:
		requestLogger(h.logger, c).Error().Err(err).Msg(fallback)
		return utils.SendError(c, fiber.StatusInternalServerError, fallback)
	}
}
