package service

import (
	"context"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/hothanhtai16998/PhotoCloud-sub000/internal/dto"
	"github.com/hothanhtai16998/PhotoCloud-sub000/internal/models"
	"github.com/hothanhtai16998/PhotoCloud-sub000/internal/permission"
	"github.com/hothanhtai16998/PhotoCloud-sub000/internal/repository"
)

// Actor identifies the authenticated administrator performing an operation.
type Actor struct {
	ID   uint
	Role string
	IP   string
}

// AdminRoleService orchestrates role grant management: validation against
// the role's whitelist, permission inheritance, system-role immutability,
// and the cache-invalidation contract after every mutation.
type AdminRoleService interface {
	Create(ctx context.Context, payload dto.AdminRoleCreateRequest, actor Actor) (dto.AdminRoleResponse, error)
	Get(ctx context.Context, id uint) (dto.AdminRoleResponse, error)
	GetByUser(ctx context.Context, userID uint) (dto.AdminRoleResponse, error)
	List(ctx context.Context, role string, active *bool, page, pageSize int) (dto.AdminRoleListResponse, error)
	Update(ctx context.Context, id uint, payload dto.AdminRoleUpdateRequest, actor Actor) (dto.AdminRoleResponse, error)
	Delete(ctx context.Context, id uint, actor Actor) error
}

type adminRoleService struct {
	repo      repository.AdminRoleRepository
	users     repository.UserRepository
	cache     *permission.Cache
	audit     AuditRecorder
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewAdminRoleService constructs the admin role service.
func NewAdminRoleService(repo repository.AdminRoleRepository, users repository.UserRepository, cache *permission.Cache, audit AuditRecorder, validate *validator.Validate, logger zerolog.Logger) AdminRoleService {
	return &adminRoleService{
		repo:      repo,
		users:     users,
		cache:     cache,
		audit:     audit,
		validator: validate,
		logger:    logger.With().Str("component", "admin_role_service").Logger(),
	}
}

func (s *adminRoleService) Create(ctx context.Context, payload dto.AdminRoleCreateRequest, actor Actor) (dto.AdminRoleResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.AdminRoleResponse{}, err
	}

	if _, err := s.users.GetByID(ctx, payload.UserID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.AdminRoleResponse{}, ErrUserNotFound
		}
		return dto.AdminRoleResponse{}, err
	}

	if _, err := s.repo.GetByUserID(ctx, payload.UserID); err == nil {
		return dto.AdminRoleResponse{}, ErrRoleExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return dto.AdminRoleResponse{}, err
	}

	result := permission.ValidateForRole(payload.Role, payload.Permissions)
	if !result.Valid {
		return dto.AdminRoleResponse{}, &PermissionValidationError{Result: result}
	}

	grantedBy := actor.ID
	model := models.AdminRole{
		UserID:      payload.UserID,
		Role:        payload.Role,
		Permissions: dto.JSONMapFromBool(permission.ApplyInheritance(payload.Role, payload.Permissions)),
		GrantedBy:   &grantedBy,
		ExpiresAt:   payload.ExpiresAt,
		Active:      true,
		AllowedIPs:  dto.JSONFromStrings(normalizeIPs(payload.AllowedIPs)),
	}

	if err := s.repo.Create(ctx, &model); err != nil {
		return dto.AdminRoleResponse{}, err
	}

	s.afterMutation(ctx, model, actor, "role_created", map[string]interface{}{
		"role":    model.Role,
		"user_id": model.UserID,
	})

	return dto.NewAdminRoleResponse(model), nil
}

func (s *adminRoleService) Get(ctx context.Context, id uint) (dto.AdminRoleResponse, error) {
	role, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.AdminRoleResponse{}, ErrRoleNotFound
		}
		return dto.AdminRoleResponse{}, err
	}
	return dto.NewAdminRoleResponse(role), nil
}

func (s *adminRoleService) GetByUser(ctx context.Context, userID uint) (dto.AdminRoleResponse, error) {
	role, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.AdminRoleResponse{}, ErrRoleNotFound
		}
		return dto.AdminRoleResponse{}, err
	}
	return dto.NewAdminRoleResponse(role), nil
}

func (s *adminRoleService) List(ctx context.Context, role string, active *bool, page, pageSize int) (dto.AdminRoleListResponse, error) {
	filter := repository.AdminRoleFilter{
		Role:     strings.TrimSpace(role),
		Active:   active,
		Page:     maxInt(page, 1),
		PageSize: clampPageSize(pageSize),
	}

	roles, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return dto.AdminRoleListResponse{}, err
	}

	responses := make([]dto.AdminRoleResponse, 0, len(roles))
	for _, r := range roles {
		responses = append(responses, dto.NewAdminRoleResponse(r))
	}

	return dto.AdminRoleListResponse{
		Items:      responses,
		Pagination: paginationMeta(filter.Page, filter.PageSize, total),
	}, nil
}

func (s *adminRoleService) Update(ctx context.Context, id uint, payload dto.AdminRoleUpdateRequest, actor Actor) (dto.AdminRoleResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.AdminRoleResponse{}, err
	}

	role, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.AdminRoleResponse{}, ErrRoleNotFound
		}
		return dto.AdminRoleResponse{}, err
	}

	if role.SystemGranted() {
		return dto.AdminRoleResponse{}, ErrSystemRoleImmutable
	}

	previousIPs := ipsFromRole(role)

	targetRole := role.Role
	if payload.Role != nil {
		targetRole = *payload.Role
	}

	permissions := boolMapFromRole(role)
	if payload.Permissions != nil {
		permissions = payload.Permissions
	}

	result := permission.ValidateForRole(targetRole, permissions)
	if !result.Valid {
		return dto.AdminRoleResponse{}, &PermissionValidationError{Result: result}
	}

	role.Role = targetRole
	role.Permissions = dto.JSONMapFromBool(permission.ApplyInheritance(targetRole, permissions))
	if payload.ExpiresAt != nil {
		role.ExpiresAt = payload.ExpiresAt
	}
	if payload.Active != nil {
		role.Active = *payload.Active
	}
	if payload.AllowedIPs != nil {
		role.AllowedIPs = dto.JSONFromStrings(normalizeIPs(payload.AllowedIPs))
	}

	if err := s.repo.Update(ctx, &role); err != nil {
		return dto.AdminRoleResponse{}, err
	}

	s.afterMutation(ctx, role, actor, "role_updated", map[string]interface{}{
		"role":    role.Role,
		"user_id": role.UserID,
		"active":  role.Active,
	})
	s.invalidate(ctx, role.UserID, previousIPs)

	return dto.NewAdminRoleResponse(role), nil
}

func (s *adminRoleService) Delete(ctx context.Context, id uint, actor Actor) error {
	role, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrRoleNotFound
		}
		return err
	}

	if role.SystemGranted() {
		return ErrSystemRoleImmutable
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.afterMutation(ctx, role, actor, "role_deleted", map[string]interface{}{
		"role":    role.Role,
		"user_id": role.UserID,
	})

	return nil
}

// afterMutation fulfils the post-mutation contract: evict the permission
// cache for the affected user (and any IP-keyed copies) and append an audit
// entry. Both are best-effort.
func (s *adminRoleService) afterMutation(ctx context.Context, role models.AdminRole, actor Actor, action string, metadata map[string]interface{}) {
	s.invalidate(ctx, role.UserID, ipsFromRole(role))

	if s.audit != nil {
		actorID := actor.ID
		entry := LogEntry{
			Level:    models.LogLevelInfo,
			Message:  action + " for user",
			ActorID:  &actorID,
			Action:   action,
			IP:       actor.IP,
			Metadata: metadata,
		}
		if err := s.audit.Record(ctx, entry); err != nil {
			s.logger.Warn().Err(err).Str("action", action).Msg("failed to record audit entry")
		}
	}
}

func (s *adminRoleService) invalidate(ctx context.Context, userID uint, ips []string) {
	if err := s.cache.Invalidate(ctx, userID, ips); err != nil {
		s.logger.Warn().Err(err).Uint("user_id", userID).Msg("permission cache invalidation failed")
	}
}

func normalizeIPs(ips []string) []string {
	result := make([]string, 0, len(ips))
	for _, ip := range ips {
		trimmed := strings.TrimSpace(ip)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

func ipsFromRole(role models.AdminRole) []string {
	return dto.NewAdminRoleResponse(role).AllowedIPs
}

func boolMapFromRole(role models.AdminRole) map[string]bool {
	return dto.NewAdminRoleResponse(role).Permissions
}
