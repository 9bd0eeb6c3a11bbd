package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/hothanhtai16998/PhotoCloud-sub000/internal/dto"
	"github.com/hothanhtai16998/PhotoCloud-sub000/internal/models"
	"github.com/hothanhtai16998/PhotoCloud-sub000/internal/repository"
)

// AdminUserService orchestrates admin user management use cases. The
// is_admin flags in its responses are derived from the role table at read
// time; nothing admin-related is stored on the user row.
type AdminUserService interface {
	List(ctx context.Context, req dto.AdminUserListRequest) (dto.AdminUserListResponse, error)
	Get(ctx context.Context, id uint) (dto.AdminUserResponse, error)
	Update(ctx context.Context, id uint, payload dto.AdminUserUpdateRequest, actor Actor) (dto.AdminUserResponse, error)
	Ban(ctx context.Context, id uint, payload dto.AdminUserBanRequest, actor Actor) (dto.AdminUserResponse, error)
	Unban(ctx context.Context, id uint, actor Actor) (dto.AdminUserResponse, error)
	Delete(ctx context.Context, id uint, actor Actor) error
}

type adminUserService struct {
	users         repository.UserRepository
	roles         repository.AdminRoleRepository
	images        repository.ImageRepository
	storage       ImageStorage
	notifications Notifier
	audit         AuditRecorder
	validator     *validator.Validate
	logger        zerolog.Logger
	now           func() time.Time
}

// NewAdminUserService constructs the admin user service.
func NewAdminUserService(users repository.UserRepository, roles repository.AdminRoleRepository, images repository.ImageRepository, storage ImageStorage, notifications Notifier, audit AuditRecorder, validate *validator.Validate, logger zerolog.Logger) AdminUserService {
	return &adminUserService{
		users:         users,
		roles:         roles,
		images:        images,
		storage:       storage,
		notifications: notifications,
		audit:         audit,
		validator:     validate,
		logger:        logger.With().Str("component", "admin_user_service").Logger(),
		now:           time.Now,
	}
}

func (s *adminUserService) List(ctx context.Context, req dto.AdminUserListRequest) (dto.AdminUserListResponse, error) {
	filter := repository.UserFilter{
		Search:   strings.TrimSpace(req.Search),
		Banned:   req.Banned,
		Page:     maxInt(req.Page, 1),
		PageSize: clampPageSize(req.PageSize),
	}

	users, total, err := s.users.List(ctx, filter)
	if err != nil {
		return dto.AdminUserListResponse{}, err
	}

	responses := make([]dto.AdminUserResponse, 0, len(users))
	for _, user := range users {
		responses = append(responses, dto.NewAdminUserResponse(user, s.roleFor(ctx, user.ID)))
	}

	return dto.AdminUserListResponse{
		Items:      responses,
		Pagination: paginationMeta(filter.Page, filter.PageSize, total),
	}, nil
}

func (s *adminUserService) Get(ctx context.Context, id uint) (dto.AdminUserResponse, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.AdminUserResponse{}, ErrUserNotFound
		}
		return dto.AdminUserResponse{}, err
	}

	return dto.NewAdminUserResponse(user, s.roleFor(ctx, id)), nil
}

func (s *adminUserService) Update(ctx context.Context, id uint, payload dto.AdminUserUpdateRequest, actor Actor) (dto.AdminUserResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.AdminUserResponse{}, err
	}

	updates := make(map[string]interface{})
	if payload.Name != nil {
		updates["name"] = strings.TrimSpace(*payload.Name)
	}
	if payload.Email != nil {
		updates["email"] = strings.ToLower(strings.TrimSpace(*payload.Email))
	}
	if payload.AvatarURL != nil {
		updates["avatar_url"] = strings.TrimSpace(*payload.AvatarURL)
	}

	if len(updates) == 0 {
		return s.Get(ctx, id)
	}

	user, err := s.users.Update(ctx, id, updates)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.AdminUserResponse{}, ErrUserNotFound
		}
		return dto.AdminUserResponse{}, err
	}

	s.recordAudit(ctx, actor, "user_updated", models.LogLevelInfo, map[string]interface{}{"user_id": id})

	return dto.NewAdminUserResponse(user, s.roleFor(ctx, id)), nil
}

func (s *adminUserService) Ban(ctx context.Context, id uint, payload dto.AdminUserBanRequest, actor Actor) (dto.AdminUserResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.AdminUserResponse{}, err
	}

	at := s.now()
	user, err := s.users.SetBan(ctx, id, true, strings.TrimSpace(payload.Reason), &at)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.AdminUserResponse{}, ErrUserNotFound
		}
		return dto.AdminUserResponse{}, err
	}

	s.recordAudit(ctx, actor, "user_banned", models.LogLevelWarning, map[string]interface{}{
		"user_id": id,
		"reason":  payload.Reason,
	})

	// Notification is a fire-and-forget side effect; a failure here must
	// never roll back or fail the ban.
	if s.notifications != nil {
		if err := s.notifications.Notify(ctx, id, "account_banned", "Your account has been banned: "+payload.Reason); err != nil {
			s.logger.Warn().Err(err).Uint("user_id", id).Msg("failed to deliver ban notification")
		}
	}

	return dto.NewAdminUserResponse(user, s.roleFor(ctx, id)), nil
}

func (s *adminUserService) Unban(ctx context.Context, id uint, actor Actor) (dto.AdminUserResponse, error) {
	user, err := s.users.SetBan(ctx, id, false, "", nil)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.AdminUserResponse{}, ErrUserNotFound
		}
		return dto.AdminUserResponse{}, err
	}

	s.recordAudit(ctx, actor, "user_unbanned", models.LogLevelInfo, map[string]interface{}{"user_id": id})

	return dto.NewAdminUserResponse(user, s.roleFor(ctx, id)), nil
}

func (s *adminUserService) Delete(ctx context.Context, id uint, actor Actor) error {
	images, err := s.images.ListByUser(ctx, id)
	if err != nil {
		return err
	}

	if err := s.users.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	// Outbound storage deletes are best-effort; failures are logged and do
	// not fail the delete.
	for _, image := range images {
		if err := s.images.Delete(ctx, image.ID); err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Warn().Err(err).Uint("image_id", image.ID).Msg("failed to delete image row")
		}
		if s.storage != nil {
			if err := s.storage.Destroy(ctx, image.StorageID); err != nil {
				s.logger.Warn().Err(err).Str("storage_id", image.StorageID).Msg("failed to delete image from storage")
			}
		}
	}

	s.recordAudit(ctx, actor, "user_deleted", models.LogLevelWarning, map[string]interface{}{
		"user_id":     id,
		"image_count": len(images),
	})

	return nil
}

// roleFor resolves the user's active, unexpired role grant, or nil.
func (s *adminUserService) roleFor(ctx context.Context, userID uint) *models.AdminRole {
	role, err := s.roles.GetByUserID(ctx, userID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Warn().Err(err).Uint("user_id", userID).Msg("failed to resolve admin role")
		}
		return nil
	}
	if role.Expired(s.now()) {
		return nil
	}
	return &role
}

func (s *adminUserService) recordAudit(ctx context.Context, actor Actor, action, level string, metadata map[string]interface{}) {
	if s.audit == nil {
		return
	}
	actorID := actor.ID
	if err := s.audit.Record(ctx, LogEntry{
		Level:    level,
		Message:  strings.ReplaceAll(action, "_", " "),
		ActorID:  &actorID,
		Action:   action,
		IP:       actor.IP,
		Metadata: metadata,
	}); err != nil {
		s.logger.Warn().Err(err).Str("action", action).Msg("failed to record audit entry")
	}
}
