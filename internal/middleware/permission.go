package middleware

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/hothanhtai16998/PhotoCloud-sub000/internal/dto"
	"github.com/hothanhtai16998/PhotoCloud-sub000/internal/models"
	"github.com/hothanhtai16998/PhotoCloud-sub000/internal/permission"
	"github.com/hothanhtai16998/PhotoCloud-sub000/internal/repository"
	"github.com/hothanhtai16998/PhotoCloud-sub000/internal/utils"
)

// PermissionGate resolves an authenticated user's effective admin
// permissions and guards admin routes with them. Snapshots are served
// cache-aside from Redis; role mutations invalidate them, so a gate
// decision is never staler than the cache TTL.
type PermissionGate struct {
	cache  *permission.Cache
	roles  repository.AdminRoleRepository
	logger zerolog.Logger
	now    func() time.Time
}

// NewPermissionGate constructs the gate.
func NewPermissionGate(cache *permission.Cache, roles repository.AdminRoleRepository, logger zerolog.Logger) *PermissionGate {
	return &PermissionGate{
		cache:  cache,
		roles:  roles,
		logger: logger.With().Str("component", "permission_gate").Logger(),
		now:    time.Now,
	}
}

// Require returns a middleware that rejects the request unless the
// authenticated user holds the named permission. Super admins pass every
// check except the IP allowlist.
func (g *PermissionGate) Require(perm string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, ok := c.Locals("user_id").(uint)
		if !ok || userID == 0 {
			return utils.SendError(c, fiber.StatusUnauthorized, "authentication required")
		}

		snapshot, err := g.snapshot(c.UserContext(), userID)
		if err != nil {
			g.logger.Error().Err(err).Uint("user_id", userID).Msg("failed to resolve permissions")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to resolve permissions")
		}
		if snapshot == nil || !snapshot.Active {
			return utils.SendError(c, fiber.StatusForbidden, "admin access required")
		}
		if snapshot.ExpiresAt != nil && g.now().After(*snapshot.ExpiresAt) {
			return utils.SendError(c, fiber.StatusForbidden, "admin role expired")
		}
		if !ipAllowed(snapshot.AllowedIPs, c.IP()) {
			return utils.SendError(c, fiber.StatusForbidden, "access denied from this address")
		}
		if snapshot.Role != models.RoleSuperAdmin && !snapshot.Permissions[perm] {
			return utils.SendError(c, fiber.StatusForbidden, "insufficient permissions")
		}

		c.Locals("admin_role", snapshot.Role)
		return c.Next()
	}
}

// snapshot returns the effective-permission snapshot for a user, loading
// and caching it on a miss. A nil snapshot with nil error means the user
// holds no admin role.
func (g *PermissionGate) snapshot(ctx context.Context, userID uint) (*permission.Snapshot, error) {
	if cached, err := g.cache.Get(ctx, userID); err != nil {
		g.logger.Warn().Err(err).Uint("user_id", userID).Msg("permission cache read failed")
	} else if cached != nil {
		return cached, nil
	}

	role, err := g.roles.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	view := dto.NewAdminRoleResponse(role)
	snapshot := permission.Snapshot{
		UserID:      userID,
		Role:        view.Role,
		Permissions: permission.ApplyInheritance(view.Role, view.Permissions),
		Active:      view.Active,
		ExpiresAt:   view.ExpiresAt,
		AllowedIPs:  view.AllowedIPs,
	}

	if err := g.cache.Set(ctx, snapshot); err != nil {
		g.logger.Warn().Err(err).Uint("user_id", userID).Msg("permission cache write failed")
	}

	return &snapshot, nil
}

func ipAllowed(allowed []string, ip string) bool {
	if len(allowed) == 0 {
		return true
	}
	for _, candidate := range allowed {
		if candidate == ip {
			return true
		}
	}
	return false
}
