package middleware

import (
	"context"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/hothanhtai16998/PhotoCloud-sub000/internal/dto"
	"github.com/hothanhtai16998/PhotoCloud-sub000/internal/models"
	"github.com/hothanhtai16998/PhotoCloud-sub000/internal/permission"
	"github.com/hothanhtai16998/PhotoCloud-sub000/internal/repository"
)

type gateRoleRepoStub struct {
	byUser map[uint]models.AdminRole
	loads  int
}

func (r *gateRoleRepoStub) List(_ context.Context, _ repository.AdminRoleFilter) ([]models.AdminRole, int64, error) {
	return nil, 0, nil
}

func (r *gateRoleRepoStub) GetByID(_ context.Context, _ uint) (models.AdminRole, error) {
	return models.AdminRole{}, gorm.ErrRecordNotFound
}

func (r *gateRoleRepoStub) GetByUserID(_ context.Context, userID uint) (models.AdminRole, error) {
	r.loads++
	role, ok := r.byUser[userID]
	if !ok {
		return models.AdminRole{}, gorm.ErrRecordNotFound
	}
	return role, nil
}

func (r *gateRoleRepoStub) Create(_ context.Context, role *models.AdminRole) error {
	r.byUser[role.UserID] = *role
	return nil
}

func (r *gateRoleRepoStub) Update(_ context.Context, role *models.AdminRole) error {
	r.byUser[role.UserID] = *role
	return nil
}

func (r *gateRoleRepoStub) Delete(_ context.Context, _ uint) error {
	return nil
}

func grant(userID uint, role string, perms map[string]bool, ips []string) models.AdminRole {
	granter := uint(1)
	return models.AdminRole{
		ID:          userID,
		UserID:      userID,
		Role:        role,
		Permissions: dto.JSONMapFromBool(permission.ApplyInheritance(role, perms)),
		GrantedBy:   &granter,
		Active:      true,
		AllowedIPs:  dto.JSONFromStrings(ips),
	}
}

func newGateApp(t *testing.T, repo *gateRoleRepoStub, userID uint, perm string) (*fiber.App, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	cache := permission.NewCache(client, time.Minute, zerolog.New(io.Discard))
	gate := NewPermissionGate(cache, repo, zerolog.New(io.Discard))

	app := fiber.New()
	app.Get("/guarded",
		func(c *fiber.Ctx) error {
			if userID != 0 {
				c.Locals("user_id", userID)
			}
			return c.Next()
		},
		gate.Require(perm),
		func(c *fiber.Ctx) error { return c.SendString("ok") },
	)

	return app, mr
}

func TestPermissionGateRequiresAuthentication(t *testing.T) {
	app, _ := newGateApp(t, &gateRoleRepoStub{byUser: map[uint]models.AdminRole{}}, 0, permission.ViewUsers)

	resp, err := app.Test(httptest.NewRequest("GET", "/guarded", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestPermissionGateRejectsNonAdmins(t *testing.T) {
	app, _ := newGateApp(t, &gateRoleRepoStub{byUser: map[uint]models.AdminRole{}}, 9, permission.ViewUsers)

	resp, err := app.Test(httptest.NewRequest("GET", "/guarded", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestPermissionGateAllowsGrantedPermission(t *testing.T) {
	repo := &gateRoleRepoStub{byUser: map[uint]models.AdminRole{
		5: grant(5, models.RoleModerator, map[string]bool{}, nil),
	}}
	app, _ := newGateApp(t, repo, 5, permission.ViewImages)

	resp, err := app.Test(httptest.NewRequest("GET", "/guarded", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestPermissionGateRejectsMissingPermission(t *testing.T) {
	repo := &gateRoleRepoStub{byUser: map[uint]models.AdminRole{
		5: grant(5, models.RoleModerator, map[string]bool{}, nil),
	}}
	app, _ := newGateApp(t, repo, 5, permission.DeleteUsers)

	resp, err := app.Test(httptest.NewRequest("GET", "/guarded", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestPermissionGateSuperAdminBypass(t *testing.T) {
	repo := &gateRoleRepoStub{byUser: map[uint]models.AdminRole{
		2: grant(2, models.RoleSuperAdmin, map[string]bool{}, nil),
	}}
	app, _ := newGateApp(t, repo, 2, permission.DeleteAdmins)

	resp, err := app.Test(httptest.NewRequest("GET", "/guarded", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestPermissionGateRejectsInactiveRole(t *testing.T) {
	role := grant(5, models.RoleAdmin, map[string]bool{}, nil)
	role.Active = false
	repo := &gateRoleRepoStub{byUser: map[uint]models.AdminRole{5: role}}
	app, _ := newGateApp(t, repo, 5, permission.ViewUsers)

	resp, err := app.Test(httptest.NewRequest("GET", "/guarded", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestPermissionGateRejectsExpiredRole(t *testing.T) {
	expired := time.Now().Add(-time.Hour)
	role := grant(5, models.RoleAdmin, map[string]bool{}, nil)
	role.ExpiresAt = &expired
	repo := &gateRoleRepoStub{byUser: map[uint]models.AdminRole{5: role}}
	app, _ := newGateApp(t, repo, 5, permission.ViewUsers)

	resp, err := app.Test(httptest.NewRequest("GET", "/guarded", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestPermissionGateEnforcesIPAllowlist(t *testing.T) {
	repo := &gateRoleRepoStub{byUser: map[uint]models.AdminRole{
		5: grant(5, models.RoleAdmin, map[string]bool{}, []string{"10.9.9.9"}),
	}}
	app, _ := newGateApp(t, repo, 5, permission.ViewUsers)

	resp, err := app.Test(httptest.NewRequest("GET", "/guarded", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestPermissionGateServesSnapshotFromCache(t *testing.T) {
	repo := &gateRoleRepoStub{byUser: map[uint]models.AdminRole{
		5: grant(5, models.RoleAdmin, map[string]bool{}, nil),
	}}
	app, _ := newGateApp(t, repo, 5, permission.ViewUsers)

	for i := 0; i < 3; i++ {
		resp, err := app.Test(httptest.NewRequest("GET", "/guarded", nil))
		require.NoError(t, err)
		require.Equal(t, fiber.StatusOK, resp.StatusCode)
	}
	require.Equal(t, 1, repo.loads, "snapshot is reloaded only on a cache miss")
}
