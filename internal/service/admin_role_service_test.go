package service

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/hothanhtai16998/PhotoCloud-sub000/internal/dto"
	"github.com/hothanhtai16998/PhotoCloud-sub000/internal/models"
	"github.com/hothanhtai16998/PhotoCloud-sub000/internal/permission"
	"github.com/hothanhtai16998/PhotoCloud-sub000/internal/repository"
)

func testLogger() zerolog.Logger {
	return zerolog.New(io.Discard)
}

type roleRepoStub struct {
	byID     map[uint]models.AdminRole
	byUser   map[uint]models.AdminRole
	nextID   uint
	deleted  []uint
	saveErr  error
	lastSave *models.AdminRole
}

func newRoleRepoStub() *roleRepoStub {
	return &roleRepoStub{byID: map[uint]models.AdminRole{}, byUser: map[uint]models.AdminRole{}, nextID: 1}
}

func (r *roleRepoStub) put(role models.AdminRole) models.AdminRole {
	if role.ID == 0 {
		role.ID = r.nextID
		r.nextID++
	}
	r.byID[role.ID] = role
	r.byUser[role.UserID] = role
	return role
}

func (r *roleRepoStub) List(_ context.Context, _ repository.AdminRoleFilter) ([]models.AdminRole, int64, error) {
	roles := make([]models.AdminRole, 0, len(r.byID))
	for _, role := range r.byID {
		roles = append(roles, role)
	}
	return roles, int64(len(roles)), nil
}

func (r *roleRepoStub) GetByID(_ context.Context, id uint) (models.AdminRole, error) {
	role, ok := r.byID[id]
	if !ok {
		return models.AdminRole{}, gorm.ErrRecordNotFound
	}
	return role, nil
}

func (r *roleRepoStub) GetByUserID(_ context.Context, userID uint) (models.AdminRole, error) {
	role, ok := r.byUser[userID]
	if !ok {
		return models.AdminRole{}, gorm.ErrRecordNotFound
	}
	return role, nil
}

func (r *roleRepoStub) Create(_ context.Context, role *models.AdminRole) error {
	if r.saveErr != nil {
		return r.saveErr
	}
	*role = r.put(*role)
	r.lastSave = role
	return nil
}

func (r *roleRepoStub) Update(_ context.Context, role *models.AdminRole) error {
	if r.saveErr != nil {
		return r.saveErr
	}
	r.put(*role)
	r.lastSave = role
	return nil
}

func (r *roleRepoStub) Delete(_ context.Context, id uint) error {
	role, ok := r.byID[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.byID, id)
	delete(r.byUser, role.UserID)
	r.deleted = append(r.deleted, id)
	return nil
}

type userRepoStub struct {
	users map[uint]models.User
}

func (u *userRepoStub) List(_ context.Context, _ repository.UserFilter) ([]models.User, int64, error) {
	result := make([]models.User, 0, len(u.users))
	for _, user := range u.users {
		result = append(result, user)
	}
	return result, int64(len(result)), nil
}

func (u *userRepoStub) GetByID(_ context.Context, id uint) (models.User, error) {
	user, ok := u.users[id]
	if !ok {
		return models.User{}, gorm.ErrRecordNotFound
	}
	return user, nil
}

func (u *userRepoStub) Update(_ context.Context, id uint, updates map[string]interface{}) (models.User, error) {
	user, ok := u.users[id]
	if !ok {
		return models.User{}, gorm.ErrRecordNotFound
	}
	if name, ok := updates["name"].(string); ok {
		user.Name = name
	}
	if email, ok := updates["email"].(string); ok {
		user.Email = email
	}
	if banned, ok := updates["banned"].(bool); ok {
		user.Banned = banned
	}
	if reason, ok := updates["ban_reason"].(string); ok {
		user.BanReason = reason
	}
	if at, ok := updates["banned_at"].(*time.Time); ok {
		user.BannedAt = at
	}
	u.users[id] = user
	return user, nil
}

func (u *userRepoStub) SetBan(ctx context.Context, id uint, banned bool, reason string, at *time.Time) (models.User, error) {
	return u.Update(ctx, id, map[string]interface{}{"banned": banned, "ban_reason": reason, "banned_at": at})
}

func (u *userRepoStub) Delete(_ context.Context, id uint) error {
	if _, ok := u.users[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(u.users, id)
	return nil
}

func (u *userRepoStub) IncrementUploadCount(_ context.Context, id uint) error {
	user := u.users[id]
	user.UploadCount++
	u.users[id] = user
	return nil
}

type auditStub struct {
	entries []LogEntry
	err     error
}

func (a *auditStub) Record(_ context.Context, entry LogEntry) error {
	a.entries = append(a.entries, entry)
	return a.err
}

func setupPermCache(t *testing.T) (*permission.Cache, *miniredis.Miniredis) {
	t.Helper()
	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return permission.NewCache(client, time.Minute, testLogger()), server
}

func newRoleService(t *testing.T, roles *roleRepoStub, users *userRepoStub, audit *auditStub) (AdminRoleService, *miniredis.Miniredis) {
	t.Helper()
	cache, server := setupPermCache(t)
	validate := validator.New(validator.WithRequiredStructEnabled())
	return NewAdminRoleService(roles, users, cache, audit, validate, testLogger()), server
}

func TestAdminRoleCreateAppliesInheritance(t *testing.T) {
	roles := newRoleRepoStub()
	users := &userRepoStub{users: map[uint]models.User{3: {ID: 3, Name: "Mai"}}}
	audit := &auditStub{}
	svc, _ := newRoleService(t, roles, users, audit)

	resp, err := svc.Create(context.Background(), dto.AdminRoleCreateRequest{
		UserID:      3,
		Role:        models.RoleAdmin,
		Permissions: map[string]bool{permission.ViewUsers: false, permission.DeleteImages: true},
	}, Actor{ID: 1, Role: models.RoleSuperAdmin})
	require.NoError(t, err)

	require.True(t, resp.Permissions[permission.ViewUsers], "inherited moderator permission must be forced true")
	require.True(t, resp.Permissions[permission.DeleteImages])
	require.NotNil(t, resp.GrantedBy)
	require.Equal(t, uint(1), *resp.GrantedBy)
	require.False(t, resp.SystemGranted)
	require.Len(t, audit.entries, 1)
	require.Equal(t, "role_created", audit.entries[0].Action)
}

func TestAdminRoleCreateRejectsOutOfPolicyPermissions(t *testing.T) {
	roles := newRoleRepoStub()
	users := &userRepoStub{users: map[uint]models.User{3: {ID: 3}}}
	svc, _ := newRoleService(t, roles, users, &auditStub{})

	_, err := svc.Create(context.Background(), dto.AdminRoleCreateRequest{
		UserID:      3,
		Role:        models.RoleModerator,
		Permissions: map[string]bool{permission.DeleteUsers: true},
	}, Actor{ID: 1})

	var validationErr *PermissionValidationError
	require.ErrorAs(t, err, &validationErr)
	require.False(t, validationErr.Result.Valid)
	require.Len(t, validationErr.Result.Errors, 1)
	require.Nil(t, roles.lastSave, "invalid payload must not be persisted")
}

func TestAdminRoleCreateRejectsAdminManagementForAdmin(t *testing.T) {
	roles := newRoleRepoStub()
	users := &userRepoStub{users: map[uint]models.User{3: {ID: 3}}}
	svc, _ := newRoleService(t, roles, users, &auditStub{})

	_, err := svc.Create(context.Background(), dto.AdminRoleCreateRequest{
		UserID:      3,
		Role:        models.RoleAdmin,
		Permissions: map[string]bool{permission.CreateAdmins: true},
	}, Actor{ID: 1})

	var validationErr *PermissionValidationError
	require.ErrorAs(t, err, &validationErr)
}

func TestAdminRoleCreateDuplicateGrant(t *testing.T) {
	roles := newRoleRepoStub()
	granter := uint(1)
	roles.put(models.AdminRole{UserID: 3, Role: models.RoleModerator, GrantedBy: &granter})
	users := &userRepoStub{users: map[uint]models.User{3: {ID: 3}}}
	svc, _ := newRoleService(t, roles, users, &auditStub{})

	_, err := svc.Create(context.Background(), dto.AdminRoleCreateRequest{
		UserID: 3,
		Role:   models.RoleAdmin,
	}, Actor{ID: 1})
	require.ErrorIs(t, err, ErrRoleExists)
}

func TestAdminRoleSystemGrantedImmutable(t *testing.T) {
	roles := newRoleRepoStub()
	system := roles.put(models.AdminRole{UserID: 9, Role: models.RoleSuperAdmin, Active: true})
	users := &userRepoStub{users: map[uint]models.User{9: {ID: 9}}}
	svc, _ := newRoleService(t, roles, users, &auditStub{})

	active := false
	_, err := svc.Update(context.Background(), system.ID, dto.AdminRoleUpdateRequest{Active: &active}, Actor{ID: 9, Role: models.RoleSuperAdmin})
	require.ErrorIs(t, err, ErrSystemRoleImmutable)

	err = svc.Delete(context.Background(), system.ID, Actor{ID: 9, Role: models.RoleSuperAdmin})
	require.ErrorIs(t, err, ErrSystemRoleImmutable)
	require.Empty(t, roles.deleted)
}

func TestAdminRoleMutationInvalidatesCache(t *testing.T) {
	roles := newRoleRepoStub()
	granter := uint(1)
	existing := roles.put(models.AdminRole{
		UserID:      5,
		Role:        models.RoleModerator,
		GrantedBy:   &granter,
		Active:      true,
		AllowedIPs:  dto.JSONFromStrings([]string{"10.1.2.3"}),
		Permissions: dto.JSONMapFromBool(map[string]bool{permission.ViewUsers: true}),
	})
	users := &userRepoStub{users: map[uint]models.User{5: {ID: 5}}}
	svc, server := newRoleService(t, roles, users, &auditStub{})

	require.NoError(t, server.Set("perm:user:5", "{}"))
	require.NoError(t, server.Set("perm:ip:10.1.2.3", "{}"))

	err := svc.Delete(context.Background(), existing.ID, Actor{ID: 1, Role: models.RoleSuperAdmin})
	require.NoError(t, err)
	require.False(t, server.Exists("perm:user:5"), "role mutation must invalidate the user's permission cache")
	require.False(t, server.Exists("perm:ip:10.1.2.3"), "role mutation must invalidate IP-keyed snapshots")
}

func TestAdminRoleUpdateRevalidatesPermissions(t *testing.T) {
	roles := newRoleRepoStub()
	granter := uint(1)
	existing := roles.put(models.AdminRole{
		UserID:      5,
		Role:        models.RoleAdmin,
		GrantedBy:   &granter,
		Active:      true,
		Permissions: dto.JSONMapFromBool(permission.ApplyInheritance(models.RoleAdmin, nil)),
	})
	users := &userRepoStub{users: map[uint]models.User{5: {ID: 5}}}
	svc, _ := newRoleService(t, roles, users, &auditStub{})

	// Downgrading to moderator while keeping admin-level permissions must fail.
	moderator := models.RoleModerator
	_, err := svc.Update(context.Background(), existing.ID, dto.AdminRoleUpdateRequest{Role: &moderator}, Actor{ID: 1})
	var validationErr *PermissionValidationError
	require.ErrorAs(t, err, &validationErr)

	_, err = svc.Update(context.Background(), existing.ID, dto.AdminRoleUpdateRequest{
		Role:        &moderator,
		Permissions: map[string]bool{permission.ModerateImages: true},
	}, Actor{ID: 1})
	require.NoError(t, err)
}

func TestAdminRoleGetNotFound(t *testing.T) {
	svc, _ := newRoleService(t, newRoleRepoStub(), &userRepoStub{users: map[uint]models.User{}}, &auditStub{})

	_, err := svc.Get(context.Background(), 404)
	require.ErrorIs(t, err, ErrRoleNotFound)
}

func TestAdminRoleAuditFailureDoesNotFailMutation(t *testing.T) {
	roles := newRoleRepoStub()
	users := &userRepoStub{users: map[uint]models.User{3: {ID: 3}}}
	audit := &auditStub{err: errors.New("audit store down")}
	svc, _ := newRoleService(t, roles, users, audit)

	_, err := svc.Create(context.Background(), dto.AdminRoleCreateRequest{
		UserID: 3,
		Role:   models.RoleModerator,
	}, Actor{ID: 1})
	require.NoError(t, err, "audit writes are best-effort")
}
