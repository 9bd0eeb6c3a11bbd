package handler_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/hothanhtai16998/PhotoCloud-sub000/internal/dto"
	"github.com/hothanhtai16998/PhotoCloud-sub000/internal/handler"
	"github.com/hothanhtai16998/PhotoCloud-sub000/internal/middleware"
	"github.com/hothanhtai16998/PhotoCloud-sub000/internal/models"
	"github.com/hothanhtai16998/PhotoCloud-sub000/internal/permission"
	"github.com/hothanhtai16998/PhotoCloud-sub000/internal/repository"
	"github.com/hothanhtai16998/PhotoCloud-sub000/internal/service"
)

func decodeResponse(t *testing.T, resp *http.Response, target interface{}) {
	t.Helper()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(body, target))
}

// superAdminRoles satisfies the role repository with a single standing
// super admin grant, so handler tests can pass the permission gate
// without a database.
type superAdminRoles struct{}

func (superAdminRoles) List(_ context.Context, _ repository.AdminRoleFilter) ([]models.AdminRole, int64, error) {
	return nil, 0, nil
}

func (superAdminRoles) GetByID(_ context.Context, _ uint) (models.AdminRole, error) {
	return models.AdminRole{}, gorm.ErrRecordNotFound
}

func (superAdminRoles) GetByUserID(_ context.Context, userID uint) (models.AdminRole, error) {
	granter := uint(1)
	return models.AdminRole{ID: userID, UserID: userID, Role: models.RoleSuperAdmin, GrantedBy: &granter, Active: true}, nil
}

func (superAdminRoles) Create(_ context.Context, _ *models.AdminRole) error { return nil }
func (superAdminRoles) Update(_ context.Context, _ *models.AdminRole) error { return nil }
func (superAdminRoles) Delete(_ context.Context, _ uint) error              { return nil }

func testGate() *middleware.PermissionGate {
	cache := permission.NewCache(nil, 0, zerolog.Nop())
	return middleware.NewPermissionGate(cache, superAdminRoles{}, zerolog.Nop())
}

func asUser(id uint) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals("user_id", id)
		return c.Next()
	}
}

type mockAdminUserService struct {
	users     map[uint]dto.AdminUserResponse
	lastBan   dto.AdminUserBanRequest
	lastActor service.Actor
	err       error
}

func (m *mockAdminUserService) List(_ context.Context, req dto.AdminUserListRequest) (dto.AdminUserListResponse, error) {
	if m.err != nil {
		return dto.AdminUserListResponse{}, m.err
	}
	items := make([]dto.AdminUserResponse, 0, len(m.users))
	for _, user := range m.users {
		items = append(items, user)
	}
	return dto.AdminUserListResponse{
		Items:      items,
		Pagination: dto.PaginationMeta{Page: req.Page, PageSize: req.PageSize, TotalItems: int64(len(items)), TotalPages: 1},
	}, nil
}

func (m *mockAdminUserService) Get(_ context.Context, id uint) (dto.AdminUserResponse, error) {
	user, ok := m.users[id]
	if !ok {
		return dto.AdminUserResponse{}, service.ErrUserNotFound
	}
	return user, nil
}

func (m *mockAdminUserService) Update(_ context.Context, id uint, _ dto.AdminUserUpdateRequest, actor service.Actor) (dto.AdminUserResponse, error) {
	m.lastActor = actor
	return m.Get(context.Background(), id)
}

func (m *mockAdminUserService) Ban(_ context.Context, id uint, payload dto.AdminUserBanRequest, actor service.Actor) (dto.AdminUserResponse, error) {
	m.lastBan = payload
	m.lastActor = actor
	user, ok := m.users[id]
	if !ok {
		return dto.AdminUserResponse{}, service.ErrUserNotFound
	}
	user.Banned = true
	user.BanReason = payload.Reason
	return user, nil
}

func (m *mockAdminUserService) Unban(_ context.Context, id uint, actor service.Actor) (dto.AdminUserResponse, error) {
	m.lastActor = actor
	return m.Get(context.Background(), id)
}

func (m *mockAdminUserService) Delete(_ context.Context, id uint, actor service.Actor) error {
	m.lastActor = actor
	if _, ok := m.users[id]; !ok {
		return service.ErrUserNotFound
	}
	delete(m.users, id)
	return nil
}

func newUserApp(svc service.AdminUserService) *fiber.App {
	app := fiber.New()
	app.Use(asUser(1))
	handler.NewAdminUserHandler(svc, zerolog.Nop()).Register(app.Group("/api/admin/users"), testGate())
	return app
}

func TestAdminUserHandler_List(t *testing.T) {
	svc := &mockAdminUserService{users: map[uint]dto.AdminUserResponse{
		4: {ID: 4, Name: "Linh"},
	}}
	app := newUserApp(svc)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/admin/users?page=1", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body struct {
		Success bool                      `json:"success"`
		Data    dto.AdminUserListResponse `json:"data"`
	}
	decodeResponse(t, resp, &body)
	require.True(t, body.Success)
	require.Len(t, body.Data.Items, 1)
}

func TestAdminUserHandler_GetNotFound(t *testing.T) {
	app := newUserApp(&mockAdminUserService{users: map[uint]dto.AdminUserResponse{}})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/admin/users/99", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestAdminUserHandler_InvalidID(t *testing.T) {
	app := newUserApp(&mockAdminUserService{users: map[uint]dto.AdminUserResponse{}})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/admin/users/abc", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestAdminUserHandler_BanPassesReasonAndActor(t *testing.T) {
	svc := &mockAdminUserService{users: map[uint]dto.AdminUserResponse{4: {ID: 4}}}
	app := newUserApp(svc)

	req := httptest.NewRequest(http.MethodPost, "/api/admin/users/4/ban", strings.NewReader(`{"reason":"spam uploads"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.Equal(t, "spam uploads", svc.lastBan.Reason)
	require.Equal(t, uint(1), svc.lastActor.ID)
	require.Equal(t, models.RoleSuperAdmin, svc.lastActor.Role)
}

func TestAdminUserHandler_Delete(t *testing.T) {
	svc := &mockAdminUserService{users: map[uint]dto.AdminUserResponse{4: {ID: 4}}}
	app := newUserApp(svc)

	resp, err := app.Test(httptest.NewRequest(http.MethodDelete, "/api/admin/users/4", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.Empty(t, svc.users)
}

func TestAdminUserHandler_Unauthenticated(t *testing.T) {
	app := fiber.New()
	handler.NewAdminUserHandler(&mockAdminUserService{}, zerolog.Nop()).Register(app.Group("/api/admin/users"), testGate())

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/admin/users", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}
