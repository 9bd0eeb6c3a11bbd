package permission

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hothanhtai16998/PhotoCloud-sub000/internal/models"
)

func TestAllowedPermissionsHierarchy(t *testing.T) {
	moderator := AllowedPermissions(models.RoleModerator)
	admin := AllowedPermissions(models.RoleAdmin)
	super := AllowedPermissions(models.RoleSuperAdmin)

	for _, perm := range moderator {
		require.Contains(t, admin, perm, "admin whitelist must be a superset of moderator")
	}
	for _, perm := range admin {
		require.Contains(t, super, perm)
	}

	require.NotContains(t, moderator, DeleteUsers)
	require.NotContains(t, admin, CreateAdmins)
	require.Contains(t, super, CreateAdmins)
	require.Nil(t, AllowedPermissions("intern"))
}

func TestValidateForRoleSuperAdminAlwaysValid(t *testing.T) {
	result := ValidateForRole(models.RoleSuperAdmin, map[string]bool{
		CreateAdmins:  true,
		DeleteAdmins:  true,
		DeleteUsers:   true,
		"madeUpFlag":  true,
		ViewAnalytics: false,
	})
	require.True(t, result.Valid)
	require.Empty(t, result.Errors)
}

func TestValidateForRoleModeratorRejectsDestructive(t *testing.T) {
	result := ValidateForRole(models.RoleModerator, map[string]bool{DeleteUsers: true})
	require.False(t, result.Valid)
	require.Len(t, result.Errors, 1)
}

func TestValidateForRoleAdminManagementCarveOut(t *testing.T) {
	result := ValidateForRole(models.RoleAdmin, map[string]bool{CreateAdmins: true})
	require.False(t, result.Valid)
	require.Contains(t, result.Errors[0], "super_admin")

	result = ValidateForRole(models.RoleAdmin, map[string]bool{EditAdmins: true, DeleteAdmins: true})
	require.False(t, result.Valid)
	require.Len(t, result.Errors, 2)
}

func TestValidateForRoleIgnoresExplicitFalse(t *testing.T) {
	result := ValidateForRole(models.RoleModerator, map[string]bool{
		DeleteUsers:    false,
		ModerateImages: true,
	})
	require.True(t, result.Valid)
}

func TestApplyInheritanceForcesInheritedTrue(t *testing.T) {
	perms := ApplyInheritance(models.RoleAdmin, map[string]bool{
		ViewUsers:      false,
		ModerateImages: false,
		DeleteImages:   true,
	})

	for _, perm := range Inherited(models.RoleAdmin) {
		require.True(t, perms[perm], "inherited permission %q must be forced true", perm)
	}
	require.True(t, perms[DeleteImages])
}

func TestApplyInheritanceIdempotent(t *testing.T) {
	for _, role := range []string{models.RoleModerator, models.RoleAdmin, models.RoleSuperAdmin} {
		input := map[string]bool{ViewUsers: false, DeleteImages: true, BanUsers: false}
		once := ApplyInheritance(role, input)
		twice := ApplyInheritance(role, once)
		require.Equal(t, once, twice, "inheritance must be idempotent for %s", role)
	}
}

func TestApplyInheritanceDoesNotMutateInput(t *testing.T) {
	input := map[string]bool{ViewUsers: false}
	_ = ApplyInheritance(models.RoleSuperAdmin, input)
	require.False(t, input[ViewUsers])
	require.Len(t, input, 1)
}

func TestSuperAdminInheritsAllAdminPermissions(t *testing.T) {
	perms := ApplyInheritance(models.RoleSuperAdmin, map[string]bool{})
	for _, perm := range AllowedPermissions(models.RoleAdmin) {
		require.True(t, perms[perm])
	}
}

func TestIsAllowedForRole(t *testing.T) {
	require.True(t, IsAllowedForRole(models.RoleSuperAdmin, "anythingAtAll"))
	require.True(t, IsAllowedForRole(models.RoleModerator, ModerateImages))
	require.False(t, IsAllowedForRole(models.RoleModerator, ManageSettings))
	require.False(t, IsAllowedForRole(models.RoleAdmin, EditAdmins))
}
