// Package permission implements the admin role hierarchy and its
// per-permission inheritance rules. The hierarchy is
// moderator < admin < super_admin: each tier's whitelist is a superset of
// the one below, higher tiers forcibly inherit the permissions of lower
// tiers, and admin-management permissions are reserved for super_admin
// regardless of any whitelist.
package permission

import (
	"fmt"
	"sort"

	"github.com/hothanhtai16998/PhotoCloud-sub000/internal/models"
)

// Permission flags carried in AdminRole.Permissions. Keys are camelCase to
// stay wire-compatible with the admin console.
const (
	ViewUsers      = "viewUsers"
	EditUsers      = "editUsers"
	BanUsers       = "banUsers"
	DeleteUsers    = "deleteUsers"
	ViewImages     = "viewImages"
	ModerateImages = "moderateImages"
	DeleteImages   = "deleteImages"
	ViewAnalytics  = "viewAnalytics"
	ViewLogs       = "viewLogs"
	ManageSettings = "manageSettings"
	CreateAdmins   = "createAdmins"
	EditAdmins     = "editAdmins"
	DeleteAdmins   = "deleteAdmins"
)

var moderatorPermissions = []string{
	ViewUsers,
	ViewImages,
	ModerateImages,
	ViewAnalytics,
	ViewLogs,
}

var adminPermissions = append(append([]string(nil), moderatorPermissions...),
	EditUsers,
	BanUsers,
	DeleteUsers,
	DeleteImages,
	ManageSettings,
)

// adminManagement permissions are a hard carve-out: only super_admin may
// hold them, even though no lower whitelist contains them either.
var adminManagement = []string{CreateAdmins, EditAdmins, DeleteAdmins}

// All returns every known permission flag.
func All() []string {
	return append(append([]string(nil), adminPermissions...), adminManagement...)
}

// ValidRole reports whether the role name is one of the known tiers.
func ValidRole(role string) bool {
	switch role {
	case models.RoleModerator, models.RoleAdmin, models.RoleSuperAdmin:
		return true
	}
	return false
}

// AllowedPermissions returns the permission whitelist for a role.
// super_admin implicitly holds everything.
func AllowedPermissions(role string) []string {
	switch role {
	case models.RoleModerator:
		return append([]string(nil), moderatorPermissions...)
	case models.RoleAdmin:
		return append([]string(nil), adminPermissions...)
	case models.RoleSuperAdmin:
		return All()
	}
	return nil
}

// IsAllowedForRole reports whether a role may hold the given permission.
func IsAllowedForRole(role, perm string) bool {
	if role == models.RoleSuperAdmin {
		return true
	}
	for _, allowed := range AllowedPermissions(role) {
		if allowed == perm {
			return true
		}
	}
	return false
}

// Result carries the outcome of a permission-set validation. Violations are
// reported as structured errors, never as an error value; the HTTP layer
// maps an invalid Result to a 400.
type Result struct {
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors,omitempty"`
}

// ValidateForRole checks a candidate permission map against a role. Every
// permission explicitly set true must be in the role's whitelist, and the
// admin-management flags are rejected for any non-super_admin role.
func ValidateForRole(role string, perms map[string]bool) Result {
	if role == models.RoleSuperAdmin {
		return Result{Valid: true}
	}

	var errs []string
	for _, perm := range sortedKeys(perms) {
		if !perms[perm] {
			continue
		}
		if isAdminManagement(perm) {
			errs = append(errs, fmt.Sprintf("permission %q requires super_admin", perm))
			continue
		}
		if !IsAllowedForRole(role, perm) {
			errs = append(errs, fmt.Sprintf("permission %q is not allowed for role %q", perm, role))
		}
	}

	return Result{Valid: len(errs) == 0, Errors: errs}
}

// Inherited returns the permissions a role forcibly inherits from the tiers
// below it: admin inherits all moderator permissions and super_admin
// inherits all admin (hence all moderator) permissions.
func Inherited(role string) []string {
	switch role {
	case models.RoleAdmin:
		return append([]string(nil), moderatorPermissions...)
	case models.RoleSuperAdmin:
		return append([]string(nil), adminPermissions...)
	}
	return nil
}

// ApplyInheritance merges the role's inherited permissions into a candidate
// map. Inherited keys are forced true even when the caller passed false.
// The merge is one-directional and idempotent; the input map is not
// modified.
func ApplyInheritance(role string, perms map[string]bool) map[string]bool {
	merged := make(map[string]bool, len(perms))
	for key, value := range perms {
		merged[key] = value
	}
	for _, perm := range Inherited(role) {
		merged[perm] = true
	}
	return merged
}

func isAdminManagement(perm string) bool {
	for _, p := range adminManagement {
		if p == perm {
			return true
		}
	}
	return false
}

func sortedKeys(perms map[string]bool) []string {
	keys := make([]string, 0, len(perms))
	for key := range perms {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
