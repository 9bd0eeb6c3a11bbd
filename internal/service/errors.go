package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/hothanhtai16998/PhotoCloud-sub000/internal/permission"
)

var (
	// ErrUserNotFound indicates the user does not exist.
	ErrUserNotFound = errors.New("user not found")
	// ErrImageNotFound indicates the image does not exist.
	ErrImageNotFound = errors.New("image not found")
	// ErrRoleNotFound indicates the role grant does not exist.
	ErrRoleNotFound = errors.New("admin role not found")
	// ErrRoleExists indicates the user already holds a role grant.
	ErrRoleExists = errors.New("user already has an admin role")
	// ErrSystemRoleImmutable indicates an attempt to modify or delete a
	// system-created role; no caller may do this, including super_admin.
	ErrSystemRoleImmutable = errors.New("system-created roles cannot be modified or deleted")
	// ErrInvalidTransition indicates a moderation transition from a
	// non-pending state.
	ErrInvalidTransition = errors.New("image is not pending moderation")
)

// PermissionValidationError carries the structured violations produced by
// the permission rules engine. Handlers map it to a 400 with the
// individual errors listed.
type PermissionValidationError struct {
	Result permission.Result
}

func (e *PermissionValidationError) Error() string {
	return fmt.Sprintf("invalid permissions for role: %s", strings.Join(e.Result.Errors, "; "))
}
