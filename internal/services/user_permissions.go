package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sort"

	"gorm.io/gorm"

	"github.com/inkwellhq/inkwell/internal/models"
	"github.com/inkwellhq/inkwell/internal/permissions"
	apperrors "github.com/inkwellhq/inkwell/pkg/errors"
)

// ErrUserNotFound indicates the requested user does not exist.
var (
	ErrUserNotFound = apperrors.New("USER_NOT_FOUND", "User not found", http.StatusNotFound)
	ErrUserInactive = apperrors.New("USER_INACTIVE", "User account is deactivated", http.StatusForbidden)
)

// IdentityFor resolves a user to their verified authorization identity: the
// flattened permission set reachable through their single role. The set is
// re-read on every call so role or permission changes apply on the next
// request with no invalidation step.
func (s *PermissionService) IdentityFor(ctx context.Context, userID uint) (permissions.Identity, error) {
	ctx = ensureContext(ctx)

	var user models.User
	err := s.db.WithContext(ctx).
		// Soft-deleted permissions referenced by a role continue to grant;
		// see the service doc comment.
		Preload("Role.Permissions", func(db *gorm.DB) *gorm.DB {
			return db.Unscoped()
		}).
		First(&user, userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return permissions.Identity{}, ErrUserNotFound
		}
		return permissions.Identity{}, fmt.Errorf("permission service: load user: %w", err)
	}

	if !user.IsActive {
		return permissions.Identity{}, ErrUserInactive
	}

	identity := permissions.Identity{UserID: user.ID}
	if user.Role == nil {
		return identity, nil
	}

	identity.RoleName = user.Role.Name
	names := make([]string, 0, len(user.Role.Permissions))
	for _, perm := range user.Role.Permissions {
		names = append(names, perm.Name)
	}
	sort.Strings(names)
	identity.Permissions = names

	return identity, nil
}

// GetUserPermissionNames flattens a user's role into its permission names.
// A user without a role holds zero permissions.
func (s *PermissionService) GetUserPermissionNames(ctx context.Context, userID uint) ([]string, error) {
	identity, err := s.IdentityFor(ctx, userID)
	if err != nil {
		return nil, err
	}
	return identity.Permissions, nil
}

// HasPermission reports whether the user holds the permission. The sentinel
// short-circuits to true.
func (s *PermissionService) HasPermission(ctx context.Context, userID uint, permission string) (bool, error) {
	identity, err := s.IdentityFor(ctx, userID)
	if err != nil {
		return false, err
	}
	if identity.IsSuperAdmin() {
		return true, nil
	}
	return identity.Has(permission), nil
}

// HasAnyPermission reports whether the user holds at least one of the
// permissions. The sentinel short-circuits to true.
func (s *PermissionService) HasAnyPermission(ctx context.Context, userID uint, perms ...string) (bool, error) {
	identity, err := s.IdentityFor(ctx, userID)
	if err != nil {
		return false, err
	}
	if identity.IsSuperAdmin() {
		return true, nil
	}
	return identity.HasAny(perms...), nil
}
