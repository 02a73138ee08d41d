package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/inkwellhq/inkwell/internal/models"
	"github.com/inkwellhq/inkwell/internal/permissions"
)

func createUserWithRole(t *testing.T, db *gorm.DB, username, roleName string) models.User {
	t.Helper()

	user := models.User{Username: username, Email: username + "@example.com", Password: "x", IsActive: true}
	if roleName != "" {
		var role models.Role
		require.NoError(t, db.Where("name = ?", roleName).First(&role).Error)
		user.RoleID = &role.ID
	}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func TestIdentityForFlattensRolePermissions(t *testing.T) {
	svc, db := newPermissionService(t)
	user := createUserWithRole(t, db, "viewer", "Viewer")

	identity, err := svc.IdentityFor(context.Background(), user.ID)
	require.NoError(t, err)
	require.Equal(t, user.ID, identity.UserID)
	require.Equal(t, "Viewer", identity.RoleName)
	require.Contains(t, identity.Permissions, "blogs:read")
	require.NotContains(t, identity.Permissions, "blogs:create")
	require.False(t, identity.IsSuperAdmin())
}

func TestIdentityForUserWithoutRoleHasZeroPermissions(t *testing.T) {
	svc, db := newPermissionService(t)
	user := createUserWithRole(t, db, "roleless", "")

	identity, err := svc.IdentityFor(context.Background(), user.ID)
	require.NoError(t, err)
	require.Empty(t, identity.Permissions)
	require.Empty(t, identity.RoleName)
}

func TestIdentityForUnknownAndInactiveUsers(t *testing.T) {
	svc, db := newPermissionService(t)

	_, err := svc.IdentityFor(context.Background(), 999999)
	require.ErrorIs(t, err, ErrUserNotFound)

	user := createUserWithRole(t, db, "ghost", "Viewer")
	require.NoError(t, db.Model(&models.User{}).Where("id = ?", user.ID).Update("is_active", false).Error)

	_, err = svc.IdentityFor(context.Background(), user.ID)
	require.ErrorIs(t, err, ErrUserInactive)
}

func TestSoftDeletedPermissionStillGrants(t *testing.T) {
	svc, db := newPermissionService(t)
	user := createUserWithRole(t, db, "viewer", "Viewer")

	// Soft-delete a permission the Viewer role references. Deletion hides
	// it from management views but does not revoke the grant.
	require.NoError(t, db.Where("name = ?", "blogs:read").Delete(&models.Permission{}).Error)

	identity, err := svc.IdentityFor(context.Background(), user.ID)
	require.NoError(t, err)
	require.Contains(t, identity.Permissions, "blogs:read")

	has, err := svc.HasPermission(context.Background(), user.ID, "blogs:read")
	require.NoError(t, err)
	require.True(t, has)
}

func TestHasPermissionSentinelShortCircuits(t *testing.T) {
	svc, db := newPermissionService(t)
	admin := createUserWithRole(t, db, "root", "Super Admin")

	// Any permission name, even one that does not exist.
	has, err := svc.HasPermission(context.Background(), admin.ID, "nonexistent:perm")
	require.NoError(t, err)
	require.True(t, has)

	hasAny, err := svc.HasAnyPermission(context.Background(), admin.ID, "a:b", "c:d")
	require.NoError(t, err)
	require.True(t, hasAny)
}

func TestHasAnyPermission(t *testing.T) {
	svc, db := newPermissionService(t)
	user := createUserWithRole(t, db, "viewer", "Viewer")

	hasAny, err := svc.HasAnyPermission(context.Background(), user.ID, "blogs:delete", "blogs:read")
	require.NoError(t, err)
	require.True(t, hasAny)

	hasAny, err = svc.HasAnyPermission(context.Background(), user.ID, "blogs:delete", "blogs:create")
	require.NoError(t, err)
	require.False(t, hasAny)
}

func TestGetUserPermissionNamesAreSorted(t *testing.T) {
	svc, db := newPermissionService(t)
	user := createUserWithRole(t, db, "editor", "Editor")

	names, err := svc.GetUserPermissionNames(context.Background(), user.ID)
	require.NoError(t, err)
	require.NotEmpty(t, names)
	require.IsIncreasing(t, names)
	require.NotContains(t, names, permissions.FullAccess)
}
