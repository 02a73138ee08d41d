package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/inkwellhq/inkwell/internal/database/testutil"
	"github.com/inkwellhq/inkwell/internal/models"
	"github.com/inkwellhq/inkwell/internal/permissions"
	apperrors "github.com/inkwellhq/inkwell/pkg/errors"
)

func newPermissionService(t *testing.T) (*PermissionService, *gorm.DB) {
	t.Helper()
	db := testutil.MustOpenTestDB(t, testutil.WithSeedData())
	svc, err := NewPermissionService(db, nil)
	require.NoError(t, err)
	return svc, db
}

func TestCreatePermissionValidatesNameFormat(t *testing.T) {
	svc, _ := newPermissionService(t)

	for _, name := range []string{"", "nocolomn", ":action", "resource:"} {
		_, err := svc.Create(context.Background(), CreatePermissionInput{Name: name})
		require.Error(t, err, "name %q must be rejected", name)

		var appErr *apperrors.AppError
		require.ErrorAs(t, err, &appErr)
		require.Equal(t, 400, appErr.StatusCode)
	}

	perm, err := svc.Create(context.Background(), CreatePermissionInput{
		Name:        "widgets:read",
		Description: "View widgets",
		Meta:        map[string]any{"icon": "eye"},
	})
	require.NoError(t, err)
	require.Equal(t, "widgets:read", perm.Name)
	require.NotZero(t, perm.ID)
}

func TestCreatePermissionRejectsDuplicateIncludingSoftDeleted(t *testing.T) {
	svc, db := newPermissionService(t)

	perm, err := svc.Create(context.Background(), CreatePermissionInput{Name: "widgets:read"})
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), CreatePermissionInput{Name: "widgets:read"})
	require.ErrorIs(t, err, ErrPermissionNameTaken)

	// Soft-deleted rows still hold the name.
	require.NoError(t, db.Delete(&models.Permission{}, perm.ID).Error)
	_, err = svc.Create(context.Background(), CreatePermissionInput{Name: "widgets:read"})
	require.ErrorIs(t, err, ErrPermissionNameTaken)
}

func TestCreatePermissionRejectsSentinelName(t *testing.T) {
	svc, _ := newPermissionService(t)

	_, err := svc.Create(context.Background(), CreatePermissionInput{Name: permissions.FullAccess})
	require.ErrorIs(t, err, ErrSentinelImmutable)
}

func TestListNeverIncludesSentinel(t *testing.T) {
	svc, _ := newPermissionService(t)

	perms, total, err := svc.List(context.Background(), ListPermissionsOptions{Limit: 200})
	require.NoError(t, err)
	require.NotZero(t, total)
	for _, perm := range perms {
		require.NotEqual(t, permissions.FullAccess, perm.Name)
	}
}

func TestListSearchAndPagination(t *testing.T) {
	svc, _ := newPermissionService(t)

	perms, total, err := svc.List(context.Background(), ListPermissionsOptions{
		Search: "BLOGS",
		Limit:  3,
		Page:   1,
		SortBy: "name",
	})
	require.NoError(t, err)
	require.Len(t, perms, 3)
	require.Greater(t, total, int64(3))
	for _, perm := range perms {
		require.Contains(t, perm.Name, "blogs")
	}

	// Second page holds the remainder.
	rest, _, err := svc.List(context.Background(), ListPermissionsOptions{
		Search: "BLOGS",
		Limit:  3,
		Page:   2,
		SortBy: "name",
	})
	require.NoError(t, err)
	require.Len(t, rest, int(total)-3)
}

func TestListSortFallsBackOnUnknownColumn(t *testing.T) {
	svc, _ := newPermissionService(t)

	// A hostile sort expression must not reach the query.
	_, _, err := svc.List(context.Background(), ListPermissionsOptions{
		SortBy: "name; DROP TABLE permissions",
	})
	require.NoError(t, err)
}

func TestListDeletedStates(t *testing.T) {
	svc, _ := newPermissionService(t)

	perm, err := svc.Create(context.Background(), CreatePermissionInput{Name: "widgets:read"})
	require.NoError(t, err)
	require.NoError(t, svc.SoftDelete(context.Background(), perm.ID))

	onlyDeleted, _, err := svc.List(context.Background(), ListPermissionsOptions{Deleted: DeletedStateOnly})
	require.NoError(t, err)
	require.Len(t, onlyDeleted, 1)
	require.Equal(t, "widgets:read", onlyDeleted[0].Name)

	active, activeTotal, err := svc.List(context.Background(), ListPermissionsOptions{Limit: 200})
	require.NoError(t, err)
	for _, p := range active {
		require.NotEqual(t, "widgets:read", p.Name)
	}

	_, allTotal, err := svc.List(context.Background(), ListPermissionsOptions{Deleted: DeletedStateAll, Limit: 200})
	require.NoError(t, err)
	require.Equal(t, activeTotal+1, allTotal)
}

func TestOptionsGroupsByResourceAndExcludesSentinel(t *testing.T) {
	svc, _ := newPermissionService(t)

	groups, err := svc.Options(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, groups)

	names := map[string]bool{}
	for _, group := range groups {
		require.NotEmpty(t, group.Group)
		// Title-cased resource part.
		require.Equal(t, permissions.DisplayGroup(
			firstLower(group.Group)), group.Group)
		for _, opt := range group.Permissions {
			require.NotEqual(t, permissions.FullAccess, opt.Name)
			names[opt.Name] = true
		}
	}
	require.True(t, names["blogs:read"])
	require.True(t, names["permissions:sync"])
}

func firstLower(s string) string {
	if s == "" {
		return s
	}
	return string(s[0]|0x20) + s[1:]
}

func TestUpdatePermissionChecksUniquenessOnlyOnNameChange(t *testing.T) {
	svc, _ := newPermissionService(t)

	perm, err := svc.Create(context.Background(), CreatePermissionInput{Name: "widgets:read"})
	require.NoError(t, err)

	// Same name plus new description: no conflict.
	desc := "updated"
	updated, err := svc.Update(context.Background(), perm.ID, UpdatePermissionInput{
		Name:        &perm.Name,
		Description: &desc,
	})
	require.NoError(t, err)
	require.Equal(t, "updated", updated.Description)

	// Renaming onto an existing catalog name conflicts.
	taken := "blogs:read"
	_, err = svc.Update(context.Background(), perm.ID, UpdatePermissionInput{Name: &taken})
	require.ErrorIs(t, err, ErrPermissionNameTaken)
}

func TestRestoreFailsWhenNotDeleted(t *testing.T) {
	svc, _ := newPermissionService(t)

	perm, err := svc.Create(context.Background(), CreatePermissionInput{Name: "widgets:read"})
	require.NoError(t, err)

	_, err = svc.Restore(context.Background(), perm.ID)
	require.Error(t, err)

	require.NoError(t, svc.SoftDelete(context.Background(), perm.ID))

	restored, err := svc.Restore(context.Background(), perm.ID)
	require.NoError(t, err)
	require.False(t, restored.DeletedAt.Valid)

	// Restored rows reappear in active listings.
	_, err = svc.Get(context.Background(), perm.ID)
	require.NoError(t, err)
}

func TestPermanentDeleteBlockedWhileReferenced(t *testing.T) {
	svc, db := newPermissionService(t)

	perm, err := svc.Create(context.Background(), CreatePermissionInput{Name: "widgets:read"})
	require.NoError(t, err)

	role := models.Role{Name: "Widget Crew"}
	require.NoError(t, db.Create(&role).Error)
	require.NoError(t, db.Model(&role).Association("Permissions").Append(&models.Permission{BaseModel: models.BaseModel{ID: perm.ID}}))

	err = svc.PermanentDelete(context.Background(), perm.ID)
	require.Error(t, err)
	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, 409, appErr.StatusCode)
	require.EqualValues(t, 1, appErr.Details["blocking_roles"])

	// After the reference is removed the purge succeeds.
	require.NoError(t, db.Model(&role).Association("Permissions").Clear())
	require.NoError(t, svc.PermanentDelete(context.Background(), perm.ID))

	var count int64
	require.NoError(t, db.Unscoped().Model(&models.Permission{}).Where("id = ?", perm.ID).Count(&count).Error)
	require.Zero(t, count)
}

func TestSentinelCannotBeMutated(t *testing.T) {
	svc, db := newPermissionService(t)

	var sentinel models.Permission
	require.NoError(t, db.Where("name = ?", permissions.FullAccess).First(&sentinel).Error)

	desc := "renamed"
	_, err := svc.Update(context.Background(), sentinel.ID, UpdatePermissionInput{Description: &desc})
	require.ErrorIs(t, err, ErrSentinelImmutable)

	require.ErrorIs(t, svc.SoftDelete(context.Background(), sentinel.ID), ErrSentinelImmutable)
	require.ErrorIs(t, svc.PermanentDelete(context.Background(), sentinel.ID), ErrSentinelImmutable)
}

func TestServiceSyncIsIdempotent(t *testing.T) {
	svc, _ := newPermissionService(t)

	// Seeding already ran one sync; this second run must create nothing.
	result, err := svc.Sync(context.Background())
	require.NoError(t, err)
	require.Zero(t, result.Created)
	require.Empty(t, result.Errors)
}
