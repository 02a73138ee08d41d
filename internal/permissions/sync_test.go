package permissions_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/inkwellhq/inkwell/internal/database/testutil"
	"github.com/inkwellhq/inkwell/internal/models"
	"github.com/inkwellhq/inkwell/internal/permissions"
)

func TestSyncCreatesEveryCatalogPermission(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())

	result, err := permissions.Sync(context.Background(), db)
	require.NoError(t, err)
	require.Empty(t, result.Errors)
	require.Equal(t, len(permissions.AllNames()), result.Created)
	require.Zero(t, result.Updated)

	var count int64
	require.NoError(t, db.Model(&models.Permission{}).Count(&count).Error)
	require.EqualValues(t, len(permissions.AllNames()), count)
}

func TestSyncIsIdempotent(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())

	first, err := permissions.Sync(context.Background(), db)
	require.NoError(t, err)
	require.Equal(t, len(permissions.AllNames()), first.Created)

	second, err := permissions.Sync(context.Background(), db)
	require.NoError(t, err)
	require.Zero(t, second.Created, "second run must create nothing")
	require.Equal(t, len(permissions.AllNames()), second.Updated)
	require.Empty(t, second.Errors)

	var count int64
	require.NoError(t, db.Model(&models.Permission{}).Count(&count).Error)
	require.EqualValues(t, len(permissions.AllNames()), count)
}

func TestSyncPreservesExistingDescriptions(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())

	_, err := permissions.Sync(context.Background(), db)
	require.NoError(t, err)

	require.NoError(t, db.Model(&models.Permission{}).
		Where("name = ?", "blogs:read").
		Update("description", "customised").Error)

	_, err = permissions.Sync(context.Background(), db)
	require.NoError(t, err)

	var perm models.Permission
	require.NoError(t, db.Where("name = ?", "blogs:read").First(&perm).Error)
	require.Equal(t, "customised", perm.Description)
}

func TestSyncMatchesSoftDeletedRowsByName(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())

	_, err := permissions.Sync(context.Background(), db)
	require.NoError(t, err)

	var perm models.Permission
	require.NoError(t, db.Where("name = ?", "blogs:read").First(&perm).Error)
	require.NoError(t, db.Delete(&perm).Error)

	// The soft-deleted row still holds the name: sync updates it in place
	// rather than violating the unique index with a second row.
	result, err := permissions.Sync(context.Background(), db)
	require.NoError(t, err)
	require.Zero(t, result.Created)
	require.Empty(t, result.Errors)

	var count int64
	require.NoError(t, db.Unscoped().Model(&models.Permission{}).
		Where("name = ?", "blogs:read").Count(&count).Error)
	require.EqualValues(t, 1, count)
}
