package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/inkwellhq/inkwell/internal/database"
	"github.com/inkwellhq/inkwell/internal/database/testutil"
	"github.com/inkwellhq/inkwell/internal/models"
	apperrors "github.com/inkwellhq/inkwell/pkg/errors"
)

func newLoginService(t *testing.T) (*LoginService, *gorm.DB) {
	t.Helper()

	db := testutil.MustOpenTestDB(t, testutil.WithSeedData())
	jwt, err := NewJWTService(JWTConfig{Secret: "test-secret"})
	require.NoError(t, err)
	svc, err := NewLoginService(db, jwt)
	require.NoError(t, err)
	return svc, db
}

func TestLoginWithSeededAdmin(t *testing.T) {
	svc, db := newLoginService(t)

	result, err := svc.Login(context.Background(), "admin", database.DefaultAdminPassword)
	require.NoError(t, err)
	require.NotEmpty(t, result.Token)
	require.Equal(t, "admin", result.User.Username)

	var user models.User
	require.NoError(t, db.Where("username = ?", "admin").First(&user).Error)
	require.NotNil(t, user.LastLoginAt)
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	svc, _ := newLoginService(t)

	_, wrongPassword := svc.Login(context.Background(), "admin", "not-the-password")
	require.ErrorIs(t, wrongPassword, apperrors.ErrInvalidCredentials)

	_, unknownUser := svc.Login(context.Background(), "nobody", "whatever")
	require.ErrorIs(t, unknownUser, apperrors.ErrInvalidCredentials)

	_, blank := svc.Login(context.Background(), "", "")
	require.ErrorIs(t, blank, apperrors.ErrInvalidCredentials)
}

func TestLoginRejectsDeactivatedAccount(t *testing.T) {
	svc, db := newLoginService(t)

	require.NoError(t, db.Model(&models.User{}).
		Where("username = ?", "admin").
		Update("is_active", false).Error)

	_, err := svc.Login(context.Background(), "admin", database.DefaultAdminPassword)
	require.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
}
