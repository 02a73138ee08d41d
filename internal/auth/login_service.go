package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/inkwellhq/inkwell/internal/models"
	"github.com/inkwellhq/inkwell/pkg/crypto"
	apperrors "github.com/inkwellhq/inkwell/pkg/errors"
	"github.com/inkwellhq/inkwell/pkg/metrics"
)

// LoginService verifies local credentials and issues access tokens.
type LoginService struct {
	db  *gorm.DB
	jwt *JWTService
}

// NewLoginService constructs a LoginService.
func NewLoginService(db *gorm.DB, jwt *JWTService) (*LoginService, error) {
	if db == nil {
		return nil, errors.New("login service: db is required")
	}
	if jwt == nil {
		return nil, errors.New("login service: jwt service is required")
	}
	return &LoginService{db: db, jwt: jwt}, nil
}

// LoginResult carries the issued token and the authenticated user.
type LoginResult struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// Login authenticates a username/password pair. Unknown users and wrong
// passwords return the same error so callers cannot enumerate accounts.
func (s *LoginService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, apperrors.ErrInvalidCredentials
	}

	var user models.User
	err := s.db.WithContext(ctx).Where("username = ?", username).First(&user).Error
	if err != nil {
		metrics.AuthAttempts.WithLabelValues("failure").Inc()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("login service: load user: %w", err)
	}

	if !user.IsActive || !crypto.VerifyPassword(user.Password, password) {
		metrics.AuthAttempts.WithLabelValues("failure").Inc()
		return nil, apperrors.ErrInvalidCredentials
	}

	token, err := s.jwt.GenerateAccessToken(user.ID)
	if err != nil {
		return nil, fmt.Errorf("login service: issue token: %w", err)
	}

	now := time.Now()
	user.LastLoginAt = &now
	// A failed timestamp update does not invalidate the login.
	_ = s.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", user.ID).
		Update("last_login_at", now).Error

	metrics.AuthAttempts.WithLabelValues("success").Inc()
	return &LoginResult{Token: token, User: &user}, nil
}
