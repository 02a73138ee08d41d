package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"gorm.io/gorm"

	"github.com/inkwellhq/inkwell/internal/models"
	"github.com/inkwellhq/inkwell/internal/permissions"
	apperrors "github.com/inkwellhq/inkwell/pkg/errors"
)

var (
	// ErrRoleNotFound indicates the requested role does not exist.
	ErrRoleNotFound = apperrors.New("ROLE_NOT_FOUND", "Role not found", http.StatusNotFound)
	// ErrRoleNameTaken indicates another role already uses the name.
	ErrRoleNameTaken = apperrors.New("ROLE_NAME_TAKEN", "Role name already exists", http.StatusConflict)
)

// CreateRoleInput describes the payload accepted by CreateRole.
type CreateRoleInput struct {
	Name        string
	Description string
}

// UpdateRoleInput describes mutable fields on a role.
type UpdateRoleInput struct {
	Name        *string
	Description *string
}

// RoleView pairs a role with its permissions and assigned user count.
type RoleView struct {
	Role        models.Role         `json:"role"`
	Permissions []models.Permission `json:"permissions"`
	UserCount   int64               `json:"user_count"`
}

// RoleService provides role management and permission assignment.
type RoleService struct {
	db           *gorm.DB
	auditService *AuditService
}

// NewRoleService constructs a RoleService using the provided database handle.
func NewRoleService(db *gorm.DB, audit *AuditService) (*RoleService, error) {
	if db == nil {
		return nil, errors.New("role service: db is required")
	}
	return &RoleService{
		db:           db,
		auditService: audit,
	}, nil
}

// Create registers a new role.
func (s *RoleService) Create(ctx context.Context, input CreateRoleInput) (*models.Role, error) {
	ctx = ensureContext(ctx)

	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, apperrors.NewBadRequest("role name is required")
	}

	role := &models.Role{
		Name:        name,
		Description: strings.TrimSpace(input.Description),
	}

	if err := s.db.WithContext(ctx).Create(role).Error; err != nil {
		if isUniqueConstraintError(err) {
			return nil, ErrRoleNameTaken
		}
		return nil, fmt.Errorf("role service: create role: %w", err)
	}

	recordAudit(s.auditService, ctx, AuditEntry{
		Action:     "roles.create",
		Resource:   "roles",
		ResourceID: fmt.Sprint(role.ID),
		Status:     "success",
		Metadata:   map[string]any{"name": role.Name},
	})

	return role, nil
}

// Update modifies existing role metadata.
func (s *RoleService) Update(ctx context.Context, roleID uint, input UpdateRoleInput) (*models.Role, error) {
	ctx = ensureContext(ctx)

	role, err := s.load(ctx, roleID)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if input.Name != nil {
		if name := strings.TrimSpace(*input.Name); name != "" && name != role.Name {
			updates["name"] = name
		}
	}
	if input.Description != nil {
		updates["description"] = strings.TrimSpace(*input.Description)
	}

	if len(updates) == 0 {
		return role, nil
	}

	if err := s.db.WithContext(ctx).Model(role).Updates(updates).Error; err != nil {
		if isUniqueConstraintError(err) {
			return nil, ErrRoleNameTaken
		}
		return nil, fmt.Errorf("role service: update role: %w", err)
	}

	recordAudit(s.auditService, ctx, AuditEntry{
		Action:     "roles.update",
		Resource:   "roles",
		ResourceID: fmt.Sprint(role.ID),
		Status:     "success",
		Metadata:   map[string]any{"updates": updates},
	})

	return s.load(ctx, roleID)
}

// SoftDelete marks a role deleted. Users keeping the role ID lose their
// permissions on the next lookup because the role no longer resolves.
func (s *RoleService) SoftDelete(ctx context.Context, roleID uint) error {
	ctx = ensureContext(ctx)

	role, err := s.load(ctx, roleID)
	if err != nil {
		return err
	}

	if err := s.db.WithContext(ctx).Delete(role).Error; err != nil {
		return fmt.Errorf("role service: delete role: %w", err)
	}

	recordAudit(s.auditService, ctx, AuditEntry{
		Action:     "roles.delete",
		Resource:   "roles",
		ResourceID: fmt.Sprint(role.ID),
		Status:     "success",
		Metadata:   map[string]any{"name": role.Name},
	})

	return nil
}

// List returns all roles with their permissions and user counts.
func (s *RoleService) List(ctx context.Context) ([]RoleView, error) {
	ctx = ensureContext(ctx)

	var roles []models.Role
	if err := s.db.WithContext(ctx).
		Preload("Permissions").
		Order("created_at ASC").
		Find(&roles).Error; err != nil {
		return nil, fmt.Errorf("role service: list roles: %w", err)
	}

	views := make([]RoleView, 0, len(roles))
	for _, role := range roles {
		count, err := s.userCount(ctx, role.ID)
		if err != nil {
			return nil, err
		}
		views = append(views, RoleView{
			Role:        role,
			Permissions: role.Permissions,
			UserCount:   count,
		})
	}
	return views, nil
}

// AssignPermissions replaces the role's full permission set with the given
// permission IDs. Every ID must exist and be live; the sentinel cannot be
// granted this way.
func (s *RoleService) AssignPermissions(ctx context.Context, roleID uint, permissionIDs []uint) (*RoleView, error) {
	ctx = ensureContext(ctx)

	ids := normaliseIDs(permissionIDs)

	var perms []models.Permission
	if len(ids) > 0 {
		if err := s.db.WithContext(ctx).Where("id IN ?", ids).Find(&perms).Error; err != nil {
			return nil, fmt.Errorf("role service: load permissions: %w", err)
		}
		if len(perms) != len(ids) {
			return nil, apperrors.NewBadRequest("one or more permissions do not exist or are deleted")
		}
		for _, perm := range perms {
			if perm.Name == permissions.FullAccess {
				return nil, ErrSentinelImmutable
			}
		}
	}

	role, err := s.load(ctx, roleID)
	if err != nil {
		return nil, err
	}

	if err := s.db.WithContext(ctx).Model(role).Association("Permissions").Replace(perms); err != nil {
		return nil, fmt.Errorf("role service: replace permissions: %w", err)
	}

	recordAudit(s.auditService, ctx, AuditEntry{
		Action:     "roles.assign_permissions",
		Resource:   "roles",
		ResourceID: fmt.Sprint(role.ID),
		Status:     "success",
		Metadata:   map[string]any{"permission_ids": ids},
	})

	return s.view(ctx, roleID)
}

// RemovePermissions subtracts the given permission IDs from the role's set.
func (s *RoleService) RemovePermissions(ctx context.Context, roleID uint, permissionIDs []uint) (*RoleView, error) {
	ctx = ensureContext(ctx)

	ids := normaliseIDs(permissionIDs)
	if len(ids) == 0 {
		return nil, apperrors.NewBadRequest("permission ids are required")
	}

	role, err := s.load(ctx, roleID)
	if err != nil {
		return nil, err
	}

	var perms []models.Permission
	if err := s.db.WithContext(ctx).Unscoped().Where("id IN ?", ids).Find(&perms).Error; err != nil {
		return nil, fmt.Errorf("role service: load permissions: %w", err)
	}
	if len(perms) == 0 {
		return nil, ErrPermissionNotFound
	}

	if err := s.db.WithContext(ctx).Model(role).Association("Permissions").Delete(perms); err != nil {
		return nil, fmt.Errorf("role service: remove permissions: %w", err)
	}

	recordAudit(s.auditService, ctx, AuditEntry{
		Action:     "roles.remove_permissions",
		Resource:   "roles",
		ResourceID: fmt.Sprint(role.ID),
		Status:     "success",
		Metadata:   map[string]any{"permission_ids": ids},
	})

	return s.view(ctx, roleID)
}

func (s *RoleService) load(ctx context.Context, roleID uint) (*models.Role, error) {
	var role models.Role
	if err := s.db.WithContext(ctx).First(&role, roleID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRoleNotFound
		}
		return nil, fmt.Errorf("role service: load role: %w", err)
	}
	return &role, nil
}

func (s *RoleService) view(ctx context.Context, roleID uint) (*RoleView, error) {
	var role models.Role
	if err := s.db.WithContext(ctx).Preload("Permissions").First(&role, roleID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRoleNotFound
		}
		return nil, fmt.Errorf("role service: reload role: %w", err)
	}

	count, err := s.userCount(ctx, role.ID)
	if err != nil {
		return nil, err
	}

	return &RoleView{Role: role, Permissions: role.Permissions, UserCount: count}, nil
}

func (s *RoleService) userCount(ctx context.Context, roleID uint) (int64, error) {
	var count int64
	if err := s.db.WithContext(ctx).
		Model(&models.User{}).
		Where("role_id = ?", roleID).
		Count(&count).Error; err != nil {
		return 0, fmt.Errorf("role service: count users: %w", err)
	}
	return count, nil
}
