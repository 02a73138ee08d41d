package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/inkwellhq/inkwell/internal/models"
	"github.com/inkwellhq/inkwell/internal/permissions"
	apperrors "github.com/inkwellhq/inkwell/pkg/errors"
)

var (
	// ErrPermissionNotFound indicates the requested permission does not exist.
	ErrPermissionNotFound = apperrors.New("PERMISSION_NOT_FOUND", "Permission not found", http.StatusNotFound)
	// ErrPermissionNameTaken indicates another permission already uses the name.
	ErrPermissionNameTaken = apperrors.New("PERMISSION_NAME_TAKEN", "Permission name already exists", http.StatusConflict)
	// ErrSentinelImmutable blocks the bypass permission from normal grant and
	// management flows.
	ErrSentinelImmutable = apperrors.New("PERMISSION_SENTINEL_IMMUTABLE", "The full-access permission cannot be managed through this endpoint", http.StatusBadRequest)
)

// DeletedState selects which soft-delete partition list queries cover.
type DeletedState int

const (
	// DeletedStateActive lists only live rows. The default.
	DeletedStateActive DeletedState = iota
	// DeletedStateOnly lists only soft-deleted rows.
	DeletedStateOnly
	// DeletedStateAll lists both partitions.
	DeletedStateAll
)

// permissionSortFields is the allow-list of sortable columns. Anything else
// silently falls back to created_at so callers cannot inject sort expressions.
var permissionSortFields = map[string]string{
	"name":       "name",
	"createdAt":  "created_at",
	"updatedAt":  "updated_at",
	"created_at": "created_at",
	"updated_at": "updated_at",
}

// ListPermissionsOptions controls filtering, sorting, and pagination.
type ListPermissionsOptions struct {
	Page    int
	Limit   int
	Search  string
	SortBy  string
	SortDesc bool
	Deleted DeletedState
}

// CreatePermissionInput describes the payload accepted by CreatePermission.
type CreatePermissionInput struct {
	Name        string
	Description string
	Meta        map[string]any
}

// UpdatePermissionInput enumerates mutable permission attributes.
type UpdatePermissionInput struct {
	Name        *string
	Description *string
	Meta        map[string]any
}

// PermissionOption is one selectable permission in the grouped options view.
type PermissionOption struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// PermissionOptionGroup names a display group of selectable permissions.
type PermissionOptionGroup struct {
	Group       string             `json:"group"`
	Permissions []PermissionOption `json:"permissions"`
}

// PermissionService manages the permission store: catalog rows, soft-delete
// lifecycle, role assignment, and per-user permission lookups.
//
// Soft-deleting a permission hides it from management listings but does NOT
// revoke it from roles that still reference it; the flattened per-user set
// keeps granting it until the reference is removed. Soft delete is a
// management-surface concern, not a revocation mechanism.
type PermissionService struct {
	db           *gorm.DB
	auditService *AuditService
}

// NewPermissionService constructs a PermissionService using the provided database handle.
func NewPermissionService(db *gorm.DB, audit *AuditService) (*PermissionService, error) {
	if db == nil {
		return nil, errors.New("permission service: db is required")
	}
	return &PermissionService{
		db:           db,
		auditService: audit,
	}, nil
}

// Sync upserts the static catalog into the store.
func (s *PermissionService) Sync(ctx context.Context) (*permissions.SyncResult, error) {
	ctx = ensureContext(ctx)

	result, err := permissions.Sync(ctx, s.db)
	if err != nil {
		return nil, err
	}

	recordAudit(s.auditService, ctx, AuditEntry{
		Action:   "permissions.sync",
		Resource: "permissions",
		Status:   "success",
		Metadata: map[string]any{
			"created": result.Created,
			"updated": result.Updated,
			"errors":  len(result.Errors),
		},
	})

	return result, nil
}

// List returns permissions matching the options, never including the
// sentinel, along with the total row count for pagination.
func (s *PermissionService) List(ctx context.Context, opts ListPermissionsOptions) ([]models.Permission, int64, error) {
	ctx = ensureContext(ctx)

	page := opts.Page
	if page <= 0 {
		page = 1
	}
	limit := opts.Limit
	if limit <= 0 || limit > 200 {
		limit = 20
	}

	query := s.db.WithContext(ctx).Model(&models.Permission{})

	switch opts.Deleted {
	case DeletedStateOnly:
		query = query.Unscoped().Where("deleted_at IS NOT NULL")
	case DeletedStateAll:
		query = query.Unscoped()
	}

	// The sentinel is excluded from every listing, whatever the filters say.
	query = query.Where("name <> ?", permissions.FullAccess)

	if search := strings.TrimSpace(opts.Search); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("permission service: count permissions: %w", err)
	}

	column, ok := permissionSortFields[opts.SortBy]
	if !ok {
		column = "created_at"
	}
	direction := "ASC"
	if opts.SortDesc {
		direction = "DESC"
	}

	var perms []models.Permission
	if err := query.
		Order(column + " " + direction).
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&perms).Error; err != nil {
		return nil, 0, fmt.Errorf("permission service: list permissions: %w", err)
	}

	return perms, total, nil
}

// Options returns the active permissions grouped for selection UIs. The group
// name is the title-cased resource part of the permission name.
func (s *PermissionService) Options(ctx context.Context) ([]PermissionOptionGroup, error) {
	ctx = ensureContext(ctx)

	var perms []models.Permission
	if err := s.db.WithContext(ctx).
		Where("name <> ?", permissions.FullAccess).
		Order("name ASC").
		Find(&perms).Error; err != nil {
		return nil, fmt.Errorf("permission service: load options: %w", err)
	}

	groupIndex := make(map[string]int)
	var groups []PermissionOptionGroup

	for _, perm := range perms {
		resource, _, ok := permissions.SplitName(perm.Name)
		if !ok {
			continue
		}
		display := permissions.DisplayGroup(resource)

		idx, exists := groupIndex[display]
		if !exists {
			idx = len(groups)
			groupIndex[display] = idx
			groups = append(groups, PermissionOptionGroup{Group: display})
		}
		groups[idx].Permissions = append(groups[idx].Permissions, PermissionOption{
			ID:          perm.ID,
			Name:        perm.Name,
			Description: perm.Description,
		})
	}

	return groups, nil
}

// Get loads a single permission by ID.
func (s *PermissionService) Get(ctx context.Context, permissionID uint) (*models.Permission, error) {
	ctx = ensureContext(ctx)

	var perm models.Permission
	if err := s.db.WithContext(ctx).First(&perm, permissionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPermissionNotFound
		}
		return nil, fmt.Errorf("permission service: load permission: %w", err)
	}
	return &perm, nil
}

// Create registers a new permission after validating the name format and
// uniqueness. Soft-deleted rows still occupy their name.
func (s *PermissionService) Create(ctx context.Context, input CreatePermissionInput) (*models.Permission, error) {
	ctx = ensureContext(ctx)

	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, apperrors.NewBadRequest("permission name is required")
	}
	if !permissions.ValidName(name) {
		return nil, apperrors.NewBadRequest("permission name must use the resource:action format")
	}
	if name == permissions.FullAccess {
		return nil, ErrSentinelImmutable
	}

	taken, err := s.nameTaken(ctx, name, 0)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrPermissionNameTaken
	}

	perm := &models.Permission{
		Name:        name,
		Description: strings.TrimSpace(input.Description),
	}
	if input.Meta != nil {
		meta, err := json.Marshal(input.Meta)
		if err != nil {
			return nil, fmt.Errorf("permission service: marshal meta: %w", err)
		}
		perm.Meta = datatypes.JSON(meta)
	}

	if err := s.db.WithContext(ctx).Create(perm).Error; err != nil {
		if isUniqueConstraintError(err) {
			return nil, ErrPermissionNameTaken
		}
		return nil, fmt.Errorf("permission service: create permission: %w", err)
	}

	recordAudit(s.auditService, ctx, AuditEntry{
		Action:   "permissions.create",
		Resource: "permissions",
		Status:   "success",
		Metadata: map[string]any{"name": perm.Name},
	})

	return perm, nil
}

// Update modifies permission metadata. Uniqueness is re-checked only when the
// name changes.
func (s *PermissionService) Update(ctx context.Context, permissionID uint, input UpdatePermissionInput) (*models.Permission, error) {
	ctx = ensureContext(ctx)

	perm, err := s.Get(ctx, permissionID)
	if err != nil {
		return nil, err
	}
	if perm.Name == permissions.FullAccess {
		return nil, ErrSentinelImmutable
	}

	updates := map[string]any{}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if !permissions.ValidName(name) {
			return nil, apperrors.NewBadRequest("permission name must use the resource:action format")
		}
		if name == permissions.FullAccess {
			return nil, ErrSentinelImmutable
		}
		if name != perm.Name {
			taken, err := s.nameTaken(ctx, name, perm.ID)
			if err != nil {
				return nil, err
			}
			if taken {
				return nil, ErrPermissionNameTaken
			}
			updates["name"] = name
		}
	}

	if input.Description != nil {
		updates["description"] = strings.TrimSpace(*input.Description)
	}

	if input.Meta != nil {
		meta, err := json.Marshal(input.Meta)
		if err != nil {
			return nil, fmt.Errorf("permission service: marshal meta: %w", err)
		}
		updates["meta"] = datatypes.JSON(meta)
	}

	if len(updates) == 0 {
		return perm, nil
	}

	if err := s.db.WithContext(ctx).Model(perm).Updates(updates).Error; err != nil {
		if isUniqueConstraintError(err) {
			return nil, ErrPermissionNameTaken
		}
		return nil, fmt.Errorf("permission service: update permission: %w", err)
	}

	recordAudit(s.auditService, ctx, AuditEntry{
		Action:     "permissions.update",
		Resource:   "permissions",
		ResourceID: fmt.Sprint(perm.ID),
		Status:     "success",
		Metadata:   map[string]any{"updates": updates},
	})

	return s.Get(ctx, permissionID)
}

// SoftDelete marks the permission deleted. Roles referencing it keep granting
// it until the reference is removed; see the service doc comment.
func (s *PermissionService) SoftDelete(ctx context.Context, permissionID uint) error {
	ctx = ensureContext(ctx)

	perm, err := s.Get(ctx, permissionID)
	if err != nil {
		return err
	}
	if perm.Name == permissions.FullAccess {
		return ErrSentinelImmutable
	}

	if err := s.db.WithContext(ctx).Delete(perm).Error; err != nil {
		return fmt.Errorf("permission service: soft delete permission: %w", err)
	}

	recordAudit(s.auditService, ctx, AuditEntry{
		Action:     "permissions.delete",
		Resource:   "permissions",
		ResourceID: fmt.Sprint(perm.ID),
		Status:     "success",
		Metadata:   map[string]any{"name": perm.Name},
	})

	return nil
}

// Restore clears the deleted timestamp. It fails when the row is not
// currently soft-deleted.
func (s *PermissionService) Restore(ctx context.Context, permissionID uint) (*models.Permission, error) {
	ctx = ensureContext(ctx)

	var perm models.Permission
	if err := s.db.WithContext(ctx).Unscoped().First(&perm, permissionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPermissionNotFound
		}
		return nil, fmt.Errorf("permission service: load permission: %w", err)
	}

	if !perm.DeletedAt.Valid {
		return nil, apperrors.NewBadRequest("permission is not deleted")
	}

	if err := s.db.WithContext(ctx).Unscoped().
		Model(&perm).
		Update("deleted_at", nil).Error; err != nil {
		return nil, fmt.Errorf("permission service: restore permission: %w", err)
	}

	recordAudit(s.auditService, ctx, AuditEntry{
		Action:     "permissions.restore",
		Resource:   "permissions",
		ResourceID: fmt.Sprint(perm.ID),
		Status:     "success",
		Metadata:   map[string]any{"name": perm.Name},
	})

	return s.Get(ctx, permissionID)
}

// PermanentDelete removes the row entirely. The delete is rejected while any
// role still references the permission, reporting how many do.
func (s *PermissionService) PermanentDelete(ctx context.Context, permissionID uint) error {
	ctx = ensureContext(ctx)

	var perm models.Permission
	if err := s.db.WithContext(ctx).Unscoped().First(&perm, permissionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrPermissionNotFound
		}
		return fmt.Errorf("permission service: load permission: %w", err)
	}
	if perm.Name == permissions.FullAccess {
		return ErrSentinelImmutable
	}

	var blocking int64
	if err := s.db.WithContext(ctx).
		Table("role_permissions").
		Where("permission_id = ?", perm.ID).
		Count(&blocking).Error; err != nil {
		return fmt.Errorf("permission service: count role references: %w", err)
	}
	if blocking > 0 {
		return apperrors.NewConflict(
			fmt.Sprintf("permission is still assigned to %d role(s)", blocking),
		).WithDetails(map[string]any{"blocking_roles": blocking})
	}

	if err := s.db.WithContext(ctx).Unscoped().Delete(&perm).Error; err != nil {
		return fmt.Errorf("permission service: permanently delete permission: %w", err)
	}

	recordAudit(s.auditService, ctx, AuditEntry{
		Action:     "permissions.purge",
		Resource:   "permissions",
		ResourceID: fmt.Sprint(perm.ID),
		Status:     "success",
		Metadata:   map[string]any{"name": perm.Name},
	})

	return nil
}

func (s *PermissionService) nameTaken(ctx context.Context, name string, excludeID uint) (bool, error) {
	// Name uniqueness covers soft-deleted rows too; they still hold the
	// unique index slot.
	query := s.db.WithContext(ctx).Unscoped().Model(&models.Permission{}).Where("name = ?", name)
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, fmt.Errorf("permission service: check name: %w", err)
	}
	return count > 0, nil
}
