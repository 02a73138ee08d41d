package permissions

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/inkwellhq/inkwell/pkg/metrics"
)

var (
	// ErrUnknownResourceType indicates the resource type has no ownership
	// semantics. Callers must treat this as a deny, never as "no owner, allow".
	ErrUnknownResourceType = errors.New("ownership: unknown resource type")
	// ErrResourceNotFound indicates the resource ID does not exist. Folded
	// into a deny by the engine so callers cannot probe resource existence.
	ErrResourceNotFound = errors.New("ownership: resource not found")
)

// resourceEntry binds a resource type to its owner lookup and the permission
// that overrides ownership for that type. Keeping the engine and resolver on
// a single registry keeps both call sites consistent by construction.
type resourceEntry struct {
	table            string
	ownerColumn      string
	manageAll        string
	ownershipActions map[string]struct{}
}

var resourceRegistry = map[string]resourceEntry{
	ResourceBlogs: {
		table:            "blogs",
		ownerColumn:      "author_id",
		manageAll:        "blogs:manage_all",
		ownershipActions: actionSet("update", "delete", "restore"),
	},
	ResourceMedia: {
		table:            "media",
		ownerColumn:      "uploaded_by_id",
		manageAll:        "media:manage_all",
		ownershipActions: actionSet("update", "delete"),
	},
	ResourceRecruitments: {
		table:            "recruitments",
		ownerColumn:      "author_id",
		manageAll:        "recruitments:manage_all",
		ownershipActions: actionSet("update", "delete", "restore"),
	},
	ResourceComments: {
		table:            "comments",
		ownerColumn:      "author_id",
		manageAll:        "comments:manage_all",
		ownershipActions: actionSet("update", "delete"),
	},
}

func actionSet(actions ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(actions))
	for _, action := range actions {
		set[action] = struct{}{}
	}
	return set
}

// ManageAllPermission returns the resource-type-wide override permission.
func ManageAllPermission(resourceType string) (string, bool) {
	entry, ok := resourceRegistry[resourceType]
	if !ok {
		return "", false
	}
	return entry.manageAll, true
}

// IsOwnershipAction reports whether the action is subject to ownership
// checking for the resource type. Actions outside the table are either pure
// permission-gated or public and never consult the resolver.
func IsOwnershipAction(resourceType, action string) bool {
	entry, ok := resourceRegistry[resourceType]
	if !ok {
		return false
	}
	_, eligible := entry.ownershipActions[action]
	return eligible
}

// OwnershipService resolves resource owners through narrow single-field
// lookups against the entity tables.
type OwnershipService struct {
	db *gorm.DB
}

// NewOwnershipService constructs an OwnershipService backed by the database.
func NewOwnershipService(db *gorm.DB) (*OwnershipService, error) {
	if db == nil {
		return nil, errors.New("ownership service: db is required")
	}
	return &OwnershipService{db: db}, nil
}

// ResolveOwner returns the owning user ID for the resource instance.
func (s *OwnershipService) ResolveOwner(ctx context.Context, resourceType string, resourceID uint) (uint, error) {
	ctx = ensureContext(ctx)

	entry, ok := resourceRegistry[resourceType]
	if !ok {
		metrics.OwnershipLookups.WithLabelValues(resourceType, "unknown_type").Inc()
		return 0, fmt.Errorf("%w: %s", ErrUnknownResourceType, resourceType)
	}

	var owners []uint
	if err := s.db.WithContext(ctx).
		Table(entry.table).
		Where("id = ?", resourceID).
		Where("deleted_at IS NULL").
		Limit(1).
		Pluck(entry.ownerColumn, &owners).Error; err != nil {
		metrics.OwnershipLookups.WithLabelValues(resourceType, "error").Inc()
		return 0, fmt.Errorf("ownership service: resolve %s/%d: %w", resourceType, resourceID, err)
	}

	if len(owners) == 0 {
		metrics.OwnershipLookups.WithLabelValues(resourceType, "not_found").Inc()
		return 0, fmt.Errorf("%w: %s/%d", ErrResourceNotFound, resourceType, resourceID)
	}

	metrics.OwnershipLookups.WithLabelValues(resourceType, "resolved").Inc()
	return owners[0], nil
}

// ResolveBulk reports, for each resource ID and in input order, whether the
// identity owns the resource. A manage-all permission (or the sentinel)
// short-circuits the whole batch to all-true without per-item lookups.
// Missing IDs resolve to false; each item passes or fails independently.
func (s *OwnershipService) ResolveBulk(ctx context.Context, id Identity, resourceType, action string, resourceIDs []uint) ([]bool, error) {
	ctx = ensureContext(ctx)

	if len(resourceIDs) == 0 {
		return nil, errors.New("ownership service: resource ids are required")
	}

	entry, ok := resourceRegistry[resourceType]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownResourceType, resourceType)
	}

	if id.IsSuperAdmin() || id.Has(entry.manageAll) {
		owned := make([]bool, len(resourceIDs))
		for i := range owned {
			owned[i] = true
		}
		return owned, nil
	}

	// All items are independent reads; the batch decision is only rendered
	// once every lookup has completed.
	type ownerRow struct {
		ID    uint
		Owner uint
	}
	var rows []ownerRow
	if err := s.db.WithContext(ctx).
		Table(entry.table).
		Select(fmt.Sprintf("id, %s AS owner", entry.ownerColumn)).
		Where("id IN ?", resourceIDs).
		Where("deleted_at IS NULL").
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("ownership service: bulk resolve %s: %w", resourceType, err)
	}

	ownersByID := make(map[uint]uint, len(rows))
	for _, row := range rows {
		ownersByID[row.ID] = row.Owner
	}

	owned := make([]bool, len(resourceIDs))
	for i, resourceID := range resourceIDs {
		owner, found := ownersByID[resourceID]
		owned[i] = found && owner == id.UserID
	}
	return owned, nil
}

// Scope restricts list queries to the resources an identity may see.
type Scope struct {
	// All grants an unrestricted view.
	All bool
	// None yields no rows; the fail-closed default for types without
	// ownership semantics.
	None bool

	ownerColumn string
	ownerID     uint
}

// Apply narrows the query according to the scope.
func (s Scope) Apply(query *gorm.DB) *gorm.DB {
	switch {
	case s.All:
		return query
	case s.None:
		return query.Where("1 = 0")
	default:
		return query.Where(fmt.Sprintf("%s = ?", s.ownerColumn), s.ownerID)
	}
}

// ScopeFilter produces the visibility scope for a user and resource type:
// everything for super-admins and manage-all holders, owned rows otherwise,
// and nothing for resource types with no ownership semantics.
func ScopeFilter(id Identity, resourceType string) Scope {
	entry, ok := resourceRegistry[resourceType]
	if !ok {
		return Scope{None: true}
	}

	if id.IsSuperAdmin() || id.Has(entry.manageAll) {
		return Scope{All: true}
	}

	return Scope{ownerColumn: entry.ownerColumn, ownerID: id.UserID}
}

func ensureContext(ctx context.Context) context.Context {
	if ctx != nil {
		return ctx
	}
	return context.Background()
}
