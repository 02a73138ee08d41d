package permissions

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/inkwellhq/inkwell/pkg/metrics"
)

// Audit outcome statuses.
const (
	StatusSuccess = "success"
	StatusDenied  = "denied"
	StatusError   = "error"
)

// OwnerResolver resolves a resource instance to its owning user ID.
type OwnerResolver interface {
	ResolveOwner(ctx context.Context, resourceType string, resourceID uint) (uint, error)
}

// AuditEvent describes one authorization outcome for the audit sink.
type AuditEvent struct {
	UserID     uint
	Action     string
	Resource   string
	ResourceID string
	Status     string
	DurationMs int64
}

// AuditObserver receives authorization outcomes. Implementations must be
// best-effort: the engine never waits on or fails because of the observer.
type AuditObserver interface {
	Observe(ctx context.Context, event AuditEvent)
}

// Target identifies the operation being authorized, for auditing and for the
// ownership lookup.
type Target struct {
	Action     string
	Resource   string
	ResourceID uint
}

// Decision is the engine's verdict. MissingPermissions lists declared
// permissions the identity lacked; it never discloses the ownership branch.
type Decision struct {
	Allowed            bool
	MissingPermissions []string

	// Err carries an internal lookup failure. The decision has already
	// failed closed; Err exists for logging, not for retry.
	Err error
}

// Engine evaluates an identity's flattened permission set against a declared
// requirement. The grant paths are alternatives evaluated in order, each
// short-circuiting on success:
//
//  1. sentinel bypass
//  2. public
//  3. all-of permissions
//  4. any-of permissions
//  5. ownership, overridden by the resource type's manage-all permission
//
// Anything else is a deny. Lookup failures also deny; security decisions are
// never silently retried.
type Engine struct {
	owners OwnerResolver
	audit  AuditObserver
	now    func() time.Time
}

// EngineOption customises the engine.
type EngineOption func(*Engine)

// WithAuditObserver attaches an audit sink to the engine.
func WithAuditObserver(observer AuditObserver) EngineOption {
	return func(e *Engine) {
		e.audit = observer
	}
}

// WithClock overrides the engine clock, primarily for tests.
func WithClock(now func() time.Time) EngineOption {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// NewEngine constructs a decision engine. The resolver may be nil when no
// operation declares an ownership path.
func NewEngine(owners OwnerResolver, opts ...EngineOption) *Engine {
	e := &Engine{
		owners: owners,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Authorize renders the allow/deny decision for one operation.
func (e *Engine) Authorize(ctx context.Context, id Identity, req Requirement, target Target) Decision {
	ctx = ensureContext(ctx)
	start := e.now()

	decision := e.decide(ctx, id, req, target)

	e.observe(ctx, id, req, target, decision, e.now().Sub(start))
	return decision
}

func (e *Engine) decide(ctx context.Context, id Identity, req Requirement, target Target) Decision {
	if id.IsSuperAdmin() {
		return Decision{Allowed: true}
	}

	if req.IsPublic() {
		return Decision{Allowed: true}
	}

	if all := req.All(); len(all) > 0 {
		holdsAll := true
		for _, perm := range all {
			if !id.Has(perm) {
				holdsAll = false
				break
			}
		}
		if holdsAll {
			return Decision{Allowed: true}
		}
	}

	if anyOf := req.Any(); len(anyOf) > 0 && id.HasAny(anyOf...) {
		return Decision{Allowed: true}
	}

	if resourceType := req.Ownership(); resourceType != "" {
		if manageAll, ok := ManageAllPermission(resourceType); ok && id.Has(manageAll) {
			return Decision{Allowed: true}
		}

		if e.owners != nil && target.ResourceID != 0 {
			owner, err := e.owners.ResolveOwner(ctx, resourceType, target.ResourceID)
			switch {
			case err == nil && owner == id.UserID:
				return Decision{Allowed: true}
			case err != nil && !errors.Is(err, ErrUnknownResourceType) && !errors.Is(err, ErrResourceNotFound):
				// Store failure: fail closed, surface for logging only.
				return Decision{MissingPermissions: req.MissingFrom(id), Err: err}
			}
		}
	}

	return Decision{MissingPermissions: req.MissingFrom(id)}
}

func (e *Engine) observe(ctx context.Context, id Identity, req Requirement, target Target, decision Decision, elapsed time.Duration) {
	status := StatusDenied
	switch {
	case decision.Allowed:
		status = StatusSuccess
	case decision.Err != nil:
		status = StatusError
	}

	metrics.AuthzDecisions.WithLabelValues(req.Label(), status).Inc()

	if e.audit == nil {
		return
	}

	resourceID := ""
	if target.ResourceID != 0 {
		resourceID = strconv.FormatUint(uint64(target.ResourceID), 10)
	}

	e.audit.Observe(ctx, AuditEvent{
		UserID:     id.UserID,
		Action:     target.Action,
		Resource:   target.Resource,
		ResourceID: resourceID,
		Status:     status,
		DurationMs: elapsed.Milliseconds(),
	})
}

