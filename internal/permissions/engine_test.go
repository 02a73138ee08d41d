package permissions

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

type stubResolver struct {
	owners map[uint]uint
	err    error
	calls  int
}

func (s *stubResolver) ResolveOwner(_ context.Context, resourceType string, resourceID uint) (uint, error) {
	s.calls++
	if s.err != nil {
		return 0, s.err
	}
	if _, ok := resourceRegistry[resourceType]; !ok {
		return 0, ErrUnknownResourceType
	}
	owner, ok := s.owners[resourceID]
	if !ok {
		return 0, ErrResourceNotFound
	}
	return owner, nil
}

type recordingObserver struct {
	mu     sync.Mutex
	events []AuditEvent
}

func (r *recordingObserver) Observe(_ context.Context, event AuditEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

func (r *recordingObserver) last(t *testing.T) AuditEvent {
	t.Helper()
	r.mu.Lock()
	defer r.mu.Unlock()
	require.NotEmpty(t, r.events)
	return r.events[len(r.events)-1]
}

func TestSuperAdminBypassesEveryRequirement(t *testing.T) {
	resolver := &stubResolver{}
	engine := NewEngine(resolver)
	admin := Identity{UserID: 1, Permissions: []string{FullAccess}}

	for _, req := range []Requirement{
		RequireAll("blogs:update", "blogs:delete"),
		RequireAny("nonexistent:perm"),
		RequireOwnership(ResourceBlogs),
		RequireOwnership("no-such-type"),
	} {
		decision := engine.Authorize(context.Background(), admin, req, Target{Action: "update", Resource: "blogs", ResourceID: 42})
		require.True(t, decision.Allowed, "sentinel must satisfy %s", req.Label())
		require.Empty(t, decision.MissingPermissions)
	}
	require.Zero(t, resolver.calls, "sentinel decisions never consult the resolver")
}

func TestPublicRequirementAllowsAnyIdentity(t *testing.T) {
	engine := NewEngine(nil)
	decision := engine.Authorize(context.Background(), Identity{UserID: 5}, Public(), Target{Action: "read", Resource: "blogs"})
	require.True(t, decision.Allowed)
}

func TestAllOfRequiresEveryPermission(t *testing.T) {
	engine := NewEngine(nil)
	req := RequireAll("blogs:update", "blogs:delete")

	holder := Identity{UserID: 2, Permissions: []string{"blogs:update", "blogs:delete"}}
	require.True(t, engine.Authorize(context.Background(), holder, req, Target{}).Allowed)

	partial := Identity{UserID: 3, Permissions: []string{"blogs:update"}}
	decision := engine.Authorize(context.Background(), partial, req, Target{})
	require.False(t, decision.Allowed)
	require.Equal(t, []string{"blogs:delete"}, decision.MissingPermissions)
}

func TestAnyOfRequiresOnePermission(t *testing.T) {
	engine := NewEngine(nil)
	req := RequireAny("blogs:update", "blogs:manage_all")

	holder := Identity{UserID: 2, Permissions: []string{"blogs:manage_all"}}
	require.True(t, engine.Authorize(context.Background(), holder, req, Target{}).Allowed)

	stranger := Identity{UserID: 3, Permissions: []string{"tags:read"}}
	decision := engine.Authorize(context.Background(), stranger, req, Target{})
	require.False(t, decision.Allowed)
	require.ElementsMatch(t, []string{"blogs:update", "blogs:manage_all"}, decision.MissingPermissions)
}

func TestOwnershipIsAnAlternativeNotAConjunct(t *testing.T) {
	resolver := &stubResolver{owners: map[uint]uint{10: 7}}
	engine := NewEngine(resolver)
	req := RequireAll("blogs:update").OrOwnership(ResourceBlogs)
	target := Target{Action: "update", Resource: "blogs", ResourceID: 10}

	// Permission without ownership suffices.
	editor := Identity{UserID: 99, Permissions: []string{"blogs:update"}}
	require.True(t, engine.Authorize(context.Background(), editor, req, target).Allowed)

	// Ownership without the permission also suffices.
	owner := Identity{UserID: 7, Permissions: []string{"blogs:read"}}
	require.True(t, engine.Authorize(context.Background(), owner, req, target).Allowed)

	// Neither path: deny, naming only the declared permissions.
	stranger := Identity{UserID: 3, Permissions: []string{"blogs:read"}}
	decision := engine.Authorize(context.Background(), stranger, req, target)
	require.False(t, decision.Allowed)
	require.Equal(t, []string{"blogs:update"}, decision.MissingPermissions)
}

func TestManageAllOverridesOwnership(t *testing.T) {
	resolver := &stubResolver{owners: map[uint]uint{10: 7}}
	engine := NewEngine(resolver)
	req := RequireOwnership(ResourceBlogs)

	manager := Identity{UserID: 50, Permissions: []string{"blogs:manage_all"}}
	decision := engine.Authorize(context.Background(), manager, req, Target{Action: "delete", Resource: "blogs", ResourceID: 10})
	require.True(t, decision.Allowed)
	require.Zero(t, resolver.calls, "manage-all holders skip the owner lookup")
}

func TestUnknownResourceTypeFailsClosed(t *testing.T) {
	resolver := &stubResolver{}
	engine := NewEngine(resolver)

	decision := engine.Authorize(context.Background(),
		Identity{UserID: 7},
		RequireOwnership("gadgets"),
		Target{Action: "update", Resource: "gadgets", ResourceID: 3})
	require.False(t, decision.Allowed)
	require.NoError(t, decision.Err, "unknown types are a plain deny, not an internal error")
}

func TestMissingResourceIsAPlainDeny(t *testing.T) {
	resolver := &stubResolver{owners: map[uint]uint{}}
	engine := NewEngine(resolver)

	decision := engine.Authorize(context.Background(),
		Identity{UserID: 7},
		RequireOwnership(ResourceBlogs),
		Target{Action: "update", Resource: "blogs", ResourceID: 404})
	require.False(t, decision.Allowed)
	require.NoError(t, decision.Err)
	require.Empty(t, decision.MissingPermissions, "existence of the resource is not disclosed")
}

func TestResolverFailureFailsClosedWithError(t *testing.T) {
	boom := errors.New("connection reset")
	resolver := &stubResolver{err: boom}
	engine := NewEngine(resolver)

	decision := engine.Authorize(context.Background(),
		Identity{UserID: 7},
		RequireOwnership(ResourceBlogs),
		Target{Action: "update", Resource: "blogs", ResourceID: 10})
	require.False(t, decision.Allowed)
	require.ErrorIs(t, decision.Err, boom)
}

func TestEveryOutcomeReachesTheAuditObserver(t *testing.T) {
	observer := &recordingObserver{}
	resolver := &stubResolver{err: errors.New("db down")}
	engine := NewEngine(resolver, WithAuditObserver(observer))

	// Allowed.
	engine.Authorize(context.Background(),
		Identity{UserID: 1, Permissions: []string{FullAccess}},
		RequireAll("blogs:update"),
		Target{Action: "update", Resource: "blogs", ResourceID: 9})
	event := observer.last(t)
	require.Equal(t, StatusSuccess, event.Status)
	require.Equal(t, uint(1), event.UserID)
	require.Equal(t, "update", event.Action)
	require.Equal(t, "blogs", event.Resource)
	require.Equal(t, "9", event.ResourceID)

	// Denied.
	engine.Authorize(context.Background(),
		Identity{UserID: 2},
		RequireAll("blogs:update"),
		Target{Action: "update", Resource: "blogs"})
	event = observer.last(t)
	require.Equal(t, StatusDenied, event.Status)
	require.Empty(t, event.ResourceID)

	// Lookup error.
	engine.Authorize(context.Background(),
		Identity{UserID: 3},
		RequireOwnership(ResourceBlogs),
		Target{Action: "update", Resource: "blogs", ResourceID: 5})
	event = observer.last(t)
	require.Equal(t, StatusError, event.Status)

	require.Len(t, observer.events, 3)
}
