package permissions

import "strings"

// Requirement is the static authorization contract attached to an operation
// at definition time. A requirement carries up to three independent grant
// paths: an all-of permission list, an any-of permission list, and an
// ownership path scoped to a resource type. The paths are alternatives, not
// conjuncts: satisfying any one of them authorizes the operation.
type Requirement struct {
	all       []string
	anyOf     []string
	ownership string
}

// Public declares an operation with no authorization requirement.
func Public() Requirement {
	return Requirement{}
}

// RequireAll declares that every listed permission must be held.
func RequireAll(perms ...string) Requirement {
	return Requirement{all: normalise(perms)}
}

// RequireAny declares that holding any one listed permission suffices.
func RequireAny(perms ...string) Requirement {
	return Requirement{anyOf: normalise(perms)}
}

// RequireOwnership declares that owning the target resource suffices.
func RequireOwnership(resourceType string) Requirement {
	return Requirement{ownership: strings.TrimSpace(resourceType)}
}

// OrAny adds an any-of alternate path to the requirement.
func (r Requirement) OrAny(perms ...string) Requirement {
	r.anyOf = append(r.anyOf, normalise(perms)...)
	return r
}

// OrOwnership adds an ownership alternate path to the requirement.
func (r Requirement) OrOwnership(resourceType string) Requirement {
	r.ownership = strings.TrimSpace(resourceType)
	return r
}

// IsPublic reports whether the requirement declares no grant path at all.
func (r Requirement) IsPublic() bool {
	return len(r.all) == 0 && len(r.anyOf) == 0 && r.ownership == ""
}

// All returns the all-of permission path.
func (r Requirement) All() []string {
	return append([]string(nil), r.all...)
}

// Any returns the any-of permission path.
func (r Requirement) Any() []string {
	return append([]string(nil), r.anyOf...)
}

// Ownership returns the resource type of the ownership path, or "".
func (r Requirement) Ownership() string {
	return r.ownership
}

// Label names the requirement shape for metrics.
func (r Requirement) Label() string {
	switch {
	case r.IsPublic():
		return "public"
	case r.ownership != "" && len(r.all) == 0 && len(r.anyOf) == 0:
		return "ownership"
	case r.ownership != "":
		return "permission_or_ownership"
	case len(r.anyOf) > 0 && len(r.all) == 0:
		return "any_of"
	case len(r.anyOf) > 0:
		return "all_or_any"
	default:
		return "all_of"
	}
}

// MissingFrom lists the declared permissions the identity does not hold.
// The ownership path is deliberately absent: rejections never disclose
// whether ownership was the blocking branch.
func (r Requirement) MissingFrom(id Identity) []string {
	var missing []string
	for _, perm := range r.all {
		if !id.Has(perm) {
			missing = append(missing, perm)
		}
	}
	for _, perm := range r.anyOf {
		if !id.Has(perm) {
			missing = append(missing, perm)
		}
	}
	return missing
}

func normalise(perms []string) []string {
	seen := make(map[string]struct{}, len(perms))
	var out []string
	for _, perm := range perms {
		perm = strings.TrimSpace(perm)
		if perm == "" {
			continue
		}
		if _, dup := seen[perm]; dup {
			continue
		}
		seen[perm] = struct{}{}
		out = append(out, perm)
	}
	return out
}
