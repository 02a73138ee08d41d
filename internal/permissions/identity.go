package permissions

// Identity is the verified principal handed to the decision engine after
// token validation. Permissions holds the flattened permission set reachable
// through the user's single role, re-read from the store on every request.
type Identity struct {
	UserID      uint
	RoleName    string
	Permissions []string
}

// Has reports whether the flattened set contains the permission.
func (id Identity) Has(perm string) bool {
	for _, held := range id.Permissions {
		if held == perm {
			return true
		}
	}
	return false
}

// HasAny reports whether the flattened set contains at least one of the
// permissions.
func (id Identity) HasAny(perms ...string) bool {
	for _, perm := range perms {
		if id.Has(perm) {
			return true
		}
	}
	return false
}

// IsSuperAdmin reports whether the flattened set contains the sentinel.
func (id Identity) IsSuperAdmin() bool {
	return id.Has(FullAccess)
}
