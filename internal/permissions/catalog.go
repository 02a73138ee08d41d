package permissions

import (
	"strings"
)

// FullAccess is the reserved sentinel permission granting universal bypass.
// It is never assignable through the normal grant flows and is filtered out
// of every list and option endpoint.
const FullAccess = "admin:full_access"

// Resource type tags used by permission names and ownership checks.
const (
	ResourceBlogs        = "blogs"
	ResourceCategories   = "categories"
	ResourceTags         = "tags"
	ResourceMedia        = "media"
	ResourceRecruitments = "recruitments"
	ResourceComments     = "comments"
	ResourceStatuses     = "statuses"
	ResourceUsers        = "users"
	ResourceRoles        = "roles"
	ResourcePermissions  = "permissions"
)

// Definition describes a single catalog permission.
type Definition struct {
	Name        string
	Description string
}

// Group collects the permissions of one resource.
type Group struct {
	Resource    string
	Permissions []Definition
}

// catalog is the complete, fixed enumeration of valid permission names.
// Names strictly follow the "resource:action" format; the options endpoint
// splits on the first colon to build display groups.
var catalog = []Group{
	{
		Resource: ResourceBlogs,
		Permissions: []Definition{
			{Name: "blogs:read", Description: "View blogs"},
			{Name: "blogs:create", Description: "Create blogs"},
			{Name: "blogs:update", Description: "Update any blog"},
			{Name: "blogs:delete", Description: "Delete any blog"},
			{Name: "blogs:restore", Description: "Restore soft-deleted blogs"},
			{Name: "blogs:manage_all", Description: "Manage all blogs regardless of ownership"},
		},
	},
	{
		Resource: ResourceCategories,
		Permissions: []Definition{
			{Name: "categories:read", Description: "View categories"},
			{Name: "categories:create", Description: "Create categories"},
			{Name: "categories:update", Description: "Update categories"},
			{Name: "categories:delete", Description: "Delete categories"},
			{Name: "categories:restore", Description: "Restore soft-deleted categories"},
		},
	},
	{
		Resource: ResourceTags,
		Permissions: []Definition{
			{Name: "tags:read", Description: "View tags"},
			{Name: "tags:create", Description: "Create tags"},
			{Name: "tags:update", Description: "Update tags"},
			{Name: "tags:delete", Description: "Delete tags"},
			{Name: "tags:restore", Description: "Restore soft-deleted tags"},
		},
	},
	{
		Resource: ResourceMedia,
		Permissions: []Definition{
			{Name: "media:read", Description: "View media"},
			{Name: "media:upload", Description: "Upload media"},
			{Name: "media:update", Description: "Update any media item"},
			{Name: "media:delete", Description: "Delete any media item"},
			{Name: "media:manage_all", Description: "Manage all media regardless of ownership"},
		},
	},
	{
		Resource: ResourceRecruitments,
		Permissions: []Definition{
			{Name: "recruitments:read", Description: "View recruitment posts"},
			{Name: "recruitments:create", Description: "Create recruitment posts"},
			{Name: "recruitments:update", Description: "Update any recruitment post"},
			{Name: "recruitments:delete", Description: "Delete any recruitment post"},
			{Name: "recruitments:restore", Description: "Restore soft-deleted recruitment posts"},
			{Name: "recruitments:manage_all", Description: "Manage all recruitment posts regardless of ownership"},
		},
	},
	{
		Resource: ResourceComments,
		Permissions: []Definition{
			{Name: "comments:read", Description: "View comments"},
			{Name: "comments:create", Description: "Create comments"},
			{Name: "comments:update", Description: "Update any comment"},
			{Name: "comments:delete", Description: "Delete any comment"},
			{Name: "comments:manage_all", Description: "Manage all comments regardless of ownership"},
		},
	},
	{
		Resource: ResourceStatuses,
		Permissions: []Definition{
			{Name: "statuses:read", Description: "View publication statuses"},
			{Name: "statuses:create", Description: "Create publication statuses"},
			{Name: "statuses:update", Description: "Update publication statuses"},
			{Name: "statuses:delete", Description: "Delete publication statuses"},
		},
	},
	{
		Resource: ResourceUsers,
		Permissions: []Definition{
			{Name: "users:read", Description: "View users"},
			{Name: "users:create", Description: "Create users"},
			{Name: "users:update", Description: "Update users"},
			{Name: "users:delete", Description: "Delete users"},
			{Name: "users:restore", Description: "Restore soft-deleted users"},
			{Name: "users:assign_role", Description: "Assign roles to users"},
		},
	},
	{
		Resource: ResourceRoles,
		Permissions: []Definition{
			{Name: "roles:read", Description: "View roles"},
			{Name: "roles:create", Description: "Create roles"},
			{Name: "roles:update", Description: "Update roles"},
			{Name: "roles:delete", Description: "Delete roles"},
			{Name: "roles:assign_permissions", Description: "Assign permissions to roles"},
		},
	},
	{
		Resource: ResourcePermissions,
		Permissions: []Definition{
			{Name: "permissions:read", Description: "View permissions"},
			{Name: "permissions:create", Description: "Create permissions"},
			{Name: "permissions:update", Description: "Update permissions"},
			{Name: "permissions:delete", Description: "Delete permissions"},
			{Name: "permissions:restore", Description: "Restore soft-deleted permissions"},
			{Name: "permissions:sync", Description: "Synchronise the permission catalog"},
		},
	},
}

// RoleTemplate names a default role and the permission set it grants.
type RoleTemplate struct {
	Name        string
	Description string
	Permissions []string
}

// RoleTemplates returns the default roles created at seed time. The Super
// Admin template is the only path that grants the sentinel.
func RoleTemplates() []RoleTemplate {
	return []RoleTemplate{
		{
			Name:        "Super Admin",
			Description: "Unrestricted access to every resource",
			Permissions: []string{FullAccess},
		},
		{
			Name:        "Editor",
			Description: "Full content management across all authors",
			Permissions: []string{
				"blogs:read", "blogs:create", "blogs:update", "blogs:delete", "blogs:restore", "blogs:manage_all",
				"categories:read", "categories:create", "categories:update", "categories:delete", "categories:restore",
				"tags:read", "tags:create", "tags:update", "tags:delete", "tags:restore",
				"media:read", "media:upload", "media:update", "media:delete", "media:manage_all",
				"recruitments:read", "recruitments:create", "recruitments:update", "recruitments:delete", "recruitments:restore", "recruitments:manage_all",
				"comments:read", "comments:create", "comments:update", "comments:delete", "comments:manage_all",
				"statuses:read",
			},
		},
		{
			Name:        "Author",
			Description: "Creates content and manages their own items via ownership",
			Permissions: []string{
				"blogs:read", "blogs:create",
				"categories:read",
				"tags:read",
				"media:read", "media:upload",
				"recruitments:read",
				"comments:read", "comments:create",
				"statuses:read",
			},
		},
		{
			Name:        "Viewer",
			Description: "Read-only access to published content",
			Permissions: []string{
				"blogs:read", "categories:read", "tags:read", "media:read",
				"recruitments:read", "comments:read", "statuses:read",
			},
		},
	}
}

// Catalog returns the full permission catalog grouped by resource.
func Catalog() []Group {
	out := make([]Group, len(catalog))
	for i, group := range catalog {
		perms := make([]Definition, len(group.Permissions))
		copy(perms, group.Permissions)
		out[i] = Group{Resource: group.Resource, Permissions: perms}
	}
	return out
}

// AllNames returns every permission name in the catalog, in catalog order.
// The sentinel is not part of the catalog.
func AllNames() []string {
	var names []string
	for _, group := range catalog {
		for _, def := range group.Permissions {
			names = append(names, def.Name)
		}
	}
	return names
}

// IsKnown reports whether the name appears in the catalog.
func IsKnown(name string) bool {
	for _, group := range catalog {
		for _, def := range group.Permissions {
			if def.Name == name {
				return true
			}
		}
	}
	return false
}

// ValidName reports whether the name follows the resource:action format.
func ValidName(name string) bool {
	idx := strings.Index(name, ":")
	return idx > 0 && idx < len(name)-1
}

// SplitName divides a permission name into its resource and action parts.
func SplitName(name string) (resource, action string, ok bool) {
	idx := strings.Index(name, ":")
	if idx <= 0 || idx >= len(name)-1 {
		return "", "", false
	}
	return name[:idx], name[idx+1:], true
}

// DisplayGroup renders a resource tag as a title-cased display group name.
func DisplayGroup(resource string) string {
	if resource == "" {
		return ""
	}
	return strings.ToUpper(resource[:1]) + resource[1:]
}
