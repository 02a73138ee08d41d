package models

import "gorm.io/datatypes"

// Permission is an atomic "resource:action" capability. The name
// "admin:full_access" is a reserved sentinel granting universal bypass and is
// excluded from list and option endpoints.
type Permission struct {
	BaseModel

	Name        string `gorm:"uniqueIndex;not null" json:"name"`
	Description string `json:"description"`

	// Meta carries optional SEO-style metadata surfaced by the management UI.
	// It has no effect on authorization decisions.
	Meta datatypes.JSON `json:"meta,omitempty"`

	Roles []Role `gorm:"many2many:role_permissions;" json:"roles,omitempty"`
}
