package models

import "time"

// User is the authorization-relevant projection of an account. RoleID is
// nullable: a user without a role holds zero permissions.
type User struct {
	BaseModel

	Username string `gorm:"uniqueIndex;not null" json:"username"`
	Email    string `gorm:"uniqueIndex;not null" json:"email"`
	Password string `gorm:"not null" json:"-"`

	IsActive bool `gorm:"default:true" json:"is_active"`

	RoleID *uint `gorm:"index" json:"role_id"`
	Role   *Role `json:"role,omitempty"`

	LastLoginAt *time.Time `json:"last_login_at"`
}
