package models

import (
	"time"

	"gorm.io/gorm"
)

// BaseModel provides shared fields for all persistent models. Rows are
// soft-deleted by default; callers use Unscoped for permanent removal.
type BaseModel struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}
