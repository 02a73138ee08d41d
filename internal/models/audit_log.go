package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// AuditLog records the outcome of an authorization decision or administrative
// action. Writes are best-effort and never block the primary operation.
type AuditLog struct {
	ID         string         `gorm:"primaryKey;type:uuid" json:"id"`
	UserID     *uint          `gorm:"index" json:"user_id"`
	User       *User          `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Action     string         `gorm:"not null;index" json:"action"`
	Resource   string         `gorm:"index" json:"resource"`
	ResourceID string         `json:"resource_id,omitempty"`
	Status     string         `gorm:"not null" json:"status"`
	DurationMs int64          `json:"duration_ms"`
	IPAddress  string         `json:"ip_address"`
	UserAgent  string         `json:"user_agent"`
	Metadata   datatypes.JSON `json:"metadata,omitempty"`
	CreatedAt  time.Time      `gorm:"index" json:"created_at"`
}

func (a *AuditLog) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}
