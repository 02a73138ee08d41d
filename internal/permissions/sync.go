package permissions

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/inkwellhq/inkwell/internal/models"
)

// SyncResult reports the outcome of one catalog sync run. Items fail
// independently; partial success is a valid outcome.
type SyncResult struct {
	Created int      `json:"created"`
	Updated int      `json:"updated"`
	Errors  []string `json:"errors,omitempty"`
}

// Sync upserts every catalog permission by name: absent names are created,
// existing rows keep their description and metadata and only receive a fresh
// update timestamp. Running the sync twice in a row creates nothing new.
func Sync(ctx context.Context, db *gorm.DB) (*SyncResult, error) {
	if db == nil {
		return nil, errors.New("permission sync: db is required")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	result := &SyncResult{}
	tx := db.WithContext(ctx)

	for _, group := range Catalog() {
		for _, def := range group.Permissions {
			if err := syncOne(tx, def, result); err != nil {
				result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", def.Name, err))
			}
		}
	}

	return result, nil
}

func syncOne(tx *gorm.DB, def Definition, result *SyncResult) error {
	var existing models.Permission
	// Soft-deleted rows still occupy the unique name, so match unscoped.
	err := tx.Unscoped().Where("name = ?", def.Name).First(&existing).Error

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		record := models.Permission{
			Name:        def.Name,
			Description: def.Description,
		}
		if err := tx.Create(&record).Error; err != nil {
			return err
		}
		result.Created++
		return nil

	case err != nil:
		return err

	default:
		if err := tx.Unscoped().
			Model(&existing).
			UpdateColumn("updated_at", time.Now()).Error; err != nil {
			return err
		}
		result.Updated++
		return nil
	}
}
