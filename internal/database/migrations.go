package database

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/inkwellhq/inkwell/internal/models"
	"github.com/inkwellhq/inkwell/internal/permissions"
	"github.com/inkwellhq/inkwell/pkg/crypto"
)

// AutoMigrate creates or updates the database schema for all models.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Role{},
		&models.Permission{},
		&models.AuditLog{},
		&models.Blog{},
		&models.Media{},
		&models.Recruitment{},
		&models.Comment{},
	)
}

// DefaultAdminPassword is the seeded Super Admin credential. Deployments are
// expected to rotate it immediately after first login.
const DefaultAdminPassword = "changeme"

// SeedData synchronises the permission catalog and provisions the default
// role templates plus a Super Admin account. All steps are idempotent.
func SeedData(db *gorm.DB) error {
	result, err := permissions.Sync(context.Background(), db)
	if err != nil {
		return fmt.Errorf("sync permission catalog: %w", err)
	}
	if len(result.Errors) > 0 {
		return fmt.Errorf("sync permission catalog: %s", strings.Join(result.Errors, "; "))
	}

	if err := seedSentinel(db); err != nil {
		return err
	}

	if err := seedRoles(db); err != nil {
		return err
	}

	return seedAdminUser(db)
}

// seedSentinel creates the bypass permission row. It lives outside the
// catalog so sync and the option endpoints never surface it.
func seedSentinel(db *gorm.DB) error {
	sentinel := models.Permission{
		Name:        permissions.FullAccess,
		Description: "Bypass all permission and ownership checks",
	}
	return db.
		Where(models.Permission{Name: permissions.FullAccess}).
		Attrs(sentinel).
		FirstOrCreate(&models.Permission{}).Error
}

func seedRoles(db *gorm.DB) error {
	for _, template := range permissions.RoleTemplates() {
		var role models.Role
		err := db.
			Where(models.Role{Name: template.Name}).
			Attrs(models.Role{Name: template.Name, Description: template.Description}).
			FirstOrCreate(&role).Error
		if err != nil {
			return fmt.Errorf("seed role %s: %w", template.Name, err)
		}

		var perms []models.Permission
		if err := db.Where("name IN ?", template.Permissions).Find(&perms).Error; err != nil {
			return fmt.Errorf("load permissions for role %s: %w", template.Name, err)
		}

		if err := db.Model(&role).Association("Permissions").Replace(perms); err != nil {
			return fmt.Errorf("assign permissions to role %s: %w", template.Name, err)
		}
	}
	return nil
}

func seedAdminUser(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.User{}).Where("username = ?", "admin").Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	var superAdmin models.Role
	if err := db.Where("name = ?", "Super Admin").First(&superAdmin).Error; err != nil {
		return fmt.Errorf("load super admin role: %w", err)
	}

	hashed, err := crypto.HashPassword(DefaultAdminPassword)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}

	admin := models.User{
		Username: "admin",
		Email:    "admin@localhost",
		Password: hashed,
		IsActive: true,
		RoleID:   &superAdmin.ID,
	}
	return db.Create(&admin).Error
}
