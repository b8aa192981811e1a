package services

import (
	"context"
	"log/slog"
	"strings"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"ninjapark-backend/models"
)

const (
	DefaultAdminEmail    = "admin@ninja.com"
	DefaultAdminPassword = "admin123"
	DefaultAdminName     = "Super Admin"
)

// EnsureRoles upserts every built-in role with its default permissions.
func EnsureRoles(ctx context.Context, db *gorm.DB) ([]models.Role, error) {
	roles := make([]models.Role, 0, len(DefaultRoles))
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, def := range DefaultRoles {
			role, err := upsertRole(tx, def)
			if err != nil {
				return errors.Wrapf(err, "role %s", def.Name)
			}
			roles = append(roles, *role)
		}
		return nil
	})
	return roles, err
}

// SeedMissingRoles creates the built-in roles that do not exist yet. Roles
// already present keep whatever permissions admins have given them.
func SeedMissingRoles(ctx context.Context, db *gorm.DB) (int, error) {
	created := 0
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, def := range DefaultRoles {
			var count int64
			if err := tx.Model(&models.Role{}).Where("name = ?", def.Name).Count(&count).Error; err != nil {
				return errors.Wrapf(err, "count role %s", def.Name)
			}
			if count > 0 {
				continue
			}
			if _, err := upsertRole(tx, def); err != nil {
				return errors.Wrapf(err, "role %s", def.Name)
			}
			created++
		}
		return nil
	})
	return created, err
}

// EnsureSuperAdmin creates or resets the account so it is active, holds
// SUPER_ADMIN and uses the given password. Running it twice is harmless.
func EnsureSuperAdmin(ctx context.Context, db *gorm.DB, email, password, name string) (*models.AdminUser, bool, error) {
	email = normalizeEmail(email)
	if !validEmail(email) {
		return nil, false, rule(ErrValidation, "Invalid email address")
	}
	if len(password) < 6 {
		return nil, false, rule(ErrValidation, "Password must be at least 6 characters")
	}
	hash, err := HashPassword(password)
	if err != nil {
		return nil, false, err
	}

	var admin models.AdminUser
	created := false
	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		role, err := upsertRole(tx, DefaultRoles[0])
		if err != nil {
			return err
		}
		if err := tx.Where("email = ?", email).Limit(1).Find(&admin).Error; err != nil {
			return err
		}
		created = admin.ID == 0
		admin.Email = email
		if n := strings.TrimSpace(name); n != "" || created {
			if n == "" {
				n = DefaultAdminName
			}
			admin.Name = n
		}
		admin.Password = hash
		admin.RoleID = &role.ID
		admin.IsActive = true
		return tx.Save(&admin).Error
	})
	if err != nil {
		return nil, false, errors.Wrap(err, "ensure super admin")
	}
	return &admin, created, nil
}

// SeedDatabase runs on boot: missing roles, the default admin when none
// exists, and the settings row. Existing roles are left untouched; use
// EnsureRoles to reset them to their defaults.
func SeedDatabase(ctx context.Context, db *gorm.DB, log *slog.Logger) error {
	created, err := SeedMissingRoles(ctx, db)
	if err != nil {
		return errors.Wrap(err, "seed roles")
	}
	if created > 0 {
		log.Info("created built-in roles", "count", created)
	}

	var admins int64
	if err := db.WithContext(ctx).Model(&models.AdminUser{}).Count(&admins).Error; err != nil {
		return errors.Wrap(err, "count admins")
	}
	if admins == 0 {
		if _, _, err := EnsureSuperAdmin(ctx, db, DefaultAdminEmail, DefaultAdminPassword, DefaultAdminName); err != nil {
			return err
		}
		log.Warn("created default admin account, change its password", "email", DefaultAdminEmail)
	}

	if _, err := NewSettingsService(db).Get(); err != nil {
		return errors.Wrap(err, "seed settings")
	}
	return nil
}
