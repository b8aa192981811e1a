package services

import (
	"sort"
	"strings"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"ninjapark-backend/models"
	"ninjapark-backend/utils"
)

// RoleDefinition is a built-in role and its default grants.
type RoleDefinition struct {
	Name        string
	Description string
	Permissions []string
}

var DefaultRoles = []RoleDefinition{
	{
		Name:        models.RoleSuperAdmin,
		Description: "Full system access - can manage everything",
		Permissions: []string{utils.Wildcard},
	},
	{
		Name:        models.RoleManager,
		Description: "Manage bookings, parties, and content",
		Permissions: []string{
			"bookings:read", "bookings:write",
			"parties:read", "parties:write",
			"waivers:read", "waivers:write",
			"vouchers:read", "vouchers:write",
			"cms:read", "cms:write",
			"holidays:read", "holidays:write",
			"logs:read",
		},
	},
	{
		Name:        models.RoleStaff,
		Description: "Operations staff - handle bookings and waivers",
		Permissions: []string{
			"bookings:read", "bookings:write",
			"parties:read",
			"waivers:read", "waivers:write",
		},
	},
	{
		Name:        models.RoleContentEditor,
		Description: "Manage website content only",
		Permissions: []string{
			"cms:read", "cms:write",
			"attractions:read", "attractions:write",
		},
	},
	{
		Name:        models.RoleViewer,
		Description: "Read-only access to all data",
		Permissions: []string{
			"bookings:read", "parties:read", "waivers:read", "vouchers:read", "logs:read",
		},
	},
}

type RoleService struct {
	DB *gorm.DB
}

func NewRoleService(db *gorm.DB) *RoleService {
	return &RoleService{DB: db}
}

func (s *RoleService) List() ([]models.Role, error) {
	var roles []models.Role
	err := s.DB.Preload("Permissions").Preload("Members").Order("name").Find(&roles).Error
	return roles, errors.Wrap(err, "list roles")
}

func (s *RoleService) Get(id uint) (*models.Role, error) {
	var role models.Role
	if err := s.DB.Preload("Permissions").Preload("Members").First(&role, id).Error; err != nil {
		return nil, dbErr(err, "find role")
	}
	return &role, nil
}

// validPermission accepts "entity:action" where either side may be "*".
func validPermission(p string) bool {
	entity, action, ok := strings.Cut(p, ":")
	return ok && entity != "" && action != "" && !strings.ContainsAny(p, " \t")
}

func cleanPermissions(perms []string) ([]string, error) {
	seen := map[string]bool{}
	out := make([]string, 0, len(perms))
	for _, p := range perms {
		p = strings.ToLower(strings.TrimSpace(p))
		if !validPermission(p) {
			return nil, rule(ErrValidation, "Invalid permission %q", p)
		}
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}
	sort.Strings(out)
	return out, nil
}

// SetPermissions replaces the role's grants in one transaction.
func (s *RoleService) SetPermissions(id uint, perms []string) (before, after *models.Role, err error) {
	clean, err := cleanPermissions(perms)
	if err != nil {
		return nil, nil, err
	}
	before, err = s.Get(id)
	if err != nil {
		return nil, nil, err
	}
	if before.Name == models.RoleSuperAdmin {
		return nil, nil, rule(ErrForbidden, "The SUPER_ADMIN role cannot be modified")
	}
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		return replacePermissions(tx, id, clean)
	})
	if err != nil {
		return nil, nil, errors.Wrap(err, "replace permissions")
	}
	after, err = s.Get(id)
	return before, after, err
}

func replacePermissions(tx *gorm.DB, roleID uint, perms []string) error {
	if err := tx.Where("role_id = ?", roleID).Delete(&models.RolePermission{}).Error; err != nil {
		return err
	}
	if len(perms) == 0 {
		return nil
	}
	rows := make([]models.RolePermission, len(perms))
	for i, p := range perms {
		rows[i] = models.RolePermission{RoleID: roleID, Permission: p}
	}
	return tx.Create(&rows).Error
}

// upsertRole creates or refreshes a role by name and resets its grants.
func upsertRole(tx *gorm.DB, def RoleDefinition) (*models.Role, error) {
	var role models.Role
	if err := tx.Where("name = ?", def.Name).Limit(1).Find(&role).Error; err != nil {
		return nil, err
	}
	role.Name = def.Name
	role.Description = def.Description
	if err := tx.Save(&role).Error; err != nil {
		return nil, err
	}
	if err := replacePermissions(tx, role.ID, def.Permissions); err != nil {
		return nil, err
	}
	return &role, nil
}
