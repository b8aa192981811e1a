package models

import "time"

const (
	RoleSuperAdmin    = "SUPER_ADMIN"
	RoleManager       = "MANAGER"
	RoleStaff         = "STAFF"
	RoleContentEditor = "CONTENT_EDITOR"
	RoleViewer        = "VIEWER"
)

type Role struct {
	ID          uint             `gorm:"primaryKey" json:"id"`
	Name        string           `gorm:"size:100;uniqueIndex" json:"name"`
	Description string           `gorm:"size:255" json:"description"`
	Permissions []RolePermission `gorm:"foreignKey:RoleID;constraint:OnDelete:CASCADE" json:"permissions"`
	Members     []AdminUser      `gorm:"foreignKey:RoleID" json:"members,omitempty"`
	CreatedAt   time.Time        `json:"createdAt"`
	UpdatedAt   time.Time        `json:"updatedAt"`
}

func (r Role) PermissionList() []string {
	out := make([]string, 0, len(r.Permissions))
	for _, p := range r.Permissions {
		out = append(out, p.Permission)
	}
	return out
}
