package models

import "time"

// AdminUser is a dashboard account. Password holds a bcrypt hash and is never serialised.
type AdminUser struct {
	ID                uint       `gorm:"primaryKey" json:"id"`
	Name              string     `gorm:"size:255" json:"name"`
	Email             string     `gorm:"uniqueIndex;size:150;not null" json:"email"`
	Password          string     `gorm:"size:255" json:"-"`
	RoleID            *uint      `gorm:"index" json:"roleId"`
	Role              *Role      `gorm:"foreignKey:RoleID" json:"role,omitempty"`
	IsActive          bool       `json:"isActive"`
	LastLoginAt       *time.Time `json:"lastLoginAt"`
	ResetToken        *string    `gorm:"size:128;index" json:"-"`
	ResetTokenExpires *time.Time `json:"-"`
	CreatedAt         time.Time  `json:"createdAt"`
	UpdatedAt         time.Time  `json:"updatedAt"`
}

// PermissionList returns the role's permission strings, or nil without a role.
func (a AdminUser) PermissionList() []string {
	if a.Role == nil {
		return nil
	}
	return a.Role.PermissionList()
}
