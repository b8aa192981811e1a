package models

// RolePermission stores one "entity:action" grant, e.g. "bookings:read" or "cms:*".
type RolePermission struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	RoleID     uint   `gorm:"not null;index:idx_role_permission,unique" json:"roleId"`
	Permission string `gorm:"size:150;not null;index:idx_role_permission,unique" json:"permission"`
}
