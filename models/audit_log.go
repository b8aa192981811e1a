package models

import (
	"time"

	"gorm.io/datatypes"
)

const (
	AuditLogin   = "LOGIN"
	AuditLogout  = "LOGOUT"
	AuditCreate  = "CREATE"
	AuditUpdate  = "UPDATE"
	AuditDelete  = "DELETE"
	AuditApprove = "APPROVE"
	AuditReject  = "REJECT"
)

type AuditLog struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	AdminID   *uint          `gorm:"index" json:"adminId"`
	Admin     *AdminUser     `gorm:"foreignKey:AdminID" json:"admin,omitempty"`
	Action    string         `gorm:"size:16;index;not null" json:"action"`
	Entity    string         `gorm:"size:64;index;not null" json:"entity"`
	EntityID  string         `gorm:"size:64" json:"entityId"`
	Details   datatypes.JSON `json:"details"`
	IPAddress string         `gorm:"size:64" json:"ipAddress"`
	UserAgent string         `gorm:"size:512" json:"userAgent"`
	CreatedAt time.Time      `gorm:"index" json:"createdAt"`
}
