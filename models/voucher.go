package models

import "time"

const (
	DiscountPercentage = "PERCENTAGE"
	DiscountFlat       = "FLAT"
)

// Voucher is a discount code. A zero or nil UsageLimit/MinOrderAmount means "no limit".
type Voucher struct {
	ID             uint       `gorm:"primaryKey" json:"id"`
	Code           string     `gorm:"size:64;uniqueIndex;not null" json:"code"`
	Description    string     `gorm:"size:255" json:"description"`
	DiscountType   string     `gorm:"size:16;not null" json:"discountType"`
	DiscountValue  float64    `gorm:"not null" json:"discountValue"`
	MinOrderAmount *float64   `json:"minOrderAmount"`
	UsageLimit     *int       `json:"usageLimit"`
	UsedCount      int        `gorm:"default:0" json:"usedCount"`
	ExpiryDate     *time.Time `json:"expiryDate"`
	IsActive       bool       `json:"isActive"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`
}
