package models

import (
	"time"

	"gorm.io/datatypes"
)

type PricingPlan struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Name        string         `gorm:"size:255;not null" json:"name"`
	Type        string         `gorm:"size:16;default:SESSION" json:"type"`
	Price       float64        `json:"price"`
	Duration    string         `gorm:"size:32" json:"duration"`
	Description string         `gorm:"type:text" json:"description"`
	Features    datatypes.JSON `json:"features"`
	IsPopular   bool           `json:"isPopular"`
	Order       int            `gorm:"column:sort_order;index" json:"order"`
	IsActive    bool           `json:"isActive"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
}
