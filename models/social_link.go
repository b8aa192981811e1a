package models

import "time"

type SocialLink struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Platform  string    `gorm:"size:64;not null" json:"platform"`
	URL       string    `gorm:"column:url;size:512;not null" json:"url"`
	Icon      string    `gorm:"size:128" json:"icon"`
	Order     int       `gorm:"column:sort_order;index" json:"order"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
