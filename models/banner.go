package models

import "time"

type Banner struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Title     string    `gorm:"size:255;not null" json:"title"`
	Subtitle  string    `gorm:"size:255" json:"subtitle"`
	ImageURL  string    `gorm:"size:512" json:"imageUrl"`
	LinkURL   string    `gorm:"size:512" json:"linkUrl"`
	Order     int       `gorm:"column:sort_order;index" json:"order"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
