package models

import "time"

type GalleryItem struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Title     string    `gorm:"size:255" json:"title"`
	ImageURL  string    `gorm:"size:512;not null" json:"imageUrl"`
	Category  string    `gorm:"size:100;index" json:"category"`
	Order     int       `gorm:"column:sort_order;index" json:"order"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
