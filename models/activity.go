package models

import "time"

// Activity is an attraction shown on the public site.
type Activity struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"size:255;not null" json:"name"`
	Slug        string    `gorm:"size:150;uniqueIndex;not null" json:"slug"`
	Description string    `gorm:"type:text" json:"description"`
	ImageURL    string    `gorm:"size:512" json:"imageUrl"`
	Order       int       `gorm:"column:sort_order;index" json:"order"`
	IsActive    bool      `json:"isActive"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}
