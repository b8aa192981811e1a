package models

import "time"

// StaticPage holds editable copy such as terms, privacy or about text, addressed by slug.
type StaticPage struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Slug      string    `gorm:"size:150;uniqueIndex;not null" json:"slug"`
	Title     string    `gorm:"size:255;not null" json:"title"`
	Content   string    `gorm:"type:text" json:"content"`
	Order     int       `gorm:"column:sort_order" json:"order"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
