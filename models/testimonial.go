package models

import "time"

const (
	TestimonialText  = "TEXT"
	TestimonialVideo = "VIDEO"
)

type Testimonial struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	Role      string    `gorm:"size:255" json:"role"`
	Content   string    `gorm:"type:text" json:"content"`
	Rating    int       `gorm:"default:5" json:"rating"`
	Type      string    `gorm:"size:16;default:TEXT" json:"type"`
	VideoURL  string    `gorm:"size:512" json:"videoUrl,omitempty"`
	ImageURL  string    `gorm:"size:512" json:"imageUrl,omitempty"`
	Order     int       `gorm:"column:sort_order;index" json:"order"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
