package models

import "time"

// InvitationTemplate is an e-invitation design offered with party bookings.
type InvitationTemplate struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"size:255;not null" json:"name"`
	ImageURL    string    `gorm:"size:512" json:"imageUrl"`
	Description string    `gorm:"type:text" json:"description"`
	Order       int       `gorm:"column:sort_order;index" json:"order"`
	IsActive    bool      `json:"isActive"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}
