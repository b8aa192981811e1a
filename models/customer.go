package models

import "time"

type Customer struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:255" json:"name"`
	Email     string    `gorm:"uniqueIndex;size:150;not null" json:"email"`
	Phone     string    `gorm:"size:50" json:"phone"`
	Notes     string    `gorm:"type:text" json:"notes"`
	Bookings  []Booking `gorm:"foreignKey:CustomerID" json:"bookings,omitempty"`
	Waivers   []Waiver  `gorm:"foreignKey:CustomerID" json:"waivers,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
