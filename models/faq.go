package models

import "time"

type Faq struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Question  string    `gorm:"size:512;not null" json:"question"`
	Answer    string    `gorm:"type:text;not null" json:"answer"`
	Category  string    `gorm:"size:100;index" json:"category"`
	Order     int       `gorm:"column:sort_order;index" json:"order"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
