package models

import "time"

// RefreshToken backs the database token store. Only the SHA-256 of the token is kept.
type RefreshToken struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	TokenHash string    `gorm:"size:64;uniqueIndex;not null" json:"-"`
	AdminID   uint      `gorm:"index;not null" json:"adminId"`
	ExpiresAt time.Time `gorm:"index" json:"expiresAt"`
	CreatedAt time.Time `json:"createdAt"`
}
