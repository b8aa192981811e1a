package models

import (
	"time"

	"gorm.io/gorm"
)

const WaiverVersion = "1.0"

// Waiver is a signed liability release, optionally attached to a booking.
type Waiver struct {
	ID               uint           `gorm:"primaryKey" json:"id"`
	Name             string         `gorm:"size:255;not null" json:"name"`
	Email            string         `gorm:"size:150;index;not null" json:"email"`
	Phone            string         `gorm:"size:50" json:"phone"`
	EmergencyContact string         `gorm:"size:255;not null" json:"emergencyContact"`
	DateOfBirth      *string        `gorm:"size:10" json:"dateOfBirth"`
	IsMinor          bool           `gorm:"default:false;index" json:"isMinor"`
	GuardianName     string         `gorm:"size:255" json:"guardianName,omitempty"`
	SignatureURL     string         `gorm:"size:512" json:"signatureUrl,omitempty"`
	Version          string         `gorm:"size:16" json:"version"`
	SignedAt         time.Time      `json:"signedAt"`
	IPAddress        string         `gorm:"size:64" json:"ipAddress,omitempty"`
	BookingID        *uint          `gorm:"index" json:"bookingId"`
	Booking          *Booking       `gorm:"foreignKey:BookingID" json:"booking,omitempty"`
	CustomerID       *uint          `gorm:"index" json:"customerId"`
	CreatedAt        time.Time      `json:"createdAt"`
	UpdatedAt        time.Time      `json:"updatedAt"`
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"-"`
}
