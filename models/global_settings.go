package models

import (
	"time"

	"gorm.io/datatypes"
)

// GlobalSettings is a single-row table. The service creates it with defaults on first read.
type GlobalSettings struct {
	ID              uint           `gorm:"primaryKey" json:"id"`
	ParkName        string         `gorm:"size:255" json:"parkName"`
	ContactPhone    string         `gorm:"size:50" json:"contactPhone"`
	ContactEmail    string         `gorm:"size:150" json:"contactEmail"`
	Address         string         `gorm:"type:text" json:"address"`
	MapURL          string         `gorm:"column:map_url;type:text" json:"mapUrl"`
	OpeningHours    datatypes.JSON `json:"openingHours"`
	MarqueeText     datatypes.JSON `json:"marqueeText"`
	AboutText       string         `gorm:"type:text" json:"aboutText"`
	HeroTitle       string         `gorm:"size:255" json:"heroTitle"`
	HeroSubtitle    string         `gorm:"size:255" json:"heroSubtitle"`
	GSTNumber       string         `gorm:"column:gst_number;size:32" json:"gstNumber"`
	SessionDuration int            `json:"sessionDuration"`
	AdultPrice      float64        `json:"adultPrice"`
	ChildPrice      float64        `json:"childPrice"`
	SpectatorPrice  float64        `json:"spectatorPrice"`
	SessionCapacity int            `json:"sessionCapacity"`

	OnlineBookingEnabled bool `json:"onlineBookingEnabled"`
	PartyBookingsEnabled bool `json:"partyBookingsEnabled"`
	MaintenanceMode      bool `json:"maintenanceMode"`
	WaiverRequired       bool `json:"waiverRequired"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
