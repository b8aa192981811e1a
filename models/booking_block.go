package models

import "time"

const (
	BlockClosed       = "CLOSED"
	BlockMaintenance  = "MAINTENANCE"
	BlockPrivateEvent = "PRIVATE_EVENT"
	BlockOther        = "OTHER"
)

var BlockTypes = []string{BlockClosed, BlockMaintenance, BlockPrivateEvent, BlockOther}

// BookingBlock closes the park for an inclusive date range (YYYY-MM-DD).
// A recurring block repeats every year on the same month/day range.
type BookingBlock struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	StartDate string    `gorm:"size:10;index;not null" json:"startDate"`
	EndDate   string    `gorm:"size:10;index;not null" json:"endDate"`
	Reason    string    `gorm:"size:255" json:"reason"`
	Type      string    `gorm:"size:32;default:CLOSED" json:"type"`
	Recurring bool      `gorm:"default:false;index" json:"recurring"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
