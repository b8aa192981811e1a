package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	BookingTypeSession = "SESSION"
	BookingTypeParty   = "PARTY"
	BookingTypeManual  = "MANUAL"

	BookingStatusPending   = "PENDING"
	BookingStatusConfirmed = "CONFIRMED"
	BookingStatusCancelled = "CANCELLED"
	BookingStatusCompleted = "COMPLETED"

	PaymentStatusPending  = "PENDING"
	PaymentStatusPaid     = "PAID"
	PaymentStatusRefunded = "REFUNDED"
	PaymentStatusFailed   = "FAILED"

	WaiverStatusPending = "PENDING"
	WaiverStatusSigned  = "SIGNED"
)

var (
	BookingTypes    = []string{BookingTypeSession, BookingTypeParty, BookingTypeManual}
	BookingStatuses = []string{BookingStatusPending, BookingStatusConfirmed, BookingStatusCancelled, BookingStatusCompleted}
	PaymentStatuses = []string{PaymentStatusPending, PaymentStatusPaid, PaymentStatusRefunded, PaymentStatusFailed}
	WaiverStatuses  = []string{WaiverStatusPending, WaiverStatusSigned}
)

type Booking struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Reference string         `gorm:"size:32;uniqueIndex" json:"reference"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	CustomerID *uint     `gorm:"index" json:"customerId"`
	Customer   *Customer `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`

	Name  string `gorm:"size:255" json:"name"`
	Email string `gorm:"size:150;index" json:"email"`
	Phone string `gorm:"size:50" json:"phone"`

	// Date is YYYY-MM-DD, Time is HH:MM.
	Date     string `gorm:"column:booking_date;size:10;index" json:"date"`
	Time     string `gorm:"column:booking_time;size:5" json:"time"`
	Duration string `gorm:"size:8" json:"duration"`

	Adults     int `gorm:"default:0" json:"adults"`
	Kids       int `gorm:"default:0" json:"kids"`
	Spectators int `gorm:"default:0" json:"spectators"`

	Subtotal       float64 `json:"subtotal"`
	DiscountAmount float64 `json:"discountAmount"`
	GST            float64 `gorm:"column:gst" json:"gst"`
	Amount         float64 `json:"amount"`
	DepositAmount  float64 `json:"depositAmount"`

	VoucherID   *uint    `gorm:"index" json:"voucherId"`
	Voucher     *Voucher `gorm:"foreignKey:VoucherID" json:"voucher,omitempty"`
	VoucherCode string   `gorm:"size:64" json:"voucherCode,omitempty"`

	Type          string `gorm:"size:16;default:SESSION;index" json:"type"`
	BookingStatus string `gorm:"size:16;default:PENDING;index" json:"bookingStatus"`
	PaymentStatus string `gorm:"size:16;default:PENDING;index" json:"paymentStatus"`
	WaiverStatus  string `gorm:"size:16;default:PENDING;index" json:"waiverStatus"`

	PackageName     string `gorm:"size:100" json:"packageName,omitempty"`
	ChildName       string `gorm:"size:255" json:"childName,omitempty"`
	ChildAge        int    `json:"childAge,omitempty"`
	SpecialRequests string `gorm:"type:text" json:"specialRequests,omitempty"`
	Notes           string `gorm:"type:text" json:"notes,omitempty"`

	QRCode string `gorm:"type:text" json:"qrCode,omitempty"`

	Waivers []Waiver `gorm:"foreignKey:BookingID" json:"waivers,omitempty"`
}

// Guests counts the people who take a place on the floor. Spectators are excluded.
func (b Booking) Guests() int {
	return b.Adults + b.Kids
}
