package services

import (
	"strings"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"ninjapark-backend/models"
)

type CalendarService struct {
	DB       *gorm.DB
	Settings *SettingsService
}

func NewCalendarService(db *gorm.DB, settings *SettingsService) *CalendarService {
	return &CalendarService{DB: db, Settings: settings}
}

type Availability struct {
	Date      string `json:"date"`
	Time      string `json:"time,omitempty"`
	Available bool   `json:"available"`
	Capacity  int    `json:"capacity"`
	Booked    int    `json:"booked"`
	Remaining int    `json:"remaining"`
	Reason    string `json:"reason,omitempty"`
}

// CheckAvailability reports whether date (and optionally time) can take more guests.
func (s *CalendarService) CheckAvailability(date, clock string) (*Availability, error) {
	verr := NewValidationError()
	if !validDate(date) {
		verr.Add("date", "Date must be YYYY-MM-DD")
	}
	if clock != "" && !validClock(clock) {
		verr.Add("time", "Time must be HH:MM")
	}
	if err := verr.OrNil(); err != nil {
		return nil, err
	}
	return availability(s.DB, date, clock, s.capacity(), 0)
}

func (s *CalendarService) capacity() int {
	if s.Settings != nil {
		if st, err := s.Settings.Get(); err == nil && st.SessionCapacity > 0 {
			return st.SessionCapacity
		}
	}
	return DefaultSessionCapacity
}

// availability runs on tx so booking writes see their own transaction. The
// guests of booking exclude are not counted, so an edit does not compete with
// itself.
func availability(tx *gorm.DB, date, clock string, capacity int, exclude uint) (*Availability, error) {
	a := &Availability{Date: date, Time: clock, Capacity: capacity}

	block, err := blockOn(tx, date)
	if err != nil {
		return nil, err
	}
	if block != nil {
		a.Reason = block.Reason
		if a.Reason == "" {
			a.Reason = "The park is closed on this date"
		}
		return a, nil
	}

	q := tx.Model(&models.Booking{}).
		Where("booking_date = ? AND booking_status IN ?", date, []string{models.BookingStatusPending, models.BookingStatusConfirmed})
	if clock != "" {
		q = q.Where("booking_time = ?", clock)
	}
	if exclude != 0 {
		q = q.Where("id <> ?", exclude)
	}
	var booked int64
	if err := q.Select("COALESCE(SUM(adults + kids), 0)").Scan(&booked).Error; err != nil {
		return nil, errors.Wrap(err, "count booked guests")
	}

	a.Booked = int(booked)
	a.Remaining = capacity - a.Booked
	if a.Remaining < 0 {
		a.Remaining = 0
	}
	a.Available = a.Remaining > 0
	if !a.Available {
		a.Reason = "This slot is fully booked"
	}
	return a, nil
}

// blockOn returns the first block covering date, including yearly recurring ones.
func blockOn(tx *gorm.DB, date string) (*models.BookingBlock, error) {
	var fixed models.BookingBlock
	if err := tx.Where("recurring = ? AND start_date <= ? AND end_date >= ?", false, date, date).
		Order("start_date ASC").Limit(1).Find(&fixed).Error; err != nil {
		return nil, errors.Wrap(err, "find booking block")
	}
	if fixed.ID != 0 {
		return &fixed, nil
	}

	var recurring []models.BookingBlock
	if err := tx.Where("recurring = ?", true).Order("start_date ASC").Find(&recurring).Error; err != nil {
		return nil, errors.Wrap(err, "find recurring blocks")
	}
	for i := range recurring {
		if coversYearly(recurring[i], date) {
			return &recurring[i], nil
		}
	}
	return nil, nil
}

// coversYearly compares the MM-DD part only; a range like 12-24..01-02 wraps the new year.
func coversYearly(b models.BookingBlock, date string) bool {
	if len(b.StartDate) < 10 || len(b.EndDate) < 10 || len(date) < 10 {
		return false
	}
	start, end, md := b.StartDate[5:], b.EndDate[5:], date[5:]
	if start <= end {
		return md >= start && md <= end
	}
	return md >= start || md <= end
}

type BlockInput struct {
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
	Reason    string `json:"reason"`
	Type      string `json:"type"`
	Recurring bool   `json:"recurring"`
}

func (in *BlockInput) validate() error {
	verr := NewValidationError()
	if !validDate(in.StartDate) {
		verr.Add("startDate", "Start date must be YYYY-MM-DD")
	}
	if in.EndDate == "" {
		in.EndDate = in.StartDate
	}
	if !validDate(in.EndDate) {
		verr.Add("endDate", "End date must be YYYY-MM-DD")
	} else if validDate(in.StartDate) && in.EndDate < in.StartDate && !in.Recurring {
		verr.Add("endDate", "End date cannot be before start date")
	}
	if in.Type == "" {
		in.Type = models.BlockClosed
	}
	if !oneOf(in.Type, models.BlockTypes) {
		verr.Add("type", "Type must be one of "+strings.Join(models.BlockTypes, ", "))
	}
	return verr.OrNil()
}

func (s *CalendarService) ListBlocks(from, to string) ([]models.BookingBlock, error) {
	q := s.DB.Model(&models.BookingBlock{})
	if from != "" {
		q = q.Where("recurring = ? OR end_date >= ?", true, from)
	}
	if to != "" {
		q = q.Where("recurring = ? OR start_date <= ?", true, to)
	}
	var blocks []models.BookingBlock
	err := q.Order("start_date ASC").Find(&blocks).Error
	return blocks, errors.Wrap(err, "list booking blocks")
}

func (s *CalendarService) GetBlock(id uint) (*models.BookingBlock, error) {
	var b models.BookingBlock
	if err := s.DB.First(&b, id).Error; err != nil {
		return nil, dbErr(err, "find booking block")
	}
	return &b, nil
}

func (s *CalendarService) CreateBlock(in BlockInput) (*models.BookingBlock, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	b := models.BookingBlock{
		StartDate: in.StartDate,
		EndDate:   in.EndDate,
		Reason:    strings.TrimSpace(in.Reason),
		Type:      in.Type,
		Recurring: in.Recurring,
	}
	if err := s.DB.Create(&b).Error; err != nil {
		return nil, dbErr(err, "create booking block")
	}
	return &b, nil
}

func (s *CalendarService) UpdateBlock(id uint, in BlockInput) (*models.BookingBlock, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	b, err := s.GetBlock(id)
	if err != nil {
		return nil, err
	}
	b.StartDate, b.EndDate = in.StartDate, in.EndDate
	b.Reason = strings.TrimSpace(in.Reason)
	b.Type, b.Recurring = in.Type, in.Recurring
	if err := s.DB.Save(b).Error; err != nil {
		return nil, dbErr(err, "update booking block")
	}
	return b, nil
}

func (s *CalendarService) DeleteBlock(id uint) error {
	res := s.DB.Delete(&models.BookingBlock{}, id)
	if res.Error != nil {
		return errors.Wrap(res.Error, "delete booking block")
	}
	if res.RowsAffected == 0 {
		return errors.Wrap(ErrNotFound, "delete booking block")
	}
	return nil
}
