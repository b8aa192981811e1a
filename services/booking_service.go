package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"ninjapark-backend/models"
	"ninjapark-backend/utils"
)

const referencePrefix = "NP"

// BookingService handles session, party and manual bookings.
type BookingService struct {
	DB       *gorm.DB
	Vouchers *VoucherService
	Settings *SettingsService
	Mailer   utils.Mailer
	Log      *slog.Logger
	Now      func() time.Time
}

func NewBookingService(db *gorm.DB, vouchers *VoucherService, settings *SettingsService, mailer utils.Mailer, log *slog.Logger) *BookingService {
	return &BookingService{
		DB:       db,
		Vouchers: vouchers,
		Settings: settings,
		Mailer:   mailer,
		Log:      log,
		Now:      time.Now,
	}
}

type BookingInput struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	Date        string `json:"date"`
	Time        string `json:"time"`
	Duration    string `json:"duration"`
	Adults      int    `json:"adults"`
	Kids        int    `json:"kids"`
	Spectators  int    `json:"spectators"`
	VoucherCode string `json:"voucherCode"`
	Notes       string `json:"notes"`
}

type PartyBookingInput struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Phone           string `json:"phone"`
	Date            string `json:"date"`
	Time            string `json:"time"`
	Participants    int    `json:"participants"`
	Spectators      int    `json:"spectators"`
	PackageName     string `json:"packageName"`
	ChildName       string `json:"childName"`
	ChildAge        int    `json:"childAge"`
	SpecialRequests string `json:"specialRequests"`
	VoucherCode     string `json:"voucherCode"`
}

// ManualBookingInput is a booking keyed in by staff, e.g. a walk-in or phone booking.
type ManualBookingInput struct {
	BookingInput
	BookingStatus string `json:"bookingStatus"`
	PaymentStatus string `json:"paymentStatus"`
}

func (in *BookingInput) normalize() {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = normalizeEmail(in.Email)
	in.Phone = strings.TrimSpace(in.Phone)
	in.Date = strings.TrimSpace(in.Date)
	in.Time = strings.TrimSpace(in.Time)
	in.Duration = strings.TrimSpace(in.Duration)
	if in.Duration == "" {
		in.Duration = StandardSessionDuration
	}
	in.VoucherCode = utils.NormalizeCode(in.VoucherCode)
}

func (in BookingInput) validate(today string, allowPast bool) error {
	verr := NewValidationError()
	validateContact(verr, in.Name, in.Email, in.Phone)
	validateSlot(verr, in.Date, in.Time, today, allowPast)
	if !validDuration(in.Duration) {
		verr.Add("duration", "Duration must be 60 or 120 minutes")
	}
	if in.Adults < 0 || in.Kids < 0 || in.Spectators < 0 {
		verr.Add("guests", "Guest counts cannot be negative")
	} else if in.Adults+in.Kids == 0 {
		verr.Add("guests", "At least one jumper is required")
	}
	return verr.OrNil()
}

func validateContact(verr *ValidationError, name, email, phone string) {
	if name == "" {
		verr.Add("name", "Name is required")
	}
	if !validEmail(email) {
		verr.Add("email", "Invalid email address")
	}
	if phone == "" {
		verr.Add("phone", "Phone is required")
	}
}

func validateSlot(verr *ValidationError, date, clock, today string, allowPast bool) {
	switch {
	case !validDate(date):
		verr.Add("date", "Date must be YYYY-MM-DD")
	case !allowPast && date < today:
		verr.Add("date", "Date cannot be in the past")
	}
	if !validClock(clock) {
		verr.Add("time", "Time must be HH:MM")
	}
}

func (s *BookingService) today() string {
	return s.Now().Format("2006-01-02")
}

// Quote prices a session without saving anything or consuming the voucher.
func (s *BookingService) Quote(in BookingInput) (*Quote, error) {
	in.normalize()
	verr := NewValidationError()
	if in.Adults < 0 || in.Kids < 0 || in.Spectators < 0 {
		verr.Add("guests", "Guest counts cannot be negative")
	}
	if err := verr.OrNil(); err != nil {
		return nil, err
	}
	settings, err := s.Settings.Get()
	if err != nil {
		return nil, err
	}
	subtotal := SessionSubtotal(PriceListFromSettings(*settings), in.Duration, in.Adults, in.Kids, in.Spectators)
	discount := 0.0
	if in.VoucherCode != "" {
		res, err := s.Vouchers.Validate(in.VoucherCode, subtotal)
		if err != nil {
			return nil, err
		}
		discount = res.Discount
	}
	q := NewQuote(subtotal, discount)
	return &q, nil
}

// CreateSession books a public jump session. New bookings are CONFIRMED with
// payment and waiver PENDING.
func (s *BookingService) CreateSession(ctx context.Context, in BookingInput) (*models.Booking, error) {
	in.normalize()
	if err := in.validate(s.today(), false); err != nil {
		return nil, err
	}
	settings, err := s.Settings.Get()
	if err != nil {
		return nil, err
	}
	if settings.MaintenanceMode {
		return nil, rule(ErrUnavailable, "The park is closed for maintenance")
	}
	if !settings.OnlineBookingEnabled {
		return nil, rule(ErrUnavailable, "Online booking is currently disabled")
	}

	b := s.sessionDraft(in, settings)
	b.Type = models.BookingTypeSession
	b.BookingStatus = models.BookingStatusConfirmed
	b.PaymentStatus = models.PaymentStatusPending

	if err := s.persist(ctx, b, in.VoucherCode, settings); err != nil {
		return nil, err
	}
	s.sendConfirmation(settings, b)
	return b, nil
}

// CreateManual records a staff-entered booking. Toggles and past dates are not enforced.
func (s *BookingService) CreateManual(ctx context.Context, in ManualBookingInput) (*models.Booking, error) {
	in.normalize()
	verr := NewValidationError()
	var inputErr *ValidationError
	if errors.As(in.BookingInput.validate(s.today(), true), &inputErr) {
		verr = inputErr
	}
	if in.BookingStatus == "" {
		in.BookingStatus = models.BookingStatusConfirmed
	}
	if in.PaymentStatus == "" {
		in.PaymentStatus = models.PaymentStatusPending
	}
	if !oneOf(in.BookingStatus, models.BookingStatuses) {
		verr.Add("bookingStatus", "Unknown booking status")
	}
	if !oneOf(in.PaymentStatus, models.PaymentStatuses) {
		verr.Add("paymentStatus", "Unknown payment status")
	}
	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	settings, err := s.Settings.Get()
	if err != nil {
		return nil, err
	}
	b := s.sessionDraft(in.BookingInput, settings)
	b.Type = models.BookingTypeManual
	b.BookingStatus = in.BookingStatus
	b.PaymentStatus = in.PaymentStatus

	if err := s.persist(ctx, b, in.VoucherCode, settings); err != nil {
		return nil, err
	}
	s.sendConfirmation(settings, b)
	return b, nil
}

// CreateParty books a two hour party. It stays PENDING until the 50% deposit is paid.
func (s *BookingService) CreateParty(ctx context.Context, in PartyBookingInput) (*models.Booking, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = normalizeEmail(in.Email)
	in.Phone = strings.TrimSpace(in.Phone)
	in.VoucherCode = utils.NormalizeCode(in.VoucherCode)

	verr := NewValidationError()
	validateContact(verr, in.Name, in.Email, in.Phone)
	validateSlot(verr, strings.TrimSpace(in.Date), strings.TrimSpace(in.Time), s.today(), false)
	if in.Participants < 1 {
		verr.Add("participants", "At least one participant is required")
	}
	if in.Spectators < 0 {
		verr.Add("spectators", "Spectators cannot be negative")
	}
	if in.ChildAge < 0 || in.ChildAge > 18 {
		verr.Add("childAge", "Child age must be between 0 and 18")
	}
	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	settings, err := s.Settings.Get()
	if err != nil {
		return nil, err
	}
	if settings.MaintenanceMode {
		return nil, rule(ErrUnavailable, "The park is closed for maintenance")
	}
	if !settings.PartyBookingsEnabled {
		return nil, rule(ErrUnavailable, "Party bookings are currently disabled")
	}

	b := &models.Booking{
		Name:            in.Name,
		Email:           in.Email,
		Phone:           in.Phone,
		Date:            strings.TrimSpace(in.Date),
		Time:            strings.TrimSpace(in.Time),
		Duration:        ExtendedSessionDuration,
		Kids:            in.Participants,
		Spectators:      in.Spectators,
		Subtotal:        PartySubtotal(in.Participants, in.Spectators),
		Type:            models.BookingTypeParty,
		BookingStatus:   models.BookingStatusPending,
		PaymentStatus:   models.PaymentStatusPending,
		WaiverStatus:    models.WaiverStatusPending,
		PackageName:     strings.TrimSpace(in.PackageName),
		ChildName:       strings.TrimSpace(in.ChildName),
		ChildAge:        in.ChildAge,
		SpecialRequests: strings.TrimSpace(in.SpecialRequests),
	}
	if err := s.persist(ctx, b, in.VoucherCode, settings); err != nil {
		return nil, err
	}
	s.sendConfirmation(settings, b)
	return b, nil
}

func (s *BookingService) sessionDraft(in BookingInput, settings *models.GlobalSettings) *models.Booking {
	return &models.Booking{
		Name:         in.Name,
		Email:        in.Email,
		Phone:        in.Phone,
		Date:         in.Date,
		Time:         in.Time,
		Duration:     in.Duration,
		Adults:       in.Adults,
		Kids:         in.Kids,
		Spectators:   in.Spectators,
		Notes:        strings.TrimSpace(in.Notes),
		Subtotal:     SessionSubtotal(PriceListFromSettings(*settings), in.Duration, in.Adults, in.Kids, in.Spectators),
		WaiverStatus: models.WaiverStatusPending,
	}
}

// persist checks capacity, links the customer, redeems the voucher and saves b in one transaction.
func (s *BookingService) persist(ctx context.Context, b *models.Booking, voucherCode string, settings *models.GlobalSettings) error {
	capacity := settings.SessionCapacity
	if capacity <= 0 {
		capacity = DefaultSessionCapacity
	}

	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := checkSlot(tx, b, capacity); err != nil {
			return err
		}

		customer, err := upsertCustomer(tx, b.Name, b.Email, b.Phone)
		if err != nil {
			return err
		}
		b.CustomerID = &customer.ID

		discount := 0.0
		if voucherCode != "" {
			v, d, err := s.Vouchers.redeem(tx, voucherCode, b.Subtotal)
			if err != nil {
				return err
			}
			b.VoucherID = &v.ID
			b.VoucherCode = v.Code
			discount = d
		}

		q := NewQuote(b.Subtotal, discount)
		b.GST, b.DiscountAmount, b.Amount = q.GST, q.Discount, q.Total
		if b.Type == models.BookingTypeParty {
			b.DepositAmount = roundMoney(b.Amount * PartyDepositRate)
		}

		if b.Reference, err = uniqueReference(tx); err != nil {
			return err
		}
		if b.QRCode, err = BookingQRCode(*b); err != nil {
			return err
		}
		return dbErr(tx.Create(b).Error, "create booking")
	})
}

// checkSlot rejects b when its date is blocked or its jumpers do not fit.
func checkSlot(tx *gorm.DB, b *models.Booking, capacity int) error {
	avail, err := availability(tx, b.Date, b.Time, capacity, b.ID)
	if err != nil {
		return err
	}
	if !avail.Available {
		return rule(ErrUnavailable, "%s", avail.Reason)
	}
	if b.Guests() > avail.Remaining {
		return rule(ErrUnavailable, "Only %d places left for this slot", avail.Remaining)
	}
	return nil
}

func validDuration(d string) bool {
	return d == StandardSessionDuration || d == ExtendedSessionDuration
}

func uniqueReference(tx *gorm.DB) (string, error) {
	for attempt := 0; attempt < 5; attempt++ {
		ref, err := utils.GenerateReference(referencePrefix, 8)
		if err != nil {
			return "", errors.Wrap(err, "generate reference")
		}
		var n int64
		if err := tx.Unscoped().Model(&models.Booking{}).Where("reference = ?", ref).Count(&n).Error; err != nil {
			return "", errors.Wrap(err, "check reference")
		}
		if n == 0 {
			return ref, nil
		}
	}
	return "", errors.New("could not allocate a unique booking reference")
}

func (s *BookingService) sendConfirmation(settings *models.GlobalSettings, b *models.Booking) {
	if s.Mailer == nil {
		return
	}
	subject, plain, html := utils.BookingConfirmationEmail(settings.ParkName, *b)
	if err := s.Mailer.Send(b.Email, subject, plain, html); err != nil {
		s.Log.Warn("booking confirmation email failed", "reference", b.Reference, "error", err)
	}
}

type BookingFilter struct {
	Search        string
	Status        string
	PaymentStatus string
	WaiverStatus  string
	Type          string
	Date          string
	From          string
	To            string
}

func (f BookingFilter) apply(q *gorm.DB) *gorm.DB {
	if term := strings.TrimSpace(f.Search); term != "" {
		like := "%" + strings.ToLower(term) + "%"
		q = q.Where("LOWER(name) LIKE ? OR LOWER(email) LIKE ? OR phone LIKE ? OR LOWER(reference) LIKE ?", like, like, like, like)
	}
	if f.Status != "" {
		q = q.Where("booking_status = ?", f.Status)
	}
	if f.PaymentStatus != "" {
		q = q.Where("payment_status = ?", f.PaymentStatus)
	}
	if f.WaiverStatus != "" {
		q = q.Where("waiver_status = ?", f.WaiverStatus)
	}
	if f.Type != "" {
		q = q.Where("type = ?", f.Type)
	}
	if f.Date != "" {
		q = q.Where("booking_date = ?", f.Date)
	}
	if f.From != "" {
		q = q.Where("booking_date >= ?", f.From)
	}
	if f.To != "" {
		q = q.Where("booking_date <= ?", f.To)
	}
	return q
}

func (s *BookingService) List(f BookingFilter, p utils.PageParams) ([]models.Booking, int64, error) {
	q := f.apply(s.DB.Model(&models.Booking{}))
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, errors.Wrap(err, "count bookings")
	}
	var bookings []models.Booking
	err := q.Omit("qr_code").Order("created_at DESC").Offset(p.Offset()).Limit(p.Limit).Find(&bookings).Error
	return bookings, total, errors.Wrap(err, "list bookings")
}

// Get loads a booking with its customer, voucher and waivers.
func (s *BookingService) Get(id uint) (*models.Booking, error) {
	var b models.Booking
	if err := s.DB.Preload("Customer").Preload("Voucher").Preload("Waivers").First(&b, id).Error; err != nil {
		return nil, dbErr(err, "find booking")
	}
	return &b, nil
}

func (s *BookingService) GetByReference(ref string) (*models.Booking, error) {
	var b models.Booking
	if err := s.DB.Where("reference = ?", utils.NormalizeCode(ref)).First(&b).Error; err != nil {
		return nil, dbErr(err, "find booking")
	}
	return &b, nil
}

type BookingUpdateInput struct {
	Name       *string `json:"name"`
	Email      *string `json:"email"`
	Phone      *string `json:"phone"`
	Date       *string `json:"date"`
	Time       *string `json:"time"`
	Duration   *string `json:"duration"`
	Adults     *int    `json:"adults"`
	Kids       *int    `json:"kids"`
	Spectators *int    `json:"spectators"`
	Notes      *string `json:"notes"`
}

// Update edits booking details. Changing guests or duration reprices the
// booking, keeping the discount already granted. A live booking moved to another
// slot or given more jumpers must still fit: blocks and capacity apply as on create.
func (s *BookingService) Update(id uint, in BookingUpdateInput) (before, after *models.Booking, err error) {
	settings, err := s.Settings.Get()
	if err != nil {
		return nil, nil, err
	}
	var b models.Booking
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&b, id).Error; err != nil {
			return dbErr(err, "find booking")
		}
		prev := b
		before = &prev

		setString(&b.Name, in.Name)
		if in.Email != nil {
			b.Email = normalizeEmail(*in.Email)
		}
		setString(&b.Phone, in.Phone)
		setString(&b.Date, in.Date)
		setString(&b.Time, in.Time)
		setString(&b.Duration, in.Duration)
		setValue(&b.Adults, in.Adults)
		setValue(&b.Kids, in.Kids)
		setValue(&b.Spectators, in.Spectators)
		setString(&b.Notes, in.Notes)

		verr := NewValidationError()
		validateContact(verr, b.Name, b.Email, b.Phone)
		validateSlot(verr, b.Date, b.Time, "", true)
		if !validDuration(b.Duration) {
			verr.Add("duration", "Duration must be 60 or 120 minutes")
		}
		if b.Adults < 0 || b.Kids < 0 || b.Spectators < 0 {
			verr.Add("guests", "Guest counts cannot be negative")
		} else if b.Adults+b.Kids == 0 {
			verr.Add("guests", "At least one jumper is required")
		}
		if err := verr.OrNil(); err != nil {
			return err
		}

		moved := b.Date != prev.Date || b.Time != prev.Time || b.Guests() > prev.Guests()
		live := b.BookingStatus == models.BookingStatusPending || b.BookingStatus == models.BookingStatusConfirmed
		if moved && live {
			capacity := settings.SessionCapacity
			if capacity <= 0 {
				capacity = DefaultSessionCapacity
			}
			if err := checkSlot(tx, &b, capacity); err != nil {
				return err
			}
		}

		repriced := b.Adults != prev.Adults || b.Kids != prev.Kids || b.Spectators != prev.Spectators || b.Duration != prev.Duration
		if repriced {
			if b.Type == models.BookingTypeParty {
				b.Subtotal = PartySubtotal(b.Kids, b.Spectators)
			} else {
				b.Subtotal = SessionSubtotal(PriceListFromSettings(*settings), b.Duration, b.Adults, b.Kids, b.Spectators)
			}
			q := NewQuote(b.Subtotal, b.DiscountAmount)
			b.GST, b.DiscountAmount, b.Amount = q.GST, q.Discount, q.Total
			if b.Type == models.BookingTypeParty {
				b.DepositAmount = roundMoney(b.Amount * PartyDepositRate)
			}
		}
		if b.Reference != "" && (repriced || b.Date != prev.Date || b.Time != prev.Time || b.Name != prev.Name) {
			qr, err := BookingQRCode(b)
			if err != nil {
				return err
			}
			b.QRCode = qr
		}
		return dbErr(tx.Save(&b).Error, "update booking")
	})
	if err != nil {
		return nil, nil, err
	}
	return before, &b, nil
}

var bookingTransitions = map[string][]string{
	models.BookingStatusPending:   {models.BookingStatusConfirmed, models.BookingStatusCancelled, models.BookingStatusCompleted},
	models.BookingStatusConfirmed: {models.BookingStatusPending, models.BookingStatusCancelled, models.BookingStatusCompleted},
}

// CanTransition reports whether a booking may move from one status to another.
// CANCELLED and COMPLETED are final.
func CanTransition(from, to string) bool {
	if from == to {
		return true
	}
	return oneOf(to, bookingTransitions[from])
}

type StatusInput struct {
	BookingStatus *string `json:"bookingStatus"`
	PaymentStatus *string `json:"paymentStatus"`
	WaiverStatus  *string `json:"waiverStatus"`
}

// UpdateStatus changes booking, payment or waiver status. Cancelling a booking
// gives its voucher use back.
func (s *BookingService) UpdateStatus(id uint, in StatusInput) (before, after *models.Booking, err error) {
	verr := NewValidationError()
	if in.BookingStatus == nil && in.PaymentStatus == nil && in.WaiverStatus == nil {
		verr.Add("status", "Nothing to update")
	}
	if in.BookingStatus != nil && !oneOf(*in.BookingStatus, models.BookingStatuses) {
		verr.Add("bookingStatus", "Unknown booking status")
	}
	if in.PaymentStatus != nil && !oneOf(*in.PaymentStatus, models.PaymentStatuses) {
		verr.Add("paymentStatus", "Unknown payment status")
	}
	if in.WaiverStatus != nil && !oneOf(*in.WaiverStatus, models.WaiverStatuses) {
		verr.Add("waiverStatus", "Unknown waiver status")
	}
	if err := verr.OrNil(); err != nil {
		return nil, nil, err
	}

	var b models.Booking
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&b, id).Error; err != nil {
			return dbErr(err, "find booking")
		}
		prev := b
		before = &prev

		if in.BookingStatus != nil {
			if !CanTransition(b.BookingStatus, *in.BookingStatus) {
				return rule(ErrValidation, "Cannot change a %s booking to %s", b.BookingStatus, *in.BookingStatus)
			}
			if *in.BookingStatus == models.BookingStatusCancelled && b.BookingStatus != models.BookingStatusCancelled && b.VoucherID != nil {
				if err := releaseVoucher(tx, *b.VoucherID); err != nil {
					return err
				}
			}
			b.BookingStatus = *in.BookingStatus
		}
		if in.PaymentStatus != nil {
			if *in.PaymentStatus == models.PaymentStatusRefunded && b.PaymentStatus != models.PaymentStatusPaid && b.PaymentStatus != models.PaymentStatusRefunded {
				return rule(ErrValidation, "Only a paid booking can be refunded")
			}
			b.PaymentStatus = *in.PaymentStatus
		}
		if in.WaiverStatus != nil {
			b.WaiverStatus = *in.WaiverStatus
		}
		return errors.Wrap(tx.Save(&b).Error, "save booking status")
	})
	if err != nil {
		return nil, nil, err
	}
	return before, &b, nil
}

// Delete removes a booking. A live booking that used a voucher gives the use
// back, as cancelling does.
func (s *BookingService) Delete(id uint) (*models.Booking, error) {
	var b models.Booking
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&b, id).Error; err != nil {
			return dbErr(err, "find booking")
		}
		live := b.BookingStatus == models.BookingStatusPending || b.BookingStatus == models.BookingStatusConfirmed
		if live && b.VoucherID != nil {
			if err := releaseVoucher(tx, *b.VoucherID); err != nil {
				return err
			}
		}
		return errors.Wrap(tx.Delete(&b).Error, "delete booking")
	})
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func releaseVoucher(tx *gorm.DB, voucherID uint) error {
	err := tx.Model(&models.Voucher{}).Where("id = ? AND used_count > 0", voucherID).
		UpdateColumn("used_count", gorm.Expr("used_count - 1")).Error
	return errors.Wrap(err, "release voucher")
}

type DashboardStats struct {
	TotalBookings     int64            `json:"totalBookings"`
	TodayBookings     int64            `json:"todayBookings"`
	UpcomingBookings  int64            `json:"upcomingBookings"`
	PendingBookings   int64            `json:"pendingBookings"`
	ConfirmedBookings int64            `json:"confirmedBookings"`
	PartyBookings     int64            `json:"partyBookings"`
	TotalRevenue      float64          `json:"totalRevenue"`
	PendingWaivers    int64            `json:"pendingWaivers"`
	UnreadMessages    int64            `json:"unreadMessages"`
	RecentBookings    []models.Booking `json:"recentBookings"`
}

// Dashboard summarises bookings for the admin home page. Revenue counts PAID bookings only.
func (s *BookingService) Dashboard() (*DashboardStats, error) {
	var st DashboardStats
	today := s.today()
	live := []string{models.BookingStatusPending, models.BookingStatusConfirmed}

	counts := []struct {
		dst   *int64
		query func(*gorm.DB) *gorm.DB
	}{
		{&st.TotalBookings, func(q *gorm.DB) *gorm.DB { return q }},
		{&st.TodayBookings, func(q *gorm.DB) *gorm.DB { return q.Where("booking_date = ?", today) }},
		{&st.UpcomingBookings, func(q *gorm.DB) *gorm.DB {
			return q.Where("booking_date >= ? AND booking_status IN ?", today, live)
		}},
		{&st.PendingBookings, func(q *gorm.DB) *gorm.DB { return q.Where("booking_status = ?", models.BookingStatusPending) }},
		{&st.ConfirmedBookings, func(q *gorm.DB) *gorm.DB { return q.Where("booking_status = ?", models.BookingStatusConfirmed) }},
		{&st.PartyBookings, func(q *gorm.DB) *gorm.DB { return q.Where("type = ?", models.BookingTypeParty) }},
		{&st.PendingWaivers, func(q *gorm.DB) *gorm.DB {
			return q.Where("waiver_status = ? AND booking_status IN ?", models.WaiverStatusPending, live)
		}},
	}
	for _, c := range counts {
		if err := c.query(s.DB.Model(&models.Booking{})).Count(c.dst).Error; err != nil {
			return nil, errors.Wrap(err, "dashboard counts")
		}
	}

	if err := s.DB.Model(&models.Booking{}).Where("payment_status = ?", models.PaymentStatusPaid).
		Select("COALESCE(SUM(amount), 0)").Scan(&st.TotalRevenue).Error; err != nil {
		return nil, errors.Wrap(err, "sum revenue")
	}
	if err := s.DB.Model(&models.ContactMessage{}).Where("is_read = ?", false).Count(&st.UnreadMessages).Error; err != nil {
		return nil, errors.Wrap(err, "count unread messages")
	}
	if err := s.DB.Omit("qr_code").Order("created_at DESC").Limit(5).Find(&st.RecentBookings).Error; err != nil {
		return nil, errors.Wrap(err, "recent bookings")
	}
	st.TotalRevenue = roundMoney(st.TotalRevenue)
	return &st, nil
}

// DescribeBooking is used in audit details and logs.
func DescribeBooking(b models.Booking) string {
	return fmt.Sprintf("%s %s %s %s (%d guests)", b.Reference, b.Type, b.Date, b.Time, b.Adults+b.Kids+b.Spectators)
}
