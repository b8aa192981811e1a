package services

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"ninjapark-backend/models"
)

type bookingFixture struct {
	db       *gorm.DB
	bookings *BookingService
	vouchers *VoucherService
	settings *SettingsService
	mailer   *recordingMailer
}

func newBookingFixture(t *testing.T) *bookingFixture {
	t.Helper()
	db := newTestDB(t)
	settings := NewSettingsService(db)
	vouchers := NewVoucherService(db)
	mailer := &recordingMailer{}
	bookings := NewBookingService(db, vouchers, settings, mailer, discardLogger())
	bookings.Now = fixedClock("2026-05-01")
	return &bookingFixture{db: db, bookings: bookings, vouchers: vouchers, settings: settings, mailer: mailer}
}

func (f *bookingFixture) setCapacity(t *testing.T, n int) {
	t.Helper()
	_, _, err := f.settings.Update(SettingsInput{SessionCapacity: ptr(n)}, models.RoleManager)
	require.NoError(t, err)
}

func sessionInput() BookingInput {
	return BookingInput{
		Name:   "Asha Rao",
		Email:  "Asha@Example.com",
		Phone:  "9876543210",
		Date:   "2026-05-10",
		Time:   "11:00",
		Adults: 2,
		Kids:   1,
	}
}

func TestCreateSessionBooking(t *testing.T) {
	f := newBookingFixture(t)

	b, err := f.bookings.CreateSession(context.Background(), sessionInput())
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(b.Reference, "NP-"))
	assert.Equal(t, models.BookingTypeSession, b.Type)
	assert.Equal(t, models.BookingStatusConfirmed, b.BookingStatus)
	assert.Equal(t, models.PaymentStatusPending, b.PaymentStatus)
	assert.Equal(t, models.WaiverStatusPending, b.WaiverStatus)
	assert.Equal(t, "asha@example.com", b.Email)
	assert.Equal(t, 2298.0, b.Subtotal)
	assert.Equal(t, 413.64, b.GST)
	assert.Equal(t, 2711.64, b.Amount)
	assert.True(t, strings.HasPrefix(b.QRCode, "data:image/png;base64,"))
	require.NotNil(t, b.CustomerID)

	found, err := f.bookings.GetByReference(strings.ToLower(b.Reference))
	require.NoError(t, err)
	assert.Equal(t, b.ID, found.ID)

	require.Len(t, f.mailer.sent, 1)
	assert.Equal(t, "asha@example.com", f.mailer.sent[0].To)
}

func TestCreateSessionValidation(t *testing.T) {
	f := newBookingFixture(t)

	in := sessionInput()
	in.Email = "not-an-email"
	in.Date = "2026-04-30"
	in.Adults, in.Kids = 0, 0
	_, err := f.bookings.CreateSession(context.Background(), in)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, []string{"email", "date", "guests"}, verr.Keys())
}

func TestCreateSessionRespectsToggles(t *testing.T) {
	f := newBookingFixture(t)

	_, _, err := f.settings.Update(SettingsInput{MaintenanceMode: ptr(true)}, models.RoleSuperAdmin)
	require.NoError(t, err)
	_, err = f.bookings.CreateSession(context.Background(), sessionInput())
	assert.ErrorIs(t, err, ErrUnavailable)

	_, _, err = f.settings.Update(SettingsInput{MaintenanceMode: ptr(false), OnlineBookingEnabled: ptr(false)}, models.RoleSuperAdmin)
	require.NoError(t, err)
	_, err = f.bookings.CreateSession(context.Background(), sessionInput())
	assert.EqualError(t, err, "Online booking is currently disabled")

	// Staff can still key in bookings while online booking is off.
	_, err = f.bookings.CreateManual(context.Background(), ManualBookingInput{BookingInput: sessionInput()})
	assert.NoError(t, err)
}

func TestCreateSessionCapacity(t *testing.T) {
	f := newBookingFixture(t)
	f.setCapacity(t, 4)

	_, err := f.bookings.CreateSession(context.Background(), sessionInput())
	require.NoError(t, err)

	_, err = f.bookings.CreateSession(context.Background(), sessionInput())
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.EqualError(t, err, "Only 1 places left for this slot")

	other := sessionInput()
	other.Time = "13:00"
	_, err = f.bookings.CreateSession(context.Background(), other)
	assert.NoError(t, err, "capacity is per time slot")
}

func TestCreateSessionOnBlockedDate(t *testing.T) {
	f := newBookingFixture(t)
	cal := NewCalendarService(f.db, f.settings)
	_, err := cal.CreateBlock(BlockInput{StartDate: "2026-05-10", Reason: "Private event", Type: models.BlockPrivateEvent})
	require.NoError(t, err)

	_, err = f.bookings.CreateSession(context.Background(), sessionInput())
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.EqualError(t, err, "Private event")
}

func TestCreateSessionRedeemsVoucher(t *testing.T) {
	f := newBookingFixture(t)
	v, err := f.vouchers.Create(VoucherInput{Code: "JUMP500", DiscountType: models.DiscountFlat, DiscountValue: 500, UsageLimit: ptr(1)})
	require.NoError(t, err)

	in := sessionInput()
	in.VoucherCode = "jump500"
	b, err := f.bookings.CreateSession(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, 500.0, b.DiscountAmount)
	assert.Equal(t, 2211.64, b.Amount)
	assert.Equal(t, "JUMP500", b.VoucherCode)
	require.NotNil(t, b.VoucherID)
	assert.Equal(t, v.ID, *b.VoucherID)

	_, err = f.bookings.CreateSession(context.Background(), in)
	assert.EqualError(t, err, "This voucher has reached its usage limit")

	var n int64
	require.NoError(t, f.db.Model(&models.Booking{}).Count(&n).Error)
	assert.Equal(t, int64(1), n, "a rejected voucher does not leave a booking behind")

	_, _, err = f.bookings.UpdateStatus(b.ID, StatusInput{BookingStatus: ptr(models.BookingStatusCancelled)})
	require.NoError(t, err)
	released, err := f.vouchers.Get(v.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, released.UsedCount)
}

func TestQuoteDoesNotConsumeVoucher(t *testing.T) {
	f := newBookingFixture(t)
	v, err := f.vouchers.Create(VoucherInput{Code: "TEN", DiscountType: models.DiscountPercentage, DiscountValue: 10, UsageLimit: ptr(1)})
	require.NoError(t, err)

	in := sessionInput()
	in.VoucherCode = "TEN"
	q, err := f.bookings.Quote(in)
	require.NoError(t, err)
	assert.Equal(t, 2298.0, q.Subtotal)
	assert.Equal(t, 229.8, q.Discount)

	stored, err := f.vouchers.Get(v.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, stored.UsedCount)
}

func TestCreatePartyBooking(t *testing.T) {
	f := newBookingFixture(t)

	b, err := f.bookings.CreateParty(context.Background(), PartyBookingInput{
		Name:         "Ravi",
		Email:        "ravi@example.com",
		Phone:        "9000000000",
		Date:         "2026-05-12",
		Time:         "16:00",
		Participants: 10,
		Spectators:   12,
		ChildName:    "Anu",
		ChildAge:     7,
	})
	require.NoError(t, err)
	assert.Equal(t, models.BookingTypeParty, b.Type)
	assert.Equal(t, models.BookingStatusPending, b.BookingStatus)
	assert.Equal(t, 15200.0, b.Subtotal)
	assert.Equal(t, 17936.0, b.Amount)
	assert.Equal(t, 8968.0, b.DepositAmount)
}

func TestUpdateStatusTransitions(t *testing.T) {
	f := newBookingFixture(t)
	b, err := f.bookings.CreateSession(context.Background(), sessionInput())
	require.NoError(t, err)

	_, _, err = f.bookings.UpdateStatus(b.ID, StatusInput{PaymentStatus: ptr(models.PaymentStatusRefunded)})
	assert.EqualError(t, err, "Only a paid booking can be refunded")

	_, after, err := f.bookings.UpdateStatus(b.ID, StatusInput{BookingStatus: ptr(models.BookingStatusCompleted), PaymentStatus: ptr(models.PaymentStatusPaid)})
	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusCompleted, after.BookingStatus)

	_, _, err = f.bookings.UpdateStatus(b.ID, StatusInput{BookingStatus: ptr(models.BookingStatusPending)})
	assert.ErrorIs(t, err, ErrValidation)

	_, _, err = f.bookings.UpdateStatus(b.ID, StatusInput{BookingStatus: ptr("LOST")})
	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)

	assert.True(t, CanTransition(models.BookingStatusPending, models.BookingStatusConfirmed))
	assert.False(t, CanTransition(models.BookingStatusCancelled, models.BookingStatusConfirmed))
}

func TestListBookingsAndDashboard(t *testing.T) {
	f := newBookingFixture(t)
	first, err := f.bookings.CreateSession(context.Background(), sessionInput())
	require.NoError(t, err)
	other := sessionInput()
	other.Name, other.Email = "Meera", "meera@example.com"
	_, err = f.bookings.CreateSession(context.Background(), other)
	require.NoError(t, err)
	_, _, err = f.bookings.UpdateStatus(first.ID, StatusInput{PaymentStatus: ptr(models.PaymentStatusPaid)})
	require.NoError(t, err)

	rows, total, err := f.bookings.List(BookingFilter{Search: "meera"}, defaultPage())
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, rows, 1)
	assert.Equal(t, "Meera", rows[0].Name)

	stats, err := f.bookings.Dashboard()
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.TotalBookings)
	assert.Equal(t, int64(2), stats.UpcomingBookings)
	assert.Equal(t, first.Amount, stats.TotalRevenue)
	assert.Equal(t, int64(2), stats.PendingWaivers)
	assert.Len(t, stats.RecentBookings, 2)
}

func TestUpdateBookingRepricesAndValidates(t *testing.T) {
	f := newBookingFixture(t)
	b, err := f.bookings.CreateSession(context.Background(), sessionInput())
	require.NoError(t, err)

	_, after, err := f.bookings.Update(b.ID, BookingUpdateInput{Adults: ptr(3)})
	require.NoError(t, err)
	assert.Equal(t, 3197.0, after.Subtotal)
	assert.Equal(t, 575.46, after.GST)
	assert.Equal(t, 3772.46, after.Amount)

	_, after, err = f.bookings.Update(b.ID, BookingUpdateInput{Duration: ptr(ExtendedSessionDuration)})
	require.NoError(t, err)
	assert.Equal(t, 5197.0, after.Subtotal)
	assert.Equal(t, 6132.46, after.Amount)

	var verr *ValidationError
	_, _, err = f.bookings.Update(b.ID, BookingUpdateInput{Duration: ptr("90")})
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, []string{"duration"}, verr.Keys())

	_, _, err = f.bookings.Update(b.ID, BookingUpdateInput{Adults: ptr(0), Kids: ptr(0)})
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, []string{"guests"}, verr.Keys())

	stored, err := f.bookings.Get(b.ID)
	require.NoError(t, err)
	assert.Equal(t, ExtendedSessionDuration, stored.Duration)
	assert.Equal(t, 3, stored.Adults)
	assert.Equal(t, 1, stored.Kids)
}

func TestUpdateBookingRespectsBlocksAndCapacity(t *testing.T) {
	f := newBookingFixture(t)
	f.setCapacity(t, 4)
	ctx := context.Background()

	b, err := f.bookings.CreateSession(ctx, sessionInput())
	require.NoError(t, err)

	// The booking's own jumpers do not count against it.
	_, _, err = f.bookings.Update(b.ID, BookingUpdateInput{Kids: ptr(2)})
	require.NoError(t, err)

	_, _, err = f.bookings.Update(b.ID, BookingUpdateInput{Kids: ptr(50)})
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.EqualError(t, err, "Only 4 places left for this slot")

	cal := NewCalendarService(f.db, f.settings)
	_, err = cal.CreateBlock(BlockInput{StartDate: "2026-05-20", Reason: "Private event", Type: models.BlockPrivateEvent})
	require.NoError(t, err)
	_, _, err = f.bookings.Update(b.ID, BookingUpdateInput{Date: ptr("2026-05-20")})
	assert.EqualError(t, err, "Private event")

	stored, err := f.bookings.Get(b.ID)
	require.NoError(t, err)
	assert.Equal(t, "2026-05-10", stored.Date)
	assert.Equal(t, 2, stored.Kids)

	other := sessionInput()
	other.Time, other.Adults, other.Kids = "13:00", 1, 0
	o, err := f.bookings.CreateSession(ctx, other)
	require.NoError(t, err)
	_, _, err = f.bookings.Update(o.ID, BookingUpdateInput{Time: ptr("11:00")})
	assert.EqualError(t, err, "This slot is fully booked")

	// Cancelled bookings hold no places, so they can be moved freely.
	_, _, err = f.bookings.UpdateStatus(o.ID, StatusInput{BookingStatus: ptr(models.BookingStatusCancelled)})
	require.NoError(t, err)
	_, after, err := f.bookings.Update(o.ID, BookingUpdateInput{Time: ptr("11:00")})
	require.NoError(t, err)
	assert.Equal(t, "11:00", after.Time)
}

func TestCreateManualAllowsPastDatesAndIgnoresToggles(t *testing.T) {
	f := newBookingFixture(t)
	_, _, err := f.settings.Update(SettingsInput{MaintenanceMode: ptr(true), OnlineBookingEnabled: ptr(false)}, models.RoleSuperAdmin)
	require.NoError(t, err)

	in := sessionInput()
	in.Date = "2026-04-20"
	b, err := f.bookings.CreateManual(context.Background(), ManualBookingInput{BookingInput: in, PaymentStatus: models.PaymentStatusPaid})
	require.NoError(t, err)
	assert.Equal(t, models.BookingTypeManual, b.Type)
	assert.Equal(t, models.BookingStatusConfirmed, b.BookingStatus)
	assert.Equal(t, models.PaymentStatusPaid, b.PaymentStatus)
	assert.Equal(t, "2026-04-20", b.Date)

	var verr *ValidationError
	_, err = f.bookings.CreateSession(context.Background(), in)
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, []string{"date"}, verr.Keys())

	_, err = f.bookings.CreateManual(context.Background(), ManualBookingInput{BookingInput: sessionInput(), BookingStatus: "LOST"})
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, []string{"bookingStatus"}, verr.Keys())
}

func TestDeleteBookingReleasesVoucher(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()
	v, err := f.vouchers.Create(VoucherInput{Code: "JUMP500", DiscountType: models.DiscountFlat, DiscountValue: 500, UsageLimit: ptr(1)})
	require.NoError(t, err)
	used := func() int {
		stored, err := f.vouchers.Get(v.ID)
		require.NoError(t, err)
		return stored.UsedCount
	}
	in := sessionInput()
	in.VoucherCode = "JUMP500"

	first, err := f.bookings.CreateSession(ctx, in)
	require.NoError(t, err)
	_, err = f.bookings.Delete(first.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, used())

	second, err := f.bookings.CreateSession(ctx, in)
	require.NoError(t, err)
	_, _, err = f.bookings.UpdateStatus(second.ID, StatusInput{BookingStatus: ptr(models.BookingStatusCancelled)})
	require.NoError(t, err)
	assert.Equal(t, 0, used())

	third, err := f.bookings.CreateSession(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, 1, used())

	// The cancelled booking already gave its use back.
	_, err = f.bookings.Delete(second.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, used())

	_, err = f.bookings.Delete(third.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, used())

	_, err = f.bookings.Delete(third.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}
