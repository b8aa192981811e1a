package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"ninjapark-backend/models"
)

func TestExportBookingsWorkbook(t *testing.T) {
	f := newBookingFixture(t)
	b, err := f.bookings.CreateSession(context.Background(), sessionInput())
	require.NoError(t, err)

	buf, err := NewExportService(f.db).Bookings(BookingFilter{})
	require.NoError(t, err)

	wb, err := excelize.OpenReader(buf)
	require.NoError(t, err)
	defer wb.Close()

	rows, err := wb.GetRows("Bookings")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Reference", rows[0][0])
	assert.Equal(t, b.Reference, rows[1][0])
	assert.Equal(t, "asha@example.com", rows[1][3])
}

func TestExportVouchersWorkbook(t *testing.T) {
	db := newTestDB(t)
	_, err := NewVoucherService(db).Create(VoucherInput{Code: "WELCOME", DiscountType: models.DiscountFlat, DiscountValue: 100})
	require.NoError(t, err)

	buf, err := NewExportService(db).Vouchers()
	require.NoError(t, err)
	wb, err := excelize.OpenReader(buf)
	require.NoError(t, err)
	defer wb.Close()

	rows, err := wb.GetRows("Vouchers")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "WELCOME", rows[1][0])
}
