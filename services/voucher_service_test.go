package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ninjapark-backend/models"
)

func TestCheckVoucherRuleOrder(t *testing.T) {
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	past := now.Add(-24 * time.Hour)

	tests := []struct {
		name    string
		voucher models.Voucher
		amount  float64
		want    string
	}{
		{
			name:    "inactive wins over expiry",
			voucher: models.Voucher{IsActive: false, ExpiryDate: &past},
			want:    "This voucher is no longer active",
		},
		{
			name:    "expired",
			voucher: models.Voucher{IsActive: true, ExpiryDate: &past, UsageLimit: ptr(1), UsedCount: 1},
			want:    "This voucher has expired",
		},
		{
			name:    "usage limit reached",
			voucher: models.Voucher{IsActive: true, UsageLimit: ptr(2), UsedCount: 2, MinOrderAmount: ptr(5000.0)},
			want:    "This voucher has reached its usage limit",
		},
		{
			name:    "minimum order",
			voucher: models.Voucher{IsActive: true, MinOrderAmount: ptr(1000.0)},
			amount:  999,
			want:    "Minimum order amount of ₹1000 required",
		},
		{
			name:    "zero limit means unlimited",
			voucher: models.Voucher{IsActive: true, UsageLimit: ptr(0), UsedCount: 50, MinOrderAmount: ptr(0.0)},
			amount:  10,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckVoucher(tt.voucher, tt.amount, now)
			if tt.want == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Equal(t, tt.want, err.Error())
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestComputeDiscount(t *testing.T) {
	pct := models.Voucher{DiscountType: models.DiscountPercentage, DiscountValue: 10}
	flat := models.Voucher{DiscountType: models.DiscountFlat, DiscountValue: 500}

	assert.Equal(t, 179.8, ComputeDiscount(pct, 1798))
	assert.Equal(t, 500.0, ComputeDiscount(flat, 1798))
	assert.Equal(t, 300.0, ComputeDiscount(flat, 300), "flat discount is capped at the order amount")
	assert.Equal(t, 0.0, ComputeDiscount(flat, 0))
}

func TestVoucherValidate(t *testing.T) {
	db := newTestDB(t)
	svc := NewVoucherService(db)

	_, err := svc.Create(VoucherInput{Code: " summer10 ", DiscountType: models.DiscountPercentage, DiscountValue: 10})
	require.NoError(t, err)

	res, err := svc.Validate("Summer10", 2000)
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, "SUMMER10", res.Code)
	assert.Equal(t, 200.0, res.Discount)

	_, err = svc.Validate("", 2000)
	assert.ErrorIs(t, err, ErrValidation)
	assert.EqualError(t, err, "Voucher code is required")

	_, err = svc.Validate("NOPE", 2000)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.EqualError(t, err, "Invalid voucher code")
}

func TestVoucherCreateRejectsDuplicatesAndBadInput(t *testing.T) {
	db := newTestDB(t)
	svc := NewVoucherService(db)

	_, err := svc.Create(VoucherInput{Code: "FLAT200", DiscountType: models.DiscountFlat, DiscountValue: 200})
	require.NoError(t, err)
	_, err = svc.Create(VoucherInput{Code: "flat200", DiscountType: models.DiscountFlat, DiscountValue: 100})
	assert.ErrorIs(t, err, ErrDuplicate)

	_, err = svc.Create(VoucherInput{Code: "BIG", DiscountType: models.DiscountPercentage, DiscountValue: 150})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "discountValue")
}

func TestVoucherRedeemStopsAtLimit(t *testing.T) {
	db := newTestDB(t)
	svc := NewVoucherService(db)

	_, err := svc.Create(VoucherInput{Code: "ONCE", DiscountType: models.DiscountFlat, DiscountValue: 100, UsageLimit: ptr(1)})
	require.NoError(t, err)

	v, discount, err := svc.redeem(db, "ONCE", 1000)
	require.NoError(t, err)
	assert.Equal(t, 100.0, discount)
	assert.Equal(t, 1, v.UsedCount)

	_, _, err = svc.redeem(db, "ONCE", 1000)
	assert.EqualError(t, err, "This voucher has reached its usage limit")

	stored, err := svc.Get(v.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, stored.UsedCount)
}

func TestVoucherStats(t *testing.T) {
	db := newTestDB(t)
	svc := NewVoucherService(db)
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	svc.Now = func() time.Time { return now }

	expired := now.AddDate(0, -1, 0)
	inputs := []VoucherInput{
		{Code: "OLD", DiscountType: models.DiscountFlat, DiscountValue: 50, ExpiryDate: &expired},
		{Code: "ONCE", DiscountType: models.DiscountFlat, DiscountValue: 100, UsageLimit: ptr(1)},
		{Code: "OFF", DiscountType: models.DiscountPercentage, DiscountValue: 5, IsActive: ptr(false)},
		{Code: "OPEN", DiscountType: models.DiscountPercentage, DiscountValue: 10},
	}
	for _, in := range inputs {
		_, err := svc.Create(in)
		require.NoError(t, err)
	}
	for _, code := range []string{"ONCE", "OPEN", "OPEN"} {
		_, _, err := svc.redeem(db, code, 1000)
		require.NoError(t, err)
	}

	st, err := svc.Stats()
	require.NoError(t, err)
	assert.Equal(t, int64(4), st.Total)
	assert.Equal(t, int64(3), st.Active)
	assert.Equal(t, int64(1), st.Expired)
	assert.Equal(t, int64(1), st.Exhausted)
	assert.Equal(t, int64(3), st.TotalRedemptions)
	assert.Equal(t, 0.0, st.TotalDiscount)
}
