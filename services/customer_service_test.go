package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBookingsShareCustomerByEmail(t *testing.T) {
	f := newBookingFixture(t)
	customers := NewCustomerService(f.db)

	first, err := f.bookings.CreateSession(context.Background(), sessionInput())
	require.NoError(t, err)
	in := sessionInput()
	in.Phone = "9111111111"
	in.Time = "15:00"
	second, err := f.bookings.CreateSession(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, *first.CustomerID, *second.CustomerID)

	c, err := customers.Get(*first.CustomerID)
	require.NoError(t, err)
	assert.Equal(t, "9111111111", c.Phone)
	assert.Len(t, c.Bookings, 2)

	_, err = customers.Delete(c.ID)
	require.NoError(t, err)
	kept, err := f.bookings.Get(first.ID)
	require.NoError(t, err)
	assert.Nil(t, kept.CustomerID, "bookings survive their customer")
}

func TestCustomerCRUD(t *testing.T) {
	svc := NewCustomerService(newTestDB(t))

	_, err := svc.Create(CustomerInput{Email: "x"})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, []string{"name", "email"}, verr.Keys())

	c, err := svc.Create(CustomerInput{Name: "Lata", Email: "lata@example.com"})
	require.NoError(t, err)
	_, err = svc.Create(CustomerInput{Name: "Lata 2", Email: "LATA@example.com"})
	assert.ErrorIs(t, err, ErrDuplicate)

	before, after, err := svc.Update(c.ID, CustomerInput{Name: "Lata M", Email: "lata@example.com", Notes: "VIP"})
	require.NoError(t, err)
	assert.Equal(t, "Lata", before.Name)
	assert.Equal(t, "VIP", after.Notes)

	found, total, err := svc.List("lata m", defaultPage())
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, c.ID, found[0].ID)
}
