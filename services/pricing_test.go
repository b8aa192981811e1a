package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSessionSubtotal(t *testing.T) {
	var defaults PriceList

	assert.Equal(t, 2*AdultPrice+ChildPrice, SessionSubtotal(defaults, "60", 2, 1, 0))
	assert.Equal(t, 150.0, SessionSubtotal(defaults, "60", 0, 0, 1))
	// 120 minutes adds the surcharge to jumpers, not spectators.
	assert.Equal(t, AdultPrice+ExtendedSessionSurcharge+SpectatorPrice, SessionSubtotal(defaults, "120", 1, 0, 1))

	custom := PriceList{Adult: 1000, Child: 600}
	assert.Equal(t, 1600.0+SpectatorPrice, SessionSubtotal(custom, "60", 1, 1, 1))
}

func TestPartySubtotal(t *testing.T) {
	assert.Equal(t, 15000.0, PartySubtotal(10, 10))
	assert.Equal(t, 15000.0+3*PartyExtraSpectatorPrice, PartySubtotal(10, 13))
	assert.Equal(t, 1500.0, PartySubtotal(1, 0))
}

func TestNewQuote(t *testing.T) {
	q := NewQuote(1000, 0)
	assert.Equal(t, Quote{Subtotal: 1000, GST: 180, Total: 1180}, q)

	q = NewQuote(1000, 200)
	assert.Equal(t, 200.0, q.Discount)
	assert.Equal(t, 980.0, q.Total)

	q = NewQuote(100, 500)
	assert.Equal(t, 118.0, q.Discount, "discount never exceeds the total")
	assert.Equal(t, 0.0, q.Total)
}
