package services

import (
	"math"

	"ninjapark-backend/models"
)

const (
	AdultPrice               = 899.0
	ChildPrice               = 500.0
	SpectatorPrice           = 150.0
	ExtendedSessionSurcharge = 500.0
	StandardSessionDuration  = "60"
	ExtendedSessionDuration  = "120"
	GSTRate                  = 0.18

	PartyParticipantPrice    = 1500.0
	PartyFreeSpectators      = 10
	PartyExtraSpectatorPrice = 100.0
	PartyDepositRate         = 0.5

	DefaultSessionCapacity = 100
)

// PriceList holds the per-head session prices. Zero fields fall back to the defaults.
type PriceList struct {
	Adult     float64
	Child     float64
	Spectator float64
}

func (p PriceList) withDefaults() PriceList {
	if p.Adult <= 0 {
		p.Adult = AdultPrice
	}
	if p.Child <= 0 {
		p.Child = ChildPrice
	}
	if p.Spectator <= 0 {
		p.Spectator = SpectatorPrice
	}
	return p
}

// PriceListFromSettings reads the prices the admin configured.
func PriceListFromSettings(s models.GlobalSettings) PriceList {
	return PriceList{Adult: s.AdultPrice, Child: s.ChildPrice, Spectator: s.SpectatorPrice}.withDefaults()
}

type Quote struct {
	Subtotal float64 `json:"subtotal"`
	GST      float64 `json:"gst"`
	Discount float64 `json:"discount"`
	Total    float64 `json:"total"`
	Deposit  float64 `json:"deposit,omitempty"`
}

// SessionSubtotal prices a regular session. A 120 minute session adds a surcharge per jumper.
func SessionSubtotal(p PriceList, duration string, adults, kids, spectators int) float64 {
	p = p.withDefaults()
	subtotal := float64(kids)*p.Child + float64(adults)*p.Adult + float64(spectators)*p.Spectator
	if duration == ExtendedSessionDuration {
		subtotal += float64(kids+adults) * ExtendedSessionSurcharge
	}
	return roundMoney(subtotal)
}

// PartySubtotal charges every participant and spectators beyond the free allowance.
func PartySubtotal(participants, spectators int) float64 {
	chargeable := spectators - PartyFreeSpectators
	if chargeable < 0 {
		chargeable = 0
	}
	return roundMoney(float64(participants)*PartyParticipantPrice + float64(chargeable)*PartyExtraSpectatorPrice)
}

// NewQuote adds GST to subtotal and takes off discount, never going below zero.
func NewQuote(subtotal, discount float64) Quote {
	gst := roundMoney(subtotal * GSTRate)
	total := roundMoney(subtotal + gst)
	discount = math.Max(0, math.Min(discount, total))
	return Quote{
		Subtotal: subtotal,
		GST:      gst,
		Discount: roundMoney(discount),
		Total:    roundMoney(total - discount),
	}
}

func roundMoney(v float64) float64 {
	return math.Round(v*100) / 100
}
