package services

import (
	"encoding/base64"
	"encoding/json"

	"github.com/pkg/errors"
	qrcode "github.com/skip2/go-qrcode"

	"ninjapark-backend/models"
)

type bookingQRPayload struct {
	Reference string `json:"ref"`
	Name      string `json:"name"`
	Date      string `json:"date"`
	Time      string `json:"time"`
	Guests    int    `json:"guests"`
}

// BookingQRCode renders the front-desk check-in QR as a PNG data URL.
func BookingQRCode(b models.Booking) (string, error) {
	payload, err := json.Marshal(bookingQRPayload{
		Reference: b.Reference,
		Name:      b.Name,
		Date:      b.Date,
		Time:      b.Time,
		Guests:    b.Adults + b.Kids + b.Spectators,
	})
	if err != nil {
		return "", errors.Wrap(err, "encode qr payload")
	}
	png, err := qrcode.Encode(string(payload), qrcode.High, 300)
	if err != nil {
		return "", errors.Wrap(err, "render qr code")
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}
