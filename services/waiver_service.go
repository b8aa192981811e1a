package services

import (
	"bytes"
	"context"
	"strings"
	"time"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"ninjapark-backend/models"
	"ninjapark-backend/storage"
	"ninjapark-backend/utils"
)

type WaiverService struct {
	DB    *gorm.DB
	Store storage.Store
	Now   func() time.Time
}

func NewWaiverService(db *gorm.DB, store storage.Store) *WaiverService {
	return &WaiverService{DB: db, Store: store, Now: time.Now}
}

type WaiverInput struct {
	Name             string `json:"name"`
	Email            string `json:"email"`
	Phone            string `json:"phone"`
	EmergencyContact string `json:"emergencyContact"`
	DateOfBirth      string `json:"dateOfBirth"`
	GuardianName     string `json:"guardianName"`
	BookingID        *uint  `json:"bookingId"`
	BookingReference string `json:"bookingReference"`
	// Signature is an optional data URL of the drawn signature.
	Signature string `json:"signature"`
	IPAddress string `json:"-"`
}

// Submit stores a signed waiver. Name, email and emergency contact are
// required. When the booking exists the waiver is linked and the booking's
// waiver status becomes SIGNED; an unknown booking is ignored.
func (s *WaiverService) Submit(ctx context.Context, in WaiverInput) (*models.Waiver, error) {
	name := strings.TrimSpace(in.Name)
	email := normalizeEmail(in.Email)
	emergency := strings.TrimSpace(in.EmergencyContact)
	if name == "" || email == "" || emergency == "" {
		return nil, rule(ErrValidation, "Missing required fields")
	}

	verr := NewValidationError()
	if !validEmail(email) {
		verr.Add("email", "Invalid email address")
	}
	dob := strings.TrimSpace(in.DateOfBirth)
	if dob != "" && !validDate(dob) {
		verr.Add("dateOfBirth", "Date of birth must be YYYY-MM-DD")
	}
	now := s.Now()
	minor := dob != "" && validDate(dob) && isMinor(dob, now)
	if minor && strings.TrimSpace(in.GuardianName) == "" {
		verr.Add("guardianName", "A guardian must sign for a minor")
	}
	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	waiver := models.Waiver{
		Name:             name,
		Email:            email,
		Phone:            strings.TrimSpace(in.Phone),
		EmergencyContact: emergency,
		IsMinor:          minor,
		GuardianName:     strings.TrimSpace(in.GuardianName),
		Version:          models.WaiverVersion,
		SignedAt:         now,
		IPAddress:        in.IPAddress,
	}
	if dob != "" {
		waiver.DateOfBirth = &dob
	}

	var signatureKey string
	if in.Signature != "" {
		url, key, err := s.saveSignature(ctx, in.Signature)
		if err != nil {
			return nil, err
		}
		waiver.SignatureURL, signatureKey = url, key
	}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		booking, err := findBookingForWaiver(tx, in.BookingID, in.BookingReference)
		if err != nil {
			return err
		}
		if booking != nil {
			waiver.BookingID = &booking.ID
			if err := tx.Model(&models.Booking{}).Where("id = ?", booking.ID).
				Update("waiver_status", models.WaiverStatusSigned).Error; err != nil {
				return errors.Wrap(err, "mark booking signed")
			}
		}

		var customer models.Customer
		if err := tx.Where("email = ?", email).Limit(1).Find(&customer).Error; err != nil {
			return errors.Wrap(err, "find customer")
		}
		if customer.ID != 0 {
			waiver.CustomerID = &customer.ID
		}

		return errors.Wrap(tx.Create(&waiver).Error, "create waiver")
	})
	if err != nil {
		s.discardSignature(ctx, signatureKey)
		return nil, err
	}
	return &waiver, nil
}

func findBookingForWaiver(tx *gorm.DB, id *uint, reference string) (*models.Booking, error) {
	var booking models.Booking
	q := tx.Limit(1)
	switch {
	case id != nil && *id != 0:
		q = q.Where("id = ?", *id)
	case strings.TrimSpace(reference) != "":
		q = q.Where("reference = ?", utils.NormalizeCode(reference))
	default:
		return nil, nil
	}
	if err := q.Find(&booking).Error; err != nil {
		return nil, errors.Wrap(err, "find booking")
	}
	if booking.ID == 0 {
		return nil, nil
	}
	return &booking, nil
}

func isMinor(dob string, now time.Time) bool {
	born, err := time.Parse("2006-01-02", dob)
	if err != nil {
		return false
	}
	return born.AddDate(18, 0, 0).After(now)
}

// saveSignature stores the image and returns its URL and store key.
func (s *WaiverService) saveSignature(ctx context.Context, dataURL string) (string, string, error) {
	if s.Store == nil {
		return "", "", errors.New("no upload store configured")
	}
	contentType, data, err := storage.DecodeDataURL(dataURL)
	if err != nil {
		verr := NewValidationError()
		verr.Add("signature", "Signature must be a base64 image")
		return "", "", verr
	}
	if contentType != "image/png" && contentType != "image/jpeg" && contentType != "image/webp" {
		verr := NewValidationError()
		verr.Add("signature", "Signature must be a PNG, JPEG or WEBP image")
		return "", "", verr
	}
	key := storage.NewKey("signatures", contentType)
	url, err := s.Store.Save(ctx, key, contentType, bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", "", errors.Wrap(err, "save signature")
	}
	return url, key, nil
}

// discardSignature removes an image whose waiver write failed.
func (s *WaiverService) discardSignature(ctx context.Context, key string) {
	if key == "" {
		return
	}
	_ = s.Store.Delete(ctx, key) // best effort
}

// AttachSignature replaces the signature image of an existing waiver.
func (s *WaiverService) AttachSignature(ctx context.Context, id uint, dataURL string) (*models.Waiver, error) {
	w, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	url, key, err := s.saveSignature(ctx, dataURL)
	if err != nil {
		return nil, err
	}
	if err := s.DB.Model(w).Update("signature_url", url).Error; err != nil {
		s.discardSignature(ctx, key)
		return nil, errors.Wrap(err, "update signature")
	}
	w.SignatureURL = url
	return w, nil
}

type WaiverFilter struct {
	Search    string
	BookingID *uint
	Minor     *bool
}

func (s *WaiverService) List(f WaiverFilter, p utils.PageParams) ([]models.Waiver, int64, error) {
	q := s.DB.Model(&models.Waiver{})
	if term := strings.TrimSpace(f.Search); term != "" {
		like := "%" + strings.ToLower(term) + "%"
		q = q.Where("LOWER(name) LIKE ? OR LOWER(email) LIKE ? OR phone LIKE ?", like, like, like)
	}
	if f.BookingID != nil {
		q = q.Where("booking_id = ?", *f.BookingID)
	}
	if f.Minor != nil {
		q = q.Where("is_minor = ?", *f.Minor)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, errors.Wrap(err, "count waivers")
	}
	var waivers []models.Waiver
	err := q.Preload("Booking").Order("signed_at DESC").Offset(p.Offset()).Limit(p.Limit).Find(&waivers).Error
	return waivers, total, errors.Wrap(err, "list waivers")
}

func (s *WaiverService) Get(id uint) (*models.Waiver, error) {
	var w models.Waiver
	if err := s.DB.Preload("Booking").First(&w, id).Error; err != nil {
		return nil, dbErr(err, "find waiver")
	}
	return &w, nil
}

// Delete removes the waiver. A booking left without waivers goes back to PENDING.
func (s *WaiverService) Delete(id uint) (*models.Waiver, error) {
	w, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.Waiver{}, id).Error; err != nil {
			return err
		}
		if w.BookingID == nil {
			return nil
		}
		var remaining int64
		if err := tx.Model(&models.Waiver{}).Where("booking_id = ?", *w.BookingID).Count(&remaining).Error; err != nil {
			return err
		}
		if remaining > 0 {
			return nil
		}
		return tx.Model(&models.Booking{}).Where("id = ?", *w.BookingID).
			Update("waiver_status", models.WaiverStatusPending).Error
	})
	return w, errors.Wrap(err, "delete waiver")
}
