package services

import (
	"encoding/json"
	"strings"

	"github.com/pkg/errors"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"ninjapark-backend/models"
)

type SettingsService struct {
	DB *gorm.DB
}

func NewSettingsService(db *gorm.DB) *SettingsService {
	return &SettingsService{DB: db}
}

// DefaultSettings is the row created the first time settings are read.
func DefaultSettings() models.GlobalSettings {
	hours, _ := json.Marshal(map[string]string{
		"weekdays": "11:00 AM - 10:00 PM",
		"weekends": "10:00 AM - 11:00 PM",
	})
	marquee, _ := json.Marshal([]string{"Book your jump session online", "Birthday parties for ages 3 and up"})
	return models.GlobalSettings{
		ParkName:             "Ninja Inflatable Park",
		ContactPhone:         "+91 98454 71611",
		ContactEmail:         "info@ninjapark.com",
		Address:              "Ground Floor, Gopalan Innovation Mall, Bannerghatta Main Rd, JP Nagar 3rd Phase, Bengaluru, Karnataka 560076",
		OpeningHours:         datatypes.JSON(hours),
		MarqueeText:          datatypes.JSON(marquee),
		AboutText:            "India's largest inflatable adventure park with over 20,000 sq ft of obstacles, slides and challenges for all ages.",
		HeroTitle:            "Bounce Into Adventure",
		HeroSubtitle:         "Obstacle courses, slides and wipeouts for every age",
		SessionDuration:      60,
		AdultPrice:           AdultPrice,
		ChildPrice:           ChildPrice,
		SpectatorPrice:       SpectatorPrice,
		SessionCapacity:      DefaultSessionCapacity,
		OnlineBookingEnabled: true,
		PartyBookingsEnabled: true,
		WaiverRequired:       true,
	}
}

// Get returns the settings row, creating it with defaults when missing.
func (s *SettingsService) Get() (*models.GlobalSettings, error) {
	var settings models.GlobalSettings
	if err := s.DB.Order("id ASC").Limit(1).Find(&settings).Error; err != nil {
		return nil, errors.Wrap(err, "load settings")
	}
	if settings.ID != 0 {
		return &settings, nil
	}
	settings = DefaultSettings()
	if err := s.DB.Create(&settings).Error; err != nil {
		return nil, errors.Wrap(err, "create default settings")
	}
	return &settings, nil
}

// SettingsInput is a partial update: nil fields are left unchanged.
type SettingsInput struct {
	ParkName        *string          `json:"parkName"`
	ContactPhone    *string          `json:"contactPhone"`
	ContactEmail    *string          `json:"contactEmail"`
	Address         *string          `json:"address"`
	MapURL          *string          `json:"mapUrl"`
	OpeningHours    *json.RawMessage `json:"openingHours"`
	MarqueeText     *json.RawMessage `json:"marqueeText"`
	AboutText       *string          `json:"aboutText"`
	HeroTitle       *string          `json:"heroTitle"`
	HeroSubtitle    *string          `json:"heroSubtitle"`
	GSTNumber       *string          `json:"gstNumber"`
	SessionDuration *int             `json:"sessionDuration"`
	AdultPrice      *float64         `json:"adultPrice"`
	ChildPrice      *float64         `json:"childPrice"`
	SpectatorPrice  *float64         `json:"spectatorPrice"`
	SessionCapacity *int             `json:"sessionCapacity"`

	OnlineBookingEnabled *bool `json:"onlineBookingEnabled"`
	PartyBookingsEnabled *bool `json:"partyBookingsEnabled"`
	MaintenanceMode      *bool `json:"maintenanceMode"`
	WaiverRequired       *bool `json:"waiverRequired"`
}

func (in SettingsInput) validate() error {
	verr := NewValidationError()
	if in.ContactEmail != nil && *in.ContactEmail != "" && !validEmail(*in.ContactEmail) {
		verr.Add("contactEmail", "Invalid email address")
	}
	for field, v := range map[string]*float64{"adultPrice": in.AdultPrice, "childPrice": in.ChildPrice, "spectatorPrice": in.SpectatorPrice} {
		if v != nil && *v < 0 {
			verr.Add(field, "Price cannot be negative")
		}
	}
	if in.SessionCapacity != nil && *in.SessionCapacity < 1 {
		verr.Add("sessionCapacity", "Capacity must be at least 1")
	}
	if in.SessionDuration != nil && *in.SessionDuration < 1 {
		verr.Add("sessionDuration", "Duration must be positive")
	}
	for field, raw := range map[string]*json.RawMessage{"openingHours": in.OpeningHours, "marqueeText": in.MarqueeText} {
		if raw != nil && !json.Valid(*raw) {
			verr.Add(field, "Must be valid JSON")
		}
	}
	return verr.OrNil()
}

// Update applies in. Only a SUPER_ADMIN may flip maintenance mode or online booking.
func (s *SettingsService) Update(in SettingsInput, actorRole string) (before, after *models.GlobalSettings, err error) {
	if err := in.validate(); err != nil {
		return nil, nil, err
	}
	current, err := s.Get()
	if err != nil {
		return nil, nil, err
	}

	critical := (in.MaintenanceMode != nil && *in.MaintenanceMode != current.MaintenanceMode) ||
		(in.OnlineBookingEnabled != nil && *in.OnlineBookingEnabled != current.OnlineBookingEnabled)
	if critical && actorRole != models.RoleSuperAdmin {
		return nil, nil, rule(ErrForbidden, "Only a super admin can change maintenance mode or online booking")
	}

	prev := *current
	next := current
	setString(&next.ParkName, in.ParkName)
	setString(&next.ContactPhone, in.ContactPhone)
	setString(&next.ContactEmail, in.ContactEmail)
	setString(&next.Address, in.Address)
	setString(&next.MapURL, in.MapURL)
	setString(&next.AboutText, in.AboutText)
	setString(&next.HeroTitle, in.HeroTitle)
	setString(&next.HeroSubtitle, in.HeroSubtitle)
	setString(&next.GSTNumber, in.GSTNumber)
	if in.OpeningHours != nil {
		next.OpeningHours = datatypes.JSON(*in.OpeningHours)
	}
	if in.MarqueeText != nil {
		next.MarqueeText = datatypes.JSON(*in.MarqueeText)
	}
	setValue(&next.SessionDuration, in.SessionDuration)
	setValue(&next.AdultPrice, in.AdultPrice)
	setValue(&next.ChildPrice, in.ChildPrice)
	setValue(&next.SpectatorPrice, in.SpectatorPrice)
	setValue(&next.SessionCapacity, in.SessionCapacity)
	setValue(&next.OnlineBookingEnabled, in.OnlineBookingEnabled)
	setValue(&next.PartyBookingsEnabled, in.PartyBookingsEnabled)
	setValue(&next.MaintenanceMode, in.MaintenanceMode)
	setValue(&next.WaiverRequired, in.WaiverRequired)

	if err := s.DB.Save(next).Error; err != nil {
		return nil, nil, errors.Wrap(err, "save settings")
	}
	return &prev, next, nil
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = strings.TrimSpace(*v)
	}
}

func setValue[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}
