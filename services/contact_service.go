package services

import (
	"log/slog"
	"strings"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"ninjapark-backend/models"
	"ninjapark-backend/utils"
)

type ContactService struct {
	DB       *gorm.DB
	Settings *SettingsService
	Mailer   utils.Mailer
	Log      *slog.Logger
}

func NewContactService(db *gorm.DB, settings *SettingsService, mailer utils.Mailer, log *slog.Logger) *ContactService {
	return &ContactService{DB: db, Settings: settings, Mailer: mailer, Log: log}
}

type ContactInput struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

// Create stores the message and notifies the venue's contact address.
func (s *ContactService) Create(in ContactInput) (*models.ContactMessage, error) {
	msg := models.ContactMessage{
		Name:    strings.TrimSpace(in.Name),
		Email:   normalizeEmail(in.Email),
		Phone:   strings.TrimSpace(in.Phone),
		Subject: strings.TrimSpace(in.Subject),
		Message: strings.TrimSpace(in.Message),
	}
	if msg.Name == "" || msg.Email == "" || msg.Message == "" {
		return nil, rule(ErrValidation, "Name, email and message are required")
	}
	if !validEmail(msg.Email) {
		verr := NewValidationError()
		verr.Add("email", "Invalid email address")
		return nil, verr
	}
	if err := s.DB.Create(&msg).Error; err != nil {
		return nil, errors.Wrap(err, "create contact message")
	}
	s.notify(msg)
	return &msg, nil
}

func (s *ContactService) notify(msg models.ContactMessage) {
	if s.Mailer == nil || s.Settings == nil {
		return
	}
	settings, err := s.Settings.Get()
	if err != nil || settings.ContactEmail == "" {
		return
	}
	subject, plain, html := utils.ContactNotificationEmail(msg)
	if err := s.Mailer.Send(settings.ContactEmail, subject, plain, html); err != nil && s.Log != nil {
		s.Log.Warn("contact notification failed", "message_id", msg.ID, "error", err)
	}
}

// List returns messages newest first; unread restricts to unread ones.
func (s *ContactService) List(unread bool, p utils.PageParams) ([]models.ContactMessage, int64, error) {
	q := s.DB.Model(&models.ContactMessage{})
	if unread {
		q = q.Where("is_read = ?", false)
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, errors.Wrap(err, "count contact messages")
	}
	var msgs []models.ContactMessage
	err := q.Order("created_at DESC").Offset(p.Offset()).Limit(p.Limit).Find(&msgs).Error
	return msgs, total, errors.Wrap(err, "list contact messages")
}

func (s *ContactService) Get(id uint) (*models.ContactMessage, error) {
	var msg models.ContactMessage
	if err := s.DB.First(&msg, id).Error; err != nil {
		return nil, dbErr(err, "find contact message")
	}
	return &msg, nil
}

func (s *ContactService) MarkRead(id uint, read bool) (*models.ContactMessage, error) {
	msg, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	msg.IsRead = read
	if err := s.DB.Model(msg).UpdateColumn("is_read", read).Error; err != nil {
		return nil, errors.Wrap(err, "mark contact message")
	}
	return msg, nil
}

func (s *ContactService) Delete(id uint) (*models.ContactMessage, error) {
	msg, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	return msg, errors.Wrap(s.DB.Delete(&models.ContactMessage{}, id).Error, "delete contact message")
}
