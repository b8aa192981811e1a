package services

import (
	"strings"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"ninjapark-backend/models"
	"ninjapark-backend/utils"
)

type CustomerService struct {
	DB *gorm.DB
}

func NewCustomerService(db *gorm.DB) *CustomerService {
	return &CustomerService{DB: db}
}

type CustomerInput struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
	Notes string `json:"notes"`
}

func (in CustomerInput) validate() error {
	verr := NewValidationError()
	if strings.TrimSpace(in.Name) == "" {
		verr.Add("name", "Name is required")
	}
	if !validEmail(normalizeEmail(in.Email)) {
		verr.Add("email", "Invalid email address")
	}
	return verr.OrNil()
}

func (s *CustomerService) List(search string, p utils.PageParams) ([]models.Customer, int64, error) {
	q := s.DB.Model(&models.Customer{})
	if term := strings.TrimSpace(search); term != "" {
		like := "%" + strings.ToLower(term) + "%"
		q = q.Where("LOWER(name) LIKE ? OR LOWER(email) LIKE ? OR phone LIKE ?", like, like, like)
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, errors.Wrap(err, "count customers")
	}
	var customers []models.Customer
	err := q.Order("created_at DESC").Offset(p.Offset()).Limit(p.Limit).Find(&customers).Error
	return customers, total, errors.Wrap(err, "list customers")
}

// Get loads the customer with their bookings and waivers, newest first.
func (s *CustomerService) Get(id uint) (*models.Customer, error) {
	var c models.Customer
	err := s.DB.
		Preload("Bookings", func(db *gorm.DB) *gorm.DB { return db.Order("created_at DESC") }).
		Preload("Waivers", func(db *gorm.DB) *gorm.DB { return db.Order("signed_at DESC") }).
		First(&c, id).Error
	if err != nil {
		return nil, dbErr(err, "find customer")
	}
	return &c, nil
}

func (s *CustomerService) Create(in CustomerInput) (*models.Customer, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	c := models.Customer{
		Name:  strings.TrimSpace(in.Name),
		Email: normalizeEmail(in.Email),
		Phone: strings.TrimSpace(in.Phone),
		Notes: strings.TrimSpace(in.Notes),
	}
	if err := s.DB.Create(&c).Error; err != nil {
		return nil, dbErr(err, "create customer")
	}
	return &c, nil
}

func (s *CustomerService) Update(id uint, in CustomerInput) (before, after *models.Customer, err error) {
	if err := in.validate(); err != nil {
		return nil, nil, err
	}
	var c models.Customer
	if err := s.DB.First(&c, id).Error; err != nil {
		return nil, nil, dbErr(err, "find customer")
	}
	prev := c
	c.Name = strings.TrimSpace(in.Name)
	c.Email = normalizeEmail(in.Email)
	c.Phone = strings.TrimSpace(in.Phone)
	c.Notes = strings.TrimSpace(in.Notes)
	if err := s.DB.Save(&c).Error; err != nil {
		return nil, nil, dbErr(err, "update customer")
	}
	return &prev, &c, nil
}

// Delete detaches the customer's bookings and waivers before removing the row.
func (s *CustomerService) Delete(id uint) (*models.Customer, error) {
	var c models.Customer
	if err := s.DB.First(&c, id).Error; err != nil {
		return nil, dbErr(err, "find customer")
	}
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Booking{}).Where("customer_id = ?", id).Update("customer_id", nil).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Waiver{}).Where("customer_id = ?", id).Update("customer_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Customer{}, id).Error
	})
	return &c, errors.Wrap(err, "delete customer")
}

// upsertCustomer finds the customer by email or creates one, refreshing name and phone.
func upsertCustomer(tx *gorm.DB, name, email, phone string) (*models.Customer, error) {
	var c models.Customer
	if err := tx.Where("email = ?", email).Limit(1).Find(&c).Error; err != nil {
		return nil, errors.Wrap(err, "find customer")
	}
	if c.ID == 0 {
		c = models.Customer{Name: name, Email: email, Phone: phone}
		if err := tx.Create(&c).Error; err != nil {
			return nil, dbErr(err, "create customer")
		}
		return &c, nil
	}
	updates := map[string]interface{}{}
	if name != "" && name != c.Name {
		updates["name"] = name
	}
	if phone != "" && phone != c.Phone {
		updates["phone"] = phone
	}
	if len(updates) > 0 {
		if err := tx.Model(&c).Updates(updates).Error; err != nil {
			return nil, errors.Wrap(err, "update customer")
		}
	}
	return &c, nil
}
