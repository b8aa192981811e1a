package services

import (
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"ninjapark-backend/models"
	"ninjapark-backend/utils"
)

type VoucherService struct {
	DB  *gorm.DB
	Now func() time.Time
}

func NewVoucherService(db *gorm.DB) *VoucherService {
	return &VoucherService{DB: db, Now: time.Now}
}

// VoucherResult is what a successful validation returns to the booking form.
type VoucherResult struct {
	Success  bool    `json:"success"`
	Discount float64 `json:"discount"`
	Type     string  `json:"type"`
	Value    float64 `json:"value"`
	Code     string  `json:"code"`
	ID       uint    `json:"id"`
}

// CheckVoucher applies the redemption rules in order: active, not expired,
// usage left, minimum order met. A zero usage limit or minimum means none.
func CheckVoucher(v models.Voucher, orderAmount float64, now time.Time) error {
	if !v.IsActive {
		return rule(ErrValidation, "This voucher is no longer active")
	}
	if v.ExpiryDate != nil && v.ExpiryDate.Before(now) {
		return rule(ErrValidation, "This voucher has expired")
	}
	if v.UsageLimit != nil && *v.UsageLimit > 0 && v.UsedCount >= *v.UsageLimit {
		return rule(ErrValidation, "This voucher has reached its usage limit")
	}
	if v.MinOrderAmount != nil && *v.MinOrderAmount > 0 && orderAmount < *v.MinOrderAmount {
		return rule(ErrValidation, "Minimum order amount of ₹%s required", strconv.FormatFloat(*v.MinOrderAmount, 'f', -1, 64))
	}
	return nil
}

// ComputeDiscount is a percentage of orderAmount or a flat value, capped at orderAmount.
func ComputeDiscount(v models.Voucher, orderAmount float64) float64 {
	if orderAmount <= 0 {
		return 0
	}
	var discount float64
	if v.DiscountType == models.DiscountPercentage {
		discount = orderAmount * v.DiscountValue / 100
	} else {
		discount = v.DiscountValue
	}
	if discount > orderAmount {
		discount = orderAmount
	}
	if discount < 0 {
		discount = 0
	}
	return roundMoney(discount)
}

// Validate looks the code up and checks it against orderAmount without redeeming it.
func (s *VoucherService) Validate(code string, orderAmount float64) (*VoucherResult, error) {
	v, discount, err := s.check(s.DB, code, orderAmount)
	if err != nil {
		return nil, err
	}
	return &VoucherResult{
		Success:  true,
		Discount: discount,
		Type:     v.DiscountType,
		Value:    v.DiscountValue,
		Code:     v.Code,
		ID:       v.ID,
	}, nil
}

func (s *VoucherService) check(tx *gorm.DB, code string, orderAmount float64) (*models.Voucher, float64, error) {
	code = utils.NormalizeCode(code)
	if code == "" {
		return nil, 0, rule(ErrValidation, "Voucher code is required")
	}

	var v models.Voucher
	if err := tx.Where("code = ?", code).First(&v).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, 0, rule(ErrNotFound, "Invalid voucher code")
		}
		return nil, 0, errors.Wrap(err, "find voucher")
	}

	if err := CheckVoucher(v, orderAmount, s.Now()); err != nil {
		return nil, 0, err
	}
	return &v, ComputeDiscount(v, orderAmount), nil
}

// redeem validates and consumes one use inside tx. The conditional update keeps
// concurrent redemptions from going past the usage limit.
func (s *VoucherService) redeem(tx *gorm.DB, code string, orderAmount float64) (*models.Voucher, float64, error) {
	v, discount, err := s.check(tx, code, orderAmount)
	if err != nil {
		return nil, 0, err
	}
	res := tx.Model(&models.Voucher{}).
		Where("id = ? AND (usage_limit IS NULL OR usage_limit = 0 OR used_count < usage_limit)", v.ID).
		UpdateColumn("used_count", gorm.Expr("used_count + 1"))
	if res.Error != nil {
		return nil, 0, errors.Wrap(res.Error, "redeem voucher")
	}
	if res.RowsAffected == 0 {
		return nil, 0, rule(ErrValidation, "This voucher has reached its usage limit")
	}
	v.UsedCount++
	return v, discount, nil
}

type VoucherInput struct {
	Code           string     `json:"code"`
	Description    string     `json:"description"`
	DiscountType   string     `json:"discountType"`
	DiscountValue  float64    `json:"discountValue"`
	MinOrderAmount *float64   `json:"minOrderAmount"`
	UsageLimit     *int       `json:"usageLimit"`
	ExpiryDate     *time.Time `json:"expiryDate"`
	IsActive       *bool      `json:"isActive"`
}

func (in VoucherInput) validate() error {
	verr := NewValidationError()
	if utils.NormalizeCode(in.Code) == "" {
		verr.Add("code", "Code is required")
	}
	switch in.DiscountType {
	case models.DiscountPercentage:
		if in.DiscountValue <= 0 || in.DiscountValue > 100 {
			verr.Add("discountValue", "Percentage must be between 0 and 100")
		}
	case models.DiscountFlat:
		if in.DiscountValue <= 0 {
			verr.Add("discountValue", "Discount value must be positive")
		}
	default:
		verr.Add("discountType", "Discount type must be PERCENTAGE or FLAT")
	}
	if in.MinOrderAmount != nil && *in.MinOrderAmount < 0 {
		verr.Add("minOrderAmount", "Minimum order amount cannot be negative")
	}
	if in.UsageLimit != nil && *in.UsageLimit < 0 {
		verr.Add("usageLimit", "Usage limit cannot be negative")
	}
	return verr.OrNil()
}

func (in VoucherInput) apply(v *models.Voucher) {
	v.Code = utils.NormalizeCode(in.Code)
	v.Description = strings.TrimSpace(in.Description)
	v.DiscountType = in.DiscountType
	v.DiscountValue = in.DiscountValue
	v.MinOrderAmount = in.MinOrderAmount
	v.UsageLimit = in.UsageLimit
	v.ExpiryDate = in.ExpiryDate
	if in.IsActive != nil {
		v.IsActive = *in.IsActive
	}
}

type VoucherFilter struct {
	Search string
	Active *bool
}

func (s *VoucherService) List(f VoucherFilter, p utils.PageParams) ([]models.Voucher, int64, error) {
	q := s.DB.Model(&models.Voucher{})
	if term := strings.TrimSpace(f.Search); term != "" {
		like := "%" + strings.ToUpper(term) + "%"
		q = q.Where("code LIKE ? OR UPPER(description) LIKE ?", like, like)
	}
	if f.Active != nil {
		q = q.Where("is_active = ?", *f.Active)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, errors.Wrap(err, "count vouchers")
	}
	var vouchers []models.Voucher
	err := q.Order("created_at DESC").Offset(p.Offset()).Limit(p.Limit).Find(&vouchers).Error
	return vouchers, total, errors.Wrap(err, "list vouchers")
}

func (s *VoucherService) Get(id uint) (*models.Voucher, error) {
	var v models.Voucher
	if err := s.DB.First(&v, id).Error; err != nil {
		return nil, dbErr(err, "find voucher")
	}
	return &v, nil
}

func (s *VoucherService) Create(in VoucherInput) (*models.Voucher, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	v := models.Voucher{IsActive: true}
	in.apply(&v)
	if err := s.DB.Create(&v).Error; err != nil {
		return nil, dbErr(err, "create voucher")
	}
	return &v, nil
}

func (s *VoucherService) Update(id uint, in VoucherInput) (before, after *models.Voucher, err error) {
	if err := in.validate(); err != nil {
		return nil, nil, err
	}
	v, err := s.Get(id)
	if err != nil {
		return nil, nil, err
	}
	prev := *v
	in.apply(v)
	if err := s.DB.Save(v).Error; err != nil {
		return nil, nil, dbErr(err, "update voucher")
	}
	return &prev, v, nil
}

func (s *VoucherService) Delete(id uint) (*models.Voucher, error) {
	v, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Booking{}).Where("voucher_id = ?", id).Update("voucher_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Voucher{}, id).Error
	})
	return v, errors.Wrap(err, "delete voucher")
}

type VoucherStats struct {
	Total            int64   `json:"total"`
	Active           int64   `json:"active"`
	Expired          int64   `json:"expired"`
	Exhausted        int64   `json:"exhausted"`
	TotalRedemptions int64   `json:"totalRedemptions"`
	TotalDiscount    float64 `json:"totalDiscount"`
}

func (s *VoucherService) Stats() (*VoucherStats, error) {
	var st VoucherStats
	now := s.Now()
	if err := s.DB.Model(&models.Voucher{}).Count(&st.Total).Error; err != nil {
		return nil, errors.Wrap(err, "count vouchers")
	}
	if err := s.DB.Model(&models.Voucher{}).Where("is_active = ?", true).Count(&st.Active).Error; err != nil {
		return nil, errors.Wrap(err, "count active vouchers")
	}
	if err := s.DB.Model(&models.Voucher{}).Where("expiry_date IS NOT NULL AND expiry_date < ?", now).Count(&st.Expired).Error; err != nil {
		return nil, errors.Wrap(err, "count expired vouchers")
	}
	if err := s.DB.Model(&models.Voucher{}).Where("usage_limit > 0 AND used_count >= usage_limit").Count(&st.Exhausted).Error; err != nil {
		return nil, errors.Wrap(err, "count exhausted vouchers")
	}
	if err := s.DB.Model(&models.Voucher{}).Select("COALESCE(SUM(used_count), 0)").Scan(&st.TotalRedemptions).Error; err != nil {
		return nil, errors.Wrap(err, "sum redemptions")
	}
	if err := s.DB.Model(&models.Booking{}).Where("voucher_id IS NOT NULL").Select("COALESCE(SUM(discount_amount), 0)").Scan(&st.TotalDiscount).Error; err != nil {
		return nil, errors.Wrap(err, "sum discounts")
	}
	return &st, nil
}
