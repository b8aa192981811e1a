package services

import (
	"log/slog"
	"strings"
	"time"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"ninjapark-backend/models"
	"ninjapark-backend/utils"
)

type AdminUserService struct {
	DB       *gorm.DB
	Mailer   utils.Mailer
	Log      *slog.Logger
	ParkName string
	LoginURL string
	Now      func() time.Time
}

func NewAdminUserService(db *gorm.DB, mailer utils.Mailer, log *slog.Logger, parkName, loginURL string) *AdminUserService {
	return &AdminUserService{DB: db, Mailer: mailer, Log: log, ParkName: parkName, LoginURL: loginURL, Now: time.Now}
}

type AdminUserInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	RoleID   *uint  `json:"roleId"`
	IsActive *bool  `json:"isActive"`
}

func (in AdminUserInput) validate(creating bool) error {
	verr := NewValidationError()
	if creating && strings.TrimSpace(in.Name) == "" {
		verr.Add("name", "Name is required")
	}
	if creating || in.Email != "" {
		if !validEmail(normalizeEmail(in.Email)) {
			verr.Add("email", "Invalid email address")
		}
	}
	if (creating || in.Password != "") && len(in.Password) < MinPasswordLength {
		verr.Add("password", "Password must be at least 8 characters")
	}
	if creating && in.RoleID == nil {
		verr.Add("roleId", "Role is required")
	}
	return verr.OrNil()
}

type AdminStats struct {
	Total            int64            `json:"total"`
	Active           int64            `json:"active"`
	Inactive         int64            `json:"inactive"`
	LoggedInToday    int64            `json:"recentLogins"`
	RoleDistribution map[string]int64 `json:"roleDistribution"`
}

func (s *AdminUserService) List(p utils.PageParams) ([]models.AdminUser, int64, error) {
	var total int64
	if err := s.DB.Model(&models.AdminUser{}).Count(&total).Error; err != nil {
		return nil, 0, errors.Wrap(err, "count admins")
	}
	var admins []models.AdminUser
	err := s.DB.Preload("Role").Order("created_at DESC").Offset(p.Offset()).Limit(p.Limit).Find(&admins).Error
	return admins, total, errors.Wrap(err, "list admins")
}

func (s *AdminUserService) Get(id uint) (*models.AdminUser, error) {
	var admin models.AdminUser
	if err := s.DB.Preload("Role").First(&admin, id).Error; err != nil {
		return nil, dbErr(err, "find admin")
	}
	return &admin, nil
}

func (s *AdminUserService) roleExists(tx *gorm.DB, id uint) (*models.Role, error) {
	var role models.Role
	if err := tx.First(&role, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, rule(ErrValidation, "Role does not exist")
		}
		return nil, errors.Wrap(err, "find role")
	}
	return &role, nil
}

// Create stores a new admin and sends an invite email. Mail failures are logged only.
func (s *AdminUserService) Create(in AdminUserInput) (*models.AdminUser, error) {
	if err := in.validate(true); err != nil {
		return nil, err
	}
	role, err := s.roleExists(s.DB, *in.RoleID)
	if err != nil {
		return nil, err
	}
	hash, err := HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	admin := models.AdminUser{
		Name:     strings.TrimSpace(in.Name),
		Email:    normalizeEmail(in.Email),
		Password: hash,
		RoleID:   in.RoleID,
		IsActive: in.IsActive == nil || *in.IsActive,
	}
	if err := s.DB.Create(&admin).Error; err != nil {
		return nil, dbErr(err, "create admin")
	}
	admin.Role = role
	s.sendInvite(&admin)
	return &admin, nil
}

func (s *AdminUserService) sendInvite(admin *models.AdminUser) {
	if s.Mailer == nil {
		return
	}
	roleName := ""
	if admin.Role != nil {
		roleName = admin.Role.Name
	}
	subject, plain, html := utils.AdminInviteEmail(s.ParkName, admin.Name, roleName, s.LoginURL)
	if err := s.Mailer.Send(admin.Email, subject, plain, html); err != nil && s.Log != nil {
		s.Log.Warn("admin invite email failed", "admin_id", admin.ID, "error", err)
	}
}

// Update applies the non-empty fields. Admins cannot deactivate themselves.
func (s *AdminUserService) Update(id, actorID uint, in AdminUserInput) (before, after *models.AdminUser, err error) {
	if err := in.validate(false); err != nil {
		return nil, nil, err
	}
	before, err = s.Get(id)
	if err != nil {
		return nil, nil, err
	}
	if id == actorID && in.IsActive != nil && !*in.IsActive {
		return nil, nil, rule(ErrValidation, "You cannot deactivate your own account")
	}

	updates := map[string]interface{}{}
	if name := strings.TrimSpace(in.Name); name != "" {
		updates["name"] = name
	}
	if in.Email != "" {
		updates["email"] = normalizeEmail(in.Email)
	}
	if in.Password != "" {
		hash, err := HashPassword(in.Password)
		if err != nil {
			return nil, nil, err
		}
		updates["password"] = hash
	}
	if in.RoleID != nil {
		if _, err := s.roleExists(s.DB, *in.RoleID); err != nil {
			return nil, nil, err
		}
		updates["role_id"] = *in.RoleID
	}
	if in.IsActive != nil {
		updates["is_active"] = *in.IsActive
	}
	if len(updates) > 0 {
		if err := s.DB.Model(&models.AdminUser{ID: id}).Updates(updates).Error; err != nil {
			return nil, nil, dbErr(err, "update admin")
		}
	}
	after, err = s.Get(id)
	return before, after, err
}

// Toggle flips IsActive.
func (s *AdminUserService) Toggle(id, actorID uint) (*models.AdminUser, error) {
	if id == actorID {
		return nil, rule(ErrValidation, "You cannot deactivate your own account")
	}
	admin, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	admin.IsActive = !admin.IsActive
	if err := s.DB.Model(admin).UpdateColumn("is_active", admin.IsActive).Error; err != nil {
		return nil, errors.Wrap(err, "toggle admin")
	}
	return admin, nil
}

func (s *AdminUserService) Delete(id, actorID uint) (*models.AdminUser, error) {
	if id == actorID {
		return nil, rule(ErrValidation, "You cannot delete your own account")
	}
	admin, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.AuditLog{}).Where("admin_id = ?", id).Update("admin_id", nil).Error; err != nil {
			return err
		}
		if err := tx.Where("admin_id = ?", id).Delete(&models.RefreshToken{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.AdminUser{}, id).Error
	})
	if err != nil {
		return nil, errors.Wrap(err, "delete admin")
	}
	return admin, nil
}

func (s *AdminUserService) Stats() (*AdminStats, error) {
	stats := &AdminStats{RoleDistribution: map[string]int64{}}
	if err := s.DB.Model(&models.AdminUser{}).Count(&stats.Total).Error; err != nil {
		return nil, errors.Wrap(err, "count admins")
	}
	if err := s.DB.Model(&models.AdminUser{}).Where("is_active = ?", true).Count(&stats.Active).Error; err != nil {
		return nil, errors.Wrap(err, "count active admins")
	}
	stats.Inactive = stats.Total - stats.Active

	now := s.Now()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if err := s.DB.Model(&models.AdminUser{}).Where("last_login_at >= ?", midnight).Count(&stats.LoggedInToday).Error; err != nil {
		return nil, errors.Wrap(err, "count recent logins")
	}

	var rows []struct {
		Name  string
		Count int64
	}
	err := s.DB.Model(&models.AdminUser{}).
		Select("roles.name AS name, COUNT(*) AS count").
		Joins("JOIN roles ON roles.id = admin_users.role_id").
		Group("roles.name").
		Scan(&rows).Error
	if err != nil {
		return nil, errors.Wrap(err, "role distribution")
	}
	for _, r := range rows {
		stats.RoleDistribution[r.Name] = r.Count
	}
	return stats, nil
}
