package services

import (
	"context"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"ninjapark-backend/models"
	"ninjapark-backend/utils"
)

const MinPasswordLength = 8

// Claims is the access token body.
type Claims struct {
	UserID uint   `json:"userId"`
	Email  string `json:"email"`
	RoleID uint   `json:"roleId"`
	jwt.RegisteredClaims
}

type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresIn    int64  `json:"expiresIn"`
}

type AuthService struct {
	DB         *gorm.DB
	Tokens     TokenStore
	Secret     []byte
	AccessTTL  time.Duration
	RefreshTTL time.Duration
	Now        func() time.Time
}

func NewAuthService(db *gorm.DB, tokens TokenStore, secret string, accessTTL, refreshTTL time.Duration) *AuthService {
	return &AuthService{
		DB:         db,
		Tokens:     tokens,
		Secret:     []byte(secret),
		AccessTTL:  accessTTL,
		RefreshTTL: refreshTTL,
		Now:        time.Now,
	}
}

func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", errors.Wrap(err, "hash password")
	}
	return string(hash), nil
}

func CheckPassword(hash, password string) bool {
	return hash != "" && bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// LoadAdmin returns the admin with role permissions preloaded.
func (s *AuthService) LoadAdmin(id uint) (*models.AdminUser, error) {
	var admin models.AdminUser
	if err := s.DB.Preload("Role.Permissions").First(&admin, id).Error; err != nil {
		return nil, dbErr(err, "find admin")
	}
	return &admin, nil
}

// Login checks credentials and issues a token pair. Unknown emails and wrong
// passwords give the same error.
func (s *AuthService) Login(ctx context.Context, email, password string) (*models.AdminUser, *TokenPair, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, nil, rule(ErrValidation, "Email and password are required")
	}

	var admin models.AdminUser
	if err := s.DB.WithContext(ctx).Preload("Role.Permissions").Where("email = ?", email).Limit(1).Find(&admin).Error; err != nil {
		return nil, nil, errors.Wrap(err, "find admin")
	}
	if admin.ID == 0 || !CheckPassword(admin.Password, password) {
		return nil, nil, ErrInvalidCredentials
	}
	if !admin.IsActive {
		return nil, nil, ErrAccountDisabled
	}

	now := s.Now()
	if err := s.DB.WithContext(ctx).Model(&admin).UpdateColumn("last_login_at", now).Error; err != nil {
		return nil, nil, errors.Wrap(err, "record login")
	}
	admin.LastLoginAt = &now

	pair, err := s.IssueTokens(ctx, &admin)
	if err != nil {
		return nil, nil, err
	}
	return &admin, pair, nil
}

func (s *AuthService) IssueTokens(ctx context.Context, admin *models.AdminUser) (*TokenPair, error) {
	now := s.Now()
	claims := Claims{
		UserID: admin.ID,
		Email:  admin.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.AccessTTL)),
		},
	}
	if admin.RoleID != nil {
		claims.RoleID = *admin.RoleID
	}
	access, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.Secret)
	if err != nil {
		return nil, errors.Wrap(err, "sign access token")
	}

	refresh, err := utils.GenerateSecureToken(32)
	if err != nil {
		return nil, errors.Wrap(err, "generate refresh token")
	}
	if err := s.Tokens.Save(ctx, refresh, admin.ID, s.RefreshTTL); err != nil {
		return nil, err
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh, ExpiresIn: int64(s.AccessTTL.Seconds())}, nil
}

// ParseAccessToken verifies signature and expiry.
func (s *AuthService) ParseAccessToken(token string) (*Claims, error) {
	claims := &Claims{}
	parser := jwt.Parser{ValidMethods: []string{jwt.SigningMethodHS256.Alg()}}
	parsed, err := parser.ParseWithClaims(strings.TrimSpace(token), claims, func(*jwt.Token) (interface{}, error) {
		return s.Secret, nil
	})
	if err != nil || !parsed.Valid || claims.UserID == 0 {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// Refresh rotates a refresh token: the old one is consumed and a new pair issued.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*models.AdminUser, *TokenPair, error) {
	if strings.TrimSpace(refreshToken) == "" {
		return nil, nil, ErrInvalidToken
	}
	adminID, err := s.Tokens.Consume(ctx, refreshToken)
	if err != nil {
		return nil, nil, err
	}
	admin, err := s.LoadAdmin(adminID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, nil, ErrInvalidToken
		}
		return nil, nil, err
	}
	if !admin.IsActive {
		return nil, nil, ErrAccountDisabled
	}
	pair, err := s.IssueTokens(ctx, admin)
	if err != nil {
		return nil, nil, err
	}
	return admin, pair, nil
}

func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	if strings.TrimSpace(refreshToken) == "" {
		return nil
	}
	return s.Tokens.Revoke(ctx, refreshToken)
}

func (s *AuthService) ChangePassword(adminID uint, current, next string) error {
	var admin models.AdminUser
	if err := s.DB.First(&admin, adminID).Error; err != nil {
		return dbErr(err, "find admin")
	}
	if !CheckPassword(admin.Password, current) {
		return rule(ErrValidation, "Current password is incorrect")
	}
	if len(next) < MinPasswordLength {
		verr := NewValidationError()
		verr.Add("newPassword", "Password must be at least 8 characters")
		return verr
	}
	hash, err := HashPassword(next)
	if err != nil {
		return err
	}
	return errors.Wrap(s.DB.Model(&admin).Update("password", hash).Error, "update password")
}
