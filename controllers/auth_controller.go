package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"ninjapark-backend/middleware"
	"ninjapark-backend/models"
	"ninjapark-backend/services"
	"ninjapark-backend/utils"
)

type AuthController struct {
	Auth  *services.AuthService
	Audit *services.AuditService
}

func NewAuthController(auth *services.AuthService, audit *services.AuditService) *AuthController {
	return &AuthController{Auth: auth, Audit: audit}
}

type loginPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type refreshPayload struct {
	RefreshToken string `json:"refreshToken"`
}

type changePasswordPayload struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// adminProfile is the signed-in admin as the dashboard sees it.
type adminProfile struct {
	ID          uint     `json:"id"`
	Name        string   `json:"name"`
	Email       string   `json:"email"`
	Role        string   `json:"role"`
	Permissions []string `json:"permissions"`
	LastLoginAt any      `json:"lastLoginAt"`
}

func profileOf(a *models.AdminUser) adminProfile {
	p := adminProfile{ID: a.ID, Name: a.Name, Email: a.Email, Permissions: a.PermissionList(), LastLoginAt: a.LastLoginAt}
	if a.Role != nil {
		p.Role = a.Role.Name
	}
	if p.Permissions == nil {
		p.Permissions = []string{}
	}
	return p
}

func tokenResponse(a *models.AdminUser, pair *services.TokenPair) gin.H {
	return gin.H{
		"user":         profileOf(a),
		"accessToken":  pair.AccessToken,
		"refreshToken": pair.RefreshToken,
		"expiresIn":    pair.ExpiresIn,
	}
}

// Login (POST /api/auth/login)
func (ctrl *AuthController) Login(c *gin.Context) {
	var in loginPayload
	if !bindJSON(c, &in) {
		return
	}
	admin, pair, err := ctrl.Auth.Login(c.Request.Context(), in.Email, in.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	actor := middleware.Actor(c)
	actor.AdminID = admin.ID
	ctrl.Audit.Record(c.Request.Context(), actor, models.AuditLogin, "AdminUser", admin.ID, nil)
	utils.JSONMessage(c, http.StatusOK, "Login successful", tokenResponse(admin, pair))
}

// Refresh (POST /api/auth/refresh) rotates the refresh token.
func (ctrl *AuthController) Refresh(c *gin.Context) {
	var in refreshPayload
	if !bindJSON(c, &in) {
		return
	}
	admin, pair, err := ctrl.Auth.Refresh(c.Request.Context(), in.RefreshToken)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, tokenResponse(admin, pair))
}

// Logout (POST /api/auth/logout)
func (ctrl *AuthController) Logout(c *gin.Context) {
	var in refreshPayload
	_ = c.ShouldBindJSON(&in)
	if err := ctrl.Auth.Logout(c.Request.Context(), in.RefreshToken); err != nil {
		respondError(c, err)
		return
	}
	if admin := middleware.CurrentAdmin(c); admin != nil {
		ctrl.Audit.Record(c.Request.Context(), middleware.Actor(c), models.AuditLogout, "AdminUser", admin.ID, nil)
	}
	utils.JSONMessage(c, http.StatusOK, "Logged out successfully", nil)
}

// Me (GET /api/auth/me)
func (ctrl *AuthController) Me(c *gin.Context) {
	admin := middleware.CurrentAdmin(c)
	if admin == nil {
		utils.JSONError(c, http.StatusUnauthorized, "Authentication required")
		return
	}
	utils.JSONSuccess(c, http.StatusOK, profileOf(admin))
}

// ChangePassword (POST /api/auth/change-password)
func (ctrl *AuthController) ChangePassword(c *gin.Context) {
	admin := middleware.CurrentAdmin(c)
	if admin == nil {
		utils.JSONError(c, http.StatusUnauthorized, "Authentication required")
		return
	}
	var in changePasswordPayload
	if !bindJSON(c, &in) {
		return
	}
	if err := ctrl.Auth.ChangePassword(admin.ID, in.CurrentPassword, in.NewPassword); err != nil {
		respondError(c, err)
		return
	}
	ctrl.Audit.Record(c.Request.Context(), middleware.Actor(c), models.AuditUpdate, "AdminUser", admin.ID,
		&services.AuditDetails{Extra: map[string]interface{}{"passwordChanged": true}})
	utils.JSONMessage(c, http.StatusOK, "Password changed successfully", nil)
}
