package middleware

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"ninjapark-backend/config"
	"ninjapark-backend/models"
	"ninjapark-backend/services"
)

func newAuthRouter(t *testing.T) (*gin.Engine, *services.AuthService, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, config.Migrate(db))
	require.NoError(t, services.SeedDatabase(context.Background(), db, slog.New(slog.NewTextHandler(io.Discard, nil))))

	auth := services.NewAuthService(db, services.NewDBTokenStore(db), "secret", time.Minute, time.Hour)
	r := gin.New()
	r.GET("/bookings", Authenticate(auth), Authorize("bookings:read"), func(c *gin.Context) {
		admin := CurrentAdmin(c)
		c.JSON(http.StatusOK, gin.H{"email": admin.Email, "role": Actor(c).Role})
	})
	return r, auth, db
}

func get(r http.Handler, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/bookings", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthenticate(t *testing.T) {
	r, auth, db := newAuthRouter(t)

	w := get(r, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Authentication required")

	w = get(r, "garbage")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid or expired token")

	_, pair, err := auth.Login(context.Background(), services.DefaultAdminEmail, services.DefaultAdminPassword)
	require.NoError(t, err)
	w = get(r, pair.AccessToken)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"email":"admin@ninja.com","role":"SUPER_ADMIN"}`, w.Body.String())

	require.NoError(t, db.Model(&models.AdminUser{}).Where("email = ?", services.DefaultAdminEmail).Update("is_active", false).Error)
	w = get(r, pair.AccessToken)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "Account is disabled")
}

func TestAuthorizeChecksRolePermissions(t *testing.T) {
	r, auth, db := newAuthRouter(t)

	var content models.Role
	require.NoError(t, db.Where("name = ?", models.RoleContentEditor).First(&content).Error)
	editor, _, err := services.EnsureSuperAdmin(context.Background(), db, "editor@ninja.com", "password", "Editor")
	require.NoError(t, err)
	require.NoError(t, db.Model(editor).Update("role_id", content.ID).Error)

	_, pair, err := auth.Login(context.Background(), "editor@ninja.com", "password")
	require.NoError(t, err)
	w := get(r, pair.AccessToken)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "Insufficient permissions")
}

func TestRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestID())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, GetRequestID(c)) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.NotEmpty(t, w.Body.String())
	assert.Equal(t, w.Body.String(), w.Header().Get(RequestIDHeader))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Body.String())
}
