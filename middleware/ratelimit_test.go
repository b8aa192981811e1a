package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestIPRateLimiter(t *testing.T) {
	clock := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	l := NewIPRateLimiter(3, time.Minute)
	l.now = func() time.Time { return clock }

	for i := 0; i < 3; i++ {
		assert.True(t, l.Allow("1.1.1.1"))
	}
	assert.False(t, l.Allow("1.1.1.1"))
	assert.True(t, l.Allow("2.2.2.2"), "buckets are per IP")

	clock = clock.Add(20 * time.Second)
	assert.True(t, l.Allow("1.1.1.1"), "one token refills every window/max")
	assert.False(t, l.Allow("1.1.1.1"))

	clock = clock.Add(2 * time.Minute)
	l.Cleanup()
	assert.Empty(t, l.visitors)
}

func TestRateLimitMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RateLimit(NewIPRateLimiter(1, time.Hour)))
	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Contains(t, w.Body.String(), RateLimitMessage)
}
