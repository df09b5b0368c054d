package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/goleak"
)

func TestRateLimiter(t *testing.T) {
	t.Run("blocks requests exceeding limit", func(t *testing.T) {
		limiter := NewRateLimiter(3, time.Minute)
		for i := 0; i < 3; i++ {
			assert.True(t, limiter.Allow("client"), "request %d", i+1)
		}
		assert.False(t, limiter.Allow("client"))
		assert.Equal(t, 0, limiter.Remaining("client"))
	})

	t.Run("separate limits per key", func(t *testing.T) {
		limiter := NewRateLimiter(1, time.Minute)
		assert.True(t, limiter.Allow("a"))
		assert.False(t, limiter.Allow("a"))
		assert.True(t, limiter.Allow("b"))
	})

	t.Run("resets after window", func(t *testing.T) {
		now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
		limiter := NewRateLimiter(1, time.Minute)
		limiter.now = func() time.Time { return now }

		assert.True(t, limiter.Allow("c"))
		assert.False(t, limiter.Allow("c"))
		now = now.Add(time.Minute)
		assert.True(t, limiter.Allow("c"))
	})

	t.Run("cleanup drops idle keys", func(t *testing.T) {
		now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
		limiter := NewRateLimiter(1, time.Minute)
		limiter.now = func() time.Time { return now }
		limiter.Allow("idle")
		now = now.Add(3 * time.Minute)
		limiter.cleanup()
		assert.Empty(t, limiter.clients)
	})
}

func TestRateLimiter_RunCleanupStops(t *testing.T) {
	defer goleak.VerifyNone(t)

	limiter := NewRateLimiter(1, 10*time.Millisecond)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		limiter.RunCleanup(ctx)
		close(done)
	}()
	cancel()
	<-done
}

func TestRateLimitMiddleware(t *testing.T) {
	limiter := NewRateLimiter(2, time.Minute)
	router := gin.New()
	router.Use(func(c *gin.Context) {
		if uid := c.GetHeader("X-Test-User"); uid != "" {
			c.Set(JWTUserIDKey, uid)
		}
		c.Next()
	}, RateLimit(limiter))
	router.GET("/test", func(c *gin.Context) { c.Status(http.StatusOK) })

	send := func(user string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		if user != "" {
			req.Header.Set("X-Test-User", user)
		}
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	w := send("")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "2", w.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "1", w.Header().Get("X-RateLimit-Remaining"))
	assert.Equal(t, http.StatusOK, send("").Code)

	w = send("")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Contains(t, w.Body.String(), "ERR_RATE_LIMITED")
	assert.Equal(t, "60", w.Header().Get("Retry-After"))

	// an authenticated user is keyed by id, not by the shared IP
	assert.Equal(t, http.StatusOK, send(uuid.NewString()).Code)
}
