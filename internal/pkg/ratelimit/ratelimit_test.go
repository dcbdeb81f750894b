package ratelimit

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func TestAllowWithinLimit(t *testing.T) {
	rl := New(3, time.Minute)

	require.True(t, rl.Allow("1.2.3.4"))
	require.True(t, rl.Allow("1.2.3.4"))
	require.True(t, rl.Allow("1.2.3.4"))
	require.False(t, rl.Allow("1.2.3.4"))

	// Separate keys are tracked independently
	require.True(t, rl.Allow("5.6.7.8"))
}

func TestWindowExpiry(t *testing.T) {
	rl := New(1, 50*time.Millisecond)

	require.True(t, rl.Allow("k"))
	require.False(t, rl.Allow("k"))

	time.Sleep(60 * time.Millisecond)
	require.True(t, rl.Allow("k"))
}

func TestGetRemaining(t *testing.T) {
	rl := New(2, time.Minute)
	require.Equal(t, 2, rl.GetRemaining("k"))
	rl.Allow("k")
	require.Equal(t, 1, rl.GetRemaining("k"))
	rl.Allow("k")
	require.Equal(t, 0, rl.GetRemaining("k"))
}

func TestMiddlewareBlocks(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Middleware(1, time.Minute))
	r.GET("/", func(c *gin.Context) { c.Status(200) })

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/", nil)
	r.ServeHTTP(w, req)
	require.Equal(t, 200, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/", nil))
	require.Equal(t, 429, w.Code)
	require.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))
}
