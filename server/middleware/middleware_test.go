package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func okHandler(c echo.Context) error {
	return c.String(http.StatusOK, "ok")
}

func serve(e *echo.Echo, header map[string]string) int {
	req := httptest.NewRequest(http.MethodPost, "/hook", nil)
	for k, v := range header {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec.Code
}

func TestRateLimiter_Allow(t *testing.T) {
	rl := NewRateLimiter(time.Hour, 2)

	assert.True(t, rl.Allow("a"))
	assert.True(t, rl.Allow("a"))
	assert.False(t, rl.Allow("a"))
	assert.True(t, rl.Allow("b"))
	assert.Equal(t, 2, rl.Size())
}

func TestRateLimiter_DropsIdleKeys(t *testing.T) {
	rl := NewRateLimiter(time.Hour, 1)
	now := time.Date(2025, 11, 12, 9, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }

	assert.True(t, rl.Allow("a"))
	assert.False(t, rl.Allow("a"))

	now = now.Add(11 * time.Minute)
	assert.True(t, rl.Allow("b"))
	assert.Equal(t, 1, rl.Size())
}

func TestRateLimiter_Wait(t *testing.T) {
	rl := NewRateLimiter(time.Hour, 1)
	require.NoError(t, rl.Wait(context.Background(), "a"))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	assert.Error(t, rl.Wait(ctx, "a"))
}

func TestRateLimit_Middleware(t *testing.T) {
	e := echo.New()
	e.POST("/hook", okHandler, RateLimit(NewRateLimiter(time.Hour, 1), nil))

	assert.Equal(t, http.StatusOK, serve(e, map[string]string{CallIDHeader: "call-1"}))
	assert.Equal(t, http.StatusTooManyRequests, serve(e, map[string]string{CallIDHeader: "call-1"}))
	assert.Equal(t, http.StatusOK, serve(e, map[string]string{CallIDHeader: "call-2"}))
}

func TestWebhookSecret(t *testing.T) {
	e := echo.New()
	e.POST("/hook", okHandler, WebhookSecret("s3cret"))

	assert.Equal(t, http.StatusOK, serve(e, map[string]string{SecretHeader: "s3cret"}))
	assert.Equal(t, http.StatusUnauthorized, serve(e, map[string]string{SecretHeader: "wrong"}))
	assert.Equal(t, http.StatusUnauthorized, serve(e, nil))

	open := echo.New()
	open.POST("/hook", okHandler, WebhookSecret(""))
	assert.Equal(t, http.StatusOK, serve(open, nil))
}
