package ratelimit

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"evently/pkg/logger"
)

var fixedNow = time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

func testConfig() *Config {
	return &Config{
		Enabled:          true,
		WindowDuration:   time.Minute,
		DefaultRequests:  100,
		SessionRequests:  5,
		CheckoutRequests: 10,
		WhitelistedIPs:   []string{"10.0.0.1"},
	}
}

func newLimiter(cfg *Config) (*RateLimiter, redismock.ClientMock) {
	db, mock := redismock.NewClientMock()
	rl := NewRateLimiter(db, cfg)
	rl.now = func() time.Time { return fixedNow }
	return rl, mock
}

func expectWindow(mock redismock.ClientMock, key string, limit int) *redismock.ExpectedCmd {
	return mock.ExpectEval(slidingWindowScript, []string{key},
		fixedNow.Add(-time.Minute).UnixMilli(), fixedNow.UnixMilli(), limit, 60)
}

func TestIsAllowed_UnderLimit(t *testing.T) {
	rl, mock := newLimiter(testConfig())
	expectWindow(mock, "evently:shell:ratelimit:session:1.2.3.4", 5).SetVal([]interface{}{int64(2), int64(3)})

	result, err := rl.IsAllowed(context.Background(), "1.2.3.4", RateLimitTypeSession)
	require.NoError(t, err)

	assert.True(t, result.Allowed)
	assert.Equal(t, 5, result.Limit)
	assert.Equal(t, 3, result.Remaining)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIsAllowed_OverLimit(t *testing.T) {
	rl, mock := newLimiter(testConfig())
	expectWindow(mock, "evently:shell:ratelimit:checkout:1.2.3.4", 10).SetVal([]interface{}{int64(11), int64(0)})

	result, err := rl.IsAllowed(context.Background(), "1.2.3.4", RateLimitTypeCheckout)
	require.NoError(t, err)

	assert.False(t, result.Allowed)
	assert.Equal(t, 0, result.Remaining)
}

func TestIsAllowed_Bypass(t *testing.T) {
	disabled := testConfig()
	disabled.Enabled = false

	tests := []struct {
		name string
		cfg  *Config
		ip   string
		typ  RateLimitType
	}{
		{"disabled", disabled, "1.2.3.4", RateLimitTypeSession},
		{"whitelisted", testConfig(), "10.0.0.1", RateLimitTypeSession},
		{"health", testConfig(), "1.2.3.4", RateLimitTypeHealth},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rl, mock := newLimiter(tt.cfg)

			result, err := rl.IsAllowed(context.Background(), tt.ip, tt.typ)
			require.NoError(t, err)

			assert.True(t, result.Allowed)
			assert.NoError(t, mock.ExpectationsWereMet(), "no redis call expected")
		})
	}
}

func TestGetRateLimitType(t *testing.T) {
	assert.Equal(t, RateLimitTypeHealth, getRateLimitType("/health"))
	assert.Equal(t, RateLimitTypeSession, getRateLimitType("/session/login"))
	assert.Equal(t, RateLimitTypeCheckout, getRateLimitType("/views/events/:id/checkout"))
	assert.Equal(t, RateLimitTypeCheckout, getRateLimitType("/views/my-tickets/:id/refund"))
	assert.Equal(t, RateLimitTypeDefault, getRateLimitType("/views/home"))
}

func TestMiddleware_Rejects(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rl, mock := newLimiter(testConfig())
	expectWindow(mock, "evently:shell:ratelimit:session:203.0.113.9", 5).SetVal([]interface{}{int64(6), int64(0)})

	r := gin.New()
	r.POST("/session/login", Middleware(rl, logger.Discard()), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/session/login", nil)
	req.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.2")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "5", w.Header().Get("X-RateLimit-Limit"))

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Rate limit exceeded", body["message"])
}

func TestMiddleware_RedisDownLetsRequestThrough(t *testing.T) {
	gin.SetMode(gin.TestMode)
	// no expectation set, so the mock fails the call
	rl, _ := newLimiter(testConfig())

	r := gin.New()
	r.GET("/views/home", Middleware(rl, logger.Discard()), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/views/home", nil)
	req.RemoteAddr = "192.0.2.1:5555"
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}
