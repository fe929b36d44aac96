package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// clearEnv blanks every key Load reads, so a developer's shell does not leak in
func clearEnv(t *testing.T) {
	for _, key := range []string{
		"API_URL", "API_PREFIX", "API_TIMEOUT", "PORT", "GIN_MODE",
		"SESSION_STORE", "EVENTLY_SESSION_FILE", "REDIS_HOST", "REDIS_PORT",
		"PAYMENT_CURRENCY", "RATE_LIMIT_ENABLED", "MAX_UPLOAD_SIZE",
	} {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")

	cfg := Load()

	assert.Equal(t, "http://localhost:8080/api", cfg.GetAPIBaseURL())
	assert.Equal(t, 30*time.Second, cfg.API.Timeout)
	assert.Equal(t, SessionStoreFile, cfg.Session.Store)
	assert.Equal(t, filepath.Join("/tmp/xdg", "evently", "session.json"), cfg.Session.FilePath)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, "INR", cfg.Payment.Currency)
	assert.False(t, cfg.RateLimit.Enabled)
	assert.Equal(t, int64(10*1024*1024), cfg.Upload.MaxSize)
	assert.Equal(t, ":3000", cfg.GetServerAddress())
	assert.True(t, cfg.IsDevelopment())
}

func TestLoad_Environment(t *testing.T) {
	clearEnv(t)
	t.Setenv("API_URL", "https://tickets.example.com/")
	t.Setenv("API_PREFIX", "/v2/")
	t.Setenv("API_TIMEOUT", "5s")
	t.Setenv("SESSION_STORE", "Redis")
	t.Setenv("REDIS_HOST", "cache")
	t.Setenv("REDIS_PORT", "6380")
	t.Setenv("RATE_LIMIT_ENABLED", "true")
	t.Setenv("RATE_LIMIT_WHITELISTED_IPS", " 10.0.0.1, ,10.0.0.2 ")
	t.Setenv("GIN_MODE", "release")
	t.Setenv("MAX_UPLOAD_SIZE", "not-a-number")

	cfg := Load()

	assert.Equal(t, "https://tickets.example.com/v2", cfg.GetAPIBaseURL())
	assert.Equal(t, 5*time.Second, cfg.API.Timeout)
	assert.Equal(t, SessionStoreRedis, cfg.Session.Store)
	assert.Equal(t, "cache:6380", cfg.Redis.Addr)
	assert.True(t, cfg.RateLimit.Enabled)
	assert.Equal(t, []string{"10.0.0.1", "10.0.0.2"}, cfg.RateLimit.WhitelistedIPs)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, int64(10*1024*1024), cfg.Upload.MaxSize)
}

func TestGetAPIBaseURL_NoPrefix(t *testing.T) {
	cfg := &Config{API: APIConfig{URL: "http://backend:8080/", Prefix: ""}}
	assert.Equal(t, "http://backend:8080", cfg.GetAPIBaseURL())
}
