package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Session storage back ends
const (
	SessionStoreMemory = "memory"
	SessionStoreFile   = "file"
	SessionStoreRedis  = "redis"
)

// Config holds all configuration for the client, the CLI and the web shell
type Config struct {
	// Backend API
	API APIConfig

	// Web shell server configuration
	Port           string
	GinMode        string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	MaxHeaderBytes int
	AllowedOrigins []string

	// Session persistence
	Session SessionConfig

	// Redis configuration
	Redis RedisConfig

	// Payment gateway
	Payment PaymentConfig

	// Rate limiting
	RateLimit RateLimitConfig

	// File upload
	Upload UploadConfig

	// Logging
	LogLevel string

	// Metrics
	MetricsEnabled bool
}

// APIConfig holds the ticketing backend location
type APIConfig struct {
	URL     string
	Prefix  string
	Timeout time.Duration
}

// SessionConfig selects where the signed-in session is persisted
type SessionConfig struct {
	Store     string
	FilePath  string
	Namespace string
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	Addr     string

	SessionTTL time.Duration
	CacheTTL   time.Duration
}

// PaymentConfig holds checkout widget settings
type PaymentConfig struct {
	Currency      string
	ScriptURL     string
	SandboxSecret string
}

// RateLimitConfig holds rate limiting configuration for the web shell
type RateLimitConfig struct {
	Enabled          bool          `json:"enabled"`
	WindowDuration   time.Duration `json:"window_duration"`
	DefaultRequests  int           `json:"default_requests"`
	SessionRequests  int           `json:"session_requests"`
	CheckoutRequests int           `json:"checkout_requests"`
	WhitelistedIPs   []string      `json:"whitelisted_ips"`
}

// UploadConfig holds file upload configuration
type UploadConfig struct {
	MaxSize int64
}

// Load loads configuration from environment variables
func Load() *Config {
	cfg := &Config{
		API: APIConfig{
			URL:     getEnv("API_URL", "http://localhost:8080"),
			Prefix:  getEnv("API_PREFIX", "/api"),
			Timeout: getDurationEnv("API_TIMEOUT", 30*time.Second),
		},

		// Web shell configuration
		Port:           getEnv("PORT", "3000"),
		GinMode:        getEnv("GIN_MODE", "debug"),
		ReadTimeout:    getDurationEnv("READ_TIMEOUT", 15*time.Second),
		WriteTimeout:   getDurationEnv("WRITE_TIMEOUT", 60*time.Second),
		IdleTimeout:    getDurationEnv("IDLE_TIMEOUT", 60*time.Second),
		MaxHeaderBytes: getIntEnv("MAX_HEADER_BYTES", 1<<20), // 1 MB
		AllowedOrigins: getStringSliceEnv("ALLOWED_ORIGINS", []string{"http://localhost:3000", "http://localhost:5173"}),

		Session: SessionConfig{
			Store:     strings.ToLower(getEnv("SESSION_STORE", SessionStoreFile)),
			FilePath:  getEnv("EVENTLY_SESSION_FILE", defaultSessionFile()),
			Namespace: getEnv("SESSION_NAMESPACE", "default"),
		},

		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getIntEnv("REDIS_DB", 0),

			SessionTTL: getDurationEnv("REDIS_SESSION_TTL", 24*time.Hour),
			CacheTTL:   getDurationEnv("REDIS_CACHE_TTL", 5*time.Minute),
		},

		Payment: PaymentConfig{
			Currency:      getEnv("PAYMENT_CURRENCY", "INR"),
			ScriptURL:     getEnv("PAYMENT_SCRIPT_URL", "https://checkout.razorpay.com/v1/checkout.js"),
			SandboxSecret: getEnv("PAYMENT_SANDBOX_SECRET", ""),
		},

		RateLimit: RateLimitConfig{
			Enabled:          getBoolEnv("RATE_LIMIT_ENABLED", false),
			WindowDuration:   getDurationEnv("RATE_LIMIT_WINDOW_DURATION", 60*time.Second),
			DefaultRequests:  getIntEnv("RATE_LIMIT_DEFAULT_REQUESTS", 120),
			SessionRequests:  getIntEnv("RATE_LIMIT_SESSION_REQUESTS", 10),
			CheckoutRequests: getIntEnv("RATE_LIMIT_CHECKOUT_REQUESTS", 20),
			WhitelistedIPs:   getStringSliceEnv("RATE_LIMIT_WHITELISTED_IPS", []string{}),
		},

		Upload: UploadConfig{
			MaxSize: getInt64Env("MAX_UPLOAD_SIZE", 10*1024*1024), // 10 MB
		},

		LogLevel: getEnv("LOG_LEVEL", "info"),

		MetricsEnabled: getBoolEnv("METRICS_ENABLED", true),
	}

	cfg.Redis.Addr = cfg.Redis.Host + ":" + cfg.Redis.Port

	return cfg
}

// defaultSessionFile resolves $XDG_CONFIG_HOME/evently/session.json, falling back to ~/.config
func defaultSessionFile() string {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return filepath.Join(os.TempDir(), "evently", "session.json")
		}
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, "evently", "session.json")
}

// getEnv gets an environment variable with a fallback value
func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// getIntEnv gets an integer environment variable with a fallback value
func getIntEnv(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return fallback
}

// getInt64Env gets an int64 environment variable with a fallback value
func getInt64Env(key string, fallback int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return fallback
}

// getDurationEnv gets a duration environment variable with a fallback value
func getDurationEnv(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return fallback
}

// getBoolEnv gets a boolean environment variable with a fallback value
func getBoolEnv(key string, fallback bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return fallback
}

// getStringSliceEnv gets a comma-separated string environment variable as a slice
func getStringSliceEnv(key string, fallback []string) []string {
	if value := os.Getenv(key); value != "" {
		parts := strings.Split(value, ",")
		var result []string
		for _, part := range parts {
			if trimmed := strings.TrimSpace(part); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		if len(result) > 0 {
			return result
		}
	}
	return fallback
}

// IsProduction returns true if the web shell is running in release mode
func (c *Config) IsProduction() bool {
	return c.GinMode == "release"
}

// IsDevelopment returns true if the web shell is running in debug mode
func (c *Config) IsDevelopment() bool {
	return c.GinMode == "debug"
}

// GetServerAddress returns the web shell listen address
func (c *Config) GetServerAddress() string {
	return ":" + c.Port
}

// GetAPIBaseURL returns the backend base URL including the API prefix
func (c *Config) GetAPIBaseURL() string {
	base := strings.TrimRight(c.API.URL, "/")
	if prefix := strings.Trim(c.API.Prefix, "/"); prefix != "" {
		return base + "/" + prefix
	}
	return base
}
