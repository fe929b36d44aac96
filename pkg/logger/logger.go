package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// Logger wraps slog.Logger with additional functionality
type Logger struct {
	*slog.Logger
}

// New creates a new logger writing to stdout
func New() *Logger {
	return NewWithOutput(os.Stdout, os.Getenv("LOG_LEVEL"), gin.Mode() != gin.DebugMode)
}

// NewWithOutput creates a logger on w. The CLI passes stderr so command output stays clean.
func NewWithOutput(w io.Writer, levelStr string, structured bool) *Logger {
	level := getLogLevel(levelStr)

	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: level == slog.LevelDebug,
	}

	var handler slog.Handler
	if structured {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	return &Logger{
		Logger: slog.New(handler),
	}
}

// Discard returns a logger that drops everything, for tests
func Discard() *Logger {
	return &Logger{Logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
}

// getLogLevel converts string to slog.Level
func getLogLevel(levelStr string) slog.Level {
	switch strings.ToLower(levelStr) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// WithRequestID adds request ID to logger context
func (l *Logger) WithRequestID(requestID string) *Logger {
	return &Logger{
		Logger: l.Logger.With(slog.String("request_id", requestID)),
	}
}

// WithUserEmail adds the signed-in user to logger context
func (l *Logger) WithUserEmail(email string) *Logger {
	return &Logger{
		Logger: l.Logger.With(slog.String("user_email", email)),
	}
}

// HTTP logging methods

// LogHTTPRequest logs a request served by the web shell
func (l *Logger) LogHTTPRequest(c *gin.Context, duration time.Duration) {
	l.Logger.InfoContext(c.Request.Context(),
		"HTTP Request",
		slog.String("method", c.Request.Method),
		slog.String("path", c.Request.URL.Path),
		slog.String("query", c.Request.URL.RawQuery),
		slog.Int("status", c.Writer.Status()),
		slog.Duration("duration", duration),
		slog.String("ip", c.ClientIP()),
		slog.String("user_agent", c.Request.UserAgent()),
		slog.Int("size", c.Writer.Size()),
	)
}

// LogHTTPError logs an HTTP error
func (l *Logger) LogHTTPError(c *gin.Context, err error, statusCode int) {
	l.Logger.ErrorContext(c.Request.Context(),
		"HTTP Error",
		slog.String("method", c.Request.Method),
		slog.String("path", c.Request.URL.Path),
		slog.Int("status", statusCode),
		slog.String("error", err.Error()),
		slog.String("ip", c.ClientIP()),
	)
}

// Backend API logging methods

// LogAPIRequest logs a call made to the ticketing backend
func (l *Logger) LogAPIRequest(ctx context.Context, method, path string, status int, duration time.Duration, requestID string) {
	level := slog.LevelDebug
	if status >= 500 || status == 0 {
		level = slog.LevelWarn
	}
	l.Logger.Log(ctx, level,
		"API Request",
		slog.String("method", method),
		slog.String("path", path),
		slog.Int("status", status),
		slog.Duration("duration", duration),
		slog.String("request_id", requestID),
	)
}

// LogSessionCleared logs the forced sign-out after the backend rejected the token
func (l *Logger) LogSessionCleared(ctx context.Context, path string) {
	l.Logger.WarnContext(ctx,
		"Session Cleared",
		slog.String("reason", "unauthorized"),
		slog.String("path", path),
	)
}

// Business logic logging methods

// LogEventCreated logs when an event is created
func (l *Logger) LogEventCreated(ctx context.Context, eventID, name string) {
	l.Logger.InfoContext(ctx,
		"Event Created",
		slog.String("event_id", eventID),
		slog.String("name", name),
	)
}

// LogCheckout logs a finished checkout
func (l *Logger) LogCheckout(ctx context.Context, orderID, eventID string, quantity int) {
	l.Logger.InfoContext(ctx,
		"Checkout Completed",
		slog.String("order_id", orderID),
		slog.String("event_id", eventID),
		slog.Int("quantity", quantity),
	)
}

// LogCheckoutFailure logs a checkout stopped at one of its stages
func (l *Logger) LogCheckoutFailure(ctx context.Context, stage, eventID string, err error) {
	l.Logger.WarnContext(ctx,
		"Checkout Failed",
		slog.String("stage", stage),
		slog.String("event_id", eventID),
		slog.String("error", err.Error()),
	)
}

// Security logging methods

// LogLogin logs successful authentication
func (l *Logger) LogLogin(ctx context.Context, email, role string) {
	l.Logger.InfoContext(ctx,
		"Login Success",
		slog.String("user_email", email),
		slog.String("role", role),
	)
}

// LogLoginFailure logs failed authentication
func (l *Logger) LogLoginFailure(ctx context.Context, email, reason string) {
	l.Logger.WarnContext(ctx,
		"Login Failure",
		slog.String("user_email", email),
		slog.String("reason", reason),
	)
}

// LogLogout logs a sign-out
func (l *Logger) LogLogout(ctx context.Context, email string) {
	l.Logger.InfoContext(ctx,
		"Logout",
		slog.String("user_email", email),
	)
}

// LogRateLimitExceeded logs rate limit exceeded
func (l *Logger) LogRateLimitExceeded(ctx context.Context, ip, endpoint string) {
	l.Logger.WarnContext(ctx,
		"Rate Limit Exceeded",
		slog.String("ip", ip),
		slog.String("endpoint", endpoint),
	)
}

// Helper methods for common patterns

// InfoWithContext logs an info message with context
func (l *Logger) InfoWithContext(ctx context.Context, msg string, fields map[string]interface{}) {
	args := make([]interface{}, 0, len(fields)*2)
	for k, v := range fields {
		args = append(args, slog.Any(k, v))
	}
	l.Logger.InfoContext(ctx, msg, args...)
}

// ErrorWithContext logs an error message with context
func (l *Logger) ErrorWithContext(ctx context.Context, msg string, err error, fields map[string]interface{}) {
	args := make([]interface{}, 0, len(fields)*2+2)
	args = append(args, slog.String("error", err.Error()))
	for k, v := range fields {
		args = append(args, slog.Any(k, v))
	}
	l.Logger.ErrorContext(ctx, msg, args...)
}
