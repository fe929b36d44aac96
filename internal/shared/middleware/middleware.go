package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"evently/internal/guard"
	"evently/internal/shared/utils/response"
	"evently/pkg/logger"
)

// RequestID tags every request with an X-Request-ID, keeping one the caller sent
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("request_id", id)
		c.Header("X-Request-ID", id)
		c.Next()
	}
}

// RequestLogger logs every request once it has been served
func RequestLogger(l *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		duration := time.Since(start)

		reqLogger := l
		if id := c.GetString("request_id"); id != "" {
			reqLogger = l.WithRequestID(id)
		}
		reqLogger.LogHTTPRequest(c, duration)
		for _, err := range c.Errors {
			reqLogger.LogHTTPError(c, err.Err, c.Writer.Status())
		}
	}
}

// RequireSession admits any signed-in user
func RequireSession(state guard.SessionState) gin.HandlerFunc {
	return RequireRoles(state)
}

// RequireRoles admits signed-in users holding one of roles. No roles admits
// every signed-in user.
func RequireRoles(state guard.SessionState, roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		switch guard.DecideFor(state, roles) {
		case guard.Pending:
			response.RespondJSON(c, "pending", http.StatusAccepted, "Session is loading", nil, nil)
			c.Abort()
		case guard.RedirectLogin:
			c.Redirect(http.StatusFound, guard.LoginRedirect(c.Request.URL.RequestURI()))
			c.Abort()
		case guard.RedirectHome:
			c.Redirect(http.StatusFound, guard.PathHome)
			c.Abort()
		default:
			c.Next()
		}
	}
}
