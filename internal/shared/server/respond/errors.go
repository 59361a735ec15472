package respond

import (
	"github.com/gin-gonic/gin"

	"nlp-backend/internal/shared/telemetry"
)

// ErrorResponse is the error body returned to clients.
type ErrorResponse struct {
	Error string `json:"error"`
}

// Error logs the failure under code and aborts with {"error": message}.
func Error(c *gin.Context, status int, code, message string) {
	ErrorWithCause(c, status, code, message, nil)
}

// ErrorWithCause is Error with an underlying error attached to the log line only.
func ErrorWithCause(c *gin.Context, status int, code, message string, cause error) {
	fields := map[string]any{
		"status":     status,
		"code":       code,
		"message":    message,
		"path":       c.Request.URL.Path,
		"method":     c.Request.Method,
		"request_id": c.GetString("requestId"),
	}
	if recordType := c.GetString("recordType"); recordType != "" {
		fields["record_type"] = recordType
	}
	if cause != nil {
		fields["error"] = cause.Error()
	}
	telemetry.Error("http.error", fields)

	c.AbortWithStatusJSON(status, ErrorResponse{Error: message})
}
