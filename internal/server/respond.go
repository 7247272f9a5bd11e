package server

import (
	"log/slog"

	"github.com/gin-gonic/gin"
)

// ErrorBody is the error object returned by every failing endpoint.
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// ErrorResponse wraps ErrorBody.
type ErrorResponse struct {
	Error     ErrorBody `json:"error"`
	RequestID string    `json:"request_id,omitempty"`
}

func respondError(c *gin.Context, status int, code, message string, details any) {
	slog.Warn("Request failed",
		"request_id", RequestIDFromContext(c),
		"status", status,
		"code", code,
		"message", message,
		"path", c.Request.URL.Path,
	)
	c.AbortWithStatusJSON(status, ErrorResponse{
		Error:     ErrorBody{Code: code, Message: message, Details: details},
		RequestID: RequestIDFromContext(c),
	})
}
