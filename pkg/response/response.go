package response

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
)

// ErrorBody is the standard error shape: a human message plus the raw cause
// for diagnostics.
type ErrorBody struct {
	Message string      `json:"message"`
	Error   interface{} `json:"error,omitempty"`
}

// JSON writes a success payload as-is.
func JSON(c *gin.Context, status int, payload interface{}) {
	c.JSON(status, payload)
}

// Resource writes a message plus the affected resource under the given key.
func Resource(c *gin.Context, status int, message, key string, resource interface{}) {
	c.JSON(status, gin.H{"message": message, key: resource})
}

// Created writes a 201 with a message and the created resource under the
// given key.
func Created(c *gin.Context, message, key string, resource interface{}) {
	Resource(c, http.StatusCreated, message, key, resource)
}

// Message writes a body containing only a message.
func Message(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"message": message})
}

// Error writes the standard error body.
func Error(c *gin.Context, status int, message string, err error) {
	body := ErrorBody{Message: message}
	if err != nil {
		body.Error = err.Error()
	}
	c.JSON(status, body)
}

// ErrorWithLog writes an error response and logs the cause via slog.
func ErrorWithLog(logger *slog.Logger, c *gin.Context, status int, message string, err error) {
	if logger != nil && err != nil {
		logger.ErrorContext(c.Request.Context(), message, slog.Int("status", status), slog.String("error", err.Error()))
	}

	Error(c, status, message, err)
}
