package request

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/eduspace/course-server-go/pkg/apperrors"
	"github.com/eduspace/course-server-go/pkg/response"
)

// Handler turns errors deferred via c.Error into the standard error body.
// Handlers keep their own mapping for domain sentinels and defer everything
// else here; a response already written downstream is left alone.
func Handler(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err
		status, message := classify(err)
		response.ErrorWithLog(logger, c, status, message, err)
	}
}

// classify maps an error to an HTTP status and a client-safe message.
func classify(err error) (int, string) {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return appErr.StatusCode(), appErr.Message()
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return http.StatusNotFound, "Resource not found"
	}

	if strings.Contains(err.Error(), "invalid input syntax for type uuid") {
		return http.StatusBadRequest, "Invalid ID format"
	}

	return http.StatusInternalServerError, "Internal server error"
}
