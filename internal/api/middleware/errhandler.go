package middleware

import (
	"net/http"

	apperrors "jobtrack/internal/common/errors"
	"jobtrack/internal/common/logger"

	"github.com/gin-gonic/gin"
)

// ErrorResponse is the body of every non-2xx JSON response.
type ErrorResponse struct {
	Success bool                     `json:"success"`
	Error   *apperrors.StandardError `json:"error"`
}

// ErrorHandler renders the last error attached with c.Error.
func ErrorHandler(fallback logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		stdErr := apperrors.Normalize(c.Errors.Last().Err)
		status := apperrors.HTTPStatus(stdErr.Code)
		if status >= http.StatusInternalServerError {
			logger.FromContext(c.Request.Context(), fallback).Error("request error", map[string]interface{}{
				"code":  string(stdErr.Code),
				"error": stdErr,
			})
			// driver details stay in the log
			stdErr = &apperrors.StandardError{
				Code:      stdErr.Code,
				Message:   stdErr.Message,
				Retryable: stdErr.Retryable,
				Timestamp: stdErr.Timestamp,
			}
		}

		c.JSON(status, ErrorResponse{Success: false, Error: stdErr})
	}
}
