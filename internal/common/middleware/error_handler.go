package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"papers-store-backend/internal/common/errors"
	"papers-store-backend/internal/common/logger"
)

const (
	RequestIDHeader   = "X-Request-ID"
	requestIDCtxParam = "request_id"
)

// ErrorHandler recovers panics into a generic 500 response.
func ErrorHandler() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		logger.Error().
			Str("request_id", getRequestID(c)).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Str("panic", fmt.Sprintf("%v", recovered)).
			Str("stack", string(debug.Stack())).
			Msg("Panic recovered")

		sendErrorResponse(c, errors.New(errors.ErrCodeInternal, "Internal server error"))
	})
}

// RequestID propagates X-Request-ID or generates one.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.New().String()
		}

		c.Set(requestIDCtxParam, requestID)
		c.Header(RequestIDHeader, requestID)
		c.Next()
	}
}

// Errors turns the last error attached with c.Error into a JSON response,
// unless the handler already wrote one. Errors that are not *errors.AppError
// are reported as internal faults.
func Errors() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err
		appErr, ok := errors.AsAppError(err)
		if !ok {
			appErr = errors.Wrap(err, errors.ErrCodeInternal, "Internal server error")
		}
		sendErrorResponse(c, appErr)
	}
}

func sendErrorResponse(c *gin.Context, appErr *errors.AppError) {
	logError(c, appErr)
	c.AbortWithStatusJSON(statusCode(appErr), gin.H{"error": appErr.Message})
}

func statusCode(appErr *errors.AppError) int {
	switch appErr.Code {
	case errors.ErrCodeBadRequest:
		return http.StatusBadRequest
	case errors.ErrCodeNotFound, errors.ErrCodeUserNotFound:
		return http.StatusNotFound
	case errors.ErrCodeUnauthorized:
		return http.StatusUnauthorized
	case errors.ErrCodeForbidden:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

func logError(c *gin.Context, appErr *errors.AppError) {
	event := logger.Info()
	switch {
	case appErr.IsInternal():
		event = logger.Error()
	case appErr.IsUnauthorized():
		event = logger.Warn()
	}

	event.
		Err(appErr.Cause).
		Str("request_id", getRequestID(c)).
		Str("method", c.Request.Method).
		Str("path", c.Request.URL.Path).
		Str("error_code", string(appErr.Code)).
		Int64("user_id", c.GetInt64(UserIDCtxParam)).
		Msg(appErr.Message)
}

func getRequestID(c *gin.Context) string {
	if id := c.GetString(requestIDCtxParam); id != "" {
		return id
	}
	return "unknown"
}
