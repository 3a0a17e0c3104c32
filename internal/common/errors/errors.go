package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorCode classifies an application error for status mapping and logging.
type ErrorCode string

const (
	ErrCodeInternal     ErrorCode = "INTERNAL_ERROR"
	ErrCodeBadRequest   ErrorCode = "BAD_REQUEST"
	ErrCodeNotFound     ErrorCode = "NOT_FOUND"
	ErrCodeUnauthorized ErrorCode = "UNAUTHORIZED"
	ErrCodeForbidden    ErrorCode = "FORBIDDEN"

	ErrCodeUserNotFound ErrorCode = "USER_NOT_FOUND"

	ErrCodeDatabaseError ErrorCode = "DATABASE_ERROR"
	ErrCodeCacheError    ErrorCode = "CACHE_ERROR"
)

// AppError is the typed error handlers hand to the error middleware.
// Message is safe to show to clients; Cause is only logged.
type AppError struct {
	Code    ErrorCode
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

func (e *AppError) IsNotFound() bool {
	return e.Code == ErrCodeNotFound || e.Code == ErrCodeUserNotFound
}

func (e *AppError) IsUnauthorized() bool {
	return e.Code == ErrCodeUnauthorized || e.Code == ErrCodeForbidden
}

func (e *AppError) IsInternal() bool {
	return e.Code == ErrCodeInternal ||
		e.Code == ErrCodeDatabaseError ||
		e.Code == ErrCodeCacheError
}

func New(code ErrorCode, message string) *AppError {
	return &AppError{Code: code, Message: message}
}

func Wrap(err error, code ErrorCode, message string) *AppError {
	return &AppError{Code: code, Message: message, Cause: err}
}

func NewBadRequestError(message string) *AppError {
	return New(ErrCodeBadRequest, message)
}

func NewUserNotFoundError() *AppError {
	return New(ErrCodeUserNotFound, "User not found")
}

func NewUnauthorizedError() *AppError {
	return New(ErrCodeUnauthorized, "Unauthorized")
}

func NewForbiddenError(message string) *AppError {
	return New(ErrCodeForbidden, message)
}

// NewDatabaseError hides the driver error behind a generic message.
func NewDatabaseError(operation string, err error) *AppError {
	return Wrap(err, ErrCodeDatabaseError, "Internal server error").withOperation(operation)
}

func (e *AppError) withOperation(operation string) *AppError {
	if e.Cause != nil {
		e.Cause = fmt.Errorf("%s: %w", operation, e.Cause)
	}
	return e
}

// AsAppError finds an AppError anywhere in err's chain.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}
