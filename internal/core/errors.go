// AngelaMos | 2026
// errors.go

package core

import (
	"errors"
	"net/http"
)

// Sentinel errors returned by repositories and services. Handlers map
// them onto the HTTP taxonomy exhaustively; anything unmatched becomes
// a 500 INTERNAL_ERROR.
var (
	ErrNotFound     = errors.New("not found")
	ErrDuplicateKey = errors.New("duplicate key")
	ErrForbidden    = errors.New("forbidden")
	ErrUnauthorized = errors.New("unauthorized")
	ErrInvalidInput = errors.New("invalid input")
	ErrTokenExpired = errors.New("token expired")
	ErrTokenInvalid = errors.New("token invalid")
)

type AppError struct {
	Err     error
	Code    string
	Message string
	Status  int
	Details any
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NewAppError(err error, message string, status int, code string) *AppError {
	return &AppError{
		Err:     err,
		Code:    code,
		Message: message,
		Status:  status,
	}
}

func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

func ValidationError(message string, details any) *AppError {
	return &AppError{
		Err:     ErrInvalidInput,
		Code:    "VALIDATION_ERROR",
		Message: message,
		Status:  http.StatusBadRequest,
		Details: details,
	}
}

func NotFoundError(resource string) *AppError {
	return &AppError{
		Err:     ErrNotFound,
		Code:    "NOT_FOUND",
		Message: resource + " not found",
		Status:  http.StatusNotFound,
	}
}

func DuplicateError(field string) *AppError {
	return &AppError{
		Err:     ErrDuplicateKey,
		Code:    "DUPLICATE_ENTRY",
		Message: field + " already exists",
		Status:  http.StatusConflict,
	}
}

func ForbiddenError(message string) *AppError {
	if message == "" {
		message = "insufficient permissions"
	}
	return &AppError{
		Err:     ErrForbidden,
		Code:    "FORBIDDEN",
		Message: message,
		Status:  http.StatusForbidden,
	}
}

func UnauthorizedError(message string) *AppError {
	if message == "" {
		message = "authentication required"
	}
	return &AppError{
		Err:     ErrUnauthorized,
		Code:    "UNAUTHORIZED",
		Message: message,
		Status:  http.StatusUnauthorized,
	}
}

func TokenExpiredError() *AppError {
	return &AppError{
		Err:     ErrTokenExpired,
		Code:    "TOKEN_EXPIRED",
		Message: "access token has expired",
		Status:  http.StatusUnauthorized,
	}
}

func TokenInvalidError() *AppError {
	return &AppError{
		Err:     ErrTokenInvalid,
		Code:    "INVALID_TOKEN",
		Message: "invalid access token",
		Status:  http.StatusForbidden,
	}
}

func DatabaseError() *AppError {
	return &AppError{
		Code:    "DATABASE_ERROR",
		Message: "an unexpected database error occurred",
		Status:  http.StatusInternalServerError,
	}
}
