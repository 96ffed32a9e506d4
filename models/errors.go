package models

import (
	"fmt"
	"net/http"
)

// Error codes used in API responses and internal error handling.
const (
	ErrCodeInvalidInput = "INVALID_INPUT"
	ErrCodeTimeout      = "TIMEOUT"
	ErrCodeNavigation   = "NAVIGATION_FAILED"
	ErrCodeBrowserCrash = "BROWSER_CRASH"
	ErrCodeAccessDenied = "ACCESS_DENIED"
	ErrCodeRenderFailed = "RENDER_FAILED"
	ErrCodeRateLimited  = "RATE_LIMITED"
	ErrCodeUnauthorized = "UNAUTHORIZED"
	ErrCodeInternal     = "INTERNAL_ERROR"
	ErrCodeBusy         = "SERVER_BUSY"

	// Image generation error codes.
	ErrCodeGenerationFailed = "GENERATION_FAILED"
	ErrCodeGenerationAuth   = "GENERATION_AUTH_FAILURE"
	ErrCodeGenerationLimit  = "GENERATION_RATE_LIMITED"
)

// ErrorDetail is the structured error in API responses.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// PosterError is the internal error type carrying an error code.
type PosterError struct {
	Code    string
	Message string
	Err     error // wrapped original error
}

func (e *PosterError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *PosterError) Unwrap() error {
	return e.Err
}

// NewPosterError creates a new PosterError.
func NewPosterError(code, message string, err error) *PosterError {
	return &PosterError{Code: code, Message: message, Err: err}
}

// ToDetail converts an internal error to an API-facing ErrorDetail.
func (e *PosterError) ToDetail() *ErrorDetail {
	return &ErrorDetail{Code: e.Code, Message: e.Message}
}

// HTTPStatus maps the error code to a response status.
func (e *PosterError) HTTPStatus() int {
	switch e.Code {
	case ErrCodeInvalidInput:
		return http.StatusBadRequest
	case ErrCodeUnauthorized:
		return http.StatusUnauthorized
	case ErrCodeRateLimited:
		return http.StatusTooManyRequests
	case ErrCodeTimeout:
		return http.StatusGatewayTimeout
	case ErrCodeBusy:
		return http.StatusServiceUnavailable
	case ErrCodeNavigation, ErrCodeAccessDenied, ErrCodeBrowserCrash,
		ErrCodeGenerationFailed, ErrCodeGenerationAuth, ErrCodeGenerationLimit:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
