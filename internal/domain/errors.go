package domain

import (
	"errors"
	"fmt"
)

type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	StatusCode int    `json:"-"`
	Err        error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is matches any AppError carrying the same code, so derived copies built
// with WithError or WithMessage still satisfy errors.Is against the sentinel.
func (e *AppError) Is(target error) bool {
	var t *AppError
	if !errors.As(target, &t) {
		return false
	}
	return e.Code == t.Code
}

func (e *AppError) WithError(err error) *AppError {
	return &AppError{
		Code:       e.Code,
		Message:    e.Message,
		StatusCode: e.StatusCode,
		Err:        err,
	}
}

// WithMessage returns a copy of the error with a caller-facing message
func (e *AppError) WithMessage(msg string) *AppError {
	return &AppError{
		Code:       e.Code,
		Message:    msg,
		StatusCode: e.StatusCode,
		Err:        e.Err,
	}
}

// Pre-defined errors
var (
	ErrInternal = &AppError{
		Code:       "INTERNAL_ERROR",
		Message:    "An unexpected error occurred",
		StatusCode: 500,
	}

	ErrBadRequest = &AppError{
		Code:       "BAD_REQUEST",
		Message:    "Invalid request",
		StatusCode: 400,
	}

	ErrNotFound = &AppError{
		Code:       "NOT_FOUND",
		Message:    "Resource not found",
		StatusCode: 404,
	}

	ErrValidationFailed = &AppError{
		Code:       "VALIDATION_FAILED",
		Message:    "Request validation failed",
		StatusCode: 422,
	}

	ErrInvalidImage = &AppError{
		Code:       "INVALID_IMAGE",
		Message:    "Invalid image format or corrupted file",
		StatusCode: 422,
	}

	ErrRateLimitExceeded = &AppError{
		Code:       "RATE_LIMIT_EXCEEDED",
		Message:    "Rate limit exceeded, please try again later",
		StatusCode: 429,
	}

	// Employee errors
	ErrEmployeeNotFound = &AppError{
		Code:       "EMPLOYEE_NOT_FOUND",
		Message:    "Employee not found",
		StatusCode: 404,
	}

	ErrEmployeeExists = &AppError{
		Code:       "EMPLOYEE_EXISTS",
		Message:    "An employee with this code or email already exists",
		StatusCode: 409,
	}

	// Clock transition errors
	ErrAlreadyClockedIn = &AppError{
		Code:       "ALREADY_CLOCKED_IN",
		Message:    "Already timed in today. Please time out first.",
		StatusCode: 409,
	}

	ErrNoOpenClockIn = &AppError{
		Code:       "NO_OPEN_CLOCK_IN",
		Message:    "Cannot time out, no time-in record found for today.",
		StatusCode: 409,
	}

	ErrAlreadyClockedOut = &AppError{
		Code:       "ALREADY_CLOCKED_OUT",
		Message:    "Already timed out today.",
		StatusCode: 409,
	}

	// Face verification errors
	ErrVerificationRejected = &AppError{
		Code:       "VERIFICATION_REJECTED",
		Message:    "Face recognition service rejected the image",
		StatusCode: 422,
	}

	ErrVerificationService = &AppError{
		Code:       "VERIFICATION_SERVICE_ERROR",
		Message:    "Face recognition service failed",
		StatusCode: 502,
	}
)

// IsTransitionViolation reports whether err is one of the clock transition errors
func IsTransitionViolation(err error) bool {
	return errors.Is(err, ErrAlreadyClockedIn) ||
		errors.Is(err, ErrNoOpenClockIn) ||
		errors.Is(err, ErrAlreadyClockedOut)
}
