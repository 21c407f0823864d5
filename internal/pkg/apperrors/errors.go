package apperrors

import (
	"errors"
	"fmt"
)

var (
	ErrFileNotFound = errors.New("file not found")

	ErrMalformedInput = errors.New("malformed input")

	ErrNoData = errors.New("no data")

	ErrCustomerNotFound = errors.New("customer not found")

	ErrSaleNotFound = errors.New("sale not found")

	ErrCancelled = errors.New("operation cancelled")

	ErrValidation = errors.New("validation failed")

	ErrFileIO = errors.New("file i/o error")
)

type ValidationError struct {
	Field   string
	Message string
	Cause   error
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for field '%s': %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

func (e *ValidationError) Unwrap() error {
	return e.Cause
}

func NewValidationError(field, message string) error {

	return fmt.Errorf("%w: %w", ErrValidation, &ValidationError{Field: field, Message: message})
}

type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("[%s] %s", e.Code, e.Message)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

func WrapFileError(cause error, message string) error {
	return &AppError{
		Code:    "FILE_ERROR",
		Message: message,
		Cause:   fmt.Errorf("%w: %w", ErrFileIO, cause),
	}
}

// MalformedAt reports a decode problem at a 1-based line of a file.
func MalformedAt(path string, line int, format string, args ...any) error {
	return fmt.Errorf("%w: %s line %d: %s", ErrMalformedInput, path, line, fmt.Sprintf(format, args...))
}

// Kind returns the sentinel classifying err, or nil when err is unclassified.
func Kind(err error) error {
	for _, kind := range []error{
		ErrFileNotFound,
		ErrMalformedInput,
		ErrNoData,
		ErrCustomerNotFound,
		ErrSaleNotFound,
		ErrCancelled,
		ErrValidation,
		ErrFileIO,
	} {
		if errors.Is(err, kind) {
			return kind
		}
	}
	return nil
}
