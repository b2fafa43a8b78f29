// Package errors provides custom error types for product-related operations.
package errors

import "errors"

// Messages are returned verbatim to API callers.
var (
	ErrRequiredFields    = errors.New("שם וקטגוריה נדרשים")
	ErrInvalidCharacters = errors.New("שם וקטגוריה חייבים להכיל אותיות בלבד")
)

// ValidationError reports client-correctable input. Err is one of the sentinels above.
type ValidationError struct {
	Field string
	Err   error
}

func (e *ValidationError) Error() string {
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}
