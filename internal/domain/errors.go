package domain

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidPricingInput     = errors.New("invalid pricing input")
	ErrInvalidDiscount         = errors.New("invalid discount")
	ErrRateUnavailable         = errors.New("metal rate unavailable")
	ErrRateOverrideUnconfirmed = errors.New("manual rate differs from live rate and was not confirmed")
)

// FieldError names the input field that failed validation. It unwraps to one
// of the sentinel errors above.
type FieldError struct {
	Field  string
	Reason string
	Err    error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s: %s", e.Err, e.Field, e.Reason)
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

// InvalidInput builds an ErrInvalidPricingInput for field
func InvalidInput(field, reason string) error {
	return &FieldError{Field: field, Reason: reason, Err: ErrInvalidPricingInput}
}

// InvalidDiscount builds an ErrInvalidDiscount for field
func InvalidDiscount(field, reason string) error {
	return &FieldError{Field: field, Reason: reason, Err: ErrInvalidDiscount}
}
