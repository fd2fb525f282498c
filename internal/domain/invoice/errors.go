package invoice

import (
	"errors"
	"fmt"
)

var (
	// ErrInvoiceNotFound is returned when an invoice id does not resolve
	ErrInvoiceNotFound = errors.New("invoice not found")

	// ErrEmptyInvoice is returned when an invoice is requested without line items
	ErrEmptyInvoice = errors.New("invoice has no line items")

	// ErrInvalidLineInput is returned when a line's price, quantity, discount or tax rate is out of range
	ErrInvalidLineInput = errors.New("invalid line input")

	// ErrNumberConflict is returned when the generated invoice number is already taken
	ErrNumberConflict = errors.New("invoice number already taken")

	// ErrInvoiceCancelled is returned when an operation needs an invoice that is not cancelled
	ErrInvoiceCancelled = errors.New("invoice is cancelled")
)

// ValidationError represents an error that occurs during invoice validation
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed for field %s: %s", e.Field, e.Message)
}

// NewValidationError creates a new validation error
func NewValidationError(field, message string) error {
	return &ValidationError{
		Field:   field,
		Message: message,
	}
}
