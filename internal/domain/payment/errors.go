package payment

import "errors"

var (
	// ErrPaymentNotFound is returned when a payment id does not resolve
	ErrPaymentNotFound = errors.New("payment not found")

	// ErrInvalidAmount is returned when a payment amount is not strictly positive
	ErrInvalidAmount = errors.New("invalid payment amount")
)
