package customer

import "errors"

// ErrCustomerNotFound is returned when a customer id does not resolve
var ErrCustomerNotFound = errors.New("customer not found")
