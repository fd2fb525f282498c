package customer

import (
	"strings"

	ierr "github.com/ledgerline/ledgerline/internal/errors"
	"github.com/ledgerline/ledgerline/internal/types"
)

// Customer is the party an invoice is billed to
type Customer struct {
	// ID is the unique identifier for the customer
	ID string `db:"id" json:"id"`

	// Name is the display name of the customer
	Name string `db:"name" json:"name"`

	// Email is the billing email of the customer
	Email string `db:"email" json:"email"`

	// Phone is the contact number of the customer
	Phone string `db:"phone" json:"phone"`

	// TaxNumber is the customer's tax registration number, printed on invoices
	TaxNumber string `db:"tax_number" json:"tax_number"`

	// BillingAddress is the free-form billing address
	BillingAddress string `db:"billing_address" json:"billing_address"`

	types.BaseModel
}

func (c *Customer) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return ierr.NewError("customer name is required").
			WithHint("Customer name is required").
			Mark(ierr.ErrValidation)
	}
	return nil
}
