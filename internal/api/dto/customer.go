package dto

import (
	"context"
	"strings"

	"github.com/ledgerline/ledgerline/internal/domain/customer"
	"github.com/ledgerline/ledgerline/internal/types"
	"github.com/ledgerline/ledgerline/internal/validator"
)

// CreateCustomerRequest represents the request payload for creating a customer
type CreateCustomerRequest struct {
	Name           string `json:"name" validate:"required,max=255"`
	Email          string `json:"email,omitempty" validate:"omitempty,email"`
	Phone          string `json:"phone,omitempty" validate:"max=50"`
	TaxNumber      string `json:"tax_number,omitempty" validate:"max=50"`
	BillingAddress string `json:"billing_address,omitempty" validate:"max=1000"`
}

func (r *CreateCustomerRequest) Validate() error {
	return validator.ValidateRequest(r)
}

func (r *CreateCustomerRequest) ToCustomer(ctx context.Context) *customer.Customer {
	return &customer.Customer{
		ID:             types.GenerateUUIDWithPrefix(types.UUID_PREFIX_CUSTOMER),
		Name:           strings.TrimSpace(r.Name),
		Email:          strings.TrimSpace(r.Email),
		Phone:          r.Phone,
		TaxNumber:      r.TaxNumber,
		BillingAddress: r.BillingAddress,
		BaseModel:      types.GetDefaultBaseModel(ctx),
	}
}

type CustomerResponse struct {
	*customer.Customer
}

// ListCustomersResponse represents the response for listing customers
type ListCustomersResponse = types.ListResponse[*CustomerResponse]
