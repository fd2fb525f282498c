package dto

import (
	"context"
	"strings"

	"github.com/ledgerline/ledgerline/internal/domain/product"
	ierr "github.com/ledgerline/ledgerline/internal/errors"
	"github.com/ledgerline/ledgerline/internal/types"
	"github.com/ledgerline/ledgerline/internal/validator"
	"github.com/shopspring/decimal"
)

// CreateProductRequest represents the request payload for creating a product
type CreateProductRequest struct {
	Name string `json:"name" validate:"required,max=255"`

	// unit_price is the list price new invoice lines snapshot
	UnitPrice decimal.Decimal `json:"unit_price" validate:"amount"`

	// tax_rate_percent defaults to 0
	TaxRatePercent *decimal.Decimal `json:"tax_rate_percent,omitempty" validate:"omitempty,percent"`

	// stock_quantity turns on stock tracking when set
	StockQuantity *int64 `json:"stock_quantity,omitempty" validate:"omitempty,min=0"`
}

func (r *CreateProductRequest) Validate() error {
	return validator.ValidateRequest(r)
}

func (r *CreateProductRequest) ToProduct(ctx context.Context) *product.Product {
	taxRate := decimal.Zero
	if r.TaxRatePercent != nil {
		taxRate = *r.TaxRatePercent
	}
	return &product.Product{
		ID:             types.GenerateUUIDWithPrefix(types.UUID_PREFIX_PRODUCT),
		Name:           strings.TrimSpace(r.Name),
		UnitPrice:      r.UnitPrice,
		TaxRatePercent: taxRate,
		StockQuantity:  r.StockQuantity,
		BaseModel:      types.GetDefaultBaseModel(ctx),
	}
}

// UpdateProductRequest changes catalog fields. Invoices already issued keep
// the price and tax rate they were sold at.
type UpdateProductRequest struct {
	Name           *string          `json:"name,omitempty" validate:"omitempty,max=255"`
	UnitPrice      *decimal.Decimal `json:"unit_price,omitempty" validate:"omitempty,amount"`
	TaxRatePercent *decimal.Decimal `json:"tax_rate_percent,omitempty" validate:"omitempty,percent"`
}

func (r *UpdateProductRequest) Validate() error {
	if err := validator.ValidateRequest(r); err != nil {
		return err
	}
	if r.Name == nil && r.UnitPrice == nil && r.TaxRatePercent == nil {
		return ierr.NewError("nothing to update").
			WithHint("Provide at least one of name, unit_price or tax_rate_percent").
			Mark(ierr.ErrValidation)
	}
	return nil
}

// Apply copies the set fields onto p
func (r *UpdateProductRequest) Apply(p *product.Product) {
	if r.Name != nil {
		p.Name = strings.TrimSpace(*r.Name)
	}
	if r.UnitPrice != nil {
		p.UnitPrice = *r.UnitPrice
	}
	if r.TaxRatePercent != nil {
		p.TaxRatePercent = *r.TaxRatePercent
	}
}

// UpdateProductStockRequest sets the stock counter. A null stock_quantity
// stops tracking stock for the product.
type UpdateProductStockRequest struct {
	StockQuantity *int64 `json:"stock_quantity" validate:"omitempty,min=0"`
}

func (r *UpdateProductStockRequest) Validate() error {
	return validator.ValidateRequest(r)
}

type ProductResponse struct {
	*product.Product
}

// ListProductsResponse represents the response for listing products
type ListProductsResponse = types.ListResponse[*ProductResponse]
