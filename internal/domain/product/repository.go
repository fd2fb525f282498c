package product

import (
	"context"

	"github.com/ledgerline/ledgerline/internal/types"
)

// Repository defines the interface for product data access
type Repository interface {
	Create(ctx context.Context, product *Product) error
	Get(ctx context.Context, id string) (*Product, error)
	List(ctx context.Context, filter *types.ProductFilter) ([]*Product, error)
	Count(ctx context.Context, filter *types.ProductFilter) (int, error)

	// Update overwrites the catalog fields: name, price, tax rate and stock counter
	Update(ctx context.Context, product *Product) error

	// DecrementStock atomically lowers the stock counter of a stock-tracking
	// product by quantity, floored at zero
	DecrementStock(ctx context.Context, id string, quantity int64) error
}
