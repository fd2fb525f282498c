package testutil

import (
	"context"
	"strings"
	"sync"

	"github.com/ledgerline/ledgerline/internal/domain/product"
	ierr "github.com/ledgerline/ledgerline/internal/errors"
	"github.com/ledgerline/ledgerline/internal/types"
	"github.com/samber/lo"
)

// InMemoryProductStore implements product.Repository
type InMemoryProductStore struct {
	*InMemoryStore[*product.Product]

	mu             sync.Mutex
	updateStockErr error
}

// NewInMemoryProductStore creates a new in-memory product store
func NewInMemoryProductStore() *InMemoryProductStore {
	return &InMemoryProductStore{
		InMemoryStore: NewInMemoryStore[*product.Product](),
	}
}

func copyProduct(p *product.Product) *product.Product {
	if p == nil {
		return nil
	}
	cp := *p
	if p.StockQuantity != nil {
		cp.StockQuantity = lo.ToPtr(*p.StockQuantity)
	}
	return &cp
}

func (s *InMemoryProductStore) Create(ctx context.Context, p *product.Product) error {
	if err := s.InMemoryStore.Create(ctx, p.ID, copyProduct(p)); err != nil {
		return ierr.WithError(err).
			WithHintf("Product %s already exists", p.ID).
			Mark(ierr.ErrAlreadyExists)
	}
	return nil
}

func (s *InMemoryProductStore) Get(ctx context.Context, id string) (*product.Product, error) {
	p, err := s.InMemoryStore.Get(ctx, id)
	if err != nil || !CheckTenantFilter(ctx, p.TenantID) {
		return nil, productNotFound(id)
	}
	return copyProduct(p), nil
}

func (s *InMemoryProductStore) List(ctx context.Context, filter *types.ProductFilter) ([]*product.Product, error) {
	if filter == nil {
		filter = types.NewProductFilter()
	}
	products, err := s.InMemoryStore.List(ctx, filter, productFilterFn, productSortFn)
	if err != nil {
		return nil, err
	}
	return lo.Map(products, func(p *product.Product, _ int) *product.Product {
		return copyProduct(p)
	}), nil
}

func (s *InMemoryProductStore) Count(ctx context.Context, filter *types.ProductFilter) (int, error) {
	if filter == nil {
		filter = types.NewNoLimitProductFilter()
	}
	return s.InMemoryStore.Count(ctx, filter, productFilterFn)
}

func (s *InMemoryProductStore) Update(ctx context.Context, p *product.Product) error {
	if _, err := s.Get(ctx, p.ID); err != nil {
		return err
	}
	p.Touch(ctx)
	return s.InMemoryStore.Update(ctx, p.ID, copyProduct(p))
}

func (s *InMemoryProductStore) DecrementStock(ctx context.Context, id string, quantity int64) error {
	s.mu.Lock()
	failure := s.updateStockErr
	s.mu.Unlock()
	if failure != nil {
		return failure
	}

	err := s.InMemoryStore.Mutate(ctx, id, func(p *product.Product) (*product.Product, error) {
		if !CheckTenantFilter(ctx, p.TenantID) || !p.TracksStock() {
			return nil, productNotFound(id)
		}
		updated := copyProduct(p)
		updated.StockQuantity = lo.ToPtr(p.StockAfterSale(quantity))
		updated.Touch(ctx)
		return updated, nil
	})
	if err != nil && !ierr.IsNotFound(err) {
		return productNotFound(id)
	}
	return err
}

// FailStockUpdates makes every following DecrementStock return err; nil restores normal behaviour
func (s *InMemoryProductStore) FailStockUpdates(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.updateStockErr = err
}

func productFilterFn(ctx context.Context, p *product.Product, filter interface{}) bool {
	f, ok := filter.(*types.ProductFilter)
	if !ok {
		return false
	}

	if !CheckTenantFilter(ctx, p.TenantID) || !p.IsPublished() {
		return false
	}
	if f.NameQuery != "" && !strings.Contains(strings.ToLower(p.Name), strings.ToLower(f.NameQuery)) {
		return false
	}
	if f.TracksStock != nil && p.TracksStock() != *f.TracksStock {
		return false
	}
	return true
}

func productSortFn(i, j *product.Product) bool {
	if i.CreatedAt.Equal(j.CreatedAt) {
		return i.ID > j.ID
	}
	return i.CreatedAt.After(j.CreatedAt)
}

func productNotFound(id string) error {
	return ierr.WithError(product.ErrProductNotFound).
		WithHintf("Product %s not found", id).
		WithReportableDetails(map[string]any{
			"product_id": id,
		}).
		Mark(ierr.ErrNotFound)
}
