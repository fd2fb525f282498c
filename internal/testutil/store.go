package testutil

import (
	"context"
	"slices"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/ledgerline/ledgerline/internal/types"
	"github.com/samber/lo"
)

var (
	errItemExists   = errors.New("item already exists")
	errItemNotFound = errors.New("item not found")
)

// FilterFunc reports whether item matches filter for the tenant on ctx
type FilterFunc[T any] func(ctx context.Context, item T, filter interface{}) bool

// SortFunc reports whether i sorts before j
type SortFunc[T any] func(i, j T) bool

// InMemoryStore is the map behind every in-memory repository. Entity stores
// wrap it and own tenant checks, copying and domain errors.
type InMemoryStore[T any] struct {
	mu    sync.RWMutex
	items map[string]T
}

func NewInMemoryStore[T any]() *InMemoryStore[T] {
	return &InMemoryStore[T]{items: make(map[string]T)}
}

func (s *InMemoryStore[T]) Create(_ context.Context, id string, item T) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.items[id]; ok {
		return errItemExists
	}
	s.items[id] = item
	return nil
}

func (s *InMemoryStore[T]) Get(_ context.Context, id string) (T, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	item, ok := s.items[id]
	if !ok {
		return item, errItemNotFound
	}
	return item, nil
}

// List returns the matching items in sortFn order. A filter implementing
// types.BaseFilter also pages the result.
func (s *InMemoryStore[T]) List(ctx context.Context, filter interface{}, filterFn FilterFunc[T], sortFn SortFunc[T]) ([]T, error) {
	result := s.matching(ctx, filter, filterFn)

	if sortFn != nil {
		slices.SortStableFunc(result, func(a, b T) int {
			switch {
			case sortFn(a, b):
				return -1
			case sortFn(b, a):
				return 1
			}
			return 0
		})
	}

	if f, ok := filter.(types.BaseFilter); ok && !f.IsUnlimited() {
		return lo.Subset(result, f.GetOffset(), uint(f.GetLimit())), nil
	}
	return result, nil
}

func (s *InMemoryStore[T]) Count(ctx context.Context, filter interface{}, filterFn FilterFunc[T]) (int, error) {
	return len(s.matching(ctx, filter, filterFn)), nil
}

func (s *InMemoryStore[T]) Update(_ context.Context, id string, item T) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.items[id]; !ok {
		return errItemNotFound
	}
	s.items[id] = item
	return nil
}

// Mutate replaces the item with fn's result while holding the write lock,
// so read-modify-write sequences such as stock decrements do not interleave
func (s *InMemoryStore[T]) Mutate(_ context.Context, id string, fn func(T) (T, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.items[id]
	if !ok {
		return errItemNotFound
	}
	updated, err := fn(item)
	if err != nil {
		return err
	}
	s.items[id] = updated
	return nil
}

func (s *InMemoryStore[T]) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = make(map[string]T)
}

func (s *InMemoryStore[T]) matching(ctx context.Context, filter interface{}, filterFn FilterFunc[T]) []T {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return lo.Filter(lo.Values(s.items), func(item T, _ int) bool {
		return filterFn == nil || filterFn(ctx, item, filter)
	})
}

// CheckTenantFilter reports whether an item belongs to the tenant on ctx
func CheckTenantFilter(ctx context.Context, itemTenantID string) bool {
	return itemTenantID == types.GetTenantID(ctx)
}
