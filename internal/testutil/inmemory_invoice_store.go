package testutil

import (
	"context"
	"strings"
	"sync"

	"github.com/ledgerline/ledgerline/internal/domain/invoice"
	ierr "github.com/ledgerline/ledgerline/internal/errors"
	"github.com/ledgerline/ledgerline/internal/types"
	"github.com/samber/lo"
)

// InMemoryInvoiceStore implements invoice.Repository
type InMemoryInvoiceStore struct {
	*InMemoryStore[*invoice.Invoice]

	mu sync.Mutex
	// createMu makes the number check and insert atomic, like the unique index
	createMu          sync.Mutex
	pendingConflicts  int
	createWithNumbers []string
}

// NewInMemoryInvoiceStore creates a new in-memory invoice store
func NewInMemoryInvoiceStore() *InMemoryInvoiceStore {
	return &InMemoryInvoiceStore{
		InMemoryStore: NewInMemoryStore[*invoice.Invoice](),
	}
}

func copyInvoice(inv *invoice.Invoice) *invoice.Invoice {
	if inv == nil {
		return nil
	}
	cp := *inv
	cp.LineItems = lo.Map(inv.LineItems, func(item *invoice.InvoiceLineItem, _ int) *invoice.InvoiceLineItem {
		itemCopy := *item
		return &itemCopy
	})
	return &cp
}

// SimulateNumberConflicts makes the next n creates fail as if a concurrent
// request had taken the same invoice number
func (s *InMemoryInvoiceStore) SimulateNumberConflicts(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pendingConflicts = n
}

// AttemptedNumbers returns every invoice number a create was attempted with, in order
func (s *InMemoryInvoiceStore) AttemptedNumbers() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.createWithNumbers...)
}

func (s *InMemoryInvoiceStore) CreateWithLineItems(ctx context.Context, inv *invoice.Invoice) error {
	s.createMu.Lock()
	defer s.createMu.Unlock()

	s.mu.Lock()
	s.createWithNumbers = append(s.createWithNumbers, inv.InvoiceNumber)
	simulated := s.pendingConflicts > 0
	if simulated {
		s.pendingConflicts--
	}
	s.mu.Unlock()

	taken, err := s.InMemoryStore.Count(ctx, nil, func(ctx context.Context, existing *invoice.Invoice, _ interface{}) bool {
		return existing.TenantID == inv.TenantID && existing.InvoiceNumber == inv.InvoiceNumber
	})
	if err != nil {
		return err
	}

	if simulated || taken > 0 {
		return ierr.NewError("duplicate invoice number").
			WithMarks(invoice.ErrNumberConflict).
			WithHintf("Invoice number %s is already taken", inv.InvoiceNumber).
			Mark(ierr.ErrAlreadyExists)
	}

	return s.InMemoryStore.Create(ctx, inv.ID, copyInvoice(inv))
}

func (s *InMemoryInvoiceStore) Get(ctx context.Context, id string) (*invoice.Invoice, error) {
	inv, err := s.InMemoryStore.Get(ctx, id)
	if err != nil || !CheckTenantFilter(ctx, inv.TenantID) {
		return nil, ierr.WithError(invoice.ErrInvoiceNotFound).
			WithHintf("Invoice %s not found", id).
			WithReportableDetails(map[string]any{
				"invoice_id": id,
			}).
			Mark(ierr.ErrNotFound)
	}
	return copyInvoice(inv), nil
}

func (s *InMemoryInvoiceStore) GetForUpdate(ctx context.Context, id string) (*invoice.Invoice, error) {
	inv, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	inv.LineItems = nil
	return inv, nil
}

// Update persists status and cancellation, keeping stored line items
func (s *InMemoryInvoiceStore) Update(ctx context.Context, inv *invoice.Invoice) error {
	existing, err := s.Get(ctx, inv.ID)
	if err != nil {
		return err
	}
	existing.InvoiceStatus = inv.InvoiceStatus
	existing.CancelledAt = inv.CancelledAt
	inv.Touch(ctx)
	existing.UpdatedAt = inv.UpdatedAt
	existing.UpdatedBy = inv.UpdatedBy
	return s.InMemoryStore.Update(ctx, inv.ID, existing)
}

func (s *InMemoryInvoiceStore) List(ctx context.Context, filter *types.InvoiceFilter) ([]*invoice.Invoice, error) {
	if filter == nil {
		filter = types.NewInvoiceFilter()
	}
	invoices, err := s.InMemoryStore.List(ctx, filter, invoiceFilterFn, invoiceSortFn)
	if err != nil {
		return nil, err
	}
	return lo.Map(invoices, func(inv *invoice.Invoice, _ int) *invoice.Invoice {
		return copyInvoice(inv)
	}), nil
}

func (s *InMemoryInvoiceStore) Count(ctx context.Context, filter *types.InvoiceFilter) (int, error) {
	if filter == nil {
		filter = types.NewNoLimitInvoiceFilter()
	}
	return s.InMemoryStore.Count(ctx, filter, invoiceFilterFn)
}

func (s *InMemoryInvoiceStore) CountByNumberPrefix(ctx context.Context, prefix string) (int, error) {
	return s.InMemoryStore.Count(ctx, nil, func(ctx context.Context, inv *invoice.Invoice, _ interface{}) bool {
		return CheckTenantFilter(ctx, inv.TenantID) && strings.HasPrefix(inv.InvoiceNumber, prefix)
	})
}

func invoiceFilterFn(ctx context.Context, inv *invoice.Invoice, filter interface{}) bool {
	f, ok := filter.(*types.InvoiceFilter)
	if !ok {
		return false
	}

	if !CheckTenantFilter(ctx, inv.TenantID) || !inv.IsPublished() {
		return false
	}
	if f.CustomerID != "" && inv.CustomerID != f.CustomerID {
		return false
	}
	if len(f.InvoiceStatus) > 0 && !lo.Contains(f.InvoiceStatus, inv.InvoiceStatus) {
		return false
	}
	if f.NumberQuery != "" && !strings.Contains(strings.ToLower(inv.InvoiceNumber), strings.ToLower(f.NumberQuery)) {
		return false
	}
	return true
}

// invoiceSortFn orders newest first, breaking ties by number
func invoiceSortFn(i, j *invoice.Invoice) bool {
	if i.IssuedAt.Equal(j.IssuedAt) {
		return i.InvoiceNumber > j.InvoiceNumber
	}
	return i.IssuedAt.After(j.IssuedAt)
}
