package testutil

import (
	"context"

	"github.com/ledgerline/ledgerline/internal/domain/payment"
	ierr "github.com/ledgerline/ledgerline/internal/errors"
	"github.com/ledgerline/ledgerline/internal/types"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// InMemoryPaymentStore implements payment.Repository
type InMemoryPaymentStore struct {
	*InMemoryStore[*payment.Payment]
}

// NewInMemoryPaymentStore creates a new in-memory payment store
func NewInMemoryPaymentStore() *InMemoryPaymentStore {
	return &InMemoryPaymentStore{
		InMemoryStore: NewInMemoryStore[*payment.Payment](),
	}
}

func copyPayment(p *payment.Payment) *payment.Payment {
	if p == nil {
		return nil
	}
	cp := *p
	if p.Reference != nil {
		cp.Reference = lo.ToPtr(*p.Reference)
	}
	return &cp
}

func (s *InMemoryPaymentStore) Create(ctx context.Context, p *payment.Payment) error {
	if err := s.InMemoryStore.Create(ctx, p.ID, copyPayment(p)); err != nil {
		return ierr.WithError(err).
			WithHintf("Payment %s already exists", p.ID).
			Mark(ierr.ErrAlreadyExists)
	}
	return nil
}

func (s *InMemoryPaymentStore) Get(ctx context.Context, id string) (*payment.Payment, error) {
	p, err := s.InMemoryStore.Get(ctx, id)
	if err != nil || !CheckTenantFilter(ctx, p.TenantID) {
		return nil, ierr.WithError(payment.ErrPaymentNotFound).
			WithHintf("Payment %s not found", id).
			WithReportableDetails(map[string]any{
				"payment_id": id,
			}).
			Mark(ierr.ErrNotFound)
	}
	return copyPayment(p), nil
}

func (s *InMemoryPaymentStore) List(ctx context.Context, filter *types.PaymentFilter) ([]*payment.Payment, error) {
	if filter == nil {
		filter = types.NewPaymentFilter()
	}
	payments, err := s.InMemoryStore.List(ctx, filter, paymentFilterFn, paymentSortFn)
	if err != nil {
		return nil, err
	}
	return lo.Map(payments, func(p *payment.Payment, _ int) *payment.Payment {
		return copyPayment(p)
	}), nil
}

func (s *InMemoryPaymentStore) Count(ctx context.Context, filter *types.PaymentFilter) (int, error) {
	if filter == nil {
		filter = types.NewNoLimitPaymentFilter()
	}
	return s.InMemoryStore.Count(ctx, filter, paymentFilterFn)
}

func (s *InMemoryPaymentStore) SumCompletedByInvoiceID(ctx context.Context, invoiceID string) (decimal.Decimal, error) {
	payments, err := s.InMemoryStore.List(ctx, nil, func(ctx context.Context, p *payment.Payment, _ interface{}) bool {
		return CheckTenantFilter(ctx, p.TenantID) &&
			p.InvoiceID == invoiceID &&
			p.PaymentStatus == types.PaymentStatusCompleted &&
			p.IsPublished()
	}, nil)
	if err != nil {
		return decimal.Zero, err
	}

	total := decimal.Zero
	for _, p := range payments {
		total = total.Add(p.Amount)
	}
	return total, nil
}

func (s *InMemoryPaymentStore) SumCompletedByInvoiceIDs(ctx context.Context, invoiceIDs []string) (map[string]decimal.Decimal, error) {
	sums := make(map[string]decimal.Decimal, len(invoiceIDs))
	for _, id := range lo.Uniq(invoiceIDs) {
		total, err := s.SumCompletedByInvoiceID(ctx, id)
		if err != nil {
			return nil, err
		}
		if total.IsPositive() {
			sums[id] = total
		}
	}
	return sums, nil
}

func paymentFilterFn(ctx context.Context, p *payment.Payment, filter interface{}) bool {
	f, ok := filter.(*types.PaymentFilter)
	if !ok {
		return false
	}

	if !CheckTenantFilter(ctx, p.TenantID) || !p.IsPublished() {
		return false
	}
	if f.InvoiceID != nil && p.InvoiceID != *f.InvoiceID {
		return false
	}
	if f.PaymentStatus != nil && p.PaymentStatus != *f.PaymentStatus {
		return false
	}
	if f.PaymentMethod != nil && p.PaymentMethod != *f.PaymentMethod {
		return false
	}
	return true
}

func paymentSortFn(i, j *payment.Payment) bool {
	if i.PaidAt.Equal(j.PaidAt) {
		return i.ID > j.ID
	}
	return i.PaidAt.After(j.PaidAt)
}
