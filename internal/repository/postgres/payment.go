package postgres

import (
	"context"

	"github.com/ledgerline/ledgerline/internal/domain/payment"
	ierr "github.com/ledgerline/ledgerline/internal/errors"
	"github.com/ledgerline/ledgerline/internal/logger"
	"github.com/ledgerline/ledgerline/internal/postgres"
	"github.com/ledgerline/ledgerline/internal/types"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

type paymentRepository struct {
	db     *postgres.DB
	logger *logger.Logger
}

func NewPaymentRepository(db *postgres.DB, logger *logger.Logger) payment.Repository {
	return &paymentRepository{db: db, logger: logger}
}

func (r *paymentRepository) Create(ctx context.Context, p *payment.Payment) error {
	query := `
		INSERT INTO payments (
			id, tenant_id, invoice_id, amount, payment_method, payment_status, reference, paid_at,
			status, created_at, updated_at, created_by, updated_by
		) VALUES (
			:id, :tenant_id, :invoice_id, :amount, :payment_method, :payment_status, :reference, :paid_at,
			:status, :created_at, :updated_at, :created_by, :updated_by
		)`

	r.logger.Debugw("creating payment",
		"payment_id", p.ID,
		"invoice_id", p.InvoiceID,
		"amount", p.Amount.String(),
	)

	if _, err := r.db.NamedExecContext(ctx, query, p); err != nil {
		return postgres.WrapError(err, "Failed to record payment")
	}
	return nil
}

func (r *paymentRepository) Get(ctx context.Context, id string) (*payment.Payment, error) {
	var p payment.Payment
	err := r.db.GetContext(ctx, &p,
		`SELECT * FROM payments WHERE id = $1 AND tenant_id = $2 AND status = $3`,
		id, types.GetTenantID(ctx), types.StatusPublished,
	)
	if err != nil {
		if postgres.IsNoRows(err) {
			return nil, ierr.WithError(payment.ErrPaymentNotFound).
				WithHintf("Payment %s not found", id).
				WithReportableDetails(map[string]any{
					"payment_id": id,
				}).
				Mark(ierr.ErrNotFound)
		}
		return nil, postgres.WrapError(err, "Failed to get payment")
	}
	return &p, nil
}

func (r *paymentRepository) List(ctx context.Context, filter *types.PaymentFilter) ([]*payment.Payment, error) {
	if filter == nil {
		filter = types.NewPaymentFilter()
	}

	where := r.where(ctx, filter)
	query, args, err := where.build(r.db.DB, "SELECT * FROM payments "+where.String()+orderAndPage("paid_at", filter))
	if err != nil {
		return nil, ierr.WithError(err).WithHint("Invalid payment filter").Mark(ierr.ErrValidation)
	}

	var payments []*payment.Payment
	if err := r.db.SelectContext(ctx, &payments, query, args...); err != nil {
		return nil, postgres.WrapError(err, "Failed to list payments")
	}
	return payments, nil
}

func (r *paymentRepository) Count(ctx context.Context, filter *types.PaymentFilter) (int, error) {
	if filter == nil {
		filter = types.NewNoLimitPaymentFilter()
	}

	where := r.where(ctx, filter)
	query, args, err := where.build(r.db.DB, "SELECT COUNT(*) FROM payments "+where.String())
	if err != nil {
		return 0, ierr.WithError(err).WithHint("Invalid payment filter").Mark(ierr.ErrValidation)
	}

	var count int
	if err := r.db.GetContext(ctx, &count, query, args...); err != nil {
		return 0, postgres.WrapError(err, "Failed to count payments")
	}
	return count, nil
}

func (r *paymentRepository) SumCompletedByInvoiceID(ctx context.Context, invoiceID string) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.db.GetContext(ctx, &total, `
		SELECT COALESCE(SUM(amount), 0) FROM payments
		WHERE tenant_id = $1 AND invoice_id = $2 AND payment_status = $3 AND status = $4`,
		types.GetTenantID(ctx), invoiceID, types.PaymentStatusCompleted, types.StatusPublished,
	)
	if err != nil {
		return decimal.Zero, postgres.WrapError(err, "Failed to sum invoice payments")
	}
	return total, nil
}

func (r *paymentRepository) SumCompletedByInvoiceIDs(ctx context.Context, invoiceIDs []string) (map[string]decimal.Decimal, error) {
	sums := make(map[string]decimal.Decimal, len(invoiceIDs))
	if len(invoiceIDs) == 0 {
		return sums, nil
	}

	var rows []struct {
		InvoiceID string          `db:"invoice_id"`
		Total     decimal.Decimal `db:"total"`
	}
	err := r.db.SelectContext(ctx, &rows, `
		SELECT invoice_id, SUM(amount) AS total FROM payments
		WHERE tenant_id = $1 AND invoice_id = ANY($2) AND payment_status = $3 AND status = $4
		GROUP BY invoice_id`,
		types.GetTenantID(ctx), pq.Array(invoiceIDs), types.PaymentStatusCompleted, types.StatusPublished,
	)
	if err != nil {
		return nil, postgres.WrapError(err, "Failed to sum invoice payments")
	}

	for _, row := range rows {
		sums[row.InvoiceID] = row.Total
	}
	return sums, nil
}

func (r *paymentRepository) where(ctx context.Context, filter *types.PaymentFilter) *whereClause {
	w := newWhereClause(types.GetTenantID(ctx))
	if filter.InvoiceID != nil {
		w.add("invoice_id = ?", *filter.InvoiceID)
	}
	if filter.PaymentStatus != nil {
		w.add("payment_status = ?", *filter.PaymentStatus)
	}
	if filter.PaymentMethod != nil {
		w.add("payment_method = ?", *filter.PaymentMethod)
	}
	return w
}
