package postgres

import (
	"context"

	"github.com/ledgerline/ledgerline/internal/domain/invoice"
	ierr "github.com/ledgerline/ledgerline/internal/errors"
	"github.com/ledgerline/ledgerline/internal/logger"
	"github.com/ledgerline/ledgerline/internal/postgres"
	"github.com/ledgerline/ledgerline/internal/types"
)

type invoiceRepository struct {
	db     *postgres.DB
	logger *logger.Logger
}

func NewInvoiceRepository(db *postgres.DB, logger *logger.Logger) invoice.Repository {
	return &invoiceRepository{db: db, logger: logger}
}

const insertInvoiceQuery = `
	INSERT INTO invoices (
		id, tenant_id, invoice_number, customer_id, invoice_status, issued_at, due_at, cancelled_at,
		subtotal, total_discount, total_tax, total_amount, notes,
		status, created_at, updated_at, created_by, updated_by
	) VALUES (
		:id, :tenant_id, :invoice_number, :customer_id, :invoice_status, :issued_at, :due_at, :cancelled_at,
		:subtotal, :total_discount, :total_tax, :total_amount, :notes,
		:status, :created_at, :updated_at, :created_by, :updated_by
	)`

const insertLineItemsQuery = `
	INSERT INTO invoice_line_items (
		id, tenant_id, invoice_id, product_id, product_name, position, quantity,
		unit_price_at_sale, discount_percent, tax_rate_percent,
		subtotal, discount_amount, taxable_amount, tax_amount, line_total,
		status, created_at, updated_at, created_by, updated_by
	) VALUES (
		:id, :tenant_id, :invoice_id, :product_id, :product_name, :position, :quantity,
		:unit_price_at_sale, :discount_percent, :tax_rate_percent,
		:subtotal, :discount_amount, :taxable_amount, :tax_amount, :line_total,
		:status, :created_at, :updated_at, :created_by, :updated_by
	)`

func (r *invoiceRepository) CreateWithLineItems(ctx context.Context, inv *invoice.Invoice) error {
	r.logger.Debugw("creating invoice",
		"invoice_id", inv.ID,
		"invoice_number", inv.InvoiceNumber,
		"line_items", len(inv.LineItems),
	)

	return r.db.WithTx(ctx, func(ctx context.Context) error {
		if _, err := r.db.NamedExecContext(ctx, insertInvoiceQuery, inv); err != nil {
			if postgres.IsUniqueViolation(err) {
				return ierr.WithError(err).
					WithMarks(invoice.ErrNumberConflict).
					WithHintf("Invoice number %s is already taken", inv.InvoiceNumber).
					Mark(ierr.ErrAlreadyExists)
			}
			return postgres.WrapError(err, "Failed to create invoice")
		}

		if len(inv.LineItems) == 0 {
			return nil
		}
		if _, err := r.db.NamedExecContext(ctx, insertLineItemsQuery, inv.LineItems); err != nil {
			return postgres.WrapError(err, "Failed to create invoice line items")
		}
		return nil
	})
}

func (r *invoiceRepository) Get(ctx context.Context, id string) (*invoice.Invoice, error) {
	inv, err := r.get(ctx, id, false)
	if err != nil {
		return nil, err
	}

	var items []*invoice.InvoiceLineItem
	err = r.db.SelectContext(ctx, &items,
		`SELECT * FROM invoice_line_items WHERE invoice_id = $1 AND tenant_id = $2 ORDER BY position`,
		id, types.GetTenantID(ctx),
	)
	if err != nil {
		return nil, postgres.WrapError(err, "Failed to get invoice line items")
	}
	inv.LineItems = items
	return inv, nil
}

func (r *invoiceRepository) GetForUpdate(ctx context.Context, id string) (*invoice.Invoice, error) {
	return r.get(ctx, id, true)
}

func (r *invoiceRepository) get(ctx context.Context, id string, forUpdate bool) (*invoice.Invoice, error) {
	query := `SELECT * FROM invoices WHERE id = $1 AND tenant_id = $2 AND status = $3`
	if forUpdate {
		query += ` FOR UPDATE`
	}

	var inv invoice.Invoice
	if err := r.db.GetContext(ctx, &inv, query, id, types.GetTenantID(ctx), types.StatusPublished); err != nil {
		if postgres.IsNoRows(err) {
			return nil, ierr.WithError(invoice.ErrInvoiceNotFound).
				WithHintf("Invoice %s not found", id).
				WithReportableDetails(map[string]any{
					"invoice_id": id,
				}).
				Mark(ierr.ErrNotFound)
		}
		return nil, postgres.WrapError(err, "Failed to get invoice")
	}
	return &inv, nil
}

func (r *invoiceRepository) Update(ctx context.Context, inv *invoice.Invoice) error {
	inv.Touch(ctx)

	result, err := r.db.NamedExecContext(ctx, `
		UPDATE invoices
		SET invoice_status = :invoice_status, cancelled_at = :cancelled_at,
			updated_at = :updated_at, updated_by = :updated_by
		WHERE id = :id AND tenant_id = :tenant_id`, inv)
	if err != nil {
		return postgres.WrapError(err, "Failed to update invoice")
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return postgres.WrapError(err, "Failed to update invoice")
	}
	if rows == 0 {
		return ierr.WithError(invoice.ErrInvoiceNotFound).
			WithHintf("Invoice %s not found", inv.ID).
			Mark(ierr.ErrNotFound)
	}
	return nil
}

func (r *invoiceRepository) List(ctx context.Context, filter *types.InvoiceFilter) ([]*invoice.Invoice, error) {
	if filter == nil {
		filter = types.NewInvoiceFilter()
	}

	where := r.where(ctx, filter)
	query, args, err := where.build(r.db.DB, "SELECT * FROM invoices "+where.String()+orderAndPage("issued_at", filter))
	if err != nil {
		return nil, ierr.WithError(err).WithHint("Invalid invoice filter").Mark(ierr.ErrValidation)
	}

	var invoices []*invoice.Invoice
	if err := r.db.SelectContext(ctx, &invoices, query, args...); err != nil {
		return nil, postgres.WrapError(err, "Failed to list invoices")
	}
	return invoices, nil
}

func (r *invoiceRepository) Count(ctx context.Context, filter *types.InvoiceFilter) (int, error) {
	if filter == nil {
		filter = types.NewNoLimitInvoiceFilter()
	}

	where := r.where(ctx, filter)
	query, args, err := where.build(r.db.DB, "SELECT COUNT(*) FROM invoices "+where.String())
	if err != nil {
		return 0, ierr.WithError(err).WithHint("Invalid invoice filter").Mark(ierr.ErrValidation)
	}

	var count int
	if err := r.db.GetContext(ctx, &count, query, args...); err != nil {
		return 0, postgres.WrapError(err, "Failed to count invoices")
	}
	return count, nil
}

func (r *invoiceRepository) CountByNumberPrefix(ctx context.Context, prefix string) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count,
		`SELECT COUNT(*) FROM invoices WHERE tenant_id = $1 AND invoice_number LIKE $2`,
		types.GetTenantID(ctx), escapeLike(prefix)+"%",
	)
	if err != nil {
		return 0, postgres.WrapError(err, "Failed to count invoices for numbering")
	}
	return count, nil
}

func (r *invoiceRepository) where(ctx context.Context, filter *types.InvoiceFilter) *whereClause {
	w := newWhereClause(types.GetTenantID(ctx))
	if filter.CustomerID != "" {
		w.add("customer_id = ?", filter.CustomerID)
	}
	if len(filter.InvoiceStatus) > 0 {
		w.add("invoice_status IN (?)", filter.InvoiceStatus)
	}
	if filter.NumberQuery != "" {
		w.add("invoice_number ILIKE ?", "%"+escapeLike(filter.NumberQuery)+"%")
	}
	return w
}
