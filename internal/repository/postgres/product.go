package postgres

import (
	"context"
	"time"

	"github.com/ledgerline/ledgerline/internal/domain/product"
	ierr "github.com/ledgerline/ledgerline/internal/errors"
	"github.com/ledgerline/ledgerline/internal/logger"
	"github.com/ledgerline/ledgerline/internal/postgres"
	"github.com/ledgerline/ledgerline/internal/types"
)

type productRepository struct {
	db     *postgres.DB
	logger *logger.Logger
}

func NewProductRepository(db *postgres.DB, logger *logger.Logger) product.Repository {
	return &productRepository{db: db, logger: logger}
}

func (r *productRepository) Create(ctx context.Context, p *product.Product) error {
	query := `
		INSERT INTO products (
			id, tenant_id, name, unit_price, tax_rate_percent, stock_quantity,
			status, created_at, updated_at, created_by, updated_by
		) VALUES (
			:id, :tenant_id, :name, :unit_price, :tax_rate_percent, :stock_quantity,
			:status, :created_at, :updated_at, :created_by, :updated_by
		)`

	if _, err := r.db.NamedExecContext(ctx, query, p); err != nil {
		return postgres.WrapError(err, "Failed to create product")
	}
	return nil
}

func (r *productRepository) Get(ctx context.Context, id string) (*product.Product, error) {
	var p product.Product
	err := r.db.GetContext(ctx, &p,
		`SELECT * FROM products WHERE id = $1 AND tenant_id = $2 AND status = $3`,
		id, types.GetTenantID(ctx), types.StatusPublished,
	)
	if err != nil {
		if postgres.IsNoRows(err) {
			return nil, productNotFound(id)
		}
		return nil, postgres.WrapError(err, "Failed to get product")
	}
	return &p, nil
}

func (r *productRepository) List(ctx context.Context, filter *types.ProductFilter) ([]*product.Product, error) {
	if filter == nil {
		filter = types.NewProductFilter()
	}

	where := r.where(ctx, filter)
	query, args, err := where.build(r.db.DB, "SELECT * FROM products "+where.String()+orderAndPage("created_at", filter))
	if err != nil {
		return nil, ierr.WithError(err).WithHint("Invalid product filter").Mark(ierr.ErrValidation)
	}

	var products []*product.Product
	if err := r.db.SelectContext(ctx, &products, query, args...); err != nil {
		return nil, postgres.WrapError(err, "Failed to list products")
	}
	return products, nil
}

func (r *productRepository) Count(ctx context.Context, filter *types.ProductFilter) (int, error) {
	if filter == nil {
		filter = types.NewNoLimitProductFilter()
	}

	where := r.where(ctx, filter)
	query, args, err := where.build(r.db.DB, "SELECT COUNT(*) FROM products "+where.String())
	if err != nil {
		return 0, ierr.WithError(err).WithHint("Invalid product filter").Mark(ierr.ErrValidation)
	}

	var count int
	if err := r.db.GetContext(ctx, &count, query, args...); err != nil {
		return 0, postgres.WrapError(err, "Failed to count products")
	}
	return count, nil
}

func (r *productRepository) Update(ctx context.Context, p *product.Product) error {
	p.Touch(ctx)

	result, err := r.db.NamedExecContext(ctx, `
		UPDATE products
		SET name = :name, unit_price = :unit_price, tax_rate_percent = :tax_rate_percent,
			stock_quantity = :stock_quantity, updated_at = :updated_at, updated_by = :updated_by
		WHERE id = :id AND tenant_id = :tenant_id AND status = :status`, p)
	if err != nil {
		return postgres.WrapError(err, "Failed to update product")
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return postgres.WrapError(err, "Failed to update product")
	}
	if rows == 0 {
		return productNotFound(p.ID)
	}
	return nil
}

func (r *productRepository) DecrementStock(ctx context.Context, id string, quantity int64) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE products
		SET stock_quantity = GREATEST(stock_quantity - $1, 0), updated_at = $2, updated_by = $3
		WHERE id = $4 AND tenant_id = $5 AND stock_quantity IS NOT NULL`,
		quantity, time.Now().UTC(), types.GetUserID(ctx), id, types.GetTenantID(ctx),
	)
	if err != nil {
		return postgres.WrapError(err, "Failed to update product stock")
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return postgres.WrapError(err, "Failed to update product stock")
	}
	if rows == 0 {
		return productNotFound(id)
	}
	return nil
}

func (r *productRepository) where(ctx context.Context, filter *types.ProductFilter) *whereClause {
	w := newWhereClause(types.GetTenantID(ctx))
	if filter.NameQuery != "" {
		w.add("name ILIKE ?", "%"+escapeLike(filter.NameQuery)+"%")
	}
	if filter.TracksStock != nil {
		if *filter.TracksStock {
			w.add("stock_quantity IS NOT NULL")
		} else {
			w.add("stock_quantity IS NULL")
		}
	}
	return w
}

func productNotFound(id string) error {
	return ierr.WithError(product.ErrProductNotFound).
		WithHintf("Product %s not found", id).
		WithReportableDetails(map[string]any{
			"product_id": id,
		}).
		Mark(ierr.ErrNotFound)
}
