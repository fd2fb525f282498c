package postgres

import (
	"context"

	"github.com/ledgerline/ledgerline/internal/cache"
	"github.com/ledgerline/ledgerline/internal/domain/customer"
	ierr "github.com/ledgerline/ledgerline/internal/errors"
	"github.com/ledgerline/ledgerline/internal/logger"
	"github.com/ledgerline/ledgerline/internal/postgres"
	"github.com/ledgerline/ledgerline/internal/types"
)

type customerRepository struct {
	db     *postgres.DB
	logger *logger.Logger
	cache  cache.Cache
}

func NewCustomerRepository(db *postgres.DB, logger *logger.Logger, cache cache.Cache) customer.Repository {
	return &customerRepository{db: db, logger: logger, cache: cache}
}

func (r *customerRepository) Create(ctx context.Context, c *customer.Customer) error {
	query := `
		INSERT INTO customers (
			id, tenant_id, name, email, phone, tax_number, billing_address,
			status, created_at, updated_at, created_by, updated_by
		) VALUES (
			:id, :tenant_id, :name, :email, :phone, :tax_number, :billing_address,
			:status, :created_at, :updated_at, :created_by, :updated_by
		)`

	r.logger.Debugw("creating customer",
		"customer_id", c.ID,
		"tenant_id", c.TenantID,
	)

	if _, err := r.db.NamedExecContext(ctx, query, c); err != nil {
		return postgres.WrapError(err, "Failed to create customer")
	}
	r.DeleteCache(ctx, c.ID)
	return nil
}

func (r *customerRepository) Get(ctx context.Context, id string) (*customer.Customer, error) {
	if cached := r.GetCache(ctx, id); cached != nil {
		return cached, nil
	}

	var c customer.Customer
	err := r.db.GetContext(ctx, &c,
		`SELECT * FROM customers WHERE id = $1 AND tenant_id = $2 AND status = $3`,
		id, types.GetTenantID(ctx), types.StatusPublished,
	)
	if err != nil {
		if postgres.IsNoRows(err) {
			return nil, ierr.WithError(customer.ErrCustomerNotFound).
				WithHintf("Customer %s not found", id).
				WithReportableDetails(map[string]any{
					"customer_id": id,
				}).
				Mark(ierr.ErrNotFound)
		}
		return nil, postgres.WrapError(err, "Failed to get customer")
	}

	r.SetCache(ctx, &c)
	return &c, nil
}

func (r *customerRepository) List(ctx context.Context, filter *types.CustomerFilter) ([]*customer.Customer, error) {
	if filter == nil {
		filter = types.NewCustomerFilter()
	}

	where := r.where(ctx, filter)
	query, args, err := where.build(r.db.DB, "SELECT * FROM customers "+where.String()+orderAndPage("created_at", filter))
	if err != nil {
		return nil, ierr.WithError(err).WithHint("Invalid customer filter").Mark(ierr.ErrValidation)
	}

	var customers []*customer.Customer
	if err := r.db.SelectContext(ctx, &customers, query, args...); err != nil {
		return nil, postgres.WrapError(err, "Failed to list customers")
	}
	return customers, nil
}

func (r *customerRepository) Count(ctx context.Context, filter *types.CustomerFilter) (int, error) {
	if filter == nil {
		filter = types.NewNoLimitCustomerFilter()
	}

	where := r.where(ctx, filter)
	query, args, err := where.build(r.db.DB, "SELECT COUNT(*) FROM customers "+where.String())
	if err != nil {
		return 0, ierr.WithError(err).WithHint("Invalid customer filter").Mark(ierr.ErrValidation)
	}

	var count int
	if err := r.db.GetContext(ctx, &count, query, args...); err != nil {
		return 0, postgres.WrapError(err, "Failed to count customers")
	}
	return count, nil
}

func (r *customerRepository) where(ctx context.Context, filter *types.CustomerFilter) *whereClause {
	w := newWhereClause(types.GetTenantID(ctx))
	if filter.NameQuery != "" {
		w.add("name ILIKE ?", "%"+escapeLike(filter.NameQuery)+"%")
	}
	if filter.Email != nil {
		w.add("LOWER(email) = LOWER(?)", *filter.Email)
	}
	return w
}

func (r *customerRepository) SetCache(ctx context.Context, c *customer.Customer) {
	if r.cache == nil {
		return
	}
	span := cache.StartCacheSpan(ctx, "customer", "set", map[string]interface{}{
		"customer_id": c.ID,
	})
	defer cache.FinishSpan(span)

	cacheKey := cache.GenerateKey(cache.PrefixCustomer, c.TenantID, c.ID)
	r.cache.Set(ctx, cacheKey, c, 0)
	r.logger.Debugw("cache set", "key", cacheKey)
}

func (r *customerRepository) GetCache(ctx context.Context, id string) *customer.Customer {
	if r.cache == nil {
		return nil
	}
	span := cache.StartCacheSpan(ctx, "customer", "get", map[string]interface{}{
		"customer_id": id,
	})
	defer cache.FinishSpan(span)

	cacheKey := cache.GenerateKey(cache.PrefixCustomer, types.GetTenantID(ctx), id)
	if value, found := r.cache.Get(ctx, cacheKey); found {
		if c, ok := value.(*customer.Customer); ok {
			r.logger.Debugw("cache hit", "key", cacheKey)
			return c
		}
	}
	r.logger.Debugw("cache miss", "key", cacheKey)
	return nil
}

func (r *customerRepository) DeleteCache(ctx context.Context, id string) {
	if r.cache == nil {
		return
	}
	span := cache.StartCacheSpan(ctx, "customer", "delete", map[string]interface{}{
		"customer_id": id,
	})
	defer cache.FinishSpan(span)

	r.cache.Delete(ctx, cache.GenerateKey(cache.PrefixCustomer, types.GetTenantID(ctx), id))
}
