package postgres

import (
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/ledgerline/ledgerline/internal/types"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWhereClauseBuild(t *testing.T) {
	db := sqlx.NewDb(nil, "postgres")

	w := newWhereClause("tenant_1")
	w.add("invoice_status IN (?)", []types.InvoiceStatus{types.InvoiceStatusUnpaid, types.InvoiceStatusPartial})
	w.add("invoice_number ILIKE ?", "%"+escapeLike("2024_01")+"%")

	filter := &types.InvoiceFilter{QueryFilter: &types.QueryFilter{
		Limit:  lo.ToPtr(10),
		Offset: lo.ToPtr(20),
		Order:  lo.ToPtr(types.OrderAsc),
	}}

	query, args, err := w.build(db, "SELECT * FROM invoices "+w.String()+orderAndPage("issued_at", filter))
	require.NoError(t, err)

	assert.Equal(t,
		"SELECT * FROM invoices WHERE tenant_id = $1 AND status = $2 AND invoice_status IN ($3, $4) AND invoice_number ILIKE $5 ORDER BY issued_at ASC, id ASC LIMIT 10 OFFSET 20",
		query,
	)
	assert.Len(t, args, 5)
	assert.Equal(t, `%2024\_01%`, args[4])
}

func TestOrderAndPageUnlimited(t *testing.T) {
	assert.Equal(t, " ORDER BY paid_at DESC, id DESC", orderAndPage("paid_at", types.NewNoLimitPaymentFilter()))
}
