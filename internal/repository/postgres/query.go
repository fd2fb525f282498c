package postgres

import (
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/ledgerline/ledgerline/internal/types"
)

// whereClause accumulates AND-ed conditions written with ? placeholders.
// The final query is rebound to the driver's placeholder style.
type whereClause struct {
	conditions []string
	args       []interface{}
}

func newWhereClause(tenantID string) *whereClause {
	w := &whereClause{}
	w.add("tenant_id = ?", tenantID)
	w.add("status = ?", types.StatusPublished)
	return w
}

func (w *whereClause) add(condition string, args ...interface{}) {
	w.conditions = append(w.conditions, condition)
	w.args = append(w.args, args...)
}

func (w *whereClause) String() string {
	return "WHERE " + strings.Join(w.conditions, " AND ")
}

// build expands IN (?) slices and rebinds the query for postgres
func (w *whereClause) build(db *sqlx.DB, query string, extra ...interface{}) (string, []interface{}, error) {
	args := append(append([]interface{}{}, w.args...), extra...)
	query, args, err := sqlx.In(query, args...)
	if err != nil {
		return "", nil, err
	}
	return db.Rebind(query), args, nil
}

func orderAndPage(column string, filter types.BaseFilter) string {
	order := "DESC"
	if filter.GetOrder() == types.OrderAsc {
		order = "ASC"
	}
	clause := fmt.Sprintf(" ORDER BY %s %s, id %s", column, order, order)
	if !filter.IsUnlimited() {
		clause += fmt.Sprintf(" LIMIT %d OFFSET %d", filter.GetLimit(), filter.GetOffset())
	}
	return clause
}

// escapeLike escapes LIKE wildcards in user input
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
