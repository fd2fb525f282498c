package postgres

import (
	"context"
)

// IClient is the transaction boundary used by services
type IClient interface {
	// WithTx runs fn in a transaction carried on the context passed to fn.
	// Repositories called with that context join the transaction.
	WithTx(ctx context.Context, fn func(context.Context) error) error
}

var _ IClient = (*DB)(nil)

// NewClient exposes the DB as an IClient
func NewClient(db *DB) IClient {
	return db
}
