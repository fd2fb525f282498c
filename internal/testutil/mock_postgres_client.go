package testutil

import (
	"context"
	"sync"

	"github.com/ledgerline/ledgerline/internal/logger"
	"github.com/ledgerline/ledgerline/internal/postgres"
)

var _ postgres.IClient = (*MockPostgresClient)(nil) // Ensure MockPostgresClient implements IClient

type mockTxKey struct{}

// MockPostgresClient is a mock implementation of postgres client for testing.
// Top-level transactions run one at a time under a single mutex. That stands
// in for the row locks and unique keys of the real store, so suites built on
// it cannot catch a missing FOR UPDATE, a lost update, or a numbering retry
// that only fires on a real unique violation; InMemoryInvoiceStore only
// simulates conflicts on request. Writes are not rolled back on error.
// Those paths are covered against a real database by the tests in
// internal/service/postgres_integration_test.go, which run when
// LEDGERLINE_TEST_POSTGRES_DSN is set.
type MockPostgresClient struct {
	mu     sync.Mutex
	logger *logger.Logger
	txs    int
}

// NewMockPostgresClient creates a new mock postgres client
func NewMockPostgresClient(logger *logger.Logger) *MockPostgresClient {
	return &MockPostgresClient{
		logger: logger,
	}
}

// WithTx executes the given function within a transaction
func (c *MockPostgresClient) WithTx(ctx context.Context, fn func(context.Context) error) error {
	// If we're already in a transaction, reuse it
	if InTx(ctx) {
		return fn(ctx)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.txs++

	return fn(context.WithValue(ctx, mockTxKey{}, true))
}

// TxCount returns the number of top-level transactions started
func (c *MockPostgresClient) TxCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.txs
}

// InTx reports whether ctx carries a mock transaction
func InTx(ctx context.Context) bool {
	inTx, _ := ctx.Value(mockTxKey{}).(bool)
	return inTx
}
