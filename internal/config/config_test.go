package config

import (
	"testing"
	"time"

	"github.com/ledgerline/ledgerline/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfigFromEnvironment(t *testing.T) {
	t.Setenv("LEDGERLINE_POSTGRES_HOST", "db.internal")
	t.Setenv("LEDGERLINE_BILLING_NUMBERING_MAX_RETRIES", "3")

	cfg, err := NewConfig()
	require.NoError(t, err)

	assert.Equal(t, "db.internal", cfg.Postgres.Host)
	assert.Equal(t, 3, cfg.Billing.NumberingMaxRetries)
	assert.Equal(t, types.ModeLocal, cfg.Deployment.Mode)
}

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := GetDefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, time.Millisecond, cfg.Billing.NumberingRetryInterval)
}

func TestValidateRejectsOutOfRangeRetries(t *testing.T) {
	cfg := GetDefaultConfig()
	cfg.Billing.NumberingMaxRetries = 50
	assert.Error(t, cfg.Validate())
}

func TestGetDSN(t *testing.T) {
	pg := PostgresConfig{
		Host:               "localhost",
		Port:               5432,
		User:               "u",
		Password:           "p",
		DBName:             "ledger",
		SSLMode:            "disable",
		StatementTimeoutMS: 2500,
	}
	assert.Equal(t,
		"user=u password=p dbname=ledger host=localhost port=5432 sslmode=disable options='-c statement_timeout=2500'",
		pg.GetDSN(),
	)
}
