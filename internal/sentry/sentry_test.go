package sentry

import (
	"context"
	"errors"
	"testing"

	"github.com/ledgerline/ledgerline/internal/config"
	"github.com/ledgerline/ledgerline/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDisabledServiceIsNoop(t *testing.T) {
	cfg := config.GetDefaultConfig()
	log, err := logger.NewLogger(cfg)
	require.NoError(t, err)

	svc := NewSentryService(cfg, log)
	assert.False(t, svc.Enabled())

	ctx := context.Background()
	span, spanCtx := svc.StartDBSpan(ctx, "postgres.transaction", nil)
	assert.Nil(t, span)
	assert.Equal(t, ctx, spanCtx)

	svc.CaptureException(errors.New("ignored"))
	SetSpanError(span, errors.New("ignored"))
}
