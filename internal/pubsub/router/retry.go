package router

import (
	"context"

	ierr "github.com/ledgerline/ledgerline/internal/errors"
	"github.com/ledgerline/ledgerline/internal/logger"
)

func shouldRetry(logger *logger.Logger, err error) bool {
	if ierr.IsValidation(err) ||
		ierr.IsNotFound(err) ||
		ierr.IsInvalidOperation(err) {
		logger.Debugw("non-retryable handler error", "error", err)
		return false
	}

	if ierr.Is(err, context.Canceled) {
		return false
	}

	return true
}
