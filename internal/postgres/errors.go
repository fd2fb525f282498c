package postgres

import (
	"database/sql"

	"github.com/cockroachdb/errors"
	ierr "github.com/ledgerline/ledgerline/internal/errors"
	"github.com/lib/pq"
)

const pqUniqueViolation = pq.ErrorCode("23505")

// IsUniqueViolation reports whether err is a unique constraint violation
func IsUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == pqUniqueViolation
	}
	return false
}

// IsNoRows reports whether err is a lookup that matched nothing
func IsNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

// WrapError marks a driver error with the matching category. Unique violations
// become ErrAlreadyExists; everything else becomes ErrDatabase.
func WrapError(err error, hint string) error {
	if err == nil {
		return nil
	}
	if IsUniqueViolation(err) {
		var pqErr *pq.Error
		errors.As(err, &pqErr)
		return ierr.WithError(err).
			WithHint(hint).
			WithReportableDetails(map[string]any{
				"constraint": pqErr.Constraint,
			}).
			Mark(ierr.ErrAlreadyExists)
	}
	return ierr.WithError(err).
		WithHint(hint).
		Mark(ierr.ErrDatabase)
}
