package errors

import (
	"net/http"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
)

var errWidgetMissing = errors.New("widget missing")

func TestHTTPStatusFromErr(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{
			name:   "not found",
			err:    NewError("missing").Mark(ErrNotFound),
			status: http.StatusNotFound,
		},
		{
			name:   "validation with hint",
			err:    NewError("bad").WithHint("bad input").Mark(ErrValidation),
			status: http.StatusBadRequest,
		},
		{
			name:   "service unavailable",
			err:    WithError(errors.New("retries exhausted")).Mark(ErrServiceUnavailable),
			status: http.StatusServiceUnavailable,
		},
		{
			name:   "unmarked",
			err:    errors.New("boom"),
			status: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.status, HTTPStatusFromErr(tt.err))
		})
	}
}

func TestDomainSentinelAndCategory(t *testing.T) {
	err := WithError(errWidgetMissing).
		WithHint("Widget not found").
		WithReportableDetails(map[string]any{"widget_id": "w_1"}).
		Mark(ErrNotFound)

	assert.True(t, errors.Is(err, errWidgetMissing))
	assert.True(t, IsNotFound(err))
	assert.False(t, IsValidation(err))
	assert.Equal(t, ErrCodeNotFound, CodeFromErr(err))
	assert.Contains(t, errors.GetAllHints(err), "Widget not found")
}

func TestWithMarks(t *testing.T) {
	err := NewError("line rejected").
		WithMarks(errWidgetMissing).
		Mark(ErrValidation)

	assert.True(t, errors.Is(err, errWidgetMissing))
	assert.True(t, IsValidation(err))
}
