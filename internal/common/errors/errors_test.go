package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/pb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Inspection Helpers
// ==========================

func TestAs_FindsWrappedStandardError(t *testing.T) {
	base := NewNotFoundError("application", 42)
	wrapped := fmt.Errorf("update failed: %w", base)

	got, ok := As(wrapped)
	require.True(t, ok)
	assert.Same(t, base, got)
	assert.True(t, IsNotFound(wrapped))
	assert.False(t, IsValidation(wrapped))
}

func TestNormalize_WrapsPlainErrors(t *testing.T) {
	stdErr := Normalize(stderrors.New("boom"))

	assert.Equal(t, ErrCodeInternal, stdErr.Code)
	assert.Equal(t, "boom", stdErr.Details)
	assert.False(t, stdErr.Retryable)
}

func TestDatabaseError_UnwrapsCause(t *testing.T) {
	cause := stderrors.New("connection reset")
	err := NewDatabaseError("insert application", cause)

	assert.True(t, stderrors.Is(err, cause))
	assert.True(t, err.Retryable)
	assert.Contains(t, err.Error(), "insert application")
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		code ErrorCode
		want int
	}{
		{ErrCodeNotFound, http.StatusNotFound},
		{ErrCodeConflict, http.StatusConflict},
		{ErrCodeTransactionConflict, http.StatusConflict},
		{ErrCodeValidationFailed, http.StatusBadRequest},
		{ErrCodeUnauthorized, http.StatusUnauthorized},
		{ErrCodeRateLimited, http.StatusTooManyRequests},
		{ErrCodeDatabaseError, http.StatusInternalServerError},
		{ErrCodeInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatus(tt.code))
		})
	}
}

// ==========================
// BPMN Conversion
// ==========================

func TestConvertToBPMNError(t *testing.T) {
	stdErr := NewTransactionConflictError(stderrors.New("could not serialize access"))
	stdErr.WithMetadata("applicationId", int64(7))

	bpmnErr := ConvertToBPMNError(stdErr)

	assert.Equal(t, "TRANSACTION_CONFLICT", bpmnErr.Code)
	assert.True(t, bpmnErr.Retryable)
	assert.Equal(t, 3, bpmnErr.Retries)

	vars := bpmnErr.ToErrorVariables()
	assert.Equal(t, "TRANSACTION_CONFLICT", vars["errorCode"])
	assert.Equal(t, int64(7), vars["applicationId"])
}

func TestRateLimitedError_CarriesRetryAfter(t *testing.T) {
	err := NewRateLimitedError(30 * time.Second)

	assert.Equal(t, 30, err.Metadata["retryAfterSeconds"])
	assert.Equal(t, http.StatusTooManyRequests, HTTPStatus(err.Code))
}

func TestErrorHandler_Decide(t *testing.T) {
	h := NewErrorHandler(nopLogger{})

	tests := []struct {
		name        string
		jobRetries  int32
		err         error
		wantThrow   bool
		wantRetries int32
	}{
		{"validation is thrown", 3, NewValidationError("status is required"), true, 0},
		{"not found is thrown", 3, NewNotFoundError("application", 1), true, 0},
		{"database error is retried", 3, NewDatabaseError("select", stderrors.New("timeout")), false, 2},
		{"retries capped by engine budget", 2, NewDatabaseError("select", stderrors.New("timeout")), false, 1},
		{"no retries left is thrown", 0, NewTransactionConflictError(stderrors.New("40001")), true, 0},
		{"plain error is thrown", 3, stderrors.New("unexpected"), true, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			job := entities.Job{ActivatedJob: &pb.ActivatedJob{Key: 1, Retries: tt.jobRetries}}
			throw, retries := h.Decide(job, tt.err)
			assert.Equal(t, tt.wantThrow, throw)
			assert.Equal(t, tt.wantRetries, retries)
		})
	}
}

type nopLogger struct{}

func (nopLogger) Error(string, map[string]interface{}) {}
