package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetRetryCount(t *testing.T) {
	tests := []struct {
		code     ErrorCode
		expected int
	}{
		{ErrCodePastDate, 0},
		{ErrCodeTooSoon, 0},
		{ErrCodeInvalidInput, 0},
		{ErrCodeRateResolutionFailed, 3},
		{ErrCodeLinguistQueryFailed, 3},
		{ErrCodeSearchQueryFailed, 3},
		{ErrCodeTimeout, 2},
		{ErrCodeInternal, 0},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			assert.Equal(t, tt.expected, GetRetryCount(tt.code))
			assert.Equal(t, tt.expected > 0, IsRetryableErrorCode(tt.code))
		})
	}
}

func TestConvertToBPMNError(t *testing.T) {
	t.Run("scheduling error is thrown without retries", func(t *testing.T) {
		stdErr := NewTooSoonError("2026-03-10 12:30", nil)
		stdErr.Metadata = map[string]interface{}{"timeZone": "America/New_York"}

		bpmn := ConvertToBPMNError(stdErr)
		assert.Equal(t, "TOO_SOON", bpmn.Code)
		assert.Equal(t, 0, bpmn.Retries)
		assert.False(t, bpmn.Retryable)

		vars := bpmn.ToErrorVariables()
		assert.Equal(t, "TOO_SOON", vars["errorCode"])
		assert.Equal(t, "America/New_York", vars["timeZone"])
		assert.Equal(t, "TOO_SOON", vars["originalErrorCode"])
	})

	t.Run("rate failure is retried", func(t *testing.T) {
		bpmn := ConvertToBPMNError(NewRateResolutionFailedError(fmt.Errorf("connection refused")))
		assert.Equal(t, "RATE_RESOLUTION_FAILED", bpmn.Code)
		assert.Equal(t, 3, bpmn.Retries)
		assert.Contains(t, bpmn.Details, "connection refused")
	})

	t.Run("non-retryable flag overrides table", func(t *testing.T) {
		stdErr := NewRateResolutionFailedError(fmt.Errorf("boom"))
		stdErr.Retryable = false
		assert.Equal(t, 0, ConvertToBPMNError(stdErr).Retries)
	})
}

func TestNormalize(t *testing.T) {
	cause := stderrors.New("store down")
	wrapped := fmt.Errorf("pricing: %w", NewLinguistQueryFailedError(cause))

	stdErr := Normalize(wrapped)
	assert.Equal(t, ErrCodeLinguistQueryFailed, stdErr.Code)
	assert.True(t, stderrors.Is(stdErr, cause))

	plain := Normalize(stderrors.New("nil pointer"))
	assert.Equal(t, ErrCodeInternal, plain.Code)
	assert.False(t, plain.Retryable)
}

func TestGetErrorCategory(t *testing.T) {
	assert.Equal(t, "SCHEDULING", GetErrorCategory(ErrCodePastDate))
	assert.Equal(t, "PRICING", GetErrorCategory(ErrCodeRateResolutionFailed))
	assert.Equal(t, "MATCHING", GetErrorCategory(ErrCodeLinguistQueryFailed))
	assert.Equal(t, "MATCHING", GetErrorCategory(ErrCodeSearchQueryFailed))
	assert.Equal(t, "DATABASE", GetErrorCategory(ErrCodeDatabaseConnectionFailed))
	assert.Equal(t, "VALIDATION", GetErrorCategory(ErrCodeInvalidInput))
	assert.Equal(t, "OTHER", GetErrorCategory(ErrCodeInternal))
}

func TestStandardError_Message(t *testing.T) {
	err := NewInvalidInputError("dateTimeEntries: required")
	require.Error(t, err)
	assert.Equal(t, "StandardError[INVALID_INPUT]: Invalid request", err.Error())
	assert.Nil(t, err.Unwrap())
}
