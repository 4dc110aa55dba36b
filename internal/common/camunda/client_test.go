package camunda

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "interpretation-workers/internal/common/errors"
	"interpretation-workers/internal/common/logger"
)

var fastRetry = &RetryConfig{MaxRetries: 4, BaseDelay: time.Millisecond, MaxDelay: 2 * time.Millisecond}

func TestRetry_SucceedsAfterTransientFailures(t *testing.T) {
	calls := 0
	err := Retry(context.Background(), fastRetry, logger.NewTestLogger(t), "postgres connection", func(context.Context) error {
		calls++
		if calls < 3 {
			return stderrors.New("dial tcp 127.0.0.1:5432: connect: connection refused")
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestRetry_StopsOnPermanentError(t *testing.T) {
	calls := 0
	err := Retry(context.Background(), fastRetry, logger.NewNoOpLogger(), "postgres connection", func(context.Context) error {
		calls++
		return stderrors.New("password authentication failed")
	})
	require.Error(t, err)
	assert.Equal(t, 1, calls)
	assert.Contains(t, err.Error(), "password authentication failed")
}

func TestRetry_GivesUp(t *testing.T) {
	calls := 0
	err := Retry(context.Background(), fastRetry, logger.NewNoOpLogger(), "redis connection", func(context.Context) error {
		calls++
		return stderrors.New("i/o timeout")
	})
	require.Error(t, err)
	assert.Equal(t, fastRetry.MaxRetries, calls)
}

func TestRetry_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cfg := &RetryConfig{MaxRetries: 5, BaseDelay: time.Hour, MaxDelay: time.Hour}

	err := Retry(ctx, cfg, logger.NewNoOpLogger(), "zeebe connection", func(context.Context) error {
		cancel()
		return stderrors.New("unavailable")
	})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestMapZeebeError(t *testing.T) {
	var stdErr *apperrors.StandardError

	require.ErrorAs(t, mapZeebeError(stderrors.New("context deadline exceeded"), "connect"), &stdErr)
	assert.Equal(t, apperrors.ErrCodeTimeout, stdErr.Code)

	require.ErrorAs(t, mapZeebeError(stderrors.New("rpc error: code = Unavailable"), "connect"), &stdErr)
	assert.Equal(t, apperrors.ErrCodeExternalService, stdErr.Code)
}

func TestIsRetryable(t *testing.T) {
	assert.True(t, IsRetryable(stderrors.New("read: connection reset by peer")))
	assert.True(t, IsRetryable(stderrors.New("pq: the database system is starting up")))
	assert.False(t, IsRetryable(stderrors.New("invalid configuration")))

	assert.True(t, IsRetryable(apperrors.NewDatabaseConnectionFailedError(
		stderrors.New("dial tcp 127.0.0.1:5432: connect: connection refused"))))
	assert.False(t, IsRetryable(apperrors.NewDatabaseConnectionFailedError(
		stderrors.New(`pq: password authentication failed for user "quotes"`))))
}
