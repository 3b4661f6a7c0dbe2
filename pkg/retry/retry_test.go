package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errTemporary = errors.New("temporary")

func noDelay(int) time.Duration { return 0 }

func TestDoWithResult(t *testing.T) {
	t.Run("FirstAttempt", func(t *testing.T) {
		var calls int
		v, err := DoWithResult(t.Context(), RetryConfig{MaxAttempts: 3},
			func() (int, error) {
				calls++
				return 42, nil
			},
		)
		require.NoError(t, err)
		assert.Equal(t, 42, v)
		assert.Equal(t, 1, calls)
	})

	t.Run("SucceedsAfterRetries", func(t *testing.T) {
		var calls int
		cfg := RetryConfig{MaxAttempts: 3, Backoff: noDelay}
		v, err := DoWithResult(t.Context(), cfg, func() (string, error) {
			calls++
			if calls < 3 {
				return "", errTemporary
			}
			return "ok", nil
		})
		require.NoError(t, err)
		assert.Equal(t, "ok", v)
		assert.Equal(t, 3, calls)
	})

	t.Run("ExhaustsAttempts", func(t *testing.T) {
		var calls int
		cfg := RetryConfig{MaxAttempts: 4, Backoff: noDelay}
		_, err := DoWithResult(t.Context(), cfg, func() (int, error) {
			calls++
			return 0, errTemporary
		})
		assert.ErrorIs(t, err, errTemporary)
		assert.Equal(t, 4, calls)
	})

	t.Run("NotRetryable", func(t *testing.T) {
		var calls int
		errFatal := errors.New("fatal")
		cfg := RetryConfig{
			MaxAttempts: 5,
			Backoff:     noDelay,
			ShouldRetry: func(err error) bool { return !errors.Is(err, errFatal) },
		}
		_, err := DoWithResult(t.Context(), cfg, func() (int, error) {
			calls++
			return 0, errFatal
		})
		assert.ErrorIs(t, err, errFatal)
		assert.Equal(t, 1, calls)
	})

	t.Run("CanceledBefore", func(t *testing.T) {
		ctx, cancel := context.WithCancel(t.Context())
		cancel()

		err := Do(ctx, RetryConfig{}, func() error {
			t.Fatal("must not be called")
			return nil
		})
		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("CanceledWhileWaiting", func(t *testing.T) {
		ctx, cancel := context.WithCancel(t.Context())
		cfg := RetryConfig{MaxAttempts: 3, Backoff: LinearBackoff(time.Hour)}

		err := Do(ctx, cfg, func() error {
			cancel()
			return errTemporary
		})
		assert.ErrorIs(t, err, context.Canceled)
		assert.ErrorIs(t, err, errTemporary)
	})
}

func TestExponentialBackoff(t *testing.T) {
	b := ExponentialBackoff(10 * time.Millisecond)
	for attempt := 1; attempt <= 4; attempt++ {
		base := time.Duration(1<<attempt) * 10 * time.Millisecond
		d := b(attempt)
		assert.GreaterOrEqual(t, d, base)
		assert.Less(t, d, base+base/2)
	}
}
