package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestWithRetry(t *testing.T) {
	errFlaky := errors.New("flaky")

	t.Run("returns the last error", func(t *testing.T) {
		calls := 0
		err := withRetry(context.Background(), 2, 0, func() error {
			calls++
			return errFlaky
		})
		assert.ErrorIs(t, err, errFlaky)
		assert.Equal(t, 3, calls)
	})

	t.Run("negative retries still run once", func(t *testing.T) {
		calls := 0
		err := withRetry(context.Background(), -3, 0, func() error {
			calls++
			return errFlaky
		})
		assert.ErrorIs(t, err, errFlaky)
		assert.Equal(t, 1, calls)
	})

	t.Run("stops on success", func(t *testing.T) {
		calls := 0
		err := withRetry(context.Background(), 5, time.Millisecond, func() error {
			calls++
			if calls < 2 {
				return errFlaky
			}
			return nil
		})
		assert.NoError(t, err)
		assert.Equal(t, 2, calls)
	})

	t.Run("cancelled context interrupts the backoff", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		calls := 0
		err := withRetry(ctx, 3, time.Hour, func() error {
			calls++
			cancel()
			return errFlaky
		})
		assert.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, 1, calls)
	})
}
