package usecase

import (
	"context"
	"time"
)

// withRetry calls fn up to retries+1 times. The wait before attempt n is
// n*backoff, so delays grow linearly. Negative retries count as zero.
func withRetry(ctx context.Context, retries int, backoff time.Duration, fn func() error) error {
	retries = max(retries, 0)
	var err error
	for attempt := 0; attempt <= retries; attempt++ {
		if attempt > 0 && backoff > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(time.Duration(attempt) * backoff):
			}
		}
		if err = fn(); err == nil {
			return nil
		}
	}
	return err
}
