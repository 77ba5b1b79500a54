package repository

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/lapakgo/lapak/internal/domain"
)

const maxReadRetries = 3

// Read runs an idempotent read with bounded exponential backoff. Only
// transient store errors are retried; business-rule errors and anything else
// surface immediately. Writes and transactions are never routed through
// here: a transaction that has partially mutated state must not be replayed.
func Read[T any](ctx context.Context, fn func() (T, error)) (T, error) {
	var result T

	op := func() error {
		var err error
		result, err = fn()
		if err != nil && !domain.Retryable(err) {
			return backoff.Permanent(err)
		}
		return err
	}

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = 50 * time.Millisecond
	policy.MaxElapsedTime = 5 * time.Second

	err := backoff.Retry(op, backoff.WithContext(backoff.WithMaxRetries(policy, maxReadRetries), ctx))
	return result, err
}
