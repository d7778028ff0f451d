package api

import (
	"context"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// BackoffFactory builds the delay policy for one logical call. A fresh
// policy is created per call so attempt counters are never shared.
type BackoffFactory func() backoff.BackOff

// NoBackoff resends immediately. It is the default.
func NoBackoff() backoff.BackOff {
	return &backoff.ZeroBackOff{}
}

// ConstantBackoff waits d before every resend.
func ConstantBackoff(d time.Duration) BackoffFactory {
	return func() backoff.BackOff {
		return backoff.NewConstantBackOff(d)
	}
}

// ExponentialBackoff starts at initial and doubles up to max, with the
// library's default jitter.
func ExponentialBackoff(initial, max time.Duration) BackoffFactory {
	return func() backoff.BackOff {
		b := backoff.NewExponentialBackOff()
		b.InitialInterval = initial
		b.MaxInterval = max
		b.MaxElapsedTime = 0
		b.Reset()
		return b
	}
}

// retryPolicy decides whether a failed attempt of one call is resent.
type retryPolicy struct {
	maxRetries int
	backoff    backoff.BackOff
}

func newRetryPolicy(maxRetries int, factory BackoffFactory) *retryPolicy {
	if factory == nil {
		factory = NoBackoff
	}
	return &retryPolicy{maxRetries: maxRetries, backoff: factory()}
}

// ShouldRetry reports whether a response with statusCode is resent after
// retries resends have already happened. Only gateway timeouts are retried.
func (r *retryPolicy) ShouldRetry(retries int, statusCode int) bool {
	if statusCode != http.StatusGatewayTimeout {
		return false
	}
	return retries < r.maxRetries
}

// Wait blocks for the next backoff delay. It returns false when the
// policy asked to stop.
func (r *retryPolicy) Wait(ctx context.Context) (bool, error) {
	delay := r.backoff.NextBackOff()
	if delay == backoff.Stop {
		return false, nil
	}
	if delay <= 0 {
		return true, ctx.Err()
	}

	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false, ctx.Err()
	case <-timer.C:
		return true, nil
	}
}
