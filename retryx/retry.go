package retryx

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff"
)

const (
	DefaultInterval       = 500 * time.Millisecond
	DefaultMaxInterval    = 2 * time.Second
	DefaultMaxElapsedTime = 5 * time.Second
	DefaultMaxRetries     = 3
)

// ConstantRetry executes fn until it succeeds, waiting the same interval between attempts.
//
// The interval defaults to DefaultInterval unless overridden by WithInterval and
// attempts are capped by WithRetryCount (DefaultMaxRetries). Retrying stops once ctx
// is done or its deadline comes before the next attempt; the error then wraps both
// the context error and the last error of fn.
func ConstantRetry(ctx context.Context, fn func(ctx context.Context) error, opts ...RetryOption) error {
	rOpts := newRetryOptions(opts...)

	duration := DefaultInterval
	if rOpts.initialInterval > 0 {
		duration = rOpts.initialInterval
	}

	bc := backoff.NewConstantBackOff(duration)
	bc.Reset()

	return retry(ctx, fn, bc, rOpts)
}

// ExponentialRetry executes fn with an exponential backoff between attempts.
//
// The interval starts at DefaultInterval (WithInterval), grows up to
// DefaultMaxInterval (WithMaxInterval) and retrying stops once
// DefaultMaxElapsedTime (WithMaxElapsedTime) has passed or the retry count is reached.
func ExponentialRetry(ctx context.Context, fn func(ctx context.Context) error, opts ...RetryOption) error {
	rOpts := newRetryOptions(opts...)

	duration := DefaultInterval
	maxInterval := DefaultMaxInterval
	maxElapsedTime := DefaultMaxElapsedTime
	if rOpts.initialInterval > 0 {
		duration = rOpts.initialInterval
	}
	if rOpts.maxInterval > 0 {
		maxInterval = rOpts.maxInterval
	}
	if rOpts.maxElapsedTime > 0 {
		maxElapsedTime = rOpts.maxElapsedTime
	}

	bc := backoff.NewExponentialBackOff()
	bc.InitialInterval = duration
	bc.MaxInterval = maxInterval
	bc.MaxElapsedTime = maxElapsedTime
	bc.Reset()

	return retry(ctx, fn, bc, rOpts)
}

// Permanent marks err as not worth retrying.
func Permanent(err error) error {
	return backoff.Permanent(err)
}

// exhaustible records whether the wrapped backoff ran out on its own, as
// opposed to being stopped by the context.
type exhaustible struct {
	backoff.BackOff
	exhausted bool
}

func (e *exhaustible) NextBackOff() time.Duration {
	next := e.BackOff.NextBackOff()
	if next == backoff.Stop {
		e.exhausted = true
	}
	return next
}

func retry(ctx context.Context, fn func(ctx context.Context) error, bo backoff.BackOff, rOpts *retryOptions) error {
	maxRetryCount := DefaultMaxRetries
	if rOpts.retryCount != 0 {
		maxRetryCount = rOpts.retryCount
	}

	retries := 0
	permanent := false
	operation := func() error {
		err := fn(ctx)
		if err == nil {
			return nil
		}

		var pe *backoff.PermanentError
		if errors.As(err, &pe) {
			permanent = true
			return err
		}

		retries++
		if maxRetryCount > 0 && retries >= maxRetryCount {
			permanent = true
			return backoff.Permanent(err)
		}

		return err
	}

	notify := func(err error, next time.Duration) {
		if rOpts.notify != nil {
			rOpts.notify(err, next)
		}
	}

	eb := &exhaustible{BackOff: bo}
	err := backoff.RetryNotify(operation, backoff.WithContext(eb, ctx), notify)
	if err == nil || permanent || eb.exhausted {
		return err
	}

	// The context stopped the retries, either done or too close to its deadline.
	cause := ctx.Err()
	if cause == nil {
		cause = context.DeadlineExceeded
	}
	return fmt.Errorf("%w: %w", cause, err)
}
