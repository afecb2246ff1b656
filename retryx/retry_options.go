package retryx

import "time"

type retryOptions struct {
	retryCount      int
	initialInterval time.Duration
	maxInterval     time.Duration
	maxElapsedTime  time.Duration
	notify          func(err error, next time.Duration)
}

type RetryOption func(*retryOptions)

func newRetryOptions(opts ...RetryOption) *retryOptions {
	rOpts := &retryOptions{}
	for _, opt := range opts {
		opt(rOpts)
	}
	return rOpts
}

func WithRetryCount(count int) RetryOption {
	return func(ro *retryOptions) {
		ro.retryCount = count
	}
}

// WithUnlimitedRetries retries until success, a permanent error, the backoff
// giving up or the context being done.
func WithUnlimitedRetries() RetryOption {
	return func(ro *retryOptions) {
		ro.retryCount = -1
	}
}

func WithInterval(interval time.Duration) RetryOption {
	return func(ro *retryOptions) {
		ro.initialInterval = interval
	}
}

func WithMaxInterval(interval time.Duration) RetryOption {
	return func(ro *retryOptions) {
		ro.maxInterval = interval
	}
}

func WithMaxElapsedTime(d time.Duration) RetryOption {
	return func(ro *retryOptions) {
		ro.maxElapsedTime = d
	}
}

// WithNotify is called after every failed attempt that will be retried.
func WithNotify(fn func(err error, next time.Duration)) RetryOption {
	return func(ro *retryOptions) {
		ro.notify = fn
	}
}
