package cache

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrNetwork wraps connection failures of the remote backends.
	ErrNetwork = errors.New("network error")

	// ErrUnsupportedURL is returned by [Open] for an unknown scheme.
	ErrUnsupportedURL = errors.New("unsupported cache url")

	// ErrClearUnsupported is returned by [Clear] for backends that cannot
	// be emptied.
	ErrClearUnsupported = errors.New("cache cannot be cleared")
)

// RetryableError marks a failure worth another attempt, such as a refused
// connection while a backend container is still starting.
type RetryableError struct{ Err error }

// Retryable marks err for [RetryWithBackoff]. A nil err stays nil.
func Retryable(err error) error {
	if err == nil {
		return nil
	}
	return &RetryableError{Err: err}
}

func (e *RetryableError) Error() string { return e.Err.Error() }
func (e *RetryableError) Unwrap() error { return e.Err }

// IsRetryable reports whether err was marked with [Retryable].
func IsRetryable(err error) bool {
	var re *RetryableError
	return errors.As(err, &re)
}

const connectAttempts = 3

// retryDelay is the wait after the first failed attempt. Tests shorten it.
var retryDelay = time.Second

// RetryWithBackoff calls fn until it succeeds, returns an error not marked
// [Retryable], or has failed connectAttempts times. The wait doubles after
// every failure. Redis and MongoDB use it for the initial ping.
func RetryWithBackoff(ctx context.Context, fn func() error) error {
	wait := retryDelay
	for attempt := 1; ; attempt++ {
		err := fn()
		if err == nil || !IsRetryable(err) || attempt == connectAttempts {
			return err
		}

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
		wait *= 2
	}
}
