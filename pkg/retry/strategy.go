package retry

import (
	"errors"
	"time"

	"github.com/x1-mining-arena/arena-go/pkg/retry/backoff"
)

// Strategy inspects a failed attempt. It reports whether the action may be
// tried again and how long to wait first.
type Strategy func(attempts uint, err error) (again bool, wait time.Duration)

// Limit allows at most maxAttempts attempts in total.
func Limit(maxAttempts uint) Strategy {
	return func(attempts uint, _ error) (bool, time.Duration) {
		return attempts < maxAttempts, 0
	}
}

// RetriableErrors only retries errors matching one of retriable, including
// wrapped ones.
func RetriableErrors(retriable ...error) Strategy {
	return func(_ uint, err error) (bool, time.Duration) {
		for _, e := range retriable {
			if errors.Is(err, e) {
				return true, 0
			}
		}
		return false, 0
	}
}

// Backoff delays each retry by strategy, capped at maxBackoff.
func Backoff(strategy backoff.Strategy, maxBackoff time.Duration) Strategy {
	capped := backoff.Cap(strategy, maxBackoff)
	return func(attempts uint, _ error) (bool, time.Duration) {
		return true, capped(attempts)
	}
}

// BackoffWithJitter is Backoff with the capped delay spread by +/- jitter,
// expressed as a fraction of the delay.
func BackoffWithJitter(strategy backoff.Strategy, maxBackoff time.Duration, jitter float64) Strategy {
	jittered := backoff.Jitter(backoff.Cap(strategy, maxBackoff), jitter)
	return func(attempts uint, _ error) (bool, time.Duration) {
		return true, jittered(attempts)
	}
}
