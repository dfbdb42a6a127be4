// Package retry runs actions until they succeed or a strategy gives up.
package retry

import (
	"context"
	"time"
)

// Action is a function to be performed in a retriable manner.
type Action func() error

// Retrier retries the provided action.
type Retrier interface {
	Retry(action Action) (uint, error)
	RetryContext(ctx context.Context, action Action) (uint, error)
}

type retrier struct {
	strategies []Strategy
}

// NewRetrier returns a Retrier that applies strategies to every action. With
// no strategies the action is retried until it succeeds.
func NewRetrier(strategies ...Strategy) Retrier {
	return &retrier{
		strategies: strategies,
	}
}

func (r *retrier) Retry(action Action) (uint, error) {
	return Retry(action, r.strategies...)
}

func (r *retrier) RetryContext(ctx context.Context, action Action) (uint, error) {
	return RetryContext(ctx, action, r.strategies...)
}

// Retry is RetryContext without cancellation.
func Retry(action Action, strategies ...Strategy) (uint, error) {
	return RetryContext(context.Background(), action, strategies...)
}

// RetryContext invokes action until it returns nil or any strategy declines
// another attempt. Between attempts it waits for the longest delay requested
// by the strategies. It returns the number of attempts made and the last
// error from the action.
//
// If ctx is done before the first attempt, the action is never invoked and
// ctx.Err() is returned. If ctx is done later, the last action error is
// returned.
func RetryContext(ctx context.Context, action Action, strategies ...Strategy) (uint, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	for attempts := uint(1); ; attempts++ {
		err := action()
		if err == nil {
			return attempts, nil
		}

		var wait time.Duration
		for _, s := range strategies {
			again, delay := s(attempts, err)
			if !again {
				return attempts, err
			}
			if delay > wait {
				wait = delay
			}
		}

		if !sleep(ctx, wait) {
			return attempts, err
		}
	}
}

// sleep waits for d, returning false if ctx finishes first.
var sleep = func(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
