// Package backoff computes the delay between retry attempts.
package backoff

import (
	"math"
	"math/rand"
	"time"
)

// Strategy returns how long to wait after the given attempt failed. Attempts
// start at 1.
type Strategy func(attempts uint) time.Duration

const maxDelay = time.Duration(math.MaxInt64)

// Constant waits the same interval after every attempt.
func Constant(interval time.Duration) Strategy {
	return func(uint) time.Duration {
		return interval
	}
}

// Linear waits baseDelay * attempts.
func Linear(baseDelay time.Duration) Strategy {
	return func(attempts uint) time.Duration {
		return saturate(float64(baseDelay) * float64(attempts))
	}
}

// Exponential waits baseDelay * base^(attempts-1).
func Exponential(baseDelay time.Duration, base float64) Strategy {
	return func(attempts uint) time.Duration {
		if attempts == 0 {
			attempts = 1
		}
		return saturate(float64(baseDelay) * math.Pow(base, float64(attempts-1)))
	}
}

// BinaryExponential doubles the delay after every attempt.
func BinaryExponential(baseDelay time.Duration) Strategy {
	return Exponential(baseDelay, 2)
}

// Cap limits the delay produced by s to max.
func Cap(s Strategy, max time.Duration) Strategy {
	return func(attempts uint) time.Duration {
		if d := s(attempts); d < max {
			return d
		}
		return max
	}
}

// Jitter spreads the delay produced by s uniformly over d +/- fraction*d.
func Jitter(s Strategy, fraction float64) Strategy {
	return func(attempts uint) time.Duration {
		d := float64(s(attempts))
		return saturate(d * (1 + fraction*(2*rand.Float64()-1)))
	}
}

func saturate(d float64) time.Duration {
	if d >= float64(maxDelay) || math.IsInf(d, 1) || math.IsNaN(d) {
		return maxDelay
	}
	if d < 0 {
		return 0
	}
	return time.Duration(d)
}
