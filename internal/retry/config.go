// Package retry re-issues provider requests that fail with transient errors,
// backing off exponentially between attempts.
package retry

import (
	"errors"
	"math"
	"math/rand/v2"
	"time"
)

// Config holds retry parameters.
type Config struct {
	// MaxAttempts counts the initial request.
	MaxAttempts int
	// InitialDelay is the wait before the first retry.
	InitialDelay time.Duration
	// MaxDelay caps the wait between attempts before jitter is applied.
	MaxDelay time.Duration
	// Multiplier grows the delay after each attempt.
	Multiplier float64
	// Jitter scales each delay by a random factor in [1-Jitter, 1+Jitter].
	Jitter float64
}

// DefaultConfig returns three attempts starting at one second, doubling up to
// thirty seconds, with 10% jitter.
func DefaultConfig() Config {
	return Config{
		MaxAttempts:  3,
		InitialDelay: time.Second,
		MaxDelay:     30 * time.Second,
		Multiplier:   2.0,
		Jitter:       0.1,
	}
}

// Disabled returns a configuration that makes a single attempt.
func Disabled() Config {
	return Config{MaxAttempts: 1}
}

// Validate reports configurations that would never attempt a request or
// would back off by a negative amount.
func (c Config) Validate() error {
	switch {
	case c.MaxAttempts < 1:
		return errors.New("retry: max attempts must be at least 1")
	case c.InitialDelay < 0 || c.MaxDelay < 0:
		return errors.New("retry: delays must not be negative")
	case c.Multiplier < 0:
		return errors.New("retry: multiplier must not be negative")
	case c.Jitter < 0 || c.Jitter > 1:
		return errors.New("retry: jitter must be between 0 and 1")
	}
	return nil
}

// Delay returns the backoff before retrying after the given 0-indexed attempt:
// min(MaxDelay, InitialDelay * Multiplier^attempt), then jittered.
func (c Config) Delay(attempt int) time.Duration {
	attempt = max(attempt, 0)

	delay := float64(c.InitialDelay) * math.Pow(c.Multiplier, float64(attempt))
	if delay > float64(c.MaxDelay) {
		delay = float64(c.MaxDelay)
	}

	if c.Jitter > 0 {
		delay *= 1.0 + (rand.Float64()*2-1)*c.Jitter
	}

	return time.Duration(delay)
}
