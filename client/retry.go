package client

import "github.com/spetersoncode/ailib/internal/retry"

// RetryConfig holds retry configuration parameters.
type RetryConfig = retry.Config

// RetryEvent is an observable step of the retry loop.
type RetryEvent = retry.Event

// RetryEventType identifies the kind of retry event.
type RetryEventType = retry.EventType

const (
	RetryEventAttemptStart  = retry.EventAttemptStart
	RetryEventAttemptFailed = retry.EventAttemptFailed
	RetryEventRetrying      = retry.EventRetrying
	RetryEventSuccess       = retry.EventSuccess
	RetryEventExhausted     = retry.EventExhausted
)

// DefaultRetryConfig returns the default retry configuration:
// 3 attempts with exponential backoff from 1s to 30s and 10% jitter.
func DefaultRetryConfig() RetryConfig {
	return retry.DefaultConfig()
}

// DisabledRetryConfig returns a configuration that makes a single attempt.
func DisabledRetryConfig() RetryConfig {
	return retry.Disabled()
}

// IsTransientError reports whether err is worth retrying.
func IsTransientError(err error) bool {
	return retry.IsTransient(err)
}
