package retry

import "time"

// EventType identifies the kind of event occurring during retry execution.
type EventType string

const (
	EventAttemptStart  EventType = "attempt_start"
	EventAttemptFailed EventType = "attempt_failed"
	EventRetrying      EventType = "retrying"
	EventSuccess       EventType = "success"
	EventExhausted     EventType = "exhausted"
)

// Event is an observable step of a retried operation.
type Event struct {
	Type EventType
	// Attempt is 1-indexed.
	Attempt     int
	MaxAttempts int
	Error       error
	// Delay is set on EventRetrying.
	Delay     time.Duration
	Retryable bool
	Timestamp time.Time
}

// emit sends an event without blocking; events are dropped when ch is full.
func emit(ch chan<- Event, event Event) {
	if ch == nil {
		return
	}
	event.Timestamp = time.Now()
	select {
	case ch <- event:
	default:
	}
}
