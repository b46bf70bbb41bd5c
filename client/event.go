package client

import (
	"time"

	ai "github.com/spetersoncode/ailib"
	"github.com/spetersoncode/ailib/internal/retry"
)

// EventType identifies the kind of event occurring during client operations.
type EventType string

const (
	// EventRequestStart fires before a request is sent.
	EventRequestStart EventType = "request_start"

	// EventRequestComplete fires after a request succeeds. For streams it fires
	// once the first stream event arrives without an error.
	EventRequestComplete EventType = "request_complete"

	// EventRequestError fires when a request fails after all retries.
	EventRequestError EventType = "request_error"

	// EventRetry wraps an event from the retry loop.
	EventRetry EventType = "retry"
)

// Event is an observable occurrence during client operations.
type Event struct {
	Type EventType

	// Operation is "chat" or "chat_stream".
	Operation string

	// RequestID correlates the events of one call.
	RequestID string

	Provider ai.Provider
	Model    string

	// Duration is set on completion and error events.
	Duration time.Duration

	Usage *ai.Usage
	Error error

	// RetryEvent is set on EventRetry.
	RetryEvent *RetryEvent

	Timestamp time.Time
}

// emit sends an event with timestamp to the channel without blocking.
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

// forwardRetryEvents relays retry events as EventRetry until retryEvents is
// closed.
func forwardRetryEvents(ch chan<- Event, retryEvents <-chan retry.Event, base Event) {
	for re := range retryEvents {
		ev := base
		ev.Type = EventRetry
		ev.RetryEvent = &re
		emit(ch, ev)
	}
}
