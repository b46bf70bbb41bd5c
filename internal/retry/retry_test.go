package retry

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"

	ai "github.com/spetersoncode/ailib"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type timeoutError struct{}

func (timeoutError) Error() string   { return "i/o timeout" }
func (timeoutError) Timeout() bool   { return true }
func (timeoutError) Temporary() bool { return true }

var _ net.Error = timeoutError{}

func fastConfig(attempts int) Config {
	return Config{
		MaxAttempts:  attempts,
		InitialDelay: time.Millisecond,
		MaxDelay:     5 * time.Millisecond,
		Multiplier:   2.0,
	}
}

func TestDo(t *testing.T) {
	t.Run("returns first success", func(t *testing.T) {
		calls := 0
		got, err := Do(context.Background(), fastConfig(3), func() (string, error) {
			calls++
			return "ok", nil
		})
		require.NoError(t, err)
		assert.Equal(t, "ok", got)
		assert.Equal(t, 1, calls)
	})

	t.Run("retries transient errors", func(t *testing.T) {
		calls := 0
		got, err := Do(context.Background(), fastConfig(3), func() (string, error) {
			calls++
			if calls < 3 {
				return "", timeoutError{}
			}
			return "ok", nil
		})
		require.NoError(t, err)
		assert.Equal(t, "ok", got)
		assert.Equal(t, 3, calls)
	})

	t.Run("stops on permanent error", func(t *testing.T) {
		calls := 0
		permanent := ai.NewError(ai.ProviderGroq, ai.ErrorPermanent, "bad key", 401, nil)
		_, err := Do(context.Background(), fastConfig(5), func() (int, error) {
			calls++
			return 0, permanent
		})
		assert.ErrorIs(t, err, permanent)
		assert.Equal(t, 1, calls)
	})

	t.Run("returns last error when exhausted", func(t *testing.T) {
		calls := 0
		_, err := Do(context.Background(), fastConfig(3), func() (int, error) {
			calls++
			return 0, ai.NewError(ai.ProviderGroq, ai.ErrorTransient, "busy", 503, nil)
		})
		assert.True(t, ai.IsTransient(err))
		assert.Equal(t, 3, calls)
	})

	t.Run("disabled makes a single attempt", func(t *testing.T) {
		calls := 0
		_, err := Do(context.Background(), Disabled(), func() (int, error) {
			calls++
			return 0, timeoutError{}
		})
		assert.Error(t, err)
		assert.Equal(t, 1, calls)
	})

	t.Run("zero attempts still calls once", func(t *testing.T) {
		calls := 0
		_, _ = Do(context.Background(), Config{}, func() (int, error) {
			calls++
			return 0, nil
		})
		assert.Equal(t, 1, calls)
	})

	t.Run("respects cancellation during backoff", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cfg := Config{MaxAttempts: 5, InitialDelay: time.Hour, MaxDelay: time.Hour, Multiplier: 1}
		calls := 0
		_, err := Do(ctx, cfg, func() (int, error) {
			calls++
			cancel()
			return 0, timeoutError{}
		})
		assert.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, 1, calls)
	})

	t.Run("does not call fn with a done context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		calls := 0
		_, err := Do(ctx, fastConfig(3), func() (int, error) {
			calls++
			return 0, nil
		})
		assert.ErrorIs(t, err, context.Canceled)
		assert.Zero(t, calls)
	})

	t.Run("retries stream establishment", func(t *testing.T) {
		calls := 0
		ch, err := Do(context.Background(), fastConfig(2), func() (<-chan ai.StreamEvent, error) {
			calls++
			if calls == 1 {
				return nil, timeoutError{}
			}
			out := make(chan ai.StreamEvent, 1)
			out <- ai.StreamEvent{Done: true}
			close(out)
			return out, nil
		})
		require.NoError(t, err)
		ev := <-ch
		assert.True(t, ev.Done)
		assert.Equal(t, 2, calls)
	})
}

func TestDoWithEvents(t *testing.T) {
	t.Run("reports attempts and exhaustion", func(t *testing.T) {
		events := make(chan Event, 20)
		_, err := DoWithEvents(context.Background(), fastConfig(2), events, func() (int, error) {
			return 0, timeoutError{}
		})
		require.Error(t, err)
		close(events)

		var types []EventType
		for ev := range events {
			types = append(types, ev.Type)
			assert.False(t, ev.Timestamp.IsZero())
		}
		assert.Equal(t, []EventType{
			EventAttemptStart, EventAttemptFailed, EventRetrying,
			EventAttemptStart, EventAttemptFailed, EventExhausted,
		}, types)
	})

	t.Run("reports success", func(t *testing.T) {
		events := make(chan Event, 4)
		_, err := DoWithEvents(context.Background(), fastConfig(2), events, func() (int, error) {
			return 1, nil
		})
		require.NoError(t, err)
		close(events)

		var types []EventType
		for ev := range events {
			types = append(types, ev.Type)
		}
		assert.Equal(t, []EventType{EventAttemptStart, EventSuccess}, types)
	})

	t.Run("full channel does not block", func(t *testing.T) {
		events := make(chan Event)
		_, err := DoWithEvents(context.Background(), fastConfig(1), events, func() (int, error) {
			return 1, nil
		})
		assert.NoError(t, err)
	})
}

func TestEffectiveDelay(t *testing.T) {
	t.Run("server delay wins when larger", func(t *testing.T) {
		err := ai.NewStatusError(ai.ProviderOpenAI, "slow down", 429, 3*time.Second, nil)
		assert.Equal(t, 3*time.Second, effectiveDelay(time.Second, err))
	})

	t.Run("configured delay wins when larger", func(t *testing.T) {
		err := ai.NewStatusError(ai.ProviderOpenAI, "slow down", 429, time.Second, nil)
		assert.Equal(t, 5*time.Second, effectiveDelay(5*time.Second, err))
	})

	t.Run("uncategorized error", func(t *testing.T) {
		assert.Equal(t, time.Second, effectiveDelay(time.Second, errors.New("x")))
	})
}
