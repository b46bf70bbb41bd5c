package client

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	ai "github.com/spetersoncode/ailib"
	"github.com/spetersoncode/ailib/internal/retry"
)

// Client is a configured handle for one provider. The resolved configuration
// and adapter selection are fixed at build; the wire adapter is created on the
// first request. A Client is safe for concurrent use.
type Client struct {
	cfg         ResolvedConfig
	sel         Selection
	modelPinned bool
	// multimodalPinned means the builder set the multimodal model explicitly.
	multimodalPinned bool
	httpClient       *http.Client
	retryConfig      retry.Config
	events           chan<- Event
	logger           *slog.Logger

	mu      sync.RWMutex
	chat    ai.ChatProvider
	initErr error
}

// New builds a client for p from the environment and registry defaults alone.
func New(p ai.Provider) (*Client, error) {
	return NewBuilder(p).Build()
}

// Config returns the resolved configuration.
func (c *Client) Config() ResolvedConfig { return c.cfg }

// Provider returns the provider the client talks to.
func (c *Client) Provider() ai.Provider { return c.cfg.Provider }

// Kind reports whether the client uses the generic or an independent adapter.
func (c *Client) Kind() AdapterKind { return c.sel.Kind }

// Selection returns the adapter selected at build.
func (c *Client) Selection() Selection { return c.sel }

// HTTPClient returns the HTTP client shared by every request of c.
func (c *Client) HTTPClient() *http.Client { return c.httpClient }

// chatProvider returns the wire adapter, creating it on first use.
func (c *Client) chatProvider(ctx context.Context) (ai.ChatProvider, error) {
	c.mu.RLock()
	if c.chat != nil || c.initErr != nil {
		defer c.mu.RUnlock()
		return c.chat, c.initErr
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()

	// Double-check after acquiring write lock
	if c.chat != nil || c.initErr != nil {
		return c.chat, c.initErr
	}

	if c.cfg.APIKey == "" && !c.keyless() {
		return nil, &MissingAPIKeyError{Provider: c.cfg.Provider, EnvVar: c.apiKeyEnv()}
	}

	chat, err := newAdapter(ctx, c.sel, c.cfg, c.httpClient)
	if err != nil {
		c.initErr = err
		return nil, err
	}
	c.chat = chat
	return chat, nil
}

func (c *Client) keyless() bool {
	return c.sel.Kind == AdapterGeneric && c.sel.Generic.Keyless
}

func (c *Client) apiKeyEnv() string {
	if c.sel.Kind == AdapterGeneric {
		return c.sel.Generic.APIKeyEnv
	}
	return c.sel.Independent.APIKeyEnv
}

// requestModel picks the model for a call: an explicit per-request model, then
// the multimodal model for image input, then the configured model. A registry
// multimodal model yields to a model pinned on the builder; one set with
// WithMultimodalModel does not.
func (c *Client) requestModel(messages []ai.Message, options *ai.Options) string {
	if options.Model != "" {
		return options.Model
	}
	if c.cfg.MultimodalModel != "" && hasImages(messages) && (c.multimodalPinned || !c.modelPinned) {
		return c.cfg.MultimodalModel
	}
	return c.cfg.Model
}

func hasImages(messages []ai.Message) bool {
	for _, m := range messages {
		if m.HasImages() {
			return true
		}
	}
	return false
}

// Chat sends a conversation and returns a complete response. The model
// defaults to the resolved config's model. Transient failures are retried
// according to the client's retry configuration.
func (c *Client) Chat(ctx context.Context, messages []ai.Message, opts ...ai.Option) (*ai.Response, error) {
	if len(messages) == 0 {
		return nil, ai.ErrEmptyConversation
	}
	chat, err := c.chatProvider(ctx)
	if err != nil {
		return nil, err
	}

	model := c.requestModel(messages, ai.ApplyOptions(opts...))
	opts = append([]ai.Option{ai.WithModel(model)}, opts...)

	base := Event{Operation: "chat", RequestID: uuid.NewString(), Provider: c.cfg.Provider, Model: model}
	logger := c.logger.With("request_id", base.RequestID, "model", model)
	start := time.Now()
	c.emit(base, EventRequestStart)

	retryEvents, done := c.retryEvents(base)
	resp, err := retry.DoWithEvents(ctx, c.retryConfig, retryEvents, func() (*ai.Response, error) {
		return chat.Chat(ctx, messages, opts...)
	})
	done()

	if err != nil {
		logger.Warn("chat failed", "error", err, "duration", time.Since(start))
		ev := base
		ev.Duration = time.Since(start)
		ev.Error = err
		c.emit(ev, EventRequestError)
		return nil, err
	}

	logger.Debug("chat complete",
		"duration", time.Since(start),
		"input_tokens", resp.Usage.InputTokens,
		"output_tokens", resp.Usage.OutputTokens,
	)
	ev := base
	ev.Duration = time.Since(start)
	ev.Usage = &resp.Usage
	c.emit(ev, EventRequestComplete)
	return resp, nil
}

// ChatStream sends a conversation and returns a channel of streaming events.
// It blocks until the first event arrives; an error carried by that event is
// returned and retried like a Chat failure. Errors after the first event are
// delivered on the channel and not retried.
func (c *Client) ChatStream(ctx context.Context, messages []ai.Message, opts ...ai.Option) (<-chan ai.StreamEvent, error) {
	if len(messages) == 0 {
		return nil, ai.ErrEmptyConversation
	}
	chat, err := c.chatProvider(ctx)
	if err != nil {
		return nil, err
	}

	model := c.requestModel(messages, ai.ApplyOptions(opts...))
	opts = append([]ai.Option{ai.WithModel(model)}, opts...)

	base := Event{Operation: "chat_stream", RequestID: uuid.NewString(), Provider: c.cfg.Provider, Model: model}
	logger := c.logger.With("request_id", base.RequestID, "model", model)
	start := time.Now()
	c.emit(base, EventRequestStart)

	retryEvents, done := c.retryEvents(base)
	ch, err := retry.DoWithEvents(ctx, c.retryConfig, retryEvents, func() (<-chan ai.StreamEvent, error) {
		stream, err := chat.ChatStream(ctx, messages, opts...)
		if err != nil {
			return nil, err
		}
		return peekStream(ctx, stream)
	})
	done()

	if err != nil {
		logger.Warn("chat stream failed", "error", err, "duration", time.Since(start))
		ev := base
		ev.Duration = time.Since(start)
		ev.Error = err
		c.emit(ev, EventRequestError)
		return nil, err
	}

	logger.Debug("chat stream established", "duration", time.Since(start))
	ev := base
	ev.Duration = time.Since(start)
	c.emit(ev, EventRequestComplete)
	return ch, nil
}

func (c *Client) emit(ev Event, t EventType) {
	ev.Type = t
	emit(c.events, ev)
}

// retryEvents starts forwarding retry events when client events are enabled.
// The returned func must be called once the retry loop returns.
func (c *Client) retryEvents(base Event) (chan<- retry.Event, func()) {
	if c.events == nil {
		return nil, func() {}
	}
	ch := make(chan retry.Event, 10)
	go forwardRetryEvents(c.events, ch, base)
	return ch, func() { close(ch) }
}

// peekStream waits for the first event of stream. If it carries an error the
// rest of the stream is drained and the error returned. Otherwise the returned
// channel replays the first event followed by the remainder of stream.
func peekStream(ctx context.Context, stream <-chan ai.StreamEvent) (<-chan ai.StreamEvent, error) {
	var first ai.StreamEvent
	var ok bool
	select {
	case first, ok = <-stream:
	case <-ctx.Done():
		go drain(stream)
		return nil, ctx.Err()
	}

	if !ok {
		return nil, errStreamEmpty
	}
	if first.Err != nil {
		go drain(stream)
		return nil, first.Err
	}

	out := make(chan ai.StreamEvent)
	go func() {
		defer close(out)
		ev := first
		for {
			select {
			case out <- ev:
			case <-ctx.Done():
				drain(stream)
				return
			}
			next, more := <-stream
			if !more {
				return
			}
			ev = next
		}
	}()
	return out, nil
}

func drain(stream <-chan ai.StreamEvent) {
	for range stream {
	}
}
