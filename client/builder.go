package client

import (
	"log/slog"
	"time"

	ai "github.com/spetersoncode/ailib"
	"github.com/spetersoncode/ailib/env"
	"github.com/spetersoncode/ailib/internal/retry"
)

// Builder accumulates overrides for one client. Each With method updates a
// single field and returns the same builder; the last write wins.
//
// A Builder belongs to one construction sequence and is not safe for
// concurrent use.
type Builder struct {
	provider  ai.Provider
	overrides OverrideSet
	env       env.Source
	logger    *slog.Logger
	retry     retry.Config
	events    chan<- Event
	built     bool
}

// NewBuilder starts a builder for p with no overrides.
func NewBuilder(p ai.Provider) *Builder {
	return &Builder{
		provider: p,
		retry:    retry.DefaultConfig(),
	}
}

// WithBaseURL overrides the provider's base URL. Build fails for providers
// that do not allow a custom base URL.
func (b *Builder) WithBaseURL(url string) *Builder {
	b.overrides.BaseURL = &url
	return b
}

// WithProxy routes requests through an http, https, socks5 or socks5h proxy.
// Build fails for providers that do not allow a proxy.
func (b *Builder) WithProxy(url string) *Builder {
	b.overrides.Proxy = &url
	return b
}

// WithoutProxy disables the proxy, ignoring AI_PROXY_URL.
func (b *Builder) WithoutProxy() *Builder {
	none := ""
	b.overrides.Proxy = &none
	return b
}

// WithModel sets the default model for requests. An empty name keeps the
// registry default.
func (b *Builder) WithModel(name string) *Builder {
	b.overrides.Model = &name
	return b
}

// WithMultimodalModel sets the model used for requests carrying images. It
// applies even when WithModel pinned the text model. An empty name keeps the
// registry default.
func (b *Builder) WithMultimodalModel(name string) *Builder {
	b.overrides.MultimodalModel = &name
	return b
}

// WithTimeout bounds each request end to end.
func (b *Builder) WithTimeout(d time.Duration) *Builder {
	b.overrides.Timeout = &d
	return b
}

// WithPoolConfig sizes the idle connection pool.
func (b *Builder) WithPoolConfig(maxIdle int, idleTimeout time.Duration) *Builder {
	b.overrides.PoolMaxIdle = &maxIdle
	b.overrides.PoolIdleTimeout = &idleTimeout
	return b
}

// WithAPIKey sets the API key instead of reading it from the environment.
func (b *Builder) WithAPIKey(key string) *Builder {
	b.overrides.APIKey = &key
	return b
}

// WithEnv replaces the process environment as the source of provider
// variables.
func (b *Builder) WithEnv(src env.Source) *Builder {
	b.env = src
	return b
}

// WithLogger sets the logger. The default is slog.Default().
func (b *Builder) WithLogger(l *slog.Logger) *Builder {
	b.logger = l
	return b
}

// WithRetry configures retries of transient request failures.
func (b *Builder) WithRetry(cfg RetryConfig) *Builder {
	b.retry = cfg
	return b
}

// WithEvents sets a channel for client events. Events are sent without
// blocking and dropped when the channel is full.
func (b *Builder) WithEvents(ch chan<- Event) *Builder {
	b.events = ch
	return b
}

// Build resolves the configuration, selects the adapter and constructs the
// HTTP transport, returning the first error. A builder can be built once;
// later calls return ErrBuilderUsed.
func (b *Builder) Build() (*Client, error) {
	if b.built {
		return nil, ErrBuilderUsed
	}
	b.built = true

	cfg, err := Resolve(b.provider, b.overrides, b.env)
	if err != nil {
		return nil, err
	}

	sel, err := Select(b.provider, cfg)
	if err != nil {
		return nil, err
	}
	if sel.Kind == AdapterGeneric {
		if err := validateBaseURL(cfg.BaseURL); err != nil {
			return nil, err
		}
	}

	httpClient, err := NewHTTPClient(TransportParamsFrom(cfg))
	if err != nil {
		return nil, err
	}

	if err := b.retry.Validate(); err != nil {
		return nil, &InvalidRetryConfigError{Err: err}
	}

	logger := b.logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("provider", cfg.Provider.String())
	logger.Debug("client built", "adapter", sel.Kind.String(), "config", cfg)

	return &Client{
		cfg:              cfg,
		sel:              sel,
		modelPinned:      nonEmpty(b.overrides.Model),
		multimodalPinned: nonEmpty(b.overrides.MultimodalModel),
		httpClient:       httpClient,
		retryConfig:      b.retry,
		events:           b.events,
		logger:           logger,
	}, nil
}

func nonEmpty(s *string) bool { return s != nil && *s != "" }
