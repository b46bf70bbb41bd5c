package client

import (
	"fmt"
	"log/slog"
	"time"

	ai "github.com/spetersoncode/ailib"
	"github.com/spetersoncode/ailib/env"
	"github.com/spetersoncode/ailib/registry"
)

// Library-wide transport defaults. Timeout and pool settings have no
// environment source.
const (
	DefaultTimeout         = 30 * time.Second
	DefaultPoolMaxIdle     = 32
	DefaultPoolIdleTimeout = 90 * time.Second
)

// OverrideSet holds explicitly requested settings. Nil fields are absent.
type OverrideSet struct {
	BaseURL *string
	// Proxy set to "" disables any proxy, including one from the environment.
	Proxy           *string
	Model           *string
	MultimodalModel *string
	Timeout         *time.Duration
	PoolMaxIdle     *int
	PoolIdleTimeout *time.Duration
	APIKey          *string
}

// ResolvedConfig is the fully merged configuration of a client. Every field is
// determined; an empty Proxy means requests go direct.
type ResolvedConfig struct {
	Provider        ai.Provider
	BaseURL         string
	Proxy           string
	Model           string
	MultimodalModel string
	Timeout         time.Duration
	PoolMaxIdle     int
	PoolIdleTimeout time.Duration
	APIKey          string
}

// HasProxy reports whether requests are routed through a proxy.
func (c ResolvedConfig) HasProxy() bool { return c.Proxy != "" }

func (c ResolvedConfig) String() string {
	proxy := c.Proxy
	if proxy == "" {
		proxy = "none"
	}
	return fmt.Sprintf("provider=%s base_url=%s proxy=%s model=%s timeout=%s pool_max_idle=%d pool_idle_timeout=%s api_key=%s",
		c.Provider, c.BaseURL, proxy, c.Model, c.Timeout, c.PoolMaxIdle, c.PoolIdleTimeout, redact(c.APIKey))
}

// LogValue implements slog.LogValuer with the API key redacted.
func (c ResolvedConfig) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("provider", c.Provider.String()),
		slog.String("base_url", c.BaseURL),
		slog.String("proxy", c.Proxy),
		slog.String("model", c.Model),
		slog.Duration("timeout", c.Timeout),
		slog.Int("pool_max_idle", c.PoolMaxIdle),
		slog.Duration("pool_idle_timeout", c.PoolIdleTimeout),
		slog.String("api_key", redact(c.APIKey)),
	)
}

func redact(key string) string {
	switch {
	case key == "":
		return "unset"
	case len(key) <= 8:
		return "****"
	default:
		return key[:4] + "****"
	}
}

// Resolve merges overrides, the environment and the provider's registry entry.
// For each field an explicit override wins, then a non-empty provider-specific
// environment variable, then (proxy only) the shared proxy variable, then the
// registry default. A nil src reads the process environment.
//
// Resolve performs no I/O beyond environment lookups and never returns a
// partially resolved config.
func Resolve(p ai.Provider, o OverrideSet, src env.Source) (ResolvedConfig, error) {
	entry, ok := registry.Lookup(p)
	if !ok {
		return ResolvedConfig{}, &AdapterSelectionError{Provider: p}
	}
	if src == nil {
		src = env.OS()
	}

	if o.BaseURL != nil && !entry.SupportsCustomBaseURL {
		return ResolvedConfig{}, &UnsupportedCustomizationError{Provider: p, Field: FieldBaseURL}
	}
	if o.Proxy != nil && *o.Proxy != "" && !entry.SupportsProxy {
		return ResolvedConfig{}, &UnsupportedCustomizationError{Provider: p, Field: FieldProxy}
	}

	cfg := ResolvedConfig{
		Provider:        p,
		BaseURL:         entry.BaseURL,
		Model:           entry.DefaultModel,
		MultimodalModel: entry.MultimodalModel,
		Timeout:         DefaultTimeout,
		PoolMaxIdle:     DefaultPoolMaxIdle,
		PoolIdleTimeout: DefaultPoolIdleTimeout,
	}

	switch {
	case o.BaseURL != nil:
		cfg.BaseURL = *o.BaseURL
	case entry.BaseURLEnv != "":
		if v, ok := lookupNonEmpty(src, entry.BaseURLEnv); ok {
			cfg.BaseURL = v
		}
	}

	switch {
	case o.Proxy != nil:
		cfg.Proxy = *o.Proxy
	case entry.SupportsProxy:
		if v, ok := lookupNonEmpty(src, entry.ProxyEnv); ok {
			cfg.Proxy = v
		}
	}

	if o.MultimodalModel != nil && *o.MultimodalModel != "" {
		cfg.MultimodalModel = *o.MultimodalModel
	}

	if o.Model != nil && *o.Model != "" {
		cfg.Model = *o.Model
	}

	switch {
	case o.APIKey != nil:
		cfg.APIKey = *o.APIKey
	case entry.APIKeyEnv != "":
		if v, ok := lookupNonEmpty(src, entry.APIKeyEnv); ok {
			cfg.APIKey = v
		}
	}

	if o.Timeout != nil {
		cfg.Timeout = *o.Timeout
	}
	if o.PoolMaxIdle != nil {
		cfg.PoolMaxIdle = *o.PoolMaxIdle
	}
	if o.PoolIdleTimeout != nil {
		cfg.PoolIdleTimeout = *o.PoolIdleTimeout
	}
	if err := TransportParamsFrom(cfg).Validate(); err != nil {
		return ResolvedConfig{}, err
	}

	return cfg, nil
}

func lookupNonEmpty(src env.Source, key string) (string, bool) {
	v, ok := src.Lookup(key)
	if !ok || v == "" {
		return "", false
	}
	return v, true
}
