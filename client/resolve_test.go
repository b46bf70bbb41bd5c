package client

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"testing"
	"time"

	ai "github.com/spetersoncode/ailib"
	"github.com/spetersoncode/ailib/env"
	"github.com/spetersoncode/ailib/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func TestResolveDefaults(t *testing.T) {
	for _, p := range ai.Providers() {
		t.Run(p.String(), func(t *testing.T) {
			cfg, err := Resolve(p, OverrideSet{}, env.Map{})
			require.NoError(t, err)

			entry := registry.MustLookup(p)
			assert.Equal(t, p, cfg.Provider)
			assert.Equal(t, entry.BaseURL, cfg.BaseURL)
			assert.Equal(t, entry.DefaultModel, cfg.Model)
			assert.Equal(t, entry.MultimodalModel, cfg.MultimodalModel)
			assert.Empty(t, cfg.Proxy)
			assert.False(t, cfg.HasProxy())
			assert.Empty(t, cfg.APIKey)
			assert.Equal(t, DefaultTimeout, cfg.Timeout)
			assert.Equal(t, DefaultPoolMaxIdle, cfg.PoolMaxIdle)
			assert.Equal(t, DefaultPoolIdleTimeout, cfg.PoolIdleTimeout)
		})
	}
}

func TestResolveUnsupportedBaseURL(t *testing.T) {
	urls := []string{"https://x", "http://localhost:9999/v1", "not a url", ""}

	for _, p := range registry.Providers(registry.Independent) {
		for _, u := range urls {
			t.Run(fmt.Sprintf("%s/%q", p, u), func(t *testing.T) {
				_, err := Resolve(p, OverrideSet{BaseURL: ptr(u)}, env.Map{})

				var unsupported *UnsupportedCustomizationError
				require.ErrorAs(t, err, &unsupported)
				assert.Equal(t, p, unsupported.Provider)
				assert.Equal(t, FieldBaseURL, unsupported.Field)
			})
		}
	}
}

func TestResolveUnsupportedProxy(t *testing.T) {
	for _, p := range registry.Providers(registry.Independent) {
		t.Run(p.String(), func(t *testing.T) {
			_, err := Resolve(p, OverrideSet{Proxy: ptr("http://p:8080")}, env.Map{})

			var unsupported *UnsupportedCustomizationError
			require.ErrorAs(t, err, &unsupported)
			assert.Equal(t, FieldProxy, unsupported.Field)
			assert.Equal(t, p.String()+" provider does not support a custom proxy", err.Error())
		})
	}
}

func TestResolvePrecedence(t *testing.T) {
	environ := env.Map{
		"GROQ_BASE_URL":   "https://env.example/v1",
		"GROQ_API_KEY":    "gsk-env",
		registry.ProxyEnv: "http://env-proxy:3128",
	}

	t.Run("explicit beats environment", func(t *testing.T) {
		cfg, err := Resolve(ai.ProviderGroq, OverrideSet{
			BaseURL: ptr("https://explicit.example/v1"),
			Proxy:   ptr("socks5://explicit-proxy:1080"),
			APIKey:  ptr("gsk-explicit"),
		}, environ)
		require.NoError(t, err)
		assert.Equal(t, "https://explicit.example/v1", cfg.BaseURL)
		assert.Equal(t, "socks5://explicit-proxy:1080", cfg.Proxy)
		assert.Equal(t, "gsk-explicit", cfg.APIKey)
	})

	t.Run("environment beats default", func(t *testing.T) {
		cfg, err := Resolve(ai.ProviderGroq, OverrideSet{}, environ)
		require.NoError(t, err)
		assert.Equal(t, "https://env.example/v1", cfg.BaseURL)
		assert.Equal(t, "http://env-proxy:3128", cfg.Proxy)
		assert.Equal(t, "gsk-env", cfg.APIKey)
	})

	t.Run("empty environment values fall through", func(t *testing.T) {
		cfg, err := Resolve(ai.ProviderGroq, OverrideSet{}, env.Map{
			"GROQ_BASE_URL":   "",
			"GROQ_API_KEY":    "",
			registry.ProxyEnv: "",
		})
		require.NoError(t, err)
		assert.Equal(t, registry.MustLookup(ai.ProviderGroq).BaseURL, cfg.BaseURL)
		assert.Empty(t, cfg.Proxy)
		assert.Empty(t, cfg.APIKey)
	})

	t.Run("other providers' variables are ignored", func(t *testing.T) {
		cfg, err := Resolve(ai.ProviderDeepSeek, OverrideSet{}, env.Map{"GROQ_BASE_URL": "https://env.example/v1"})
		require.NoError(t, err)
		assert.Equal(t, registry.MustLookup(ai.ProviderDeepSeek).BaseURL, cfg.BaseURL)
	})

	t.Run("without proxy ignores the shared variable", func(t *testing.T) {
		cfg, err := Resolve(ai.ProviderGroq, OverrideSet{Proxy: ptr("")}, environ)
		require.NoError(t, err)
		assert.Empty(t, cfg.Proxy)
	})

	t.Run("without proxy is allowed for independent providers", func(t *testing.T) {
		_, err := Resolve(ai.ProviderOpenAI, OverrideSet{Proxy: ptr("")}, env.Map{})
		assert.NoError(t, err)
	})

	t.Run("shared proxy is ignored for independent providers", func(t *testing.T) {
		cfg, err := Resolve(ai.ProviderOpenAI, OverrideSet{}, env.Map{
			registry.ProxyEnv: "http://env-proxy:3128",
			"OPENAI_API_KEY":  "sk-env",
		})
		require.NoError(t, err)
		assert.Empty(t, cfg.Proxy)
		assert.Equal(t, "sk-env", cfg.APIKey)
		assert.Equal(t, registry.MustLookup(ai.ProviderOpenAI).BaseURL, cfg.BaseURL)
	})
}

func TestResolveModel(t *testing.T) {
	t.Run("default model when no override", func(t *testing.T) {
		cfg, err := Resolve(ai.ProviderDeepSeek, OverrideSet{}, env.Map{})
		require.NoError(t, err)
		assert.Equal(t, "deepseek-chat", cfg.Model)
	})

	t.Run("override wins", func(t *testing.T) {
		cfg, err := Resolve(ai.ProviderOpenAI, OverrideSet{Model: ptr("gpt-4.1")}, env.Map{})
		require.NoError(t, err)
		assert.Equal(t, "gpt-4.1", cfg.Model)
	})

	t.Run("empty override keeps default", func(t *testing.T) {
		cfg, err := Resolve(ai.ProviderMoonshot, OverrideSet{Model: ptr("")}, env.Map{})
		require.NoError(t, err)
		assert.Equal(t, registry.MustLookup(ai.ProviderMoonshot).DefaultModel, cfg.Model)
	})
}

func TestResolveMultimodalModel(t *testing.T) {
	registryDefault := registry.MustLookup(ai.ProviderGroq).MultimodalModel

	tests := []struct {
		name     string
		override *string
		want     string
	}{
		{name: "registry default", override: nil, want: registryDefault},
		{name: "override wins", override: ptr("vision-large"), want: "vision-large"},
		{name: "empty override keeps default", override: ptr(""), want: registryDefault},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Resolve(ai.ProviderGroq, OverrideSet{MultimodalModel: tt.override}, env.Map{})
			require.NoError(t, err)
			assert.Equal(t, tt.want, cfg.MultimodalModel)
		})
	}

	t.Run("override on provider without registry default", func(t *testing.T) {
		cfg, err := Resolve(ai.ProviderDeepSeek, OverrideSet{MultimodalModel: ptr("ds-vl")}, env.Map{})
		require.NoError(t, err)
		assert.Equal(t, "ds-vl", cfg.MultimodalModel)
		assert.Equal(t, "deepseek-chat", cfg.Model)
	})
}

func TestResolvePoolConfig(t *testing.T) {
	t.Run("zero max idle fails for every provider", func(t *testing.T) {
		for _, p := range ai.Providers() {
			_, err := Resolve(p, OverrideSet{PoolMaxIdle: ptr(0), PoolIdleTimeout: ptr(time.Minute)}, env.Map{})

			var invalid *InvalidPoolConfigError
			require.ErrorAs(t, err, &invalid, p)
			assert.Contains(t, invalid.Reason, "pool max idle", p)
		}
	})

	tests := []struct {
		name   string
		o      OverrideSet
		reason string
	}{
		{"negative max idle", OverrideSet{PoolMaxIdle: ptr(-1)}, "pool max idle"},
		{"zero timeout", OverrideSet{Timeout: ptr(time.Duration(0))}, "timeout must be positive"},
		{"negative idle timeout", OverrideSet{PoolIdleTimeout: ptr(-time.Second)}, "pool idle timeout"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Resolve(ai.ProviderGroq, tt.o, env.Map{})

			var invalid *InvalidPoolConfigError
			require.ErrorAs(t, err, &invalid)
			assert.Contains(t, invalid.Reason, tt.reason)
		})
	}

	t.Run("valid overrides apply", func(t *testing.T) {
		cfg, err := Resolve(ai.ProviderGroq, OverrideSet{
			Timeout:         ptr(5 * time.Second),
			PoolMaxIdle:     ptr(4),
			PoolIdleTimeout: ptr(time.Minute),
		}, env.Map{})
		require.NoError(t, err)
		assert.Equal(t, 5*time.Second, cfg.Timeout)
		assert.Equal(t, 4, cfg.PoolMaxIdle)
		assert.Equal(t, time.Minute, cfg.PoolIdleTimeout)
	})
}

func TestResolveUnknownProvider(t *testing.T) {
	_, err := Resolve("not-a-provider", OverrideSet{}, env.Map{})

	var selErr *AdapterSelectionError
	require.ErrorAs(t, err, &selErr)
	assert.Equal(t, ai.Provider("not-a-provider"), selErr.Provider)
}

func TestResolveDeterministic(t *testing.T) {
	o := OverrideSet{Model: ptr("m"), Timeout: ptr(time.Second)}
	src := env.Map{"TOGETHER_BASE_URL": "https://t.example/v1", registry.ProxyEnv: "http://p:1"}

	first, err := Resolve(ai.ProviderTogetherAI, o, src)
	require.NoError(t, err)
	for range 5 {
		again, err := Resolve(ai.ProviderTogetherAI, o, src)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestResolveProcessEnvironment(t *testing.T) {
	t.Setenv("MINIMAX_BASE_URL", "https://minimax.example/v1")

	cfg, err := Resolve(ai.ProviderMiniMax, OverrideSet{}, nil)
	require.NoError(t, err)
	assert.Equal(t, "https://minimax.example/v1", cfg.BaseURL)
}

func TestResolvedConfigRedaction(t *testing.T) {
	cfg := ResolvedConfig{Provider: ai.ProviderGroq, APIKey: "gsk-1234567890"}

	assert.NotContains(t, cfg.String(), "1234567890")
	assert.Contains(t, cfg.String(), "api_key=gsk-****")
	assert.Contains(t, cfg.String(), "proxy=none")

	var buf strings.Builder
	slog.New(slog.NewTextHandler(&buf, nil)).Info("resolved", "config", cfg)
	assert.NotContains(t, buf.String(), "1234567890")
	assert.Contains(t, buf.String(), "config.provider=groq")

	assert.Equal(t, "unset", redact(""))
	assert.Equal(t, "****", redact("short"))
}

func TestErrorMessages(t *testing.T) {
	err := error(&TransportConstructionError{Err: errors.New("boom")})
	assert.Equal(t, "constructing transport: boom", err.Error())
	assert.Equal(t, "boom", errors.Unwrap(err).Error())

	assert.Equal(t, `no adapter registered for provider "x"`, (&AdapterSelectionError{Provider: "x"}).Error())
	assert.Equal(t, "no API key configured for groq: set GROQ_API_KEY or use WithAPIKey",
		(&MissingAPIKeyError{Provider: ai.ProviderGroq, EnvVar: "GROQ_API_KEY"}).Error())
}
