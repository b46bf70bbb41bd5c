package registry

import (
	"net/url"
	"strings"
	"testing"

	ai "github.com/spetersoncode/ailib"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEveryProviderHasEntry(t *testing.T) {
	for _, p := range ai.Providers() {
		t.Run(p.String(), func(t *testing.T) {
			e, ok := Lookup(p)
			require.True(t, ok)
			assert.Equal(t, p, e.Provider)
			assert.NotEmpty(t, e.DefaultModel)
			assert.NotEmpty(t, e.APIKeyEnv)
			assert.Equal(t, ProxyEnv, e.ProxyEnv)

			u, err := url.Parse(e.BaseURL)
			require.NoError(t, err)
			assert.Contains(t, []string{"http", "https"}, u.Scheme)
			assert.NotEmpty(t, u.Host)
		})
	}
	assert.Len(t, entries, len(ai.Providers()))
}

func TestEntryCapabilities(t *testing.T) {
	t.Run("independent providers forbid customization", func(t *testing.T) {
		for _, p := range Providers(Independent) {
			e := MustLookup(p)
			assert.False(t, e.SupportsCustomBaseURL, p)
			assert.False(t, e.SupportsProxy, p)
			assert.Empty(t, e.BaseURLEnv, p)
		}
	})

	t.Run("generic providers allow customization", func(t *testing.T) {
		for _, p := range Providers(Generic) {
			e := MustLookup(p)
			assert.True(t, e.SupportsCustomBaseURL, p)
			assert.True(t, e.SupportsProxy, p)
			assert.True(t, strings.HasSuffix(e.BaseURLEnv, "_BASE_URL"), p)
			assert.Contains(t, []Dialect{DialectOpenAI, DialectAnthropic}, e.Dialect, p)
		}
	})

	t.Run("kinds partition the provider set", func(t *testing.T) {
		generic := Providers(Generic)
		independent := Providers(Independent)
		assert.Len(t, generic, 17)
		assert.Len(t, independent, 6)
		assert.Len(t, Entries(), len(generic)+len(independent))
	})
}

func TestKnownEntries(t *testing.T) {
	tests := []struct {
		provider   ai.Provider
		kind       AdapterKind
		dialect    Dialect
		baseURLEnv string
		apiKeyEnv  string
	}{
		{ai.ProviderGroq, Generic, DialectOpenAI, "GROQ_BASE_URL", "GROQ_API_KEY"},
		{ai.ProviderXaiGrok, Generic, DialectOpenAI, "GROK_BASE_URL", "GROK_API_KEY"},
		{ai.ProviderAnthropic, Generic, DialectAnthropic, "ANTHROPIC_BASE_URL", "ANTHROPIC_API_KEY"},
		{ai.ProviderQwen, Generic, DialectOpenAI, "DASHSCOPE_BASE_URL", "DASHSCOPE_API_KEY"},
		{ai.ProviderIflytekSpark, Generic, DialectOpenAI, "IFLYTEK_BASE_URL", "IFLYTEK_API_KEY"},
		{ai.ProviderOpenAI, Independent, DialectOpenAI, "", "OPENAI_API_KEY"},
		{ai.ProviderGemini, Independent, DialectGemini, "", "GEMINI_API_KEY"},
		{ai.ProviderCohere, Independent, DialectCohere, "", "COHERE_API_KEY"},
	}

	for _, tt := range tests {
		t.Run(tt.provider.String(), func(t *testing.T) {
			e := MustLookup(tt.provider)
			assert.Equal(t, tt.kind, e.Kind)
			assert.Equal(t, tt.dialect, e.Dialect)
			assert.Equal(t, tt.baseURLEnv, e.BaseURLEnv)
			assert.Equal(t, tt.apiKeyEnv, e.APIKeyEnv)
		})
	}
}

func TestLookup(t *testing.T) {
	t.Run("unknown provider", func(t *testing.T) {
		_, ok := Lookup("not-a-provider")
		assert.False(t, ok)
	})

	t.Run("MustLookup panics on unknown provider", func(t *testing.T) {
		assert.Panics(t, func() { MustLookup("not-a-provider") })
	})

	t.Run("returned headers are a copy", func(t *testing.T) {
		e := MustLookup(ai.ProviderOpenRouter)
		require.Equal(t, "ailib", e.Headers["X-Title"])
		e.Headers["X-Title"] = "changed"

		again := MustLookup(ai.ProviderOpenRouter)
		assert.Equal(t, "ailib", again.Headers["X-Title"])
	})
}

func TestAdapterKindString(t *testing.T) {
	assert.Equal(t, "generic", Generic.String())
	assert.Equal(t, "independent", Independent.String())
	assert.Equal(t, "AdapterKind(0)", AdapterKind(0).String())
}
