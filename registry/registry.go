// Package registry holds the static capability table for every supported
// provider: endpoints, environment variable names, default models and which
// customizations the provider accepts.
//
// The table is loaded once at process start and never mutated. Default model
// names are data: review them when a provider announces deprecations.
package registry

import (
	"fmt"
	"maps"

	"github.com/samber/lo"
	ai "github.com/spetersoncode/ailib"
)

// ProxyEnv is the proxy environment variable shared by all providers.
const ProxyEnv = "AI_PROXY_URL"

// AdapterKind selects how requests for a provider are shaped.
type AdapterKind int

const (
	// Generic providers are fully described by their entry and share a wire dialect.
	Generic AdapterKind = iota + 1
	// Independent providers have a dedicated adapter with fixed configuration.
	Independent
)

func (k AdapterKind) String() string {
	switch k {
	case Generic:
		return "generic"
	case Independent:
		return "independent"
	default:
		return fmt.Sprintf("AdapterKind(%d)", int(k))
	}
}

// Dialect names the wire protocol an adapter speaks.
type Dialect string

const (
	DialectOpenAI    Dialect = "openai"
	DialectAnthropic Dialect = "anthropic"
	DialectGemini    Dialect = "gemini"
	DialectCohere    Dialect = "cohere"
)

// Entry is the capability declaration for one provider.
type Entry struct {
	Provider ai.Provider
	Kind     AdapterKind
	Dialect  Dialect

	// BaseURL is the production endpoint used when nothing overrides it.
	BaseURL string
	// ChatPath replaces the dialect's default chat path, relative to BaseURL.
	ChatPath string
	// AuthHeader carries the API key instead of the bearer Authorization header.
	AuthHeader string
	// Headers are sent with every request.
	Headers map[string]string

	// BaseURLEnv is empty for providers that cannot be re-pointed.
	BaseURLEnv string
	APIKeyEnv  string
	ProxyEnv   string
	// Keyless providers accept requests without an API key.
	Keyless bool

	DefaultModel    string
	MultimodalModel string

	SupportsCustomBaseURL bool
	SupportsProxy         bool
}

// Lookup returns the entry for p. The returned value is a copy.
func Lookup(p ai.Provider) (Entry, bool) {
	e, ok := entries[p]
	if !ok {
		return Entry{}, false
	}
	e.Headers = maps.Clone(e.Headers)
	return e, true
}

// MustLookup is like Lookup but panics when p has no entry.
func MustLookup(p ai.Provider) Entry {
	e, ok := Lookup(p)
	if !ok {
		panic(fmt.Sprintf("registry: no entry for provider %q", p))
	}
	return e
}

// Entries returns the entry of every supported provider in declaration order.
func Entries() []Entry {
	return lo.FilterMap(ai.Providers(), func(p ai.Provider, _ int) (Entry, bool) {
		return Lookup(p)
	})
}

// Providers returns the providers handled by adapters of the given kind.
func Providers(kind AdapterKind) []ai.Provider {
	return lo.Filter(ai.Providers(), func(p ai.Provider, _ int) bool {
		return entries[p].Kind == kind
	})
}

type entryOption func(*Entry)

func chatPath(path string) entryOption {
	return func(e *Entry) { e.ChatPath = path }
}

func multimodal(model string) entryOption {
	return func(e *Entry) { e.MultimodalModel = model }
}

func dialect(d Dialect) entryOption {
	return func(e *Entry) { e.Dialect = d }
}

func keyless() entryOption {
	return func(e *Entry) { e.Keyless = true }
}

func authHeader(name string) entryOption {
	return func(e *Entry) { e.AuthHeader = name }
}

func header(key, value string) entryOption {
	return func(e *Entry) {
		if e.Headers == nil {
			e.Headers = make(map[string]string)
		}
		e.Headers[key] = value
	}
}

// generic declares a config-driven provider whose variables share envPrefix.
func generic(p ai.Provider, envPrefix, baseURL, model string, opts ...entryOption) Entry {
	e := Entry{
		Provider:              p,
		Kind:                  Generic,
		Dialect:               DialectOpenAI,
		BaseURL:               baseURL,
		BaseURLEnv:            envPrefix + "_BASE_URL",
		APIKeyEnv:             envPrefix + "_API_KEY",
		ProxyEnv:              ProxyEnv,
		DefaultModel:          model,
		SupportsCustomBaseURL: true,
		SupportsProxy:         true,
	}
	for _, opt := range opts {
		opt(&e)
	}
	return e
}

// independent declares a provider with a dedicated adapter.
func independent(p ai.Provider, d Dialect, apiKeyEnv, baseURL, model string, opts ...entryOption) Entry {
	e := Entry{
		Provider:     p,
		Kind:         Independent,
		Dialect:      d,
		BaseURL:      baseURL,
		APIKeyEnv:    apiKeyEnv,
		ProxyEnv:     ProxyEnv,
		DefaultModel: model,
	}
	for _, opt := range opts {
		opt(&e)
	}
	return e
}

var entries = lo.KeyBy([]Entry{
	generic(ai.ProviderGroq, "GROQ", "https://api.groq.com/openai/v1", "llama-3.1-8b-instant",
		multimodal("llama-3.2-11b-vision-preview")),
	generic(ai.ProviderXaiGrok, "GROK", "https://api.x.ai/v1", "grok-3-mini",
		multimodal("grok-2-vision-1212")),
	generic(ai.ProviderOllama, "OLLAMA", "http://localhost:11434/v1", "llama3.1",
		keyless(),
		multimodal("llava")),
	generic(ai.ProviderDeepSeek, "DEEPSEEK", "https://api.deepseek.com/v1", "deepseek-chat"),
	generic(ai.ProviderAnthropic, "ANTHROPIC", "https://api.anthropic.com", "claude-sonnet-4-5",
		dialect(DialectAnthropic),
		multimodal("claude-sonnet-4-5")),
	generic(ai.ProviderAzureOpenAI, "AZURE_OPENAI", "https://api.openai.azure.com/openai/v1", "gpt-4o-mini",
		authHeader("api-key"),
		multimodal("gpt-4o")),
	generic(ai.ProviderHuggingFace, "HUGGINGFACE", "https://router.huggingface.co/v1", "meta-llama/Llama-3.1-8B-Instruct"),
	generic(ai.ProviderTogetherAI, "TOGETHER", "https://api.together.xyz/v1", "meta-llama/Meta-Llama-3.1-8B-Instruct-Turbo",
		multimodal("meta-llama/Llama-3.2-11B-Vision-Instruct-Turbo")),
	generic(ai.ProviderOpenRouter, "OPENROUTER", "https://openrouter.ai/api/v1", "openai/gpt-4o-mini",
		header("X-Title", "ailib"),
		multimodal("openai/gpt-4o")),
	generic(ai.ProviderReplicate, "REPLICATE", "https://api.replicate.com/v1", "meta/meta-llama-3-8b-instruct"),
	generic(ai.ProviderBaiduWenxin, "BAIDU_WENXIN", "https://qianfan.baidubce.com/v2", "ernie-3.5-8k"),
	generic(ai.ProviderTencentHunyuan, "TENCENT_HUNYUAN", "https://api.hunyuan.cloud.tencent.com/v1", "hunyuan-standard",
		multimodal("hunyuan-vision")),
	generic(ai.ProviderIflytekSpark, "IFLYTEK", "https://spark-api-open.xf-yun.com/v1", "generalv3.5"),
	generic(ai.ProviderMoonshot, "MOONSHOT", "https://api.moonshot.cn/v1", "moonshot-v1-8k"),
	generic(ai.ProviderQwen, "DASHSCOPE", "https://dashscope.aliyuncs.com/compatible-mode/v1", "qwen-turbo",
		multimodal("qwen-vl-plus")),
	generic(ai.ProviderZhipuAI, "ZHIPU", "https://open.bigmodel.cn/api/paas/v4", "glm-4",
		multimodal("glm-4v")),
	generic(ai.ProviderMiniMax, "MINIMAX", "https://api.minimax.chat/v1", "abab6.5s-chat",
		chatPath("/text/chatcompletion_v2")),

	independent(ai.ProviderOpenAI, DialectOpenAI, "OPENAI_API_KEY", "https://api.openai.com/v1", "gpt-4o-mini",
		multimodal("gpt-4o")),
	independent(ai.ProviderGemini, DialectGemini, "GEMINI_API_KEY", "https://generativelanguage.googleapis.com", "gemini-2.5-flash",
		multimodal("gemini-2.5-flash")),
	independent(ai.ProviderMistral, DialectOpenAI, "MISTRAL_API_KEY", "https://api.mistral.ai/v1", "mistral-small-latest",
		multimodal("pixtral-12b-2409")),
	independent(ai.ProviderCohere, DialectCohere, "COHERE_API_KEY", "https://api.cohere.com", "command-r",
		multimodal("command-r-plus")),
	independent(ai.ProviderPerplexity, DialectOpenAI, "PERPLEXITY_API_KEY", "https://api.perplexity.ai", "sonar",
		multimodal("sonar")),
	independent(ai.ProviderAI21, DialectOpenAI, "AI21_API_KEY", "https://api.ai21.com/studio/v1", "jamba-mini"),
}, func(e Entry) ai.Provider { return e.Provider })
