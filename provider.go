package ailib

// Provider identifies an upstream chat-completion service.
type Provider string

// String returns the provider identifier.
func (p Provider) String() string { return string(p) }

// Config-driven providers sharing a generic wire shape.
const (
	ProviderGroq           Provider = "groq"
	ProviderXaiGrok        Provider = "xai-grok"
	ProviderOllama         Provider = "ollama"
	ProviderDeepSeek       Provider = "deepseek"
	ProviderAnthropic      Provider = "anthropic"
	ProviderAzureOpenAI    Provider = "azure-openai"
	ProviderHuggingFace    Provider = "huggingface"
	ProviderTogetherAI     Provider = "together-ai"
	ProviderOpenRouter     Provider = "openrouter"
	ProviderReplicate      Provider = "replicate"
	ProviderBaiduWenxin    Provider = "baidu-wenxin"
	ProviderTencentHunyuan Provider = "tencent-hunyuan"
	ProviderIflytekSpark   Provider = "iflytek-spark"
	ProviderMoonshot       Provider = "moonshot"
	ProviderQwen           Provider = "qwen"
	ProviderZhipuAI        Provider = "zhipu-ai"
	ProviderMiniMax        Provider = "minimax"
)

// Providers with a dedicated adapter.
const (
	ProviderOpenAI     Provider = "openai"
	ProviderGemini     Provider = "gemini"
	ProviderMistral    Provider = "mistral"
	ProviderCohere     Provider = "cohere"
	ProviderPerplexity Provider = "perplexity"
	ProviderAI21       Provider = "ai21"
)

var allProviders = []Provider{
	ProviderGroq,
	ProviderXaiGrok,
	ProviderOllama,
	ProviderDeepSeek,
	ProviderAnthropic,
	ProviderAzureOpenAI,
	ProviderHuggingFace,
	ProviderTogetherAI,
	ProviderOpenRouter,
	ProviderReplicate,
	ProviderBaiduWenxin,
	ProviderTencentHunyuan,
	ProviderIflytekSpark,
	ProviderMoonshot,
	ProviderQwen,
	ProviderZhipuAI,
	ProviderMiniMax,
	ProviderOpenAI,
	ProviderGemini,
	ProviderMistral,
	ProviderCohere,
	ProviderPerplexity,
	ProviderAI21,
}

// Providers returns every supported provider identifier.
func Providers() []Provider {
	out := make([]Provider, len(allProviders))
	copy(out, allProviders)
	return out
}

// ParseProvider returns the provider with the given identifier.
func ParseProvider(s string) (Provider, bool) {
	for _, p := range allProviders {
		if string(p) == s {
			return p, true
		}
	}
	return "", false
}
