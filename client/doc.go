// Package client resolves a provider's configuration and dispatches chat
// requests to it.
//
// Configuration is layered. For every field an explicit builder call wins,
// then the provider's environment variable, then (proxy only) AI_PROXY_URL,
// then the registry default:
//
//	c, err := client.NewBuilder(ai.ProviderGroq).
//	    WithProxy("http://proxy.internal:8080").
//	    WithTimeout(10 * time.Second).
//	    Build()
//
// Providers fall into two kinds. Generic providers are driven entirely by
// the resolved configuration and accept a custom base URL and proxy.
// Independent providers (OpenAI, Gemini, Mistral, Cohere, Perplexity, AI21)
// have fixed endpoints; asking for a custom base URL or proxy fails at
// Build with *UnsupportedCustomizationError.
//
// Build reports every configuration problem synchronously. A missing API key
// is reported by the first request as *MissingAPIKeyError, so keyless local
// providers such as Ollama build without one.
//
// # Requests
//
// Chat and ChatStream default the model to the resolved model, switching to
// the provider's multimodal model for image input unless WithModel pinned one.
// Transient failures are retried with exponential backoff; see WithRetry.
//
// # Events
//
// WithEvents delivers request and retry events on a channel. Sends never
// block; events are dropped when the channel is full.
package client
