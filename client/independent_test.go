package client

import (
	"context"
	"io"
	"net/http"
	"testing"

	"github.com/h2non/gock"
	ai "github.com/spetersoncode/ailib"
	"github.com/spetersoncode/ailib/env"
	"github.com/spetersoncode/ailib/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

// Independent providers must reach their fixed endpoint even when the
// environment carries base URL and proxy variables.
func TestIndependentEndpoints(t *testing.T) {
	openAIReply := map[string]any{
		"id":      "chatcmpl-1",
		"object":  "chat.completion",
		"created": 1700000000,
		"model":   "served",
		"choices": []map[string]any{{"index": 0, "message": map[string]any{"role": "assistant", "content": "ok"}, "finish_reason": "stop"}},
		"usage":   map[string]any{"prompt_tokens": 1, "completion_tokens": 1, "total_tokens": 2},
	}

	tests := []struct {
		provider ai.Provider
		host     string
		path     string
		keyEnv   string
		reply    any
	}{
		{ai.ProviderOpenAI, "https://api.openai.com", "/v1/chat/completions", "OPENAI_API_KEY", openAIReply},
		{ai.ProviderMistral, "https://api.mistral.ai", "/v1/chat/completions", "MISTRAL_API_KEY", openAIReply},
		{ai.ProviderPerplexity, "https://api.perplexity.ai", "/chat/completions", "PERPLEXITY_API_KEY", openAIReply},
		{ai.ProviderAI21, "https://api.ai21.com", "/studio/v1/chat/completions", "AI21_API_KEY", openAIReply},
		{ai.ProviderCohere, "https://api.cohere.com", "/v2/chat", "COHERE_API_KEY", map[string]any{
			"finish_reason": "COMPLETE",
			"message":       map[string]any{"content": []map[string]any{{"type": "text", "text": "ok"}}},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.provider.String(), func(t *testing.T) {
			defer gock.Off()

			c, err := NewBuilder(tt.provider).
				WithEnv(env.Map{
					tt.keyEnv:         "secret",
					registry.ProxyEnv: "http://proxy.invalid:3128",
					"OPENAI_BASE_URL": "https://elsewhere.invalid/v1",
				}).
				WithRetry(DisabledRetryConfig()).
				Build()
			require.NoError(t, err)
			assert.Empty(t, c.Config().Proxy)

			gock.InterceptClient(c.HTTPClient())
			defer gock.RestoreClient(c.HTTPClient())

			model := registry.MustLookup(tt.provider).DefaultModel
			gock.New(tt.host).
				Post(tt.path).
				MatchHeader("Authorization", "Bearer secret").
				AddMatcher(func(req *http.Request, _ *gock.Request) (bool, error) {
					body, _ := io.ReadAll(req.Body)
					return gjson.GetBytes(body, "model").String() == model, nil
				}).
				Reply(http.StatusOK).
				JSON(tt.reply)

			resp, err := c.Chat(context.Background(), userMessage("ping"))
			require.NoError(t, err)
			assert.Equal(t, "ok", resp.Content)
			assert.True(t, gock.IsDone())
		})
	}
}
