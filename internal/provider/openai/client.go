// Package openai adapts the OpenAI chat-completions wire shape. It serves the
// generic adapter for every OpenAI-compatible provider and the independent
// OpenAI, Mistral, Perplexity and AI21 adapters.
package openai

import (
	"context"
	"net/http"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	ai "github.com/spetersoncode/ailib"
)

const defaultChatPath = "/chat/completions"

// Config configures a Client.
type Config struct {
	Provider ai.Provider
	APIKey   string
	BaseURL  string
	// ChatPath replaces "/chat/completions" relative to BaseURL.
	ChatPath string
	// AuthHeader sends the key in this header instead of a bearer token.
	AuthHeader string
	Headers    map[string]string
	HTTPClient *http.Client
	Model      string
}

// Client implements ai.ChatProvider over the OpenAI SDK.
type Client struct {
	client   *openai.Client
	provider ai.Provider
	model    string
}

// New creates a client. SDK-level retries are disabled; callers retry.
func New(cfg Config) *Client {
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	if cfg.HTTPClient != nil {
		opts = append(opts, option.WithHTTPClient(cfg.HTTPClient))
	}
	for k, v := range cfg.Headers {
		opts = append(opts, option.WithHeader(k, v))
	}
	if cfg.AuthHeader != "" {
		opts = append(opts,
			option.WithHeader(cfg.AuthHeader, cfg.APIKey),
			option.WithMiddleware(dropBearer),
		)
	}
	if cfg.ChatPath != "" && cfg.ChatPath != defaultChatPath {
		opts = append(opts, option.WithMiddleware(rewriteChatPath(cfg.ChatPath)))
	}

	client := openai.NewClient(opts...)
	return &Client{
		client:   &client,
		provider: cfg.Provider,
		model:    cfg.Model,
	}
}

func dropBearer(req *http.Request, next option.MiddlewareNext) (*http.Response, error) {
	req.Header.Del("Authorization")
	return next(req)
}

func rewriteChatPath(chatPath string) option.Middleware {
	return func(req *http.Request, next option.MiddlewareNext) (*http.Response, error) {
		if prefix, ok := strings.CutSuffix(req.URL.Path, defaultChatPath); ok {
			req.URL.Path = prefix + chatPath
			req.URL.RawPath = ""
		}
		return next(req)
	}
}

func (c *Client) params(messages []ai.Message, opts []ai.Option) openai.ChatCompletionNewParams {
	options := ai.ApplyOptions(opts...)
	model := c.model
	if options.Model != "" {
		model = options.Model
	}

	params := openai.ChatCompletionNewParams{
		Model:    model,
		Messages: convertMessages(messages),
	}
	if options.MaxTokens > 0 {
		params.MaxTokens = openai.Int(int64(options.MaxTokens))
	}
	if options.Temperature != nil {
		params.Temperature = openai.Float(*options.Temperature)
	}
	if options.TopP != nil {
		params.TopP = openai.Float(*options.TopP)
	}
	if len(options.Stop) > 0 {
		params.Stop = openai.ChatCompletionNewParamsStopUnion{OfStringArray: options.Stop}
	}
	return params
}

// Chat sends a conversation and returns a complete response.
func (c *Client) Chat(ctx context.Context, messages []ai.Message, opts ...ai.Option) (*ai.Response, error) {
	params := c.params(messages, opts)

	resp, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return nil, wrapError(c.provider, err)
	}
	if len(resp.Choices) == 0 {
		return nil, ai.NewError(c.provider, ai.ErrorPermanent, "response contained no choices", 0, nil)
	}

	return &ai.Response{
		Content:      resp.Choices[0].Message.Content,
		FinishReason: string(resp.Choices[0].FinishReason),
		Model:        resp.Model,
		Usage: ai.Usage{
			InputTokens:  int(resp.Usage.PromptTokens),
			OutputTokens: int(resp.Usage.CompletionTokens),
		},
	}, nil
}

// ChatStream sends a conversation and returns a channel of streaming events.
func (c *Client) ChatStream(ctx context.Context, messages []ai.Message, opts ...ai.Option) (<-chan ai.StreamEvent, error) {
	params := c.params(messages, opts)
	params.StreamOptions = openai.ChatCompletionStreamOptionsParam{
		IncludeUsage: openai.Bool(true),
	}

	stream := c.client.Chat.Completions.NewStreaming(ctx, params)
	ch := make(chan ai.StreamEvent)

	go func() {
		defer close(ch)
		defer stream.Close()
		var acc openai.ChatCompletionAccumulator

		for stream.Next() {
			chunk := stream.Current()
			acc.AddChunk(chunk)

			if len(chunk.Choices) > 0 && chunk.Choices[0].Delta.Content != "" {
				if !send(ctx, ch, ai.StreamEvent{Delta: chunk.Choices[0].Delta.Content}) {
					return
				}
			}
		}

		if err := stream.Err(); err != nil {
			send(ctx, ch, ai.StreamEvent{Err: wrapError(c.provider, err)})
			return
		}

		final := &ai.Response{
			Model: acc.Model,
			Usage: ai.Usage{
				InputTokens:  int(acc.Usage.PromptTokens),
				OutputTokens: int(acc.Usage.CompletionTokens),
			},
		}
		if len(acc.Choices) > 0 {
			final.Content = acc.Choices[0].Message.Content
			final.FinishReason = string(acc.Choices[0].FinishReason)
		}
		send(ctx, ch, ai.StreamEvent{Done: true, Response: final})
	}()

	return ch, nil
}

// send delivers ev unless ctx is done first.
func send(ctx context.Context, ch chan<- ai.StreamEvent, ev ai.StreamEvent) bool {
	select {
	case ch <- ev:
		return true
	case <-ctx.Done():
		return false
	}
}

var _ ai.ChatProvider = (*Client)(nil)
