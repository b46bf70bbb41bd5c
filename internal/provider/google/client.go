// Package google adapts the Gemini API through the Google GenAI SDK for the
// independent Gemini adapter.
package google

import (
	"context"
	"fmt"
	"net/http"

	ai "github.com/spetersoncode/ailib"
	"google.golang.org/genai"
)

// Config configures a Client.
type Config struct {
	APIKey     string
	HTTPClient *http.Client
	Model      string
	// BaseURL overrides the SDK endpoint. Empty uses the Gemini API default.
	BaseURL string
}

// Client implements ai.ChatProvider over the GenAI SDK.
type Client struct {
	client *genai.Client
	model  string
}

// New creates a client. The SDK validates its configuration here but makes
// no network calls.
func New(ctx context.Context, cfg Config) (*Client, error) {
	cc := &genai.ClientConfig{
		APIKey:     cfg.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: cfg.HTTPClient,
	}
	if cfg.BaseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("creating genai client: %w", err)
	}
	return &Client{client: client, model: cfg.Model}, nil
}

func (c *Client) request(messages []ai.Message, opts []ai.Option) (string, []*genai.Content, *genai.GenerateContentConfig, error) {
	options := ai.ApplyOptions(opts...)
	model := c.model
	if options.Model != "" {
		model = options.Model
	}

	contents, system, err := convertMessages(messages)
	if err != nil {
		return "", nil, nil, err
	}

	config := &genai.GenerateContentConfig{SystemInstruction: system}
	if options.MaxTokens > 0 {
		config.MaxOutputTokens = int32(options.MaxTokens)
	}
	if options.Temperature != nil {
		config.Temperature = genai.Ptr(float32(*options.Temperature))
	}
	if options.TopP != nil {
		config.TopP = genai.Ptr(float32(*options.TopP))
	}
	if len(options.Stop) > 0 {
		config.StopSequences = options.Stop
	}
	return model, contents, config, nil
}

// Chat sends a conversation and returns a complete response.
func (c *Client) Chat(ctx context.Context, messages []ai.Message, opts ...ai.Option) (*ai.Response, error) {
	model, contents, config, err := c.request(messages, opts)
	if err != nil {
		return nil, err
	}

	resp, err := c.client.Models.GenerateContent(ctx, model, contents, config)
	if err != nil {
		return nil, wrapError(err)
	}
	if err := blocked(resp); err != nil {
		return nil, err
	}

	out := &ai.Response{Model: resp.ModelVersion}
	if len(resp.Candidates) > 0 {
		out.Content = textOf(resp.Candidates[0])
		out.FinishReason = string(resp.Candidates[0].FinishReason)
	}
	if resp.UsageMetadata != nil {
		out.Usage = ai.Usage{
			InputTokens:  int(resp.UsageMetadata.PromptTokenCount),
			OutputTokens: int(resp.UsageMetadata.CandidatesTokenCount),
		}
	}
	return out, nil
}

// ChatStream sends a conversation and returns a channel of streaming events.
func (c *Client) ChatStream(ctx context.Context, messages []ai.Message, opts ...ai.Option) (<-chan ai.StreamEvent, error) {
	model, contents, config, err := c.request(messages, opts)
	if err != nil {
		return nil, err
	}

	ch := make(chan ai.StreamEvent)
	go func() {
		defer close(ch)

		final := &ai.Response{}
		chunks := 0
		for resp, err := range c.client.Models.GenerateContentStream(ctx, model, contents, config) {
			if err != nil {
				send(ctx, ch, ai.StreamEvent{Err: wrapError(err)})
				return
			}
			chunks++
			if err := blocked(resp); err != nil {
				send(ctx, ch, ai.StreamEvent{Err: err})
				return
			}

			if len(resp.Candidates) > 0 {
				if text := textOf(resp.Candidates[0]); text != "" {
					final.Content += text
					if !send(ctx, ch, ai.StreamEvent{Delta: text}) {
						return
					}
				}
				if fr := resp.Candidates[0].FinishReason; fr != "" {
					final.FinishReason = string(fr)
				}
			}
			if resp.ModelVersion != "" {
				final.Model = resp.ModelVersion
			}
			if resp.UsageMetadata != nil {
				final.Usage = ai.Usage{
					InputTokens:  int(resp.UsageMetadata.PromptTokenCount),
					OutputTokens: int(resp.UsageMetadata.CandidatesTokenCount),
				}
			}
		}

		if chunks == 0 {
			send(ctx, ch, ai.StreamEvent{Err: ai.NewError(ai.ProviderGemini, ai.ErrorTransient, "stream returned no data", 0, nil)})
			return
		}
		send(ctx, ch, ai.StreamEvent{Done: true, Response: final})
	}()

	return ch, nil
}

func textOf(c *genai.Candidate) string {
	if c == nil || c.Content == nil {
		return ""
	}
	var s string
	for _, p := range c.Content.Parts {
		if p != nil && !p.Thought {
			s += p.Text
		}
	}
	return s
}

func send(ctx context.Context, ch chan<- ai.StreamEvent, ev ai.StreamEvent) bool {
	select {
	case ch <- ev:
		return true
	case <-ctx.Done():
		return false
	}
}

var _ ai.ChatProvider = (*Client)(nil)
