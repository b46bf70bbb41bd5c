// Package cohere implements the Cohere v2 chat API for the independent
// Cohere adapter. Cohere has no Go SDK in this stack, so requests go over
// net/http and responses are read with gjson.
package cohere

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	ai "github.com/spetersoncode/ailib"
	"github.com/tidwall/gjson"
)

const chatPath = "/v2/chat"

// Config configures a Client.
type Config struct {
	APIKey     string
	BaseURL    string
	Headers    map[string]string
	HTTPClient *http.Client
	Model      string
}

// Client implements ai.ChatProvider for Cohere.
type Client struct {
	cfg  Config
	http *http.Client
}

// New creates a client. A nil HTTPClient uses http.DefaultClient.
func New(cfg Config) *Client {
	hc := cfg.HTTPClient
	if hc == nil {
		hc = http.DefaultClient
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return &Client{cfg: cfg, http: hc}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content any    `json:"content"`
}

type contentItem struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *imageURL `json:"image_url,omitempty"`
}

type imageURL struct {
	URL string `json:"url"`
}

type chatRequest struct {
	Model         string        `json:"model"`
	Messages      []chatMessage `json:"messages"`
	Stream        bool          `json:"stream,omitempty"`
	MaxTokens     int           `json:"max_tokens,omitempty"`
	Temperature   *float64      `json:"temperature,omitempty"`
	P             *float64      `json:"p,omitempty"`
	StopSequences []string      `json:"stop_sequences,omitempty"`
}

// newRequest builds the HTTP request and reports the model it targets, which
// the v2 response body does not echo.
func (c *Client) newRequest(ctx context.Context, messages []ai.Message, opts []ai.Option, stream bool) (*http.Request, string, error) {
	options := ai.ApplyOptions(opts...)
	body := chatRequest{
		Model:         c.cfg.Model,
		Messages:      convertMessages(messages),
		Stream:        stream,
		MaxTokens:     options.MaxTokens,
		Temperature:   options.Temperature,
		P:             options.TopP,
		StopSequences: options.Stop,
	}
	if options.Model != "" {
		body.Model = options.Model
	}

	raw, err := json.Marshal(body)
	if err != nil {
		return nil, "", fmt.Errorf("encoding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+chatPath, bytes.NewReader(raw))
	if err != nil {
		return nil, "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	if stream {
		req.Header.Set("Accept", "text/event-stream")
	} else {
		req.Header.Set("Accept", "application/json")
	}
	for k, v := range c.cfg.Headers {
		req.Header.Set(k, v)
	}
	return req, body.Model, nil
}

func (c *Client) do(req *http.Request) (*http.Response, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 300 {
		defer resp.Body.Close()
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
		return nil, statusError(resp, body)
	}
	return resp, nil
}

// Chat sends a conversation and returns a complete response.
func (c *Client) Chat(ctx context.Context, messages []ai.Message, opts ...ai.Option) (*ai.Response, error) {
	req, model, err := c.newRequest(ctx, messages, opts, false)
	if err != nil {
		return nil, err
	}
	resp, err := c.do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}
	if !gjson.ValidBytes(body) {
		return nil, ai.NewError(ai.ProviderCohere, ai.ErrorTransient, "malformed response body", resp.StatusCode, nil)
	}

	result := gjson.ParseBytes(body)
	var text strings.Builder
	for _, item := range result.Get("message.content").Array() {
		if item.Get("type").String() == "text" {
			text.WriteString(item.Get("text").String())
		}
	}

	return &ai.Response{
		Content:      text.String(),
		FinishReason: result.Get("finish_reason").String(),
		Model:        model,
		Usage:        usageOf(result.Get("usage")),
	}, nil
}

// ChatStream sends a conversation and returns a channel of streaming events.
func (c *Client) ChatStream(ctx context.Context, messages []ai.Message, opts ...ai.Option) (<-chan ai.StreamEvent, error) {
	req, model, err := c.newRequest(ctx, messages, opts, true)
	if err != nil {
		return nil, err
	}
	resp, err := c.do(req)
	if err != nil {
		return nil, err
	}

	ch := make(chan ai.StreamEvent)
	go func() {
		defer close(ch)
		defer resp.Body.Close()

		final := &ai.Response{Model: model}
		scanner := bufio.NewScanner(resp.Body)
		scanner.Buffer(make([]byte, 0, 64<<10), 1<<20)
		for scanner.Scan() {
			data, ok := strings.CutPrefix(scanner.Text(), "data:")
			if !ok {
				continue
			}
			event := gjson.Parse(strings.TrimSpace(data))
			switch event.Get("type").String() {
			case "content-delta":
				text := event.Get("delta.message.content.text").String()
				if text == "" {
					continue
				}
				final.Content += text
				if !send(ctx, ch, ai.StreamEvent{Delta: text}) {
					return
				}
			case "message-end":
				final.FinishReason = event.Get("delta.finish_reason").String()
				final.Usage = usageOf(event.Get("delta.usage"))
				send(ctx, ch, ai.StreamEvent{Done: true, Response: final})
				return
			}
		}
		if err := scanner.Err(); err != nil {
			send(ctx, ch, ai.StreamEvent{Err: ai.NewError(ai.ProviderCohere, ai.ErrorTransient, "reading stream", 0, err)})
			return
		}
		send(ctx, ch, ai.StreamEvent{Err: ai.NewError(ai.ProviderCohere, ai.ErrorTransient, "stream ended without message-end", 0, nil)})
	}()

	return ch, nil
}

func usageOf(u gjson.Result) ai.Usage {
	tokens := u.Get("tokens")
	if !tokens.Exists() {
		tokens = u.Get("billed_units")
	}
	return ai.Usage{
		InputTokens:  int(tokens.Get("input_tokens").Int()),
		OutputTokens: int(tokens.Get("output_tokens").Int()),
	}
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
