package ailib

import "github.com/google/uuid"

// Role represents the role of a message sender in a conversation.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// ContentPartType represents the type of content in a multimodal message part.
type ContentPartType string

const (
	ContentPartTypeText  ContentPartType = "text"
	ContentPartTypeImage ContentPartType = "image"
)

// ContentPart is a single part of multimodal content.
type ContentPart struct {
	Type ContentPartType `json:"type"`
	// Text is set for text parts.
	Text string `json:"text,omitempty"`
	// ImageURL is set for image parts. It may be an http(s) URL or a data URL.
	ImageURL string `json:"imageUrl,omitempty"`
}

// NewTextPart creates a text content part.
func NewTextPart(text string) ContentPart {
	return ContentPart{Type: ContentPartTypeText, Text: text}
}

// NewImageURLPart creates an image content part from a URL.
func NewImageURLPart(url string) ContentPart {
	return ContentPart{Type: ContentPartTypeImage, ImageURL: url}
}

// Message represents a single message in a conversation.
type Message struct {
	ID      string `json:"id,omitempty"`
	Role    Role   `json:"role"`
	Content string `json:"content,omitempty"`
	// Parts contains multimodal content. When populated, Content is ignored.
	Parts []ContentPart `json:"parts,omitempty"`
}

// GenerateMessageID creates a unique message identifier.
func GenerateMessageID() string {
	return "msg-" + uuid.New().String()
}

// HasParts reports whether the message carries multimodal parts.
func (m Message) HasParts() bool {
	return len(m.Parts) > 0
}

// HasImages reports whether any part of the message is an image.
func (m Message) HasImages() bool {
	for _, p := range m.Parts {
		if p.Type == ContentPartTypeImage {
			return true
		}
	}
	return false
}

// Text returns the message text, joining text parts when Content is empty.
func (m Message) Text() string {
	if !m.HasParts() {
		return m.Content
	}
	var s string
	for _, p := range m.Parts {
		if p.Type == ContentPartTypeText {
			s += p.Text
		}
	}
	return s
}

// Response represents a complete response from a chat provider.
type Response struct {
	Content      string `json:"content,omitempty"`
	FinishReason string `json:"finishReason,omitempty"`
	Model        string `json:"model,omitempty"`
	Usage        Usage  `json:"usage"`
}

// Usage contains token usage information for a request.
type Usage struct {
	InputTokens  int `json:"inputTokens"`
	OutputTokens int `json:"outputTokens"`
}

// StreamEvent represents a single event in a streaming response.
type StreamEvent struct {
	// Delta contains the incremental content for this event.
	Delta string
	// Done indicates the final event in the stream.
	Done bool
	// Response contains the final response data when Done is true.
	Response *Response
	// Err contains any error that occurred during streaming.
	Err error
}
