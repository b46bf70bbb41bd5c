package google

import (
	"encoding/base64"
	"fmt"
	"path"
	"strings"

	ai "github.com/spetersoncode/ailib"
	"google.golang.org/genai"
)

// convertMessages maps the conversation onto Gemini contents. System messages
// become the system instruction.
func convertMessages(messages []ai.Message) ([]*genai.Content, *genai.Content, error) {
	var contents []*genai.Content
	var system *genai.Content

	for _, msg := range messages {
		if msg.Role == ai.RoleSystem {
			if msg.Content == "" {
				continue
			}
			if system == nil {
				system = &genai.Content{Role: genai.RoleUser}
			}
			system.Parts = append(system.Parts, &genai.Part{Text: msg.Content})
			continue
		}

		role := genai.RoleUser
		if msg.Role == ai.RoleAssistant {
			role = genai.RoleModel
		}

		var parts []*genai.Part
		if msg.HasParts() {
			converted, err := convertParts(msg.Parts)
			if err != nil {
				return nil, nil, err
			}
			parts = converted
		} else if msg.Content != "" {
			parts = append(parts, &genai.Part{Text: msg.Content})
		}

		if len(parts) > 0 {
			contents = append(contents, &genai.Content{Role: role, Parts: parts})
		}
	}

	return contents, system, nil
}

func convertParts(parts []ai.ContentPart) ([]*genai.Part, error) {
	var result []*genai.Part
	for _, part := range parts {
		switch part.Type {
		case ai.ContentPartTypeText:
			if part.Text != "" {
				result = append(result, &genai.Part{Text: part.Text})
			}
		case ai.ContentPartTypeImage:
			if part.ImageURL == "" {
				continue
			}
			if rest, ok := strings.CutPrefix(part.ImageURL, "data:"); ok {
				blob, err := decodeDataURL(rest)
				if err != nil {
					return nil, ai.NewError(ai.ProviderGemini, ai.ErrorUserInput, "invalid image data URL", 0, err)
				}
				result = append(result, &genai.Part{InlineData: blob})
				continue
			}
			result = append(result, &genai.Part{FileData: &genai.FileData{
				FileURI:  part.ImageURL,
				MIMEType: mimeTypeOf(part.ImageURL),
			}})
		}
	}
	return result, nil
}

func decodeDataURL(rest string) (*genai.Blob, error) {
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return nil, fmt.Errorf("missing payload")
	}
	mimeType, ok := strings.CutSuffix(meta, ";base64")
	if !ok {
		return nil, fmt.Errorf("only base64 data URLs are supported")
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, err
	}
	return &genai.Blob{Data: data, MIMEType: mimeType}, nil
}

func mimeTypeOf(uri string) string {
	switch strings.ToLower(path.Ext(uri)) {
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	case ".webp":
		return "image/webp"
	default:
		return "image/jpeg"
	}
}
