package cohere

import ai "github.com/spetersoncode/ailib"

// convertMessages maps messages onto the v2 shape. Plain text is sent as a
// string and multimodal user messages as a content array.
func convertMessages(messages []ai.Message) []chatMessage {
	var result []chatMessage
	for _, msg := range messages {
		role := string(msg.Role)
		if msg.Role != ai.RoleSystem && msg.Role != ai.RoleAssistant {
			role = string(ai.RoleUser)
		}

		if msg.Role == ai.RoleUser && msg.HasImages() {
			if items := convertParts(msg.Parts); len(items) > 0 {
				result = append(result, chatMessage{Role: role, Content: items})
			}
			continue
		}
		if text := msg.Text(); text != "" {
			result = append(result, chatMessage{Role: role, Content: text})
		}
	}
	return result
}

func convertParts(parts []ai.ContentPart) []contentItem {
	var items []contentItem
	for _, part := range parts {
		switch part.Type {
		case ai.ContentPartTypeText:
			if part.Text != "" {
				items = append(items, contentItem{Type: "text", Text: part.Text})
			}
		case ai.ContentPartTypeImage:
			if part.ImageURL != "" {
				items = append(items, contentItem{Type: "image_url", ImageURL: &imageURL{URL: part.ImageURL}})
			}
		}
	}
	return items
}
