package google

import (
	"errors"
	"fmt"

	ai "github.com/spetersoncode/ailib"
	"google.golang.org/genai"
)

// BlockedError indicates the prompt was rejected by content filtering.
type BlockedError struct {
	Reason string
}

func (e *BlockedError) Error() string {
	return fmt.Sprintf("request blocked: %s", e.Reason)
}

// wrapError categorizes genai API errors by status code. genai.APIError does
// not expose response headers, so no Retry-After is available.
func wrapError(err error) error {
	var apiErr genai.APIError
	if !errors.As(err, &apiErr) {
		return err
	}
	return ai.NewStatusError(ai.ProviderGemini, err.Error(), apiErr.Code, 0, err)
}

func blocked(resp *genai.GenerateContentResponse) error {
	if resp != nil && resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
		return ai.NewError(ai.ProviderGemini, ai.ErrorUserInput, "prompt blocked", 0,
			&BlockedError{Reason: string(resp.PromptFeedback.BlockReason)})
	}
	return nil
}
