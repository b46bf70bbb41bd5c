package cohere

import (
	"net/http"
	"strconv"
	"time"

	ai "github.com/spetersoncode/ailib"
	"github.com/tidwall/gjson"
)

// statusError builds a categorized error from a non-2xx response. Cohere
// reports the reason in a top-level "message" field.
func statusError(resp *http.Response, body []byte) error {
	msg := gjson.GetBytes(body, "message").String()
	if msg == "" {
		msg = http.StatusText(resp.StatusCode)
	}
	return ai.NewStatusError(ai.ProviderCohere, msg, resp.StatusCode, retryAfter(resp.Header.Get("Retry-After")), nil)
}

func retryAfter(header string) time.Duration {
	if header == "" {
		return 0
	}
	if seconds, err := strconv.Atoi(header); err == nil && seconds > 0 {
		return time.Duration(seconds) * time.Second
	}
	if t, err := http.ParseTime(header); err == nil {
		if d := time.Until(t); d > 0 {
			return d
		}
	}
	return 0
}
