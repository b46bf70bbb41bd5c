package ailib

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestError(t *testing.T) {
	t.Run("message includes provider and cause", func(t *testing.T) {
		err := NewError(ProviderGroq, ErrorTransient, "rate limited", 429, errors.New("slow down"))
		assert.Equal(t, "groq: rate limited: slow down", err.Error())
	})

	t.Run("message without provider", func(t *testing.T) {
		err := NewError("", ErrorPermanent, "bad key", 401, nil)
		assert.Equal(t, "bad key", err.Error())
	})

	t.Run("cause with identical message is not repeated", func(t *testing.T) {
		cause := errors.New("boom")
		err := NewError(ProviderOpenAI, ErrorPermanent, cause.Error(), 0, cause)
		assert.Equal(t, "openai: boom", err.Error())
	})

	t.Run("unwraps to cause", func(t *testing.T) {
		cause := errors.New("root")
		err := NewError(ProviderCohere, ErrorPermanent, "wrapped", 500, cause)
		assert.ErrorIs(t, err, cause)
	})

	t.Run("retryable only when transient", func(t *testing.T) {
		assert.True(t, NewError("", ErrorTransient, "x", 0, nil).Retryable())
		assert.False(t, NewError("", ErrorUserInput, "x", 0, nil).Retryable())
	})
}

func TestCategorizeStatus(t *testing.T) {
	tests := []struct {
		code     int
		expected ErrorCategory
	}{
		{429, ErrorTransient},
		{408, ErrorTransient},
		{500, ErrorTransient},
		{503, ErrorTransient},
		{401, ErrorPermanent},
		{403, ErrorPermanent},
		{400, ErrorUserInput},
		{404, ErrorUserInput},
		{422, ErrorUserInput},
		{418, ErrorPermanent},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("status %d", tt.code), func(t *testing.T) {
			assert.Equal(t, tt.expected, CategorizeStatus(tt.code))
		})
	}
}

func TestNewStatusError(t *testing.T) {
	t.Run("retry-after forces transient", func(t *testing.T) {
		err := NewStatusError(ProviderAnthropic, "overloaded", 400, 2*time.Second, nil)
		assert.True(t, IsTransient(err))
		assert.Equal(t, 2*time.Second, RetryAfterOf(err))
	})

	t.Run("no retry-after keeps status category", func(t *testing.T) {
		err := NewStatusError(ProviderAnthropic, "unauthorized", 401, 0, nil)
		assert.True(t, IsPermanent(err))
		assert.Equal(t, 401, StatusCodeOf(err))
	})
}

func TestCategoryHelpers(t *testing.T) {
	t.Run("see through wrapping", func(t *testing.T) {
		err := fmt.Errorf("chat failed: %w", NewError(ProviderGemini, ErrorUserInput, "bad", 400, nil))
		assert.True(t, IsUserInput(err))
		assert.False(t, IsTransient(err))
		assert.Equal(t, 400, StatusCodeOf(err))
	})

	t.Run("plain errors have no category", func(t *testing.T) {
		err := errors.New("plain")
		assert.False(t, IsTransient(err))
		assert.False(t, IsPermanent(err))
		assert.False(t, IsUserInput(err))
		assert.Zero(t, StatusCodeOf(err))
		assert.Zero(t, RetryAfterOf(err))
	})
}
