package ailib

import (
	"errors"
	"fmt"
	"time"
)

// ErrEmptyConversation is returned when a chat request carries no messages.
var ErrEmptyConversation = errors.New("empty conversation")

// ErrorCategory classifies provider errors by how they should be handled.
type ErrorCategory string

const (
	// ErrorTransient covers rate limits, overload and network hiccups. Retryable.
	ErrorTransient ErrorCategory = "transient"

	// ErrorPermanent covers bad credentials, missing permissions and unknown models.
	ErrorPermanent ErrorCategory = "permanent"

	// ErrorUserInput covers malformed requests the caller must fix.
	ErrorUserInput ErrorCategory = "user_input"
)

// CategorizedError is an error that knows how it should be handled.
type CategorizedError interface {
	error
	Category() ErrorCategory
	StatusCode() int
	RetryAfter() time.Duration
}

// Error is a categorized error raised by a provider adapter.
type Error struct {
	Provider   Provider
	Msg        string
	Cat        ErrorCategory
	Code       int           // HTTP status code, 0 if not applicable
	RetryDelay time.Duration // from Retry-After, 0 if not available
	Cause      error
}

func (e *Error) Error() string {
	msg := e.Msg
	if e.Provider != "" {
		msg = fmt.Sprintf("%s: %s", e.Provider, e.Msg)
	}
	if e.Cause != nil && e.Cause.Error() != e.Msg {
		return fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Cause }

func (e *Error) Category() ErrorCategory { return e.Cat }

// Retryable reports whether the error is transient.
func (e *Error) Retryable() bool { return e.Cat == ErrorTransient }

func (e *Error) StatusCode() int { return e.Code }

func (e *Error) RetryAfter() time.Duration { return e.RetryDelay }

// NewError creates a categorized error for a provider.
func NewError(p Provider, cat ErrorCategory, msg string, statusCode int, cause error) *Error {
	return &Error{
		Provider: p,
		Msg:      msg,
		Cat:      cat,
		Code:     statusCode,
		Cause:    cause,
	}
}

// CategorizeStatus maps an HTTP status code to an error category.
func CategorizeStatus(code int) ErrorCategory {
	switch {
	case code == 408 || code == 409 || code == 429:
		return ErrorTransient
	case code >= 500 && code < 600:
		return ErrorTransient
	case code == 401 || code == 403:
		return ErrorPermanent
	case code == 400 || code == 404 || code == 413 || code == 422:
		return ErrorUserInput
	default:
		return ErrorPermanent
	}
}

// NewStatusError creates an error categorized by its HTTP status code.
func NewStatusError(p Provider, msg string, statusCode int, retryAfter time.Duration, cause error) *Error {
	e := NewError(p, CategorizeStatus(statusCode), msg, statusCode, cause)
	if retryAfter > 0 {
		e.Cat = ErrorTransient
		e.RetryDelay = retryAfter
	}
	return e
}

// IsTransient reports whether err or any error it wraps is categorized as transient.
func IsTransient(err error) bool {
	return categoryOf(err) == ErrorTransient
}

// IsPermanent reports whether err or any error it wraps is categorized as permanent.
func IsPermanent(err error) bool {
	return categoryOf(err) == ErrorPermanent
}

// IsUserInput reports whether err or any error it wraps is categorized as user input.
func IsUserInput(err error) bool {
	return categoryOf(err) == ErrorUserInput
}

func categoryOf(err error) ErrorCategory {
	var ce CategorizedError
	if errors.As(err, &ce) {
		return ce.Category()
	}
	return ""
}

// StatusCodeOf returns the HTTP status code from a categorized error, or 0.
func StatusCodeOf(err error) int {
	var ce CategorizedError
	if errors.As(err, &ce) {
		return ce.StatusCode()
	}
	return 0
}

// RetryAfterOf returns the retry delay from a categorized error, or 0.
func RetryAfterOf(err error) time.Duration {
	var ce CategorizedError
	if errors.As(err, &ce) {
		return ce.RetryAfter()
	}
	return 0
}
