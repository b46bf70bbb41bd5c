package client

import (
	"errors"
	"fmt"

	ai "github.com/spetersoncode/ailib"
)

// Field names a customizable part of a provider's configuration.
type Field string

const (
	FieldBaseURL Field = "base_url"
	FieldProxy   Field = "proxy"
)

// ErrBuilderUsed is returned when Build is called on a builder that has
// already been built.
var ErrBuilderUsed = errors.New("client: builder already built")

// errStreamEmpty is returned when a provider closes a stream without sending
// any event.
var errStreamEmpty = errors.New("client: stream closed without events")

// UnsupportedCustomizationError is returned when an override targets a field
// the provider does not allow to be customized.
type UnsupportedCustomizationError struct {
	Provider ai.Provider
	Field    Field
}

func (e *UnsupportedCustomizationError) Error() string {
	return fmt.Sprintf("%s provider does not support a custom %s", e.Provider, e.Field)
}

// InvalidPoolConfigError is returned for non-positive pool or timeout settings.
type InvalidPoolConfigError struct {
	Reason string
}

func (e *InvalidPoolConfigError) Error() string {
	return "invalid pool config: " + e.Reason
}

// TransportConstructionError wraps a failure to build the HTTP transport,
// typically a malformed base or proxy URL.
type TransportConstructionError struct {
	Err error
}

func (e *TransportConstructionError) Error() string {
	return fmt.Sprintf("constructing transport: %v", e.Err)
}

func (e *TransportConstructionError) Unwrap() error { return e.Err }

// InvalidRetryConfigError wraps a retry policy rejected at build.
type InvalidRetryConfigError struct {
	Err error
}

func (e *InvalidRetryConfigError) Error() string {
	return fmt.Sprintf("invalid retry config: %v", e.Err)
}

func (e *InvalidRetryConfigError) Unwrap() error { return e.Err }

// AdapterSelectionError means a provider has no registry entry.
type AdapterSelectionError struct {
	Provider ai.Provider
}

func (e *AdapterSelectionError) Error() string {
	return fmt.Sprintf("no adapter registered for provider %q", e.Provider)
}

// MissingAPIKeyError is returned on first request when the provider requires
// a key and none was configured.
type MissingAPIKeyError struct {
	Provider ai.Provider
	EnvVar   string
}

func (e *MissingAPIKeyError) Error() string {
	if e.EnvVar != "" {
		return fmt.Sprintf("no API key configured for %s: set %s or use WithAPIKey", e.Provider, e.EnvVar)
	}
	return fmt.Sprintf("no API key configured for %s", e.Provider)
}
