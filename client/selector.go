package client

import (
	"maps"

	ai "github.com/spetersoncode/ailib"
	"github.com/spetersoncode/ailib/registry"
)

// AdapterKind distinguishes generic from independent adapters.
type AdapterKind = registry.AdapterKind

const (
	AdapterGeneric     = registry.Generic
	AdapterIndependent = registry.Independent
)

// Selection is the adapter chosen for a client. Exactly one of Generic and
// Independent is set, matching Kind.
type Selection struct {
	Kind        AdapterKind
	Generic     *GenericAdapter
	Independent *IndependentAdapter
}

// GenericAdapter is parameterized entirely by the resolved config.
type GenericAdapter struct {
	Config     ResolvedConfig
	Dialect    registry.Dialect
	ChatPath   string
	AuthHeader string
	Headers    map[string]string
	APIKeyEnv  string
	Keyless    bool
}

// IndependentAdapter carries a provider's fixed configuration. The resolved
// base URL and proxy do not apply to it.
type IndependentAdapter struct {
	Provider  ai.Provider
	Dialect   registry.Dialect
	BaseURL   string
	Headers   map[string]string
	APIKeyEnv string
}

// Select picks the adapter for p. Providers marked independent always get the
// independent variant. Select performs no I/O.
func Select(p ai.Provider, cfg ResolvedConfig) (Selection, error) {
	entry, ok := registry.Lookup(p)
	if !ok {
		return Selection{}, &AdapterSelectionError{Provider: p}
	}

	switch entry.Kind {
	case registry.Generic:
		return Selection{
			Kind: AdapterGeneric,
			Generic: &GenericAdapter{
				Config:     cfg,
				Dialect:    entry.Dialect,
				ChatPath:   entry.ChatPath,
				AuthHeader: entry.AuthHeader,
				Headers:    maps.Clone(entry.Headers),
				APIKeyEnv:  entry.APIKeyEnv,
				Keyless:    entry.Keyless,
			},
		}, nil
	case registry.Independent:
		return Selection{
			Kind: AdapterIndependent,
			Independent: &IndependentAdapter{
				Provider:  p,
				Dialect:   entry.Dialect,
				BaseURL:   entry.BaseURL,
				Headers:   maps.Clone(entry.Headers),
				APIKeyEnv: entry.APIKeyEnv,
			},
		}, nil
	default:
		return Selection{}, &AdapterSelectionError{Provider: p}
	}
}
