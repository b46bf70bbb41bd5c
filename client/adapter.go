package client

import (
	"context"
	"fmt"
	"net/http"

	ai "github.com/spetersoncode/ailib"
	"github.com/spetersoncode/ailib/internal/provider/anthropic"
	"github.com/spetersoncode/ailib/internal/provider/cohere"
	"github.com/spetersoncode/ailib/internal/provider/google"
	"github.com/spetersoncode/ailib/internal/provider/openai"
	"github.com/spetersoncode/ailib/registry"
)

// newAdapter constructs the wire client for a selection. Generic adapters take
// every endpoint setting from the resolved config; independent adapters use
// their fixed endpoint and only borrow the key, model and shared HTTP client.
func newAdapter(ctx context.Context, sel Selection, cfg ResolvedConfig, hc *http.Client) (ai.ChatProvider, error) {
	switch sel.Kind {
	case AdapterGeneric:
		g := sel.Generic
		switch g.Dialect {
		case registry.DialectOpenAI:
			return openai.New(openai.Config{
				Provider:   cfg.Provider,
				APIKey:     g.Config.APIKey,
				BaseURL:    g.Config.BaseURL,
				ChatPath:   g.ChatPath,
				AuthHeader: g.AuthHeader,
				Headers:    g.Headers,
				HTTPClient: hc,
				Model:      g.Config.Model,
			}), nil
		case registry.DialectAnthropic:
			return anthropic.New(anthropic.Config{
				Provider:   cfg.Provider,
				APIKey:     g.Config.APIKey,
				BaseURL:    g.Config.BaseURL,
				Headers:    g.Headers,
				HTTPClient: hc,
				Model:      g.Config.Model,
			}), nil
		}
		return nil, fmt.Errorf("%s: generic adapter has no %s dialect", cfg.Provider, g.Dialect)

	case AdapterIndependent:
		ind := sel.Independent
		switch ind.Dialect {
		case registry.DialectOpenAI:
			return openai.New(openai.Config{
				Provider:   ind.Provider,
				APIKey:     cfg.APIKey,
				BaseURL:    ind.BaseURL,
				Headers:    ind.Headers,
				HTTPClient: hc,
				Model:      cfg.Model,
			}), nil
		case registry.DialectGemini:
			return google.New(ctx, google.Config{
				APIKey:     cfg.APIKey,
				HTTPClient: hc,
				Model:      cfg.Model,
			})
		case registry.DialectCohere:
			return cohere.New(cohere.Config{
				APIKey:     cfg.APIKey,
				BaseURL:    ind.BaseURL,
				Headers:    ind.Headers,
				HTTPClient: hc,
				Model:      cfg.Model,
			}), nil
		}
		return nil, fmt.Errorf("%s: independent adapter has no %s dialect", ind.Provider, ind.Dialect)
	}

	return nil, &AdapterSelectionError{Provider: cfg.Provider}
}
