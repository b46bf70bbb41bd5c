package client

import (
	"fmt"
	"net"
	"net/http"
	"net/url"
	"time"
)

// TransportParams are the HTTP transport settings derived from a ResolvedConfig.
type TransportParams struct {
	Proxy           string
	Timeout         time.Duration
	PoolMaxIdle     int
	PoolIdleTimeout time.Duration
}

// TransportParamsFrom maps a resolved config onto transport parameters.
func TransportParamsFrom(cfg ResolvedConfig) TransportParams {
	return TransportParams{
		Proxy:           cfg.Proxy,
		Timeout:         cfg.Timeout,
		PoolMaxIdle:     cfg.PoolMaxIdle,
		PoolIdleTimeout: cfg.PoolIdleTimeout,
	}
}

// Validate checks pool and timeout bounds.
func (p TransportParams) Validate() error {
	switch {
	case p.PoolMaxIdle <= 0:
		return &InvalidPoolConfigError{Reason: fmt.Sprintf("pool max idle must be positive, got %d", p.PoolMaxIdle)}
	case p.Timeout <= 0:
		return &InvalidPoolConfigError{Reason: fmt.Sprintf("timeout must be positive, got %s", p.Timeout)}
	case p.PoolIdleTimeout <= 0:
		return &InvalidPoolConfigError{Reason: fmt.Sprintf("pool idle timeout must be positive, got %s", p.PoolIdleTimeout)}
	}
	return nil
}

// NewHTTPClient builds the HTTP client every adapter of a Client shares. The
// timeout bounds each request end to end.
func NewHTTPClient(p TransportParams) (*http.Client, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	transport := &http.Transport{
		DialContext: (&net.Dialer{
			Timeout:   30 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          p.PoolMaxIdle,
		MaxIdleConnsPerHost:   p.PoolMaxIdle,
		IdleConnTimeout:       p.PoolIdleTimeout,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: time.Second,
	}

	if p.Proxy != "" {
		proxyURL, err := parseEndpoint(p.Proxy, "http", "https", "socks5", "socks5h")
		if err != nil {
			return nil, &TransportConstructionError{Err: fmt.Errorf("proxy: %w", err)}
		}
		transport.Proxy = http.ProxyURL(proxyURL)
	}

	return &http.Client{
		Transport: transport,
		Timeout:   p.Timeout,
	}, nil
}

// validateBaseURL checks that a base URL can address an HTTP endpoint.
func validateBaseURL(raw string) error {
	if _, err := parseEndpoint(raw, "http", "https"); err != nil {
		return &TransportConstructionError{Err: fmt.Errorf("base url: %w", err)}
	}
	return nil
}

func parseEndpoint(raw string, schemes ...string) (*url.URL, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, err
	}
	for _, s := range schemes {
		if u.Scheme == s {
			if u.Hostname() == "" {
				return nil, fmt.Errorf("%q has no host", raw)
			}
			return u, nil
		}
	}
	return nil, fmt.Errorf("%q must use one of the schemes %v", raw, schemes)
}
