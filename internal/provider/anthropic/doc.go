// Package anthropic adapts the Anthropic Messages API for the generic adapter.
//
// The client is parameterized entirely by its Config: base URL, HTTP client and
// model all come from the resolved client configuration, so the same adapter
// serves api.anthropic.com and any compatible gateway.
//
// Requests default to 4096 max tokens because the Messages API requires the
// field. System messages are lifted into the request's system blocks.
package anthropic
