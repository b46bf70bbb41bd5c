// Package ailib provides a single chat API over many AI providers.
//
// The root package holds the shared vocabulary: [Provider] identifiers,
// [Message] and [Response] types, request [Option]s and the categorized
// [Error] adapters return. Clients are built with the
// [github.com/spetersoncode/ailib/client] package, which resolves each
// provider's base URL, proxy, model, API key and transport settings from
// explicit builder calls, environment variables and the defaults in
// [github.com/spetersoncode/ailib/registry].
//
// # Basic Usage
//
//	c, err := client.New(ailib.ProviderGroq)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	resp, err := c.Chat(ctx, []ailib.Message{
//	    {Role: ailib.RoleUser, Content: "What is the capital of France?"},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(resp.Content)
//
// # Streaming Responses
//
//	stream, err := c.ChatStream(ctx, messages)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for event := range stream {
//	    if event.Err != nil {
//	        log.Fatal(event.Err)
//	    }
//	    fmt.Print(event.Delta)
//	}
//
// # Request Options
//
//	resp, err := c.Chat(ctx, messages,
//	    ailib.WithModel("llama-3.3-70b-versatile"),
//	    ailib.WithMaxTokens(500),
//	    ailib.WithTemperature(0.7),
//	)
//
// # Error Handling
//
// Provider failures are [*Error] values categorized as transient, permanent or
// user input. Clients retry transient errors; use [IsTransient],
// [IsPermanent] and [IsUserInput] to branch on the rest:
//
//	if ailib.IsUserInput(err) {
//	    // fix the request
//	}
package ailib
