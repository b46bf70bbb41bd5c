package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	ai "github.com/spetersoncode/ailib"
	"github.com/spetersoncode/ailib/client"
)

// Streams the same prompt through every provider that has a key configured.
func main() {
	godotenv.Load()
	ctx := context.Background()

	prompt := []ai.Message{
		{Role: ai.RoleUser, Content: "Say hello in 3 different languages, one per line."},
	}

	for _, p := range ai.Providers() {
		c, err := client.New(p)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", p, err)
			continue
		}
		if c.Config().APIKey == "" && p != ai.ProviderOllama {
			continue
		}

		fmt.Printf("\n=== %s (%s, %s) ===\n", p, c.Kind(), c.Config().Model)
		testProvider(ctx, c, prompt)
	}
}

func testProvider(ctx context.Context, c *client.Client, messages []ai.Message) {
	stream, err := c.ChatStream(ctx, messages)
	if err != nil {
		var missing *client.MissingAPIKeyError
		if errors.As(err, &missing) {
			fmt.Fprintf(os.Stderr, "skipped: set %s\n", missing.EnvVar)
			return
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return
	}

	for event := range stream {
		if event.Err != nil {
			fmt.Fprintf(os.Stderr, "Stream error: %v\n", event.Err)
			return
		}
		fmt.Print(event.Delta)
		if event.Done {
			fmt.Printf("\n[Tokens: %d in, %d out]\n",
				event.Response.Usage.InputTokens,
				event.Response.Usage.OutputTokens)
		}
	}
}
