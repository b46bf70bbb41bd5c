package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	ai "github.com/spetersoncode/ailib"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var chatCmd = &cobra.Command{
	Use:   "chat [prompt]",
	Short: "Send a chat request through the resolved client",
	Long: `Send a single prompt to the selected provider and stream the reply. With no
prompt argument the prompt is read from standard input.

Examples:
  ailib chat --provider groq "Say hello in French"
  ailib chat -p anthropic --system "Answer in one word" "Capital of Peru?"
  cat notes.txt | ailib chat -p deepseek`,
	Args: cobra.MaximumNArgs(1),
	RunE: runChat,
}

func init() {
	chatCmd.Flags().String("system", "", "system prompt")
	chatCmd.Flags().StringSlice("image", nil, "image URL to attach (repeatable)")
	chatCmd.Flags().Int("max-tokens", 0, "maximum tokens to generate")
	chatCmd.Flags().Float64("temperature", -1, "sampling temperature (provider default if unset)")
	chatCmd.Flags().Bool("no-stream", false, "wait for the complete response")

	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, args []string) error {
	prompt, err := readPrompt(cmd, args)
	if err != nil {
		return err
	}

	system, _ := cmd.Flags().GetString("system")
	images, _ := cmd.Flags().GetStringSlice("image")
	maxTokens, _ := cmd.Flags().GetInt("max-tokens")
	temperature, _ := cmd.Flags().GetFloat64("temperature")
	noStream, _ := cmd.Flags().GetBool("no-stream")

	b, err := newBuilder()
	if err != nil {
		return err
	}
	c, err := b.Build()
	if err != nil {
		return err
	}

	messages := buildMessages(system, prompt, images)
	var opts []ai.Option
	if maxTokens > 0 {
		opts = append(opts, ai.WithMaxTokens(maxTokens))
	}
	if temperature >= 0 {
		opts = append(opts, ai.WithTemperature(temperature))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	out := cmd.OutOrStdout()
	if noStream {
		resp, err := c.Chat(ctx, messages, opts...)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, resp.Content)
		printUsage(cmd.ErrOrStderr(), resp)
		return nil
	}

	stream, err := c.ChatStream(ctx, messages, opts...)
	if err != nil {
		return err
	}
	for ev := range stream {
		if ev.Err != nil {
			return ev.Err
		}
		fmt.Fprint(out, ev.Delta)
		if ev.Done {
			fmt.Fprintln(out)
			printUsage(cmd.ErrOrStderr(), ev.Response)
		}
	}
	return ctx.Err()
}

// readPrompt takes the prompt from the argument, or from stdin when it is
// not a terminal.
func readPrompt(cmd *cobra.Command, args []string) (string, error) {
	if len(args) == 1 {
		return args[0], nil
	}
	in := cmd.InOrStdin()
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		return "", fmt.Errorf("no prompt given: pass it as an argument or pipe it on stdin")
	}
	raw, err := io.ReadAll(in)
	if err != nil {
		return "", fmt.Errorf("reading prompt: %w", err)
	}
	prompt := strings.TrimSpace(string(raw))
	if prompt == "" {
		return "", fmt.Errorf("empty prompt")
	}
	return prompt, nil
}

func buildMessages(system, prompt string, images []string) []ai.Message {
	var messages []ai.Message
	if system != "" {
		messages = append(messages, ai.Message{Role: ai.RoleSystem, Content: system})
	}

	user := ai.Message{ID: ai.GenerateMessageID(), Role: ai.RoleUser, Content: prompt}
	if len(images) > 0 {
		user.Parts = append(user.Parts, ai.NewTextPart(prompt))
		for _, url := range images {
			user.Parts = append(user.Parts, ai.NewImageURLPart(url))
		}
	}
	return append(messages, user)
}

func printUsage(w io.Writer, resp *ai.Response) {
	if resp == nil {
		return
	}
	fmt.Fprintf(w, "[%s, %d in / %d out tokens]\n", resp.Model, resp.Usage.InputTokens, resp.Usage.OutputTokens)
}
