package main

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	ai "github.com/spetersoncode/ailib"
	"github.com/spetersoncode/ailib/client"
	"github.com/spetersoncode/ailib/env"
	"github.com/spetersoncode/ailib/registry"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "ailib",
	Short: "Resolve and exercise AI provider configurations",
	Long: `ailib shows how a provider's client configuration resolves from flags,
the config file, environment variables and registry defaults, and can send a
chat request through the resolved client.

Examples:
  ailib providers
  ailib config --provider groq --proxy http://proxy.internal:8080
  ailib chat --provider ollama "Say hello"
  echo "Summarize this" | ailib chat --provider deepseek`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default is $HOME/.ailib.yaml)")
	flags.StringP("provider", "p", string(ai.ProviderOpenAI), "provider to configure")
	flags.String("base-url", "", "override the provider base URL")
	flags.String("proxy", "", "route requests through this proxy")
	flags.Bool("no-proxy", false, "ignore "+registry.ProxyEnv+" and connect directly")
	flags.StringP("model", "m", "", "override the default model")
	flags.String("multimodal-model", "", "override the model used for image input")
	flags.Duration("timeout", 0, "per-request timeout (default 30s)")
	flags.StringSlice("env-file", nil, "dotenv files to read (default .env if present)")
	flags.StringP("format", "f", "text", "output format (text, json, yaml)")
	flags.BoolP("verbose", "v", false, "enable debug logging")

	for key, flag := range map[string]string{
		"provider":         "provider",
		"base_url":         "base-url",
		"proxy":            "proxy",
		"no_proxy":         "no-proxy",
		"model":            "model",
		"multimodal_model": "multimodal-model",
		"timeout":          "timeout",
		"env_file":         "env-file",
		"format":           "format",
		"verbose":          "verbose",
	} {
		_ = viper.BindPFlag(key, flags.Lookup(flag))
	}
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintln(os.Stderr, "Error finding home directory:", err)
			os.Exit(1)
		}

		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigName(".ailib")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("AILIB")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		if viper.GetBool("verbose") {
			fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
		}
	}
}

// newLogger writes text logs to stderr, at debug level with --verbose.
func newLogger() *slog.Logger {
	level := slog.LevelWarn
	if viper.GetBool("verbose") {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// envSource returns the process environment layered over any dotenv files.
func envSource() (env.Source, error) {
	files := viper.GetStringSlice("env_file")
	if len(files) > 0 {
		return env.Dotenv(files...)
	}
	if _, err := os.Stat(".env"); err == nil {
		return env.Dotenv()
	} else if !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}
	return env.OS(), nil
}

// newBuilder maps flags and config file settings onto a client builder. Only
// settings that were given are applied, so the builder's own precedence
// decides the rest.
func newBuilder() (*client.Builder, error) {
	name := viper.GetString("provider")
	p, ok := ai.ParseProvider(name)
	if !ok {
		return nil, fmt.Errorf("unknown provider %q (see 'ailib providers')", name)
	}

	src, err := envSource()
	if err != nil {
		return nil, err
	}

	b := client.NewBuilder(p).WithEnv(src).WithLogger(newLogger())
	if viper.IsSet("base_url") {
		b.WithBaseURL(viper.GetString("base_url"))
	}
	switch {
	case viper.GetBool("no_proxy"):
		b.WithoutProxy()
	case viper.IsSet("proxy"):
		b.WithProxy(viper.GetString("proxy"))
	}
	if m := viper.GetString("model"); m != "" {
		b.WithModel(m)
	}
	if m := viper.GetString("multimodal_model"); m != "" {
		b.WithMultimodalModel(m)
	}
	if d := viper.GetDuration("timeout"); d != 0 {
		b.WithTimeout(d)
	}
	if viper.IsSet("pool.max_idle") || viper.IsSet("pool.idle_timeout") {
		maxIdle := client.DefaultPoolMaxIdle
		if viper.IsSet("pool.max_idle") {
			maxIdle = viper.GetInt("pool.max_idle")
		}
		idle := client.DefaultPoolIdleTimeout
		if viper.IsSet("pool.idle_timeout") {
			idle = viper.GetDuration("pool.idle_timeout")
		}
		b.WithPoolConfig(maxIdle, idle)
	}
	if viper.IsSet("retry.max_attempts") {
		cfg := client.DefaultRetryConfig()
		cfg.MaxAttempts = viper.GetInt("retry.max_attempts")
		b.WithRetry(cfg)
	}
	return b, nil
}
