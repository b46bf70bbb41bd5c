package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// configView is the printable form of a resolved configuration. The API key
// is never printed, only whether one is set.
type configView struct {
	Provider        string `json:"provider" yaml:"provider"`
	Adapter         string `json:"adapter" yaml:"adapter"`
	BaseURL         string `json:"base_url" yaml:"base_url"`
	Proxy           string `json:"proxy,omitempty" yaml:"proxy,omitempty"`
	Model           string `json:"model" yaml:"model"`
	MultimodalModel string `json:"multimodal_model,omitempty" yaml:"multimodal_model,omitempty"`
	Timeout         string `json:"timeout" yaml:"timeout"`
	PoolMaxIdle     int    `json:"pool_max_idle" yaml:"pool_max_idle"`
	PoolIdleTimeout string `json:"pool_idle_timeout" yaml:"pool_idle_timeout"`
	APIKeySet       bool   `json:"api_key_set" yaml:"api_key_set"`
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the resolved client configuration",
	Long: `Print the configuration a client would use for the selected provider after
merging flags, the config file, environment variables and registry defaults.

Examples:
  ailib config --provider groq
  GROQ_BASE_URL=https://gw.internal/v1 ailib config -p groq -f json
  ailib config --provider openai --base-url https://x   # fails: fixed endpoint`,
	Args: cobra.NoArgs,
	RunE: runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func runConfig(cmd *cobra.Command, _ []string) error {
	f, err := parseFormat(viper.GetString("format"))
	if err != nil {
		return err
	}
	b, err := newBuilder()
	if err != nil {
		return err
	}
	c, err := b.Build()
	if err != nil {
		return err
	}

	cfg := c.Config()
	view := configView{
		Provider:        cfg.Provider.String(),
		Adapter:         c.Kind().String(),
		BaseURL:         cfg.BaseURL,
		Proxy:           cfg.Proxy,
		Model:           cfg.Model,
		MultimodalModel: cfg.MultimodalModel,
		Timeout:         cfg.Timeout.String(),
		PoolMaxIdle:     cfg.PoolMaxIdle,
		PoolIdleTimeout: cfg.PoolIdleTimeout.String(),
		APIKeySet:       cfg.APIKey != "",
	}

	return render(cmd.OutOrStdout(), f, view, func(w io.Writer) error {
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		proxy := view.Proxy
		if proxy == "" {
			proxy = "none"
		}
		rows := [][2]string{
			{"Provider", view.Provider},
			{"Adapter", view.Adapter},
			{"Base URL", view.BaseURL},
			{"Proxy", proxy},
			{"Model", view.Model},
			{"Multimodal model", view.MultimodalModel},
			{"Timeout", view.Timeout},
			{"Pool max idle", fmt.Sprint(view.PoolMaxIdle)},
			{"Pool idle timeout", view.PoolIdleTimeout},
			{"API key", fmt.Sprint(view.APIKeySet)},
		}
		for _, r := range rows {
			fmt.Fprintf(tw, "%s:\t%s\n", r[0], r[1])
		}
		return tw.Flush()
	})
}
