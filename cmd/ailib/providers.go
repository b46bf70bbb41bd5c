package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/samber/lo"
	"github.com/spetersoncode/ailib/registry"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

type providerView struct {
	Name         string `json:"name" yaml:"name"`
	Adapter      string `json:"adapter" yaml:"adapter"`
	Dialect      string `json:"dialect" yaml:"dialect"`
	DefaultModel string `json:"default_model" yaml:"default_model"`
	BaseURLEnv   string `json:"base_url_env,omitempty" yaml:"base_url_env,omitempty"`
	APIKeyEnv    string `json:"api_key_env" yaml:"api_key_env"`
	Keyless      bool   `json:"keyless,omitempty" yaml:"keyless,omitempty"`
}

var providersCmd = &cobra.Command{
	Use:   "providers",
	Short: "List supported providers",
	Long: `List every supported provider with its adapter kind, default model and the
environment variables it reads. Only generic providers accept a custom base
URL or proxy.`,
	Args: cobra.NoArgs,
	RunE: runProviders,
}

func init() {
	providersCmd.Flags().String("kind", "", "only list generic or independent providers")
	rootCmd.AddCommand(providersCmd)
}

func runProviders(cmd *cobra.Command, _ []string) error {
	f, err := parseFormat(viper.GetString("format"))
	if err != nil {
		return err
	}
	kind, _ := cmd.Flags().GetString("kind")

	entries := registry.Entries()
	if kind != "" {
		if kind != registry.Generic.String() && kind != registry.Independent.String() {
			return fmt.Errorf("unknown kind %q (want generic or independent)", kind)
		}
		entries = lo.Filter(entries, func(e registry.Entry, _ int) bool {
			return e.Kind.String() == kind
		})
	}

	views := lo.Map(entries, func(e registry.Entry, _ int) providerView {
		return providerView{
			Name:         e.Provider.String(),
			Adapter:      e.Kind.String(),
			Dialect:      string(e.Dialect),
			DefaultModel: e.DefaultModel,
			BaseURLEnv:   e.BaseURLEnv,
			APIKeyEnv:    e.APIKeyEnv,
			Keyless:      e.Keyless,
		}
	})

	return render(cmd.OutOrStdout(), f, views, func(w io.Writer) error {
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "PROVIDER\tADAPTER\tDIALECT\tDEFAULT MODEL\tAPI KEY")
		for _, v := range views {
			key := v.APIKeyEnv
			if v.Keyless {
				key += " (optional)"
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", v.Name, v.Adapter, v.Dialect, v.DefaultModel, key)
		}
		return tw.Flush()
	})
}
