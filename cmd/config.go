package cmd

import (
	"encoding/json"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newConfigCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect the resolved configuration",
	}

	var format string
	show := &cobra.Command{
		Use:   "show",
		Short: "Print the configuration after files, environment and flags are applied",
		Args:  cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return checkFormat(format, "yaml", "json")
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if format == "json" {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(a.cfg)
			}
			enc := yaml.NewEncoder(out)
			enc.SetIndent(2)
			defer enc.Close()
			return enc.Encode(a.cfg)
		},
	}
	show.Flags().StringVarP(&format, "format", "f", "yaml", "output format (yaml|json)")

	cmd.AddCommand(show)
	return cmd
}
