package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/layera/stylegen/internal/version"
)

func newVersionCommand(a *app) *cobra.Command {
	var (
		format string
		short  bool
	)

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long: `Display the stylegen version, commit, build time, Go version and platform.

Examples:
  stylegen version
  stylegen version --short
  stylegen version --format json`,
		Args: cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return checkFormat(format, "text", "json")
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			info := version.GetBuildInfo()

			switch {
			case format == "json":
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(struct {
					version.BuildInfo
					Release bool `json:"release"`
				}{info, version.IsRelease()})
			case short:
				fmt.Fprintln(out, version.GetShortVersion())
			default:
				fmt.Fprintf(out, "stylegen %s\n%s\n", version.GetShortVersion(), info)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "text", "output format (text|json)")
	cmd.Flags().BoolVar(&short, "short", false, "show the short version only")
	return cmd
}
