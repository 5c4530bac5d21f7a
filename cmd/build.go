package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/multierr"

	"github.com/layera/stylegen/internal/generator"
)

func newBuildCommand(a *app) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:     "build [builder...]",
		Aliases: []string{"b"},
		Short:   "Compile builders into CSS files",
		Long: `Compile builders into one stylesheet per builder and, unless disabled,
an aggregate stylesheet holding all of them.

Malformed sections are reported as warnings and still compiled. With
--strict any malformed section fails the build.

Examples:
  stylegen build                        # All builders into dist/css
  stylegen build components tabs        # Only the named builders
  stylegen build -o public/css --strict # Custom output dir, fail on bad shapes
  stylegen build --dry-run              # Compile and report without writing`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runBuild(cmd, args, dryRun)
		},
	}

	cmd.Flags().StringP("output", "o", "", "output directory (default from output.dir)")
	cmd.Flags().Bool("all", true, "also write the aggregate stylesheet")
	cmd.Flags().Bool("strict", false, "fail when any section is malformed")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "compile without writing files")
	a.v.BindPFlag("output.dir", cmd.Flags().Lookup("output"))
	a.v.BindPFlag("output.aggregate", cmd.Flags().Lookup("all"))
	a.v.BindPFlag("validation.strict", cmd.Flags().Lookup("strict"))

	return cmd
}

func (a *app) runBuild(cmd *cobra.Command, args []string, dryRun bool) error {
	c, err := a.loadCatalog()
	if err != nil {
		return err
	}

	builders := args
	if len(builders) == 0 {
		builders = a.cfg.Output.Builders
	}

	result, err := generator.New(a.logger).Generate(cmd.Context(), c, generator.Options{
		OutputDir:     a.cfg.Output.Dir,
		Builders:      builders,
		Aggregate:     a.cfg.Output.Aggregate,
		AggregateFile: a.cfg.Output.AggregateFile,
		Strict:        a.cfg.Validation.Strict,
		DryRun:        dryRun,
	})
	if result != nil {
		printBuildResult(cmd, result, dryRun)
	}
	return err
}

func printBuildResult(cmd *cobra.Command, result *generator.Result, dryRun bool) {
	out := cmd.OutOrStdout()
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "BUILDER\tFILE\tSECTIONS\tRULES\tBYTES\tSTATUS")
	for _, f := range result.Files {
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%d\t%s\n", f.Builder, f.Path, f.Sections, f.Rules, f.Bytes, status(f.Valid))
	}
	if agg := result.Aggregate; agg != nil {
		fmt.Fprintf(w, "%s\t%s\t%d\t-\t%d\t%s\n", "(all)", agg.Path, agg.Sections, agg.Bytes, status(agg.Valid))
	}
	w.Flush()

	verb := "Wrote"
	if dryRun {
		verb = "Compiled"
	}
	fmt.Fprintf(out, "\n%s %d stylesheet(s)", verb, len(result.Files))
	if n := len(multierr.Errors(result.Invalid)); n > 0 {
		fmt.Fprintf(out, ", %d malformed section(s)", n)
	}
	fmt.Fprintln(out)
}

func status(valid bool) string {
	if valid {
		return "ok"
	}
	return "invalid"
}
