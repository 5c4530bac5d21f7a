package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	stylerr "github.com/layera/stylegen/internal/errors"
	"github.com/layera/stylegen/internal/lint"
)

func newLintCommand(a *app) *cobra.Command {
	var strict bool

	cmd := &cobra.Command{
		Use:   "lint [file.css...]",
		Short: "Check compiled CSS with a real tokenizer",
		Long: `Tokenize stylesheets and report declarations a browser would drop or
misread, such as a var() reference with a glued suffix like
"var(--layera-color-success)10".

Without arguments the builders are compiled in memory and linted. Lint is
advisory; with --strict any finding fails the command.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			l := lint.New(a.logger)
			var findings []lint.Finding

			if len(args) == 0 {
				c, err := a.loadCatalog()
				if err != nil {
					return err
				}
				for _, b := range c.Builders() {
					findings = append(findings, l.Lint(cmd.Context(), []byte(b.CSS()), b.Name+".css")...)
				}
			} else {
				for _, path := range args {
					fs, err := l.LintFile(cmd.Context(), path)
					if err != nil {
						return err
					}
					findings = append(findings, fs...)
				}
			}

			out := cmd.OutOrStdout()
			for _, f := range findings {
				fmt.Fprintln(out, f)
			}
			fmt.Fprintf(out, "%d finding(s)\n", len(findings))

			if strict && len(findings) > 0 {
				return stylerr.NewValidationError(stylerr.ErrCodeLintFailed,
					fmt.Sprintf("%d lint finding(s) in strict mode", len(findings)))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&strict, "strict", false, "fail on any finding")
	return cmd
}
