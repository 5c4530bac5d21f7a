package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	stylerr "github.com/layera/stylegen/internal/errors"
	"github.com/layera/stylegen/internal/stylesheet"
)

func newValidateCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "validate [builder...]",
		Aliases: []string{"v"},
		Short:   "Check the shape of every section",
		Long: `Walk every selector, property and value of each section and report the
first shape violation per section: empty selectors, empty property names,
declaration blocks that are not objects, and values that are not strings
or numbers.

The command exits non-zero when any section is malformed.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.loadCatalog()
			if err != nil {
				return err
			}
			builders, err := c.Select(args...)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			var checked, invalid int
			for _, b := range builders {
				for _, s := range b.Sections {
					checked++
					sink := stylesheet.SinkFunc(func(d stylesheet.Diagnostic) {
						fmt.Fprintf(out, "%s / %s: %s\n", b.Name, s.Title, d)
					})
					if !stylesheet.Validate(s.Rules, sink) {
						invalid++
					}
				}
			}

			fmt.Fprintf(out, "%d section(s) in %d builder(s) checked, %d malformed\n", checked, len(builders), invalid)
			if invalid > 0 {
				return stylerr.NewValidationError(stylerr.ErrCodeInvalidShape,
					fmt.Sprintf("%d malformed section(s)", invalid))
			}
			return nil
		},
	}
}
