package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	stylerr "github.com/layera/stylegen/internal/errors"
	"github.com/layera/stylegen/internal/stylesheet"
)

func newCategoryCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "category <builder> <key>",
		Short: "Print the CSS of one category",
		Long: `Print the compiled CSS of the section registered under a category key.

Example:
  stylegen category components buttons`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := a.builder(args[0])
			if err != nil {
				return err
			}
			if !b.Categories().Has(args[1]) {
				return stylerr.ErrCategoryNotFound(b.Name, args[1]).
					WithContext("available", strings.Join(b.Categories().Keys(), ", "))
			}
			var title string
			for _, s := range b.Sections {
				if s.Category == args[1] {
					title = s.Title
				}
			}
			fmt.Fprint(cmd.OutOrStdout(), stylesheet.GenerateCommentedSection(title, b.Category(args[1])))
			return nil
		},
	}
}

func newGroupCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "group <builder> <group>",
		Short: "List the selectors of a functional group",
		Long: `List, one per line, the selectors of every category in a functional group.
An unknown group prints nothing.

Example:
  stylegen group components interactive`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := a.builder(args[0])
			if err != nil {
				return err
			}
			for _, sel := range b.Group(args[1]) {
				fmt.Fprintln(cmd.OutOrStdout(), sel)
			}
			return nil
		},
	}
}
