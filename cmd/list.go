package cmd

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/layera/stylegen/internal/catalog"
)

type builderSummary struct {
	Name        string   `json:"name" yaml:"name"`
	Banner      string   `json:"banner" yaml:"banner"`
	Description string   `json:"description,omitempty" yaml:"description,omitempty"`
	Source      string   `json:"source" yaml:"source"`
	Sections    []string `json:"sections" yaml:"sections"`
	Categories  []string `json:"categories" yaml:"categories"`
	Groups      []string `json:"groups" yaml:"groups"`
	Rules       int      `json:"rules" yaml:"rules"`
}

func summarize(b *catalog.Builder) builderSummary {
	s := builderSummary{
		Name:        b.Name,
		Banner:      b.Banner,
		Description: b.Description,
		Source:      b.Source,
		Sections:    make([]string, 0, len(b.Sections)),
		Categories:  b.Categories().Keys(),
		Groups:      make([]string, 0, len(b.Groups)),
		Rules:       b.RuleCount(),
	}
	for _, sec := range b.Sections {
		s.Sections = append(s.Sections, sec.Title)
	}
	for g := range b.Groups {
		s.Groups = append(s.Groups, g)
	}
	sort.Strings(s.Groups)
	return s
}

func newListCommand(a *app) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"l", "ls"},
		Short:   "List builders",
		Long: `List every builder in catalog order with its sections, categories and
functional groups.

Examples:
  stylegen list
  stylegen list --format yaml`,
		Args: cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return checkFormat(format, "table", "json", "yaml")
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.loadCatalog()
			if err != nil {
				return err
			}
			summaries := make([]builderSummary, 0, c.Len())
			for _, b := range c.Builders() {
				summaries = append(summaries, summarize(b))
			}

			out := cmd.OutOrStdout()
			switch format {
			case "json":
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(summaries)
			case "yaml":
				enc := yaml.NewEncoder(out)
				defer enc.Close()
				return enc.Encode(summaries)
			}

			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tBANNER\tSECTIONS\tRULES\tGROUPS\tSOURCE")
			for _, s := range summaries {
				fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%s\t%s\n",
					s.Name, s.Banner, len(s.Sections), s.Rules, strings.Join(s.Groups, ","), s.Source)
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "table", "output format (table|json|yaml)")
	return cmd
}
