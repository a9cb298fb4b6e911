package commands

import (
	"sort"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/mdrun/internal/language"
)

// NewLanguagesCommand creates the languages command.
func NewLanguagesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "languages",
		Short: "List configured languages and interpreter availability",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := GetConfig(cmd.Context())
			resolver := language.NewResolver(cfg.Languages)

			tokens := resolver.Languages()
			sort.Strings(tokens)

			t := table.NewWriter()
			t.SetOutputMirror(cmd.OutOrStdout())
			t.SetStyle(table.StyleLight)
			t.AppendHeader(table.Row{"Language", "Command", "Installed"})

			for _, token := range tokens {
				template, _ := resolver.Lookup(token)
				installed := "no"
				if resolver.DependencyPresent(language.Split(template)) {
					installed = "yes"
				}
				t.AppendRow(table.Row{token, template, installed})
			}

			t.Render()
			return nil
		},
	}
}
