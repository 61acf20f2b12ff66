package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/wesleyorama2/usercheck/internal/cases"
	"github.com/wesleyorama2/usercheck/internal/suite"
)

func newListCmd() *cobra.Command {
	var filters suite.RegexFilters

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List the contract cases and their tags",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			for _, c := range cases.All() {
				if !filters.AsFilter(c.ID()) {
					continue
				}
				if len(c.Tags) > 0 {
					fmt.Fprintf(out, "%s [%s]\n", c.ID(), strings.Join(c.Tags, ", "))
				} else {
					fmt.Fprintln(out, c.ID())
				}
			}
			return nil
		},
	}

	listCmd.Flags().Var(&filters.MustMatch, "run", "regex pattern(s) to select tests")
	listCmd.Flags().Var(&filters.MustNotMatch, "skip", "regex pattern(s) to leave out")

	return listCmd
}
