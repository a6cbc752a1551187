package search

import (
	"github.com/spf13/cobra"
)

func NewSearchCommand() *cobra.Command {
	var (
		interactive bool
		debug       bool
	)

	cmd := &cobra.Command{
		Use:     "search [query...]",
		Aliases: []string{"so"},
		Short:   "Search Stack Overflow from the terminal",
		Args:    cobra.ArbitraryArgs,
		Example: `  sobot search how to reverse a slice
  sobot search -i`,
		RunE: func(_ *cobra.Command, args []string) error {
			return searchCmd(args, interactive, debug)
		},
	}

	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "Read queries from a prompt, one per line")
	cmd.Flags().BoolVarP(&debug, "debug", "d", false, "Enable debug logging")

	return cmd
}
