package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"pixelstream/internal/processing/filters"
)

func newModesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "modes",
		Short: "List the filter modes",
		Args:  cobra.NoArgs,
		// no config or logger needed
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
		RunE: func(cmd *cobra.Command, args []string) error {
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "VALUE\tNAME\tDESCRIPTION")
			for _, m := range filters.Modes() {
				fmt.Fprintf(tw, "%d\t%s\t%s\n", m, m, m.Description())
			}
			return tw.Flush()
		},
	}
}
