package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var useCasesCmd = &cobra.Command{
	Use:     "use-cases",
	Aliases: []string{"usecases"},
	Short:   "List supported use cases",
	RunE: func(cmd *cobra.Command, args []string) error {
		defs := registry.List()
		if outputFormat == "json" {
			return writeJSON(cmd.OutOrStdout(), defs)
		}

		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "USE CASE\tEXTENSION\tDESCRIPTION")
		for _, d := range defs {
			fmt.Fprintf(tw, "%s\t%s\t%s\n", d.Key, d.FileExtension, d.Description)
		}
		return tw.Flush()
	},
}

func init() {
	rootCmd.AddCommand(useCasesCmd)
}
