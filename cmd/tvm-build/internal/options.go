package internal

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/goplus/tvmbuild/internal/options"
	"github.com/spf13/cobra"
)

var optionsCmd = &cobra.Command{
	Use:   "options",
	Short: "List the build options install accepts",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return printCatalog(cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(optionsCmd)
}

func printCatalog(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "KEY\tKIND\tDESCRIPTION")
	for _, opt := range options.All() {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", opt.Key, opt.Kind, opt.Help)
	}
	return tw.Flush()
}
