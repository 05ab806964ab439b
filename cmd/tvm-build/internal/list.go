package internal

import (
	"fmt"
	"io"

	"github.com/goplus/tvmbuild/internal/build"
	"github.com/goplus/tvmbuild/internal/revision"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List installed TVM revisions",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		root, err := installRoot()
		if err != nil {
			return err
		}
		installed, err := build.NewBuilder(root, nil).Installed()
		if err != nil {
			return err
		}
		printInstalled(cmd.OutOrStdout(), installed)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
}

func printInstalled(w io.Writer, installed []revision.Installed) {
	for _, inst := range installed {
		state := "source"
		switch {
		case inst.Source && inst.Build:
			state = "built"
		case !inst.Source:
			state = "build only"
		}
		fmt.Fprintf(w, "%s\t%s\n", inst.Ref, state)
	}
}
