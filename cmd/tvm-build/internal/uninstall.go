package internal

import (
	"fmt"

	"github.com/goplus/tvmbuild/internal/build"
	"github.com/spf13/cobra"
)

var (
	uninstallOutputPath string
	uninstallForce      bool
)

var uninstallCmd = &cobra.Command{
	Use:   "uninstall <revision>",
	Short: "Remove an installed TVM revision",
	Long: `Uninstall removes the directory of an installed revision. Without --force
the directory must already be empty.`,
	Args: cobra.ExactArgs(1),
	RunE: runUninstall,
}

func init() {
	uninstallCmd.Flags().StringVarP(&uninstallOutputPath, "output-path", "o", "", "Output path (not supported yet)")
	uninstallCmd.Flags().BoolVar(&uninstallForce, "force", false, "Remove the source and build trees too")
	rootCmd.AddCommand(uninstallCmd)
}

func runUninstall(cmd *cobra.Command, args []string) error {
	if uninstallOutputPath != "" {
		return fmt.Errorf("%w: %s", build.ErrOutputPathUnsupported, uninstallOutputPath)
	}
	root, err := installRoot()
	if err != nil {
		return err
	}
	if err := build.NewBuilder(root, nil).Uninstall(args[0], uninstallForce); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "uninstalled %s\n", args[0])
	return nil
}
