package internal

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/goplus/tvmbuild/internal/build"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var versionConfigFormat string

var versionConfigCmd = &cobra.Command{
	Use:   "version-config <revision>",
	Short: "Print where an installed revision lives",
	Args:  cobra.ExactArgs(1),
	RunE:  runVersionConfig,
}

func init() {
	versionConfigCmd.Flags().StringVar(&versionConfigFormat, "format", "yaml", "Output format: yaml or json")
	rootCmd.AddCommand(versionConfigCmd)
}

func runVersionConfig(cmd *cobra.Command, args []string) error {
	root, err := installRoot()
	if err != nil {
		return err
	}
	info := build.NewBuilder(root, nil).VersionConfig(args[0])
	return writeVersionInfo(cmd.OutOrStdout(), info, versionConfigFormat)
}

func writeVersionInfo(w io.Writer, info build.VersionInfo, format string) error {
	switch format {
	case "yaml":
		enc := yaml.NewEncoder(w)
		if err := enc.Encode(info); err != nil {
			return err
		}
		return enc.Close()
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(info)
	}
	return fmt.Errorf("unknown format %q: expected yaml or json", format)
}
