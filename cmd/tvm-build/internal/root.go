package internal

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/goplus/tvmbuild/internal/env"
	"github.com/qiniu/x/log"
	"github.com/spf13/cobra"
)

var (
	rootDir   string
	rootDebug bool
)

var rootCmd = &cobra.Command{
	Use:   "tvm-build",
	Short: "A CLI for maintaining TVM installations.",
	Long: `tvm-build clones TVM revisions, configures them with CMake and keeps
each revision's source and build trees under one installation root.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if rootDebug {
			log.SetOutputLevel(log.Ldebug)
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&rootDir, "root", "", "installation root (default $"+env.RootEnv+" or ~/.tvm_build)")
	rootCmd.PersistentFlags().BoolVarP(&rootDebug, "debug", "d", false, "Enable debug logging")
}

// installRoot returns the root selected by --root, falling back to the
// environment default.
func installRoot() (string, error) {
	if rootDir != "" {
		return filepath.Abs(rootDir)
	}
	return env.InstallRoot()
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		log.Fatal(err)
	}
}
