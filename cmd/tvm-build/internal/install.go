package internal

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/goplus/tvmbuild/internal/build"
	"github.com/goplus/tvmbuild/internal/options"
	"github.com/goplus/tvmbuild/internal/vcs"
	"github.com/spf13/cobra"
)

var (
	installRepositoryPath string
	installOutputPath     string
	installClean          bool
	installVerbose        bool
	installJobs           int
	installOptionsFile    string
	installSet            []string
)

var installCmd = &cobra.Command{
	Use:   "install <revision> [repository]",
	Short: "Install a TVM revision",
	Long: `Install clones the requested TVM revision with its submodules, then
configures, builds and installs it with CMake.

Build options come from, in increasing precedence: the --options-file YAML
mapping, --set KEY=VALUE pairs, and the per-option flags such as --use-cuda.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runInstall,
}

func init() {
	flags := installCmd.Flags()
	flags.StringVar(&installRepositoryPath, "repository-path", "", "Use this directory as the source tree instead of the installation root")
	flags.StringVarP(&installOutputPath, "output-path", "o", "", "Output path (not supported yet)")
	flags.BoolVarP(&installClean, "clean", "c", false, "Remove the revision before cloning it again")
	flags.BoolVarP(&installVerbose, "verbose", "v", false, "Enable verbose build output")
	flags.IntVarP(&installJobs, "jobs", "j", runtime.NumCPU(), "Number of parallel build jobs")
	flags.StringVarP(&installOptionsFile, "options-file", "f", "", "YAML file mapping option keys to values")
	flags.StringArrayVar(&installSet, "set", nil, "Set a build option, e.g. --set USE_LLVM=on (repeatable)")
	registerOptionFlags(installCmd)
	rootCmd.AddCommand(installCmd)
}

func runInstall(cmd *cobra.Command, args []string) error {
	opts, err := collectOptions(cmd, installOptionsFile, installSet)
	if err != nil {
		return err
	}
	root, err := installRoot()
	if err != nil {
		return err
	}

	cfg := build.Config{
		Ref:            args[0],
		RepositoryPath: installRepositoryPath,
		OutputPath:     installOutputPath,
		Verbose:        installVerbose,
		Clean:          installClean,
		Jobs:           installJobs,
		Options:        opts,
	}
	if len(args) > 1 {
		cfg.Repository = args[1]
	}

	builder := build.NewBuilder(root, vcs.NewGitVCS())
	res, err := builder.Build(cmd.Context(), cfg)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "installed %s\n", res.Revision)
	fmt.Fprintf(out, "source: %s\n", res.SourceDir())
	fmt.Fprintf(out, "build:  %s\n", res.BuildDir())
	fmt.Fprintf(out, "python: %s\n", res.PythonPath())
	return nil
}

// registerOptionFlags adds one flag per catalog option to cmd.
func registerOptionFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	for _, opt := range options.All() {
		help := fmt.Sprintf("%s (%s, sets %s)", opt.Help, opt.Kind, opt.Key)
		if opt.Kind == options.Bool {
			flags.Bool(opt.FlagName(), false, help)
		} else {
			flags.String(opt.FlagName(), "", help)
		}
	}
}

// collectOptions builds the option set from the options file, the --set
// pairs and the per-option flags of cmd, later sources overriding earlier ones.
func collectOptions(cmd *cobra.Command, file string, pairs []string) (*options.Set, error) {
	opts := options.NewSet()
	if file != "" {
		fromFile, err := options.LoadFile(file)
		if err != nil {
			return nil, err
		}
		opts.Merge(fromFile)
	}
	for _, pair := range pairs {
		key, value, err := parseSet(pair)
		if err != nil {
			return nil, err
		}
		if err := opts.Parse(key, value); err != nil {
			return nil, err
		}
	}
	for _, opt := range options.All() {
		f := cmd.Flags().Lookup(opt.FlagName())
		if f == nil || !f.Changed {
			continue
		}
		if err := opts.Parse(opt.Key, f.Value.String()); err != nil {
			return nil, fmt.Errorf("--%s: %w", f.Name, err)
		}
	}
	return opts, nil
}

// parseSet splits a KEY=VALUE argument.
func parseSet(arg string) (key, value string, err error) {
	key, value, ok := strings.Cut(arg, "=")
	key = strings.TrimSpace(key)
	if !ok || key == "" {
		return "", "", fmt.Errorf("invalid --set %q: expected KEY=VALUE", arg)
	}
	return key, value, nil
}
