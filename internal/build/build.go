package build

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/goplus/tvmbuild/internal/options"
	"github.com/goplus/tvmbuild/internal/revision"
	"github.com/goplus/tvmbuild/internal/target"
	"github.com/goplus/tvmbuild/internal/vcs"
	"github.com/goplus/tvmbuild/pkgs/buildsys"
	"github.com/goplus/tvmbuild/pkgs/buildsys/cmake"
	"github.com/qiniu/x/log"
)

const (
	// Generator is the CMake generator used for every build.
	Generator = "Unix Makefiles"
	// Profile is the CMake build type used for every build.
	Profile = "Debug"
	// MinCMakeVersion is the oldest cmake TVM can be configured with.
	MinCMakeVersion = "3.18.0"
)

// ErrOutputPathUnsupported is returned when a build asks for a custom output
// path; builds always land in the revision's build directory.
var ErrOutputPathUnsupported = errors.New("output path is not supported yet")

// Config is the full set of knobs for one build.
type Config struct {
	Ref            string
	Repository     string
	RepositoryPath string
	OutputPath     string // must be empty
	Verbose        bool
	Clean          bool
	Jobs           int          // cmake --build parallelism, 0 for the default
	Options        *options.Set // nil means no options
}

// Revision returns the revision the configuration selects.
func (c *Config) Revision() revision.Revision {
	return revision.Revision{
		Ref:            c.Ref,
		Repository:     c.Repository,
		RepositoryPath: c.RepositoryPath,
	}
}

// Result describes a finished build.
type Result struct {
	Revision revision.Revision
	Root     string
	Target   target.Descriptor
}

func (r *Result) SourceDir() string { return r.Revision.SourcePath(r.Root) }
func (r *Result) BuildDir() string  { return r.Revision.BuildPath(r.Root) }

// LibDir is where the installed libtvm libraries land.
func (r *Result) LibDir() string { return filepath.Join(r.BuildDir(), "lib") }

// PythonPath is the revision's Python package directory.
func (r *Result) PythonPath() string { return r.Revision.PythonPath(r.Root) }

// VersionInfo describes where an installed revision can be found.
type VersionInfo struct {
	PythonPath string `json:"tvm_python_path" yaml:"tvm_python_path"`
}

// Builder builds, locates and uninstalls TVM revisions under Root.
type Builder struct {
	Root string
	VCS  vcs.VCS

	// Resolve describes the machine; target.Resolve when nil.
	Resolve func() (target.Descriptor, error)
	// NewCMake creates the CMake driver; cmake.New when nil.
	NewCMake func(sourceDir, outDir string) *cmake.CMake
}

// NewBuilder creates a Builder for revisions installed under root.
func NewBuilder(root string, v vcs.VCS) *Builder {
	return &Builder{Root: root, VCS: v}
}

func (b *Builder) manager() *revision.Manager {
	return revision.NewManager(b.Root, b.VCS)
}

// Build acquires the source of the configured revision and runs the CMake
// configure, build and install steps on it.
func (b *Builder) Build(ctx context.Context, cfg Config) (*Result, error) {
	if cfg.OutputPath != "" {
		return nil, fmt.Errorf("%w: %s", ErrOutputPathUnsupported, cfg.OutputPath)
	}
	rev := cfg.Revision()
	mgr := b.manager()

	if err := mgr.EnsureSource(ctx, rev, cfg.Clean); err != nil {
		return nil, err
	}

	resolve := b.Resolve
	if resolve == nil {
		resolve = target.Resolve
	}
	desc, err := resolve()
	if err != nil {
		return nil, err
	}
	log.Infof("building %s for %s on %s", rev, desc.Triple, desc.Host)

	buildDir, err := mgr.EnsureBuildDir(rev)
	if err != nil {
		return nil, err
	}

	newCMake := b.NewCMake
	if newCMake == nil {
		newCMake = cmake.New
	}
	c := newCMake(rev.SourcePath(b.Root), buildDir).
		Generator(Generator).
		BuildType(Profile).
		Target(desc.Triple).
		Host(desc.Host).
		Verbose(cfg.Verbose).
		Jobs(cfg.Jobs)
	for _, def := range desc.Defines {
		c.DefineString(def.Key, def.Value)
	}
	for _, def := range cfg.Options.Defines() {
		log.Infof("option %s", def)
		c.Define(def.Key, def.Value)
	}

	if err := c.CheckVersion(ctx, MinCMakeVersion); err != nil {
		return nil, err
	}
	if err := buildsys.Run(ctx, c); err != nil {
		return nil, fmt.Errorf("build %s: %w", rev.RefName(), err)
	}

	return &Result{Revision: rev, Root: b.Root, Target: desc}, nil
}

// Uninstall removes the installed revision named ref. Unless recursive is
// set, the revision directory must already be empty.
func (b *Builder) Uninstall(ref string, recursive bool) error {
	return b.manager().Remove(ref, recursive)
}

// VersionConfig predicts where the revision named ref keeps its Python
// package. It does not check that the revision is installed.
func (b *Builder) VersionConfig(ref string) VersionInfo {
	return VersionInfo{PythonPath: revision.New(ref).PythonPath(b.Root)}
}

// Installed lists the revisions found under Root.
func (b *Builder) Installed() ([]revision.Installed, error) {
	return b.manager().List()
}
