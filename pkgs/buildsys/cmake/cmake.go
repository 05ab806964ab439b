// Package cmake wraps the cmake configure/build/install workflow.
package cmake

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/goplus/tvmbuild/pkgs/buildsys"
	"github.com/qiniu/x/log"
	"golang.org/x/mod/semver"
)

// Runner executes bin with args. env holds overrides on top of the process
// environment.
type Runner func(ctx context.Context, bin string, args []string, env map[string]string, stdout, stderr io.Writer) error

type define struct {
	key      string
	typeName string
	value    string
}

// CMake wraps common CMake build steps with chainable configuration.
type CMake struct {
	SourceDir  string
	buildDir   string
	installDir string
	generator  string
	buildType  string
	target     string
	host       string
	verbose    bool
	jobs       int
	defines    []define
	env        map[string]string

	Stdout io.Writer
	Stderr io.Writer
	run    Runner
}

var _ buildsys.BuildSystem = (*CMake)(nil)

// New creates a CMake helper for sourceDir. The binary tree lives in
// outDir/build and artifacts are installed into outDir.
func New(sourceDir, outDir string) *CMake {
	return &CMake{
		SourceDir:  sourceDir,
		buildDir:   filepath.Join(outDir, "build"),
		installDir: outDir,
		env:        map[string]string{},
		Stdout:     os.Stdout,
		Stderr:     os.Stderr,
		run:        run,
	}
}

func (c *CMake) InstallDir(dir string) {
	c.installDir = dir
}

// BuildDir returns the CMake binary directory.
func (c *CMake) BuildDir() string {
	return c.buildDir
}

func (c *CMake) Generator(name string) *CMake {
	c.generator = name
	return c
}

func (c *CMake) BuildType(name string) *CMake {
	c.buildType = name
	return c
}

// Target sets the target triple handed to the compilers.
func (c *CMake) Target(triple string) *CMake {
	c.target = triple
	return c
}

// Host sets the CMake system name of the build machine.
func (c *CMake) Host(system string) *CMake {
	c.host = system
	return c
}

// Verbose makes both the generated build files and cmake --build verbose.
func (c *CMake) Verbose(v bool) *CMake {
	c.verbose = v
	return c
}

// Jobs sets the build parallelism; n <= 0 leaves it to the generator.
func (c *CMake) Jobs(n int) *CMake {
	c.jobs = n
	return c
}

// Runner replaces the function used to execute cmake.
func (c *CMake) Runner(r Runner) *CMake {
	c.run = r
	return c
}

// Define sets an untyped cache entry. Redefining a key keeps its position.
func (c *CMake) Define(key, value string) *CMake {
	return c.define(key, "", value)
}

// DefineString sets a STRING cache entry.
func (c *CMake) DefineString(key, value string) *CMake {
	return c.define(key, "STRING", value)
}

func (c *CMake) DefineBool(key string, value bool) *CMake {
	if value {
		return c.define(key, "BOOL", "ON")
	}
	return c.define(key, "BOOL", "OFF")
}

func (c *CMake) define(key, typeName, value string) *CMake {
	for i := range c.defines {
		if c.defines[i].key == key {
			c.defines[i] = define{key: key, typeName: typeName, value: value}
			return c
		}
	}
	c.defines = append(c.defines, define{key: key, typeName: typeName, value: value})
	return c
}

func (c *CMake) Env(key, value string) {
	if c.env == nil {
		c.env = map[string]string{}
	}
	c.env[key] = value
}

// ConfigureArgs returns the argument list of the configure step.
func (c *CMake) ConfigureArgs(args ...string) []string {
	cmakeArgs := []string{"-S", c.SourceDir, "-B", c.buildDir}
	if c.generator != "" {
		cmakeArgs = append(cmakeArgs, "-G", c.generator)
	}
	var builtin []define
	if c.installDir != "" {
		builtin = append(builtin, define{"CMAKE_INSTALL_PREFIX", "PATH", c.installDir})
	}
	if c.buildType != "" {
		builtin = append(builtin, define{"CMAKE_BUILD_TYPE", "STRING", c.buildType})
	}
	if c.target != "" {
		builtin = append(builtin,
			define{"CMAKE_C_COMPILER_TARGET", "STRING", c.target},
			define{"CMAKE_CXX_COMPILER_TARGET", "STRING", c.target},
		)
		if sys := systemOf(c.target); c.host != "" && sys != "" && sys != c.host {
			builtin = append(builtin, define{"CMAKE_SYSTEM_NAME", "STRING", sys})
		}
	}
	if c.verbose {
		builtin = append(builtin, define{"CMAKE_VERBOSE_MAKEFILE", "BOOL", "ON"})
	}
	cmakeArgs = append(cmakeArgs, definesArgs(builtin)...)
	cmakeArgs = append(cmakeArgs, definesArgs(c.defines)...)
	return append(cmakeArgs, args...)
}

func (c *CMake) Configure(ctx context.Context, args ...string) error {
	if err := os.MkdirAll(c.buildDir, 0755); err != nil {
		return err
	}
	return c.invoke(ctx, c.ConfigureArgs(args...))
}

func (c *CMake) Build(ctx context.Context, args ...string) error {
	cmdArgs := []string{"--build", c.buildDir}
	if c.buildType != "" {
		cmdArgs = append(cmdArgs, "--config", c.buildType)
	}
	if c.jobs > 0 {
		cmdArgs = append(cmdArgs, "--parallel", strconv.Itoa(c.jobs))
	}
	if c.verbose {
		cmdArgs = append(cmdArgs, "--verbose")
	}
	cmdArgs = append(cmdArgs, args...)
	return c.invoke(ctx, cmdArgs)
}

func (c *CMake) Install(ctx context.Context, args ...string) error {
	cmdArgs := []string{"--install", c.buildDir}
	if c.installDir != "" {
		cmdArgs = append(cmdArgs, "--prefix", c.installDir)
	}
	if c.buildType != "" {
		cmdArgs = append(cmdArgs, "--config", c.buildType)
	}
	cmdArgs = append(cmdArgs, args...)
	return c.invoke(ctx, cmdArgs)
}

// OutputDir returns the install dir if set, otherwise the build dir.
func (c *CMake) OutputDir() string {
	if c.installDir != "" {
		return c.installDir
	}
	return c.buildDir
}

// Version returns the version of the cmake executable, e.g. "3.22.1".
func (c *CMake) Version(ctx context.Context) (string, error) {
	var stdout bytes.Buffer
	if err := c.run(ctx, "cmake", []string{"--version"}, nil, &stdout, io.Discard); err != nil {
		return "", err
	}
	return parseVersion(stdout.String())
}

// CheckVersion fails if cmake is older than min, given as "3.18.0".
func (c *CMake) CheckVersion(ctx context.Context, min string) error {
	version, err := c.Version(ctx)
	if err != nil {
		return fmt.Errorf("cmake version: %w", err)
	}
	if semver.Compare("v"+version, "v"+min) < 0 {
		return fmt.Errorf("cmake %s is too old, %s or newer is required", version, min)
	}
	log.Debugf("using cmake %s", version)
	return nil
}

// parseVersion extracts the version from `cmake --version` output, whose
// first line reads "cmake version 3.22.1".
func parseVersion(output string) (string, error) {
	line, _, _ := strings.Cut(strings.TrimSpace(output), "\n")
	fields := strings.Fields(line)
	if len(fields) < 3 || fields[0] != "cmake" || fields[1] != "version" {
		return "", fmt.Errorf("unrecognized cmake version output: %q", line)
	}
	version := fields[2]
	if !semver.IsValid("v" + version) {
		return "", fmt.Errorf("unrecognized cmake version %q", version)
	}
	return version, nil
}

// systemOf maps a target triple to its CMake system name.
func systemOf(triple string) string {
	switch {
	case strings.Contains(triple, "-apple-darwin"):
		return "Darwin"
	case strings.Contains(triple, "-linux"):
		return "Linux"
	case strings.Contains(triple, "-windows"):
		return "Windows"
	}
	return ""
}

func (c *CMake) invoke(ctx context.Context, args []string) error {
	log.Infof("running: cmake %s", strings.Join(args, " "))
	return c.run(ctx, "cmake", args, c.env, c.Stdout, c.Stderr)
}

func definesArgs(defines []define) []string {
	args := make([]string, 0, len(defines))
	for _, def := range defines {
		if def.typeName != "" {
			args = append(args, "-D"+def.key+":"+def.typeName+"="+def.value)
			continue
		}
		args = append(args, "-D"+def.key+"="+def.value)
	}
	return args
}

func run(ctx context.Context, bin string, args []string, env map[string]string, stdout, stderr io.Writer) error {
	cmd := exec.CommandContext(ctx, bin, args...)
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	if len(env) > 0 {
		cmd.Env = mergeEnv(os.Environ(), env)
	}
	return cmd.Run()
}

func mergeEnv(base []string, override map[string]string) []string {
	envMap := make(map[string]string, len(base))
	for _, kv := range base {
		if k, v, ok := strings.Cut(kv, "="); ok {
			envMap[k] = v
		}
	}
	for k, v := range override {
		envMap[k] = v
	}
	keys := make([]string, 0, len(envMap))
	for k := range envMap {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		out = append(out, k+"="+envMap[k])
	}
	return out
}
