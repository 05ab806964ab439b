package vcs

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// ErrRefNotFound is returned by Clone when the remote repository, or the
// requested ref within it, does not exist.
var ErrRefNotFound = errors.New("ref or repository not found")

// Submodule is one entry of a repository's .gitmodules.
type Submodule struct {
	Name string
	Path string // relative to the repository root
}

// VCS defines the version control operations needed to materialize a revision.
type VCS interface {
	// Clone clones remote at ref into dir. ref can be a branch or tag.
	// If remote or ref cannot be found, the error wraps ErrRefNotFound.
	Clone(ctx context.Context, remote, ref, dir string) error

	// Submodules returns the submodules declared by the repository in dir.
	Submodules(ctx context.Context, dir string) ([]Submodule, error)

	// UpdateSubmodule initializes and checks out sub, recursing into
	// nested submodules.
	UpdateSubmodule(ctx context.Context, dir string, sub Submodule) error

	// Head returns the symbolic name of the ref checked out in dir,
	// or "HEAD" when detached.
	Head(ctx context.Context, dir string) (string, error)
}

// gitVCS implements VCS using git.
type gitVCS struct {
	git string
}

// GitOption configures gitVCS.
type GitOption func(*gitVCS)

// WithGitPath sets a custom git executable path.
func WithGitPath(path string) GitOption {
	return func(g *gitVCS) {
		g.git = path
	}
}

// NewGitVCS creates a new git VCS instance.
func NewGitVCS(opts ...GitOption) VCS {
	g := &gitVCS{git: "git"}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func (g *gitVCS) Clone(ctx context.Context, remote, ref, dir string) error {
	if err := os.MkdirAll(filepath.Dir(dir), 0755); err != nil {
		return err
	}
	err := g.run(ctx, "", "clone", "--branch", ref, remote, dir)
	if err == nil {
		return nil
	}
	var re *runError
	if errors.As(err, &re) && isNotFound(re.Stderr) {
		return fmt.Errorf("clone %s@%s: %w", remote, ref, ErrRefNotFound)
	}
	return fmt.Errorf("clone %s@%s: %w", remote, ref, err)
}

func (g *gitVCS) Submodules(ctx context.Context, dir string) ([]Submodule, error) {
	if _, err := os.Stat(filepath.Join(dir, ".gitmodules")); os.IsNotExist(err) {
		return nil, nil
	}
	output, err := g.output(ctx, dir, "config", "--file", ".gitmodules", "--get-regexp", `^submodule\..*\.path$`)
	if err != nil {
		// git config exits with 1 when nothing matches.
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && exitErr.ExitCode() == 1 {
			return nil, nil
		}
		return nil, fmt.Errorf("list submodules: %w", err)
	}
	return parseSubmodules(output), nil
}

func (g *gitVCS) UpdateSubmodule(ctx context.Context, dir string, sub Submodule) error {
	if err := g.run(ctx, dir, "submodule", "update", "--init", "--recursive", "--", sub.Path); err != nil {
		return fmt.Errorf("update submodule %s: %w", sub.Name, err)
	}
	return nil
}

func (g *gitVCS) Head(ctx context.Context, dir string) (string, error) {
	output, err := g.output(ctx, dir, "rev-parse", "--abbrev-ref", "HEAD")
	if err != nil {
		return "", fmt.Errorf("resolve HEAD: %w", err)
	}
	return strings.TrimSpace(output), nil
}

// parseSubmodules parses `git config --get-regexp` output of the form
// "submodule.<name>.path <path>", one entry per line.
func parseSubmodules(output string) []Submodule {
	var subs []Submodule
	for _, line := range strings.Split(strings.TrimSpace(output), "\n") {
		key, path, ok := strings.Cut(strings.TrimSpace(line), " ")
		if !ok {
			continue
		}
		name := strings.TrimSuffix(strings.TrimPrefix(key, "submodule."), ".path")
		subs = append(subs, Submodule{Name: name, Path: strings.TrimSpace(path)})
	}
	return subs
}

// notFoundMarkers are the stderr fragments git emits when the remote or the
// requested branch does not exist. Matching is case-insensitive.
var notFoundMarkers = []string{
	"not found",
	"does not exist",
	"could not find remote branch",
	"does not appear to be a git repository",
}

func isNotFound(stderr string) bool {
	msg := strings.ToLower(stderr)
	for _, m := range notFoundMarkers {
		if strings.Contains(msg, m) {
			return true
		}
	}
	return false
}

// runError reports a failed git invocation together with its stderr.
type runError struct {
	Args   []string
	Stderr string
	Err    error
}

func (e *runError) Error() string {
	if e.Stderr != "" {
		return e.Stderr
	}
	return fmt.Sprintf("git %s: %v", strings.Join(e.Args, " "), e.Err)
}

func (e *runError) Unwrap() error {
	return e.Err
}

func (g *gitVCS) run(ctx context.Context, dir string, args ...string) error {
	_, err := g.output(ctx, dir, args...)
	return err
}

func (g *gitVCS) output(ctx context.Context, dir string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, g.git, args...)
	if dir != "" {
		cmd.Dir = dir
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", &runError{
			Args:   args,
			Stderr: strings.TrimSpace(stderr.String()),
			Err:    err,
		}
	}
	return stdout.String(), nil
}
