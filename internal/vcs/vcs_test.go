package vcs

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func requireGit(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not found in PATH")
	}
}

func git(t *testing.T, dir string, args ...string) {
	t.Helper()
	args = append([]string{"-c", "user.name=test", "-c", "user.email=test@example.com"}, args...)
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	if out, err := cmd.CombinedOutput(); err != nil {
		t.Fatalf("git %v failed: %v\n%s", args, err, out)
	}
}

// newUpstream creates a local repository with a single commit on branch main.
func newUpstream(t *testing.T) string {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "upstream")
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}
	git(t, dir, "init", "-q")
	git(t, dir, "symbolic-ref", "HEAD", "refs/heads/main")
	if err := os.WriteFile(filepath.Join(dir, "README"), []byte("tvm\n"), 0644); err != nil {
		t.Fatal(err)
	}
	git(t, dir, "add", "README")
	git(t, dir, "commit", "-q", "-m", "init")
	return dir
}

func TestGitVCS_Clone(t *testing.T) {
	requireGit(t)
	upstream := newUpstream(t)
	ctx := context.Background()
	vcs := NewGitVCS()

	dir := filepath.Join(t.TempDir(), "nested", "source")
	if err := vcs.Clone(ctx, upstream, "main", dir); err != nil {
		t.Fatalf("Clone failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "README")); err != nil {
		t.Fatalf("README missing after clone: %v", err)
	}

	head, err := vcs.Head(ctx, dir)
	if err != nil {
		t.Fatalf("Head failed: %v", err)
	}
	if head != "main" {
		t.Errorf("Head = %q, want %q", head, "main")
	}
}

func TestGitVCS_CloneMissingRef(t *testing.T) {
	requireGit(t)
	upstream := newUpstream(t)
	vcs := NewGitVCS()

	dir := filepath.Join(t.TempDir(), "source")
	err := vcs.Clone(context.Background(), upstream, "does-not-exist-xyz", dir)
	if !errors.Is(err, ErrRefNotFound) {
		t.Fatalf("Clone error = %v, want ErrRefNotFound", err)
	}
}

func TestGitVCS_CloneMissingRepository(t *testing.T) {
	requireGit(t)
	vcs := NewGitVCS()

	missing := filepath.Join(t.TempDir(), "no-such-repo")
	err := vcs.Clone(context.Background(), missing, "main", filepath.Join(t.TempDir(), "source"))
	if !errors.Is(err, ErrRefNotFound) {
		t.Fatalf("Clone error = %v, want ErrRefNotFound", err)
	}
}

func TestGitVCS_CloneBadExecutable(t *testing.T) {
	vcs := NewGitVCS(WithGitPath(filepath.Join(t.TempDir(), "no-git")))
	err := vcs.Clone(context.Background(), "https://example.com/repo", "main", filepath.Join(t.TempDir(), "src"))
	if err == nil {
		t.Fatal("Clone with missing git executable should fail")
	}
	if errors.Is(err, ErrRefNotFound) {
		t.Errorf("missing executable must not be reported as ErrRefNotFound: %v", err)
	}
}

func TestGitVCS_Submodules(t *testing.T) {
	requireGit(t)
	ctx := context.Background()
	vcs := NewGitVCS()

	dir := t.TempDir()
	subs, err := vcs.Submodules(ctx, dir)
	if err != nil {
		t.Fatalf("Submodules without .gitmodules failed: %v", err)
	}
	if len(subs) != 0 {
		t.Fatalf("Submodules without .gitmodules = %v, want none", subs)
	}

	gitmodules := `[submodule "dlpack"]
	path = 3rdparty/dlpack
	url = https://github.com/dmlc/dlpack
[submodule "dmlc-core"]
	path = 3rdparty/dmlc-core
	url = https://github.com/dmlc/dmlc-core
`
	if err := os.WriteFile(filepath.Join(dir, ".gitmodules"), []byte(gitmodules), 0644); err != nil {
		t.Fatal(err)
	}
	subs, err = vcs.Submodules(ctx, dir)
	if err != nil {
		t.Fatalf("Submodules failed: %v", err)
	}
	want := []Submodule{
		{Name: "dlpack", Path: "3rdparty/dlpack"},
		{Name: "dmlc-core", Path: "3rdparty/dmlc-core"},
	}
	if diff := cmp.Diff(want, subs); diff != "" {
		t.Errorf("Submodules mismatch (-want +got):\n%s", diff)
	}
}

func TestParseSubmodules(t *testing.T) {
	output := "submodule.3rdparty/cutlass.path 3rdparty/cutlass\n" +
		"submodule.libbacktrace.path 3rdparty/libbacktrace\n" +
		"garbage\n"
	want := []Submodule{
		{Name: "3rdparty/cutlass", Path: "3rdparty/cutlass"},
		{Name: "libbacktrace", Path: "3rdparty/libbacktrace"},
	}
	if diff := cmp.Diff(want, parseSubmodules(output)); diff != "" {
		t.Errorf("parseSubmodules mismatch (-want +got):\n%s", diff)
	}
	if got := parseSubmodules(""); len(got) != 0 {
		t.Errorf("parseSubmodules(\"\") = %v, want none", got)
	}
}

func TestIsNotFound(t *testing.T) {
	tests := []struct {
		stderr string
		want   bool
	}{
		{"warning: Could not find remote branch xyz to clone.\nfatal: Remote branch xyz not found in upstream origin", true},
		{"remote: Repository not found.\nfatal: repository 'https://github.com/apache/nope/' not found", true},
		{"fatal: repository '/tmp/x' does not exist", true},
		{"fatal: '/tmp/x' does not appear to be a git repository", true},
		{"fatal: unable to access 'https://github.com/apache/tvm/': Could not resolve host: github.com", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := isNotFound(tt.stderr); got != tt.want {
			t.Errorf("isNotFound(%q) = %v, want %v", tt.stderr, got, tt.want)
		}
	}
}
