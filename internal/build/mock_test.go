package build

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"

	"github.com/goplus/tvmbuild/internal/vcs"
	"github.com/goplus/tvmbuild/pkgs/buildsys/cmake"
)

// mockVCS implements vcs.VCS for testing.
type mockVCS struct {
	cloneErr error
	clones   int
}

func (m *mockVCS) Clone(ctx context.Context, remote, ref, dir string) error {
	m.clones++
	if m.cloneErr != nil {
		return m.cloneErr
	}
	if err := os.MkdirAll(filepath.Join(dir, "python", "tvm"), 0755); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, "CMakeLists.txt"), []byte("project(tvm)\n"), 0644)
}

func (m *mockVCS) Submodules(ctx context.Context, dir string) ([]vcs.Submodule, error) {
	return nil, nil
}

func (m *mockVCS) UpdateSubmodule(ctx context.Context, dir string, sub vcs.Submodule) error {
	return nil
}

func (m *mockVCS) Head(ctx context.Context, dir string) (string, error) {
	return "HEAD", nil
}

// mockCMake records cmake invocations.
type mockCMake struct {
	calls   [][]string
	version string
	failOn  string
}

func (m *mockCMake) run(ctx context.Context, bin string, args []string, env map[string]string, stdout, stderr io.Writer) error {
	m.calls = append(m.calls, append([]string(nil), args...))
	if len(args) > 0 && args[0] == "--version" {
		version := m.version
		if version == "" {
			version = "cmake version 3.22.1\n"
		}
		_, err := io.WriteString(stdout, version)
		return err
	}
	if m.failOn != "" && len(args) > 0 && args[0] == m.failOn {
		return errors.New("exit status 2")
	}
	return nil
}

func (m *mockCMake) factory(sourceDir, outDir string) *cmake.CMake {
	c := cmake.New(sourceDir, outDir).Runner(m.run)
	c.Stdout, c.Stderr = io.Discard, io.Discard
	return c
}

// configureArgs returns the arguments of the configure call.
func (m *mockCMake) configureArgs() []string {
	for _, call := range m.calls {
		if len(call) > 0 && call[0] == "-S" {
			return call
		}
	}
	return nil
}
