package revision

import (
	"context"
	"os"
	"path/filepath"

	"github.com/goplus/tvmbuild/internal/vcs"
)

// mockVCS implements vcs.VCS for testing. Clone creates the destination
// with a marker file instead of talking to a remote.
type mockVCS struct {
	cloneFunc func(ctx context.Context, remote, ref, dir string) error
	subs      []vcs.Submodule
	head      string

	clones  []string // remote@ref of each Clone call
	updated []string // paths passed to UpdateSubmodule
}

func (m *mockVCS) Clone(ctx context.Context, remote, ref, dir string) error {
	m.clones = append(m.clones, remote+"@"+ref)
	if m.cloneFunc != nil {
		return m.cloneFunc(ctx, remote, ref, dir)
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, "CMakeLists.txt"), []byte("project(tvm)\n"), 0644)
}

func (m *mockVCS) Submodules(ctx context.Context, dir string) ([]vcs.Submodule, error) {
	return m.subs, nil
}

func (m *mockVCS) UpdateSubmodule(ctx context.Context, dir string, sub vcs.Submodule) error {
	m.updated = append(m.updated, sub.Path)
	return nil
}

func (m *mockVCS) Head(ctx context.Context, dir string) (string, error) {
	if m.head == "" {
		return "HEAD", nil
	}
	return m.head, nil
}
