package revision

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/goplus/tvmbuild/internal/vcs"
	"github.com/qiniu/x/log"
)

// Manager moves revisions through their on-disk states: absent, source
// present, build present. It is the only component that deletes revision
// trees. A Manager assumes no other process works on the same revision.
type Manager struct {
	Root string // installation root
	VCS  vcs.VCS
}

// NewManager creates a Manager for revisions installed under root.
func NewManager(root string, v vcs.VCS) *Manager {
	return &Manager{Root: root, VCS: v}
}

// checkNesting fails if ref would nest inside another installed revision,
// or another installed revision inside it.
func (m *Manager) checkNesting(ref string) error {
	installed, err := m.List()
	if err != nil {
		return err
	}
	for _, inst := range installed {
		if overlaps(ref, inst.Ref) {
			return fmt.Errorf("%w: %s and %s", ErrNestedRef, ref, inst.Ref)
		}
	}
	return nil
}

// EnsureSource makes sure the source tree of rev exists, cloning it and its
// submodules if needed. An existing source tree is reused as is.
//
// If clean is set, the revision directory is removed first, unless the
// source tree belongs to the caller.
func (m *Manager) EnsureSource(ctx context.Context, rev Revision, clean bool) error {
	if err := checkRef(rev.RefName()); err != nil {
		return err
	}
	if err := m.checkNesting(rev.RefName()); err != nil {
		return err
	}
	if clean {
		if rev.Pinned() {
			log.Warnf("not cleaning %s: the directory is owned by the caller", rev.RepositoryPath)
		} else if err := m.reset(rev); err != nil {
			return err
		}
	}

	source := rev.SourcePath(m.Root)
	switch _, err := os.Stat(source); {
	case err == nil:
		log.Debugf("reusing source tree %s", source)
		m.checkHead(ctx, rev, source)
		return nil
	case !os.IsNotExist(err):
		return err
	}

	log.Infof("cloning %s at %s into %s", rev.URL(), rev.RefName(), source)
	if err := m.VCS.Clone(ctx, rev.URL(), rev.RefName(), source); err != nil {
		if errors.Is(err, vcs.ErrRefNotFound) {
			return &NotFoundError{Ref: rev.RefName(), Repository: rev.URL()}
		}
		return err
	}

	subs, err := m.VCS.Submodules(ctx, source)
	if err != nil {
		return err
	}
	for _, sub := range subs {
		log.Debugf("updating submodule %s", sub.Path)
		if err := m.VCS.UpdateSubmodule(ctx, source, sub); err != nil {
			return err
		}
	}
	return nil
}

// reset removes the whole revision directory.
func (m *Manager) reset(rev Revision) error {
	dir := rev.Path(m.Root)
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return nil
	}
	log.Infof("cleaning %s", dir)
	return os.RemoveAll(dir)
}

// checkHead warns when the checkout is on a different branch than requested.
// The tree is still reused.
func (m *Manager) checkHead(ctx context.Context, rev Revision, source string) {
	head, err := m.VCS.Head(ctx, source)
	if err != nil {
		log.Debugf("cannot determine checked out ref of %s: %v", source, err)
		return
	}
	if head != "HEAD" && head != rev.RefName() {
		log.Warnf("%s has %s checked out, not %s; use --clean to re-clone", source, head, rev.RefName())
	}
}

// EnsureBuildDir creates the build directory of rev and returns it.
func (m *Manager) EnsureBuildDir(rev Revision) (string, error) {
	if err := checkRef(rev.RefName()); err != nil {
		return "", err
	}
	dir := rev.BuildPath(m.Root)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	return dir, nil
}

// Remove deletes the directory of the revision named ref. Unless recursive
// is set, only an empty directory is removed.
func (m *Manager) Remove(ref string, recursive bool) error {
	if err := checkRef(ref); err != nil {
		return err
	}
	if err := m.checkNesting(ref); err != nil {
		return err
	}
	dir := New(ref).Path(m.Root)
	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		return &DirectoryNotFoundError{Path: dir}
	}
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", dir)
	}

	if recursive {
		log.Infof("removing %s", dir)
		return os.RemoveAll(dir)
	}
	if entries, err := os.ReadDir(dir); err == nil && len(entries) > 0 {
		return fmt.Errorf("remove %s: %w", dir, ErrDirectoryNotEmpty)
	}
	return os.Remove(dir)
}

// Installed describes a revision found under the installation root.
type Installed struct {
	Ref    string
	Source bool // source tree present
	Build  bool // build tree present
}

// List reconstructs the installed revisions by scanning the root. Refs
// containing slashes are found in nested directories.
func (m *Manager) List() ([]Installed, error) {
	if _, err := os.Stat(m.Root); os.IsNotExist(err) {
		return nil, nil
	}
	var found []Installed
	revs := map[string]bool{}
	err := filepath.WalkDir(m.Root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() || path == m.Root {
			return nil
		}
		if revs[filepath.Dir(path)] && (d.Name() == "source" || d.Name() == "build") {
			return filepath.SkipDir
		}
		source := isDir(filepath.Join(path, "source"))
		build := isDir(filepath.Join(path, "build"))
		if !source && !build {
			return nil
		}
		rel, err := filepath.Rel(m.Root, path)
		if err != nil {
			return err
		}
		revs[path] = true
		found = append(found, Installed{Ref: filepath.ToSlash(rel), Source: source, Build: build})
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(found, func(i, j int) bool { return found[i].Ref < found[j].Ref })
	return found, nil
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
