// Package revision locates TVM revisions on disk and manages their source
// and build trees.
package revision

import "path/filepath"

const (
	// DefaultRepository is cloned when a revision names no repository.
	DefaultRepository = "https://github.com/apache/tvm"
	// DefaultRef is built when a revision names no ref.
	DefaultRef = "main"
)

// Revision identifies one buildable checkout of TVM.
//
// Revisions are keyed by Ref alone: two repositories sharing a ref name are
// installed under the same directory.
type Revision struct {
	Ref        string
	Repository string // clone URL; DefaultRepository when empty

	// RepositoryPath, if set, is a source directory owned by the caller.
	// It is used as the source tree and is never cleaned or removed.
	RepositoryPath string
}

// New returns the revision for ref in the default repository.
func New(ref string) Revision {
	return Revision{Ref: ref}
}

// RefName returns the ref, defaulting to DefaultRef.
func (r Revision) RefName() string {
	if r.Ref == "" {
		return DefaultRef
	}
	return r.Ref
}

// URL returns the repository to clone from.
func (r Revision) URL() string {
	if r.Repository == "" {
		return DefaultRepository
	}
	return r.Repository
}

// Pinned reports whether the caller owns the source directory.
func (r Revision) Pinned() bool {
	return r.RepositoryPath != ""
}

// Path returns the revision's directory under root.
func (r Revision) Path(root string) string {
	return filepath.Join(root, r.RefName())
}

// SourcePath returns the directory holding the revision's checkout.
func (r Revision) SourcePath(root string) string {
	if r.Pinned() {
		return r.RepositoryPath
	}
	return filepath.Join(r.Path(root), "source")
}

// BuildPath returns the directory CMake builds and installs into.
func (r Revision) BuildPath(root string) string {
	return filepath.Join(r.Path(root), "build")
}

// PythonPath returns where the revision's Python package lives in its
// source tree. The directory is not required to exist.
func (r Revision) PythonPath(root string) string {
	return filepath.Join(r.SourcePath(root), "python", "tvm")
}

func (r Revision) String() string {
	return r.RefName() + "@" + r.URL()
}
