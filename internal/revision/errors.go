package revision

import (
	"errors"
	"fmt"
)

// ErrDirectoryNotEmpty is returned by a non-recursive Remove of a directory
// that still has contents.
var ErrDirectoryNotEmpty = errors.New("directory not empty")

// NotFoundError reports that the ref does not exist in the repository, or
// that the repository itself does not exist.
type NotFoundError struct {
	Ref        string
	Repository string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("the requested revision (%s) and repository (%s) combination does not exist", e.Ref, e.Repository)
}

// DirectoryNotFoundError reports a missing revision directory.
type DirectoryNotFoundError struct {
	Path string
}

func (e *DirectoryNotFoundError) Error() string {
	return "the directory does not exist: " + e.Path
}
