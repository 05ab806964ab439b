package revision

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

var (
	// ErrInvalidRef is returned for refs git would not accept as a branch or
	// tag name, and for refs that do not map to a directory inside the
	// installation root.
	ErrInvalidRef = errors.New("invalid ref")

	// ErrNestedRef is returned when a revision directory would contain, or be
	// contained in, the directory of another installed revision.
	ErrNestedRef = errors.New("ref overlaps an installed revision")
)

// checkRef validates ref with the rules of git check-ref-format. Every
// accepted ref names a proper subdirectory of the installation root.
func checkRef(ref string) error {
	if reason := badRef(ref); reason != "" {
		return fmt.Errorf("%w %q: %s", ErrInvalidRef, ref, reason)
	}
	return nil
}

func badRef(ref string) string {
	switch {
	case ref == "":
		return "empty"
	case ref == "@":
		return "is a lone @"
	case strings.HasPrefix(ref, "/") || strings.HasSuffix(ref, "/"):
		return "begins or ends with /"
	case strings.HasSuffix(ref, "."):
		return "ends with ."
	case strings.Contains(ref, ".."):
		return "contains .."
	case strings.Contains(ref, "@{"):
		return "contains @{"
	}
	for _, r := range ref {
		if r < 0x20 || r == 0x7f || strings.ContainsRune(" ~^:?*[\\", r) {
			return fmt.Sprintf("contains %q", r)
		}
	}
	for _, comp := range strings.Split(ref, "/") {
		switch {
		case comp == "":
			return "contains //"
		case strings.HasPrefix(comp, "."):
			return "has a component starting with ."
		case strings.HasSuffix(comp, ".lock"):
			return "has a component ending with .lock"
		}
	}
	if !filepath.IsLocal(filepath.FromSlash(ref)) {
		return "not a local path"
	}
	return ""
}

// overlaps reports whether a and b are distinct refs whose directories nest.
func overlaps(a, b string) bool {
	return strings.HasPrefix(a, b+"/") || strings.HasPrefix(b, a+"/")
}
