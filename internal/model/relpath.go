package model

import (
	"strings"
)

// RelativePath is a forward-slash path relative to a Root's Location; it
// always begins with the root directory's name. Promotion and aliasing
// decisions operate strictly on path-segment boundaries, never on string
// prefixes, so RelativePath carries segment-aware helpers instead of being
// treated as an opaque string.
type RelativePath string

// Segments splits the path into its slash-separated components.
func (p RelativePath) Segments() []string {
	if p == "" {
		return nil
	}
	return strings.Split(string(p), "/")
}

// Join appends a child segment to a directory RelativePath.
func Join(dir RelativePath, name string) RelativePath {
	if dir == "" {
		return RelativePath(name)
	}
	return RelativePath(string(dir) + "/" + name)
}

func (p RelativePath) String() string { return string(p) }
