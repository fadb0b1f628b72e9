// Package model holds the value types shared by the diffing and copy-planning
// engine: roots, relative paths, checksums, and the file-state records built
// from them.
package model

import (
	"fmt"
	"path"
	"path/filepath"
	"strings"
)

// Root anchors all relative paths used by the diffing engine to an absolute
// location on disk plus the name of the directory actually being snapshotted.
//
// Given an absolute path to a directory "/a/b/c/r", the root's location is
// "/a/b/c" and its root directory name is "r"; every RelativePath produced
// for files under that root begins with "r/".
type Root struct {
	location    string
	rootDirName string
}

// NewRoot builds a Root from the absolute path to the directory being
// snapshotted, e.g. "/x/y/z/r" yields location "/x/y/z" and root dir "r".
func NewRoot(absPathToRootDir string) (Root, error) {
	clean := filepath.Clean(absPathToRootDir)
	if !filepath.IsAbs(clean) {
		return Root{}, fmt.Errorf("model: root path %q is not absolute", absPathToRootDir)
	}
	location := filepath.Dir(clean)
	rootDirName := filepath.Base(clean)
	if rootDirName == "" || rootDirName == "." || rootDirName == string(filepath.Separator) {
		return Root{}, fmt.Errorf("model: root path %q has no directory name", absPathToRootDir)
	}
	return RootFrom(location, rootDirName), nil
}

// RootFrom builds a Root directly from a location and the root directory's
// name, without requiring the combined path to be re-parsed.
func RootFrom(location, rootDirName string) Root {
	return Root{location: filepath.Clean(location), rootDirName: rootDirName}
}

// Location returns the absolute parent directory of the root directory.
func (r Root) Location() string { return r.location }

// RootDirName returns the name of the topmost directory anchored by this root.
func (r Root) RootDirName() string { return r.rootDirName }

// PathToRootDir returns the absolute path to the root directory itself.
func (r Root) PathToRootDir() string {
	return filepath.Join(r.location, r.rootDirName)
}

// Resolve turns a RelativePath (which begins with the root dir name) into an
// absolute path rooted at Location.
func (r Root) Resolve(rel RelativePath) string {
	return filepath.Join(r.location, filepath.FromSlash(string(rel)))
}

// Relativize turns an absolute path beneath Location into a RelativePath
// beginning with the root dir name. It fails if absPath does not lie under
// Location.
func (r Root) Relativize(absPath string) (RelativePath, error) {
	rel, err := filepath.Rel(r.location, filepath.Clean(absPath))
	if err != nil {
		return "", fmt.Errorf("model: relativize %q against %q: %w", absPath, r.location, err)
	}
	if rel == "." || strings.HasPrefix(rel, "..") {
		return "", fmt.Errorf("model: %q is not beneath root location %q", absPath, r.location)
	}
	return RelativePath(path.Clean(filepath.ToSlash(rel))), nil
}

func (r Root) String() string {
	return r.PathToRootDir()
}
