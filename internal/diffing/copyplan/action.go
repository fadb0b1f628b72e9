// Package copyplan turns a classified diffing.FileSystemDiff into a minimal
// set of copy actions, promoting whole unchanged subtrees to a single
// symbolic link wherever that stays correct.
package copyplan

import (
	"fmt"
	"io"

	"github.com/copysnap/copysnap/internal/fsaccess"
	"github.com/copysnap/copysnap/internal/model"
)

// Variant tags a CopyAction as a byte-for-byte copy or a symlink alias.
type Variant int

const (
	// Plain streams file content from SourceLocation to DestinationLocation.
	Plain Variant = iota
	// Symlink creates a link at DestinationLocation pointing into
	// SourceLocation, aliasing either a single file or a whole subtree.
	Symlink
)

func (v Variant) String() string {
	if v == Symlink {
		return "Symlink"
	}
	return "Plain"
}

// CopyAction is one step of a plan: copy or link RelPath from
// SourceLocation into DestinationLocation. Equality is structural on all
// four fields, which test assertions rely on.
type CopyAction struct {
	Variant             Variant
	SourceLocation      string
	DestinationLocation string
	RelPath             model.RelativePath
}

// Perform executes this action against the accessor, ensuring destination
// parent directories exist first. A Plain action returns the FileState it
// produced; a Symlink action returns the zero FileState since the content
// at the destination is inherited from the prior snapshot.
func (a CopyAction) Perform(accessor fsaccess.FilesystemAccessor, algorithm string) (model.FileState, error) {
	sourceRoot := model.RootFrom(a.SourceLocation, a.RelPath.Segments()[0])
	destRoot := model.RootFrom(a.DestinationLocation, a.RelPath.Segments()[0])

	sourceAbs := sourceRoot.Resolve(a.RelPath)
	destAbs := destRoot.Resolve(a.RelPath)

	switch a.Variant {
	case Symlink:
		if err := accessor.CreateSymbolicLink(destAbs, sourceAbs); err != nil {
			return model.FileState{}, fmt.Errorf("copyplan: symlink %q: %w", a.RelPath, err)
		}
		return model.FileState{}, nil
	case Plain:
		return a.performPlainCopy(accessor, algorithm, sourceAbs, destAbs)
	default:
		return model.FileState{}, fmt.Errorf("copyplan: unknown variant %v", a.Variant)
	}
}

func (a CopyAction) performPlainCopy(accessor fsaccess.FilesystemAccessor, algorithm string, sourceAbs, destAbs string) (model.FileState, error) {
	in, err := accessor.OpenInputStream(sourceAbs)
	if err != nil {
		return model.FileState{}, fmt.Errorf("copyplan: open source %q: %w", a.RelPath, err)
	}
	defer in.Close()

	out, err := accessor.OpenOutputStream(destAbs)
	if err != nil {
		return model.FileState{}, fmt.Errorf("copyplan: open destination %q: %w", a.RelPath, err)
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Abort()
		return model.FileState{}, fmt.Errorf("copyplan: copy %q: %w", a.RelPath, err)
	}
	if err := out.Close(); err != nil {
		return model.FileState{}, fmt.Errorf("copyplan: commit %q: %w", a.RelPath, err)
	}

	mtime, err := accessor.LastModifiedTime(destAbs)
	if err != nil {
		return model.FileState{}, fmt.Errorf("copyplan: stat destination %q: %w", a.RelPath, err)
	}
	checksum, err := accessor.ComputeChecksum(destAbs, algorithm)
	if err != nil {
		return model.FileState{}, fmt.Errorf("copyplan: checksum destination %q: %w", a.RelPath, err)
	}
	return model.FileState{RelPath: a.RelPath, LastModified: mtime, Checksum: checksum}, nil
}
