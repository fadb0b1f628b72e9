// Package fsaccess is the sole I/O boundary the diffing and copy-plan
// packages are allowed to reach through. Every filesystem operation the core
// needs is expressed as a method on FilesystemAccessor, so tests can swap in
// an in-memory fixture and never touch a real disk.
package fsaccess

import (
	"io"
	"time"

	"github.com/copysnap/copysnap/internal/model"
)

// FileEvent is one item produced while walking a root: either a discovered
// file's relative path, or an error encountered while walking (e.g. a
// permission-denied directory). Exactly one of Path/Err is meaningful.
type FileEvent struct {
	Path model.RelativePath
	Err  error
}

// OutputStream is a destination for copied file content. Close commits the
// write; Abort discards it, used when a copy fails partway through so the
// accessor can clean up a partially written temp file instead of leaving a
// corrupt entry at the destination path.
type OutputStream interface {
	io.WriteCloser
	Abort() error
}

// FilesystemAccessor is the abstract filesystem CopySnap's core operates
// against. An OSAccessor backs it with a real disk; a MemoryAccessor backs
// it with in-memory maps for deterministic tests.
type FilesystemAccessor interface {
	// FindFiles walks root and sends one FileEvent per regular file found
	// beneath it, relative to root. The channel is unbuffered and is closed
	// once the walk completes, which happens only after the receiver has
	// taken every event. Directories and symlinks are not reported
	// as files; an error encountered partway through the walk is sent as
	// an event with Err set rather than aborting the whole walk.
	FindFiles(root model.Root) <-chan FileEvent

	// LastModifiedTime returns the modification time of the file at abs.
	LastModifiedTime(abs string) (time.Time, error)

	// ComputeChecksum reads the file at abs in full and returns its
	// checksum under the given algorithm.
	ComputeChecksum(abs string, algorithm string) (model.Checksum, error)

	// ChecksumsEqual reports whether the file currently at abs hashes to
	// expected under expected's own algorithm. The comparison is entirely
	// against the stored checksum; no other file needs to exist.
	ChecksumsEqual(expected model.Checksum, abs string) (bool, error)

	// Exists reports whether a file or directory exists at abs.
	Exists(abs string) bool

	// CreateDirectories creates abs and any missing parents.
	CreateDirectories(abs string) error

	// OpenInputStream opens the file at abs for reading.
	OpenInputStream(abs string) (io.ReadCloser, error)

	// OpenOutputStream opens a destination for writing at abs, creating
	// parent directories as needed. The returned stream's Close commits the
	// write atomically relative to concurrent readers of abs.
	OpenOutputStream(abs string) (OutputStream, error)

	// CreateSymbolicLink creates a symbolic link at absDestination pointing
	// at absSource.
	CreateSymbolicLink(absDestination, absSource string) error
}
