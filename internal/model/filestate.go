package model

import "time"

// FileState is an immutable record of one regular file at one point in time:
// its path relative to a Root, the modification time observed, and the
// content checksum computed for it.
type FileState struct {
	RelPath      RelativePath
	LastModified time.Time
	Checksum     Checksum
}

// Equal reports structural equality between two FileStates.
func (f FileState) Equal(other FileState) bool {
	return f.RelPath == other.RelPath &&
		f.LastModified.Equal(other.LastModified) &&
		f.Checksum.Equal(other.Checksum)
}
