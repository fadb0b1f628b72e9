package model

import (
	"bytes"
	"encoding/hex"
	"fmt"
)

// Checksum is an opaque, equatable digest of a file's contents, tagged with
// the algorithm that produced it so digests from different algorithms are
// never mistaken for one another even if their bytes happened to collide.
type Checksum struct {
	Algorithm string
	Digest    []byte
}

// NewChecksum wraps a computed digest with the algorithm that produced it.
func NewChecksum(algorithm string, digest []byte) Checksum {
	return Checksum{Algorithm: algorithm, Digest: bytes.Clone(digest)}
}

// Equal reports whether two checksums were computed with the same algorithm
// and have identical digest bytes.
func (c Checksum) Equal(other Checksum) bool {
	return c.Algorithm == other.Algorithm && bytes.Equal(c.Digest, other.Digest)
}

// IsZero reports whether this is the zero-value Checksum (no digest set).
func (c Checksum) IsZero() bool {
	return c.Algorithm == "" && len(c.Digest) == 0
}

func (c Checksum) String() string {
	return fmt.Sprintf("%s:%s", c.Algorithm, hex.EncodeToString(c.Digest))
}
