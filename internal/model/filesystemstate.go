package model

import (
	"sync"
)

// FileSystemState is an immutable, unordered collection of FileState values
// with pairwise-unique RelPaths, anchored to the absolute root location the
// paths are relative to. It is built once via FileSystemStateBuilder and then
// frozen; persistence between runs is handled by the snapstate package, kept
// deliberately outside this package so the core model has no I/O.
type FileSystemState struct {
	location string
	files    map[RelativePath]FileState
}

// Location returns the absolute root location the contained paths are
// relative to.
func (s FileSystemState) Location() string { return s.location }

// Get looks up the FileState recorded for rel, if any.
func (s FileSystemState) Get(rel RelativePath) (FileState, bool) {
	fs, ok := s.files[rel]
	return fs, ok
}

// WithLocation returns a copy of this state anchored at a different root
// location, with every FileState unchanged. The diffing engine records a
// new state anchored at the live source tree it just read; the orchestrator
// that persists state for the next run re-anchors it to the snapshot
// directory it just materialized, since that directory (not the live
// source) is what the following run's alias targets must point into.
func (s FileSystemState) WithLocation(location string) FileSystemState {
	return FileSystemState{location: location, files: s.files}
}

// Len returns the number of recorded files.
func (s FileSystemState) Len() int { return len(s.files) }

// Paths returns every RelativePath recorded in this state. Order is
// unspecified.
func (s FileSystemState) Paths() []RelativePath {
	paths := make([]RelativePath, 0, len(s.files))
	for p := range s.files {
		paths = append(paths, p)
	}
	return paths
}

// All returns every FileState recorded in this state. Order is unspecified.
func (s FileSystemState) All() []FileState {
	all := make([]FileState, 0, len(s.files))
	for _, fs := range s.files {
		all = append(all, fs)
	}
	return all
}

// FileSystemStateBuilder incrementally accumulates FileState entries before
// they are frozen into a FileSystemState. It is safe for concurrent use by
// multiple classification workers: Add may be called from any goroutine.
type FileSystemStateBuilder struct {
	location string
	mu       sync.Mutex
	files    map[RelativePath]FileState
}

// NewFileSystemStateBuilder starts a builder for the given absolute root
// location.
func NewFileSystemStateBuilder(location string) *FileSystemStateBuilder {
	return &FileSystemStateBuilder{
		location: location,
		files:    make(map[RelativePath]FileState),
	}
}

// Add records a FileState. Paths are pairwise-unique by construction (the
// diffing engine calls Add at most once per RelativePath); a duplicate Add
// simply overwrites the earlier entry.
func (b *FileSystemStateBuilder) Add(fs FileState) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.files[fs.RelPath] = fs
}

// Build freezes the accumulated entries into a FileSystemState. The builder
// may continue to be used afterward; Build takes a snapshot of the current
// contents.
func (b *FileSystemStateBuilder) Build() FileSystemState {
	b.mu.Lock()
	defer b.mu.Unlock()
	frozen := make(map[RelativePath]FileState, len(b.files))
	for k, v := range b.files {
		frozen[k] = v
	}
	return FileSystemState{location: b.location, files: frozen}
}

// EmptyState returns a FileSystemState with no entries, for use as the prior
// state on a tree's first run.
func EmptyState(location string) FileSystemState {
	return FileSystemState{location: location, files: map[RelativePath]FileState{}}
}
