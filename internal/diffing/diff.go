package diffing

import (
	"fmt"

	"github.com/copysnap/copysnap/internal/fsaccess"
	"github.com/copysnap/copysnap/internal/model"
)

// ClassifiedEntry records the outcome of classifying one relative path.
// NewState is populated for every classification except Removed and Error.
type ClassifiedEntry struct {
	RelPath        model.RelativePath
	Classification Classification
	NewState       model.FileState
	Err            error
}

// DiffCounts is a reporting-only tally of a diff run. Field five is a
// reserved slot: every scenario observed in the reference implementation
// this tool's behavior was distilled from carries it as zero, so it is
// never written by this engine.
type DiffCounts struct {
	Errors           int
	Removed          int
	NewOrChanged     int
	UnchangedAliased int
	Reserved         int
}

// FileSystemDiff is the diff engine's output: every classified entry, the
// frozen new state for paths that currently exist, and a handle back to the
// prior state the diff was computed against. The planner works from Entries
// alone (removed paths are entries of their own) and does not read
// PriorState.
type FileSystemDiff struct {
	Entries    map[model.RelativePath]ClassifiedEntry
	NewState   model.FileSystemState
	PriorState model.FileSystemState
	Counts     DiffCounts
}

// Service computes a FileSystemDiff by walking a source root against a
// prior FileSystemState through a FilesystemAccessor.
type Service struct {
	Accessor  fsaccess.FilesystemAccessor
	Algorithm string
}

// NewService builds a diff Service bound to the given accessor and checksum
// algorithm.
func NewService(accessor fsaccess.FilesystemAccessor, algorithm string) *Service {
	return &Service{Accessor: accessor, Algorithm: algorithm}
}

// Diff classifies every file currently under sourceRoot against priorState,
// then accounts for every prior path that was not revisited as Removed.
func (s *Service) Diff(sourceRoot model.Root, priorState model.FileSystemState) (FileSystemDiff, error) {
	entries := make(map[model.RelativePath]ClassifiedEntry)
	builder := model.NewFileSystemStateBuilder(sourceRoot.Location())

	visited := make(map[model.RelativePath]struct{})

	for ev := range s.Accessor.FindFiles(sourceRoot) {
		if ev.Err != nil {
			return FileSystemDiff{}, fmt.Errorf("diffing: enumeration failed: %w", ev.Err)
		}
		rel := ev.Path
		visited[rel] = struct{}{}

		entry := s.classify(sourceRoot, rel, priorState)
		entries[rel] = entry
		if entry.Classification != Error {
			builder.Add(entry.NewState)
		}
	}

	for _, rel := range priorState.Paths() {
		if _, ok := visited[rel]; ok {
			continue
		}
		entries[rel] = ClassifiedEntry{RelPath: rel, Classification: Removed}
	}

	counts := DiffCounts{}
	for _, e := range entries {
		switch e.Classification {
		case Error:
			counts.Errors++
		case Removed:
			counts.Removed++
		case New, Changed:
			counts.NewOrChanged++
		case Unchanged, UnchangedButTouched:
			counts.UnchangedAliased++
		}
	}

	return FileSystemDiff{
		Entries:    entries,
		NewState:   builder.Build(),
		PriorState: priorState,
		Counts:     counts,
	}, nil
}

func (s *Service) classify(sourceRoot model.Root, rel model.RelativePath, priorState model.FileSystemState) ClassifiedEntry {
	abs := sourceRoot.Resolve(rel)

	prior, hadPrior := priorState.Get(rel)
	if !hadPrior {
		checksum, err := s.Accessor.ComputeChecksum(abs, s.Algorithm)
		if err != nil {
			return ClassifiedEntry{RelPath: rel, Classification: Error, Err: err}
		}
		mtime, err := s.Accessor.LastModifiedTime(abs)
		if err != nil {
			return ClassifiedEntry{RelPath: rel, Classification: Error, Err: err}
		}
		return ClassifiedEntry{
			RelPath:        rel,
			Classification: New,
			NewState:       model.FileState{RelPath: rel, LastModified: mtime, Checksum: checksum},
		}
	}

	mtime, err := s.Accessor.LastModifiedTime(abs)
	if err != nil {
		return ClassifiedEntry{RelPath: rel, Classification: Error, Err: err}
	}

	if mtime.Equal(prior.LastModified) {
		return ClassifiedEntry{
			RelPath:        rel,
			Classification: Unchanged,
			NewState:       model.FileState{RelPath: rel, LastModified: mtime, Checksum: prior.Checksum},
		}
	}

	equal, err := s.Accessor.ChecksumsEqual(prior.Checksum, abs)
	if err != nil {
		return ClassifiedEntry{RelPath: rel, Classification: Error, Err: err}
	}
	if equal {
		return ClassifiedEntry{
			RelPath:        rel,
			Classification: UnchangedButTouched,
			NewState:       model.FileState{RelPath: rel, LastModified: mtime, Checksum: prior.Checksum},
		}
	}

	checksum, err := s.Accessor.ComputeChecksum(abs, s.Algorithm)
	if err != nil {
		return ClassifiedEntry{RelPath: rel, Classification: Error, Err: err}
	}
	return ClassifiedEntry{
		RelPath:        rel,
		Classification: Changed,
		NewState:       model.FileState{RelPath: rel, LastModified: mtime, Checksum: checksum},
	}
}

