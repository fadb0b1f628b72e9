// Package snapshot orchestrates one end-to-end run: load the prior state,
// diff the source tree against it, plan and execute the resulting copy
// actions into a freshly timestamped directory, then persist the new state
// and advance the "latest" link.
package snapshot

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/copysnap/copysnap/internal/clog"
	"github.com/copysnap/copysnap/internal/config"
	"github.com/copysnap/copysnap/internal/diffing"
	"github.com/copysnap/copysnap/internal/diffing/copyplan"
	"github.com/copysnap/copysnap/internal/fsaccess"
	"github.com/copysnap/copysnap/internal/hashing"
	"github.com/copysnap/copysnap/internal/model"
	"github.com/copysnap/copysnap/internal/progress"
	"github.com/copysnap/copysnap/internal/snapstate"
	"github.com/copysnap/copysnap/internal/util"
)

// Options describes one run's inputs.
type Options struct {
	// SourceRoot is the directory tree to snapshot.
	SourceRoot model.Root
	// DestinationLocation is the directory under which snapshot runs and
	// their ".copysnap" metadata are kept.
	DestinationLocation string
	// Algorithm overrides the persisted/default checksum algorithm when
	// non-empty.
	Algorithm hashing.Algorithm
	// Accessor backs every filesystem operation this run performs.
	Accessor fsaccess.FilesystemAccessor
	// Now supplies the run's timestamp; defaults to time.Now when zero.
	Now time.Time
}

// Result summarizes a completed run.
type Result struct {
	SnapshotDir string
	Counts      diffing.DiffCounts
	NewState    model.FileSystemState
}

// Engine runs CopySnap's full incremental-snapshot workflow.
type Engine struct{}

// NewEngine returns a ready-to-use Engine. Engine carries no state of its
// own; every run is parameterized entirely by the Options passed to Run.
func NewEngine() *Engine {
	return &Engine{}
}

// Run executes one snapshot: diff, plan, copy, persist, advance "latest".
func (e *Engine) Run(opts Options) (Result, error) {
	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}

	algorithm := opts.Algorithm
	if algorithm == "" {
		algorithm = config.SelectedAlgorithm(opts.DestinationLocation)
	}

	statePath := config.StatePath(opts.DestinationLocation)
	priorState, err := snapstate.LoadOrEmpty(statePath, opts.SourceRoot.Location())
	if err != nil {
		return Result{}, fmt.Errorf("snapshot: load prior state: %w", err)
	}
	clog.Debug("loaded prior state", "state_path", statePath, "prior_location", priorState.Location(), "prior_file_count", priorState.Len())

	clog.Info("starting snapshot run", "source", opts.SourceRoot.PathToRootDir(), "algorithm", algorithm)

	diffSvc := diffing.NewService(opts.Accessor, string(algorithm))
	diff, err := diffSvc.Diff(opts.SourceRoot, priorState)
	if err != nil {
		return Result{}, fmt.Errorf("snapshot: diff: %w", err)
	}
	clog.Info("diff complete",
		"new_or_changed", diff.Counts.NewOrChanged,
		"unchanged_aliased", diff.Counts.UnchangedAliased,
		"removed", diff.Counts.Removed,
		"errors", diff.Counts.Errors,
	)

	snapshotDirs := config.SnapshotsDir(opts.DestinationLocation)
	snapshotDir := filepath.Join(snapshotDirs, now.Format(config.SnapshotTimestampLayout))
	destinationRoot := model.RootFrom(snapshotDir, opts.SourceRoot.RootDirName())

	priorRoot := priorState.Location()
	if priorRoot == "" {
		priorRoot = opts.SourceRoot.Location()
	}

	actions := copyplan.Plan(diff, opts.SourceRoot.Location(), priorRoot, destinationRoot.Location())
	clog.Debug("copy plan built", "actions", len(actions), "destination", destinationRoot.Location())

	if err := opts.Accessor.CreateDirectories(destinationRoot.Location()); err != nil {
		return Result{}, fmt.Errorf("snapshot: create destination: %w", err)
	}

	if err := e.execute(actions, opts.Accessor, string(algorithm)); err != nil {
		return Result{}, fmt.Errorf("snapshot: execute plan: %w", err)
	}

	// Re-anchor the new state to the snapshot directory just materialized:
	// the next run's aliasing targets must point into this directory, not
	// into the live source tree, which may have moved on by then.
	persistedState := diff.NewState.WithLocation(destinationRoot.Location())

	if err := os.MkdirAll(config.MetadataDir(opts.DestinationLocation), 0o755); err != nil {
		return Result{}, fmt.Errorf("snapshot: create metadata dir: %w", err)
	}
	if err := snapstate.Save(statePath, persistedState); err != nil {
		return Result{}, fmt.Errorf("snapshot: save state: %w", err)
	}
	if err := config.SaveAlgorithm(opts.DestinationLocation, algorithm); err != nil {
		return Result{}, fmt.Errorf("snapshot: save algorithm: %w", err)
	}
	if err := advanceLatest(opts.Accessor, snapshotDirs, snapshotDir); err != nil {
		clog.Warn("could not advance latest link", "error", err)
	}

	clog.Info("snapshot run complete", "destination", snapshotDir)

	return Result{SnapshotDir: snapshotDir, Counts: diff.Counts, NewState: persistedState}, nil
}

func (e *Engine) execute(actions []copyplan.CopyAction, accessor fsaccess.FilesystemAccessor, algorithm string) error {
	bar := progress.New(len(actions), "materializing snapshot", !clog.Quiet() && isTerminal(os.Stdout))
	defer bar.Finish()

	return util.Parallel(actions, util.WorkerCount(), func(action copyplan.CopyAction) error {
		if _, err := action.Perform(accessor, algorithm); err != nil {
			return err
		}
		clog.Debug("action complete", "variant", action.Variant, "rel_path", action.RelPath)
		bar.Increment()
		return nil
	})
}

// isTerminal reports whether f is a character device rather than a pipe or
// redirected file, the standard stdlib-only way to detect an interactive
// terminal without reaching for a platform-specific tty library.
func isTerminal(f *os.File) bool {
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}

// advanceLatest points snapshotsDir/latest at the directory just produced.
// This is a convenience link outside the diffing/copyplan contract, and it
// needs a remove-then-replace that FilesystemAccessor has no primitive for;
// it runs through the real os package, and only against a real OSAccessor,
// so an in-memory-backed test run never touches the host filesystem.
func advanceLatest(accessor fsaccess.FilesystemAccessor, snapshotsDir, snapshotDir string) error {
	if _, ok := accessor.(*fsaccess.OSAccessor); !ok {
		return nil
	}

	latest := filepath.Join(snapshotsDir, config.LatestLinkName)
	tmp := latest + ".tmp"
	os.Remove(tmp)

	rel, err := filepath.Rel(snapshotsDir, snapshotDir)
	if err != nil {
		rel = snapshotDir
	}
	if err := os.Symlink(rel, tmp); err != nil {
		return fmt.Errorf("create latest symlink: %w", err)
	}
	return os.Rename(tmp, latest)
}
