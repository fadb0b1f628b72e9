package diffing_test

import (
	"testing"
	"time"

	"github.com/copysnap/copysnap/internal/diffing"
	"github.com/copysnap/copysnap/internal/fsaccess"
	"github.com/copysnap/copysnap/internal/model"
)

func TestService_Diff_NewFile(t *testing.T) {
	accessor := fsaccess.NewMemoryAccessor()
	accessor.PutFile("/x/y/z/r/a/f", []byte("content"), time.Unix(10, 0))

	root := model.RootFrom("/x/y/z", "r")
	prior := model.EmptyState("/p/q/rold")

	svc := diffing.NewService(accessor, "xxh3")
	diff, err := svc.Diff(root, prior)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	entry, ok := diff.Entries["r/a/f"]
	if !ok {
		t.Fatal("expected entry for r/a/f")
	}
	if entry.Classification != diffing.New {
		t.Errorf("Classification = %v, want New", entry.Classification)
	}
	if diff.Counts.NewOrChanged != 1 {
		t.Errorf("NewOrChanged = %d, want 1", diff.Counts.NewOrChanged)
	}
}

func TestService_Diff_UnchangedByMtime(t *testing.T) {
	accessor := fsaccess.NewMemoryAccessor()
	accessor.PutFile("/x/y/z/r/a/f", []byte("same"), time.Unix(10, 0))

	root := model.RootFrom("/x/y/z", "r")
	checksum, _ := accessor.ComputeChecksum("/x/y/z/r/a/f", "xxh3")
	prior := buildPriorState("/p/q/rold", model.FileState{
		RelPath: "r/a/f", LastModified: time.Unix(10, 0), Checksum: checksum,
	})

	svc := diffing.NewService(accessor, "xxh3")
	diff, err := svc.Diff(root, prior)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	entry := diff.Entries["r/a/f"]
	if entry.Classification != diffing.Unchanged {
		t.Errorf("Classification = %v, want Unchanged", entry.Classification)
	}
	if diff.Counts.UnchangedAliased != 1 {
		t.Errorf("UnchangedAliased = %d, want 1", diff.Counts.UnchangedAliased)
	}
}

func TestService_Diff_RemovedFile(t *testing.T) {
	accessor := fsaccess.NewMemoryAccessor()
	// Nothing currently on disk under the root.
	accessor.CreateDirectories("/x/y/z/r")

	root := model.RootFrom("/x/y/z", "r")
	prior := buildPriorState("/p/q/rold", model.FileState{
		RelPath: "r/a/f", LastModified: time.Unix(10, 0), Checksum: model.NewChecksum("xxh3", []byte{1}),
	})

	svc := diffing.NewService(accessor, "xxh3")
	diff, err := svc.Diff(root, prior)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	entry, ok := diff.Entries["r/a/f"]
	if !ok {
		t.Fatal("expected entry for removed path r/a/f")
	}
	if entry.Classification != diffing.Removed {
		t.Errorf("Classification = %v, want Removed", entry.Classification)
	}
	if diff.Counts.Removed != 1 {
		t.Errorf("Removed = %d, want 1", diff.Counts.Removed)
	}
}

func TestService_Diff_ChangedFile(t *testing.T) {
	accessor := fsaccess.NewMemoryAccessor()
	accessor.PutFile("/x/y/z/r/a/f", []byte("new content"), time.Unix(20, 0))

	root := model.RootFrom("/x/y/z", "r")
	prior := buildPriorState("/p/q/rold", model.FileState{
		RelPath: "r/a/f", LastModified: time.Unix(10, 0), Checksum: model.NewChecksum("xxh3", []byte{9, 9, 9}),
	})

	svc := diffing.NewService(accessor, "xxh3")
	diff, err := svc.Diff(root, prior)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	entry := diff.Entries["r/a/f"]
	if entry.Classification != diffing.Changed {
		t.Errorf("Classification = %v, want Changed", entry.Classification)
	}
}

func TestService_Diff_Deterministic(t *testing.T) {
	accessor := fsaccess.NewMemoryAccessor()
	accessor.PutFile("/x/y/z/r/a/f", []byte("content"), time.Unix(10, 0))
	accessor.PutFile("/x/y/z/r/b/g", []byte("content2"), time.Unix(11, 0))

	root := model.RootFrom("/x/y/z", "r")
	prior := model.EmptyState("/p/q/rold")
	svc := diffing.NewService(accessor, "xxh3")

	d1, err := svc.Diff(root, prior)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	d2, err := svc.Diff(root, prior)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d1.Counts != d2.Counts {
		t.Errorf("Counts differ across runs: %+v vs %+v", d1.Counts, d2.Counts)
	}
}

func buildPriorState(location string, states ...model.FileState) model.FileSystemState {
	b := model.NewFileSystemStateBuilder(location)
	for _, s := range states {
		b.Add(s)
	}
	return b.Build()
}
