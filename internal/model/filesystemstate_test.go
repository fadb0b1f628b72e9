package model_test

import (
	"testing"
	"time"

	"github.com/copysnap/copysnap/internal/model"
)

func TestFileSystemStateBuilder_BuildAndGet(t *testing.T) {
	b := model.NewFileSystemStateBuilder("/p/q/rold")
	fs := model.FileState{
		RelPath:      "r/a/b/c/f",
		LastModified: time.Unix(0, 0),
		Checksum:     model.NewChecksum("xxh3", []byte{1, 2, 3}),
	}
	b.Add(fs)

	state := b.Build()
	if state.Location() != "/p/q/rold" {
		t.Errorf("Location() = %q, want /p/q/rold", state.Location())
	}
	if state.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", state.Len())
	}

	got, ok := state.Get("r/a/b/c/f")
	if !ok {
		t.Fatal("expected entry to be present")
	}
	if !got.Equal(fs) {
		t.Errorf("Get() = %+v, want %+v", got, fs)
	}

	if _, ok := state.Get("does/not/exist"); ok {
		t.Error("expected missing path to be absent")
	}
}

func TestFileSystemStateBuilder_DuplicateOverwrites(t *testing.T) {
	b := model.NewFileSystemStateBuilder("/root")
	older := model.FileState{RelPath: "r/f", LastModified: time.Unix(0, 0), Checksum: model.NewChecksum("xxh3", []byte{1})}
	newer := model.FileState{RelPath: "r/f", LastModified: time.Unix(1, 0), Checksum: model.NewChecksum("xxh3", []byte{2})}

	b.Add(older)
	b.Add(newer)

	state := b.Build()
	if state.Len() != 1 {
		t.Fatalf("Len() = %d, want 1 (pairwise-unique relPath invariant)", state.Len())
	}
	got, _ := state.Get("r/f")
	if !got.Equal(newer) {
		t.Errorf("Get() = %+v, want the latest add %+v", got, newer)
	}
}

func TestEmptyState(t *testing.T) {
	state := model.EmptyState("/root")
	if state.Len() != 0 {
		t.Errorf("Len() = %d, want 0", state.Len())
	}
	if len(state.Paths()) != 0 {
		t.Errorf("Paths() = %v, want empty", state.Paths())
	}
}
