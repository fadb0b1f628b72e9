package copyplan_test

import (
	"io"
	"testing"
	"time"

	"github.com/copysnap/copysnap/internal/diffing/copyplan"
	"github.com/copysnap/copysnap/internal/fsaccess"
)

func TestCopyAction_Perform_Plain(t *testing.T) {
	accessor := fsaccess.NewMemoryAccessor()
	accessor.PutFile("/src/r/a/f", []byte("hello"), time.Unix(5, 0))

	action := copyplan.CopyAction{
		Variant:             copyplan.Plain,
		SourceLocation:      "/src",
		DestinationLocation: "/dest",
		RelPath:             "r/a/f",
	}

	state, err := action.Perform(accessor, "xxh3")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if state.RelPath != "r/a/f" {
		t.Errorf("RelPath = %q, want r/a/f", state.RelPath)
	}

	rc, err := accessor.OpenInputStream("/dest/r/a/f")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer rc.Close()
	data, _ := io.ReadAll(rc)
	if string(data) != "hello" {
		t.Errorf("copied content = %q, want %q", data, "hello")
	}
}

func TestCopyAction_Perform_Symlink(t *testing.T) {
	accessor := fsaccess.NewMemoryAccessor()
	accessor.PutFile("/prior/r/a/f", []byte("unchanged"), time.Unix(5, 0))

	action := copyplan.CopyAction{
		Variant:             copyplan.Symlink,
		SourceLocation:      "/prior",
		DestinationLocation: "/dest",
		RelPath:             "r/a/f",
	}

	state, err := action.Perform(accessor, "xxh3")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if state.RelPath != "" {
		t.Errorf("Symlink action returned non-zero FileState %+v, want zero value", state)
	}

	target, ok := accessor.Symlink("/dest/r/a/f")
	if !ok {
		t.Fatal("expected symlink recorded at destination")
	}
	if target != "/prior/r/a/f" {
		t.Errorf("symlink target = %q, want /prior/r/a/f", target)
	}
}
