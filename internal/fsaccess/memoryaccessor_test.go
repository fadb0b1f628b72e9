package fsaccess_test

import (
	"io"
	"testing"
	"time"

	"github.com/copysnap/copysnap/internal/fsaccess"
	"github.com/copysnap/copysnap/internal/model"
)

func TestMemoryAccessor_FindFiles(t *testing.T) {
	a := fsaccess.NewMemoryAccessor()
	a.PutFile("/r/a/f1", []byte("x"), time.Unix(0, 0))
	a.PutFile("/r/a/b/f2", []byte("y"), time.Unix(0, 0))
	a.PutFile("/other/f3", []byte("z"), time.Unix(0, 0))

	root := model.RootFrom("/", "r")
	seen := map[model.RelativePath]bool{}
	for ev := range a.FindFiles(root) {
		if ev.Err != nil {
			t.Fatalf("unexpected error: %v", ev.Err)
		}
		seen[ev.Path] = true
	}

	if len(seen) != 2 {
		t.Fatalf("got %d files, want 2: %v", len(seen), seen)
	}
	if !seen["r/a/f1"] || !seen["r/a/b/f2"] {
		t.Errorf("missing expected entries, got %v", seen)
	}
}

func TestMemoryAccessor_ChecksumsEqual(t *testing.T) {
	a := fsaccess.NewMemoryAccessor()
	a.PutFile("/r/a", []byte("same"), time.Unix(0, 0))
	a.PutFile("/r/b", []byte("same"), time.Unix(0, 0))
	a.PutFile("/r/c", []byte("different"), time.Unix(0, 0))

	checksumB, err := a.ComputeChecksum("/r/b", "xxh3")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	eq, err := a.ChecksumsEqual(checksumB, "/r/a")
	if err != nil || !eq {
		t.Errorf("ChecksumsEqual(checksum of b, a) = (%v, %v), want (true, nil)", eq, err)
	}

	checksumC, err := a.ComputeChecksum("/r/c", "xxh3")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	eq, err = a.ChecksumsEqual(checksumC, "/r/a")
	if err != nil || eq {
		t.Errorf("ChecksumsEqual(checksum of c, a) = (%v, %v), want (false, nil)", eq, err)
	}
}

func TestMemoryAccessor_SymlinkResolution(t *testing.T) {
	a := fsaccess.NewMemoryAccessor()
	a.PutFile("/prior/r/a", []byte("content"), time.Unix(5, 0))

	if err := a.CreateSymbolicLink("/cur/r/a", "/prior/r/a"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	rc, err := a.OpenInputStream("/cur/r/a")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer rc.Close()
	data, _ := io.ReadAll(rc)
	if string(data) != "content" {
		t.Errorf("got %q, want %q", data, "content")
	}

	mt, err := a.LastModifiedTime("/cur/r/a")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !mt.Equal(time.Unix(5, 0)) {
		t.Errorf("LastModifiedTime() = %v, want %v", mt, time.Unix(5, 0))
	}
}

func TestMemoryAccessor_OutputStreamCommitsOnClose(t *testing.T) {
	a := fsaccess.NewMemoryAccessor()
	out, err := a.OpenOutputStream("/r/new/f")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out.Write([]byte("payload"))
	if err := out.Close(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	rc, err := a.OpenInputStream("/r/new/f")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer rc.Close()
	data, _ := io.ReadAll(rc)
	if string(data) != "payload" {
		t.Errorf("got %q, want %q", data, "payload")
	}
}

func TestMemoryAccessor_OutputStreamAbortDiscards(t *testing.T) {
	a := fsaccess.NewMemoryAccessor()
	out, err := a.OpenOutputStream("/r/aborted/f")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out.Write([]byte("never committed"))
	if err := out.Abort(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if a.Exists("/r/aborted/f") {
		t.Error("expected aborted output to not exist")
	}
}
