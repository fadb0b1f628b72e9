package model_test

import (
	"testing"

	"github.com/copysnap/copysnap/internal/model"
)

func TestNewRoot(t *testing.T) {
	r, err := model.NewRoot("/x/y/z/r")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got, want := r.Location(), "/x/y/z"; got != want {
		t.Errorf("Location() = %q, want %q", got, want)
	}
	if got, want := r.RootDirName(), "r"; got != want {
		t.Errorf("RootDirName() = %q, want %q", got, want)
	}
	if got, want := r.PathToRootDir(), "/x/y/z/r"; got != want {
		t.Errorf("PathToRootDir() = %q, want %q", got, want)
	}
}

func TestNewRoot_RejectsRelative(t *testing.T) {
	if _, err := model.NewRoot("x/y/z/r"); err == nil {
		t.Fatal("expected error for relative path")
	}
}

func TestRoot_ResolveAndRelativize(t *testing.T) {
	r := model.RootFrom("/x/y/z", "r")

	abs := r.Resolve("r/a/b/c/f")
	if want := "/x/y/z/r/a/b/c/f"; abs != want {
		t.Errorf("Resolve() = %q, want %q", abs, want)
	}

	rel, err := r.Relativize(abs)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := model.RelativePath("r/a/b/c/f"); rel != want {
		t.Errorf("Relativize() = %q, want %q", rel, want)
	}
}

func TestRoot_RelativizeOutsideLocation(t *testing.T) {
	r := model.RootFrom("/x/y/z", "r")
	if _, err := r.Relativize("/other/path"); err == nil {
		t.Fatal("expected error for path outside root location")
	}
}
