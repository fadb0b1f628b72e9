package util_test

import (
	"path/filepath"
	"testing"

	"github.com/copysnap/copysnap/internal/util"
)

type record struct {
	Name string `json:"name"`
	N    int    `json:"n"`
}

func TestWriteJSON_ReadJSON_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	want := record{Name: "r", N: 7}

	if err := util.WriteJSON(path, want); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var got record
	if err := util.ReadJSON(path, &got); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != want {
		t.Errorf("ReadJSON() = %+v, want %+v", got, want)
	}
}

func TestSortedKeys(t *testing.T) {
	m := map[string]int{"c": 3, "a": 1, "b": 2}
	got := util.SortedKeys(m)
	want := []string{"a", "b", "c"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("SortedKeys()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestParallel_CollectsError(t *testing.T) {
	inputs := []int{1, 2, 3, 4}
	err := util.Parallel(inputs, 2, func(n int) error {
		if n == 3 {
			return errBoom
		}
		return nil
	})
	if err != errBoom {
		t.Errorf("Parallel() = %v, want errBoom", err)
	}
}

func TestParallel_EmptyInput(t *testing.T) {
	called := false
	err := util.Parallel([]int{}, 4, func(int) error {
		called = true
		return nil
	})
	if err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if called {
		t.Error("fn should not be called for empty input")
	}
}

var errBoom = &testError{"boom"}

type testError struct{ msg string }

func (e *testError) Error() string { return e.msg }
