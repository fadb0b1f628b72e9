// Package util holds small generic helpers shared by the snapshot
// orchestrator, config, and state-persistence layers: atomic JSON persistence and a
// bounded worker-pool helper for per-file work.
package util

import (
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"sync"
)

// WriteJSON marshals v and writes it to path atomically: the data lands in
// a temp file beside path first, and only an fsync'd rename makes it visible
// under the final name, so a reader never observes a half-written file and a
// crash mid-write never corrupts the previous contents.
var WriteJSON = func(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "tmp-*.json")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	return os.Rename(tmpPath, path)
}

// ReadJSON reads path and unmarshals its contents into v.
var ReadJSON = func(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}

// SortedKeys returns the keys of a string-keyed map in alphabetical order,
// for output that must not vary run to run with Go's randomized map
// iteration.
func SortedKeys[M ~map[string]V, V any](m M) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// WorkerCount returns a sensible default worker pool size for per-file
// classification and copy work.
func WorkerCount() int {
	return min(runtime.NumCPU(), 8)
}

// Parallel runs fn once for every element of inputs, at most workerLimit
// invocations at a time, and returns the first error encountered once every
// invocation has completed.
func Parallel[T any](inputs []T, workerLimit int, fn func(T) error) error {
	if len(inputs) == 0 {
		return nil
	}
	if workerLimit <= 0 {
		workerLimit = 1
	}

	sem := make(chan struct{}, workerLimit)
	errCh := make(chan error, len(inputs))
	var wg sync.WaitGroup

	for _, in := range inputs {
		sem <- struct{}{}
		wg.Add(1)
		go func(x T) {
			defer wg.Done()
			defer func() { <-sem }()
			if err := fn(x); err != nil {
				errCh <- err
			}
		}(in)
	}

	wg.Wait()
	close(errCh)

	for err := range errCh {
		return err
	}
	return nil
}
