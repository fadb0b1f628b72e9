package fsaccess

import (
	"bytes"
	"fmt"
	"io"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/copysnap/copysnap/internal/hashing"
	"github.com/copysnap/copysnap/internal/model"
)

// MemoryAccessor is a pure in-memory FilesystemAccessor for deterministic
// tests: no temp files, no real clock, no real symlinks. Paths are kept as
// forward-slash strings regardless of host OS.
type MemoryAccessor struct {
	mu       sync.Mutex
	files    map[string][]byte
	dirs     map[string]struct{}
	modTimes map[string]time.Time
	symlinks map[string]string // destination path -> source path
}

// NewMemoryAccessor returns an empty in-memory accessor.
func NewMemoryAccessor() *MemoryAccessor {
	return &MemoryAccessor{
		files:    make(map[string][]byte),
		dirs:     make(map[string]struct{}),
		modTimes: make(map[string]time.Time),
		symlinks: make(map[string]string),
	}
}

// PutFile seeds the fixture with a regular file's content and modification
// time, for use in test setup.
func (a *MemoryAccessor) PutFile(abs string, content []byte, modTime time.Time) {
	a.mu.Lock()
	defer a.mu.Unlock()
	clean := path.Clean(abs)
	a.files[clean] = append([]byte(nil), content...)
	a.modTimes[clean] = modTime
	a.markDirs(path.Dir(clean))
}

func (a *MemoryAccessor) markDirs(dir string) {
	for dir != "/" && dir != "." && dir != "" {
		a.dirs[dir] = struct{}{}
		dir = path.Dir(dir)
	}
}

// Symlink reports the recorded symlink target at abs, if any, for test
// assertions.
func (a *MemoryAccessor) Symlink(abs string) (string, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	src, ok := a.symlinks[path.Clean(abs)]
	return src, ok
}

func (a *MemoryAccessor) FindFiles(root model.Root) <-chan FileEvent {
	events := make(chan FileEvent)
	go func() {
		defer close(events)
		a.mu.Lock()
		prefix := path.Clean(root.PathToRootDir())
		var matches []string
		for p := range a.files {
			if p == prefix || strings.HasPrefix(p, prefix+"/") {
				matches = append(matches, p)
			}
		}
		a.mu.Unlock()

		for _, p := range matches {
			rel, err := root.Relativize(p)
			if err != nil {
				events <- FileEvent{Err: fmt.Errorf("relativize %q: %w", p, err)}
				continue
			}
			events <- FileEvent{Path: rel}
		}
	}()
	return events
}

func (a *MemoryAccessor) LastModifiedTime(abs string) (time.Time, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	resolved, err := a.resolveLocked(abs)
	if err != nil {
		return time.Time{}, err
	}
	t, ok := a.modTimes[resolved]
	if !ok {
		return time.Time{}, fmt.Errorf("memoryaccessor: no such file %q", abs)
	}
	return t, nil
}

func (a *MemoryAccessor) resolveLocked(abs string) (string, error) {
	p := path.Clean(abs)
	for hops := 0; hops < 32; hops++ {
		src, ok := a.symlinks[p]
		if !ok {
			return p, nil
		}
		p = path.Clean(src)
	}
	return "", fmt.Errorf("memoryaccessor: symlink chain too deep at %q", abs)
}

func (a *MemoryAccessor) content(abs string) ([]byte, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	resolved, err := a.resolveLocked(abs)
	if err != nil {
		return nil, err
	}
	data, ok := a.files[resolved]
	if !ok {
		return nil, fmt.Errorf("memoryaccessor: no such file %q", abs)
	}
	return data, nil
}

func (a *MemoryAccessor) ComputeChecksum(abs string, algorithm string) (model.Checksum, error) {
	data, err := a.content(abs)
	if err != nil {
		return model.Checksum{}, err
	}
	alg, err := hashing.ParseAlgorithm(algorithm)
	if err != nil {
		return model.Checksum{}, err
	}
	h, err := hashing.New(alg)
	if err != nil {
		return model.Checksum{}, err
	}
	h.Write(data)
	return model.NewChecksum(string(alg), h.Sum(nil)), nil
}

func (a *MemoryAccessor) ChecksumsEqual(expected model.Checksum, abs string) (bool, error) {
	current, err := a.ComputeChecksum(abs, expected.Algorithm)
	if err != nil {
		return false, err
	}
	return current.Equal(expected), nil
}

func (a *MemoryAccessor) Exists(abs string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	resolved, err := a.resolveLocked(abs)
	if err != nil {
		return false
	}
	if _, ok := a.files[resolved]; ok {
		return true
	}
	_, ok := a.dirs[resolved]
	return ok
}

func (a *MemoryAccessor) CreateDirectories(abs string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.markDirs(path.Clean(abs))
	a.dirs[path.Clean(abs)] = struct{}{}
	return nil
}

func (a *MemoryAccessor) OpenInputStream(abs string) (io.ReadCloser, error) {
	data, err := a.content(abs)
	if err != nil {
		return nil, err
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (a *MemoryAccessor) OpenOutputStream(abs string) (OutputStream, error) {
	clean := path.Clean(abs)
	a.mu.Lock()
	a.markDirs(path.Dir(clean))
	a.mu.Unlock()
	return &memOutputStream{accessor: a, dest: clean, buf: &bytes.Buffer{}}, nil
}

func (a *MemoryAccessor) CreateSymbolicLink(absDestination, absSource string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	dst := path.Clean(absDestination)
	a.markDirs(path.Dir(dst))
	a.symlinks[dst] = path.Clean(absSource)
	return nil
}

type memOutputStream struct {
	accessor *MemoryAccessor
	dest     string
	buf      *bytes.Buffer
	aborted  bool
}

func (m *memOutputStream) Write(p []byte) (int, error) {
	return m.buf.Write(p)
}

func (m *memOutputStream) Close() error {
	if m.aborted {
		return nil
	}
	m.accessor.mu.Lock()
	defer m.accessor.mu.Unlock()
	m.accessor.files[m.dest] = append([]byte(nil), m.buf.Bytes()...)
	m.accessor.modTimes[m.dest] = time.Time{}
	return nil
}

func (m *memOutputStream) Abort() error {
	m.aborted = true
	return nil
}
