package fsaccess

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/exp/mmap"

	"github.com/copysnap/copysnap/internal/hashing"
	"github.com/copysnap/copysnap/internal/model"
)

// mmapThreshold is the file size at or above which ComputeChecksum reads via a
// memory-mapped reader instead of a buffered stream. Below it, mmap's setup
// cost outweighs the benefit.
const mmapThreshold = 8 << 20 // 8 MiB

// OSAccessor is the production FilesystemAccessor, backed by the real
// filesystem through the standard library.
type OSAccessor struct{}

// NewOSAccessor returns an accessor backed by the real filesystem.
func NewOSAccessor() *OSAccessor {
	return &OSAccessor{}
}

func (a *OSAccessor) FindFiles(root model.Root) <-chan FileEvent {
	events := make(chan FileEvent)
	go func() {
		defer close(events)
		rootPath := root.PathToRootDir()
		err := filepath.Walk(rootPath, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				events <- FileEvent{Err: fmt.Errorf("walk %q: %w", path, err)}
				return nil
			}
			if info.IsDir() {
				return nil
			}
			if !info.Mode().IsRegular() {
				return nil
			}
			rel, relErr := root.Relativize(path)
			if relErr != nil {
				events <- FileEvent{Err: fmt.Errorf("relativize %q: %w", path, relErr)}
				return nil
			}
			events <- FileEvent{Path: rel}
			return nil
		})
		if err != nil {
			events <- FileEvent{Err: fmt.Errorf("walk %q: %w", rootPath, err)}
		}
	}()
	return events
}

func (a *OSAccessor) LastModifiedTime(abs string) (time.Time, error) {
	info, err := os.Stat(abs)
	if err != nil {
		return time.Time{}, err
	}
	return info.ModTime(), nil
}

func (a *OSAccessor) ComputeChecksum(abs string, algorithm string) (model.Checksum, error) {
	alg, err := hashing.ParseAlgorithm(algorithm)
	if err != nil {
		return model.Checksum{}, err
	}
	h, err := hashing.New(alg)
	if err != nil {
		return model.Checksum{}, err
	}
	if err := hashFile(abs, h); err != nil {
		return model.Checksum{}, err
	}
	return model.NewChecksum(string(alg), h.Sum(nil)), nil
}

func (a *OSAccessor) ChecksumsEqual(expected model.Checksum, abs string) (bool, error) {
	current, err := a.ComputeChecksum(abs, expected.Algorithm)
	if err != nil {
		return false, err
	}
	return current.Equal(expected), nil
}

func (a *OSAccessor) Exists(abs string) bool {
	_, err := os.Stat(abs)
	return err == nil
}

func (a *OSAccessor) CreateDirectories(abs string) error {
	return os.MkdirAll(abs, 0o755)
}

func (a *OSAccessor) OpenInputStream(abs string) (io.ReadCloser, error) {
	return os.Open(abs)
}

func (a *OSAccessor) OpenOutputStream(abs string) (OutputStream, error) {
	if err := a.CreateDirectories(filepath.Dir(abs)); err != nil {
		return nil, fmt.Errorf("create parent dirs for %q: %w", abs, err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(abs), ".copysnap-tmp-*")
	if err != nil {
		return nil, fmt.Errorf("create temp file for %q: %w", abs, err)
	}
	return &osOutputStream{file: tmp, dest: abs}, nil
}

func (a *OSAccessor) CreateSymbolicLink(absDestination, absSource string) error {
	if err := a.CreateDirectories(filepath.Dir(absDestination)); err != nil {
		return fmt.Errorf("create parent dirs for %q: %w", absDestination, err)
	}
	return os.Symlink(absSource, absDestination)
}

// osOutputStream buffers a write to a temp file beside the destination and
// renames it into place on Close, so a reader never observes a partially
// written file and a failed copy never corrupts an existing one.
type osOutputStream struct {
	file *os.File
	dest string
}

func (o *osOutputStream) Write(p []byte) (int, error) {
	return o.file.Write(p)
}

func (o *osOutputStream) Close() error {
	if err := o.file.Close(); err != nil {
		os.Remove(o.file.Name())
		return err
	}
	return os.Rename(o.file.Name(), o.dest)
}

func (o *osOutputStream) Abort() error {
	name := o.file.Name()
	o.file.Close()
	return os.Remove(name)
}

func hashFile(abs string, w io.Writer) error {
	info, err := os.Stat(abs)
	if err != nil {
		return err
	}
	if info.Size() < mmapThreshold {
		f, err := os.Open(abs)
		if err != nil {
			return err
		}
		defer f.Close()
		_, err = io.Copy(w, f)
		return err
	}
	r, err := mmap.Open(abs)
	if err != nil {
		return err
	}
	defer r.Close()
	return hashMmap(r, w)
}

func hashMmap(r *mmap.ReaderAt, w io.Writer) error {
	const chunk = 4 << 20
	buf := make([]byte, chunk)
	var offset int64
	for offset < int64(r.Len()) {
		n, err := r.ReadAt(buf, offset)
		if n > 0 {
			if _, werr := w.Write(buf[:n]); werr != nil {
				return werr
			}
			offset += int64(n)
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return err
		}
	}
	return nil
}
