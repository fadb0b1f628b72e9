// Package snapstate persists a model.FileSystemState to disk between runs.
// The core diffing and copyplan packages know nothing of persistence; this
// package is the concrete answer to spec.md's "FileSystemState persistence
// is out of scope" by giving it a JSON format and atomic write path.
package snapstate

import (
	"encoding/hex"
	"fmt"
	"os"
	"time"

	"github.com/copysnap/copysnap/internal/model"
	"github.com/copysnap/copysnap/internal/util"
)

// document is the on-disk shape of a FileSystemState. model.FileSystemState
// keeps its fields unexported to protect its invariants, so persistence
// goes through this DTO rather than marshaling the model type directly.
type document struct {
	Location string    `json:"location"`
	Files    []fileDoc `json:"files"`
}

type fileDoc struct {
	RelPath      string `json:"relPath"`
	LastModified int64  `json:"lastModifiedUnixNano"`
	Algorithm    string `json:"algorithm"`
	Digest       string `json:"digest"`
}

// Save writes state to path atomically. The parent directory of path must
// already exist; Save does not create it.
func Save(path string, state model.FileSystemState) error {
	doc := document{Location: state.Location()}
	for _, fs := range state.All() {
		doc.Files = append(doc.Files, fileDoc{
			RelPath:      fs.RelPath.String(),
			LastModified: fs.LastModified.UnixNano(),
			Algorithm:    fs.Checksum.Algorithm,
			Digest:       hex.EncodeToString(fs.Checksum.Digest),
		})
	}
	return util.WriteJSON(path, doc)
}

// Load reads the state previously saved at path. A missing file is reported
// via the returned error so callers can distinguish "no prior state" (first
// run) from a genuine read failure; use os.IsNotExist on the error to tell
// them apart.
func Load(path string) (model.FileSystemState, error) {
	var doc document
	if err := util.ReadJSON(path, &doc); err != nil {
		return model.FileSystemState{}, err
	}

	builder := model.NewFileSystemStateBuilder(doc.Location)
	for _, f := range doc.Files {
		digest, err := hex.DecodeString(f.Digest)
		if err != nil {
			return model.FileSystemState{}, fmt.Errorf("snapstate: decode digest for %q: %w", f.RelPath, err)
		}
		builder.Add(model.FileState{
			RelPath:      model.RelativePath(f.RelPath),
			LastModified: time.Unix(0, f.LastModified),
			Checksum:     model.NewChecksum(f.Algorithm, digest),
		})
	}
	return builder.Build(), nil
}

// LoadOrEmpty behaves like Load, but returns an empty state anchored at
// location instead of an error when no state has ever been saved at path.
func LoadOrEmpty(path, location string) (model.FileSystemState, error) {
	state, err := Load(path)
	if err != nil {
		if os.IsNotExist(err) {
			return model.EmptyState(location), nil
		}
		return model.FileSystemState{}, err
	}
	return state, nil
}
