// Package config resolves the settings a snapshot run needs: which checksum
// algorithm to use, and where a run's metadata lives relative to its
// destination.
package config

import (
	"path/filepath"

	"github.com/copysnap/copysnap/internal/hashing"
	"github.com/copysnap/copysnap/internal/util"
)

// DefaultAlgorithm is used when no prior run has persisted a different
// choice.
const DefaultAlgorithm = hashing.XXH3

// Settings is the small set of choices a snapshot run persists alongside
// its destination so the next run against the same destination reuses them
// without the caller having to repeat them on the command line.
type Settings struct {
	Algorithm string `json:"algorithm"`
}

// MetadataDir returns the path to the metadata directory for a destination
// root, e.g. "/snaps/project" -> "/snaps/project/.copysnap".
func MetadataDir(destinationLocation string) string {
	return filepath.Join(destinationLocation, MetadataDirName)
}

// StatePath returns the path to the recorded FileSystemState for a
// destination root.
func StatePath(destinationLocation string) string {
	return filepath.Join(MetadataDir(destinationLocation), StateFileName)
}

// SnapshotsDir returns the path under which this destination's timestamped
// snapshot directories and "latest" link live.
func SnapshotsDir(destinationLocation string) string {
	return filepath.Join(destinationLocation, SnapshotsDirName)
}

// SelectedAlgorithm returns the checksum algorithm persisted for a
// destination, falling back to DefaultAlgorithm if no settings file exists
// or it names an algorithm this build does not recognize.
func SelectedAlgorithm(destinationLocation string) hashing.Algorithm {
	cfgPath := filepath.Join(MetadataDir(destinationLocation), ConfigFileName)

	var settings Settings
	if err := util.ReadJSON(cfgPath, &settings); err != nil {
		return DefaultAlgorithm
	}
	alg, err := hashing.ParseAlgorithm(settings.Algorithm)
	if err != nil {
		return DefaultAlgorithm
	}
	return alg
}

// SaveAlgorithm persists the checksum algorithm choice for a destination so
// subsequent runs against it default to the same algorithm.
func SaveAlgorithm(destinationLocation string, algorithm hashing.Algorithm) error {
	cfgPath := filepath.Join(MetadataDir(destinationLocation), ConfigFileName)
	return util.WriteJSON(cfgPath, Settings{Algorithm: string(algorithm)})
}
