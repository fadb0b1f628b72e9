package config

// Layout of the metadata CopySnap keeps beside the snapshots it produces.
const (
	// MetadataDirName is the directory, created inside the destination
	// root beside SnapshotsDirName, holding the recorded FileSystemState and
	// run config.
	MetadataDirName = ".copysnap"
	// StateFileName holds the most recently recorded FileSystemState as JSON.
	StateFileName = "state.json"
	// ConfigFileName holds persisted run settings (currently just the
	// selected checksum algorithm), read back on the next run.
	ConfigFileName = "config.json"
	// SnapshotsDirName holds one timestamped directory per completed run.
	SnapshotsDirName = "snapshots"
	// LatestLinkName is a symlink inside SnapshotsDirName pointing at the
	// most recently completed snapshot directory.
	LatestLinkName = "latest"
)

// SnapshotTimestampLayout formats the timestamped directory name for one run.
const SnapshotTimestampLayout = "20060102-150405"
