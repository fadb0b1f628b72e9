package cli

import (
	"fmt"

	"github.com/copysnap/copysnap/internal/snapshot"
)

// SnapshotCommand runs one incremental snapshot with options already
// resolved from flags by the caller.
type SnapshotCommand struct {
	Engine  *snapshot.Engine
	Options snapshot.Options
}

func (c *SnapshotCommand) Name() string { return "snapshot" }

func (c *SnapshotCommand) Brief() string {
	return "record an incremental snapshot of the source tree"
}

func (c *SnapshotCommand) Usage() string {
	return "copysnap snapshot -source <dir> -destination <dir> [-algorithm xxh3|sha256]"
}

func (c *SnapshotCommand) Run(ctx *Context) error {
	result, err := c.Engine.Run(c.Options)
	if err != nil {
		return err
	}
	fmt.Printf("snapshot written to %s\n", result.SnapshotDir)
	fmt.Printf("new/changed: %d  aliased: %d  removed: %d  errors: %d\n",
		result.Counts.NewOrChanged, result.Counts.UnchangedAliased,
		result.Counts.Removed, result.Counts.Errors)
	return nil
}
