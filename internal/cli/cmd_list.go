package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/copysnap/copysnap/internal/config"
)

// ListCommand prints every timestamped snapshot directory recorded under a
// destination, marking whichever one "latest" currently points at.
type ListCommand struct {
	DestinationLocation string
}

func (c *ListCommand) Name() string  { return "list" }
func (c *ListCommand) Brief() string { return "list recorded snapshots for a destination" }
func (c *ListCommand) Usage() string { return "copysnap list -destination <dir>" }

func (c *ListCommand) Run(ctx *Context) error {
	dir := config.SnapshotsDir(c.DestinationLocation)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			fmt.Println("no snapshots recorded yet")
			return nil
		}
		return fmt.Errorf("list: read snapshots dir: %w", err)
	}

	latestTarget := ""
	if target, err := os.Readlink(filepath.Join(dir, config.LatestLinkName)); err == nil {
		latestTarget = filepath.Base(target)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.Name() == config.LatestLinkName {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)

	if len(names) == 0 {
		fmt.Println("no snapshots recorded yet")
		return nil
	}
	for _, name := range names {
		marker := ""
		if name == latestTarget {
			marker = "  (latest)"
		}
		fmt.Printf("%s%s\n", name, marker)
	}
	return nil
}
