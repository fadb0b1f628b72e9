// Command copysnap records incremental, content-addressed snapshots of a
// directory tree, aliasing unchanged subtrees with symlinks instead of
// recopying them.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/copysnap/copysnap/internal/cli"
	"github.com/copysnap/copysnap/internal/clog"
	"github.com/copysnap/copysnap/internal/fsaccess"
	"github.com/copysnap/copysnap/internal/hashing"
	"github.com/copysnap/copysnap/internal/model"
	"github.com/copysnap/copysnap/internal/snapshot"
)

const appName = "copysnap"

// version is overridable at build time: go build -ldflags="-X main.version=1.2.3".
var version = "dev"

func init() {
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s <snapshot|list> [flags]\n\n", appName)
		fmt.Fprintf(flag.CommandLine.Output(), "Record or inspect incremental snapshots of a directory tree.\n\n")
		flag.PrintDefaults()
	}
}

func run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		flag.Usage()
		return fmt.Errorf("missing subcommand")
	}

	subcommand := args[0]
	fs := flag.NewFlagSet(subcommand, flag.ContinueOnError)
	sourceFlag := fs.String("source", "", "Source directory to snapshot")
	destFlag := fs.String("destination", "", "Directory under which snapshots and metadata are kept")
	algorithmFlag := fs.String("algorithm", "", "Checksum algorithm to use: 'xxh3' or 'sha256' (defaults to the destination's persisted choice)")
	quietFlag := fs.Bool("quiet", false, "Suppress informational output")
	verboseFlag := fs.Bool("verbose", false, "Emit debug-level output")
	if err := fs.Parse(args[1:]); err != nil {
		return err
	}

	clog.SetQuiet(*quietFlag)
	clog.SetVerbose(*verboseFlag)

	usedFlags := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { usedFlags[f.Name] = true })

	if *destFlag == "" {
		return fmt.Errorf("the -destination flag is required")
	}

	switch subcommand {
	case "snapshot":
		if *sourceFlag == "" {
			return fmt.Errorf("the -source flag is required for snapshot")
		}
		root, err := model.NewRoot(*sourceFlag)
		if err != nil {
			return fmt.Errorf("invalid -source: %w", err)
		}

		var algorithm hashing.Algorithm
		if usedFlags["algorithm"] {
			algorithm, err = hashing.ParseAlgorithm(*algorithmFlag)
			if err != nil {
				return fmt.Errorf("invalid -algorithm: %w", err)
			}
		}

		cmd := cli.ApplyMiddlewares(&cli.SnapshotCommand{
			Engine: snapshot.NewEngine(),
			Options: snapshot.Options{
				SourceRoot:          root,
				DestinationLocation: *destFlag,
				Algorithm:           algorithm,
				Accessor:            fsaccess.NewOSAccessor(),
				Now:                 time.Now(),
			},
		}, cli.WithTiming())
		cli.RegisterCommand(cmd)
	case "list":
		cli.RegisterCommand(&cli.ListCommand{DestinationLocation: *destFlag})
	default:
		flag.Usage()
		return fmt.Errorf("unknown subcommand %q", subcommand)
	}

	cmd, ok := cli.GetCommand(subcommand)
	if !ok {
		return fmt.Errorf("internal error: command %q not registered", subcommand)
	}
	return cmd.Run(&cli.Context{Ctx: ctx, Args: fs.Args()})
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt)
	go func() {
		<-sigChan
		cancel()
	}()

	if err := run(ctx, os.Args[1:]); err != nil {
		clog.Error(appName+" exited with error", "error", err)
		os.Exit(1)
	}
}
