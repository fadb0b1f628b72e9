// Package cli wires CopySnap's subcommands behind a small registry, the way
// a multi-command CLI binary typically dispatches: one Command
// implementation per subcommand, looked up by name from os.Args[1].
package cli

import "context"

// Context carries the arguments remaining after the subcommand name and a
// cancelable context tied to process signals.
type Context struct {
	Ctx  context.Context
	Args []string
}

// Command is one CopySnap subcommand.
type Command interface {
	Name() string
	Brief() string
	Usage() string
	Run(ctx *Context) error
}
