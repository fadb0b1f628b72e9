package cli

import (
	"time"

	"github.com/copysnap/copysnap/internal/clog"
)

// Middleware wraps a Command to add cross-cutting behavior around Run.
type Middleware func(Command) Command

// WrappedCommand delegates Name/Brief/Usage to the embedded Command and
// replaces Run with Wrap.
type WrappedCommand struct {
	Command
	Wrap func(ctx *Context) error
}

func (w *WrappedCommand) Run(ctx *Context) error {
	if w.Wrap != nil {
		return w.Wrap(ctx)
	}
	return w.Command.Run(ctx)
}

// ApplyMiddlewares wraps a command with any number of middlewares, applied
// in the order given.
func ApplyMiddlewares(cmd Command, mws ...Middleware) Command {
	for _, mw := range mws {
		cmd = mw(cmd)
	}
	return cmd
}

// WithTiming logs how long the wrapped command's Run took, at info level on
// success and error level on failure.
func WithTiming() Middleware {
	return func(cmd Command) Command {
		return &WrappedCommand{
			Command: cmd,
			Wrap: func(ctx *Context) error {
				start := time.Now()
				err := cmd.Run(ctx)
				duration := time.Since(start).Round(time.Millisecond)
				if err != nil {
					clog.Error(cmd.Name()+" failed", "duration", duration, "error", err)
					return err
				}
				clog.Info(cmd.Name()+" finished", "duration", duration)
				return nil
			},
		}
	}
}
