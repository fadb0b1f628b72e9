// Package clog is the logger every CopySnap component reaches for. INFO
// goes to stdout so normal run output stays pipeable; WARN and ERROR go to
// stderr so they surface even when stdout is redirected.
package clog

import (
	"context"
	"io"
	"log/slog"
	"os"
	"sync"
	"sync/atomic"
)

// levelDispatchHandler is a slog.Handler that routes a record to one of two
// underlying handlers based on its level.
type levelDispatchHandler struct {
	stdout slog.Handler
	stderr slog.Handler
}

func (h *levelDispatchHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.stdout.Enabled(ctx, level) || h.stderr.Enabled(ctx, level)
}

func (h *levelDispatchHandler) Handle(ctx context.Context, r slog.Record) error {
	if r.Level >= slog.LevelWarn {
		return h.stderr.Handle(ctx, r)
	}
	return h.stdout.Handle(ctx, r)
}

func (h *levelDispatchHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &levelDispatchHandler{
		stdout: h.stdout.WithAttrs(attrs),
		stderr: h.stderr.WithAttrs(attrs),
	}
}

func (h *levelDispatchHandler) WithGroup(name string) slog.Handler {
	return &levelDispatchHandler{
		stdout: h.stdout.WithGroup(name),
		stderr: h.stderr.WithGroup(name),
	}
}

var (
	logger  *slog.Logger
	quiet   atomic.Bool
	verbose atomic.Bool

	mu            sync.Mutex
	currentStdout io.Writer = os.Stdout
	currentStderr io.Writer = os.Stderr
)

func init() {
	reset(currentStdout, currentStderr)
}

// reset rebuilds the logger from the current output streams and the current
// verbosity, so a SetVerbose call takes effect immediately rather than only
// on the next SetOutput.
func reset(stdout, stderr io.Writer) {
	mu.Lock()
	currentStdout, currentStderr = stdout, stderr
	mu.Unlock()

	stdoutLevel := slog.LevelInfo
	if verbose.Load() {
		stdoutLevel = slog.LevelDebug
	}
	stdoutHandler := slog.NewTextHandler(stdout, &slog.HandlerOptions{Level: stdoutLevel})
	stderrHandler := slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: slog.LevelWarn})
	logger = slog.New(&levelDispatchHandler{stdout: stdoutHandler, stderr: stderrHandler})
}

// SetOutput redirects both streams to w, primarily for tests that want to
// capture and assert on log output.
func SetOutput(w io.Writer) {
	quiet.Store(false)
	reset(w, w)
}

// SetQuiet suppresses INFO output; WARN and ERROR are never suppressed.
func SetQuiet(q bool) {
	quiet.Store(q)
}

// Quiet reports whether quiet mode is currently active, for callers (like
// the snapshot engine, which disables its progress reporter) that need to
// suppress their own output alongside INFO logging.
func Quiet() bool {
	return quiet.Load()
}

// SetVerbose enables DEBUG-level output in addition to INFO/WARN/ERROR,
// rebuilding the stdout handler at slog.LevelDebug so Debug calls actually
// reach it.
func SetVerbose(v bool) {
	verbose.Store(v)
	mu.Lock()
	stdout, stderr := currentStdout, currentStderr
	mu.Unlock()
	reset(stdout, stderr)
}

// Debug logs a debug-level message. Suppressed unless SetVerbose(true) was
// called.
func Debug(msg string, args ...any) {
	if !verbose.Load() {
		return
	}
	logger.Debug(msg, args...)
}

// Info logs an informational message, e.g. per-run progress milestones.
func Info(msg string, args ...any) {
	if quiet.Load() {
		return
	}
	logger.Info(msg, args...)
}

// Warn logs a recoverable problem, e.g. a failure to advance the "latest"
// link after an otherwise successful run.
func Warn(msg string, args ...any) {
	logger.Warn(msg, args...)
}

// Error logs a fatal or near-fatal failure.
func Error(msg string, args ...any) {
	logger.Error(msg, args...)
}
