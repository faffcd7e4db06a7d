package logging

import (
	"io"
	"log/slog"
	"os"

	"golang.org/x/term"
)

// SetupOptions configures Setup.
type SetupOptions struct {
	Level slog.Level

	// ConsoleWriter receives human-readable output; defaults to stderr.
	ConsoleWriter io.Writer

	// ConsoleJSON switches the console handler to JSON records, for runs
	// whose output is captured rather than read.
	ConsoleJSON bool

	// LogWriter optionally receives the same records as JSON, for
	// machine consumption.
	LogWriter io.Writer

	// RunID tags every record of this run.
	RunID string
}

// Setup installs the default slog logger for one analysis run: a text
// handler on the console, plus an optional JSON handler fanned out through
// a MultiHandler when a log writer is given.
func Setup(opts SetupOptions) {
	console := opts.ConsoleWriter
	if console == nil {
		console = os.Stderr
	}

	var consoleHandler slog.Handler
	if opts.ConsoleJSON {
		consoleHandler = slog.NewJSONHandler(console, &slog.HandlerOptions{Level: opts.Level})
	} else {
		consoleHandler = slog.NewTextHandler(console, &slog.HandlerOptions{Level: opts.Level})
	}
	handlers := []slog.Handler{consoleHandler}
	if opts.LogWriter != nil {
		handlers = append(handlers, slog.NewJSONHandler(opts.LogWriter, &slog.HandlerOptions{Level: opts.Level}))
	}

	var handler slog.Handler
	if len(handlers) == 1 {
		handler = handlers[0]
	} else {
		handler = NewMultiHandler(handlers...)
	}

	logger := slog.New(handler)
	if opts.RunID != "" {
		logger = logger.With("run_id", opts.RunID)
	}
	slog.SetDefault(logger)
}

// IsInteractive reports whether both stdout and stderr are connected to a
// terminal, which is when colored, human-oriented output makes sense.
func IsInteractive() bool {
	return term.IsTerminal(int(os.Stdout.Fd())) && term.IsTerminal(int(os.Stderr.Fd()))
}
