// Package debug gates diagnostic output behind TASKFLOW_DEBUG and the
// --verbose flag.
package debug

import (
	"fmt"
	"log/slog"
	"os"
)

var enabled = os.Getenv("TASKFLOW_DEBUG") != ""

func init() {
	configureLogger()
}

// Enabled reports whether debug output is active.
func Enabled() bool {
	return enabled
}

// SetVerbose turns debug output on from the --verbose flag.
func SetVerbose(verbose bool) {
	if verbose {
		enabled = true
	}
	configureLogger()
}

// configureLogger installs a text slog handler on stderr. Debug level is
// only emitted when debug output is active.
func configureLogger() {
	level := slog.LevelInfo
	if enabled {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})))
}

// Logf emits a debug-level message when debug output is active.
func Logf(format string, args ...any) {
	if enabled {
		slog.Debug(fmt.Sprintf(format, args...))
	}
}
