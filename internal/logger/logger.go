package logger

import (
	"os"
	"path/filepath"

	"github.com/fatih/color" // Colored console output for the user-facing progress stream
	"github.com/rs/zerolog"  // Structured JSON run log persisted to disk
)

// Define colorized printing functions for different log levels using fatih/color.
// These are package-level variables holding functions that behave like fmt.Printf,
// but with text colored appropriately for the log level. Every message carries a
// severity prefix ([INFO], [WARN], ...) so a partially-failed run stays legible
// even when the output is piped somewhere that strips colors.

// Info logs informational messages in green color.
var Info = color.New(color.FgGreen).PrintfFunc()

// Ok logs success confirmations in bright green color, used when a stage or
// task finishes cleanly so completion lines stand out from plain progress.
var Ok = color.New(color.FgHiGreen).PrintfFunc()

// Warn logs warning messages in bright magenta color.
// Warnings cover degraded-but-continuing conditions, e.g. an optional install
// task that exhausted its fallback chain.
var Warn = color.New(color.FgHiMagenta).PrintfFunc()

// Error logs error messages in red color.
var Error = color.New(color.FgRed).PrintfFunc()

// Debug logs debug messages in cyan color if enabled, otherwise is a no-op.
// It is assigned dynamically during Init based on the debug flag.
var Debug func(format string, a ...any) = func(format string, a ...any) {}

// run is the structured file logger. It mirrors stage outcomes into a JSON
// log under the state directory so a failed run can be inspected after the
// terminal scrollback is gone. It stays a disabled logger until Init opens
// the file, and remains disabled if the file cannot be opened.
var run = zerolog.Nop()

// Init initializes the logger package: it enables or disables debug logging
// and, when logDir is non-empty, opens the persistent run log file there.
// A failure to open the run log degrades to console-only logging; it never
// aborts the program.
func Init(enableDebug bool, logDir string) {
	if enableDebug {
		Debug = color.New(color.FgCyan).PrintfFunc()
	} else {
		// No-op function that ignores all debug logs to avoid runtime overhead.
		Debug = func(format string, a ...any) {}
	}

	if logDir == "" {
		return
	}
	if err := os.MkdirAll(logDir, 0755); err != nil {
		Warn("[WARN] Cannot create log directory %s: %v\n", logDir, err)
		return
	}
	logPath := filepath.Join(logDir, "bootstrap.log")
	f, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		Warn("[WARN] Cannot open run log %s, logging to console only: %v\n", logPath, err)
		return
	}
	level := zerolog.InfoLevel
	if enableDebug {
		level = zerolog.DebugLevel
	}
	run = zerolog.New(f).With().Timestamp().Logger().Level(level)
}

// Record writes a structured event to the persistent run log. The console
// stream is the primary user surface; Record exists so stages can leave a
// machine-readable trace (stage name, outcome, error) alongside it.
func Record(stage, outcome string, err error) {
	ev := run.Info()
	if err != nil {
		ev = run.Error().Err(err)
	}
	ev.Str("stage", stage).Str("outcome", outcome).Msg("stage finished")
}
