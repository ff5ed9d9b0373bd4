// Package logger provides verbose logging for the lpdp-faq service.
// Debug and Info messages are printed to stderr only when verbose mode is
// enabled via the --verbose flag. Warnings are always printed. Nothing is
// ever written to stdout, which carries the MCP stdio transport.
package logger

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/fatih/color"
)

var (
	mu      sync.RWMutex
	verbose bool
	output  io.Writer = os.Stderr
)

// SetVerbose enables or disables verbose logging.
func SetVerbose(v bool) {
	mu.Lock()
	defer mu.Unlock()
	verbose = v
}

// IsVerbose returns true if verbose mode is enabled.
func IsVerbose() bool {
	mu.RLock()
	defer mu.RUnlock()
	return verbose
}

// SetOutput sets the output writer for logs.
// Defaults to os.Stderr.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
}

// Prefix colours. color disables itself when stdout is not a terminal.
var (
	debugColor = color.New(color.Faint)
	infoColor  = color.New(color.FgCyan)
	warnColor  = color.New(color.FgYellow, color.Bold)
)

func write(gated bool, c *color.Color, prefix, format string, args ...any) {
	mu.RLock()
	defer mu.RUnlock()
	if gated && !verbose {
		return
	}
	if prefix != "" {
		prefix = c.Sprint(prefix)
	}
	fmt.Fprintf(output, "%s%s\n", prefix, fmt.Sprintf(format, args...))
}

// Debug prints a message if verbose mode is enabled.
func Debug(format string, args ...any) {
	write(true, debugColor, "[DEBUG] ", format, args...)
}

// Info prints an informational message if verbose mode is enabled.
func Info(format string, args ...any) {
	write(true, infoColor, "[INFO] ", format, args...)
}

// Warn prints a warning message regardless of verbose mode.
func Warn(format string, args ...any) {
	write(false, warnColor, "[WARN] ", format, args...)
}

// Section prints a section header if verbose mode is enabled.
func Section(name string) {
	write(true, nil, "", "\n=== %s ===", name)
}

// Timed logs the start of a stage and returns a function that logs its
// duration when called.
//
//	done := logger.Timed("embedding")
//	defer done()
func Timed(stage string) func() {
	start := time.Now()
	Debug("%s: started", stage)
	return func() {
		Debug("%s: finished in %s", stage, time.Since(start).Round(time.Millisecond))
	}
}
