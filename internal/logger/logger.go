package logger

import (
	"github.com/fatih/color" // Import the fatih/color package for colored console output
)

// Define colorized printing functions for different log levels using fatih/color.
// These are package-level variables holding functions that behave like fmt.Printf,
// but with text colored appropriately for the log level.
//
// Every level writes to stderr. Stdout of `orbiter init` is evaluated by the calling
// shell, so nothing but shell directives may ever reach it.

// Info logs informational messages in green color.
var Info = printer(color.FgGreen)

// Warn logs warning messages in bright magenta color.
var Warn = printer(color.FgHiMagenta)

// Error logs error messages in red color.
var Error = printer(color.FgRed)

// Debug logs debug messages in cyan color if enabled, otherwise is a no-op.
// It starts out as a no-op so packages can log before Init has run.
var Debug = func(format string, a ...any) {}

// printer binds a colored Fprintf to color.Error (a colorable stderr).
func printer(attr color.Attribute) func(format string, a ...any) {
	fprintf := color.New(attr).FprintfFunc()
	return func(format string, a ...any) {
		fprintf(color.Error, format, a...)
	}
}

// Init initializes the logger package, specifically enabling or disabling debug logging.
// Parameters:
// - enableDebug: boolean flag to turn debug messages on or off.
// When enabled, Debug will print messages in cyan color.
// When disabled, Debug will be a no-op function that silently ignores debug logs.
func Init(enableDebug bool) {
	if enableDebug {
		Debug = printer(color.FgCyan)
	} else {
		Debug = func(format string, a ...any) {}
	}
}
