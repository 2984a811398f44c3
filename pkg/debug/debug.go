// Package debug provides conditional tracing to stderr, separate from the
// structured logger. It is enabled by --debug or CPMOD_DEBUG.
//
// Message format:
//
//	[DEBUG] message
//	[DEBUG] → Entering function
//	[DEBUG] ← Exiting function
//	[DEBUG] Label: value
package debug

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// EnvVar names the environment variable that enables tracing.
const EnvVar = "CPMOD_DEBUG"

var (
	// IsEnabled indicates whether debug output is enabled
	IsEnabled bool

	debugPrefix           = "[DEBUG] "
	output      io.Writer = os.Stderr
)

// Init enables tracing when force is set or CPMOD_DEBUG parses as true.
func Init(force bool) {
	IsEnabled = force || envEnabled()
}

func envEnabled() bool {
	v, ok := os.LookupEnv(EnvVar)
	if !ok {
		return false
	}
	enabled, err := strconv.ParseBool(strings.TrimSpace(v))
	return err == nil && enabled
}

// SetOutput redirects debug output and returns a function restoring the previous writer.
func SetOutput(w io.Writer) (restore func()) {
	prev := output
	output = w
	return func() { output = prev }
}

// Printf prints a debug message if debug output is enabled.
func Printf(format string, args ...interface{}) {
	if IsEnabled {
		fmt.Fprintf(output, debugPrefix+format+"\n", args...)
	}
}

// Println prints a debug message if debug output is enabled.
func Println(args ...interface{}) {
	if IsEnabled {
		fmt.Fprintln(output, debugPrefix+fmt.Sprint(args...))
	}
}

// FunctionEnter logs entry into a function.
func FunctionEnter(funcName string) {
	if IsEnabled {
		fmt.Fprintf(output, "%s→ Entering %s\n", debugPrefix, funcName)
	}
}

// FunctionExit logs exit from a function.
func FunctionExit(funcName string) {
	if IsEnabled {
		fmt.Fprintf(output, "%s← Exiting %s\n", debugPrefix, funcName)
	}
}

// DumpValue prints a labelled value.
func DumpValue(label string, value interface{}) {
	if IsEnabled {
		fmt.Fprintf(output, "%s%s: %+v\n", debugPrefix, label, value)
	}
}

// SetPrefix sets a custom prefix for debug messages. A trailing space is added if missing.
func SetPrefix(prefix string) {
	if !strings.HasSuffix(prefix, " ") {
		prefix += " "
	}
	debugPrefix = prefix
}
