// Package exitcodes provides centralized exit code definitions and error handling for cpmod.
// Exit codes are organized in ranges to categorize different types of failures:
//
//	0:     Success
//	1-9:   Input/Configuration Errors (e.g., missing flags, invalid class or mask)
//	10-19: Permission Processing Errors (some or all entries failed)
//	20-29: Runtime Errors (e.g., I/O errors, system failures)
package exitcodes

import (
	"errors"
	"fmt"
)

// Exit code constants organized by category
const (
	// Success (0)
	ExitSuccess = 0

	// Input/Configuration Errors (1-9)
	ExitMissingRequiredFlag     = 1 // Required command flag not provided
	ExitInputConfigurationError = 2 // General configuration error
	ExitInvalidClass            = 3 // Source or target class is not u, g or o
	ExitInvalidMask             = 4 // Mask outside 0-7
	ExitInvalidOutputFormat     = 5 // Unknown --output format

	// Permission Processing Errors (10-19)
	ExitPartialFailure = 10 // Some entries could not be processed
	ExitAllFailed      = 11 // Every processed entry failed

	// Runtime Errors (20-29)
	ExitGeneralRuntimeError = 20 // General runtime/system error
	ExitIOError             = 21 // IO operation error

	// Internal Errors (30-39)
	ExitInternalError = 30 // Internal error in command execution
)

// ExitCodeError wraps an error with an exit code for consistent error handling.
// This type is used throughout the codebase to propagate both error details
// and the appropriate exit code up the call stack.
type ExitCodeError struct {
	Code int   // Exit code to return
	Err  error // Underlying error
}

func (e *ExitCodeError) Error() string {
	return fmt.Sprintf("exit code %d: %v", e.Code, e.Err)
}

func (e *ExitCodeError) Unwrap() error {
	return e.Err
}

// IsExitCodeError checks if an error is an ExitCodeError and returns its code.
// Returns false and 0 if the error is not an ExitCodeError.
func IsExitCodeError(err error) (int, bool) {
	var exitErr *ExitCodeError
	if errors.As(err, &exitErr) {
		return exitErr.Code, true
	}
	return 0, false
}

// ForResults picks the exit code for a run that processed n entries of which
// failed could not be handled.
func ForResults(n, failed int) int {
	switch {
	case failed == 0:
		return ExitSuccess
	case failed >= n:
		return ExitAllFailed
	default:
		return ExitPartialFailure
	}
}

// CodeDescriptions maps exit codes to their human-readable descriptions
var CodeDescriptions = map[int]string{
	ExitSuccess:                 "Success",
	ExitMissingRequiredFlag:     "Required command flag not provided",
	ExitInputConfigurationError: "General configuration error",
	ExitInvalidClass:            "Invalid source or target class",
	ExitInvalidMask:             "Invalid permission mask",
	ExitInvalidOutputFormat:     "Unknown output format",
	ExitPartialFailure:          "Some entries could not be processed",
	ExitAllFailed:               "Every processed entry failed",
	ExitGeneralRuntimeError:     "General runtime/system error",
	ExitIOError:                 "IO operation error",
	ExitInternalError:           "Internal error in command execution",
}
