package cli

import (
	"errors"

	"github.com/yaklabco/structparse/pkg/runner"
)

// ErrParseErrorsFound is returned when at least one file failed to parse
// or could not be read. It only signals the exit code and is not logged.
var ErrParseErrorsFound = errors.New("parse errors found")

// Exit codes for structparse.
const (
	// ExitSuccess indicates every input parsed cleanly.
	ExitSuccess = 0

	// ExitParseErrors indicates at least one input failed to parse.
	ExitParseErrors = 1

	// ExitInvalidUsage indicates invalid command-line usage.
	ExitInvalidUsage = 64

	// ExitConfigError indicates configuration file errors.
	ExitConfigError = 65

	// ExitInternalError indicates an internal error.
	ExitInternalError = 70

	// ExitIOError indicates file I/O errors.
	ExitIOError = 74
)

// ExitCodeFromResult determines the exit code of a run.
func ExitCodeFromResult(result *runner.Result) int {
	if result == nil {
		return ExitSuccess
	}

	if result.Stats.DiagnosticsTotal > 0 {
		return ExitParseErrors
	}

	if result.Stats.FilesErrored > 0 {
		return ExitIOError
	}

	return ExitSuccess
}

// ExitCodeFromError maps a command error to a process exit code.
func ExitCodeFromError(err error) int {
	var usageErr *UsageError

	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, ErrParseErrorsFound):
		return ExitParseErrors
	case errors.Is(err, ErrConfig):
		return ExitConfigError
	case errors.As(err, &usageErr):
		return ExitInvalidUsage
	case errors.Is(err, ErrIO):
		return ExitIOError
	default:
		return ExitInternalError
	}
}

// ErrConfig marks configuration loading failures.
var ErrConfig = errors.New("configuration error")

// ErrIO marks failures to read input or write output.
var ErrIO = errors.New("i/o error")

// UsageError reports invalid command-line usage.
type UsageError struct {
	Message string
}

func (e *UsageError) Error() string {
	return e.Message
}
