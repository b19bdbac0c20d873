package contract

import "errors"

// Run-level failures. Each maps to a stable process exit code.
var (
	ErrOutputExists     = errors.New("output already exists")
	ErrInputUnreadable  = errors.New("failed to read input")
	ErrNothingProcessed = errors.New("no rows were processed")
	ErrWriteFailed      = errors.New("failed to write output")
)

// ErrNoSegmentCache signals that a row has no segment cache. It never aborts a run.
var ErrNoSegmentCache = errors.New("no segment cache for row")

// Process exit codes.
const (
	ExitOK             = 0
	ExitOutputExists   = 1
	ExitInputError     = 2
	ExitNothingDone    = 3
	ExitWriteError     = 4
	ExitGeneralFailure = 5 // configuration, usage and cancellation errors
)

// ExitCode maps an error returned by a command to its process exit code.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, ErrOutputExists):
		return ExitOutputExists
	case errors.Is(err, ErrInputUnreadable):
		return ExitInputError
	case errors.Is(err, ErrNothingProcessed):
		return ExitNothingDone
	case errors.Is(err, ErrWriteFailed):
		return ExitWriteError
	default:
		return ExitGeneralFailure
	}
}
