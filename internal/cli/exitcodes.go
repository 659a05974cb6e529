package cli

import (
	"errors"
	"io/fs"

	"github.com/yaklabco/gophpfix/internal/configloader"
	"github.com/yaklabco/gophpfix/pkg/runner"
)

// Exit codes for gophpfix.
const (
	// ExitSuccess indicates the run finished with nothing left to fix.
	ExitSuccess = 0

	// ExitFixable indicates check mode found code that fixers would rewrite.
	ExitFixable = 1

	// ExitInvalidUsage indicates invalid command-line usage.
	ExitInvalidUsage = 64

	// ExitConfigError indicates configuration file errors.
	ExitConfigError = 65

	// ExitInternalError indicates an internal error.
	ExitInternalError = 70

	// ExitIOError indicates files that could not be read or written.
	ExitIOError = 74
)

var (
	// ErrFixableIssues signals that check mode found fixable code.
	ErrFixableIssues = errors.New("fixable issues found")

	// ErrFilesFailed signals that at least one file could not be processed.
	ErrFilesFailed = errors.New("some files could not be processed")

	// ErrFixerFailed signals that a fixer rejected a unit as malformed and
	// left it unchanged.
	ErrFixerFailed = errors.New("some fixers failed")
)

// usageError marks errors caused by the command line itself.
type usageError struct {
	err error
}

func (e *usageError) Error() string { return e.err.Error() }
func (e *usageError) Unwrap() error { return e.err }

// ExitCode maps an error returned by the root command to a process exit code.
func ExitCode(err error) int {
	var (
		usage     *usageError
		configErr *configloader.ValidationError
	)

	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, ErrFixableIssues):
		return ExitFixable
	case errors.As(err, &usage):
		return ExitInvalidUsage
	case errors.As(err, &configErr):
		return ExitConfigError
	case errors.Is(err, ErrFixerFailed):
		return ExitInternalError
	case errors.Is(err, ErrFilesFailed), errors.Is(err, fs.ErrNotExist), errors.Is(err, fs.ErrPermission):
		return ExitIOError
	default:
		return ExitInternalError
	}
}

// resultError converts a finished run into the error the command returns.
func resultError(result *runner.Result, check bool) error {
	if result == nil {
		return nil
	}
	if result.Stats.FilesErrored > 0 {
		return ErrFilesFailed
	}
	if result.Stats.RuleErrors > 0 {
		return ErrFixerFailed
	}
	if check && result.Stats.DiagnosticsFixable > 0 {
		return ErrFixableIssues
	}
	return nil
}

// IsSignal reports whether err only carries an exit status and needs no log
// line of its own.
func IsSignal(err error) bool {
	return errors.Is(err, ErrFixableIssues) || errors.Is(err, ErrFilesFailed) || errors.Is(err, ErrFixerFailed)
}
