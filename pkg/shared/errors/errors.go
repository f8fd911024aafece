package errors

import (
	"errors"
)

// ExitCodeFailure is the exit code used for every failure that does not carry its own.
const ExitCodeFailure = 1

// CommandError represents an error that occurred during command execution, storing the exit code to report.
type CommandError struct {
	ExitCode    int
	CommonError string
	err         error
}

// Error implements the error interface, returning the message from the common error.
func (e *CommandError) Error() string {
	return e.CommonError
}

// Unwrap gives errors.Is and errors.As access to the underlying cause.
func (e *CommandError) Unwrap() error {
	return e.err
}

// NewCommandError creates a new CommandError instance, encapsulating the error message and exit code.
func NewCommandError(err error, code int) *CommandError {
	return &CommandError{
		ExitCode:    code,
		CommonError: err.Error(),
		err:         err,
	}
}

// ExitCode extracts the exit code carried by err. Errors that are not a CommandError map to ExitCodeFailure.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var cmdErr *CommandError
	if errors.As(err, &cmdErr) && cmdErr.ExitCode != 0 {
		return cmdErr.ExitCode
	}
	return ExitCodeFailure
}
