package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// Exit codes for CLI commands. Run failures additionally surface the
// run's own status code, see ExitCodeForStatus.
const (
	ExitSuccess      = 0 // run or check passed
	ExitFailure      = 1 // run/scenario/suite failure
	ExitCommandError = 2 // bad arguments, missing files, broken database
)

// ExitError carries a specific process exit code out of a command.
type ExitError struct {
	Code    int
	Message string
	Err     error // underlying cause, optional
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// NewExitError creates an ExitError with the given code and message.
func NewExitError(code int, message string) *ExitError {
	return &ExitError{Code: code, Message: message}
}

// WrapExitError wraps an existing error with an exit code.
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode extracts the exit code from an error. Errors that are
// not ExitError report ExitFailure.
func GetExitCode(err error) int {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// ExitCodeForStatus maps an aggregate run status to a process exit
// code. Statuses already in the portable exit range pass through, so
// an errno-style failure is readable straight off the shell. RDMA
// library codes are negative and anything above 125 collides with the
// shell's own range; both collapse to ExitFailure.
func ExitCodeForStatus(status int) int {
	if status == 0 {
		return ExitSuccess
	}
	if status >= 1 && status <= 125 {
		return status
	}
	return ExitFailure
}

// CLIResponse is the JSON envelope every command emits under
// --format json.
type CLIResponse struct {
	Status string    `json:"status"` // "ok" or "error"
	Data   any       `json:"data,omitempty"`
	Error  *CLIError `json:"error,omitempty"`
}

// CLIError is the error payload of a CLIResponse.
type CLIError struct {
	Code    string `json:"code"` // "E_RUN_FAILED", "E_TEST_FAILED", ...
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// writeJSON encodes a CLIResponse with indentation, the shape every
// command's --format json output shares.
func writeJSON(w io.Writer, resp CLIResponse) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(resp)
}
