package lifecycle

import (
	"errors"
	"fmt"
	"syscall"
	"unicode/utf8"

	"github.com/roach88/mtt/internal/rpma"
)

// ErrmsgMax bounds the diagnostic message of a Result, in bytes.
// Formatted diagnostics longer than this are truncated, never allowed
// to grow with message content.
const ErrmsgMax = 512

// Result is one worker's status code and bounded diagnostic message.
//
// The zero value reports success. The first failure recorded wins: once
// the status is nonzero, later Fail calls leave both the status and the
// message untouched, so an early setup failure is never masked by
// teardown noise. Each worker owns exactly one Result across its whole
// phase sequence; the orchestrator reads it only after join, so no
// synchronization is needed.
//
// Failures are reported with FailErrno, FailRpma, FailError or Failf;
// callbacks must not print during parallel phases, the Result is the
// only reporting channel.
type Result struct {
	status int
	errmsg string
}

// Status returns the recorded status code, zero for success.
func (r *Result) Status() int {
	return r.status
}

// Errmsg returns the recorded diagnostic message, empty on success.
func (r *Result) Errmsg() string {
	return r.errmsg
}

// Failed reports whether a nonzero status has been recorded.
func (r *Result) Failed() bool {
	return r.status != 0
}

// FailErrno records code for a failed operation, rendering the error
// text through the OS errno facility:
//
//	conn.go:42 setupWorker() -> rpma_conn_connect() failed: input/output error
//
// The source location and function name are the caller's. code is
// expected to be a positive errno value.
func (r *Result) FailErrno(op string, code int) {
	r.fail(code, failMessage(1, op, errnoText(code)))
}

// FailRpma is FailErrno's counterpart for RDMA library error codes,
// rendering the text through rpma.Errstr.
func (r *Result) FailRpma(op string, code int) {
	r.fail(code, failMessage(1, op, rpma.Errstr(code)))
}

// FailError records an error returned by a helper. The status code is
// recovered with errors.As from a wrapped *rpma.CodeError; errors that
// carry no code are recorded as rpma.EUnknown. The diagnostic text is
// the error's own rendering.
func (r *Result) FailError(op string, err error) {
	code := rpma.EUnknown
	var ce *rpma.CodeError
	if errors.As(err, &ce) {
		code = ce.Code
	}
	r.fail(code, failMessage(1, op, err.Error()))
}

// Failf records code with a preformatted message and no source
// location. Intended for failures that have no underlying error code
// rendering, such as a workload-level verification mismatch.
func (r *Result) Failf(code int, format string, args ...any) {
	r.fail(code, fmt.Sprintf(format, args...))
}

// fail applies the first-failure-wins policy and the message bound.
// A zero code is ignored: a success status never carries a diagnostic,
// so a stray Failf(0, ...) cannot leak a message into a passing result.
func (r *Result) fail(code int, msg string) {
	if code == 0 || r.status != 0 {
		return
	}
	r.status = code
	r.errmsg = truncate(msg, ErrmsgMax)
}

// errnoText renders an OS error code as human text.
func errnoText(code int) string {
	return syscall.Errno(code).Error()
}

// truncate bounds s to max bytes without splitting a UTF-8 sequence:
// if the cut would land inside a multi-byte rune, the whole rune is
// dropped.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	i := max
	for i > 0 && !utf8.RuneStart(s[i]) {
		i--
	}
	return s[:i]
}
