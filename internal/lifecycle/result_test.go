package lifecycle

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/mtt/internal/rpma"
)

func TestResult_ZeroValue_IsSuccess(t *testing.T) {
	var r Result

	assert.False(t, r.Failed())
	assert.Equal(t, 0, r.Status())
	assert.Empty(t, r.Errmsg())
}

func TestResult_FailErrno_FormatsDiagnostic(t *testing.T) {
	var r Result

	r.FailErrno("rpma_conn_connect", 5)

	require.True(t, r.Failed())
	assert.Equal(t, 5, r.Status())

	msg := r.Errmsg()
	assert.Contains(t, msg, "result_test.go:", "diagnostic should carry the calling file")
	assert.Contains(t, msg, "TestResult_FailErrno_FormatsDiagnostic()", "diagnostic should carry the calling function")
	assert.Contains(t, msg, "-> rpma_conn_connect() failed:", "diagnostic should name the failed operation")
	assert.Contains(t, msg, "input/output error", "diagnostic should render the OS error text")
}

func TestResult_FailRpma_FormatsDiagnostic(t *testing.T) {
	var r Result

	r.FailRpma("rpma_cq_wait", rpma.ENoCompletion)

	require.True(t, r.Failed())
	assert.Equal(t, rpma.ENoCompletion, r.Status())
	assert.Contains(t, r.Errmsg(), "-> rpma_cq_wait() failed: No completion available")
}

func TestResult_Failf_PreformattedMessage(t *testing.T) {
	var r Result

	r.Failf(7, "expected %d increments, got %d", 8, 6)

	assert.Equal(t, 7, r.Status())
	assert.Equal(t, "expected 8 increments, got 6", r.Errmsg())
}

func TestResult_FirstFailureWins(t *testing.T) {
	var r Result

	r.Failf(5, "first failure")
	r.FailErrno("close", 9)
	r.Failf(11, "third failure")

	assert.Equal(t, 5, r.Status(), "later failures must not replace the status")
	assert.Equal(t, "first failure", r.Errmsg(), "later failures must not replace the diagnostic")
}

func TestResult_ZeroCodeIgnored(t *testing.T) {
	var r Result

	// A zero code is a no-op: the result stays a clean success and no
	// stray diagnostic leaks into it.
	r.Failf(0, "informational only")
	assert.False(t, r.Failed())
	assert.Empty(t, r.Errmsg(), "a successful result must not carry a diagnostic")

	r.Failf(3, "real failure")
	assert.Equal(t, 3, r.Status())
	assert.Equal(t, "real failure", r.Errmsg())
}

func TestResult_FailError_RecoversRpmaCode(t *testing.T) {
	var r Result

	err := fmt.Errorf("remote flush: %w", &rpma.CodeError{Code: rpma.ENosupp})
	r.FailError("rpma_flush", err)

	assert.Equal(t, rpma.ENosupp, r.Status())
	assert.Contains(t, r.Errmsg(), "-> rpma_flush() failed: remote flush: Not supported")
}

func TestResult_FailError_UncodedErrorIsUnknown(t *testing.T) {
	var r Result

	r.FailError("rpma_flush", errors.New("socket closed"))

	assert.Equal(t, rpma.EUnknown, r.Status())
	assert.Contains(t, r.Errmsg(), "-> rpma_flush() failed: socket closed")
}

func TestResult_DiagnosticBounded(t *testing.T) {
	var r Result

	r.Failf(1, "%s", strings.Repeat("x", 4*ErrmsgMax))

	assert.LessOrEqual(t, len(r.Errmsg()), ErrmsgMax)
	assert.True(t, strings.HasPrefix(r.Errmsg(), "xxx"))
}

func TestResult_FailErrno_LongOpBounded(t *testing.T) {
	var r Result

	r.FailErrno(strings.Repeat("y", 4*ErrmsgMax), 5)

	assert.Equal(t, 5, r.Status())
	assert.LessOrEqual(t, len(r.Errmsg()), ErrmsgMax)
}

func TestTruncate_KeepsValidUTF8(t *testing.T) {
	// "é" is 2 bytes; an odd cap forces a cut inside the final rune.
	s := strings.Repeat("é", 300)

	got := truncate(s, 501)

	assert.Equal(t, 500, len(got), "partial rune at the cut should be dropped")
	assert.True(t, utf8.ValidString(got))
}

func TestTruncate_ShortStringUntouched(t *testing.T) {
	assert.Equal(t, "short", truncate("short", ErrmsgMax))
	assert.Equal(t, "", truncate("", ErrmsgMax))
}
