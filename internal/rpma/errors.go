// Package rpma mirrors the error surface of the RDMA library exercised
// by the multithreaded tests: a closed set of negative error codes and
// their stable text renderings.
//
// Failure codes are negative on purpose, keeping them distinct from
// positive OS errno values, so a status code's origin is readable at a
// glance in diagnostics and stored run history.
package rpma

// Error codes of the RDMA library. Zero is success.
//
// Helpers that return the codes as Go errors wrap them in CodeError,
// so a callback several layers up can recover the code with errors.As
// and report it through its result record.
const (
	ENosupp       = -1 // operation not supported
	EProvider     = -2 // provider layer failed
	ENomem        = -3 // allocation failed
	EInval        = -4 // invalid argument
	ENoCompletion = -5 // no completion available
	ENoEvent      = -6 // no event available
	EAgain        = -7 // temporary condition, retry
	EUnknown      = -8
)

// Errstr returns the stable human rendering of an RDMA error code.
// Codes outside the known set render as the EUnknown text.
func Errstr(code int) string {
	switch code {
	case 0:
		return "Success"
	case ENosupp:
		return "Not supported"
	case EProvider:
		return "Provider error occurred"
	case ENomem:
		return "Out of memory"
	case EInval:
		return "Invalid argument"
	case ENoCompletion:
		return "No completion available"
	case ENoEvent:
		return "No event available"
	case EAgain:
		return "Temporary error, try again"
	default:
		return "Unknown error"
	}
}

// IsValid reports whether code belongs to the known RDMA error set.
// Zero (success) is not a valid failure code.
func IsValid(code int) bool {
	return code <= ENosupp && code >= EUnknown
}

// CodeError carries an RDMA error code through a Go error return.
type CodeError struct {
	Code int
}

// Error implements the error interface, rendering through Errstr.
func (e *CodeError) Error() string {
	return Errstr(e.Code)
}

// Is matches any CodeError carrying the same code, so a wrapped error
// compares with errors.Is against &CodeError{Code: EInval}.
func (e *CodeError) Is(target error) bool {
	t, ok := target.(*CodeError)
	return ok && t.Code == e.Code
}
