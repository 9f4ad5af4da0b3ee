package lifecycle

import (
	"fmt"
	"path"
	"runtime"
	"strings"
)

// failMessage formats a diagnostic in the harness's uniform greppable
// shape:
//
//	file.go:42 caller() -> op() failed: errtext
//
// The location and function name come from the stack frame skip levels
// above failMessage's caller, so Result methods pass 1 to report their
// own caller. The file is reduced to its base name.
func failMessage(skip int, op, errText string) string {
	fn := "unknown"
	file := "unknown"
	line := 0
	if pc, f, l, ok := runtime.Caller(skip + 1); ok {
		file = path.Base(f)
		line = l
		if rf := runtime.FuncForPC(pc); rf != nil {
			fn = funcBaseName(rf.Name())
		}
	}
	return fmt.Sprintf("%s:%d %s() -> %s() failed: %s", file, line, fn, op, errText)
}

// funcBaseName strips the package path and receiver from a
// runtime.Func name, leaving the bare function name, the analog of a
// __func__ expansion. Anonymous functions keep their funcN suffix.
func funcBaseName(name string) string {
	if i := strings.LastIndexByte(name, '/'); i >= 0 {
		name = name[i+1:]
	}
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		name = name[i+1:]
	}
	return name
}
