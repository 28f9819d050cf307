package diag

import (
	"fmt"
	"runtime"
)

// Assert reports a fatal error if cond is false. expr should be the
// literal source text of the condition, since generated code has no
// other way to name what failed; caller-supplied detail is appended when
// non-empty.
func Assert(cond bool, expr string, detail string) {
	if cond {
		return
	}
	pc, file, line, ok := runtime.Caller(1)
	function := "<unknown>"
	if !ok {
		file, line = "<unknown>", 0
	} else if fn := runtime.FuncForPC(pc); fn != nil {
		function = fn.Name()
	}
	msg := fmt.Sprintf("assertion failed: %s at %s:%d in %s", expr, file, line, function)
	if detail != "" {
		msg += ": " + detail
	}
	FatalError(msg)
}
