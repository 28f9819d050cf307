// Package alloc implements the runtime's zero-initializing allocator.
//
// Alloc backs trill_alloc and gives raw allocation a single, testable
// failure path. The ARC, Any and generic boxes allocate their payloads
// with make directly and do not go through Alloc.
package alloc

import (
	"fmt"
	"sync/atomic"

	"github.com/trill-lang/trillrt/internal/diag"
)

// Terminator aborts the process with msg. It is a variable, not a direct
// call, so tests can substitute a non-fatal seam. Production leaves it
// wired to diag.FatalError so an allocation failure reports through the
// same fatal pipeline as every other runtime invariant violation.
var Terminator = func(msg string) {
	diag.FatalError(msg)
}

// ceiling is the maximum size Alloc will honor. Zero means unlimited.
// Nothing in the spec lets an implementation force a real malloc failure
// on demand, so tests that need to reach the "malloc failed" path set a
// ceiling instead.
var ceiling atomic.Int64

// SetCeiling bounds the largest allocation Alloc will satisfy. Pass 0 to
// remove the bound. Intended for tests exercising the OOM fatal path.
func SetCeiling(n int64) {
	ceiling.Store(n)
}

// Alloc returns a zero-filled block of size bytes. Go slices start
// zero-filled, so the zeroing the spec requires is free; Alloc exists to
// give the allocation a single chokepoint that can fail deterministically.
func Alloc(size int64) []byte {
	defer diag.StartOperationSpan("trill.alloc", "size", size)()

	if size < 0 {
		Terminator(fmt.Sprintf("malloc failed: negative size %d", size))
		return nil
	}
	if c := ceiling.Load(); c > 0 && size > c {
		Terminator(fmt.Sprintf("malloc failed: %d bytes exceeds configured ceiling %d", size, c))
		return nil
	}
	return make([]byte, size)
}
