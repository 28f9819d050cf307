// Package arcbox implements the ARC heap box for reference-typed values:
// allocation, thread-safe retain/release, deinitialization, and
// isUniquelyReferenced. See SPEC_FULL.md §3 ("ARC box") and §4.2.
//
// The spec's box layout is [retainCount | deinit ptr | payload], with the
// public pointer addressing the payload directly and the header recovered
// by pointer arithmetic. Go cannot hand out a bare pointer into a slice's
// backing array and later free just that array out from under the Go
// garbage collector, so this port keeps the header and payload as fields
// of a single Go struct and hands generated code an opaque *Box instead
// of a raw payload pointer; every operation that the spec describes as
// taking "ptr" takes *Box here. A process-global registry keeps every
// live box reachable from Go's perspective so the GC never collects one
// out from under an outstanding retain (see SPEC_FULL.md §9).
package arcbox

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/trill-lang/trillrt/internal/diag"
)

// Deinitializer is invoked exactly once, immediately before a box's
// payload memory is poisoned and released, with the payload it owned.
type Deinitializer func(payload []byte)

// Box is the heap object backing a reference-typed ("indirect") value.
type Box struct {
	retainCount atomic.Uint32
	deinit      Deinitializer
	payload     []byte
}

var (
	registryMu sync.Mutex
	registry   = make(map[*Box]struct{})
)

// Allocate creates a box with a zero-filled payload of size bytes and the
// given (possibly nil) deinitializer, sets its retain count to 1 per the
// canonical initial-count policy (SPEC_FULL.md §4.2), and returns it.
func Allocate(size int, deinit Deinitializer) *Box {
	defer diag.StartOperationSpan("trill.allocateIndirectType", "size", size)()

	b := &Box{
		deinit:  deinit,
		payload: make([]byte, size),
	}
	b.retainCount.Store(1)

	registryMu.Lock()
	registry[b] = struct{}{}
	registryMu.Unlock()

	return b
}

// SetDeinitializer replaces b's deinitializer. It is not reachable from
// generated code: the trill_registerDeinitializer façade entry is a no-op
// and does not call it. It is not safe to call concurrently with a
// Release that might finalize b.
func (b *Box) SetDeinitializer(deinit Deinitializer) {
	b.deinit = deinit
}

// Payload returns the box's payload bytes. Calling it after the box has
// been released to zero is a caller bug; the returned slice will have
// been poisoned and its backing array is no longer registered.
func (b *Box) Payload() []byte {
	return b.payload
}

// RetainCount returns the box's current retain count. It exists for
// tests and isUniquelyReferenced; generated code has no direct ABI to it.
func (b *Box) RetainCount() uint32 {
	return b.retainCount.Load()
}

// OverflowError reports a retain that would carry the count past
// UINT32_MAX.
type OverflowError struct{ Box *Box }

func (e *OverflowError) Error() string {
	return fmt.Sprintf("retain count overflowed for %p", e.Box)
}

// UnderflowError reports a release on a box whose retain count is
// already zero.
type UnderflowError struct{ Box *Box }

func (e *UnderflowError) Error() string {
	return fmt.Sprintf("retain count underflowed for %p", e.Box)
}

// Retain atomically increments b's retain count, terminating the process
// through diag.FatalError if doing so would overflow past UINT32_MAX.
func Retain(b *Box) {
	defer diag.StartOperationSpan("trill.retain", "box", fmt.Sprintf("%p", b))()

	for {
		cur := b.retainCount.Load()
		if cur == ^uint32(0) {
			diag.FatalError((&OverflowError{Box: b}).Error())
			return
		}
		if b.retainCount.CompareAndSwap(cur, cur+1) {
			return
		}
	}
}

// Release atomically decrements b's retain count. When the count reaches
// zero it invokes the deinitializer (if any) with the payload, then
// poisons and drops the payload and removes b from the live-box registry.
// Releasing a box whose retain count is already zero terminates the
// process through diag.FatalError.
func Release(b *Box) {
	defer diag.StartOperationSpan("trill.release", "box", fmt.Sprintf("%p", b))()

	for {
		cur := b.retainCount.Load()
		if cur == 0 {
			diag.FatalError((&UnderflowError{Box: b}).Error())
			return
		}
		if b.retainCount.CompareAndSwap(cur, cur-1) {
			if cur == 1 {
				finalize(b)
			}
			return
		}
	}
}

func finalize(b *Box) {
	if b.deinit != nil {
		b.deinit(b.payload)
	}
	for i := range b.payload {
		b.payload[i] = 0xDE
	}
	b.payload = nil

	registryMu.Lock()
	delete(registry, b)
	registryMu.Unlock()
}

// IsUniquelyReferenced reports whether b's retain count is exactly 1.
func IsUniquelyReferenced(b *Box) bool {
	return b.retainCount.Load() == 1
}

// Handles let a reference-typed field's bytes carry an opaque, resolvable
// identifier for the box it points to, instead of a raw pointer. Go's
// garbage collector gives no license to reconstruct a live *Box from a
// bit pattern stashed in a []byte, so a struct field of reference type
// stores a handle into this table rather than the box's address; handle 0
// always means "nil". See SPEC_FULL.md §9 and DESIGN.md.
var (
	handleMu   sync.Mutex
	handles    = make(map[uint64]*Box)
	nextHandle uint64
)

// RegisterHandle returns a stable handle for b, allocating one if this is
// the box's first use as a field value. RegisterHandle(nil) returns 0.
func RegisterHandle(b *Box) uint64 {
	if b == nil {
		return 0
	}
	handleMu.Lock()
	defer handleMu.Unlock()
	for h, existing := range handles {
		if existing == b {
			return h
		}
	}
	nextHandle++
	h := nextHandle
	handles[h] = b
	return h
}

// ResolveHandle looks up a box by handle. ResolveHandle(0) returns nil.
func ResolveHandle(h uint64) *Box {
	if h == 0 {
		return nil
	}
	handleMu.Lock()
	defer handleMu.Unlock()
	return handles[h]
}
