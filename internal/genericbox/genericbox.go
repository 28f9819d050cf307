// Package genericbox implements the generic witness box: a heap layout
// of [metadata | witness table | payload] used to pass a generic value
// together with the protocol-conformance dispatch table its static type
// erased away. See SPEC_FULL.md §3 ("Generic witness box") and §4.5.
package genericbox

import (
	"unsafe"

	"github.com/trill-lang/trillrt/internal/typemeta"
)

// WitnessTable maps a protocol's method names to the concrete
// implementation a conforming type supplies. It is the runtime stand-in
// for the source runtime's function-pointer array, keyed by name instead
// of by a compiler-assigned slot index so a misbuilt table fails at
// Lookup time rather than by calling the wrong slot.
type WitnessTable struct {
	ProtocolName string
	Methods      map[string]unsafe.Pointer
}

// Lookup returns the method implementation for name, or false if the
// table has no entry for it.
func (w *WitnessTable) Lookup(name string) (unsafe.Pointer, bool) {
	p, ok := w.Methods[name]
	return p, ok
}

// GenericBox pairs a generic value's type metadata and witness table with
// its payload bytes.
type GenericBox struct {
	Metadata *typemeta.TypeDescriptor
	Witness  *WitnessTable
	payload  []byte
}

// CreateGenericBox allocates a generic box of type t with witness as its
// dispatch table and a zero-filled payload (createGenericBox). Conformance
// is established statically by the compiler when it builds witness; this
// call does no validation of its own.
func CreateGenericBox(t *typemeta.TypeDescriptor, witness *WitnessTable) *GenericBox {
	return &GenericBox{
		Metadata: t,
		Witness:  witness,
		payload:  make([]byte, t.SizeInBytes()),
	}
}

// GenericBoxValuePtr returns the box's payload bytes (genericBoxValuePtr).
func GenericBoxValuePtr(g *GenericBox) []byte {
	return g.payload
}
