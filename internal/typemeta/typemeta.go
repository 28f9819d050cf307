// Package typemeta implements the runtime reflection schema: type
// descriptors, field descriptors, and protocol descriptors, plus the
// bounds-checked accessors generated code and the Any box rely on.
//
// Descriptors are produced by the compiler as read-only, program-lifetime
// data; nothing in this package ever mutates one after construction. See
// SPEC_FULL.md §3 for the exact field semantics.
package typemeta

import (
	"fmt"

	"github.com/trill-lang/trillrt/internal/diag"
)

// FieldDescriptor describes a single field of a TypeDescriptor's payload.
type FieldDescriptor struct {
	Name         string
	TypeMetadata *TypeDescriptor
	Offset       uintptr
}

// TypeDescriptor is the compiler-emitted, immutable description of a type.
type TypeDescriptor struct {
	Name             string
	Fields           []FieldDescriptor
	IsReferenceType  bool
	SizeInBits       uint64
	PointerLevel     uint64
}

// SizeInBytes returns the payload storage size in bytes.
func (t *TypeDescriptor) SizeInBytes() uint64 {
	return t.SizeInBits / 8
}

// FieldCount returns the number of fields (0 for primitives and pointers).
func (t *TypeDescriptor) FieldCount() uint64 {
	return uint64(len(t.Fields))
}

// OutOfBoundsError reports a field-index access past a type's field count.
// Its Error text carries the exact stable prefix generated code and test
// tooling match against (SPEC_FULL.md §7).
type OutOfBoundsError struct {
	Index      uint64
	TypeName   string
	FieldCount uint64
}

func (e *OutOfBoundsError) Error() string {
	return fmt.Sprintf("field index %d out of bounds for type %s with %d fields", e.Index, e.TypeName, e.FieldCount)
}

// FieldMetadata returns the field descriptor at index i. If i is not
// less than the type's field count, it terminates the process through
// diag.FatalError with an *OutOfBoundsError message and returns nil;
// production builds never see the nil, since FatalError's terminator
// exits first, but a test-substituted terminator lets callers observe
// the nil return without crashing the test binary.
func FieldMetadata(t *TypeDescriptor, i uint64) *FieldDescriptor {
	if i >= t.FieldCount() {
		diag.FatalError((&OutOfBoundsError{Index: i, TypeName: t.Name, FieldCount: t.FieldCount()}).Error())
		return nil
	}
	return &t.Fields[i]
}

// ProtocolDescriptor describes a protocol's method set for reflection and
// debug dump purposes; the runtime does not dispatch through it directly
// (see internal/genericbox.WitnessTable for dispatch).
type ProtocolDescriptor struct {
	Name        string
	MethodNames []string
}

// MethodCount returns len(MethodNames).
func (p *ProtocolDescriptor) MethodCount() int {
	return len(p.MethodNames)
}
