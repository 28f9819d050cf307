// Package anybox implements the Any existential container: a
// heap-allocated pairing of a type descriptor with a payload, supporting
// allocation, copy, field read/write, checked cast, and nil testing. See
// SPEC_FULL.md §3 ("Any box") and §4.4.
package anybox

import (
	"encoding/binary"
	"fmt"

	"github.com/trill-lang/trillrt/internal/arcbox"
	"github.com/trill-lang/trillrt/internal/diag"
	"github.com/trill-lang/trillrt/internal/typemeta"
)

// AnyBox is the existential container: metadata plus payload bytes.
//
// For a value-typed Any, bytes holds the value itself. For a
// reference-typed Any, bytes holds a little-endian arcbox handle (see
// arcbox.RegisterHandle) rather than a raw pointer, since a []byte has
// nowhere safe to carry a live Go pointer across an unsafe round trip.
// Either way, bytes is exactly Metadata.SizeInBytes() long.
type AnyBox struct {
	Metadata *typemeta.TypeDescriptor
	bytes    []byte
}

// CastMismatchError reports a checkedCast or updateAny whose source and
// destination types are not the same descriptor.
type CastMismatchError struct {
	Src, Dst string
}

func (e *CastMismatchError) Error() string {
	return fmt.Sprintf("checked cast failed: cannot convert %s to %s", e.Src, e.Dst)
}

// NilReferenceError reports a field access on a reference-typed Any whose
// reference is nil.
type NilReferenceError struct{ TypeName string }

func (e *NilReferenceError) Error() string {
	return fmt.Sprintf("nil reference for type %s", e.TypeName)
}

// AllocateAny returns a new Any box of type t with a zero-filled,
// uninitialized payload. The caller stores the value through ValueBytes
// (value types) or SetReference (reference types).
func AllocateAny(t *typemeta.TypeDescriptor) *AnyBox {
	return &AnyBox{Metadata: t, bytes: make([]byte, t.SizeInBytes())}
}

// CopyAny implements the spec's reference-vs-value copy semantics: a
// reference-typed Any is returned unchanged (sharing, not copying); a
// value-typed Any is deep-copied into a freshly allocated box.
func CopyAny(a *AnyBox) *AnyBox {
	if a.Metadata.IsReferenceType {
		return a
	}
	clone := AllocateAny(a.Metadata)
	copy(clone.bytes, a.bytes)
	return clone
}

// ValueBytes returns the Any's own payload bytes (getAnyValuePtr). For a
// reference-typed Any this is the encoded handle, not the referenced
// box's payload; use Reference/FieldValueBytes to reach the latter.
func ValueBytes(a *AnyBox) []byte {
	return a.bytes
}

// TypeMetadata returns the Any's type descriptor (getAnyTypeMetadata).
func TypeMetadata(a *AnyBox) *typemeta.TypeDescriptor {
	return a.Metadata
}

// SetReference stores box (possibly nil) as a's referent. It is only
// meaningful when a.Metadata.IsReferenceType is true.
func SetReference(a *AnyBox, box *arcbox.Box) {
	binary.LittleEndian.PutUint64(a.bytes, arcbox.RegisterHandle(box))
}

// Reference resolves a's stored handle back to the box it points to, or
// nil if the reference is nil or unset.
func Reference(a *AnyBox) *arcbox.Box {
	if len(a.bytes) < 8 {
		return nil
	}
	return arcbox.ResolveHandle(binary.LittleEndian.Uint64(a.bytes))
}

// valuePayload returns the byte storage a field read/write operates on:
// the referenced box's payload for a reference-typed Any, or the Any's
// own bytes for a value-typed one. A nil reference terminates the
// process through diag.FatalError.
func valuePayload(a *AnyBox) []byte {
	if !a.Metadata.IsReferenceType {
		return a.bytes
	}
	box := Reference(a)
	if box == nil {
		diag.FatalError((&NilReferenceError{TypeName: a.Metadata.Name}).Error())
		return nil
	}
	return box.Payload()
}

// FieldValueBytes returns the live byte range for field i of a
// (getAnyFieldValuePtr): writes through the returned slice are visible to
// subsequent reads of the same field. An out-of-bounds field index or a
// nil reference terminates the process through diag.FatalError.
func FieldValueBytes(a *AnyBox, i uint64) []byte {
	fieldMeta := typemeta.FieldMetadata(a.Metadata, i)
	if fieldMeta == nil {
		return nil
	}
	base := valuePayload(a)
	if base == nil {
		return nil
	}
	start := fieldMeta.Offset
	end := start + uintptr(fieldMeta.TypeMetadata.SizeInBytes())
	if end > uintptr(len(base)) {
		diag.FatalErrorf("field %s of type %s: offset %d+%d exceeds payload of %d bytes",
			fieldMeta.Name, a.Metadata.Name, start, fieldMeta.TypeMetadata.SizeInBytes(), len(base))
		return nil
	}
	return base[start:end]
}

// ExtractAnyField allocates a new Any of the field's type and copies the
// field's bytes into it (extractAnyField).
func ExtractAnyField(a *AnyBox, i uint64) *AnyBox {
	fieldMeta := typemeta.FieldMetadata(a.Metadata, i)
	if fieldMeta == nil {
		return nil
	}
	src := FieldValueBytes(a, i)
	if src == nil {
		return nil
	}
	out := AllocateAny(fieldMeta.TypeMetadata)
	copy(out.bytes, src)
	return out
}

// UpdateAny overwrites field i of a with newAny's bytes (updateAny). A
// field index past a's field count, or a field whose static type does
// not match newAny's type exactly, terminates the process through
// diag.FatalError.
func UpdateAny(a *AnyBox, i uint64, newAny *AnyBox) {
	fieldMeta := typemeta.FieldMetadata(a.Metadata, i)
	if fieldMeta == nil {
		return
	}
	if fieldMeta.TypeMetadata != newAny.Metadata {
		diag.FatalError((&CastMismatchError{Src: newAny.Metadata.Name, Dst: fieldMeta.TypeMetadata.Name}).Error())
		return
	}
	dst := FieldValueBytes(a, i)
	if dst == nil {
		return
	}
	copy(dst, newAny.bytes)
}

// CheckTypes reports whether a's type descriptor is the same descriptor
// as t (checkTypes: pointer equality, not name equality).
func CheckTypes(a *AnyBox, t *typemeta.TypeDescriptor) bool {
	return a.Metadata == t
}

// CheckedCast returns a's value bytes if CheckTypes(a, t); otherwise it
// terminates the process through diag.FatalError with a *CastMismatchError
// message (checkedCast).
func CheckedCast(a *AnyBox, t *typemeta.TypeDescriptor) []byte {
	if !CheckTypes(a, t) {
		diag.FatalError((&CastMismatchError{Src: a.Metadata.Name, Dst: t.Name}).Error())
		return nil
	}
	return ValueBytes(a)
}

// AnyIsNil implements anyIsNil: pointer-typed Anys are never nil by this
// test (pointerLevel > 0 returns false unconditionally); otherwise the
// first machine word (up to 8 bytes) of the payload is read as an
// unsigned integer and compared to zero. This also covers the
// reference-type case, since a nil reference's handle encodes as 0.
func AnyIsNil(a *AnyBox) bool {
	if a.Metadata.PointerLevel > 0 {
		return false
	}
	n := len(a.bytes)
	if n > 8 {
		n = 8
	}
	var word uint64
	for i := 0; i < n; i++ {
		word |= uint64(a.bytes[i]) << (8 * i)
	}
	return word == 0
}
