package trillrt

import (
	"bytes"
	"encoding/binary"
	"strings"
	"testing"

	"github.com/trill-lang/trillrt/internal/diag"
)

// E1 ARC lifecycle, driven through the exported façade.
func TestFacadeARCLifecycle(t *testing.T) {
	var log []bool
	b := TrillAllocateIndirectType(16, func(payload []byte) { log = append(log, true) })

	TrillRetain(b)
	TrillRetain(b)
	for i := 0; i < 3; i++ {
		TrillRelease(b)
	}
	if len(log) != 1 {
		t.Fatalf("deinit observed %d times, want 1", len(log))
	}
}

// E6 fatal on OOB field, driven through the exported façade.
func TestFacadeFieldOutOfBounds(t *testing.T) {
	intType := &TypeDescriptor{Name: "Int", SizeInBits: 64}

	var buf bytes.Buffer
	restoreWriter := diag.SetDiagnosticWriter(&buf)
	defer restoreWriter()

	var code int
	restoreTerm := diag.SetTerminator(func(c int) { code = c })
	defer restoreTerm()

	f := TrillGetFieldMetadata(intType, 0)
	if f != nil {
		t.Fatal("Int has no fields; index 0 should not return a field descriptor")
	}
	if code != 1 {
		t.Fatalf("terminator called with code %d, want 1", code)
	}
	want := "fatal error: field index 0 out of bounds for type Int with 0 fields"
	if !strings.HasPrefix(buf.String(), want) {
		t.Fatalf("report %q does not start with %q", buf.String(), want)
	}
}

// E3 Any round-trip, driven through the exported façade.
func TestFacadeAnyRoundTrip(t *testing.T) {
	intType := &TypeDescriptor{Name: "Int", SizeInBits: 64}
	pointType := &TypeDescriptor{
		Name:       "Point",
		SizeInBits: 128,
		Fields: []FieldDescriptor{
			{Name: "x", TypeMetadata: intType, Offset: 0},
			{Name: "y", TypeMetadata: intType, Offset: 8},
		},
	}

	a := TrillAllocateAny(pointType)
	xBytes := TrillGetAnyFieldValuePtr(a, 0)
	binary.LittleEndian.PutUint64(xBytes, 3)
	yBytes := TrillGetAnyFieldValuePtr(a, 1)
	binary.LittleEndian.PutUint64(yBytes, 5)

	y := TrillExtractAnyField(a, 1)
	if !TrillCheckTypes(y, intType) {
		t.Fatal("extracted field should check as Int")
	}
	if got := binary.LittleEndian.Uint64(TrillGetAnyValuePtr(y)); got != 5 {
		t.Fatalf("extracted y = %d, want 5", got)
	}

	TrillUpdateAny(a, 0, y)
	xBytes = TrillGetAnyFieldValuePtr(a, 0)
	if got := binary.LittleEndian.Uint64(xBytes); got != 5 {
		t.Fatalf("field x after update = %d, want 5", got)
	}
}

// E4 fatal on checked cast mismatch, driven through the exported façade.
func TestFacadeCheckedCastMismatch(t *testing.T) {
	intType := &TypeDescriptor{Name: "Int", SizeInBits: 64}
	boolType := &TypeDescriptor{Name: "Bool", SizeInBits: 8}
	a := TrillAllocateAny(intType)

	var buf bytes.Buffer
	restoreWriter := diag.SetDiagnosticWriter(&buf)
	defer restoreWriter()

	called := false
	restoreTerm := diag.SetTerminator(func(int) { called = true })
	defer restoreTerm()

	TrillCheckedCast(a, boolType)
	if !called {
		t.Fatal("casting Int to Bool should be fatal")
	}
}

// E5, driven through the exported façade.
func TestFacadeDemangle(t *testing.T) {
	got, err := TrillDemangle("_WFD5Point")
	if err != nil {
		t.Fatal(err)
	}
	if want := "Point.deinit"; got != want {
		t.Fatalf("TrillDemangle() = %q, want %q", got, want)
	}
}

func TestFacadeRegisterDeinitializerIsNoOp(t *testing.T) {
	called := false
	b := TrillAllocateIndirectType(4, nil)
	TrillRegisterDeinitializer(b, func([]byte) { called = true })

	TrillRelease(b)
	if called {
		t.Fatal("trill_registerDeinitializer is a documented no-op and must not attach a deinitializer")
	}
}
