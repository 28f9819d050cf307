package typemeta

import (
	"bytes"
	"strings"
	"testing"

	"github.com/trill-lang/trillrt/internal/diag"
)

func intType() *TypeDescriptor {
	return &TypeDescriptor{Name: "Int", SizeInBits: 64}
}

func pointType() *TypeDescriptor {
	i := intType()
	return &TypeDescriptor{
		Name:       "Point",
		SizeInBits: 128,
		Fields: []FieldDescriptor{
			{Name: "x", TypeMetadata: i, Offset: 0},
			{Name: "y", TypeMetadata: i, Offset: 8},
		},
	}
}

func TestSizeInBytes(t *testing.T) {
	p := pointType()
	if got := p.SizeInBytes(); got != 16 {
		t.Fatalf("SizeInBytes() = %d, want 16", got)
	}
}

func TestFieldCount(t *testing.T) {
	if intType().FieldCount() != 0 {
		t.Fatal("Int should have zero fields")
	}
	if pointType().FieldCount() != 2 {
		t.Fatal("Point should have two fields")
	}
}

func TestFieldMetadata(t *testing.T) {
	p := pointType()
	f := FieldMetadata(p, 1)
	if f.Name != "y" || f.Offset != 8 {
		t.Fatalf("got field %+v, want y at offset 8", f)
	}
}

// E6 fatal on OOB field.
func TestFieldMetadataOutOfBounds(t *testing.T) {
	i := intType()

	var buf bytes.Buffer
	restoreWriter := diag.SetDiagnosticWriter(&buf)
	defer restoreWriter()

	var code int
	restoreTerm := diag.SetTerminator(func(c int) { code = c })
	defer restoreTerm()

	f := FieldMetadata(i, 0)
	if f != nil {
		t.Fatal("out-of-bounds access should not return a field descriptor")
	}
	if code != 1 {
		t.Fatalf("terminator called with code %d, want 1", code)
	}
	want := "fatal error: field index 0 out of bounds for type Int with 0 fields"
	if !strings.HasPrefix(buf.String(), want) {
		t.Fatalf("report %q does not start with %q", buf.String(), want)
	}
}

// Boundary case: index equal to fieldCount.
func TestFieldMetadataIndexEqualsCount(t *testing.T) {
	p := pointType()

	restoreWriter := diag.SetDiagnosticWriter(&bytes.Buffer{})
	defer restoreWriter()

	called := false
	restoreTerm := diag.SetTerminator(func(int) { called = true })
	defer restoreTerm()

	FieldMetadata(p, p.FieldCount())
	if !called {
		t.Fatal("index == fieldCount should be out of bounds")
	}
}

func TestProtocolMethodCount(t *testing.T) {
	p := &ProtocolDescriptor{Name: "Equatable", MethodNames: []string{"equals"}}
	if p.MethodCount() != 1 {
		t.Fatalf("MethodCount() = %d, want 1", p.MethodCount())
	}
}

func TestDumpTypeMetadata(t *testing.T) {
	out, err := DumpTypeMetadata(pointType())
	if err != nil {
		t.Fatal(err)
	}
	if out == "" {
		t.Fatal("DumpTypeMetadata returned empty string")
	}
}
