package genericbox

import (
	"testing"
	"unsafe"

	"github.com/trill-lang/trillrt/internal/typemeta"
)

func TestCreateGenericBox(t *testing.T) {
	pointType := &typemeta.TypeDescriptor{Name: "Point", SizeInBits: 128}
	witness := &WitnessTable{
		ProtocolName: "Equatable",
		Methods:      map[string]unsafe.Pointer{"equals": unsafe.Pointer(&struct{}{})},
	}

	box := CreateGenericBox(pointType, witness)
	if len(GenericBoxValuePtr(box)) != 16 {
		t.Fatalf("payload len = %d, want 16", len(GenericBoxValuePtr(box)))
	}

	if _, ok := witness.Lookup("equals"); !ok {
		t.Fatal("witness table should resolve a method it was given")
	}
	if _, ok := witness.Lookup("missing"); ok {
		t.Fatal("witness table should not resolve a method it was not given")
	}
}

func TestCreateGenericBoxNilWitness(t *testing.T) {
	pointType := &typemeta.TypeDescriptor{Name: "Point", SizeInBits: 128}
	box := CreateGenericBox(pointType, nil)
	if box.Witness != nil {
		t.Fatal("a nil witness table should round-trip as nil")
	}
	if len(GenericBoxValuePtr(box)) != 16 {
		t.Fatalf("payload len = %d, want 16", len(GenericBoxValuePtr(box)))
	}
}
