package typemeta

import "github.com/goccy/go-json"

// fieldDump and typeDump mirror TypeDescriptor/FieldDescriptor but flatten
// the field type down to its name, since the debug dump is meant to be
// read by a person or a crash-report viewer, not round-tripped back into
// a live TypeDescriptor.
type fieldDump struct {
	Name       string `json:"name"`
	TypeName   string `json:"typeName"`
	Offset     uintptr `json:"offset"`
}

type typeDump struct {
	Name            string      `json:"name"`
	Fields          []fieldDump `json:"fields"`
	IsReferenceType bool        `json:"isReferenceType"`
	SizeInBits      uint64      `json:"sizeInBits"`
	PointerLevel    uint64      `json:"pointerLevel"`
}

// DumpTypeMetadata renders a type descriptor as JSON for debug tooling.
// The exact shape is not part of the stable ABI (SPEC_FULL.md §6).
func DumpTypeMetadata(t *TypeDescriptor) (string, error) {
	dump := typeDump{
		Name:            t.Name,
		IsReferenceType: t.IsReferenceType,
		SizeInBits:      t.SizeInBits,
		PointerLevel:    t.PointerLevel,
	}
	for _, f := range t.Fields {
		typeName := "<nil>"
		if f.TypeMetadata != nil {
			typeName = f.TypeMetadata.Name
		}
		dump.Fields = append(dump.Fields, fieldDump{
			Name:     f.Name,
			TypeName: typeName,
			Offset:   f.Offset,
		})
	}
	out, err := json.Marshal(dump)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

type protocolDump struct {
	Name        string   `json:"name"`
	MethodNames []string `json:"methodNames"`
}

// DumpProtocol renders a protocol descriptor as JSON for debug tooling.
func DumpProtocol(p *ProtocolDescriptor) (string, error) {
	out, err := json.Marshal(protocolDump{Name: p.Name, MethodNames: p.MethodNames})
	if err != nil {
		return "", err
	}
	return string(out), nil
}
