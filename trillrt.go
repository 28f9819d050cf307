// Package trillrt is the runtime's exported surface: a thin façade that
// wraps internal/alloc, internal/arcbox, internal/anybox, internal/genericbox,
// internal/typemeta, and internal/demangle behind the stable trill_*
// symbol names generated code links against. Each function here does no
// work of its own beyond argument translation, in the same style
// goloader's root package wraps its link and mmap subpackages.
package trillrt

import (
	"github.com/trill-lang/trillrt/internal/alloc"
	"github.com/trill-lang/trillrt/internal/anybox"
	"github.com/trill-lang/trillrt/internal/arcbox"
	"github.com/trill-lang/trillrt/internal/demangle"
	"github.com/trill-lang/trillrt/internal/diag"
	"github.com/trill-lang/trillrt/internal/genericbox"
	"github.com/trill-lang/trillrt/internal/typemeta"
)

// Re-exported types so callers never need to import the internal
// packages directly.
type (
	TypeDescriptor     = typemeta.TypeDescriptor
	FieldDescriptor    = typemeta.FieldDescriptor
	ProtocolDescriptor = typemeta.ProtocolDescriptor
	Box                = arcbox.Box
	AnyBox             = anybox.AnyBox
	GenericBox         = genericbox.GenericBox
	WitnessTable       = genericbox.WitnessTable
)

// trill_init loads runtime configuration and installs the signal
// handlers. Generated code calls this exactly once, before anything
// else in this package.
func TrillInit() {
	diag.LoadConfig()
	diag.InstallSignalHandlers()
}

// trill_alloc
func TrillAlloc(size int64) []byte {
	return alloc.Alloc(size)
}

// trill_fatalError
func TrillFatalError(msg string) {
	diag.FatalError(msg)
}

// trill_once
func TrillOnce(flag *diag.OnceFlag, fn func()) {
	flag.Do(fn)
}

// trill_printStackTrace
func TrillPrintStackTrace() []string {
	return diag.CaptureTrace()
}

// trill_registerDeinitializer is a no-op placeholder, inherited as-is
// from the original runtime: the canonical way to attach a deinitializer
// is to pass it to TrillAllocateIndirectType at construction time.
// internal/arcbox.Box.SetDeinitializer exists for callers that have a
// real use for late binding, but this ABI entry point does not call it,
// since doing so would resolve an open design question the original
// runtime explicitly left unresolved rather than genuinely implement it.
func TrillRegisterDeinitializer(_ *Box, _ arcbox.Deinitializer) {}

// trill_assertionFailure
func TrillAssertionFailure(expr, detail string) {
	diag.Assert(false, expr, detail)
}

// trill_allocateIndirectType
func TrillAllocateIndirectType(size int, deinit arcbox.Deinitializer) *Box {
	return arcbox.Allocate(size, deinit)
}

// trill_retain
func TrillRetain(b *Box) {
	arcbox.Retain(b)
}

// trill_release
func TrillRelease(b *Box) {
	arcbox.Release(b)
}

// trill_isUniquelyReferenced
func TrillIsUniquelyReferenced(b *Box) bool {
	return arcbox.IsUniquelyReferenced(b)
}

// trill_getTypeName
func TrillGetTypeName(t *TypeDescriptor) string {
	return t.Name
}

// trill_getTypeSizeInBits
func TrillGetTypeSizeInBits(t *TypeDescriptor) uint64 {
	return t.SizeInBits
}

// trill_getTypePointerLevel
func TrillGetTypePointerLevel(t *TypeDescriptor) uint64 {
	return t.PointerLevel
}

// trill_isReferenceType
func TrillIsReferenceType(t *TypeDescriptor) bool {
	return t.IsReferenceType
}

// trill_getTypeFieldCount
func TrillGetTypeFieldCount(t *TypeDescriptor) uint64 {
	return t.FieldCount()
}

// trill_getFieldMetadata
func TrillGetFieldMetadata(t *TypeDescriptor, i uint64) *FieldDescriptor {
	return typemeta.FieldMetadata(t, i)
}

// trill_getFieldName
func TrillGetFieldName(f *FieldDescriptor) string {
	return f.Name
}

// trill_getFieldType
func TrillGetFieldType(f *FieldDescriptor) *TypeDescriptor {
	return f.TypeMetadata
}

// trill_getFieldOffset
func TrillGetFieldOffset(f *FieldDescriptor) uintptr {
	return f.Offset
}

// trill_allocateAny
func TrillAllocateAny(t *TypeDescriptor) *AnyBox {
	return anybox.AllocateAny(t)
}

// trill_copyAny
func TrillCopyAny(a *AnyBox) *AnyBox {
	return anybox.CopyAny(a)
}

// trill_getAnyValuePtr
func TrillGetAnyValuePtr(a *AnyBox) []byte {
	return anybox.ValueBytes(a)
}

// trill_getAnyTypeMetadata
func TrillGetAnyTypeMetadata(a *AnyBox) *TypeDescriptor {
	return anybox.TypeMetadata(a)
}

// trill_getAnyFieldValuePtr
func TrillGetAnyFieldValuePtr(a *AnyBox, i uint64) []byte {
	return anybox.FieldValueBytes(a, i)
}

// trill_extractAnyField
func TrillExtractAnyField(a *AnyBox, i uint64) *AnyBox {
	return anybox.ExtractAnyField(a, i)
}

// trill_updateAny
func TrillUpdateAny(a *AnyBox, i uint64, newAny *AnyBox) {
	anybox.UpdateAny(a, i, newAny)
}

// trill_checkTypes
func TrillCheckTypes(a *AnyBox, t *TypeDescriptor) bool {
	return anybox.CheckTypes(a, t)
}

// trill_checkedCast
func TrillCheckedCast(a *AnyBox, t *TypeDescriptor) []byte {
	return anybox.CheckedCast(a, t)
}

// trill_anyIsNil
func TrillAnyIsNil(a *AnyBox) bool {
	return anybox.AnyIsNil(a)
}

// trill_createGenericBox
func TrillCreateGenericBox(t *TypeDescriptor, witness *WitnessTable) *GenericBox {
	return genericbox.CreateGenericBox(t, witness)
}

// trill_genericBoxValuePtr
func TrillGenericBoxValuePtr(g *GenericBox) []byte {
	return genericbox.GenericBoxValuePtr(g)
}

// trill_demangle
func TrillDemangle(symbol string) (string, error) {
	defer diag.StartOperationSpan("trill.demangle", "symbol", symbol)()
	return demangle.Demangle(symbol)
}

// trill_dumpProtocol
func TrillDumpProtocol(p *ProtocolDescriptor) (string, error) {
	return typemeta.DumpProtocol(p)
}
