package demangle

// specialTypes maps a single-character code to its builtin type name. The
// 'i' code is handled separately by readInnerType because it carries an optional
// decimal bit-width suffix (Int, Int8, Int32, ...); everything else here is
// a fixed-width builtin with no parameters.
var specialTypes = map[byte]string{
	'b': "Bool",
	'v': "Void",
	'f': "Float",
	'd': "Double",
	'c': "Char",
	'S': "String",
	'a': "Any",
	'p': "Pointer",
}

// operators maps a single-character code used after the 'O' function-kind
// tag to the source-level operator it represents.
var operators = map[byte]string{
	'p': "+",
	'm': "-",
	't': "*",
	'd': "/",
	'r': "%",
	'e': "==",
	'n': "!=",
	'l': "<",
	'g': ">",
	'L': "<=",
	'G': ">=",
	'A': "&&",
	'O': "||",
	'x': "!",
	'&': "&",
	'|': "|",
	'^': "^",
}
