// Package demangle decodes the language's mangled function, type,
// accessor, operator, and witness symbols back into readable source-like
// form. It is a straight grammar-driven recursive descent decoder; see
// SPEC_FULL.md §4.6 for the pseudo-grammar it implements.
package demangle

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrMalformed is returned (possibly wrapped) whenever the input does not
// match the grammar. The deliberately unimplemented 'C' closure kind
// reports ErrClosureUnimplemented instead.
var ErrMalformed = errors.New("demangle: malformed symbol")

// ErrClosureUnimplemented is returned for the 'C' (closure) kind, which the
// source runtime never implemented either.
var ErrClosureUnimplemented = errors.New("demangle: closure demangling is unimplemented")

// cursor is a byte-at-a-time reader over the remaining mangled text. It
// mirrors the source decoder's habit of repeatedly erasing a prefix off a
// std::string, just without the string mutation.
type cursor struct {
	s string
}

func (c *cursor) empty() bool {
	return len(c.s) == 0
}

func (c *cursor) front() (byte, bool) {
	if c.empty() {
		return 0, false
	}
	return c.s[0], true
}

func (c *cursor) advance(n int) {
	if n > len(c.s) {
		n = len(c.s)
	}
	c.s = c.s[n:]
}

// readNum consumes a leading run of decimal digits and returns the parsed
// value. It fails if there are no leading digits.
func (c *cursor) readNum() (int, bool) {
	i := 0
	for i < len(c.s) && c.s[i] >= '0' && c.s[i] <= '9' {
		i++
	}
	if i == 0 {
		return 0, false
	}
	n, err := strconv.Atoi(c.s[:i])
	if err != nil {
		return 0, false
	}
	c.advance(i)
	return n, true
}

// readName reads a decimal length prefix followed by that many raw bytes.
func (c *cursor) readName() (string, bool) {
	n, ok := c.readNum()
	if !ok || n < 0 || n > len(c.s) {
		return "", false
	}
	name := c.s[:n]
	c.advance(n)
	return name, true
}

// readType decodes the `type` production, writing its rendered form.
func (c *cursor) readType() (string, bool) {
	var out strings.Builder

	if b, ok := c.front(); ok && b == 'P' {
		c.advance(1)
		n, ok := c.readNum()
		if !ok {
			return "", false
		}
		if b, ok := c.front(); !ok || b != 'T' {
			return "", false
		}
		c.advance(1)
		out.WriteString(strings.Repeat("*", n))
	}

	inner, ok := c.readInnerType()
	if !ok {
		return "", false
	}
	out.WriteString(inner)
	return out.String(), true
}

func (c *cursor) readInnerType() (string, bool) {
	b, ok := c.front()
	if !ok {
		return "", false
	}
	switch b {
	case 'F':
		c.advance(1)
		var args []string
		for {
			b, ok := c.front()
			if !ok {
				return "", false
			}
			if b == 'R' {
				break
			}
			arg, ok := c.readType()
			if !ok {
				return "", false
			}
			args = append(args, arg)
		}
		c.advance(1) // 'R'
		ret, ok := c.readType()
		if !ok {
			return "", false
		}
		return "(" + strings.Join(args, ", ") + ") -> " + ret, true
	case 'A':
		c.advance(1)
		elem, ok := c.readType()
		if !ok {
			return "", false
		}
		return "[" + elem + "]", true
	case 't':
		c.advance(1)
		var fields []string
		for {
			b, ok := c.front()
			if !ok {
				return "", false
			}
			if b == 'T' {
				break
			}
			f, ok := c.readType()
			if !ok {
				return "", false
			}
			fields = append(fields, f)
		}
		c.advance(1) // 'T'
		return "(" + strings.Join(fields, ", ") + ")", true
	case 's':
		c.advance(1)
		sb, ok := c.front()
		if !ok {
			return "", false
		}
		if sb == 'i' {
			c.advance(1)
			out := "Int"
			if n, ok := c.readNum(); ok {
				out += strconv.Itoa(n)
			}
			return out, true
		}
		name, ok := specialTypes[sb]
		if !ok {
			return "", false
		}
		c.advance(1)
		return name, true
	default:
		return c.readName()
	}
}

// readArg decodes the `arg` production.
func (c *cursor) readArg() (string, bool) {
	var external, internal string
	singleName := false

	b, ok := c.front()
	if !ok {
		return "", false
	}
	switch b {
	case 'S':
		c.advance(1)
		singleName = true
	case 'E':
		c.advance(1)
		ext, ok := c.readName()
		if !ok {
			return "", false
		}
		external = ext
	}

	name, ok := c.readName()
	if !ok {
		return "", false
	}
	internal = name

	typ, ok := c.readType()
	if !ok {
		return "", false
	}

	var out strings.Builder
	if !singleName {
		if external == "" {
			external = "_"
		}
		out.WriteString(external)
		out.WriteByte(' ')
	}
	out.WriteString(internal)
	out.WriteString(": ")
	out.WriteString(typ)
	return out.String(), true
}

// demangleFunction decodes the `function` production. c must be positioned
// just after the leading 'F' kind tag.
func (c *cursor) demangleFunction() (string, bool) {
	b, ok := c.front()
	if !ok {
		return "", false
	}

	if b == 'D' {
		c.advance(1)
		typ, ok := c.readType()
		if !ok {
			return "", false
		}
		return typ + ".deinit", true
	}

	var out strings.Builder
	switch b {
	case 'M':
		c.advance(1)
		typ, ok := c.readType()
		if !ok {
			return "", false
		}
		name, ok := c.readName()
		if !ok {
			return "", false
		}
		out.WriteString(typ)
		out.WriteByte('.')
		out.WriteString(name)
	case 'm':
		c.advance(1)
		typ, ok := c.readType()
		if !ok {
			return "", false
		}
		name, ok := c.readName()
		if !ok {
			return "", false
		}
		out.WriteString("static ")
		out.WriteString(typ)
		out.WriteByte('.')
		out.WriteString(name)
	case 'g':
		c.advance(1)
		typ, ok := c.readType()
		if !ok {
			return "", false
		}
		name, ok := c.readName()
		if !ok {
			return "", false
		}
		retType, ok := c.readType()
		if !ok {
			return "", false
		}
		return "getter for " + typ + "." + name + ": " + retType, true
	case 's':
		c.advance(1)
		typ, ok := c.readType()
		if !ok {
			return "", false
		}
		name, ok := c.readName()
		if !ok {
			return "", false
		}
		retType, ok := c.readType()
		if !ok {
			return "", false
		}
		return "setter for " + typ + "." + name + ": " + retType, true
	case 'I':
		c.advance(1)
		typ, ok := c.readType()
		if !ok {
			return "", false
		}
		out.WriteString(typ)
		out.WriteString(".init")
	case 'S':
		c.advance(1)
		typ, ok := c.readType()
		if !ok {
			return "", false
		}
		out.WriteString(typ)
		out.WriteString(".subscript")
	case 'O':
		c.advance(1)
		opc, ok := c.front()
		if !ok {
			return "", false
		}
		op, ok := operators[opc]
		if !ok {
			return "", false
		}
		c.advance(1)
		out.WriteString(op)
	default:
		name, ok := c.readName()
		if !ok {
			return "", false
		}
		out.WriteString(name)
	}

	out.WriteByte('(')
	var args []string
	for {
		b, ok := c.front()
		if !ok || b == 'R' || b == 'C' {
			break
		}
		arg, ok := c.readArg()
		if !ok {
			return "", false
		}
		args = append(args, arg)
	}
	out.WriteString(strings.Join(args, ", "))
	out.WriteByte(')')

	if b, ok := c.front(); ok && b == 'R' {
		c.advance(1)
		ret, ok := c.readType()
		if !ok {
			return "", false
		}
		out.WriteString(" -> ")
		out.WriteString(ret)
	}
	if b, ok := c.front(); ok && b == 'C' {
		c.advance(1)
		out.WriteString(" (closure #1)")
	}

	return out.String(), true
}

// Demangle decodes a mangled symbol string into its readable form.
func Demangle(symbol string) (string, error) {
	c := &cursor{s: symbol}
	switch {
	case strings.HasPrefix(c.s, "__W"):
		c.advance(3)
	case strings.HasPrefix(c.s, "_W"):
		c.advance(2)
	default:
		return "", fmt.Errorf("%w: %q has no trill mangling prefix", ErrMalformed, symbol)
	}

	kind, ok := c.front()
	if !ok {
		return "", fmt.Errorf("%w: %q ends after mangling prefix", ErrMalformed, symbol)
	}

	var out string
	switch kind {
	case 'C':
		return "", ErrClosureUnimplemented
	case 'F':
		c.advance(1)
		out, ok = c.demangleFunction()
	case 'T':
		c.advance(1)
		out, ok = c.readType()
	case 'g':
		c.advance(1)
		var name string
		name, ok = c.readName()
		out = "accessor for global " + name
	case 'G':
		c.advance(1)
		var name string
		name, ok = c.readName()
		out = "initializer for global " + name
	case 'W':
		c.advance(1)
		var from, to string
		from, ok = c.readName()
		if ok {
			to, ok = c.readName()
		}
		out = "witness table for " + from + " to " + to
	case 'P':
		c.advance(1)
		var name string
		name, ok = c.readName()
		out = "protocol " + name
	default:
		return "", fmt.Errorf("%w: %q has unknown kind tag %q", ErrMalformed, symbol, kind)
	}

	if !ok {
		return "", fmt.Errorf("%w: %q", ErrMalformed, symbol)
	}
	return out, nil
}
