// Package types defines the primitive runtime values of Lox that need no
// callback into the interpreter: nil, booleans, numbers and strings.
// Callables (native functions, user functions, classes) and instances live
// in lang/interp instead, because calling one requires an *interp.Interpreter
// — keeping them here would make this package import interp, which imports
// this package, a cycle the teacher avoids the same way by keeping its
// Callable/Function/Thread types together in one lang/machine package.
package types

import "strconv"

// Value is implemented by every value the interpreter can produce or
// operate on.
type Value interface {
	// String returns the value's display representation, per the
	// interpreter's stringify rules. A Go nil Value has no String to call;
	// the Stringify helper in lang/interp renders that case as "nil".
	String() string
	// Type returns a short, lowercase name for the value's runtime type,
	// used in error messages.
	Type() string
}

// NilType is the type of Nil. Represented as an empty struct rather than a
// Go nil interface so that a missing/absent Value can be distinguished from
// the Lox value nil at the type level.
type NilType struct{}

// Nil is the sole Value of type NilType.
var Nil = NilType{}

func (NilType) String() string { return "nil" }
func (NilType) Type() string   { return "nil" }

// Bool is a Lox boolean.
type Bool bool

func (b Bool) String() string {
	if b {
		return "true"
	}
	return "false"
}
func (Bool) Type() string { return "boolean" }

// Number is a Lox number, always an IEEE-754 double.
type Number float64

func (n Number) String() string { return formatNumber(float64(n)) }
func (Number) Type() string     { return "number" }

// formatNumber renders f the way Lox's stringify does: shortest round-trip
// decimal, integral values printed without a trailing ".0", -0 normalized to
// "0", and the non-finite values spelled out (reachable only via runtime
// computation such as 0/0 or 1/0, never via a numeric literal).
func formatNumber(f float64) string {
	switch {
	case f != f: // NaN
		return "nan"
	case f > 0 && f*2 == f: // +Inf (only value where doubling is a no-op and not 0)
		return "inf"
	case f < 0 && f*2 == f:
		return "-inf"
	}
	if f == 0 {
		return "0"
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// Str is a Lox string.
type Str string

func (s Str) String() string { return string(s) }
func (Str) Type() string     { return "string" }

// Truthy reports whether v is truthy: everything except false and nil.
func Truthy(v Value) bool {
	switch v := v.(type) {
	case NilType:
		return false
	case Bool:
		return bool(v)
	default:
		return true
	}
}

// Equal implements Lox's "==" with the explicit NaN == NaN is true policy
// (differs from IEEE-754). Equality is by value for primitives and by
// identity for every other Value (callables, instances), the latter
// satisfied automatically by Go's == on interface values holding pointers.
func Equal(a, b Value) bool {
	switch a := a.(type) {
	case NilType:
		_, ok := b.(NilType)
		return ok
	case Bool:
		bb, ok := b.(Bool)
		return ok && a == bb
	case Number:
		bb, ok := b.(Number)
		if !ok {
			return false
		}
		if a != a && bb != bb { // both NaN
			return true
		}
		return a == bb
	case Str:
		bb, ok := b.(Str)
		return ok && a == bb
	default:
		return a == b
	}
}
