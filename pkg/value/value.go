// Package value defines the runtime value model for ilo.
//
// Value is a single tagged struct rather than an interface hierarchy: the
// variant set is small, fixed, and several variants (the three Empty
// flavors) carry no payload at all, so one struct with a Kind discriminant
// reads closer to the teacher's value representation than a family of
// types would, and it makes the Empty/EmptyBoolean/EmptyNumber sentinels
// (the evaluator's trickiest invariant) a single field comparison instead
// of a type switch.
package value

import (
	"fmt"
	"math"
	"strconv"

	"github.com/ilo-lang/ilo/pkg/ast"
)

// Kind discriminates the Value variants.
type Kind int

const (
	Empty Kind = iota
	EmptyBoolean
	EmptyNumber
	Boolean
	Number
	String
	Function
	NativeFunction
)

// Native is the host-level callable backing a NativeFunction value.
type Native func(args []Value) (Value, error)

// Value is a single ilo runtime value. Only the fields relevant to Kind
// are meaningful; the rest are zero.
type Value struct {
	Kind Kind

	Bool bool
	Num  float64
	Str  string

	// Function / NativeFunction
	Name   string
	Params []string
	Body   []ast.Statement // nil for NativeFunction
	Call   Native          // nil for Function
}

func NewEmpty() Value        { return Value{Kind: Empty} }
func NewEmptyBoolean() Value { return Value{Kind: EmptyBoolean} }
func NewEmptyNumber() Value  { return Value{Kind: EmptyNumber} }
func NewBoolean(b bool) Value { return Value{Kind: Boolean, Bool: b} }
func NewNumber(n float64) Value { return Value{Kind: Number, Num: n} }
func NewString(s string) Value { return Value{Kind: String, Str: s} }

func NewFunction(name string, params []string, body []ast.Statement) Value {
	return Value{Kind: Function, Name: name, Params: params, Body: body}
}

func NewNativeFunction(name string, params []string, fn Native) Value {
	return Value{Kind: NativeFunction, Name: name, Params: params, Call: fn}
}

// IsEmptyKind reports whether v is any of the three Empty variants.
func (v Value) IsEmptyKind() bool {
	return v.Kind == Empty || v.Kind == EmptyBoolean || v.Kind == EmptyNumber
}

// IsCallable reports whether v can appear as a call's callee.
func (v Value) IsCallable() bool {
	return v.Kind == Function || v.Kind == NativeFunction
}

// Arity returns the number of declared parameters of a callable value.
func (v Value) Arity() int { return len(v.Params) }

// TypeName reports v's type for assignment-compatibility checks (spec
// §4.3): "boolean", "number", "string", or "function(N)". The untyped
// Empty has no type and returns "".
func (v Value) TypeName() string {
	switch v.Kind {
	case Boolean, EmptyBoolean:
		return "boolean"
	case Number, EmptyNumber:
		return "number"
	case String:
		return "string"
	case Function, NativeFunction:
		return fmt.Sprintf("function(%d)", len(v.Params))
	default:
		return ""
	}
}

// SameType reports whether two values have assignment-compatible types.
// Function types are compatible regardless of arity for this check —
// only the four scalar kinds need to agree exactly, since redeclaring a
// function under an existing non-function name (or vice versa) is the
// Type error spec §4.3 describes, while two different-arity functions
// sharing a name is covered separately by FunctionDecl's own check.
func (v Value) SameType(other Value) bool {
	kindOf := func(val Value) int {
		switch val.Kind {
		case Boolean, EmptyBoolean:
			return 0
		case Number, EmptyNumber:
			return 1
		case String:
			return 2
		case Function, NativeFunction:
			return 3
		default:
			return -1
		}
	}
	a, b := kindOf(v), kindOf(other)
	return a != -1 && a == b
}

// Equals implements the cross-variant equality rules of spec §4.3 /
// invariant #4.
func (v Value) Equals(other Value) bool {
	if v.IsEmptyKind() || other.IsEmptyKind() {
		return emptyEquals(v, other)
	}
	if v.Kind != other.Kind {
		return false
	}
	switch v.Kind {
	case Boolean:
		return v.Bool == other.Bool
	case Number:
		return v.Num == other.Num
	case String:
		return v.Str == other.Str
	case Function, NativeFunction:
		return v.Name == other.Name
	default:
		return false
	}
}

// emptyEquals handles any comparison where at least one side is an Empty
// variant. A concrete value is never equal to an Empty* (spec §4.3); among
// the Empty variants, untyped Empty equals anything Empty-shaped, and the
// two typed holes equal only their own kind.
func emptyEquals(a, b Value) bool {
	if !a.IsEmptyKind() || !b.IsEmptyKind() {
		return false
	}
	if a.Kind == Empty || b.Kind == Empty {
		return true
	}
	return a.Kind == b.Kind
}

// Render produces the textual form used for the interpreter's returned
// string and for `out` (spec §4.3).
func (v Value) Render() string {
	switch v.Kind {
	case Boolean:
		if v.Bool {
			return "true"
		}
		return "false"
	case Number:
		return renderNumber(v.Num)
	case String:
		return v.Str
	case Empty, EmptyBoolean, EmptyNumber:
		return ""
	case Function, NativeFunction:
		return renderCallable(v)
	default:
		return ""
	}
}

// renderNumber formats n with the shortest round-trip representation,
// normalizing -0 to 0 (spec §4.3, §9's open-question resolution).
// Integral values are written in plain decimal, never in exponent form.
func renderNumber(n float64) string {
	if n == 0 {
		return "0"
	}
	if n == math.Trunc(n) {
		return strconv.FormatFloat(n, 'f', -1, 64)
	}
	return strconv.FormatFloat(n, 'g', -1, 64)
}

func renderCallable(v Value) string {
	body := "{}"
	if v.Kind == NativeFunction {
		body = "{ [native code] }"
	}
	noun := "argument"
	if len(v.Params) != 1 {
		noun = "arguments"
	}
	return fmt.Sprintf("f %s(%d %s) %s", v.Name, len(v.Params), noun, body)
}
