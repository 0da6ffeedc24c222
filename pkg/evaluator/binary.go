package evaluator

import (
	"math"
	"strings"

	"github.com/ilo-lang/ilo/pkg/ast"
	"github.com/ilo-lang/ilo/pkg/token"
	"github.com/ilo-lang/ilo/pkg/value"
)

// evalBinary implements spec §4.3's expression semantics. `and`/`or`
// short-circuit and so evaluate their right operand lazily; every other
// operator evaluates both sides eagerly before dispatching.
func (e *Evaluator) evalBinary(b *ast.Binary) (value.Value, error) {
	switch b.Op.Kind {
	case token.And:
		left, err := e.eval(b.Left)
		if err != nil {
			return value.Value{}, err
		}
		if !isTrue(left) {
			return value.NewBoolean(false), nil
		}
		right, err := e.eval(b.Right)
		if err != nil {
			return value.Value{}, err
		}
		return value.NewBoolean(isTrue(right)), nil

	case token.Or:
		left, err := e.eval(b.Left)
		if err != nil {
			return value.Value{}, err
		}
		if isTrue(left) {
			return value.NewBoolean(true), nil
		}
		right, err := e.eval(b.Right)
		if err != nil {
			return value.Value{}, err
		}
		return value.NewBoolean(isTrue(right)), nil
	}

	left, err := e.eval(b.Left)
	if err != nil {
		return value.Value{}, err
	}
	right, err := e.eval(b.Right)
	if err != nil {
		return value.Value{}, err
	}

	switch b.Op.Kind {
	case token.Eq:
		return value.NewBoolean(left.Equals(right)), nil
	case token.NotEq:
		return value.NewBoolean(!left.Equals(right)), nil

	case token.Less, token.Greater, token.LessEq, token.GreaterEq:
		if left.Kind != value.Number || right.Kind != value.Number {
			return value.Value{}, typeFault(b, "comparison requires two numbers, got %s and %s", describe(left), describe(right))
		}
		switch b.Op.Kind {
		case token.Less:
			return value.NewBoolean(left.Num < right.Num), nil
		case token.Greater:
			return value.NewBoolean(left.Num > right.Num), nil
		case token.LessEq:
			return value.NewBoolean(left.Num <= right.Num), nil
		default:
			return value.NewBoolean(left.Num >= right.Num), nil
		}

	case token.Plus:
		if left.Kind == value.Number && right.Kind == value.Number {
			return value.NewNumber(left.Num + right.Num), nil
		}
		if left.Kind == value.String && right.Kind == value.String {
			return value.NewString(left.Str + right.Str), nil
		}
		return value.Value{}, typeFault(b, "'+' requires two numbers or two strings, got %s and %s", describe(left), describe(right))

	case token.Minus:
		if ok, errv := requireNumbers(b, left, right); !ok {
			return value.Value{}, errv
		}
		return value.NewNumber(left.Num - right.Num), nil

	case token.Star:
		switch {
		case left.Kind == value.Number && right.Kind == value.Number:
			return value.NewNumber(left.Num * right.Num), nil
		case left.Kind == value.String && right.Kind == value.Number:
			return stringRepeat(b, left.Str, right.Num)
		case left.Kind == value.Number && right.Kind == value.String:
			return stringRepeat(b, right.Str, left.Num)
		default:
			return value.Value{}, typeFault(b, "'*' requires two numbers or a string and a number, got %s and %s", describe(left), describe(right))
		}

	case token.Slash:
		if ok, errv := requireNumbers(b, left, right); !ok {
			return value.Value{}, errv
		}
		return value.NewNumber(left.Num / right.Num), nil

	case token.Percent:
		if ok, errv := requireNumbers(b, left, right); !ok {
			return value.Value{}, errv
		}
		return value.NewNumber(euclideanMod(left.Num, right.Num)), nil

	case token.Caret:
		if ok, errv := requireNumbers(b, left, right); !ok {
			return value.Value{}, errv
		}
		return value.NewNumber(math.Pow(left.Num, right.Num)), nil

	default:
		return value.Value{}, typeFault(b, "unsupported operator %q", b.Op.Lexeme)
	}
}

// isTrue coerces a value to a boolean for `and`/`or`: anything that is
// not literally Boolean(true) counts as false, with no error (spec
// §4.3's logical-operator rule).
func isTrue(v value.Value) bool {
	return v.Kind == value.Boolean && v.Bool
}

func requireNumbers(node ast.Node, left, right value.Value) (bool, error) {
	if left.Kind != value.Number || right.Kind != value.Number {
		return false, typeFault(node, "arithmetic requires two numbers, got %s and %s", describe(left), describe(right))
	}
	return true, nil
}

// stringRepeat implements `string * n` (spec §4.3): n must be a
// non-negative integer; n = 0 yields the empty string. Both operands are
// already correctly typed by the time this runs, so a bad count is a
// value-constraint violation, not a type mismatch — spec §7 classifies it
// as a Runtime error.
func stringRepeat(node ast.Node, s string, n float64) (value.Value, error) {
	if n < 0 || n != math.Trunc(n) {
		return value.Value{}, fault(node, "string repeat count must be a non-negative integer, got %v", n)
	}
	return value.NewString(strings.Repeat(s, int(n))), nil
}

// euclideanMod implements the Euclidean-remainder convention spec §4.3
// asks for `%` to use: the result always has the sign of the divisor's
// absolute value (i.e. is non-negative for a positive divisor), unlike
// Go's math.Mod which keeps the dividend's sign.
func euclideanMod(a, b float64) float64 {
	r := math.Mod(a, b)
	if r < 0 {
		r += math.Abs(b)
	}
	return r
}
