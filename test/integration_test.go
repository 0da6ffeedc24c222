// Package test exercises the full lex/parse/evaluate pipeline end to end,
// the way a user-facing .ilo script would be run by the CLI.
package test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ilo-lang/ilo/pkg/evaluator"
	"github.com/ilo-lang/ilo/pkg/lexer"
	"github.com/ilo-lang/ilo/pkg/parser"
)

func interpret(t *testing.T, src string) (string, string, error) {
	t.Helper()
	tokens, err := lexer.New(src).ScanTokens()
	require.NoError(t, err)
	stmts, err := parser.New(tokens).Parse()
	require.NoError(t, err)

	var out bytes.Buffer
	ev := evaluator.New(evaluator.WithOutput(&out))
	result, err := ev.Interpret(stmts)
	return result, out.String(), err
}

func TestEndToEndArithmetic(t *testing.T) {
	result, _, err := interpret(t, "1 + 2 * 3\n")
	require.NoError(t, err)
	require.Equal(t, "7", result)
}

func TestEndToEndStringRepeat(t *testing.T) {
	result, _, err := interpret(t, `"hello " * 3`+"\n")
	require.NoError(t, err)
	require.Equal(t, "hello hello hello ", result)
}

func TestEndToEndNestedBlockAccumulates(t *testing.T) {
	const src = "x = 3\n{\n  y = 5\n  x = x + y\n}\nx\n"
	result, _, err := interpret(t, src)
	require.NoError(t, err)
	require.Equal(t, "8", result)
}

func TestEndToEndRecursiveCount(t *testing.T) {
	const src = "f count(n) {\n  if n > 1 {\n    count(n - 1)\n  }\n  out(n)\n}\ncount(3)\n"
	result, out, err := interpret(t, src)
	require.NoError(t, err)
	require.Equal(t, "", result)
	require.Equal(t, "1\n2\n3\n", out)
}

func TestEndToEndEmptyNumberComparison(t *testing.T) {
	const src = "x = empty(number)\nx == 0\n"
	result, _, err := interpret(t, src)
	require.NoError(t, err)
	require.Equal(t, "false", result)
}

func TestEndToEndWhileCountdown(t *testing.T) {
	const src = "x = 100\nwhile x >= -150 {\n  x = x - 1\n}\nx\n"
	result, _, err := interpret(t, src)
	require.NoError(t, err)
	require.Equal(t, "-151", result)
}

func TestEndToEndNegativeCases(t *testing.T) {
	cases := []struct {
		name string
		src  string
	}{
		{"unbalanced parens", "((((((((3)))))))\n"},
		{"divide number by string", `5 / "string"` + "\n"},
		{"unary minus on boolean", "-true\n"},
		{"bang on number", "!4\n"},
		{"comparison with boolean operand", "3 < true\n"},
		{"out called with no arguments", "out()\n"},
		{"time called with an argument", "time(3)\n"},
		{"assign empty to unbound name", "var = empty\n"},
		{"typed empty string literal", "var = empty(string)\n"},
		{"empty block body", "f g() {}\n"},
		{"if body without braces", "if true out(4)\n"},
		{"duplicate name with a different type", "x = 1\nx = true\n"},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			tokens, lexErr := lexer.New(tc.src).ScanTokens()
			if lexErr != nil {
				return
			}
			stmts, parseErr := parser.New(tokens).Parse()
			if parseErr != nil {
				return
			}

			var out bytes.Buffer
			ev := evaluator.New(evaluator.WithOutput(&out))
			_, evalErr := ev.Interpret(stmts)
			require.Error(t, evalErr, "expected a lex, parse, or evaluation error for %q", tc.src)
		})
	}
}
