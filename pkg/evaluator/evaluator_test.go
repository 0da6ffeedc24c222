package evaluator

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ilo-lang/ilo/pkg/lexer"
	"github.com/ilo-lang/ilo/pkg/parser"
)

// run lexes, parses, and interprets src with a fresh Evaluator, returning
// the rendered result, captured stdout, and any error.
func run(t *testing.T, src string, opts ...Option) (string, string, error) {
	t.Helper()
	tokens, err := lexer.New(src).ScanTokens()
	require.NoError(t, err)
	stmts, err := parser.New(tokens).Parse()
	require.NoError(t, err)

	var out bytes.Buffer
	ev := New(append([]Option{WithOutput(&out)}, opts...)...)
	result, err := ev.Interpret(stmts)
	return result, out.String(), err
}

func TestArithmeticPrecedence(t *testing.T) {
	result, _, err := run(t, "1 + 2 * 3\n")
	require.NoError(t, err)
	require.Equal(t, "7", result)
}

func TestStringRepeat(t *testing.T) {
	result, _, err := run(t, `"hello " * 3`+"\n")
	require.NoError(t, err)
	require.Equal(t, "hello hello hello ", result)
}

func TestNestedBlockScoping(t *testing.T) {
	result, _, err := run(t, "x = 3\n{\n  y = 5\n  x = x + y\n}\nx\n")
	require.NoError(t, err)
	require.Equal(t, "8", result)
}

func TestRecursiveFunctionAndOutput(t *testing.T) {
	const src = "f count(n) {\n  if n > 1 {\n    count(n - 1)\n  }\n  out(n)\n}\ncount(3)\n"
	result, out, err := run(t, src)
	require.NoError(t, err)
	require.Equal(t, "", result)
	require.Equal(t, "1\n2\n3\n", out)
}

func TestEmptyNumberComparedToConcreteIsFalse(t *testing.T) {
	result, _, err := run(t, "x = empty(number)\nx == 0\n")
	require.NoError(t, err)
	require.Equal(t, "false", result)
}

func TestWhileCountdown(t *testing.T) {
	const src = "x = 100\nwhile x >= -150 {\n  x = x - 1\n}\nx\n"
	result, _, err := run(t, src)
	require.NoError(t, err)
	require.Equal(t, "-151", result)
}

func TestAssignmentTypeMismatchIsTypeError(t *testing.T) {
	_, _, err := run(t, "x = 5\nx = \"string\"\n")
	require.Error(t, err)
	require.Contains(t, err.Error(), "Type error")
}

func TestUnaryMinusRequiresNumber(t *testing.T) {
	_, _, err := run(t, "-true\n")
	require.Error(t, err)
	require.Contains(t, err.Error(), "Type error")
}

func TestUnaryBangRequiresBoolean(t *testing.T) {
	_, _, err := run(t, "!4\n")
	require.Error(t, err)
	require.Contains(t, err.Error(), "Type error")
}

func TestComparisonRequiresNumbers(t *testing.T) {
	_, _, err := run(t, "3 < true\n")
	require.Error(t, err)
	require.Contains(t, err.Error(), "Type error")
}

func TestDivideByStringIsTypeError(t *testing.T) {
	_, _, err := run(t, `5 / "string"` + "\n")
	require.Error(t, err)
	require.Contains(t, err.Error(), "Type error")
}

func TestCallArityMismatchIsTypeError(t *testing.T) {
	_, _, err := run(t, "out()\n")
	require.Error(t, err)
	require.Contains(t, err.Error(), "Type error")

	_, _, err = run(t, "time(3)\n")
	require.Error(t, err)
	require.Contains(t, err.Error(), "Type error")
}

func TestAssignEmptyToUnboundNameIsRuntimeError(t *testing.T) {
	_, _, err := run(t, "var = empty\n")
	require.Error(t, err)
	require.Contains(t, err.Error(), "Runtime error")
}

func TestEmptyStringLiteralIsRejectedByParserNotEvaluator(t *testing.T) {
	tokens, err := lexer.New("var = empty(string)\n").ScanTokens()
	require.NoError(t, err)
	_, err = parser.New(tokens).Parse()
	require.Error(t, err)
}

func TestReturnOutsideFunctionIsRuntimeError(t *testing.T) {
	tokens, err := lexer.New("return 1\n").ScanTokens()
	require.NoError(t, err)
	stmts, err := parser.New(tokens).Parse()
	require.NoError(t, err)
	ev := New()
	_, err = ev.Interpret(stmts)
	require.Error(t, err)
	require.Contains(t, err.Error(), "Runtime error")
}

func TestFunctionRedeclarationAtSameScopeIsTypeError(t *testing.T) {
	const src = "f add(a, b) {\n  return a + b\n}\nf add(x) {\n  return x\n}\n"
	_, _, err := run(t, src)
	require.Error(t, err)
	require.Contains(t, err.Error(), "Type error")
}

func TestFunctionCanShadowNativeInLocalScope(t *testing.T) {
	const src = "f wrapper() {\n  f out(x) {\n    return x\n  }\n  return out(9)\n}\nwrapper()\n"
	result, _, err := run(t, src)
	require.NoError(t, err)
	require.Equal(t, "9", result)
}

func TestRedeclaringNativeAtGlobalScopeIsTypeError(t *testing.T) {
	_, _, err := run(t, "f out(x) {\n  return x\n}\n")
	require.Error(t, err)
	require.Contains(t, err.Error(), "Type error")
}

func TestLogicalAndShortCircuits(t *testing.T) {
	const src = "f boom() {\n  out(\"should not run\")\n  return true\n}\nfalse and boom()\n"
	result, out, err := run(t, src)
	require.NoError(t, err)
	require.Equal(t, "false", result)
	require.Empty(t, out)
}

func TestLogicalOrShortCircuits(t *testing.T) {
	const src = "f boom() {\n  out(\"should not run\")\n  return true\n}\ntrue or boom()\n"
	result, out, err := run(t, src)
	require.NoError(t, err)
	require.Equal(t, "true", result)
	require.Empty(t, out)
}

func TestAskReadsFromInjectedInput(t *testing.T) {
	result, _, err := run(t, `ask("name: ")`+"\n", WithInput(strings.NewReader("Ann\n")))
	require.NoError(t, err)
	require.Equal(t, "Ann", result)
}

func TestSizeOfString(t *testing.T) {
	result, _, err := run(t, `size("hello")`+"\n")
	require.NoError(t, err)
	require.Equal(t, "5", result)
}

func TestDuplicateNameDifferentTypeIsTypeError(t *testing.T) {
	_, _, err := run(t, "x = 1\nx = true\n")
	require.Error(t, err)
	require.Contains(t, err.Error(), "Type error")
}
