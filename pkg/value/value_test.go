package value

import "testing"

import "github.com/stretchr/testify/require"

func TestEqualsConcreteValues(t *testing.T) {
	require.True(t, NewNumber(3).Equals(NewNumber(3)))
	require.False(t, NewNumber(3).Equals(NewNumber(4)))
	require.True(t, NewString("a").Equals(NewString("a")))
	require.False(t, NewString("a").Equals(NewString("b")))
	require.True(t, NewBoolean(true).Equals(NewBoolean(true)))
	require.False(t, NewBoolean(true).Equals(NewBoolean(false)))
	require.False(t, NewNumber(3).Equals(NewString("3")))
}

func TestEqualsUntypedEmptyMatchesAnyEmptyShape(t *testing.T) {
	require.True(t, NewEmpty().Equals(NewEmpty()))
	require.True(t, NewEmpty().Equals(NewEmptyBoolean()))
	require.True(t, NewEmpty().Equals(NewEmptyNumber()))
	require.True(t, NewEmptyNumber().Equals(NewEmpty()))
}

func TestEqualsTypedEmptyMatchesOnlyOwnKind(t *testing.T) {
	require.True(t, NewEmptyBoolean().Equals(NewEmptyBoolean()))
	require.False(t, NewEmptyBoolean().Equals(NewEmptyNumber()))
	require.False(t, NewEmptyNumber().Equals(NewEmptyBoolean()))
}

func TestEqualsConcreteValueNeverMatchesEmpty(t *testing.T) {
	require.False(t, NewNumber(0).Equals(NewEmpty()))
	require.False(t, NewNumber(0).Equals(NewEmptyNumber()))
	require.False(t, NewBoolean(false).Equals(NewEmptyBoolean()))
	require.False(t, NewString("").Equals(NewEmpty()))
}

func TestTypeName(t *testing.T) {
	require.Equal(t, "boolean", NewBoolean(true).TypeName())
	require.Equal(t, "boolean", NewEmptyBoolean().TypeName())
	require.Equal(t, "number", NewNumber(1).TypeName())
	require.Equal(t, "number", NewEmptyNumber().TypeName())
	require.Equal(t, "string", NewString("x").TypeName())
	require.Equal(t, "", NewEmpty().TypeName())
	require.Equal(t, "function(2)", NewFunction("f", []string{"a", "b"}, nil).TypeName())
}

func TestSameType(t *testing.T) {
	require.True(t, NewNumber(1).SameType(NewNumber(2)))
	require.True(t, NewNumber(1).SameType(NewEmptyNumber()))
	require.False(t, NewNumber(1).SameType(NewString("x")))
	require.True(t, NewFunction("a", []string{"x"}, nil).SameType(NewFunction("b", nil, nil)))
	require.False(t, NewEmpty().SameType(NewNumber(1)))
}

func TestRenderScalars(t *testing.T) {
	require.Equal(t, "true", NewBoolean(true).Render())
	require.Equal(t, "false", NewBoolean(false).Render())
	require.Equal(t, "3.5", NewNumber(3.5).Render())
	require.Equal(t, "hello", NewString("hello").Render())
	require.Equal(t, "", NewEmpty().Render())
	require.Equal(t, "", NewEmptyBoolean().Render())
}

func TestRenderNegativeZeroNormalizesToZero(t *testing.T) {
	require.Equal(t, "0", NewNumber(0).Render())
	require.Equal(t, "0", NewNumber(-0.0).Render())
}

func TestRenderFunctionSingularArgument(t *testing.T) {
	fn := NewFunction("inc", []string{"x"}, nil)
	require.Equal(t, "f inc(1 argument) {}", fn.Render())
}

func TestRenderFunctionPluralArguments(t *testing.T) {
	fn := NewFunction("add", []string{"a", "b"}, nil)
	require.Equal(t, "f add(2 arguments) {}", fn.Render())

	zero := NewFunction("noop", nil, nil)
	require.Equal(t, "f noop(0 arguments) {}", zero.Render())
}

func TestRenderNativeFunctionBody(t *testing.T) {
	native := NewNativeFunction("out", []string{"x"}, func(args []Value) (Value, error) {
		return NewEmpty(), nil
	})
	require.Equal(t, "f out(1 argument) { [native code] }", native.Render())
}

func TestIsCallableAndArity(t *testing.T) {
	fn := NewFunction("f", []string{"a", "b", "c"}, nil)
	require.True(t, fn.IsCallable())
	require.Equal(t, 3, fn.Arity())
	require.False(t, NewNumber(1).IsCallable())
}
