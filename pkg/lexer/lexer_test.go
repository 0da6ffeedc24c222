package lexer

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ilo-lang/ilo/pkg/token"
)

func scan(t *testing.T, input string) []token.Token {
	t.Helper()
	tokens, err := New(input).ScanTokens()
	require.NoError(t, err)
	return tokens
}

func kinds(tokens []token.Token) []token.Kind {
	out := make([]token.Kind, len(tokens))
	for i, tok := range tokens {
		out[i] = tok.Kind
	}
	return out
}

func TestScanTokensSimpleExpression(t *testing.T) {
	tokens := scan(t, "1 + 2 * 3")
	require.Equal(t, []token.Kind{token.Number, token.Plus, token.Number, token.Star, token.Number, token.EOF}, kinds(tokens))
}

func TestScanTokensEmitsEOLPerNewline(t *testing.T) {
	tokens := scan(t, "a = 1\nb = 2\n")
	require.Equal(t, []token.Kind{
		token.Identifier, token.Assign, token.Number, token.EOL,
		token.Identifier, token.Assign, token.Number, token.EOL,
		token.EOF,
	}, kinds(tokens))
}

func TestScanTokensKeywordsAndIdentifiers(t *testing.T) {
	tokens := scan(t, "f empty while count")
	require.Equal(t, []token.Kind{token.Func, token.Empty, token.While, token.Identifier, token.EOF}, kinds(tokens))
}

func TestScanTokensMultiCharOperatorsLongestMatchWins(t *testing.T) {
	tokens := scan(t, "== != <= >= -> ...")
	require.Equal(t, []token.Kind{
		token.Eq, token.NotEq, token.LessEq, token.GreaterEq, token.Arrow, token.Ellipsis, token.EOF,
	}, kinds(tokens))
}

func TestScanTokensStringLiteral(t *testing.T) {
	tokens := scan(t, `"hello world"`)
	require.Equal(t, token.String, tokens[0].Kind)
	require.Equal(t, "hello world", tokens[0].StringValue())
}

func TestScanTokensStringLiteralSpansNewlines(t *testing.T) {
	tokens, err := New("\"line one\nline two\"\nx").ScanTokens()
	require.NoError(t, err)
	require.Equal(t, "line one\nline two", tokens[0].StringValue())
	// The EOL after the string's closing quote, then the identifier on line 3.
	require.Equal(t, token.EOL, tokens[1].Kind)
	require.Equal(t, 3, tokens[2].Line)
}

func TestScanTokensNumberLiteral(t *testing.T) {
	tokens := scan(t, "42 3.5")
	require.InDelta(t, 42.0, tokens[0].NumberValue(), 0)
	require.InDelta(t, 3.5, tokens[1].NumberValue(), 0)
}

func TestScanTokensLineComment(t *testing.T) {
	tokens := scan(t, "1 // trailing comment\n2")
	require.Equal(t, []token.Kind{token.Number, token.EOL, token.Number, token.EOF}, kinds(tokens))
}

func TestScanTokensBlockComment(t *testing.T) {
	tokens := scan(t, "1 /* a\nb */ 2")
	require.Equal(t, []token.Kind{token.Number, token.Number, token.EOF}, kinds(tokens))
}

func TestScanTokensUnterminatedBlockCommentIsLexicalError(t *testing.T) {
	_, err := New("1 /* unterminated").ScanTokens()
	require.Error(t, err)
	require.Contains(t, err.Error(), "Lexical error")
}

func TestScanTokensUnterminatedStringIsLexicalError(t *testing.T) {
	_, err := New(`"unterminated`).ScanTokens()
	require.Error(t, err)
	require.Contains(t, err.Error(), "Lexical error")
}

func TestScanTokensAccumulatesMultipleErrors(t *testing.T) {
	_, err := New("1 $ 2 @ 3").ScanTokens()
	require.Error(t, err)
	require.Contains(t, err.Error(), `unexpected character "$"`)
	require.Contains(t, err.Error(), `unexpected character "@"`)
}

func TestScanTokensIsDeterministic(t *testing.T) {
	const src = "f f(a, b) {\n  return a + b\n}\n"
	first, err := New(src).ScanTokens()
	require.NoError(t, err)
	second, err := New(src).ScanTokens()
	require.NoError(t, err)
	require.Equal(t, first, second)
}
