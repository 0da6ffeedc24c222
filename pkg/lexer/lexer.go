// Package lexer implements the lexical analyzer (tokenizer) for ilo.
//
// Lexing Architecture:
//
// The lexer is a single forward-only scanner over the source string. It
// keeps a current-byte cursor (ch, position, readPosition) plus a running
// line/column so every emitted token can anchor a diagnostic. This mirrors
// the teacher's byte-at-a-time scanning style: readChar advances the
// cursor, peekChar looks one byte ahead without consuming it, and next
// dispatches on the current byte.
//
// Unlike a single-error scanner, ScanTokens keeps going after a bad byte
// or an unterminated string/comment: it records the problem and resumes
// scanning from the next byte, so a single pass can report every lexical
// error in the source (spec §4.1/§7). The accumulated errors are joined
// with a multierror so the caller gets one non-nil error summarizing all
// of them.
package lexer

import (
	"fmt"
	"unicode"
	"unicode/utf8"

	"github.com/hashicorp/go-multierror"

	"github.com/ilo-lang/ilo/pkg/token"
)

// Lexer scans ilo source text into a token stream.
type Lexer struct {
	input        string
	position     int // index of ch
	readPosition int // index of the next byte to read
	ch           byte
	line         int
	column       int

	pendingErr *lexError // set by skipBlockComment on an unterminated comment
}

// New creates a Lexer over the given source text.
func New(input string) *Lexer {
	l := &Lexer{input: input, line: 1, column: 0}
	l.readChar()
	return l
}

func (l *Lexer) readChar() {
	if l.readPosition >= len(l.input) {
		l.ch = 0
	} else {
		l.ch = l.input[l.readPosition]
	}
	l.position = l.readPosition
	l.readPosition++
	l.column++
}

func (l *Lexer) peekChar() byte {
	if l.readPosition >= len(l.input) {
		return 0
	}
	return l.input[l.readPosition]
}

func (l *Lexer) advanceLine() {
	l.line++
	l.column = 0
}

// ScanTokens scans the entire input and returns the resulting token list
// (always terminated by exactly one EOF token) plus a non-nil error if any
// lexical errors were encountered. Scanning does not stop at the first
// error: every bad byte and every unterminated literal is recorded, and
// scanning resumes on the next byte, so multiple diagnostics can surface
// from a single pass (spec §4.1).
func (l *Lexer) ScanTokens() ([]token.Token, error) {
	var tokens []token.Token
	var errs *multierror.Error

	for {
		tok, err := l.next()
		if err != nil {
			errs = multierror.Append(errs, err)
			continue
		}
		tokens = append(tokens, tok)
		if tok.Kind == token.EOF {
			break
		}
	}

	return tokens, errs.ErrorOrNil()
}

// lexError describes one lexical diagnostic (unexpected character,
// unterminated string, unterminated block comment).
type lexError struct {
	Message string
	Line    int
	Column  int
}

func (e *lexError) Error() string {
	return fmt.Sprintf("Lexical error at line %d, column %d: %s.", e.Line, e.Column, e.Message)
}

// next scans and returns a single token, or a *lexError if the current
// position does not start a valid token (the caller skips past the
// offending byte and resumes).
func (l *Lexer) next() (token.Token, error) {
	l.skipWhitespaceAndComments()

	if l.pendingErr != nil {
		err := l.pendingErr
		l.pendingErr = nil
		return token.Token{}, err
	}

	startLine, startColumn := l.line, l.column

	make := func(k token.Kind, lexeme string) token.Token {
		return token.Token{Kind: k, Lexeme: lexeme, Line: startLine, Column: startColumn}
	}

	switch l.ch {
	case 0:
		return make(token.EOF, ""), nil
	case '\n':
		l.advanceLine()
		l.readChar()
		return make(token.EOL, "\n"), nil
	case '{':
		l.readChar()
		return make(token.LBrace, "{"), nil
	case '}':
		l.readChar()
		return make(token.RBrace, "}"), nil
	case '[':
		l.readChar()
		return make(token.LBracket, "["), nil
	case ']':
		l.readChar()
		return make(token.RBracket, "]"), nil
	case '(':
		l.readChar()
		return make(token.LParen, "("), nil
	case ')':
		l.readChar()
		return make(token.RParen, ")"), nil
	case ',':
		l.readChar()
		return make(token.Comma, ","), nil
	case ':':
		l.readChar()
		return make(token.Colon, ":"), nil
	case '?':
		l.readChar()
		return make(token.Question, "?"), nil
	case '+':
		return l.lexTwoWay(make, '+', token.Plus, token.Increment, "++", '=', token.PlusEq, "+="), nil
	case '-':
		return l.lexArrowOrMinus(make, startLine, startColumn)
	case '*':
		return l.lexTwoWay(make, '*', token.Star, 0, "", '=', token.StarEq, "*="), nil
	case '/':
		return l.lexTwoWay(make, '/', token.Slash, 0, "", '=', token.SlashEq, "/="), nil
	case '%':
		return l.lexTwoWay(make, '%', token.Percent, 0, "", '=', token.PercentEq, "%="), nil
	case '^':
		return l.lexTwoWay(make, '^', token.Caret, 0, "", '=', token.CaretEq, "^="), nil
	case '=':
		if l.peekChar() == '=' {
			l.readChar()
			l.readChar()
			return make(token.Eq, "=="), nil
		}
		l.readChar()
		return make(token.Assign, "="), nil
	case '!':
		if l.peekChar() == '=' {
			l.readChar()
			l.readChar()
			return make(token.NotEq, "!="), nil
		}
		l.readChar()
		return make(token.Bang, "!"), nil
	case '<':
		if l.peekChar() == '=' {
			l.readChar()
			l.readChar()
			return make(token.LessEq, "<="), nil
		}
		l.readChar()
		return make(token.Less, "<"), nil
	case '>':
		if l.peekChar() == '=' {
			l.readChar()
			l.readChar()
			return make(token.GreaterEq, ">="), nil
		}
		l.readChar()
		return make(token.Greater, ">"), nil
	case '.':
		if l.peekChar() == '.' {
			l.readChar()
			if l.peekChar() == '.' {
				l.readChar()
				l.readChar()
				return make(token.Ellipsis, "..."), nil
			}
			// ".." is not a token; both dots are consumed and reported
			// together as one unexpected-character error.
			l.readChar()
			return token.Token{}, &lexError{Message: `unexpected character ".."`, Line: startLine, Column: startColumn}
		}
		l.readChar()
		return make(token.Dot, "."), nil
	case '"':
		return l.readString(startLine, startColumn)
	default:
		if isLetter(l.ch) {
			lexeme := l.readIdentifier()
			return make(token.LookupIdentifier(lexeme), lexeme), nil
		}
		if isDigit(l.ch) {
			return l.readNumber(startLine, startColumn), nil
		}
		r, size := utf8.DecodeRuneInString(l.input[l.position:])
		lexeme := string(r)
		for i := 0; i < size; i++ {
			l.readChar()
		}
		return token.Token{}, &lexError{
			Message: fmt.Sprintf("unexpected character %q", lexeme),
			Line:    startLine, Column: startColumn,
		}
	}
}

// lexTwoWay handles an operator byte that may double (e.g. "++") or be
// followed by "=" (e.g. "+="), falling back to the single-character token.
func (l *Lexer) lexTwoWay(
	make func(token.Kind, string) token.Token,
	ch byte, single token.Kind, double token.Kind, doubleLexeme string,
	eq byte, eqKind token.Kind, eqLexeme string,
) token.Token {
	if double != 0 && l.peekChar() == ch {
		l.readChar()
		l.readChar()
		return make(double, doubleLexeme)
	}
	if l.peekChar() == eq {
		l.readChar()
		l.readChar()
		return make(eqKind, eqLexeme)
	}
	l.readChar()
	return make(single, string(ch))
}

func (l *Lexer) lexArrowOrMinus(make func(token.Kind, string) token.Token, line, column int) (token.Token, error) {
	switch l.peekChar() {
	case '-':
		l.readChar()
		l.readChar()
		return make(token.Decrement, "--"), nil
	case '=':
		l.readChar()
		l.readChar()
		return make(token.MinusEq, "-="), nil
	case '>':
		l.readChar()
		l.readChar()
		return make(token.Arrow, "->"), nil
	default:
		l.readChar()
		return make(token.Minus, "-"), nil
	}
}

// skipWhitespaceAndComments consumes spaces, tabs, carriage returns,
// `//` line comments, and `/* */` block comments. Newlines are NOT
// consumed here — they are emitted as EOL tokens by next().
func (l *Lexer) skipWhitespaceAndComments() {
	for {
		switch {
		case l.ch == ' ' || l.ch == '\t' || l.ch == '\r':
			l.readChar()
		case l.ch == '/' && l.peekChar() == '/':
			for l.ch != '\n' && l.ch != 0 {
				l.readChar()
			}
		case l.ch == '/' && l.peekChar() == '*':
			l.skipBlockComment()
		default:
			return
		}
	}
}

// skipBlockComment consumes a /* ... */ comment. Per spec §4.1 it closes
// "on first `/` preceded by `*`" — i.e. nesting is by convention only, the
// first "*/" seen ends the comment regardless of further "/*" inside it.
// An unterminated block comment is recorded as a lexical error but does
// not stop scanning: the lexer treats EOF as the end of the comment.
func (l *Lexer) skipBlockComment() {
	startLine, startColumn := l.line, l.column
	l.readChar() // consume '/'
	l.readChar() // consume '*'
	for {
		if l.ch == 0 {
			l.pendingErr = &lexError{
				Message: "unterminated block comment",
				Line:    startLine, Column: startColumn,
			}
			return
		}
		if l.ch == '*' && l.peekChar() == '/' {
			l.readChar()
			l.readChar()
			return
		}
		if l.ch == '\n' {
			l.advanceLine()
		}
		l.readChar()
	}
}

func isLetter(ch byte) bool {
	return ch == '_' || unicode.IsLetter(rune(ch))
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func (l *Lexer) readIdentifier() string {
	start := l.position
	for isLetter(l.ch) || isDigit(l.ch) {
		l.readChar()
	}
	return l.input[start:l.position]
}

// readNumber scans a decimal integer or fractional literal. Unary minus
// is not handled here — spec §4.1 puts that in the parser — so a leading
// '-' is never consumed by this function.
func (l *Lexer) readNumber(line, column int) token.Token {
	start := l.position
	for isDigit(l.ch) {
		l.readChar()
	}
	if l.ch == '.' && isDigit(l.peekChar()) {
		l.readChar()
		for isDigit(l.ch) {
			l.readChar()
		}
	}
	lexeme := l.input[start:l.position]
	var value float64
	fmt.Sscanf(lexeme, "%g", &value)
	return token.Token{Kind: token.Number, Lexeme: lexeme, Num: value, Line: line, Column: column}
}

// readString scans a double-quoted string literal. No escape processing
// is performed (spec §4.1); embedded newlines are legal and update the
// running line/column. The column reported for the token that follows the
// closing quote accounts for the quote itself, per spec §4.1's rule that
// "column after the literal is (length of last line + 2)" for multi-line
// strings.
func (l *Lexer) readString(line, column int) (token.Token, error) {
	l.readChar() // consume opening quote
	start := l.position
	for l.ch != '"' && l.ch != 0 {
		if l.ch == '\n' {
			l.advanceLine()
		}
		l.readChar()
	}
	if l.ch == 0 {
		return token.Token{}, &lexError{Message: "unterminated string", Line: line, Column: column}
	}
	text := l.input[start:l.position]
	l.readChar() // consume closing quote
	return token.Token{Kind: token.String, Lexeme: text, Str: text, Line: line, Column: column}, nil
}
