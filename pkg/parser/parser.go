// Package parser implements the ilo language parser.
//
// Parser Architecture:
//
// The parser is a recursive-descent, precedence-climbing parser over a
// fully-materialized token slice (unlike the teacher's streaming
// curTok/peekTok window, a slice lets the parser freely rewind — used
// below when probing for an `else` across blank lines). Each grammar
// production in spec §4.2 has a matching method; the precedence chain is
// a straight line of calls from parseOr down to parsePrimary, each level
// handling exactly the operators spec §4.2 assigns to it.
//
// Error Handling:
//
// The parser accumulates syntax errors with go-multierror rather than
// stopping at the first one (spec §4.2/§7): each erroring statement is
// followed by synchronize(), which discards tokens until it reaches an
// EOL, EOF, or a token that starts a new statement (f, for, if, while,
// return, match, delete), so the next statement gets parsed fresh.
package parser

import (
	"fmt"

	"github.com/hashicorp/go-multierror"

	"github.com/ilo-lang/ilo/pkg/ast"
	"github.com/ilo-lang/ilo/pkg/token"
)

// Parser converts a token slice into a statement list.
type Parser struct {
	tokens []token.Token
	pos    int
	errs   *multierror.Error
}

// New creates a Parser over the given token slice, which must be
// terminated by an EOF token (as produced by lexer.ScanTokens).
func New(tokens []token.Token) *Parser {
	return &Parser{tokens: tokens}
}

// Parse parses the entire token stream and returns the resulting
// statement list. If any syntax errors were recorded, the returned error
// is non-nil and summarizes all of them; the statement list is still
// returned (possibly with holes) for inspection, but callers should treat
// a non-nil error as "do not evaluate this".
func (p *Parser) Parse() ([]ast.Statement, error) {
	var stmts []ast.Statement
	for !p.check(token.EOF) {
		if p.check(token.EOL) {
			p.advance()
			continue
		}
		if stmt := p.parseStatement(); stmt != nil {
			stmts = append(stmts, stmt)
		}
	}
	return stmts, p.errs.ErrorOrNil()
}

// Errors returns the accumulated syntax diagnostics, one string per
// error, in the order they were recorded.
func (p *Parser) Errors() []string {
	if p.errs == nil {
		return nil
	}
	out := make([]string, len(p.errs.Errors))
	for i, e := range p.errs.Errors {
		out[i] = e.Error()
	}
	return out
}

// syntaxError is one Syntax-kind diagnostic, formatted per spec §6.
type syntaxError struct {
	Message string
	Line    int
	Column  int
}

func (e *syntaxError) Error() string {
	return fmt.Sprintf("Syntax error at line %d, column %d: %s.", e.Line, e.Column, e.Message)
}

func (p *Parser) error(tok token.Token, msg string) {
	p.errs = multierror.Append(p.errs, &syntaxError{Message: msg, Line: tok.Line, Column: tok.Column})
}

func (p *Parser) errCount() int {
	if p.errs == nil {
		return 0
	}
	return len(p.errs.Errors)
}

// --- token cursor -----------------------------------------------------

func (p *Parser) cur() token.Token {
	return p.tokens[p.pos]
}

func (p *Parser) peek() token.Token {
	if p.pos+1 < len(p.tokens) {
		return p.tokens[p.pos+1]
	}
	return p.tokens[len(p.tokens)-1]
}

func (p *Parser) check(kind token.Kind) bool {
	return p.cur().Kind == kind
}

func (p *Parser) advance() token.Token {
	t := p.cur()
	if p.pos < len(p.tokens)-1 {
		p.pos++
	}
	return t
}

// expect consumes the current token if it has the given kind; otherwise
// it records a syntax error anchored on the current token and leaves the
// cursor in place.
func (p *Parser) expect(kind token.Kind, msg string) bool {
	if p.check(kind) {
		p.advance()
		return true
	}
	p.error(p.cur(), msg)
	return false
}

func (p *Parser) skipEOLs() {
	for p.check(token.EOL) {
		p.advance()
	}
}

// synchronize discards tokens until it reaches an EOL (consumed, so the
// next call starts on a fresh statement), EOF, or a token that begins a
// new statement (spec §4.2's recovery anchor set).
func (p *Parser) synchronize() {
	for !p.check(token.EOF) {
		if p.check(token.EOL) {
			p.advance()
			return
		}
		switch p.cur().Kind {
		case token.Func, token.For, token.If, token.While, token.Return, token.Match, token.Delete:
			return
		}
		p.advance()
	}
}

// --- statements ---------------------------------------------------------

// parseStatement parses one statement and synchronizes if it produced a
// new error, so a single bad statement doesn't cascade into every
// statement after it.
func (p *Parser) parseStatement() ast.Statement {
	before := p.errCount()
	stmt := p.statement()
	if p.errCount() > before {
		p.synchronize()
	}
	return stmt
}

func (p *Parser) statement() ast.Statement {
	switch {
	case p.check(token.Identifier) && p.peek().Kind == token.Assign:
		return p.parseAssignment()
	case p.check(token.LBrace):
		return p.parseBlock()
	case p.check(token.If):
		return p.parseIf()
	case p.check(token.While):
		return p.parseWhile()
	case p.check(token.Func):
		return p.parseFuncDecl()
	case p.check(token.Return):
		return p.parseReturn()
	default:
		return p.parseExprStmt()
	}
}

// expectStmtEnd enforces that a statement ends at EOL or EOF (spec §4.2's
// `assignment`/`return`/`exprStmt` productions all end with EOL, and "EOL
// also terminates at EOF").
func (p *Parser) expectStmtEnd() {
	if p.check(token.EOL) {
		p.advance()
		return
	}
	if p.check(token.EOF) {
		return
	}
	p.error(p.cur(), "expected end of line")
}

func (p *Parser) parseAssignment() ast.Statement {
	name := p.advance() // identifier, already confirmed by caller
	if !p.expect(token.Assign, "expected '=' in assignment") {
		return nil
	}

	var value ast.Expression
	if p.check(token.Empty) {
		value = p.parseEmptyInit()
	} else {
		value = p.parseExpr()
	}
	p.expectStmtEnd()
	return &ast.Assignment{Name: name, Value: value}
}

// parseEmptyInit parses the `emptyInit` production: the bare `empty`
// keyword, optionally followed by `(boolean)` or `(number)` to declare a
// typed hole. `empty(string)` is rejected per spec §4.2. The typed/untyped
// distinction is encoded on the synthesized token's Lexeme ("boolean",
// "number", or "empty") rather than adding a dedicated AST node, since the
// evaluator only ever needs to dispatch on it once.
func (p *Parser) parseEmptyInit() ast.Expression {
	kw := p.advance() // consume 'empty'
	if !p.check(token.LParen) {
		return &ast.Primary{Token: token.Token{Kind: token.Empty, Lexeme: "empty", Line: kw.Line, Column: kw.Column}}
	}
	p.advance() // consume '('

	switch {
	case p.check(token.Boolean):
		p.advance()
		p.expect(token.RParen, "expected ')' after 'empty(boolean'")
		return &ast.Primary{Token: token.Token{Kind: token.Empty, Lexeme: "boolean", Line: kw.Line, Column: kw.Column}}
	case p.check(token.NumberKeyword):
		p.advance()
		p.expect(token.RParen, "expected ')' after 'empty(number'")
		return &ast.Primary{Token: token.Token{Kind: token.Empty, Lexeme: "number", Line: kw.Line, Column: kw.Column}}
	case p.check(token.StringKeyword):
		p.error(p.cur(), `empty(string) is not allowed, use ""`)
		p.advance()
		p.expect(token.RParen, "expected ')'")
		return &ast.Primary{Token: token.Token{Kind: token.Empty, Lexeme: "empty", Line: kw.Line, Column: kw.Column}}
	default:
		p.error(p.cur(), "expected 'boolean' or 'number' after 'empty('")
		for !p.check(token.RParen) && !p.check(token.EOL) && !p.check(token.EOF) {
			p.advance()
		}
		if p.check(token.RParen) {
			p.advance()
		}
		return &ast.Primary{Token: token.Token{Kind: token.Empty, Lexeme: "empty", Line: kw.Line, Column: kw.Column}}
	}
}

func (p *Parser) parseExprStmt() ast.Statement {
	expr := p.parseExpr()
	p.expectStmtEnd()
	if expr == nil {
		return nil
	}
	return &ast.ExprStmt{X: expr}
}

func (p *Parser) parseReturn() ast.Statement {
	kw := p.advance() // consume 'return'
	value := p.parseExpr()
	p.expectStmtEnd()
	return &ast.Return{Keyword: kw, Value: value}
}

func (p *Parser) parseWhile() ast.Statement {
	kw := p.advance() // consume 'while'
	cond := p.parseExpr()
	if !p.expect(token.LBrace, "expected '{' after while condition") {
		return &ast.While{Keyword: kw, Cond: cond}
	}
	return &ast.While{Keyword: kw, Cond: cond, Body: p.parseBlock()}
}

func (p *Parser) parseIf() ast.Statement {
	kw := p.advance() // consume 'if'
	cond := p.parseExpr()
	if !p.expect(token.LBrace, "expected '{' after if condition") {
		return &ast.If{Keyword: kw, Cond: cond}
	}
	then := p.parseBlock()
	return &ast.If{Keyword: kw, Cond: cond, Then: then, Else: p.parseOptionalElse()}
}

// parseOptionalElse probes past any number of blank lines for an `else`
// (spec §4.2: "`else` may be separated from the preceding `}` by blank
// lines"). Tokens are a slice, so probing is a cheap save/restore of an
// index rather than a re-lex.
func (p *Parser) parseOptionalElse() ast.Statement {
	saved := p.pos
	p.skipEOLs()
	if !p.check(token.Else) {
		p.pos = saved
		return nil
	}
	p.advance() // consume 'else'
	if p.check(token.If) {
		return p.parseIf()
	}
	if !p.expect(token.LBrace, "expected '{' after else") {
		return nil
	}
	return p.parseBlock()
}

func (p *Parser) parseFuncDecl() ast.Statement {
	kw := p.advance() // consume 'f'
	// The native-function keywords are names too, so a local function can
	// shadow one of them.
	switch p.cur().Kind {
	case token.Identifier, token.Out, token.Ask, token.Size, token.Cmd:
	default:
		p.error(p.cur(), "expected function name")
		return nil
	}
	name := p.advance()
	if !p.expect(token.LParen, "expected '(' after function name") {
		return nil
	}

	var params []token.Token
	if !p.check(token.RParen) {
		params = append(params, p.parseParam())
		for p.check(token.Comma) {
			p.advance()
			params = append(params, p.parseParam())
		}
	}
	p.expect(token.RParen, "expected ')' after parameters")
	if !p.expect(token.LBrace, "expected '{' to start function body") {
		return &ast.FunctionDecl{Keyword: kw, Name: name, Params: params}
	}
	body := p.parseBlock()
	return &ast.FunctionDecl{Keyword: kw, Name: name, Params: params, Body: body.Stmts}
}

func (p *Parser) parseParam() token.Token {
	if p.check(token.Identifier) {
		return p.advance()
	}
	p.error(p.cur(), "expected parameter name")
	return p.cur()
}

// parseBlock parses a `{ EOL { stmt | EOL } '}'` block, assuming the
// current token is the opening brace. A newline is unconditionally
// required right after `{` (spec §4.2), so even an empty `{}` is a
// syntax error. The closing `}` may be preceded by any number of blank
// lines.
func (p *Parser) parseBlock() *ast.Block {
	lbrace := p.advance() // consume '{'
	p.expect(token.EOL, "expected newline after '{'")

	var stmts []ast.Statement
	for !p.check(token.RBrace) && !p.check(token.EOF) {
		if p.check(token.EOL) {
			p.advance()
			continue
		}
		if stmt := p.parseStatement(); stmt != nil {
			stmts = append(stmts, stmt)
		}
	}
	p.expect(token.RBrace, "expected '}' to close block")
	return &ast.Block{LBrace: lbrace, Stmts: stmts}
}

// --- expressions: precedence chain --------------------------------------
//
// or > and > equality > comparison > term > mod > factor > pow > unary >
// call > primary, all left-associative, matching spec §4.2 exactly.

func (p *Parser) parseExpr() ast.Expression {
	return p.parseOr()
}

func (p *Parser) parseOr() ast.Expression {
	left := p.parseAnd()
	for p.check(token.Or) {
		op := p.advance()
		right := p.parseAnd()
		left = &ast.Binary{Left: left, Op: op, Right: right}
	}
	return left
}

func (p *Parser) parseAnd() ast.Expression {
	left := p.parseEquality()
	for p.check(token.And) {
		op := p.advance()
		right := p.parseEquality()
		left = &ast.Binary{Left: left, Op: op, Right: right}
	}
	return left
}

// parseEquality implements `eq = cmp { ('=='|'!=') cmp }`. A bare `empty`
// cmp that is never flanked by `==`/`!=` is a syntax error (spec §4.2:
// "Anywhere else, `empty` is a parse error").
func (p *Parser) parseEquality() ast.Expression {
	left, leftIsBareEmpty := p.parseComparison()
	matched := false
	for p.check(token.Eq) || p.check(token.NotEq) {
		matched = true
		op := p.advance()
		right, _ := p.parseComparison()
		left = &ast.Binary{Left: left, Op: op, Right: right}
	}
	if leftIsBareEmpty && !matched {
		p.error(left.Tok(), "'empty' may only be used as a comparison operand or assignment value")
	}
	return left
}

// parseComparison implements `cmp = 'empty' | term { relop term }`.
func (p *Parser) parseComparison() (ast.Expression, bool) {
	if p.check(token.Empty) {
		tok := p.advance()
		return &ast.Primary{Token: token.Token{Kind: token.Empty, Lexeme: "empty", Line: tok.Line, Column: tok.Column}}, true
	}
	left := p.parseTerm()
	for p.check(token.Less) || p.check(token.Greater) || p.check(token.LessEq) || p.check(token.GreaterEq) {
		op := p.advance()
		right := p.parseTerm()
		left = &ast.Binary{Left: left, Op: op, Right: right}
	}
	return left, false
}

func (p *Parser) parseTerm() ast.Expression {
	left := p.parseMod()
	for p.check(token.Plus) || p.check(token.Minus) {
		op := p.advance()
		right := p.parseMod()
		left = &ast.Binary{Left: left, Op: op, Right: right}
	}
	return left
}

func (p *Parser) parseMod() ast.Expression {
	left := p.parseFactor()
	for p.check(token.Percent) {
		op := p.advance()
		right := p.parseFactor()
		left = &ast.Binary{Left: left, Op: op, Right: right}
	}
	return left
}

func (p *Parser) parseFactor() ast.Expression {
	left := p.parsePow()
	for p.check(token.Star) || p.check(token.Slash) {
		op := p.advance()
		right := p.parsePow()
		left = &ast.Binary{Left: left, Op: op, Right: right}
	}
	return left
}

func (p *Parser) parsePow() ast.Expression {
	left := p.parseUnary()
	for p.check(token.Caret) {
		op := p.advance()
		right := p.parseUnary()
		left = &ast.Binary{Left: left, Op: op, Right: right}
	}
	return left
}

func (p *Parser) parseUnary() ast.Expression {
	if p.check(token.Minus) || p.check(token.Bang) {
		op := p.advance()
		return &ast.Unary{Op: op, Inner: p.parseUnary()}
	}
	return p.parseCall()
}

func (p *Parser) parseCall() ast.Expression {
	expr := p.parsePrimary()
	for p.check(token.LParen) {
		p.advance() // consume '('
		var args []ast.Expression
		if !p.check(token.RParen) {
			args = append(args, p.parseExpr())
			for p.check(token.Comma) {
				p.advance()
				args = append(args, p.parseExpr())
			}
		}
		closing := p.cur()
		p.expect(token.RParen, "expected ')' after arguments")
		expr = &ast.Call{Callee: expr, ClosingParen: closing, Args: args}
	}
	return expr
}

func (p *Parser) parsePrimary() ast.Expression {
	tok := p.cur()
	switch tok.Kind {
	case token.True, token.False, token.Number, token.String:
		p.advance()
		return &ast.Primary{Token: tok}
	case token.Identifier, token.Out, token.Ask, token.Size, token.Cmd:
		// out/ask/size/cmd are reserved words that name native functions.
		p.advance()
		return &ast.Variable{Name: tok}
	case token.LParen:
		p.advance()
		inner := p.parseExpr()
		p.expect(token.RParen, "expected ')' to close grouping")
		return &ast.Grouping{LParen: tok, Inner: inner}
	default:
		p.error(tok, fmt.Sprintf("unexpected token %q", tok.Lexeme))
		p.advance()
		return nil
	}
}
