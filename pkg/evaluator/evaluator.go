// Package evaluator implements the tree-walking evaluator for ilo: the
// component that actually executes a parsed statement list against a
// scoped Environment.
//
// Evaluator Architecture:
//
// Every statement executor returns an execResult rather than throwing a
// host-level exception for `return` (spec §9's "Ok(Value) | Err(Fault) |
// Return(Value)" discipline): execResult.returning marks a value that is
// propagating upward out of a Return statement, and every block-like
// executor (Block, If, While) checks it after running a child statement
// and stops early if it is set, so a `return` buried inside nested blocks
// unwinds cleanly without special-casing each nesting level. The function
// call site is the only place that consumes a returning execResult rather
// than forwarding it.
//
// The evaluator is fail-fast (spec §7): the first error returned by any
// eval/exec method aborts the whole Interpret call.
package evaluator

import (
	"bufio"
	"io"
	"os"

	"github.com/hashicorp/go-hclog"

	"github.com/ilo-lang/ilo/pkg/ast"
	"github.com/ilo-lang/ilo/pkg/environment"
	"github.com/ilo-lang/ilo/pkg/token"
	"github.com/ilo-lang/ilo/pkg/value"
)

// Evaluator walks an AST against a lexically scoped Environment, seeded
// with the native functions of spec §4.4.
type Evaluator struct {
	env    *environment.Environment
	stdout io.Writer
	stdin  *bufio.Reader
	logger hclog.Logger
}

// Option configures an Evaluator at construction time.
type Option func(*Evaluator)

// WithOutput redirects the `out` native and ask's prompt to w instead of
// os.Stdout. Tests use this to capture output without touching the real
// console.
func WithOutput(w io.Writer) Option {
	return func(e *Evaluator) { e.stdout = w }
}

// WithInput redirects `ask`'s line reads to r instead of os.Stdin.
func WithInput(r io.Reader) Option {
	return func(e *Evaluator) { e.stdin = bufio.NewReader(r) }
}

// WithLogger attaches a debug logger (CLI's --debug flag). The default is
// a null logger, so tracing costs nothing unless explicitly requested.
func WithLogger(logger hclog.Logger) Option {
	return func(e *Evaluator) { e.logger = logger }
}

// New creates an Evaluator with a fresh Environment seeded with the
// native functions, defaulting output to os.Stdout, input to os.Stdin,
// and logging to a null logger.
func New(opts ...Option) *Evaluator {
	e := &Evaluator{
		env:    environment.New(),
		stdout: os.Stdout,
		stdin:  bufio.NewReader(os.Stdin),
		logger: hclog.NewNullLogger(),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.registerNatives()
	return e
}

// Interpret executes statements in order and renders the value of the
// final statement, per spec §4.3's contract. An empty program, or one
// whose final statement produces no value (an assignment, a function
// declaration), renders as "".
func (e *Evaluator) Interpret(statements []ast.Statement) (string, error) {
	last := value.NewEmpty()
	for _, stmt := range statements {
		res, err := e.execStmt(stmt)
		if err != nil {
			return "", err
		}
		if res.returning {
			return "", fault(stmt, "'return' used outside of a function")
		}
		if res.hasValue {
			last = res.value
		} else {
			last = value.NewEmpty()
		}
	}
	return last.Render(), nil
}

// execResult is the evaluator's internal result algebra. returning marks
// a Return propagating upward; hasValue marks that value holds the
// result of the most recently executed expression statement, which a
// containing Block/If/While forwards transparently.
type execResult struct {
	returning bool
	hasValue  bool
	value     value.Value
}

func noResult() execResult                 { return execResult{} }
func exprResult(v value.Value) execResult  { return execResult{hasValue: true, value: v} }
func returnResult(v value.Value) execResult { return execResult{returning: true, value: v} }

func (e *Evaluator) execStmt(stmt ast.Statement) (execResult, error) {
	switch s := stmt.(type) {
	case *ast.ExprStmt:
		v, err := e.eval(s.X)
		if err != nil {
			return execResult{}, err
		}
		return exprResult(v), nil
	case *ast.Assignment:
		return e.execAssignment(s)
	case *ast.Block:
		return e.execBlock(s)
	case *ast.If:
		return e.execIf(s)
	case *ast.While:
		return e.execWhile(s)
	case *ast.FunctionDecl:
		return e.execFunctionDecl(s)
	case *ast.Return:
		return e.execReturn(s)
	default:
		return execResult{}, fault(stmt, "unsupported statement")
	}
}

// execBlock enters a new, non-function scope (spec §3): whether `return`
// is legal inside it is decided by searching the whole scope stack
// (Environment.InFunctionScope), not by copying a flag down, per the
// simpler of the two equivalent designs in spec §9.
func (e *Evaluator) execBlock(b *ast.Block) (execResult, error) {
	e.env.Enter(false)
	defer e.env.Leave()

	result := noResult()
	for _, stmt := range b.Stmts {
		res, err := e.execStmt(stmt)
		if err != nil {
			return execResult{}, err
		}
		result = res
		if res.returning {
			break
		}
	}
	return result, nil
}

func (e *Evaluator) execAssignment(a *ast.Assignment) (execResult, error) {
	rhs, err := e.eval(a.Value)
	if err != nil {
		return execResult{}, err
	}
	name := a.Name.Lexeme

	if rhs.Kind == value.Empty {
		existing, ok := e.env.Get(name)
		if !ok {
			return execResult{}, fault(a, "%q is not bound; cannot reset it to empty", name)
		}
		e.env.Assign(name, resetToTypedEmpty(existing))
		return noResult(), nil
	}

	if existing, ok := e.env.Get(name); ok && !existing.SameType(rhs) {
		return execResult{}, typeFault(a, "cannot assign a %s to %q, which holds a %s", describe(rhs), name, describe(existing))
	}
	e.env.Assign(name, rhs)
	return noResult(), nil
}

// resetToTypedEmpty is the "replace with the matching EmptyT" half of
// assigning untyped `empty` (spec §4.3). A name that was never typed
// (string or function) has no typed-empty counterpart, so it falls back
// to the untyped sentinel, which still satisfies "a concrete value is
// never equal to an Empty*".
func resetToTypedEmpty(existing value.Value) value.Value {
	switch existing.TypeName() {
	case "boolean":
		return value.NewEmptyBoolean()
	case "number":
		return value.NewEmptyNumber()
	default:
		return value.NewEmpty()
	}
}

func (e *Evaluator) execIf(i *ast.If) (execResult, error) {
	cond, err := e.eval(i.Cond)
	if err != nil {
		return execResult{}, err
	}
	if cond.Kind != value.Boolean {
		return execResult{}, typeFault(i.Cond, "if condition must be a boolean, got %s", describe(cond))
	}
	switch {
	case cond.Bool && i.Then != nil:
		return e.execStmt(i.Then)
	case !cond.Bool && i.Else != nil:
		return e.execStmt(i.Else)
	default:
		return noResult(), nil
	}
}

func (e *Evaluator) execWhile(w *ast.While) (execResult, error) {
	result := noResult()
	for {
		cond, err := e.eval(w.Cond)
		if err != nil {
			return execResult{}, err
		}
		if cond.Kind != value.Boolean {
			return execResult{}, typeFault(w.Cond, "while condition must be a boolean, got %s", describe(cond))
		}
		if !cond.Bool {
			return result, nil
		}
		if w.Body == nil {
			continue
		}
		res, err := e.execStmt(w.Body)
		if err != nil {
			return execResult{}, err
		}
		result = res
		if res.returning {
			return result, nil
		}
	}
}

// execFunctionDecl checks only the current (innermost) frame for a prior
// declaration, so a local function may shadow an outer or global name
// (including a native) without error; only a collision within the same
// frame — which, at global scope, includes the reserved natives — is a
// Type error (spec §4.4).
func (e *Evaluator) execFunctionDecl(f *ast.FunctionDecl) (execResult, error) {
	if e.env.ExistsInCurrent(f.Name.Lexeme) {
		return execResult{}, typeFault(f, "%q is already declared", f.Name.Lexeme)
	}
	params := make([]string, len(f.Params))
	for i, p := range f.Params {
		params[i] = p.Lexeme
	}
	e.env.Declare(f.Name.Lexeme, value.NewFunction(f.Name.Lexeme, params, f.Body))
	return noResult(), nil
}

func (e *Evaluator) execReturn(r *ast.Return) (execResult, error) {
	if !e.env.InFunctionScope() {
		return execResult{}, fault(r, "'return' used outside of a function")
	}
	v, err := e.eval(r.Value)
	if err != nil {
		return execResult{}, err
	}
	return returnResult(v), nil
}

// --- expressions ---------------------------------------------------------

func (e *Evaluator) eval(expr ast.Expression) (value.Value, error) {
	switch x := expr.(type) {
	case *ast.Primary:
		return e.evalPrimary(x)
	case *ast.Variable:
		return e.evalVariable(x)
	case *ast.Grouping:
		return e.eval(x.Inner)
	case *ast.Unary:
		return e.evalUnary(x)
	case *ast.Binary:
		return e.evalBinary(x)
	case *ast.Call:
		return e.evalCall(x)
	default:
		return value.Value{}, fault(expr, "unsupported expression")
	}
}

func (e *Evaluator) evalPrimary(p *ast.Primary) (value.Value, error) {
	switch p.Token.Kind {
	case token.True:
		return value.NewBoolean(true), nil
	case token.False:
		return value.NewBoolean(false), nil
	case token.Number:
		return value.NewNumber(p.Token.Num), nil
	case token.String:
		return value.NewString(p.Token.Str), nil
	case token.Empty:
		switch p.Token.Lexeme {
		case "boolean":
			return value.NewEmptyBoolean(), nil
		case "number":
			return value.NewEmptyNumber(), nil
		default:
			return value.NewEmpty(), nil
		}
	default:
		return value.Value{}, fault(p, "unsupported literal")
	}
}

func (e *Evaluator) evalVariable(v *ast.Variable) (value.Value, error) {
	val, ok := e.env.Get(v.Name.Lexeme)
	if !ok {
		return value.Value{}, fault(v, "%q is not defined", v.Name.Lexeme)
	}
	return val, nil
}

func (e *Evaluator) evalUnary(u *ast.Unary) (value.Value, error) {
	inner, err := e.eval(u.Inner)
	if err != nil {
		return value.Value{}, err
	}
	switch u.Op.Kind {
	case token.Bang:
		if inner.Kind != value.Boolean {
			return value.Value{}, typeFault(u, "'!' requires a boolean operand, got %s", describe(inner))
		}
		return value.NewBoolean(!inner.Bool), nil
	case token.Minus:
		if inner.Kind != value.Number {
			return value.Value{}, typeFault(u, "unary '-' requires a number operand, got %s", describe(inner))
		}
		return value.NewNumber(-inner.Num), nil
	default:
		return value.Value{}, typeFault(u, "unsupported unary operator %q", u.Op.Lexeme)
	}
}

func (e *Evaluator) evalCall(c *ast.Call) (value.Value, error) {
	callee, err := e.eval(c.Callee)
	if err != nil {
		return value.Value{}, err
	}
	if !callee.IsCallable() {
		return value.Value{}, typeFault(c, "%s is not callable", describe(callee))
	}

	args := make([]value.Value, len(c.Args))
	for i, a := range c.Args {
		v, err := e.eval(a)
		if err != nil {
			return value.Value{}, err
		}
		args[i] = v
	}
	if len(args) != callee.Arity() {
		return value.Value{}, typeFault(c, "%q expects %d argument%s, got %d", callee.Name, callee.Arity(), plural(callee.Arity()), len(args))
	}

	if callee.Kind == value.NativeFunction {
		return callee.Call(args)
	}
	return e.callFunction(callee, args)
}

// callFunction executes a user-defined function body in a fresh function
// scope (spec §4.3): parameters are bound as new names, skipping the
// existing-binding type check that a plain Assignment would apply.
func (e *Evaluator) callFunction(fn value.Value, args []value.Value) (value.Value, error) {
	e.env.Enter(true)
	defer e.env.Leave()

	for i, param := range fn.Params {
		e.env.Declare(param, args[i])
	}
	for _, stmt := range fn.Body {
		res, err := e.execStmt(stmt)
		if err != nil {
			return value.Value{}, err
		}
		if res.returning {
			return res.value, nil
		}
	}
	return value.NewEmpty(), nil
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}

func describe(v value.Value) string {
	if name := v.TypeName(); name != "" {
		return name
	}
	return "empty"
}
