package main

import (
	"fmt"
	"io"

	"github.com/ilo-lang/ilo/pkg/ast"
)

// dumpStmt and dumpExpr render a readable indented tree for --ast, since
// the AST's Expression/Statement fields are interfaces and a bare %#v
// dump would print unreadable pointer addresses for them.
func dumpStmt(w io.Writer, stmt ast.Statement, indent string) {
	switch s := stmt.(type) {
	case *ast.ExprStmt:
		fmt.Fprintf(w, "%sExprStmt\n", indent)
		dumpExpr(w, s.X, indent+"  ")
	case *ast.Assignment:
		fmt.Fprintf(w, "%sAssignment %s\n", indent, s.Name.Lexeme)
		dumpExpr(w, s.Value, indent+"  ")
	case *ast.Block:
		fmt.Fprintf(w, "%sBlock\n", indent)
		for _, c := range s.Stmts {
			dumpStmt(w, c, indent+"  ")
		}
	case *ast.If:
		fmt.Fprintf(w, "%sIf\n", indent)
		dumpExpr(w, s.Cond, indent+"  ")
		if s.Then != nil {
			dumpStmt(w, s.Then, indent+"  ")
		}
		if s.Else != nil {
			dumpStmt(w, s.Else, indent+"  ")
		}
	case *ast.While:
		fmt.Fprintf(w, "%sWhile\n", indent)
		dumpExpr(w, s.Cond, indent+"  ")
		if s.Body != nil {
			dumpStmt(w, s.Body, indent+"  ")
		}
	case *ast.FunctionDecl:
		fmt.Fprintf(w, "%sFunctionDecl %s (%d params)\n", indent, s.Name.Lexeme, len(s.Params))
		for _, b := range s.Body {
			dumpStmt(w, b, indent+"  ")
		}
	case *ast.Return:
		fmt.Fprintf(w, "%sReturn\n", indent)
		if s.Value != nil {
			dumpExpr(w, s.Value, indent+"  ")
		}
	default:
		fmt.Fprintf(w, "%s<nil statement>\n", indent)
	}
}

func dumpExpr(w io.Writer, expr ast.Expression, indent string) {
	if expr == nil {
		fmt.Fprintf(w, "%s<nil>\n", indent)
		return
	}
	switch e := expr.(type) {
	case *ast.Primary:
		fmt.Fprintf(w, "%sPrimary %s\n", indent, e.Token.Lexeme)
	case *ast.Unary:
		fmt.Fprintf(w, "%sUnary %s\n", indent, e.Op.Lexeme)
		dumpExpr(w, e.Inner, indent+"  ")
	case *ast.Binary:
		fmt.Fprintf(w, "%sBinary %s\n", indent, e.Op.Lexeme)
		dumpExpr(w, e.Left, indent+"  ")
		dumpExpr(w, e.Right, indent+"  ")
	case *ast.Grouping:
		fmt.Fprintf(w, "%sGrouping\n", indent)
		dumpExpr(w, e.Inner, indent+"  ")
	case *ast.Variable:
		fmt.Fprintf(w, "%sVariable %s\n", indent, e.Name.Lexeme)
	case *ast.Call:
		fmt.Fprintf(w, "%sCall (%d args)\n", indent, len(e.Args))
		dumpExpr(w, e.Callee, indent+"  ")
		for _, a := range e.Args {
			dumpExpr(w, a, indent+"  ")
		}
	default:
		fmt.Fprintf(w, "%s<unknown expression>\n", indent)
	}
}
