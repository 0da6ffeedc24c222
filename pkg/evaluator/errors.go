package evaluator

import (
	"fmt"

	"github.com/ilo-lang/ilo/pkg/ast"
	"github.com/ilo-lang/ilo/pkg/diag"
)

// fault builds a Runtime-kind diagnostic anchored on node's leading token.
// This is the common case; typeFault below covers the Type-kind half of
// spec §7's taxonomy. Unlike the teacher's vm.RuntimeError, these carry no
// stack trace — the evaluator is fail-fast (spec §7) and aborts on the
// first one, so there is never more than one to report.
func fault(node ast.Node, format string, args ...interface{}) error {
	return newDiag(diag.Runtime, node, format, args...)
}

// typeFault builds a Type-kind diagnostic.
func typeFault(node ast.Node, format string, args ...interface{}) error {
	return newDiag(diag.Type, node, format, args...)
}

func newDiag(kind diag.Kind, node ast.Node, format string, args ...interface{}) error {
	tok := node.Tok()
	return diag.New(kind, tok.Line, tok.Column, fmt.Sprintf(format, args...))
}
