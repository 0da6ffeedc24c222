// Package diag formats user-visible diagnostics in the shared
// "<Kind> error at line <L>, column <C>: <message>." form (spec §6),
// grounded on the error_manager crate of the original implementation.
package diag

import "fmt"

// Kind is the diagnostic taxonomy of spec §7.
type Kind string

const (
	Lexical Kind = "Lexical"
	Syntax  Kind = "Syntax"
	Runtime Kind = "Runtime"
	Type    Kind = "Type"
)

// Diagnostic is one formatted, user-visible error.
type Diagnostic struct {
	Kind    Kind
	Line    int
	Column  int
	Message string
}

func (d Diagnostic) Error() string {
	return fmt.Sprintf("%s error at line %d, column %d: %s.", d.Kind, d.Line, d.Column, d.Message)
}

// New constructs a Diagnostic.
func New(kind Kind, line, column int, message string) Diagnostic {
	return Diagnostic{Kind: kind, Line: line, Column: column, Message: message}
}
