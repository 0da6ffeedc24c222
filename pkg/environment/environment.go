// Package environment implements the lexically scoped variable store
// shared by the evaluator.
package environment

import "github.com/ilo-lang/ilo/pkg/value"

// scope is a single frame: a name→value map plus the flag that marks it
// as having been created for a function call.
type scope struct {
	vars            map[string]*value.Value
	isFunctionScope bool
}

func newScope(isFunctionScope bool) *scope {
	return &scope{vars: make(map[string]*value.Value), isFunctionScope: isFunctionScope}
}

// Environment is a nonempty stack of scope frames. The bottom frame is
// the global scope and is never a function scope (spec §3).
type Environment struct {
	frames []*scope
}

// New creates an Environment with just the global frame.
func New() *Environment {
	return &Environment{frames: []*scope{newScope(false)}}
}

// Enter pushes a new frame.
func (e *Environment) Enter(isFunctionScope bool) {
	e.frames = append(e.frames, newScope(isFunctionScope))
}

// Leave pops the innermost frame. It panics if called on the global
// frame, which would indicate an unbalanced Enter/Leave pair in the
// evaluator — a programmer error, not a user-facing one.
func (e *Environment) Leave() {
	if len(e.frames) == 1 {
		panic("environment: cannot leave the global scope")
	}
	e.frames = e.frames[:len(e.frames)-1]
}

func (e *Environment) top() *scope {
	return e.frames[len(e.frames)-1]
}

// Get looks up name from the innermost frame outward. The bool result is
// false if no frame binds the name.
func (e *Environment) Get(name string) (value.Value, bool) {
	for i := len(e.frames) - 1; i >= 0; i-- {
		if v, ok := e.frames[i].vars[name]; ok {
			return *v, true
		}
	}
	return value.Value{}, false
}

// Assign updates name in the frame where it already exists (searching
// innermost outward); if it exists nowhere, it is created in the
// innermost frame. Reports whether this was a fresh declaration rather
// than an update.
func (e *Environment) Assign(name string, v value.Value) (declared bool) {
	for i := len(e.frames) - 1; i >= 0; i-- {
		if existing, ok := e.frames[i].vars[name]; ok {
			*existing = v
			return false
		}
	}
	stored := v
	e.top().vars[name] = &stored
	return true
}

// Declare binds name in the innermost frame unconditionally, shadowing
// any outer binding of the same name. Used for function parameters,
// which are always fresh bindings (spec §4.3's call semantics).
func (e *Environment) Declare(name string, v value.Value) {
	stored := v
	e.top().vars[name] = &stored
}

// ExistsInCurrent reports whether name is bound in the innermost frame
// specifically, as opposed to Get's whole-stack search. FunctionDecl uses
// this so that declaring a function locally shadows an outer or global
// binding of the same name instead of conflicting with it (spec §4.4:
// natives "may [be shadowed] in inner scopes but cannot [be] redeclare[d]
// at the global level").
func (e *Environment) ExistsInCurrent(name string) bool {
	_, ok := e.top().vars[name]
	return ok
}

// InFunctionScope reports whether any frame on the stack, searched
// innermost outward, is a function scope — the simpler of the two
// equivalent designs spec §9 offers for validating `return`.
func (e *Environment) InFunctionScope() bool {
	for i := len(e.frames) - 1; i >= 0; i-- {
		if e.frames[i].isFunctionScope {
			return true
		}
	}
	return false
}
