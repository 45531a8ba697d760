package compiler

import (
	"sort"
)

// Binding is what a source symbol resolves to in generated code.
type Binding struct {
	Target  string // generated identifier
	Builtin bool   // provided by the prelude; may be shadowed, never assigned
}

// Env maps symbols to generated names. Lookups walk the parent chain, so a
// chain of Envs models lexical nesting: one frame per function body.
type Env struct {
	vars   map[*Symbol]Binding
	parent *Env
	depth  int
}

// NewEnv creates a frame nested inside parent, which may be nil.
func NewEnv(parent *Env) *Env {
	e := &Env{vars: make(map[*Symbol]Binding), parent: parent}
	if parent != nil {
		e.depth = parent.depth + 1
	}
	return e
}

// Define binds sym in this frame, replacing any earlier binding here.
func (e *Env) Define(sym *Symbol, target string) {
	e.vars[sym] = Binding{Target: target}
}

func (e *Env) defineBuiltin(sym *Symbol, target string) {
	e.vars[sym] = Binding{Target: target, Builtin: true}
}

// LookupLocal resolves sym in this frame only.
func (e *Env) LookupLocal(sym *Symbol) (Binding, bool) {
	b, ok := e.vars[sym]
	return b, ok
}

// Lookup resolves sym in this frame or the nearest enclosing one.
func (e *Env) Lookup(sym *Symbol) (Binding, bool) {
	for env := e; env != nil; env = env.parent {
		if b, ok := env.vars[sym]; ok {
			return b, true
		}
	}
	return Binding{}, false
}

// Parent returns the enclosing frame, or nil at the root.
func (e *Env) Parent() *Env {
	return e.parent
}

// Depth is 0 for the root frame.
func (e *Env) Depth() int {
	return e.depth
}

// Names returns the source names bound in this frame, sorted.
func (e *Env) Names() []string {
	names := make([]string, 0, len(e.vars))
	for sym := range e.vars {
		names = append(names, sym.Name)
	}
	sort.Strings(names)
	return names
}
