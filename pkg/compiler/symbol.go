package compiler

// Symbol is an interned identifier. Symbols created by the same Interner are
// equal exactly when they are the same pointer.
type Symbol struct {
	Name string
}

func (*Symbol) exprNode()        {}
func (s *Symbol) String() string { return s.Name }

// Interner canonicalizes identifier text into unique *Symbol values.
// It is not safe for concurrent use.
type Interner struct {
	table map[string]*Symbol
}

func NewInterner() *Interner {
	return &Interner{table: make(map[string]*Symbol)}
}

// Intern returns the symbol for name, creating it on first use.
func (in *Interner) Intern(name string) *Symbol {
	if sym, ok := in.table[name]; ok {
		return sym
	}
	sym := &Symbol{Name: name}
	in.table[name] = sym
	return sym
}

// Lookup returns the symbol for name without creating one.
func (in *Interner) Lookup(name string) (*Symbol, bool) {
	sym, ok := in.table[name]
	return sym, ok
}

// Len returns the number of distinct symbols interned so far.
func (in *Interner) Len() int {
	return len(in.table)
}
