package compiler

import (
	"strconv"
	"strings"
)

// Expr is implemented by every AST node. Atoms are *NumberLiteral,
// *StringLiteral and *Symbol; everything else is a *Compound.
type Expr interface {
	exprNode()
	String() string
}

// NumberLiteral is an integer constant.
//
//	fib(10)
//	    ^^  NumberLiteral{Value: 10}
type NumberLiteral struct {
	Value int64
}

func (*NumberLiteral) exprNode()        {}
func (n *NumberLiteral) String() string { return strconv.FormatInt(n.Value, 10) }

// StringLiteral is a string constant "..." or '...' with escapes resolved.
type StringLiteral struct {
	Value string
}

func (*StringLiteral) exprNode()        {}
func (s *StringLiteral) String() string { return strconv.Quote(s.Value) }

// Compound is an ordered list of expressions. The head is usually the
// operator or callee:
//
//	5 * 5 + 10      (+ (* 5 5) 10)
//	if(c) { x }     (if c (begin x))
//	obj.field       (access obj field)
type Compound struct {
	Items []Expr
}

func (*Compound) exprNode() {}
func (c *Compound) String() string {
	parts := make([]string, len(c.Items))
	for i, item := range c.Items {
		parts[i] = item.String()
	}
	return "(" + strings.Join(parts, " ") + ")"
}

// Head returns the first item, or nil for an empty compound.
func (c *Compound) Head() Expr {
	if len(c.Items) == 0 {
		return nil
	}
	return c.Items[0]
}

// Args returns every item after the head.
func (c *Compound) Args() []Expr {
	if len(c.Items) == 0 {
		return nil
	}
	return c.Items[1:]
}

// NewCompound builds a compound from its items.
func NewCompound(items ...Expr) *Compound {
	return &Compound{Items: items}
}

type endOfInput struct{}

func (*endOfInput) exprNode()      {}
func (*endOfInput) String() string { return "#<eof>" }

// EndOfInput is returned by the parser once every top-level expression has
// been consumed.
var EndOfInput Expr = &endOfInput{}

// Form is a top-level expression together with the source span it was
// parsed from.
type Form struct {
	Expr  Expr
	Pos   Pos // position of the first token
	Begin int // byte offset of the first token
	End   int // byte offset just past the last token
}
