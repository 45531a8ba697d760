package compiler

import "fmt"

// TokenKind identifies the category of a lexed token.
type TokenKind int

const (
	EOF TokenKind = iota // sentinel: end of input

	// Literals
	NUMBER // decimal integer literal
	STRING // string literal "..." or '...'
	SYMBOL // identifier, e.g. foo or foo-bar

	// Paired delimiters
	LPAREN // (
	RPAREN // )
	LBRACE // {
	RBRACE // }

	// Punctuation
	COMMA  // ,
	ACCESS // .

	// Operators (order matters: see IsOperator)
	OP_ADD    // +
	OP_SUB    // -
	OP_MUL    // *
	OP_DIV    // /
	OP_LT     // <
	OP_GT     // >
	OP_LTE    // <=
	OP_GTE    // >=
	OP_EQ     // ==
	OP_NEQ    // !=
	OP_DEFINE // :=
	OP_ASSIGN // =
)

var tokenNames = [...]string{
	EOF:       "EOF",
	NUMBER:    "NUMBER",
	STRING:    "STRING",
	SYMBOL:    "SYMBOL",
	LPAREN:    "LPAREN",
	RPAREN:    "RPAREN",
	LBRACE:    "LBRACE",
	RBRACE:    "RBRACE",
	COMMA:     "COMMA",
	ACCESS:    "ACCESS",
	OP_ADD:    "OP_ADD",
	OP_SUB:    "OP_SUB",
	OP_MUL:    "OP_MUL",
	OP_DIV:    "OP_DIV",
	OP_LT:     "OP_LT",
	OP_GT:     "OP_GT",
	OP_LTE:    "OP_LTE",
	OP_GTE:    "OP_GTE",
	OP_EQ:     "OP_EQ",
	OP_NEQ:    "OP_NEQ",
	OP_DEFINE: "OP_DEFINE",
	OP_ASSIGN: "OP_ASSIGN",
}

func (k TokenKind) String() string {
	if int(k) >= 0 && int(k) < len(tokenNames) {
		return tokenNames[k]
	}
	return fmt.Sprintf("TokenKind(%d)", int(k))
}

// IsOperator reports whether k is one of the infix operator kinds.
func (k TokenKind) IsOperator() bool {
	return k >= OP_ADD && k <= OP_ASSIGN
}

// Token is a single lexical unit produced by the Lexer.
type Token struct {
	Kind   TokenKind
	Value  string // source text; unescaped contents for STRING
	Begin  int    // byte offset of the first character
	End    int    // byte offset just past the last character
	Line   int    // 1-based source line
	Column int    // 1-based column, counted in runes
	Source string // optional source name for diagnostics
}

// Pos returns the position of the token's first character.
func (t Token) Pos() Pos {
	return Pos{Source: t.Source, Offset: t.Begin, Line: t.Line, Column: t.Column}
}

func (t Token) String() string {
	return fmt.Sprintf("%-10s %-14q  %d:%d [%d,%d)", t.Kind, t.Value, t.Line, t.Column, t.Begin, t.End)
}
