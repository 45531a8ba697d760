package compiler

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Parser is a precedence-climbing parser over the token stream of one Lexer.
//
// Grammar:
//
//	program      = expr* EOF
//	expr         = simpleExpr block* (operator expr)*
//	block        = "{" expr* "}"
//	simpleExpr   = NUMBER | STRING | suffixedExpr
//	suffixedExpr = primaryExpr ("." SYMBOL | "(" args? ")")*
//	primaryExpr  = SYMBOL | "(" expr ")"
//	args         = expr ("," expr)*
//
// A block following an expression is appended to it as (begin ...), which is
// how if(c) { ... } and fn(x) { ... } receive their bodies.
type Parser struct {
	tokens      []Token
	pos         int
	current     Token
	lastEnd     int // End of the most recently consumed token
	src         string
	sourceLines []string
	syms        *Interner
	trace       io.Writer

	beginSym  *Symbol
	accessSym *Symbol
}

// bindingPowers gives each infix operator its precedence; higher binds
// tighter. Definition and assignment take everything to their right.
var bindingPowers = map[TokenKind]int{
	OP_ADD:    3,
	OP_SUB:    3,
	OP_MUL:    3,
	OP_DIV:    3,
	OP_LT:     2,
	OP_GT:     2,
	OP_LTE:    2,
	OP_GTE:    2,
	OP_EQ:     2,
	OP_NEQ:    2,
	OP_DEFINE: 10,
	OP_ASSIGN: 10,
}

func isDefinition(k TokenKind) bool {
	return k == OP_DEFINE || k == OP_ASSIGN
}

// NewParser drains lex into a token buffer. Lexical errors surface here.
func NewParser(lex *Lexer, syms *Interner) (*Parser, error) {
	var tokens []Token
	for {
		tok, err := lex.NextToken()
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, tok)
		if tok.Kind == EOF {
			break
		}
	}
	if syms == nil {
		syms = NewInterner()
	}
	return &Parser{
		tokens:      tokens,
		current:     tokens[0],
		src:         lex.src,
		sourceLines: strings.Split(lex.src, "\n"),
		syms:        syms,
		beginSym:    syms.Intern("begin"),
		accessSym:   syms.Intern("access"),
	}, nil
}

// SetTrace makes the parser log each grammar rule it enters to w.
func (p *Parser) SetTrace(w io.Writer) {
	p.trace = w
}

func (p *Parser) traceCall(rule string) {
	if p.trace == nil {
		return
	}
	tok := p.current
	fmt.Fprintf(p.trace, "%s %d:%d %s %s\n", tok.Source, tok.Line, tok.Column, tok.Kind, rule)
}

// errorf builds a ParserError pointing at tok, with the source line it
// appears on.
func (p *Parser) errorf(tok Token, format string, args ...any) error {
	snippet := ""
	if idx := tok.Line - 1; idx >= 0 && idx < len(p.sourceLines) {
		snippet = strings.TrimSpace(p.sourceLines[idx])
	}
	return &ParserError{Pos: tok.Pos(), Msg: fmt.Sprintf(format, args...), Snippet: snippet, AtEOF: tok.Kind == EOF}
}

// advance consumes the current token and returns the new current token.
func (p *Parser) advance() Token {
	p.lastEnd = p.current.End
	if p.pos+1 < len(p.tokens) {
		p.pos++
	}
	p.current = p.tokens[p.pos]
	return p.current
}

// expect consumes the current token if it has kind k.
func (p *Parser) expect(k TokenKind) (Token, error) {
	tok := p.current
	if tok.Kind != k {
		return tok, p.errorf(tok, "expected %s but got %s", k, tok.Kind)
	}
	p.advance()
	return tok, nil
}

// primaryExpr parses a symbol or a parenthesized expression.
func (p *Parser) primaryExpr() (Expr, error) {
	p.traceCall("primaryExpr")
	tok := p.current
	switch tok.Kind {
	case LPAREN:
		p.advance()
		expr, _, err := p.climb(0, false)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(RPAREN); err != nil {
			return nil, err
		}
		return expr, nil
	case SYMBOL:
		p.advance()
		return p.syms.Intern(tok.Value), nil
	}
	return nil, p.errorf(tok, "unexpected %s %q", tok.Kind, tok.Value)
}

// expList parses one or more comma separated expressions.
func (p *Parser) expList() ([]Expr, error) {
	var list []Expr
	for {
		expr, _, err := p.climb(0, false)
		if err != nil {
			return nil, err
		}
		list = append(list, expr)
		if p.current.Kind != COMMA {
			return list, nil
		}
		p.advance()
	}
}

// functionArgs parses "(" args? ")". The opening paren is the current token.
func (p *Parser) functionArgs() ([]Expr, error) {
	p.traceCall("functionArgs")
	if _, err := p.expect(LPAREN); err != nil {
		return nil, err
	}
	if p.current.Kind == RPAREN {
		p.advance()
		return nil, nil
	}
	args, err := p.expList()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(RPAREN); err != nil {
		return nil, err
	}
	return args, nil
}

// suffixedExpr parses a primary expression followed by any number of
// property accesses and calls.
func (p *Parser) suffixedExpr() (Expr, error) {
	p.traceCall("suffixedExpr")
	left, err := p.primaryExpr()
	if err != nil {
		return nil, err
	}
	for {
		switch p.current.Kind {
		case ACCESS:
			p.advance()
			tok, err := p.expect(SYMBOL)
			if err != nil {
				return nil, err
			}
			left = NewCompound(p.accessSym, left, p.syms.Intern(tok.Value))
		case LPAREN:
			args, err := p.functionArgs()
			if err != nil {
				return nil, err
			}
			left = NewCompound(append([]Expr{left}, args...)...)
		default:
			return left, nil
		}
	}
}

// simpleExpr parses a literal, or defers to suffixedExpr. At end of input it
// returns EndOfInput.
func (p *Parser) simpleExpr() (Expr, error) {
	p.traceCall("simpleExpr")
	tok := p.current
	switch tok.Kind {
	case EOF:
		return EndOfInput, nil
	case STRING:
		p.advance()
		return &StringLiteral{Value: tok.Value}, nil
	case NUMBER:
		n, err := strconv.ParseInt(tok.Value, 10, 64)
		if err != nil {
			return nil, p.errorf(tok, "integer literal %s out of range", tok.Value)
		}
		p.advance()
		return &NumberLiteral{Value: n}, nil
	}
	return p.suffixedExpr()
}

// block parses "{" expr* "}" and returns (begin expr...).
func (p *Parser) block() (*Compound, error) {
	p.traceCall("block")
	if _, err := p.expect(LBRACE); err != nil {
		return nil, err
	}
	body := []Expr{p.beginSym}
	for p.current.Kind != RBRACE {
		if p.current.Kind == EOF {
			return nil, p.errorf(p.current, "expected %s but got %s", RBRACE, EOF)
		}
		expr, _, err := p.climb(0, false)
		if err != nil {
			return nil, err
		}
		body = append(body, expr)
	}
	p.advance()
	return NewCompound(body...), nil
}

// splice appends a block to expr, turning expr into a compound if needed.
func splice(expr Expr, blk *Compound) *Compound {
	if c, ok := expr.(*Compound); ok {
		items := make([]Expr, 0, len(c.Items)+1)
		items = append(items, c.Items...)
		return NewCompound(append(items, blk)...)
	}
	return NewCompound(expr, blk)
}

// operator returns the current token if it is an infix operator.
func (p *Parser) operator() *Token {
	if !p.current.Kind.IsOperator() {
		return nil
	}
	tok := p.current
	return &tok
}

// climb parses an expression whose operators all bind tighter than minBP.
// It returns the expression and the operator it stopped at, if any, so the
// caller can keep extending its own left side with it. inDef is set while
// parsing the right side of := or =.
func (p *Parser) climb(minBP int, inDef bool) (Expr, *Token, error) {
	p.traceCall("nextExpr")
	start := p.current
	left, err := p.simpleExpr()
	if err != nil {
		return nil, nil, err
	}
	if left == EndOfInput {
		return nil, nil, p.errorf(start, "unexpected end of input")
	}

	for p.current.Kind == LBRACE {
		blk, err := p.block()
		if err != nil {
			return nil, nil, err
		}
		left = splice(left, blk)
	}

	op := p.operator()
	for op != nil && bindingPowers[op.Kind] > minBP {
		rhsBP, rhsDef := bindingPowers[op.Kind], inDef
		if isDefinition(op.Kind) {
			if inDef {
				return nil, nil, p.errorf(*op, "cannot nest definitions/assignments")
			}
			rhsBP, rhsDef = 0, true
		}
		opSym := p.syms.Intern(op.Value)
		p.advance()

		var right Expr
		right, op, err = p.climb(rhsBP, rhsDef)
		if err != nil {
			return nil, nil, err
		}
		left = NewCompound(opSym, left, right)
	}
	return left, op, nil
}

// NextExpr returns the next top-level expression, or EndOfInput once the
// token stream is exhausted.
func (p *Parser) NextExpr() (Expr, error) {
	form, err := p.NextForm()
	if err != nil {
		return nil, err
	}
	return form.Expr, nil
}

// NextForm is NextExpr with the source span of the expression attached.
func (p *Parser) NextForm() (Form, error) {
	start := p.current
	form := Form{Pos: start.Pos(), Begin: start.Begin, End: start.End}
	if start.Kind == EOF {
		form.Expr = EndOfInput
		return form, nil
	}
	expr, _, err := p.climb(0, false)
	if err != nil {
		return Form{}, err
	}
	form.Expr = expr
	form.End = p.lastEnd
	return form, nil
}

// Text returns the source text covered by f.
func (p *Parser) Text(f Form) string {
	if f.Begin < 0 || f.End > len(p.src) || f.Begin > f.End {
		return ""
	}
	return p.src[f.Begin:f.End]
}

// ParseAll parses every top-level expression in src.
func ParseAll(src, name string, syms *Interner) ([]Expr, error) {
	p, err := NewParser(NewLexer(src, name), syms)
	if err != nil {
		return nil, err
	}
	var exprs []Expr
	for {
		expr, err := p.NextExpr()
		if err != nil {
			return nil, err
		}
		if expr == EndOfInput {
			return exprs, nil
		}
		exprs = append(exprs, expr)
	}
}
