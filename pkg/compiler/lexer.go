package compiler

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// symbolTerminators end a symbol in addition to whitespace. Operator
// characters are not among them, so foo-bar is a single symbol.
const symbolTerminators = "()[].\"'#,"

// Lexer holds all mutable state for a single scanning pass over src.
type Lexer struct {
	src    string
	name   string
	pos    int // byte offset of the next rune to consume
	line   int // current 1-based source line
	column int // current 1-based column, counted in runes
}

// NewLexer returns a Lexer over src. name is attached to every token and is
// used only in diagnostics.
func NewLexer(src, name string) *Lexer {
	return &Lexer{src: src, name: name, pos: 0, line: 1, column: 1}
}

func (l *Lexer) atEOF() bool {
	return l.pos >= len(l.src)
}

// peek returns the rune at the current position without advancing.
func (l *Lexer) peek() rune {
	if l.atEOF() {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.src[l.pos:])
	return r
}

// peek2 returns the rune one position ahead of the current position.
func (l *Lexer) peek2() rune {
	if l.atEOF() {
		return 0
	}
	_, size := utf8.DecodeRuneInString(l.src[l.pos:])
	if l.pos+size >= len(l.src) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.src[l.pos+size:])
	return r
}

// advance consumes one rune and returns it.
func (l *Lexer) advance() rune {
	if l.atEOF() {
		return 0
	}
	r, size := utf8.DecodeRuneInString(l.src[l.pos:])
	l.pos += size
	if r == '\n' {
		l.line++
		l.column = 1
	} else {
		l.column++
	}
	return r
}

func (l *Lexer) skipWhitespace() {
	for !l.atEOF() && unicode.IsSpace(l.peek()) {
		l.advance()
	}
}

// skipLineComment discards everything from the current position to end-of-line.
// The opening "//" must already have been consumed.
func (l *Lexer) skipLineComment() {
	for !l.atEOF() && l.peek() != '\n' {
		l.advance()
	}
}

// skipBlockComment discards a possibly nested block comment. The opening
// "/*" must already have been consumed. An unterminated comment runs to
// end of input.
func (l *Lexer) skipBlockComment() {
	depth := 1
	for !l.atEOF() {
		switch {
		case l.peek() == '/' && l.peek2() == '*':
			l.advance()
			l.advance()
			depth++
		case l.peek() == '*' && l.peek2() == '/':
			l.advance()
			l.advance()
			depth--
			if depth == 0 {
				return
			}
		default:
			l.advance()
		}
	}
}

// mark captures the start position of the token about to be scanned.
func (l *Lexer) mark() Token {
	return Token{Begin: l.pos, Line: l.line, Column: l.column, Source: l.name}
}

// finish completes a token started with mark.
func (l *Lexer) finish(tok Token, kind TokenKind) Token {
	tok.Kind = kind
	tok.End = l.pos
	if kind != STRING {
		tok.Value = l.src[tok.Begin:tok.End]
	}
	return tok
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

// scanNumber collects a maximal run of decimal digits.
func (l *Lexer) scanNumber() Token {
	tok := l.mark()
	for !l.atEOF() && isDigit(l.peek()) {
		l.advance()
	}
	return l.finish(tok, NUMBER)
}

// scanString collects a string literal delimited by the quote at l.peek().
// An unterminated string runs to end of input.
func (l *Lexer) scanString() Token {
	tok := l.mark()
	quote := l.advance()
	var val strings.Builder

	for !l.atEOF() && l.peek() != quote {
		r := l.advance()
		if r != '\\' {
			val.WriteRune(r)
			continue
		}
		if l.atEOF() {
			break
		}
		switch next := l.advance(); next {
		case 'n':
			val.WriteByte('\n')
		case 't':
			val.WriteByte('\t')
		case 'r':
			val.WriteByte('\r')
		default:
			// \\ \" \' and anything unrecognised pass through as-is
			val.WriteRune(next)
		}
	}

	if !l.atEOF() {
		l.advance() // closing quote
	}

	tok.Value = val.String()
	return l.finish(tok, STRING)
}

// scanSymbol collects a symbol. The first (alphabetic) character must still be
// at l.peek().
func (l *Lexer) scanSymbol() Token {
	tok := l.mark()
	l.advance()
	for !l.atEOF() {
		r := l.peek()
		if unicode.IsSpace(r) || strings.ContainsRune(symbolTerminators, r) {
			break
		}
		l.advance()
	}
	return l.finish(tok, SYMBOL)
}

// NextToken skips whitespace and comments and returns the next Token. Once
// input is exhausted every call returns an EOF token.
func (l *Lexer) NextToken() (Token, error) {
	for {
		l.skipWhitespace()
		if l.peek() == '/' && l.peek2() == '/' {
			l.advance()
			l.advance()
			l.skipLineComment()
			continue
		}
		if l.peek() == '/' && l.peek2() == '*' {
			l.advance()
			l.advance()
			l.skipBlockComment()
			continue
		}
		break
	}

	if l.atEOF() {
		return l.finish(l.mark(), EOF), nil
	}

	ch := l.peek()
	switch {
	case isDigit(ch):
		return l.scanNumber(), nil
	case ch == '"' || ch == '\'':
		return l.scanString(), nil
	case unicode.IsLetter(ch):
		return l.scanSymbol(), nil
	}

	tok := l.mark()
	l.advance() // consume the character before the switch
	switch ch {
	case '(':
		return l.finish(tok, LPAREN), nil
	case ')':
		return l.finish(tok, RPAREN), nil
	case '{':
		return l.finish(tok, LBRACE), nil
	case '}':
		return l.finish(tok, RBRACE), nil
	case ',':
		return l.finish(tok, COMMA), nil
	case '.':
		return l.finish(tok, ACCESS), nil
	case '+':
		return l.finish(tok, OP_ADD), nil
	case '-':
		return l.finish(tok, OP_SUB), nil
	case '*':
		return l.finish(tok, OP_MUL), nil
	case '/':
		return l.finish(tok, OP_DIV), nil
	case '<':
		if l.peek() == '=' {
			l.advance()
			return l.finish(tok, OP_LTE), nil
		}
		return l.finish(tok, OP_LT), nil
	case '>':
		if l.peek() == '=' {
			l.advance()
			return l.finish(tok, OP_GTE), nil
		}
		return l.finish(tok, OP_GT), nil
	case '=':
		if l.peek() == '=' { // lookahead: distinguish = vs ==
			l.advance()
			return l.finish(tok, OP_EQ), nil
		}
		return l.finish(tok, OP_ASSIGN), nil
	case '!':
		if l.peek() == '=' {
			l.advance()
			return l.finish(tok, OP_NEQ), nil
		}
	case ':':
		if l.peek() == '=' {
			l.advance()
			return l.finish(tok, OP_DEFINE), nil
		}
	}
	return Token{}, &LexError{Pos: tok.Pos(), Msg: fmt.Sprintf("unrecognized character %q", ch)}
}

// Tokenize scans the whole of src and returns its tokens, terminated by
// exactly one EOF token.
func Tokenize(src, name string) ([]Token, error) {
	l := NewLexer(src, name)
	var tokens []Token
	for {
		tok, err := l.NextToken()
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, tok)
		if tok.Kind == EOF {
			return tokens, nil
		}
	}
}
