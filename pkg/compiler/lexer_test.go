package compiler

import (
	"errors"
	"reflect"
	"testing"
)

// kindsAndValues strips positions so tests can focus on what was lexed.
func kindsAndValues(tokens []Token) []Token {
	out := make([]Token, len(tokens))
	for i, tok := range tokens {
		out[i] = Token{Kind: tok.Kind, Value: tok.Value}
	}
	return out
}

func TestTokenize_Positions(t *testing.T) {
	input := `42 "hello world" foo-bar ( ) + - * /`
	expected := []Token{
		{Kind: NUMBER, Value: "42", Begin: 0, End: 2, Line: 1, Column: 1},
		{Kind: STRING, Value: "hello world", Begin: 3, End: 16, Line: 1, Column: 4},
		{Kind: SYMBOL, Value: "foo-bar", Begin: 17, End: 24, Line: 1, Column: 18},
		{Kind: LPAREN, Value: "(", Begin: 25, End: 26, Line: 1, Column: 26},
		{Kind: RPAREN, Value: ")", Begin: 27, End: 28, Line: 1, Column: 28},
		{Kind: OP_ADD, Value: "+", Begin: 29, End: 30, Line: 1, Column: 30},
		{Kind: OP_SUB, Value: "-", Begin: 31, End: 32, Line: 1, Column: 32},
		{Kind: OP_MUL, Value: "*", Begin: 33, End: 34, Line: 1, Column: 34},
		{Kind: OP_DIV, Value: "/", Begin: 35, End: 36, Line: 1, Column: 36},
		{Kind: EOF, Value: "", Begin: 36, End: 36, Line: 1, Column: 37},
	}

	tokens, err := Tokenize(input, "")
	if err != nil {
		t.Fatalf("Tokenize failed: %v", err)
	}
	if !reflect.DeepEqual(tokens, expected) {
		t.Errorf("Tokenize mismatch.\nGot:  %v\nWant: %v", tokens, expected)
	}
}

func TestTokenize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []Token
	}{
		{
			name:     "Empty",
			input:    "",
			expected: []Token{{Kind: EOF}},
		},
		{
			name:  "Delimiters",
			input: "( ) { } , .",
			expected: []Token{
				{Kind: LPAREN, Value: "("},
				{Kind: RPAREN, Value: ")"},
				{Kind: LBRACE, Value: "{"},
				{Kind: RBRACE, Value: "}"},
				{Kind: COMMA, Value: ","},
				{Kind: ACCESS, Value: "."},
				{Kind: EOF},
			},
		},
		{
			name:  "Comparison And Definition Operators",
			input: "< > <= >= == != := =",
			expected: []Token{
				{Kind: OP_LT, Value: "<"},
				{Kind: OP_GT, Value: ">"},
				{Kind: OP_LTE, Value: "<="},
				{Kind: OP_GTE, Value: ">="},
				{Kind: OP_EQ, Value: "=="},
				{Kind: OP_NEQ, Value: "!="},
				{Kind: OP_DEFINE, Value: ":="},
				{Kind: OP_ASSIGN, Value: "="},
				{Kind: EOF},
			},
		},
		{
			name:  "Call With Arguments",
			input: "f(x, 10)",
			expected: []Token{
				{Kind: SYMBOL, Value: "f"},
				{Kind: LPAREN, Value: "("},
				{Kind: SYMBOL, Value: "x"},
				{Kind: COMMA, Value: ","},
				{Kind: NUMBER, Value: "10"},
				{Kind: RPAREN, Value: ")"},
				{Kind: EOF},
			},
		},
		{
			name:  "Property Access",
			input: "console.log",
			expected: []Token{
				{Kind: SYMBOL, Value: "console"},
				{Kind: ACCESS, Value: "."},
				{Kind: SYMBOL, Value: "log"},
				{Kind: EOF},
			},
		},
		{
			name:  "Operator Characters Inside Symbols",
			input: "foo-bar set! a<b",
			expected: []Token{
				{Kind: SYMBOL, Value: "foo-bar"},
				{Kind: SYMBOL, Value: "set!"},
				{Kind: SYMBOL, Value: "a<b"},
				{Kind: EOF},
			},
		},
		{
			name:  "Number Then Symbol",
			input: "12abc",
			expected: []Token{
				{Kind: NUMBER, Value: "12"},
				{Kind: SYMBOL, Value: "abc"},
				{Kind: EOF},
			},
		},
		{
			name:  "String Escapes",
			input: `"a\nb\t\"q\" \\ \'x\' \z\r"`,
			expected: []Token{
				{Kind: STRING, Value: "a\nb\t\"q\" \\ 'x' z\r"},
				{Kind: EOF},
			},
		},
		{
			name:  "Single Quoted String",
			input: `'it"s'`,
			expected: []Token{
				{Kind: STRING, Value: `it"s`},
				{Kind: EOF},
			},
		},
		{
			name:  "Nested Block Comment",
			input: "1 /* a /* b */ c */ 2",
			expected: []Token{
				{Kind: NUMBER, Value: "1"},
				{Kind: NUMBER, Value: "2"},
				{Kind: EOF},
			},
		},
		{
			name:  "Unterminated Nested Block Comment Runs To End",
			input: "1 /* a /* b */ 2",
			expected: []Token{
				{Kind: NUMBER, Value: "1"},
				{Kind: EOF},
			},
		},
		{
			name:  "Unterminated String Runs To End",
			input: `x "abc`,
			expected: []Token{
				{Kind: SYMBOL, Value: "x"},
				{Kind: STRING, Value: "abc"},
				{Kind: EOF},
			},
		},
		{
			name:  "Line Comment At End Of Input",
			input: "x // trailing",
			expected: []Token{
				{Kind: SYMBOL, Value: "x"},
				{Kind: EOF},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens, err := Tokenize(tt.input, "")
			if err != nil {
				t.Fatalf("Tokenize failed: %v", err)
			}
			got := kindsAndValues(tokens)
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("Tokenize mismatch.\nGot:  %v\nWant: %v", got, tt.expected)
			}
		})
	}
}

func TestTokenize_CommentInsensitive(t *testing.T) {
	withComments := "10 / 2 // note\n /* block */ 5 / 3"
	without := "10 / 2\n 5 / 3"

	a, err := Tokenize(withComments, "")
	if err != nil {
		t.Fatalf("Tokenize failed: %v", err)
	}
	b, err := Tokenize(without, "")
	if err != nil {
		t.Fatalf("Tokenize failed: %v", err)
	}
	if !reflect.DeepEqual(kindsAndValues(a), kindsAndValues(b)) {
		t.Errorf("comments changed the token stream.\nWith:    %v\nWithout: %v", a, b)
	}
}

func TestTokenize_LinesAndColumns(t *testing.T) {
	tokens, err := Tokenize("a\n  b\n\"é\" c", "main.ot")
	if err != nil {
		t.Fatalf("Tokenize failed: %v", err)
	}

	want := []struct {
		value        string
		line, column int
		begin, end   int
	}{
		{"a", 1, 1, 0, 1},
		{"b", 2, 3, 4, 5},
		{"é", 3, 1, 6, 10},
		{"c", 3, 5, 11, 12},
	}
	for i, w := range want {
		tok := tokens[i]
		if tok.Value != w.value || tok.Line != w.line || tok.Column != w.column || tok.Begin != w.begin || tok.End != w.end {
			t.Errorf("token %d: got %v, want %q at %d:%d [%d,%d)", i, tok, w.value, w.line, w.column, w.begin, w.end)
		}
		if tok.Source != "main.ot" {
			t.Errorf("token %d: source = %q, want main.ot", i, tok.Source)
		}
	}
}

func TestTokenize_Errors(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		column int
	}{
		{"Lone Colon", "x : y", 3},
		{"Lone Bang", "!x", 1},
		{"Semicolon", "a ;", 3},
		{"Hash", "# comment", 1},
		{"Square Bracket", "[1]", 1},
		{"Underscore Start", "_x", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Tokenize(tt.input, "")
			if err == nil {
				t.Fatalf("expected error for %q, got nil", tt.input)
			}
			var lexErr *LexError
			if !errors.As(err, &lexErr) {
				t.Fatalf("expected *LexError, got %T: %v", err, err)
			}
			if lexErr.Pos.Column != tt.column {
				t.Errorf("column = %d, want %d", lexErr.Pos.Column, tt.column)
			}
		})
	}
}

func TestNextToken_RepeatsEOF(t *testing.T) {
	l := NewLexer("x", "")
	for i, want := range []TokenKind{SYMBOL, EOF, EOF} {
		tok, err := l.NextToken()
		if err != nil {
			t.Fatalf("NextToken failed: %v", err)
		}
		if tok.Kind != want {
			t.Errorf("call %d: got %s, want %s", i, tok.Kind, want)
		}
	}
}
