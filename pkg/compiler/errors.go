package compiler

import (
	"errors"
	"fmt"
)

// Pos is a location in a source unit.
type Pos struct {
	Source string // source name, may be empty
	Offset int    // byte offset
	Line   int    // 1-based
	Column int    // 1-based, in runes
}

func (p Pos) String() string {
	src := p.Source
	if src == "" {
		src = "<input>"
	}
	return fmt.Sprintf("%s:%d:%d", src, p.Line, p.Column)
}

// LexError reports a character the lexer cannot start a token with.
type LexError struct {
	Pos Pos
	Msg string
}

func (e *LexError) Error() string {
	return fmt.Sprintf("%s: %s", e.Pos, e.Msg)
}

// ParserError reports malformed syntax. Snippet holds the offending source
// line when it is available.
type ParserError struct {
	Pos     Pos
	Msg     string
	Snippet string
	AtEOF   bool // input ended before the construct was complete
}

func (e *ParserError) Error() string {
	if e.Snippet == "" {
		return fmt.Sprintf("%s: %s", e.Pos, e.Msg)
	}
	return fmt.Sprintf("%s: %s\n  |> %s", e.Pos, e.Msg, e.Snippet)
}

// IsIncomplete reports whether err means the input stopped in the middle of
// an expression, so more text could still make it valid.
func IsIncomplete(err error) bool {
	var perr *ParserError
	return errors.As(err, &perr) && perr.AtEOF
}

// TranslateError reports a special form used with the wrong shape.
type TranslateError struct {
	Pos Pos
	Msg string
}

func (e *TranslateError) Error() string {
	return fmt.Sprintf("%s: %s", e.Pos, e.Msg)
}

// Diagnostic is a non-fatal message produced during translation.
type Diagnostic struct {
	Pos Pos
	Msg string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s: warning: %s", d.Pos, d.Msg)
}
