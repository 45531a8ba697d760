package compiler

import (
	"fmt"
	"strings"
)

// Generated code draws names from three disjoint spaces:
//
//	user symbols   foo, foo$2d$bar, if$   (zero or an even number of '$', or one trailing '$')
//	temporaries    if_cond$3              (one '$' followed by digits)
//	prelude        $add                   (one leading '$')

// jsReserved lists words that cannot be used as JavaScript binding names.
var jsReserved = map[string]bool{
	"await": true, "break": true, "case": true, "catch": true, "class": true,
	"const": true, "continue": true, "debugger": true, "default": true,
	"delete": true, "do": true, "else": true, "enum": true, "export": true,
	"extends": true, "false": true, "finally": true, "for": true,
	"function": true, "if": true, "implements": true, "import": true,
	"in": true, "instanceof": true, "interface": true, "let": true,
	"new": true, "null": true, "package": true, "private": true,
	"protected": true, "public": true, "return": true, "static": true,
	"super": true, "switch": true, "this": true, "throw": true, "true": true,
	"try": true, "typeof": true, "var": true, "void": true, "while": true,
	"with": true, "yield": true, "arguments": true, "eval": true,
	"undefined": true, "NaN": true, "Infinity": true,
}

func isIdentRune(r rune, first bool) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r == '_':
		return true
	case r >= '0' && r <= '9':
		return !first
	}
	return false
}

// isIdentifier reports whether s is a plain ASCII JavaScript identifier.
func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		if !isIdentRune(r, i == 0) {
			return false
		}
	}
	return true
}

// mangle turns a source symbol name into a valid JavaScript identifier.
// Characters outside [A-Za-z0-9_] become $<hex>$.
func mangle(name string) string {
	var b strings.Builder
	for i, r := range name {
		if isIdentRune(r, i == 0) {
			b.WriteRune(r)
			continue
		}
		fmt.Fprintf(&b, "$%x$", r)
	}
	s := b.String()
	if jsReserved[s] {
		s += "$"
	}
	return s
}
