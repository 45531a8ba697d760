// Package compiler implements the Otium front end: a lexer, a symbol
// interner, a precedence-climbing parser producing S-expression ASTs, and a
// destination-passing translator that emits JavaScript.
//
// Pipeline: Otium source → Lexer → Parser → Translator → JavaScript text
package compiler
