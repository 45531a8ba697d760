package compiler

import (
	"fmt"
	"os"

	"github.com/upvalue/otium/pkg/utils"
)

// Result is the output of a one-shot translation.
type Result struct {
	Code        string
	Diagnostics []Diagnostic
}

// Translate runs the whole pipeline over src with a fresh Translator. When
// withPrelude is false only the program body is returned.
func Translate(src, name string, opts Options, withPrelude bool) (*Result, error) {
	t := NewTranslator(opts)
	unit, err := t.TranslateUnit(src, name)
	if err != nil {
		return nil, err
	}
	code := unit.Body()
	if withPrelude {
		code = unit.String()
	}
	return &Result{Code: code, Diagnostics: t.Diagnostics()}, nil
}

// TranslateFile reads path and translates it, naming the source after the
// file relative to the working directory.
func TranslateFile(path string, opts Options, withPrelude bool) (*Result, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read input file %q: %w", path, err)
	}
	return Translate(string(src), utils.SourceName(path), opts, withPrelude)
}
