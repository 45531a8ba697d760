package compiler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// None is the destination of an expression whose value is discarded.
const None = ""

// FormKind enumerates the special forms the translator handles itself rather
// than compiling as a function application.
type FormKind int

const (
	FormNone FormKind = iota
	FormIf
	FormWhile
	FormFn
	FormDefine
	FormAssign
	FormAccess
	FormJS
)

var formNames = map[string]FormKind{
	"if":     FormIf,
	"while":  FormWhile,
	"fn":     FormFn,
	":=":     FormDefine,
	"=":      FormAssign,
	"access": FormAccess,
	"js":     FormJS,
}

// Options controls the shape of translated output.
type Options struct {
	// Annotate precedes each top-level form with its source text as comments.
	Annotate bool
	// ResultBinding stores the value of every top-level form in one variable
	// and ends the unit by reading it.
	ResultBinding bool
}

// DefaultOptions annotates output and leaves the result binding off.
func DefaultOptions() Options {
	return Options{Annotate: true}
}

// Translator lowers Otium expressions to JavaScript using destination-passing
// style: every expression is compiled into statements that assign its value
// into a named destination, or discard it.
type Translator struct {
	opts  Options
	syms  *Interner
	root  *Env
	forms map[*Symbol]FormKind
	begin *Symbol

	out    strings.Builder
	indent int
	temp   int
	pos    Pos // position of the form being translated
	diags  []Diagnostic
}

// NewTranslator returns a Translator with its own interner and root Env.
func NewTranslator(opts Options) *Translator {
	return NewTranslatorWithInterner(opts, NewInterner())
}

// NewTranslatorWithInterner shares syms with the caller, so ASTs built with
// it are recognised by identity.
func NewTranslatorWithInterner(opts Options, syms *Interner) *Translator {
	t := &Translator{
		opts:  opts,
		syms:  syms,
		root:  NewEnv(nil),
		forms: make(map[*Symbol]FormKind, len(formNames)),
		begin: syms.Intern("begin"),
	}
	for name, kind := range formNames {
		t.forms[syms.Intern(name)] = kind
	}
	for _, b := range builtins {
		t.root.defineBuiltin(syms.Intern(b.name), b.target)
	}
	return t
}

// Interner returns the symbol table used for identity comparisons.
func (t *Translator) Interner() *Interner {
	return t.syms
}

// RootEnv returns the top-level scope, which persists across units.
func (t *Translator) RootEnv() *Env {
	return t.root
}

// Diagnostics returns the warnings recorded so far.
func (t *Translator) Diagnostics() []Diagnostic {
	return t.diags
}

// newTemp allocates a fresh temporary name for the given purpose.
func (t *Translator) newTemp(purpose string) string {
	name := fmt.Sprintf("%s$%d", purpose, t.temp)
	t.temp++
	return name
}

func (t *Translator) line(format string, args ...any) {
	t.out.WriteString(strings.Repeat("  ", t.indent))
	fmt.Fprintf(&t.out, format+"\n", args...)
}

func (t *Translator) comment(format string, args ...any) {
	t.line("// "+format, args...)
}

func (t *Translator) errorf(format string, args ...any) error {
	return &TranslateError{Pos: t.pos, Msg: fmt.Sprintf(format, args...)}
}

func (t *Translator) warnf(format string, args ...any) {
	t.diags = append(t.diags, Diagnostic{Pos: t.pos, Msg: fmt.Sprintf(format, args...)})
}

// store emits the statement that delivers value to dest.
func (t *Translator) store(dest, value string) {
	if dest == None {
		t.line("%s;", value)
		return
	}
	t.line("%s = %s;", dest, value)
}

// quote renders a string as a JavaScript string literal.
func quote(s string) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(s) // strings always encode
	return strings.TrimSuffix(buf.String(), "\n")
}

// compile emits code that evaluates expr and stores the result in dest.
func (t *Translator) compile(env *Env, expr Expr, dest string) error {
	switch n := expr.(type) {
	case *NumberLiteral:
		t.store(dest, n.String())
	case *StringLiteral:
		t.store(dest, quote(n.Value))
	case *Symbol:
		t.store(dest, t.resolve(env, n))
	case *Compound:
		return t.compileCompound(env, n, dest)
	default:
		return t.errorf("cannot translate %s", expr)
	}
	return nil
}

// resolve returns the generated name for sym. Unknown symbols are reported
// and emitted under their mangled name.
func (t *Translator) resolve(env *Env, sym *Symbol) string {
	if b, ok := env.Lookup(sym); ok {
		return b.Target
	}
	t.warnf("reference to undefined symbol %s", sym.Name)
	return mangle(sym.Name)
}

// compileVec compiles a sequence; only the last expression receives dest.
// An empty sequence yields false.
func (t *Translator) compileVec(env *Env, exprs []Expr, dest string) error {
	if len(exprs) == 0 {
		if dest != None {
			t.store(dest, "false")
		}
		return nil
	}
	for i, expr := range exprs {
		d := None
		if i == len(exprs)-1 {
			d = dest
		}
		if err := t.compile(env, expr, d); err != nil {
			return err
		}
	}
	return nil
}

// isBlock reports whether expr is a (begin ...) produced by a brace block.
func (t *Translator) isBlock(expr Expr) (*Compound, bool) {
	c, ok := expr.(*Compound)
	if !ok || c.Head() != Expr(t.begin) {
		return nil, false
	}
	return c, true
}

// compileBody compiles a branch or loop body. Brace blocks are spliced in
// place; any other expression is compiled on its own.
func (t *Translator) compileBody(env *Env, body Expr, dest string) error {
	if blk, ok := t.isBlock(body); ok {
		return t.compileVec(env, blk.Args(), dest)
	}
	return t.compile(env, body, dest)
}

func (t *Translator) compileCompound(env *Env, c *Compound, dest string) error {
	if len(c.Items) == 0 {
		return t.errorf("empty application")
	}
	if sym, ok := c.Head().(*Symbol); ok {
		switch t.forms[sym] {
		case FormNone:
		case FormIf:
			return t.compileIf(env, c.Args(), dest)
		case FormWhile:
			return t.compileWhile(env, c.Args(), dest)
		case FormFn:
			return t.compileFn(env, c.Args(), dest)
		case FormDefine:
			return t.compileDefine(env, c.Args(), dest)
		case FormAssign:
			return t.compileAssign(env, c.Args(), dest)
		case FormAccess:
			return t.compileAccess(env, c.Args(), dest)
		case FormJS:
			return t.compileJS(c.Args(), dest)
		}
	}
	return t.compileApply(env, c, dest)
}

// compileApply evaluates the callee and then each argument, left to right,
// into its own temporary before making the call.
func (t *Translator) compileApply(env *Env, c *Compound, dest string) error {
	args := c.Args()
	callee := t.newTemp("callee")
	operands := make([]string, len(args))
	for i := range args {
		operands[i] = t.newTemp("operand")
	}
	t.line("let %s;", strings.Join(append([]string{callee}, operands...), ", "))

	if err := t.compile(env, c.Head(), callee); err != nil {
		return err
	}
	for i, arg := range args {
		if err := t.compile(env, arg, operands[i]); err != nil {
			return err
		}
	}
	t.store(dest, fmt.Sprintf("%s(%s)", callee, strings.Join(operands, ", ")))
	return nil
}

// compileIf handles if(cond) { then } { else }. Only false is falsy.
func (t *Translator) compileIf(env *Env, args []Expr, dest string) error {
	switch {
	case len(args) == 0:
		return t.errorf("if expected condition but none was found")
	case len(args) == 1:
		return t.errorf("if expected then branch but none was found")
	case len(args) > 3:
		return t.errorf("if takes at most two branches, got %d", len(args)-1)
	}

	cond := t.newTemp("if_cond")
	t.line("let %s;", cond)
	if err := t.compile(env, args[0], cond); err != nil {
		return err
	}

	t.line("if (%s !== false) {", cond)
	t.indent++
	if err := t.compileBody(env, args[1], dest); err != nil {
		return err
	}
	t.indent--

	switch {
	case len(args) == 3:
		t.line("} else {")
		t.indent++
		if err := t.compileBody(env, args[2], dest); err != nil {
			return err
		}
		t.indent--
	case dest != None:
		t.line("} else {")
		t.indent++
		t.store(dest, "false")
		t.indent--
	}
	t.line("}")
	return nil
}

// compileWhile handles while(cond) { body }. The loop itself yields false.
func (t *Translator) compileWhile(env *Env, args []Expr, dest string) error {
	if len(args) != 2 {
		return t.errorf("while expected a condition and a body, got %d arguments", len(args))
	}

	cond := t.newTemp("while_cond")
	t.line("let %s;", cond)
	t.line("while (true) {")
	t.indent++
	if err := t.compile(env, args[0], cond); err != nil {
		return err
	}
	t.line("if (%s === false) break;", cond)
	if err := t.compileBody(env, args[1], None); err != nil {
		return err
	}
	t.indent--
	t.line("}")

	if dest != None {
		t.store(dest, "false")
	}
	return nil
}

// compileFn handles fn(a, b) { body }, producing an arrow function whose
// body is compiled in a fresh Env.
func (t *Translator) compileFn(env *Env, args []Expr, dest string) error {
	if len(args) == 0 {
		return t.errorf("fn expected a body but none was found")
	}
	body, ok := t.isBlock(args[len(args)-1])
	if !ok {
		return t.errorf("expected function body to be enclosed in begin (braces)")
	}

	fnEnv := NewEnv(env)
	params := make([]string, 0, len(args)-1)
	for _, arg := range args[:len(args)-1] {
		sym, ok := arg.(*Symbol)
		if !ok {
			return t.errorf("unexpected value in function parameter list: %s", arg)
		}
		if _, dup := fnEnv.LookupLocal(sym); dup {
			return t.errorf("duplicate parameter %s", sym.Name)
		}
		target := mangle(sym.Name)
		fnEnv.Define(sym, target)
		params = append(params, target)
	}

	ret := t.newTemp("return")
	if dest == None {
		t.line("((%s) => {", strings.Join(params, ", "))
	} else {
		t.line("%s = (%s) => {", dest, strings.Join(params, ", "))
	}
	t.indent++
	t.line("let %s;", ret)
	if err := t.compileVec(fnEnv, body.Args(), ret); err != nil {
		return err
	}
	t.line("return %s;", ret)
	t.indent--
	if dest == None {
		t.line("});")
	} else {
		t.line("};")
	}
	return nil
}

// compileDefine handles name := value. The name is bound before the value is
// compiled so a function can refer to itself.
func (t *Translator) compileDefine(env *Env, args []Expr, dest string) error {
	if len(args) != 2 {
		return t.errorf("definition expects a name and a value, got %d arguments", len(args))
	}
	sym, ok := args[0].(*Symbol)
	if !ok {
		return t.errorf("currently only symbols can be defined but got %s", args[0])
	}

	target := mangle(sym.Name)
	if b, ok := env.LookupLocal(sym); ok && !b.Builtin {
		target = b.Target
	} else {
		env.Define(sym, target)
		t.line("var %s;", target)
	}

	if err := t.compile(env, args[1], target); err != nil {
		return err
	}
	if dest != None {
		t.store(dest, target)
	}
	return nil
}

// compileAssign handles name = value for a name that is already defined.
func (t *Translator) compileAssign(env *Env, args []Expr, dest string) error {
	if len(args) != 2 {
		return t.errorf("assignment expects a name and a value, got %d arguments", len(args))
	}
	sym, ok := args[0].(*Symbol)
	if !ok {
		return t.errorf("currently only symbols can be assigned to but got %s", args[0])
	}
	b, ok := env.Lookup(sym)
	if !ok {
		return t.errorf("assignment to undefined name %s", sym.Name)
	}
	if b.Builtin {
		return t.errorf("cannot assign to built-in %s", sym.Name)
	}

	if err := t.compile(env, args[1], b.Target); err != nil {
		return err
	}
	if dest != None {
		t.store(dest, b.Target)
	}
	return nil
}

// compileAccess handles left.name as a property read.
func (t *Translator) compileAccess(env *Env, args []Expr, dest string) error {
	if len(args) != 2 {
		return t.errorf("access expects an object and a property, got %d arguments", len(args))
	}
	prop, ok := args[1].(*Symbol)
	if !ok {
		return t.errorf("property name must be a symbol but got %s", args[1])
	}

	obj := t.newTemp("object")
	t.line("let %s;", obj)
	if err := t.compile(env, args[0], obj); err != nil {
		return err
	}
	if isIdentifier(prop.Name) {
		t.store(dest, obj+"."+prop.Name)
	} else {
		t.store(dest, obj+"["+quote(prop.Name)+"]")
	}
	return nil
}

// compileJS inlines raw JavaScript from js("...").
func (t *Translator) compileJS(args []Expr, dest string) error {
	if len(args) != 1 {
		return t.errorf("js expects exactly one argument, got %d", len(args))
	}
	raw, ok := args[0].(*StringLiteral)
	if !ok {
		return t.errorf("js argument must be a string literal but got %s", args[0])
	}
	t.store(dest, raw.Value)
	return nil
}

// TranslateExpr compiles one expression against the root Env and returns the
// generated statements.
func (t *Translator) TranslateExpr(expr Expr, dest string) (string, error) {
	t.out.Reset()
	t.indent = 0
	if err := t.compile(t.root, expr, dest); err != nil {
		return "", err
	}
	return t.out.String(), nil
}

// Block is the code generated for one top-level form.
type Block struct {
	Form Form
	Code string
}

// Unit is a translated source unit.
type Unit struct {
	Prelude string
	Blocks  []Block
	result  bool
}

// Body returns the generated program without the prelude.
func (u *Unit) Body() string {
	var sb strings.Builder
	if u.result {
		fmt.Fprintf(&sb, "var %s = undefined;\n", resultVar)
	}
	for _, b := range u.Blocks {
		sb.WriteString(b.Code)
	}
	if u.result {
		fmt.Fprintf(&sb, "%s;\n", resultVar)
	}
	return sb.String()
}

// String returns the complete program, prelude included.
func (u *Unit) String() string {
	return u.Prelude + u.Body()
}

// lineBreaks maps every JavaScript line terminator to \n. Any of them ends a
// line comment, so annotations must split on all of them.
var lineBreaks = strings.NewReplacer("\r\n", "\n", "\r", "\n", "\u2028", "\n", "\u2029", "\n")

// TranslateUnit parses and translates all of src. The root Env and the
// temporary counter carry over between calls on the same Translator.
func (t *Translator) TranslateUnit(src, name string) (*Unit, error) {
	p, err := NewParser(NewLexer(src, name), t.syms)
	if err != nil {
		return nil, err
	}

	dest := None
	if t.opts.ResultBinding {
		dest = resultVar
	}

	unit := &Unit{Prelude: Prelude, result: t.opts.ResultBinding}
	for {
		form, err := p.NextForm()
		if err != nil {
			return nil, err
		}
		if form.Expr == EndOfInput {
			return unit, nil
		}

		t.out.Reset()
		t.indent = 0
		t.pos = form.Pos
		if t.opts.Annotate {
			t.comment("%s", form.Pos)
			for _, l := range strings.Split(lineBreaks.Replace(p.Text(form)), "\n") {
				t.comment("%s", strings.TrimRight(l, " \t\r"))
			}
		}
		if err := t.compile(t.root, form.Expr, dest); err != nil {
			return nil, err
		}
		unit.Blocks = append(unit.Blocks, Block{Form: form, Code: t.out.String()})
	}
}
