package compiler

// Prelude defines the helpers that built-in names resolve to. It uses var so
// a runtime can load it more than once.
const Prelude = `// prelude
var $lt = (a, b) => a < b;
var $gt = (a, b) => a > b;
var $lte = (a, b) => a <= b;
var $gte = (a, b) => a >= b;
var $eq = (a, b) => a === b;
var $neq = (a, b) => a !== b;
var $add = (a, b) => a + b;
var $sub = (a, b) => a - b;
var $mul = (a, b) => a * b;
var $div = (a, b) => a / b;
var $not = (a) => a === false;
var $begin = (...args) => (args.length === 0 ? false : args[args.length - 1]);
var $print = (...args) => console.log(...args);
// begin main program
`

// builtins seeds the root Env of every Translator.
var builtins = []struct {
	name   string
	target string
}{
	{"true", "true"},
	{"false", "false"},
	{"begin", "$begin"},
	{"print", "$print"},
	{"not", "$not"},
	{"<", "$lt"},
	{">", "$gt"},
	{"<=", "$lte"},
	{">=", "$gte"},
	{"==", "$eq"},
	{"!=", "$neq"},
	{"+", "$add"},
	{"-", "$sub"},
	{"*", "$mul"},
	{"/", "$div"},
}

// resultVar receives the value of every top-level form when a Translator is
// built with ResultBinding.
const resultVar = "$result"
