package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/upvalue/otium/pkg/compiler"
	"github.com/upvalue/otium/pkg/utils"
)

type inspectFlags struct {
	tokens bool
	ast    bool
	trace  bool
}

func newInspectCommand(a *app) *cobra.Command {
	var f inspectFlags

	cmd := &cobra.Command{
		Use:   "inspect FILE",
		Short: "Dump the output of each translation stage",
		Long: `inspect prints the token stream, the syntax tree and the generated
JavaScript for FILE. Selecting any of --tokens, --ast or --trace limits the
output to those stages.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.inspect(cmd.OutOrStdout(), args[0], f)
		},
	}

	cmd.Flags().BoolVar(&f.tokens, "tokens", false, "print tokens")
	cmd.Flags().BoolVar(&f.ast, "ast", false, "print the syntax tree")
	cmd.Flags().BoolVar(&f.trace, "trace", false, "print the parser's rule trace")
	return cmd
}

func (a *app) inspect(out io.Writer, path string, f inspectFlags) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read input file %q: %w", path, err)
	}
	src, name := string(data), utils.SourceName(path)
	all := !f.tokens && !f.ast && !f.trace

	if all || f.tokens {
		tokens, err := compiler.Tokenize(src, name)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Tokens (%d)\n", len(tokens))
		for _, tok := range tokens {
			fmt.Fprintln(out, " ", tok)
		}
		fmt.Fprintln(out)
	}

	if all || f.ast || f.trace {
		p, err := compiler.NewParser(compiler.NewLexer(src, name), nil)
		if err != nil {
			return err
		}
		if f.trace {
			fmt.Fprintln(out, "Trace")
			p.SetTrace(out)
		}
		var exprs []compiler.Expr
		for {
			e, err := p.NextExpr()
			if err != nil {
				return err
			}
			if e == compiler.EndOfInput {
				break
			}
			exprs = append(exprs, e)
		}
		if f.trace {
			fmt.Fprintln(out)
		}
		if all || f.ast {
			fmt.Fprintln(out, "AST")
			for _, e := range exprs {
				fmt.Fprintln(out, " ", e)
			}
			fmt.Fprintln(out)
		}
	}

	if all {
		t := compiler.NewTranslator(compiler.Options{Annotate: a.cfg.Translate.Annotate})
		unit, err := t.TranslateUnit(src, name)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, "JavaScript")
		fmt.Fprint(out, unit.Body())
		fmt.Fprintln(out)

		fmt.Fprintln(out, "Diagnostics")
		for _, d := range t.Diagnostics() {
			fmt.Fprintln(out, " ", d)
		}
	}
	return nil
}
