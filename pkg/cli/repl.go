package cli

import (
	"github.com/spf13/cobra"

	"github.com/upvalue/otium/pkg/eval"
	"github.com/upvalue/otium/pkg/repl"
)

func newReplCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Start an interactive prompt",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Diagnostics would interleave with the terminal UI.
			return repl.Run(eval.WithTimeout(a.cfg.Run.Timeout.Duration))
		},
	}
}
