package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/upvalue/otium/pkg/eval"
)

func newRunCommand(a *app) *cobra.Command {
	var (
		timeout time.Duration
		watch   bool
	)

	cmd := &cobra.Command{
		Use:   "run FILE",
		Short: "Translate and evaluate an Otium program",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("timeout") {
				timeout = a.cfg.Run.Timeout.Duration
			}
			path := args[0]
			run := func() error { return a.run(cmd.Context(), cmd.OutOrStdout(), path, timeout) }
			if !watch {
				return run()
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			return a.watch(ctx, path, run)
		},
	}

	cmd.Flags().DurationVar(&timeout, "timeout", 0, "abort evaluation after this long (0 disables)")
	cmd.Flags().BoolVar(&watch, "watch", false, "run again whenever FILE changes")
	return cmd
}

// run evaluates path in a fresh Evaluator and prints the result.
func (a *app) run(ctx context.Context, stdout io.Writer, path string, timeout time.Duration) error {
	ev, err := eval.New(
		eval.WithOutput(stdout),
		eval.WithTimeout(timeout),
		eval.WithLogger(a.logger),
	)
	if err != nil {
		return err
	}

	start := time.Now()
	v, err := ev.RunFile(ctx, path)
	if err != nil {
		return err
	}
	a.logger.Debug("evaluated", "path", path, "elapsed", time.Since(start))

	if v != nil {
		fmt.Fprintln(stdout, v)
	}
	return nil
}
