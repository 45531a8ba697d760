package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/upvalue/otium/pkg/cache"
	"github.com/upvalue/otium/pkg/compiler"
	"github.com/upvalue/otium/pkg/utils"
)

type translateFlags struct {
	output     string
	noPrelude  bool
	noAnnotate bool
	noCache    bool
	watch      bool
}

func newTranslateCommand(a *app) *cobra.Command {
	var f translateFlags

	cmd := &cobra.Command{
		Use:   "translate FILE",
		Short: "Translate an Otium program to JavaScript",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			run := func() error { return a.translate(cmd.Context(), cmd.OutOrStdout(), path, f) }
			if !f.watch {
				return run()
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			return a.watch(ctx, path, run)
		},
	}

	cmd.Flags().StringVarP(&f.output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().BoolVar(&f.noPrelude, "no-prelude", false, "omit the prelude")
	cmd.Flags().BoolVar(&f.noAnnotate, "no-annotate", false, "omit source comments before each form")
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "bypass the translation cache")
	cmd.Flags().BoolVar(&f.watch, "watch", false, "translate again whenever FILE changes")
	return cmd
}

func (a *app) translate(ctx context.Context, stdout io.Writer, path string, f translateFlags) error {
	src, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read input file %q: %w", path, err)
	}

	name := utils.SourceName(path)
	opts := compiler.Options{Annotate: a.cfg.Translate.Annotate && !f.noAnnotate}
	withPrelude := a.cfg.Translate.Prelude && !f.noPrelude

	var c *cache.Cache
	if a.cfg.Cache.Enabled && !f.noCache {
		c, err = a.openCache(ctx)
		if err != nil {
			return err
		}
		defer c.Close()
	}

	key := cache.Key(Version, name, string(src),
		strconv.FormatBool(opts.Annotate), strconv.FormatBool(withPrelude))

	code, hit := "", false
	if c != nil {
		code, hit, err = c.Get(ctx, key)
		if err != nil {
			return err
		}
	}

	if hit {
		a.logger.Debug("cache hit", "source", name)
	} else {
		res, err := compiler.Translate(string(src), name, opts, withPrelude)
		if err != nil {
			return err
		}
		for _, d := range res.Diagnostics {
			a.logger.Warn(d.Msg, "pos", d.Pos.String())
		}
		code = res.Code
		if c != nil {
			if err := c.Put(ctx, key, name, code); err != nil {
				return err
			}
		}
	}

	if f.output == "" || f.output == "-" {
		_, err := io.WriteString(stdout, code)
		return err
	}
	if err := os.WriteFile(f.output, []byte(code), 0644); err != nil {
		return fmt.Errorf("failed to write output file %q: %w", f.output, err)
	}
	a.logger.Info("translated", "source", name, "output", f.output)
	return nil
}

// openCache opens the configured cache and drops entries past their age.
func (a *app) openCache(ctx context.Context) (*cache.Cache, error) {
	c, err := cache.Open(a.cfg.Cache.Path)
	if err != nil {
		return nil, err
	}
	a.logger.Debug("opened cache", "path", c.Path())
	removed, err := c.Prune(ctx, a.cfg.Cache.MaxAge.Duration)
	if err != nil {
		c.Close()
		return nil, err
	}
	if removed > 0 {
		a.logger.Debug("pruned cache", "entries", removed)
	}
	return c, nil
}
