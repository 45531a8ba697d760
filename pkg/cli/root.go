// Package cli implements the otium command line.
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/upvalue/otium/pkg/config"
	"github.com/upvalue/otium/pkg/logging"
)

var errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444")).Bold(true)

// app holds state shared by every command of one invocation.
type app struct {
	cfgFile  string
	verbose  bool
	logLevel string

	cfg    *config.Config
	logger *log.Logger
}

// NewRootCommand builds the otium command tree.
func NewRootCommand() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "otium",
		Short: "Otium to JavaScript translator",
		Long: `otium translates Otium programs to JavaScript and runs them.

Commands:
  translate  - write the JavaScript for a program
  run        - translate and evaluate a program
  inspect    - dump tokens, syntax tree and output of each stage
  repl       - interactive prompt`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}

	root.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file (default: $OTIUM_CONFIG or ./otium.toml)")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "verbose output")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level (debug, info, warn, error)")

	root.AddCommand(
		newTranslateCommand(a),
		newRunCommand(a),
		newInspectCommand(a),
		newReplCommand(a),
		newVersionCommand(),
	)
	return root
}

// setup loads configuration and builds the logger.
func (a *app) setup(cmd *cobra.Command) error {
	var err error
	if a.cfgFile != "" {
		a.cfg, err = config.Load(a.cfgFile)
	} else {
		a.cfg, err = config.LoadFromEnv()
	}
	if err != nil {
		return err
	}

	level := a.cfg.Log.Level
	if a.verbose {
		level = "debug"
	}
	if a.logLevel != "" {
		level = a.logLevel
	}

	lc := logging.DefaultConfig()
	lc.Level = level
	lc.Format = a.cfg.Log.Format
	lc.Output = cmd.ErrOrStderr()
	lc.Session = logging.NewSessionID()
	logging.Configure(lc)
	a.logger = logging.New("otium")
	if a.cfg.Source != "" {
		a.logger.Debug("loaded config", "path", a.cfg.Source)
	}
	return nil
}

// Execute runs the command line and reports any error on stderr.
func Execute() error {
	root := NewRootCommand()
	if err := root.ExecuteContext(context.Background()); err != nil {
		printError(err)
		return err
	}
	return nil
}

func printError(err error) {
	fmt.Fprintln(os.Stderr, errorStyle.Render("error:"), err)
}
