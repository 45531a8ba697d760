// Package logging builds the leveled, structured loggers used by the otium
// command and its packages.
package logging

import (
	"io"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

// Config holds configuration for creating loggers.
type Config struct {
	// Log level (debug, info, warn, error)
	Level string

	// Output format: "text" (default), "json" or "logfmt"
	Format string

	// Destination, stderr when nil
	Output io.Writer

	// Session tags every line so the output of one invocation can be told
	// apart from the next. Empty disables the field.
	Session string
}

// DefaultConfig returns a default configuration.
func DefaultConfig() Config {
	return Config{Level: "info", Format: "text"}
}

var (
	defaultMu  sync.RWMutex
	defaultCfg = DefaultConfig()
)

// Configure sets the configuration used by New.
func Configure(cfg Config) {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	defaultCfg = cfg
}

// NewSessionID returns a short random identifier for Config.Session.
func NewSessionID() string {
	return uuid.New().String()[:8]
}

// ParseLevel maps a level name to a log.Level, defaulting to info.
func ParseLevel(level string) log.Level {
	lvl, err := log.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil {
		return log.InfoLevel
	}
	return lvl
}

func formatter(format string) log.Formatter {
	switch strings.ToLower(format) {
	case "json":
		return log.JSONFormatter
	case "logfmt":
		return log.LogfmtFormatter
	default:
		return log.TextFormatter
	}
}

// NewLogger creates a logger named name from cfg.
func NewLogger(name string, cfg Config) *log.Logger {
	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}
	logger := log.NewWithOptions(out, log.Options{
		Level:     ParseLevel(cfg.Level),
		Prefix:    name,
		Formatter: formatter(cfg.Format),
	})
	if cfg.Session != "" {
		logger = logger.With("session", cfg.Session)
	}
	return logger
}

// New creates a logger named name from the configuration set by Configure.
func New(name string) *log.Logger {
	defaultMu.RLock()
	cfg := defaultCfg
	defaultMu.RUnlock()
	return NewLogger(name, cfg)
}

// Discard returns a logger that writes nothing.
func Discard() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.FatalLevel})
}
