// Package eval runs translated Otium programs in an embedded JavaScript
// runtime.
//
// An Evaluator owns one Translator and one goja runtime for its whole life,
// so definitions made by one call are visible to the next and generated
// temporary names never collide.
package eval

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/dop251/goja"

	"github.com/upvalue/otium/pkg/compiler"
	"github.com/upvalue/otium/pkg/logging"
	"github.com/upvalue/otium/pkg/utils"
)

// ErrTimeout is returned when a program runs longer than the configured
// timeout.
var ErrTimeout = errors.New("evaluation timed out")

// RuntimeError is a JavaScript exception raised while running translated
// code.
type RuntimeError struct {
	Source string
	Msg    string
	Trace  string
}

func (e *RuntimeError) Error() string {
	if e.Source == "" {
		return "runtime error: " + e.Msg
	}
	return fmt.Sprintf("%s: runtime error: %s", e.Source, e.Msg)
}

// Option configures an Evaluator.
type Option func(*Evaluator)

// WithOutput sets where console.log and print write. Defaults to stdout.
func WithOutput(w io.Writer) Option {
	return func(e *Evaluator) { e.out = w }
}

// WithTimeout bounds every call. Zero disables the limit.
func WithTimeout(d time.Duration) Option {
	return func(e *Evaluator) { e.timeout = d }
}

// WithLogger sets the logger used for diagnostics and tracing.
func WithLogger(l *log.Logger) Option {
	return func(e *Evaluator) { e.logger = l }
}

// Evaluator translates and runs Otium source. It is not safe for concurrent
// use; calls are serialized.
type Evaluator struct {
	mu      sync.Mutex
	vm      *goja.Runtime
	tr      *compiler.Translator
	out     io.Writer
	timeout time.Duration
	logger  *log.Logger
	seen    int // diagnostics already reported
}

// New creates an Evaluator with the prelude already loaded.
func New(opts ...Option) (*Evaluator, error) {
	e := &Evaluator{
		vm:     goja.New(),
		tr:     compiler.NewTranslator(compiler.Options{ResultBinding: true}),
		out:    os.Stdout,
		logger: logging.Discard(),
	}
	for _, opt := range opts {
		opt(e)
	}

	console := e.vm.NewObject()
	if err := console.Set("log", e.consoleLog); err != nil {
		return nil, fmt.Errorf("failed to install console: %w", err)
	}
	if err := e.vm.Set("console", console); err != nil {
		return nil, fmt.Errorf("failed to install console: %w", err)
	}

	if _, err := e.vm.RunString(compiler.Prelude); err != nil {
		return nil, fmt.Errorf("failed to load prelude: %w", err)
	}
	return e, nil
}

func (e *Evaluator) consoleLog(call goja.FunctionCall) goja.Value {
	parts := make([]string, len(call.Arguments))
	for i, arg := range call.Arguments {
		parts[i] = arg.String()
	}
	fmt.Fprintln(e.out, strings.Join(parts, " "))
	return goja.Undefined()
}

// Translator exposes the persistent translator, for inspecting its scope.
func (e *Evaluator) Translator() *compiler.Translator {
	return e.tr
}

// Compile translates src against the persistent scope and returns the
// JavaScript that EvalString would run.
func (e *Evaluator) Compile(src, name string) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.compile(src, name)
}

func (e *Evaluator) compile(src, name string) (string, error) {
	unit, err := e.tr.TranslateUnit(src, name)
	diags := e.tr.Diagnostics()
	for _, d := range diags[e.seen:] {
		e.logger.Warn(d.Msg, "pos", d.Pos.String())
	}
	e.seen = len(diags)
	if err != nil {
		return "", err
	}
	return unit.Body(), nil
}

// EvalString translates and runs src, returning the value of its last
// top-level form as exported by goja: integers come back as int64.
func (e *Evaluator) EvalString(ctx context.Context, src, name string) (any, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	code, err := e.compile(src, name)
	if err != nil {
		return nil, err
	}
	return e.exec(ctx, name, code)
}

// Run executes code previously returned by Compile.
func (e *Evaluator) Run(ctx context.Context, name, code string) (any, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.exec(ctx, name, code)
}

func (e *Evaluator) exec(ctx context.Context, name, code string) (any, error) {
	e.logger.Debug("running", "source", name, "bytes", len(code))

	v, err := e.run(ctx, name, code)
	if err != nil {
		return nil, err
	}
	if v == nil || goja.IsUndefined(v) || goja.IsNull(v) {
		return nil, nil
	}
	return v.Export(), nil
}

// RunFile evaluates the Otium program at path.
func (e *Evaluator) RunFile(ctx context.Context, path string) (any, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read input file %q: %w", path, err)
	}
	return e.EvalString(ctx, string(src), utils.SourceName(path))
}

// run executes code, interrupting it when ctx ends or the timeout passes.
func (e *Evaluator) run(ctx context.Context, name, code string) (goja.Value, error) {
	var deadline <-chan time.Time
	if e.timeout > 0 {
		timer := time.NewTimer(e.timeout)
		defer timer.Stop()
		deadline = timer.C
	}

	done := make(chan struct{})
	watched := make(chan struct{})
	go func() {
		defer close(watched)
		select {
		case <-done:
		case <-deadline:
			e.vm.Interrupt(ErrTimeout)
		case <-ctx.Done():
			e.vm.Interrupt(ctx.Err())
		}
	}()

	v, err := e.vm.RunScript(name, code)
	close(done)
	<-watched
	e.vm.ClearInterrupt()

	if err == nil {
		return v, nil
	}

	var interrupted *goja.InterruptedError
	if errors.As(err, &interrupted) {
		if cause, ok := interrupted.Value().(error); ok {
			return nil, cause
		}
		return nil, ErrTimeout
	}

	var exc *goja.Exception
	if errors.As(err, &exc) {
		return nil, &RuntimeError{Source: name, Msg: exc.Value().String(), Trace: exc.Error()}
	}

	// Syntax errors can only come from raw js forms.
	return nil, &RuntimeError{Source: name, Msg: err.Error()}
}
