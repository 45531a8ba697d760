// Package repl implements the interactive otium prompt.
package repl

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/upvalue/otium/pkg/compiler"
	"github.com/upvalue/otium/pkg/eval"
)

const (
	prompt     = "otium> "
	contPrompt = "   ... "
)

const helpText = `:help     show this help
:env      list names defined at top level
:js       toggle printing the generated JavaScript
:quit     leave the prompt`

// evalResultMsg carries the outcome of one submitted entry.
type evalResultMsg struct {
	input  string
	code   string
	output string
	value  any
	err    error
}

// Model is the bubbletea model of the prompt.
type Model struct {
	ev     *eval.Evaluator
	out    *bytes.Buffer // console output captured by ev
	input  textinput.Model
	lines  []string // scrollback
	buffer []string // pending lines of an incomplete entry

	history []string
	histPos int

	showJS   bool
	running  bool
	quitting bool
}

// NewModel creates a prompt with its own Evaluator.
func NewModel(opts ...eval.Option) (Model, error) {
	out := &bytes.Buffer{}
	ev, err := eval.New(append(opts, eval.WithOutput(out))...)
	if err != nil {
		return Model{}, err
	}

	input := textinput.New()
	input.Prompt = PromptStyle.Render(prompt)
	input.Placeholder = "expression"
	input.Focus()

	return Model{
		ev:    ev,
		out:   out,
		input: input,
		lines: []string{MutedStyle.Render("otium repl, :help for commands")},
	}, nil
}

// Run starts the prompt on the terminal.
func Run(opts ...eval.Option) error {
	m, err := NewModel(opts...)
	if err != nil {
		return err
	}
	_, err = tea.NewProgram(m).Run()
	return err
}

// Init implements tea.Model
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyCtrlD:
			m.quitting = true
			return m, tea.Quit
		case tea.KeyEnter:
			if m.running {
				return m, nil
			}
			return m.submit()
		case tea.KeyUp:
			m.recall(-1)
			return m, nil
		case tea.KeyDown:
			m.recall(1)
			return m, nil
		}

	case evalResultMsg:
		m.running = false
		m.show(msg)
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) submit() (tea.Model, tea.Cmd) {
	line := m.input.Value()
	m.input.SetValue("")

	if len(m.buffer) == 0 {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			return m, nil
		}
		if strings.HasPrefix(trimmed, ":") {
			m.lines = append(m.lines, PromptStyle.Render(prompt)+trimmed)
			return m.command(trimmed)
		}
	}

	m.buffer = append(m.buffer, line)
	src := strings.Join(m.buffer, "\n")

	// An entry that parses only with more input waits for the next line.
	if _, err := compiler.ParseAll(src, "", compiler.NewInterner()); compiler.IsIncomplete(err) {
		m.input.Prompt = PromptStyle.Render(contPrompt)
		return m, nil
	}

	m.buffer = nil
	m.input.Prompt = PromptStyle.Render(prompt)
	m.history = append(m.history, src)
	m.histPos = len(m.history)
	m.running = true
	return m, m.evaluate(src)
}

func (m Model) evaluate(src string) tea.Cmd {
	ev, out, showJS := m.ev, m.out, m.showJS
	return func() tea.Msg {
		res := evalResultMsg{input: src}
		res.code, res.err = ev.Compile(src, "repl")
		if res.err != nil {
			return res
		}
		out.Reset()
		res.value, res.err = ev.Run(context.Background(), "repl", res.code)
		res.output = out.String()
		if !showJS {
			res.code = ""
		}
		return res
	}
}

func (m Model) command(cmd string) (tea.Model, tea.Cmd) {
	switch cmd {
	case ":q", ":quit":
		m.quitting = true
		return m, tea.Quit
	case ":help":
		m.lines = append(m.lines, MutedStyle.Render(helpText))
	case ":env":
		names := m.ev.Translator().RootEnv().Names()
		m.lines = append(m.lines, MutedStyle.Render(strings.Join(names, " ")))
	case ":js":
		m.showJS = !m.showJS
		m.lines = append(m.lines, MutedStyle.Render(fmt.Sprintf("show javascript: %v", m.showJS)))
	default:
		m.lines = append(m.lines, ErrorStyle.Render("unknown command "+cmd))
	}
	return m, nil
}

func (m *Model) recall(delta int) {
	if len(m.history) == 0 {
		return
	}
	m.histPos += delta
	if m.histPos < 0 {
		m.histPos = 0
	}
	if m.histPos >= len(m.history) {
		m.histPos = len(m.history)
		m.input.SetValue("")
		return
	}
	m.input.SetValue(m.history[m.histPos])
	m.input.CursorEnd()
}

func (m *Model) show(res evalResultMsg) {
	for i, l := range strings.Split(res.input, "\n") {
		p := prompt
		if i > 0 {
			p = contPrompt
		}
		m.lines = append(m.lines, PromptStyle.Render(p)+l)
	}
	if res.code != "" {
		m.lines = append(m.lines, MutedStyle.Render(strings.TrimRight(res.code, "\n")))
	}
	if res.output != "" {
		m.lines = append(m.lines, strings.TrimRight(res.output, "\n"))
	}
	if res.err != nil {
		m.lines = append(m.lines, ErrorStyle.Render(res.err.Error()))
		return
	}
	m.lines = append(m.lines, ResultStyle.Render(formatValue(res.value)))
}

// formatValue prints a result the way it would be written in Otium.
func formatValue(v any) string {
	switch v := v.(type) {
	case nil:
		return "undefined"
	case string:
		return fmt.Sprintf("%q", v)
	default:
		return fmt.Sprint(v)
	}
}

// View implements tea.Model
func (m Model) View() string {
	if m.quitting {
		return strings.Join(m.lines, "\n") + "\n"
	}
	return strings.Join(m.lines, "\n") + "\n" + m.input.View()
}
