package repl

import "github.com/charmbracelet/lipgloss"

var (
	ColorPrimary = lipgloss.Color("#8B5CF6")
	ColorSuccess = lipgloss.Color("#10B981")
	ColorError   = lipgloss.Color("#EF4444")
	ColorMuted   = lipgloss.Color("#6B7280")

	PromptStyle = lipgloss.NewStyle().Foreground(ColorPrimary).Bold(true)
	ResultStyle = lipgloss.NewStyle().Foreground(ColorSuccess)
	ErrorStyle  = lipgloss.NewStyle().Foreground(ColorError)
	MutedStyle  = lipgloss.NewStyle().Foreground(ColorMuted)
)
