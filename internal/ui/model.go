package ui

import (
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rahulvramesh/sukkiri/internal/app"
)

// Version is shown in the header
var Version = "dev"

// Model adapts app.App to bubbletea. All state lives in the app; the model
// only holds widgets and the terminal size.
type Model struct {
	app      *app.App
	spinner  spinner.Model
	progress progress.Model
	table    table.Model
	width    int
	height   int
	// row whose items the table currently shows
	tableFor int
}

// NewModel wraps a. The caller starts the first scan.
func NewModel(a *app.App) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	return Model{
		app:      a,
		spinner:  s,
		progress: progress.New(progress.WithDefaultGradient()),
		table:    newDetailTable(),
		tableFor: -1,
	}
}

// Init starts the spinner and the redraw tick
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, tick())
}
