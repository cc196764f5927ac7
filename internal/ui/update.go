package ui

import (
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/rahulvramesh/sukkiri/internal/app"
)

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.progress.Width = max(msg.Width/2-8, 10)
		m.table.SetWidth(max(msg.Width*3/5-4, 20))
		m.table.SetHeight(max(msg.Height-14, 5))
		return m, nil

	case tickMsg:
		m.app.Poll()
		m.syncTable()
		return m, tick()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case progress.FrameMsg:
		pm, cmd := m.progress.Update(msg)
		m.progress = pm.(progress.Model)
		return m, cmd

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.app.Quit()
			return m, tea.Quit
		}
		cmd := m.handleKey(msg.String())
		m.syncTable()
		return m, cmd
	}

	return m, nil
}

func (m *Model) handleKey(key string) tea.Cmd {
	a := m.app
	switch a.State() {
	case app.Scanning:
		switch key {
		case "q", "esc":
			a.Quit()
			return tea.Quit
		}

	case app.Browsing:
		switch key {
		case "q":
			a.Quit()
			return tea.Quit
		case "down", "j":
			a.Next()
		case "up", "k":
			a.Previous()
		case " ":
			a.Toggle()
		case "a":
			a.ToggleAll()
		case "enter":
			a.RequestClean()
		case "r":
			a.RequestScan()
			m.tableFor = -1
		case "pgdown", "J":
			m.table.MoveDown(1)
		case "pgup", "K":
			m.table.MoveUp(1)
		}

	case app.Confirming:
		switch key {
		case "y", "enter":
			a.Confirm()
		case "n", "q", "esc":
			a.Cancel()
		}

	case app.Cleaning:
		// wait for the cleaner

	case app.Done:
		switch key {
		case "esc", "enter", " ", "q":
			a.Acknowledge()
		}
	}
	return nil
}

// syncTable reloads the detail table when the highlighted row or its
// contents changed.
func (m *Model) syncTable() {
	cur, ok := m.app.Current()
	if !ok {
		m.table.SetRows(nil)
		m.tableFor = -1
		return
	}
	if m.tableFor == m.app.Cursor() && len(m.table.Rows()) == min(len(cur.Items), maxDetailRows) {
		return
	}
	m.table.SetRows(detailRows(cur))
	m.table.GotoTop()
	m.tableFor = m.app.Cursor()
}
