package ui

import (
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rahulvramesh/sukkiri/internal/container"
	"github.com/rahulvramesh/sukkiri/internal/types"
	"github.com/rahulvramesh/sukkiri/internal/utils"
)

// redrawInterval bounds how stale the screen can get while workers run.
const redrawInterval = 100 * time.Millisecond

// maxDetailRows caps the item table of one category.
const maxDetailRows = 200

type tickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(redrawInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func newDetailTable() table.Model {
	columns := []table.Column{
		{Title: "Name", Width: 28},
		{Title: "Size", Width: 10},
		{Title: "Modified", Width: 14},
		{Title: "Path", Width: 36},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(false),
		table.WithHeight(10),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Bold(false)
	t.SetStyles(s)
	return t
}

// detailRows renders the largest items of one category.
func detailRows(r types.ScanResult) []table.Row {
	n := min(len(r.Items), maxDetailRows)
	rows := make([]table.Row, 0, n)
	for _, item := range r.Items[:n] {
		rows = append(rows, table.Row{
			itemName(item.Path),
			utils.FormatFileSize(item.Size),
			utils.FormatAge(item.Modified),
			utils.TruncatePath(item.Path, 36),
		})
	}
	return rows
}

// itemName is the base name, or the image name for container images.
func itemName(path string) string {
	if container.IsVirtual(path) {
		if id, ok := container.IDFromPath(path); ok {
			name := path[len(container.Scheme)+len(id):]
			if len(name) > 1 {
				return name[1:]
			}
			return id
		}
	}
	return filepath.Base(path)
}
