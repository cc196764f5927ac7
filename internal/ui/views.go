package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/rahulvramesh/sukkiri/internal/app"
	"github.com/rahulvramesh/sukkiri/internal/types"
	"github.com/rahulvramesh/sukkiri/internal/utils"
)

// View renders the UI
func (m Model) View() string {
	var s strings.Builder

	s.WriteString("\n")
	s.WriteString(m.renderHeader())
	s.WriteString("\n\n")

	var content string
	switch m.app.State() {
	case app.Scanning:
		content = m.renderScanning()
	default:
		content = m.renderBrowser()
	}
	s.WriteString(lipgloss.NewStyle().Padding(0, 2).Render(content))
	s.WriteString("\n\n")
	s.WriteString(lipgloss.NewStyle().Padding(0, 2).Render(m.renderFooter()))
	s.WriteString("\n")

	if popup := m.renderPopup(); popup != "" && m.width > 0 && m.height > 0 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, popup)
	} else if popup != "" {
		s.WriteString("\n" + popup + "\n")
	}
	return s.String()
}

func (m Model) renderHeader() string {
	title := TitleStyle.Render("🧹 sukkiri " + Version)

	disk := m.app.Disk()
	if disk == nil || disk.Total == 0 {
		return "  " + title + "  " + DimStyle.Render("Disk: N/A")
	}
	ratio := float64(disk.Used) / float64(disk.Total)
	label := fmt.Sprintf("Disk: %s / %s (%.1f%% Used)",
		humanize.IBytes(disk.Used), humanize.IBytes(disk.Total), disk.UsedPercent)
	return "  " + title + "  " + m.progress.ViewAs(ratio) + "  " + DimStyle.Render(label)
}

func (m Model) renderScanning() string {
	var s strings.Builder

	done, total := m.app.Completed(), m.app.Expected()
	s.WriteString(HeaderStyle.Render("Scanning..."))
	s.WriteString("\n\n")

	ratio := 0.0
	if total > 0 {
		ratio = float64(done) / float64(total)
	}
	s.WriteString(m.progress.ViewAs(ratio))
	s.WriteString("  " + DimStyle.Render(fmt.Sprintf("Scanning Categories: %d / %d", done, total)))
	s.WriteString("\n\n")

	for _, p := range m.app.Progress() {
		icon := m.spinner.View()
		style := WarningStyle
		if p.Status == types.StatusDone {
			icon = SuccessStyle.Render("✔")
			style = SuccessStyle
		}
		line := fmt.Sprintf("%-20s Items: %-6d Status: %s", p.Category.Name(), p.ItemsCount, p.Status)
		s.WriteString("  " + icon + " " + style.Render(line) + "\n")
	}

	return s.String()
}

func (m Model) renderBrowser() string {
	left := PanelStyle.Render(m.renderCategories())
	right := PanelStyle.Render(m.renderDetails())
	return lipgloss.JoinHorizontal(lipgloss.Top, left, " ", right)
}

func (m Model) renderCategories() string {
	var s strings.Builder

	s.WriteString(HeaderStyle.Render("Categories"))
	s.WriteString("\n\n")

	results := m.app.Results()
	if len(results) == 0 {
		s.WriteString(WarningStyle.Render("No categories scanned"))
		return s.String()
	}

	for i, r := range results {
		checkbox := "[ ]"
		if r.IsSelected {
			checkbox = "[x]"
		}
		line := fmt.Sprintf("%s %-18s %10s", checkbox, r.Category.Name(), utils.FormatFileSize(r.TotalSize))

		cursor := "  "
		style := lipgloss.NewStyle()
		if i == m.app.Cursor() {
			cursor = "▸ "
			style = SelectedStyle
		}
		s.WriteString(cursor + style.Render(line) + "\n")
	}

	s.WriteString("\n")
	s.WriteString(SizeStyle.Render(fmt.Sprintf("Total: %s", utils.FormatFileSize(m.app.TotalSize()))))
	return s.String()
}

func (m Model) renderDetails() string {
	var s strings.Builder

	cur, ok := m.app.Current()
	if !ok {
		s.WriteString(HeaderStyle.Render("Details"))
		return s.String()
	}

	s.WriteString(HeaderStyle.Render("Details: " + cur.Category.Name()))
	s.WriteString("\n")
	s.WriteString(DimStyle.Render(cur.Description))
	s.WriteString("\n")
	s.WriteString(DimStyle.Render(fmt.Sprintf("%s • %d items", cur.RootPath, len(cur.Items))))
	s.WriteString("\n\n")

	if len(cur.Items) == 0 {
		s.WriteString(DimStyle.Render("Nothing to clean here"))
		return s.String()
	}
	s.WriteString(m.table.View())
	if len(cur.Items) > maxDetailRows {
		s.WriteString("\n" + DimStyle.Render(fmt.Sprintf("showing the largest %d of %d", maxDetailRows, len(cur.Items))))
	}
	return s.String()
}

func (m Model) renderFooter() string {
	selected := utils.FormatFileSize(m.app.TotalSelectedSize())
	switch m.app.State() {
	case app.Browsing:
		return DimStyle.Render(fmt.Sprintf(
			"Total Selected: %s • Space: Toggle • a: All • Enter: Clean • r: Rescan • q: Quit", selected))
	case app.Confirming:
		if mode := m.app.DeleteMode(); mode != "" {
			selected += " (" + mode + ")"
		}
		return WarningStyle.Render(fmt.Sprintf(
			"CONFIRM CLEAN? Selected: %s • y/Enter: Confirm • n/Esc: Cancel", selected))
	case app.Cleaning:
		return m.spinner.View() + " " + DimStyle.Render("Cleaning... (This may take a while)")
	case app.Scanning:
		return DimStyle.Render("Scanning... (Please wait) • q: Quit")
	case app.Done:
		return DimStyle.Render("Done! Press Enter to continue")
	}
	return ""
}

func (m Model) renderPopup() string {
	if m.app.State() != app.Done {
		return ""
	}
	msg := m.app.Message()
	style := SuccessStyle
	if strings.HasPrefix(msg, "Error") {
		style = ErrorStyle
	}
	body := HeaderStyle.Render("Clean Completed") + "\n\n" + style.Render(msg) + "\n\n" +
		DimStyle.Render("Press Enter to continue")
	return PopupStyle.Render(body)
}
