package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"qsoreplay/internal/cabrillo"
)

// renderList renders the left panel: one line per QSO with scrolling.
func (m model) renderList(width, height int) string {
	if len(m.qsos) == 0 {
		return lipgloss.NewStyle().
			Foreground(colorDim).
			Width(width).
			Height(height).
			Align(lipgloss.Center, lipgloss.Center).
			Render("No QSOs match")
	}

	var lines []string
	for i, q := range m.qsos {
		if i < m.listOffset {
			continue
		}
		if len(lines) >= height {
			break
		}
		lines = append(lines, m.formatQSOLine(q, width, i == m.cursor))
	}

	for len(lines) < height {
		lines = append(lines, strings.Repeat(" ", width))
	}
	return strings.Join(lines, "\n")
}

// formatQSOLine renders one row: index, time, mode, callsign, exchange.
func (m model) formatQSOLine(q cabrillo.QSO, width int, selected bool) string {
	var mode string
	switch q.Mode {
	case "PH", "SSB", "FM":
		mode = styleModePH.Render(fmt.Sprintf("%-3s", q.Mode))
	case "CW", "RY", "DG":
		mode = styleModeCW.Render(fmt.Sprintf("%-3s", q.Mode))
	default:
		mode = fmt.Sprintf("%-3s", q.Mode)
	}

	marked := m.markStart != 0 && q.Index >= m.markStart &&
		(m.markEnd == 0 && q.Index == m.markStart || m.markEnd != 0 && q.Index <= m.markEnd)

	line := fmt.Sprintf("%4d  %s  %s %-10s %5s  %s/%s",
		q.Index,
		q.Timestamp.Format("01-02 15:04"),
		mode,
		q.TheirCall,
		q.Frequency,
		q.RecvRST,
		q.RecvExch,
	)

	prefix := "  "
	switch {
	case selected:
		prefix = styleListSelected.Render("> ")
	case marked:
		prefix = styleMarked.Render("* ")
	}

	avail := width - 2
	if avail > 0 && runewidth.StringWidth(line) > avail {
		line = runewidth.Truncate(line, avail, "")
	}
	if selected {
		return prefix + styleListSelected.Render(line)
	}
	if marked {
		return prefix + styleMarked.Render(line)
	}
	return prefix + styleListNormal.Render(line)
}
