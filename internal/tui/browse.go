// Package tui is the interactive QSO browser: a filterable list of
// contacts on the left, playback and exchange detail on the right, with
// range marking and audio export without leaving the terminal.
package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"qsoreplay/internal/cabrillo"
	"qsoreplay/internal/session"
)

// exportDoneMsg is sent when an async bundle export finishes.
type exportDoneMsg struct {
	path string
	err  error
}

type model struct {
	sess   *session.Session
	player string

	filterInput textinput.Model
	filter      string
	qsos        []cabrillo.QSO

	cursor     int
	listOffset int
	detail     viewport.Model

	markStart int // 1-based QSO index, 0 = unset
	markEnd   int

	status    string
	exporting bool

	width  int
	height int
	ready  bool
}

func initialModel(sess *session.Session, player string) model {
	ti := textinput.New()
	ti.Placeholder = "Filter by callsign..."
	ti.Focus()
	ti.Prompt = "> "
	ti.PromptStyle = styleInputPrompt
	ti.TextStyle = styleInput
	ti.CharLimit = 32

	return model{
		sess:        sess,
		player:      player,
		filterInput: ti,
		qsos:        sess.ListEvents(session.Filter{}),
		detail:      viewport.New(0, 0),
	}
}

// Run opens the browser for one contest and blocks until it exits.
func Run(sess *session.Session, player string) error {
	p := tea.NewProgram(initialModel(sess, player), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("tui: %w", err)
	}
	return nil
}

func (m model) Init() tea.Cmd {
	return textinput.Blink
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.detail = viewport.New(m.detailWidth(), m.panelHeight())
		m.refreshDetail()
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Quit):
			return m, tea.Quit

		case key.Matches(msg, keys.Up):
			if m.cursor > 0 {
				m.cursor--
				m.adjustListScroll()
				m.refreshDetail()
			}
			return m, nil

		case key.Matches(msg, keys.Down):
			if m.cursor < len(m.qsos)-1 {
				m.cursor++
				m.adjustListScroll()
				m.refreshDetail()
			}
			return m, nil

		case key.Matches(msg, keys.PageUp):
			m.cursor -= m.visibleItems()
			if m.cursor < 0 {
				m.cursor = 0
			}
			m.adjustListScroll()
			m.refreshDetail()
			return m, nil

		case key.Matches(msg, keys.PageDown):
			m.cursor += m.visibleItems()
			if m.cursor > len(m.qsos)-1 {
				m.cursor = len(m.qsos) - 1
			}
			if m.cursor < 0 {
				m.cursor = 0
			}
			m.adjustListScroll()
			m.refreshDetail()
			return m, nil

		case key.Matches(msg, keys.Enter):
			if q, ok := m.current(); ok {
				m.status = m.copyPlayCommand(q)
			}
			return m, nil

		case key.Matches(msg, keys.MarkStart):
			if q, ok := m.current(); ok {
				m.markStart = q.Index
				if m.markEnd != 0 && m.markEnd < m.markStart {
					m.markEnd = 0
				}
				m.status = fmt.Sprintf("range start at QSO %d", m.markStart)
				m.refreshDetail()
			}
			return m, nil

		case key.Matches(msg, keys.MarkEnd):
			if q, ok := m.current(); ok {
				if m.markStart == 0 || q.Index < m.markStart {
					m.status = "mark a start before the end (C-a first)"
				} else {
					m.markEnd = q.Index
					m.status = fmt.Sprintf("range %d..%d marked", m.markStart, m.markEnd)
				}
				m.refreshDetail()
			}
			return m, nil

		case key.Matches(msg, keys.ClearMark):
			m.markStart, m.markEnd = 0, 0
			m.status = "marks cleared"
			m.refreshDetail()
			return m, nil

		case key.Matches(msg, keys.Export):
			if m.exporting {
				return m, nil
			}
			if m.markStart == 0 || m.markEnd == 0 {
				m.status = "mark a range first (C-a, C-e)"
				return m, nil
			}
			m.exporting = true
			m.status = fmt.Sprintf("exporting QSOs %d..%d...", m.markStart, m.markEnd)
			return m, exportCmd(m.sess, m.markStart, m.markEnd)
		}

		// Remaining keys edit the filter.
		var cmd tea.Cmd
		m.filterInput, cmd = m.filterInput.Update(msg)
		if v := m.filterInput.Value(); v != m.filter {
			m.filter = v
			m.qsos = m.sess.ListEvents(session.Filter{Call: v})
			m.cursor = 0
			m.listOffset = 0
			m.refreshDetail()
		}
		return m, cmd

	case exportDoneMsg:
		m.exporting = false
		if msg.err != nil {
			m.status = "export failed: " + msg.err.Error()
		} else {
			m.status = "exported " + msg.path
		}
		return m, nil
	}

	return m, nil
}

func (m model) View() string {
	if !m.ready {
		return ""
	}

	listW := m.listWidth()
	detailW := m.detailWidth()
	panelH := m.panelHeight()

	inputRow := m.filterInput.View()

	listPanel := stylePanelBorder.
		Width(listW).
		Height(panelH).
		Render(m.renderList(listW, panelH))

	m.detail.Width = detailW
	m.detail.Height = panelH
	detailPanel := styleActiveBorder.
		Width(detailW).
		Height(panelH).
		Render(m.detail.View())

	panels := lipgloss.JoinHorizontal(lipgloss.Top, listPanel, detailPanel)

	return lipgloss.JoinVertical(lipgloss.Left, inputRow, panels, m.statusBar())
}

func (m *model) current() (cabrillo.QSO, bool) {
	if len(m.qsos) == 0 || m.cursor >= len(m.qsos) {
		return cabrillo.QSO{}, false
	}
	return m.qsos[m.cursor], true
}

// copyPlayCommand builds a player invocation that jumps straight to the
// QSO's position and puts it on the clipboard; if the clipboard is
// unavailable the command still lands in the status bar.
func (m *model) copyPlayCommand(q cabrillo.QSO) string {
	if !q.Resolved {
		return "QSO has no audio position"
	}
	cmd := playCommand(m.player, filepath.Join(m.sess.AudioDir, q.SourceFile), q.SourceOffset)
	if err := clipboard.WriteAll(cmd); err != nil {
		return cmd
	}
	return "copied: " + cmd
}

// playCommand formats the seek flag the way each common player spells it.
func playCommand(player, path string, offset float64) string {
	switch {
	case strings.Contains(player, "ffplay"):
		return fmt.Sprintf("%s -ss %.1f %q", player, offset, path)
	case strings.Contains(player, "vlc"):
		return fmt.Sprintf("%s --start-time=%.1f %q", player, offset, path)
	default: // mpv and friends
		return fmt.Sprintf("%s --start=%.1f %q", player, offset, path)
	}
}

func exportCmd(sess *session.Session, start, end int) tea.Cmd {
	return func() tea.Msg {
		selected, err := sess.SelectRange(start, end)
		if err != nil {
			return exportDoneMsg{err: err}
		}
		bundle, err := sess.ExportBundle(selected)
		if err != nil {
			return exportDoneMsg{err: err}
		}
		if err := os.WriteFile(bundle.Name, bundle.Zip, 0o644); err != nil {
			return exportDoneMsg{err: err}
		}
		return exportDoneMsg{path: bundle.Name}
	}
}

func (m model) statusBar() string {
	var parts []string
	parts = append(parts, fmt.Sprintf("%s: %d QSOs", m.sess.Name, len(m.qsos)))
	if m.markStart != 0 {
		end := "?"
		if m.markEnd != 0 {
			end = fmt.Sprintf("%d", m.markEnd)
		}
		parts = append(parts, fmt.Sprintf("mark %d..%s", m.markStart, end))
	}
	if m.status != "" {
		parts = append(parts, m.status)
	} else {
		parts = append(parts, "enter play | C-a/C-e mark | C-x export | esc quit")
	}
	return styleStatusBar.Render(strings.Join(parts, " | "))
}

// layout helpers

func (m model) listWidth() int {
	if m.width <= 0 {
		return 50
	}
	w := m.width*55/100 - 4
	if w < 30 {
		w = 30
	}
	return w
}

func (m model) detailWidth() int {
	if m.width <= 0 {
		return 40
	}
	w := m.width*45/100 - 4
	if w < 20 {
		w = 20
	}
	return w
}

func (m model) panelHeight() int {
	if m.height <= 0 {
		return 20
	}
	// Input row (1) + status bar (1) + borders (4).
	h := m.height - 6
	if h < 5 {
		h = 5
	}
	return h
}

func (m model) visibleItems() int {
	n := m.panelHeight()
	if n < 1 {
		return 1
	}
	return n
}

func (m *model) adjustListScroll() {
	visible := m.visibleItems()
	if m.cursor < m.listOffset {
		m.listOffset = m.cursor
	}
	if m.cursor >= m.listOffset+visible {
		m.listOffset = m.cursor - visible + 1
	}
}
