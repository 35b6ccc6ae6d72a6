package tui

import (
	"fmt"
	"strings"
)

// refreshDetail re-renders the right panel for the QSO under the cursor.
func (m *model) refreshDetail() {
	q, ok := m.current()
	if !ok {
		m.detail.SetContent("")
		return
	}

	row := func(label, value string) string {
		return styleDetailLabel.Render(fmt.Sprintf("%-10s", label)) + value
	}

	var b strings.Builder
	fmt.Fprintf(&b, "QSO %d of %d\n\n", q.Index, len(m.sess.QSOs()))
	b.WriteString(row("Time", q.Timestamp.Format("2006-01-02 15:04")+" UTC") + "\n")
	b.WriteString(row("Freq", q.Frequency) + "\n")
	b.WriteString(row("Mode", q.Mode) + "\n\n")
	b.WriteString(row("Worked", q.TheirCall) + "\n")
	b.WriteString(row("Sent", q.SentRST+" "+q.SentExch) + "\n")
	b.WriteString(row("Rcvd", q.RecvRST+" "+q.RecvExch) + "\n\n")

	if q.Resolved {
		b.WriteString(row("File", q.SourceFile) + "\n")
		b.WriteString(row("Offset", formatOffset(q.SourceOffset)) + "\n")
		b.WriteString(row("Timeline", formatOffset(q.AbsoluteOffset)) + "\n")
	} else {
		b.WriteString(styleDetailLabel.Render("outside the recording") + "\n")
	}

	if m.markStart != 0 {
		b.WriteString("\n")
		if m.markEnd != 0 {
			fmt.Fprintf(&b, "export range: %d..%d\n", m.markStart, m.markEnd)
		} else {
			fmt.Fprintf(&b, "export range: %d..? (C-e to close)\n", m.markStart)
		}
	}

	m.detail.SetContent(b.String())
	m.detail.GotoTop()
}

// formatOffset renders seconds as h:mm:ss.s for humans scrubbing audio.
func formatOffset(seconds float64) string {
	neg := ""
	if seconds < 0 {
		neg = "-"
		seconds = -seconds
	}
	h := int(seconds) / 3600
	min := (int(seconds) % 3600) / 60
	s := seconds - float64(h*3600+min*60)
	return fmt.Sprintf("%s%d:%02d:%04.1f", neg, h, min, s)
}
