package cabrillo

import (
	"fmt"
	"strings"
)

const (
	startOfLogMarker = "START-OF-LOG"
	endOfLogLine     = "END-OF-LOG:"
)

// SerializeSubset renders the document's header lines verbatim followed by
// the selected QSOs as fixed-width Cabrillo lines. Callers pass the
// selection in ascending index order; it is written as given, never
// re-sorted. A START-OF-LOG line is synthesized if the header lacks one,
// and the output always ends with END-OF-LOG.
func SerializeSubset(doc *Document, selected []QSO) string {
	var b strings.Builder

	hasStart := false
	for _, line := range doc.Header {
		if strings.HasPrefix(strings.TrimSpace(line), startOfLogMarker) {
			hasStart = true
			break
		}
	}
	if !hasStart {
		b.WriteString("START-OF-LOG: 3.0\n")
	}
	for _, line := range doc.Header {
		b.WriteString(line)
		b.WriteByte('\n')
	}
	b.WriteByte('\n')

	for _, q := range selected {
		b.WriteString(FormatQSO(q))
		b.WriteByte('\n')
	}

	b.WriteString(endOfLogLine)
	b.WriteByte('\n')
	return b.String()
}

// FormatQSO renders one QSO line with the conventional Cabrillo column
// widths. The result re-parses to the same field values.
func FormatQSO(q QSO) string {
	line := fmt.Sprintf("QSO: %5s %2s %s %s %-13s %3s %-6s %-13s %3s %-6s",
		q.Frequency,
		q.Mode,
		q.Timestamp.Format("2006-01-02"),
		q.Timestamp.Format("1504"),
		q.OwnCall,
		q.SentRST,
		q.SentExch,
		q.TheirCall,
		q.RecvRST,
		q.RecvExch,
	)
	return strings.TrimRight(line, " ")
}
