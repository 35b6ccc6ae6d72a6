package cabrillo

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"time"
)

// eventMarker starts every QSO line in a Cabrillo log.
const eventMarker = "QSO:"

// timestampLayout combines the date and time tokens of a QSO line.
// Cabrillo times are minute-resolution UTC with no separator in the time.
const timestampLayout = "2006-01-02 1504"

// QSO is one logged contact. Index is 1-based and assigned in parse order.
// The audio fields are filled in later by mapping.Annotate and are zero
// until then; Resolved reports whether SourceFile/SourceOffset are valid.
type QSO struct {
	Index     int
	Timestamp time.Time
	Frequency string
	Mode      string
	OwnCall   string
	SentRST   string
	SentExch  string
	TheirCall string
	RecvRST   string
	RecvExch  string

	AbsoluteOffset float64
	SourceFile     string
	SourceOffset   float64
	Resolved       bool
}

// Document is a parsed Cabrillo log: the verbatim header block (every line
// before the first QSO line), the ordered QSOs, and, when requested via
// ParseOptions.KeepTrailing, any non-QSO lines found after the first QSO.
type Document struct {
	Header   []string
	QSOs     []QSO
	Trailing []string
}

// ParseOptions controls parse behavior that has more than one defensible
// answer.
type ParseOptions struct {
	// KeepTrailing preserves non-QSO lines that appear after the first QSO
	// line in Document.Trailing. The default (false) discards them, which
	// matches how these logs have historically been read.
	KeepTrailing bool
}

// Parse reads a Cabrillo log. Lines whose stripped form starts with "QSO:"
// are events; everything before the first event is header, kept verbatim.
// Event lines with fewer than 10 tokens after the marker are skipped.
// A QSO line whose date/time tokens do not parse aborts the whole parse
// with a *TimestampError.
func Parse(r io.Reader, opts ParseOptions) (*Document, error) {
	doc := &Document{}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	lineNum := 0
	sawEvent := false
	for scanner.Scan() {
		lineNum++
		raw := scanner.Text()
		trimmed := strings.TrimSpace(raw)

		if !strings.HasPrefix(trimmed, eventMarker) {
			if !sawEvent {
				doc.Header = append(doc.Header, raw)
			} else if opts.KeepTrailing {
				doc.Trailing = append(doc.Trailing, raw)
			}
			continue
		}
		sawEvent = true

		parts := strings.Fields(trimmed)
		// QSO: freq mode date time mycall rst_s exch_s hiscall rst_r exch_r ...
		if len(parts) < 11 {
			continue
		}

		ts, err := time.Parse(timestampLayout, parts[3]+" "+parts[4])
		if err != nil {
			return nil, &TimestampError{Line: lineNum, Date: parts[3], Time: parts[4], Err: err}
		}

		doc.QSOs = append(doc.QSOs, QSO{
			Index:     len(doc.QSOs) + 1,
			Timestamp: ts,
			Frequency: parts[1],
			Mode:      parts[2],
			OwnCall:   parts[5],
			SentRST:   parts[6],
			SentExch:  parts[7],
			TheirCall: parts[8],
			RecvRST:   parts[9],
			RecvExch:  parts[10],
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read log: %w", err)
	}

	return doc, nil
}

// ParseFile parses the Cabrillo log at path.
func ParseFile(path string, opts ParseOptions) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open log: %w", err)
	}
	defer f.Close()

	doc, err := Parse(f, opts)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return doc, nil
}
