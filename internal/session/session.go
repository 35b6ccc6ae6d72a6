// Package session ties one contest's pieces together: the audio timeline,
// the parsed log, and the anchor configuration. A Session is immutable
// once built and safe for any number of concurrent readers.
package session

import (
	"fmt"
	"strings"
	"time"

	"github.com/gopxl/beep"

	"qsoreplay/internal/audiodir"
	"qsoreplay/internal/cabrillo"
	"qsoreplay/internal/config"
	"qsoreplay/internal/extract"
	"qsoreplay/internal/mapping"
	"qsoreplay/internal/timeline"
)

type Session struct {
	Name     string
	AudioDir string
	Timeline *timeline.Timeline
	Document *cabrillo.Document
	Anchors  mapping.Anchors
	PreRoll  float64
	Policy   mapping.ClampPolicy

	decode extract.Decoder
}

// New assembles a session from already-built parts. decode may be nil, in
// which case segments are decoded from audioDir. The QSOs must already be
// annotated (Build does both steps).
func New(name, audioDir string, tl *timeline.Timeline, doc *cabrillo.Document, anchors mapping.Anchors, preRoll float64, policy mapping.ClampPolicy, decode extract.Decoder) *Session {
	s := &Session{
		Name:     name,
		AudioDir: audioDir,
		Timeline: tl,
		Document: doc,
		Anchors:  anchors,
		PreRoll:  preRoll,
		Policy:   policy,
		decode:   decode,
	}
	if s.decode == nil {
		s.decode = func(fname string) (beep.StreamSeekCloser, beep.Format, error) {
			return audiodir.Decode(s.AudioDir, fname)
		}
	}
	return s
}

// Build constructs a fully annotated session from its configuration.
// Any failure here is fatal for this contest only; the caller decides
// whether to keep serving other contests.
func Build(ct config.Contest) (*Session, error) {
	recStart, err := config.ParseAnchor(ct.RecordingStart)
	if err != nil {
		return nil, fmt.Errorf("contest %s: recording_start: %w", ct.Name, err)
	}
	conStart, err := config.ParseAnchor(ct.ContestStart)
	if err != nil {
		return nil, fmt.Errorf("contest %s: contest_start: %w", ct.Name, err)
	}
	policy, err := mapping.ParsePolicy(ct.Clamp)
	if err != nil {
		return nil, fmt.Errorf("contest %s: %w", ct.Name, err)
	}

	names, err := audiodir.List(ct.AudioDir)
	if err != nil {
		return nil, fmt.Errorf("contest %s: %w", ct.Name, err)
	}
	tl, err := timeline.Build(names, audiodir.DurationIn(ct.AudioDir))
	if err != nil {
		return nil, fmt.Errorf("contest %s: %w", ct.Name, err)
	}

	doc, err := cabrillo.ParseFile(ct.LogFile, cabrillo.ParseOptions{})
	if err != nil {
		return nil, fmt.Errorf("contest %s: %w", ct.Name, err)
	}

	anchors := mapping.Anchors{RecordingStart: recStart, ContestStart: conStart}
	if err := mapping.Annotate(doc.QSOs, tl, anchors, ct.PreRoll(), policy); err != nil {
		return nil, fmt.Errorf("contest %s: %w", ct.Name, err)
	}
	return New(ct.Name, ct.AudioDir, tl, doc, anchors, ct.PreRoll(), policy, nil), nil
}

// QSOs returns every annotated contact in log order.
func (s *Session) QSOs() []cabrillo.QSO {
	return s.Document.QSOs
}

// Filter narrows ListEvents. The zero value matches everything.
type Filter struct {
	Call string // case-insensitive substring of either callsign
	From time.Time
	To   time.Time
}

// ListEvents returns the QSOs matching the filter, in log order.
func (s *Session) ListEvents(f Filter) []cabrillo.QSO {
	call := strings.ToUpper(f.Call)
	var out []cabrillo.QSO
	for _, q := range s.Document.QSOs {
		if call != "" &&
			!strings.Contains(strings.ToUpper(q.TheirCall), call) &&
			!strings.Contains(strings.ToUpper(q.OwnCall), call) {
			continue
		}
		if !f.From.IsZero() && q.Timestamp.Before(f.From) {
			continue
		}
		if !f.To.IsZero() && q.Timestamp.After(f.To) {
			continue
		}
		out = append(out, q)
	}
	return out
}

// SelectRange returns the QSOs with 1-based indices in [start, end],
// inclusive. Invalid ranges are rejected, never reordered.
func (s *Session) SelectRange(start, end int) ([]cabrillo.QSO, error) {
	n := len(s.Document.QSOs)
	switch {
	case start <= 0 || end <= 0:
		return nil, fmt.Errorf("%w: indices are 1-based, got %d..%d", ErrInvalidRange, start, end)
	case start > end:
		return nil, fmt.Errorf("%w: start %d after end %d", ErrInvalidRange, start, end)
	case start > n:
		return nil, fmt.Errorf("%w: start %d beyond last QSO %d", ErrInvalidRange, start, n)
	}
	if end > n {
		return nil, fmt.Errorf("%w: end %d beyond last QSO %d", ErrInvalidRange, end, n)
	}
	return s.Document.QSOs[start-1 : end], nil
}
