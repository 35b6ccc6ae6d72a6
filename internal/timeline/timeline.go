// Package timeline models an ordered set of audio recordings as one
// gapless logical timeline, so an absolute offset in the recording can be
// resolved to a file and an offset within it.
//
// The caller supplies file names already sorted into chronological order;
// lexicographic name order is the accepted convention and is not
// re-verified here.
package timeline

import (
	"errors"
	"fmt"
)

// ErrNoSegments is returned by Build when the file list is empty.
var ErrNoSegments = errors.New("timeline: no audio files")

// Segment is one physical file's placement in the logical timeline.
// Start and End are absolute seconds; segments are contiguous, so each
// segment's End equals the next segment's Start.
type Segment struct {
	Filename string
	Start    float64
	End      float64
}

// Duration is the segment's decoded length in seconds.
func (s Segment) Duration() float64 {
	return s.End - s.Start
}

// Position is a resolved point in the recording: a file and the offset
// within it.
type Position struct {
	Filename string
	Offset   float64
	Segment  int
}

// DurationFunc returns the decoded duration in seconds of the named file.
type DurationFunc func(name string) (float64, error)

// Timeline is an immutable ordered sequence of segments.
type Timeline struct {
	segments []Segment
}

// Build constructs a timeline from the ordered file names, reading each
// file's duration exactly once and accumulating a running total.
func Build(names []string, duration DurationFunc) (*Timeline, error) {
	if len(names) == 0 {
		return nil, ErrNoSegments
	}

	segments := make([]Segment, 0, len(names))
	start := 0.0
	for _, name := range names {
		d, err := duration(name)
		if err != nil {
			return nil, fmt.Errorf("duration of %s: %w", name, err)
		}
		segments = append(segments, Segment{
			Filename: name,
			Start:    start,
			End:      start + d,
		})
		start += d
	}

	return &Timeline{segments: segments}, nil
}

// Resolve returns the segment whose half-open [Start, End) interval
// contains offset, and the offset within that file. The second return is
// false when offset is negative, at or past the total duration, or the
// timeline is empty.
func (t *Timeline) Resolve(offset float64) (Position, bool) {
	// Segment counts are small (tens to low hundreds), a scan is fine.
	for i, s := range t.segments {
		if offset >= s.Start && offset < s.End {
			return Position{Filename: s.Filename, Offset: offset - s.Start, Segment: i}, true
		}
	}
	return Position{}, false
}

// TotalDuration is the End of the last segment, or 0 for an empty timeline.
func (t *Timeline) TotalDuration() float64 {
	if len(t.segments) == 0 {
		return 0
	}
	return t.segments[len(t.segments)-1].End
}

// Segments returns the ordered segments. The returned slice must not be
// modified.
func (t *Timeline) Segments() []Segment {
	return t.segments
}
