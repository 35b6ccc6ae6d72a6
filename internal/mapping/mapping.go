// Package mapping aligns contest-log timestamps with the recording's
// timeline. Two anchor times relate the independently-clocked log and
// recording: when the recorder started and when the contest clock started.
package mapping

import (
	"errors"
	"fmt"
	"time"

	"qsoreplay/internal/cabrillo"
	"qsoreplay/internal/timeline"
)

// ErrMissingAnchor is returned when either anchor time is unset. Both are
// required configuration and never inferred.
var ErrMissingAnchor = errors.New("mapping: recording start and contest start are both required")

// clampEpsilon keeps a fully clamped offset strictly inside the timeline
// so it still resolves to the final segment.
const clampEpsilon = 0.001

// ClampPolicy controls how playback offsets outside the recording are
// handled.
type ClampPolicy int

const (
	// ClampFull clamps into [0, total-epsilon] so every QSO resolves to
	// some file even when its nominal time falls outside the recording.
	ClampFull ClampPolicy = iota
	// ClampFloor clamps only the lower bound to 0; offsets past the end of
	// the recording are left unresolved.
	ClampFloor
)

// ParsePolicy maps the config spelling to a ClampPolicy. The empty string
// selects ClampFull, the tolerant default.
func ParsePolicy(s string) (ClampPolicy, error) {
	switch s {
	case "", "full":
		return ClampFull, nil
	case "floor":
		return ClampFloor, nil
	default:
		return ClampFull, fmt.Errorf("mapping: unknown clamp policy %q", s)
	}
}

// Anchors are the two reference times, both UTC.
type Anchors struct {
	RecordingStart time.Time
	ContestStart   time.Time
}

// Annotate computes, for each QSO, its absolute offset in the recording
// and the file and intra-file offset where playback should begin, backing
// up by preRoll seconds. QSOs are enriched in place and never recomputed;
// AbsoluteOffset keeps the pre-clamp, pre-pre-roll value for later window
// math.
func Annotate(qsos []cabrillo.QSO, tl *timeline.Timeline, anchors Anchors, preRoll float64, policy ClampPolicy) error {
	if anchors.RecordingStart.IsZero() || anchors.ContestStart.IsZero() {
		return ErrMissingAnchor
	}

	anchorOffset := anchors.ContestStart.Sub(anchors.RecordingStart).Seconds()
	total := tl.TotalDuration()

	for i := range qsos {
		q := &qsos[i]
		absolute := anchorOffset + q.Timestamp.Sub(anchors.ContestStart).Seconds()
		q.AbsoluteOffset = absolute

		play := absolute - preRoll
		switch policy {
		case ClampFull:
			if play < 0 {
				play = 0
			}
			if play > total-clampEpsilon {
				play = total - clampEpsilon
			}
		case ClampFloor:
			if play < 0 {
				play = 0
			}
		}

		if pos, ok := tl.Resolve(play); ok {
			q.SourceFile = pos.Filename
			q.SourceOffset = pos.Offset
			q.Resolved = true
		}
	}

	return nil
}
