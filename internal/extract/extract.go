// Package extract cuts an arbitrary time window out of the logical
// timeline. A window may span several source files; each overlapping
// slice is decoded and appended, in timeline order, to a single PCM
// buffer ready for encoding.
package extract

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/gopxl/beep"

	"qsoreplay/internal/cabrillo"
	"qsoreplay/internal/timeline"
)

var (
	// ErrEmptySelection is returned by ComputeSpan for an empty selection.
	ErrEmptySelection = errors.New("extract: empty selection")
	// ErrEmptyWindow is returned when the requested window collapses to
	// nothing after clamping to the recording.
	ErrEmptyWindow = errors.New("extract: window is empty after clamping")
	// ErrNoAudio guards against a zero-length decode slipping past the
	// window check.
	ErrNoAudio = errors.New("extract: no audio produced")
)

// Decoder opens one source file for sample access. audiodir.Decode
// curried with a directory satisfies it; tests substitute synthetic
// streams.
type Decoder func(name string) (beep.StreamSeekCloser, beep.Format, error)

// ComputeSpan returns the absolute time range covering the selected QSOs,
// padded by preRoll seconds on both ends.
func ComputeSpan(selected []cabrillo.QSO, preRoll float64) (start, end float64, err error) {
	if len(selected) == 0 {
		return 0, 0, ErrEmptySelection
	}

	min, max := selected[0].AbsoluteOffset, selected[0].AbsoluteOffset
	for _, q := range selected[1:] {
		if q.AbsoluteOffset < min {
			min = q.AbsoluteOffset
		}
		if q.AbsoluteOffset > max {
			max = q.AbsoluteOffset
		}
	}
	return min - preRoll, max + preRoll, nil
}

// Window decodes the [start, end) range of the timeline into one buffer.
// Both bounds are clamped to the recording first. Slices are cut at
// millisecond granularity with half-open interval math, so a window edge
// landing exactly on a file boundary neither drops nor repeats samples.
func Window(tl *timeline.Timeline, start, end float64, decode Decoder) (*beep.Buffer, error) {
	total := tl.TotalDuration()
	start = clamp(start, 0, total)
	end = clamp(end, 0, total)
	if end <= start {
		return nil, fmt.Errorf("%w: [%v, %v)", ErrEmptyWindow, start, end)
	}

	var buf *beep.Buffer
	for _, seg := range tl.Segments() {
		if seg.End <= start || seg.Start >= end {
			continue
		}

		from := millis(math.Max(start, seg.Start) - seg.Start)
		to := millis(math.Min(end, seg.End) - seg.Start)
		if to <= from {
			continue
		}

		streamer, format, err := decode(seg.Filename)
		if err != nil {
			return nil, fmt.Errorf("decode %s: %w", seg.Filename, err)
		}

		if buf == nil {
			buf = beep.NewBuffer(format)
		}

		fromSample := format.SampleRate.N(time.Duration(from) * time.Millisecond)
		toSample := format.SampleRate.N(time.Duration(to) * time.Millisecond)
		if err := streamer.Seek(fromSample); err != nil {
			streamer.Close()
			return nil, fmt.Errorf("seek %s: %w", seg.Filename, err)
		}

		var slice beep.Streamer = beep.Take(toSample-fromSample, streamer)
		if format.SampleRate != buf.Format().SampleRate {
			slice = beep.Resample(4, format.SampleRate, buf.Format().SampleRate, slice)
		}
		buf.Append(slice)
		streamer.Close()
	}

	if buf == nil || buf.Len() == 0 {
		return nil, ErrNoAudio
	}
	return buf, nil
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// millis rounds a second offset to whole milliseconds.
func millis(seconds float64) int64 {
	return int64(math.Round(seconds * 1000))
}
