package mapping

import (
	"errors"
	"math"
	"testing"
	"time"

	"qsoreplay/internal/cabrillo"
	"qsoreplay/internal/timeline"
)

func testTimeline(t *testing.T, durations ...float64) *timeline.Timeline {
	t.Helper()
	names := make([]string, len(durations))
	m := make(map[string]float64, len(durations))
	for i, d := range durations {
		name := string(rune('a'+i)) + ".mp3"
		names[i] = name
		m[name] = d
	}
	tl, err := timeline.Build(names, func(name string) (float64, error) {
		return m[name], nil
	})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	return tl
}

func anchorsAt(recording, contest string) Anchors {
	rec, _ := time.Parse("2006-01-02 15:04:05", recording)
	con, _ := time.Parse("2006-01-02 15:04:05", contest)
	return Anchors{RecordingStart: rec, ContestStart: con}
}

func qsoAt(ts string) cabrillo.QSO {
	t, _ := time.Parse("2006-01-02 15:04", ts)
	return cabrillo.QSO{Timestamp: t}
}

func TestAnnotateMissingAnchor(t *testing.T) {
	tl := testTimeline(t, 60)
	err := Annotate(nil, tl, Anchors{}, 10, ClampFull)
	if !errors.Is(err, ErrMissingAnchor) {
		t.Fatalf("expected ErrMissingAnchor, got %v", err)
	}
	err = Annotate(nil, tl, Anchors{RecordingStart: time.Now()}, 10, ClampFull)
	if !errors.Is(err, ErrMissingAnchor) {
		t.Fatalf("expected ErrMissingAnchor with one anchor, got %v", err)
	}
}

func TestAnnotateOffsets(t *testing.T) {
	// Recorder started 2 minutes before the contest; QSO 3 minutes into
	// the contest sits 5 minutes into the recording.
	tl := testTimeline(t, 600)
	anchors := anchorsAt("2024-06-01 11:58:00", "2024-06-01 12:00:00")
	qsos := []cabrillo.QSO{qsoAt("2024-06-01 12:03")}

	if err := Annotate(qsos, tl, anchors, 10, ClampFull); err != nil {
		t.Fatalf("Annotate failed: %v", err)
	}

	q := qsos[0]
	if q.AbsoluteOffset != 300 {
		t.Errorf("AbsoluteOffset: got %v, want 300", q.AbsoluteOffset)
	}
	if !q.Resolved {
		t.Fatal("QSO not resolved")
	}
	// Playback backs up by the pre-roll.
	if q.SourceOffset != 290 {
		t.Errorf("SourceOffset: got %v, want 290", q.SourceOffset)
	}
	if q.SourceFile != "a.mp3" {
		t.Errorf("SourceFile: got %q", q.SourceFile)
	}
}

func TestAnnotateSpansFiles(t *testing.T) {
	tl := testTimeline(t, 60, 60)
	anchors := anchorsAt("2024-06-01 12:00:00", "2024-06-01 12:00:00")
	qsos := []cabrillo.QSO{qsoAt("2024-06-01 12:01")} // 60s in, pre-roll 10 -> 50s

	if err := Annotate(qsos, tl, anchors, 10, ClampFull); err != nil {
		t.Fatalf("Annotate failed: %v", err)
	}
	if qsos[0].SourceFile != "a.mp3" || qsos[0].SourceOffset != 50 {
		t.Errorf("got %q at %v, want a.mp3 at 50", qsos[0].SourceFile, qsos[0].SourceOffset)
	}
}

func TestFullClampNegativeOffset(t *testing.T) {
	// QSO logged before the recording started: must land on the first
	// file at offset 0, never unresolved.
	tl := testTimeline(t, 60, 60)
	anchors := anchorsAt("2024-06-01 12:00:00", "2024-06-01 12:00:00")
	qsos := []cabrillo.QSO{qsoAt("2024-06-01 11:55")}

	if err := Annotate(qsos, tl, anchors, 10, ClampFull); err != nil {
		t.Fatalf("Annotate failed: %v", err)
	}
	q := qsos[0]
	if !q.Resolved {
		t.Fatal("full clamp left QSO unresolved")
	}
	if q.SourceFile != "a.mp3" || q.SourceOffset != 0 {
		t.Errorf("got %q at %v, want a.mp3 at 0", q.SourceFile, q.SourceOffset)
	}
	if q.AbsoluteOffset != -300 {
		t.Errorf("AbsoluteOffset must stay pre-clamp: got %v, want -300", q.AbsoluteOffset)
	}
}

func TestFullClampBeyondEnd(t *testing.T) {
	tl := testTimeline(t, 60, 60)
	anchors := anchorsAt("2024-06-01 12:00:00", "2024-06-01 12:00:00")
	qsos := []cabrillo.QSO{qsoAt("2024-06-01 13:00")} // 3600s, way past 120s

	if err := Annotate(qsos, tl, anchors, 10, ClampFull); err != nil {
		t.Fatalf("Annotate failed: %v", err)
	}
	q := qsos[0]
	if !q.Resolved {
		t.Fatal("full clamp left QSO unresolved")
	}
	if q.SourceFile != "b.mp3" {
		t.Errorf("SourceFile: got %q, want b.mp3", q.SourceFile)
	}
	if math.Abs(q.SourceOffset-(60-0.001)) > 1e-9 {
		t.Errorf("SourceOffset: got %v, want just inside the last file", q.SourceOffset)
	}
}

func TestFloorClampBeyondEndUnresolved(t *testing.T) {
	tl := testTimeline(t, 60)
	anchors := anchorsAt("2024-06-01 12:00:00", "2024-06-01 12:00:00")
	qsos := []cabrillo.QSO{qsoAt("2024-06-01 13:00")}

	if err := Annotate(qsos, tl, anchors, 10, ClampFloor); err != nil {
		t.Fatalf("Annotate failed: %v", err)
	}
	if qsos[0].Resolved {
		t.Error("floor clamp should leave beyond-end QSOs unresolved")
	}
}

func TestFloorClampNegativeOffset(t *testing.T) {
	tl := testTimeline(t, 60)
	anchors := anchorsAt("2024-06-01 12:00:00", "2024-06-01 12:00:00")
	qsos := []cabrillo.QSO{qsoAt("2024-06-01 12:00")} // pre-roll pulls below 0

	if err := Annotate(qsos, tl, anchors, 10, ClampFloor); err != nil {
		t.Fatalf("Annotate failed: %v", err)
	}
	if !qsos[0].Resolved || qsos[0].SourceOffset != 0 {
		t.Errorf("got resolved=%v offset=%v, want resolved at 0", qsos[0].Resolved, qsos[0].SourceOffset)
	}
}

func TestParsePolicy(t *testing.T) {
	cases := []struct {
		in      string
		want    ClampPolicy
		wantErr bool
	}{
		{"", ClampFull, false},
		{"full", ClampFull, false},
		{"floor", ClampFloor, false},
		{"middle", ClampFull, true},
	}
	for _, c := range cases {
		got, err := ParsePolicy(c.in)
		if (err != nil) != c.wantErr {
			t.Errorf("ParsePolicy(%q) err = %v", c.in, err)
		}
		if err == nil && got != c.want {
			t.Errorf("ParsePolicy(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}
