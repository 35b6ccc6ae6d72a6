package timeline

import (
	"errors"
	"testing"
)

func fixedDurations(d map[string]float64) DurationFunc {
	return func(name string) (float64, error) {
		v, ok := d[name]
		if !ok {
			return 0, errors.New("unknown file")
		}
		return v, nil
	}
}

func TestBuildGapless(t *testing.T) {
	tl, err := Build(
		[]string{"a.mp3", "b.mp3", "c.mp3"},
		fixedDurations(map[string]float64{"a.mp3": 60, "b.mp3": 90, "c.mp3": 30}),
	)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	segs := tl.Segments()
	if len(segs) != 3 {
		t.Fatalf("segments: got %d, want 3", len(segs))
	}
	if segs[0].Start != 0 {
		t.Errorf("first segment start: got %v, want 0", segs[0].Start)
	}
	for i := 0; i < len(segs)-1; i++ {
		if segs[i].End != segs[i+1].Start {
			t.Errorf("gap between segment %d and %d: %v != %v", i, i+1, segs[i].End, segs[i+1].Start)
		}
	}
	if got := tl.TotalDuration(); got != 180 {
		t.Errorf("TotalDuration: got %v, want 180", got)
	}
}

func TestBuildEmptyInput(t *testing.T) {
	_, err := Build(nil, fixedDurations(nil))
	if !errors.Is(err, ErrNoSegments) {
		t.Fatalf("expected ErrNoSegments, got %v", err)
	}
}

func TestBuildReadsEachFileOnce(t *testing.T) {
	calls := map[string]int{}
	dur := func(name string) (float64, error) {
		calls[name]++
		return 10, nil
	}
	if _, err := Build([]string{"a.mp3", "b.mp3"}, dur); err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	for name, n := range calls {
		if n != 1 {
			t.Errorf("duration of %s read %d times, want 1", name, n)
		}
	}
}

func TestResolveSingleSegmentMidpoint(t *testing.T) {
	tl, err := Build([]string{"a.mp3"}, fixedDurations(map[string]float64{"a.mp3": 120}))
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	pos, ok := tl.Resolve(60)
	if !ok {
		t.Fatal("Resolve(60) not found")
	}
	if pos.Filename != "a.mp3" || pos.Offset != 60 {
		t.Errorf("Resolve(60): got %+v", pos)
	}
}

func TestResolveBoundaries(t *testing.T) {
	tl, err := Build(
		[]string{"a.mp3", "b.mp3"},
		fixedDurations(map[string]float64{"a.mp3": 60, "b.mp3": 60}),
	)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	if _, ok := tl.Resolve(-0.001); ok {
		t.Error("negative offset should not resolve")
	}
	if _, ok := tl.Resolve(120); ok {
		t.Error("offset == total should not resolve")
	}
	pos, ok := tl.Resolve(120 - 1e-6)
	if !ok {
		t.Fatal("offset just below total should resolve")
	}
	if pos.Filename != "b.mp3" {
		t.Errorf("got %+v, want b.mp3", pos)
	}

	// Interior boundary belongs to the later segment (half-open intervals).
	pos, ok = tl.Resolve(60)
	if !ok {
		t.Fatal("Resolve(60) not found")
	}
	if pos.Filename != "b.mp3" || pos.Offset != 0 {
		t.Errorf("Resolve(60): got %+v, want b.mp3 at 0", pos)
	}
}

func TestBuildDurationError(t *testing.T) {
	_, err := Build([]string{"missing.mp3"}, fixedDurations(nil))
	if err == nil {
		t.Fatal("expected error from failing duration lookup")
	}
}
