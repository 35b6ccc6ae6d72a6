package web

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gopxl/beep"

	"qsoreplay/internal/cabrillo"
	"qsoreplay/internal/config"
	"qsoreplay/internal/mapping"
	"qsoreplay/internal/session"
	"qsoreplay/internal/timeline"
)

type silentStream struct {
	length int
	pos    int
}

func (s *silentStream) Stream(samples [][2]float64) (int, bool) {
	if s.pos >= s.length {
		return 0, false
	}
	n := 0
	for i := range samples {
		if s.pos >= s.length {
			break
		}
		samples[i] = [2]float64{}
		s.pos++
		n++
	}
	return n, true
}

func (s *silentStream) Err() error    { return nil }
func (s *silentStream) Len() int      { return s.length }
func (s *silentStream) Position() int { return s.pos }
func (s *silentStream) Close() error  { return nil }

func (s *silentStream) Seek(p int) error {
	if p < 0 || p > s.length {
		return fmt.Errorf("seek %d out of range", p)
	}
	s.pos = p
	return nil
}

func testServer(t *testing.T) *Server {
	t.Helper()

	durations := map[string]float64{"rec_01.mp3": 60, "rec_02.mp3": 60}
	tl, err := timeline.Build([]string{"rec_01.mp3", "rec_02.mp3"}, func(name string) (float64, error) {
		return durations[name], nil
	})
	if err != nil {
		t.Fatal(err)
	}

	logText := "START-OF-LOG: 3.0\n" +
		"QSO: 14250 PH 2024-06-01 1200 W1AW 59 001 K2ABC 59 042\n" +
		"QSO: 14250 PH 2024-06-01 1201 W1AW 59 002 N3XYZ 59 017\n"
	doc, err := cabrillo.Parse(strings.NewReader(logText), cabrillo.ParseOptions{})
	if err != nil {
		t.Fatal(err)
	}

	anchor := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	anchors := mapping.Anchors{RecordingStart: anchor, ContestStart: anchor}
	if err := mapping.Annotate(doc.QSOs, tl, anchors, 10, mapping.ClampFull); err != nil {
		t.Fatal(err)
	}

	decode := func(name string) (beep.StreamSeekCloser, beep.Format, error) {
		d, ok := durations[name]
		if !ok {
			return nil, beep.Format{}, fmt.Errorf("unknown file %s", name)
		}
		return &silentStream{length: int(d * 1000)},
			beep.Format{SampleRate: 1000, NumChannels: 2, Precision: 2}, nil
	}
	sess := session.New("fd2024", "", tl, doc, anchors, 10, mapping.ClampFull, decode)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(&config.Config{Listen: "127.0.0.1:0"}, session.NewRegistry(sess), logger)
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestContestsEndpoint(t *testing.T) {
	h := testServer(t).Handler()

	rec := get(t, h, "/api/contests")
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d", rec.Code)
	}

	var contests []contestJSON
	if err := json.Unmarshal(rec.Body.Bytes(), &contests); err != nil {
		t.Fatalf("bad json: %v", err)
	}
	if len(contests) != 1 || contests[0].Name != "fd2024" {
		t.Fatalf("contests: got %+v", contests)
	}
	if contests[0].QSOCount != 2 || contests[0].TotalSeconds != 120 {
		t.Errorf("contest stats: got %+v", contests[0])
	}
}

func TestQSOsEndpoint(t *testing.T) {
	h := testServer(t).Handler()

	rec := get(t, h, "/api/contests/fd2024/qsos")
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d", rec.Code)
	}
	var qsos []qsoJSON
	if err := json.Unmarshal(rec.Body.Bytes(), &qsos); err != nil {
		t.Fatalf("bad json: %v", err)
	}
	if len(qsos) != 2 {
		t.Fatalf("qsos: got %d, want 2", len(qsos))
	}
	if qsos[0].File != "rec_01.mp3" {
		t.Errorf("first QSO file: got %q", qsos[0].File)
	}

	rec = get(t, h, "/api/contests/fd2024/qsos?call=n3x")
	json.Unmarshal(rec.Body.Bytes(), &qsos)
	if len(qsos) != 1 || qsos[0].TheirCall != "N3XYZ" {
		t.Errorf("filtered qsos: got %+v", qsos)
	}

	rec = get(t, h, "/api/contests/nope/qsos")
	if rec.Code != http.StatusNotFound {
		t.Errorf("unknown contest: got %d, want 404", rec.Code)
	}

	rec = get(t, h, "/api/contests/fd2024/qsos?from=yesterday")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad from: got %d, want 400", rec.Code)
	}
}

func TestExportEndpoint(t *testing.T) {
	h := testServer(t).Handler()

	rec := get(t, h, "/api/contests/fd2024/export?from=1&to=2")
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, body %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/zip" {
		t.Errorf("content type: got %q", ct)
	}

	body := rec.Body.Bytes()
	zr, err := zip.NewReader(bytes.NewReader(body), int64(len(body)))
	if err != nil {
		t.Fatalf("response is not a zip: %v", err)
	}
	if len(zr.File) != 2 {
		t.Errorf("zip members: got %d, want 2", len(zr.File))
	}
}

func TestExportEndpointRejectsBadRange(t *testing.T) {
	h := testServer(t).Handler()

	for _, q := range []string{
		"from=2&to=1",
		"from=0&to=1",
		"from=1&to=99",
		"from=x&to=2",
		"to=2",
	} {
		rec := get(t, h, "/api/contests/fd2024/export?"+q)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s: got %d, want 400", q, rec.Code)
		}
	}
}

func TestAudioEndpointRejectsUnknownFile(t *testing.T) {
	h := testServer(t).Handler()

	rec := get(t, h, "/audio/fd2024/other.mp3")
	if rec.Code != http.StatusNotFound {
		t.Errorf("unknown file: got %d, want 404", rec.Code)
	}
}
