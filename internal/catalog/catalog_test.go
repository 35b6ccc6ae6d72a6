package catalog

import (
	"path/filepath"
	"testing"
	"time"

	"qsoreplay/internal/cabrillo"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := OpenDB(filepath.Join(t.TempDir(), "catalog.db"))
	if err != nil {
		t.Fatalf("OpenDB failed: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func seedContest(t *testing.T, db *DB, name string, qsos []cabrillo.QSO) {
	t.Helper()
	if err := upsertContest(db, name, "/data/audio/"+name, 3600, qsos); err != nil {
		t.Fatalf("index %s: %v", name, err)
	}
}

func qso(idx int, ts, hisCall, file string, offset float64) cabrillo.QSO {
	tm, _ := time.Parse("2006-01-02 1504", ts)
	return cabrillo.QSO{
		Index:        idx,
		Timestamp:    tm,
		Frequency:    "14250",
		Mode:         "PH",
		OwnCall:      "W1AW",
		SentRST:      "59",
		SentExch:     "001",
		TheirCall:    hisCall,
		RecvRST:      "59",
		RecvExch:     "042",
		SourceFile:   file,
		SourceOffset: offset,
		Resolved:     true,
	}
}

func TestOpenDBAndCounts(t *testing.T) {
	db := openTestDB(t)

	n, err := db.ContestCount()
	if err != nil || n != 0 {
		t.Fatalf("ContestCount: got %d, %v", n, err)
	}

	seedContest(t, db, "fd2024", []cabrillo.QSO{
		qso(1, "2024-06-01 1200", "K2ABC", "rec_01.mp3", 110),
		qso(2, "2024-06-01 1201", "N3XYZ", "rec_01.mp3", 170),
	})

	n, _ = db.ContestCount()
	if n != 1 {
		t.Errorf("ContestCount after seed: got %d, want 1", n)
	}
	n, _ = db.QSOCount()
	if n != 2 {
		t.Errorf("QSOCount: got %d, want 2", n)
	}
}

func TestSearchByCallSubstring(t *testing.T) {
	db := openTestDB(t)
	seedContest(t, db, "fd2024", []cabrillo.QSO{
		qso(1, "2024-06-01 1200", "K2ABC", "rec_01.mp3", 110),
		qso(2, "2024-06-01 1201", "N3XYZ", "rec_01.mp3", 170),
	})
	seedContest(t, db, "cqww2024", []cabrillo.QSO{
		qso(1, "2024-10-26 0005", "K2ABC", "rec_01.mp3", 290),
	})

	results, err := Search(db, Options{Call: "2ab"})
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("results: got %d, want 2", len(results))
	}
	// Newest first.
	if results[0].Contest != "cqww2024" || results[1].Contest != "fd2024" {
		t.Errorf("order: got %s, %s", results[0].Contest, results[1].Contest)
	}
	if results[0].File != "rec_01.mp3" || results[0].FileOffset != 290 {
		t.Errorf("playback position: got %s at %v", results[0].File, results[0].FileOffset)
	}

	results, err = Search(db, Options{Call: "2ab", Contest: "fd2024"})
	if err != nil {
		t.Fatalf("Search with contest filter failed: %v", err)
	}
	if len(results) != 1 || results[0].Contest != "fd2024" {
		t.Errorf("contest filter: got %v", results)
	}

	results, err = Search(db, Options{Call: "2ab", Since: "2024-07-01"})
	if err != nil {
		t.Fatalf("Search with since filter failed: %v", err)
	}
	if len(results) != 1 || results[0].Contest != "cqww2024" {
		t.Errorf("since filter: got %v", results)
	}
}

func TestDeleteContestPrunes(t *testing.T) {
	db := openTestDB(t)
	seedContest(t, db, "fd2024", []cabrillo.QSO{
		qso(1, "2024-06-01 1200", "K2ABC", "rec_01.mp3", 110),
	})

	if err := db.DeleteContest("fd2024"); err != nil {
		t.Fatalf("DeleteContest failed: %v", err)
	}
	if n, _ := db.QSOCount(); n != 0 {
		t.Errorf("QSOs after delete: got %d, want 0", n)
	}
	names, err := db.AllContestNames()
	if err != nil {
		t.Fatal(err)
	}
	if len(names) != 0 {
		t.Errorf("contests after delete: got %v", names)
	}
}
