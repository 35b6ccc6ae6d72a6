package catalog

import (
	"fmt"
	"time"

	"qsoreplay/internal/cabrillo"
	"qsoreplay/internal/session"
)

const tsLayout = "2006-01-02T15:04:05Z"

type Stats struct {
	Contests int
	QSOs     int
	Pruned   int
}

func (s Stats) String() string {
	return fmt.Sprintf("contests=%d qsos=%d pruned=%d", s.Contests, s.QSOs, s.Pruned)
}

// IndexRegistry replaces the catalog's contents with the registry's
// sessions and prunes contests that are no longer configured.
func IndexRegistry(db *DB, reg *session.Registry) (Stats, error) {
	var stats Stats

	seen := make(map[string]struct{}, reg.Len())
	for _, name := range reg.Names() {
		s, _ := reg.Get(name)
		if err := indexSession(db, s); err != nil {
			return stats, fmt.Errorf("index %s: %w", name, err)
		}
		seen[name] = struct{}{}
		stats.Contests++
		stats.QSOs += len(s.QSOs())
	}

	pruned, err := pruneContests(db, seen)
	if err != nil {
		return stats, fmt.Errorf("prune: %w", err)
	}
	stats.Pruned = pruned
	return stats, nil
}

func indexSession(db *DB, s *session.Session) error {
	return upsertContest(db, s.Name, s.AudioDir, s.Timeline.TotalDuration(), s.QSOs())
}

func upsertContest(db *DB, name, audioDir string, totalSeconds float64, qsos []cabrillo.QSO) error {
	if err := db.DeleteContest(name); err != nil {
		return err
	}

	tx, err := db.Raw().Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		`INSERT INTO contests (name, log_file, audio_dir, qso_count, total_seconds, indexed_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		name,
		"",
		audioDir,
		len(qsos),
		totalSeconds,
		time.Now().UTC().Format(tsLayout),
	)
	if err != nil {
		return err
	}

	stmt, err := tx.Prepare(
		`INSERT INTO qsos (contest, idx, ts, freq, mode, my_call, his_call,
		                   rst_sent, exch_sent, rst_rcvd, exch_rcvd,
		                   file, file_offset, abs_offset)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
	)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, q := range qsos {
		_, err := stmt.Exec(
			name,
			q.Index,
			q.Timestamp.Format(tsLayout),
			q.Frequency,
			q.Mode,
			q.OwnCall,
			q.TheirCall,
			q.SentRST,
			q.SentExch,
			q.RecvRST,
			q.RecvExch,
			q.SourceFile,
			q.SourceOffset,
			q.AbsoluteOffset,
		)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

func pruneContests(db *DB, seen map[string]struct{}) (int, error) {
	all, err := db.AllContestNames()
	if err != nil {
		return 0, err
	}

	pruned := 0
	for name := range all {
		if _, ok := seen[name]; !ok {
			if err := db.DeleteContest(name); err != nil {
				return pruned, err
			}
			pruned++
		}
	}
	return pruned, nil
}
