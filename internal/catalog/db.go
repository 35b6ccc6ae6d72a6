// Package catalog maintains a sqlite index of every configured contest's
// QSOs, so a callsign can be found across contests without rebuilding
// each session.
package catalog

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

const schema = `
PRAGMA journal_mode = WAL;
PRAGMA synchronous = NORMAL;
PRAGMA busy_timeout = 5000;

CREATE TABLE IF NOT EXISTS contests (
    name          TEXT PRIMARY KEY,
    log_file      TEXT NOT NULL DEFAULT '',
    audio_dir     TEXT NOT NULL DEFAULT '',
    qso_count     INTEGER NOT NULL DEFAULT 0,
    total_seconds REAL NOT NULL DEFAULT 0,
    indexed_at    TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS qsos (
    contest     TEXT NOT NULL,
    idx         INTEGER NOT NULL,
    ts          TEXT NOT NULL DEFAULT '',
    freq        TEXT NOT NULL DEFAULT '',
    mode        TEXT NOT NULL DEFAULT '',
    my_call     TEXT NOT NULL DEFAULT '',
    his_call    TEXT NOT NULL DEFAULT '',
    rst_sent    TEXT NOT NULL DEFAULT '',
    exch_sent   TEXT NOT NULL DEFAULT '',
    rst_rcvd    TEXT NOT NULL DEFAULT '',
    exch_rcvd   TEXT NOT NULL DEFAULT '',
    file        TEXT NOT NULL DEFAULT '',
    file_offset REAL NOT NULL DEFAULT 0,
    abs_offset  REAL NOT NULL DEFAULT 0,
    PRIMARY KEY (contest, idx)
);

CREATE INDEX IF NOT EXISTS qsos_his_call ON qsos(his_call);
`

type DB struct {
	db *sql.DB
}

func OpenDB(dbPath string) (*DB, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}
	return &DB{db: db}, nil
}

func (d *DB) Close() error {
	return d.db.Close()
}

func (d *DB) Raw() *sql.DB {
	return d.db
}

func (d *DB) ContestCount() (int, error) {
	var n int
	err := d.db.QueryRow("SELECT COUNT(*) FROM contests").Scan(&n)
	return n, err
}

func (d *DB) QSOCount() (int, error) {
	var n int
	err := d.db.QueryRow("SELECT COUNT(*) FROM qsos").Scan(&n)
	return n, err
}

func (d *DB) AllContestNames() (map[string]struct{}, error) {
	rows, err := d.db.Query("SELECT name FROM contests")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	names := make(map[string]struct{})
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			return nil, err
		}
		names[n] = struct{}{}
	}
	return names, rows.Err()
}

func (d *DB) DeleteContest(name string) error {
	tx, err := d.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM qsos WHERE contest = ?", name); err != nil {
		return err
	}
	if _, err := tx.Exec("DELETE FROM contests WHERE name = ?", name); err != nil {
		return err
	}
	return tx.Commit()
}
