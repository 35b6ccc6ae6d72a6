package catalog

import (
	"fmt"
	"strings"
)

type Result struct {
	Contest    string
	Index      int
	Ts         string
	Freq       string
	Mode       string
	HisCall    string
	RstSent    string
	ExchSent   string
	RstRcvd    string
	ExchRcvd   string
	File       string
	FileOffset float64
}

type Options struct {
	Call    string // substring of the worked station's call
	Contest string // "" = all contests
	Since   string // "" = no filter, e.g. "2024-06-01"
	Limit   int
}

// Search finds QSOs whose worked callsign contains the query, newest
// first. Callsigns are short ASCII tokens, so a LIKE scan over the
// indexed column is all this needs.
func Search(db *DB, opts Options) ([]Result, error) {
	if opts.Limit <= 0 {
		opts.Limit = 100
	}

	conditions := []string{"his_call LIKE ?"}
	args := []interface{}{"%" + strings.ToUpper(opts.Call) + "%"}

	if opts.Contest != "" {
		conditions = append(conditions, "contest = ?")
		args = append(args, opts.Contest)
	}
	if opts.Since != "" {
		conditions = append(conditions, "ts >= ?")
		args = append(args, opts.Since)
	}

	query := fmt.Sprintf(`
		SELECT contest, idx, ts, freq, mode, his_call,
		       rst_sent, exch_sent, rst_rcvd, exch_rcvd,
		       file, file_offset
		FROM qsos
		WHERE %s
		ORDER BY ts DESC, contest, idx
		LIMIT ?
	`, strings.Join(conditions, " AND "))
	args = append(args, opts.Limit)

	rows, err := db.Raw().Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("search query: %w", err)
	}
	defer rows.Close()

	var results []Result
	for rows.Next() {
		var r Result
		if err := rows.Scan(
			&r.Contest, &r.Index, &r.Ts, &r.Freq, &r.Mode, &r.HisCall,
			&r.RstSent, &r.ExchSent, &r.RstRcvd, &r.ExchRcvd,
			&r.File, &r.FileOffset,
		); err != nil {
			return nil, err
		}
		results = append(results, r)
	}
	return results, rows.Err()
}
