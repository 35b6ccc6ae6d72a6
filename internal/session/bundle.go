package session

import (
	"archive/zip"
	"bytes"
	"fmt"

	"qsoreplay/internal/cabrillo"
	"qsoreplay/internal/extract"
)

// Bundle is one export artifact: a zip holding exactly two members, the
// stitched audio for the selected window and the matching log subset.
type Bundle struct {
	Name      string // suggested file name for the zip itself
	AudioName string
	LogName   string
	Zip       []byte
}

// ExportBundle extracts the audio window covering the selection (padded by
// the session's pre-roll on both ends) and pairs it with a Cabrillo log of
// just those QSOs.
func (s *Session) ExportBundle(selected []cabrillo.QSO) (*Bundle, error) {
	start, end, err := extract.ComputeSpan(selected, s.PreRoll)
	if err != nil {
		return nil, err
	}

	buf, err := extract.Window(s.Timeline, start, end, s.decode)
	if err != nil {
		return nil, err
	}
	audio, err := extract.EncodeWAV(buf)
	if err != nil {
		return nil, err
	}

	logText := cabrillo.SerializeSubset(s.Document, selected)

	first, last := selected[0].Index, selected[len(selected)-1].Index
	stem := fmt.Sprintf("%s_qso%03d-%03d", s.Name, first, last)
	b := &Bundle{
		Name:      stem + ".zip",
		AudioName: stem + ".wav",
		LogName:   stem + ".log",
	}

	var zbuf bytes.Buffer
	zw := zip.NewWriter(&zbuf)
	for _, member := range []struct {
		name string
		data []byte
	}{
		{b.AudioName, audio},
		{b.LogName, []byte(logText)},
	} {
		w, err := zw.Create(member.name)
		if err != nil {
			return nil, fmt.Errorf("create zip member %s: %w", member.name, err)
		}
		if _, err := w.Write(member.data); err != nil {
			return nil, fmt.Errorf("write zip member %s: %w", member.name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("finish zip: %w", err)
	}

	b.Zip = zbuf.Bytes()
	return b, nil
}
