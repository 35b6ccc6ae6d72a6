package extract

import (
	"fmt"
	"io"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/wav"
)

// EncodeWAV renders the buffer as a complete WAV file in memory. WAV is
// the single output codec: no pure-Go MP3 encoder exists, and the export
// consumer only needs something every player opens.
func EncodeWAV(buf *beep.Buffer) ([]byte, error) {
	var w memWriteSeeker
	if err := wav.Encode(&w, buf.Streamer(0, buf.Len()), buf.Format()); err != nil {
		return nil, fmt.Errorf("encode wav: %w", err)
	}
	return w.buf, nil
}

// memWriteSeeker is the minimal in-memory io.WriteSeeker wav.Encode needs
// to backfill the RIFF header after streaming the samples.
type memWriteSeeker struct {
	buf []byte
	pos int64
}

func (w *memWriteSeeker) Write(p []byte) (int, error) {
	if need := w.pos + int64(len(p)); need > int64(len(w.buf)) {
		grown := make([]byte, need)
		copy(grown, w.buf)
		w.buf = grown
	}
	copy(w.buf[w.pos:], p)
	w.pos += int64(len(p))
	return len(p), nil
}

func (w *memWriteSeeker) Seek(offset int64, whence int) (int64, error) {
	var pos int64
	switch whence {
	case io.SeekStart:
		pos = offset
	case io.SeekCurrent:
		pos = w.pos + offset
	case io.SeekEnd:
		pos = int64(len(w.buf)) + offset
	default:
		return 0, fmt.Errorf("invalid whence %d", whence)
	}
	if pos < 0 {
		return 0, fmt.Errorf("negative seek position %d", pos)
	}
	w.pos = pos
	return pos, nil
}
