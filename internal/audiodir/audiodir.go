// Package audiodir reads the contest recording directory: an ordered set
// of MP3 files whose lexicographic names are the chronological order.
// That ordering is a contract with whoever names the files; it is not
// verified here because plain MP3 carries no embedded timestamps.
package audiodir

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/mp3"
)

// ErrNoAudio is returned by List when the directory holds no MP3 files.
var ErrNoAudio = errors.New("audiodir: no mp3 files found")

// List returns the MP3 base names in dir, sorted lexicographically.
func List(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read audio dir: %w", err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if strings.EqualFold(filepath.Ext(e.Name()), ".mp3") {
			names = append(names, e.Name())
		}
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoAudio, dir)
	}

	sort.Strings(names)
	return names, nil
}

// Duration decodes the MP3 at path far enough to learn its length in
// seconds.
func Duration(path string) (float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("open audio: %w", err)
	}
	streamer, format, err := mp3.Decode(f)
	if err != nil {
		f.Close()
		return 0, fmt.Errorf("decode %s: %w", path, err)
	}
	defer streamer.Close()

	return format.SampleRate.D(streamer.Len()).Seconds(), nil
}

// DurationIn adapts Duration to a per-name lookup rooted at dir, the shape
// timeline.Build consumes.
func DurationIn(dir string) func(name string) (float64, error) {
	return func(name string) (float64, error) {
		return Duration(filepath.Join(dir, name))
	}
}

// Decode opens and decodes the named file under dir. The caller owns the
// returned streamer and must Close it; closing the streamer closes the
// file.
func Decode(dir, name string) (beep.StreamSeekCloser, beep.Format, error) {
	path, err := safeJoin(dir, name)
	if err != nil {
		return nil, beep.Format{}, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, beep.Format{}, fmt.Errorf("open audio: %w", err)
	}
	streamer, format, err := mp3.Decode(f)
	if err != nil {
		f.Close()
		return nil, beep.Format{}, fmt.Errorf("decode %s: %w", name, err)
	}
	return streamer, format, nil
}

// Open returns the raw bytes of the named file under dir, for serving the
// source MP3 as-is.
func Open(dir, name string) (io.ReadCloser, error) {
	path, err := safeJoin(dir, name)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open audio: %w", err)
	}
	return f, nil
}

// safeJoin rejects names that would escape dir.
func safeJoin(dir, name string) (string, error) {
	if name != filepath.Base(name) || name == "." || name == ".." {
		return "", fmt.Errorf("audiodir: invalid file name %q", name)
	}
	return filepath.Join(dir, name), nil
}
