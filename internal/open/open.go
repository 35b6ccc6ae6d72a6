package open

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"qsoreplay/internal/session"
)

// QSO launches the configured audio player at the recording position of the
// 1-based QSO index in sess.
func QSO(sess *session.Session, index int, player string) error {
	qsos := sess.QSOs()
	if index < 1 || index > len(qsos) {
		return fmt.Errorf("QSO %d out of range (1-%d)", index, len(qsos))
	}

	q := qsos[index-1]
	if !q.Resolved {
		return fmt.Errorf("QSO %d at %s is outside the recording", index, q.Timestamp.Format("2006-01-02 15:04"))
	}

	path := filepath.Join(sess.AudioDir, q.SourceFile)
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("audio file not found: %s", path)
	}

	return launch(player, path, q.SourceOffset)
}

// launch runs the player with the seek flag spelled the way each common
// player expects it.
func launch(player, path string, offset float64) error {
	var cmd *exec.Cmd

	switch {
	case strings.Contains(player, "ffplay"):
		cmd = exec.Command(player, "-ss", fmt.Sprintf("%.1f", offset), path)
	case strings.Contains(player, "vlc"):
		cmd = exec.Command(player, fmt.Sprintf("--start-time=%.1f", offset), path)
	default: // mpv and friends
		cmd = exec.Command(player, fmt.Sprintf("--start=%.1f", offset), path)
	}

	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}
