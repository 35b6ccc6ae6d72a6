package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

// DefaultPreRoll is how many seconds before a QSO playback starts when a
// contest does not override it.
const DefaultPreRoll = 10.0

// Contest configures one contest session: where its audio and log live
// and the two anchor times that align them.
type Contest struct {
	Name           string  `toml:"name"`
	AudioDir       string  `toml:"audio_dir"`
	LogFile        string  `toml:"log_file"`
	RecordingStart string  `toml:"recording_start"`
	ContestStart   string  `toml:"contest_start"`
	PreRollSeconds float64 `toml:"pre_roll_seconds"`
	Clamp          string  `toml:"clamp"` // "full" (default) or "floor"
}

// PreRoll returns the configured pre-roll, or the default when unset.
func (c Contest) PreRoll() float64 {
	if c.PreRollSeconds > 0 {
		return c.PreRollSeconds
	}
	return DefaultPreRoll
}

type Config struct {
	DBPath   string    `toml:"db_path"`
	Listen   string    `toml:"listen"`
	Player   string    `toml:"player"`
	Contests []Contest `toml:"contest"`
}

// Load reads ~/.config/qsoreplay/config.toml (or $QSOREPLAY_CONFIG) over
// built-in defaults.
func Load() (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		DBPath: filepath.Join(home, ".config", "qsoreplay", "qsoreplay.db"),
		Listen: "127.0.0.1:8073",
		Player: "mpv",
	}

	cfgPath := os.Getenv("QSOREPLAY_CONFIG")
	if cfgPath == "" {
		cfgPath = filepath.Join(home, ".config", "qsoreplay", "config.toml")
	}
	if _, err := os.Stat(cfgPath); err == nil {
		if _, err := toml.DecodeFile(cfgPath, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", cfgPath, err)
		}
	}

	cfg.DBPath = expandHome(cfg.DBPath, home)
	for i := range cfg.Contests {
		cfg.Contests[i].AudioDir = expandHome(cfg.Contests[i].AudioDir, home)
		cfg.Contests[i].LogFile = expandHome(cfg.Contests[i].LogFile, home)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	seen := make(map[string]bool, len(c.Contests))
	for _, ct := range c.Contests {
		if ct.Name == "" {
			return fmt.Errorf("config: contest with empty name")
		}
		if seen[ct.Name] {
			return fmt.Errorf("config: duplicate contest name %q", ct.Name)
		}
		seen[ct.Name] = true
	}
	return nil
}

// Contest looks up a configured contest by name.
func (c *Config) Contest(name string) (*Contest, error) {
	for i := range c.Contests {
		if c.Contests[i].Name == name {
			return &c.Contests[i], nil
		}
	}
	return nil, fmt.Errorf("config: contest %q not configured", name)
}

// anchorLayouts are the accepted spellings of the anchor times, UTC.
var anchorLayouts = []string{"2006-01-02 15:04:05", "2006-01-02 15:04"}

// ParseAnchor parses a recording/contest start time. Seconds are optional.
func ParseAnchor(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, fmt.Errorf("config: anchor time not set")
	}
	for _, layout := range anchorLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("config: invalid anchor time %q (want YYYY-MM-DD HH:MM[:SS])", s)
}

func expandHome(path, home string) string {
	if len(path) > 1 && path[0] == '~' && path[1] == '/' {
		return filepath.Join(home, path[2:])
	}
	return path
}
