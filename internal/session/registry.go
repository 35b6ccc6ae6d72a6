package session

import (
	"log/slog"
	"sort"

	"qsoreplay/internal/config"
)

// Registry is the immutable contest-name → session map a process serves
// from. It is built whole; reloads build a fresh Registry and swap the
// pointer, never mutate one in place.
type Registry struct {
	sessions map[string]*Session
}

// NewRegistry wraps already-built sessions, keyed by name.
func NewRegistry(sessions ...*Session) *Registry {
	m := make(map[string]*Session, len(sessions))
	for _, s := range sessions {
		m[s.Name] = s
	}
	return &Registry{sessions: m}
}

// BuildRegistry builds every configured contest. A contest that fails to
// build is logged and excluded; the rest stay servable.
func BuildRegistry(cfg *config.Config, logger *slog.Logger) *Registry {
	sessions := make(map[string]*Session, len(cfg.Contests))
	for _, ct := range cfg.Contests {
		s, err := Build(ct)
		if err != nil {
			logger.Warn("contest excluded", "contest", ct.Name, "error", err)
			continue
		}
		logger.Info("contest ready",
			"contest", ct.Name,
			"qsos", len(s.Document.QSOs),
			"audio_seconds", s.Timeline.TotalDuration())
		sessions[ct.Name] = s
	}
	return &Registry{sessions: sessions}
}

// Get returns the named session.
func (r *Registry) Get(name string) (*Session, bool) {
	s, ok := r.sessions[name]
	return s, ok
}

// Names returns the served contest names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.sessions))
	for name := range r.sessions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len is the number of servable sessions.
func (r *Registry) Len() int {
	return len(r.sessions)
}
