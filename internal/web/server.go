// Package web serves the contest sessions over HTTP: JSON listings of
// annotated QSOs, the raw source audio for direct playback, and export
// bundles as zip downloads.
package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"sync/atomic"
	"time"

	"qsoreplay/internal/audiodir"
	"qsoreplay/internal/cabrillo"
	"qsoreplay/internal/config"
	"qsoreplay/internal/session"
)

type Server struct {
	cfg    *config.Config
	logger *slog.Logger
	reg    atomic.Pointer[session.Registry]
}

func New(cfg *config.Config, reg *session.Registry, logger *slog.Logger) *Server {
	s := &Server{cfg: cfg, logger: logger}
	s.reg.Store(reg)
	return s
}

// Reload rebuilds every session from config and swaps the registry in one
// atomic step; in-flight requests keep reading the old one.
func (s *Server) Reload() {
	s.reg.Store(session.BuildRegistry(s.cfg, s.logger))
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/contests", s.handleContests)
	mux.HandleFunc("GET /api/contests/{name}/qsos", s.handleQSOs)
	mux.HandleFunc("GET /api/contests/{name}/export", s.handleExport)
	mux.HandleFunc("GET /audio/{name}/{file}", s.handleAudio)
	return s.logRequests(mux)
}

func (s *Server) ListenAndServe() error {
	s.logger.Info("listening", "addr", s.cfg.Listen, "contests", s.reg.Load().Len())
	return http.ListenAndServe(s.cfg.Listen, s.Handler())
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Debug("request", "method", r.Method, "path", r.URL.Path, "elapsed", time.Since(start))
	})
}

type contestJSON struct {
	Name         string  `json:"name"`
	QSOCount     int     `json:"qso_count"`
	TotalSeconds float64 `json:"total_seconds"`
	PreRoll      float64 `json:"pre_roll_seconds"`
}

type qsoJSON struct {
	Index      int     `json:"index"`
	Time       string  `json:"time"`
	Frequency  string  `json:"frequency"`
	Mode       string  `json:"mode"`
	OwnCall    string  `json:"own_call"`
	SentRST    string  `json:"sent_rst"`
	SentExch   string  `json:"sent_exch"`
	TheirCall  string  `json:"their_call"`
	RecvRST    string  `json:"recv_rst"`
	RecvExch   string  `json:"recv_exch"`
	AbsOffset  float64 `json:"abs_offset"`
	File       string  `json:"file,omitempty"`
	FileOffset float64 `json:"file_offset"`
}

func toQSOJSON(q cabrillo.QSO) qsoJSON {
	return qsoJSON{
		Index:      q.Index,
		Time:       q.Timestamp.Format("2006-01-02 15:04"),
		Frequency:  q.Frequency,
		Mode:       q.Mode,
		OwnCall:    q.OwnCall,
		SentRST:    q.SentRST,
		SentExch:   q.SentExch,
		TheirCall:  q.TheirCall,
		RecvRST:    q.RecvRST,
		RecvExch:   q.RecvExch,
		AbsOffset:  q.AbsoluteOffset,
		File:       q.SourceFile,
		FileOffset: q.SourceOffset,
	}
}

func (s *Server) handleContests(w http.ResponseWriter, r *http.Request) {
	reg := s.reg.Load()
	out := make([]contestJSON, 0, reg.Len())
	for _, name := range reg.Names() {
		sess, _ := reg.Get(name)
		out = append(out, contestJSON{
			Name:         name,
			QSOCount:     len(sess.QSOs()),
			TotalSeconds: sess.Timeline.TotalDuration(),
			PreRoll:      sess.PreRoll,
		})
	}
	writeJSON(w, out)
}

func (s *Server) handleQSOs(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.reg.Load().Get(r.PathValue("name"))
	if !ok {
		http.Error(w, "contest not found", http.StatusNotFound)
		return
	}

	filter := session.Filter{Call: r.URL.Query().Get("call")}
	if v := r.URL.Query().Get("from"); v != "" {
		t, err := config.ParseAnchor(v)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		filter.From = t
	}
	if v := r.URL.Query().Get("to"); v != "" {
		t, err := config.ParseAnchor(v)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		filter.To = t
	}

	qsos := sess.ListEvents(filter)
	out := make([]qsoJSON, 0, len(qsos))
	for _, q := range qsos {
		out = append(out, toQSOJSON(q))
	}
	writeJSON(w, out)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.reg.Load().Get(r.PathValue("name"))
	if !ok {
		http.Error(w, "contest not found", http.StatusNotFound)
		return
	}

	from, err := strconv.Atoi(r.URL.Query().Get("from"))
	if err != nil {
		http.Error(w, "from must be a QSO index", http.StatusBadRequest)
		return
	}
	to, err := strconv.Atoi(r.URL.Query().Get("to"))
	if err != nil {
		http.Error(w, "to must be a QSO index", http.StatusBadRequest)
		return
	}

	selected, err := sess.SelectRange(from, to)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	bundle, err := sess.ExportBundle(selected)
	if err != nil {
		if errors.Is(err, session.ErrInvalidRange) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		s.logger.Error("export failed", "contest", sess.Name, "error", err)
		http.Error(w, "export failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", bundle.Name))
	w.Header().Set("Content-Length", strconv.Itoa(len(bundle.Zip)))
	w.Write(bundle.Zip)
}

func (s *Server) handleAudio(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.reg.Load().Get(r.PathValue("name"))
	if !ok {
		http.Error(w, "contest not found", http.StatusNotFound)
		return
	}

	name := r.PathValue("file")
	if !segmentExists(sess, name) {
		http.Error(w, "audio file not found", http.StatusNotFound)
		return
	}

	f, err := audiodir.Open(sess.AudioDir, name)
	if err != nil {
		http.Error(w, "audio file not found", http.StatusNotFound)
		return
	}
	defer f.Close()

	file, ok := f.(*os.File)
	if !ok {
		w.Header().Set("Content-Type", "audio/mpeg")
		io.Copy(w, f)
		return
	}
	info, err := file.Stat()
	if err != nil {
		http.Error(w, "audio file not readable", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "audio/mpeg")
	http.ServeContent(w, r, filepath.Base(name), info.ModTime(), file)
}

// segmentExists keeps /audio from serving anything outside the session's
// timeline.
func segmentExists(sess *session.Session, name string) bool {
	for _, seg := range sess.Timeline.Segments() {
		if seg.Filename == name {
			return true
		}
	}
	return false
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}
