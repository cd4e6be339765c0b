// Package api serves archived run snapshots over HTTP. All endpoints are
// GET and read-only; the engine itself never runs behind this server, so
// the single-threaded simulation contract is untouched.
package api

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/talgya/chronica/internal/persistence"
)

// Server exposes the run archive.
type Server struct {
	DB   *persistence.DB
	Port int
}

// ListenAndServe blocks, serving the archive until the process exits.
func (s *Server) ListenAndServe() error {
	snapshotLimiter := NewRateLimiter(60, time.Minute)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/status", s.handleStatus)
	mux.HandleFunc("GET /api/v1/snapshot", RateLimitMiddleware(snapshotLimiter, s.handleSnapshot))
	mux.HandleFunc("GET /api/v1/events", s.handleEvents)

	addr := fmt.Sprintf(":%d", s.Port)
	slog.Info("HTTP API starting", "addr", addr)
	return http.ListenAndServe(addr, mux)
}

// handleStatus returns the latest run's metadata.
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	runID, err := s.DB.LatestRunID()
	if err != nil {
		http.Error(w, "no runs archived", http.StatusNotFound)
		return
	}
	snap, err := s.DB.LoadSnapshot(runID)
	if err != nil {
		slog.Error("load snapshot failed", "run", runID, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, map[string]any{
		"run_id": runID,
		"meta":   snap.Meta,
	})
}

// handleSnapshot returns the latest run's full exported snapshot.
func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	runID, err := s.DB.LatestRunID()
	if err != nil {
		http.Error(w, "no runs archived", http.StatusNotFound)
		return
	}
	snap, err := s.DB.LoadSnapshot(runID)
	if err != nil {
		slog.Error("load snapshot failed", "run", runID, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, snap)
}

// handleEvents returns the latest run's history events. ?limit= bounds the
// result (default 50).
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	runID, err := s.DB.LatestRunID()
	if err != nil {
		http.Error(w, "no runs archived", http.StatusNotFound)
		return
	}

	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			limit = n
		}
	}

	events, err := s.DB.RunEvents(runID, limit)
	if err != nil {
		slog.Error("load events failed", "run", runID, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, map[string]any{
		"run_id": runID,
		"events": events,
	})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encode response failed", "error", err)
	}
}
