// Package api exposes the task, schedule, and stats operations over HTTP.
// It is the only mutation surface; handlers call into the core and never
// touch task fields directly.
package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"taskflow/internal/model"
	"taskflow/internal/schedule"
	"taskflow/internal/store"
)

// Server is the HTTP API server.
type Server struct {
	tasks    *store.Store
	sched    *schedule.Scheduler
	profiles store.ProfileStore
	userID   string
	mux      *http.ServeMux
}

// New creates a new Server.
func New(tasks *store.Store, sched *schedule.Scheduler, profiles store.ProfileStore, userID string) *Server {
	s := &Server{
		tasks:    tasks,
		sched:    sched,
		profiles: profiles,
		userID:   userID,
		mux:      http.NewServeMux(),
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) routes() {
	// Tasks
	s.mux.HandleFunc("GET /api/tasks", s.handleTaskList)
	s.mux.HandleFunc("POST /api/tasks", s.handleTaskCreate)
	s.mux.HandleFunc("GET /api/tasks/upcoming", s.handleTaskUpcoming)
	s.mux.HandleFunc("GET /api/tasks/{id}", s.handleTaskGet)
	s.mux.HandleFunc("PATCH /api/tasks/{id}", s.handleTaskUpdate)
	s.mux.HandleFunc("DELETE /api/tasks/{id}", s.handleTaskDelete)
	s.mux.HandleFunc("POST /api/tasks/{id}/complete", s.handleTaskComplete)
	s.mux.HandleFunc("POST /api/tasks/{id}/timer/start", s.handleTimerStart)
	s.mux.HandleFunc("POST /api/tasks/{id}/timer/stop", s.handleTimerStop)
	s.mux.HandleFunc("POST /api/tasks/{id}/schedule", s.handleTaskSchedule)
	s.mux.HandleFunc("DELETE /api/tasks/{id}/schedule", s.handleTaskUnschedule)

	// Schedule
	s.mux.HandleFunc("GET /api/schedule/occupancy", s.handleOccupancy)

	// Stats
	s.mux.HandleFunc("GET /api/stats/summary", s.handleStatsSummary)
	s.mux.HandleFunc("GET /api/stats/buckets", s.handleStatsBuckets)
	s.mux.HandleFunc("GET /api/stats/usage", s.handleStatsUsage)

	// Profile
	s.mux.HandleFunc("GET /api/profile", s.handleProfileGet)
	s.mux.HandleFunc("PUT /api/profile", s.handleProfileSave)

	// System
	s.mux.HandleFunc("GET /health", s.handleHealth)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("write json: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeDomainError maps the core error taxonomy onto HTTP statuses.
func writeDomainError(w http.ResponseWriter, err error) {
	var (
		validation *store.ValidationError
		notFound   *store.NotFoundError
		conflict   *schedule.ConflictError
	)
	switch {
	case errors.As(err, &validation):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.As(err, &notFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.As(err, &conflict):
		writeError(w, http.StatusConflict, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

// queryDate parses a YYYY-MM-DD query parameter, defaulting to today.
func queryDate(r *http.Request, name string) (time.Time, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		now := time.Now()
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()), nil
	}
	return time.ParseInLocation(model.DateLayout, raw, time.Local)
}

func queryInt(r *http.Request, name string, fallback int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return n
}
