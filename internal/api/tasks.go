package api

import (
	"encoding/json"
	"net/http"
	"time"

	"taskflow/internal/model"
	"taskflow/internal/schedule"
	"taskflow/internal/stats"
	"taskflow/internal/store"
	"taskflow/internal/timer"
)

func (s *Server) handleTaskList(w http.ResponseWriter, r *http.Request) {
	var tasks []model.Task
	switch r.URL.Query().Get("filter") {
	case "unscheduled":
		tasks = s.tasks.Unscheduled()
	case "scheduled":
		tasks = s.tasks.Scheduled()
	case "completed":
		tasks = s.tasks.Completed()
	default:
		tasks = s.tasks.All()
	}
	if date := r.URL.Query().Get("date"); date != "" {
		tasks = filterTasks(tasks, func(t model.Task) bool { return t.EffectiveDate() == date })
	}
	if category := r.URL.Query().Get("category"); category != "" {
		tasks = filterTasks(tasks, func(t model.Task) bool { return t.Category == category })
	}
	if tasks == nil {
		tasks = []model.Task{}
	}
	writeJSON(w, http.StatusOK, tasks)
}

func (s *Server) handleTaskCreate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title            string `json:"title"`
		EstimatedMinutes int    `json:"estimatedMinutes"`
		Category         string `json:"category"`
		Description      string `json:"description"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	task, err := s.tasks.Add(r.Context(), req.Title, req.EstimatedMinutes, req.Category, req.Description)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, task)
}

// handleTaskGet returns the task plus its live tracker view: elapsed
// minutes at this instant (including a running timer) and progress against
// the estimate, so a polling client needs no arithmetic of its own.
func (s *Server) handleTaskGet(w http.ResponseWriter, r *http.Request) {
	task, err := s.tasks.Get(r.PathValue("id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	elapsed := timer.Elapsed(task, time.Now())
	writeJSON(w, http.StatusOK, struct {
		model.Task
		ElapsedMinutes int `json:"elapsedMinutes"`
		TimeProgress   int `json:"timeProgress"`
	}{task, elapsed, stats.TimeProgress(elapsed, task.EstimatedMinutes)})
}

func (s *Server) handleTaskUpdate(w http.ResponseWriter, r *http.Request) {
	var patch store.Patch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	task, err := s.tasks.Update(r.Context(), r.PathValue("id"), patch)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

func (s *Server) handleTaskDelete(w http.ResponseWriter, r *http.Request) {
	if err := s.tasks.Remove(r.Context(), r.PathValue("id")); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleTaskComplete(w http.ResponseWriter, r *http.Request) {
	task, err := s.tasks.Complete(r.Context(), r.PathValue("id"), time.Now())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

func (s *Server) handleTimerStart(w http.ResponseWriter, r *http.Request) {
	task, err := s.tasks.StartTimer(r.Context(), r.PathValue("id"), time.Now())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

func (s *Server) handleTimerStop(w http.ResponseWriter, r *http.Request) {
	task, err := s.tasks.StopTimer(r.Context(), r.PathValue("id"), time.Now())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

// handleTaskSchedule accepts three placement shapes: an explicit window
// {start, end}, a bare {start} whose end derives from the estimate, or a
// grid drop {date, hour}.
func (s *Server) handleTaskSchedule(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Start *time.Time `json:"start"`
		End   *time.Time `json:"end"`
		Date  string     `json:"date"`
		Hour  *int       `json:"hour"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	id := r.PathValue("id")

	var (
		task model.Task
		err  error
	)
	switch {
	case req.Hour != nil:
		day := time.Now()
		if req.Date != "" {
			day, err = time.ParseInLocation(model.DateLayout, req.Date, time.Local)
			if err != nil {
				writeError(w, http.StatusBadRequest, "invalid date: "+err.Error())
				return
			}
		}
		task, err = s.sched.ScheduleAtHour(r.Context(), id, day, *req.Hour)
	case req.Start != nil && req.End != nil:
		task, err = s.sched.Schedule(r.Context(), id, *req.Start, *req.End)
	case req.Start != nil:
		task, err = s.sched.ScheduleByDuration(r.Context(), id, *req.Start)
	default:
		writeError(w, http.StatusBadRequest, "start, start+end, or hour is required")
		return
	}
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

func (s *Server) handleTaskUnschedule(w http.ResponseWriter, r *http.Request) {
	task, err := s.sched.Unschedule(r.Context(), r.PathValue("id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

func (s *Server) handleTaskUpcoming(w http.ResponseWriter, r *http.Request) {
	after, err := queryDate(r, "after")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid after: "+err.Error())
		return
	}
	limit := queryInt(r, "limit", 20)
	tasks := s.tasks.Upcoming(after.Format(model.DateLayout), limit)
	if tasks == nil {
		tasks = []model.Task{}
	}
	writeJSON(w, http.StatusOK, tasks)
}

// handleOccupancy returns the day's hour grid. With workHours=true the
// grid is cut down to the profile's work window.
func (s *Server) handleOccupancy(w http.ResponseWriter, r *http.Request) {
	day, err := queryDate(r, "date")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid date: "+err.Error())
		return
	}
	occupancy := s.sched.OccupancyByHour(day)
	if r.URL.Query().Get("workHours") == "true" {
		profile, err := s.profiles.Get(r.Context(), s.userID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "load profile: "+err.Error())
			return
		}
		occupancy, err = schedule.RestrictToWorkHours(occupancy, profile.WorkHoursStart, profile.WorkHoursEnd)
		if err != nil {
			writeDomainError(w, err)
			return
		}
	}
	writeJSON(w, http.StatusOK, occupancy)
}

func filterTasks(tasks []model.Task, keep func(model.Task) bool) []model.Task {
	var kept []model.Task
	for _, t := range tasks {
		if keep(t) {
			kept = append(kept, t)
		}
	}
	return kept
}
