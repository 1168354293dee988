package api

import (
	"encoding/json"
	"net/http"
	"time"

	"taskflow/internal/model"
	"taskflow/internal/stats"
)

func (s *Server) handleStatsSummary(w http.ResponseWriter, r *http.Request) {
	date, err := queryDate(r, "date")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid date: "+err.Error())
		return
	}
	summary := stats.SummarizeDay(s.tasks.All(), date)
	accuracy := summary.TimeAccuracy()
	writeJSON(w, http.StatusOK, struct {
		stats.DaySummary
		CompletionRate    int    `json:"completionRate"`
		TimeAccuracy      int    `json:"timeAccuracy"`
		AccuracyLabel     string `json:"accuracyLabel"`
		ProductivityScore int    `json:"productivityScore"`
	}{
		DaySummary:        summary,
		CompletionRate:    summary.CompletionRate(),
		TimeAccuracy:      accuracy,
		AccuracyLabel:     stats.ClassifyAccuracy(accuracy),
		ProductivityScore: summary.ProductivityScore(),
	})
}

func (s *Server) handleStatsBuckets(w http.ResponseWriter, r *http.Request) {
	date, err := queryDate(r, "date")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid date: "+err.Error())
		return
	}
	period := stats.Period(r.URL.Query().Get("period"))
	switch period {
	case "", stats.Daily:
		period = stats.Daily
	case stats.Weekly, stats.Monthly:
	default:
		writeError(w, http.StatusBadRequest, "period must be daily, weekly, or monthly")
		return
	}
	writeJSON(w, http.StatusOK, stats.PeriodBuckets(s.tasks.All(), period, date))
}

func (s *Server) handleStatsUsage(w http.ResponseWriter, r *http.Request) {
	date, err := queryDate(r, "date")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid date: "+err.Error())
		return
	}
	tasks := s.tasks.All()
	var usage stats.Usage
	switch r.URL.Query().Get("period") {
	case "", "daily":
		usage = stats.DailyUsage(tasks, date)
	case "monthly":
		usage = stats.MonthlyUsage(tasks, date.Year(), date.Month(), date.Location())
	case "yearly":
		usage = stats.YearlyUsage(tasks, date.Year(), date.Location())
	default:
		writeError(w, http.StatusBadRequest, "period must be daily, monthly, or yearly")
		return
	}
	writeJSON(w, http.StatusOK, usage)
}

func (s *Server) handleProfileGet(w http.ResponseWriter, r *http.Request) {
	profile, err := s.profiles.Get(r.Context(), s.userID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

func (s *Server) handleProfileSave(w http.ResponseWriter, r *http.Request) {
	var profile model.UserProfile
	if err := json.NewDecoder(r.Body).Decode(&profile); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	for _, clock := range []string{profile.WorkHoursStart, profile.WorkHoursEnd} {
		if _, err := time.Parse(model.ClockLayout, clock); err != nil {
			writeError(w, http.StatusBadRequest, "work hours must be HH:MM")
			return
		}
	}
	profile.UserID = s.userID
	if err := s.profiles.Save(r.Context(), profile); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}
