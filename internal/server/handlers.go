package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/claude/liftlens/internal/analytics"
	"github.com/claude/liftlens/internal/ingest"
	"github.com/claude/liftlens/internal/insights"
)

// maxUploadBytes caps the size of an uploaded export.
const maxUploadBytes = 32 << 20

func (s *Server) handleIngest(source string, provider Ingester) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid := userIDFromContext(r)
		start := time.Now()

		result, err := provider.Ingest(r.Context(), http.MaxBytesReader(w, r.Body, maxUploadBytes), uid)
		durationMs := int(time.Since(start).Milliseconds())
		s.logImport(uid, source, result, err, durationMs)
		if err != nil {
			s.log.Error("ingest error", "source", source, "error", err)
			writeJSON(w, ingestErrorStatus(err), map[string]string{"error": err.Error()})
			return
		}

		if s.metrics != nil {
			s.metrics.CounterRowsIngested.WithLabelValues(source).Add(float64(result.RowsInserted))
			s.metrics.CounterRowsRejected.WithLabelValues(source).Add(float64(result.RowsRejected))
		}
		writeJSON(w, http.StatusOK, result)
	}
}

func (s *Server) handleAnalytics(w http.ResponseWriter, r *http.Request) {
	a, err := s.reporter.Analytics(r.Context(), userIDFromContext(r))
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, a)
}

func (s *Server) handleExercise(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if unescaped, err := url.PathUnescape(name); err == nil {
		name = unescaped
	}

	a, err := s.reporter.Analytics(r.Context(), userIDFromContext(r))
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	stat, ok := insights.FindExercise(a, name)
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": fmt.Sprintf("exercise %q not found", name)})
		return
	}
	writeJSON(w, http.StatusOK, stat)
}

// fitnessResponse is the fitness-fatigue series plus the current state.
type fitnessResponse struct {
	Points  []analytics.FitnessFatiguePoint `json:"points"`
	Current *analytics.FitnessFatiguePoint  `json:"current"`
}

func (s *Server) handleFitness(w http.ResponseWriter, r *http.Request) {
	a, err := s.reporter.Analytics(r.Context(), userIDFromContext(r))
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	resp := fitnessResponse{Points: a.FitnessFatigue}
	if latest, ok := a.LatestLoad(); ok {
		resp.Current = &latest
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleWeekly(w http.ResponseWriter, r *http.Request) {
	a, err := s.reporter.Analytics(r.Context(), userIDFromContext(r))
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, a.WeeklyTrends)
}

func (s *Server) handlePredictions(w http.ResponseWriter, r *http.Request) {
	p, err := s.reporter.Predictions(r.Context(), userIDFromContext(r))
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// handleReport serves analytics and predictions from a single pipeline run.
func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	report, err := s.reporter.Report(r.Context(), userIDFromContext(r))
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleSets(w http.ResponseWriter, r *http.Request) {
	start, end, err := parseTimeRange(r, s.now())
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	exercise := r.URL.Query().Get("exercise")
	rows, err := s.db.QueryWorkoutSets(r.Context(), start, end, userIDFromContext(r), exercise)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

// ingestErrorStatus maps problems with the upload to 4xx and everything
// else to 500 so clients retry it.
func ingestErrorStatus(err error) int {
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, ingest.ErrInvalidExport):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// writeJSON encodes v before writing the header so an unencodable value
// becomes a 500 rather than a 200 with an empty body.
func writeJSON(w http.ResponseWriter, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"encoding response failed"}` + "\n"))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(append(body, '\n'))
}

// parseTimeRange reads start and end query parameters as RFC 3339 or
// YYYY-MM-DD. Without a start the range is the 30 days before now.
func parseTimeRange(r *http.Request, now time.Time) (start, end time.Time, err error) {
	startStr := r.URL.Query().Get("start")
	endStr := r.URL.Query().Get("end")

	end = now
	if endStr != "" {
		end, err = parseTime(endStr)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid end: %w", err)
		}
	}

	if startStr == "" {
		start = end.AddDate(0, 0, -30)
		return start, end, nil
	}
	start, err = parseTime(startStr)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid start: %w", err)
	}
	if end.Before(start) {
		return time.Time{}, time.Time{}, fmt.Errorf("end %s is before start %s", endStr, startStr)
	}
	return start, end, nil
}

func parseTime(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}
