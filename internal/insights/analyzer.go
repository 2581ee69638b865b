// Package insights runs the analytics and prediction pipeline over a user's
// stored workout log.
package insights

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/claude/liftlens/internal/analytics"
	"github.com/claude/liftlens/internal/metrics"
	"github.com/claude/liftlens/internal/models"
	"github.com/claude/liftlens/internal/prediction"
)

// RowSource supplies a user's workout log and profile.
type RowSource interface {
	ListRawRows(ctx context.Context, userID int) ([]models.RawRow, error)
	GetProfile(ctx context.Context, userID int) (models.UserProfile, error)
}

// Report is a full analytics run together with its predictions.
type Report struct {
	Analytics   *analytics.Analytics    `json:"analytics"`
	Predictions *prediction.Predictions `json:"predictions"`
}

// Run analyzes rows and predicts from the result as of now.
func Run(rows []models.RawRow, profile models.UserProfile, now time.Time) *Report {
	a := analytics.Analyze(rows, profile)
	return &Report{Analytics: a, Predictions: prediction.Predict(a, now)}
}

// Analyzer recomputes analytics from storage on every call.
type Analyzer struct {
	repo    RowSource
	now     func() time.Time
	metrics *metrics.Manager
	log     *slog.Logger
}

// NewAnalyzer creates an Analyzer reading from repo.
func NewAnalyzer(repo RowSource, metrics *metrics.Manager, log *slog.Logger) *Analyzer {
	return &Analyzer{
		repo:    repo,
		now:     time.Now,
		metrics: metrics,
		log:     log,
	}
}

// SetClock replaces the time source used for predictions.
func (a *Analyzer) SetClock(now func() time.Time) {
	a.now = now
}

// Report loads the user's log and runs the whole pipeline.
func (a *Analyzer) Report(ctx context.Context, userID int) (*Report, error) {
	rows, err := a.repo.ListRawRows(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("loading workout log: %w", err)
	}
	profile, err := a.repo.GetProfile(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("loading profile: %w", err)
	}

	start := time.Now()
	report := Run(rows, profile, a.now())
	elapsed := time.Since(start)

	if a.metrics != nil {
		a.metrics.CounterAnalyticsRuns.Inc()
		a.metrics.HistPipelineDuration.Observe(elapsed.Seconds())
	}
	a.log.Debug("analytics run",
		"user_id", userID,
		"rows", len(rows),
		"sets", report.Analytics.Summary.TotalSets,
		"rejected", len(report.Analytics.Rejected),
		"duration", elapsed.String())
	return report, nil
}

// Analytics returns the analytics for a user.
func (a *Analyzer) Analytics(ctx context.Context, userID int) (*analytics.Analytics, error) {
	r, err := a.Report(ctx, userID)
	if err != nil {
		return nil, err
	}
	return r.Analytics, nil
}

// Predictions returns the predictions for a user.
func (a *Analyzer) Predictions(ctx context.Context, userID int) (*prediction.Predictions, error) {
	r, err := a.Report(ctx, userID)
	if err != nil {
		return nil, err
	}
	return r.Predictions, nil
}

// FindExercise looks up an exercise by name, ignoring case and surrounding space.
func FindExercise(a *analytics.Analytics, name string) (analytics.ExerciseStat, bool) {
	if st, ok := a.ExerciseStats[name]; ok {
		return st, true
	}
	want := strings.TrimSpace(name)
	for key, st := range a.ExerciseStats {
		if strings.EqualFold(key, want) {
			return st, true
		}
	}
	return analytics.ExerciseStat{}, false
}
