package insights

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/claude/liftlens/internal/metrics"
	"github.com/claude/liftlens/internal/models"
)

type fakeSource struct {
	rows    []models.RawRow
	profile models.UserProfile
	err     error
}

func (f *fakeSource) ListRawRows(context.Context, int) ([]models.RawRow, error) {
	return f.rows, f.err
}

func (f *fakeSource) GetProfile(_ context.Context, userID int) (models.UserProfile, error) {
	p := f.profile
	p.UserID = userID
	return p, nil
}

func sampleRows() []models.RawRow {
	var rows []models.RawRow
	start := time.Date(2024, 1, 1, 18, 0, 0, 0, time.UTC)
	for i := 0; i < 12; i++ {
		rows = append(rows, models.RawRow{
			Date:         models.FormatRawRowDate(start.AddDate(0, 0, i*2)),
			WorkoutName:  "Full Body",
			ExerciseName: "Squat",
			Weight:       100 + float64(i)*2.5,
			Reps:         5,
			Duration:     "1h",
		})
	}
	return rows
}

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

// TestAnalyzerReport verifies the pipeline runs over stored rows with the
// injected clock and is counted in metrics.
func TestAnalyzerReport(t *testing.T) {
	m := metrics.NewTestManager()
	a := NewAnalyzer(&fakeSource{rows: sampleRows()}, m, discard)
	clock := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	a.SetClock(func() time.Time { return clock })

	r, err := a.Report(context.Background(), 3)
	if err != nil {
		t.Fatalf("Report: %v", err)
	}
	if r.Analytics.Profile.UserID != 3 {
		t.Errorf("profile user = %d, want 3", r.Analytics.Profile.UserID)
	}
	if r.Analytics.Summary.TotalSets != 12 {
		t.Errorf("TotalSets = %d, want 12", r.Analytics.Summary.TotalSets)
	}
	if !r.Predictions.GeneratedAt.Equal(clock) {
		t.Errorf("GeneratedAt = %v, want %v", r.Predictions.GeneratedAt, clock)
	}
	if len(r.Predictions.StrengthProjections) != 1 {
		t.Errorf("projections = %d, want 1", len(r.Predictions.StrengthProjections))
	}
	if got := testutil.ToFloat64(m.CounterAnalyticsRuns); got != 1 {
		t.Errorf("analytics_runs = %v, want 1", got)
	}
}

// TestAnalyzerSourceError verifies storage errors are wrapped and returned.
func TestAnalyzerSourceError(t *testing.T) {
	boom := errors.New("db down")
	a := NewAnalyzer(&fakeSource{err: boom}, nil, discard)
	if _, err := a.Analytics(context.Background(), 1); !errors.Is(err, boom) {
		t.Errorf("err = %v, want wrapping %v", err, boom)
	}
}

// TestFindExercise verifies case-insensitive exercise lookup.
func TestFindExercise(t *testing.T) {
	r := Run(sampleRows(), models.UserProfile{}, time.Now())
	if _, ok := FindExercise(r.Analytics, "  squat "); !ok {
		t.Error("FindExercise(squat) not found")
	}
	if _, ok := FindExercise(r.Analytics, "Bench Press"); ok {
		t.Error("FindExercise(Bench Press) found, want missing")
	}
}
