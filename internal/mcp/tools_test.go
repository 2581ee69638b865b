package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/claude/liftlens/internal/analytics"
	"github.com/claude/liftlens/internal/insights"
	"github.com/claude/liftlens/internal/models"
	"github.com/claude/liftlens/internal/prediction"
	"github.com/claude/liftlens/internal/storage"
)

var testNow = time.Date(2024, 2, 1, 12, 0, 0, 0, time.UTC)

type fakeSource struct {
	report    *insights.Report
	err       error
	gotStart  time.Time
	gotEnd    time.Time
	gotFilter string
	runs      int
}

func (f *fakeSource) GetAnalytics(ctx context.Context, userID int) (*analytics.Analytics, error) {
	f.runs++
	if f.err != nil {
		return nil, f.err
	}
	return f.report.Analytics, nil
}

func (f *fakeSource) GetPredictions(ctx context.Context, userID int) (*prediction.Predictions, error) {
	f.runs++
	if f.err != nil {
		return nil, f.err
	}
	return f.report.Predictions, nil
}

func (f *fakeSource) GetReport(ctx context.Context, userID int) (*insights.Report, error) {
	f.runs++
	if f.err != nil {
		return nil, f.err
	}
	return f.report, nil
}

func (f *fakeSource) QueryWorkoutSets(ctx context.Context, start, end time.Time, userID int, exerciseFilter string) ([]models.WorkoutSetRow, error) {
	f.gotStart, f.gotEnd, f.gotFilter = start, end, exerciseFilter
	return []models.WorkoutSetRow{{ExerciseName: "Bench Press (Barbell)", WeightKg: 80, Reps: 5}}, nil
}

func (f *fakeSource) GetDataStats(ctx context.Context, userID int) (*storage.DataStats, error) {
	return &storage.DataStats{}, f.err
}

// sampleReport is nine push sessions between Jan 8 and Jan 26 2024 with
// bench and squat loads rising every session.
func sampleReport() *insights.Report {
	var rows []models.RawRow
	start := time.Date(2024, 1, 8, 18, 0, 0, 0, time.UTC)
	for i := range 9 {
		date := models.FormatRawRowDate(start.AddDate(0, 0, i*2+i/3))
		w := float64(80 + i*2)
		rows = append(rows,
			models.RawRow{Date: date, WorkoutName: "Push", ExerciseName: "Bench Press (Barbell)", Weight: w, Reps: 5, Duration: "1h"},
			models.RawRow{Date: date, WorkoutName: "Push", ExerciseName: "Squat (Barbell)", Weight: w + 20, Reps: 5, Duration: "1h"},
		)
	}
	return insights.Run(rows, models.UserProfile{UserID: 1}, testNow)
}

func newHandlers() (*handlers, *fakeSource) {
	ds := &fakeSource{report: sampleReport()}
	return &handlers{ds: ds, log: slog.Default(), now: func() time.Time { return testNow }}, ds
}

func callRequest(args map[string]any) mcp.CallToolRequest {
	var req mcp.CallToolRequest
	req.Params.Arguments = args
	return req
}

// decodeResult unmarshals a successful tool result's JSON text into v.
func decodeResult(t *testing.T, res *mcp.CallToolResult, v any) {
	t.Helper()
	if res.IsError {
		t.Fatalf("tool returned error: %+v", res.Content)
	}
	if len(res.Content) == 0 {
		t.Fatal("tool returned no content")
	}
	text, ok := mcp.AsTextContent(res.Content[0])
	if !ok {
		t.Fatalf("content = %T, want text", res.Content[0])
	}
	if err := json.Unmarshal([]byte(text.Text), v); err != nil {
		t.Fatalf("decode %q: %v", text.Text, err)
	}
}

// TestGetTrainingAnalytics verifies the overview carries totals and the
// current fitness state.
func TestGetTrainingAnalytics(t *testing.T) {
	h, _ := newHandlers()
	res, err := h.getTrainingAnalytics(context.Background(), callRequest(nil))
	if err != nil {
		t.Fatal(err)
	}

	var got trainingOverview
	decodeResult(t, res, &got)
	if got.Summary.TotalSets != 18 {
		t.Errorf("total sets = %d, want 18", got.Summary.TotalSets)
	}
	if got.Consistency.WorkoutDays != 9 {
		t.Errorf("workout days = %d, want 9", got.Consistency.WorkoutDays)
	}
	if got.CurrentLoad == nil {
		t.Error("current load = nil, want latest fitness point")
	}
}

// TestGetExerciseStats verifies a single lookup, the full listing in name
// order and the error for unknown exercises.
func TestGetExerciseStats(t *testing.T) {
	h, _ := newHandlers()
	ctx := context.Background()

	res, err := h.getExerciseStats(ctx, callRequest(map[string]any{"exercise": "squat (barbell)"}))
	if err != nil {
		t.Fatal(err)
	}
	var one analytics.ExerciseStat
	decodeResult(t, res, &one)
	if one.Name != "Squat (Barbell)" || one.MaxWeight != 116 {
		t.Errorf("stat = %s max %v, want Squat (Barbell) max 116", one.Name, one.MaxWeight)
	}

	res, err = h.getExerciseStats(ctx, callRequest(nil))
	if err != nil {
		t.Fatal(err)
	}
	var all []analytics.ExerciseStat
	decodeResult(t, res, &all)
	if len(all) != 2 || all[0].Name != "Bench Press (Barbell)" || all[1].Name != "Squat (Barbell)" {
		t.Errorf("listing = %+v, want bench then squat", all)
	}

	res, err = h.getExerciseStats(ctx, callRequest(map[string]any{"exercise": "Deadlift"}))
	if err != nil {
		t.Fatal(err)
	}
	if !res.IsError {
		t.Error("unknown exercise: IsError = false, want true")
	}
}

// TestGetFitnessFatigueLimit verifies only the most recent points are returned.
func TestGetFitnessFatigueLimit(t *testing.T) {
	h, ds := newHandlers()
	res, err := h.getFitnessFatigue(context.Background(), callRequest(map[string]any{"limit": float64(3)}))
	if err != nil {
		t.Fatal(err)
	}

	var got struct {
		Points  []analytics.FitnessFatiguePoint `json:"points"`
		Current analytics.FitnessFatiguePoint   `json:"current"`
	}
	decodeResult(t, res, &got)
	if len(got.Points) != 3 {
		t.Fatalf("points = %d, want 3", len(got.Points))
	}
	all := ds.report.Analytics.FitnessFatigue
	if !got.Points[2].Date.Equal(all[len(all)-1].Date) {
		t.Errorf("last point = %v, want %v", got.Points[2].Date, all[len(all)-1].Date)
	}
	if !got.Current.Date.Equal(all[len(all)-1].Date) {
		t.Errorf("current = %v, want %v", got.Current.Date, all[len(all)-1].Date)
	}
}

// TestGetStrengthProjections verifies both rising lifts are projected and
// the exercise filter narrows the list.
func TestGetStrengthProjections(t *testing.T) {
	h, _ := newHandlers()
	ctx := context.Background()

	res, err := h.getStrengthProjections(ctx, callRequest(nil))
	if err != nil {
		t.Fatal(err)
	}
	var got struct {
		Projections []prediction.StrengthProjection `json:"projections"`
	}
	decodeResult(t, res, &got)
	if len(got.Projections) != 2 {
		t.Fatalf("projections = %d, want 2", len(got.Projections))
	}

	res, err = h.getStrengthProjections(ctx, callRequest(map[string]any{"exercise": "bench press (barbell)"}))
	if err != nil {
		t.Fatal(err)
	}
	decodeResult(t, res, &got)
	if len(got.Projections) != 1 || got.Projections[0].Name != "Bench Press (Barbell)" {
		t.Errorf("filtered = %+v, want bench only", got.Projections)
	}
	if n := len(got.Projections[0].Timeframes); n != len(prediction.Horizons) {
		t.Errorf("timeframes = %d, want %d", n, len(prediction.Horizons))
	}
}

// TestGetHypertrophyPotential verifies the score is within 0-100.
func TestGetHypertrophyPotential(t *testing.T) {
	h, _ := newHandlers()
	res, err := h.getHypertrophyPotential(context.Background(), callRequest(nil))
	if err != nil {
		t.Fatal(err)
	}
	var got prediction.HypertrophyPotential
	decodeResult(t, res, &got)
	if got.OverallScore < 0 || got.OverallScore > 100 {
		t.Errorf("overall score = %v, want within [0, 100]", got.OverallScore)
	}
}

// TestGetReadinessForecastDays verifies the forecast is truncated to the
// requested days and out-of-range requests are rejected.
func TestGetReadinessForecastDays(t *testing.T) {
	h, _ := newHandlers()
	ctx := context.Background()

	res, err := h.getReadinessForecast(ctx, callRequest(map[string]any{"days": float64(5)}))
	if err != nil {
		t.Fatal(err)
	}
	var got []prediction.ReadinessForecastPoint
	decodeResult(t, res, &got)
	if len(got) != 5 {
		t.Fatalf("forecast = %d days, want 5", len(got))
	}
	if want := time.Date(2024, 2, 2, 0, 0, 0, 0, time.UTC); !got[0].Date.Equal(want) {
		t.Errorf("first date = %v, want %v", got[0].Date, want)
	}

	for _, days := range []float64{0, 91} {
		res, err := h.getReadinessForecast(ctx, callRequest(map[string]any{"days": days}))
		if err != nil {
			t.Fatal(err)
		}
		if !res.IsError {
			t.Errorf("days=%v: IsError = false, want true", days)
		}
	}
}

// TestGetWorkoutSetsDefaults verifies the default range ends at now and the
// exercise filter is passed through.
func TestGetWorkoutSetsDefaults(t *testing.T) {
	h, ds := newHandlers()
	res, err := h.getWorkoutSets(context.Background(), callRequest(map[string]any{"exercise": "bench"}))
	if err != nil {
		t.Fatal(err)
	}
	var got []models.WorkoutSetRow
	decodeResult(t, res, &got)
	if len(got) != 1 {
		t.Errorf("sets = %d, want 1", len(got))
	}
	if !ds.gotEnd.Equal(testNow) || !ds.gotStart.Equal(testNow.AddDate(0, 0, -7)) {
		t.Errorf("range = %v..%v, want the 7 days before %v", ds.gotStart, ds.gotEnd, testNow)
	}
	if ds.gotFilter != "bench" {
		t.Errorf("filter = %q, want bench", ds.gotFilter)
	}
}

// TestToolSourceError verifies data source failures become tool errors
// rather than protocol errors.
func TestToolSourceError(t *testing.T) {
	h := &handlers{ds: &fakeSource{err: errors.New("db down")}, log: slog.Default(), now: time.Now}
	res, err := h.getTrainingAnalytics(context.Background(), callRequest(nil))
	if err != nil {
		t.Fatalf("err = %v, want nil", err)
	}
	if !res.IsError {
		t.Error("IsError = false, want true")
	}
}

// TestRecentSessionsResource verifies only sessions from the last 14 days
// are served.
func TestRecentSessionsResource(t *testing.T) {
	h, _ := newHandlers()
	var req mcp.ReadResourceRequest
	req.Params.URI = "liftlens://recent_sessions"

	contents, err := h.recentSessions(context.Background(), req)
	if err != nil {
		t.Fatal(err)
	}
	text, ok := contents[0].(mcp.TextResourceContents)
	if !ok {
		t.Fatalf("contents = %T, want text", contents[0])
	}
	var sessions []analytics.Session
	if err := json.Unmarshal([]byte(text.Text), &sessions); err != nil {
		t.Fatal(err)
	}
	// Jan 19, 22, 24 and 26 fall within 14 days of Feb 1.
	if len(sessions) != 4 {
		t.Errorf("sessions = %d, want 4", len(sessions))
	}
}

// TestTrainingOverviewResource verifies the overview includes the
// hypertrophy assessment and runs the pipeline once.
func TestTrainingOverviewResource(t *testing.T) {
	h, ds := newHandlers()
	var req mcp.ReadResourceRequest
	req.Params.URI = "liftlens://training_overview"

	contents, err := h.trainingOverview(context.Background(), req)
	if err != nil {
		t.Fatal(err)
	}
	text := contents[0].(mcp.TextResourceContents)
	var got trainingOverview
	if err := json.Unmarshal([]byte(text.Text), &got); err != nil {
		t.Fatal(err)
	}
	if got.Hypertrophy == nil {
		t.Error("hypertrophy = nil, want assessment")
	}
	if text.URI != "liftlens://training_overview" {
		t.Errorf("uri = %q", text.URI)
	}
	if ds.runs != 1 {
		t.Errorf("pipeline runs = %d, want 1", ds.runs)
	}
}
