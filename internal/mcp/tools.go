package mcp

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/claude/liftlens/internal/analytics"
	"github.com/claude/liftlens/internal/insights"
	"github.com/claude/liftlens/internal/prediction"
)

// defaultSetDays is how far back get_workout_sets looks without a start.
const defaultSetDays = 7

// defaultTimeRange resolves optional start/end arguments. End defaults to
// now and start to defaultSetDays before end.
func defaultTimeRange(startStr, endStr string, now time.Time) (start, end time.Time, err error) {
	end = now
	if endStr != "" {
		if end, err = parseFlexTime(endStr); err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid end %q: %w", endStr, err)
		}
	}
	start = end.AddDate(0, 0, -defaultSetDays)
	if startStr != "" {
		if start, err = parseFlexTime(startStr); err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid start %q: %w", startStr, err)
		}
	}
	if end.Before(start) {
		return time.Time{}, time.Time{}, fmt.Errorf("end %s is before start %s",
			end.Format(time.RFC3339), start.Format(time.RFC3339))
	}
	return start, end, nil
}

func parseFlexTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, s)
	if err == nil {
		return t, nil
	}
	t, err = time.Parse("2006-01-02", s)
	if err == nil {
		return t, nil
	}
	return time.Time{}, err
}

// --- Tool definitions ---

var toolGetTrainingAnalytics = mcp.NewTool("get_training_analytics",
	mcp.WithDescription("Overall training analytics: totals, consistency and streaks, muscle group volume and progression, weekly volume trend, and current fitness/fatigue/form."),
)

var toolGetExerciseStats = mcp.NewTool("get_exercise_stats",
	mcp.WithDescription("Per-exercise statistics: set count, total volume, max weight, best estimated 1RM and the weekly e1RM progression with its confidence (R²). Without an exercise, lists all exercises."),
	mcp.WithString("exercise", mcp.Description("Exact exercise name, case-insensitive (e.g. 'Bench Press (Barbell)')")),
)

var toolGetFitnessFatigue = mcp.NewTool("get_fitness_fatigue",
	mcp.WithDescription("Fitness (CTL, 42-day), fatigue (ATL, 7-day) and form (TSB = CTL - ATL) on each training day, with a plain-language form label."),
	mcp.WithNumber("limit", mcp.Description("Return only the most recent N training days. Defaults to 30."), mcp.Min(1)),
)

var toolGetStrengthProjections = mcp.NewTool("get_strength_projections",
	mcp.WithDescription("Projected estimated 1RM at 3, 6 and 12 months for exercises with a reliable upward trend, with diminishing returns applied by training age."),
	mcp.WithString("exercise", mcp.Description("Restrict to one exercise (case-insensitive)")),
)

var toolGetHypertrophyPotential = mcp.NewTool("get_hypertrophy_potential",
	mcp.WithDescription("Hypertrophy potential score (0-100) from recent weekly volume, progressive overload and muscle group balance, with recommendations."),
)

var toolGetReadinessForecast = mcp.NewTool("get_readiness_forecast",
	mcp.WithDescription("Forecast of fitness, fatigue and form for the coming days assuming the recent training frequency and load continue."),
	mcp.WithNumber("days", mcp.Description("Number of days to return, 1-90. Defaults to 14."), mcp.Min(1), mcp.Max(prediction.ForecastDays)),
)

var toolGetWorkoutSets = mcp.NewTool("get_workout_sets",
	mcp.WithDescription("Query stored strength training sets. Returns exercise, weight and reps for each set."),
	mcp.WithString("start", mcp.Description("Start date (ISO 8601 or YYYY-MM-DD). Defaults to 7 days ago.")),
	mcp.WithString("end", mcp.Description("End date (ISO 8601 or YYYY-MM-DD). Defaults to now.")),
	mcp.WithString("exercise", mcp.Description("Filter by exercise name (partial match, e.g. 'bench press')")),
)

// trainingOverview is the compact analytics view served to MCP clients.
type trainingOverview struct {
	Summary      analytics.Summary                `json:"summary"`
	Consistency  analytics.Consistency            `json:"consistency"`
	MuscleGroups []analytics.MuscleGroupStat      `json:"muscle_groups"`
	WeeklyTrends []analytics.WeeklyTrend          `json:"weekly_trends"`
	CurrentLoad  *analytics.FitnessFatiguePoint   `json:"current_load,omitempty"`
	Rejected     int                              `json:"rejected_rows"`
	Hypertrophy  *prediction.HypertrophyPotential `json:"hypertrophy,omitempty"`
}

func newOverview(a *analytics.Analytics) trainingOverview {
	o := trainingOverview{
		Summary:      a.Summary,
		Consistency:  a.Consistency,
		MuscleGroups: a.MuscleGroups,
		WeeklyTrends: a.WeeklyTrends,
		Rejected:     len(a.Rejected),
	}
	if latest, ok := a.LatestLoad(); ok {
		o.CurrentLoad = &latest
	}
	return o
}

// --- Tool handlers ---

func (h *handlers) getTrainingAnalytics(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	a, err := h.ds.GetAnalytics(ctx, UserIDFromContext(ctx))
	if err != nil {
		h.log.Error("mcp get_training_analytics", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(newOverview(a))
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getExerciseStats(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	a, err := h.ds.GetAnalytics(ctx, UserIDFromContext(ctx))
	if err != nil {
		h.log.Error("mcp get_exercise_stats", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	if name := req.GetString("exercise", ""); name != "" {
		stat, ok := insights.FindExercise(a, name)
		if !ok {
			return mcp.NewToolResultError("exercise not found: " + name), nil
		}
		result, err := mcp.NewToolResultJSON(stat)
		if err != nil {
			return mcp.NewToolResultError("serialization failed"), nil
		}
		return result, nil
	}

	stats := make([]analytics.ExerciseStat, 0, len(a.ExerciseStats))
	for _, st := range a.ExerciseStats {
		stats = append(stats, st)
	}
	sort.Slice(stats, func(i, j int) bool { return stats[i].Name < stats[j].Name })

	result, err := mcp.NewToolResultJSON(stats)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getFitnessFatigue(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	a, err := h.ds.GetAnalytics(ctx, UserIDFromContext(ctx))
	if err != nil {
		h.log.Error("mcp get_fitness_fatigue", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	points := a.FitnessFatigue
	if limit := req.GetInt("limit", 30); limit > 0 && len(points) > limit {
		points = points[len(points)-limit:]
	}

	result, err := mcp.NewToolResultJSON(map[string]any{
		"points":  points,
		"current": newOverview(a).CurrentLoad,
	})
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getStrengthProjections(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	p, err := h.ds.GetPredictions(ctx, UserIDFromContext(ctx))
	if err != nil {
		h.log.Error("mcp get_strength_projections", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	projections := p.StrengthProjections
	if name := req.GetString("exercise", ""); name != "" {
		projections = filterProjections(projections, name)
		if len(projections) == 0 {
			return mcp.NewToolResultError("no reliable projection for exercise: " + name), nil
		}
	}

	result, err := mcp.NewToolResultJSON(map[string]any{
		"training_age_months": p.TrainingAgeMonths,
		"projections":         projections,
	})
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func filterProjections(all []prediction.StrengthProjection, name string) []prediction.StrengthProjection {
	var out []prediction.StrengthProjection
	for _, sp := range all {
		if strings.EqualFold(sp.Name, strings.TrimSpace(name)) {
			out = append(out, sp)
		}
	}
	return out
}

func (h *handlers) getHypertrophyPotential(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	p, err := h.ds.GetPredictions(ctx, UserIDFromContext(ctx))
	if err != nil {
		h.log.Error("mcp get_hypertrophy_potential", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(p.Hypertrophy)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getReadinessForecast(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	days := req.GetInt("days", 14)
	if days < 1 || days > prediction.ForecastDays {
		return mcp.NewToolResultError("days must be between 1 and 90"), nil
	}

	p, err := h.ds.GetPredictions(ctx, UserIDFromContext(ctx))
	if err != nil {
		h.log.Error("mcp get_readiness_forecast", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	forecast := p.ReadinessForecast
	if len(forecast) > days {
		forecast = forecast[:days]
	}

	result, err := mcp.NewToolResultJSON(forecast)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getWorkoutSets(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	start, end, err := defaultTimeRange(req.GetString("start", ""), req.GetString("end", ""), h.now())
	if err != nil {
		return mcp.NewToolResultError("invalid date format: " + err.Error()), nil
	}

	exercise := req.GetString("exercise", "")
	uid := UserIDFromContext(ctx)

	sets, err := h.ds.QueryWorkoutSets(ctx, start, end, uid, exercise)
	if err != nil {
		h.log.Error("mcp get_workout_sets", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(sets)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}
