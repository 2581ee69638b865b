package analytics

import (
	"time"

	"github.com/claude/liftlens/internal/models"
)

// Summary holds headline totals for an analytics run.
type Summary struct {
	TotalSets         int        `json:"total_sets"`
	TotalWorkouts     int        `json:"total_workouts"`
	TotalVolume       float64    `json:"total_volume"`
	UniqueExercises   int        `json:"unique_exercises"`
	FirstWorkout      *time.Time `json:"first_workout,omitempty"`
	LastWorkout       *time.Time `json:"last_workout,omitempty"`
	AvgSessionMinutes float64    `json:"avg_session_minutes"`
}

// Analytics is everything derived from one user's workout log.
type Analytics struct {
	Profile        models.UserProfile      `json:"profile"`
	Summary        Summary                 `json:"summary"`
	Sets           []Set                   `json:"sets"`
	Sessions       []Session               `json:"sessions"`
	ExerciseStats  map[string]ExerciseStat `json:"exercise_stats"`
	DailyMetrics   []DailyMetric           `json:"daily_metrics"`
	WeeklyTrends   []WeeklyTrend           `json:"weekly_trends"`
	FitnessFatigue []FitnessFatiguePoint   `json:"fitness_fatigue"`
	MuscleGroups   []MuscleGroupStat       `json:"muscle_groups"`
	Consistency    Consistency             `json:"consistency"`
	Rejected       []RowError              `json:"rejected"`
}

// Analyze runs the whole pipeline over raw rows. It never fails: invalid rows
// are reported in Rejected and missing data yields zero values.
func Analyze(rows []models.RawRow, profile models.UserProfile) *Analytics {
	sets, rejected := Normalize(rows)
	if rejected == nil {
		rejected = []RowError{}
	}

	sessions := GroupSessions(sets)
	stats := ComputeExerciseStats(sets)
	daily := ComputeDailyMetrics(sets)

	return &Analytics{
		Profile:        profile,
		Summary:        summarize(sets, sessions, stats),
		Sets:           sets,
		Sessions:       sessions,
		ExerciseStats:  stats,
		DailyMetrics:   daily,
		WeeklyTrends:   ComputeWeeklyTrends(daily),
		FitnessFatigue: ComputeFitnessFatigue(daily),
		MuscleGroups:   ComputeMuscleGroups(sets, stats),
		Consistency:    ComputeConsistency(daily),
		Rejected:       rejected,
	}
}

func summarize(sets []Set, sessions []Session, stats map[string]ExerciseStat) Summary {
	sum := Summary{
		TotalSets:       len(sets),
		TotalWorkouts:   len(sessions),
		UniqueExercises: len(stats),
	}
	for _, s := range sets {
		sum.TotalVolume += s.Volume
	}
	if len(sets) > 0 {
		first, last := sets[0].Date, sets[len(sets)-1].Date
		sum.FirstWorkout = &first
		sum.LastWorkout = &last
	}

	var minutes float64
	var timed int
	for _, s := range sessions {
		if s.DurationMinutes > 0 {
			minutes += s.DurationMinutes
			timed++
		}
	}
	if timed > 0 {
		sum.AvgSessionMinutes = minutes / float64(timed)
	}
	return sum
}

// LatestLoad returns the load state after the last training day, or false
// when there is no training history.
func (a *Analytics) LatestLoad() (FitnessFatiguePoint, bool) {
	if len(a.FitnessFatigue) == 0 {
		return FitnessFatiguePoint{}, false
	}
	return a.FitnessFatigue[len(a.FitnessFatigue)-1], true
}
