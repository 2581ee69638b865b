// Package prediction projects future training outcomes from analytics:
// per-exercise strength, a hypertrophy-potential score and a 90-day
// fitness/fatigue forecast.
package prediction

import (
	"time"

	"github.com/claude/liftlens/internal/analytics"
)

// Predictions bundles every projection made from one analytics run.
type Predictions struct {
	GeneratedAt         time.Time                `json:"generated_at"`
	TrainingAgeMonths   float64                  `json:"training_age_months"`
	StrengthProjections []StrengthProjection     `json:"strength_projections"`
	Hypertrophy         HypertrophyPotential     `json:"hypertrophy"`
	ReadinessForecast   []ReadinessForecastPoint `json:"readiness_forecast"`
}

// Predict derives predictions from analytics as of now. Empty analytics
// produce empty projections.
func Predict(a *analytics.Analytics, now time.Time) *Predictions {
	p := &Predictions{
		GeneratedAt:         now.UTC(),
		StrengthProjections: []StrengthProjection{},
		ReadinessForecast:   []ReadinessForecastPoint{},
	}
	if a == nil {
		return p
	}

	if a.Summary.FirstWorkout != nil {
		p.TrainingAgeMonths = TrainingAgeMonths(*a.Summary.FirstWorkout, now)
	}
	p.StrengthProjections = ProjectStrength(a.ExerciseStats, p.TrainingAgeMonths)
	p.Hypertrophy = AssessHypertrophy(a.WeeklyTrends, a.MuscleGroups)
	if forecast := ForecastReadiness(a.WeeklyTrends, a.FitnessFatigue, now); forecast != nil {
		p.ReadinessForecast = forecast
	}
	return p
}

// TrainingAgeMonths is the time from first to now in 30-day months, never negative.
func TrainingAgeMonths(first, now time.Time) float64 {
	if now.Before(first) {
		return 0
	}
	return now.Sub(first).Hours() / 24 / 30
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// lastWeeks returns at most the final n weekly trends.
func lastWeeks(weekly []analytics.WeeklyTrend, n int) []analytics.WeeklyTrend {
	if len(weekly) > n {
		return weekly[len(weekly)-n:]
	}
	return weekly
}
