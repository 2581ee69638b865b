package prediction

import (
	"math"
	"time"

	"github.com/claude/liftlens/internal/analytics"
)

// ForecastDays is the length of the readiness forecast.
const ForecastDays = 90

// ReadinessForecastPoint is the projected load state on one future day.
type ReadinessForecastPoint struct {
	Day  int       `json:"day"`
	Date time.Time `json:"date"`
	CTL  float64   `json:"ctl"`
	ATL  float64   `json:"atl"`
	TSB  float64   `json:"tsb"`
	Form string    `json:"form"`
}

// ForecastReadiness projects CTL/ATL/TSB forward assuming the cadence and
// stress of the last four weeks repeat. It starts from the last known load
// and returns nil when there is no recent training to extrapolate.
func ForecastReadiness(weekly []analytics.WeeklyTrend, fitness []analytics.FitnessFatiguePoint, now time.Time) []ReadinessForecastPoint {
	recent := lastWeeks(weekly, trendWeeks)
	if len(recent) == 0 {
		return nil
	}

	var workouts, weeklyTSS float64
	for _, w := range recent {
		workouts += float64(w.Workouts)
		weeklyTSS += w.AvgTSS * float64(w.Workouts)
	}
	avgWorkouts := workouts / float64(len(recent))
	if avgWorkouts <= 0 {
		return nil
	}
	tssPerWorkout := weeklyTSS / float64(len(recent)) / avgWorkouts
	interval := int(math.Max(1, math.Round(7/avgWorkouts)))

	var state analytics.LoadState
	if n := len(fitness); n > 0 {
		state = analytics.LoadState{CTL: fitness[n-1].CTL, ATL: fitness[n-1].ATL}
	}

	start := analytics.Day(now)
	points := make([]ReadinessForecastPoint, 0, ForecastDays)
	for day := 1; day <= ForecastDays; day++ {
		tss := 0.0
		if day%interval == 0 {
			tss = tssPerWorkout
		}
		state = state.Apply(tss)
		points = append(points, ReadinessForecastPoint{
			Day:  day,
			Date: start.AddDate(0, 0, day),
			CTL:  state.CTL,
			ATL:  state.ATL,
			TSB:  state.TSB(),
			Form: analytics.FormDescription(state.TSB()),
		})
	}
	return points
}
