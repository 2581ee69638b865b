package analytics

import "math"

// Consistency scores how regularly training days occur.
type Consistency struct {
	Score         float64 `json:"score"`
	AvgGap        float64 `json:"avg_gap"`
	LongestStreak int     `json:"longest_streak"`
	// CurrentStreak is the run of consecutive days ending at the last workout.
	CurrentStreak int `json:"current_streak"`
	WorkoutDays   int `json:"workout_days"`
}

// ComputeConsistency scores the gaps between workout days. Daily metrics
// already hold one entry per day in ascending order.
func ComputeConsistency(daily []DailyMetric) Consistency {
	n := len(daily)
	if n < 2 {
		return Consistency{Score: 100, LongestStreak: n, CurrentStreak: n, WorkoutDays: n}
	}

	var gapSum int
	streak, longest := 1, 1
	for i := 1; i < n; i++ {
		gap := daysBetween(daily[i-1].Date, daily[i].Date)
		gapSum += gap
		if gap == 1 {
			streak++
		} else {
			streak = 1
		}
		if streak > longest {
			longest = streak
		}
	}

	avgGap := float64(gapSum) / float64(n-1)
	return Consistency{
		Score:         math.Max(0, 100-(avgGap-1)*15),
		AvgGap:        avgGap,
		LongestStreak: longest,
		CurrentStreak: streak,
		WorkoutDays:   n,
	}
}
