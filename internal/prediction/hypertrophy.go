package prediction

import (
	"fmt"
	"math"

	"github.com/claude/liftlens/internal/analytics"
)

const (
	trendWeeks           = 4
	targetWeeklyVolume   = 30000.0
	overloadSlopeDivisor = 50.0

	volumeThreshold   = 50
	overloadThreshold = 50
	balanceThreshold  = 60
)

// HypertrophyScores are the three 0-100 components of the composite.
type HypertrophyScores struct {
	Volume      float64 `json:"volume"`
	Progression float64 `json:"progression"`
	Balance     float64 `json:"balance"`
}

// HypertrophyDetails are the inputs the scores were computed from.
type HypertrophyDetails struct {
	WeeksConsidered  int     `json:"weeks_considered"`
	AvgWeeklyVolume  float64 `json:"avg_weekly_volume"`
	VolumeTrendSlope float64 `json:"volume_trend_slope"`
	WeakestGroup     string  `json:"weakest_group,omitempty"`
	StrongestGroup   string  `json:"strongest_group,omitempty"`
}

// HypertrophyPotential is a composite score of recent training quality.
type HypertrophyPotential struct {
	OverallScore    float64            `json:"overall_score"`
	Scores          HypertrophyScores  `json:"scores"`
	Recommendations []string           `json:"recommendations"`
	Details         HypertrophyDetails `json:"details"`
}

// AssessHypertrophy scores the last four weeks of volume, its trend, and the
// balance of volume across muscle groups. No weekly data yields a zero result.
func AssessHypertrophy(weekly []analytics.WeeklyTrend, groups []analytics.MuscleGroupStat) HypertrophyPotential {
	hp := HypertrophyPotential{Recommendations: []string{}}
	recent := lastWeeks(weekly, trendWeeks)
	if len(recent) == 0 {
		return hp
	}

	volumes := make([]float64, len(recent))
	var total float64
	for i, w := range recent {
		volumes[i] = w.Volume
		total += w.Volume
	}
	avgVolume := total / float64(len(recent))
	slope := analytics.LinearTrend(volumes)

	hp.Details = HypertrophyDetails{
		WeeksConsidered:  len(recent),
		AvgWeeklyVolume:  avgVolume,
		VolumeTrendSlope: slope,
	}
	hp.Scores = HypertrophyScores{
		Volume:      math.Min(100, avgVolume/targetWeeklyVolume*100),
		Progression: clamp(50+slope/overloadSlopeDivisor, 0, 100),
	}

	var weakest, strongest *analytics.MuscleGroupStat
	for i := range groups {
		g := &groups[i]
		if weakest == nil || g.TotalVolume < weakest.TotalVolume {
			weakest = g
		}
		if strongest == nil || g.TotalVolume > strongest.TotalVolume {
			strongest = g
		}
	}
	hp.Scores.Balance = balanceScore(groups)
	if weakest != nil {
		hp.Details.WeakestGroup = weakest.Name
		hp.Details.StrongestGroup = strongest.Name
	}

	hp.OverallScore = (hp.Scores.Volume + hp.Scores.Progression + hp.Scores.Balance) / 3

	if hp.Scores.Volume < volumeThreshold {
		hp.Recommendations = append(hp.Recommendations, fmt.Sprintf(
			"Increase weekly training volume: averaging %.0f kg over the last %d weeks against a target of %.0f kg.",
			avgVolume, len(recent), targetWeeklyVolume))
	}
	if hp.Scores.Progression < overloadThreshold {
		hp.Recommendations = append(hp.Recommendations,
			"Weekly volume is trending down. Add sets, reps or load to keep applying progressive overload.")
	}
	if hp.Scores.Balance < balanceThreshold && weakest != nil {
		hp.Recommendations = append(hp.Recommendations, fmt.Sprintf(
			"Training volume is unevenly distributed. Give %s more work.", weakest.Name))
	}
	return hp
}

// balanceScore is 100 minus the coefficient of variation of group volumes,
// as a percentage, clamped to 0-100.
func balanceScore(groups []analytics.MuscleGroupStat) float64 {
	if len(groups) == 0 {
		return 0
	}
	var sum float64
	for _, g := range groups {
		sum += g.TotalVolume
	}
	mean := sum / float64(len(groups))
	if mean <= 0 {
		return 0
	}
	var ss float64
	for _, g := range groups {
		d := g.TotalVolume - mean
		ss += d * d
	}
	std := math.Sqrt(ss / float64(len(groups)))
	return clamp((1-std/mean)*100, 0, 100)
}
