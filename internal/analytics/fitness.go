package analytics

import (
	"math"
	"time"
)

// Exponential smoothing factors for the 42-day chronic and 7-day acute loads.
var (
	ctlAlpha = 1 - math.Exp(-1.0/42)
	atlAlpha = 1 - math.Exp(-1.0/7)
)

// LoadState carries chronic (CTL) and acute (ATL) training load.
type LoadState struct {
	CTL float64 `json:"ctl"`
	ATL float64 `json:"atl"`
}

// TSB is the training stress balance, CTL minus ATL.
func (s LoadState) TSB() float64 {
	return s.CTL - s.ATL
}

// Decay applies the given number of zero-stress days.
func (s LoadState) Decay(days int) LoadState {
	if days <= 0 {
		return s
	}
	return LoadState{
		CTL: s.CTL * math.Pow(1-ctlAlpha, float64(days)),
		ATL: s.ATL * math.Pow(1-atlAlpha, float64(days)),
	}
}

// Apply folds one day of training stress into the state.
func (s LoadState) Apply(tss float64) LoadState {
	return LoadState{
		CTL: tss*ctlAlpha + s.CTL*(1-ctlAlpha),
		ATL: tss*atlAlpha + s.ATL*(1-atlAlpha),
	}
}

// FitnessFatiguePoint is the load state after one training day.
type FitnessFatiguePoint struct {
	Date time.Time `json:"date"`
	CTL  float64   `json:"ctl"`
	ATL  float64   `json:"atl"`
	TSB  float64   `json:"tsb"`
	TSS  float64   `json:"tss"`
	Form string    `json:"form"`
}

// ComputeFitnessFatigue folds the daily series into CTL/ATL/TSB, one point
// per training day. Rest days between entries decay the state before the
// next day's stress is applied.
func ComputeFitnessFatigue(daily []DailyMetric) []FitnessFatiguePoint {
	points := make([]FitnessFatiguePoint, 0, len(daily))
	var state LoadState
	var prev time.Time

	for i, m := range daily {
		if i > 0 {
			if gap := daysBetween(prev, m.Date); gap > 1 {
				state = state.Decay(gap - 1)
			}
		}
		state = state.Apply(m.TSS)
		prev = m.Date

		points = append(points, FitnessFatiguePoint{
			Date: m.Date,
			CTL:  state.CTL,
			ATL:  state.ATL,
			TSB:  state.TSB(),
			TSS:  m.TSS,
			Form: FormDescription(state.TSB()),
		})
	}
	return points
}

// FormDescription labels a training stress balance.
func FormDescription(tsb float64) string {
	switch {
	case tsb > 25:
		return "very fresh"
	case tsb > 10:
		return "fresh"
	case tsb > 0:
		return "neutral"
	case tsb > -10:
		return "slightly fatigued"
	case tsb > -25:
		return "tired"
	default:
		return "very fatigued"
	}
}
