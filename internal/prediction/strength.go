package prediction

import (
	"math"
	"sort"

	"github.com/claude/liftlens/internal/analytics"
)

const (
	// minConfidence is the R² below which an exercise is not projected.
	minConfidence   = 0.3
	weeksPerMonth   = 4.33
	diminishingRate = 0.02
)

// Horizons are the projection timeframes in months.
var Horizons = []int{3, 6, 12}

// Timeframe is a projected E1RM at one horizon with its confidence range.
type Timeframe struct {
	Months        int        `json:"months"`
	PredictedE1RM float64    `json:"predicted_e1rm"`
	Range         [2]float64 `json:"range"`
}

// StrengthProjection projects one exercise's E1RM forward.
type StrengthProjection struct {
	Name              string      `json:"name"`
	CurrentE1RM       float64     `json:"current_e1rm"`
	Progression       float64     `json:"progression"`
	DiminishingFactor float64     `json:"diminishing_factor"`
	Timeframes        []Timeframe `json:"timeframes"`
}

// DiminishingFactor models slower gains as training age grows.
func DiminishingFactor(trainingAgeMonths float64) float64 {
	return math.Exp(-diminishingRate * trainingAgeMonths)
}

// ProjectStrength projects every exercise whose progression is predictable
// and still improving. Results are ordered by adjusted weekly gain, largest
// first.
func ProjectStrength(stats map[string]analytics.ExerciseStat, trainingAgeMonths float64) []StrengthProjection {
	factor := DiminishingFactor(trainingAgeMonths)
	out := make([]StrengthProjection, 0)

	for _, st := range stats {
		if st.Progression.Confidence < minConfidence {
			continue
		}
		gain := st.Progression.WeeklySlope * factor
		if gain <= 0 {
			continue
		}

		proj := StrengthProjection{
			Name:              st.Name,
			CurrentE1RM:       st.MaxE1RM,
			Progression:       gain,
			DiminishingFactor: factor,
			Timeframes:        make([]Timeframe, 0, len(Horizons)),
		}
		for _, months := range Horizons {
			weeks := float64(months) * weeksPerMonth
			predicted := st.MaxE1RM + gain*weeks
			spread := st.Progression.StandardError * math.Sqrt(weeks)
			proj.Timeframes = append(proj.Timeframes, Timeframe{
				Months:        months,
				PredictedE1RM: predicted,
				Range:         [2]float64{predicted - spread, predicted + spread},
			})
		}
		out = append(out, proj)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Progression != out[j].Progression {
			return out[i].Progression > out[j].Progression
		}
		return out[i].Name < out[j].Name
	})
	return out
}
