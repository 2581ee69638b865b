package analytics

import "time"

// minProgressionPoints is the fewest non-zero E1RM sets a regression is fitted on.
const minProgressionPoints = 3

// Progression is the linear E1RM trend of one exercise.
type Progression struct {
	DailySlope    float64 `json:"daily_slope"`
	WeeklySlope   float64 `json:"weekly_slope"`
	Confidence    float64 `json:"confidence"`
	StandardError float64 `json:"standard_error"`
}

// ExerciseStat aggregates every set of one exercise.
type ExerciseStat struct {
	Name           string      `json:"name"`
	SetCount       int         `json:"set_count"`
	TotalVolume    float64     `json:"total_volume"`
	MaxWeight      float64     `json:"max_weight"`
	MaxE1RM        float64     `json:"max_e1rm"`
	Progression    Progression `json:"progression"`
	FirstPerformed time.Time   `json:"first_performed"`
	LastPerformed  time.Time   `json:"last_performed"`
	MuscleGroup    string      `json:"muscle_group"`
}

// ComputeExerciseStats groups sets by exact exercise name and derives
// per-exercise aggregates and progression.
func ComputeExerciseStats(sets []Set) map[string]ExerciseStat {
	grouped := make(map[string][]Set)
	for _, s := range sets {
		grouped[s.ExerciseName] = append(grouped[s.ExerciseName], s)
	}

	stats := make(map[string]ExerciseStat, len(grouped))
	for name, group := range grouped {
		stats[name] = exerciseStat(name, group)
	}
	return stats
}

func exerciseStat(name string, sets []Set) ExerciseStat {
	st := ExerciseStat{
		Name:           name,
		SetCount:       len(sets),
		FirstPerformed: sets[0].Date,
		LastPerformed:  sets[0].Date,
		MuscleGroup:    sets[0].MuscleGroup,
	}
	for _, s := range sets {
		st.TotalVolume += s.Volume
		if s.Weight > st.MaxWeight {
			st.MaxWeight = s.Weight
		}
		if s.E1RM > st.MaxE1RM {
			st.MaxE1RM = s.E1RM
		}
		if s.Date.Before(st.FirstPerformed) {
			st.FirstPerformed = s.Date
		}
		if s.Date.After(st.LastPerformed) {
			st.LastPerformed = s.Date
		}
	}
	st.Progression = computeProgression(sets, st.FirstPerformed)
	return st
}

// computeProgression regresses E1RM against days since the exercise was
// first performed. Sets without an E1RM are left out.
func computeProgression(sets []Set, first time.Time) Progression {
	xs := make([]float64, 0, len(sets))
	ys := make([]float64, 0, len(sets))
	for _, s := range sets {
		if s.E1RM == 0 {
			continue
		}
		xs = append(xs, fractionalDays(first, s.Date))
		ys = append(ys, s.E1RM)
	}
	if len(xs) < minProgressionPoints {
		return Progression{}
	}

	fit, ok := LinearFit(xs, ys)
	if !ok {
		return Progression{}
	}
	return Progression{
		DailySlope:    fit.Slope,
		WeeklySlope:   fit.Slope * 7,
		Confidence:    fit.R2,
		StandardError: fit.StdErr,
	}
}
