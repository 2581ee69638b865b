package analytics

// MuscleGroupStat is the training done for one muscle group.
type MuscleGroupStat struct {
	Name        string   `json:"name"`
	TotalVolume float64  `json:"total_volume"`
	SetCount    int      `json:"set_count"`
	Exercises   []string `json:"exercises"`
	// AvgProgression is the mean weekly E1RM slope over exercises that are
	// improving. Flat or regressing exercises are excluded.
	AvgProgression float64 `json:"avg_progression"`
}

// ComputeMuscleGroups cross-tabulates sets by muscle group. Only groups with
// at least one set are returned, in MuscleGroups order.
func ComputeMuscleGroups(sets []Set, stats map[string]ExerciseStat) []MuscleGroupStat {
	byGroup := make(map[string]*MuscleGroupStat)
	seen := make(map[string]bool)

	for _, s := range sets {
		g, ok := byGroup[s.MuscleGroup]
		if !ok {
			g = &MuscleGroupStat{Name: s.MuscleGroup}
			byGroup[s.MuscleGroup] = g
		}
		g.TotalVolume += s.Volume
		g.SetCount++
		if !seen[s.ExerciseName] {
			seen[s.ExerciseName] = true
			g.Exercises = append(g.Exercises, s.ExerciseName)
		}
	}

	out := make([]MuscleGroupStat, 0, len(byGroup))
	for _, name := range MuscleGroups {
		g, ok := byGroup[name]
		if !ok {
			continue
		}
		var sum float64
		var n int
		for _, ex := range g.Exercises {
			if slope := stats[ex].Progression.WeeklySlope; slope > 0 {
				sum += slope
				n++
			}
		}
		if n > 0 {
			g.AvgProgression = sum / float64(n)
		}
		out = append(out, *g)
	}
	return out
}
