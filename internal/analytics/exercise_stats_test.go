package analytics

import (
	"math"
	"testing"
	"time"
)

var day0 = time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)

func singleSet(exercise string, day int, weight float64, reps int) Set {
	return Set{
		Date:         day0.AddDate(0, 0, day),
		ExerciseName: exercise,
		WorkoutName:  "Full Body",
		Weight:       weight,
		Reps:         reps,
		Volume:       weight * float64(reps),
		E1RM:         EstimateOneRepMax(weight, reps),
		MuscleGroup:  ClassifyMuscleGroup(exercise),
	}
}

// TestProgressionIncreasing verifies a strictly increasing E1RM series at fixed
// intervals gives a positive slope and R² of 1.
func TestProgressionIncreasing(t *testing.T) {
	var sets []Set
	for i := 0; i < 6; i++ {
		sets = append(sets, singleSet("Squat", i*2, 100+float64(i)*5, 1))
	}

	st := ComputeExerciseStats(sets)["Squat"]
	p := st.Progression
	if p.DailySlope <= 0 {
		t.Fatalf("DailySlope = %v, want > 0", p.DailySlope)
	}
	if math.Abs(p.DailySlope-2.5) > 1e-9 {
		t.Errorf("DailySlope = %v, want 2.5", p.DailySlope)
	}
	if math.Abs(p.WeeklySlope-p.DailySlope*7) > 1e-9 {
		t.Errorf("WeeklySlope = %v, want %v", p.WeeklySlope, p.DailySlope*7)
	}
	if math.Abs(p.Confidence-1) > 1e-9 {
		t.Errorf("Confidence = %v, want 1", p.Confidence)
	}
	if p.StandardError > 1e-6 {
		t.Errorf("StandardError = %v, want ~0", p.StandardError)
	}
}

// TestProgressionNeedsThreePoints verifies regression is skipped below three
// non-zero E1RM sets and that zero-E1RM sets do not count.
func TestProgressionNeedsThreePoints(t *testing.T) {
	sets := []Set{
		singleSet("Pull Up", 0, 0, 10),
		singleSet("Pull Up", 1, 10, 8),
		singleSet("Pull Up", 2, 0, 10),
		singleSet("Pull Up", 3, 15, 8),
	}
	st := ComputeExerciseStats(sets)["Pull Up"]
	if st.Progression != (Progression{}) {
		t.Errorf("Progression = %+v, want zero", st.Progression)
	}
	if st.SetCount != 4 {
		t.Errorf("SetCount = %d, want 4", st.SetCount)
	}

	sets = append(sets, singleSet("Pull Up", 5, 20, 8))
	st = ComputeExerciseStats(sets)["Pull Up"]
	if st.Progression.DailySlope <= 0 {
		t.Errorf("DailySlope with 3 points = %v, want > 0", st.Progression.DailySlope)
	}
}

// TestProgressionSameInstant verifies sets logged at one timestamp produce a
// zero progression instead of dividing by zero.
func TestProgressionSameInstant(t *testing.T) {
	sets := []Set{
		singleSet("Bench Press", 0, 80, 5),
		singleSet("Bench Press", 0, 85, 5),
		singleSet("Bench Press", 0, 90, 5),
	}
	st := ComputeExerciseStats(sets)["Bench Press"]
	if st.Progression != (Progression{}) {
		t.Errorf("Progression = %+v, want zero", st.Progression)
	}
}

// TestExerciseStatAggregates verifies maxima, totals and first/last dates.
func TestExerciseStatAggregates(t *testing.T) {
	sets := []Set{
		singleSet("Deadlift", 0, 140, 5),
		singleSet("Deadlift", 3, 160, 1),
		singleSet("Deadlift", 7, 150, 3),
	}
	st := ComputeExerciseStats(sets)["Deadlift"]

	if st.MaxWeight != 160 {
		t.Errorf("MaxWeight = %v, want 160", st.MaxWeight)
	}
	if st.MaxE1RM != 160 {
		t.Errorf("MaxE1RM = %v, want 160", st.MaxE1RM)
	}
	if st.TotalVolume != 700+160+450 {
		t.Errorf("TotalVolume = %v, want 1310", st.TotalVolume)
	}
	if !st.FirstPerformed.Equal(day0) {
		t.Errorf("FirstPerformed = %v, want %v", st.FirstPerformed, day0)
	}
	if want := day0.AddDate(0, 0, 7); !st.LastPerformed.Equal(want) {
		t.Errorf("LastPerformed = %v, want %v", st.LastPerformed, want)
	}
	if st.MuscleGroup != MuscleCompound {
		t.Errorf("MuscleGroup = %q, want %q", st.MuscleGroup, MuscleCompound)
	}
}

// TestLinearFitDegenerate verifies LinearFit refuses too few points and
// constant x, and reports R² 0 for constant y.
func TestLinearFitDegenerate(t *testing.T) {
	if _, ok := LinearFit([]float64{1}, []float64{1}); ok {
		t.Error("LinearFit with one point ok = true, want false")
	}
	if _, ok := LinearFit([]float64{2, 2, 2}, []float64{1, 2, 3}); ok {
		t.Error("LinearFit with constant x ok = true, want false")
	}
	f, ok := LinearFit([]float64{0, 1, 2}, []float64{5, 5, 5})
	if !ok {
		t.Fatal("LinearFit with constant y ok = false, want true")
	}
	if f.Slope != 0 || f.R2 != 0 || f.Intercept != 5 {
		t.Errorf("LinearFit constant y = %+v, want slope 0, R2 0, intercept 5", f)
	}
}
