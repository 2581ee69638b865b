// Package analytics turns raw workout-log rows into training analytics:
// normalized sets, sessions, per-exercise progression, daily and weekly load,
// the fitness-fatigue model, muscle-group balance and consistency.
//
// Every function in this package is pure. Callers pass the current time
// explicitly wherever a result depends on it.
package analytics

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/claude/liftlens/internal/models"
)

// RestTimerExercise is the exercise name trackers use for rest-timer rows.
const RestTimerExercise = "Rest Timer"

// MaxWeightKg is the heaviest load a set may record.
const MaxWeightKg = 2000

// Reasons a raw row is rejected by Normalize.
var (
	ErrMissingDate     = errors.New("missing date")
	ErrInvalidDate     = errors.New("invalid date")
	ErrMissingExercise = errors.New("missing exercise name")
	ErrRestTimer       = errors.New("rest timer row")
	ErrInvalidReps     = errors.New("reps must be positive")
	ErrInvalidWeight   = errors.New("weight must be a number between 0 and 2000 kg")
)

// RowError reports a raw row that Normalize dropped.
type RowError struct {
	Index  int    `json:"index"`
	Reason string `json:"reason"`
	Err    error  `json:"-"`
}

func (e RowError) Error() string {
	return fmt.Sprintf("row %d: %s", e.Index, e.Reason)
}

func (e RowError) Unwrap() error {
	return e.Err
}

// Set is a single validated set with its derived fields.
type Set struct {
	Date            time.Time `json:"date"`
	ExerciseName    string    `json:"exercise_name"`
	WorkoutName     string    `json:"workout_name"`
	Weight          float64   `json:"weight"`
	Reps            int       `json:"reps"`
	Volume          float64   `json:"volume"`
	E1RM            float64   `json:"e1rm"`
	MuscleGroup     string    `json:"muscle_group"`
	WorkoutDuration float64   `json:"workout_duration_min"`
	// SourceRow is the index of the originating row in the Normalize input.
	SourceRow int `json:"source_row"`
}

var dateLayouts = []string{
	models.RawRowDateLayout,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
}

// parseDate reads a workout timestamp as UTC.
func parseDate(s string) (time.Time, error) {
	s = strings.TrimSuffix(strings.TrimSpace(s), "Z")
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
}

// Normalize validates raw rows and converts the valid ones into sets sorted
// ascending by date. Rows with equal timestamps keep their input order.
// Invalid rows are returned as RowErrors instead of failing the batch.
func Normalize(rows []models.RawRow) ([]Set, []RowError) {
	sets := make([]Set, 0, len(rows))
	var rejected []RowError

	for i, row := range rows {
		set, err := normalizeRow(row)
		if err != nil {
			rejected = append(rejected, RowError{Index: i, Reason: err.Error(), Err: err})
			continue
		}
		set.SourceRow = i
		sets = append(sets, set)
	}

	sort.SliceStable(sets, func(a, b int) bool {
		return sets[a].Date.Before(sets[b].Date)
	})
	return sets, rejected
}

func normalizeRow(row models.RawRow) (Set, error) {
	name := strings.TrimSpace(row.ExerciseName)
	switch {
	case strings.TrimSpace(row.Date) == "":
		return Set{}, ErrMissingDate
	case name == "":
		return Set{}, ErrMissingExercise
	case name == RestTimerExercise:
		return Set{}, ErrRestTimer
	case row.Reps <= 0:
		return Set{}, ErrInvalidReps
	case math.IsNaN(row.Weight) || row.Weight < 0 || row.Weight > MaxWeightKg:
		return Set{}, ErrInvalidWeight
	}

	date, err := parseDate(row.Date)
	if err != nil {
		return Set{}, err
	}

	return Set{
		Date:            date,
		ExerciseName:    name,
		WorkoutName:     strings.TrimSpace(row.WorkoutName),
		Weight:          row.Weight,
		Reps:            row.Reps,
		Volume:          row.Weight * float64(row.Reps),
		E1RM:            EstimateOneRepMax(row.Weight, row.Reps),
		MuscleGroup:     ClassifyMuscleGroup(name),
		WorkoutDuration: ParseDurationMinutes(row.Duration),
	}, nil
}
