package models

import (
	"time"

	"github.com/google/uuid"
)

// WorkoutSetRow is a row for the workout_sets table.
type WorkoutSetRow struct {
	UserID       int       `json:"user_id"`
	ImportID     uuid.UUID `json:"import_id"`
	RowNumber    int       `json:"row_number"`
	PerformedAt  time.Time `json:"performed_at"`
	WorkoutName  string    `json:"workout_name"`
	ExerciseName string    `json:"exercise_name"`
	WeightKg     float64   `json:"weight_kg"`
	Reps         int       `json:"reps"`
	Duration     string    `json:"duration"`
}

// RawRow converts a stored set back into the shape the analytics pipeline consumes.
func (r WorkoutSetRow) RawRow() RawRow {
	return RawRow{
		Date:         FormatRawRowDate(r.PerformedAt),
		ExerciseName: r.ExerciseName,
		Weight:       r.WeightKg,
		Reps:         r.Reps,
		Duration:     r.Duration,
		WorkoutName:  r.WorkoutName,
	}
}

// UserProfile is the per-user data handed to the analytics pipeline alongside the sets.
type UserProfile struct {
	UserID       int      `json:"user_id"`
	Login        string   `json:"login"`
	DisplayName  string   `json:"display_name"`
	BodyweightKg *float64 `json:"bodyweight_kg,omitempty"`
}
