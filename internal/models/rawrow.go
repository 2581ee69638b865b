package models

import "time"

// RawRowDateLayout is the timestamp layout workout-log exports use for RawRow.Date.
const RawRowDateLayout = "2006-01-02 15:04:05"

// RawRow is one line of a workout-log export, already split into fields.
// JSON field names match the export's column headers.
type RawRow struct {
	Date         string  `json:"Date"`
	ExerciseName string  `json:"Exercise Name"`
	Weight       float64 `json:"Weight"`
	Reps         int     `json:"Reps"`
	Duration     string  `json:"Duration"`
	WorkoutName  string  `json:"Workout Name"`
}

// FormatRawRowDate renders t in the layout RawRow.Date expects (UTC wall clock).
func FormatRawRowDate(t time.Time) string {
	return t.UTC().Format(RawRowDateLayout)
}
