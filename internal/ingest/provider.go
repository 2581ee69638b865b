// Package ingest stores parsed workout-log rows. Format-specific parsers
// live in subpackages and hand their rows to StoreRows.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/claude/liftlens/internal/analytics"
	"github.com/claude/liftlens/internal/models"
)

// Result holds the outcome of an ingest operation.
type Result struct {
	ImportID     uuid.UUID            `json:"import_id"`
	RowsReceived int                  `json:"rows_received"`
	RowsInserted int64                `json:"rows_inserted"`
	RowsRejected int                  `json:"rows_rejected"`
	RowsReplaced int64                `json:"rows_replaced"`
	Rejected     []analytics.RowError `json:"rejected,omitempty"`
	Message      string               `json:"message,omitempty"`
}

// ErrInvalidExport marks errors caused by the uploaded file itself, as
// opposed to storage failures.
var ErrInvalidExport = errors.New("invalid export")

// SetWriter is the storage a provider writes sets into. ReplaceWorkoutSets
// must delete the user's sets on days and insert rows atomically.
type SetWriter interface {
	ReplaceWorkoutSets(ctx context.Context, userID int, days []time.Time, rows []models.WorkoutSetRow) (replaced, inserted int64, err error)
}

// maxReportedRejections caps how many rejected rows a Result lists.
const maxReportedRejections = 50

// StoreRows validates rows and stores the valid ones under a new import ID.
// Sets already stored for any day present in the batch are replaced, so
// importing the same export twice leaves one copy.
func StoreRows(ctx context.Context, w SetWriter, userID int, rows []models.RawRow) (*Result, error) {
	sets, rejected := analytics.Normalize(rows)

	result := &Result{
		ImportID:     uuid.New(),
		RowsReceived: len(rows),
		RowsRejected: len(rejected),
	}
	if len(rejected) > maxReportedRejections {
		result.Rejected = rejected[:maxReportedRejections]
	} else {
		result.Rejected = rejected
	}
	if len(sets) == 0 {
		result.Message = "no valid rows"
		return result, nil
	}

	var days []time.Time
	seen := make(map[time.Time]bool)
	stored := make([]models.WorkoutSetRow, 0, len(sets))
	for _, s := range sets {
		d := analytics.Day(s.Date)
		if !seen[d] {
			seen[d] = true
			days = append(days, d)
		}
		src := rows[s.SourceRow]
		stored = append(stored, models.WorkoutSetRow{
			UserID:       userID,
			ImportID:     result.ImportID,
			RowNumber:    s.SourceRow,
			PerformedAt:  s.Date,
			WorkoutName:  s.WorkoutName,
			ExerciseName: s.ExerciseName,
			WeightKg:     s.Weight,
			Reps:         s.Reps,
			Duration:     src.Duration,
		})
	}

	replaced, inserted, err := w.ReplaceWorkoutSets(ctx, userID, days, stored)
	if err != nil {
		return nil, fmt.Errorf("storing sets: %w", err)
	}
	result.RowsReplaced = replaced
	result.RowsInserted = inserted
	return result, nil
}
