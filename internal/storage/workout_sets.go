package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/claude/liftlens/internal/models"
)

var workoutSetColumns = []string{
	"user_id", "import_id", "row_number", "performed_at",
	"workout_name", "exercise_name", "weight_kg", "reps", "duration",
}

// setTx is the part of pgx.Tx a set replacement uses.
type setTx interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error)
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// ReplaceWorkoutSets deletes a user's sets on the given UTC days and copies
// rows in, in one transaction. On any error nothing is deleted.
func (db *DB) ReplaceWorkoutSets(ctx context.Context, userID int, days []time.Time, rows []models.WorkoutSetRow) (replaced, inserted int64, err error) {
	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return 0, 0, fmt.Errorf("beginning transaction: %w", err)
	}
	return replaceWorkoutSets(ctx, tx, userID, days, rows)
}

func replaceWorkoutSets(ctx context.Context, tx setTx, userID int, days []time.Time, rows []models.WorkoutSetRow) (int64, int64, error) {
	// no-op after Commit
	defer func() { _ = tx.Rollback(ctx) }()

	var replaced int64
	if len(days) > 0 {
		tag, err := tx.Exec(ctx,
			`DELETE FROM workout_sets
			 WHERE user_id = $1 AND (performed_at AT TIME ZONE 'UTC')::date = ANY($2::date[])`,
			userID, utcDates(days))
		if err != nil {
			return 0, 0, fmt.Errorf("deleting workout sets: %w", err)
		}
		replaced = tag.RowsAffected()
	}

	inserted, err := tx.CopyFrom(ctx, pgx.Identifier{"workout_sets"}, workoutSetColumns,
		pgx.CopyFromSlice(len(rows), func(i int) ([]any, error) {
			r := rows[i]
			return []any{r.UserID, r.ImportID, r.RowNumber, r.PerformedAt,
				r.WorkoutName, r.ExerciseName, r.WeightKg, r.Reps, r.Duration}, nil
		}))
	if err != nil {
		return 0, 0, fmt.Errorf("copying workout sets: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, 0, fmt.Errorf("committing workout sets: %w", err)
	}
	return replaced, inserted, nil
}

func utcDates(days []time.Time) []time.Time {
	dates := make([]time.Time, len(days))
	for i, d := range days {
		d = d.UTC()
		dates[i] = time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
	}
	return dates
}

// QueryWorkoutSets retrieves sets in a time range, newest first. An empty
// exercise filter matches every exercise; otherwise it is a case-insensitive
// substring match.
func (db *DB) QueryWorkoutSets(ctx context.Context, start, end time.Time, userID int, exercise string) ([]models.WorkoutSetRow, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT user_id, import_id, row_number, performed_at, workout_name,
		 exercise_name, weight_kg, reps, duration
		 FROM workout_sets
		 WHERE performed_at >= $1 AND performed_at < $2 AND user_id = $3
		   AND ($4 = '' OR exercise_name ILIKE '%' || $4 || '%')
		 ORDER BY performed_at DESC, row_number ASC`,
		start, end, userID, exercise)
	if err != nil {
		return nil, fmt.Errorf("querying workout sets: %w", err)
	}
	defer rows.Close()

	return scanWorkoutSets(rows)
}

// ListRawRows returns every stored set of a user in the row shape the
// analytics pipeline consumes, oldest first.
func (db *DB) ListRawRows(ctx context.Context, userID int) ([]models.RawRow, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT user_id, import_id, row_number, performed_at, workout_name,
		 exercise_name, weight_kg, reps, duration
		 FROM workout_sets
		 WHERE user_id = $1
		 ORDER BY performed_at ASC, import_id, row_number ASC`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("listing workout sets: %w", err)
	}
	defer rows.Close()

	sets, err := scanWorkoutSets(rows)
	if err != nil {
		return nil, err
	}
	raw := make([]models.RawRow, len(sets))
	for i, s := range sets {
		raw[i] = s.RawRow()
	}
	return raw, nil
}

type rowScanner interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}

func scanWorkoutSets(rows rowScanner) ([]models.WorkoutSetRow, error) {
	var result []models.WorkoutSetRow
	for rows.Next() {
		var r models.WorkoutSetRow
		if err := rows.Scan(&r.UserID, &r.ImportID, &r.RowNumber, &r.PerformedAt,
			&r.WorkoutName, &r.ExerciseName, &r.WeightKg, &r.Reps, &r.Duration); err != nil {
			return nil, fmt.Errorf("scanning workout set: %w", err)
		}
		result = append(result, r)
	}
	return result, rows.Err()
}
