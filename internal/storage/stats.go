package storage

import (
	"context"
	"fmt"
	"time"
)

// DataStats holds aggregate statistics about a user's stored sets.
type DataStats struct {
	TotalSets      int64           `json:"total_sets"`
	TotalSessions  int64           `json:"total_sessions"`
	TotalExercises int64           `json:"total_exercises"`
	EarliestData   *time.Time      `json:"earliest_data"`
	LatestData     *time.Time      `json:"latest_data"`
	TopExercises   []ExerciseCount `json:"top_exercises"`
	Imports        int64           `json:"imports"`
}

// ExerciseCount is how often an exercise was logged.
type ExerciseCount struct {
	Name     string `json:"name"`
	Sets     int64  `json:"sets"`
	Sessions int64  `json:"sessions"`
}

// GetDataStats returns aggregate statistics for a user's stored data.
func (db *DB) GetDataStats(ctx context.Context, userID int) (*DataStats, error) {
	stats := &DataStats{}

	err := db.Pool.QueryRow(ctx,
		`SELECT COUNT(*),
		        COUNT(DISTINCT (workout_name, (performed_at AT TIME ZONE 'UTC')::date)),
		        COUNT(DISTINCT exercise_name),
		        MIN(performed_at), MAX(performed_at)
		 FROM workout_sets WHERE user_id = $1`, userID,
	).Scan(&stats.TotalSets, &stats.TotalSessions, &stats.TotalExercises,
		&stats.EarliestData, &stats.LatestData)
	if err != nil {
		return nil, fmt.Errorf("counting sets: %w", err)
	}

	err = db.Pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM import_logs WHERE user_id = $1`, userID,
	).Scan(&stats.Imports)
	if err != nil {
		return nil, fmt.Errorf("counting imports: %w", err)
	}

	rows, err := db.Pool.Query(ctx,
		`SELECT exercise_name, COUNT(*),
		        COUNT(DISTINCT (performed_at AT TIME ZONE 'UTC')::date)
		 FROM workout_sets
		 WHERE user_id = $1
		 GROUP BY exercise_name
		 ORDER BY COUNT(*) DESC, exercise_name
		 LIMIT 10`, userID)
	if err != nil {
		return nil, fmt.Errorf("querying exercise counts: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var c ExerciseCount
		if err := rows.Scan(&c.Name, &c.Sets, &c.Sessions); err != nil {
			return nil, fmt.Errorf("scanning exercise count: %w", err)
		}
		stats.TopExercises = append(stats.TopExercises, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return stats, nil
}
