package ingest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/claude/liftlens/internal/models"
)

type fakeWriter struct {
	deletedDays []time.Time
	inserted    []models.WorkoutSetRow
	insertErr   error
}

// ReplaceWorkoutSets applies nothing when the insert fails, like the
// transactional store.
func (f *fakeWriter) ReplaceWorkoutSets(_ context.Context, _ int, days []time.Time, rows []models.WorkoutSetRow) (int64, int64, error) {
	if f.insertErr != nil {
		return 0, 0, f.insertErr
	}
	f.deletedDays = append(f.deletedDays, days...)
	f.inserted = append(f.inserted, rows...)
	return 2, int64(len(rows)), nil
}

var testRows = []models.RawRow{
	{Date: "2024-03-01 18:00:00", WorkoutName: "Push", ExerciseName: "Bench Press", Weight: 80, Reps: 5, Duration: "1h"},
	{Date: "2024-03-01 18:05:00", WorkoutName: "Push", ExerciseName: "Rest Timer", Duration: "1h"},
	{Date: "2024-03-03 09:00:00", WorkoutName: "Legs", ExerciseName: "Squat", Weight: 100, Reps: 5, Duration: "45m"},
	{Date: "2024-03-01 18:10:00", WorkoutName: "Push", ExerciseName: "Overhead Press", Weight: 50, Reps: 8, Duration: "1h"},
}

// TestStoreRows verifies valid rows are stored under one import ID, rejected
// rows are counted, and every affected day is cleared first.
func TestStoreRows(t *testing.T) {
	w := &fakeWriter{}
	res, err := StoreRows(context.Background(), w, 7, testRows)
	if err != nil {
		t.Fatalf("StoreRows: %v", err)
	}

	if res.RowsReceived != 4 || res.RowsInserted != 3 || res.RowsRejected != 1 || res.RowsReplaced != 2 {
		t.Errorf("result = %+v, want 4 received, 3 inserted, 1 rejected, 2 replaced", res)
	}
	if res.ImportID == uuid.Nil {
		t.Error("ImportID is nil")
	}
	if len(res.Rejected) != 1 || res.Rejected[0].Index != 1 {
		t.Errorf("Rejected = %+v, want row 1", res.Rejected)
	}

	if len(w.deletedDays) != 2 {
		t.Errorf("deleted days = %v, want 2 days", w.deletedDays)
	}
	for _, r := range w.inserted {
		if r.ImportID != res.ImportID || r.UserID != 7 {
			t.Errorf("row %+v not tagged with import %s / user 7", r, res.ImportID)
		}
	}
	if got := w.inserted[0]; got.ExerciseName != "Bench Press" || got.RowNumber != 0 || got.Duration != "1h" {
		t.Errorf("inserted[0] = %+v", got)
	}
	if got := w.inserted[2]; got.ExerciseName != "Squat" || got.RowNumber != 2 {
		t.Errorf("inserted[2] = %+v, want Squat from row 2", got)
	}
}

// TestStoreRowsNothingValid verifies a batch without valid rows never touches storage.
func TestStoreRowsNothingValid(t *testing.T) {
	w := &fakeWriter{}
	res, err := StoreRows(context.Background(), w, 1, testRows[1:2])
	if err != nil {
		t.Fatalf("StoreRows: %v", err)
	}
	if res.RowsInserted != 0 || res.Message == "" {
		t.Errorf("result = %+v, want nothing inserted with a message", res)
	}
	if w.deletedDays != nil || w.inserted != nil {
		t.Error("storage was written for an all-invalid batch")
	}
}

// TestStoreRowsInsertError verifies storage failures are wrapped and returned
// without a result.
func TestStoreRowsInsertError(t *testing.T) {
	boom := errors.New("extended protocol limited to 65535 parameters")
	w := &fakeWriter{insertErr: boom}
	res, err := StoreRows(context.Background(), w, 1, testRows)
	if !errors.Is(err, boom) {
		t.Errorf("err = %v, want wrapping %v", err, boom)
	}
	if res != nil {
		t.Errorf("result = %+v, want nil", res)
	}
	if len(w.deletedDays) != 0 {
		t.Errorf("deleted days = %v after failed insert, want none", w.deletedDays)
	}
}

// TestStoreRowsLargeBatch verifies a history larger than one statement's
// parameter budget is handed to storage in a single replacement.
func TestStoreRowsLargeBatch(t *testing.T) {
	start := time.Date(2019, 1, 1, 18, 0, 0, 0, time.UTC)
	rows := make([]models.RawRow, 8000)
	for i := range rows {
		rows[i] = models.RawRow{
			Date:         models.FormatRawRowDate(start.Add(time.Duration(i) * 6 * time.Hour)),
			WorkoutName:  "Full Body",
			ExerciseName: "Squat",
			Weight:       100,
			Reps:         5,
		}
	}

	w := &fakeWriter{}
	res, err := StoreRows(context.Background(), w, 1, rows)
	if err != nil {
		t.Fatalf("StoreRows: %v", err)
	}
	if res.RowsInserted != 8000 || len(w.inserted) != 8000 {
		t.Errorf("inserted = %d (writer %d), want 8000", res.RowsInserted, len(w.inserted))
	}
	if len(w.deletedDays) != 2000 {
		t.Errorf("days = %d, want 2000", len(w.deletedDays))
	}
}
