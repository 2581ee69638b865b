package alpha

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/claude/liftlens/internal/ingest"
	"github.com/claude/liftlens/internal/models"
)

type stubWriter struct {
	rows []models.WorkoutSetRow
	err  error
}

func (s *stubWriter) ReplaceWorkoutSets(_ context.Context, _ int, _ []time.Time, rows []models.WorkoutSetRow) (int64, int64, error) {
	if s.err != nil {
		return 0, 0, s.err
	}
	s.rows = append(s.rows, rows...)
	return 0, int64(len(rows)), nil
}

// TestProviderIngest verifies working sets from an export are stored.
func TestProviderIngest(t *testing.T) {
	w := &stubWriter{}
	p := NewProvider(w, slog.New(slog.NewTextHandler(io.Discard, nil)))

	res, err := p.Ingest(context.Background(), strings.NewReader(sampleCSV), 1)
	if err != nil {
		t.Fatalf("Ingest: %v", err)
	}
	if res.RowsInserted == 0 || int(res.RowsInserted) != len(w.rows) {
		t.Errorf("inserted = %d, stored = %d", res.RowsInserted, len(w.rows))
	}
}

// TestProviderIngestErrors verifies only parse failures are marked as
// invalid exports.
func TestProviderIngestErrors(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	orphan := NewProvider(&stubWriter{}, log)
	_, err := orphan.Ingest(context.Background(), strings.NewReader(`"1. Squats · Barbell · 5 reps"`), 1)
	if !errors.Is(err, ingest.ErrInvalidExport) {
		t.Errorf("orphan exercise: err = %v, want ErrInvalidExport", err)
	}

	failing := NewProvider(&stubWriter{err: errors.New("connection refused")}, log)
	_, err = failing.Ingest(context.Background(), strings.NewReader(sampleCSV), 1)
	if err == nil || errors.Is(err, ingest.ErrInvalidExport) {
		t.Errorf("failing store: err = %v, want a non-export error", err)
	}
}
