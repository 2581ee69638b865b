package csvlog

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/claude/liftlens/internal/ingest"
)

// Provider processes workout-log CSV exports.
type Provider struct {
	db  ingest.SetWriter
	log *slog.Logger
}

// NewProvider creates a new CSV ingest provider.
func NewProvider(db ingest.SetWriter, log *slog.Logger) *Provider {
	return &Provider{db: db, log: log}
}

// Ingest parses a CSV export and stores its valid rows.
func (p *Provider) Ingest(ctx context.Context, r io.Reader, userID int) (*ingest.Result, error) {
	rows, err := Parse(r)
	if err != nil {
		return nil, fmt.Errorf("%w: parsing CSV: %w", ingest.ErrInvalidExport, err)
	}

	result, err := ingest.StoreRows(ctx, p.db, userID, rows)
	if err != nil {
		return nil, err
	}
	if result.RowsRejected > 0 {
		p.log.Warn("csv import rejected rows",
			"user_id", userID,
			"rejected", result.RowsRejected,
			"import_id", result.ImportID)
	}
	p.log.Info("csv import stored",
		"user_id", userID,
		"received", result.RowsReceived,
		"inserted", result.RowsInserted,
		"replaced", result.RowsReplaced,
		"import_id", result.ImportID)
	return result, nil
}
