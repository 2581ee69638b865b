package alpha

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/claude/liftlens/internal/ingest"
)

// Provider processes Alpha Progression CSV exports.
type Provider struct {
	db  ingest.SetWriter
	log *slog.Logger
}

// NewProvider creates a new Alpha Progression ingest provider.
func NewProvider(db ingest.SetWriter, log *slog.Logger) *Provider {
	return &Provider{db: db, log: log}
}

// Ingest parses an export and stores its working sets.
func (p *Provider) Ingest(ctx context.Context, r io.Reader, userID int) (*ingest.Result, error) {
	sessions, err := Parse(r)
	if err != nil {
		return nil, fmt.Errorf("%w: parsing alpha export: %w", ingest.ErrInvalidExport, err)
	}

	result, err := ingest.StoreRows(ctx, p.db, userID, ToRawRows(sessions))
	if err != nil {
		return nil, err
	}
	p.log.Info("alpha import stored",
		"user_id", userID,
		"sessions", len(sessions),
		"inserted", result.RowsInserted,
		"rejected", result.RowsRejected,
		"import_id", result.ImportID)
	return result, nil
}
