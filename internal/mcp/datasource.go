package mcp

import (
	"context"
	"time"

	"github.com/claude/liftlens/internal/analytics"
	"github.com/claude/liftlens/internal/insights"
	"github.com/claude/liftlens/internal/models"
	"github.com/claude/liftlens/internal/prediction"
	"github.com/claude/liftlens/internal/storage"
)

// DataSource abstracts the data layer for MCP tools. LocalSource (Postgres)
// and HTTPClient (remote via REST API) satisfy this interface.
type DataSource interface {
	GetAnalytics(ctx context.Context, userID int) (*analytics.Analytics, error)
	GetPredictions(ctx context.Context, userID int) (*prediction.Predictions, error)
	// GetReport returns analytics and predictions from one pipeline run.
	GetReport(ctx context.Context, userID int) (*insights.Report, error)
	QueryWorkoutSets(ctx context.Context, start, end time.Time, userID int, exerciseFilter string) ([]models.WorkoutSetRow, error)
	GetDataStats(ctx context.Context, userID int) (*storage.DataStats, error)
}

// LocalSource serves MCP tools straight from the database.
type LocalSource struct {
	*storage.DB
	analyzer *insights.Analyzer
}

// Compile-time check: *LocalSource satisfies DataSource.
var _ DataSource = (*LocalSource)(nil)

// NewLocalSource wraps a database and the analyzer reading from it.
func NewLocalSource(db *storage.DB, analyzer *insights.Analyzer) *LocalSource {
	return &LocalSource{DB: db, analyzer: analyzer}
}

// GetAnalytics runs the analytics pipeline over the user's stored sets.
func (s *LocalSource) GetAnalytics(ctx context.Context, userID int) (*analytics.Analytics, error) {
	return s.analyzer.Analytics(ctx, userID)
}

// GetPredictions runs the prediction engine over the user's stored sets.
func (s *LocalSource) GetPredictions(ctx context.Context, userID int) (*prediction.Predictions, error) {
	return s.analyzer.Predictions(ctx, userID)
}

// GetReport runs analytics and predictions together.
func (s *LocalSource) GetReport(ctx context.Context, userID int) (*insights.Report, error) {
	return s.analyzer.Report(ctx, userID)
}
