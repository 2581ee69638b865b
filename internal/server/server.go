// Package server exposes ingest, analytics and prediction over a REST API.
package server

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/claude/liftlens/internal/analytics"
	"github.com/claude/liftlens/internal/ingest"
	"github.com/claude/liftlens/internal/insights"
	"github.com/claude/liftlens/internal/metrics"
	"github.com/claude/liftlens/internal/models"
	"github.com/claude/liftlens/internal/prediction"
	"github.com/claude/liftlens/internal/storage"
)

// Store is the persistence the handlers read from.
type Store interface {
	QueryWorkoutSets(ctx context.Context, start, end time.Time, userID int, exercise string) ([]models.WorkoutSetRow, error)
	GetDataStats(ctx context.Context, userID int) (*storage.DataStats, error)
	QueryImportLogs(ctx context.Context, userID, limit int) ([]storage.ImportLog, error)
	InsertImportLog(ctx context.Context, log storage.ImportLog) (int64, error)
	GetOrCreateUser(ctx context.Context, login, displayName string) (int, error)
	SetBodyweight(ctx context.Context, userID int, kg *float64) error
}

// Ingester stores one uploaded export.
type Ingester interface {
	Ingest(ctx context.Context, r io.Reader, userID int) (*ingest.Result, error)
}

// Reporter computes analytics and predictions for a user.
type Reporter interface {
	Analytics(ctx context.Context, userID int) (*analytics.Analytics, error)
	Predictions(ctx context.Context, userID int) (*prediction.Predictions, error)
	Report(ctx context.Context, userID int) (*insights.Report, error)
}

// Server holds dependencies for HTTP handlers.
type Server struct {
	db       Store
	csv      Ingester
	alpha    Ingester
	reporter Reporter
	metrics  *metrics.Manager
	log      *slog.Logger
	apiKey   string
	router   chi.Router

	defaultUserID int
	whois         WhoIser
	now           func() time.Time
}

// New creates a new Server with all routes configured.
func New(db Store, csvProvider, alphaProvider Ingester, reporter Reporter, apiKey string, m *metrics.Manager, log *slog.Logger) *Server {
	s := &Server{
		db:            db,
		csv:           csvProvider,
		alpha:         alphaProvider,
		reporter:      reporter,
		metrics:       m,
		log:           log,
		apiKey:        apiKey,
		router:        chi.NewRouter(),
		defaultUserID: localUserID,
		now:           time.Now,
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.router.Use(RequestLogging(s.log))
	if s.metrics != nil {
		s.router.Use(RequestMetrics(s.metrics))
	}
	s.router.Use(CORS)

	s.router.Route("/api/v1", func(r chi.Router) {
		r.Use(s.identity)

		// Ingest endpoints (API key required)
		r.Route("/ingest", func(r chi.Router) {
			r.Use(APIKeyAuth(s.apiKey))
			r.Post("/csv", s.handleIngest("csv", s.csv))
			r.Post("/alpha", s.handleIngest("alpha", s.alpha))
		})

		r.Get("/analytics", s.handleAnalytics)
		r.Get("/analytics/exercises/{name}", s.handleExercise)
		r.Get("/analytics/fitness", s.handleFitness)
		r.Get("/analytics/weekly", s.handleWeekly)
		r.Get("/predictions", s.handlePredictions)
		r.Get("/report", s.handleReport)
		r.Get("/sets", s.handleSets)
		r.Get("/stats", s.handleStats)
		r.Get("/imports", s.handleImportLogs)
		r.Get("/me", s.handleMe)
		r.Put("/me/bodyweight", s.handleSetBodyweight)
	})
}

// SetMetricsHandler mounts the Prometheus scrape endpoint at /metrics.
func (s *Server) SetMetricsHandler(h http.Handler) {
	s.router.Method(http.MethodGet, "/metrics", h)
}

// SetTailscale switches caller identity from the default user to the
// Tailscale login of the connecting peer.
func (s *Server) SetTailscale(w WhoIser) {
	s.whois = w
}

// SetDefaultUser sets the user requests are attributed to without Tailscale.
func (s *Server) SetDefaultUser(userID int) {
	s.defaultUserID = userID
}

// SetClock replaces the clock used for default time ranges.
func (s *Server) SetClock(now func() time.Time) {
	s.now = now
}

// identity resolves the caller per request so SetTailscale and
// SetDefaultUser take effect after routes are built.
func (s *Server) identity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.whois != nil {
			TailscaleIdentity(s.whois, s.db, s.log)(next).ServeHTTP(w, r)
			return
		}
		DevIdentityAs(s.defaultUserID)(next).ServeHTTP(w, r)
	})
}
