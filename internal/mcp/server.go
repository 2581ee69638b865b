package mcp

import (
	"context"
	"log/slog"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

type contextKey int

const userIDKey contextKey = iota

// UserIDFromContext extracts the user ID injected by the transport layer.
func UserIDFromContext(ctx context.Context) int {
	if id, ok := ctx.Value(userIDKey).(int); ok {
		return id
	}
	return 1
}

// WithUserID returns a context with the given user ID.
func WithUserID(ctx context.Context, userID int) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// New creates an MCP server with all tools and resources registered.
func New(ds DataSource, version string, log *slog.Logger) *server.MCPServer {
	s := server.NewMCPServer("LiftLens", version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
		server.WithInstructions("LiftLens strength training analytics. Query per-exercise progression, fitness and fatigue, strength projections, hypertrophy potential and readiness forecasts. All data is scoped to the authenticated user."),
	)

	h := &handlers{ds: ds, log: log, now: time.Now}

	// Tools
	s.AddTools(
		server.ServerTool{Tool: toolGetTrainingAnalytics, Handler: h.getTrainingAnalytics},
		server.ServerTool{Tool: toolGetExerciseStats, Handler: h.getExerciseStats},
		server.ServerTool{Tool: toolGetFitnessFatigue, Handler: h.getFitnessFatigue},
		server.ServerTool{Tool: toolGetStrengthProjections, Handler: h.getStrengthProjections},
		server.ServerTool{Tool: toolGetHypertrophyPotential, Handler: h.getHypertrophyPotential},
		server.ServerTool{Tool: toolGetReadinessForecast, Handler: h.getReadinessForecast},
		server.ServerTool{Tool: toolGetWorkoutSets, Handler: h.getWorkoutSets},
	)

	// Resources
	s.AddResources(
		server.ServerResource{Resource: resTrainingOverview, Handler: h.trainingOverview},
		server.ServerResource{Resource: resRecentSessions, Handler: h.recentSessions},
	)

	return s
}

// handlers holds dependencies for MCP tool/resource handlers.
type handlers struct {
	ds  DataSource
	log *slog.Logger
	now func() time.Time
}

// --- Resource definitions ---

var resTrainingOverview = mcp.NewResource(
	"liftlens://training_overview",
	"Training Overview",
	mcp.WithResourceDescription("Training summary, consistency, current fitness and fatigue, muscle group balance and headline predictions"),
	mcp.WithMIMEType("application/json"),
)

var resRecentSessions = mcp.NewResource(
	"liftlens://recent_sessions",
	"Recent Sessions",
	mcp.WithResourceDescription("Workout sessions from the last 14 days"),
	mcp.WithMIMEType("application/json"),
)
