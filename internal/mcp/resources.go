package mcp

import (
	"context"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/claude/liftlens/internal/analytics"
)

// recentSessionDays is the window served by liftlens://recent_sessions.
const recentSessionDays = 14

func (h *handlers) trainingOverview(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	uid := UserIDFromContext(ctx)

	report, err := h.ds.GetReport(ctx, uid)
	if err != nil {
		return nil, err
	}
	overview := newOverview(report.Analytics)
	if report.Predictions != nil {
		overview.Hypertrophy = &report.Predictions.Hypertrophy
	}

	return jsonResource(req.Params.URI, overview)
}

func (h *handlers) recentSessions(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	a, err := h.ds.GetAnalytics(ctx, UserIDFromContext(ctx))
	if err != nil {
		return nil, err
	}

	cutoff := analytics.Day(h.now()).AddDate(0, 0, -recentSessionDays)
	sessions := []analytics.Session{}
	for _, s := range a.Sessions {
		if !s.Date.Before(cutoff) {
			sessions = append(sessions, s)
		}
	}

	return jsonResource(req.Params.URI, sessions)
}

func jsonResource(uri string, v any) ([]mcp.ResourceContents, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
