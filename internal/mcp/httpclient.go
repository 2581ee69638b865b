package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/claude/liftlens/internal/analytics"
	"github.com/claude/liftlens/internal/insights"
	"github.com/claude/liftlens/internal/models"
	"github.com/claude/liftlens/internal/prediction"
	"github.com/claude/liftlens/internal/storage"
)

// HTTPClient implements DataSource by calling the LiftLens REST API.
// Used for remote MCP mode where the binary runs locally (stdio) but
// data lives on the remote server (accessed over Tailscale).
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
}

// Compile-time check: HTTPClient satisfies DataSource.
var _ DataSource = (*HTTPClient)(nil)

// NewHTTPClient creates an HTTPClient targeting the given base URL.
func NewHTTPClient(baseURL string) *HTTPClient {
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// fetch GETs path and decodes the JSON body into a new T. Non-200 responses
// become errors carrying the server's {"error": ...} message when present.
func fetch[T any](ctx context.Context, c *HTTPClient, path string, params url.Values) (*T, error) {
	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("httpclient: create request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("httpclient: %s: %w", path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("httpclient: read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		var apiErr struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(body, &apiErr) == nil && apiErr.Error != "" {
			return nil, fmt.Errorf("httpclient: %s returned %d: %s", path, resp.StatusCode, apiErr.Error)
		}
		return nil, fmt.Errorf("httpclient: %s returned %d: %s", path, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	out := new(T)
	if err := json.Unmarshal(body, out); err != nil {
		return nil, fmt.Errorf("httpclient: decode %s: %w", path, err)
	}
	return out, nil
}

// GetAnalytics fetches /api/v1/analytics. The remote server resolves the
// user from the caller's identity, so userID is ignored.
func (c *HTTPClient) GetAnalytics(ctx context.Context, _ int) (*analytics.Analytics, error) {
	return fetch[analytics.Analytics](ctx, c, "/api/v1/analytics", nil)
}

func (c *HTTPClient) GetPredictions(ctx context.Context, _ int) (*prediction.Predictions, error) {
	return fetch[prediction.Predictions](ctx, c, "/api/v1/predictions", nil)
}

func (c *HTTPClient) GetReport(ctx context.Context, _ int) (*insights.Report, error) {
	return fetch[insights.Report](ctx, c, "/api/v1/report", nil)
}

func (c *HTTPClient) QueryWorkoutSets(ctx context.Context, start, end time.Time, _ int, exercise string) ([]models.WorkoutSetRow, error) {
	params := url.Values{
		"start": {start.Format(time.RFC3339)},
		"end":   {end.Format(time.RFC3339)},
	}
	if exercise != "" {
		params.Set("exercise", exercise)
	}
	sets, err := fetch[[]models.WorkoutSetRow](ctx, c, "/api/v1/sets", params)
	if err != nil {
		return nil, err
	}
	return *sets, nil
}

func (c *HTTPClient) GetDataStats(ctx context.Context, _ int) (*storage.DataStats, error) {
	return fetch[storage.DataStats](ctx, c, "/api/v1/stats", nil)
}
