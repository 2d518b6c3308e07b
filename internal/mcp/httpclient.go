package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/claude/liftlog/internal/models"
)

// HTTPClient implements DataSource by calling the LiftLog REST API.
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

func (c *HTTPClient) get(ctx context.Context, path string, params url.Values) ([]byte, error) {
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
		return nil, fmt.Errorf("httpclient: %s returned %d: %s", path, resp.StatusCode, body)
	}

	return body, nil
}

func (c *HTTPClient) RecentSessions(ctx context.Context, n int) ([]models.WorkoutLog, error) {
	params := url.Values{}
	if n > 0 {
		params.Set("limit", strconv.Itoa(n))
	}

	body, err := c.get(ctx, "/api/v1/logs", params)
	if err != nil {
		return nil, err
	}

	var logs []models.WorkoutLog
	if err := json.Unmarshal(body, &logs); err != nil {
		return nil, fmt.Errorf("httpclient: decode logs: %w", err)
	}
	return logs, nil
}

func (c *HTTPClient) PersonalRecords(ctx context.Context) ([]models.PersonalRecord, error) {
	body, err := c.get(ctx, "/api/v1/records", nil)
	if err != nil {
		return nil, err
	}

	var records []models.PersonalRecord
	if err := json.Unmarshal(body, &records); err != nil {
		return nil, fmt.Errorf("httpclient: decode records: %w", err)
	}
	return records, nil
}

func (c *HTTPClient) RecommendWorkouts(ctx context.Context, count int, mood models.Mood) ([]models.Workout, error) {
	params := url.Values{}
	params.Set("count", strconv.Itoa(count))
	if mood != models.MoodNone {
		params.Set("mood", string(mood))
	}

	body, err := c.get(ctx, "/api/v1/recommendations", params)
	if err != nil {
		return nil, err
	}

	var workouts []models.Workout
	if err := json.Unmarshal(body, &workouts); err != nil {
		return nil, fmt.Errorf("httpclient: decode recommendations: %w", err)
	}
	return workouts, nil
}

func (c *HTTPClient) ScheduleForDate(ctx context.Context, date time.Time) ([]models.ScheduledWorkout, error) {
	params := url.Values{}
	params.Set("date", date.Format("2006-01-02"))

	body, err := c.get(ctx, "/api/v1/schedule", params)
	if err != nil {
		return nil, err
	}

	var entries []models.ScheduledWorkout
	if err := json.Unmarshal(body, &entries); err != nil {
		return nil, fmt.Errorf("httpclient: decode schedule: %w", err)
	}
	return entries, nil
}

func (c *HTTPClient) ActiveSession(ctx context.Context) (*models.WorkoutLog, error) {
	u := c.baseURL + "/api/v1/session"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("httpclient: create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("httpclient: /api/v1/session: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	// 404 means no active session, not a failure.
	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("httpclient: read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("httpclient: /api/v1/session returned %d: %s", resp.StatusCode, body)
	}

	var log models.WorkoutLog
	if err := json.Unmarshal(body, &log); err != nil {
		return nil, fmt.Errorf("httpclient: decode active session: %w", err)
	}
	return &log, nil
}
