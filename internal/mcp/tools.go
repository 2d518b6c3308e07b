package mcp

import (
	"context"
	"time"

	"github.com/claude/liftlog/internal/models"
	"github.com/mark3labs/mcp-go/mcp"
)

// --- Tool definitions ---

var toolGetRecentSessions = mcp.NewTool("get_recent_sessions",
	mcp.WithDescription("Retrieve completed workout sessions, most recent first. Each session includes exercises, logged sets, notes, and the rating if one was given."),
	mcp.WithNumber("limit", mcp.Description("Maximum number of sessions to return. Defaults to 10.")),
)

var toolGetPersonalRecords = mcp.NewTool("get_personal_records",
	mcp.WithDescription("List all personal records: best set per exercise with weight, reps, estimated one-rep max, and the improvement over the previous record."),
)

var toolRecommendWorkouts = mcp.NewTool("recommend_workouts",
	mcp.WithDescription("Recommend workout templates based on rating history and the user's profile. An optional mood narrows the selection."),
	mcp.WithNumber("count", mcp.Description("Number of workouts to recommend. Defaults to 5.")),
	mcp.WithString("mood", mcp.Description("Optional mood hint."), mcp.Enum("shorter", "light", "rest", "energetic")),
)

var toolGetSchedule = mcp.NewTool("get_schedule",
	mcp.WithDescription("List the workouts scheduled for a calendar date, covering both one-time entries and recurring weekday entries."),
	mcp.WithString("date", mcp.Description("Date (YYYY-MM-DD). Defaults to today.")),
)

var toolGetActiveSession = mcp.NewTool("get_active_session",
	mcp.WithDescription("Return the currently active workout session with its logged sets so far, or report that none is active."),
)

// --- Tool handlers ---

func (h *handlers) getRecentSessions(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	limit := req.GetInt("limit", 10)
	if limit < 0 {
		return mcp.NewToolResultError("limit must not be negative"), nil
	}

	sessions, err := h.ds.RecentSessions(ctx, limit)
	if err != nil {
		h.log.Error("mcp get_recent_sessions", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(sessions)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getPersonalRecords(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	records, err := h.ds.PersonalRecords(ctx)
	if err != nil {
		h.log.Error("mcp get_personal_records", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(records)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) recommendWorkouts(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	count := req.GetInt("count", 5)
	if count < 0 {
		return mcp.NewToolResultError("count must not be negative"), nil
	}
	mood := models.ParseMood(req.GetString("mood", ""))

	workouts, err := h.ds.RecommendWorkouts(ctx, count, mood)
	if err != nil {
		h.log.Error("mcp recommend_workouts", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(workouts)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getSchedule(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	date := time.Now()
	if dateStr := req.GetString("date", ""); dateStr != "" {
		parsed, err := time.Parse("2006-01-02", dateStr)
		if err != nil {
			return mcp.NewToolResultError("invalid date, want YYYY-MM-DD: " + err.Error()), nil
		}
		date = parsed
	}

	entries, err := h.ds.ScheduleForDate(ctx, date)
	if err != nil {
		h.log.Error("mcp get_schedule", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(entries)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getActiveSession(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	active, err := h.ds.ActiveSession(ctx)
	if err != nil {
		h.log.Error("mcp get_active_session", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	if active == nil {
		return mcp.NewToolResultText("no active session"), nil
	}

	result, err := mcp.NewToolResultJSON(active)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}
