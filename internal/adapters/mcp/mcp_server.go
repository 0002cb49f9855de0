// Package mcp provides the MCP (Model Context Protocol) server implementation.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/mfontan/ironlog/internal/domain"
	"github.com/mfontan/ironlog/internal/ports"
)

// Server implements the MCP server using mark3labs/mcp-go.
type Server struct {
	server        *server.MCPServer
	stateProvider ports.MCPStateProvider
	ctx           context.Context
	cancel        context.CancelFunc
}

// NewServer creates a new MCP server instance.
func NewServer(stateProvider ports.MCPStateProvider) *Server {
	s := &Server{
		stateProvider: stateProvider,
	}

	s.server = server.NewMCPServer(
		"ironlog",
		"1.0.0",
		server.WithLogging(),
	)

	s.registerTools()

	return s
}

// registerTools registers all available MCP tools.
func (s *Server) registerTools() {
	// Tool: get_active_workout
	s.server.AddTool(
		mcp.NewTool(
			"get_active_workout",
			mcp.WithDescription("Get the workout currently in progress, including elapsed time and remaining rest"),
		),
		s.handleGetActiveWorkout,
	)

	// Tool: list_templates
	s.server.AddTool(
		mcp.NewTool(
			"list_templates",
			mcp.WithDescription("List all workout templates"),
		),
		s.handleListTemplates,
	)

	// Tool: get_template
	getTemplateTool := mcp.NewTool(
		"get_template",
		mcp.WithDescription("Get a workout template with its full exercise list"),
		mcp.WithString(
			"template_id",
			mcp.Required(),
			mcp.Description("The ID of the template"),
		),
	)
	s.server.AddTool(getTemplateTool, s.handleGetTemplate)

	// Tool: get_history
	historyTool := mcp.NewTool(
		"get_history",
		mcp.WithDescription("Get recent completed workouts, newest first"),
		mcp.WithNumber(
			"limit",
			mcp.Description("Maximum number of workouts to return (default: 10)"),
		),
	)
	s.server.AddTool(historyTool, s.handleGetHistory)

	// Tool: log_past_workout
	logPastTool := mcp.NewTool(
		"log_past_workout",
		mcp.WithDescription("Record a workout done in the past, with every set counted as completed"),
		mcp.WithString(
			"template_id",
			mcp.Required(),
			mcp.Description("The ID of the template that was performed"),
		),
		mcp.WithString(
			"date",
			mcp.Required(),
			mcp.Description("When the workout started, in RFC 3339 format (e.g. 2026-08-28T18:00:00Z)"),
		),
		mcp.WithNumber(
			"duration_minutes",
			mcp.Description("How long the workout took in minutes (default: 60)"),
		),
		mcp.WithNumber(
			"quality",
			mcp.Description("Workout quality from 1 to 5"),
		),
		mcp.WithNumber(
			"difficulty",
			mcp.Description("Workout difficulty from 1 to 5"),
		),
		mcp.WithString(
			"notes",
			mcp.Description("Optional notes about the workout"),
		),
	)
	s.server.AddTool(logPastTool, s.handleLogPastWorkout)

	// Tool: add_checkin
	addCheckInTool := mcp.NewTool(
		"add_checkin",
		mcp.WithDescription("Record a weekly check-in with body weight and habit metrics"),
		mcp.WithNumber(
			"weight",
			mcp.Required(),
			mcp.Description("Body weight"),
		),
		mcp.WithString(
			"weekly_win",
			mcp.Description("Something that went well this week"),
		),
		mcp.WithNumber(
			"avg_sleep",
			mcp.Description("Average hours of sleep per night"),
		),
		mcp.WithNumber(
			"avg_steps",
			mcp.Description("Average daily steps"),
		),
		mcp.WithNumber(
			"water_intake",
			mcp.Description("Average daily water intake in liters"),
		),
		mcp.WithNumber(
			"energy_level",
			mcp.Description("Energy level from 1 to 5 (default: 3)"),
		),
	)
	s.server.AddTool(addCheckInTool, s.handleAddCheckIn)

	// Tool: list_checkins
	s.server.AddTool(
		mcp.NewTool(
			"list_checkins",
			mcp.WithDescription("List weekly check-ins, newest first"),
		),
		s.handleListCheckIns,
	)
}

// Start begins serving MCP requests via stdio.
func (s *Server) Start(ctx context.Context) error {
	s.ctx, s.cancel = context.WithCancel(ctx)

	return server.ServeStdio(s.server)
}

// Stop gracefully shuts down the server.
func (s *Server) Stop() error {
	if s.cancel != nil {
		s.cancel()
	}
	return nil
}

// Ensure Server implements ports.MCPHandler.
var _ ports.MCPHandler = (*Server)(nil)

// handleGetActiveWorkout handles the get_active_workout tool.
func (s *Server) handleGetActiveWorkout(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	run, err := s.stateProvider.GetActiveRun(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get active workout: %w", err)
	}

	if run == nil {
		return mcp.NewToolResultText(`{"active": false}`), nil
	}

	now := time.Now()
	result := map[string]interface{}{
		"active":            true,
		"template_id":       run.TemplateID,
		"started_at":        run.StartedAt.Format(time.RFC3339),
		"elapsed":           now.Sub(run.StartedAt).Round(time.Second).String(),
		"rest_seconds_left": run.RestSecondsLeft(now),
	}

	if template, err := s.stateProvider.GetTemplate(ctx, run.TemplateID); err == nil {
		result["template_name"] = template.Name
	}

	jsonData, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal state: %w", err)
	}

	return mcp.NewToolResultText(string(jsonData)), nil
}

// handleListTemplates handles the list_templates tool.
func (s *Server) handleListTemplates(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	templates, err := s.stateProvider.ListTemplates(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list templates: %w", err)
	}

	var result []map[string]interface{}
	for _, t := range templates {
		result = append(result, map[string]interface{}{
			"id":          t.ID,
			"name":        t.Name,
			"exercises":   len(t.Exercises),
			"total_sets":  t.TotalSets(),
			"rest_period": t.RestPeriod,
		})
	}

	jsonData, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal templates: %w", err)
	}

	return mcp.NewToolResultText(string(jsonData)), nil
}

// handleGetTemplate handles the get_template tool.
func (s *Server) handleGetTemplate(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	templateID, err := request.RequireString("template_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	template, err := s.stateProvider.GetTemplate(ctx, templateID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to get template: %v", err)), nil
	}

	jsonData, err := json.MarshalIndent(template, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal template: %w", err)
	}

	return mcp.NewToolResultText(string(jsonData)), nil
}

// handleGetHistory handles the get_history tool.
func (s *Server) handleGetHistory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	limit := int(request.GetFloat("limit", 10))

	records, err := s.stateProvider.ListHistory(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get history: %w", err)
	}

	var result []map[string]interface{}
	for _, r := range records {
		result = append(result, map[string]interface{}{
			"id":             r.ID,
			"template_id":    r.TemplateID,
			"started_at":     r.StartedAt.Format(time.RFC3339),
			"duration":       r.Duration().Round(time.Second).String(),
			"completed_sets": len(r.Entries),
			"quality":        r.Feedback.Quality,
			"difficulty":     r.Feedback.Difficulty,
			"notes":          r.Feedback.Notes,
		})
	}

	jsonData, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal history: %w", err)
	}

	return mcp.NewToolResultText(string(jsonData)), nil
}

// handleLogPastWorkout handles the log_past_workout tool.
func (s *Server) handleLogPastWorkout(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	templateID, err := request.RequireString("template_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	dateStr, err := request.RequireString("date")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	startedAt, err := time.Parse(time.RFC3339, dateStr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid date: %v", err)), nil
	}

	duration := time.Duration(request.GetFloat("duration_minutes", 60)) * time.Minute
	fb := domain.Feedback{
		Quality:    int(request.GetFloat("quality", 0)),
		Difficulty: int(request.GetFloat("difficulty", 0)),
		Notes:      request.GetString("notes", ""),
	}

	record, err := s.stateProvider.LogBackdated(ctx, templateID, startedAt, duration, fb)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to log workout: %v", err)), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf(`{"logged": true, "id": %q, "completed_sets": %d}`, record.ID, len(record.Entries))), nil
}

// handleAddCheckIn handles the add_checkin tool.
func (s *Server) handleAddCheckIn(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	weight, err := request.RequireFloat("weight")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	checkIn := domain.NewCheckIn("")
	checkIn.Weight = weight
	checkIn.WeeklyWin = request.GetString("weekly_win", "")
	checkIn.AvgSleep = request.GetFloat("avg_sleep", 0)
	checkIn.AvgSteps = int(request.GetFloat("avg_steps", 0))
	checkIn.WaterIntake = request.GetFloat("water_intake", 0)
	checkIn.EnergyLevel = int(request.GetFloat("energy_level", 3))

	if err := s.stateProvider.AddCheckIn(ctx, checkIn); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to add check-in: %v", err)), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf(`{"added": true, "id": %q, "date": %q}`, checkIn.ID, checkIn.Date.Format("2006-01-02"))), nil
}

// handleListCheckIns handles the list_checkins tool.
func (s *Server) handleListCheckIns(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	checkIns, err := s.stateProvider.ListCheckIns(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list check-ins: %w", err)
	}

	var result []map[string]interface{}
	for _, c := range checkIns {
		result = append(result, map[string]interface{}{
			"id":           c.ID,
			"date":         c.Date.Format("2006-01-02"),
			"weight":       c.Weight,
			"weekly_win":   c.WeeklyWin,
			"avg_sleep":    c.AvgSleep,
			"avg_steps":    c.AvgSteps,
			"water_intake": c.WaterIntake,
			"energy_level": c.EnergyLevel,
		})
	}

	jsonData, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal check-ins: %w", err)
	}

	return mcp.NewToolResultText(string(jsonData)), nil
}
