package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/mfontan/ironlog/internal/domain"
)

// mockStateProvider implements ports.MCPStateProvider with canned data.
type mockStateProvider struct {
	activeRun *domain.ActiveRun
	templates []*domain.Template
	records   []*domain.CompletionRecord
	checkIns  []*domain.CheckIn

	loggedBackdated *domain.CompletionRecord
	addedCheckIn    *domain.CheckIn
	err             error
}

func (m *mockStateProvider) GetActiveRun(ctx context.Context) (*domain.ActiveRun, error) {
	return m.activeRun, m.err
}

func (m *mockStateProvider) ListTemplates(ctx context.Context) ([]*domain.Template, error) {
	return m.templates, m.err
}

func (m *mockStateProvider) GetTemplate(ctx context.Context, id string) (*domain.Template, error) {
	for _, t := range m.templates {
		if t.ID == id {
			return t, nil
		}
	}
	return nil, domain.ErrTemplateNotFound
}

func (m *mockStateProvider) ListHistory(ctx context.Context, limit int) ([]*domain.CompletionRecord, error) {
	if limit > 0 && limit < len(m.records) {
		return m.records[:limit], m.err
	}
	return m.records, m.err
}

func (m *mockStateProvider) LogBackdated(ctx context.Context, templateID string, startedAt time.Time, duration time.Duration, fb domain.Feedback) (*domain.CompletionRecord, error) {
	if m.err != nil {
		return nil, m.err
	}
	record := &domain.CompletionRecord{
		ID:         "log-1",
		TemplateID: templateID,
		StartedAt:  startedAt,
		EndedAt:    startedAt.Add(duration),
		Feedback:   fb,
	}
	m.loggedBackdated = record
	return record, nil
}

func (m *mockStateProvider) AddCheckIn(ctx context.Context, c *domain.CheckIn) error {
	if m.err != nil {
		return m.err
	}
	m.addedCheckIn = c
	return nil
}

func (m *mockStateProvider) ListCheckIns(ctx context.Context) ([]*domain.CheckIn, error) {
	return m.checkIns, m.err
}

func requestWithArgs(args map[string]interface{}) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Arguments: args,
		},
	}
}

// resultText extracts the text payload of a tool result.
func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	if result == nil || len(result.Content) == 0 {
		t.Fatal("tool result has no content")
	}
	text, ok := mcp.AsTextContent(result.Content[0])
	if !ok {
		t.Fatalf("tool result content is not text: %T", result.Content[0])
	}
	return text.Text
}

func TestNewServer(t *testing.T) {
	mock := &mockStateProvider{}
	server := NewServer(mock)

	if server == nil {
		t.Fatal("NewServer() returned nil")
	}
	if server.stateProvider != mock {
		t.Error("NewServer() did not set state provider")
	}
	if server.server == nil {
		t.Error("NewServer() did not create MCP server")
	}
}

func TestServer_handleGetActiveWorkout(t *testing.T) {
	started := time.Now().Add(-10 * time.Minute)
	target := time.Now().Add(45 * time.Second)

	mock := &mockStateProvider{
		activeRun: &domain.ActiveRun{
			TemplateID: "tpl-1",
			StartedAt:  started,
			RestTarget: &target,
		},
		templates: []*domain.Template{
			{ID: "tpl-1", Name: "Push Day"},
		},
	}

	server := NewServer(mock)
	result, err := server.handleGetActiveWorkout(context.Background(), mcp.CallToolRequest{})
	if err != nil {
		t.Fatalf("handleGetActiveWorkout() error = %v", err)
	}

	var payload map[string]interface{}
	if err := json.Unmarshal([]byte(resultText(t, result)), &payload); err != nil {
		t.Fatalf("result is not valid JSON: %v", err)
	}
	if payload["active"] != true {
		t.Error("payload should report an active run")
	}
	if payload["template_name"] != "Push Day" {
		t.Errorf("template_name = %v, want Push Day", payload["template_name"])
	}
	if payload["rest_seconds_left"].(float64) <= 0 {
		t.Error("rest countdown should be running")
	}
}

func TestServer_handleGetActiveWorkout_Idle(t *testing.T) {
	server := NewServer(&mockStateProvider{})

	result, err := server.handleGetActiveWorkout(context.Background(), mcp.CallToolRequest{})
	if err != nil {
		t.Fatalf("handleGetActiveWorkout() error = %v", err)
	}
	if got := resultText(t, result); got != `{"active": false}` {
		t.Errorf("idle payload = %s", got)
	}
}

func TestServer_handleListTemplates(t *testing.T) {
	mock := &mockStateProvider{
		templates: []*domain.Template{
			{ID: "tpl-1", Name: "Push Day", RestPeriod: 90, Exercises: []domain.Exercise{{Name: "Bench", SetCount: 3}}},
			{ID: "tpl-2", Name: "Pull Day"},
		},
	}

	server := NewServer(mock)
	result, err := server.handleListTemplates(context.Background(), mcp.CallToolRequest{})
	if err != nil {
		t.Fatalf("handleListTemplates() error = %v", err)
	}

	var payload []map[string]interface{}
	if err := json.Unmarshal([]byte(resultText(t, result)), &payload); err != nil {
		t.Fatalf("result is not valid JSON: %v", err)
	}
	if len(payload) != 2 {
		t.Fatalf("payload len = %d, want 2", len(payload))
	}
	if payload[0]["name"] != "Push Day" || payload[0]["total_sets"].(float64) != 3 {
		t.Errorf("unexpected first template: %v", payload[0])
	}
}

func TestServer_handleGetTemplate(t *testing.T) {
	mock := &mockStateProvider{
		templates: []*domain.Template{{ID: "tpl-1", Name: "Push Day"}},
	}
	server := NewServer(mock)

	t.Run("found", func(t *testing.T) {
		request := requestWithArgs(map[string]interface{}{"template_id": "tpl-1"})
		result, err := server.handleGetTemplate(context.Background(), request)
		if err != nil {
			t.Fatalf("handleGetTemplate() error = %v", err)
		}
		if !strings.Contains(resultText(t, result), "Push Day") {
			t.Error("payload should carry the template name")
		}
	})

	t.Run("missing required argument", func(t *testing.T) {
		result, err := server.handleGetTemplate(context.Background(), mcp.CallToolRequest{})
		if err != nil {
			t.Fatalf("handleGetTemplate() error = %v", err)
		}
		if !result.IsError {
			t.Error("missing template_id should produce an error result")
		}
	})

	t.Run("unknown template", func(t *testing.T) {
		request := requestWithArgs(map[string]interface{}{"template_id": "ghost"})
		result, err := server.handleGetTemplate(context.Background(), request)
		if err != nil {
			t.Fatalf("handleGetTemplate() error = %v", err)
		}
		if !result.IsError {
			t.Error("unknown template should produce an error result")
		}
	})
}

func TestServer_handleGetHistory(t *testing.T) {
	base := time.Date(2026, 8, 10, 18, 0, 0, 0, time.UTC)
	mock := &mockStateProvider{
		records: []*domain.CompletionRecord{
			{ID: "log-2", TemplateID: "tpl-1", StartedAt: base.AddDate(0, 0, 2), EndedAt: base.AddDate(0, 0, 2).Add(time.Hour)},
			{ID: "log-1", TemplateID: "tpl-1", StartedAt: base, EndedAt: base.Add(time.Hour)},
		},
	}

	server := NewServer(mock)
	request := requestWithArgs(map[string]interface{}{"limit": 1.0})
	result, err := server.handleGetHistory(context.Background(), request)
	if err != nil {
		t.Fatalf("handleGetHistory() error = %v", err)
	}

	var payload []map[string]interface{}
	if err := json.Unmarshal([]byte(resultText(t, result)), &payload); err != nil {
		t.Fatalf("result is not valid JSON: %v", err)
	}
	if len(payload) != 1 || payload[0]["id"] != "log-2" {
		t.Errorf("limited history = %v, want just log-2", payload)
	}
	if payload[0]["duration"] != "1h0m0s" {
		t.Errorf("duration = %v, want 1h0m0s", payload[0]["duration"])
	}
}

func TestServer_handleLogPastWorkout(t *testing.T) {
	mock := &mockStateProvider{}
	server := NewServer(mock)

	t.Run("happy path", func(t *testing.T) {
		request := requestWithArgs(map[string]interface{}{
			"template_id":      "tpl-1",
			"date":             "2026-08-28T18:00:00Z",
			"duration_minutes": 45.0,
			"quality":          4.0,
			"notes":            "logged after the fact",
		})
		result, err := server.handleLogPastWorkout(context.Background(), request)
		if err != nil {
			t.Fatalf("handleLogPastWorkout() error = %v", err)
		}
		if result.IsError {
			t.Fatalf("unexpected error result: %s", resultText(t, result))
		}

		logged := mock.loggedBackdated
		if logged == nil {
			t.Fatal("nothing was logged")
		}
		if logged.TemplateID != "tpl-1" {
			t.Errorf("template id = %q, want tpl-1", logged.TemplateID)
		}
		if logged.Duration() != 45*time.Minute {
			t.Errorf("duration = %v, want 45m", logged.Duration())
		}
		if logged.Feedback.Quality != 4 || logged.Feedback.Notes != "logged after the fact" {
			t.Errorf("feedback lost: %+v", logged.Feedback)
		}
	})

	t.Run("invalid date", func(t *testing.T) {
		request := requestWithArgs(map[string]interface{}{
			"template_id": "tpl-1",
			"date":        "yesterday",
		})
		result, err := server.handleLogPastWorkout(context.Background(), request)
		if err != nil {
			t.Fatalf("handleLogPastWorkout() error = %v", err)
		}
		if !result.IsError {
			t.Error("unparseable date should produce an error result")
		}
	})

	t.Run("provider failure", func(t *testing.T) {
		failing := NewServer(&mockStateProvider{err: errors.New("db closed")})
		request := requestWithArgs(map[string]interface{}{
			"template_id": "tpl-1",
			"date":        "2026-08-28T18:00:00Z",
		})
		result, err := failing.handleLogPastWorkout(context.Background(), request)
		if err != nil {
			t.Fatalf("handleLogPastWorkout() error = %v", err)
		}
		if !result.IsError {
			t.Error("provider failure should produce an error result")
		}
	})
}

func TestServer_handleAddCheckIn(t *testing.T) {
	mock := &mockStateProvider{}
	server := NewServer(mock)

	t.Run("happy path", func(t *testing.T) {
		request := requestWithArgs(map[string]interface{}{
			"weight":     82.4,
			"weekly_win": "benched 100",
			"avg_sleep":  7.5,
		})
		result, err := server.handleAddCheckIn(context.Background(), request)
		if err != nil {
			t.Fatalf("handleAddCheckIn() error = %v", err)
		}
		if result.IsError {
			t.Fatalf("unexpected error result: %s", resultText(t, result))
		}

		added := mock.addedCheckIn
		if added == nil {
			t.Fatal("nothing was added")
		}
		if added.Weight != 82.4 || added.WeeklyWin != "benched 100" {
			t.Errorf("check-in fields lost: %+v", added)
		}
		if added.EnergyLevel != 3 {
			t.Errorf("energy level = %d, want default 3", added.EnergyLevel)
		}
	})

	t.Run("missing weight", func(t *testing.T) {
		result, err := server.handleAddCheckIn(context.Background(), mcp.CallToolRequest{})
		if err != nil {
			t.Fatalf("handleAddCheckIn() error = %v", err)
		}
		if !result.IsError {
			t.Error("missing weight should produce an error result")
		}
	})
}

func TestServer_handleListCheckIns(t *testing.T) {
	mock := &mockStateProvider{
		checkIns: []*domain.CheckIn{
			{ID: "ci-1", Date: time.Date(2026, 8, 25, 0, 0, 0, 0, time.UTC), Weight: 81.2, EnergyLevel: 4},
		},
	}

	server := NewServer(mock)
	result, err := server.handleListCheckIns(context.Background(), mcp.CallToolRequest{})
	if err != nil {
		t.Fatalf("handleListCheckIns() error = %v", err)
	}

	var payload []map[string]interface{}
	if err := json.Unmarshal([]byte(resultText(t, result)), &payload); err != nil {
		t.Fatalf("result is not valid JSON: %v", err)
	}
	if len(payload) != 1 || payload[0]["date"] != "2026-08-25" {
		t.Errorf("unexpected check-ins payload: %v", payload)
	}
}
