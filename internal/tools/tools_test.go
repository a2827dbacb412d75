package tools

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"sprintpulse/internal/jira"
)

// makeReq builds a mcp.CallToolRequest with the given arguments.
func makeReq(args map[string]interface{}) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	return req
}

// resultText extracts the text content from a tool result.
func resultText(r *mcp.CallToolResult) string {
	if r == nil || len(r.Content) == 0 {
		return ""
	}
	for _, c := range r.Content {
		if tc, ok := c.(mcp.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}

// newTestClient points a jira client at the given handler.
func newTestClient(t *testing.T, handler http.Handler) *jira.Client {
	t.Helper()
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)
	return jira.NewClient(ts.URL, "dev@example.com", "tok", 5*time.Second)
}

const pointsField = "customfield_10016"

// sprintFixture answers the sprint endpoint for sprint 42.
func sprintFixture(w http.ResponseWriter) {
	_, _ = w.Write([]byte(`{
		"id": 42, "name": "Sprint 42", "state": "active",
		"startDate": "2026-08-10T09:00:00.000Z", "originBoardId": 7
	}`))
}

// issuesFixture answers a search or sprint-issue endpoint with two
// issues, one done with points and one in progress.
func issuesFixture(w http.ResponseWriter) {
	_, _ = w.Write([]byte(`{
		"total": 2,
		"issues": [
			{
				"key": "PROJ-1",
				"fields": {
					"summary": "Done story",
					"status": {"name": "Done", "statusCategory": {"name": "Done"}},
					"assignee": {"displayName": "Ann"},
					"priority": {"name": "High"},
					"project": {"key": "PROJ"},
					"customfield_10016": 5
				}
			},
			{
				"key": "PROJ-2",
				"fields": {
					"summary": "WIP story",
					"status": {"name": "In Progress", "statusCategory": {"name": "In Progress"}},
					"assignee": {"displayName": "Bob"},
					"priority": {"name": "Low"},
					"project": {"key": "PROJ"},
					"customfield_10016": 3
				}
			}
		]
	}`))
}

// ─── Pass-through tools ─────────────────────────────────────────────────────

func TestGetIssueTool_RendersMarkdown(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/rest/api/2/issue/PROJ-1" {
			t.Errorf("path = %q", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{"key": "PROJ-1", "fields": {"summary": "Fix login", "description": "Steps to reproduce"}}`))
	}))

	result, err := NewGetIssueTool(client).Handle(context.Background(), makeReq(map[string]interface{}{
		"issue_key": "PROJ-1",
	}))
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if result.IsError {
		t.Fatalf("unexpected tool error: %s", resultText(result))
	}

	text := resultText(result)
	if !strings.HasPrefix(text, "# PROJ-1: Fix login") {
		t.Errorf("text = %q, want markdown heading", text)
	}
	if !strings.Contains(text, "Steps to reproduce") {
		t.Errorf("text = %q, want description body", text)
	}
}

func TestGetIssueTool_MissingKey(t *testing.T) {
	client := newTestClient(t, http.NotFoundHandler())

	result, err := NewGetIssueTool(client).Handle(context.Background(), makeReq(nil))
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if !result.IsError {
		t.Fatal("expected tool error for missing issue_key")
	}
	if got := resultText(result); got != "'issue_key' is required" {
		t.Errorf("error text = %q", got)
	}
}

func TestGetIssueTool_NotFoundSurfacesAsToolError(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"errorMessages": ["Issue does not exist"]}`))
	}))

	result, err := NewGetIssueTool(client).Handle(context.Background(), makeReq(map[string]interface{}{
		"issue_key": "NOPE-1",
	}))
	if err != nil {
		t.Fatalf("Handle should not return a Go error, got %v", err)
	}
	if !result.IsError {
		t.Fatal("expected tool error result")
	}
	text := resultText(result)
	if !strings.Contains(text, "Failed to fetch Jira issue NOPE-1") {
		t.Errorf("error text = %q", text)
	}
	if !strings.Contains(text, "Issue does not exist") {
		t.Errorf("error text = %q, want upstream message", text)
	}
}

func TestSearchIssuesTool_JSONFence(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("jql"); got != "project = PROJ" {
			t.Errorf("jql = %q", got)
		}
		if got := r.URL.Query().Get("maxResults"); got != "10" {
			t.Errorf("maxResults = %q, want default 10", got)
		}
		issuesFixture(w)
	}))

	result, err := NewSearchIssuesTool(client).Handle(context.Background(), makeReq(map[string]interface{}{
		"jql": "project = PROJ",
	}))
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}

	text := resultText(result)
	if !strings.HasPrefix(text, "```json\n") || !strings.HasSuffix(text, "\n```") {
		t.Errorf("result not fenced: %q", text)
	}
	if !strings.Contains(text, `"PROJ-1"`) {
		t.Errorf("result missing issue key: %q", text)
	}
}

func TestIssueDetailsTool_FlattensFields(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fields := r.URL.Query().Get("fields")
		if !strings.Contains(fields, pointsField) {
			t.Errorf("fields = %q, want story point field requested", fields)
		}
		issuesFixture(w)
	}))

	result, err := NewIssueDetailsTool(client, pointsField).Handle(context.Background(), makeReq(map[string]interface{}{
		"jql": "sprint = 42",
	}))
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}

	var details []issueDetail
	text := strings.TrimSuffix(strings.TrimPrefix(resultText(result), "```json\n"), "\n```")
	if err := json.Unmarshal([]byte(text), &details); err != nil {
		t.Fatalf("decoding result: %v", err)
	}
	if len(details) != 2 {
		t.Fatalf("details = %d entries, want 2", len(details))
	}
	if details[0].Assignee != "Ann" || details[0].StoryPoints == nil || *details[0].StoryPoints != 5 {
		t.Errorf("details[0] = %+v", details[0])
	}
	if details[1].Status != "In Progress" {
		t.Errorf("details[1].Status = %q", details[1].Status)
	}
}

func TestProjectTools_Definitions(t *testing.T) {
	client := newTestClient(t, http.NotFoundHandler())

	wantNames := map[string]bool{
		"get_project":                   false,
		"get_project_components":        false,
		"get_project_versions":          false,
		"get_project_roles":             false,
		"get_project_permission_scheme": false,
		"get_project_issue_types":       false,
	}
	for _, pt := range []*ProjectTool{
		NewGetProjectTool(client),
		NewProjectComponentsTool(client),
		NewProjectVersionsTool(client),
		NewProjectRolesTool(client),
		NewProjectPermissionSchemeTool(client),
		NewProjectIssueTypesTool(client),
	} {
		name := pt.Definition().Name
		seen, ok := wantNames[name]
		if !ok {
			t.Errorf("unexpected tool name %q", name)
			continue
		}
		if seen {
			t.Errorf("duplicate tool name %q", name)
		}
		wantNames[name] = true
	}
	for name, seen := range wantNames {
		if !seen {
			t.Errorf("tool %q never defined", name)
		}
	}
}

func TestListSprintsTool_RequiresBoard(t *testing.T) {
	client := newTestClient(t, http.NotFoundHandler())

	result, err := NewListSprintsTool(client).Handle(context.Background(), makeReq(nil))
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if !result.IsError || resultText(result) != "'board_id' is required" {
		t.Errorf("result = %q, want board_id error", resultText(result))
	}
}

// ─── Analytics tools ────────────────────────────────────────────────────────

func TestCommitmentTool_EndToEnd(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/rest/agile/1.0/sprint/42":
			sprintFixture(w)
		case r.URL.Path == "/rest/api/2/search":
			if got := r.URL.Query().Get("jql"); got != "sprint = 42" {
				t.Errorf("jql = %q", got)
			}
			issuesFixture(w)
		default:
			t.Errorf("unexpected path %q", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}))

	result, err := NewCommitmentTool(client, pointsField).Handle(context.Background(), makeReq(map[string]interface{}{
		"sprint_id": 42,
	}))
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if result.IsError {
		t.Fatalf("tool error: %s", resultText(result))
	}

	text := resultText(result)
	// 5 of 8 points done.
	if !strings.Contains(text, `"completion_rate": 62.5`) {
		t.Errorf("result missing completion rate: %q", text)
	}
	if !strings.Contains(text, `"status": "AT_RISK"`) {
		t.Errorf("result missing commitment status: %q", text)
	}
	if !strings.Contains(text, `"primary_metric": "story_points"`) {
		t.Errorf("result missing primary metric: %q", text)
	}
}

func TestVelocityTool_ConcurrentFetch(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/rest/agile/1.0/board/7/sprint":
			_, _ = w.Write([]byte(`{"values": [
				{"id": 1, "name": "S1", "state": "closed", "startDate": "2026-06-01T09:00:00Z"},
				{"id": 2, "name": "S2", "state": "closed", "startDate": "2026-07-01T09:00:00Z"},
				{"id": 3, "name": "S3", "state": "active", "startDate": "2026-08-01T09:00:00Z"}
			]}`))
		case "/rest/api/2/search":
			issuesFixture(w)
		default:
			t.Errorf("unexpected path %q", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}))

	result, err := NewVelocityTool(client, pointsField).Handle(context.Background(), makeReq(map[string]interface{}{
		"board_id":     7,
		"sprint_count": 3,
	}))
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if result.IsError {
		t.Fatalf("tool error: %s", resultText(result))
	}

	text := resultText(result)
	if !strings.Contains(text, `"sprints_analyzed": 3`) {
		t.Errorf("result missing sprint count: %q", text)
	}
	// Identical snapshots everywhere: a flat series reads STABLE.
	if !strings.Contains(text, `"direction": "STABLE"`) {
		t.Errorf("result missing direction: %q", text)
	}
	if !strings.Contains(text, `"analysis_period": "Last 3 sprints"`) {
		t.Errorf("result missing period: %q", text)
	}
}

func TestVelocityTool_FetchFailureAborts(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/rest/agile/1.0/board/7/sprint":
			_, _ = w.Write([]byte(`{"values": [
				{"id": 1, "name": "S1", "state": "closed", "startDate": "2026-06-01T09:00:00Z"},
				{"id": 2, "name": "S2", "state": "closed", "startDate": "2026-07-01T09:00:00Z"}
			]}`))
		default:
			w.WriteHeader(http.StatusBadGateway)
		}
	}))

	result, err := NewVelocityTool(client, pointsField).Handle(context.Background(), makeReq(map[string]interface{}{
		"board_id": 7,
	}))
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if !result.IsError {
		t.Fatal("expected tool error when a sprint fetch fails")
	}
	if !strings.Contains(resultText(result), "Failed to fetch issues for sprint") {
		t.Errorf("error text = %q", resultText(result))
	}
}

func TestPriorityFocusTool_ScopesBacklogToProject(t *testing.T) {
	var backlogJQL string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/rest/agile/1.0/sprint/42":
			sprintFixture(w)
		case r.URL.Path == "/rest/api/2/search":
			jql := r.URL.Query().Get("jql")
			if strings.Contains(jql, "sprint is EMPTY") {
				backlogJQL = jql
				_, _ = w.Write([]byte(`{"issues": []}`))
				return
			}
			issuesFixture(w)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))

	result, err := NewPriorityFocusTool(client, pointsField).Handle(context.Background(), makeReq(map[string]interface{}{
		"board_id":  7,
		"sprint_id": 42,
	}))
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if result.IsError {
		t.Fatalf("tool error: %s", resultText(result))
	}

	want := "project = PROJ AND sprint is EMPTY AND resolution is EMPTY"
	if backlogJQL != want {
		t.Errorf("backlog JQL = %q, want %q", backlogJQL, want)
	}
	if !strings.Contains(resultText(result), `"priority_focus_analysis"`) {
		t.Errorf("result missing analysis section: %q", resultText(result))
	}
}

func TestDashboardTool_EmptySprint(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/rest/agile/1.0/sprint/42":
			sprintFixture(w)
		case "/rest/agile/1.0/board/7/sprint/42/issue":
			_, _ = w.Write([]byte(`{"issues": []}`))
		default:
			t.Errorf("unexpected path %q", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}))

	result, err := NewDashboardTool(client, pointsField).Handle(context.Background(), makeReq(map[string]interface{}{
		"board_id":  7,
		"sprint_id": 42,
	}))
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if result.IsError {
		t.Fatalf("tool error: %s", resultText(result))
	}

	text := resultText(result)
	if !strings.Contains(text, `"error": "No issues found in sprint 42"`) {
		t.Errorf("result missing empty-sprint error: %q", text)
	}
	if strings.Contains(text, `"overall_health"`) {
		t.Errorf("empty sprint should omit analysis sections: %q", text)
	}
}

func TestWorkloadTool_EndToEnd(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/rest/agile/1.0/sprint/42":
			sprintFixture(w)
		case "/rest/agile/1.0/board/7/sprint/42/issue":
			issuesFixture(w)
		default:
			t.Errorf("unexpected path %q", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}))

	result, err := NewWorkloadTool(client, pointsField).Handle(context.Background(), makeReq(map[string]interface{}{
		"board_id":  7,
		"sprint_id": 42,
	}))
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if result.IsError {
		t.Fatalf("tool error: %s", resultText(result))
	}

	text := resultText(result)
	if !strings.Contains(text, `"total_team_members": 2`) {
		t.Errorf("result missing team size: %q", text)
	}
	if !strings.Contains(text, `"Ann"`) || !strings.Contains(text, `"Bob"`) {
		t.Errorf("result missing members: %q", text)
	}
}
