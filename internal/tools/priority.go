package tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"sprintpulse/internal/analysis"
	"sprintpulse/internal/jira"
)

// backlogFetchSize bounds the backlog side of the priority-gap analysis.
const backlogFetchSize = 100

// PriorityFocusTool handles the analyze_priority_focus MCP tool: check
// whether the sprint is working the right priorities and whether
// high-priority work sits idle in the backlog.
type PriorityFocusTool struct {
	client      *jira.Client
	pointsField string
}

// NewPriorityFocusTool creates a PriorityFocusTool.
func NewPriorityFocusTool(client *jira.Client, pointsField string) *PriorityFocusTool {
	return &PriorityFocusTool{client: client, pointsField: pointsField}
}

// Definition returns the MCP tool definition for analyze_priority_focus.
func (t *PriorityFocusTool) Definition() mcp.Tool {
	return mcp.NewTool("analyze_priority_focus",
		mcp.WithDescription(
			"Analyze whether the sprint focuses on high-priority work: "+
				"priority breakdown, critical-issue coverage, and unresolved "+
				"high-priority items still in the backlog.",
		),
		mcp.WithNumber("board_id",
			mcp.Required(),
			mcp.Description("Board id"),
		),
		mcp.WithNumber("sprint_id",
			mcp.Required(),
			mcp.Description("Sprint id"),
		),
	)
}

// Handle processes the analyze_priority_focus tool call.
func (t *PriorityFocusTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	boardID := req.GetInt("board_id", 0)
	if boardID <= 0 {
		return mcp.NewToolResultError("'board_id' is required"), nil
	}
	sprintID := req.GetInt("sprint_id", 0)
	if sprintID <= 0 {
		return mcp.NewToolResultError("'sprint_id' is required"), nil
	}

	sprint, err := t.client.Sprint(ctx, sprintID)
	if err != nil {
		return fetchFailed(fmt.Sprintf("fetch sprint %d", sprintID), err), nil
	}

	// Project is requested alongside the analysis fields so the backlog
	// query can be scoped to the sprint's project.
	fields := jira.AnalysisFields(t.pointsField) + ",project"
	jql := fmt.Sprintf("sprint = %d", sprintID)
	sprintIssues, err := t.client.SearchIssues(ctx, jql, analysisMaxResults, fields)
	if err != nil {
		return fetchFailed(fmt.Sprintf("fetch issues for sprint %d", sprintID), err), nil
	}

	// Without sprint issues there is no project to scope the backlog
	// query to; the analyzer then reports an empty backlog.
	var backlogIssues []jira.Issue
	if projectKey := projectKeyOf(sprintIssues); projectKey != "" {
		backlogJQL := fmt.Sprintf("project = %s AND sprint is EMPTY AND resolution is EMPTY", projectKey)
		backlogIssues, err = t.client.SearchIssues(ctx, backlogJQL, backlogFetchSize, jira.AnalysisFields(t.pointsField))
		if err != nil {
			return fetchFailed(fmt.Sprintf("fetch backlog for project %s", projectKey), err), nil
		}
	}

	report := analysis.AnalyzePriorityFocus(
		analysis.SprintInfoFrom(*sprint),
		analysis.NormalizeIssues(sprintIssues, t.pointsField),
		analysis.NormalizeIssues(backlogIssues, t.pointsField),
	)
	return jsonResult(report)
}

// projectKeyOf returns the first project key present on the issues.
func projectKeyOf(issues []jira.Issue) string {
	for _, is := range issues {
		if p := is.Fields.Project; p != nil && p.Key != "" {
			return p.Key
		}
	}
	return ""
}
