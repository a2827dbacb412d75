package tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"sprintpulse/internal/analysis"
	"sprintpulse/internal/jira"
)

// WorkloadTool handles the analyze_team_workload MCP tool: per-assignee
// load, WIP violations and distribution balance for one sprint.
type WorkloadTool struct {
	client      *jira.Client
	pointsField string
}

// NewWorkloadTool creates a WorkloadTool.
func NewWorkloadTool(client *jira.Client, pointsField string) *WorkloadTool {
	return &WorkloadTool{client: client, pointsField: pointsField}
}

// Definition returns the MCP tool definition for analyze_team_workload.
func (t *WorkloadTool) Definition() mcp.Tool {
	return mcp.NewTool("analyze_team_workload",
		mcp.WithDescription(
			"Analyze how sprint work is distributed across the team: "+
				"per-member load levels, WIP violations, unassigned work "+
				"and balance risks.",
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

// Handle processes the analyze_team_workload tool call.
func (t *WorkloadTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
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

	issues, err := t.client.SprintIssues(ctx, boardID, sprintID, analysisMaxResults)
	if err != nil {
		return fetchFailed(fmt.Sprintf("fetch issues for sprint %d", sprintID), err), nil
	}

	report := analysis.AnalyzeWorkload(
		analysis.SprintInfoFrom(*sprint),
		analysis.NormalizeIssues(issues, t.pointsField),
	)
	return jsonResult(report)
}
