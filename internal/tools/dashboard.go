package tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"sprintpulse/internal/analysis"
	"sprintpulse/internal/jira"
)

// DashboardTool handles the sprint_health_dashboard MCP tool: one fetch,
// one pass, the composed commitment/priority/workload health view.
type DashboardTool struct {
	client      *jira.Client
	pointsField string
}

// NewDashboardTool creates a DashboardTool.
func NewDashboardTool(client *jira.Client, pointsField string) *DashboardTool {
	return &DashboardTool{client: client, pointsField: pointsField}
}

// Definition returns the MCP tool definition for sprint_health_dashboard.
func (t *DashboardTool) Definition() mcp.Tool {
	return mcp.NewTool("sprint_health_dashboard",
		mcp.WithDescription(
			"Build a composed sprint health dashboard: overall risk level, "+
				"commitment, priority and team summaries, key recommendations "+
				"and detailed breakdowns.",
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

// Handle processes the sprint_health_dashboard tool call.
func (t *DashboardTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
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

	report := analysis.BuildDashboard(
		boardID,
		analysis.SprintInfoFrom(*sprint),
		analysis.NormalizeIssues(issues, t.pointsField),
	)
	return jsonResult(report)
}
