package tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"sprintpulse/internal/analysis"
	"sprintpulse/internal/jira"
)

// CommitmentTool handles the analyze_sprint_commitment MCP tool: fetch
// one sprint's issues, normalize them, and run the commitment analyzer.
type CommitmentTool struct {
	client      *jira.Client
	pointsField string
}

// NewCommitmentTool creates a CommitmentTool.
func NewCommitmentTool(client *jira.Client, pointsField string) *CommitmentTool {
	return &CommitmentTool{client: client, pointsField: pointsField}
}

// Definition returns the MCP tool definition for analyze_sprint_commitment.
func (t *CommitmentTool) Definition() mcp.Tool {
	return mcp.NewTool("analyze_sprint_commitment",
		mcp.WithDescription(
			"Analyze whether a sprint is overcommitted: completion rate, "+
				"remaining work, health risk and recommendations. Uses story "+
				"points when the sprint has them, issue counts otherwise.",
		),
		mcp.WithNumber("sprint_id",
			mcp.Required(),
			mcp.Description("Sprint id"),
		),
	)
}

// Handle processes the analyze_sprint_commitment tool call.
func (t *CommitmentTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sprintID := req.GetInt("sprint_id", 0)
	if sprintID <= 0 {
		return mcp.NewToolResultError("'sprint_id' is required"), nil
	}

	sprint, err := t.client.Sprint(ctx, sprintID)
	if err != nil {
		return fetchFailed(fmt.Sprintf("fetch sprint %d", sprintID), err), nil
	}

	// The sprint JQL clause works regardless of which board the sprint
	// originated on, so the tool only needs the sprint id.
	jql := fmt.Sprintf("sprint = %d", sprintID)
	issues, err := t.client.SearchIssues(ctx, jql, analysisMaxResults, jira.AnalysisFields(t.pointsField))
	if err != nil {
		return fetchFailed(fmt.Sprintf("fetch issues for sprint %d", sprintID), err), nil
	}

	report := analysis.AnalyzeCommitment(
		analysis.SprintInfoFrom(*sprint),
		analysis.NormalizeIssues(issues, t.pointsField),
	)
	return jsonResult(report)
}
