package tools

import (
	"context"
	"fmt"
	"sync"

	"github.com/mark3labs/mcp-go/mcp"

	"sprintpulse/internal/analysis"
	"sprintpulse/internal/jira"
)

// sprintListFetchSize bounds the sprint listing behind the trend window;
// the window itself is cut after date filtering and sorting.
const sprintListFetchSize = 50

// VelocityTool handles the analyze_velocity_trend MCP tool: pick the
// most recent dated sprints on a board, fetch their issues concurrently,
// and run the trend analyzer over the joined snapshots.
type VelocityTool struct {
	client      *jira.Client
	pointsField string
}

// NewVelocityTool creates a VelocityTool.
func NewVelocityTool(client *jira.Client, pointsField string) *VelocityTool {
	return &VelocityTool{client: client, pointsField: pointsField}
}

// Definition returns the MCP tool definition for analyze_velocity_trend.
func (t *VelocityTool) Definition() mcp.Tool {
	return mcp.NewTool("analyze_velocity_trend",
		mcp.WithDescription(
			"Analyze velocity across a board's recent sprints: per-sprint "+
				"completed work, trend direction and percentage change.",
		),
		mcp.WithNumber("board_id",
			mcp.Required(),
			mcp.Description("Board id"),
		),
		mcp.WithNumber("sprint_count",
			mcp.Description("Number of recent sprints to analyze (default 3)"),
		),
	)
}

// Handle processes the analyze_velocity_trend tool call. The per-sprint
// issue fetches run concurrently; any failed fetch aborts the analysis
// so a partial window is never analyzed.
func (t *VelocityTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	boardID := req.GetInt("board_id", 0)
	if boardID <= 0 {
		return mcp.NewToolResultError("'board_id' is required"), nil
	}
	window := req.GetInt("sprint_count", analysis.DefaultTrendWindow)
	if window < 1 {
		window = analysis.DefaultTrendWindow
	}

	sprints, err := t.client.Sprints(ctx, boardID, "active,closed", sprintListFetchSize)
	if err != nil {
		return fetchFailed(fmt.Sprintf("list sprints for board %d", boardID), err), nil
	}

	infos := make([]analysis.SprintInfo, len(sprints))
	for i, s := range sprints {
		infos[i] = analysis.SprintInfoFrom(s)
	}
	recent := analysis.SelectRecentSprints(infos, window)

	snapshots := make([]analysis.SprintSnapshot, len(recent))
	errs := make([]error, len(recent))
	var wg sync.WaitGroup
	for i, info := range recent {
		wg.Add(1)
		go func(i int, info analysis.SprintInfo) {
			defer wg.Done()
			jql := fmt.Sprintf("sprint = %d", info.ID)
			issues, err := t.client.SearchIssues(ctx, jql, analysisMaxResults, jira.AnalysisFields(t.pointsField))
			if err != nil {
				errs[i] = err
				return
			}
			snapshots[i] = analysis.SprintSnapshot{
				Sprint:  info,
				Records: analysis.NormalizeIssues(issues, t.pointsField),
			}
		}(i, info)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			return fetchFailed(fmt.Sprintf("fetch issues for sprint %d", recent[i].ID), err), nil
		}
	}

	report := analysis.AnalyzeVelocityTrend(boardID, snapshots, window)
	return jsonResult(report)
}
