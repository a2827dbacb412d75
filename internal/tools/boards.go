package tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"sprintpulse/internal/jira"
)

// ListBoardsTool handles the list_boards MCP tool.
type ListBoardsTool struct {
	client *jira.Client
}

// NewListBoardsTool creates a ListBoardsTool.
func NewListBoardsTool(client *jira.Client) *ListBoardsTool {
	return &ListBoardsTool{client: client}
}

// Definition returns the MCP tool definition for list_boards.
func (t *ListBoardsTool) Definition() mcp.Tool {
	return mcp.NewTool("list_boards",
		mcp.WithDescription("List agile boards."),
		mcp.WithNumber("max_results",
			mcp.Description("Maximum number of boards to return (default 10)"),
		),
	)
}

// Handle processes the list_boards tool call.
func (t *ListBoardsTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	boards, err := t.client.Boards(ctx, req.GetInt("max_results", defaultListResults))
	if err != nil {
		return fetchFailed("list boards", err), nil
	}
	return jsonResult(boards)
}

// ─── GetBoardTool ───────────────────────────────────────────────────────────

// GetBoardTool handles the get_board MCP tool.
type GetBoardTool struct {
	client *jira.Client
}

// NewGetBoardTool creates a GetBoardTool.
func NewGetBoardTool(client *jira.Client) *GetBoardTool {
	return &GetBoardTool{client: client}
}

// Definition returns the MCP tool definition for get_board.
func (t *GetBoardTool) Definition() mcp.Tool {
	return mcp.NewTool("get_board",
		mcp.WithDescription("Get an agile board by id."),
		mcp.WithNumber("board_id",
			mcp.Required(),
			mcp.Description("Board id"),
		),
	)
}

// Handle processes the get_board tool call.
func (t *GetBoardTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	boardID := req.GetInt("board_id", 0)
	if boardID <= 0 {
		return mcp.NewToolResultError("'board_id' is required"), nil
	}

	board, err := t.client.Board(ctx, boardID)
	if err != nil {
		return fetchFailed(fmt.Sprintf("fetch board %d", boardID), err), nil
	}
	return jsonResult(board)
}

// ─── ListSprintsTool ────────────────────────────────────────────────────────

// ListSprintsTool handles the list_sprints MCP tool.
type ListSprintsTool struct {
	client *jira.Client
}

// NewListSprintsTool creates a ListSprintsTool.
func NewListSprintsTool(client *jira.Client) *ListSprintsTool {
	return &ListSprintsTool{client: client}
}

// Definition returns the MCP tool definition for list_sprints.
func (t *ListSprintsTool) Definition() mcp.Tool {
	return mcp.NewTool("list_sprints",
		mcp.WithDescription("List a board's sprints, optionally filtered by state."),
		mcp.WithNumber("board_id",
			mcp.Required(),
			mcp.Description("Board id"),
		),
		mcp.WithString("state",
			mcp.Description("Sprint state filter: active, closed, future, or a comma-separated combination"),
		),
		mcp.WithNumber("max_results",
			mcp.Description("Maximum number of sprints to return (default 10)"),
		),
	)
}

// Handle processes the list_sprints tool call.
func (t *ListSprintsTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	boardID := req.GetInt("board_id", 0)
	if boardID <= 0 {
		return mcp.NewToolResultError("'board_id' is required"), nil
	}

	sprints, err := t.client.Sprints(ctx, boardID, req.GetString("state", ""), req.GetInt("max_results", defaultListResults))
	if err != nil {
		return fetchFailed(fmt.Sprintf("list sprints for board %d", boardID), err), nil
	}
	return jsonResult(sprints)
}

// ─── GetSprintTool ──────────────────────────────────────────────────────────

// GetSprintTool handles the get_sprint MCP tool.
type GetSprintTool struct {
	client *jira.Client
}

// NewGetSprintTool creates a GetSprintTool.
func NewGetSprintTool(client *jira.Client) *GetSprintTool {
	return &GetSprintTool{client: client}
}

// Definition returns the MCP tool definition for get_sprint.
func (t *GetSprintTool) Definition() mcp.Tool {
	return mcp.NewTool("get_sprint",
		mcp.WithDescription("Get a sprint by id."),
		mcp.WithNumber("sprint_id",
			mcp.Required(),
			mcp.Description("Sprint id"),
		),
	)
}

// Handle processes the get_sprint tool call.
func (t *GetSprintTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sprintID := req.GetInt("sprint_id", 0)
	if sprintID <= 0 {
		return mcp.NewToolResultError("'sprint_id' is required"), nil
	}

	sprint, err := t.client.Sprint(ctx, sprintID)
	if err != nil {
		return fetchFailed(fmt.Sprintf("fetch sprint %d", sprintID), err), nil
	}
	return jsonResult(sprint)
}

// ─── BoardIssuesTool ────────────────────────────────────────────────────────

// BoardIssuesTool handles the get_issues_for_board MCP tool.
type BoardIssuesTool struct {
	client *jira.Client
}

// NewBoardIssuesTool creates a BoardIssuesTool.
func NewBoardIssuesTool(client *jira.Client) *BoardIssuesTool {
	return &BoardIssuesTool{client: client}
}

// Definition returns the MCP tool definition for get_issues_for_board.
func (t *BoardIssuesTool) Definition() mcp.Tool {
	return mcp.NewTool("get_issues_for_board",
		mcp.WithDescription("List issues on a board."),
		mcp.WithNumber("board_id",
			mcp.Required(),
			mcp.Description("Board id"),
		),
		mcp.WithNumber("max_results",
			mcp.Description("Maximum number of issues to return (default 10)"),
		),
	)
}

// Handle processes the get_issues_for_board tool call.
func (t *BoardIssuesTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	boardID := req.GetInt("board_id", 0)
	if boardID <= 0 {
		return mcp.NewToolResultError("'board_id' is required"), nil
	}

	issues, err := t.client.BoardIssues(ctx, boardID, req.GetInt("max_results", defaultListResults))
	if err != nil {
		return fetchFailed(fmt.Sprintf("fetch issues for board %d", boardID), err), nil
	}
	return jsonResult(issues)
}

// ─── SprintIssuesTool ───────────────────────────────────────────────────────

// SprintIssuesTool handles the get_issues_for_sprint MCP tool.
type SprintIssuesTool struct {
	client *jira.Client
}

// NewSprintIssuesTool creates a SprintIssuesTool.
func NewSprintIssuesTool(client *jira.Client) *SprintIssuesTool {
	return &SprintIssuesTool{client: client}
}

// Definition returns the MCP tool definition for get_issues_for_sprint.
func (t *SprintIssuesTool) Definition() mcp.Tool {
	return mcp.NewTool("get_issues_for_sprint",
		mcp.WithDescription("List issues in a sprint on a board."),
		mcp.WithNumber("board_id",
			mcp.Required(),
			mcp.Description("Board id"),
		),
		mcp.WithNumber("sprint_id",
			mcp.Required(),
			mcp.Description("Sprint id"),
		),
		mcp.WithNumber("max_results",
			mcp.Description("Maximum number of issues to return (default 10)"),
		),
	)
}

// Handle processes the get_issues_for_sprint tool call.
func (t *SprintIssuesTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	boardID := req.GetInt("board_id", 0)
	if boardID <= 0 {
		return mcp.NewToolResultError("'board_id' is required"), nil
	}
	sprintID := req.GetInt("sprint_id", 0)
	if sprintID <= 0 {
		return mcp.NewToolResultError("'sprint_id' is required"), nil
	}

	issues, err := t.client.SprintIssues(ctx, boardID, sprintID, req.GetInt("max_results", defaultListResults))
	if err != nil {
		return fetchFailed(fmt.Sprintf("fetch issues for sprint %d", sprintID), err), nil
	}
	return jsonResult(issues)
}
