package tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"sprintpulse/internal/jira"
)

// SearchUsersTool handles the search_users MCP tool.
type SearchUsersTool struct {
	client *jira.Client
}

// NewSearchUsersTool creates a SearchUsersTool.
func NewSearchUsersTool(client *jira.Client) *SearchUsersTool {
	return &SearchUsersTool{client: client}
}

// Definition returns the MCP tool definition for search_users.
func (t *SearchUsersTool) Definition() mcp.Tool {
	return mcp.NewTool("search_users",
		mcp.WithDescription("Search users by query."),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("Display name or email fragment to search for"),
		),
		mcp.WithNumber("max_results",
			mcp.Description("Maximum number of users to return (default 10)"),
		),
	)
}

// Handle processes the search_users tool call.
func (t *SearchUsersTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query := req.GetString("query", "")
	if query == "" {
		return mcp.NewToolResultError("'query' is required"), nil
	}

	users, err := t.client.SearchUsers(ctx, query, req.GetInt("max_results", defaultListResults))
	if err != nil {
		return fetchFailed("search users", err), nil
	}
	return jsonResult(users)
}

// ─── CurrentUserTool ────────────────────────────────────────────────────────

// CurrentUserTool handles the get_current_user MCP tool.
type CurrentUserTool struct {
	client *jira.Client
}

// NewCurrentUserTool creates a CurrentUserTool.
func NewCurrentUserTool(client *jira.Client) *CurrentUserTool {
	return &CurrentUserTool{client: client}
}

// Definition returns the MCP tool definition for get_current_user.
func (t *CurrentUserTool) Definition() mcp.Tool {
	return mcp.NewTool("get_current_user",
		mcp.WithDescription("Get info about the authenticated user."),
	)
}

// Handle processes the get_current_user tool call.
func (t *CurrentUserTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	user, err := t.client.Myself(ctx)
	if err != nil {
		return fetchFailed("fetch current user", err), nil
	}
	return jsonResult(user)
}

// ─── GetUserTool ────────────────────────────────────────────────────────────

// GetUserTool handles the get_user MCP tool.
type GetUserTool struct {
	client *jira.Client
}

// NewGetUserTool creates a GetUserTool.
func NewGetUserTool(client *jira.Client) *GetUserTool {
	return &GetUserTool{client: client}
}

// Definition returns the MCP tool definition for get_user.
func (t *GetUserTool) Definition() mcp.Tool {
	return mcp.NewTool("get_user",
		mcp.WithDescription("Get a user by account ID."),
		mcp.WithString("account_id",
			mcp.Required(),
			mcp.Description("Jira account ID"),
		),
	)
}

// Handle processes the get_user tool call.
func (t *GetUserTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	accountID := req.GetString("account_id", "")
	if accountID == "" {
		return mcp.NewToolResultError("'account_id' is required"), nil
	}

	user, err := t.client.User(ctx, accountID)
	if err != nil {
		return fetchFailed(fmt.Sprintf("fetch user %s", accountID), err), nil
	}
	return jsonResult(user)
}

// ─── AssignableUsersTool ────────────────────────────────────────────────────

// AssignableUsersTool handles both assignable-user MCP tools: scoped to
// a project (get_assignable_users_for_project) or to a single issue
// (get_assignable_users_for_issue), depending on how it's constructed.
type AssignableUsersTool struct {
	client   *jira.Client
	forIssue bool
}

// NewAssignableUsersForProjectTool creates the project-scoped variant.
func NewAssignableUsersForProjectTool(client *jira.Client) *AssignableUsersTool {
	return &AssignableUsersTool{client: client}
}

// NewAssignableUsersForIssueTool creates the issue-scoped variant.
func NewAssignableUsersForIssueTool(client *jira.Client) *AssignableUsersTool {
	return &AssignableUsersTool{client: client, forIssue: true}
}

// Definition returns the MCP tool definition for the configured scope.
func (t *AssignableUsersTool) Definition() mcp.Tool {
	if t.forIssue {
		return mcp.NewTool("get_assignable_users_for_issue",
			mcp.WithDescription("Get users assignable to an issue."),
			mcp.WithString("issue_key",
				mcp.Required(),
				mcp.Description("Issue key, e.g. PROJ-123"),
			),
			mcp.WithString("query",
				mcp.Description("Optional name/email filter"),
			),
			mcp.WithNumber("max_results",
				mcp.Description("Maximum number of users to return (default 10)"),
			),
		)
	}
	return mcp.NewTool("get_assignable_users_for_project",
		mcp.WithDescription("Get users assignable to issues in a project."),
		mcp.WithString("project_key",
			mcp.Required(),
			mcp.Description("Project key, e.g. PROJ"),
		),
		mcp.WithString("query",
			mcp.Description("Optional name/email filter"),
		),
		mcp.WithNumber("max_results",
			mcp.Description("Maximum number of users to return (default 10)"),
		),
	)
}

// Handle processes the assignable-users tool call.
func (t *AssignableUsersTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query := req.GetString("query", "")
	maxResults := req.GetInt("max_results", defaultListResults)

	var users []jira.User
	var err error
	if t.forIssue {
		issueKey := req.GetString("issue_key", "")
		if issueKey == "" {
			return mcp.NewToolResultError("'issue_key' is required"), nil
		}
		users, err = t.client.AssignableUsersForIssue(ctx, query, issueKey, maxResults)
	} else {
		projectKey := req.GetString("project_key", "")
		if projectKey == "" {
			return mcp.NewToolResultError("'project_key' is required"), nil
		}
		users, err = t.client.AssignableUsersForProject(ctx, query, projectKey, maxResults)
	}
	if err != nil {
		return fetchFailed("get assignable users", err), nil
	}
	return jsonResult(users)
}
