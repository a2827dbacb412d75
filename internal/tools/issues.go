package tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"sprintpulse/internal/jira"
)

// GetIssueTool handles the get_jira MCP tool: fetch one issue and
// render it as a markdown heading plus description.
type GetIssueTool struct {
	client *jira.Client
}

// NewGetIssueTool creates a GetIssueTool.
func NewGetIssueTool(client *jira.Client) *GetIssueTool {
	return &GetIssueTool{client: client}
}

// Definition returns the MCP tool definition for get_jira.
func (t *GetIssueTool) Definition() mcp.Tool {
	return mcp.NewTool("get_jira",
		mcp.WithDescription(
			"Fetch a Jira issue by key and return it as Markdown: "+
				"'# ISSUE-KEY: summary' followed by the description.",
		),
		mcp.WithString("issue_key",
			mcp.Required(),
			mcp.Description("Issue key, e.g. PROJ-123"),
		),
	)
}

// Handle processes the get_jira tool call.
func (t *GetIssueTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	key := req.GetString("issue_key", "")
	if key == "" {
		return mcp.NewToolResultError("'issue_key' is required"), nil
	}

	issue, err := t.client.Issue(ctx, key)
	if err != nil {
		return fetchFailed(fmt.Sprintf("fetch Jira issue %s", key), err), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("# %s: %s\n\n%s",
		issue.Key, issue.Fields.Summary, issue.Fields.Description)), nil
}

// ─── SearchIssuesTool ───────────────────────────────────────────────────────

// SearchIssuesTool handles the search_issues MCP tool.
type SearchIssuesTool struct {
	client *jira.Client
}

// NewSearchIssuesTool creates a SearchIssuesTool.
func NewSearchIssuesTool(client *jira.Client) *SearchIssuesTool {
	return &SearchIssuesTool{client: client}
}

// Definition returns the MCP tool definition for search_issues.
func (t *SearchIssuesTool) Definition() mcp.Tool {
	return mcp.NewTool("search_issues",
		mcp.WithDescription("Search issues using JQL."),
		mcp.WithString("jql",
			mcp.Required(),
			mcp.Description("JQL query, e.g. 'project = PROJ AND status = \"In Progress\"'"),
		),
		mcp.WithNumber("max_results",
			mcp.Description("Maximum number of issues to return (default 10)"),
		),
	)
}

// Handle processes the search_issues tool call.
func (t *SearchIssuesTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	jql := req.GetString("jql", "")
	if jql == "" {
		return mcp.NewToolResultError("'jql' is required"), nil
	}
	maxResults := req.GetInt("max_results", defaultListResults)

	issues, err := t.client.SearchIssues(ctx, jql, maxResults, "")
	if err != nil {
		return fetchFailed("run JQL search", err), nil
	}
	return jsonResult(issues)
}

// ─── IssueDetailsTool ───────────────────────────────────────────────────────

// IssueDetailsTool handles the get_issues_with_details MCP tool. It
// searches by JQL but flattens each issue to the fields useful for
// sprint analysis, including story points.
type IssueDetailsTool struct {
	client      *jira.Client
	pointsField string
}

// NewIssueDetailsTool creates an IssueDetailsTool.
func NewIssueDetailsTool(client *jira.Client, pointsField string) *IssueDetailsTool {
	return &IssueDetailsTool{client: client, pointsField: pointsField}
}

// Definition returns the MCP tool definition for get_issues_with_details.
func (t *IssueDetailsTool) Definition() mcp.Tool {
	return mcp.NewTool("get_issues_with_details",
		mcp.WithDescription(
			"Search issues using JQL and return detailed fields including "+
				"story points, status, and assignee.",
		),
		mcp.WithString("jql",
			mcp.Required(),
			mcp.Description("JQL query"),
		),
		mcp.WithNumber("max_results",
			mcp.Description("Maximum number of issues to return (default 50)"),
		),
	)
}

// Handle processes the get_issues_with_details tool call.
func (t *IssueDetailsTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	jql := req.GetString("jql", "")
	if jql == "" {
		return mcp.NewToolResultError("'jql' is required"), nil
	}
	maxResults := req.GetInt("max_results", 50)

	fields := jira.DetailFields + "," + t.pointsField
	issues, err := t.client.SearchIssues(ctx, jql, maxResults, fields)
	if err != nil {
		return fetchFailed("get detailed issues", err), nil
	}

	details := make([]issueDetail, len(issues))
	for i, is := range issues {
		details[i] = detailFromIssue(is, t.pointsField)
	}
	return jsonResult(details)
}
