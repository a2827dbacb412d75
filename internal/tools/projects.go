package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"sprintpulse/internal/jira"
)

// projectLookup is the shape shared by every per-project read: resolve
// the project key, call one client method, render the JSON. The seven
// project tools differ only in name, description and fetch func.
type projectLookup struct {
	name        string
	description string
	fetch       func(ctx context.Context, client *jira.Client, key string) (any, error)
}

// ProjectTool handles one project-scoped MCP tool.
type ProjectTool struct {
	client *jira.Client
	lookup projectLookup
}

func newProjectTool(client *jira.Client, lookup projectLookup) *ProjectTool {
	return &ProjectTool{client: client, lookup: lookup}
}

// NewGetProjectTool creates the get_project tool.
func NewGetProjectTool(client *jira.Client) *ProjectTool {
	return newProjectTool(client, projectLookup{
		name:        "get_project",
		description: "Get a project by key.",
		fetch: func(ctx context.Context, c *jira.Client, key string) (any, error) {
			return c.Project(ctx, key)
		},
	})
}

// NewProjectComponentsTool creates the get_project_components tool.
func NewProjectComponentsTool(client *jira.Client) *ProjectTool {
	return newProjectTool(client, projectLookup{
		name:        "get_project_components",
		description: "List a project's components.",
		fetch: func(ctx context.Context, c *jira.Client, key string) (any, error) {
			return c.ProjectComponents(ctx, key)
		},
	})
}

// NewProjectVersionsTool creates the get_project_versions tool.
func NewProjectVersionsTool(client *jira.Client) *ProjectTool {
	return newProjectTool(client, projectLookup{
		name:        "get_project_versions",
		description: "List a project's versions.",
		fetch: func(ctx context.Context, c *jira.Client, key string) (any, error) {
			return c.ProjectVersions(ctx, key)
		},
	})
}

// NewProjectRolesTool creates the get_project_roles tool.
func NewProjectRolesTool(client *jira.Client) *ProjectTool {
	return newProjectTool(client, projectLookup{
		name:        "get_project_roles",
		description: "List a project's roles.",
		fetch: func(ctx context.Context, c *jira.Client, key string) (any, error) {
			return c.ProjectRoles(ctx, key)
		},
	})
}

// NewProjectPermissionSchemeTool creates the get_project_permission_scheme tool.
func NewProjectPermissionSchemeTool(client *jira.Client) *ProjectTool {
	return newProjectTool(client, projectLookup{
		name:        "get_project_permission_scheme",
		description: "Get a project's permission scheme.",
		fetch: func(ctx context.Context, c *jira.Client, key string) (any, error) {
			return c.ProjectPermissionScheme(ctx, key)
		},
	})
}

// NewProjectIssueTypesTool creates the get_project_issue_types tool.
func NewProjectIssueTypesTool(client *jira.Client) *ProjectTool {
	return newProjectTool(client, projectLookup{
		name:        "get_project_issue_types",
		description: "List a project's issue types with their workflow statuses.",
		fetch: func(ctx context.Context, c *jira.Client, key string) (any, error) {
			return c.ProjectIssueTypes(ctx, key)
		},
	})
}

// Definition returns the MCP tool definition for the configured lookup.
func (t *ProjectTool) Definition() mcp.Tool {
	return mcp.NewTool(t.lookup.name,
		mcp.WithDescription(t.lookup.description),
		mcp.WithString("project_key",
			mcp.Required(),
			mcp.Description("Project key, e.g. PROJ"),
		),
	)
}

// Handle processes the project-scoped tool call.
func (t *ProjectTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	key := req.GetString("project_key", "")
	if key == "" {
		return mcp.NewToolResultError("'project_key' is required"), nil
	}

	v, err := t.lookup.fetch(ctx, t.client, key)
	if err != nil {
		return fetchFailed("fetch project data for "+key, err), nil
	}
	return jsonResult(v)
}

// ─── ListProjectsTool ───────────────────────────────────────────────────────

// ListProjectsTool handles the list_projects MCP tool.
type ListProjectsTool struct {
	client *jira.Client
}

// NewListProjectsTool creates a ListProjectsTool.
func NewListProjectsTool(client *jira.Client) *ListProjectsTool {
	return &ListProjectsTool{client: client}
}

// Definition returns the MCP tool definition for list_projects.
func (t *ListProjectsTool) Definition() mcp.Tool {
	return mcp.NewTool("list_projects",
		mcp.WithDescription("List all projects visible to the authenticated user."),
	)
}

// Handle processes the list_projects tool call.
func (t *ListProjectsTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	projects, err := t.client.Projects(ctx)
	if err != nil {
		return fetchFailed("list projects", err), nil
	}
	return jsonResult(projects)
}
