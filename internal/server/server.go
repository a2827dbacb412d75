// Package server wires all MCP components and creates the server instance.
//
// This is the composition root: it builds the Jira client from config
// and injects it into every tool and prompt. No business logic lives
// here, only wiring.
package server

import (
	"github.com/mark3labs/mcp-go/server"

	"sprintpulse/internal/config"
	"sprintpulse/internal/jira"
	"sprintpulse/internal/prompts"
	"sprintpulse/internal/tools"
)

// Version is set at build time via ldflags.
var Version = "dev"

// New creates and configures the MCP server with all tools and prompts
// registered. This is the single place where dependencies are resolved.
func New(cfg *config.Config) *server.MCPServer {
	client := jira.NewClient(cfg.JiraURL, cfg.JiraEmail, cfg.JiraAPIToken, cfg.Timeout())
	pointsField := cfg.StoryPointField

	s := server.NewMCPServer(
		"sprintpulse",
		Version,
		server.WithToolCapabilities(true),
		server.WithPromptCapabilities(true),
		server.WithRecovery(),
		server.WithInstructions(serverInstructions()),
	)

	// --- Issue tools ---

	getIssue := tools.NewGetIssueTool(client)
	s.AddTool(getIssue.Definition(), getIssue.Handle)

	searchIssues := tools.NewSearchIssuesTool(client)
	s.AddTool(searchIssues.Definition(), searchIssues.Handle)

	issueDetails := tools.NewIssueDetailsTool(client, pointsField)
	s.AddTool(issueDetails.Definition(), issueDetails.Handle)

	// --- User tools ---

	searchUsers := tools.NewSearchUsersTool(client)
	s.AddTool(searchUsers.Definition(), searchUsers.Handle)

	currentUser := tools.NewCurrentUserTool(client)
	s.AddTool(currentUser.Definition(), currentUser.Handle)

	getUser := tools.NewGetUserTool(client)
	s.AddTool(getUser.Definition(), getUser.Handle)

	assignableForProject := tools.NewAssignableUsersForProjectTool(client)
	s.AddTool(assignableForProject.Definition(), assignableForProject.Handle)

	assignableForIssue := tools.NewAssignableUsersForIssueTool(client)
	s.AddTool(assignableForIssue.Definition(), assignableForIssue.Handle)

	// --- Project tools ---

	listProjects := tools.NewListProjectsTool(client)
	s.AddTool(listProjects.Definition(), listProjects.Handle)

	for _, pt := range []*tools.ProjectTool{
		tools.NewGetProjectTool(client),
		tools.NewProjectComponentsTool(client),
		tools.NewProjectVersionsTool(client),
		tools.NewProjectRolesTool(client),
		tools.NewProjectPermissionSchemeTool(client),
		tools.NewProjectIssueTypesTool(client),
	} {
		s.AddTool(pt.Definition(), pt.Handle)
	}

	// --- Board and sprint tools ---

	listBoards := tools.NewListBoardsTool(client)
	s.AddTool(listBoards.Definition(), listBoards.Handle)

	getBoard := tools.NewGetBoardTool(client)
	s.AddTool(getBoard.Definition(), getBoard.Handle)

	listSprints := tools.NewListSprintsTool(client)
	s.AddTool(listSprints.Definition(), listSprints.Handle)

	getSprint := tools.NewGetSprintTool(client)
	s.AddTool(getSprint.Definition(), getSprint.Handle)

	boardIssues := tools.NewBoardIssuesTool(client)
	s.AddTool(boardIssues.Definition(), boardIssues.Handle)

	sprintIssues := tools.NewSprintIssuesTool(client)
	s.AddTool(sprintIssues.Definition(), sprintIssues.Handle)

	// --- Analytics tools ---

	commitment := tools.NewCommitmentTool(client, pointsField)
	s.AddTool(commitment.Definition(), commitment.Handle)

	velocity := tools.NewVelocityTool(client, pointsField)
	s.AddTool(velocity.Definition(), velocity.Handle)

	priorityFocus := tools.NewPriorityFocusTool(client, pointsField)
	s.AddTool(priorityFocus.Definition(), priorityFocus.Handle)

	workload := tools.NewWorkloadTool(client, pointsField)
	s.AddTool(workload.Definition(), workload.Handle)

	dashboard := tools.NewDashboardTool(client, pointsField)
	s.AddTool(dashboard.Definition(), dashboard.Handle)

	// --- Prompts ---

	review := prompts.NewSprintReviewPrompt()
	s.AddPrompt(review.Definition(), review.Handle)

	return s
}

// serverInstructions returns the system instructions that tell the AI
// how to use the sprint analytics tools effectively.
func serverInstructions() string {
	return `You have access to SprintPulse, a Jira sprint analytics MCP server.

## What it does
SprintPulse reads Jira boards and sprints and turns raw issues into
sprint health analytics: commitment, velocity trend, priority focus,
team workload, and a composed health dashboard. It never modifies Jira.

## Finding your way around
- list_boards / list_sprints to discover boards and sprints
- list_sprints with state='active' finds the sprint currently running
- get_issues_for_sprint shows the raw issues behind any analysis
- search_issues runs arbitrary JQL when you need something specific

## Analytics tools
- sprint_health_dashboard(board_id, sprint_id): start here. One call,
  the composed view: overall risk, commitment, priority and team
  summaries plus prioritized recommendations.
- analyze_sprint_commitment(sprint_id): is the sprint overcommitted?
  Completion rate against thresholds, remaining work, health risk.
- analyze_velocity_trend(board_id, sprint_count): velocity across the
  recent sprints, trend direction and percentage change. Needs at
  least two dated sprints; fewer returns INSUFFICIENT_DATA.
- analyze_priority_focus(board_id, sprint_id): is the team working the
  right priorities? Includes high-priority items idle in the backlog.
- analyze_team_workload(board_id, sprint_id): per-member load levels,
  WIP violations, unassigned work and balance risks.

## Reading the numbers
- Analyses use story points when the sprint's issues carry them, and
  fall back to issue counts otherwise. Every report says which metric
  it used (uses_story_points / metric_type).
- Rates are percentages rounded to one decimal.
- Risk levels are LOW / MEDIUM / HIGH; commitment statuses run from
  ON_TRACK down to SEVERELY_OVERCOMMITTED.

## Good workflow
1. Run sprint_health_dashboard first for orientation.
2. Drill into the specific analyzer behind any flagged risk.
3. When presenting findings, cite the numbers (rates, counts, names)
   rather than just the labels, and lead with the recommendations.

## Errors
"not found" means the board/sprint/issue id is wrong; "invalid query"
means the JQL is malformed. Anything else is a Jira availability
problem - retry later rather than changing the query.`
}
