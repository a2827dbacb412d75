// Package prompts implements MCP prompt handlers.
//
// MCP prompts are user-triggered workflows (like slash commands) that
// instruct the AI to execute a specific sequence. Unlike tools (which
// the AI calls), prompts are initiated by the user.
package prompts

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

// SprintReviewPrompt handles the sprint-review MCP prompt.
// It guides the AI through a full analytics pass over one sprint.
type SprintReviewPrompt struct{}

// NewSprintReviewPrompt creates a SprintReviewPrompt.
func NewSprintReviewPrompt() *SprintReviewPrompt {
	return &SprintReviewPrompt{}
}

// Definition returns the MCP prompt definition for registration.
func (p *SprintReviewPrompt) Definition() mcp.Prompt {
	return mcp.NewPrompt("sprint-review",
		mcp.WithPromptDescription(
			"Run a full sprint health review: commitment, velocity trend, "+
				"priority focus and team workload, summarized into concrete "+
				"actions for the team.",
		),
		mcp.WithArgument("board_id",
			mcp.ArgumentDescription("Board id to analyze"),
		),
		mcp.WithArgument("sprint_id",
			mcp.ArgumentDescription("Sprint id to analyze (defaults to the active sprint)"),
		),
	)
}

// Handle processes the sprint-review prompt request.
func (p *SprintReviewPrompt) Handle(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	boardID := ""
	sprintID := ""
	if args := req.Params.Arguments; args != nil {
		boardID = args["board_id"]
		sprintID = args["sprint_id"]
	}

	boardClause := "Ask me which board to analyze (use list_boards to show the options)"
	if boardID != "" {
		boardClause = fmt.Sprintf("Use board %s", boardID)
	}
	sprintClause := "find the active sprint with list_sprints (state='active')"
	if sprintID != "" {
		sprintClause = fmt.Sprintf("use sprint %s", sprintID)
	}

	return &mcp.GetPromptResult{
		Description: "Sprint health review",
		Messages: []mcp.PromptMessage{
			{
				Role: mcp.RoleUser,
				Content: mcp.NewTextContent(fmt.Sprintf(
					"I want a full health review of my current sprint.\n\n"+
						"Please:\n"+
						"1. %s, then %s\n"+
						"2. Run `sprint_health_dashboard` for the overall picture\n"+
						"3. Run `analyze_sprint_commitment` to check if the sprint is overcommitted\n"+
						"4. Run `analyze_velocity_trend` to put this sprint in context of recent velocity\n"+
						"5. Run `analyze_priority_focus` and `analyze_team_workload` for the detail views\n"+
						"6. Summarize the findings as a short list of concrete actions, "+
						"most urgent first, citing the numbers behind each one",
					boardClause, sprintClause,
				)),
			},
		},
	}, nil
}
