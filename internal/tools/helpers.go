// Package tools implements the MCP tool handlers.
//
// Each tool is a struct holding its dependencies (the Jira client and,
// for the analytics tools, the story-point field id) with a
// Definition/Handle pair compatible with mcp-go's registration API.
//
// Handlers return domain failures via mcp.NewToolResultError so the
// caller sees a tool-level error rather than a protocol fault; Go
// errors are reserved for the transport itself.
package tools

import (
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"sprintpulse/internal/jira"
)

// defaultListResults caps list endpoints when the caller doesn't ask
// for a specific page size.
const defaultListResults = 10

// analysisMaxResults caps the issue fetch behind each analytics tool.
// One sprint rarely holds more.
const analysisMaxResults = 200

// jsonBlock renders any value as an indented JSON code fence, the
// response format shared by every pass-through and analytics tool.
func jsonBlock(v any) (string, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encoding response: %w", err)
	}
	return "```json\n" + string(data) + "\n```", nil
}

// jsonResult wraps a value in a JSON fence tool result.
func jsonResult(v any) (*mcp.CallToolResult, error) {
	block, err := jsonBlock(v)
	if err != nil {
		return nil, err
	}
	return mcp.NewToolResultText(block), nil
}

// fetchFailed converts a fetch error into a tool error result, keeping
// the taxonomy (not found / invalid query / upstream failure) visible
// in the message.
func fetchFailed(what string, err error) *mcp.CallToolResult {
	return mcp.NewToolResultError(fmt.Sprintf("Failed to %s: %v", what, err))
}

// issueDetail is the flattened per-issue shape of the detail tools,
// with nullable fields kept nullable to mirror the tracker.
type issueDetail struct {
	Key            string   `json:"key"`
	Summary        string   `json:"summary"`
	Status         string   `json:"status"`
	StatusCategory string   `json:"status_category"`
	Assignee       string   `json:"assignee"`
	StoryPoints    *float64 `json:"story_points"`
	Priority       *string  `json:"priority"`
	IssueType      string   `json:"issue_type"`
	Created        string   `json:"created"`
	Updated        string   `json:"updated"`
	Resolution     *string  `json:"resolution"`
	ResolutionDate *string  `json:"resolution_date"`
}

// detailFromIssue flattens a raw issue for detail output.
func detailFromIssue(is jira.Issue, pointsField string) issueDetail {
	d := issueDetail{
		Key:         is.Key,
		Summary:     is.Fields.Summary,
		Assignee:    "Unassigned",
		Created:     is.Fields.Created,
		Updated:     is.Fields.Updated,
		StoryPoints: is.StoryPoints(pointsField),
	}
	if st := is.Fields.Status; st != nil {
		d.Status = st.Name
		d.StatusCategory = st.Category.Name
	}
	if a := is.Fields.Assignee; a != nil && a.DisplayName != "" {
		d.Assignee = a.DisplayName
	}
	if p := is.Fields.Priority; p != nil {
		name := p.Name
		d.Priority = &name
	}
	if it := is.Fields.IssueType; it != nil {
		d.IssueType = it.Name
	}
	if r := is.Fields.Resolution; r != nil {
		name := r.Name
		d.Resolution = &name
	}
	if rd := is.Fields.ResolutionDate; rd != "" {
		d.ResolutionDate = &rd
	}
	return d
}
