package jira

import "encoding/json"

// Status is an issue's workflow status, including the status category
// Jira assigns to it ("To Do", "In Progress", "Done", ...).
type Status struct {
	Name     string         `json:"name"`
	Category StatusCategory `json:"statusCategory"`
}

// StatusCategory groups workflow statuses into coarse lifecycle stages.
type StatusCategory struct {
	Key  string `json:"key"`
	Name string `json:"name"`
}

// Priority is an issue priority as configured in Jira.
type Priority struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Resolution marks how an issue was closed.
type Resolution struct {
	Name string `json:"name"`
}

// IssueType identifies the kind of issue (Story, Bug, Task, ...).
type IssueType struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Subtask bool   `json:"subtask"`
}

// User is a Jira account.
type User struct {
	AccountID    string `json:"accountId"`
	DisplayName  string `json:"displayName"`
	EmailAddress string `json:"emailAddress,omitempty"`
	Active       bool   `json:"active"`
}

// Project is a Jira project.
type Project struct {
	ID         string      `json:"id"`
	Key        string      `json:"key"`
	Name       string      `json:"name"`
	IssueTypes []IssueType `json:"issueTypes,omitempty"`
}

// Component is a project component.
type Component struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// Version is a project (fix) version.
type Version struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Released    bool   `json:"released"`
	ReleaseDate string `json:"releaseDate,omitempty"`
}

// PermissionScheme is a project's permission scheme.
type PermissionScheme struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// IssueTypeStatuses pairs an issue type with its valid workflow statuses,
// as returned by the project statuses endpoint.
type IssueTypeStatuses struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Subtask  bool     `json:"subtask"`
	Statuses []Status `json:"statuses"`
}

// Board is a Jira software board (scrum or kanban).
type Board struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Type string `json:"type"`
}

// Sprint is a board sprint. Dates are kept as the raw strings Jira
// returns; callers parse them when they need ordering.
type Sprint struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	State     string `json:"state"`
	StartDate string `json:"startDate,omitempty"`
	EndDate   string `json:"endDate,omitempty"`
	BoardID   int    `json:"originBoardId,omitempty"`
}

// IssueFields holds the issue fields this server requests. Custom fields
// (notably the story-point estimate, whose field id varies per site) land
// in Extra so callers can decode them by configured field id.
type IssueFields struct {
	Summary        string      `json:"summary"`
	Description    string      `json:"description,omitempty"`
	Status         *Status     `json:"status,omitempty"`
	Assignee       *User       `json:"assignee,omitempty"`
	Priority       *Priority   `json:"priority,omitempty"`
	IssueType      *IssueType  `json:"issuetype,omitempty"`
	Project        *Project    `json:"project,omitempty"`
	Created        string      `json:"created,omitempty"`
	Updated        string      `json:"updated,omitempty"`
	Resolution     *Resolution `json:"resolution,omitempty"`
	ResolutionDate string      `json:"resolutiondate,omitempty"`

	// Extra keeps every raw field keyed by Jira field id, populated
	// during unmarshaling. Never marshaled back.
	Extra map[string]json.RawMessage `json:"-"`
}

// UnmarshalJSON decodes the typed fields and additionally captures the
// full raw field map so custom fields stay reachable.
func (f *IssueFields) UnmarshalJSON(data []byte) error {
	type alias IssueFields
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*f = IssueFields(a)
	f.Extra = raw
	return nil
}

// Issue is a Jira issue with the fields this server requests.
type Issue struct {
	ID     string      `json:"id"`
	Key    string      `json:"key"`
	Fields IssueFields `json:"fields"`
}

// StoryPoints decodes the story-point estimate from the custom field
// with the given id. Returns nil when the field is absent or null.
func (i Issue) StoryPoints(fieldID string) *float64 {
	raw, ok := i.Fields.Extra[fieldID]
	if !ok {
		return nil
	}
	var pts *float64
	if err := json.Unmarshal(raw, &pts); err != nil {
		return nil
	}
	return pts
}

// SearchResult is the response envelope of the issue search endpoint.
type SearchResult struct {
	StartAt    int     `json:"startAt"`
	MaxResults int     `json:"maxResults"`
	Total      int     `json:"total"`
	Issues     []Issue `json:"issues"`
}

// BoardList is the paged response envelope of the board list endpoint.
type BoardList struct {
	StartAt    int     `json:"startAt"`
	MaxResults int     `json:"maxResults"`
	IsLast     bool    `json:"isLast"`
	Values     []Board `json:"values"`
}

// SprintList is the paged response envelope of the board sprint endpoint.
type SprintList struct {
	StartAt    int      `json:"startAt"`
	MaxResults int      `json:"maxResults"`
	IsLast     bool     `json:"isLast"`
	Values     []Sprint `json:"values"`
}
