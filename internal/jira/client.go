// Package jira is the issue-tracker access layer: a thin REST client for
// the Jira core (v2) and agile (1.0) APIs covering exactly the reads the
// analytics tools need. It never retries — a failed fetch aborts the
// request it belongs to, and classification happens through the error
// taxonomy in errors.go.
package jira

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// DetailFields lists the issue fields the pass-through detail tools
// request, excluding the story-point field (whose id is configured).
const DetailFields = "summary,status,assignee,priority,issuetype,created,updated,resolution,resolutiondate"

// AnalysisFields builds the field selector for analytics fetches,
// including the configured story-point custom field.
func AnalysisFields(pointsField string) string {
	return "summary,status," + pointsField + ",assignee,priority,issuetype,created"
}

// Client talks to one Jira site. Safe for concurrent use.
type Client struct {
	baseURL string
	email   string
	token   string
	http    *http.Client
}

// NewClient creates a client for the given site. When email is set,
// requests use basic auth (Jira Cloud API tokens); otherwise the token
// is sent as a bearer token (Jira Server/DC personal access tokens).
func NewClient(baseURL, email, token string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		email:   email,
		token:   token,
		http:    &http.Client{Timeout: timeout},
	}
}

// get performs a GET against path, decodes a 2xx JSON body into out,
// and converts any non-2xx response into an *APIError.
func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("building request for %s: %w", path, err)
	}
	req.Header.Set("Accept", "application/json")
	if c.email != "" {
		req.SetBasicAuth(c.email, c.token)
	} else {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("jira: GET %s: %w", path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 16<<10))
		return &APIError{
			StatusCode: resp.StatusCode,
			Endpoint:   path,
			Message:    apiMessage(body),
		}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("jira: decoding %s response: %w", path, err)
	}
	return nil
}

// ─── Issues ─────────────────────────────────────────────────────────────────

// Issue fetches a single issue by key.
func (c *Client) Issue(ctx context.Context, key string) (*Issue, error) {
	var is Issue
	if err := c.get(ctx, "/rest/api/2/issue/"+url.PathEscape(key), nil, &is); err != nil {
		return nil, err
	}
	return &is, nil
}

// SearchIssues runs a JQL search. fields may be empty to let Jira return
// its default field set.
func (c *Client) SearchIssues(ctx context.Context, jql string, maxResults int, fields string) ([]Issue, error) {
	q := url.Values{}
	q.Set("jql", jql)
	q.Set("maxResults", strconv.Itoa(maxResults))
	if fields != "" {
		q.Set("fields", fields)
	}
	var res SearchResult
	if err := c.get(ctx, "/rest/api/2/search", q, &res); err != nil {
		return nil, err
	}
	return res.Issues, nil
}

// ─── Users ──────────────────────────────────────────────────────────────────

// Myself fetches the authenticated user.
func (c *Client) Myself(ctx context.Context) (*User, error) {
	var u User
	if err := c.get(ctx, "/rest/api/2/myself", nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// User fetches a user by account id.
func (c *Client) User(ctx context.Context, accountID string) (*User, error) {
	q := url.Values{}
	q.Set("accountId", accountID)
	var u User
	if err := c.get(ctx, "/rest/api/2/user", q, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// SearchUsers searches users by display name or email.
func (c *Client) SearchUsers(ctx context.Context, query string, maxResults int) ([]User, error) {
	q := url.Values{}
	q.Set("query", query)
	q.Set("maxResults", strconv.Itoa(maxResults))
	var users []User
	if err := c.get(ctx, "/rest/api/2/user/search", q, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// AssignableUsersForProject lists users assignable to issues in a project.
func (c *Client) AssignableUsersForProject(ctx context.Context, query, projectKey string, maxResults int) ([]User, error) {
	q := url.Values{}
	q.Set("query", query)
	q.Set("project", projectKey)
	q.Set("maxResults", strconv.Itoa(maxResults))
	var users []User
	if err := c.get(ctx, "/rest/api/2/user/assignable/search", q, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// AssignableUsersForIssue lists users assignable to a specific issue.
func (c *Client) AssignableUsersForIssue(ctx context.Context, query, issueKey string, maxResults int) ([]User, error) {
	q := url.Values{}
	q.Set("query", query)
	q.Set("issueKey", issueKey)
	q.Set("maxResults", strconv.Itoa(maxResults))
	var users []User
	if err := c.get(ctx, "/rest/api/2/user/assignable/search", q, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// ─── Projects ───────────────────────────────────────────────────────────────

// Projects lists all projects visible to the authenticated user.
func (c *Client) Projects(ctx context.Context) ([]Project, error) {
	var ps []Project
	if err := c.get(ctx, "/rest/api/2/project", nil, &ps); err != nil {
		return nil, err
	}
	return ps, nil
}

// Project fetches a project by key.
func (c *Client) Project(ctx context.Context, key string) (*Project, error) {
	var p Project
	if err := c.get(ctx, "/rest/api/2/project/"+url.PathEscape(key), nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// ProjectComponents lists a project's components.
func (c *Client) ProjectComponents(ctx context.Context, key string) ([]Component, error) {
	var cs []Component
	if err := c.get(ctx, "/rest/api/2/project/"+url.PathEscape(key)+"/components", nil, &cs); err != nil {
		return nil, err
	}
	return cs, nil
}

// ProjectVersions lists a project's versions.
func (c *Client) ProjectVersions(ctx context.Context, key string) ([]Version, error) {
	var vs []Version
	if err := c.get(ctx, "/rest/api/2/project/"+url.PathEscape(key)+"/versions", nil, &vs); err != nil {
		return nil, err
	}
	return vs, nil
}

// ProjectRoles maps role names to their resource URLs for a project.
func (c *Client) ProjectRoles(ctx context.Context, key string) (map[string]string, error) {
	roles := map[string]string{}
	if err := c.get(ctx, "/rest/api/2/project/"+url.PathEscape(key)+"/role", nil, &roles); err != nil {
		return nil, err
	}
	return roles, nil
}

// ProjectPermissionScheme fetches the permission scheme of a project.
func (c *Client) ProjectPermissionScheme(ctx context.Context, key string) (*PermissionScheme, error) {
	var ps PermissionScheme
	if err := c.get(ctx, "/rest/api/2/project/"+url.PathEscape(key)+"/permissionscheme", nil, &ps); err != nil {
		return nil, err
	}
	return &ps, nil
}

// ProjectIssueTypes lists a project's issue types with their statuses.
func (c *Client) ProjectIssueTypes(ctx context.Context, key string) ([]IssueTypeStatuses, error) {
	var ts []IssueTypeStatuses
	if err := c.get(ctx, "/rest/api/2/project/"+url.PathEscape(key)+"/statuses", nil, &ts); err != nil {
		return nil, err
	}
	return ts, nil
}

// ─── Boards & sprints (agile API) ───────────────────────────────────────────

// Boards lists software boards.
func (c *Client) Boards(ctx context.Context, maxResults int) ([]Board, error) {
	q := url.Values{}
	q.Set("maxResults", strconv.Itoa(maxResults))
	var bl BoardList
	if err := c.get(ctx, "/rest/agile/1.0/board", q, &bl); err != nil {
		return nil, err
	}
	return bl.Values, nil
}

// Board fetches a board by id.
func (c *Client) Board(ctx context.Context, id int) (*Board, error) {
	var b Board
	if err := c.get(ctx, "/rest/agile/1.0/board/"+strconv.Itoa(id), nil, &b); err != nil {
		return nil, err
	}
	return &b, nil
}

// Sprints lists a board's sprints, optionally filtered by state
// ("active", "closed", "future", or a comma-separated combination).
func (c *Client) Sprints(ctx context.Context, boardID int, state string, maxResults int) ([]Sprint, error) {
	q := url.Values{}
	q.Set("maxResults", strconv.Itoa(maxResults))
	if state != "" {
		q.Set("state", state)
	}
	var sl SprintList
	if err := c.get(ctx, "/rest/agile/1.0/board/"+strconv.Itoa(boardID)+"/sprint", q, &sl); err != nil {
		return nil, err
	}
	return sl.Values, nil
}

// Sprint fetches a sprint by id.
func (c *Client) Sprint(ctx context.Context, id int) (*Sprint, error) {
	var s Sprint
	if err := c.get(ctx, "/rest/agile/1.0/sprint/"+strconv.Itoa(id), nil, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// BoardIssues lists issues on a board.
func (c *Client) BoardIssues(ctx context.Context, boardID, maxResults int) ([]Issue, error) {
	q := url.Values{}
	q.Set("maxResults", strconv.Itoa(maxResults))
	var res SearchResult
	if err := c.get(ctx, "/rest/agile/1.0/board/"+strconv.Itoa(boardID)+"/issue", q, &res); err != nil {
		return nil, err
	}
	return res.Issues, nil
}

// SprintIssues lists issues in a sprint on a board.
func (c *Client) SprintIssues(ctx context.Context, boardID, sprintID, maxResults int) ([]Issue, error) {
	q := url.Values{}
	q.Set("maxResults", strconv.Itoa(maxResults))
	path := "/rest/agile/1.0/board/" + strconv.Itoa(boardID) + "/sprint/" + strconv.Itoa(sprintID) + "/issue"
	var res SearchResult
	if err := c.get(ctx, path, q, &res); err != nil {
		return nil, err
	}
	return res.Issues, nil
}
