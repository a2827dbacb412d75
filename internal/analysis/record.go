// Package analysis is the sprint analytics engine: pure aggregation and
// classification over a snapshot of normalized issue records. Every
// function here is total — once a snapshot is fetched, analysis cannot
// fail — and side-effect free, so concurrent requests need no
// coordination.
package analysis

import (
	"math"
	"time"

	"sprintpulse/internal/jira"
)

// Unassigned is the sentinel assignee for issues without one.
const Unassigned = "Unassigned"

// ─── Status buckets ─────────────────────────────────────────────────────────

// StatusBucket is the canonical lifecycle stage of an issue.
type StatusBucket string

const (
	StatusTodo       StatusBucket = "To Do"
	StatusInProgress StatusBucket = "In Progress"
	StatusDone       StatusBucket = "Done"
)

// NormalizeStatusCategory maps a tracker status-category name onto a
// bucket. Unrecognized categories fall into To Do — the mapping is
// total, never an error.
func NormalizeStatusCategory(name string) StatusBucket {
	switch name {
	case "Done", "Complete":
		return StatusDone
	case "In Progress", "In Development":
		return StatusInProgress
	}
	return StatusTodo
}

// ─── Priority buckets ───────────────────────────────────────────────────────

// PriorityBucket is the canonical priority rank of an issue.
type PriorityBucket string

const (
	PriorityCritical PriorityBucket = "Critical"
	PriorityHighest  PriorityBucket = "Highest"
	PriorityHigh     PriorityBucket = "High"
	PriorityMedium   PriorityBucket = "Medium"
	PriorityLow      PriorityBucket = "Low"
	PriorityLowest   PriorityBucket = "Lowest"
	PriorityNone     PriorityBucket = "No Priority"
)

// PriorityOrder ranks buckets from most to least urgent.
var PriorityOrder = []PriorityBucket{
	PriorityCritical,
	PriorityHighest,
	PriorityHigh,
	PriorityMedium,
	PriorityLow,
	PriorityLowest,
	PriorityNone,
}

var knownPriorities = map[PriorityBucket]bool{
	PriorityCritical: true,
	PriorityHighest:  true,
	PriorityHigh:     true,
	PriorityMedium:   true,
	PriorityLow:      true,
	PriorityLowest:   true,
}

// NormalizePriority maps a tracker priority name onto a bucket. Absent
// or unrecognized priorities map to No Priority.
func NormalizePriority(name string) PriorityBucket {
	p := PriorityBucket(name)
	if knownPriorities[p] {
		return p
	}
	return PriorityNone
}

// IsHighPriority reports whether a bucket counts as high priority
// (Critical, Highest or High) in focus and workload metrics.
func IsHighPriority(p PriorityBucket) bool {
	return p == PriorityCritical || p == PriorityHighest || p == PriorityHigh
}

// ─── Canonical issue record ─────────────────────────────────────────────────

// Record is the canonical issue record every analyzer consumes.
// Immutable once built: each record belongs to exactly one status bucket
// and one priority bucket, and StoryPoints is never negative.
type Record struct {
	Key         string
	Summary     string
	Status      string // raw workflow status name, kept for breakdowns
	Bucket      StatusBucket
	Priority    PriorityBucket
	Assignee    string
	StoryPoints float64
	Created     string
}

// HasPoints reports whether the issue carries a story-point estimate.
func (r Record) HasPoints() bool {
	return r.StoryPoints > 0
}

// NormalizeIssue converts a raw tracker issue into a canonical Record.
// Normalization is total: every raw input produces a record, with
// missing fields taking their documented defaults (no priority → No
// Priority, no assignee → Unassigned, null points → 0, unknown status
// category → To Do).
func NormalizeIssue(is jira.Issue, pointsField string) Record {
	r := Record{
		Key:      is.Key,
		Summary:  is.Fields.Summary,
		Assignee: Unassigned,
		Priority: PriorityNone,
		Bucket:   StatusTodo,
		Created:  is.Fields.Created,
	}

	if st := is.Fields.Status; st != nil {
		r.Status = st.Name
		r.Bucket = NormalizeStatusCategory(st.Category.Name)
	}
	if a := is.Fields.Assignee; a != nil && a.DisplayName != "" {
		r.Assignee = a.DisplayName
	}
	if p := is.Fields.Priority; p != nil {
		r.Priority = NormalizePriority(p.Name)
	}
	if pts := is.StoryPoints(pointsField); pts != nil && *pts > 0 {
		r.StoryPoints = *pts
	}

	return r
}

// NormalizeIssues converts a fetched issue list into records.
func NormalizeIssues(issues []jira.Issue, pointsField string) []Record {
	records := make([]Record, len(issues))
	for i, is := range issues {
		records[i] = NormalizeIssue(is, pointsField)
	}
	return records
}

// ─── Sprint identity ────────────────────────────────────────────────────────

// SprintInfo labels analysis results with the sprint they describe.
// Except for trend ordering by start date, it never participates in
// computation.
type SprintInfo struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	State     string `json:"state"`
	StartDate string `json:"start_date,omitempty"`
	EndDate   string `json:"end_date,omitempty"`
	BoardID   int    `json:"board_id,omitempty"`
}

// SprintInfoFrom builds a SprintInfo from a raw sprint.
func SprintInfoFrom(s jira.Sprint) SprintInfo {
	return SprintInfo{
		ID:        s.ID,
		Name:      s.Name,
		State:     s.State,
		StartDate: s.StartDate,
		EndDate:   s.EndDate,
	}
}

// sprintTimeFormats are the timestamp layouts Jira sites emit for
// sprint dates, tried in order.
var sprintTimeFormats = []string{
	time.RFC3339,
	"2006-01-02T15:04:05.000-0700",
	"2006-01-02T15:04:05.000Z",
	"2006-01-02",
}

// parseSprintTime parses a sprint date string. Returns the zero time
// and false when the value is empty or unparseable.
func parseSprintTime(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range sprintTimeFormats {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// ─── Shared scales ──────────────────────────────────────────────────────────

// RiskLevel is the shared LOW/MEDIUM/HIGH scale used by sprint health,
// team capacity and the composed dashboard.
type RiskLevel string

const (
	RiskLow    RiskLevel = "LOW"
	RiskMedium RiskLevel = "MEDIUM"
	RiskHigh   RiskLevel = "HIGH"
)

// Metric names reported in primary_metric / metric_type fields.
const (
	MetricStoryPoints = "story_points"
	MetricIssueCount  = "issue_count"
)

// round1 rounds to one decimal place. Rates and averages are rounded at
// the result boundary only; internal math stays full precision.
func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// percentage computes part/total*100 with the zero-total guard: an
// empty denominator yields 0, never NaN or infinity.
func percentage(part, total float64) float64 {
	if total <= 0 {
		return 0
	}
	return part / total * 100
}
