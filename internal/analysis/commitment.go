package analysis

import (
	"fmt"
	"strconv"
)

// CommitmentStatus classifies how realistic the sprint commitment looks
// given the primary completion rate.
type CommitmentStatus string

const (
	CommitmentOnTrack      CommitmentStatus = "ON_TRACK"
	CommitmentAtRisk       CommitmentStatus = "AT_RISK"
	CommitmentOver         CommitmentStatus = "OVERCOMMITTED"
	CommitmentSeverelyOver CommitmentStatus = "SEVERELY_OVERCOMMITTED"
)

// classifyCommitment applies the four-tier commitment ladder to the
// primary completion rate.
func classifyCommitment(rate float64) CommitmentStatus {
	switch {
	case rate >= 80:
		return CommitmentOnTrack
	case rate >= 60:
		return CommitmentAtRisk
	case rate >= 40:
		return CommitmentOver
	default:
		return CommitmentSeverelyOver
	}
}

// classifyHealthRisk applies the sprint-health risk ladder. This is a
// deliberately separate scale from the commitment ladder (70/50 vs
// 80/60/40) — the two can disagree at certain rates and both are
// reported.
func classifyHealthRisk(rate float64) RiskLevel {
	switch {
	case rate >= 70:
		return RiskLow
	case rate >= 50:
		return RiskMedium
	default:
		return RiskHigh
	}
}

// PointTotals aggregates story points across the status buckets.
// TotalCommitted always equals Completed + InProgress + Todo.
type PointTotals struct {
	TotalCommitted float64 `json:"total_committed"`
	Completed      float64 `json:"completed"`
	InProgress     float64 `json:"in_progress"`
	Todo           float64 `json:"todo"`
	CompletionRate float64 `json:"completion_rate"`
}

// CountTotals aggregates issue counts across the status buckets.
// TotalCommitted always equals Completed + InProgress + Todo.
type CountTotals struct {
	TotalCommitted int     `json:"total_committed"`
	Completed      int     `json:"completed"`
	InProgress     int     `json:"in_progress"`
	Todo           int     `json:"todo"`
	CompletionRate float64 `json:"completion_rate"`
}

// IssueSummary is the per-issue line in analysis breakdowns.
type IssueSummary struct {
	Key            string       `json:"key"`
	Summary        string       `json:"summary"`
	StoryPoints    float64      `json:"story_points"`
	Status         string       `json:"status"`
	StatusCategory StatusBucket `json:"status_category"`
	Assignee       string       `json:"assignee"`
}

// CommitmentAnalysis classifies the sprint commitment. Remaining and
// in-progress work are expressed in the primary metric (points when the
// sprint uses points, issue counts otherwise).
type CommitmentAnalysis struct {
	Status          CommitmentStatus `json:"status"`
	IsOvercommitted bool             `json:"is_overcommitted"`
	CompletionRate  float64          `json:"completion_rate"`
	RemainingWork   float64          `json:"remaining_work"`
	WorkInProgress  float64          `json:"work_in_progress"`
	WorkNotStarted  float64          `json:"work_not_started"`
}

// CommitmentMetrics carries both metric views of the sprint plus which
// one is primary.
type CommitmentMetrics struct {
	UsesStoryPoints bool        `json:"uses_story_points"`
	StoryPoints     PointTotals `json:"story_points"`
	IssueThroughput CountTotals `json:"issue_throughput"`
	PrimaryMetric   string      `json:"primary_metric"`
}

// SprintHealth is the risk view of the commitment, on its own threshold
// scale, with generated recommendations.
type SprintHealth struct {
	CompletionRate  float64   `json:"completion_rate"`
	RiskLevel       RiskLevel `json:"risk_level"`
	IsOnTrack       bool      `json:"is_on_track"`
	Recommendations []string  `json:"recommendations"`
}

// CommitmentReport is the full result of a sprint commitment analysis.
type CommitmentReport struct {
	SprintInfo         SprintInfo         `json:"sprint_info"`
	CommitmentAnalysis CommitmentAnalysis `json:"commitment_analysis"`
	VelocityMetrics    CommitmentMetrics  `json:"velocity_metrics"`
	SprintHealth       SprintHealth       `json:"sprint_health"`
	IssueBreakdown     []IssueSummary     `json:"issue_breakdown"`
}

// AnalyzeCommitment computes completion and overcommitment metrics for
// one sprint's issue snapshot. An empty sprint is a valid input: totals
// and rates are zero, never an error.
func AnalyzeCommitment(sprint SprintInfo, records []Record) *CommitmentReport {
	var points PointTotals
	var counts CountTotals
	breakdown := make([]IssueSummary, 0, len(records))
	issuesWithPoints := 0

	counts.TotalCommitted = len(records)
	for _, r := range records {
		breakdown = append(breakdown, IssueSummary{
			Key:            r.Key,
			Summary:        r.Summary,
			StoryPoints:    r.StoryPoints,
			Status:         r.Status,
			StatusCategory: r.Bucket,
			Assignee:       r.Assignee,
		})

		switch r.Bucket {
		case StatusDone:
			counts.Completed++
			points.Completed += r.StoryPoints
		case StatusInProgress:
			counts.InProgress++
			points.InProgress += r.StoryPoints
		default:
			counts.Todo++
			points.Todo += r.StoryPoints
		}

		if r.HasPoints() {
			issuesWithPoints++
			points.TotalCommitted += r.StoryPoints
		}
	}

	pointRate := percentage(points.Completed, points.TotalCommitted)
	countRate := percentage(float64(counts.Completed), float64(counts.TotalCommitted))
	points.CompletionRate = round1(pointRate)
	counts.CompletionRate = round1(countRate)

	// A sprint where no issue carries points is count-based, never a
	// zero-velocity point-based sprint.
	usesPoints := issuesWithPoints > 0
	primaryRate := countRate
	primaryMetric := MetricIssueCount
	remaining := float64(counts.TotalCommitted - counts.Completed)
	inProgress := float64(counts.InProgress)
	if usesPoints {
		primaryRate = pointRate
		primaryMetric = MetricStoryPoints
		remaining = points.TotalCommitted - points.Completed
		inProgress = points.InProgress
	}
	notStarted := remaining - inProgress

	status := classifyCommitment(primaryRate)
	risk := classifyHealthRisk(primaryRate)

	report := &CommitmentReport{
		SprintInfo: sprint,
		CommitmentAnalysis: CommitmentAnalysis{
			Status:          status,
			IsOvercommitted: status == CommitmentOver || status == CommitmentSeverelyOver,
			CompletionRate:  round1(primaryRate),
			RemainingWork:   remaining,
			WorkInProgress:  inProgress,
			WorkNotStarted:  notStarted,
		},
		VelocityMetrics: CommitmentMetrics{
			UsesStoryPoints: usesPoints,
			StoryPoints:     points,
			IssueThroughput: counts,
			PrimaryMetric:   primaryMetric,
		},
		SprintHealth: SprintHealth{
			CompletionRate: round1(primaryRate),
			RiskLevel:      risk,
			IsOnTrack:      primaryRate >= 70,
		},
		IssueBreakdown: breakdown,
	}
	report.SprintHealth.Recommendations = commitmentRecommendations(status, usesPoints, notStarted, inProgress)
	return report
}

// commitmentRecommendations generates the fixed advice for each
// commitment tier plus the not-started warning when untouched work
// outweighs work in flight.
func commitmentRecommendations(status CommitmentStatus, usesPoints bool, notStarted, inProgress float64) []string {
	var recs []string

	switch status {
	case CommitmentSeverelyOver:
		recs = append(recs,
			"URGENT: Sprint is severely overcommitted - immediately move non-critical work to next sprint",
			"Focus only on highest priority items to prevent complete sprint failure",
		)
	case CommitmentOver:
		recs = append(recs,
			"Sprint is overcommitted - consider reducing scope or moving lower priority items",
			"Identify blockers and focus team effort on completing in-progress work",
		)
	case CommitmentAtRisk:
		recs = append(recs,
			"Sprint delivery is at risk - monitor daily and remove any blockers immediately",
			"Consider deferring any new work that comes up during the sprint",
		)
	default:
		recs = append(recs, "Sprint is on track - maintain current pace and delivery quality")
	}

	if notStarted > inProgress && status != CommitmentOnTrack {
		metric := "issues"
		if usesPoints {
			metric = "story points"
		}
		recs = append(recs, fmt.Sprintf("High risk: %s %s not yet started vs %s in progress",
			formatAmount(notStarted), metric, formatAmount(inProgress)))
	}

	return recs
}

// formatAmount prints a work amount without a trailing ".0" for whole
// values, so count-based sprints read naturally.
func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
