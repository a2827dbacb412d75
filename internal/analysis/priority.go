package analysis

import "fmt"

// FocusScore grades how much of the sprint is high-priority work.
type FocusScore string

const (
	FocusHigh   FocusScore = "HIGH"
	FocusMedium FocusScore = "MEDIUM"
	FocusLow    FocusScore = "LOW"
)

// CriticalCoverage grades whether the sprint carries at least as many
// critical items as the backlog holds.
type CriticalCoverage string

const (
	CoverageGood           CriticalCoverage = "GOOD"
	CoverageNeedsAttention CriticalCoverage = "NEEDS_ATTENTION"
)

// PriorityStats accumulates one priority bucket of the sprint. All
// fields start at zero; a bucket exists only once its first issue is
// seen. Total always equals Completed + InProgress + Todo.
type PriorityStats struct {
	Total           int            `json:"total"`
	InProgress      int            `json:"in_progress"`
	Completed       int            `json:"completed"`
	Todo            int            `json:"todo"`
	TotalPoints     float64        `json:"total_points"`
	CompletedPoints float64        `json:"completed_points"`
	Issues          []IssueSummary `json:"issues"`
}

// BacklogIssue is a backlog item in the gap analysis.
type BacklogIssue struct {
	Key         string  `json:"key"`
	Summary     string  `json:"summary"`
	Status      string  `json:"status"`
	Assignee    string  `json:"assignee"`
	StoryPoints float64 `json:"story_points"`
	Created     string  `json:"created"`
}

// BacklogStats accumulates one priority bucket of the backlog snapshot.
type BacklogStats struct {
	Total  int            `json:"total"`
	Issues []BacklogIssue `json:"issues"`
}

// CriticalIssueStats compares critical work in the sprint against the
// backlog.
type CriticalIssueStats struct {
	InSprintTotal      int     `json:"in_sprint_total"`
	InSprintCompleted  int     `json:"in_sprint_completed"`
	InSprintInProgress int     `json:"in_sprint_in_progress"`
	InBacklogTotal     int     `json:"in_backlog_total"`
	CompletionRate     float64 `json:"completion_rate"`
}

// HighPriorityFocus measures the sprint's share of high-priority work.
type HighPriorityFocus struct {
	HighPriorityInSprint   int     `json:"high_priority_issues_in_sprint"`
	TotalSprintIssues      int     `json:"total_sprint_issues"`
	HighPriorityPercentage float64 `json:"high_priority_percentage"`
}

// PriorityFocusAnalysis groups the derived priority metrics.
type PriorityFocusAnalysis struct {
	CriticalIssues    CriticalIssueStats `json:"critical_issues"`
	HighPriorityFocus HighPriorityFocus  `json:"high_priority_focus"`
}

// PriorityGapAnalysis grades the sprint's priority coverage.
type PriorityGapAnalysis struct {
	FocusScore          FocusScore       `json:"focus_score"`
	CriticalCoverage    CriticalCoverage `json:"critical_coverage"`
	MissedCriticalItems int              `json:"missed_critical_items"`
}

// PriorityFocusReport is the full result of a priority focus analysis.
type PriorityFocusReport struct {
	SprintInfo            SprintInfo                        `json:"sprint_info"`
	PriorityFocusAnalysis PriorityFocusAnalysis             `json:"priority_focus_analysis"`
	SprintBreakdown       map[PriorityBucket]*PriorityStats `json:"sprint_breakdown_by_priority"`
	BacklogHighPriority   map[PriorityBucket]*BacklogStats  `json:"backlog_high_priority_items"`
	PriorityGapAnalysis   PriorityGapAnalysis               `json:"priority_gap_analysis"`
	Recommendations       []string                          `json:"recommendations"`
}

// AnalyzePriorityFocus buckets sprint and backlog issues by priority
// and grades whether the team is working the right items. The backlog
// snapshot holds the project's unresolved issues outside any sprint;
// it may be empty.
func AnalyzePriorityFocus(sprint SprintInfo, sprintRecords, backlogRecords []Record) *PriorityFocusReport {
	sprintBuckets := map[PriorityBucket]*PriorityStats{}
	for _, r := range sprintRecords {
		stats := sprintBuckets[r.Priority]
		if stats == nil {
			stats = &PriorityStats{}
			sprintBuckets[r.Priority] = stats
		}
		stats.Total++
		stats.TotalPoints += r.StoryPoints
		stats.Issues = append(stats.Issues, IssueSummary{
			Key:            r.Key,
			Summary:        r.Summary,
			Status:         r.Status,
			StatusCategory: r.Bucket,
			Assignee:       r.Assignee,
			StoryPoints:    r.StoryPoints,
		})

		switch r.Bucket {
		case StatusDone:
			stats.Completed++
			stats.CompletedPoints += r.StoryPoints
		case StatusInProgress:
			stats.InProgress++
		default:
			stats.Todo++
		}
	}

	backlogBuckets := map[PriorityBucket]*BacklogStats{}
	for _, r := range backlogRecords {
		stats := backlogBuckets[r.Priority]
		if stats == nil {
			stats = &BacklogStats{}
			backlogBuckets[r.Priority] = stats
		}
		stats.Total++
		stats.Issues = append(stats.Issues, BacklogIssue{
			Key:         r.Key,
			Summary:     r.Summary,
			Status:      r.Status,
			Assignee:    r.Assignee,
			StoryPoints: r.StoryPoints,
			Created:     r.Created,
		})
	}

	critical := CriticalIssueStats{}
	if cs := sprintBuckets[PriorityCritical]; cs != nil {
		critical.InSprintTotal = cs.Total
		critical.InSprintCompleted = cs.Completed
		critical.InSprintInProgress = cs.InProgress
	}
	if bs := backlogBuckets[PriorityCritical]; bs != nil {
		critical.InBacklogTotal = bs.Total
	}
	critical.CompletionRate = round1(percentage(float64(critical.InSprintCompleted), float64(critical.InSprintTotal)))

	highInSprint := 0
	for p, stats := range sprintBuckets {
		if IsHighPriority(p) {
			highInSprint += stats.Total
		}
	}
	totalSprint := len(sprintRecords)
	highPct := percentage(float64(highInSprint), float64(totalSprint))

	// Only high-priority backlog buckets are surfaced in the report.
	backlogHigh := map[PriorityBucket]*BacklogStats{}
	for p, stats := range backlogBuckets {
		if IsHighPriority(p) && stats.Total > 0 {
			backlogHigh[p] = stats
		}
	}

	coverage := CoverageNeedsAttention
	if critical.InSprintTotal >= critical.InBacklogTotal {
		coverage = CoverageGood
	}

	report := &PriorityFocusReport{
		SprintInfo: sprint,
		PriorityFocusAnalysis: PriorityFocusAnalysis{
			CriticalIssues: critical,
			HighPriorityFocus: HighPriorityFocus{
				HighPriorityInSprint:   highInSprint,
				TotalSprintIssues:      totalSprint,
				HighPriorityPercentage: round1(highPct),
			},
		},
		SprintBreakdown:     sprintBuckets,
		BacklogHighPriority: backlogHigh,
		PriorityGapAnalysis: PriorityGapAnalysis{
			FocusScore:          classifyFocus(highPct),
			CriticalCoverage:    coverage,
			MissedCriticalItems: critical.InBacklogTotal,
		},
	}
	report.Recommendations = priorityRecommendations(critical, highPct)
	return report
}

// classifyFocus applies the focus-score ladder to the high-priority
// percentage.
func classifyFocus(highPct float64) FocusScore {
	switch {
	case highPct >= 60:
		return FocusHigh
	case highPct >= 40:
		return FocusMedium
	default:
		return FocusLow
	}
}

// priorityRecommendations evaluates the four independent advice rules;
// any combination may fire.
func priorityRecommendations(critical CriticalIssueStats, highPct float64) []string {
	var recs []string

	if critical.InBacklogTotal > 0 {
		recs = append(recs, fmt.Sprintf(
			"Consider adding %d critical items from backlog to current or next sprint",
			critical.InBacklogTotal))
	}
	if highPct < 50 {
		recs = append(recs, "Sprint has low focus on high-priority items - consider reprioritizing")
	}
	if critical.InSprintTotal > 0 && critical.InSprintCompleted == 0 && critical.InSprintInProgress == 0 {
		recs = append(recs, "Critical items in sprint are not being actively worked on")
	}
	if highPct >= 70 {
		recs = append(recs, "Good focus on high-priority items")
	}

	return recs
}
