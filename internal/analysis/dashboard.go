package analysis

import (
	"fmt"
	"sort"
	"strings"
)

// OverallHealth is the composed risk view of the sprint.
type OverallHealth struct {
	RiskLevel        RiskLevel        `json:"risk_level"`
	CommitmentStatus CommitmentStatus `json:"commitment_status"`
	CompletionRate   float64          `json:"completion_rate"`
	HealthRisks      []string         `json:"health_risks"`
}

// DashboardCommitment is the condensed commitment view, expressed in
// the sprint's primary metric.
type DashboardCommitment struct {
	IsOvercommitted bool    `json:"is_overcommitted"`
	UsesStoryPoints bool    `json:"uses_story_points"`
	TotalWork       float64 `json:"total_work"`
	CompletedWork   float64 `json:"completed_work"`
	InProgressWork  float64 `json:"in_progress_work"`
	CompletionRate  float64 `json:"completion_rate"`
}

// DashboardPriority is the condensed priority view.
type DashboardPriority struct {
	CriticalIssuesTotal      int        `json:"critical_issues_total"`
	CriticalIssuesInProgress int        `json:"critical_issues_in_progress"`
	HighPriorityPercentage   float64    `json:"high_priority_percentage"`
	PriorityFocusScore       FocusScore `json:"priority_focus_score"`
}

// DashboardTeam is the condensed workload view.
type DashboardTeam struct {
	TotalTeamMembers  int       `json:"total_team_members"`
	OverloadedMembers int       `json:"overloaded_members"`
	WIPViolators      int       `json:"wip_violators"`
	UnassignedIssues  int       `json:"unassigned_issues"`
	TeamCapacityRisk  RiskLevel `json:"team_capacity_risk"`
}

// PriorityLine is one priority bucket's row in the detailed breakdown.
type PriorityLine struct {
	Total      int `json:"total"`
	Completed  int `json:"completed"`
	InProgress int `json:"in_progress"`
}

// WorkloadLine is one assignee's row in the detailed breakdown.
type WorkloadLine struct {
	TotalIssues       int     `json:"total_issues"`
	InProgressCount   int     `json:"in_progress_count"`
	CompletedCount    int     `json:"completed_count"`
	StoryPoints       float64 `json:"story_points"`
	HighPriorityCount int     `json:"high_priority_count"`
}

// DashboardBreakdowns carries the raw per-bucket data behind the
// summaries.
type DashboardBreakdowns struct {
	PriorityBreakdown map[PriorityBucket]*PriorityLine `json:"priority_breakdown"`
	WorkloadBreakdown map[string]*WorkloadLine         `json:"workload_breakdown"`
}

// DashboardReport is the composed sprint health dashboard. When the
// sprint has no issues, Error is set and only SprintInfo accompanies it.
type DashboardReport struct {
	Error              string               `json:"error,omitempty"`
	SprintInfo         SprintInfo           `json:"sprint_info"`
	OverallHealth      *OverallHealth       `json:"overall_health,omitempty"`
	CommitmentSummary  *DashboardCommitment `json:"commitment_summary,omitempty"`
	PrioritySummary    *DashboardPriority   `json:"priority_summary,omitempty"`
	TeamSummary        *DashboardTeam       `json:"team_summary,omitempty"`
	KeyRecommendations []string             `json:"key_recommendations,omitempty"`
	DetailedBreakdowns *DashboardBreakdowns `json:"detailed_breakdowns,omitempty"`
}

// BuildDashboard runs the commitment, priority-focus (sprint-only) and
// workload analyses over one issue snapshot in a single pass and merges
// them into the composed health view. An empty snapshot short-circuits
// to an explicit no-issues result.
func BuildDashboard(boardID int, sprint SprintInfo, records []Record) *DashboardReport {
	sprint.BoardID = boardID

	if len(records) == 0 {
		return &DashboardReport{
			Error:      fmt.Sprintf("No issues found in sprint %d", sprint.ID),
			SprintInfo: sprint,
		}
	}

	var (
		totalPoints, completedPoints, inProgressPoints float64
		completedIssues, inProgressIssues              int
		issuesWithPoints                               int
	)
	priorities := map[PriorityBucket]*PriorityLine{}
	workloads := map[string]*WorkloadLine{}

	for _, r := range records {
		if r.HasPoints() {
			issuesWithPoints++
			totalPoints += r.StoryPoints
			switch r.Bucket {
			case StatusDone:
				completedPoints += r.StoryPoints
			case StatusInProgress:
				inProgressPoints += r.StoryPoints
			}
		}
		switch r.Bucket {
		case StatusDone:
			completedIssues++
		case StatusInProgress:
			inProgressIssues++
		}

		pl := priorities[r.Priority]
		if pl == nil {
			pl = &PriorityLine{}
			priorities[r.Priority] = pl
		}
		pl.Total++
		switch r.Bucket {
		case StatusDone:
			pl.Completed++
		case StatusInProgress:
			pl.InProgress++
		}

		wl := workloads[r.Assignee]
		if wl == nil {
			wl = &WorkloadLine{}
			workloads[r.Assignee] = wl
		}
		wl.TotalIssues++
		wl.StoryPoints += r.StoryPoints
		switch r.Bucket {
		case StatusDone:
			wl.CompletedCount++
		case StatusInProgress:
			wl.InProgressCount++
		}
		if IsHighPriority(r.Priority) {
			wl.HighPriorityCount++
		}
	}

	totalIssues := len(records)
	usesPoints := issuesWithPoints > 0
	completionRate := percentage(float64(completedIssues), float64(totalIssues))
	if usesPoints {
		completionRate = percentage(completedPoints, totalPoints)
	}
	status := classifyCommitment(completionRate)

	criticalTotal, criticalInProgress := 0, 0
	if pl := priorities[PriorityCritical]; pl != nil {
		criticalTotal = pl.Total
		criticalInProgress = pl.InProgress
	}
	highPriorityTotal := 0
	for p, pl := range priorities {
		if IsHighPriority(p) {
			highPriorityTotal += pl.Total
		}
	}
	highPct := percentage(float64(highPriorityTotal), float64(totalIssues))

	var teamMembers, overloaded, wipViolators []string
	for name, wl := range workloads {
		if name == Unassigned {
			continue
		}
		teamMembers = append(teamMembers, name)
		if wl.TotalIssues >= overloadedThreshold {
			overloaded = append(overloaded, name)
		}
		// Dashboard WIP limit: more than two concurrent in-progress
		// issues (the per-member workload report flags the second).
		if wl.InProgressCount > wipLimit {
			wipViolators = append(wipViolators, name)
		}
	}
	sort.Strings(overloaded)
	sort.Strings(wipViolators)

	unassignedCount := 0
	if wl := workloads[Unassigned]; wl != nil {
		unassignedCount = wl.TotalIssues
	}

	overall := composeHealth(status, criticalTotal, criticalInProgress, len(overloaded), len(wipViolators), highPct)
	overall.CompletionRate = round1(completionRate)

	totalWork := float64(totalIssues)
	completedWork := float64(completedIssues)
	inProgressWork := float64(inProgressIssues)
	if usesPoints {
		totalWork = totalPoints
		completedWork = completedPoints
		inProgressWork = inProgressPoints
	}

	teamRisk := RiskLow
	switch {
	case len(overloaded) > 0:
		teamRisk = RiskHigh
	case len(wipViolators) > 0:
		teamRisk = RiskMedium
	}

	return &DashboardReport{
		SprintInfo:    sprint,
		OverallHealth: overall,
		CommitmentSummary: &DashboardCommitment{
			IsOvercommitted: status == CommitmentOver || status == CommitmentSeverelyOver,
			UsesStoryPoints: usesPoints,
			TotalWork:       totalWork,
			CompletedWork:   completedWork,
			InProgressWork:  inProgressWork,
			CompletionRate:  round1(completionRate),
		},
		PrioritySummary: &DashboardPriority{
			CriticalIssuesTotal:      criticalTotal,
			CriticalIssuesInProgress: criticalInProgress,
			HighPriorityPercentage:   round1(highPct),
			PriorityFocusScore:       classifyFocus(highPct),
		},
		TeamSummary: &DashboardTeam{
			TotalTeamMembers:  len(teamMembers),
			OverloadedMembers: len(overloaded),
			WIPViolators:      len(wipViolators),
			UnassignedIssues:  unassignedCount,
			TeamCapacityRisk:  teamRisk,
		},
		KeyRecommendations: dashboardRecommendations(status, overloaded, wipViolators, criticalTotal, criticalInProgress, highPct),
		DetailedBreakdowns: &DashboardBreakdowns{
			PriorityBreakdown: priorities,
			WorkloadBreakdown: workloads,
		},
	}
}

// composeHealth merges the analyzers' risk signals into one level.
// The level starts LOW, escalates to HIGH for overcommitment, idle
// critical work or overloaded members, and to MEDIUM (when still LOW)
// for WIP violations or weak priority focus.
func composeHealth(status CommitmentStatus, criticalTotal, criticalInProgress, overloaded, wipViolators int, highPct float64) *OverallHealth {
	var risks []string
	risk := RiskLow

	if status == CommitmentOver || status == CommitmentSeverelyOver {
		risks = append(risks, "Sprint overcommitted")
		risk = RiskHigh
	}
	if criticalTotal > 0 && criticalInProgress == 0 {
		risks = append(risks, "Critical items not being worked on")
		risk = RiskHigh
	}
	if overloaded > 0 {
		risks = append(risks, fmt.Sprintf("%d team members overloaded", overloaded))
		risk = RiskHigh
	}
	if wipViolators > 0 {
		risks = append(risks, fmt.Sprintf("%d WIP limit violations", wipViolators))
		if risk == RiskLow {
			risk = RiskMedium
		}
	}
	if highPct < 50 {
		risks = append(risks, "Low focus on high-priority items")
		if risk == RiskLow {
			risk = RiskMedium
		}
	}
	if len(risks) == 0 {
		risks = append(risks, "No major risks identified")
	}

	return &OverallHealth{
		RiskLevel:        risk,
		CommitmentStatus: status,
		HealthRisks:      risks,
	}
}

// dashboardRecommendations merges the analyzers' advice in fixed order:
// commitment, workload redistribution, WIP, idle critical work,
// priority focus, then the healthy fallback when nothing fired.
func dashboardRecommendations(status CommitmentStatus, overloaded, wipViolators []string, criticalTotal, criticalInProgress int, highPct float64) []string {
	var recs []string

	switch status {
	case CommitmentSeverelyOver:
		recs = append(recs, "🚨 CRITICAL: Immediately reduce sprint scope - move non-essential work to backlog")
	case CommitmentOver:
		recs = append(recs, "⚠️  Consider reducing sprint scope or extending timeline")
	}
	if len(overloaded) > 0 {
		recs = append(recs, fmt.Sprintf("👥 Redistribute work from overloaded members: %s",
			strings.Join(overloaded, ", ")))
	}
	if len(wipViolators) > 0 {
		recs = append(recs, fmt.Sprintf("🔄 Address WIP violations: %s should focus on completing current work",
			strings.Join(wipViolators, ", ")))
	}
	if criticalTotal > 0 && criticalInProgress == 0 {
		recs = append(recs, fmt.Sprintf("🔥 Start working on %d critical items immediately", criticalTotal))
	}
	if highPct < 50 {
		recs = append(recs, "📋 Increase focus on high-priority items in this sprint")
	}
	if len(recs) == 0 {
		recs = append(recs, "✅ Sprint health looks good - maintain current approach")
	}

	return recs
}
