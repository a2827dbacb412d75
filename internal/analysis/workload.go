package analysis

import (
	"fmt"
	"sort"
	"strings"
)

// LoadLevel classifies how loaded a single assignee is, by issue count.
type LoadLevel string

const (
	LoadOverloaded LoadLevel = "OVERLOADED"
	LoadHigh       LoadLevel = "HIGH"
	LoadNormal     LoadLevel = "NORMAL"
	LoadLight      LoadLevel = "LIGHT"
)

// Load-level and risk boundaries, by total issues per assignee.
const (
	overloadedThreshold = 13
	highLoadThreshold   = 9
	normalLoadThreshold = 5

	// wipLimit is the concurrent in-progress count above which an
	// assignee is flagged as a WIP risk.
	wipLimit = 2

	// balanceSpread is the max−min issue spread above which the team
	// distribution counts as unbalanced.
	balanceSpread = 8

	// highPriorityShare is the fraction of an assignee's issues above
	// which high-priority work becomes a context-switching risk.
	highPriorityShare = 0.7
)

// classifyLoad applies the load ladder to an assignee's issue count.
func classifyLoad(totalIssues int) LoadLevel {
	switch {
	case totalIssues >= overloadedThreshold:
		return LoadOverloaded
	case totalIssues >= highLoadThreshold:
		return LoadHigh
	case totalIssues >= normalLoadThreshold:
		return LoadNormal
	default:
		return LoadLight
	}
}

// WorkloadIssue is the per-issue line in an assignee's workload.
type WorkloadIssue struct {
	Key            string         `json:"key"`
	Summary        string         `json:"summary"`
	Status         string         `json:"status"`
	StatusCategory StatusBucket   `json:"status_category"`
	StoryPoints    float64        `json:"story_points"`
	Priority       PriorityBucket `json:"priority"`
}

// AssigneeWorkload aggregates one assignee's sprint load. Created
// lazily on first sight of the assignee with all fields zeroed.
// TotalIssues always equals CompletedCount + InProgressCount + TodoCount.
type AssigneeWorkload struct {
	TotalIssues       int                    `json:"total_issues"`
	StoryPoints       float64                `json:"story_points"`
	InProgressCount   int                    `json:"in_progress_count"`
	CompletedCount    int                    `json:"completed_count"`
	TodoCount         int                    `json:"todo_count"`
	PriorityBreakdown map[PriorityBucket]int `json:"priority_breakdown"`
	Issues            []WorkloadIssue        `json:"issues"`
	WIPViolations     []WorkloadIssue        `json:"wip_violations"`
	LoadLevel         LoadLevel              `json:"load_level"`
	RiskFactors       []string               `json:"risk_factors"`
}

// TeamWorkloadSummary counts team members by risk category. Unassigned
// issues are tallied separately and excluded from member counts.
type TeamWorkloadSummary struct {
	TotalTeamMembers  int `json:"total_team_members"`
	OverloadedMembers int `json:"overloaded_members"`
	HighLoadMembers   int `json:"high_load_members"`
	WIPViolators      int `json:"wip_violators"`
	UnassignedIssues  int `json:"unassigned_issues"`
}

// DistributionStatistics describes how evenly issues spread across
// assigned members.
type DistributionStatistics struct {
	AverageIssuesPerPerson float64 `json:"average_issues_per_person"`
	MaxIssuesPerPerson     int     `json:"max_issues_per_person"`
	MinIssuesPerPerson     int     `json:"min_issues_per_person"`
	DistributionBalance    string  `json:"distribution_balance"`
}

// ImmediateRisks names the members behind each team-level risk signal.
type ImmediateRisks struct {
	OverloadedMembers []string  `json:"overloaded_members"`
	HighLoadMembers   []string  `json:"high_load_members"`
	WIPViolators      []string  `json:"wip_violators"`
	SprintFailureRisk RiskLevel `json:"sprint_failure_risk"`
}

// WorkloadReport is the full result of a team workload analysis.
type WorkloadReport struct {
	SprintInfo             SprintInfo                   `json:"sprint_info"`
	TeamWorkloadSummary    TeamWorkloadSummary          `json:"team_workload_summary"`
	DistributionStatistics DistributionStatistics       `json:"distribution_statistics"`
	IndividualWorkloads    map[string]*AssigneeWorkload `json:"individual_workloads"`
	ImmediateRisks         ImmediateRisks               `json:"immediate_risks"`
	Recommendations        []string                     `json:"recommendations"`
}

// AnalyzeWorkload buckets sprint issues by assignee and classifies
// per-member load and team-level distribution risk.
func AnalyzeWorkload(sprint SprintInfo, records []Record) *WorkloadReport {
	workloads := map[string]*AssigneeWorkload{}

	for _, r := range records {
		w := workloads[r.Assignee]
		if w == nil {
			w = &AssigneeWorkload{PriorityBreakdown: map[PriorityBucket]int{}}
			workloads[r.Assignee] = w
		}

		w.TotalIssues++
		w.StoryPoints += r.StoryPoints
		w.PriorityBreakdown[r.Priority]++

		issue := WorkloadIssue{
			Key:            r.Key,
			Summary:        r.Summary,
			Status:         r.Status,
			StatusCategory: r.Bucket,
			StoryPoints:    r.StoryPoints,
			Priority:       r.Priority,
		}
		w.Issues = append(w.Issues, issue)

		switch r.Bucket {
		case StatusDone:
			w.CompletedCount++
		case StatusInProgress:
			w.InProgressCount++
			// Every in-progress issue beyond the first is a violation.
			if w.InProgressCount > 1 {
				w.WIPViolations = append(w.WIPViolations, issue)
			}
		default:
			w.TodoCount++
		}
	}

	for _, w := range workloads {
		w.LoadLevel = classifyLoad(w.TotalIssues)
		w.RiskFactors = assigneeRiskFactors(w)
	}

	var overloaded, highLoad, wipViolators []string
	var assigned []*AssigneeWorkload
	for name, w := range workloads {
		if name == Unassigned {
			continue
		}
		assigned = append(assigned, w)
		if w.LoadLevel == LoadOverloaded {
			overloaded = append(overloaded, name)
		}
		if w.LoadLevel == LoadHigh {
			highLoad = append(highLoad, name)
		}
		if len(w.WIPViolations) > 0 {
			wipViolators = append(wipViolators, name)
		}
	}
	sort.Strings(overloaded)
	sort.Strings(highLoad)
	sort.Strings(wipViolators)

	stats := DistributionStatistics{DistributionBalance: "BALANCED"}
	if len(assigned) > 0 {
		total := 0
		stats.MaxIssuesPerPerson = assigned[0].TotalIssues
		stats.MinIssuesPerPerson = assigned[0].TotalIssues
		for _, w := range assigned {
			total += w.TotalIssues
			if w.TotalIssues > stats.MaxIssuesPerPerson {
				stats.MaxIssuesPerPerson = w.TotalIssues
			}
			if w.TotalIssues < stats.MinIssuesPerPerson {
				stats.MinIssuesPerPerson = w.TotalIssues
			}
		}
		stats.AverageIssuesPerPerson = round1(float64(total) / float64(len(assigned)))
		if stats.MaxIssuesPerPerson-stats.MinIssuesPerPerson > balanceSpread {
			stats.DistributionBalance = "UNBALANCED"
		}
	}

	failureRisk := RiskLow
	switch {
	case len(overloaded) > 0:
		failureRisk = RiskHigh
	case len(highLoad) > 0 || len(wipViolators) > 0:
		failureRisk = RiskMedium
	}

	unassignedCount := 0
	if w := workloads[Unassigned]; w != nil {
		unassignedCount = w.TotalIssues
	}

	report := &WorkloadReport{
		SprintInfo: sprint,
		TeamWorkloadSummary: TeamWorkloadSummary{
			TotalTeamMembers:  len(assigned),
			OverloadedMembers: len(overloaded),
			HighLoadMembers:   len(highLoad),
			WIPViolators:      len(wipViolators),
			UnassignedIssues:  unassignedCount,
		},
		DistributionStatistics: stats,
		IndividualWorkloads:    workloads,
		ImmediateRisks: ImmediateRisks{
			OverloadedMembers: overloaded,
			HighLoadMembers:   highLoad,
			WIPViolators:      wipViolators,
			SprintFailureRisk: failureRisk,
		},
	}
	report.Recommendations = workloadRecommendations(report, unassignedCount)
	return report
}

// assigneeRiskFactors evaluates the three independent per-member risk
// rules.
func assigneeRiskFactors(w *AssigneeWorkload) []string {
	var risks []string

	if w.InProgressCount > wipLimit {
		risks = append(risks, fmt.Sprintf(
			"WIP violation: %d items in progress simultaneously", w.InProgressCount))
	}
	if w.TotalIssues >= overloadedThreshold {
		risks = append(risks, "Excessive issue count may lead to burnout")
	}

	highCount := w.PriorityBreakdown[PriorityCritical] +
		w.PriorityBreakdown[PriorityHighest] +
		w.PriorityBreakdown[PriorityHigh]
	if float64(highCount) > float64(w.TotalIssues)*highPriorityShare {
		risks = append(risks, "High context-switching risk due to many high-priority items")
	}

	return risks
}

// workloadRecommendations generates team-level advice. Rules fire
// independently; the healthy message only requires no overload and no
// WIP violations.
func workloadRecommendations(r *WorkloadReport, unassignedCount int) []string {
	var recs []string

	if len(r.ImmediateRisks.OverloadedMembers) > 0 {
		recs = append(recs, fmt.Sprintf("URGENT: Redistribute work from overloaded members: %s",
			strings.Join(r.ImmediateRisks.OverloadedMembers, ", ")))
	}
	if len(r.ImmediateRisks.WIPViolators) > 0 {
		recs = append(recs, fmt.Sprintf("Address WIP violations for: %s - focus on completing current work",
			strings.Join(r.ImmediateRisks.WIPViolators, ", ")))
	}
	if unassignedCount > 0 {
		recs = append(recs, "Assign unassigned issues to prevent bottlenecks")
	}
	if r.DistributionStatistics.DistributionBalance == "UNBALANCED" {
		recs = append(recs, "Rebalance workload distribution across team members")
	}
	if len(r.ImmediateRisks.OverloadedMembers) == 0 && len(r.ImmediateRisks.WIPViolators) == 0 {
		recs = append(recs, "Workload distribution looks healthy - monitor progress")
	}

	return recs
}
