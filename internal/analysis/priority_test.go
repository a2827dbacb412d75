package analysis

import (
	"strings"
	"testing"
)

// --- classifyFocus ---

func TestClassifyFocus_Boundaries(t *testing.T) {
	tests := []struct {
		pct  float64
		want FocusScore
	}{
		{100, FocusHigh},
		{60, FocusHigh},
		{59.9, FocusMedium},
		{40, FocusMedium},
		{39.9, FocusLow},
		{0, FocusLow},
	}

	for _, tt := range tests {
		if got := classifyFocus(tt.pct); got != tt.want {
			t.Errorf("classifyFocus(%v) = %q, want %q", tt.pct, got, tt.want)
		}
	}
}

// --- AnalyzePriorityFocus ---

func TestAnalyzePriorityFocus_EmptySprint(t *testing.T) {
	report := AnalyzePriorityFocus(testSprint(), nil, nil)

	focus := report.PriorityFocusAnalysis.HighPriorityFocus
	if focus.HighPriorityPercentage != 0 {
		t.Errorf("HighPriorityPercentage = %v, want 0", focus.HighPriorityPercentage)
	}
	if report.PriorityGapAnalysis.FocusScore != FocusLow {
		t.Errorf("FocusScore = %q, want %q", report.PriorityGapAnalysis.FocusScore, FocusLow)
	}
	// No critical work anywhere: in-sprint 0 >= in-backlog 0.
	if report.PriorityGapAnalysis.CriticalCoverage != CoverageGood {
		t.Errorf("CriticalCoverage = %q, want %q", report.PriorityGapAnalysis.CriticalCoverage, CoverageGood)
	}
	if len(report.SprintBreakdown) != 0 {
		t.Errorf("SprintBreakdown has %d buckets, want 0", len(report.SprintBreakdown))
	}
}

func TestAnalyzePriorityFocus_SprintBuckets(t *testing.T) {
	records := []Record{
		rec("A-1", StatusDone, PriorityCritical, "Ann", 5),
		rec("A-2", StatusInProgress, PriorityCritical, "Bob", 3),
		rec("A-3", StatusTodo, PriorityHigh, "Bob", 2),
		rec("A-4", StatusTodo, PriorityLow, "Cid", 1),
	}

	report := AnalyzePriorityFocus(testSprint(), records, nil)

	critical := report.SprintBreakdown[PriorityCritical]
	if critical == nil {
		t.Fatal("no Critical bucket")
	}
	if critical.Total != 2 || critical.Completed != 1 || critical.InProgress != 1 || critical.Todo != 0 {
		t.Errorf("Critical bucket = %+v, want total 2 completed 1 in-progress 1", critical)
	}
	if critical.TotalPoints != 8 || critical.CompletedPoints != 5 {
		t.Errorf("Critical points = %v/%v, want 5/8", critical.CompletedPoints, critical.TotalPoints)
	}

	stats := report.PriorityFocusAnalysis.CriticalIssues
	if stats.CompletionRate != 50 {
		t.Errorf("critical CompletionRate = %v, want 50", stats.CompletionRate)
	}

	focus := report.PriorityFocusAnalysis.HighPriorityFocus
	if focus.HighPriorityInSprint != 3 || focus.TotalSprintIssues != 4 {
		t.Errorf("focus = %+v, want 3 of 4 high priority", focus)
	}
	if focus.HighPriorityPercentage != 75 {
		t.Errorf("HighPriorityPercentage = %v, want 75", focus.HighPriorityPercentage)
	}
	if report.PriorityGapAnalysis.FocusScore != FocusHigh {
		t.Errorf("FocusScore = %q, want %q", report.PriorityGapAnalysis.FocusScore, FocusHigh)
	}
}

func TestAnalyzePriorityFocus_BacklogCoverage(t *testing.T) {
	sprintRecords := []Record{
		rec("A-1", StatusTodo, PriorityCritical, "Ann", 0),
	}
	backlogRecords := []Record{
		rec("B-1", StatusTodo, PriorityCritical, Unassigned, 0),
		rec("B-2", StatusTodo, PriorityCritical, Unassigned, 0),
		rec("B-3", StatusTodo, PriorityHigh, Unassigned, 0),
		rec("B-4", StatusTodo, PriorityLow, Unassigned, 0),
	}

	report := AnalyzePriorityFocus(testSprint(), sprintRecords, backlogRecords)

	if report.PriorityGapAnalysis.CriticalCoverage != CoverageNeedsAttention {
		t.Errorf("CriticalCoverage = %q, want %q",
			report.PriorityGapAnalysis.CriticalCoverage, CoverageNeedsAttention)
	}
	if report.PriorityGapAnalysis.MissedCriticalItems != 2 {
		t.Errorf("MissedCriticalItems = %d, want 2", report.PriorityGapAnalysis.MissedCriticalItems)
	}

	// Only high-priority backlog buckets survive into the report.
	if _, ok := report.BacklogHighPriority[PriorityLow]; ok {
		t.Error("Low bucket should not appear in backlog high-priority items")
	}
	if bs := report.BacklogHighPriority[PriorityCritical]; bs == nil || bs.Total != 2 {
		t.Errorf("backlog Critical = %+v, want total 2", bs)
	}
	if bs := report.BacklogHighPriority[PriorityHigh]; bs == nil || bs.Total != 1 {
		t.Errorf("backlog High = %+v, want total 1", bs)
	}
}

// --- recommendations ---

func TestPriorityRecommendations_Rules(t *testing.T) {
	tests := []struct {
		name     string
		critical CriticalIssueStats
		highPct  float64
		contains []string
		absent   []string
	}{
		{
			name:     "backlog critical items",
			critical: CriticalIssueStats{InBacklogTotal: 3},
			highPct:  60,
			contains: []string{"3 critical items from backlog"},
		},
		{
			name:     "low focus",
			highPct:  30,
			contains: []string{"low focus on high-priority items"},
		},
		{
			name:     "idle critical work",
			critical: CriticalIssueStats{InSprintTotal: 2},
			highPct:  60,
			contains: []string{"not being actively worked on"},
		},
		{
			name:     "good focus",
			highPct:  80,
			contains: []string{"Good focus on high-priority items"},
			absent:   []string{"low focus"},
		},
		{
			name: "rules fire independently",
			critical: CriticalIssueStats{
				InSprintTotal:  1,
				InBacklogTotal: 2,
			},
			highPct: 20,
			contains: []string{
				"2 critical items from backlog",
				"low focus on high-priority items",
				"not being actively worked on",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recs := priorityRecommendations(tt.critical, tt.highPct)
			joined := strings.Join(recs, "\n")
			for _, want := range tt.contains {
				if !strings.Contains(joined, want) {
					t.Errorf("recommendations %v missing %q", recs, want)
				}
			}
			for _, unwanted := range tt.absent {
				if strings.Contains(joined, unwanted) {
					t.Errorf("recommendations %v should not contain %q", recs, unwanted)
				}
			}
		})
	}
}
