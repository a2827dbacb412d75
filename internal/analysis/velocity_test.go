package analysis

import (
	"strings"
	"testing"
)

func snapshot(id int, name string, done, todo int, pointsPerIssue float64) SprintSnapshot {
	records := append(
		reps(done, StatusDone, PriorityMedium, "Ann", pointsPerIssue),
		reps(todo, StatusTodo, PriorityMedium, "Bob", pointsPerIssue)...,
	)
	return SprintSnapshot{
		Sprint:  SprintInfo{ID: id, Name: name, State: "closed"},
		Records: records,
	}
}

// --- SelectRecentSprints ---

func TestSelectRecentSprints_SortsAndFilters(t *testing.T) {
	sprints := []SprintInfo{
		{ID: 1, StartDate: "2026-06-01T09:00:00Z"},
		{ID: 2, StartDate: ""}, // undated, dropped
		{ID: 3, StartDate: "2026-08-01T09:00:00Z"},
		{ID: 4, StartDate: "2026-07-01T09:00:00Z"},
		{ID: 5, StartDate: "garbage"}, // unparseable, dropped
	}

	got := SelectRecentSprints(sprints, 2)

	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0].ID != 3 || got[1].ID != 4 {
		t.Errorf("order = [%d %d], want [3 4]", got[0].ID, got[1].ID)
	}
}

func TestSelectRecentSprints_FewerThanWindow(t *testing.T) {
	sprints := []SprintInfo{{ID: 1, StartDate: "2026-08-01"}}
	if got := SelectRecentSprints(sprints, 5); len(got) != 1 {
		t.Errorf("len = %d, want 1", len(got))
	}
}

func TestSelectRecentSprints_InvalidWindowUsesDefault(t *testing.T) {
	sprints := []SprintInfo{
		{ID: 1, StartDate: "2026-05-01"},
		{ID: 2, StartDate: "2026-06-01"},
		{ID: 3, StartDate: "2026-07-01"},
		{ID: 4, StartDate: "2026-08-01"},
	}
	if got := SelectRecentSprints(sprints, 0); len(got) != DefaultTrendWindow {
		t.Errorf("len = %d, want %d", len(got), DefaultTrendWindow)
	}
}

// --- AnalyzeVelocityTrend ---

func TestAnalyzeVelocityTrend_InsufficientData(t *testing.T) {
	for _, snapshots := range [][]SprintSnapshot{
		nil,
		{snapshot(1, "S1", 5, 0, 0)},
	} {
		report := AnalyzeVelocityTrend(7, snapshots, 3)

		if report.VelocityTrend.Direction != TrendInsufficientData {
			t.Errorf("%d sprints: Direction = %q, want %q",
				len(snapshots), report.VelocityTrend.Direction, TrendInsufficientData)
		}
		if report.BoardID != 7 {
			t.Errorf("BoardID = %d, want 7", report.BoardID)
		}
	}
}

func TestAnalyzeVelocityTrend_TwoSprintWindowDegenerates(t *testing.T) {
	// With exactly two sprints the recent and older pairs coincide, so
	// the trend is STABLE at 0% no matter how different the velocities.
	snapshots := []SprintSnapshot{
		snapshot(2, "S2", 10, 0, 0),
		snapshot(1, "S1", 2, 0, 0),
	}

	report := AnalyzeVelocityTrend(7, snapshots, 2)

	if report.VelocityTrend.Direction != TrendStable {
		t.Errorf("Direction = %q, want %q", report.VelocityTrend.Direction, TrendStable)
	}
	if report.VelocityTrend.PercentageChange != 0 {
		t.Errorf("PercentageChange = %v, want 0", report.VelocityTrend.PercentageChange)
	}
	if report.VelocityTrend.AverageVelocity != 6 {
		t.Errorf("AverageVelocity = %v, want 6", report.VelocityTrend.AverageVelocity)
	}
}

func TestAnalyzeVelocityTrend_Up(t *testing.T) {
	// Velocities 30, 20, 10 most-recent-first: recent pair averages 25,
	// older pair 15.
	snapshots := []SprintSnapshot{
		snapshot(3, "S3", 30, 0, 0),
		snapshot(2, "S2", 20, 0, 0),
		snapshot(1, "S1", 10, 0, 0),
	}

	report := AnalyzeVelocityTrend(7, snapshots, 3)

	if report.VelocityTrend.Direction != TrendUp {
		t.Errorf("Direction = %q, want %q", report.VelocityTrend.Direction, TrendUp)
	}
	if report.VelocityTrend.PercentageChange != 66.7 {
		t.Errorf("PercentageChange = %v, want 66.7", report.VelocityTrend.PercentageChange)
	}
	if report.VelocityTrend.AverageVelocity != 20 {
		t.Errorf("AverageVelocity = %v, want 20", report.VelocityTrend.AverageVelocity)
	}
	if report.SprintsAnalyzed != 3 {
		t.Errorf("SprintsAnalyzed = %d, want 3", report.SprintsAnalyzed)
	}
	if report.AnalysisPeriod != "Last 3 sprints" {
		t.Errorf("AnalysisPeriod = %q, want %q", report.AnalysisPeriod, "Last 3 sprints")
	}
}

func TestAnalyzeVelocityTrend_Down(t *testing.T) {
	snapshots := []SprintSnapshot{
		snapshot(3, "S3", 5, 0, 0),
		snapshot(2, "S2", 10, 0, 0),
		snapshot(1, "S1", 20, 0, 0),
	}

	report := AnalyzeVelocityTrend(7, snapshots, 3)

	if report.VelocityTrend.Direction != TrendDown {
		t.Errorf("Direction = %q, want %q", report.VelocityTrend.Direction, TrendDown)
	}
	if report.VelocityTrend.PercentageChange != -50 {
		t.Errorf("PercentageChange = %v, want -50", report.VelocityTrend.PercentageChange)
	}
}

func TestAnalyzeVelocityTrend_ZeroOlderAverageGuard(t *testing.T) {
	// Older pair completed nothing: the percentage stays 0 rather than
	// dividing by zero, but the direction still reports UP.
	snapshots := []SprintSnapshot{
		snapshot(3, "S3", 8, 0, 0),
		snapshot(2, "S2", 0, 5, 0),
		snapshot(1, "S1", 0, 5, 0),
	}

	report := AnalyzeVelocityTrend(7, snapshots, 3)

	if report.VelocityTrend.Direction != TrendUp {
		t.Errorf("Direction = %q, want %q", report.VelocityTrend.Direction, TrendUp)
	}
	if report.VelocityTrend.PercentageChange != 0 {
		t.Errorf("PercentageChange = %v, want 0", report.VelocityTrend.PercentageChange)
	}
}

func TestAnalyzeVelocityTrend_PointSprintsOnly(t *testing.T) {
	// One sprint uses points, the others don't: the trend switches to
	// story points and only the point sprint's velocity counts, which
	// leaves fewer than two velocities and no direction change.
	snapshots := []SprintSnapshot{
		snapshot(3, "S3", 4, 0, 5), // 20 points done
		snapshot(2, "S2", 10, 0, 0),
		snapshot(1, "S1", 12, 0, 0),
	}

	report := AnalyzeVelocityTrend(7, snapshots, 3)

	if !report.VelocityTrend.UsesStoryPoints {
		t.Fatal("UsesStoryPoints = false, want true")
	}
	if report.VelocityTrend.MetricType != MetricStoryPoints {
		t.Errorf("MetricType = %q, want %q", report.VelocityTrend.MetricType, MetricStoryPoints)
	}
	if report.VelocityTrend.Direction != TrendInsufficientData {
		t.Errorf("Direction = %q, want %q", report.VelocityTrend.Direction, TrendInsufficientData)
	}
	if report.VelocityTrend.AverageVelocity != 20 {
		t.Errorf("AverageVelocity = %v, want 20", report.VelocityTrend.AverageVelocity)
	}
}

func TestSprintVelocity_PerSprintAggregation(t *testing.T) {
	snap := SprintSnapshot{
		Sprint: SprintInfo{ID: 9, Name: "S9", State: "closed"},
		Records: []Record{
			rec("A-1", StatusDone, PriorityHigh, "Ann", 5),
			rec("A-2", StatusDone, PriorityLow, "Bob", 0), // unestimated but done
			rec("A-3", StatusTodo, PriorityLow, "Bob", 3),
		},
	}

	sv := sprintVelocity(snap)

	if !sv.UsesStoryPoints {
		t.Error("UsesStoryPoints = false, want true")
	}
	if sv.StoryPoints.Committed != 8 || sv.StoryPoints.Velocity != 5 {
		t.Errorf("StoryPoints = %+v, want committed 8 velocity 5", sv.StoryPoints)
	}
	if sv.IssueThroughput.Committed != 3 || sv.IssueThroughput.Velocity != 2 {
		t.Errorf("IssueThroughput = %+v, want committed 3 velocity 2", sv.IssueThroughput)
	}
}

func TestTrendRecommendations(t *testing.T) {
	tests := []struct {
		direction TrendDirection
		contains  string
	}{
		{TrendDown, "declining"},
		{TrendUp, "improving"},
		{TrendStable, "stable"},
		{TrendInsufficientData, "more completed sprints"},
	}

	for _, tt := range tests {
		recs := trendRecommendations(tt.direction)
		if len(recs) == 0 {
			t.Errorf("%s: no recommendations", tt.direction)
			continue
		}
		found := false
		for _, r := range recs {
			if strings.Contains(r, tt.contains) {
				found = true
			}
		}
		if !found {
			t.Errorf("%s: recommendations %v missing %q", tt.direction, recs, tt.contains)
		}
	}
}
