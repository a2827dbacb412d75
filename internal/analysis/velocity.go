package analysis

import (
	"fmt"
	"sort"
)

// TrendDirection classifies the velocity trend across the analyzed
// window.
type TrendDirection string

const (
	TrendUp               TrendDirection = "UP"
	TrendDown             TrendDirection = "DOWN"
	TrendStable           TrendDirection = "STABLE"
	TrendInsufficientData TrendDirection = "INSUFFICIENT_DATA"
)

// DefaultTrendWindow is the sprint window analyzed when the caller
// doesn't request one.
const DefaultTrendWindow = 3

// SprintSnapshot pairs a sprint with its normalized issue set. The
// upstream fetches behind the snapshots are independent; the analyzer
// only runs once all of them are in.
type SprintSnapshot struct {
	Sprint  SprintInfo
	Records []Record
}

// PointVelocity is a sprint's story-point velocity: completed points.
type PointVelocity struct {
	Committed float64 `json:"committed"`
	Completed float64 `json:"completed"`
	Velocity  float64 `json:"velocity"`
}

// CountVelocity is a sprint's issue-count velocity: completed issues.
type CountVelocity struct {
	Committed int `json:"committed"`
	Completed int `json:"completed"`
	Velocity  int `json:"velocity"`
}

// SprintVelocity is one sprint's contribution to the trend.
type SprintVelocity struct {
	SprintID        int           `json:"sprint_id"`
	SprintName      string        `json:"sprint_name"`
	SprintState     string        `json:"sprint_state"`
	StartDate       string        `json:"start_date,omitempty"`
	EndDate         string        `json:"end_date,omitempty"`
	UsesStoryPoints bool          `json:"uses_story_points"`
	StoryPoints     PointVelocity `json:"story_points"`
	IssueThroughput CountVelocity `json:"issue_throughput"`
}

// VelocityTrend summarizes the direction and size of the velocity
// change across the window.
type VelocityTrend struct {
	Direction        TrendDirection `json:"direction"`
	PercentageChange float64        `json:"percentage_change"`
	AverageVelocity  float64        `json:"average_velocity"`
	UsesStoryPoints  bool           `json:"uses_story_points"`
	MetricType       string         `json:"metric_type"`
}

// VelocityReport is the full result of a velocity trend analysis.
type VelocityReport struct {
	BoardID         int              `json:"board_id"`
	AnalysisPeriod  string           `json:"analysis_period"`
	SprintsAnalyzed int              `json:"sprints_analyzed"`
	VelocityTrend   VelocityTrend    `json:"velocity_trend"`
	SprintDetails   []SprintVelocity `json:"sprint_details"`
	Recommendations []string         `json:"recommendations"`
}

// SelectRecentSprints filters out sprints without a known start date,
// sorts the rest most-recent-first, and returns the first n. This runs
// before the per-sprint issue fetches so the caller only fetches what
// the window needs.
func SelectRecentSprints(sprints []SprintInfo, n int) []SprintInfo {
	type dated struct {
		sprint SprintInfo
		start  int64
	}
	var ds []dated
	for _, s := range sprints {
		if t, ok := parseSprintTime(s.StartDate); ok {
			ds = append(ds, dated{sprint: s, start: t.UnixMilli()})
		}
	}
	sort.SliceStable(ds, func(i, j int) bool { return ds[i].start > ds[j].start })

	if n < 1 {
		n = DefaultTrendWindow
	}
	if len(ds) > n {
		ds = ds[:n]
	}
	out := make([]SprintInfo, len(ds))
	for i, d := range ds {
		out[i] = d.sprint
	}
	return out
}

// AnalyzeVelocityTrend computes the velocity series and trend
// classification over the given snapshots, which must already be
// ordered most-recent-first (SelectRecentSprints order). window is only
// used to label the analysis period.
func AnalyzeVelocityTrend(boardID int, snapshots []SprintSnapshot, window int) *VelocityReport {
	if window < 1 {
		window = DefaultTrendWindow
	}

	details := make([]SprintVelocity, 0, len(snapshots))
	for _, snap := range snapshots {
		details = append(details, sprintVelocity(snap))
	}

	trend := VelocityTrend{
		Direction:  TrendInsufficientData,
		MetricType: MetricIssueCount,
	}

	if len(details) >= 2 {
		usesPoints := false
		for _, d := range details {
			if d.UsesStoryPoints {
				usesPoints = true
				break
			}
		}

		// Point-based trends only take velocities from sprints that
		// actually used points; count velocities are never mixed in.
		var velocities []float64
		for _, d := range details {
			if usesPoints {
				if d.UsesStoryPoints {
					velocities = append(velocities, d.StoryPoints.Velocity)
				}
			} else {
				velocities = append(velocities, float64(d.IssueThroughput.Velocity))
			}
		}

		trend.UsesStoryPoints = usesPoints
		if usesPoints {
			trend.MetricType = MetricStoryPoints
		}

		if len(velocities) >= 2 {
			// With exactly two velocities the recent and older pairs
			// are the same pair, so the comparison degenerates to
			// STABLE at 0% — documented behavior, not special-cased.
			recentAvg := (velocities[0] + velocities[1]) / 2
			olderAvg := (velocities[len(velocities)-2] + velocities[len(velocities)-1]) / 2

			switch {
			case recentAvg > olderAvg:
				trend.Direction = TrendUp
			case recentAvg < olderAvg:
				trend.Direction = TrendDown
			default:
				trend.Direction = TrendStable
			}
			if olderAvg > 0 {
				trend.PercentageChange = round1((recentAvg - olderAvg) / olderAvg * 100)
			}
		}

		trend.AverageVelocity = round1(mean(velocities))
	}

	return &VelocityReport{
		BoardID:         boardID,
		AnalysisPeriod:  fmt.Sprintf("Last %d sprints", window),
		SprintsAnalyzed: len(details),
		VelocityTrend:   trend,
		SprintDetails:   details,
		Recommendations: trendRecommendations(trend.Direction),
	}
}

// sprintVelocity aggregates one sprint's completed work in both
// metrics. Committed points only count issues that carry points, the
// same aggregation the commitment analyzer uses.
func sprintVelocity(snap SprintSnapshot) SprintVelocity {
	sv := SprintVelocity{
		SprintID:    snap.Sprint.ID,
		SprintName:  snap.Sprint.Name,
		SprintState: snap.Sprint.State,
		StartDate:   snap.Sprint.StartDate,
		EndDate:     snap.Sprint.EndDate,
	}

	sv.IssueThroughput.Committed = len(snap.Records)
	for _, r := range snap.Records {
		if r.HasPoints() {
			sv.UsesStoryPoints = true
			sv.StoryPoints.Committed += r.StoryPoints
			if r.Bucket == StatusDone {
				sv.StoryPoints.Completed += r.StoryPoints
			}
		}
		if r.Bucket == StatusDone {
			sv.IssueThroughput.Completed++
		}
	}
	sv.StoryPoints.Velocity = sv.StoryPoints.Completed
	sv.IssueThroughput.Velocity = sv.IssueThroughput.Completed
	return sv
}

func mean(vs []float64) float64 {
	if len(vs) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range vs {
		sum += v
	}
	return sum / float64(len(vs))
}

// trendRecommendations maps each trend direction to its fixed advice.
func trendRecommendations(direction TrendDirection) []string {
	switch direction {
	case TrendDown:
		return []string{
			"Velocity is declining - investigate potential blockers or capacity issues",
			"Consider retrospective to identify improvement opportunities",
		}
	case TrendUp:
		return []string{"Velocity is improving - good trend, maintain current practices"}
	case TrendStable:
		return []string{"Velocity is stable - predictable delivery capacity"}
	default:
		return []string{"Need more completed sprints for trend analysis"}
	}
}
