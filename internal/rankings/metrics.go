package rankings

import "math"

// DerivedMetrics are the read-only ratios and statistical measures computed
// once from a team's finalized raw counters.
type DerivedMetrics struct {
	WinPercentage        float64
	AvgPointsFor         float64
	AvgPointsAgainst     float64
	PointDifferential    float64
	AvgPointDifferential float64
	ScoreStdDev          float64
	ConsistencyScore     float64
	RecentFormPct        float64
}

// deriveMetrics computes a team's derived metrics from its raw counters.
// Teams with zero games played get the all-zero value - a deliberate default
// so a newly added or bye-heavy team still sorts predictably instead of
// producing NaN in the ranking math.
func deriveMetrics(t *teamTotals) DerivedMetrics {
	games := t.gamesPlayed()
	if games == 0 {
		return DerivedMetrics{}
	}

	m := DerivedMetrics{
		WinPercentage:     float64(t.wins) / float64(games),
		AvgPointsFor:      t.pointsFor / float64(games),
		AvgPointsAgainst:  t.pointsAgainst / float64(games),
		PointDifferential: t.pointsFor - t.pointsAgainst,
	}
	m.AvgPointDifferential = m.PointDifferential / float64(games)

	// Consistency rewards lower variance: 1/(1+stddev) stays in (0,1] and
	// never divides by zero. A single sample has no variance, so a
	// one-game team is maximally consistent.
	m.ScoreStdDev = sampleStdDev(t.weeklyScores)
	m.ConsistencyScore = 1 / (1 + m.ScoreStdDev)

	if len(t.recentForm) > 0 {
		recentWins := 0
		for _, outcome := range t.recentForm {
			if outcome == outcomeWin {
				recentWins++
			}
		}
		m.RecentFormPct = float64(recentWins) / float64(len(t.recentForm))
	}

	return m
}

// sampleStdDev returns the sample standard deviation of the scores, or 0 for
// fewer than two samples.
func sampleStdDev(scores []float64) float64 {
	if len(scores) < 2 {
		return 0
	}

	var sum float64
	for _, score := range scores {
		sum += score
	}
	mean := sum / float64(len(scores))

	var squares float64
	for _, score := range scores {
		diff := score - mean
		squares += diff * diff
	}

	return math.Sqrt(squares / float64(len(scores)-1))
}
