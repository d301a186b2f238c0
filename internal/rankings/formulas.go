package rankings

// Comprehensive power score weights. Each component is normalized to a 0-1
// scale before weighting, so the composite nominally lands in [0,1].
const (
	weightWinPercentage     = 0.30
	weightScoringAverage    = 0.25
	weightPointDifferential = 0.20
	weightRecentForm        = 0.15
	weightConsistency       = 0.10
)

// The per-game point differential is divided by a fixed scale and clamped
// before being remapped to 0-1. Both values were chosen empirically, not
// derived from league data; they bound the influence of blowout-heavy
// schedules on the composite score.
const (
	pointDiffScaleDivisor = 10.0
	pointDiffClampBound   = 1.0
)

// Oberon Mt. power rating: 60% average score, 20% midpoint of the season
// high and low, 20% win percentage on a 0-100 scale, all divided by 10 for
// a roughly 0-20 result.
const (
	oberonWeightAvgScore = 0.6
	oberonWeightHighLow  = 0.2
	oberonWeightWinPct   = 0.2
	oberonScaleDivisor   = 10.0
)

// comprehensiveScore is the primary ranking key: a weighted composite of win
// percentage, league-normalized scoring, bounded point differential, recent
// form, and consistency. With no league averages (no team has played) the
// score is 0.
func comprehensiveScore(m DerivedMetrics, averages *LeagueAverages) float64 {
	if averages == nil {
		return 0
	}

	pointsForNorm := 0.0
	if averages.AvgPointsFor > 0 {
		pointsForNorm = m.AvgPointsFor / averages.AvgPointsFor
	}

	diffNorm := (m.AvgPointDifferential - averages.AvgPointDiff) / pointDiffScaleDivisor
	if diffNorm > pointDiffClampBound {
		diffNorm = pointDiffClampBound
	}
	if diffNorm < -pointDiffClampBound {
		diffNorm = -pointDiffClampBound
	}
	diffNorm = (diffNorm + 1) / 2

	return m.WinPercentage*weightWinPercentage +
		pointsForNorm*weightScoringAverage +
		diffNorm*weightPointDifferential +
		m.RecentFormPct*weightRecentForm +
		m.ConsistencyScore*weightConsistency
}

// oberonRating is a legacy alternative ordering, never the primary sort key.
func oberonRating(m DerivedMetrics, highestScore, lowestScore float64) float64 {
	avgScoreComponent := m.AvgPointsFor * oberonWeightAvgScore
	highLowComponent := (highestScore + lowestScore) / 2 * oberonWeightHighLow
	winPctComponent := m.WinPercentage * 100 * oberonWeightWinPct

	return (avgScoreComponent + highLowComponent + winPctComponent) / oberonScaleDivisor
}

// teamValueIndex relates scoring efficiency to win rate:
// (avg points for / avg points against) * win percentage. A team with no
// games has no points against, so the index is defined as 0.
func teamValueIndex(m DerivedMetrics) float64 {
	if m.AvgPointsAgainst == 0 {
		return 0
	}
	return m.AvgPointsFor / m.AvgPointsAgainst * m.WinPercentage
}
