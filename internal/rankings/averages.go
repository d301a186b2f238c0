package rankings

// LeagueAverages are league-wide means used to normalize a single team's
// metrics against its peers. They are computed over the subset of teams that
// have played at least one game.
type LeagueAverages struct {
	AvgPointsFor     float64 `json:"avg_points_for"`
	AvgPointsAgainst float64 `json:"avg_points_against"`
	AvgWinPct        float64 `json:"avg_win_pct"`
	AvgPointDiff     float64 `json:"avg_point_diff"`
}

// calculateLeagueAverages returns nil when no team has played a game;
// downstream normalized components treat a nil average set as "fall back to
// 0" rather than dividing by zero.
func calculateLeagueAverages(teams []*teamTotals, metrics []DerivedMetrics) *LeagueAverages {
	var averages LeagueAverages
	counted := 0

	for i, team := range teams {
		if team.gamesPlayed() == 0 {
			continue
		}
		counted++
		averages.AvgPointsFor += metrics[i].AvgPointsFor
		averages.AvgPointsAgainst += metrics[i].AvgPointsAgainst
		averages.AvgWinPct += metrics[i].WinPercentage
		averages.AvgPointDiff += metrics[i].AvgPointDifferential
	}

	if counted == 0 {
		return nil
	}

	n := float64(counted)
	averages.AvgPointsFor /= n
	averages.AvgPointsAgainst /= n
	averages.AvgWinPct /= n
	averages.AvgPointDiff /= n

	return &averages
}
