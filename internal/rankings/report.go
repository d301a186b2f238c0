package rankings

import (
	"fmt"
	"strings"
)

// FormatReport renders a ranking result as a multi-section plain-text
// report: the full power ranking table, the methodology weights, and the
// top teams under each alternative formula. This is purely a presentation
// layer over the structured Result.
func FormatReport(result *Result, alternativesShown int) string {
	var out []string

	out = append(out, fmt.Sprintf("POWER RANKINGS - AFTER WEEK %d", result.CurrentWeek))
	out = append(out, strings.Repeat("=", 60))
	out = append(out, "")

	for _, team := range result.Rankings {
		out = append(out, fmt.Sprintf("#%d %s (%s)", team.PowerRank, team.TeamName, team.Record))
		out = append(out, fmt.Sprintf("   Power Score: %.3f", team.ComprehensiveScore))
		out = append(out, fmt.Sprintf("   Avg Points: %.1f | Point Diff: %+.1f", team.AvgPointsFor, team.AvgPointDifferential))
		out = append(out, fmt.Sprintf("   Win %%: %.1f%% | Recent: %s (%.1f%%)", team.WinPercentage*100, team.RecentForm, team.RecentFormPct*100))
		out = append(out, fmt.Sprintf("   High: %.1f | Low: %.1f", team.HighestScore, team.LowestScore))
		out = append(out, "")
	}

	out = append(out, "RANKING METHODOLOGY:")
	out = append(out, "Power Score Breakdown:")
	out = append(out, fmt.Sprintf("- %.0f%% Win Percentage (managerial skill)", weightWinPercentage*100))
	out = append(out, fmt.Sprintf("- %.0f%% Scoring Average (offensive production)", weightScoringAverage*100))
	out = append(out, fmt.Sprintf("- %.0f%% Point Differential (dominance)", weightPointDifferential*100))
	out = append(out, fmt.Sprintf("- %.0f%% Recent Form (momentum)", weightRecentForm*100))
	out = append(out, fmt.Sprintf("- %.0f%% Consistency (reliability)", weightConsistency*100))
	out = append(out, "")

	out = append(out, "ALTERNATIVE RANKINGS:")
	out = append(out, "")

	out = append(out, "Oberon Mt. Power Rating (60% Avg Score, 20% High/Low, 20% Win %):")
	for i, team := range topTeams(SortByOberonRating(result.Rankings), alternativesShown) {
		out = append(out, fmt.Sprintf("  %d. %s: %.2f", i+1, team.TeamName, team.OberonRating))
	}
	out = append(out, "")

	out = append(out, "Team Value Index (Points For/Against * Win %):")
	for i, team := range topTeams(SortByValueIndex(result.Rankings), alternativesShown) {
		out = append(out, fmt.Sprintf("  %d. %s: %.3f", i+1, team.TeamName, team.TeamValueIndex))
	}

	return strings.Join(out, "\n")
}

func topTeams(rankings []TeamRanking, n int) []TeamRanking {
	if n <= 0 || n > len(rankings) {
		return rankings
	}
	return rankings[:n]
}
