package rankings

import (
	"fmt"
	"sort"

	"github.com/ffcommish/sleeper-power-rankings/internal/sleeper"
)

// ScoreboardSide is one team's side of a resolved weekly matchup.
type ScoreboardSide struct {
	TeamName string  `json:"team_name"`
	Points   float64 `json:"points"`
}

// BuildScoreboards resolves a week's raw matchup records into named
// scoreboards keyed by matchup ID. Each scoreboard is sorted by points
// descending so the winner is always first. Rosters whose owner or team name
// cannot be resolved through the mappings are reported under a synthetic
// "Team <rosterID>" placeholder rather than dropped, so no score disappears
// from the aggregate stats. Matchups with fewer than two sides (bye weeks,
// data gaps) are excluded from the result; their absence means "no data for
// this slot", not an error.
func BuildScoreboards(matchups []sleeper.Matchup, teamNames map[string]string, rosterOwners map[int]string) map[int][]ScoreboardSide {
	scoreboards := make(map[int][]ScoreboardSide)

	for _, matchup := range matchups {
		// Sleeper marks byes and unscheduled slots with a zero matchup ID.
		if matchup.MatchupID == 0 {
			continue
		}

		scoreboards[matchup.MatchupID] = append(scoreboards[matchup.MatchupID], ScoreboardSide{
			TeamName: resolveTeamName(matchup.RosterID, teamNames, rosterOwners),
			Points:   matchup.Points,
		})
	}

	for matchupID, sides := range scoreboards {
		if len(sides) < 2 {
			delete(scoreboards, matchupID)
			continue
		}
		sort.SliceStable(sides, func(i, j int) bool {
			return sides[i].Points > sides[j].Points
		})
	}

	return scoreboards
}

// resolveTeamName maps a roster ID to its team name via roster -> owner ->
// team name, with a synthetic placeholder for anything unresolvable.
func resolveTeamName(rosterID int, teamNames map[string]string, rosterOwners map[int]string) string {
	if ownerID, ok := rosterOwners[rosterID]; ok {
		if name, ok := teamNames[ownerID]; ok && name != "" {
			return name
		}
	}
	return fmt.Sprintf("Team %d", rosterID)
}
