package rankings

import "github.com/sirupsen/logrus"

// Outcome tokens recorded in a team's recent form history.
const (
	outcomeWin  = "W"
	outcomeLoss = "L"
)

// teamTotals holds the raw season-to-date counters for one team. It is
// mutated only during week accumulation; everything downstream reads it
// through deriveMetrics and never writes back.
type teamTotals struct {
	teamName string
	rosterID int
	ownerID  string

	wins          int
	losses        int
	pointsFor     float64
	pointsAgainst float64
	weeklyScores  []float64
	recentForm    []string

	// highest and lowest are meaningful only once played is set. A team
	// that never played reports 0 for both, which keeps "unplayed"
	// distinguishable from "played and scored 0" during accumulation.
	highest float64
	lowest  float64
	played  bool
}

func (t *teamTotals) gamesPlayed() int {
	return t.wins + t.losses
}

// recordGame folds one side of a completed matchup into the totals.
// inFormWindow marks weeks that fall inside the trailing recent-form window
// of the whole run.
func (t *teamTotals) recordGame(score, opponentScore float64, won, inFormWindow bool) {
	t.weeklyScores = append(t.weeklyScores, score)
	t.pointsFor += score
	t.pointsAgainst += opponentScore

	if won {
		t.wins++
	} else {
		t.losses++
	}

	if !t.played {
		t.highest = score
		t.lowest = score
		t.played = true
	} else {
		if score > t.highest {
			t.highest = score
		}
		if score < t.lowest {
			t.lowest = score
		}
	}

	if inFormWindow {
		if won {
			t.recentForm = append(t.recentForm, outcomeWin)
		} else {
			t.recentForm = append(t.recentForm, outcomeLoss)
		}
	}
}

// accumulateSeason walks completed weeks 1..currentWeek in order and folds
// every two-sided scoreboard into the team totals. Weeks must be processed
// sequentially because the recent-form window is defined over the last
// completed weeks of the whole run. A week whose matchup data cannot be
// fetched is logged and skipped; a partial data gap never aborts the run.
func (c *Calculator) accumulateSeason(leagueID string, currentWeek int, byName map[string]*teamTotals, teamNames map[string]string, rosterOwners map[int]string) {
	for week := 1; week <= currentWeek; week++ {
		matchups, err := c.source.GetMatchups(leagueID, week)
		if err != nil {
			c.logger.WithError(err).WithFields(logrus.Fields{
				"league_id": leagueID,
				"week":      week,
			}).Warn("Skipping week with unavailable matchup data")
			continue
		}

		scoreboards := BuildScoreboards(matchups, teamNames, rosterOwners)
		inFormWindow := week > currentWeek-c.settings.RecentFormWeeks

		for _, sides := range scoreboards {
			if len(sides) != 2 {
				continue
			}

			winner := sides[0]
			loser := sides[1]

			if team, ok := byName[winner.TeamName]; ok {
				team.recordGame(winner.Points, loser.Points, true, inFormWindow)
			}
			if team, ok := byName[loser.TeamName]; ok {
				team.recordGame(loser.Points, winner.Points, false, inFormWindow)
			}
		}
	}
}
