// Package rankings implements the league power ranking engine. It walks the
// completed weeks of a season, accumulates per-team raw counters, derives
// normalized statistical metrics, and orders every team under three
// competing formulas: a comprehensive weighted composite (the primary key),
// the legacy Oberon Mt. power rating, and a team value index.
//
// The engine holds no state between runs: every call to Generate
// reconstructs all team records from the raw weekly data supplied by the
// data source.
package rankings

import (
	"errors"
	"fmt"
	"runtime"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/ffcommish/sleeper-power-rankings/internal/config"
	"github.com/ffcommish/sleeper-power-rankings/internal/sleeper"
)

// DataSource supplies the already-fetched league data a ranking run
// consumes. sleeper.Client satisfies it.
type DataSource interface {
	GetLeagueUsers(leagueID string) ([]sleeper.User, error)
	GetLeagueRosters(leagueID string) ([]sleeper.Roster, error)
	GetMatchups(leagueID string, week int) ([]sleeper.Matchup, error)
}

// ErrInsufficientData reports a league with no resolvable teams. Callers can
// match it with errors.Is to render a user-facing message instead of a raw
// failure.
var ErrInsufficientData = errors.New("insufficient data to generate power rankings")

// reportedFormLength caps the recent form string shown in team records.
const reportedFormLength = 3

// TeamRanking is one team's complete ranking record: raw counters, derived
// metrics, and the outputs of all three ranking formulas.
type TeamRanking struct {
	TeamName string `json:"team_name"`
	RosterID int    `json:"roster_id"`
	OwnerID  string `json:"owner_id"`

	Record               string  `json:"record"`
	Wins                 int     `json:"wins"`
	Losses               int     `json:"losses"`
	WinPercentage        float64 `json:"win_percentage"`
	PointsFor            float64 `json:"points_for"`
	PointsAgainst        float64 `json:"points_against"`
	AvgPointsFor         float64 `json:"avg_points_for"`
	AvgPointsAgainst     float64 `json:"avg_points_against"`
	PointDifferential    float64 `json:"point_differential"`
	AvgPointDifferential float64 `json:"avg_point_differential"`
	HighestScore         float64 `json:"highest_score"`
	LowestScore          float64 `json:"lowest_score"`
	ScoreStdDev          float64 `json:"score_std_dev"`
	ConsistencyScore     float64 `json:"consistency_score"`
	RecentForm           string  `json:"recent_form"`
	RecentFormPct        float64 `json:"recent_form_pct"`

	OberonRating       float64 `json:"oberon_rating"`
	TeamValueIndex     float64 `json:"team_value_index"`
	ComprehensiveScore float64 `json:"comprehensive_score"`
	PowerRank          int     `json:"power_rank"`
}

// Result is the structured output of one ranking run.
type Result struct {
	Rankings       []TeamRanking   `json:"rankings"`
	LeagueAverages *LeagueAverages `json:"league_averages,omitempty"`
	CurrentWeek    int             `json:"current_week"`
}

// Calculator computes power rankings for a league from a data source.
type Calculator struct {
	source   DataSource
	logger   *logrus.Logger
	settings config.RankingSettings
}

// NewCalculator creates a ranking calculator. Zero-valued settings fields
// fall back to the defaults.
func NewCalculator(source DataSource, logger *logrus.Logger, settings config.RankingSettings) *Calculator {
	defaults := config.DefaultRankingSettings()
	if settings.RecentFormWeeks <= 0 {
		settings.RecentFormWeeks = defaults.RecentFormWeeks
	}
	if settings.AlternativesShown <= 0 {
		settings.AlternativesShown = defaults.AlternativesShown
	}

	return &Calculator{
		source:   source,
		logger:   logger,
		settings: settings,
	}
}

// Generate computes power rankings for the league through currentWeek
// completed weeks. The caller decides what counts as the most recent
// completed week; the engine never infers the NFL calendar itself.
//
// Roster or user fetch failures are fatal to the run: no partial ranking is
// meaningful without basic roster identity. A league with no rosters yields
// ErrInsufficientData.
func (c *Calculator) Generate(leagueID string, currentWeek int) (*Result, error) {
	rosters, err := c.source.GetLeagueRosters(leagueID)
	if err != nil {
		return nil, fmt.Errorf("failed to get rosters for league %s: %w", leagueID, err)
	}

	users, err := c.source.GetLeagueUsers(leagueID)
	if err != nil {
		return nil, fmt.Errorf("failed to get users for league %s: %w", leagueID, err)
	}

	if len(rosters) == 0 {
		return nil, fmt.Errorf("league %s has no rosters: %w", leagueID, ErrInsufficientData)
	}

	// Ownership is resolved once with the mapping valid now and applied to
	// every historical week; mid-season name changes attribute old weeks to
	// the current name.
	teamNames := make(map[string]string, len(users))
	for i := range users {
		teamNames[users[i].UserID] = users[i].TeamName()
	}
	rosterOwners := make(map[int]string, len(rosters))
	for _, roster := range rosters {
		rosterOwners[roster.RosterID] = roster.OwnerID
	}

	// Team records keep roster order; the final stable sort breaks score
	// ties by this insertion order.
	teams := make([]*teamTotals, 0, len(rosters))
	byName := make(map[string]*teamTotals, len(rosters))
	for _, roster := range rosters {
		totals := &teamTotals{
			teamName: resolveTeamName(roster.RosterID, teamNames, rosterOwners),
			rosterID: roster.RosterID,
			ownerID:  roster.OwnerID,
		}
		teams = append(teams, totals)
		byName[totals.teamName] = totals
	}

	c.accumulateSeason(leagueID, currentWeek, byName, teamNames, rosterOwners)

	// Once accumulation has finished the per-team passes are independent,
	// so derive metrics and the league-independent formulas in parallel.
	metrics := make([]DerivedMetrics, len(teams))
	rankings := make([]TeamRanking, len(teams))

	g := new(errgroup.Group)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i := range teams {
		g.Go(func() error {
			metrics[i] = deriveMetrics(teams[i])
			rankings[i] = newTeamRanking(teams[i], metrics[i])
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	averages := calculateLeagueAverages(teams, metrics)
	for i := range rankings {
		rankings[i].ComprehensiveScore = comprehensiveScore(metrics[i], averages)
	}

	assignPowerRanks(rankings)

	c.logger.WithFields(logrus.Fields{
		"league_id":    leagueID,
		"teams":        len(rankings),
		"current_week": currentWeek,
	}).Info("Generated power rankings")

	return &Result{
		Rankings:       rankings,
		LeagueAverages: averages,
		CurrentWeek:    currentWeek,
	}, nil
}

// newTeamRanking merges a team's raw counters and derived metrics into one
// record and evaluates the two league-independent formulas. The
// comprehensive score is filled in later, once league averages exist.
func newTeamRanking(t *teamTotals, m DerivedMetrics) TeamRanking {
	return TeamRanking{
		TeamName:             t.teamName,
		RosterID:             t.rosterID,
		OwnerID:              t.ownerID,
		Record:               fmt.Sprintf("%d-%d", t.wins, t.losses),
		Wins:                 t.wins,
		Losses:               t.losses,
		WinPercentage:        m.WinPercentage,
		PointsFor:            t.pointsFor,
		PointsAgainst:        t.pointsAgainst,
		AvgPointsFor:         m.AvgPointsFor,
		AvgPointsAgainst:     m.AvgPointsAgainst,
		PointDifferential:    m.PointDifferential,
		AvgPointDifferential: m.AvgPointDifferential,
		HighestScore:         t.highest,
		LowestScore:          t.lowest,
		ScoreStdDev:          m.ScoreStdDev,
		ConsistencyScore:     m.ConsistencyScore,
		RecentForm:           formatRecentForm(t.recentForm),
		RecentFormPct:        m.RecentFormPct,
		OberonRating:         oberonRating(m, t.highest, t.lowest),
		TeamValueIndex:       teamValueIndex(m),
	}
}

// formatRecentForm renders the trailing outcomes as a string like "WLW",
// capped to the most recent entries, or "N/A" for a team with no recent
// games.
func formatRecentForm(outcomes []string) string {
	if len(outcomes) == 0 {
		return "N/A"
	}
	if len(outcomes) > reportedFormLength {
		outcomes = outcomes[len(outcomes)-reportedFormLength:]
	}
	return strings.Join(outcomes, "")
}

// assignPowerRanks stable-sorts by comprehensive score descending and
// assigns 1-based power ranks, so ranks always form the contiguous range
// 1..N.
func assignPowerRanks(rankings []TeamRanking) {
	sort.SliceStable(rankings, func(i, j int) bool {
		return rankings[i].ComprehensiveScore > rankings[j].ComprehensiveScore
	})
	for i := range rankings {
		rankings[i].PowerRank = i + 1
	}
}

// SortByOberonRating returns a copy of the rankings ordered by the Oberon
// rating descending. The copy keeps the power ranks assigned by the
// comprehensive sort.
func SortByOberonRating(rankings []TeamRanking) []TeamRanking {
	sorted := make([]TeamRanking, len(rankings))
	copy(sorted, rankings)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].OberonRating > sorted[j].OberonRating
	})
	return sorted
}

// SortByValueIndex returns a copy of the rankings ordered by the team value
// index descending.
func SortByValueIndex(rankings []TeamRanking) []TeamRanking {
	sorted := make([]TeamRanking, len(rankings))
	copy(sorted, rankings)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].TeamValueIndex > sorted[j].TeamValueIndex
	})
	return sorted
}
