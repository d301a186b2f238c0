package rankings

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/sirupsen/logrus/hooks/test"

	"github.com/ffcommish/sleeper-power-rankings/internal/config"
	"github.com/ffcommish/sleeper-power-rankings/internal/sleeper"
)

// mockDataSource is a mock implementation of the DataSource interface for
// testing
type mockDataSource struct {
	GetLeagueUsersFunc   func(leagueID string) ([]sleeper.User, error)
	GetLeagueRostersFunc func(leagueID string) ([]sleeper.Roster, error)
	GetMatchupsFunc      func(leagueID string, week int) ([]sleeper.Matchup, error)
}

func (m *mockDataSource) GetLeagueUsers(leagueID string) ([]sleeper.User, error) {
	if m.GetLeagueUsersFunc != nil {
		return m.GetLeagueUsersFunc(leagueID)
	}
	return nil, errors.New("not implemented")
}

func (m *mockDataSource) GetLeagueRosters(leagueID string) ([]sleeper.Roster, error) {
	if m.GetLeagueRostersFunc != nil {
		return m.GetLeagueRostersFunc(leagueID)
	}
	return nil, errors.New("not implemented")
}

func (m *mockDataSource) GetMatchups(leagueID string, week int) ([]sleeper.Matchup, error) {
	if m.GetMatchupsFunc != nil {
		return m.GetMatchupsFunc(leagueID, week)
	}
	return nil, errors.New("not implemented")
}

func fourTeamSource(weeks map[int][]sleeper.Matchup) *mockDataSource {
	return &mockDataSource{
		GetLeagueUsersFunc: func(leagueID string) ([]sleeper.User, error) {
			return []sleeper.User{
				{UserID: "user1", DisplayName: "Team A"},
				{UserID: "user2", DisplayName: "Team B"},
				{UserID: "user3", DisplayName: "Team C"},
				{UserID: "user4", DisplayName: "Team D"},
			}, nil
		},
		GetLeagueRostersFunc: func(leagueID string) ([]sleeper.Roster, error) {
			return []sleeper.Roster{
				{RosterID: 1, OwnerID: "user1"},
				{RosterID: 2, OwnerID: "user2"},
				{RosterID: 3, OwnerID: "user3"},
				{RosterID: 4, OwnerID: "user4"},
			}, nil
		},
		GetMatchupsFunc: func(leagueID string, week int) ([]sleeper.Matchup, error) {
			return weeks[week], nil
		},
	}
}

func newTestCalculator(source DataSource) *Calculator {
	logger, _ := test.NewNullLogger()
	return NewCalculator(source, logger, config.DefaultRankingSettings())
}

func findTeam(t *testing.T, rankings []TeamRanking, name string) TeamRanking {
	t.Helper()
	for _, team := range rankings {
		if team.TeamName == name {
			return team
		}
	}
	t.Fatalf("Team %s not found in rankings", name)
	return TeamRanking{}
}

func TestCalculator_Generate_SingleWeek(t *testing.T) {
	// Week 1: A (120) beats B (100), D (95) beats C (90).
	weeks := map[int][]sleeper.Matchup{
		1: {
			{RosterID: 1, MatchupID: 1, Points: 120},
			{RosterID: 2, MatchupID: 1, Points: 100},
			{RosterID: 3, MatchupID: 2, Points: 90},
			{RosterID: 4, MatchupID: 2, Points: 95},
		},
	}

	calc := newTestCalculator(fourTeamSource(weeks))
	result, err := calc.Generate("league1", 1)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if result.CurrentWeek != 1 {
		t.Errorf("Expected current week 1, got %d", result.CurrentWeek)
	}
	if len(result.Rankings) != 4 {
		t.Fatalf("Expected 4 teams, got %d", len(result.Rankings))
	}

	teamA := findTeam(t, result.Rankings, "Team A")
	if teamA.Record != "1-0" || teamA.PointsFor != 120 || teamA.PointsAgainst != 100 {
		t.Errorf("Unexpected Team A stats: record=%s pf=%.1f pa=%.1f", teamA.Record, teamA.PointsFor, teamA.PointsAgainst)
	}

	teamD := findTeam(t, result.Rankings, "Team D")
	if teamD.Record != "1-0" || teamD.PointsFor != 95 {
		t.Errorf("Unexpected Team D stats: record=%s pf=%.1f", teamD.Record, teamD.PointsFor)
	}

	// Both 1-0 teams rank above both 0-1 teams; A's scoring and
	// differential edge places it above D, and C's smaller deficit places
	// it above B.
	wantOrder := []string{"Team A", "Team D", "Team C", "Team B"}
	for i, want := range wantOrder {
		if got := result.Rankings[i].TeamName; got != want {
			t.Errorf("Expected rank %d to be %s, got %s", i+1, want, got)
		}
	}

	// wins + losses equals completed games for every team
	for _, team := range result.Rankings {
		if team.Wins+team.Losses != 1 {
			t.Errorf("Expected %s to have exactly 1 game, got %d-%d", team.TeamName, team.Wins, team.Losses)
		}
	}
}

func TestCalculator_Generate_PowerRanksAreContiguous(t *testing.T) {
	weeks := map[int][]sleeper.Matchup{
		1: {
			{RosterID: 1, MatchupID: 1, Points: 120},
			{RosterID: 2, MatchupID: 1, Points: 100},
			{RosterID: 3, MatchupID: 2, Points: 90},
			{RosterID: 4, MatchupID: 2, Points: 95},
		},
	}

	calc := newTestCalculator(fourTeamSource(weeks))
	result, err := calc.Generate("league1", 1)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	seen := make(map[int]bool)
	for i, team := range result.Rankings {
		if team.PowerRank != i+1 {
			t.Errorf("Expected power rank %d at position %d, got %d", i+1, i, team.PowerRank)
		}
		if seen[team.PowerRank] {
			t.Errorf("Duplicate power rank %d", team.PowerRank)
		}
		seen[team.PowerRank] = true
	}

	for rank := 1; rank <= len(result.Rankings); rank++ {
		if !seen[rank] {
			t.Errorf("Missing power rank %d", rank)
		}
	}

	// The list is already sorted by comprehensive score descending.
	for i := 1; i < len(result.Rankings); i++ {
		if result.Rankings[i-1].ComprehensiveScore < result.Rankings[i].ComprehensiveScore {
			t.Errorf("Rankings not sorted by comprehensive score at position %d", i)
		}
	}
}

func TestCalculator_Generate_Deterministic(t *testing.T) {
	weeks := map[int][]sleeper.Matchup{
		1: {
			{RosterID: 1, MatchupID: 1, Points: 112.4},
			{RosterID: 2, MatchupID: 1, Points: 98.2},
			{RosterID: 3, MatchupID: 2, Points: 104.6},
			{RosterID: 4, MatchupID: 2, Points: 101.8},
		},
		2: {
			{RosterID: 1, MatchupID: 1, Points: 88.0},
			{RosterID: 3, MatchupID: 1, Points: 121.3},
			{RosterID: 2, MatchupID: 2, Points: 105.0},
			{RosterID: 4, MatchupID: 2, Points: 99.9},
		},
	}

	calc := newTestCalculator(fourTeamSource(weeks))

	first, err := calc.Generate("league1", 2)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	second, err := calc.Generate("league1", 2)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("Expected identical results across runs (-first +second):\n%s", diff)
	}

	// The alternative orderings are deterministic too.
	if diff := cmp.Diff(SortByValueIndex(first.Rankings), SortByValueIndex(second.Rankings)); diff != "" {
		t.Errorf("Expected identical value index ordering (-first +second):\n%s", diff)
	}
}

func TestCalculator_Generate_SkipsFailedWeeks(t *testing.T) {
	weeks := map[int][]sleeper.Matchup{
		2: {
			{RosterID: 1, MatchupID: 1, Points: 110},
			{RosterID: 2, MatchupID: 1, Points: 90},
			{RosterID: 3, MatchupID: 2, Points: 100},
			{RosterID: 4, MatchupID: 2, Points: 80},
		},
	}

	source := fourTeamSource(weeks)
	source.GetMatchupsFunc = func(leagueID string, week int) ([]sleeper.Matchup, error) {
		if week == 1 {
			return nil, errors.New("upstream data gap")
		}
		return weeks[week], nil
	}

	calc := newTestCalculator(source)
	result, err := calc.Generate("league1", 2)
	if err != nil {
		t.Fatalf("Expected failed week to be skipped, got error: %v", err)
	}

	// Week 1 was skipped entirely; only week 2 counts.
	for _, team := range result.Rankings {
		if team.Wins+team.Losses != 1 {
			t.Errorf("Expected %s to have 1 game after skipping week 1, got %d-%d", team.TeamName, team.Wins, team.Losses)
		}
	}
}

func TestCalculator_Generate_RecentFormWindow(t *testing.T) {
	// Roster 1 wins weeks 1-2 and loses weeks 3-5. With a 3-week window
	// over 5 completed weeks, only the losses count toward recent form.
	weeks := make(map[int][]sleeper.Matchup)
	for week := 1; week <= 5; week++ {
		winner, loser := 1, 2
		if week > 2 {
			winner, loser = 2, 1
		}
		weeks[week] = []sleeper.Matchup{
			{RosterID: winner, MatchupID: 1, Points: 110},
			{RosterID: loser, MatchupID: 1, Points: 100},
			{RosterID: 3, MatchupID: 2, Points: 105},
			{RosterID: 4, MatchupID: 2, Points: 95},
		}
	}

	calc := newTestCalculator(fourTeamSource(weeks))
	result, err := calc.Generate("league1", 5)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	teamA := findTeam(t, result.Rankings, "Team A")
	if teamA.Record != "2-3" {
		t.Errorf("Expected Team A record 2-3, got %s", teamA.Record)
	}
	if teamA.RecentForm != "LLL" {
		t.Errorf("Expected Team A recent form LLL, got %s", teamA.RecentForm)
	}
	if teamA.RecentFormPct != 0 {
		t.Errorf("Expected Team A recent form pct 0, got %f", teamA.RecentFormPct)
	}

	teamC := findTeam(t, result.Rankings, "Team C")
	if teamC.RecentForm != "WWW" {
		t.Errorf("Expected Team C recent form WWW, got %s", teamC.RecentForm)
	}
	if teamC.RecentFormPct != 1 {
		t.Errorf("Expected Team C recent form pct 1, got %f", teamC.RecentFormPct)
	}
}

func TestCalculator_Generate_NoCompletedWeeks(t *testing.T) {
	calc := newTestCalculator(fourTeamSource(nil))
	result, err := calc.Generate("league1", 0)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if result.LeagueAverages != nil {
		t.Error("Expected nil league averages when no team has played")
	}

	for _, team := range result.Rankings {
		if team.ComprehensiveScore != 0 || team.OberonRating != 0 || team.TeamValueIndex != 0 {
			t.Errorf("Expected all-zero formula outputs for %s", team.TeamName)
		}
		if team.HighestScore != 0 || team.LowestScore != 0 {
			t.Errorf("Expected zero high/low for unplayed %s", team.TeamName)
		}
		if team.RecentForm != "N/A" {
			t.Errorf("Expected recent form N/A for %s, got %s", team.TeamName, team.RecentForm)
		}
	}

	// Unplayed teams keep insertion (roster) order.
	wantOrder := []string{"Team A", "Team B", "Team C", "Team D"}
	for i, want := range wantOrder {
		if got := result.Rankings[i].TeamName; got != want {
			t.Errorf("Expected position %d to be %s, got %s", i, want, got)
		}
	}
}

func TestCalculator_Generate_UnplayedTeamInActiveLeague(t *testing.T) {
	// Week 1: A (120) beats B (100); C and D sit on byes and never play.
	weeks := map[int][]sleeper.Matchup{
		1: {
			{RosterID: 1, MatchupID: 1, Points: 120},
			{RosterID: 2, MatchupID: 1, Points: 100},
			{RosterID: 3, MatchupID: 0},
			{RosterID: 4, MatchupID: 0},
		},
	}

	calc := newTestCalculator(fourTeamSource(weeks))
	result, err := calc.Generate("league1", 1)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	teamC := findTeam(t, result.Rankings, "Team C")

	if teamC.Record != "0-0" || teamC.RecentForm != "N/A" {
		t.Errorf("Unexpected Team C stats: record=%s form=%s", teamC.Record, teamC.RecentForm)
	}
	if teamC.HighestScore != 0 || teamC.LowestScore != 0 {
		t.Errorf("Expected zero high/low for unplayed Team C, got %.1f/%.1f", teamC.HighestScore, teamC.LowestScore)
	}

	// Oberon and value index collapse to 0 with no games, but the
	// comprehensive formula still pays its neutral point-differential
	// term: the unplayed team sits at exactly the league midpoint of that
	// component. Here A's +20 and B's -20 average to a zero league
	// differential, so the term contributes 0.20 * 0.5.
	if teamC.OberonRating != 0 {
		t.Errorf("Expected zero Oberon rating, got %f", teamC.OberonRating)
	}
	if teamC.TeamValueIndex != 0 {
		t.Errorf("Expected zero value index, got %f", teamC.TeamValueIndex)
	}
	if !almostEqual(teamC.ComprehensiveScore, 0.10) {
		t.Errorf("Expected comprehensive score 0.10 for unplayed team, got %f", teamC.ComprehensiveScore)
	}

	// Both unplayed teams share the neutral score, so insertion order
	// breaks their tie, and even the week's loser outranks them.
	wantOrder := []string{"Team A", "Team B", "Team C", "Team D"}
	for i, want := range wantOrder {
		if got := result.Rankings[i].TeamName; got != want {
			t.Errorf("Expected position %d to be %s, got %s", i, want, got)
		}
	}
}

func TestCalculator_Generate_UnresolvableOwnerKeepsPlaceholder(t *testing.T) {
	source := fourTeamSource(map[int][]sleeper.Matchup{
		1: {
			{RosterID: 1, MatchupID: 1, Points: 120},
			{RosterID: 2, MatchupID: 1, Points: 100},
		},
	})
	// Roster 2's owner is missing from the league users.
	source.GetLeagueUsersFunc = func(leagueID string) ([]sleeper.User, error) {
		return []sleeper.User{
			{UserID: "user1", DisplayName: "Team A"},
			{UserID: "user3", DisplayName: "Team C"},
			{UserID: "user4", DisplayName: "Team D"},
		}, nil
	}

	calc := newTestCalculator(source)
	result, err := calc.Generate("league1", 1)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	placeholder := findTeam(t, result.Rankings, "Team 2")
	if placeholder.Record != "0-1" || placeholder.PointsFor != 100 {
		t.Errorf("Expected placeholder team to keep its stats, got record=%s pf=%.1f", placeholder.Record, placeholder.PointsFor)
	}
}

func TestCalculator_Generate_EmptyLeague(t *testing.T) {
	source := &mockDataSource{
		GetLeagueUsersFunc: func(leagueID string) ([]sleeper.User, error) {
			return nil, nil
		},
		GetLeagueRostersFunc: func(leagueID string) ([]sleeper.Roster, error) {
			return nil, nil
		},
	}

	calc := newTestCalculator(source)
	_, err := calc.Generate("league1", 3)

	if !errors.Is(err, ErrInsufficientData) {
		t.Errorf("Expected ErrInsufficientData, got %v", err)
	}
}

func TestCalculator_Generate_RosterFetchFailureIsFatal(t *testing.T) {
	source := &mockDataSource{
		GetLeagueRostersFunc: func(leagueID string) ([]sleeper.Roster, error) {
			return nil, errors.New("sleeper unavailable")
		},
	}

	calc := newTestCalculator(source)
	_, err := calc.Generate("league1", 3)

	if err == nil {
		t.Fatal("Expected error when rosters cannot be fetched")
	}
	if errors.Is(err, ErrInsufficientData) {
		t.Error("Upstream unavailability should not be reported as insufficient data")
	}
}

func TestSortByOberonRating(t *testing.T) {
	rankings := []TeamRanking{
		{TeamName: "Team A", OberonRating: 8.2},
		{TeamName: "Team B", OberonRating: 11.7},
		{TeamName: "Team C", OberonRating: 9.5},
	}

	sorted := SortByOberonRating(rankings)

	wantOrder := []string{"Team B", "Team C", "Team A"}
	for i, want := range wantOrder {
		if sorted[i].TeamName != want {
			t.Errorf("Expected position %d to be %s, got %s", i, want, sorted[i].TeamName)
		}
	}

	// The input slice is left untouched.
	if rankings[0].TeamName != "Team A" {
		t.Error("Expected original rankings order to be preserved")
	}
}

func TestSortByValueIndex(t *testing.T) {
	rankings := []TeamRanking{
		{TeamName: "Team A", TeamValueIndex: 0.41},
		{TeamName: "Team B", TeamValueIndex: 0.88},
		{TeamName: "Team C", TeamValueIndex: 0.63},
	}

	sorted := SortByValueIndex(rankings)

	wantOrder := []string{"Team B", "Team C", "Team A"}
	for i, want := range wantOrder {
		if sorted[i].TeamName != want {
			t.Errorf("Expected position %d to be %s, got %s", i, want, sorted[i].TeamName)
		}
	}
}
