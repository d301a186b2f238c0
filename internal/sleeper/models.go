package sleeper

import "time"

// League represents a Sleeper fantasy league
type League struct {
	LeagueID        string             `json:"league_id"`
	Name            string             `json:"name"`
	Status          string             `json:"status"`
	Sport           string             `json:"sport"`
	Season          string             `json:"season"`
	Settings        LeagueSettings     `json:"settings"`
	ScoringSettings map[string]float64 `json:"scoring_settings"`
	RosterPositions []string           `json:"roster_positions"`
	TotalRosters    int                `json:"total_rosters"`
	Avatar          string             `json:"avatar"`
}

// LeagueSettings contains the subset of league configuration the ranking
// tools care about
type LeagueSettings struct {
	NumTeams      int `json:"num_teams"`
	StartWeek     int `json:"start_week"`
	LastScoredLeg int `json:"last_scored_leg"`
	Leg           int `json:"leg"`
	PlayoffTeams  int `json:"playoff_teams"`
}

// User represents a Sleeper league member
type User struct {
	UserID      string            `json:"user_id"`
	Username    string            `json:"username"`
	DisplayName string            `json:"display_name"`
	Avatar      string            `json:"avatar"`
	Metadata    map[string]string `json:"metadata"`
}

// TeamName returns the user's fantasy team name, falling back to their
// display name and then their username when no team name is set.
func (u *User) TeamName() string {
	if name, ok := u.Metadata["team_name"]; ok && name != "" {
		return name
	}
	if u.DisplayName != "" {
		return u.DisplayName
	}
	return u.Username
}

// Roster represents a team's roster
type Roster struct {
	RosterID int            `json:"roster_id"`
	OwnerID  string         `json:"owner_id"`
	Players  []string       `json:"players"`
	Starters []string       `json:"starters"`
	Settings RosterSettings `json:"settings"`
}

// RosterSettings contains the season-to-date record Sleeper keeps on a roster
type RosterSettings struct {
	Wins               int     `json:"wins"`
	Losses             int     `json:"losses"`
	Ties               int     `json:"ties"`
	FPTS               float64 `json:"fpts"`
	FPTSDecimal        float64 `json:"fpts_decimal"`
	FPTSAgainst        float64 `json:"fpts_against"`
	FPTSAgainstDecimal float64 `json:"fpts_against_decimal"`
	WaiverPosition     int     `json:"waiver_position"`
	Division           int     `json:"division,omitempty"`
	PlayoffSeed        int     `json:"playoff_seed,omitempty"`
}

// Matchup represents one roster's side of a weekly matchup. Two entries
// share a MatchupID when the rosters played each other; bye weeks carry a
// zero matchup ID.
type Matchup struct {
	RosterID       int                `json:"roster_id"`
	MatchupID      int                `json:"matchup_id"`
	Points         float64            `json:"points"`
	Starters       []string           `json:"starters"`
	StartersPoints []float64          `json:"starters_points"`
	Players        []string           `json:"players"`
	PlayersPoints  map[string]float64 `json:"players_points"`
}

// APIResponse represents the standard response format for our tools
type APIResponse struct {
	Success  bool        `json:"success"`
	Data     interface{} `json:"data,omitempty"`
	Summary  string      `json:"summary"`
	Error    string      `json:"error,omitempty"`
	Metadata Metadata    `json:"metadata"`
}

// Metadata contains response metadata
type Metadata struct {
	Timestamp    time.Time `json:"timestamp"`
	Source       string    `json:"source"`
	APICallsUsed int       `json:"api_calls_used"`
	LeagueID     string    `json:"league_id,omitempty"`
}

// SleeperError represents an error from the Sleeper API
type SleeperError struct {
	Type       string `json:"type"`
	Message    string `json:"message"`
	StatusCode int    `json:"status_code,omitempty"`
	LeagueID   string `json:"league_id,omitempty"`
}

func (e *SleeperError) Error() string {
	return e.Message
}
