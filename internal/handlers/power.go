package handlers

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/sirupsen/logrus"

	"github.com/ffcommish/sleeper-power-rankings/internal/config"
	"github.com/ffcommish/sleeper-power-rankings/internal/rankings"
	"github.com/ffcommish/sleeper-power-rankings/internal/schedule"
	"github.com/ffcommish/sleeper-power-rankings/internal/sleeper"
)

// PowerRankingsArgs represents the parameters for the power ranking tools
type PowerRankingsArgs struct {
	LeagueID string `json:"league_id"`
	Week     int    `json:"week,omitempty"`
}

// PostingWindow is the response payload of the get_posting_window tool
type PostingWindow struct {
	Available bool   `json:"available"`
	Day       string `json:"day"`
}

// PowerRankingsHandler handles power-ranking MCP tools
type PowerRankingsHandler struct {
	client sleeper.Client
	logger *logrus.Logger
	config *config.RankingConfig
}

// NewPowerRankingsHandler creates a new power rankings handler
func NewPowerRankingsHandler(client sleeper.Client, logger *logrus.Logger) *PowerRankingsHandler {
	// Load ranking configuration
	rankingConfig, err := config.LoadRankingSettings()
	if err != nil {
		logger.WithError(err).Warn("Failed to load ranking settings, using defaults")
		rankingConfig = &config.RankingConfig{
			Leagues:         make(map[string]config.RankingSettings),
			DefaultSettings: config.DefaultRankingSettings(),
		}
	}

	return &PowerRankingsHandler{
		client: client,
		logger: logger,
		config: rankingConfig,
	}
}

// GetPowerRankingsTool returns the MCP tool definition for get_power_rankings
func (h *PowerRankingsHandler) GetPowerRankingsTool() mcp.Tool {
	return mcp.Tool{
		Name:        "get_power_rankings",
		Description: "Generate objective power rankings for a league from weekly matchup results: record, scoring, consistency, momentum, and three ranking formulas per team",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"league_id": map[string]interface{}{
					"type":        "string",
					"description": "The Sleeper league ID",
					"required":    true,
				},
				"week": map[string]interface{}{
					"type":        "integer",
					"description": "Most recent completed week to rank through (1-18). Defaults to the last completed NFL week.",
					"required":    false,
				},
			},
		},
	}
}

// HandleGetPowerRankings handles the get_power_rankings tool call
func (h *PowerRankingsHandler) HandleGetPowerRankings(ctx context.Context, args map[string]interface{}) (*mcp.CallToolResult, error) {
	h.logger.WithField("args", args).Info("Handling get_power_rankings")

	leagueID, week, err := h.parseRankingArgs(args)
	if err != nil {
		return nil, err
	}

	league, errResult := h.fetchLeague(leagueID)
	if errResult != nil {
		return errResult, nil
	}
	if week == 0 {
		week = defaultCompletedWeek(league)
	}

	result, errResult := h.generateRankings(leagueID, week)
	if errResult != nil {
		return errResult, nil
	}

	summary := fmt.Sprintf("Power rankings for %s: %d teams through week %d", league.Name, len(result.Rankings), result.CurrentWeek)
	if len(result.Rankings) > 0 {
		leader := result.Rankings[0]
		summary += fmt.Sprintf(" - #1: %s (%s)", leader.TeamName, leader.Record)
	}

	response := sleeper.APIResponse{
		Success: true,
		Data:    result,
		Summary: summary,
		Metadata: sleeper.Metadata{
			Timestamp:    time.Now(),
			Source:       "sleeper_api",
			APICallsUsed: 3 + week, // fetch attempts: league, users, rosters, one per week (skipped weeks included)
			LeagueID:     leagueID,
		},
	}

	jsonResponse, err := formatJSONResponse(response)
	if err != nil {
		h.logger.WithError(err).Error("Failed to format response")
		return errorResult(fmt.Sprintf("Error formatting response: %s", err.Error())), nil
	}

	return textResult(jsonResponse), nil
}

// GetPowerRankingsReportTool returns the MCP tool definition for get_power_rankings_report
func (h *PowerRankingsHandler) GetPowerRankingsReportTool() mcp.Tool {
	return mcp.Tool{
		Name:        "get_power_rankings_report",
		Description: "Generate a formatted plain-text power rankings report with per-team metrics, the methodology weights, and the top alternative orderings",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"league_id": map[string]interface{}{
					"type":        "string",
					"description": "The Sleeper league ID",
					"required":    true,
				},
				"week": map[string]interface{}{
					"type":        "integer",
					"description": "Most recent completed week to rank through (1-18). Defaults to the last completed NFL week.",
					"required":    false,
				},
			},
		},
	}
}

// HandleGetPowerRankingsReport handles the get_power_rankings_report tool call
func (h *PowerRankingsHandler) HandleGetPowerRankingsReport(ctx context.Context, args map[string]interface{}) (*mcp.CallToolResult, error) {
	h.logger.WithField("args", args).Info("Handling get_power_rankings_report")

	leagueID, week, err := h.parseRankingArgs(args)
	if err != nil {
		return nil, err
	}

	league, errResult := h.fetchLeague(leagueID)
	if errResult != nil {
		return errResult, nil
	}
	if week == 0 {
		week = defaultCompletedWeek(league)
	}

	result, errResult := h.generateRankings(leagueID, week)
	if errResult != nil {
		return errResult, nil
	}

	settings := h.config.SettingsFor(leagueID)
	report := rankings.FormatReport(result, settings.AlternativesShown)

	return textResult(report), nil
}

// GetMatchupScoreboardsTool returns the MCP tool definition for get_matchup_scoreboards
func (h *PowerRankingsHandler) GetMatchupScoreboardsTool() mcp.Tool {
	return mcp.Tool{
		Name:        "get_matchup_scoreboards",
		Description: "Resolve a week's matchups to named scoreboards with the winner listed first",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"league_id": map[string]interface{}{
					"type":        "string",
					"description": "The Sleeper league ID",
					"required":    true,
				},
				"week": map[string]interface{}{
					"type":        "integer",
					"description": "Week number (1-18)",
					"required":    true,
				},
			},
		},
	}
}

// HandleGetMatchupScoreboards handles the get_matchup_scoreboards tool call
func (h *PowerRankingsHandler) HandleGetMatchupScoreboards(ctx context.Context, args map[string]interface{}) (*mcp.CallToolResult, error) {
	h.logger.WithField("args", args).Info("Handling get_matchup_scoreboards")

	leagueID, ok := args["league_id"].(string)
	if !ok || leagueID == "" {
		return nil, fmt.Errorf("league_id is required and must be a string")
	}

	weekFloat, ok := args["week"].(float64)
	if !ok {
		return nil, fmt.Errorf("week is required and must be a number")
	}
	week := int(weekFloat)

	if week < 1 || week > 18 {
		return nil, fmt.Errorf("week must be between 1 and 18")
	}

	users, err := h.client.GetLeagueUsers(leagueID)
	if err != nil {
		h.logger.WithError(err).Error("Failed to get league users")
		return errorResult(fmt.Sprintf("Failed to get league users: %s", err.Error())), nil
	}

	rosters, err := h.client.GetLeagueRosters(leagueID)
	if err != nil {
		h.logger.WithError(err).Error("Failed to get league rosters")
		return errorResult(fmt.Sprintf("Failed to get league rosters: %s", err.Error())), nil
	}

	matchups, err := h.client.GetMatchups(leagueID, week)
	if err != nil {
		h.logger.WithError(err).Error("Failed to get matchups")
		return errorResult(fmt.Sprintf("Failed to get matchups: %s", err.Error())), nil
	}

	teamNames := make(map[string]string, len(users))
	for i := range users {
		teamNames[users[i].UserID] = users[i].TeamName()
	}
	rosterOwners := make(map[int]string, len(rosters))
	for _, roster := range rosters {
		rosterOwners[roster.RosterID] = roster.OwnerID
	}

	scoreboards := rankings.BuildScoreboards(matchups, teamNames, rosterOwners)

	response := sleeper.APIResponse{
		Success: true,
		Data:    scoreboards,
		Summary: fmt.Sprintf("Resolved %d completed matchups for week %d", len(scoreboards), week),
		Metadata: sleeper.Metadata{
			Timestamp:    time.Now(),
			Source:       "sleeper_api",
			APICallsUsed: 3,
			LeagueID:     leagueID,
		},
	}

	jsonResponse, err := formatJSONResponse(response)
	if err != nil {
		h.logger.WithError(err).Error("Failed to format response")
		return errorResult(fmt.Sprintf("Error formatting response: %s", err.Error())), nil
	}

	return textResult(jsonResponse), nil
}

// GetPostingWindowTool returns the MCP tool definition for get_posting_window
func (h *PowerRankingsHandler) GetPostingWindowTool() mcp.Tool {
	return mcp.Tool{
		Name:        "get_posting_window",
		Description: "Check whether the current time falls in the weekly window where the previous week's scores are final and rankings are worth posting (Tuesday 4am through Friday 7pm US Eastern)",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}
}

// HandleGetPostingWindow handles the get_posting_window tool call
func (h *PowerRankingsHandler) HandleGetPostingWindow(ctx context.Context, args map[string]interface{}) (*mcp.CallToolResult, error) {
	h.logger.Info("Handling get_posting_window")

	available, day := schedule.PostingWindow(time.Now())

	summary := fmt.Sprintf("It is %s: the posting window is closed", day)
	if available {
		summary = fmt.Sprintf("It is %s: the posting window is open", day)
	}

	response := sleeper.APIResponse{
		Success: true,
		Data:    PostingWindow{Available: available, Day: day},
		Summary: summary,
		Metadata: sleeper.Metadata{
			Timestamp: time.Now(),
			Source:    "schedule",
		},
	}

	jsonResponse, err := formatJSONResponse(response)
	if err != nil {
		h.logger.WithError(err).Error("Failed to format response")
		return errorResult(fmt.Sprintf("Error formatting response: %s", err.Error())), nil
	}

	return textResult(jsonResponse), nil
}

// parseRankingArgs extracts the league ID and the completed-week count the
// ranking run should cover. An omitted week is returned as 0 and resolved by
// the caller via defaultCompletedWeek once the league has been fetched.
func (h *PowerRankingsHandler) parseRankingArgs(args map[string]interface{}) (string, int, error) {
	leagueID, ok := args["league_id"].(string)
	if !ok || leagueID == "" {
		return "", 0, fmt.Errorf("league_id is required and must be a string")
	}

	weekRaw, exists := args["week"]
	if !exists {
		return leagueID, 0, nil
	}

	weekFloat, ok := weekRaw.(float64) // JSON numbers are parsed as float64
	if !ok {
		return "", 0, fmt.Errorf("week must be a number")
	}
	week := int(weekFloat)

	if week < 1 || week > 18 {
		return "", 0, fmt.Errorf("week must be between 1 and 18")
	}

	return leagueID, week, nil
}

// fetchLeague resolves the league record, mapping a fetch failure onto an
// MCP error result. Ranking runs fetch it up front so a bad league ID fails
// before any per-week calls are made.
func (h *PowerRankingsHandler) fetchLeague(leagueID string) (*sleeper.League, *mcp.CallToolResult) {
	league, err := h.client.GetLeague(leagueID)
	if err != nil {
		h.logger.WithError(err).Error("Failed to get league")
		return nil, errorResult(fmt.Sprintf("Failed to get league: %s", err.Error()))
	}
	return league, nil
}

// defaultCompletedWeek picks the completed-week count for a run whose caller
// omitted the week: the league's own last scored week when Sleeper reports
// one, otherwise the NFL calendar.
func defaultCompletedWeek(league *sleeper.League) int {
	if leg := league.Settings.LastScoredLeg; leg >= 1 && leg <= 18 {
		return leg
	}
	return schedule.CompletedWeeks(time.Now())
}

// generateRankings runs the engine and maps its failures onto MCP error
// results so the tool boundary always renders something.
func (h *PowerRankingsHandler) generateRankings(leagueID string, week int) (*rankings.Result, *mcp.CallToolResult) {
	settings := h.config.SettingsFor(leagueID)
	calculator := rankings.NewCalculator(h.client, h.logger, settings)

	result, err := calculator.Generate(leagueID, week)
	if err != nil {
		h.logger.WithError(err).Error("Failed to generate power rankings")

		if errors.Is(err, rankings.ErrInsufficientData) {
			return nil, errorResult("Unable to generate power rankings - insufficient data.")
		}
		return nil, errorResult(fmt.Sprintf("Failed to generate power rankings: %s", err.Error()))
	}

	return result, nil
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{
				Type: "text",
				Text: text,
			},
		},
	}
}

func errorResult(text string) *mcp.CallToolResult {
	result := textResult(text)
	result.IsError = true
	return result
}
