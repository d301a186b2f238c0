package config

import (
	"encoding/json"
	"fmt"
	"os"
)

// RankingSettings controls how power rankings are computed and reported for
// a league.
type RankingSettings struct {
	Name string `json:"name,omitempty"`
	// RecentFormWeeks is the size of the trailing completed-week window used
	// for the momentum (recent form) signal.
	RecentFormWeeks int `json:"recent_form_weeks"`
	// AlternativesShown is how many teams each alternative ranking lists in
	// the formatted report.
	AlternativesShown int `json:"alternatives_shown"`
}

// RankingConfig represents the entire ranking configuration file
type RankingConfig struct {
	Instructions    string                     `json:"_instructions,omitempty"`
	Leagues         map[string]RankingSettings `json:"leagues"`
	DefaultSettings RankingSettings            `json:"default_settings"`
}

// DefaultRankingSettings returns the settings used when no configuration
// file is present.
func DefaultRankingSettings() RankingSettings {
	return RankingSettings{
		Name:              "Default League",
		RecentFormWeeks:   3,
		AlternativesShown: 5,
	}
}

// LoadRankingSettings loads ranking configuration from the settings file
func LoadRankingSettings() (*RankingConfig, error) {
	// Try to find the config file - first check relative to working directory
	configPaths := []string{
		"configs/ranking_settings.json",
		"../configs/ranking_settings.json",
		"../../configs/ranking_settings.json",
	}

	var configData []byte
	var foundPath string

	for _, path := range configPaths {
		if _, err := os.Stat(path); err == nil {
			var readErr error
			configData, readErr = os.ReadFile(path)
			if readErr == nil {
				foundPath = path
				break
			}
		}
	}

	if foundPath == "" {
		// If no config file found, return default configuration
		return &RankingConfig{
			Leagues:         make(map[string]RankingSettings),
			DefaultSettings: DefaultRankingSettings(),
		}, nil
	}

	var config RankingConfig
	if err := json.Unmarshal(configData, &config); err != nil {
		return nil, fmt.Errorf("failed to parse ranking settings from %s: %w", foundPath, err)
	}

	return &config, nil
}

// SettingsFor returns settings for a specific league ID. Fields left unset
// in a per-league entry fall back to the default settings.
func (c *RankingConfig) SettingsFor(leagueID string) RankingSettings {
	defaults := c.DefaultSettings
	if defaults.RecentFormWeeks <= 0 {
		defaults.RecentFormWeeks = DefaultRankingSettings().RecentFormWeeks
	}
	if defaults.AlternativesShown <= 0 {
		defaults.AlternativesShown = DefaultRankingSettings().AlternativesShown
	}

	settings, exists := c.Leagues[leagueID]
	if !exists {
		return defaults
	}

	if settings.RecentFormWeeks <= 0 {
		settings.RecentFormWeeks = defaults.RecentFormWeeks
	}
	if settings.AlternativesShown <= 0 {
		settings.AlternativesShown = defaults.AlternativesShown
	}
	return settings
}
