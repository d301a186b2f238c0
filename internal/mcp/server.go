package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/sirupsen/logrus"

	"github.com/ffcommish/sleeper-power-rankings/internal/handlers"
	"github.com/ffcommish/sleeper-power-rankings/internal/sleeper"
)

func NewPowerRankingsMCPServer(logger *logrus.Logger) *server.DefaultServer {
	// Create Sleeper API client
	sleeperClient := sleeper.NewHTTPClient(logger)

	// Create handlers
	powerHandler := handlers.NewPowerRankingsHandler(sleeperClient, logger)

	// Create MCP server
	s := server.NewDefaultServer("Sleeper Power Rankings", "1.0.0")

	if s == nil {
		logger.Error("Failed to create MCP server instance")
		return nil
	}

	logger.Info("MCP server instance created successfully")

	// Set up list tools handler
	s.HandleListTools(func(ctx context.Context, cursor *string) (*mcp.ListToolsResult, error) {
		tools := []mcp.Tool{
			powerHandler.GetPowerRankingsTool(),
			powerHandler.GetPowerRankingsReportTool(),
			powerHandler.GetMatchupScoreboardsTool(),
			powerHandler.GetPostingWindowTool(),
		}

		logger.WithField("tools_count", len(tools)).Info("Listing available tools")

		return &mcp.ListToolsResult{
			Tools: tools,
		}, nil
	})

	// Set up call tool handler
	s.HandleCallTool(func(ctx context.Context, name string, arguments map[string]interface{}) (*mcp.CallToolResult, error) {
		logger.WithFields(logrus.Fields{
			"tool": name,
			"args": arguments,
		}).Info("Tool called")

		// Route to specific tool handlers
		switch name {
		case "get_power_rankings":
			return powerHandler.HandleGetPowerRankings(ctx, arguments)
		case "get_power_rankings_report":
			return powerHandler.HandleGetPowerRankingsReport(ctx, arguments)
		case "get_matchup_scoreboards":
			return powerHandler.HandleGetMatchupScoreboards(ctx, arguments)
		case "get_posting_window":
			return powerHandler.HandleGetPostingWindow(ctx, arguments)
		default:
			logger.WithField("tool", name).Warn("Unknown tool called")
			return &mcp.CallToolResult{
				Content: []mcp.Content{
					&mcp.TextContent{
						Type: "text",
						Text: "Unknown tool: " + name,
					},
				},
				IsError: true,
			}, nil
		}
	})

	logger.Info("All tools registered successfully")
	return s
}
