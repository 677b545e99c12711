package mcpserver

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
)

func (s *Server) registerPublicTools() {
	s.mcpServer.AddTool(
		mcp.NewTool(
			"list_live_games",
			mcp.WithDescription("List live tables, featured first, then vip, then popular, busiest first"),
			mcp.WithString("type", mcp.Description("blackjack|roulette|baccarat|wheel")),
			mcp.WithString("status", mcp.Description("preparing|active|break|maintenance|offline")),
			mcp.WithString("category", mcp.Description("featured|vip|popular|classic")),
			mcp.WithBoolean("vip", mcp.Description("Only vip tables when true, only regular tables when false")),
			mcp.WithNumber("min_bet", mcp.Description("Lower bound of the wanted bet range")),
			mcp.WithNumber("max_bet", mcp.Description("Upper bound of the wanted bet range")),
		),
		s.handleListLiveGames,
	)

	s.mcpServer.AddTool(
		mcp.NewTool(
			"get_game",
			mcp.WithDescription("Get one table with its players, round and history"),
			mcp.WithString("game_id", mcp.Required(), mcp.Description("Game id")),
		),
		s.handleGetGame,
	)

	s.mcpServer.AddTool(
		mcp.NewTool(
			"get_chat",
			mcp.WithDescription("Newest chat lines of a table, oldest first"),
			mcp.WithString("game_id", mcp.Required(), mcp.Description("Game id")),
			mcp.WithNumber("limit", mcp.Description("Lines to return, default 50, max 200")),
		),
		s.handleGetChat,
	)

	s.mcpServer.AddTool(
		mcp.NewTool(
			"get_dealer",
			mcp.WithDescription("Get a dealer profile"),
			mcp.WithString("dealer_id", mcp.Required(), mcp.Description("Dealer id")),
		),
		s.handleGetDealer,
	)

	s.mcpServer.AddTool(
		mcp.NewTool(
			"list_promotions",
			mcp.WithDescription("List active promotions"),
		),
		s.handleListPromotions,
	)

	s.mcpServer.AddTool(
		mcp.NewTool(
			"get_status",
			mcp.WithDescription("Session mode, authority link state and current table"),
		),
		s.handleGetStatus,
	)
}

func (s *Server) handleListLiveGames(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	f, ok := filterFromRequest(request)
	if !ok {
		return toolError("invalid_request", "unknown game type or negative bet bound"), nil
	}
	items := s.sess.GetLiveGames(f)
	return toolResult(map[string]any{"items": items, "count": len(items)}), nil
}

func (s *Server) handleGetGame(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	gameID, err := request.RequireString("game_id")
	if err != nil {
		return toolError("invalid_request", err.Error()), nil
	}
	g, err := s.sess.GetGame(gameID)
	if err != nil {
		return mapDomainError(err), nil
	}
	return toolResult(g), nil
}

func (s *Server) handleGetChat(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	gameID, err := request.RequireString("game_id")
	if err != nil {
		return toolError("invalid_request", err.Error()), nil
	}
	limit := clampChatLimit(request.GetInt("limit", defaultChatLimit))
	msgs, err := s.sess.GetChat(gameID, limit)
	if err != nil {
		return mapDomainError(err), nil
	}
	return toolResult(map[string]any{"items": msgs, "limit": limit}), nil
}

func (s *Server) handleGetDealer(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	dealerID, err := request.RequireString("dealer_id")
	if err != nil {
		return toolError("invalid_request", err.Error()), nil
	}
	d, err := s.sess.GetDealer(dealerID)
	if err != nil {
		return mapDomainError(err), nil
	}
	return toolResult(d), nil
}

func (s *Server) handleListPromotions(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return toolResult(map[string]any{"items": s.sess.GetPromotions()}), nil
}

func (s *Server) handleGetStatus(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return toolResult(s.sess.Status()), nil
}
