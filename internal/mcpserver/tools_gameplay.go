package mcpserver

import (
	"context"

	"casino-livesync/internal/game"
	"casino-livesync/internal/session"

	"github.com/mark3labs/mcp-go/mcp"
)

func (s *Server) registerGameplayTools() {
	s.mcpServer.AddTool(
		mcp.NewTool(
			"join_game",
			mcp.WithDescription("Take a seat at a table and make it the current game"),
			mcp.WithString("game_id", mcp.Required(), mcp.Description("Game id")),
			mcp.WithNumber("seat_number", mcp.Description("Seat to take, 1-based; any free seat when omitted")),
		),
		s.handleJoinGame,
	)

	s.mcpServer.AddTool(
		mcp.NewTool(
			"leave_game",
			mcp.WithDescription("Leave a table"),
			mcp.WithString("game_id", mcp.Required(), mcp.Description("Game id")),
		),
		s.handleLeaveGame,
	)

	s.mcpServer.AddTool(
		mcp.NewTool(
			"place_bet",
			mcp.WithDescription("Place a pending bet on the table's current round"),
			mcp.WithString("game_id", mcp.Required(), mcp.Description("Game id")),
			mcp.WithNumber("amount", mcp.Required(), mcp.Description("Chips, within the table's bet range")),
			mcp.WithString("type", mcp.Description("Bet type, default main")),
		),
		s.handlePlaceBet,
	)

	s.mcpServer.AddTool(
		mcp.NewTool(
			"send_chat_message",
			mcp.WithDescription("Send a chat line to a table, up to 500 characters"),
			mcp.WithString("game_id", mcp.Required(), mcp.Description("Game id")),
			mcp.WithString("message", mcp.Required(), mcp.Description("Message text")),
			mcp.WithString("private_to", mcp.Description("Player id for a private message")),
		),
		s.handleSendChat,
	)

	s.mcpServer.AddTool(
		mcp.NewTool(
			"switch_camera",
			mcp.WithDescription("Switch to one of the table's cameras"),
			mcp.WithString("game_id", mcp.Required(), mcp.Description("Game id")),
			mcp.WithString("camera_id", mcp.Required(), mcp.Description("Camera id offered by the table")),
		),
		s.handleSwitchCamera,
	)

	s.mcpServer.AddTool(
		mcp.NewTool(
			"change_stream_quality",
			mcp.WithDescription("Change the table's stream quality"),
			mcp.WithString("game_id", mcp.Required(), mcp.Description("Game id")),
			mcp.WithString("quality", mcp.Required(), mcp.Description("auto|low|medium|high|hd")),
		),
		s.handleChangeQuality,
	)

	s.mcpServer.AddTool(
		mcp.NewTool(
			"tip_dealer",
			mcp.WithDescription("Tip the dealer of a table"),
			mcp.WithString("game_id", mcp.Required(), mcp.Description("Game id")),
			mcp.WithNumber("amount", mcp.Required(), mcp.Description("Chips, greater than zero")),
		),
		s.handleTipDealer,
	)
}

func (s *Server) handleJoinGame(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	gameID, err := request.RequireString("game_id")
	if err != nil {
		return toolError("invalid_request", err.Error()), nil
	}
	var seat *int
	if _, ok := request.GetArguments()["seat_number"]; ok {
		n := request.GetInt("seat_number", 0)
		seat = &n
	}
	if err := s.sess.JoinGame(gameID, seat); err != nil {
		return mapDomainError(err), nil
	}
	return toolResult(map[string]any{"ok": true, "game_id": gameID, "mode": s.sess.Mode()}), nil
}

func (s *Server) handleLeaveGame(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	gameID, err := request.RequireString("game_id")
	if err != nil {
		return toolError("invalid_request", err.Error()), nil
	}
	if err := s.sess.LeaveGame(gameID); err != nil {
		return mapDomainError(err), nil
	}
	return toolResult(map[string]any{"ok": true, "game_id": gameID}), nil
}

func (s *Server) handlePlaceBet(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	gameID, err := request.RequireString("game_id")
	if err != nil {
		return toolError("invalid_request", err.Error()), nil
	}
	amount, err := request.RequireInt("amount")
	if err != nil {
		return toolError("invalid_request", err.Error()), nil
	}
	bet, err := s.sess.PlaceBet(gameID, session.BetRequest{
		Amount: int64(amount),
		Type:   request.GetString("type", ""),
	})
	if err != nil {
		return mapDomainError(err), nil
	}
	return toolResult(map[string]any{"ok": true, "bet": bet}), nil
}

func (s *Server) handleSendChat(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	gameID, err := request.RequireString("game_id")
	if err != nil {
		return toolError("invalid_request", err.Error()), nil
	}
	msg, err := request.RequireString("message")
	if err != nil {
		return toolError("invalid_request", err.Error()), nil
	}
	if err := s.sess.SendChatMessage(gameID, msg, request.GetString("private_to", "")); err != nil {
		return mapDomainError(err), nil
	}
	return toolResult(map[string]any{"ok": true}), nil
}

func (s *Server) handleSwitchCamera(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	gameID, err := request.RequireString("game_id")
	if err != nil {
		return toolError("invalid_request", err.Error()), nil
	}
	cameraID, err := request.RequireString("camera_id")
	if err != nil {
		return toolError("invalid_request", err.Error()), nil
	}
	if err := s.sess.SwitchCamera(gameID, cameraID); err != nil {
		return mapDomainError(err), nil
	}
	return toolResult(map[string]any{"ok": true, "camera_id": cameraID}), nil
}

func (s *Server) handleChangeQuality(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	gameID, err := request.RequireString("game_id")
	if err != nil {
		return toolError("invalid_request", err.Error()), nil
	}
	quality, err := request.RequireString("quality")
	if err != nil {
		return toolError("invalid_request", err.Error()), nil
	}
	if err := s.sess.ChangeStreamQuality(gameID, game.StreamQuality(quality)); err != nil {
		return mapDomainError(err), nil
	}
	return toolResult(map[string]any{"ok": true, "quality": quality}), nil
}

func (s *Server) handleTipDealer(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	gameID, err := request.RequireString("game_id")
	if err != nil {
		return toolError("invalid_request", err.Error()), nil
	}
	amount, err := request.RequireInt("amount")
	if err != nil {
		return toolError("invalid_request", err.Error()), nil
	}
	if err := s.sess.TipDealer(gameID, int64(amount)); err != nil {
		return mapDomainError(err), nil
	}
	return toolResult(map[string]any{"ok": true}), nil
}
