package mcpserver

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
)

func (s *Server) registerTournamentTools() {
	s.mcpServer.AddTool(
		mcp.NewTool(
			"list_tournaments",
			mcp.WithDescription("List tournaments, optionally by status"),
			mcp.WithString("status", mcp.Description("Comma separated: upcoming,registration,active,finished")),
		),
		s.handleListTournaments,
	)

	s.mcpServer.AddTool(
		mcp.NewTool(
			"register_tournament",
			mcp.WithDescription("Register the session player for a tournament that is open for registration"),
			mcp.WithString("tournament_id", mcp.Required(), mcp.Description("Tournament id")),
		),
		s.handleRegisterTournament,
	)
}

func (s *Server) handleListTournaments(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	statuses := parseTournamentStatuses(request.GetString("status", ""))
	return toolResult(map[string]any{"items": s.sess.GetTournaments(statuses...)}), nil
}

func (s *Server) handleRegisterTournament(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := request.RequireString("tournament_id")
	if err != nil {
		return toolError("invalid_request", err.Error()), nil
	}
	if err := s.sess.RegisterForTournament(id); err != nil {
		return mapDomainError(err), nil
	}
	return toolResult(map[string]any{"ok": true, "tournament_id": id}), nil
}
