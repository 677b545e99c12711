package mcpserver

import (
	"errors"
	"fmt"

	"casino-livesync/internal/game"
	"casino-livesync/internal/session"

	"github.com/mark3labs/mcp-go/mcp"
)

func toolResult(data any) *mcp.CallToolResult {
	return mcp.NewToolResultStructuredOnly(data)
}

func toolError(code, message string) *mcp.CallToolResult {
	result := mcp.NewToolResultStructured(
		map[string]any{
			"error": map[string]any{
				"code":    code,
				"message": message,
			},
		},
		fmt.Sprintf("%s: %s", code, message),
	)
	result.IsError = true
	return result
}

func mapDomainError(err error) *mcp.CallToolResult {
	if err == nil {
		return toolError("internal_error", "unknown error")
	}
	for _, sentinel := range []error{
		game.ErrNotFound,
		game.ErrTableFull,
		game.ErrSeatTaken,
		game.ErrTournamentFull,
		game.ErrRegistrationClosed,
		game.ErrBetOutOfRange,
		game.ErrNotSeated,
		game.ErrInvalidRequest,
		session.ErrClosed,
	} {
		if errors.Is(err, sentinel) {
			return toolError(sentinel.Error(), err.Error())
		}
	}
	return toolError("internal_error", err.Error())
}
