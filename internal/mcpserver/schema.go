package mcpserver

import (
	"strings"

	"casino-livesync/internal/game"
	"casino-livesync/internal/session"

	"github.com/mark3labs/mcp-go/mcp"
)

const (
	defaultChatLimit = 50
	maxChatLimit     = game.MaxChatHistory
)

func clampChatLimit(limit int) int {
	if limit <= 0 {
		limit = defaultChatLimit
	}
	if limit > maxChatLimit {
		limit = maxChatLimit
	}
	return limit
}

// filterFromRequest reads list_live_games arguments. vip is tri-state, so
// its presence is checked on the raw arguments.
func filterFromRequest(request mcp.CallToolRequest) (session.Filter, bool) {
	f := session.Filter{
		Type:     game.GameType(request.GetString("type", "")),
		Status:   game.Status(request.GetString("status", "")),
		Category: game.Category(request.GetString("category", "")),
		MinBet:   int64(request.GetInt("min_bet", 0)),
		MaxBet:   int64(request.GetInt("max_bet", 0)),
	}
	if f.Type != "" && !f.Type.Valid() {
		return f, false
	}
	if f.MinBet < 0 || f.MaxBet < 0 {
		return f, false
	}
	if _, ok := request.GetArguments()["vip"]; ok {
		vip := request.GetBool("vip", false)
		f.VIP = &vip
	}
	return f, true
}

func parseTournamentStatuses(raw string) []game.TournamentStatus {
	var out []game.TournamentStatus
	for _, v := range strings.Split(raw, ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, game.TournamentStatus(v))
		}
	}
	return out
}
