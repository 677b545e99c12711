package mcpserver

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"sort"
	"strings"
	"testing"

	"casino-livesync/internal/catalog"
	"casino-livesync/internal/config"
	"casino-livesync/internal/session"

	"github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/client/transport"
	"github.com/mark3labs/mcp-go/mcp"
)

func newTestSession(t *testing.T) *session.Session {
	t.Helper()
	sess, err := session.New(config.AppConfig{
		Server:     config.ServerConfig{FeedBuffer: 100},
		Simulation: config.SimulationConfig{TickMS: 60_000, Seed: 1},
		Session:    config.SessionConfig{PlayerID: "agent-1", PlayerName: "Agent", Chips: 5000},
	}, catalog.BuiltinSource{})
	if err != nil {
		t.Fatalf("session.New() error = %v", err)
	}
	sess.Start(context.Background())
	t.Cleanup(sess.Close)
	return sess
}

func newTestClient(t *testing.T) (*session.Session, *client.Client) {
	t.Helper()
	sess := newTestSession(t)
	httpSrv := httptest.NewServer(New(sess).Handler())
	t.Cleanup(httpSrv.Close)
	mcpClient, closeClient := newMCPClient(t, httpSrv.URL+"/mcp")
	t.Cleanup(closeClient)
	return sess, mcpClient
}

func TestMCPServerToolsAndFlows(t *testing.T) {
	sess, mcpClient := newTestClient(t)

	tools := mustListTools(t, mcpClient)
	assertToolNames(t, tools,
		"list_live_games",
		"get_game",
		"get_chat",
		"get_dealer",
		"list_promotions",
		"get_status",
		"join_game",
		"leave_game",
		"place_bet",
		"send_chat_message",
		"switch_camera",
		"change_stream_quality",
		"tip_dealer",
		"list_tournaments",
		"register_tournament",
	)

	for _, toolName := range []string{"list_live_games", "list_promotions", "list_tournaments", "get_status"} {
		res := mustCallTool(t, mcpClient, toolName, map[string]any{})
		if res.IsError {
			t.Fatalf("%s expected success, got: %v", toolName, res.StructuredContent)
		}
	}

	games := mapFromStructured(t, mustCallTool(t, mcpClient, "list_live_games", map[string]any{"type": "baccarat", "vip": true}))
	items, _ := games["items"].([]any)
	if len(items) != 1 {
		t.Fatalf("vip baccarat tables = %d, want 1", len(items))
	}
	if g, _ := items[0].(map[string]any); asString(g["id"]) != "baccarat-squeeze" {
		t.Fatalf("vip baccarat = %v", g["id"])
	}

	join := mustCallTool(t, mcpClient, "join_game", map[string]any{"game_id": "roulette-euro", "seat_number": 4})
	if join.IsError {
		t.Fatalf("join_game expected success, got: %v", join.StructuredContent)
	}
	if sess.CurrentGame() != "roulette-euro" {
		t.Fatalf("current game = %q", sess.CurrentGame())
	}

	bet := mapFromStructured(t, mustCallTool(t, mcpClient, "place_bet", map[string]any{"game_id": "roulette-euro", "amount": 25, "type": "red"}))
	betObj, _ := bet["bet"].(map[string]any)
	if asString(betObj["type"]) != "red" || asFloat64(betObj["amount"]) != 25 {
		t.Fatalf("bet = %v", betObj)
	}

	chat := mustCallTool(t, mcpClient, "send_chat_message", map[string]any{"game_id": "roulette-euro", "message": "good luck"})
	if chat.IsError {
		t.Fatalf("send_chat_message expected success, got: %v", chat.StructuredContent)
	}
	lines := mapFromStructured(t, mustCallTool(t, mcpClient, "get_chat", map[string]any{"game_id": "roulette-euro", "limit": 1}))
	msgs, _ := lines["items"].([]any)
	if len(msgs) != 1 {
		t.Fatalf("chat lines = %d, want 1", len(msgs))
	}
	if m, _ := msgs[0].(map[string]any); asString(m["message"]) != "good luck" {
		t.Fatalf("chat line = %v", m)
	}

	tip := mustCallTool(t, mcpClient, "tip_dealer", map[string]any{"game_id": "roulette-euro", "amount": 10})
	if tip.IsError {
		t.Fatalf("tip_dealer expected success, got: %v", tip.StructuredContent)
	}
	dealer := mapFromStructured(t, mustCallTool(t, mcpClient, "get_dealer", map[string]any{"dealer_id": "dealer-marco"}))
	stats, _ := dealer["stats"].(map[string]any)
	if asFloat64(stats["tips_received"]) != 10 {
		t.Fatalf("dealer stats = %v", stats)
	}

	status := mapFromStructured(t, mustCallTool(t, mcpClient, "get_status", map[string]any{}))
	if asString(status["mode"]) != "simulated" || asString(status["current_game"]) != "roulette-euro" {
		t.Fatalf("status = %v", status)
	}

	leave := mustCallTool(t, mcpClient, "leave_game", map[string]any{"game_id": "roulette-euro"})
	if leave.IsError {
		t.Fatalf("leave_game expected success, got: %v", leave.StructuredContent)
	}
}

func TestMCPServerToolErrors(t *testing.T) {
	_, mcpClient := newTestClient(t)

	tests := []struct {
		tool string
		args map[string]any
		code string
	}{
		{"get_game", map[string]any{}, "invalid_request"},
		{"get_game", map[string]any{"game_id": "nope"}, "not_found"},
		{"get_dealer", map[string]any{"dealer_id": "nope"}, "not_found"},
		{"list_live_games", map[string]any{"type": "poker"}, "invalid_request"},
		{"join_game", map[string]any{"game_id": "bj-vip", "seat_number": 9}, "invalid_request"},
		{"leave_game", map[string]any{"game_id": "bj-vip"}, "not_seated"},
		{"place_bet", map[string]any{"game_id": "bj-vip", "amount": 10}, "bet_out_of_range"},
		{"send_chat_message", map[string]any{"game_id": "bj-vip", "message": strings.Repeat("x", 501)}, "invalid_request"},
		{"switch_camera", map[string]any{"game_id": "bj-vip", "camera_id": "drone"}, "invalid_request"},
		{"change_stream_quality", map[string]any{"game_id": "bj-vip", "quality": "4k"}, "invalid_request"},
		{"tip_dealer", map[string]any{"game_id": "bj-vip", "amount": -5}, "invalid_request"},
		{"register_tournament", map[string]any{"tournament_id": "tour-baccarat-high"}, "registration_closed"},
		{"register_tournament", map[string]any{"tournament_id": "nope"}, "not_found"},
	}
	for _, tt := range tests {
		t.Run(tt.tool+"_"+tt.code, func(t *testing.T) {
			assertToolErrorCode(t, mustCallTool(t, mcpClient, tt.tool, tt.args), tt.code)
		})
	}
}

func TestRegisterTournamentUntilFull(t *testing.T) {
	sess, mcpClient := newTestClient(t)
	res := mustCallTool(t, mcpClient, "register_tournament", map[string]any{"tournament_id": "tour-bj-weekly"})
	if res.IsError {
		t.Fatalf("register_tournament expected success, got: %v", res.StructuredContent)
	}
	open := mapFromStructured(t, mustCallTool(t, mcpClient, "list_tournaments", map[string]any{"status": "registration"}))
	items, _ := open["items"].([]any)
	if len(items) != 1 {
		t.Fatalf("registration tournaments = %d, want 1", len(items))
	}
	if tour, _ := items[0].(map[string]any); asFloat64(tour["current_participants"]) != 22 {
		t.Fatalf("participants = %v, want 22", tour["current_participants"])
	}
	for _, tour := range sess.GetTournaments() {
		if tour.ID == "tour-roulette-sprint" && !tour.Full() {
			t.Fatal("sprint tournament should be full")
		}
	}
}

func TestGameStateResource(t *testing.T) {
	_, mcpClient := newTestClient(t)
	res, err := mcpClient.ReadResource(context.Background(), mcp.ReadResourceRequest{
		Params: mcp.ReadResourceParams{URI: "game://bj-classic/state"},
	})
	if err != nil {
		t.Fatalf("read resource: %v", err)
	}
	if len(res.Contents) != 1 {
		t.Fatalf("contents = %d, want 1", len(res.Contents))
	}
	var text string
	switch c := res.Contents[0].(type) {
	case mcp.TextResourceContents:
		text = c.Text
	case *mcp.TextResourceContents:
		text = c.Text
	default:
		t.Fatalf("unexpected contents %T", c)
	}
	var payload map[string]any
	if err := json.Unmarshal([]byte(text), &payload); err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	if asString(payload["game_id"]) != "bj-classic" || asString(payload["camera"]) != "main" {
		t.Fatalf("payload = %v", payload)
	}
}

func newMCPClient(t *testing.T, endpoint string) (*client.Client, func()) {
	t.Helper()
	ctx := context.Background()
	trans, err := transport.NewStreamableHTTP(endpoint)
	if err != nil {
		t.Fatalf("new transport: %v", err)
	}
	if err := trans.Start(ctx); err != nil {
		t.Fatalf("transport start: %v", err)
	}
	c := client.NewClient(trans)
	_, err = c.Initialize(ctx, mcp.InitializeRequest{Params: mcp.InitializeParams{ProtocolVersion: mcp.LATEST_PROTOCOL_VERSION}})
	if err != nil {
		t.Fatalf("initialize: %v", err)
	}
	return c, func() { _ = trans.Close() }
}

func mustListTools(t *testing.T, c *client.Client) []mcp.Tool {
	t.Helper()
	res, err := c.ListTools(context.Background(), mcp.ListToolsRequest{})
	if err != nil {
		t.Fatalf("list tools: %v", err)
	}
	return res.Tools
}

func assertToolNames(t *testing.T, tools []mcp.Tool, expected ...string) {
	t.Helper()
	got := make([]string, 0, len(tools))
	for _, tool := range tools {
		got = append(got, tool.Name)
	}
	sort.Strings(got)
	sort.Strings(expected)
	if len(got) != len(expected) {
		t.Fatalf("tool count mismatch got=%v expected=%v", got, expected)
	}
	for i := range got {
		if got[i] != expected[i] {
			t.Fatalf("tool list mismatch got=%v expected=%v", got, expected)
		}
	}
}

func mustCallTool(t *testing.T, c *client.Client, name string, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	res, err := c.CallTool(context.Background(), mcp.CallToolRequest{Params: mcp.CallToolParams{Name: name, Arguments: args}})
	if err != nil {
		t.Fatalf("call tool %s: %v", name, err)
	}
	return res
}

func assertToolErrorCode(t *testing.T, res *mcp.CallToolResult, want string) {
	t.Helper()
	if !res.IsError {
		t.Fatalf("expected tool error %q, got success: %v", want, res.StructuredContent)
	}
	payload := mapFromStructured(t, res)
	errObj, ok := payload["error"].(map[string]any)
	if !ok {
		t.Fatalf("error payload missing 'error': %v", payload)
	}
	if got := asString(errObj["code"]); got != want {
		t.Fatalf("error code=%q want=%q payload=%v", got, want, payload)
	}
}

func mapFromStructured(t *testing.T, res *mcp.CallToolResult) map[string]any {
	t.Helper()
	b, err := json.Marshal(res.StructuredContent)
	if err != nil {
		t.Fatalf("marshal structured content: %v", err)
	}
	var out map[string]any
	if err := json.Unmarshal(b, &out); err != nil {
		t.Fatalf("unmarshal structured content: %v", err)
	}
	return out
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}

func asFloat64(v any) float64 {
	f, _ := v.(float64)
	return f
}
