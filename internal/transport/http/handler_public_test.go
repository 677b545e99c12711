package httptransport

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"casino-livesync/internal/catalog"
	"casino-livesync/internal/config"
	"casino-livesync/internal/session"
)

func newTestSession(t *testing.T) *session.Session {
	t.Helper()
	sess, err := session.New(config.AppConfig{
		Server:     config.ServerConfig{FeedBuffer: 100},
		Simulation: config.SimulationConfig{TickMS: 60_000, Seed: 1},
		Session:    config.SessionConfig{PlayerID: "me", PlayerName: "Me", Chips: 1000},
	}, catalog.BuiltinSource{})
	if err != nil {
		t.Fatalf("session.New() error = %v", err)
	}
	sess.Start(context.Background())
	t.Cleanup(sess.Close)
	return sess
}

func newTestServer(t *testing.T, cfg config.ServerConfig) (*session.Session, *httptest.Server) {
	t.Helper()
	sess := newTestSession(t)
	ts := httptest.NewServer(NewRouter(sess, cfg))
	t.Cleanup(ts.Close)
	return sess, ts
}

func doJSON(t *testing.T, method, url, body string, headers map[string]string) (int, map[string]any) {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	defer resp.Body.Close()
	out := map[string]any{}
	_ = json.NewDecoder(resp.Body).Decode(&out)
	return resp.StatusCode, out
}

func TestHealthAndStatus(t *testing.T) {
	_, ts := newTestServer(t, config.ServerConfig{})
	code, body := doJSON(t, http.MethodGet, ts.URL+"/healthz", "", nil)
	if code != http.StatusOK || body["mode"] != "simulated" {
		t.Fatalf("healthz = %d %v", code, body)
	}
	code, body = doJSON(t, http.MethodGet, ts.URL+"/api/status", "", nil)
	if code != http.StatusOK {
		t.Fatalf("status code = %d", code)
	}
	if body["uplink"] != "unavailable" || body["player_id"] != "me" {
		t.Fatalf("status = %v", body)
	}
}

func TestGamesListing(t *testing.T) {
	_, ts := newTestServer(t, config.ServerConfig{})
	code, body := doJSON(t, http.MethodGet, ts.URL+"/api/games", "", nil)
	if code != http.StatusOK {
		t.Fatalf("code = %d", code)
	}
	items, _ := body["items"].([]any)
	if len(items) != 7 {
		t.Fatalf("games = %d, want 7", len(items))
	}
	first, _ := items[0].(map[string]any)
	if first["category"] != "featured" {
		t.Fatalf("first game = %v, want featured", first["id"])
	}

	code, body = doJSON(t, http.MethodGet, ts.URL+"/api/games?type=roulette&max_bet=1000", "", nil)
	if code != http.StatusOK {
		t.Fatalf("filtered code = %d", code)
	}
	if items, _ := body["items"].([]any); len(items) != 2 {
		t.Fatalf("roulette games = %d, want 2", len(items))
	}
}

func TestGamesRejectsBadFilter(t *testing.T) {
	_, ts := newTestServer(t, config.ServerConfig{})
	for _, q := range []string{"type=poker", "vip=maybe", "min_bet=ten", "max_bet=-1"} {
		code, body := doJSON(t, http.MethodGet, ts.URL+"/api/games?"+q, "", nil)
		if code != http.StatusBadRequest || body["error"] != "invalid_request" {
			t.Fatalf("%s: %d %v", q, code, body)
		}
	}
}

func TestLookupsNotFound(t *testing.T) {
	_, ts := newTestServer(t, config.ServerConfig{})
	for _, path := range []string{"/api/games/nope", "/api/games/nope/chat", "/api/dealers/nope"} {
		code, body := doJSON(t, http.MethodGet, ts.URL+path, "", nil)
		if code != http.StatusNotFound || body["error"] != "not_found" {
			t.Fatalf("%s: %d %v", path, code, body)
		}
	}
}

func TestTournamentStatusFilter(t *testing.T) {
	_, ts := newTestServer(t, config.ServerConfig{})
	_, body := doJSON(t, http.MethodGet, ts.URL+"/api/tournaments", "", nil)
	if items, _ := body["items"].([]any); len(items) != 3 {
		t.Fatalf("tournaments = %d, want 3", len(items))
	}
	_, body = doJSON(t, http.MethodGet, ts.URL+"/api/tournaments?status=registration,upcoming", "", nil)
	if items, _ := body["items"].([]any); len(items) != 2 {
		t.Fatalf("filtered tournaments = %d, want 2", len(items))
	}
}

func TestCommandErrorMapping(t *testing.T) {
	_, ts := newTestServer(t, config.ServerConfig{})
	tests := []struct {
		name   string
		path   string
		body   string
		status int
		code   string
	}{
		{"unknown game", "/api/games/nope/join", "", http.StatusNotFound, "not_found"},
		{"seat out of range", "/api/games/bj-classic/join", `{"seat_number":99}`, http.StatusBadRequest, "invalid_request"},
		{"bad json", "/api/games/bj-classic/join", `{"seat_number":`, http.StatusBadRequest, "invalid_json"},
		{"not seated", "/api/games/bj-vip/leave", "", http.StatusConflict, "not_seated"},
		{"bet below minimum", "/api/games/bj-classic/bets", `{"amount":1}`, http.StatusBadRequest, "bet_out_of_range"},
		{"empty chat", "/api/games/bj-classic/chat", `{"message":"   "}`, http.StatusBadRequest, "invalid_request"},
		{"unknown camera", "/api/games/bj-classic/camera", `{"camera_id":"drone"}`, http.StatusBadRequest, "invalid_request"},
		{"bad quality", "/api/games/bj-classic/quality", `{"quality":"8k"}`, http.StatusBadRequest, "invalid_request"},
		{"zero tip", "/api/games/bj-classic/tips", `{"amount":0}`, http.StatusBadRequest, "invalid_request"},
		{"closed registration", "/api/tournaments/tour-roulette-sprint/register", "", http.StatusConflict, "registration_closed"},
		{"unknown tournament", "/api/tournaments/nope/register", "", http.StatusNotFound, "not_found"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, body := doJSON(t, http.MethodPost, ts.URL+tt.path, tt.body, nil)
			if code != tt.status || body["error"] != tt.code {
				t.Fatalf("got %d %v, want %d %s", code, body, tt.status, tt.code)
			}
		})
	}
}

func TestCommandsApplyInSimulation(t *testing.T) {
	sess, ts := newTestServer(t, config.ServerConfig{})

	code, body := doJSON(t, http.MethodPost, ts.URL+"/api/games/bj-classic/join", `{"seat_number":3}`, nil)
	if code != http.StatusOK || body["ok"] != true {
		t.Fatalf("join = %d %v", code, body)
	}
	g, err := sess.GetGame("bj-classic")
	if err != nil {
		t.Fatalf("GetGame: %v", err)
	}
	if g.PlayerIndex("me") < 0 || g.SeatHolder(3) != "me" {
		t.Fatalf("player not seated at 3: %+v", g.Players)
	}
	if sess.CurrentGame() != "bj-classic" {
		t.Fatalf("current game = %q", sess.CurrentGame())
	}

	code, body = doJSON(t, http.MethodPost, ts.URL+"/api/games/bj-classic/bets", `{"amount":50,"type":"main"}`, nil)
	if code != http.StatusOK {
		t.Fatalf("bet = %d %v", code, body)
	}
	bet, _ := body["bet"].(map[string]any)
	if bet["status"] != "pending" || bet["player_id"] != "me" {
		t.Fatalf("bet = %v", bet)
	}

	code, _ = doJSON(t, http.MethodPost, ts.URL+"/api/games/bj-classic/chat", `{"message":"hello table"}`, nil)
	if code != http.StatusOK {
		t.Fatalf("chat code = %d", code)
	}
	_, body = doJSON(t, http.MethodGet, ts.URL+"/api/games/bj-classic/chat?limit=1", "", nil)
	items, _ := body["items"].([]any)
	if len(items) != 1 {
		t.Fatalf("chat items = %d, want 1", len(items))
	}
	if msg, _ := items[0].(map[string]any); msg["message"] != "hello table" {
		t.Fatalf("last chat = %v", items[0])
	}

	code, _ = doJSON(t, http.MethodPost, ts.URL+"/api/games/bj-classic/camera", `{"camera_id":"overhead"}`, nil)
	if code != http.StatusOK || sess.Camera("bj-classic") != "overhead" {
		t.Fatalf("camera = %d %q", code, sess.Camera("bj-classic"))
	}

	code, _ = doJSON(t, http.MethodPost, ts.URL+"/api/tournaments/tour-bj-weekly/register", "", nil)
	if code != http.StatusOK {
		t.Fatalf("register code = %d", code)
	}
	for _, tour := range sess.GetTournaments() {
		if tour.ID == "tour-bj-weekly" && tour.CurrentParticipants != 22 {
			t.Fatalf("participants = %d, want 22", tour.CurrentParticipants)
		}
	}

	code, _ = doJSON(t, http.MethodPost, ts.URL+"/api/games/bj-classic/leave", "", nil)
	if code != http.StatusOK || sess.CurrentGame() != "" {
		t.Fatalf("leave = %d current %q", code, sess.CurrentGame())
	}
}

func TestAdminRoutesRequireKey(t *testing.T) {
	_, ts := newTestServer(t, config.ServerConfig{AdminAPIKey: "admin"})
	code, _ := doJSON(t, http.MethodGet, ts.URL+"/api/debug/vars", "", nil)
	if code != http.StatusUnauthorized {
		t.Fatalf("vars without key = %d, want 401", code)
	}
	code, body := doJSON(t, http.MethodGet, ts.URL+"/api/debug/vars", "", map[string]string{"X-Admin-Key": "admin"})
	if code != http.StatusOK {
		t.Fatalf("vars with key = %d", code)
	}
	if _, ok := body["http_query_total"]; !ok {
		t.Fatal("expvar output missing http_query_total")
	}
	code, _ = doJSON(t, http.MethodPost, ts.URL+"/api/admin/reconnect", "", map[string]string{"Authorization": "Bearer wrong"})
	if code != http.StatusUnauthorized {
		t.Fatalf("reconnect with wrong key = %d, want 401", code)
	}
	code, body = doJSON(t, http.MethodPost, ts.URL+"/api/admin/reconnect", "", map[string]string{"Authorization": "Bearer admin"})
	if code != http.StatusOK || body["ok"] != true {
		t.Fatalf("reconnect = %d %v", code, body)
	}
}

func TestClosedSessionReturnsUnavailable(t *testing.T) {
	sess, ts := newTestServer(t, config.ServerConfig{})
	sess.Close()
	code, _ := doJSON(t, http.MethodGet, ts.URL+"/healthz", "", nil)
	if code != http.StatusServiceUnavailable {
		t.Fatalf("healthz after close = %d", code)
	}
	code, body := doJSON(t, http.MethodPost, ts.URL+"/api/games/bj-classic/join", "", nil)
	if code != http.StatusServiceUnavailable || body["error"] != "session_closed" {
		t.Fatalf("join after close = %d %v", code, body)
	}
}

func TestEventsStreamReplaysFeed(t *testing.T) {
	_, ts := newTestServer(t, config.ServerConfig{})
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, ts.URL+"/api/events?game_id=bj-classic", nil)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("events: %v", err)
	}
	defer resp.Body.Close()
	if ct := resp.Header.Get("Content-Type"); ct != "text/event-stream" {
		t.Fatalf("content type = %q", ct)
	}
	sc := bufio.NewScanner(resp.Body)
	for sc.Scan() {
		if sc.Text() == "event: game_update" {
			return
		}
	}
	t.Fatalf("no game_update replayed: %v", sc.Err())
}

func TestMCPMountFollowsConfig(t *testing.T) {
	_, ts := newTestServer(t, config.ServerConfig{MCPEnabled: false})
	req, _ := http.NewRequest(http.MethodOptions, ts.URL+"/mcp", nil)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("options: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode == http.StatusNoContent {
		t.Fatal("mcp mounted while disabled")
	}

	_, ts = newTestServer(t, config.ServerConfig{MCPEnabled: true})
	req, _ = http.NewRequest(http.MethodOptions, ts.URL+"/mcp", nil)
	resp, err = http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("options: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("mcp options = %d, want 204", resp.StatusCode)
	}
}

func TestCORSAllowsConfiguredOrigin(t *testing.T) {
	_, ts := newTestServer(t, config.ServerConfig{CORSOrigins: []string{"http://ui.local"}})
	req, _ := http.NewRequest(http.MethodGet, ts.URL+"/api/promotions", nil)
	req.Header.Set("Origin", "http://ui.local")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("promotions: %v", err)
	}
	resp.Body.Close()
	if got := resp.Header.Get("Access-Control-Allow-Origin"); got != "http://ui.local" {
		t.Fatalf("allow origin = %q", got)
	}

	req, _ = http.NewRequest(http.MethodGet, ts.URL+"/api/promotions", nil)
	req.Header.Set("Origin", "http://evil.local")
	resp, err = http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("promotions: %v", err)
	}
	resp.Body.Close()
	if got := resp.Header.Get("Access-Control-Allow-Origin"); got != "" {
		t.Fatalf("allow origin for unknown origin = %q, want empty", got)
	}
}
