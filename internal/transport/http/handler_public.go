package httptransport

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"casino-livesync/internal/game"
	"casino-livesync/internal/session"

	"github.com/go-chi/chi/v5"
)

type PublicHandlers struct {
	sess *session.Session
}

func NewPublicHandlers(sess *session.Session) *PublicHandlers {
	return &PublicHandlers{sess: sess}
}

// parseFilter reads the lobby filter from the query string. Unknown game
// types and non-numeric bet bounds are rejected.
func parseFilter(r *http.Request) (session.Filter, bool) {
	q := r.URL.Query()
	f := session.Filter{
		Type:     game.GameType(q.Get("type")),
		Status:   game.Status(q.Get("status")),
		Category: game.Category(q.Get("category")),
	}
	if f.Type != "" && !f.Type.Valid() {
		return f, false
	}
	if v := q.Get("vip"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return f, false
		}
		f.VIP = &b
	}
	for key, dst := range map[string]*int64{"min_bet": &f.MinBet, "max_bet": &f.MaxBet} {
		v := q.Get(key)
		if v == "" {
			continue
		}
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil || n < 0 {
			return f, false
		}
		*dst = n
	}
	return f, true
}

func (h *PublicHandlers) Games() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		metricQueryTotal.Add("games", 1)
		f, ok := parseFilter(r)
		if !ok {
			WriteHTTPError(w, http.StatusBadRequest, "invalid_request")
			return
		}
		items := h.sess.GetLiveGames(f)
		_ = json.NewEncoder(w).Encode(map[string]any{"items": items, "count": len(items)})
	}
}

func (h *PublicHandlers) Game() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		metricQueryTotal.Add("game", 1)
		g, err := h.sess.GetGame(chi.URLParam(r, "game_id"))
		if err != nil {
			writeSessionError(w, err)
			return
		}
		_ = json.NewEncoder(w).Encode(g)
	}
}

func (h *PublicHandlers) Chat() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		metricQueryTotal.Add("chat", 1)
		limit := ParseLimit(r, 50, game.MaxChatHistory)
		msgs, err := h.sess.GetChat(chi.URLParam(r, "game_id"), limit)
		if err != nil {
			writeSessionError(w, err)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"items": msgs, "limit": limit})
	}
}

func (h *PublicHandlers) Dealer() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		metricQueryTotal.Add("dealer", 1)
		d, err := h.sess.GetDealer(chi.URLParam(r, "dealer_id"))
		if err != nil {
			writeSessionError(w, err)
			return
		}
		_ = json.NewEncoder(w).Encode(d)
	}
}

// Tournaments accepts ?status= repeated or comma separated.
func (h *PublicHandlers) Tournaments() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		metricQueryTotal.Add("tournaments", 1)
		var statuses []game.TournamentStatus
		for _, raw := range r.URL.Query()["status"] {
			for _, v := range strings.Split(raw, ",") {
				if v = strings.TrimSpace(v); v != "" {
					statuses = append(statuses, game.TournamentStatus(v))
				}
			}
		}
		items := h.sess.GetTournaments(statuses...)
		_ = json.NewEncoder(w).Encode(map[string]any{"items": items})
	}
}

func (h *PublicHandlers) Promotions() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		metricQueryTotal.Add("promotions", 1)
		_ = json.NewEncoder(w).Encode(map[string]any{"items": h.sess.GetPromotions()})
	}
}

func (h *PublicHandlers) Status() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(h.sess.Status())
	}
}
