package httptransport

import (
	"encoding/json"
	"net/http"

	"casino-livesync/internal/game"
	"casino-livesync/internal/session"

	"github.com/go-chi/chi/v5"
)

// CommandHandlers expose the facade's optimistic commands. A 200 means the
// command passed validation and was forwarded or applied locally.
type CommandHandlers struct {
	sess *session.Session
}

func NewCommandHandlers(sess *session.Session) *CommandHandlers {
	return &CommandHandlers{sess: sess}
}

func (h *CommandHandlers) finish(w http.ResponseWriter, kind string, err error, resp map[string]any) {
	metricCommandRequests.Add(kind, 1)
	if err != nil {
		metricCommandErrors.Add(kind, 1)
		writeSessionError(w, err)
		return
	}
	if resp == nil {
		resp = map[string]any{}
	}
	resp["ok"] = true
	_ = json.NewEncoder(w).Encode(resp)
}

func (h *CommandHandlers) Join() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			SeatNumber *int `json:"seat_number"`
		}
		if err := decodeBody(r, &body); err != nil {
			h.finish(w, "join_game", err, nil)
			return
		}
		gameID := chi.URLParam(r, "game_id")
		err := h.sess.JoinGame(gameID, body.SeatNumber)
		h.finish(w, "join_game", err, map[string]any{"game_id": gameID})
	}
}

func (h *CommandHandlers) Leave() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		gameID := chi.URLParam(r, "game_id")
		h.finish(w, "leave_game", h.sess.LeaveGame(gameID), map[string]any{"game_id": gameID})
	}
}

func (h *CommandHandlers) Bet() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body session.BetRequest
		if err := decodeBody(r, &body); err != nil {
			h.finish(w, "place_bet", err, nil)
			return
		}
		bet, err := h.sess.PlaceBet(chi.URLParam(r, "game_id"), body)
		h.finish(w, "place_bet", err, map[string]any{"bet": bet})
	}
}

func (h *CommandHandlers) Chat() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Message   string `json:"message"`
			PrivateTo string `json:"private_to"`
		}
		if err := decodeBody(r, &body); err != nil {
			h.finish(w, "chat_message", err, nil)
			return
		}
		err := h.sess.SendChatMessage(chi.URLParam(r, "game_id"), body.Message, body.PrivateTo)
		h.finish(w, "chat_message", err, nil)
	}
}

func (h *CommandHandlers) Camera() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			CameraID string `json:"camera_id"`
		}
		if err := decodeBody(r, &body); err != nil {
			h.finish(w, "switch_camera", err, nil)
			return
		}
		err := h.sess.SwitchCamera(chi.URLParam(r, "game_id"), body.CameraID)
		h.finish(w, "switch_camera", err, map[string]any{"camera_id": body.CameraID})
	}
}

func (h *CommandHandlers) Quality() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Quality game.StreamQuality `json:"quality"`
		}
		if err := decodeBody(r, &body); err != nil {
			h.finish(w, "change_quality", err, nil)
			return
		}
		err := h.sess.ChangeStreamQuality(chi.URLParam(r, "game_id"), body.Quality)
		h.finish(w, "change_quality", err, map[string]any{"quality": body.Quality})
	}
}

func (h *CommandHandlers) Tip() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Amount int64 `json:"amount"`
		}
		if err := decodeBody(r, &body); err != nil {
			h.finish(w, "tip_dealer", err, nil)
			return
		}
		h.finish(w, "tip_dealer", h.sess.TipDealer(chi.URLParam(r, "game_id"), body.Amount), nil)
	}
}

func (h *CommandHandlers) Register() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "tournament_id")
		h.finish(w, "register_tournament", h.sess.RegisterForTournament(id), map[string]any{"tournament_id": id})
	}
}
