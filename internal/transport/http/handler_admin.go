package httptransport

import (
	"context"
	"encoding/json"
	"net/http"

	"casino-livesync/internal/session"

	"github.com/rs/zerolog/log"
)

type AdminHandlers struct {
	sess *session.Session
}

func NewAdminHandlers(sess *session.Session) *AdminHandlers {
	return &AdminHandlers{sess: sess}
}

// Health reports 503 once the session is closed; every other mode serves.
func (h *AdminHandlers) Health() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		mode := h.sess.Mode()
		if mode == session.ModeClosed {
			w.WriteHeader(http.StatusServiceUnavailable)
			_ = json.NewEncoder(w).Encode(map[string]any{"ok": false, "mode": mode})
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"ok": true, "mode": mode})
	}
}

// Reconnect restarts the uplink cycle with a fresh retry budget.
func (h *AdminHandlers) Reconnect() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if h.sess.Mode() == session.ModeClosed {
			WriteHTTPError(w, http.StatusServiceUnavailable, session.ErrClosed.Error())
			return
		}
		metricAdminReconnects.Add(1)
		h.sess.Reconnect(context.WithoutCancel(r.Context()))
		log.Info().Msg("admin_reconnect_requested")
		_ = json.NewEncoder(w).Encode(map[string]any{"ok": true, "status": h.sess.Status()})
	}
}
