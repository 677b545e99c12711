package feed

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

var pingInterval = 15 * time.Second

func WriteSSE(w io.Writer, u Update) error {
	data, err := json.Marshal(u)
	if err != nil {
		return err
	}
	if u.EventID != "" {
		if _, err := fmt.Fprintf(w, "id: %s\n", u.EventID); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintf(w, "event: %s\n", u.Event); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "data: %s\n\n", data); err != nil {
		return err
	}
	return nil
}

// SetSSEHeaders applies headers that keep event streams stable across proxies.
func SetSSEHeaders(w http.ResponseWriter) {
	h := w.Header()
	h.Set("Content-Type", "text/event-stream")
	h.Set("Cache-Control", "no-cache, no-transform")
	h.Set("Connection", "keep-alive")
	h.Set("X-Accel-Buffering", "no")
	h.Set("X-Content-Type-Options", "nosniff")
}

// EventsHandler streams updates as SSE, replaying from Last-Event-ID first.
// An optional game_id query parameter narrows the stream to one table.
func EventsHandler(buf *Buffer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		flusher, ok := w.(http.Flusher)
		if !ok {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		gameID := r.URL.Query().Get("game_id")
		keep := func(u Update) bool {
			return gameID == "" || u.GameID == "" || u.GameID == gameID
		}

		SetSSEHeaders(w)
		metricSSEConnections.Add(1)

		lastEventID := r.Header.Get("Last-Event-ID")
		for _, u := range buf.ReplayAfter(lastEventID) {
			if !keep(u) {
				continue
			}
			if err := WriteSSE(w, u); err != nil {
				return
			}
		}
		flusher.Flush()

		ch := buf.Subscribe()
		defer buf.Unsubscribe(ch)
		ticker := time.NewTicker(pingInterval)
		defer ticker.Stop()

		for {
			select {
			case <-r.Context().Done():
				return
			case u, ok := <-ch:
				if !ok {
					return
				}
				if !keep(u) {
					continue
				}
				if err := WriteSSE(w, u); err != nil {
					return
				}
				flusher.Flush()
			case <-ticker.C:
				if _, err := fmt.Fprintf(w, "event: ping\ndata: {\"ts\":%d}\n\n", time.Now().UnixMilli()); err != nil {
					return
				}
				flusher.Flush()
			}
		}
	}
}
