package httpapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

const streamHeartbeatInterval = 30 * time.Second

// HandleStream handles GET /api/portfolio/stream. It pushes a portfolio
// snapshot over Server-Sent Events after every trade or reset, plus a
// periodic heartbeat comment so proxies keep the connection open.
func (h *Handler) HandleStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		h.writeError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	user, err := h.auth.CurrentUser(r.Context())
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	snapshots, cancel := h.trading.Subscribe(user.ID)
	defer cancel()

	// Initial snapshot so clients render immediately.
	if snap, err := h.trading.Portfolio(r.Context(), user.ID); err == nil {
		h.writeEvent(w, "snapshot", toSnapshotResponse(snap))
		flusher.Flush()
	}

	heartbeat := time.NewTicker(streamHeartbeatInterval)
	defer heartbeat.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-heartbeat.C:
			fmt.Fprint(w, ": heartbeat\n\n")
			flusher.Flush()
		case snap, ok := <-snapshots:
			if !ok {
				return
			}
			h.writeEvent(w, "snapshot", toSnapshotResponse(&snap))
			flusher.Flush()
		}
	}
}

func (h *Handler) writeEvent(w http.ResponseWriter, event string, data interface{}) {
	payload, err := json.Marshal(data)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to encode stream event")
		return
	}
	fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, payload)
}
