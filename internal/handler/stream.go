package handler

import (
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/chatterbox-dev/chatterbox/internal/logger"
	"github.com/chatterbox-dev/chatterbox/internal/middleware"
	"github.com/chatterbox-dev/chatterbox/internal/sse"
)

// StreamMessages opens the caller's live message channel as an SSE stream.
// Opening a new stream for the same user displaces any previous one.
func (h *Handler) StreamMessages(w http.ResponseWriter, r *http.Request) {
	identity := middleware.GetIdentityFromContext(r)
	userId := mux.Vars(r)["userId"]

	if identity.UserId != userId {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	// Ack frame so EventSource clients see the stream as established.
	fmt.Fprint(w, "log: Connected to live message stream\n\n")
	flusher.Flush()

	client := sse.NewClient(userId)
	h.registry.Register(client)
	defer h.registry.Unregister(client)

	logger.Log.Debug("live channel opened", "user_id", userId)

	for {
		select {
		case <-r.Context().Done():
			return
		case <-client.Done():
			// Displaced by a newer stream for the same user.
			return
		case payload := <-client.Events():
			if _, err := fmt.Fprintf(w, "data: %s\n\n", payload); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}
