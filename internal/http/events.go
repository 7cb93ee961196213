package http

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/charmbracelet/log"

	"github.com/mauv0809/paddle-arena/internal/events"
)

// EventsHandler streams bus events for one domain to the client as
// server-sent events. The subscription is closed as soon as the connection
// drops, so a gone client never accumulates buffered events.
func (s *Server) EventsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		domain := r.URL.Query().Get("domain")
		if domain == "" {
			http.Error(w, "domain is required", http.StatusBadRequest)
			return
		}
		flusher, ok := w.(http.Flusher)
		if !ok {
			http.Error(w, "streaming unsupported", http.StatusInternalServerError)
			return
		}

		stream := events.SubscribeDomain(s.Bus, domain, nil)
		defer stream.Close()

		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")
		w.WriteHeader(http.StatusOK)
		flusher.Flush()

		log.Info("Event stream opened", "domain", domain)
		for {
			ev, err := stream.Next(r.Context())
			if err != nil {
				log.Info("Event stream closed", "domain", domain, "reason", err)
				return
			}
			data, err := json.Marshal(ev.Payload)
			if err != nil {
				log.Error("Failed to encode event payload", "kind", ev.Kind, "error", err)
				continue
			}
			fmt.Fprintf(w, "event: %s:%s\ndata: %s\n\n", domain, ev.Kind, data)
			flusher.Flush()
		}
	}
}
