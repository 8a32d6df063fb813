package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/cmlabs-hris/hris-lite-go/internal/pkg/cache"
	"github.com/cmlabs-hris/hris-lite-go/internal/pkg/sse"
)

const keepaliveInterval = 30 * time.Second

type EventsHandler interface {
	// Stream pushes view invalidations to the client as server-sent events
	Stream(w http.ResponseWriter, r *http.Request)
	// PublishInvalidation is registered as a query cache invalidation hook
	PublishInvalidation(prefix string)
}

type eventsHandlerImpl struct {
	hub *sse.Hub
}

func NewEventsHandler(hub *sse.Hub) EventsHandler {
	return &eventsHandlerImpl{hub: hub}
}

// ViewTopic maps a cache view prefix to the topic its invalidations are published on.
func ViewTopic(prefix string) string {
	return strings.TrimSuffix(prefix, "/")
}

// PublishInvalidation implements EventsHandler.
func (h *eventsHandlerImpl) PublishInvalidation(prefix string) {
	h.hub.Publish(ViewTopic(prefix), sse.Event{
		Event: "invalidated",
		Data: map[string]string{
			"view": ViewTopic(prefix),
			"at":   time.Now().UTC().Format(time.RFC3339),
		},
	})
}

// Stream implements EventsHandler. The topics query parameter is a comma
// separated list of views; all views are streamed when it is empty.
func (h *eventsHandlerImpl) Stream(w http.ResponseWriter, r *http.Request) {
	// Check if streaming is supported
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}

	topics := []string{ViewTopic(cache.ViewEmployees), ViewTopic(cache.ViewAttendance)}
	if requested := r.URL.Query().Get("topics"); requested != "" {
		topics = topics[:0]
		for _, topic := range strings.Split(requested, ",") {
			if topic = strings.TrimSpace(topic); topic != "" {
				topics = append(topics, topic)
			}
		}
	}

	// Set SSE headers
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	events, cleanup := h.hub.Subscribe(topics...)
	defer cleanup()

	topicsJSON, _ := json.Marshal(topics)
	fmt.Fprintf(w, "event: connected\ndata: {\"topics\":%s}\n\n", topicsJSON)
	flusher.Flush()

	keepalive := time.NewTicker(keepaliveInterval)
	defer keepalive.Stop()

	for {
		select {
		case event, ok := <-events:
			if !ok {
				return
			}
			data, err := json.Marshal(event.Data)
			if err != nil {
				continue
			}
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Event, data)
			flusher.Flush()

		case <-keepalive.C:
			fmt.Fprintf(w, "event: ping\ndata: {\"timestamp\":%d}\n\n", time.Now().Unix())
			flusher.Flush()

		case <-r.Context().Done():
			return
		}
	}
}
