package http

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/sse"
)

// TopicManagers carries check-in and check-out events for manager streams
const TopicManagers = "managers"

// LivePublisher forwards attendance events to the managers topic
func LivePublisher(hub *sse.Hub) attendance.EventPublisher {
	return attendance.PublisherFunc(func(_ context.Context, e attendance.Event) {
		hub.Publish(TopicManagers, sse.Event{Event: string(e.Type), Data: e.Attendance})
	})
}

type LiveHandler interface {
	Stream(w http.ResponseWriter, r *http.Request)
}

type liveHandlerImpl struct {
	hub       *sse.Hub
	keepalive time.Duration
}

func NewLiveHandler(hub *sse.Hub, keepalive time.Duration) LiveHandler {
	if keepalive <= 0 {
		keepalive = 30 * time.Second
	}
	return &liveHandlerImpl{
		hub:       hub,
		keepalive: keepalive,
	}
}

// Stream handles the SSE connection for live team attendance
func (h *liveHandlerImpl) Stream(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	// Check if streaming is supported
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}

	// Set SSE headers
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	events, cleanup := h.hub.Subscribe(TopicManagers)
	defer cleanup()

	fmt.Fprintf(w, "event: connected\ndata: {\"status\":\"connected\",\"user_id\":\"%s\"}\n\n", p.UserID)
	flusher.Flush()

	keepalive := time.NewTicker(h.keepalive)
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
