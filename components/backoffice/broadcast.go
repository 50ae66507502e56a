package backoffice

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/gorilla/websocket"
)

// BroadcastHook fans out UI events to in-process subscribers.
type BroadcastHook struct {
	mu      sync.RWMutex
	subs    map[int]subscription
	next    int
	origins map[string]struct{}
}

type subscription struct {
	viewID string
	ch     chan UIEvent
}

// NewBroadcastHook creates a broadcast hook.
func NewBroadcastHook() *BroadcastHook {
	return &BroadcastHook{subs: make(map[int]subscription)}
}

// Publish implements EventSink. Slow subscribers drop events.
func (h *BroadcastHook) Publish(_ context.Context, event UIEvent) error {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, sub := range h.subs {
		if sub.viewID != "" && sub.viewID != event.ViewID {
			continue
		}
		select {
		case sub.ch <- event:
		default:
		}
	}
	return nil
}

// Subscribe returns a channel of events for one view (or every view when
// viewID is empty) and a cancel func.
func (h *BroadcastHook) Subscribe(viewID string) (<-chan UIEvent, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()
	id := h.next
	h.next++
	ch := make(chan UIEvent, 16)
	h.subs[id] = subscription{viewID: viewID, ch: ch}
	cancel := func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		if sub, ok := h.subs[id]; ok {
			delete(h.subs, id)
			close(sub.ch)
		}
	}
	return ch, cancel
}

// Subscribers returns the number of active subscriptions.
func (h *BroadcastHook) Subscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}

// AllowOrigins lets WebSocket clients from other origins connect. Without it
// only same-origin requests (or requests with no Origin header) are upgraded.
func (h *BroadcastHook) AllowOrigins(origins ...string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.origins == nil {
		h.origins = make(map[string]struct{}, len(origins))
	}
	for _, origin := range origins {
		if origin = strings.TrimRight(strings.ToLower(strings.TrimSpace(origin)), "/"); origin != "" {
			h.origins[origin] = struct{}{}
		}
	}
}

// CheckOrigin reports whether a WebSocket handshake may proceed.
func (h *BroadcastHook) CheckOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	u, err := url.Parse(origin)
	if err != nil || u.Host == "" {
		return false
	}
	if strings.EqualFold(u.Host, r.Host) {
		return true
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, ok := h.origins[strings.ToLower(u.Scheme+"://"+u.Host)]
	return ok
}

// ServeWebSocket upgrades the request and streams the events of one view as
// JSON.
func (h *BroadcastHook) ServeWebSocket(w http.ResponseWriter, r *http.Request, viewID string) {
	upgrader := websocket.Upgrader{CheckOrigin: h.CheckOrigin}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	events, cancel := h.Subscribe(viewID)
	defer cancel()

	for {
		select {
		case <-r.Context().Done():
			return
		case event, ok := <-events:
			if !ok {
				return
			}
			if err := conn.WriteJSON(event); err != nil {
				return
			}
			if event.Type == EventViewUnmounted {
				return
			}
		}
	}
}

// ServeSSE streams the events of one view as Server-Sent Events.
func (h *BroadcastHook) ServeSSE(w http.ResponseWriter, r *http.Request, viewID string) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	events, cancel := h.Subscribe(viewID)
	defer cancel()

	encoder := json.NewEncoder(w)
	flusher, _ := w.(http.Flusher)
	if flusher != nil {
		flusher.Flush()
	}

	for {
		select {
		case <-r.Context().Done():
			return
		case event, ok := <-events:
			if !ok {
				return
			}
			w.Write([]byte("event: " + event.Type + "\ndata: "))
			if err := encoder.Encode(event); err != nil {
				return
			}
			w.Write([]byte("\n"))
			if flusher != nil {
				flusher.Flush()
			}
			if event.Type == EventViewUnmounted {
				return
			}
		}
	}
}
