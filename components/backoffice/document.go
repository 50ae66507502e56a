package backoffice

import (
	"slices"
	"sync"
)

// EventKind names a document level event.
type EventKind string

const (
	EventClick  EventKind = "click"
	EventResize EventKind = "resize"
)

// Event is dispatched to document listeners.
type Event interface {
	Kind() EventKind
}

// ClickEvent describes a click by the element ids on the path from the target
// up to the root. Path[0] is the element that received the click.
type ClickEvent struct {
	Path []string `json:"path"`
}

// Kind implements Event.
func (ClickEvent) Kind() EventKind { return EventClick }

// Target returns the id of the clicked element.
func (e ClickEvent) Target() string {
	if len(e.Path) == 0 {
		return ""
	}
	return e.Path[0]
}

// Within reports whether the element id is on the click path.
func (e ClickEvent) Within(id string) bool {
	for _, candidate := range e.Path {
		if candidate == id {
			return true
		}
	}
	return false
}

// ResizeEvent carries the new viewport width in logical pixels.
type ResizeEvent struct {
	Width int `json:"width"`
}

// Kind implements Event.
func (ResizeEvent) Kind() EventKind { return EventResize }

// Listener handles a dispatched event.
type Listener func(Event)

// Document is the per view event target that global listeners attach to.
type Document struct {
	mu        sync.RWMutex
	next      int
	listeners map[EventKind]map[int]Listener
}

// NewDocument returns a document without listeners.
func NewDocument() *Document {
	return &Document{listeners: make(map[EventKind]map[int]Listener)}
}

// Listen attaches a listener and returns the func that detaches it. Calling the
// returned func more than once is safe.
func (d *Document) Listen(kind EventKind, fn Listener) func() {
	d.mu.Lock()
	defer d.mu.Unlock()
	id := d.next
	d.next++
	if d.listeners[kind] == nil {
		d.listeners[kind] = make(map[int]Listener)
	}
	d.listeners[kind][id] = fn
	return func() {
		d.mu.Lock()
		defer d.mu.Unlock()
		delete(d.listeners[kind], id)
	}
}

// Dispatch delivers the event to every listener of its kind, in attach order.
func (d *Document) Dispatch(event Event) {
	if event == nil {
		return
	}
	d.mu.RLock()
	registered := d.listeners[event.Kind()]
	ids := make([]int, 0, len(registered))
	for id := range registered {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	fns := make([]Listener, 0, len(ids))
	for _, id := range ids {
		fns = append(fns, registered[id])
	}
	d.mu.RUnlock()
	for _, fn := range fns {
		fn(event)
	}
}

// ListenerCount returns the attached listeners for a kind.
func (d *Document) ListenerCount(kind EventKind) int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.listeners[kind])
}
