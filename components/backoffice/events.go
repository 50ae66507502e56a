package backoffice

import (
	"context"
	"time"
)

// UI event types published while a view is mounted.
const (
	EventToastAdded    = "toast.added"
	EventToastFading   = "toast.fading"
	EventToastRemoved  = "toast.removed"
	EventModalOpened   = "modal.opened"
	EventModalClosed   = "modal.closed"
	EventModalBusy     = "modal.busy"
	EventModalSubmit   = "modal.submitted"
	EventIntakeChanged = "intake.changed"
	EventStateChanged  = "state.changed"
	EventViewUnmounted = "view.unmounted"
)

// UIEvent is a change the client mirrors without re-rendering the shell.
type UIEvent struct {
	ViewID    string         `json:"view_id"`
	Type      string         `json:"type"`
	Payload   map[string]any `json:"payload,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
}

// EventSink receives UI events. Delivery is best effort.
type EventSink interface {
	Publish(ctx context.Context, event UIEvent) error
}

type noopSink struct{}

func (noopSink) Publish(context.Context, UIEvent) error { return nil }

func normalizeSink(s EventSink) EventSink {
	if s == nil {
		return noopSink{}
	}
	return s
}

// publish stamps and sends the event, recording failures on telemetry.
func publish(ctx context.Context, sink EventSink, telemetry Telemetry, viewID, kind string, payload map[string]any) {
	event := UIEvent{ViewID: viewID, Type: kind, Payload: payload, Timestamp: time.Now().UTC()}
	if err := sink.Publish(ctx, event); err != nil {
		telemetry.Record(ctx, "backoffice.events.publish_error", map[string]any{
			"view":  viewID,
			"type":  kind,
			"error": err.Error(),
		})
	}
}
