package backoffice

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
)

// Toast timings.
const (
	ToastLifetime = 4000 * time.Millisecond
	ToastFade     = 400 * time.Millisecond
)

// Severity selects toast styling.
type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityError   Severity = "error"
	SeverityInfo    Severity = "info"
)

// Normalize maps an empty severity to success and anything unknown to info.
func (s Severity) Normalize() Severity {
	switch Severity(strings.ToLower(strings.TrimSpace(string(s)))) {
	case "", SeveritySuccess:
		return SeveritySuccess
	case SeverityError:
		return SeverityError
	default:
		return SeverityInfo
	}
}

// Icon returns the icon class shown next to the message.
func (s Severity) Icon() string {
	switch s.Normalize() {
	case SeveritySuccess:
		return "fa-check-circle"
	case SeverityError:
		return "fa-times-circle"
	default:
		return "fa-info-circle"
	}
}

// Class returns the background class of the toast.
func (s Severity) Class() string {
	switch s.Normalize() {
	case SeveritySuccess:
		return "bg-green-600"
	case SeverityError:
		return "bg-red-600"
	default:
		return "bg-blue-600"
	}
}

// Toast is one notification in the region. Message is sanitized HTML text.
type Toast struct {
	ID       string   `json:"id"`
	Message  string   `json:"message"`
	Severity Severity `json:"severity"`
	Icon     string   `json:"icon"`
	Class    string   `json:"class"`
	Fading   bool     `json:"fading"`
}

// AudioCue plays the notification sound. Errors are ignored by the region.
type AudioCue interface {
	Play(ctx context.Context) error
}

// AudioCueFunc adapts a function into an AudioCue.
type AudioCueFunc func(ctx context.Context) error

// Play implements AudioCue.
func (fn AudioCueFunc) Play(ctx context.Context) error { return fn(ctx) }

// Notifier raises toasts.
type Notifier interface {
	Notify(ctx context.Context, message string, severity Severity) Toast
}

// ToastOptions configures a toast region.
type ToastOptions struct {
	ViewID    string
	Scheduler Scheduler
	Audio     AudioCue
	Sink      EventSink
	Telemetry Telemetry
	Lifetime  time.Duration
	Fade      time.Duration
	NewID     func() string
}

// ToastRegion is the single stack of notifications for a view. Toasts keep
// creation order; timers that fire after a toast is gone do nothing.
type ToastRegion struct {
	mu        sync.Mutex
	viewID    string
	scheduler Scheduler
	audio     AudioCue
	sink      EventSink
	telemetry Telemetry
	lifetime  time.Duration
	fade      time.Duration
	newID     func() string
	policy    *bluemonday.Policy
	entries   []*toastEntry
	closed    bool
}

type toastEntry struct {
	toast Toast
	timer Timer
}

// NewToastRegion builds an empty region.
func NewToastRegion(opts ToastOptions) *ToastRegion {
	region := &ToastRegion{
		viewID:    opts.ViewID,
		scheduler: normalizeScheduler(opts.Scheduler),
		audio:     opts.Audio,
		sink:      normalizeSink(opts.Sink),
		telemetry: normalizeTelemetry(opts.Telemetry),
		lifetime:  opts.Lifetime,
		fade:      opts.Fade,
		newID:     opts.NewID,
		policy:    bluemonday.StrictPolicy(),
	}
	if region.lifetime <= 0 {
		region.lifetime = ToastLifetime
	}
	if region.fade <= 0 {
		region.fade = ToastFade
	}
	if region.newID == nil {
		region.newID = func() string { return uuid.NewString() }
	}
	return region
}

// Notify plays the audio cue and appends a toast that dismisses itself after
// the region lifetime. A closed region returns the toast without showing it.
func (r *ToastRegion) Notify(ctx context.Context, message string, severity Severity) Toast {
	r.playCue(ctx)
	severity = severity.Normalize()
	toast := Toast{
		ID:       r.newID(),
		Message:  r.policy.Sanitize(message),
		Severity: severity,
		Icon:     severity.Icon(),
		Class:    severity.Class(),
	}

	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return toast
	}
	entry := &toastEntry{toast: toast}
	r.entries = append(r.entries, entry)
	id := toast.ID
	entry.timer = r.scheduler.AfterFunc(r.lifetime, func() {
		r.startFade(context.WithoutCancel(ctx), id)
	})
	r.mu.Unlock()

	r.telemetry.Record(ctx, "backoffice.toast.notify", map[string]any{"id": id, "severity": string(severity)})
	publish(ctx, r.sink, r.telemetry, r.viewID, EventToastAdded, map[string]any{"toast": toast})
	return toast
}

// Dismiss starts the fade for the toast. It reports false when the toast is
// gone or already fading.
func (r *ToastRegion) Dismiss(ctx context.Context, id string) bool {
	return r.startFade(ctx, id)
}

// Toasts returns the visible toasts in creation order.
func (r *ToastRegion) Toasts() []Toast {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Toast, 0, len(r.entries))
	for _, entry := range r.entries {
		out = append(out, entry.toast)
	}
	return out
}

// Close stops pending timers and empties the region.
func (r *ToastRegion) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, entry := range r.entries {
		if entry.timer != nil {
			entry.timer.Stop()
		}
	}
	r.entries = nil
	r.closed = true
}

func (r *ToastRegion) startFade(ctx context.Context, id string) bool {
	r.mu.Lock()
	entry := r.find(id)
	if entry == nil || entry.toast.Fading {
		r.mu.Unlock()
		return false
	}
	if entry.timer != nil {
		entry.timer.Stop()
	}
	entry.toast.Fading = true
	entry.timer = r.scheduler.AfterFunc(r.fade, func() {
		r.remove(ctx, id)
	})
	r.mu.Unlock()

	publish(ctx, r.sink, r.telemetry, r.viewID, EventToastFading, map[string]any{"id": id})
	return true
}

func (r *ToastRegion) remove(ctx context.Context, id string) {
	r.mu.Lock()
	index := -1
	for i, entry := range r.entries {
		if entry.toast.ID == id {
			index = i
			break
		}
	}
	if index < 0 {
		r.mu.Unlock()
		return
	}
	r.entries = append(r.entries[:index], r.entries[index+1:]...)
	r.mu.Unlock()

	publish(ctx, r.sink, r.telemetry, r.viewID, EventToastRemoved, map[string]any{"id": id})
}

func (r *ToastRegion) find(id string) *toastEntry {
	for _, entry := range r.entries {
		if entry.toast.ID == id {
			return entry
		}
	}
	return nil
}

func (r *ToastRegion) playCue(ctx context.Context) {
	if r.audio == nil {
		return
	}
	defer func() { _ = recover() }()
	_ = r.audio.Play(ctx)
}
