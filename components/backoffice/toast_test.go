package backoffice

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRegion(scheduler Scheduler, sink EventSink) *ToastRegion {
	n := 0
	return NewToastRegion(ToastOptions{
		ViewID:    "view-1",
		Scheduler: scheduler,
		Sink:      sink,
		NewID: func() string {
			n++
			return fmt.Sprintf("toast-%d", n)
		},
	})
}

func TestToastLifecycle(t *testing.T) {
	scheduler := NewManualScheduler()
	sink := &recordingSink{}
	cues := 0
	region := newTestRegion(scheduler, sink)
	region.audio = AudioCueFunc(func(context.Context) error {
		cues++
		return nil
	})
	ctx := context.Background()

	toast := region.Notify(ctx, "Saved", "")
	assert.Equal(t, 1, cues)
	assert.Equal(t, SeveritySuccess, toast.Severity)
	assert.Equal(t, "fa-check-circle", toast.Icon)
	assert.Equal(t, "bg-green-600", toast.Class)
	require.Len(t, region.Toasts(), 1)

	scheduler.Advance(ToastLifetime)
	require.Len(t, region.Toasts(), 1)
	assert.True(t, region.Toasts()[0].Fading)

	scheduler.Advance(ToastFade)
	assert.Empty(t, region.Toasts())
	assert.Equal(t, []string{EventToastAdded, EventToastFading, EventToastRemoved}, sink.types())
}

func TestToastsKeepCreationOrder(t *testing.T) {
	scheduler := NewManualScheduler()
	region := newTestRegion(scheduler, nil)
	ctx := context.Background()

	region.Notify(ctx, "one", SeverityInfo)
	region.Notify(ctx, "two", SeverityError)
	region.Notify(ctx, "three", "weird")

	toasts := region.Toasts()
	require.Len(t, toasts, 3)
	assert.Equal(t, "one", toasts[0].Message)
	assert.Equal(t, "two", toasts[1].Message)
	assert.Equal(t, SeverityError, toasts[1].Severity)
	assert.Equal(t, SeverityInfo, toasts[2].Severity)
	assert.Equal(t, "fa-info-circle", toasts[2].Icon)
}

func TestToastDismissIsIdempotent(t *testing.T) {
	scheduler := NewManualScheduler()
	sink := &recordingSink{}
	region := newTestRegion(scheduler, sink)
	ctx := context.Background()

	toast := region.Notify(ctx, "bye", SeverityInfo)
	assert.True(t, region.Dismiss(ctx, toast.ID))
	assert.False(t, region.Dismiss(ctx, toast.ID))

	scheduler.Advance(ToastFade)
	assert.Empty(t, region.Toasts())
	assert.False(t, region.Dismiss(ctx, toast.ID))

	// The original lifetime timer was stopped when the fade started early.
	scheduler.Advance(ToastLifetime)
	assert.Equal(t, 1, sink.count(EventToastRemoved))
	assert.Equal(t, 1, sink.count(EventToastFading))
}

func TestToastMessageIsSanitized(t *testing.T) {
	region := newTestRegion(NewManualScheduler(), nil)
	toast := region.Notify(context.Background(), `<script>alert(1)</script>Saved <b>item</b>`, SeveritySuccess)
	assert.NotContains(t, toast.Message, "<script>")
	assert.NotContains(t, toast.Message, "<b>")
	assert.Contains(t, toast.Message, "Saved")
}

func TestToastAudioFailureIsIgnored(t *testing.T) {
	region := newTestRegion(NewManualScheduler(), nil)
	region.audio = AudioCueFunc(func(context.Context) error { panic("autoplay blocked") })
	toast := region.Notify(context.Background(), "still shown", SeverityInfo)
	assert.Equal(t, "still shown", toast.Message)
	assert.Len(t, region.Toasts(), 1)
}

func TestToastRegionClose(t *testing.T) {
	scheduler := NewManualScheduler()
	region := newTestRegion(scheduler, nil)
	ctx := context.Background()
	region.Notify(ctx, "a", SeverityInfo)
	region.Close()
	assert.Empty(t, region.Toasts())
	assert.Zero(t, scheduler.Pending())

	region.Notify(ctx, "after close", SeverityInfo)
	assert.Empty(t, region.Toasts())
}
