package backoffice

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestManualSchedulerFiresInDeadlineOrder(t *testing.T) {
	s := NewManualScheduler()
	var order []string
	s.AfterFunc(30*time.Millisecond, func() { order = append(order, "c") })
	s.AfterFunc(10*time.Millisecond, func() { order = append(order, "a") })
	s.AfterFunc(10*time.Millisecond, func() { order = append(order, "b") })

	s.Advance(5 * time.Millisecond)
	assert.Empty(t, order)
	assert.Equal(t, 3, s.Pending())

	s.Advance(25 * time.Millisecond)
	assert.Equal(t, []string{"a", "b", "c"}, order)
	assert.Zero(t, s.Pending())
}

func TestManualSchedulerStop(t *testing.T) {
	s := NewManualScheduler()
	fired := false
	timer := s.AfterFunc(time.Second, func() { fired = true })
	assert.True(t, timer.Stop())
	assert.False(t, timer.Stop())
	s.Advance(2 * time.Second)
	assert.False(t, fired)
}

func TestManualSchedulerRunsChainedCallbacks(t *testing.T) {
	s := NewManualScheduler()
	var fired []time.Duration
	s.AfterFunc(100*time.Millisecond, func() {
		fired = append(fired, 100*time.Millisecond)
		s.AfterFunc(50*time.Millisecond, func() {
			fired = append(fired, 150*time.Millisecond)
		})
	})
	s.Advance(120 * time.Millisecond)
	assert.Len(t, fired, 1)
	s.Advance(30 * time.Millisecond)
	assert.Len(t, fired, 2)

	s2 := NewManualScheduler()
	chained := 0
	s2.AfterFunc(10*time.Millisecond, func() {
		s2.AfterFunc(10*time.Millisecond, func() { chained++ })
	})
	s2.Advance(time.Second)
	assert.Equal(t, 1, chained)
}
