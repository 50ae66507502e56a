package backoffice

import (
	"slices"
	"sync"
	"time"
)

// Timer is a pending callback that can be stopped before it fires.
type Timer interface {
	Stop() bool
}

// Scheduler runs callbacks after a delay. Toasts, modal submissions and the
// intake reset all go through one so tests can drive time by hand.
type Scheduler interface {
	AfterFunc(d time.Duration, fn func()) Timer
}

// SystemScheduler schedules callbacks on the runtime timer.
type SystemScheduler struct{}

// AfterFunc implements Scheduler.
func (SystemScheduler) AfterFunc(d time.Duration, fn func()) Timer {
	return time.AfterFunc(d, fn)
}

func normalizeScheduler(s Scheduler) Scheduler {
	if s == nil {
		return SystemScheduler{}
	}
	return s
}

// ManualScheduler fires callbacks only when Advance moves its clock past their
// deadline. Callbacks run synchronously on the caller of Advance.
type ManualScheduler struct {
	mu      sync.Mutex
	now     time.Duration
	seq     int
	pending []*manualTimer
}

type manualTimer struct {
	owner    *ManualScheduler
	deadline time.Duration
	seq      int
	fn       func()
	stopped  bool
	fired    bool
}

// NewManualScheduler starts the clock at zero.
func NewManualScheduler() *ManualScheduler {
	return &ManualScheduler{}
}

// AfterFunc implements Scheduler.
func (s *ManualScheduler) AfterFunc(d time.Duration, fn func()) Timer {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	t := &manualTimer{owner: s, deadline: s.now + d, seq: s.seq, fn: fn}
	s.pending = append(s.pending, t)
	return t
}

// Advance moves the clock forward and fires every due callback in deadline
// order. Callbacks scheduled while advancing fire too if they fall due.
func (s *ManualScheduler) Advance(d time.Duration) {
	s.mu.Lock()
	target := s.now + d
	s.mu.Unlock()
	for {
		s.mu.Lock()
		next := s.nextDue(target)
		if next == nil {
			s.now = target
			s.mu.Unlock()
			return
		}
		s.now = next.deadline
		next.fired = true
		s.mu.Unlock()
		next.fn()
	}
}

// Pending returns the number of callbacks still waiting to fire.
func (s *ManualScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	for _, t := range s.pending {
		if !t.stopped && !t.fired {
			count++
		}
	}
	return count
}

func (s *ManualScheduler) nextDue(target time.Duration) *manualTimer {
	s.pending = slices.DeleteFunc(s.pending, func(t *manualTimer) bool {
		return t.stopped || t.fired
	})
	var next *manualTimer
	for _, t := range s.pending {
		if t.deadline > target {
			continue
		}
		if next == nil || t.deadline < next.deadline || (t.deadline == next.deadline && t.seq < next.seq) {
			next = t
		}
	}
	return next
}

func (t *manualTimer) Stop() bool {
	t.owner.mu.Lock()
	defer t.owner.mu.Unlock()
	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	return true
}
