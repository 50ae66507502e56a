package backoffice

import (
	"context"
	"sync"
)

type recordingSink struct {
	mu     sync.Mutex
	events []UIEvent
}

func (s *recordingSink) Publish(_ context.Context, event UIEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	return nil
}

func (s *recordingSink) types() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.events))
	for _, event := range s.events {
		out = append(out, event.Type)
	}
	return out
}

func (s *recordingSink) count(kind string) int {
	n := 0
	for _, t := range s.types() {
		if t == kind {
			n++
		}
	}
	return n
}

type recordingTelemetry struct {
	mu     sync.Mutex
	events []string
}

func (t *recordingTelemetry) Record(_ context.Context, event string, _ map[string]any) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.events = append(t.events, event)
}

func (t *recordingTelemetry) has(event string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, e := range t.events {
		if e == event {
			return true
		}
	}
	return false
}

// countingStore wraps an in-memory store and counts writes per key.
type countingStore struct {
	*InMemoryPreferenceStore
	mu     sync.Mutex
	writes map[string][]string
}

func newCountingStore() *countingStore {
	return &countingStore{InMemoryPreferenceStore: NewInMemoryPreferenceStore(), writes: map[string][]string{}}
}

func (s *countingStore) SavePreference(ctx context.Context, key, value string) error {
	s.mu.Lock()
	s.writes[key] = append(s.writes[key], value)
	s.mu.Unlock()
	return s.InMemoryPreferenceStore.SavePreference(ctx, key, value)
}

func (s *countingStore) written(key string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.writes[key]...)
}

type panickingStore struct{}

func (panickingStore) Preference(context.Context, string) (string, error) {
	panic("storage exploded")
}

func (panickingStore) SavePreference(context.Context, string, string) error {
	panic("storage exploded")
}
