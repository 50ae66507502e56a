package backoffice

import (
	"context"
	"errors"
	"sync"
)

// Well-known preference keys.
const (
	PreferenceTheme         = "theme"
	PreferenceActiveSection = "activeSection"
)

var (
	ErrPreferenceNotFound = errors.New("backoffice: preference not found")
	ErrStorageUnavailable = errors.New("backoffice: preference storage unavailable")
)

// PreferenceStore persists small string preferences per viewer. Writes are last
// write wins.
type PreferenceStore interface {
	Preference(ctx context.Context, key string) (string, error)
	SavePreference(ctx context.Context, key, value string) error
}

// InMemoryPreferenceStore provides a concurrency-safe default store.
type InMemoryPreferenceStore struct {
	mu   sync.RWMutex
	data map[string]string
}

// NewInMemoryPreferenceStore creates an empty preference store.
func NewInMemoryPreferenceStore() *InMemoryPreferenceStore {
	return &InMemoryPreferenceStore{data: make(map[string]string)}
}

// Preference returns the stored value for the viewer on ctx.
func (s *InMemoryPreferenceStore) Preference(ctx context.Context, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	value, ok := s.data[s.key(ctx, key)]
	if !ok {
		return "", ErrPreferenceNotFound
	}
	return value, nil
}

// SavePreference stores the value for the viewer on ctx.
func (s *InMemoryPreferenceStore) SavePreference(ctx context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[s.key(ctx, key)] = value
	return nil
}

func (s *InMemoryPreferenceStore) key(ctx context.Context, key string) string {
	viewer := ViewerFromContext(ctx)
	if viewer.UserID == "" {
		return key
	}
	return viewer.UserID + "::" + key
}

// UnavailablePreferenceStore fails every call, like a browser with storage
// disabled.
type UnavailablePreferenceStore struct{}

// Preference implements PreferenceStore.
func (UnavailablePreferenceStore) Preference(context.Context, string) (string, error) {
	return "", ErrStorageUnavailable
}

// SavePreference implements PreferenceStore.
func (UnavailablePreferenceStore) SavePreference(context.Context, string, string) error {
	return ErrStorageUnavailable
}

// preferences wraps a store so reads fall back to defaults and failed writes are
// recorded instead of returned.
type preferences struct {
	store     PreferenceStore
	telemetry Telemetry
}

func newPreferences(store PreferenceStore, telemetry Telemetry) preferences {
	return preferences{store: store, telemetry: normalizeTelemetry(telemetry)}
}

func (p preferences) read(ctx context.Context, key, fallback string) (value string) {
	if p.store == nil {
		return fallback
	}
	defer func() {
		if r := recover(); r != nil {
			p.telemetry.Record(ctx, "backoffice.preferences.read_error", map[string]any{"key": key, "error": r})
			value = fallback
		}
	}()
	stored, err := p.store.Preference(ctx, key)
	if err != nil {
		if !errors.Is(err, ErrPreferenceNotFound) {
			p.telemetry.Record(ctx, "backoffice.preferences.read_error", map[string]any{"key": key, "error": err.Error()})
		}
		return fallback
	}
	if stored == "" {
		return fallback
	}
	return stored
}

func (p preferences) write(ctx context.Context, key, value string) {
	if p.store == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			p.telemetry.Record(ctx, "backoffice.preferences.write_error", map[string]any{"key": key, "error": r})
		}
	}()
	if err := p.store.SavePreference(ctx, key, value); err != nil {
		p.telemetry.Record(ctx, "backoffice.preferences.write_error", map[string]any{"key": key, "error": err.Error()})
		return
	}
	p.telemetry.Record(ctx, "backoffice.preferences.save", map[string]any{"key": key, "value": value})
}
