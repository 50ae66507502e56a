package backoffice

import (
	"context"
	"fmt"

	"github.com/alexedwards/scs/v2"
)

// SessionPreferenceStore keeps preferences in the viewer's scs session. The
// context must carry loaded session data (scs LoadAndSave middleware); when it
// does not, calls report ErrStorageUnavailable.
type SessionPreferenceStore struct {
	sessions *scs.SessionManager
	prefix   string
}

// NewSessionPreferenceStore builds a store over the session manager.
func NewSessionPreferenceStore(sessions *scs.SessionManager, prefix string) *SessionPreferenceStore {
	if prefix == "" {
		prefix = "backoffice."
	}
	return &SessionPreferenceStore{sessions: sessions, prefix: prefix}
}

// Preference implements PreferenceStore.
func (s *SessionPreferenceStore) Preference(ctx context.Context, key string) (value string, err error) {
	if s == nil || s.sessions == nil {
		return "", ErrStorageUnavailable
	}
	defer recoverSession(&err)
	value = s.sessions.GetString(ctx, s.prefix+key)
	if value == "" {
		return "", ErrPreferenceNotFound
	}
	return value, nil
}

// SavePreference implements PreferenceStore.
func (s *SessionPreferenceStore) SavePreference(ctx context.Context, key, value string) (err error) {
	if s == nil || s.sessions == nil {
		return ErrStorageUnavailable
	}
	defer recoverSession(&err)
	s.sessions.Put(ctx, s.prefix+key, value)
	return nil
}

// scs panics when the context has no session data attached.
func recoverSession(err *error) {
	if r := recover(); r != nil {
		*err = fmt.Errorf("%w: %v", ErrStorageUnavailable, r)
	}
}
