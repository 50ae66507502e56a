package backoffice

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryPreferenceStoreScopesByViewer(t *testing.T) {
	store := NewInMemoryPreferenceStore()
	ana := ContextWithViewer(context.Background(), ViewerContext{UserID: "ana"})
	ben := ContextWithViewer(context.Background(), ViewerContext{UserID: "ben"})

	require.NoError(t, store.SavePreference(ana, PreferenceTheme, "dark-mode"))
	value, err := store.Preference(ana, PreferenceTheme)
	require.NoError(t, err)
	assert.Equal(t, "dark-mode", value)

	_, err = store.Preference(ben, PreferenceTheme)
	assert.ErrorIs(t, err, ErrPreferenceNotFound)

	require.NoError(t, store.SavePreference(ana, PreferenceTheme, "light-mode"))
	value, _ = store.Preference(ana, PreferenceTheme)
	assert.Equal(t, "light-mode", value, "last write wins")
}

func TestUnavailablePreferenceStore(t *testing.T) {
	store := UnavailablePreferenceStore{}
	_, err := store.Preference(context.Background(), PreferenceTheme)
	assert.ErrorIs(t, err, ErrStorageUnavailable)
	assert.ErrorIs(t, store.SavePreference(context.Background(), PreferenceTheme, "x"), ErrStorageUnavailable)
}

func TestPreferencesFallBackOnEmptyValue(t *testing.T) {
	store := NewInMemoryPreferenceStore()
	ctx := context.Background()
	require.NoError(t, store.SavePreference(ctx, PreferenceActiveSection, ""))
	prefs := newPreferences(store, nil)
	assert.Equal(t, "dashboard", prefs.read(ctx, PreferenceActiveSection, "dashboard"))
	assert.Equal(t, "fallback", newPreferences(nil, nil).read(ctx, "k", "fallback"))
}

func TestSessionPreferenceStore(t *testing.T) {
	sessions := scs.New()
	store := NewSessionPreferenceStore(sessions, "")

	var (
		value string
		err   error
	)
	handler := sessions.LoadAndSave(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err = store.SavePreference(r.Context(), PreferenceTheme, "dark-mode"); err != nil {
			return
		}
		value, err = store.Preference(r.Context(), PreferenceTheme)
		w.WriteHeader(http.StatusNoContent)
	}))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	assert.Equal(t, "dark-mode", value)
	assert.Equal(t, "dark-mode", sessionValueAfter(t, sessions, rec))
}

func sessionValueAfter(t *testing.T, sessions *scs.SessionManager, rec *httptest.ResponseRecorder) string {
	t.Helper()
	cookies := rec.Result().Cookies()
	require.NotEmpty(t, cookies)
	var value string
	handler := sessions.LoadAndSave(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		value = sessions.GetString(r.Context(), "backoffice."+PreferenceTheme)
	}))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	handler.ServeHTTP(httptest.NewRecorder(), req)
	return value
}

func TestSessionPreferenceStoreWithoutSession(t *testing.T) {
	store := NewSessionPreferenceStore(scs.New(), "")
	_, err := store.Preference(context.Background(), PreferenceTheme)
	assert.ErrorIs(t, err, ErrStorageUnavailable)
	assert.ErrorIs(t, store.SavePreference(context.Background(), PreferenceTheme, "x"), ErrStorageUnavailable)

	var nilStore *SessionPreferenceStore
	_, err = nilStore.Preference(context.Background(), PreferenceTheme)
	assert.ErrorIs(t, err, ErrStorageUnavailable)
}

func TestRedisPreferenceStoreOptions(t *testing.T) {
	_, err := NewRedisPreferenceStore(RedisPreferenceOptions{})
	assert.Error(t, err)
	_, err = NewRedisPreferenceStore(RedisPreferenceOptions{URL: "://bad"})
	assert.Error(t, err)
}

func TestRedisPreferenceStore(t *testing.T) {
	url := os.Getenv("BACKOFFICE_TEST_REDIS_URL")
	if url == "" {
		t.Skip("BACKOFFICE_TEST_REDIS_URL not set")
	}
	store, err := NewRedisPreferenceStore(RedisPreferenceOptions{
		URL:         url,
		Prefix:      "backoffice-test:" + uuid.NewString() + ":",
		TTL:         time.Minute,
		DialTimeout: time.Second,
	})
	require.NoError(t, err)
	defer store.Close()

	ctx := ContextWithViewer(context.Background(), ViewerContext{UserID: "ana"})
	_, err = store.Preference(ctx, PreferenceTheme)
	assert.ErrorIs(t, err, ErrPreferenceNotFound)

	require.NoError(t, store.SavePreference(ctx, PreferenceTheme, "dark-mode"))
	value, err := store.Preference(ctx, PreferenceTheme)
	require.NoError(t, err)
	assert.Equal(t, "dark-mode", value)

	_, err = store.Preference(context.Background(), PreferenceTheme)
	assert.ErrorIs(t, err, ErrPreferenceNotFound, "anonymous viewers use their own keys")
}
