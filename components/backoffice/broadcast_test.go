package backoffice

import (
	"bufio"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBroadcastHookFiltersByView(t *testing.T) {
	hook := NewBroadcastHook()
	one, cancelOne := hook.Subscribe("view-1")
	defer cancelOne()
	all, cancelAll := hook.Subscribe("")
	defer cancelAll()
	assert.Equal(t, 2, hook.Subscribers())

	ctx := context.Background()
	require.NoError(t, hook.Publish(ctx, UIEvent{ViewID: "view-2", Type: EventToastAdded}))
	require.NoError(t, hook.Publish(ctx, UIEvent{ViewID: "view-1", Type: EventModalOpened}))

	select {
	case event := <-one:
		assert.Equal(t, EventModalOpened, event.Type)
	case <-time.After(time.Second):
		t.Fatalf("expected event for view-1")
	}
	assert.Len(t, all, 2)
}

func TestBroadcastHookCancelClosesChannel(t *testing.T) {
	hook := NewBroadcastHook()
	ch, cancel := hook.Subscribe("view-1")
	cancel()
	cancel()
	_, ok := <-ch
	assert.False(t, ok)
	assert.Zero(t, hook.Subscribers())
}

func TestBroadcastHookDropsForSlowSubscribers(t *testing.T) {
	hook := NewBroadcastHook()
	ch, cancel := hook.Subscribe("")
	defer cancel()
	for i := 0; i < 40; i++ {
		require.NoError(t, hook.Publish(context.Background(), UIEvent{Type: EventStateChanged}))
	}
	assert.Equal(t, cap(ch), len(ch))
}

func TestBroadcastHookServeSSE(t *testing.T) {
	hook := NewBroadcastHook()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hook.ServeSSE(w, r, "view-1")
	}))
	defer server.Close()

	resp, err := http.Get(server.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	waitForSubscribers(t, hook, 1)
	ctx := context.Background()
	require.NoError(t, hook.Publish(ctx, UIEvent{ViewID: "view-1", Type: EventToastAdded}))
	require.NoError(t, hook.Publish(ctx, UIEvent{ViewID: "view-1", Type: EventViewUnmounted}))

	reader := bufio.NewReader(resp.Body)
	var lines []string
	for {
		line, err := reader.ReadString('\n')
		if line != "" {
			lines = append(lines, strings.TrimSpace(line))
		}
		if err != nil {
			break
		}
	}
	assert.Contains(t, lines, "event: "+EventToastAdded)
	assert.Contains(t, lines, "event: "+EventViewUnmounted)
}

func TestBroadcastHookServeWebSocket(t *testing.T) {
	hook := NewBroadcastHook()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hook.ServeWebSocket(w, r, "view-1")
	}))
	defer server.Close()

	url := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	waitForSubscribers(t, hook, 1)
	require.NoError(t, hook.Publish(context.Background(), UIEvent{ViewID: "view-1", Type: EventModalClosed}))

	var event UIEvent
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	require.NoError(t, conn.ReadJSON(&event))
	assert.Equal(t, EventModalClosed, event.Type)
	assert.Equal(t, "view-1", event.ViewID)
}

func waitForSubscribers(t *testing.T, hook *BroadcastHook, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for hook.Subscribers() < want {
		if time.Now().After(deadline) {
			t.Fatalf("expected %d subscribers, got %d", want, hook.Subscribers())
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestBroadcastHookWebSocketChecksOrigin(t *testing.T) {
	hook := NewBroadcastHook()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hook.ServeWebSocket(w, r, "view-1")
	}))
	defer server.Close()
	url := "ws" + strings.TrimPrefix(server.URL, "http")

	_, resp, err := websocket.DefaultDialer.Dial(url, http.Header{"Origin": {"http://evil.example"}})
	require.ErrorIs(t, err, websocket.ErrBadHandshake)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Zero(t, hook.Subscribers())

	same, _, err := websocket.DefaultDialer.Dial(url, http.Header{"Origin": {server.URL}})
	require.NoError(t, err)
	same.Close()

	hook.AllowOrigins("HTTP://evil.example/")
	allowed, _, err := websocket.DefaultDialer.Dial(url, http.Header{"Origin": {"http://evil.example"}})
	require.NoError(t, err)
	allowed.Close()
}

func TestBroadcastHookCheckOrigin(t *testing.T) {
	hook := NewBroadcastHook()
	req := httptest.NewRequest(http.MethodGet, "http://shop.example/events", nil)
	assert.True(t, hook.CheckOrigin(req))

	req.Header.Set("Origin", "https://shop.example")
	assert.True(t, hook.CheckOrigin(req))

	req.Header.Set("Origin", "https://other.example")
	assert.False(t, hook.CheckOrigin(req))
	hook.AllowOrigins("https://other.example")
	assert.True(t, hook.CheckOrigin(req))

	req.Header.Set("Origin", "::not a url")
	assert.False(t, hook.CheckOrigin(req))
}
