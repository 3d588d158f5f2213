package realtime

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func receive(t *testing.T, sub *Subscription) Event {
	t.Helper()
	select {
	case ev, ok := <-sub.C:
		require.True(t, ok, "subscription closed")
		return ev
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
	}
	return Event{}
}

func subscriberCount(h *Hub, topic string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.topics[topic])
}

func TestHubPublishesToTopicSubscribers(t *testing.T) {
	hub := NewHub(nil)
	a := hub.Subscribe("p1")
	b := hub.Subscribe("p1")
	other := hub.Subscribe("p2")

	hub.Publish("p1", Event{Type: "updated"})

	assert.Equal(t, "updated", receive(t, a).Type)
	assert.Equal(t, "updated", receive(t, b).Type)
	select {
	case ev := <-other.C:
		t.Fatalf("unexpected event %v", ev)
	default:
	}
	assert.Equal(t, 2, subscriberCount(hub, "p1"))
}

func TestHubCancelClosesChannel(t *testing.T) {
	hub := NewHub(nil)
	sub := hub.Subscribe("p1")
	sub.Cancel()
	sub.Cancel()

	_, ok := <-sub.C
	assert.False(t, ok)
	assert.Equal(t, 0, subscriberCount(hub, "p1"))
	hub.Publish("p1", Event{Type: "updated"})
}

func TestHubDropsSlowSubscriber(t *testing.T) {
	hub := NewHub(nil)
	sub := hub.Subscribe("p1")
	for i := 0; i < subscriberBuffer+1; i++ {
		hub.Publish("p1", Event{Type: "updated"})
	}
	assert.Equal(t, 0, subscriberCount(hub, "p1"))

	count := 0
	for range sub.C {
		count++
	}
	assert.Equal(t, subscriberBuffer, count)
}

func TestHubClose(t *testing.T) {
	hub := NewHub(nil)
	sub := hub.Subscribe("p1")
	hub.Close()
	_, ok := <-sub.C
	assert.False(t, ok)

	late := hub.Subscribe("p1")
	_, ok = <-late.C
	assert.False(t, ok)
}

func TestStreamDeliversUntilStop(t *testing.T) {
	hub := NewHub(nil)
	upgrader := NewUpgrader(nil)
	subscribed := make(chan struct{})

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		sub := hub.Subscribe("p1")
		close(subscribed)
		Stream(conn, sub, Event{Type: "snapshot"}, func(ev Event) bool { return ev.Type == "submitted" }, nil)
	}))
	defer server.Close()

	url := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	var ev Event
	require.NoError(t, conn.ReadJSON(&ev))
	assert.Equal(t, "snapshot", ev.Type)

	<-subscribed
	hub.Publish("p1", Event{Type: "processing"})
	hub.Publish("p1", Event{Type: "submitted"})

	require.NoError(t, conn.ReadJSON(&ev))
	assert.Equal(t, "processing", ev.Type)
	require.NoError(t, conn.ReadJSON(&ev))
	assert.Equal(t, "submitted", ev.Type)

	_, _, err = conn.ReadMessage()
	assert.True(t, websocket.IsCloseError(err, websocket.CloseNormalClosure))
}

func TestUpgraderChecksOrigin(t *testing.T) {
	upgrader := NewUpgrader([]string{"https://dsa.example"})
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "https://DSA.example")
	assert.True(t, upgrader.CheckOrigin(req))
	req.Header.Set("Origin", "https://evil.example")
	assert.False(t, upgrader.CheckOrigin(req))
}
