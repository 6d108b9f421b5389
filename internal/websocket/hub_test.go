package websocket

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startHub(t *testing.T) *Hub {
	t.Helper()
	hub := NewHub()
	go hub.Run()
	return hub
}

func receive(t *testing.T, client *Client) Event {
	t.Helper()
	select {
	case payload, ok := <-client.Send:
		require.True(t, ok, "send channel closed")
		var event Event
		require.NoError(t, json.Unmarshal(payload, &event))
		return event
	case <-time.After(time.Second):
		t.Fatal("no event received")
		return Event{}
	}
}

func TestHub_SendToUserReachesEverySession(t *testing.T) {
	hub := startHub(t)

	phone := NewClient(hub, nil, 7)
	laptop := NewClient(hub, nil, 7)
	other := NewClient(hub, nil, 8)
	hub.Register(phone)
	hub.Register(laptop)
	hub.Register(other)

	require.Eventually(t, func() bool { return hub.SessionCount(7) == 2 }, time.Second, 5*time.Millisecond)

	require.NoError(t, hub.SendToUser(7, "notification", map[string]interface{}{"title": "Yeni Mesaj"}))

	for _, c := range []*Client{phone, laptop} {
		event := receive(t, c)
		assert.Equal(t, "notification", event.Type)
	}
	assert.Len(t, other.Send, 0)
}

func TestHub_Unregister(t *testing.T) {
	hub := startHub(t)

	client := NewClient(hub, nil, 3)
	hub.Register(client)
	require.Eventually(t, func() bool { return hub.IsUserOnline(3) }, time.Second, 5*time.Millisecond)

	hub.Unregister(client)
	require.Eventually(t, func() bool { return !hub.IsUserOnline(3) }, time.Second, 5*time.Millisecond)

	_, ok := <-client.Send
	assert.False(t, ok)

	// pushing to an offline user is not an error
	assert.NoError(t, hub.SendToUser(3, "notification", nil))
}

func TestHub_HandleClientMessage(t *testing.T) {
	hub := NewHub()
	client := NewClient(hub, nil, 1)

	hub.HandleClientMessage(client, []byte(`{"type":"ping"}`))
	event := receive(t, client)
	assert.Equal(t, "pong", event.Type)

	hub.HandleClientMessage(client, []byte(`not json`))
	assert.Len(t, client.Send, 0)

	for i := 0; i < maxMessagesPerSecond+5; i++ {
		hub.HandleClientMessage(client, []byte(`{"type":"ping"}`))
	}
	assert.LessOrEqual(t, len(client.Send), maxMessagesPerSecond)
}
