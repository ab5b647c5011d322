package sse

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"colorrush/internal/domain"
	"colorrush/internal/event"
)

// waitRegistered blocks until the hub has processed the registration
func waitRegistered(t *testing.T, hub *Hub, want int) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for hub.ClientCount() < want {
		if time.Now().After(deadline) {
			t.Fatal("timed out waiting for client registration")
		}
		time.Sleep(time.Millisecond)
	}
}

func receiveEvent(t *testing.T, client *Client) Event {
	t.Helper()
	select {
	case evt := <-client.EventChannel:
		return evt
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for SSE event")
		return Event{}
	}
}

func TestHubBroadcastReachesClient(t *testing.T) {
	hub := NewHub()
	hub.Start()
	defer hub.Stop()

	client := hub.Register(nil)
	waitRegistered(t, hub, 1)

	hub.Broadcast(EventTypeRenderState, map[string]int{"balance": 900})

	evt := receiveEvent(t, client)
	assert.Equal(t, EventTypeRenderState, evt.Type)
}

func TestHubFiltersEventTypes(t *testing.T) {
	hub := NewHub()
	hub.Start()
	defer hub.Stop()

	client := hub.Register([]string{EventTypeRoundSettled})
	waitRegistered(t, hub, 1)

	hub.Broadcast(EventTypeRenderState, nil)
	hub.Broadcast(EventTypeRoundSettled, nil)

	evt := receiveEvent(t, client)
	assert.Equal(t, EventTypeRoundSettled, evt.Type, "filtered type skipped")
}

func TestSubscriberBridgesRoundSettled(t *testing.T) {
	hub := NewHub()
	hub.Start()
	defer hub.Stop()

	bus := event.NewMemoryBus()
	NewSubscriber(hub, bus).Subscribe()

	client := hub.Register([]string{EventTypeRoundSettled})
	waitRegistered(t, hub, 1)

	err := bus.Publish(context.Background(), event.NewRoundSettledEvent(domain.RoundResult{
		Round: 3,
		Drawn: domain.ColorGreen,
	}))
	require.NoError(t, err)

	evt := receiveEvent(t, client)
	result, ok := evt.Payload.(domain.RoundResult)
	require.True(t, ok)
	assert.Equal(t, 3, result.Round)
}

func TestFormatSSEMessage(t *testing.T) {
	msg, err := FormatSSEMessage(Event{ID: "abc", Type: "connected", Payload: nil})
	require.NoError(t, err)
	assert.Contains(t, string(msg), "id: abc\n")
	assert.Contains(t, string(msg), "event: connected\n")
	assert.Contains(t, string(msg), "data: ")
}
