package sse

import (
	"context"
	"log/slog"

	"colorrush/internal/domain"
	"colorrush/internal/event"
)

// SessionChangedPayload is the SSE payload for session transitions
type SessionChangedPayload struct {
	SignedIn    bool   `json:"signedIn"`
	DisplayName string `json:"displayName,omitempty"`
}

// Subscriber bridges the internal event bus to the SSE hub
type Subscriber struct {
	hub *Hub
	bus event.Bus
}

// NewSubscriber creates a new SSE subscriber
func NewSubscriber(hub *Hub, bus event.Bus) *Subscriber {
	return &Subscriber{hub: hub, bus: bus}
}

// Subscribe registers handlers for all broadcast event types
func (s *Subscriber) Subscribe() {
	s.bus.Subscribe(event.RoundSettled, s.handleRoundSettled)
	s.bus.Subscribe(event.SessionSignedIn, s.handleSignedIn)
	s.bus.Subscribe(event.SessionSignedOut, s.handleSignedOut)

	slog.Info("SSE subscriber registered for event types",
		"types", []string{
			string(event.RoundSettled),
			string(event.SessionSignedIn),
			string(event.SessionSignedOut),
		})
}

// BroadcastRender pushes display state to connected clients. Wired as
// the engine's render callback; the send is non-blocking, so a slow
// client can never stall the game timeline.
func (s *Subscriber) BroadcastRender(state domain.RenderState) {
	s.hub.Broadcast(EventTypeRenderState, state)
}

func (s *Subscriber) handleRoundSettled(_ context.Context, evt event.Event) error {
	payload, ok := evt.Payload.(domain.RoundSettledPayloadV1)
	if !ok {
		slog.Warn("Invalid round settled event payload type")
		return nil
	}

	s.hub.Broadcast(EventTypeRoundSettled, payload.Result)

	slog.Debug(LogMsgEventBroadcast,
		"event_type", EventTypeRoundSettled,
		"round", payload.Result.Round,
		"drawn", string(payload.Result.Drawn))
	return nil
}

func (s *Subscriber) handleSignedIn(_ context.Context, evt event.Event) error {
	payload, ok := evt.Payload.(domain.SessionPayloadV1)
	if !ok {
		slog.Warn("Invalid session event payload type")
		return nil
	}

	s.hub.Broadcast(EventTypeSessionChanged, SessionChangedPayload{
		SignedIn:    true,
		DisplayName: payload.DisplayName,
	})
	return nil
}

func (s *Subscriber) handleSignedOut(_ context.Context, evt event.Event) error {
	s.hub.Broadcast(EventTypeSessionChanged, SessionChangedPayload{SignedIn: false})
	return nil
}
