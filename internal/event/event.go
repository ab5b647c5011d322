package event

import (
	"context"
	"fmt"
	"sync"

	"colorrush/internal/domain"
)

// Type represents the type of an event
type Type string

// Event types exchanged between the game engine, session bridge and
// persistence layer.
const (
	LedgerChanged    Type = domain.EventLedgerChanged
	RoundSettled     Type = domain.EventRoundSettled
	SessionSignedIn  Type = domain.EventSessionSignedIn
	SessionSignedOut Type = domain.EventSessionSignedOut
)

// Event represents a generic event in the system
type Event struct {
	Version string      `json:"version"` // Event schema version (e.g., "1.0")
	Type    Type        `json:"type"`
	Payload interface{} `json:"payload"`
}

// NewLedgerChangedEvent builds the single notification emitted per ledger
// mutation. The snapshot must already be a defensive copy.
func NewLedgerChangedEvent(snap domain.Snapshot) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    LedgerChanged,
		Payload: domain.LedgerChangedPayloadV1{Snapshot: snap},
	}
}

// NewRoundSettledEvent builds the round settlement event
func NewRoundSettledEvent(result domain.RoundResult) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    RoundSettled,
		Payload: domain.RoundSettledPayloadV1{Result: result},
	}
}

// NewSessionSignedInEvent builds the sign-in event
func NewSessionSignedInEvent(userID, displayName string) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    SessionSignedIn,
		Payload: domain.SessionPayloadV1{UserID: userID, DisplayName: displayName},
	}
}

// NewSessionSignedOutEvent builds the sign-out event
func NewSessionSignedOutEvent(userID string) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    SessionSignedOut,
		Payload: domain.SessionPayloadV1{UserID: userID},
	}
}

// Handler is a function that handles an event
type Handler func(ctx context.Context, event Event) error

// Bus defines the interface for an event bus
type Bus interface {
	Publish(ctx context.Context, event Event) error
	Subscribe(eventType Type, handler Handler)
}

// MemoryBus is an in-memory implementation of the Event Bus. Handlers run
// synchronously on the publisher's goroutine, preserving the single-timeline
// ordering the game engine relies on.
type MemoryBus struct {
	handlers map[Type][]Handler
	mu       sync.RWMutex
}

// NewMemoryBus creates a new MemoryBus
func NewMemoryBus() *MemoryBus {
	return &MemoryBus{
		handlers: make(map[Type][]Handler),
	}
}

// Publish publishes an event to all subscribers
func (b *MemoryBus) Publish(ctx context.Context, event Event) error {
	b.mu.RLock()
	handlers, ok := b.handlers[event.Type]
	b.mu.RUnlock()

	if !ok {
		return nil
	}

	var errs []error
	for _, handler := range handlers {
		if err := handler(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf(LogMsgHandlerErrorFormat, len(errs), event.Type, errs)
	}

	return nil
}

// Subscribe subscribes a handler to an event type
func (b *MemoryBus) Subscribe(eventType Type, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers[eventType] = append(b.handlers[eventType], handler)
}
