package event

import (
	"context"
	"errors"
	"testing"

	"colorrush/internal/domain"
)

func TestMemoryBus_PublishSubscribe(t *testing.T) {
	bus := NewMemoryBus()
	handled := false

	bus.Subscribe(LedgerChanged, func(ctx context.Context, event Event) error {
		if event.Type != LedgerChanged {
			t.Errorf("Expected event type %s, got %s", LedgerChanged, event.Type)
		}
		payload, ok := event.Payload.(domain.LedgerChangedPayloadV1)
		if !ok {
			t.Fatalf("Unexpected payload type %T", event.Payload)
		}
		if payload.Snapshot.Balance != domain.DefaultBalance {
			t.Errorf("Expected balance %d, got %d", domain.DefaultBalance, payload.Snapshot.Balance)
		}
		handled = true
		return nil
	})

	err := bus.Publish(context.Background(), NewLedgerChangedEvent(domain.DefaultSnapshot()))
	if err != nil {
		t.Errorf("Publish returned error: %v", err)
	}

	if !handled {
		t.Error("Handler was not called")
	}
}

func TestMemoryBus_PublishMultipleHandlers(t *testing.T) {
	bus := NewMemoryBus()
	count := 0

	handler := func(ctx context.Context, event Event) error {
		count++
		return nil
	}

	bus.Subscribe(RoundSettled, handler)
	bus.Subscribe(RoundSettled, handler)

	err := bus.Publish(context.Background(), Event{Version: EventSchemaVersion, Type: RoundSettled})
	if err != nil {
		t.Errorf("Publish returned error: %v", err)
	}

	if count != 2 {
		t.Errorf("Expected 2 handlers to be called, got %d", count)
	}
}

func TestMemoryBus_PublishNoSubscribers(t *testing.T) {
	bus := NewMemoryBus()

	err := bus.Publish(context.Background(), NewSessionSignedOutEvent("user-1"))
	if err != nil {
		t.Errorf("Publish with no subscribers returned error: %v", err)
	}
}

func TestMemoryBus_HandlerErrorCollected(t *testing.T) {
	bus := NewMemoryBus()
	wantErr := errors.New("handler failed")

	bus.Subscribe(SessionSignedIn, func(ctx context.Context, event Event) error {
		return wantErr
	})
	bus.Subscribe(SessionSignedIn, func(ctx context.Context, event Event) error {
		return nil
	})

	err := bus.Publish(context.Background(), NewSessionSignedInEvent("user-1", "User One"))
	if err == nil {
		t.Fatal("Expected error from failing handler")
	}
}
