package metrics

import (
	"context"

	"colorrush/internal/domain"
	"colorrush/internal/event"
	"colorrush/internal/logger"
)

// EventMetricsCollector subscribes to game events and records metrics
type EventMetricsCollector struct{}

// NewEventMetricsCollector creates a new event metrics collector
func NewEventMetricsCollector() *EventMetricsCollector {
	return &EventMetricsCollector{}
}

// Register subscribes to all events
func (e *EventMetricsCollector) Register(bus event.Bus) error {
	for _, eventType := range []event.Type{
		event.LedgerChanged,
		event.RoundSettled,
		event.SessionSignedIn,
		event.SessionSignedOut,
	} {
		bus.Subscribe(eventType, e.HandleEvent)
	}
	return nil
}

// HandleEvent processes events and updates metrics
func (e *EventMetricsCollector) HandleEvent(ctx context.Context, evt event.Event) error {
	log := logger.FromContext(ctx)

	EventsPublished.WithLabelValues(string(evt.Type)).Inc()

	if evt.Type == event.RoundSettled {
		payload, ok := evt.Payload.(domain.RoundSettledPayloadV1)
		if !ok {
			return nil
		}
		result := payload.Result
		RoundsResolved.WithLabelValues(string(result.Drawn)).Inc()
		if result.Staked {
			PointsWon.Add(float64(result.Winnings))
		}
	}

	log.Debug(LogMsgMetricsRecorded, "type", evt.Type)
	return nil
}
