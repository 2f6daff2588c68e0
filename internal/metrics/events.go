package metrics

import (
	"context"

	"github.com/packworks/packworks/internal/domain"
	"github.com/packworks/packworks/internal/event"
	"github.com/packworks/packworks/internal/logger"
)

// EventMetricsCollector subscribes to events and records metrics
type EventMetricsCollector struct{}

// NewEventMetricsCollector creates a new event metrics collector
func NewEventMetricsCollector() *EventMetricsCollector {
	return &EventMetricsCollector{}
}

// Register subscribes to all events
func (e *EventMetricsCollector) Register(bus event.Bus) error {
	eventTypes := []event.Type{
		domain.EventTypePackOpened,
		domain.EventTypeCardSold,
		domain.EventTypeCardsConverted,
		domain.EventTypeCardsShipped,
	}

	for _, eventType := range eventTypes {
		bus.Subscribe(eventType, e.HandleEvent)
	}

	return nil
}

// HandleEvent processes events and updates metrics
func (e *EventMetricsCollector) HandleEvent(ctx context.Context, evt event.Event) error {
	log := logger.FromContext(ctx)

	// Always increment event counter
	EventsPublished.WithLabelValues(string(evt.Type)).Inc()

	switch evt.Type {
	case domain.EventTypePackOpened:
		payload, err := event.DecodePayload[domain.PackOpenedPayload](evt.Payload)
		if err != nil {
			log.Debug(LogMsgPayloadDecodeFailed, "type", evt.Type, "error", err)
			return nil
		}
		PacksOpened.WithLabelValues(payload.PackID).Inc()

	case domain.EventTypeCardSold:
		payload, err := event.DecodePayload[domain.CardSoldPayload](evt.Payload)
		if err != nil {
			log.Debug(LogMsgPayloadDecodeFailed, "type", evt.Type, "error", err)
			return nil
		}
		CardsSold.WithLabelValues(string(payload.Rarity)).Inc()
		CreditsEarned.Add(float64(payload.Credits))

	case domain.EventTypeCardsConverted:
		payload, err := event.DecodePayload[domain.CardsConvertedPayload](evt.Payload)
		if err != nil {
			log.Debug(LogMsgPayloadDecodeFailed, "type", evt.Type, "error", err)
			return nil
		}
		CardsConverted.Add(float64(payload.ConvertedCount))
		CreditsEarned.Add(float64(payload.CreditsGained))

	case domain.EventTypeCardsShipped:
		payload, err := event.DecodePayload[domain.CardsShippedPayload](evt.Payload)
		if err != nil {
			log.Debug(LogMsgPayloadDecodeFailed, "type", evt.Type, "error", err)
			return nil
		}
		CardsShipped.Add(float64(len(payload.CardIDs)))
		CreditsSpent.Add(float64(payload.ShippingFee))
	}

	log.Debug(LogMsgMetricsRecorded, "type", evt.Type)
	return nil
}
