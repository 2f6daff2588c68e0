package event

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/packworks/packworks/internal/domain"
)

// Type represents the type of an event
type Type string

// Metadata defines the type for event metadata
type Metadata interface{}

// Event represents a generic event in the system
type Event struct {
	Version  string      `json:"version"` // Event schema version (e.g., "1.0")
	Type     Type        `json:"type"`
	Payload  interface{} `json:"payload"`
	Metadata Metadata    `json:"metadata"`
}

// GetMetadataValue extracts a value from the event metadata safely
func (e Event) GetMetadataValue(key string) interface{} {
	if e.Metadata == nil {
		return nil
	}
	if m, ok := e.Metadata.(map[string]interface{}); ok {
		return m[key]
	}
	return nil
}

// Type-safe event constructors

// NewPackOpenedEvent creates a pack.opened event. BestRarity and BestName
// describe the rarest card in the pull (announcers key off them).
func NewPackOpenedEvent(userID, packID string, cardIDs []string, bestRarity domain.Rarity, bestName string, totalValue int) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    Type(domain.EventTypePackOpened),
		Payload: domain.PackOpenedPayload{
			UserID:     userID,
			PackID:     packID,
			CardIDs:    cardIDs,
			BestRarity: bestRarity,
			BestName:   bestName,
			TotalValue: totalValue,
			Timestamp:  time.Now().Unix(),
		},
		Metadata: nil,
	}
}

// NewCardSoldEvent creates a card.sold event
func NewCardSoldEvent(userID string, card domain.Card, credits int) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    Type(domain.EventTypeCardSold),
		Payload: domain.CardSoldPayload{
			UserID:    userID,
			CardID:    card.ID,
			CardName:  card.Name,
			Rarity:    card.Rarity,
			Credits:   credits,
			Timestamp: time.Now().Unix(),
		},
		Metadata: nil,
	}
}

// NewCardsConvertedEvent creates a cards.converted event after an expiry sweep
func NewCardsConvertedEvent(userID string, convertedIDs []string, creditsGained int) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    Type(domain.EventTypeCardsConverted),
		Payload: domain.CardsConvertedPayload{
			UserID:         userID,
			ConvertedIDs:   convertedIDs,
			ConvertedCount: len(convertedIDs),
			CreditsGained:  creditsGained,
			Timestamp:      time.Now().Unix(),
		},
		Metadata: nil,
	}
}

// NewCardsShippedEvent creates a cards.shipped event
func NewCardsShippedEvent(userID string, cardIDs []string, shippingFee int) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    Type(domain.EventTypeCardsShipped),
		Payload: domain.CardsShippedPayload{
			UserID:      userID,
			CardIDs:     cardIDs,
			ShippingFee: shippingFee,
			Timestamp:   time.Now().Unix(),
		},
		Metadata: nil,
	}
}

// Handler is a function that handles an event
type Handler func(ctx context.Context, event Event) error

// Bus defines the interface for an event bus
type Bus interface {
	Publish(ctx context.Context, event Event) error
	Subscribe(eventType Type, handler Handler)
}

// MemoryBus is an in-memory implementation of the Event Bus
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

	// Handlers run synchronously; slow consumers belong behind the
	// resilient publisher, not on the bus.
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
