package broker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"offer-service/internal/models"
	"offer-service/internal/util"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Publisher writes a keyed event to the offer topic
type Publisher interface {
	PublishEvent(ctx context.Context, key string, event interface{}) error
}

// EventPublisher handles publishing domain events
type EventPublisher struct {
	producer Publisher
}

// NewEventPublisher creates a new event publisher
func NewEventPublisher(producer Publisher) *EventPublisher {
	return &EventPublisher{producer: producer}
}

func newBaseEvent(eventType string) models.BaseEvent {
	return models.BaseEvent{
		EventID:   uuid.New().String(),
		EventType: eventType,
		Timestamp: time.Now().UTC(),
	}
}

// PublishCartItemAdded publishes CartItemAdded event
func (ep *EventPublisher) PublishCartItemAdded(ctx context.Context, session string, productID, variationID int64, quantity int) error {
	event := &models.CartItemAddedEvent{
		BaseEvent:   newBaseEvent(models.EventTypeCartItemAdded),
		CartSession: session,
		ProductID:   productID,
		VariationID: variationID,
		Quantity:    quantity,
	}
	return ep.producer.PublishEvent(ctx, fmt.Sprintf("cart-%s", session), event)
}

// PublishOrderSavingsComputed publishes OrderSavingsComputed event
func (ep *EventPublisher) PublishOrderSavingsComputed(ctx context.Context, orderID int64, totalSaved decimal.Decimal) error {
	event := &models.OrderSavingsComputedEvent{
		BaseEvent:  newBaseEvent(models.EventTypeOrderSavingsComputed),
		OrderID:    orderID,
		TotalSaved: totalSaved,
	}
	return ep.producer.PublishEvent(ctx, fmt.Sprintf("order-%d", orderID), event)
}

// EventHandler handles incoming events
type EventHandler struct {
	onOfferUpdated   func(context.Context, *models.OfferUpdatedEvent) error
	onOptionsUpdated func(context.Context, *models.OptionsUpdatedEvent) error
	logger           *zap.Logger
}

// NewEventHandler creates a new event handler
func NewEventHandler() *EventHandler {
	return &EventHandler{logger: util.GetLogger()}
}

// OnOfferUpdated registers a handler for OfferUpdated events
func (eh *EventHandler) OnOfferUpdated(handler func(context.Context, *models.OfferUpdatedEvent) error) {
	eh.onOfferUpdated = handler
}

// OnOptionsUpdated registers a handler for OptionsUpdated events
func (eh *EventHandler) OnOptionsUpdated(handler func(context.Context, *models.OptionsUpdatedEvent) error) {
	eh.onOptionsUpdated = handler
}

// HandleMessage routes messages to appropriate handlers. Events this service
// publishes itself share the topic and are ignored.
func (eh *EventHandler) HandleMessage(ctx context.Context, msg kafka.Message) error {
	var baseEvent models.BaseEvent
	if err := json.Unmarshal(msg.Value, &baseEvent); err != nil {
		return fmt.Errorf("failed to unmarshal base event: %w", err)
	}

	eh.logger.Debug("Handling event",
		zap.String("event_type", baseEvent.EventType), zap.String("event_id", baseEvent.EventID))

	switch baseEvent.EventType {
	case models.EventTypeOfferUpdated:
		if eh.onOfferUpdated != nil {
			var event models.OfferUpdatedEvent
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				return fmt.Errorf("failed to unmarshal OfferUpdated event: %w", err)
			}
			return eh.onOfferUpdated(ctx, &event)
		}

	case models.EventTypeOptionsUpdated:
		if eh.onOptionsUpdated != nil {
			var event models.OptionsUpdatedEvent
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				return fmt.Errorf("failed to unmarshal OptionsUpdated event: %w", err)
			}
			return eh.onOptionsUpdated(ctx, &event)
		}

	case models.EventTypeCartItemAdded, models.EventTypeOrderSavingsComputed:
		// published by this service

	default:
		eh.logger.Warn("Unhandled event type", zap.String("event_type", baseEvent.EventType))
	}

	return nil
}
