package worker

import (
	"context"

	"offer-service/internal/broker"
	"offer-service/internal/models"
	"offer-service/internal/redisclient"
	"offer-service/internal/util"

	"go.uber.org/zap"
)

// CacheInvalidator deletes cached entries
type CacheInvalidator interface {
	Delete(ctx context.Context, keys ...string) error
}

// OfferCacheWorker drops cached offers and options when the admin side
// announces a change
type OfferCacheWorker struct {
	consumer     *broker.Consumer
	eventHandler *broker.EventHandler
	cache        CacheInvalidator
	logger       *zap.Logger
}

// NewOfferCacheWorker creates a new offer cache worker
func NewOfferCacheWorker(consumer *broker.Consumer, cache CacheInvalidator) *OfferCacheWorker {
	w := &OfferCacheWorker{
		consumer:     consumer,
		eventHandler: broker.NewEventHandler(),
		cache:        cache,
		logger:       util.GetLogger(),
	}

	w.eventHandler.OnOfferUpdated(w.HandleOfferUpdated)
	w.eventHandler.OnOptionsUpdated(w.HandleOptionsUpdated)

	return w
}

// Start starts the worker
func (w *OfferCacheWorker) Start(ctx context.Context) error {
	w.logger.Info("Starting offer cache worker")
	return w.consumer.StartConsuming(ctx, w.eventHandler.HandleMessage)
}

// Stop stops the worker
func (w *OfferCacheWorker) Stop() error {
	w.logger.Info("Stopping offer cache worker")
	return w.consumer.Close()
}

// HandleOfferUpdated invalidates the cached row of the changed offer
func (w *OfferCacheWorker) HandleOfferUpdated(ctx context.Context, event *models.OfferUpdatedEvent) error {
	ctx, span := util.StartSpan(ctx, "OfferCacheWorker.HandleOfferUpdated")
	defer span.End()

	var keys []string

	switch event.Kind {
	case models.OfferKindFlash:
		offerType := event.OfferType
		if offerType == "" {
			offerType = models.OfferTypeSpecial
		}
		keys = append(keys, redisclient.FlashOfferKey(event.PostID, offerType))
	case models.OfferKindBogo:
		keys = append(keys, redisclient.BogoOfferKey(event.BuyProductID, event.GetProductID))
	default:
		w.logger.Warn("Unknown offer kind", zap.String("kind", event.Kind))
		return nil
	}

	w.logger.Info("Invalidating offer cache",
		zap.String("kind", event.Kind),
		zap.Int64("offer_id", event.OfferID),
		zap.Strings("keys", keys),
	)

	return w.cache.Delete(ctx, keys...)
}

// HandleOptionsUpdated invalidates a cached option blob
func (w *OfferCacheWorker) HandleOptionsUpdated(ctx context.Context, event *models.OptionsUpdatedEvent) error {
	ctx, span := util.StartSpan(ctx, "OfferCacheWorker.HandleOptionsUpdated")
	defer span.End()

	w.logger.Info("Invalidating options cache", zap.String("name", event.Name))
	return w.cache.Delete(ctx, redisclient.OptionKey(event.Name))
}
