package service

import (
	"context"
	"time"

	"offer-service/internal/models"
	"offer-service/internal/redisclient"
	"offer-service/internal/util"

	"go.uber.org/zap"
)

// CachedOfferRepository serves offer rows and option blobs from Redis and
// falls back to the wrapped repository on a miss. Cache failures never fail
// a lookup.
type CachedOfferRepository struct {
	OfferRepository
	cache  JSONCache
	ttl    time.Duration
	logger *zap.Logger
}

// NewCachedOfferRepository wraps repo. A zero ttl disables caching.
func NewCachedOfferRepository(repo OfferRepository, cache JSONCache, ttl time.Duration) OfferRepository {
	if ttl <= 0 || cache == nil {
		return repo
	}
	return &CachedOfferRepository{
		OfferRepository: repo,
		cache:           cache,
		ttl:             ttl,
		logger:          util.GetLogger(),
	}
}

func (r *CachedOfferRepository) get(ctx context.Context, key string, dest interface{}) bool {
	found, err := r.cache.GetJSON(ctx, key, dest)
	if err != nil {
		util.OfferCacheTotal.WithLabelValues("error").Inc()
		r.logger.Warn("Offer cache read failed", zap.String("key", key), zap.Error(err))
		return false
	}
	if found {
		util.OfferCacheTotal.WithLabelValues("hit").Inc()
	} else {
		util.OfferCacheTotal.WithLabelValues("miss").Inc()
	}
	return found
}

func (r *CachedOfferRepository) set(ctx context.Context, key string, value interface{}) {
	if err := r.cache.SetJSON(ctx, key, value, r.ttl); err != nil {
		r.logger.Warn("Offer cache write failed", zap.String("key", key), zap.Error(err))
	}
}

// GetFlashOfferByPostID implements OfferRepository
func (r *CachedOfferRepository) GetFlashOfferByPostID(ctx context.Context, postID int64, offerType string) (*models.FlashOffer, error) {
	key := redisclient.FlashOfferKey(postID, offerType)

	var cached models.FlashOffer
	if r.get(ctx, key, &cached) {
		return &cached, nil
	}

	offer, err := r.OfferRepository.GetFlashOfferByPostID(ctx, postID, offerType)
	if err != nil || offer == nil {
		return offer, err
	}
	r.set(ctx, key, offer)
	return offer, nil
}

// GetBogoOfferByProducts implements OfferRepository
func (r *CachedOfferRepository) GetBogoOfferByProducts(ctx context.Context, buyProductID, getProductID int64) (*models.BogoOffer, error) {
	key := redisclient.BogoOfferKey(buyProductID, getProductID)

	var cached models.BogoOffer
	if r.get(ctx, key, &cached) {
		return &cached, nil
	}

	offer, err := r.OfferRepository.GetBogoOfferByProducts(ctx, buyProductID, getProductID)
	if err != nil || offer == nil {
		return offer, err
	}
	r.set(ctx, key, offer)
	return offer, nil
}

// GetOption implements OfferRepository
func (r *CachedOfferRepository) GetOption(ctx context.Context, name string, dest interface{}) (bool, error) {
	key := redisclient.OptionKey(name)

	if r.get(ctx, key, dest) {
		return true, nil
	}

	found, err := r.OfferRepository.GetOption(ctx, name, dest)
	if err != nil || !found {
		return found, err
	}
	r.set(ctx, key, dest)
	return true, nil
}
