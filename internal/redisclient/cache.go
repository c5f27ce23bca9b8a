package redisclient

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// FlashOfferKey caches the flash offer of a post
func FlashOfferKey(postID int64, offerType string) string {
	return fmt.Sprintf("offer:flash:%d:%s", postID, offerType)
}

// BogoOfferKey caches the BOGO row of a product pair
func BogoOfferKey(buyProductID, getProductID int64) string {
	return fmt.Sprintf("offer:bogo:%d:%d", buyProductID, getProductID)
}

// OptionKey caches an option blob
func OptionKey(name string) string {
	return fmt.Sprintf("offer:option:%s", name)
}

// GetJSON decodes the cached value into dest. It reports false on a miss.
func (c *Client) GetJSON(ctx context.Context, key string, dest interface{}) (bool, error) {
	raw, err := c.rdb.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return false, fmt.Errorf("failed to decode cached %s: %w", key, err)
	}
	return true, nil
}

// SetJSON stores value as JSON with a TTL
func (c *Client) SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	return c.rdb.Set(ctx, key, raw, ttl).Err()
}

// Delete removes cached keys
func (c *Client) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return c.rdb.Del(ctx, keys...).Err()
}
