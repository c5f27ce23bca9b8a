package redisclient

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
)

//go:embed scripts/add_to_cart.lua
var addToCartScript string

// ErrInvalidQuantity is returned when a cart line would get a non-positive quantity
var ErrInvalidQuantity = errors.New("quantity must be positive")

type Client struct {
	rdb       *redis.Client
	addScript *redis.Script
}

// NewClient creates a new Redis client with Lua scripts loaded
func NewClient(addr, password string, db int) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return NewFromRedis(rdb), nil
}

// NewFromRedis wraps an existing go-redis client
func NewFromRedis(rdb *redis.Client) *Client {
	return &Client{
		rdb:       rdb,
		addScript: redis.NewScript(addToCartScript),
	}
}

// Ping checks the connection, used by the readiness probe
func (c *Client) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

// Close closes the Redis connection
func (c *Client) Close() error {
	return c.rdb.Close()
}

func cartKey(session string) string {
	return fmt.Sprintf("cart:%s", session)
}

func cartField(productID, variationID int64) string {
	return fmt.Sprintf("%d:%d", productID, variationID)
}

// CartLine is one product/variation line of a cart
type CartLine struct {
	ProductID   int64 `json:"product_id"`
	VariationID int64 `json:"variation_id"`
	Quantity    int64 `json:"quantity"`
}

// AddToCart atomically adds quantity to the cart line of the session and
// refreshes the cart TTL. Returns the new line quantity.
func (c *Client) AddToCart(ctx context.Context, session string, productID, variationID int64, quantity int, ttl time.Duration) (int64, error) {
	result, err := c.addScript.Run(ctx, c.rdb,
		[]string{cartKey(session)},
		cartField(productID, variationID), quantity, int64(ttl/time.Second),
	).Result()
	if err != nil {
		return 0, fmt.Errorf("add to cart script failed: %w", err)
	}

	total, ok := result.(int64)
	if !ok {
		return 0, fmt.Errorf("unexpected script result type")
	}
	if total < 0 {
		return 0, ErrInvalidQuantity
	}

	return total, nil
}

// GetCart returns every line of the session's cart ordered by product and
// variation
func (c *Client) GetCart(ctx context.Context, session string) ([]CartLine, error) {
	result, err := c.rdb.HGetAll(ctx, cartKey(session)).Result()
	if err != nil {
		return nil, err
	}

	lines := make([]CartLine, 0, len(result))
	for field, qty := range result {
		parts := strings.SplitN(field, ":", 2)
		if len(parts) != 2 {
			continue
		}
		var line CartLine
		line.ProductID, _ = strconv.ParseInt(parts[0], 10, 64)
		line.VariationID, _ = strconv.ParseInt(parts[1], 10, 64)
		line.Quantity, _ = strconv.ParseInt(qty, 10, 64)
		lines = append(lines, line)
	}

	sort.Slice(lines, func(i, j int) bool {
		if lines[i].ProductID != lines[j].ProductID {
			return lines[i].ProductID < lines[j].ProductID
		}
		return lines[i].VariationID < lines[j].VariationID
	})
	return lines, nil
}
